package engine

// AttackProfile holds the dice pool and the three roll thresholds.
type AttackProfile struct {
	Attacks        int `json:"attacks"`
	HitThreshold   int `json:"hit"`
	WoundThreshold int `json:"wound"`
	SaveThreshold  int `json:"save"` // defender's save; improved AP makes it one harder
}

// DefaultProfile is one attack hitting, wounding and saving on 3+.
func DefaultProfile() AttackProfile {
	return AttackProfile{Attacks: 1, HitThreshold: 3, WoundThreshold: 3, SaveThreshold: 3}
}

// ModifierSet is the set of rules that alter the hit/wound/save chain.
type ModifierSet struct {
	HitReroll         RerollMode `json:"hit_reroll"`
	WoundReroll       RerollMode `json:"wound_reroll"`
	SustainedHits     bool       `json:"sustained_hits"`
	LethalHits        bool       `json:"lethal_hits"`
	DevastatingWounds bool       `json:"devastating_wounds"`
	ImprovedAP        bool       `json:"improved_ap"`
}

func (m ModifierSet) RerollAllHits() bool     { return m.HitReroll == RerollAll }
func (m ModifierSet) RerollHitsOfOne() bool   { return m.HitReroll == RerollOnes }
func (m ModifierSet) RerollAllWounds() bool   { return m.WoundReroll == RerollAll }
func (m ModifierSet) RerollWoundsOfOne() bool { return m.WoundReroll == RerollOnes }

// Breakdown records every intermediate expectation of one calculation.
type Breakdown struct {
	HitProb                float64 `json:"hit_prob"`
	WoundProb              float64 `json:"wound_prob"`
	SaveProb               float64 `json:"save_prob"`
	SuccessfulHits         float64 `json:"successful_hits"`
	SustainedHits          float64 `json:"sustained_hits"`
	LethalHits             float64 `json:"lethal_hits"`
	NormalWounds           float64 `json:"normal_wounds"`
	DevastatingWounds      float64 `json:"devastating_wounds"`
	NormalWoundsAfterSaves float64 `json:"normal_wounds_after_saves"`
	LethalWoundsAfterSaves float64 `json:"lethal_wounds_after_saves"`
	ExpectedWounds         float64 `json:"expected_wounds"`
}
