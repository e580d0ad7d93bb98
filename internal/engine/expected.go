package engine

// ComputeExpectedWounds returns the expected number of wounds that get past
// the defender's saves.
func ComputeExpectedWounds(p AttackProfile, m ModifierSet) float64 {
	return Compute(p, m).ExpectedWounds
}

// Compute runs the hit -> wound -> save chain over expectations and keeps
// the intermediate values.
//
// Order matters: sustained hits are added before lethal hits are split off,
// so bonus hits can be lethal too. Lethal hits skip the wound roll but still
// face saves. Devastating wounds skip saves.
func Compute(p AttackProfile, m ModifierSet) Breakdown {
	var b Breakdown

	b.HitProb = ApplyReroll(SuccessProbability(p.HitThreshold), m.HitReroll)
	b.WoundProb = ApplyReroll(SuccessProbability(p.WoundThreshold), m.WoundReroll)

	save := p.SaveThreshold
	if m.ImprovedAP {
		save++ // no upper clamp: 6+ becomes 7+, which never saves
	}
	b.SaveProb = SuccessProbability(save)

	hits := float64(p.Attacks) * b.HitProb
	if m.SustainedHits {
		b.SustainedHits = hits / 6
		hits += b.SustainedHits
	}
	if m.LethalHits {
		b.LethalHits = hits / 6
		hits -= b.LethalHits
	}
	b.SuccessfulHits = hits

	b.NormalWounds = hits * b.WoundProb
	if m.DevastatingWounds {
		b.DevastatingWounds = hits * b.WoundProb / 6
		b.NormalWounds -= b.DevastatingWounds
	}

	failSave := 1 - b.SaveProb
	b.NormalWoundsAfterSaves = b.NormalWounds * failSave
	b.LethalWoundsAfterSaves = b.LethalHits * failSave
	b.ExpectedWounds = b.NormalWoundsAfterSaves + b.DevastatingWounds + b.LethalWoundsAfterSaves
	return b
}
