package game

import "github.com/pefman/w40k-wounds/internal/engine"

// WeaponSnapshot carries the datasheet numbers needed to build an attack profile
type WeaponSnapshot struct {
	Name     string `json:"name,omitempty"`
	Attacks  int    `json:"attacks"`
	Skill    int    `json:"skill"` // BS/WS, hit threshold (2-6)
	Strength int    `json:"strength"`
}

// TargetSnapshot is the defending side
type TargetSnapshot struct {
	Name      string `json:"name,omitempty"`
	Toughness int    `json:"toughness"`
	Sv        int    `json:"sv"` // armour save (2-6)
}

// Profile converts datasheet stats into the thresholds the calculator works on.
func Profile(w WeaponSnapshot, t TargetSnapshot) engine.AttackProfile {
	return engine.AttackProfile{
		Attacks:        w.Attacks,
		HitThreshold:   w.Skill,
		WoundThreshold: WoundTarget(w.Strength, t.Toughness),
		SaveThreshold:  t.Sv,
	}
}
