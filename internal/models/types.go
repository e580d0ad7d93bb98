package models

import (
	"errors"
	"fmt"

	"github.com/pefman/w40k-wounds/internal/engine"
	"github.com/pefman/w40k-wounds/internal/game"
	"github.com/pefman/w40k-wounds/internal/session"
)

// ========================= Wire Models =========================
// JSON shapes for the HTTP API and the websocket session.

var ErrConflictingRerolls = errors.New("conflicting reroll modifiers")

// Profile mirrors the four numeric inputs of the calculator.
type Profile struct {
	Attacks int `json:"attacks"`
	Hit     int `json:"hit"`
	Wound   int `json:"wound"`
	Save    int `json:"save"`
}

// Modifiers uses the toggle names the UI shows. Each reroll pair may have at most one flag set.
type Modifiers struct {
	RerollAllHits     bool `json:"reroll_all_hits,omitempty"`
	RerollHitsOfOne   bool `json:"reroll_hits_of_one,omitempty"`
	RerollAllWounds   bool `json:"reroll_all_wounds,omitempty"`
	RerollWoundsOfOne bool `json:"reroll_wounds_of_one,omitempty"`
	SustainedHits     bool `json:"sustained_hits,omitempty"`
	LethalHits        bool `json:"lethal_hits,omitempty"`
	DevastatingWounds bool `json:"devastating_wounds,omitempty"`
	ImprovedAP        bool `json:"improved_ap,omitempty"`
}

// CalcRequest is the body of POST /api/expected-wounds.
// Either Profile or Weapon+Target must be present; Profile wins when both are.
type CalcRequest struct {
	Profile   *Profile             `json:"profile,omitempty"`
	Weapon    *game.WeaponSnapshot `json:"weapon,omitempty"`
	Target    *game.TargetSnapshot `json:"target,omitempty"`
	Modifiers Modifiers            `json:"modifiers"`
}

// CalcResponse is returned by the calculation endpoint.
type CalcResponse struct {
	ExpectedWounds float64          `json:"expected_wounds"`
	Display        string           `json:"display"`
	Profile        Profile          `json:"profile"`
	Modifiers      Modifiers        `json:"modifiers"`
	Breakdown      engine.Breakdown `json:"breakdown"`
}

// WsMsg is the websocket envelope in both directions.
type WsMsg struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// SetData is the payload of a client "set" message.
type SetData struct {
	Field string `json:"field"`
	Value int    `json:"value"`
}

// ToggleData is the payload of a client "toggle" message.
type ToggleData struct {
	Modifier string `json:"modifier"`
	On       bool   `json:"on"`
}

// StateData is pushed after every accepted change.
type StateData struct {
	Profile        Profile          `json:"profile"`
	Modifiers      Modifiers        `json:"modifiers"`
	ExpectedWounds float64          `json:"expected_wounds"`
	Display        string           `json:"display"`
	Breakdown      engine.Breakdown `json:"breakdown"`
}

func (p Profile) Engine() engine.AttackProfile {
	return engine.AttackProfile{Attacks: p.Attacks, HitThreshold: p.Hit, WoundThreshold: p.Wound, SaveThreshold: p.Save}
}

func ProfileFrom(p engine.AttackProfile) Profile {
	return Profile{Attacks: p.Attacks, Hit: p.HitThreshold, Wound: p.WoundThreshold, Save: p.SaveThreshold}
}

// Validate applies the same limits the UI enforces before calling the engine.
// Attacks may be zero here so callers can ask for an empty pool.
func (p Profile) Validate() error {
	if p.Attacks < 0 {
		return fmt.Errorf("attacks=%d: %w", p.Attacks, session.ErrOutOfRange)
	}
	for _, f := range []struct {
		name string
		v    int
	}{{"hit", p.Hit}, {"wound", p.Wound}, {"save", p.Save}} {
		if !session.ValidThreshold(f.v) {
			return fmt.Errorf("%s=%d: %w", f.name, f.v, session.ErrOutOfRange)
		}
	}
	return nil
}

// Engine converts the toggles, refusing a pair with both flags set.
func (m Modifiers) Engine() (engine.ModifierSet, error) {
	if m.RerollAllHits && m.RerollHitsOfOne {
		return engine.ModifierSet{}, fmt.Errorf("hit rerolls: %w", ErrConflictingRerolls)
	}
	if m.RerollAllWounds && m.RerollWoundsOfOne {
		return engine.ModifierSet{}, fmt.Errorf("wound rerolls: %w", ErrConflictingRerolls)
	}
	return engine.ModifierSet{
		HitReroll:         engine.RerollFromFlags(m.RerollAllHits, m.RerollHitsOfOne),
		WoundReroll:       engine.RerollFromFlags(m.RerollAllWounds, m.RerollWoundsOfOne),
		SustainedHits:     m.SustainedHits,
		LethalHits:        m.LethalHits,
		DevastatingWounds: m.DevastatingWounds,
		ImprovedAP:        m.ImprovedAP,
	}, nil
}

func ModifiersFrom(m engine.ModifierSet) Modifiers {
	return Modifiers{
		RerollAllHits:     m.RerollAllHits(),
		RerollHitsOfOne:   m.RerollHitsOfOne(),
		RerollAllWounds:   m.RerollAllWounds(),
		RerollWoundsOfOne: m.RerollWoundsOfOne(),
		SustainedHits:     m.SustainedHits,
		LethalHits:        m.LethalHits,
		DevastatingWounds: m.DevastatingWounds,
		ImprovedAP:        m.ImprovedAP,
	}
}

// Resolve turns a request into validated engine inputs.
func (r CalcRequest) Resolve() (engine.AttackProfile, engine.ModifierSet, error) {
	var p Profile
	switch {
	case r.Profile != nil:
		p = *r.Profile
	case r.Weapon != nil && r.Target != nil:
		p = ProfileFrom(game.Profile(*r.Weapon, *r.Target))
	default:
		return engine.AttackProfile{}, engine.ModifierSet{}, errors.New("profile or weapon+target required")
	}
	if err := p.Validate(); err != nil {
		return engine.AttackProfile{}, engine.ModifierSet{}, err
	}
	mods, err := r.Modifiers.Engine()
	if err != nil {
		return engine.AttackProfile{}, engine.ModifierSet{}, err
	}
	return p.Engine(), mods, nil
}

func NewCalcResponse(p engine.AttackProfile, m engine.ModifierSet, b engine.Breakdown) CalcResponse {
	return CalcResponse{
		ExpectedWounds: b.ExpectedWounds,
		Display:        FormatWounds(b.ExpectedWounds),
		Profile:        ProfileFrom(p),
		Modifiers:      ModifiersFrom(m),
		Breakdown:      b,
	}
}

func NewStateData(s session.Snapshot) StateData {
	return StateData{
		Profile:        ProfileFrom(s.Profile),
		Modifiers:      ModifiersFrom(s.Modifiers),
		ExpectedWounds: s.Breakdown.ExpectedWounds,
		Display:        FormatWounds(s.Breakdown.ExpectedWounds),
		Breakdown:      s.Breakdown,
	}
}
