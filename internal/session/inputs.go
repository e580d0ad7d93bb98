// Package session holds the calculator's editable inputs and recomputes the
// expected wounds every time one of them changes.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pefman/w40k-wounds/internal/engine"
)

var (
	ErrOutOfRange      = errors.New("value out of range")
	ErrUnknownField    = errors.New("unknown field")
	ErrUnknownModifier = errors.New("unknown modifier")
)

// Field names accepted by Set.
const (
	FieldAttacks = "attacks"
	FieldHit     = "hit"
	FieldWound   = "wound"
	FieldSave    = "save"
)

// Modifier names accepted by Toggle.
const (
	ModRerollAllHits     = "reroll_all_hits"
	ModRerollHitsOfOne   = "reroll_hits_of_one"
	ModRerollAllWounds   = "reroll_all_wounds"
	ModRerollWoundsOfOne = "reroll_wounds_of_one"
	ModSustainedHits     = "sustained_hits"
	ModLethalHits        = "lethal_hits"
	ModDevastating       = "devastating_wounds"
	ModImprovedAP        = "improved_ap"
)

// Snapshot is a consistent view of the inputs and the result computed from them.
type Snapshot struct {
	Profile   engine.AttackProfile `json:"profile"`
	Modifiers engine.ModifierSet   `json:"modifiers"`
	Breakdown engine.Breakdown     `json:"breakdown"`
}

// Inputs is the mutable side of the calculator. The core never sees it: every
// accepted change passes a copy of the profile and modifiers to the engine.
type Inputs struct {
	// notifyMu is held from the change through its onChange call so
	// notifications arrive in the order the changes were applied.
	notifyMu sync.Mutex
	mu       sync.Mutex
	profile  engine.AttackProfile
	mods     engine.ModifierSet
	last     Snapshot
	onChange func(Snapshot)
}

// NewInputs starts from the defaults (1 attack, 3+ everywhere, no modifiers).
// onChange may be nil. It may read Snapshot but must not call a setter.
func NewInputs(onChange func(Snapshot)) *Inputs {
	in := &Inputs{profile: engine.DefaultProfile(), onChange: onChange}
	in.mu.Lock()
	snap := in.recomputeLocked()
	in.mu.Unlock()
	in.notify(snap)
	return in
}

// Snapshot returns the latest inputs and result.
func (in *Inputs) Snapshot() Snapshot {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.last
}

// Reset restores the defaults.
func (in *Inputs) Reset() {
	in.update(func() bool {
		in.profile = engine.DefaultProfile()
		in.mods = engine.ModifierSet{}
		return true
	})
}

func (in *Inputs) SetAttacks(n int) bool {
	return in.update(func() bool {
		if n < 1 {
			return false
		}
		in.profile.Attacks = n
		return true
	})
}

func (in *Inputs) SetHit(t int) bool   { return in.setThreshold(&in.profile.HitThreshold, t) }
func (in *Inputs) SetWound(t int) bool { return in.setThreshold(&in.profile.WoundThreshold, t) }
func (in *Inputs) SetSave(t int) bool  { return in.setThreshold(&in.profile.SaveThreshold, t) }

func (in *Inputs) setThreshold(dst *int, t int) bool {
	return in.update(func() bool {
		if !ValidThreshold(t) {
			return false
		}
		*dst = t
		return true
	})
}

// ValidThreshold reports whether t is a D6 face.
func ValidThreshold(t int) bool { return t >= 1 && t <= 6 }

func (in *Inputs) SetRerollAllHits(on bool) {
	in.setReroll(&in.mods.HitReroll, engine.RerollAll, on)
}

func (in *Inputs) SetRerollHitsOfOne(on bool) {
	in.setReroll(&in.mods.HitReroll, engine.RerollOnes, on)
}

func (in *Inputs) SetRerollAllWounds(on bool) {
	in.setReroll(&in.mods.WoundReroll, engine.RerollAll, on)
}

func (in *Inputs) SetRerollWoundsOfOne(on bool) {
	in.setReroll(&in.mods.WoundReroll, engine.RerollOnes, on)
}

// setReroll switches one toggle of a pair. Turning it on replaces the partner;
// turning it off only clears it if it is the active one.
func (in *Inputs) setReroll(dst *engine.RerollMode, mode engine.RerollMode, on bool) {
	in.update(func() bool {
		switch {
		case on:
			*dst = mode
		case *dst == mode:
			*dst = engine.RerollNone
		}
		return true
	})
}

func (in *Inputs) SetSustainedHits(on bool)     { in.setFlag(&in.mods.SustainedHits, on) }
func (in *Inputs) SetLethalHits(on bool)        { in.setFlag(&in.mods.LethalHits, on) }
func (in *Inputs) SetDevastatingWounds(on bool) { in.setFlag(&in.mods.DevastatingWounds, on) }
func (in *Inputs) SetImprovedAP(on bool)        { in.setFlag(&in.mods.ImprovedAP, on) }

func (in *Inputs) setFlag(dst *bool, on bool) {
	in.update(func() bool {
		*dst = on
		return true
	})
}

// Set changes a numeric field by name.
func (in *Inputs) Set(field string, value int) error {
	var ok bool
	switch field {
	case FieldAttacks:
		ok = in.SetAttacks(value)
	case FieldHit:
		ok = in.SetHit(value)
	case FieldWound:
		ok = in.SetWound(value)
	case FieldSave:
		ok = in.SetSave(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if !ok {
		return fmt.Errorf("%s=%d: %w", field, value, ErrOutOfRange)
	}
	return nil
}

// Toggle switches a modifier by name.
func (in *Inputs) Toggle(modifier string, on bool) error {
	switch modifier {
	case ModRerollAllHits:
		in.SetRerollAllHits(on)
	case ModRerollHitsOfOne:
		in.SetRerollHitsOfOne(on)
	case ModRerollAllWounds:
		in.SetRerollAllWounds(on)
	case ModRerollWoundsOfOne:
		in.SetRerollWoundsOfOne(on)
	case ModSustainedHits:
		in.SetSustainedHits(on)
	case ModLethalHits:
		in.SetLethalHits(on)
	case ModDevastating:
		in.SetDevastatingWounds(on)
	case ModImprovedAP:
		in.SetImprovedAP(on)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownModifier, modifier)
	}
	return nil
}

// update applies fn under the lock and, if it reports a change, recomputes
// and notifies before returning. The callback runs outside mu but inside notifyMu.
func (in *Inputs) update(fn func() bool) bool {
	in.notifyMu.Lock()
	defer in.notifyMu.Unlock()
	in.mu.Lock()
	if !fn() {
		in.mu.Unlock()
		return false
	}
	snap := in.recomputeLocked()
	in.mu.Unlock()
	in.notify(snap)
	return true
}

func (in *Inputs) recomputeLocked() Snapshot {
	in.last = Snapshot{
		Profile:   in.profile,
		Modifiers: in.mods,
		Breakdown: engine.Compute(in.profile, in.mods),
	}
	return in.last
}

func (in *Inputs) notify(s Snapshot) {
	if in.onChange != nil {
		in.onChange(s)
	}
}
