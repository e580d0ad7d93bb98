package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pefman/w40k-wounds/internal/engine"
	"github.com/pefman/w40k-wounds/internal/game"
	"github.com/pefman/w40k-wounds/internal/session"
)

func TestFormatWounds(t *testing.T) {
	assert.Equal(t, "0.15", FormatWounds(32.0/216))
	assert.Equal(t, "2.59", FormatWounds(70.0/27))
	assert.Equal(t, "0.00", FormatWounds(0))
	assert.Equal(t, "7.00", FormatWounds(7))
	// thousands are grouped by the English printer
	assert.Equal(t, "1,234.50", FormatWounds(1234.5))
	assert.Equal(t, "1,000.00", FormatWounds(1000))
}

func TestCalcRequest_ResolveProfile(t *testing.T) {
	var req CalcRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"profile": {"attacks": 10, "hit": 3, "wound": 4, "save": 5},
		"modifiers": {"lethal_hits": true, "reroll_hits_of_one": true}
	}`), &req))

	p, m, err := req.Resolve()
	require.NoError(t, err)
	assert.Equal(t, engine.AttackProfile{Attacks: 10, HitThreshold: 3, WoundThreshold: 4, SaveThreshold: 5}, p)
	assert.True(t, m.LethalHits)
	assert.Equal(t, engine.RerollOnes, m.HitReroll)
	assert.Equal(t, engine.RerollNone, m.WoundReroll)
}

func TestCalcRequest_ResolveWeaponTarget(t *testing.T) {
	req := CalcRequest{
		Weapon: &game.WeaponSnapshot{Attacks: 4, Skill: 3, Strength: 8},
		Target: &game.TargetSnapshot{Toughness: 4, Sv: 3},
	}
	p, _, err := req.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 2, p.WoundThreshold)
}

func TestCalcRequest_ResolveErrors(t *testing.T) {
	_, _, err := CalcRequest{}.Resolve()
	assert.Error(t, err)

	_, _, err = CalcRequest{Profile: &Profile{Attacks: 1, Hit: 7, Wound: 3, Save: 3}}.Resolve()
	assert.ErrorIs(t, err, session.ErrOutOfRange)

	_, _, err = CalcRequest{Profile: &Profile{Attacks: -1, Hit: 3, Wound: 3, Save: 3}}.Resolve()
	assert.ErrorIs(t, err, session.ErrOutOfRange)

	_, _, err = CalcRequest{
		Profile:   &Profile{Attacks: 1, Hit: 3, Wound: 3, Save: 3},
		Modifiers: Modifiers{RerollAllWounds: true, RerollWoundsOfOne: true},
	}.Resolve()
	assert.ErrorIs(t, err, ErrConflictingRerolls)
}

func TestModifiers_RoundTrip(t *testing.T) {
	in := Modifiers{RerollAllHits: true, RerollWoundsOfOne: true, DevastatingWounds: true, ImprovedAP: true}
	m, err := in.Engine()
	require.NoError(t, err)
	assert.Equal(t, in, ModifiersFrom(m))
}

func TestNewStateData(t *testing.T) {
	s := session.NewInputs(nil).Snapshot()
	d := NewStateData(s)
	assert.Equal(t, Profile{Attacks: 1, Hit: 3, Wound: 3, Save: 3}, d.Profile)
	assert.Equal(t, "0.15", d.Display)
}
