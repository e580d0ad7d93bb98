package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/pefman/w40k-wounds/internal/engine"
)

func TestNewInputs_Defaults(t *testing.T) {
	var seen []Snapshot
	in := NewInputs(func(s Snapshot) { seen = append(seen, s) })

	require.Len(t, seen, 1)
	s := in.Snapshot()
	assert.Equal(t, engine.DefaultProfile(), s.Profile)
	assert.Equal(t, engine.ModifierSet{}, s.Modifiers)
	assert.InDelta(t, 0.1481, s.Breakdown.ExpectedWounds, 1e-4)
}

func TestSetThreshold_RejectsOutOfRange(t *testing.T) {
	calls := 0
	in := NewInputs(func(Snapshot) { calls++ })

	assert.False(t, in.SetHit(0))
	assert.False(t, in.SetWound(7))
	assert.False(t, in.SetSave(-2))
	assert.False(t, in.SetAttacks(0))
	assert.Equal(t, 1, calls, "rejected values must not recompute")
	assert.Equal(t, engine.DefaultProfile(), in.Snapshot().Profile)

	assert.True(t, in.SetHit(6))
	assert.Equal(t, 2, calls)
	assert.Equal(t, 6, in.Snapshot().Profile.HitThreshold)
}

func TestSetThreshold_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		in := NewInputs(nil)
		v := rapid.IntRange(-20, 20).Draw(rt, "value")
		applied := in.SetSave(v)
		got := in.Snapshot().Profile.SaveThreshold
		if v >= 1 && v <= 6 {
			assert.True(rt, applied)
			assert.Equal(rt, v, got)
		} else {
			assert.False(rt, applied)
			assert.Equal(rt, 3, got)
		}
	})
}

func TestRerollPair_MostRecentWins(t *testing.T) {
	in := NewInputs(nil)

	in.SetRerollAllHits(true)
	in.SetRerollHitsOfOne(true)
	m := in.Snapshot().Modifiers
	assert.True(t, m.RerollHitsOfOne())
	assert.False(t, m.RerollAllHits())

	in.SetRerollAllHits(true)
	m = in.Snapshot().Modifiers
	assert.True(t, m.RerollAllHits())
	assert.False(t, m.RerollHitsOfOne())
}

func TestRerollPair_OffClearsOnlyItself(t *testing.T) {
	in := NewInputs(nil)
	in.SetRerollWoundsOfOne(true)
	in.SetRerollAllWounds(false)
	assert.True(t, in.Snapshot().Modifiers.RerollWoundsOfOne())

	in.SetRerollWoundsOfOne(false)
	assert.Equal(t, engine.RerollNone, in.Snapshot().Modifiers.WoundReroll)
}

func TestRerollPair_NeverBoth(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		in := NewInputs(nil)
		names := []string{ModRerollAllHits, ModRerollHitsOfOne, ModRerollAllWounds, ModRerollWoundsOfOne}
		steps := rapid.IntRange(1, 20).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			name := rapid.SampledFrom(names).Draw(rt, "modifier")
			on := rapid.Bool().Draw(rt, "on")
			require.NoError(rt, in.Toggle(name, on))
			m := in.Snapshot().Modifiers
			assert.False(rt, m.RerollAllHits() && m.RerollHitsOfOne())
			assert.False(rt, m.RerollAllWounds() && m.RerollWoundsOfOne())
		}
	})
}

func TestOnChange_SeesLatestResult(t *testing.T) {
	var last Snapshot
	in := NewInputs(func(s Snapshot) { last = s })

	require.NoError(t, in.Set(FieldAttacks, 10))
	require.NoError(t, in.Set(FieldWound, 4))
	require.NoError(t, in.Set(FieldSave, 5))
	require.NoError(t, in.Toggle(ModLethalHits, true))

	assert.Equal(t, in.Snapshot(), last)
	assert.True(t, last.Modifiers.LethalHits)
	assert.InDelta(t, 70.0/27, last.Breakdown.ExpectedWounds, 1e-9)
}

func TestSet_Errors(t *testing.T) {
	in := NewInputs(nil)
	assert.ErrorIs(t, in.Set("strength", 4), ErrUnknownField)
	assert.ErrorIs(t, in.Set(FieldHit, 9), ErrOutOfRange)
	assert.ErrorIs(t, in.Toggle("twin_linked", true), ErrUnknownModifier)
}

func TestToggle_IndependentFlags(t *testing.T) {
	in := NewInputs(nil)
	for _, name := range []string{ModSustainedHits, ModLethalHits, ModDevastating, ModImprovedAP} {
		require.NoError(t, in.Toggle(name, true))
	}
	in.SetRerollAllHits(true)
	m := in.Snapshot().Modifiers
	assert.True(t, m.SustainedHits && m.LethalHits && m.DevastatingWounds && m.ImprovedAP)
	assert.True(t, m.RerollAllHits())
}

func TestReset(t *testing.T) {
	in := NewInputs(nil)
	in.SetAttacks(20)
	in.SetImprovedAP(true)
	in.Reset()
	s := in.Snapshot()
	assert.Equal(t, engine.DefaultProfile(), s.Profile)
	assert.Equal(t, engine.ModifierSet{}, s.Modifiers)
}

func TestOnChange_OrderedUnderConcurrentSetters(t *testing.T) {
	for round := 0; round < 20; round++ {
		var mu sync.Mutex
		var last Snapshot
		in := NewInputs(func(s Snapshot) {
			time.Sleep(100 * time.Microsecond)
			mu.Lock()
			last = s
			mu.Unlock()
		})

		var wg sync.WaitGroup
		for g := 1; g <= 8; g++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				in.SetAttacks(n)
			}(g)
		}
		wg.Wait()

		mu.Lock()
		assert.Equal(t, in.Snapshot(), last, "round %d", round)
		mu.Unlock()
	}
}
