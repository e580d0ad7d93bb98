package engine

import "fmt"

// RerollMode selects which failed rolls of one step are rerolled.
// A single mode per step makes "reroll all" and "reroll ones" mutually exclusive.
type RerollMode int

const (
	RerollNone RerollMode = iota
	RerollAll
	RerollOnes
)

func (m RerollMode) String() string {
	switch m {
	case RerollAll:
		return "all"
	case RerollOnes:
		return "ones"
	default:
		return "none"
	}
}

// ParseRerollMode accepts "all", "ones", "none" or "" (none).
func ParseRerollMode(s string) (RerollMode, bool) {
	switch s {
	case "", "none":
		return RerollNone, true
	case "all":
		return RerollAll, true
	case "ones", "1s":
		return RerollOnes, true
	}
	return RerollNone, false
}

func (m RerollMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *RerollMode) UnmarshalText(b []byte) error {
	v, ok := ParseRerollMode(string(b))
	if !ok {
		return fmt.Errorf("unknown reroll mode %q", string(b))
	}
	*m = v
	return nil
}

// RerollFromFlags folds a pair of toggles into a mode. When both are set the
// reroll-all branch wins.
func RerollFromFlags(all, ones bool) RerollMode {
	switch {
	case all:
		return RerollAll
	case ones:
		return RerollOnes
	default:
		return RerollNone
	}
}

// SuccessProbability returns the chance that one D6 meets or beats threshold.
// Values outside 1..6 are not clamped: 7 gives 0, 0 gives 7/6.
func SuccessProbability(threshold int) float64 {
	return float64(7-threshold) / 6
}

// ApplyReroll adjusts a success probability for a reroll mode.
//
// Rerolling ones adds a flat p/6 rather than modelling the exact
// reroll-once odds; callers depend on that figure.
func ApplyReroll(p float64, mode RerollMode) float64 {
	switch mode {
	case RerollAll:
		return p + (1-p)*p
	case RerollOnes:
		return p + p/6
	default:
		return p
	}
}
