package game

// WoundTarget returns the roll (2-6) needed to wound for strength S against toughness T.
func WoundTarget(S, T int) int {
	switch {
	case S >= 2*T:
		return 2
	case S > T:
		return 3
	case S == T:
		return 4
	case S*2 <= T:
		return 6
	default:
		return 5
	}
}
