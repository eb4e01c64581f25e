package domain

const (
	DefaultHandSize   = 8
	DefaultMaxRounds  = 8
	DefaultMinPlayers = 2
	DefaultMaxPlayers = 7
)

// Rules holds the per-match constants the core enforces.
type Rules struct {
	HandSize   int
	MaxRounds  int
	MinPlayers int
	MaxPlayers int
}

// DefaultRules returns the standard 8-card, 8-round game for 2 to 7 players.
func DefaultRules() Rules {
	return Rules{
		HandSize:   DefaultHandSize,
		MaxRounds:  DefaultMaxRounds,
		MinPlayers: DefaultMinPlayers,
		MaxPlayers: DefaultMaxPlayers,
	}
}
