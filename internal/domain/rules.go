package domain

// RoundOutcome is the result of comparing a round's plays.
type RoundOutcome struct {
	WinnerPlayerID *string // nil when no play or when the top value is shared
	TopValue       int
	Tied           bool
}

// RoundComplete reports whether every active player has exactly one play and nobody else played.
func RoundComplete(plays []Play, activePlayerIDs []string) bool {
	if len(activePlayerIDs) == 0 {
		return false
	}
	counts := make(map[string]int, len(plays))
	for _, p := range plays {
		counts[p.PlayerID]++
	}
	if len(counts) != len(activePlayerIDs) {
		return false
	}
	for _, id := range activePlayerIDs {
		if counts[id] != 1 {
			return false
		}
	}
	return true
}

// DecideRound picks the play with the strictly greatest captured value.
// A shared maximum yields no winner: nobody scores that round.
func DecideRound(plays []Play) RoundOutcome {
	if len(plays) == 0 {
		return RoundOutcome{}
	}
	best := plays[0]
	tied := false
	for _, p := range plays[1:] {
		switch {
		case p.Value > best.Value:
			best = p
			tied = false
		case p.Value == best.Value:
			tied = true
		}
	}
	if tied {
		return RoundOutcome{TopValue: best.Value, Tied: true}
	}
	winner := best.PlayerID
	return RoundOutcome{WinnerPlayerID: &winner, TopValue: best.Value}
}
