package domain

import (
	"fmt"
	"sort"
)

// Seat is the slice of persisted player state the turn tracker needs.
type Seat struct {
	PlayerID     string
	TurnPosition int
	CardsLeft    int // unused PlayerCards
}

// ActiveSeats returns the seats that still hold cards, ordered by TurnPosition.
func ActiveSeats(seats []Seat) []Seat {
	out := make([]Seat, 0, len(seats))
	for _, s := range seats {
		if s.CardsLeft > 0 {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TurnPosition < out[j].TurnPosition })
	return out
}

// NextChooser derives who picks the attribute for roundNumber (1-based).
// Players with an exhausted deck are skipped; rotation wraps over the active seats.
// It is a pure function of its inputs.
func NextChooser(seats []Seat, roundNumber int) (string, error) {
	active := ActiveSeats(seats)
	if len(active) == 0 {
		return "", fmt.Errorf("%w: every deck is exhausted", ErrNoEligiblePlayer)
	}
	if roundNumber < 1 {
		roundNumber = 1
	}
	return active[(roundNumber-1)%len(active)].PlayerID, nil
}
