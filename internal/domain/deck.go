package domain

import (
	"fmt"
	"math/rand"
)

// UsablePool returns the catalog cards that can be dealt: one entry per id, all stats non-negative.
// Order is preserved.
func UsablePool(pool []Card) []Card {
	seen := make(map[string]struct{}, len(pool))
	out := make([]Card, 0, len(pool))
	for _, c := range pool {
		if !c.usable() {
			continue
		}
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}

// ShuffleDeck returns a shuffled copy of the given deck.
func ShuffleDeck(rng *rand.Rand, deck []Card) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// CheckPlayerCount enforces the registration bound.
func CheckPlayerCount(rules Rules, n int) error {
	if n < rules.MinPlayers || n > rules.MaxPlayers {
		return fmt.Errorf("%w: got %d, want %d..%d", ErrInvalidPlayerCount, n, rules.MinPlayers, rules.MaxPlayers)
	}
	return nil
}

// AllocateDecks deals each player a private, disjoint, shuffled hand of rules.HandSize cards.
// The returned PlayerCards have no ID yet; DeckPosition runs 1..HandSize within each hand.
func AllocateDecks(rng *rand.Rand, rules Rules, players []Player, pool []Card) (map[string][]PlayerCard, error) {
	if err := CheckPlayerCount(rules, len(players)); err != nil {
		return nil, err
	}

	usable := UsablePool(pool)
	need := len(players) * rules.HandSize
	if len(usable) < need {
		return nil, fmt.Errorf("%w: need %d cards for %d players, pool has %d", ErrInsufficientCards, need, len(players), len(usable))
	}

	deck := ShuffleDeck(rng, usable)
	hands := make(map[string][]PlayerCard, len(players))
	next := 0
	for _, pl := range players {
		hand := make([]PlayerCard, 0, rules.HandSize)
		for pos := 1; pos <= rules.HandSize; pos++ {
			hand = append(hand, PlayerCard{
				PlayerID:     pl.ID,
				CardID:       deck[next].ID,
				DeckPosition: pos,
			})
			next++
		}
		hands[pl.ID] = hand
	}
	return hands, nil
}
