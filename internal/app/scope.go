package app

import (
	"context"
	"fmt"

	"toptrumps/internal/domain"
	"toptrumps/internal/ports"
)

// scope is the persisted state a round-affecting operation reads under the match lock.
type scope struct {
	match   *domain.Match
	players []domain.Player
	round   *domain.Round // current round; nil before round 1 exists
}

func lockScope(ctx context.Context, tx ports.Tx, matchID string) (*scope, error) {
	m, err := tx.LockMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	players, err := tx.ListPlayers(ctx, matchID)
	if err != nil {
		return nil, err
	}
	sc := &scope{match: m, players: players}
	if m.CurrentRoundNumber > 0 {
		if sc.round, err = tx.GetRound(ctx, matchID, m.CurrentRoundNumber); err != nil {
			return nil, err
		}
	}
	return sc, nil
}

func (sc *scope) requirePlaying() error {
	switch {
	case sc.match.IsFinished():
		return fmt.Errorf("%w: %s", domain.ErrMatchFinished, sc.match.ID)
	case sc.match.Status != domain.StatusInProgress || sc.round == nil:
		return fmt.Errorf("%w: match %s is %s", domain.ErrIllegalState, sc.match.ID, sc.match.Status)
	}
	return nil
}

func (sc *scope) player(id string) (*domain.Player, error) {
	for i := range sc.players {
		if sc.players[i].ID == id {
			return &sc.players[i], nil
		}
	}
	return nil, fmt.Errorf("%w: player %s in match %s", domain.ErrNotFound, id, sc.match.ID)
}

// memberOf checks that the match exists and playerID is seated in it.
func memberOf(ctx context.Context, tx ports.Tx, matchID, playerID string) error {
	if _, err := tx.GetMatch(ctx, matchID); err != nil {
		return err
	}
	p, err := tx.GetPlayer(ctx, playerID)
	if err != nil {
		return err
	}
	if p.MatchID != matchID {
		return fmt.Errorf("%w: player %s in match %s", domain.ErrNotFound, playerID, matchID)
	}
	return nil
}

func seatsOf(players []domain.Player, counts map[string]int) []domain.Seat {
	seats := make([]domain.Seat, 0, len(players))
	for _, p := range players {
		seats = append(seats, domain.Seat{PlayerID: p.ID, TurnPosition: p.TurnPosition, CardsLeft: counts[p.ID]})
	}
	return seats
}

// activeInRound returns the players taking part in the current round: those who already played in it
// plus those still holding cards, in seat order.
func activeInRound(players []domain.Player, counts map[string]int, plays []domain.Play) []string {
	played := make(map[string]bool, len(plays))
	for _, p := range plays {
		played[p.PlayerID] = true
	}
	active := make([]string, 0, len(players))
	for _, p := range players {
		if played[p.ID] || counts[p.ID] > 0 {
			active = append(active, p.ID)
		}
	}
	return active
}

// waitingOn returns the active players without a play yet.
func waitingOn(active []string, plays []domain.Play) []string {
	played := make(map[string]bool, len(plays))
	for _, p := range plays {
		played[p.PlayerID] = true
	}
	out := make([]string, 0, len(active))
	for _, id := range active {
		if !played[id] {
			out = append(out, id)
		}
	}
	return out
}
