package bot

import (
	"context"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"toptrumps/internal/app"
	"toptrumps/internal/domain"
)

// GameService is the part of the match service a table of bots drives.
type GameService interface {
	GetMatchState(ctx context.Context, matchID string) (*app.MatchState, error)
	GetAvailableCards(ctx context.Context, matchID, playerID string) ([]app.AvailableCard, error)
	ChooseAttribute(ctx context.Context, matchID, playerID, attribute string) (*domain.Round, error)
	PlayCard(ctx context.Context, matchID, playerID, playerCardID string) (*domain.Play, error)
	TryResolveRound(ctx context.Context, matchID string) (*app.RoundResult, error)
	AdvanceRound(ctx context.Context, matchID string) (*app.AdvanceResult, error)
}

var _ GameService = (*app.Service)(nil)

// Table seats agents in one match and plays it through the service.
type Table struct {
	svc     GameService
	logger  runtime.Logger
	matchID string
	agents  map[string]*Agent
}

// NewTable binds agents to matchID. Every seat of the match must have an agent.
func NewTable(svc GameService, logger runtime.Logger, matchID string, agents ...*Agent) *Table {
	byID := make(map[string]*Agent, len(agents))
	for _, a := range agents {
		byID[a.ID] = a
	}
	return &Table{svc: svc, logger: logger, matchID: matchID, agents: byID}
}

func (t *Table) agent(playerID string) (*Agent, error) {
	a, ok := t.agents[playerID]
	if !ok {
		return nil, fmt.Errorf("no agent seated for player %s", playerID)
	}
	return a, nil
}

// PlayRound drives the current round to resolution: the chooser picks, every seat still holding cards plays.
func (t *Table) PlayRound(ctx context.Context) (*app.RoundResult, error) {
	state, err := t.svc.GetMatchState(ctx, t.matchID)
	if err != nil {
		return nil, err
	}
	if state.Match.IsFinished() || state.Round == nil {
		return nil, fmt.Errorf("%w: match %s is not being played", domain.ErrIllegalState, t.matchID)
	}

	round := *state.Round
	if round.Status == domain.StatusWaiting {
		chooser, err := t.agent(round.ChooserID)
		if err != nil {
			return nil, err
		}
		hand, err := t.svc.GetAvailableCards(ctx, t.matchID, chooser.ID)
		if err != nil {
			return nil, err
		}
		attr, err := chooser.Choose(hand)
		if err != nil {
			return nil, err
		}
		updated, err := t.svc.ChooseAttribute(ctx, t.matchID, chooser.ID, string(attr))
		if err != nil {
			return nil, err
		}
		round = *updated
		t.logger.Debug("bot %s chose %s for round %d", chooser.Name, attr, round.Number)
	}

	for _, p := range state.Players {
		if p.HasPlayed {
			continue
		}
		a, err := t.agent(p.ID)
		if err != nil {
			return nil, err
		}
		hand, err := t.svc.GetAvailableCards(ctx, t.matchID, a.ID)
		if err != nil {
			return nil, err
		}
		if len(hand) == 0 {
			continue
		}
		move, err := a.Play(hand, round.Attribute, a.ID == round.ChooserID)
		if err != nil {
			return nil, err
		}
		if _, err := t.svc.PlayCard(ctx, t.matchID, a.ID, move.PlayerCardID); err != nil {
			return nil, err
		}
		t.logger.Debug("bot %s played %d on %s", a.Name, move.Value, round.Attribute)
	}

	result, err := t.svc.TryResolveRound(ctx, t.matchID)
	if err != nil {
		return nil, err
	}
	if !result.Resolved() {
		return nil, fmt.Errorf("round %d still waiting on %v", round.Number, result.Waiting)
	}
	for _, a := range t.agents {
		a.OnGameEvent(result)
	}
	return result, nil
}

// PlayMatch plays rounds until the match finishes and returns the final ranking.
func (t *Table) PlayMatch(ctx context.Context) ([]domain.RankingEntry, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := t.PlayRound(ctx)
		if err != nil {
			return nil, err
		}
		if result.WinnerPlayerID != nil {
			t.logger.Info("round %d won by %s", result.Round.Number, *result.WinnerPlayerID)
		} else {
			t.logger.Info("round %d tied", result.Round.Number)
		}
		adv, err := t.svc.AdvanceRound(ctx, t.matchID)
		if err != nil {
			return nil, err
		}
		if adv.Finished {
			return adv.Ranking, nil
		}
	}
}
