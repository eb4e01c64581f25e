package nakama

import (
	"context"
	"fmt"

	"toptrumps/internal/app"
	"toptrumps/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

// countingLogger counts warn and error lines.
type countingLogger struct {
	noopLogger
	warns, errors *int
}

func newCountingLogger() countingLogger {
	return countingLogger{warns: new(int), errors: new(int)}
}

func (l countingLogger) Warn(string, ...interface{})  { *l.warns++ }
func (l countingLogger) Error(string, ...interface{}) { *l.errors++ }
func (l countingLogger) WithField(string, interface{}) runtime.Logger {
	return l
}

func userCtx(userID string) context.Context {
	return context.WithValue(context.Background(), runtime.RUNTIME_CTX_USER_ID, userID)
}

// fakeService records the last call and returns canned results.
type fakeService struct {
	state     *app.MatchState
	err       error
	lastCall  string
	lastArgs  []string
	lastRegs  []domain.PlayerRegistration
	resolve   *app.RoundResult
	advance   *app.AdvanceResult
	ranking   []domain.RankingEntry
	cards     []app.AvailableCard
	turn      bool
	history   []app.RoundRecord
	stateHits int
}

func (f *fakeService) record(call string, args ...string) {
	f.lastCall = call
	f.lastArgs = args
}

func (f *fakeService) CreateMatch(_ context.Context, regs []domain.PlayerRegistration, category string) (*app.MatchState, error) {
	f.record("CreateMatch", category)
	f.lastRegs = regs
	return f.state, f.err
}

func (f *fakeService) GetMatchState(_ context.Context, matchID string) (*app.MatchState, error) {
	f.stateHits++
	if f.state == nil || f.state.Match.ID != matchID {
		return nil, fmt.Errorf("%w: match %s", domain.ErrNotFound, matchID)
	}
	return f.state, nil
}

func (f *fakeService) ChooseAttribute(_ context.Context, matchID, playerID, attribute string) (*domain.Round, error) {
	f.record("ChooseAttribute", matchID, playerID, attribute)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Round{Number: 1, ChooserID: playerID, Attribute: domain.Attribute(attribute), Status: domain.StatusInProgress}, nil
}

func (f *fakeService) PlayCard(_ context.Context, matchID, playerID, playerCardID string) (*domain.Play, error) {
	f.record("PlayCard", matchID, playerID, playerCardID)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Play{PlayerID: playerID, PlayerCardID: playerCardID, Value: 50}, nil
}

func (f *fakeService) TryResolveRound(_ context.Context, matchID string) (*app.RoundResult, error) {
	f.record("TryResolveRound", matchID)
	return f.resolve, f.err
}

func (f *fakeService) AdvanceRound(_ context.Context, matchID string) (*app.AdvanceResult, error) {
	f.record("AdvanceRound", matchID)
	return f.advance, f.err
}

func (f *fakeService) GetRanking(_ context.Context, matchID string) ([]domain.RankingEntry, error) {
	f.record("GetRanking", matchID)
	return f.ranking, f.err
}

func (f *fakeService) FinalizeMatch(_ context.Context, matchID string) ([]domain.RankingEntry, error) {
	f.record("FinalizeMatch", matchID)
	return f.ranking, f.err
}

func (f *fakeService) GetAvailableCards(_ context.Context, matchID, playerID string) ([]app.AvailableCard, error) {
	f.record("GetAvailableCards", matchID, playerID)
	return f.cards, f.err
}

func (f *fakeService) IsPlayerTurn(_ context.Context, matchID, playerID string) (bool, error) {
	f.record("IsPlayerTurn", matchID, playerID)
	return f.turn, f.err
}

func (f *fakeService) DeleteMatch(_ context.Context, matchID string) error {
	f.record("DeleteMatch", matchID)
	return f.err
}

func (f *fakeService) GetRoundHistory(_ context.Context, matchID string) ([]app.RoundRecord, error) {
	f.record("GetRoundHistory", matchID)
	return f.history, f.err
}

var _ MatchService = (*fakeService)(nil)

func twoSeatState() *app.MatchState {
	return &app.MatchState{
		Match: domain.Match{ID: "m1", Status: domain.StatusInProgress, CurrentRoundNumber: 1, MaxRounds: 8, HandSize: 8, CurrentTurnPlayerID: "p-ana"},
		Players: []app.PlayerState{
			{Player: domain.Player{ID: "p-ana", UserID: "u-ana", Name: "Ana", TurnPosition: 0}, CardsLeft: 8},
			{Player: domain.Player{ID: "p-beto", UserID: "u-beto", Name: "Beto", TurnPosition: 1}, CardsLeft: 8},
		},
		Round: &domain.Round{Number: 1, ChooserID: "p-ana", Status: domain.StatusWaiting},
	}
}
