package bot

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/heroiclabs/nakama-common/runtime"
	gormlogger "gorm.io/gorm/logger"

	"toptrumps/internal/app"
	"toptrumps/internal/domain"
	"toptrumps/internal/ports/gormstore"
)

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{})                   {}
func (noopLogger) Info(string, ...interface{})                    {}
func (noopLogger) Warn(string, ...interface{})                    {}
func (noopLogger) Error(string, ...interface{})                   {}
func (l noopLogger) WithField(string, interface{}) runtime.Logger { return l }
func (l noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return l
}
func (noopLogger) Fields() map[string]interface{} { return nil }

func newService(t *testing.T, rules domain.Rules) *app.Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gormstore.OpenSQLite(dsn, gormlogger.Discard)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	store := gormstore.New(db)
	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cards := make([]domain.Card, 0, 40)
	for i := 0; i < 40; i++ {
		cards = append(cards, domain.Card{
			ID:      fmt.Sprintf("c-%02d", i),
			Name:    fmt.Sprintf("Card %02d", i),
			Life:    (i * 7) % 40,
			Defense: (i * 11) % 40,
			Speed:   (i * 13) % 40,
			Attack:  (i * 17) % 40,
			Power:   (i * 19) % 40,
			Terror:  (i * 23) % 40,
		})
	}
	if _, err := store.SeedCards(ctx, cards); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return app.NewService(store, rules, rand.New(rand.NewSource(11)), nil)
}

func seatBots(t *testing.T, svc *app.Service, levels ...BotLevel) (*app.MatchState, []*Agent) {
	t.Helper()
	regs := make([]domain.PlayerRegistration, 0, len(levels))
	for i := range levels {
		regs = append(regs, GetBotIdentity(i).Registration())
	}
	state, err := svc.CreateMatch(context.Background(), regs, "")
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	agents := make([]*Agent, 0, len(levels))
	for i, p := range state.Players {
		agents = append(agents, &Agent{ID: p.ID, Name: p.Name, Strategy: mustBrain(t, levels[i])})
	}
	return state, agents
}

func TestTable_PlaysFullMatch(t *testing.T) {
	rules := domain.DefaultRules()
	svc := newService(t, rules)
	state, agents := seatBots(t, svc, BotLevelEasy, BotLevelGood, BotLevelSmart)

	table := NewTable(svc, noopLogger{}, state.Match.ID, agents...)
	ranking, err := table.PlayMatch(context.Background())
	if err != nil {
		t.Fatalf("PlayMatch failed: %v", err)
	}
	if len(ranking) != 3 {
		t.Fatalf("expected 3 ranking entries, got %d", len(ranking))
	}
	total := 0
	for i, e := range ranking {
		if e.Position != i+1 {
			t.Errorf("entry %d has position %d", i, e.Position)
		}
		total += e.Score
	}
	if total > rules.MaxRounds {
		t.Errorf("scores sum to %d, more than %d rounds", total, rules.MaxRounds)
	}

	final, err := svc.GetMatchState(context.Background(), state.Match.ID)
	if err != nil {
		t.Fatalf("GetMatchState failed: %v", err)
	}
	if !final.Match.IsFinished() {
		t.Errorf("match should be finished, is %s", final.Match.Status)
	}
	if _, err := table.PlayRound(context.Background()); err == nil {
		t.Error("playing a round of a finished match should fail")
	}
}

func TestTable_MissingAgent(t *testing.T) {
	svc := newService(t, domain.DefaultRules())
	state, agents := seatBots(t, svc, BotLevelGood, BotLevelGood)

	table := NewTable(svc, noopLogger{}, state.Match.ID, agents[0])
	if _, err := table.PlayRound(context.Background()); err == nil {
		t.Fatal("expected an error when a seat has no agent")
	}
}
