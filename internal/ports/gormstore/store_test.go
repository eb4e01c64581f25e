package gormstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"toptrumps/internal/domain"
	"toptrumps/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := OpenSQLite(dsn, gormlogger.Discard)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	s := New(db)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func seedCatalog(t *testing.T, s *Store, n int) {
	t.Helper()
	cards := make([]domain.Card, 0, n)
	for i := 0; i < n; i++ {
		cat := "dragons"
		if i%2 == 1 {
			cat = "robots"
		}
		cards = append(cards, domain.Card{
			ID:       fmt.Sprintf("card-%02d", i),
			Name:     fmt.Sprintf("Card %d", i),
			Category: cat,
			Life:     i, Defense: i + 1, Speed: i + 2, Attack: i + 3, Power: i + 4, Terror: i + 5,
		})
	}
	seeded, err := s.SeedCards(context.Background(), cards)
	require.NoError(t, err)
	require.Equal(t, n, seeded)
}

// newMatch persists a match with two players and returns their ids.
func newMatch(t *testing.T, s *Store) (string, []domain.Player) {
	t.Helper()
	ctx := context.Background()
	m := &domain.Match{ID: "m1", Status: domain.StatusInProgress, MaxRounds: 8, HandSize: 2, CurrentRoundNumber: 1}
	players := []domain.Player{
		{ID: "p1", MatchID: "m1", Name: "Ana", TurnPosition: 1},
		{ID: "p2", MatchID: "m1", Name: "Beto", TurnPosition: 2},
	}
	err := s.Update(ctx, func(tx ports.Tx) error {
		if err := tx.CreateMatch(ctx, m); err != nil {
			return err
		}
		if err := tx.CreatePlayers(ctx, players); err != nil {
			return err
		}
		return tx.CreatePlayerCards(ctx, []domain.PlayerCard{
			{ID: "pc1", PlayerID: "p1", CardID: "card-00", DeckPosition: 1},
			{ID: "pc2", PlayerID: "p1", CardID: "card-01", DeckPosition: 2},
			{ID: "pc3", PlayerID: "p2", CardID: "card-02", DeckPosition: 1},
			{ID: "pc4", PlayerID: "p2", CardID: "card-03", DeckPosition: 2},
		})
	})
	require.NoError(t, err)
	return m.ID, players
}

func TestSeedCardsAndCatalog(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedCatalog(t, s, 6)

	all, err := s.ListCards(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 6)

	robots, err := s.ListCards(ctx, "robots")
	require.NoError(t, err)
	assert.Len(t, robots, 3)

	c, err := s.GetCard(ctx, "card-04")
	require.NoError(t, err)
	assert.Equal(t, 7, c.Attack)

	_, err = s.GetCard(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Reseeding overwrites stats in place.
	_, err = s.SeedCards(ctx, []domain.Card{{ID: "card-04", Name: "Card 4", Category: "dragons", Attack: 99}})
	require.NoError(t, err)
	c, err = s.GetCard(ctx, "card-04")
	require.NoError(t, err)
	assert.Equal(t, 99, c.Attack)
	all, err = s.ListCards(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestUpdateMatchVersion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	matchID, _ := newMatch(t, s)

	var stale domain.Match
	err := s.Update(ctx, func(tx ports.Tx) error {
		m, err := tx.LockMatch(ctx, matchID)
		if err != nil {
			return err
		}
		stale = *m
		m.ChosenAttribute = domain.AttributeAttack
		return tx.UpdateMatch(ctx, m)
	})
	require.NoError(t, err)

	err = s.Update(ctx, func(tx ports.Tx) error {
		stale.ChosenAttribute = domain.AttributeLife
		return tx.UpdateMatch(ctx, &stale)
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = s.View(ctx, func(tx ports.Tx) error {
		m, err := tx.GetMatch(ctx, matchID)
		if err != nil {
			return err
		}
		assert.Equal(t, domain.AttributeAttack, m.ChosenAttribute)
		assert.Equal(t, int64(1), m.Version)
		return nil
	})
	require.NoError(t, err)
}

func TestRollbackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	matchID, _ := newMatch(t, s)

	boom := fmt.Errorf("boom")
	err := s.Update(ctx, func(tx ports.Tx) error {
		if err := tx.AddScore(ctx, "p1", 1); err != nil {
			return err
		}
		if err := tx.MarkCardUsed(ctx, "pc1"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = s.View(ctx, func(tx ports.Tx) error {
		players, err := tx.ListPlayers(ctx, matchID)
		if err != nil {
			return err
		}
		assert.Equal(t, 0, players[0].Score)
		pc, err := tx.GetPlayerCard(ctx, "pc1")
		if err != nil {
			return err
		}
		assert.False(t, pc.Used)
		return nil
	})
	require.NoError(t, err)
}

func TestMarkCardUsedOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	matchID, _ := newMatch(t, s)

	err := s.Update(ctx, func(tx ports.Tx) error { return tx.MarkCardUsed(ctx, "pc1") })
	require.NoError(t, err)

	err = s.Update(ctx, func(tx ports.Tx) error { return tx.MarkCardUsed(ctx, "pc1") })
	assert.ErrorIs(t, err, domain.ErrCardAlreadyUsed)
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = s.Update(ctx, func(tx ports.Tx) error { return tx.MarkCardUsed(ctx, "nope") })
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = s.View(ctx, func(tx ports.Tx) error {
		counts, err := tx.CountUnusedCards(ctx, matchID)
		if err != nil {
			return err
		}
		assert.Equal(t, map[string]int{"p1": 1, "p2": 2}, counts)

		unused, err := tx.ListPlayerCards(ctx, "p1", true)
		if err != nil {
			return err
		}
		require.Len(t, unused, 1)
		assert.Equal(t, "pc2", unused[0].ID)

		all, err := tx.ListPlayerCards(ctx, "p1", false)
		if err != nil {
			return err
		}
		assert.Len(t, all, 2)
		return nil
	})
	require.NoError(t, err)
}

func TestDuplicatePlayIsConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	matchID, _ := newMatch(t, s)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	round := &domain.Round{ID: "r1", MatchID: matchID, Number: 1, ChooserID: "p1", Status: domain.StatusWaiting, StartedAt: at}
	err := s.Update(ctx, func(tx ports.Tx) error {
		if err := tx.CreateRound(ctx, round); err != nil {
			return err
		}
		return tx.CreatePlay(ctx, &domain.Play{RoundID: "r1", PlayerID: "p1", PlayerCardID: "pc1", Value: 10, PlayedAt: at})
	})
	require.NoError(t, err)

	err = s.Update(ctx, func(tx ports.Tx) error {
		return tx.CreatePlay(ctx, &domain.Play{RoundID: "r1", PlayerID: "p1", PlayerCardID: "pc2", Value: 12, PlayedAt: at})
	})
	assert.ErrorIs(t, err, domain.ErrDuplicatePlay)

	err = s.Update(ctx, func(tx ports.Tx) error {
		return tx.CreateRound(ctx, &domain.Round{MatchID: matchID, Number: 1, ChooserID: "p2", Status: domain.StatusWaiting, StartedAt: at})
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = s.View(ctx, func(tx ports.Tx) error {
		plays, err := tx.ListPlays(ctx, "r1")
		if err != nil {
			return err
		}
		require.Len(t, plays, 1)
		assert.Equal(t, 10, plays[0].Value)
		assert.NotEmpty(t, plays[0].ID)
		return nil
	})
	require.NoError(t, err)
}

func TestRoundLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	matchID, _ := newMatch(t, s)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	err := s.Update(ctx, func(tx ports.Tx) error {
		r := &domain.Round{MatchID: matchID, Number: 1, ChooserID: "p1", Status: domain.StatusWaiting, StartedAt: at}
		if err := tx.CreateRound(ctx, r); err != nil {
			return err
		}
		winner := "p2"
		end := at.Add(time.Minute)
		r.Attribute = domain.AttributeSpeed
		r.Status = domain.StatusFinished
		r.WinnerPlayerID = &winner
		r.EndedAt = &end
		return tx.UpdateRound(ctx, r)
	})
	require.NoError(t, err)

	err = s.View(ctx, func(tx ports.Tx) error {
		r, err := tx.GetRound(ctx, matchID, 1)
		if err != nil {
			return err
		}
		assert.Equal(t, domain.StatusFinished, r.Status)
		assert.Equal(t, domain.AttributeSpeed, r.Attribute)
		require.NotNil(t, r.WinnerPlayerID)
		assert.Equal(t, "p2", *r.WinnerPlayerID)

		_, err = tx.GetRound(ctx, matchID, 2)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		rounds, err := tx.ListRounds(ctx, matchID)
		if err != nil {
			return err
		}
		assert.Len(t, rounds, 1)
		return nil
	})
	require.NoError(t, err)
}

func TestRankingAndCascadeDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	matchID, _ := newMatch(t, s)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	err := s.Update(ctx, func(tx ports.Tx) error {
		r := &domain.Round{ID: "r1", MatchID: matchID, Number: 1, ChooserID: "p1", Status: domain.StatusWaiting, StartedAt: at}
		if err := tx.CreateRound(ctx, r); err != nil {
			return err
		}
		if err := tx.CreatePlay(ctx, &domain.Play{RoundID: "r1", PlayerID: "p1", PlayerCardID: "pc1", Value: 3, PlayedAt: at}); err != nil {
			return err
		}
		if err := tx.ReplaceRanking(ctx, matchID, []domain.RankingEntry{
			{PlayerID: "p1", PlayerName: "Ana", Score: 0, Position: 2},
			{PlayerID: "p2", PlayerName: "Beto", Score: 1, Position: 1},
		}); err != nil {
			return err
		}
		// Replacing drops the previous standing.
		return tx.ReplaceRanking(ctx, matchID, []domain.RankingEntry{
			{PlayerID: "p2", PlayerName: "Beto", Score: 1, Position: 1},
			{PlayerID: "p1", PlayerName: "Ana", Score: 0, Position: 2},
		})
	})
	require.NoError(t, err)

	err = s.View(ctx, func(tx ports.Tx) error {
		ranking, err := tx.ListRanking(ctx, matchID)
		if err != nil {
			return err
		}
		require.Len(t, ranking, 2)
		assert.Equal(t, "p2", ranking[0].PlayerID)
		assert.Equal(t, matchID, ranking[0].MatchID)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, func(tx ports.Tx) error { return tx.DeleteMatch(ctx, matchID) }))

	err = s.View(ctx, func(tx ports.Tx) error {
		_, err := tx.GetMatch(ctx, matchID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		players, err := tx.ListPlayers(ctx, matchID)
		if err != nil {
			return err
		}
		assert.Empty(t, players)
		plays, err := tx.ListPlays(ctx, "r1")
		if err != nil {
			return err
		}
		assert.Empty(t, plays)
		_, err = tx.GetPlayerCard(ctx, "pc1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		return nil
	})
	require.NoError(t, err)

	err = s.Update(ctx, func(tx ports.Tx) error { return tx.DeleteMatch(ctx, matchID) })
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
