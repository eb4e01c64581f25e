package gormstore

import (
	"context"
	"errors"
	"fmt"

	"toptrumps/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// tx runs entity operations on one gorm transaction handle.
type tx struct {
	db *gorm.DB
}

func (t *tx) cards() table[cardRow]             { return tableOf[cardRow](t.db, "card") }
func (t *tx) matches() table[matchRow]          { return tableOf[matchRow](t.db, "match") }
func (t *tx) players() table[playerRow]         { return tableOf[playerRow](t.db, "player") }
func (t *tx) playerCards() table[playerCardRow] { return tableOf[playerCardRow](t.db, "player card") }
func (t *tx) rounds() table[roundRow]           { return tableOf[roundRow](t.db, "round") }
func (t *tx) plays() table[playRow]             { return tableOf[playRow](t.db, "play") }
func (t *tx) rankings() table[rankingRow]       { return tableOf[rankingRow](t.db, "ranking entry") }

// ---- cards ----

func (t *tx) ListCards(ctx context.Context, category string) ([]domain.Card, error) {
	query, args := "1 = 1", []any{}
	if category != "" {
		query, args = "category = ?", []any{category}
	}
	rows, err := t.cards().find(ctx, "id", query, args...)
	if err != nil {
		return nil, err
	}
	return mapRows(rows, cardFromRow), nil
}

func (t *tx) GetCard(ctx context.Context, id string) (*domain.Card, error) {
	row, err := t.cards().get(ctx, id)
	if err != nil {
		return nil, err
	}
	c := cardFromRow(*row)
	return &c, nil
}

// ---- matches ----

func (t *tx) LockMatch(ctx context.Context, id string) (*domain.Match, error) {
	var row matchRow
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND active = ?", id, true).
		First(&row).Error
	if err != nil {
		return nil, translate(err, "match "+id)
	}
	m := matchFromRow(row)
	return &m, nil
}

func (t *tx) GetMatch(ctx context.Context, id string) (*domain.Match, error) {
	row, err := t.matches().get(ctx, id)
	if err != nil {
		return nil, err
	}
	m := matchFromRow(*row)
	return &m, nil
}

func (t *tx) CreateMatch(ctx context.Context, m *domain.Match) error {
	row := matchToRow(m)
	if err := t.matches().insert(ctx, &row); err != nil {
		return err
	}
	m.ID = row.ID
	return nil
}

func (t *tx) UpdateMatch(ctx context.Context, m *domain.Match) error {
	res := t.db.WithContext(ctx).Model(&matchRow{}).
		Where("id = ? AND version = ? AND active = ?", m.ID, m.Version, true).
		Updates(map[string]any{
			"status":                 string(m.Status),
			"current_round_number":   m.CurrentRoundNumber,
			"current_turn_player_id": m.CurrentTurnPlayerID,
			"chosen_attribute":       string(m.ChosenAttribute),
			"max_rounds":             m.MaxRounds,
			"hand_size":              m.HandSize,
			"category":               m.Category,
			"started_at":             m.StartedAt,
			"ended_at":               m.EndedAt,
			"version":                m.Version + 1,
		})
	if res.Error != nil {
		return translate(res.Error, "update match "+m.ID)
	}
	if res.RowsAffected == 0 {
		if _, err := t.GetMatch(ctx, m.ID); err != nil {
			return err
		}
		return fmt.Errorf("%w: match %s changed since version %d", domain.ErrConflict, m.ID, m.Version)
	}
	m.Version++
	return nil
}

// DeleteMatch removes dependents first so that no foreign row ever points at a missing match.
func (t *tx) DeleteMatch(ctx context.Context, id string) error {
	if _, err := t.GetMatch(ctx, id); err != nil {
		return err
	}
	steps := []func() error{
		func() error { return t.plays().purge(ctx, "match_id = ?", id) },
		func() error { return t.rankings().purge(ctx, "match_id = ?", id) },
		func() error { return t.rounds().purge(ctx, "match_id = ?", id) },
		func() error { return t.playerCards().purge(ctx, "match_id = ?", id) },
		func() error { return t.players().purge(ctx, "match_id = ?", id) },
		func() error { return t.matches().purge(ctx, "id = ?", id) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// ---- players ----

func (t *tx) ListPlayers(ctx context.Context, matchID string) ([]domain.Player, error) {
	rows, err := t.players().find(ctx, "turn_position", "match_id = ?", matchID)
	if err != nil {
		return nil, err
	}
	return mapRows(rows, playerFromRow), nil
}

func (t *tx) GetPlayer(ctx context.Context, id string) (*domain.Player, error) {
	row, err := t.players().get(ctx, id)
	if err != nil {
		return nil, err
	}
	p := playerFromRow(*row)
	return &p, nil
}

func (t *tx) CreatePlayers(ctx context.Context, players []domain.Player) error {
	rows := make([]playerRow, 0, len(players))
	for _, p := range players {
		rows = append(rows, playerToRow(p))
	}
	if err := t.players().insertAll(ctx, rows); err != nil {
		return err
	}
	for i := range players {
		players[i].ID = rows[i].ID
	}
	return nil
}

func (t *tx) AddScore(ctx context.Context, playerID string, delta int) error {
	res := t.db.WithContext(ctx).Model(&playerRow{}).
		Where("id = ? AND active = ?", playerID, true).
		Update("score", gorm.Expr("score + ?", delta))
	if res.Error != nil {
		return translate(res.Error, "score player "+playerID)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: player %s", domain.ErrNotFound, playerID)
	}
	return nil
}

// ---- player cards ----

func (t *tx) CreatePlayerCards(ctx context.Context, cards []domain.PlayerCard) error {
	if len(cards) == 0 {
		return nil
	}
	owners := make(map[string]string, len(cards))
	rows := make([]playerCardRow, 0, len(cards))
	for _, c := range cards {
		matchID, ok := owners[c.PlayerID]
		if !ok {
			p, err := t.players().get(ctx, c.PlayerID)
			if err != nil {
				return err
			}
			matchID = p.MatchID
			owners[c.PlayerID] = matchID
		}
		rows = append(rows, playerCardRow{
			Base:         Base{ID: c.ID},
			MatchID:      matchID,
			PlayerID:     c.PlayerID,
			CardID:       c.CardID,
			DeckPosition: c.DeckPosition,
			Used:         c.Used,
		})
	}
	if err := t.playerCards().insertAll(ctx, rows); err != nil {
		return err
	}
	for i := range cards {
		cards[i].ID = rows[i].ID
	}
	return nil
}

func (t *tx) GetPlayerCard(ctx context.Context, id string) (*domain.PlayerCard, error) {
	row, err := t.playerCards().get(ctx, id)
	if err != nil {
		return nil, err
	}
	pc := playerCardFromRow(*row)
	return &pc, nil
}

func (t *tx) ListPlayerCards(ctx context.Context, playerID string, unusedOnly bool) ([]domain.PlayerCard, error) {
	query, args := "player_id = ?", []any{playerID}
	if unusedOnly {
		query, args = "player_id = ? AND used = ?", []any{playerID, false}
	}
	rows, err := t.playerCards().find(ctx, "deck_position", query, args...)
	if err != nil {
		return nil, err
	}
	return mapRows(rows, playerCardFromRow), nil
}

func (t *tx) CountUnusedCards(ctx context.Context, matchID string) (map[string]int, error) {
	players, err := t.ListPlayers(ctx, matchID)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(players))
	for _, p := range players {
		counts[p.ID] = 0
	}

	var tallies []struct {
		PlayerID  string
		Remaining int
	}
	err = t.playerCards().scope(ctx).
		Select("player_id, COUNT(*) AS remaining").
		Where("match_id = ? AND used = ?", matchID, false).
		Group("player_id").
		Scan(&tallies).Error
	if err != nil {
		return nil, translate(err, "count cards of match "+matchID)
	}
	for _, tl := range tallies {
		counts[tl.PlayerID] = tl.Remaining
	}
	return counts, nil
}

func (t *tx) MarkCardUsed(ctx context.Context, playerCardID string) error {
	res := t.db.WithContext(ctx).Model(&playerCardRow{}).
		Where("id = ? AND used = ? AND active = ?", playerCardID, false, true).
		Update("used", true)
	if res.Error != nil {
		return translate(res.Error, "use player card "+playerCardID)
	}
	if res.RowsAffected == 0 {
		if _, err := t.GetPlayerCard(ctx, playerCardID); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s", domain.ErrCardAlreadyUsed, playerCardID)
	}
	return nil
}

// ---- rounds ----

func (t *tx) CreateRound(ctx context.Context, r *domain.Round) error {
	row := roundToRow(r)
	if err := t.rounds().insert(ctx, &row); err != nil {
		return err
	}
	r.ID = row.ID
	return nil
}

func (t *tx) UpdateRound(ctx context.Context, r *domain.Round) error {
	res := t.db.WithContext(ctx).Model(&roundRow{}).
		Where("id = ? AND active = ?", r.ID, true).
		Updates(map[string]any{
			"attribute":        string(r.Attribute),
			"chooser_id":       r.ChooserID,
			"winner_player_id": r.WinnerPlayerID,
			"status":           string(r.Status),
			"ended_at":         r.EndedAt,
		})
	if res.Error != nil {
		return translate(res.Error, "update round "+r.ID)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: round %s", domain.ErrNotFound, r.ID)
	}
	return nil
}

func (t *tx) GetRound(ctx context.Context, matchID string, number int) (*domain.Round, error) {
	rows, err := t.rounds().find(ctx, "", "match_id = ? AND number = ?", matchID, number)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: round %d of match %s", domain.ErrNotFound, number, matchID)
	}
	r := roundFromRow(rows[0])
	return &r, nil
}

func (t *tx) ListRounds(ctx context.Context, matchID string) ([]domain.Round, error) {
	rows, err := t.rounds().find(ctx, "number", "match_id = ?", matchID)
	if err != nil {
		return nil, err
	}
	return mapRows(rows, roundFromRow), nil
}

// ---- plays ----

func (t *tx) CreatePlay(ctx context.Context, p *domain.Play) error {
	round, err := t.rounds().get(ctx, p.RoundID)
	if err != nil {
		return err
	}
	row := playRow{
		Base:         Base{ID: p.ID},
		MatchID:      round.MatchID,
		RoundID:      p.RoundID,
		PlayerID:     p.PlayerID,
		PlayerCardID: p.PlayerCardID,
		Value:        p.Value,
		PlayedAt:     p.PlayedAt,
	}
	if err := t.plays().insert(ctx, &row); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return fmt.Errorf("%w: round %s player %s", domain.ErrDuplicatePlay, p.RoundID, p.PlayerID)
		}
		return err
	}
	p.ID = row.ID
	return nil
}

func (t *tx) ListPlays(ctx context.Context, roundID string) ([]domain.Play, error) {
	rows, err := t.plays().find(ctx, "played_at, id", "round_id = ?", roundID)
	if err != nil {
		return nil, err
	}
	return mapRows(rows, playFromRow), nil
}

// ---- ranking ----

func (t *tx) ReplaceRanking(ctx context.Context, matchID string, entries []domain.RankingEntry) error {
	if err := t.rankings().purge(ctx, "match_id = ?", matchID); err != nil {
		return err
	}
	rows := make([]rankingRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, rankingRow{
			MatchID:    matchID,
			PlayerID:   e.PlayerID,
			PlayerName: e.PlayerName,
			Score:      e.Score,
			Position:   e.Position,
		})
	}
	return t.rankings().insertAll(ctx, rows)
}

func (t *tx) ListRanking(ctx context.Context, matchID string) ([]domain.RankingEntry, error) {
	rows, err := t.rankings().find(ctx, "position", "match_id = ?", matchID)
	if err != nil {
		return nil, err
	}
	return mapRows(rows, rankingFromRow), nil
}
