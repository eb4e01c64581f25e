package gormstore

import (
	"time"

	"toptrumps/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base is the shape every table shares: a string id and a soft active flag.
type Base struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	Active    bool      `gorm:"not null;default:true;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (r *Base) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.Active = true
	return nil
}

type cardRow struct {
	Base
	Name     string `gorm:"type:varchar(128);not null"`
	Category string `gorm:"type:varchar(64);index"`
	Life     int    `gorm:"not null;default:0;check:life >= 0"`
	Defense  int    `gorm:"not null;default:0;check:defense >= 0"`
	Speed    int    `gorm:"not null;default:0;check:speed >= 0"`
	Attack   int    `gorm:"not null;default:0;check:attack >= 0"`
	Power    int    `gorm:"not null;default:0;check:power >= 0"`
	Terror   int    `gorm:"not null;default:0;check:terror >= 0"`
}

func (cardRow) TableName() string { return "cards" }

type matchRow struct {
	Base
	Status              string `gorm:"type:varchar(16);not null;index"`
	CurrentRoundNumber  int    `gorm:"not null;default:0"`
	CurrentTurnPlayerID string `gorm:"type:varchar(36)"`
	ChosenAttribute     string `gorm:"type:varchar(16)"`
	MaxRounds           int    `gorm:"not null"`
	HandSize            int    `gorm:"not null"`
	Category            string `gorm:"type:varchar(64)"`
	StartedAt           *time.Time
	EndedAt             *time.Time
	Version             int64 `gorm:"not null;default:0"`
}

func (matchRow) TableName() string { return "matches" }

type playerRow struct {
	Base
	MatchID      string `gorm:"type:varchar(36);not null;uniqueIndex:idx_players_match_turn"`
	UserID       string `gorm:"type:varchar(64);index"`
	Name         string `gorm:"type:varchar(64);not null"`
	Avatar       string `gorm:"type:varchar(255)"`
	TurnPosition int    `gorm:"not null;uniqueIndex:idx_players_match_turn"`
	Score        int    `gorm:"not null;default:0;check:score >= 0"`
}

func (playerRow) TableName() string { return "players" }

type playerCardRow struct {
	Base
	MatchID      string `gorm:"type:varchar(36);not null;index"`
	PlayerID     string `gorm:"type:varchar(36);not null;uniqueIndex:idx_player_cards_player_position"`
	CardID       string `gorm:"type:varchar(36);not null"`
	DeckPosition int    `gorm:"not null;uniqueIndex:idx_player_cards_player_position"`
	Used         bool   `gorm:"not null;default:false"`
}

func (playerCardRow) TableName() string { return "player_cards" }

type roundRow struct {
	Base
	MatchID        string  `gorm:"type:varchar(36);not null;uniqueIndex:idx_rounds_match_number"`
	Number         int     `gorm:"not null;uniqueIndex:idx_rounds_match_number"`
	Attribute      string  `gorm:"type:varchar(16)"`
	ChooserID      string  `gorm:"type:varchar(36);not null"`
	WinnerPlayerID *string `gorm:"type:varchar(36)"`
	Status         string  `gorm:"type:varchar(16);not null"`
	StartedAt      time.Time
	EndedAt        *time.Time
}

func (roundRow) TableName() string { return "rounds" }

type playRow struct {
	Base
	MatchID      string `gorm:"type:varchar(36);not null;index"`
	RoundID      string `gorm:"type:varchar(36);not null;uniqueIndex:idx_plays_round_player"`
	PlayerID     string `gorm:"type:varchar(36);not null;uniqueIndex:idx_plays_round_player"`
	PlayerCardID string `gorm:"type:varchar(36);not null;uniqueIndex"`
	Value        int    `gorm:"not null"`
	PlayedAt     time.Time
}

func (playRow) TableName() string { return "plays" }

type rankingRow struct {
	Base
	MatchID    string `gorm:"type:varchar(36);not null;uniqueIndex:idx_rankings_match_position"`
	PlayerID   string `gorm:"type:varchar(36);not null"`
	PlayerName string `gorm:"type:varchar(64)"`
	Score      int    `gorm:"not null"`
	Position   int    `gorm:"not null;uniqueIndex:idx_rankings_match_position"`
}

func (rankingRow) TableName() string { return "ranking_entries" }

// allModels lists every table in dependency order.
var allModels = []any{
	&cardRow{},
	&matchRow{},
	&playerRow{},
	&playerCardRow{},
	&roundRow{},
	&playRow{},
	&rankingRow{},
}

func cardFromRow(r cardRow) domain.Card {
	return domain.Card{
		ID:       r.ID,
		Name:     r.Name,
		Category: r.Category,
		Life:     r.Life,
		Defense:  r.Defense,
		Speed:    r.Speed,
		Attack:   r.Attack,
		Power:    r.Power,
		Terror:   r.Terror,
	}
}

func cardToRow(c domain.Card) cardRow {
	return cardRow{
		Base:     Base{ID: c.ID},
		Name:     c.Name,
		Category: c.Category,
		Life:     c.Life,
		Defense:  c.Defense,
		Speed:    c.Speed,
		Attack:   c.Attack,
		Power:    c.Power,
		Terror:   c.Terror,
	}
}

func matchFromRow(r matchRow) domain.Match {
	return domain.Match{
		ID:                  r.ID,
		Status:              domain.Status(r.Status),
		CurrentRoundNumber:  r.CurrentRoundNumber,
		CurrentTurnPlayerID: r.CurrentTurnPlayerID,
		ChosenAttribute:     domain.Attribute(r.ChosenAttribute),
		MaxRounds:           r.MaxRounds,
		HandSize:            r.HandSize,
		Category:            r.Category,
		StartedAt:           r.StartedAt,
		EndedAt:             r.EndedAt,
		Version:             r.Version,
	}
}

func matchToRow(m *domain.Match) matchRow {
	return matchRow{
		Base:                Base{ID: m.ID},
		Status:              string(m.Status),
		CurrentRoundNumber:  m.CurrentRoundNumber,
		CurrentTurnPlayerID: m.CurrentTurnPlayerID,
		ChosenAttribute:     string(m.ChosenAttribute),
		MaxRounds:           m.MaxRounds,
		HandSize:            m.HandSize,
		Category:            m.Category,
		StartedAt:           m.StartedAt,
		EndedAt:             m.EndedAt,
		Version:             m.Version,
	}
}

func playerFromRow(r playerRow) domain.Player {
	return domain.Player{
		ID:           r.ID,
		MatchID:      r.MatchID,
		UserID:       r.UserID,
		Name:         r.Name,
		Avatar:       r.Avatar,
		TurnPosition: r.TurnPosition,
		Score:        r.Score,
	}
}

func playerToRow(p domain.Player) playerRow {
	return playerRow{
		Base:         Base{ID: p.ID},
		MatchID:      p.MatchID,
		UserID:       p.UserID,
		Name:         p.Name,
		Avatar:       p.Avatar,
		TurnPosition: p.TurnPosition,
		Score:        p.Score,
	}
}

func playerCardFromRow(r playerCardRow) domain.PlayerCard {
	return domain.PlayerCard{
		ID:           r.ID,
		PlayerID:     r.PlayerID,
		CardID:       r.CardID,
		DeckPosition: r.DeckPosition,
		Used:         r.Used,
	}
}

func roundFromRow(r roundRow) domain.Round {
	return domain.Round{
		ID:             r.ID,
		MatchID:        r.MatchID,
		Number:         r.Number,
		Attribute:      domain.Attribute(r.Attribute),
		ChooserID:      r.ChooserID,
		WinnerPlayerID: r.WinnerPlayerID,
		Status:         domain.Status(r.Status),
		StartedAt:      r.StartedAt,
		EndedAt:        r.EndedAt,
	}
}

func roundToRow(r *domain.Round) roundRow {
	return roundRow{
		Base:           Base{ID: r.ID},
		MatchID:        r.MatchID,
		Number:         r.Number,
		Attribute:      string(r.Attribute),
		ChooserID:      r.ChooserID,
		WinnerPlayerID: r.WinnerPlayerID,
		Status:         string(r.Status),
		StartedAt:      r.StartedAt,
		EndedAt:        r.EndedAt,
	}
}

func playFromRow(r playRow) domain.Play {
	return domain.Play{
		ID:           r.ID,
		RoundID:      r.RoundID,
		PlayerID:     r.PlayerID,
		PlayerCardID: r.PlayerCardID,
		Value:        r.Value,
		PlayedAt:     r.PlayedAt,
	}
}

func rankingFromRow(r rankingRow) domain.RankingEntry {
	return domain.RankingEntry{
		MatchID:    r.MatchID,
		PlayerID:   r.PlayerID,
		PlayerName: r.PlayerName,
		Score:      r.Score,
		Position:   r.Position,
	}
}

// mapRows converts a slice of rows with fn.
func mapRows[R any, T any](rows []R, fn func(R) T) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, fn(r))
	}
	return out
}
