package ports

import (
	"context"

	"toptrumps/internal/domain"
)

// CardCatalog is the read-only lookup of externally managed card definitions.
type CardCatalog interface {
	// ListCards returns the catalog filtered by category; an empty category returns every card.
	ListCards(ctx context.Context, category string) ([]domain.Card, error)
	// GetCard returns one card definition or an error wrapping domain.ErrNotFound.
	GetCard(ctx context.Context, id string) (*domain.Card, error)
}

// Store opens units of work against the durable store.
// Each call runs fn in one transaction: fn returning an error rolls back every write made through tx.
type Store interface {
	// Update runs a read-write unit of work.
	Update(ctx context.Context, fn func(tx Tx) error) error
	// View runs a read-only unit of work.
	View(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of entity operations available inside a unit of work.
// Lookups of unknown ids return errors wrapping domain.ErrNotFound; lost races and
// uniqueness violations return errors wrapping domain.ErrConflict.
type Tx interface {
	CardCatalog

	// LockMatch reads a match and holds it for update until the unit of work ends.
	LockMatch(ctx context.Context, id string) (*domain.Match, error)
	GetMatch(ctx context.Context, id string) (*domain.Match, error)
	CreateMatch(ctx context.Context, m *domain.Match) error
	// UpdateMatch writes m if its Version still matches the stored one and bumps the Version.
	UpdateMatch(ctx context.Context, m *domain.Match) error
	// DeleteMatch removes the match and everything it owns.
	DeleteMatch(ctx context.Context, id string) error

	// ListPlayers returns the match's players ordered by TurnPosition.
	ListPlayers(ctx context.Context, matchID string) ([]domain.Player, error)
	GetPlayer(ctx context.Context, id string) (*domain.Player, error)
	CreatePlayers(ctx context.Context, players []domain.Player) error
	// AddScore increments a player's AccumulatedScore.
	AddScore(ctx context.Context, playerID string, delta int) error

	CreatePlayerCards(ctx context.Context, cards []domain.PlayerCard) error
	GetPlayerCard(ctx context.Context, id string) (*domain.PlayerCard, error)
	// ListPlayerCards returns a player's cards ordered by DeckPosition, optionally only unused ones.
	ListPlayerCards(ctx context.Context, playerID string, unusedOnly bool) ([]domain.PlayerCard, error)
	// CountUnusedCards returns unused card counts keyed by player id for every player of the match.
	CountUnusedCards(ctx context.Context, matchID string) (map[string]int, error)
	// MarkCardUsed flips Used from false to true; a card that is already used yields a conflict.
	MarkCardUsed(ctx context.Context, playerCardID string) error

	CreateRound(ctx context.Context, r *domain.Round) error
	UpdateRound(ctx context.Context, r *domain.Round) error
	GetRound(ctx context.Context, matchID string, number int) (*domain.Round, error)
	ListRounds(ctx context.Context, matchID string) ([]domain.Round, error)

	// CreatePlay inserts a play; a second play for the same (round, player) yields a conflict.
	CreatePlay(ctx context.Context, p *domain.Play) error
	ListPlays(ctx context.Context, roundID string) ([]domain.Play, error)

	// ReplaceRanking stores the final standing of a match, dropping any previous one.
	ReplaceRanking(ctx context.Context, matchID string, entries []domain.RankingEntry) error
	ListRanking(ctx context.Context, matchID string) ([]domain.RankingEntry, error)
}
