// Package gormstore implements the durable store over gorm, for postgres in production and sqlite in tests.
package gormstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"toptrumps/internal/domain"
	"toptrumps/internal/ports"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Store is the gorm-backed ports.Store.
type Store struct {
	db *gorm.DB
}

var (
	_ ports.Store       = (*Store)(nil)
	_ ports.CardCatalog = (*Store)(nil)
	_ ports.Tx          = (*tx)(nil)
)

// New wraps an opened gorm handle. Driver errors are translated so uniqueness violations surface as conflicts.
func New(db *gorm.DB) *Store {
	db.Config.TranslateError = true
	return &Store{db: db}
}

// OpenPostgres wraps an existing connection pool, such as the one Nakama hands to InitModule.
func OpenPostgres(conn *sql.DB, logger gormlogger.Interface) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: conn}), gormConfig(logger))
}

// OpenPostgresDSN dials postgres from a connection string.
func OpenPostgresDSN(dsn string, logger gormlogger.Interface) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), gormConfig(logger))
}

// OpenSQLite opens a sqlite database. A single connection is kept so that
// in-memory databases are shared and writes are serialized.
func OpenSQLite(dsn string, logger gormlogger.Interface) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(logger))
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func gormConfig(logger gormlogger.Interface) *gorm.Config {
	cfg := &gorm.Config{TranslateError: true}
	if logger != nil {
		cfg.Logger = logger
	}
	return cfg
}

// Migrate creates or updates every table the store uses.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(allModels...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// SeedCards inserts catalog cards, overwriting the stats of ids that already exist.
func (s *Store) SeedCards(ctx context.Context, cards []domain.Card) (int, error) {
	if len(cards) == 0 {
		return 0, nil
	}
	rows := make([]cardRow, 0, len(cards))
	for _, c := range cards {
		rows = append(rows, cardToRow(c))
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "category", "life", "defense", "speed", "attack", "power", "terror", "active", "updated_at"}),
		}).
		CreateInBatches(&rows, 100)
	if res.Error != nil {
		return 0, translate(res.Error, "seed cards")
	}
	return len(rows), nil
}

func (s *Store) Update(ctx context.Context, fn func(tx ports.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&tx{db: db})
	})
}

func (s *Store) View(ctx context.Context, fn func(tx ports.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&tx{db: db})
	})
}

func (s *Store) ListCards(ctx context.Context, category string) ([]domain.Card, error) {
	return (&tx{db: s.db}).ListCards(ctx, category)
}

func (s *Store) GetCard(ctx context.Context, id string) (*domain.Card, error) {
	return (&tx{db: s.db}).GetCard(ctx, id)
}

// translate maps gorm errors onto the domain error kinds.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", domain.ErrNotFound, what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s: %v", domain.ErrConflict, what, err)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}
