package nakama

import (
	"context"
	"database/sql"
	"errors"
	"os"

	"toptrumps/internal/app"
	"toptrumps/internal/config"
	"toptrumps/internal/logging"
	"toptrumps/internal/ports/gormstore"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires the store, the match service and the RPCs for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)

	cfg, err := loadConfig(logger, env)
	if err != nil {
		logger.Error("InitModule: invalid game config: %v", err)
		return err
	}

	gdb, err := gormstore.OpenPostgres(db, logging.NewGormLogger(logger))
	if err != nil {
		logger.Error("InitModule: failed to open gorm: %v", err)
		return err
	}
	store := gormstore.New(gdb)
	if err := store.Migrate(ctx); err != nil {
		logger.Error("InitModule: %v", err)
		return err
	}
	if err := seedCatalog(ctx, logger, store, cfg.CardsFile); err != nil {
		return err
	}

	svc := app.NewService(store, cfg.Rules(), nil, NewNakamaNotificationSink(nk, logger))
	if err := RegisterRPCs(initializer, NewRPCHandler(svc, cfg.DefaultCategory)); err != nil {
		return err
	}

	logger.Info("TopTrumps Go module loaded (hand_size=%d, max_rounds=%d).", cfg.HandSize, cfg.MaxRounds)
	return nil
}

// loadConfig reads the config file named by the runtime env, falling back to defaults when it is absent,
// then applies env overrides.
func loadConfig(logger runtime.Logger, env map[string]string) (config.GameConfig, error) {
	path := defaultConfigPath
	if p, ok := env[envConfigPath]; ok && p != "" {
		path = p
	}

	base := config.Default()
	if err := config.LoadGameConfig(path); err != nil {
		logger.Warn("InitModule: could not load game config from %s, using defaults: %v", path, err)
	} else if c := config.GetGameConfig(); c != nil {
		base = *c
	}
	return base.ApplyEnv(env)
}

// seedCatalog upserts the card seed file. A missing file leaves the catalog as it is.
func seedCatalog(ctx context.Context, logger runtime.Logger, store *gormstore.Store, path string) error {
	cards, err := config.LoadCards(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn("InitModule: no card seed at %s, using the stored catalog", path)
		return nil
	}
	if err != nil {
		logger.Error("InitModule: %v", err)
		return err
	}
	n, err := store.SeedCards(ctx, cards)
	if err != nil {
		logger.Error("InitModule: failed to seed cards: %v", err)
		return err
	}
	logger.Info("InitModule: seeded %d cards from %s", n, path)
	return nil
}
