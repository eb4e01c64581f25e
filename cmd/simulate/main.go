// Command simulate plays complete matches between bots against a real store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"toptrumps/internal/app"
	"toptrumps/internal/bot"
	"toptrumps/internal/config"
	"toptrumps/internal/domain"
	"toptrumps/internal/logging"
	"toptrumps/internal/ports/gormstore"
)

func main() {
	configPath := flag.String("config", "data/game_config.json", "Game config file")
	botsPath := flag.String("bots", "data/bot_identities.json", "Bot identities file")
	players := flag.Int("players", 4, "Bots per match")
	matches := flag.Int("matches", 1, "Matches to play")
	category := flag.String("category", "", "Restrict the deck to one card category")
	seed := flag.Int64("seed", 0, "Random seed (0 uses the clock)")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "simulate: reading .env: %v\n", err)
	}

	logger, err := logging.NewZap(os.Getenv("LOG_FORMAT"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "simulate: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, options{
		configPath: *configPath,
		botsPath:   *botsPath,
		players:    *players,
		matches:    *matches,
		category:   *category,
		seed:       *seed,
	}); err != nil {
		logger.Error("simulate: %v", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	botsPath   string
	players    int
	matches    int
	category   string
	seed       int64
}

func run(ctx context.Context, logger runtime.Logger, opts options) error {
	cfg, err := loadConfig(logger, opts.configPath)
	if err != nil {
		return err
	}
	if err := bot.LoadIdentities(opts.botsPath); err != nil {
		logger.Warn("using generated bot names: %v", err)
	}

	db, err := openDB(logger)
	if err != nil {
		return err
	}
	store := gormstore.New(db)
	if err := store.Migrate(ctx); err != nil {
		return err
	}
	cards, err := config.LoadCards(cfg.CardsFile)
	if err != nil {
		return err
	}
	n, err := store.SeedCards(ctx, cards)
	if err != nil {
		return err
	}
	logger.Info("catalog seeded with %d cards from %s", n, cfg.CardsFile)

	seed := opts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	svc := app.NewService(store, cfg.Rules(), rand.New(rand.NewSource(rng.Int63())), nil)

	category := opts.category
	if category == "" {
		category = cfg.DefaultCategory
	}
	for i := 0; i < opts.matches; i++ {
		if err := playMatch(ctx, logger.WithField("match_no", i+1), svc, rng, opts.players, category); err != nil {
			return err
		}
	}
	return nil
}

func loadConfig(logger runtime.Logger, path string) (config.GameConfig, error) {
	base := config.Default()
	if err := config.LoadGameConfig(path); err != nil {
		logger.Warn("could not load game config from %s, using defaults: %v", path, err)
	} else if c := config.GetGameConfig(); c != nil {
		base = *c
	}
	return base.ApplyEnv(processEnv())
}

func processEnv() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

// openDB uses DATABASE_URL when set and a private in-memory SQLite database otherwise.
func openDB(logger runtime.Logger) (*gorm.DB, error) {
	gl := logging.NewGormLogger(logger)
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return gormstore.OpenPostgresDSN(dsn, gl)
	}
	return gormstore.OpenSQLite("file:simulate?mode=memory&cache=shared", gl)
}

func playMatch(ctx context.Context, logger runtime.Logger, svc *app.Service, rng *rand.Rand, seats int, category string) error {
	regs := make([]domain.PlayerRegistration, 0, seats)
	identities := make([]bot.BotIdentity, 0, seats)
	for i := 0; i < seats; i++ {
		id := bot.GetBotIdentity(i)
		identities = append(identities, id)
		regs = append(regs, id.Registration())
	}

	state, err := svc.CreateMatch(ctx, regs, category)
	if err != nil {
		return err
	}
	agents := make([]*bot.Agent, 0, len(state.Players))
	for i, p := range state.Players {
		brain, err := bot.NewBrain(identities[i].Level(), rand.New(rand.NewSource(rng.Int63())))
		if err != nil {
			return err
		}
		agents = append(agents, &bot.Agent{ID: p.ID, Name: p.Name, Strategy: brain})
	}

	logger = logger.WithField("match_id", state.Match.ID)
	ranking, err := bot.NewTable(svc, logger, state.Match.ID, agents...).PlayMatch(ctx)
	if err != nil {
		return err
	}
	for _, e := range ranking {
		fmt.Printf("%d. %-16s %d\n", e.Position, e.PlayerName, e.Score)
	}
	return svc.DeleteMatch(ctx, state.Match.ID)
}
