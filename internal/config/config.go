package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"toptrumps/internal/domain"
)

// GameConfig holds the tunables of a Top Trumps deployment.
type GameConfig struct {
	HandSize   int `json:"hand_size"`
	MaxRounds  int `json:"max_rounds"`
	MinPlayers int `json:"min_players"`
	MaxPlayers int `json:"max_players"`
	// DefaultCategory restricts the card pool when a create request names none. Empty means the whole catalog.
	DefaultCategory string `json:"default_category"`
	// CardsFile is the catalog seed, relative to the process working directory.
	CardsFile string `json:"cards_file"`
}

// Env keys, matched case-insensitively so both the Nakama runtime env and process env work.
const (
	EnvHandSize        = "toptrumps_hand_size"
	EnvMaxRounds       = "toptrumps_max_rounds"
	EnvDefaultCategory = "toptrumps_default_category"
	EnvCardsFile       = "toptrumps_cards_file"
)

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// Default returns the standard 8-card, 8-round configuration.
func Default() GameConfig {
	rules := domain.DefaultRules()
	return GameConfig{
		HandSize:   rules.HandSize,
		MaxRounds:  rules.MaxRounds,
		MinPlayers: rules.MinPlayers,
		MaxPlayers: rules.MaxPlayers,
		CardsFile:  "data/cards.json",
	}
}

// Parse decodes a JSON config over the defaults and validates it.
func Parse(data []byte) (*GameConfig, error) {
	c := Default()
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}
		cfg, loadErr = Parse(data)
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or nil before a successful load.
func GetGameConfig() *GameConfig {
	return cfg
}

// ApplyEnv returns a copy of c with overrides from env applied. Unparsable numbers are reported.
func (c GameConfig) ApplyEnv(env map[string]string) (GameConfig, error) {
	lookup := make(map[string]string, len(env))
	for k, v := range env {
		lookup[strings.ToLower(k)] = strings.TrimSpace(v)
	}

	ints := []struct {
		key string
		dst *int
	}{
		{EnvHandSize, &c.HandSize},
		{EnvMaxRounds, &c.MaxRounds},
	}
	for _, it := range ints {
		raw, ok := lookup[it.key]
		if !ok || raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c, fmt.Errorf("%s: %w", it.key, err)
		}
		*it.dst = n
	}
	if v, ok := lookup[EnvDefaultCategory]; ok {
		c.DefaultCategory = v
	}
	if v, ok := lookup[EnvCardsFile]; ok && v != "" {
		c.CardsFile = v
	}
	return c, c.Validate()
}

// Validate rejects configurations no match could be played with.
func (c GameConfig) Validate() error {
	switch {
	case c.HandSize < 1:
		return fmt.Errorf("hand_size must be at least 1, got %d", c.HandSize)
	case c.MaxRounds < 1:
		return fmt.Errorf("max_rounds must be at least 1, got %d", c.MaxRounds)
	case c.MinPlayers < 2:
		return fmt.Errorf("min_players must be at least 2, got %d", c.MinPlayers)
	case c.MaxPlayers < c.MinPlayers:
		return fmt.Errorf("max_players %d is below min_players %d", c.MaxPlayers, c.MinPlayers)
	}
	return nil
}

// Rules converts the config into the rules the core enforces.
func (c GameConfig) Rules() domain.Rules {
	return domain.Rules{
		HandSize:   c.HandSize,
		MaxRounds:  c.MaxRounds,
		MinPlayers: c.MinPlayers,
		MaxPlayers: c.MaxPlayers,
	}
}

// CardFile is one entry of the catalog seed file.
type CardFile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Life     int    `json:"life"`
	Defense  int    `json:"defense"`
	Speed    int    `json:"speed"`
	Attack   int    `json:"attack"`
	Power    int    `json:"power"`
	Terror   int    `json:"terror"`
}

// LoadCards reads the catalog seed file.
func LoadCards(path string) ([]domain.Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cards: %w", err)
	}
	var entries []CardFile
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cards: %w", err)
	}
	cards := make([]domain.Card, 0, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("card %d has no id", i)
		}
		cards = append(cards, domain.Card{
			ID:       e.ID,
			Name:     e.Name,
			Category: e.Category,
			Life:     e.Life,
			Defense:  e.Defense,
			Speed:    e.Speed,
			Attack:   e.Attack,
			Power:    e.Power,
			Terror:   e.Terror,
		})
	}
	return cards, nil
}
