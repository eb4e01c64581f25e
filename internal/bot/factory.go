package bot

import (
	"fmt"
	"math/rand"
	"strings"
)

// BotLevel selects how much a bot plans ahead.
type BotLevel int

const (
	BotLevelEasy  BotLevel = iota // random attribute and card
	BotLevelGood                  // greedy on its own hand
	BotLevelSmart                 // remembers resolved rounds and saves strong cards
)

// ParseLevel maps an identity difficulty label to a level.
func ParseLevel(difficulty string) (BotLevel, error) {
	switch strings.ToLower(strings.TrimSpace(difficulty)) {
	case "easy", "":
		return BotLevelEasy, nil
	case "medium", "good":
		return BotLevelGood, nil
	case "hard", "smart":
		return BotLevelSmart, nil
	default:
		return BotLevelEasy, fmt.Errorf("unknown bot difficulty: %q", difficulty)
	}
}

// NewBrain creates a new AI brain based on the specified level.
func NewBrain(level BotLevel, rng *rand.Rand) (Brain, error) {
	switch level {
	case BotLevelEasy:
		if rng == nil {
			return nil, fmt.Errorf("random bot needs a source")
		}
		return &RandomBot{rng: rng}, nil
	case BotLevelGood:
		return &GoodBot{}, nil
	case BotLevelSmart:
		return NewSmartBot(), nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}
