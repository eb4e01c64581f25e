package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"toptrumps/internal/domain"
)

type BotIdentity struct {
	Name       string `json:"name"`
	Avatar     string `json:"avatar"`
	Difficulty string `json:"difficulty"` // "easy", "medium", "hard"
}

var (
	botIdentities []BotIdentity
	loadOnce      sync.Once
	loadErr       error
)

// ParseIdentities decodes a JSON list of bot profiles.
func ParseIdentities(data []byte) ([]BotIdentity, error) {
	var ids []BotIdentity
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bot identities: %w", err)
	}
	for i, id := range ids {
		if id.Name == "" {
			return nil, fmt.Errorf("bot identity %d has no name", i)
		}
		if _, err := ParseLevel(id.Difficulty); err != nil {
			return nil, fmt.Errorf("bot identity %q: %w", id.Name, err)
		}
	}
	return ids, nil
}

// LoadIdentities loads the bot profiles from the given path.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}
		botIdentities, loadErr = ParseIdentities(data)
	})
	return loadErr
}

// GetBotIdentity returns an identity for a bot by index (mod pool size).
func GetBotIdentity(index int) BotIdentity {
	if len(botIdentities) == 0 {
		return BotIdentity{
			Name:       fmt.Sprintf("AI Player %d", index+1),
			Difficulty: "medium",
		}
	}
	return botIdentities[index%len(botIdentities)]
}

// Registration is the seat request used to put this bot in a match.
func (b BotIdentity) Registration() domain.PlayerRegistration {
	return domain.PlayerRegistration{Name: b.Name, Avatar: b.Avatar}
}

// Level returns the strategy level for the identity's difficulty, falling back to easy.
func (b BotIdentity) Level() BotLevel {
	level, err := ParseLevel(b.Difficulty)
	if err != nil {
		return BotLevelEasy
	}
	return level
}
