package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseFillsDefaults(t *testing.T) {
	c, err := Parse([]byte(`{"max_rounds": 5, "default_category": "dragons"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.MaxRounds != 5 || c.HandSize != 8 || c.MinPlayers != 2 || c.MaxPlayers != 7 {
		t.Fatalf("config = %+v", c)
	}
	if c.DefaultCategory != "dragons" || c.CardsFile != "data/cards.json" {
		t.Fatalf("config = %+v", c)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"zero hand", `{"hand_size": 0}`},
		{"zero rounds", `{"max_rounds": 0}`},
		{"one min player", `{"min_players": 1}`},
		{"max below min", `{"min_players": 4, "max_players": 3}`},
		{"not json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.json)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	base := Default()
	got, err := base.ApplyEnv(map[string]string{
		"TOPTRUMPS_HAND_SIZE":        "4",
		"toptrumps_max_rounds":       " 6 ",
		"toptrumps_default_category": "robots",
		"unrelated":                  "x",
	})
	if err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if got.HandSize != 4 || got.MaxRounds != 6 || got.DefaultCategory != "robots" {
		t.Fatalf("config = %+v", got)
	}
	if base.HandSize != 8 {
		t.Fatalf("ApplyEnv mutated its receiver")
	}

	if _, err := base.ApplyEnv(map[string]string{EnvHandSize: "many"}); err == nil {
		t.Fatalf("expected error for non-numeric hand size")
	}
	if _, err := base.ApplyEnv(map[string]string{EnvMaxRounds: "0"}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestRules(t *testing.T) {
	r := Default().Rules()
	if r.HandSize != 8 || r.MaxRounds != 8 || r.MinPlayers != 2 || r.MaxPlayers != 7 {
		t.Fatalf("rules = %+v", r)
	}
}

func TestLoadCards(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cards.json")
	body := `[{"id":"a","name":"Alpha","category":"dragons","life":1,"defense":2,"speed":3,"attack":4,"power":5,"terror":6},
	          {"id":"b","name":"Beta","category":"robots"}]`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cards, err := LoadCards(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cards) != 2 || cards[0].Terror != 6 || cards[1].Category != "robots" {
		t.Fatalf("cards = %+v", cards)
	}

	if err := os.WriteFile(path, []byte(`[{"name":"nameless"}]`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadCards(path); err == nil {
		t.Fatalf("expected error for card without id")
	}
}
