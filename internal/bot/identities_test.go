package bot

import (
	"strings"
	"testing"
)

func TestParseIdentities(t *testing.T) {
	ids, err := ParseIdentities([]byte(`[
		{"name": "Lupe", "avatar": "owl", "difficulty": "hard"},
		{"name": "Toño", "difficulty": "easy"}
	]`))
	if err != nil {
		t.Fatalf("ParseIdentities failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 identities, got %d", len(ids))
	}
	if ids[0].Level() != BotLevelSmart || ids[1].Level() != BotLevelEasy {
		t.Errorf("unexpected levels: %d, %d", ids[0].Level(), ids[1].Level())
	}
	reg := ids[0].Registration()
	if reg.Name != "Lupe" || reg.Avatar != "owl" || reg.UserID != "" {
		t.Errorf("unexpected registration: %+v", reg)
	}
}

func TestParseIdentities_Rejects(t *testing.T) {
	cases := map[string]string{
		"not json":       `{`,
		"missing name":   `[{"difficulty": "easy"}]`,
		"bad difficulty": `[{"name": "X", "difficulty": "legendary"}]`,
	}
	for name, raw := range cases {
		if _, err := ParseIdentities([]byte(raw)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestGetBotIdentity_Fallback(t *testing.T) {
	id := GetBotIdentity(2)
	if !strings.Contains(id.Name, "3") || id.Level() != BotLevelGood {
		t.Errorf("unexpected fallback identity: %+v", id)
	}
}

func TestParseLevel(t *testing.T) {
	for label, want := range map[string]BotLevel{"": BotLevelEasy, "Medium": BotLevelGood, " hard ": BotLevelSmart} {
		got, err := ParseLevel(label)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %d, %v; want %d", label, got, err, want)
		}
	}
}
