package domain

import (
	"errors"
	"testing"
)

func TestParseAttribute(t *testing.T) {
	tests := []struct {
		in   string
		want Attribute
	}{
		{in: "Ataque", want: AttributeAttack},
		{in: "attack", want: AttributeAttack},
		{in: " VIDA ", want: AttributeLife},
		{in: "Defensa", want: AttributeDefense},
		{in: "velocidad", want: AttributeSpeed},
		{in: "Poder", want: AttributePower},
		{in: "Terror", want: AttributeTerror},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAttribute(tt.in)
			if err != nil {
				t.Fatalf("ParseAttribute(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseAttribute(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseAttributeRejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "magic", "vida2"} {
		if _, err := ParseAttribute(in); !errors.Is(err, ErrValidation) {
			t.Fatalf("ParseAttribute(%q) err = %v, want validation error", in, err)
		}
	}
}

func TestCardValue(t *testing.T) {
	card := Card{Life: 1, Defense: 2, Speed: 3, Attack: 4, Power: 5, Terror: 6}
	for i, attr := range Attributes {
		got, err := card.Value(attr)
		if err != nil {
			t.Fatalf("Value(%s) error: %v", attr, err)
		}
		if got != i+1 {
			t.Fatalf("Value(%s) = %d, want %d", attr, got, i+1)
		}
	}
	if _, err := card.Value("vida"); err == nil {
		t.Fatal("expected alias to be rejected by Value")
	}
	if Attribute("vida").Valid() {
		t.Fatal("alias must not be a valid canonical attribute")
	}
}

func TestKind(t *testing.T) {
	if Kind(ErrNotYourTurn) != ErrConflict {
		t.Fatalf("Kind(ErrNotYourTurn) = %v", Kind(ErrNotYourTurn))
	}
	if Kind(errors.New("boom")) != nil {
		t.Fatal("plain errors carry no kind")
	}
}
