package domain

import (
	"fmt"
	"strings"
)

// Attribute names one of the six numeric card stats a round is played on.
type Attribute string

const (
	AttributeNone    Attribute = ""
	AttributeLife    Attribute = "life"
	AttributeDefense Attribute = "defense"
	AttributeSpeed   Attribute = "speed"
	AttributeAttack  Attribute = "attack"
	AttributePower   Attribute = "power"
	AttributeTerror  Attribute = "terror"
)

// Attributes lists the recognized attributes in display order.
var Attributes = []Attribute{AttributeLife, AttributeDefense, AttributeSpeed, AttributeAttack, AttributePower, AttributeTerror}

// attributeAliases maps lowercase labels shown by the client to attributes.
var attributeAliases = map[string]Attribute{
	"life":      AttributeLife,
	"vida":      AttributeLife,
	"defense":   AttributeDefense,
	"defensa":   AttributeDefense,
	"speed":     AttributeSpeed,
	"velocidad": AttributeSpeed,
	"attack":    AttributeAttack,
	"ataque":    AttributeAttack,
	"power":     AttributePower,
	"poder":     AttributePower,
	"terror":    AttributeTerror,
}

// ParseAttribute resolves a case-insensitive attribute label.
func ParseAttribute(name string) (Attribute, error) {
	attr, ok := attributeAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return AttributeNone, fmt.Errorf("%w: %q", ErrInvalidAttribute, name)
	}
	return attr, nil
}

// Valid reports whether a is one of the six recognized attributes.
func (a Attribute) Valid() bool {
	for _, known := range Attributes {
		if a == known {
			return true
		}
	}
	return false
}

// Value returns the card's stat for attr.
func (c Card) Value(attr Attribute) (int, error) {
	switch attr {
	case AttributeLife:
		return c.Life, nil
	case AttributeDefense:
		return c.Defense, nil
	case AttributeSpeed:
		return c.Speed, nil
	case AttributeAttack:
		return c.Attack, nil
	case AttributePower:
		return c.Power, nil
	case AttributeTerror:
		return c.Terror, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidAttribute, attr)
	}
}

// usable reports whether every stat is non-negative.
func (c Card) usable() bool {
	return c.ID != "" && c.Life >= 0 && c.Defense >= 0 && c.Speed >= 0 &&
		c.Attack >= 0 && c.Power >= 0 && c.Terror >= 0
}
