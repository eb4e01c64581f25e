package bot

import (
	"toptrumps/internal/app"
	"toptrumps/internal/domain"
)

// Move represents a card the bot commits for the current round.
type Move struct {
	PlayerCardID string
	Value        int
}

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	// ChooseAttribute is called when the bot is the chooser of a round.
	ChooseAttribute(hand []app.AvailableCard) (domain.Attribute, error)
	// PickCard selects one unused card to play on attr.
	PickCard(hand []app.AvailableCard, attr domain.Attribute, chooser bool) (Move, error)
	OnEvent(event interface{})
}
