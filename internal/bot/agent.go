package bot

import (
	"errors"

	"toptrumps/internal/app"
	"toptrumps/internal/domain"
)

// ErrEmptyHand is returned when the agent is asked to act without cards.
var ErrEmptyHand = errors.New("bot: no cards left")

// Agent represents an autonomous bot player seated in a match.
type Agent struct {
	ID       string // player id in the match
	Name     string
	Strategy Brain
}

// Choose asks the agent which attribute the round is played on.
func (a *Agent) Choose(hand []app.AvailableCard) (domain.Attribute, error) {
	if len(hand) == 0 {
		return domain.AttributeNone, ErrEmptyHand
	}
	return a.Strategy.ChooseAttribute(hand)
}

// Play asks the agent for the card it commits on attr.
func (a *Agent) Play(hand []app.AvailableCard, attr domain.Attribute, chooser bool) (Move, error) {
	if len(hand) == 0 {
		return Move{}, ErrEmptyHand
	}
	return a.Strategy.PickCard(hand, attr, chooser)
}

// OnGameEvent notifies the agent of a game event.
func (a *Agent) OnGameEvent(event interface{}) {
	a.Strategy.OnEvent(event)
}
