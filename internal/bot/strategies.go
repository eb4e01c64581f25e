package bot

import (
	"fmt"
	"math/rand"
	"sort"

	"toptrumps/internal/app"
	"toptrumps/internal/domain"
)

// RandomBot picks any attribute and any card.
type RandomBot struct {
	rng *rand.Rand
}

func (b *RandomBot) ChooseAttribute(hand []app.AvailableCard) (domain.Attribute, error) {
	return domain.Attributes[b.rng.Intn(len(domain.Attributes))], nil
}

func (b *RandomBot) PickCard(hand []app.AvailableCard, attr domain.Attribute, _ bool) (Move, error) {
	if len(hand) == 0 {
		return Move{}, ErrEmptyHand
	}
	return moveFor(hand[b.rng.Intn(len(hand))], attr)
}

func (b *RandomBot) OnEvent(interface{}) {}

// scoredCard is a hand card with its value on one attribute.
type scoredCard struct {
	card  app.AvailableCard
	value int
}

// rankHand returns the hand ordered by value on attr, weakest first. Ties keep deck order.
func rankHand(hand []app.AvailableCard, attr domain.Attribute) ([]scoredCard, error) {
	out := make([]scoredCard, 0, len(hand))
	for _, c := range hand {
		v, err := c.Card.Value(attr)
		if err != nil {
			return nil, err
		}
		out = append(out, scoredCard{card: c, value: v})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].value != out[j].value {
			return out[i].value < out[j].value
		}
		return out[i].card.DeckPosition < out[j].card.DeckPosition
	})
	return out, nil
}

func moveFor(c app.AvailableCard, attr domain.Attribute) (Move, error) {
	v, err := c.Card.Value(attr)
	if err != nil {
		return Move{}, fmt.Errorf("bot: %w", err)
	}
	return Move{PlayerCardID: c.ID, Value: v}, nil
}
