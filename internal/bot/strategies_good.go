package bot

import (
	"toptrumps/internal/app"
	"toptrumps/internal/domain"
)

// GoodBot always leads with its single strongest stat and plays its best card.
type GoodBot struct{}

func (b *GoodBot) ChooseAttribute(hand []app.AvailableCard) (domain.Attribute, error) {
	if len(hand) == 0 {
		return domain.AttributeNone, ErrEmptyHand
	}
	best, bestValue := domain.AttributeNone, -1
	for _, attr := range domain.Attributes {
		ranked, err := rankHand(hand, attr)
		if err != nil {
			return domain.AttributeNone, err
		}
		if top := ranked[len(ranked)-1].value; top > bestValue {
			best, bestValue = attr, top
		}
	}
	return best, nil
}

func (b *GoodBot) PickCard(hand []app.AvailableCard, attr domain.Attribute, _ bool) (Move, error) {
	if len(hand) == 0 {
		return Move{}, ErrEmptyHand
	}
	ranked, err := rankHand(hand, attr)
	if err != nil {
		return Move{}, err
	}
	top := ranked[len(ranked)-1]
	return Move{PlayerCardID: top.card.ID, Value: top.value}, nil
}

func (b *GoodBot) OnEvent(interface{}) {}
