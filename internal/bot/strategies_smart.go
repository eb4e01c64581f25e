package bot

import (
	"sync"

	"toptrumps/internal/app"
	"toptrumps/internal/domain"
)

// SmartBot remembers the winning value of every resolved round. It plays the weakest card expected to win
// and throws away its weakest card when nothing in hand can. Use one SmartBot per match.
type SmartBot struct {
	mu   sync.Mutex
	wins map[domain.Attribute][]int
	seen map[int]bool // round numbers already recorded
}

func NewSmartBot() *SmartBot {
	return &SmartBot{
		wins: make(map[domain.Attribute][]int),
		seen: make(map[int]bool),
	}
}

func (b *SmartBot) ChooseAttribute(hand []app.AvailableCard) (domain.Attribute, error) {
	if len(hand) == 0 {
		return domain.AttributeNone, ErrEmptyHand
	}
	best, bestMargin := domain.AttributeNone, 0
	for i, attr := range domain.Attributes {
		ranked, err := rankHand(hand, attr)
		if err != nil {
			return domain.AttributeNone, err
		}
		margin := ranked[len(ranked)-1].value - b.threshold(attr, ranked)
		if i == 0 || margin > bestMargin {
			best, bestMargin = attr, margin
		}
	}
	return best, nil
}

func (b *SmartBot) PickCard(hand []app.AvailableCard, attr domain.Attribute, chooser bool) (Move, error) {
	if len(hand) == 0 {
		return Move{}, ErrEmptyHand
	}
	ranked, err := rankHand(hand, attr)
	if err != nil {
		return Move{}, err
	}
	if _, known := b.expected(attr); !known {
		top := ranked[len(ranked)-1]
		return Move{PlayerCardID: top.card.ID, Value: top.value}, nil
	}

	bar := b.threshold(attr, ranked)
	for _, c := range ranked {
		if c.value > bar {
			return Move{PlayerCardID: c.card.ID, Value: c.value}, nil
		}
	}
	pick := ranked[0]
	if chooser {
		pick = ranked[len(ranked)-1]
	}
	return Move{PlayerCardID: pick.card.ID, Value: pick.value}, nil
}

// OnEvent records resolved rounds, either from the service result or from a published event.
func (b *SmartBot) OnEvent(event interface{}) {
	switch ev := event.(type) {
	case *app.RoundResult:
		if ev != nil && ev.Resolved() {
			b.record(ev.Round.Number, ev.Round.Attribute, ev.WinnerPlayerID, ev.Plays)
		}
	case app.Event:
		if p, ok := ev.Payload.(app.RoundResolvedPayload); ok {
			b.record(p.RoundNumber, p.Attribute, p.WinnerPlayerID, p.Plays)
		}
	}
}

func (b *SmartBot) record(round int, attr domain.Attribute, winner *string, plays []domain.Play) {
	if winner == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.seen[round] {
		return
	}
	for _, p := range plays {
		if p.PlayerID == *winner {
			b.wins[attr] = append(b.wins[attr], p.Value)
			b.seen[round] = true
			return
		}
	}
}

// expected returns the mean winning value observed on attr.
func (b *SmartBot) expected(attr domain.Attribute) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	values := b.wins[attr]
	if len(values) == 0 {
		return 0, false
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return sum / len(values), true
}

// threshold is the value a card must beat on attr; the hand's mean stands in until a round was seen.
func (b *SmartBot) threshold(attr domain.Attribute, ranked []scoredCard) int {
	if v, ok := b.expected(attr); ok {
		return v
	}
	sum := 0
	for _, c := range ranked {
		sum += c.value
	}
	return sum / len(ranked)
}
