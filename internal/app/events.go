package app

import (
	"context"

	"toptrumps/internal/domain"
)

// EventKind identifies emitted domain events for Nakama dispatch.
type EventKind string

const (
	EventMatchCreated    EventKind = "match_created"
	EventAttributeChosen EventKind = "attribute_chosen"
	EventCardPlayed      EventKind = "card_played"
	EventRoundResolved   EventKind = "round_resolved"
	EventRoundStarted    EventKind = "round_started"
	EventMatchFinished   EventKind = "match_finished"
)

// Event is a domain/app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	MatchID    string
	Payload    any
	Recipients []string // user IDs; empty means nobody registered an account
}

// EventSink receives events after the mutation that produced them has committed.
// A failing sink never rolls anything back.
type EventSink interface {
	Publish(ctx context.Context, events []Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(ctx context.Context, events []Event)

func (f EventSinkFunc) Publish(ctx context.Context, events []Event) { f(ctx, events) }

type discardSink struct{}

func (discardSink) Publish(context.Context, []Event) {}

type MatchCreatedPayload struct {
	MatchID   string
	Players   []domain.Player
	ChooserID string
	HandSize  int
	MaxRounds int
}

type AttributeChosenPayload struct {
	RoundNumber int
	ChooserID   string
	Attribute   domain.Attribute
}

// CardPlayedPayload deliberately omits the card: opponents only learn that a play happened.
type CardPlayedPayload struct {
	RoundNumber int
	PlayerID    string
	Pending     int
}

type RoundResolvedPayload struct {
	RoundNumber    int
	Attribute      domain.Attribute
	WinnerPlayerID *string
	Tied           bool
	Plays          []domain.Play
}

type RoundStartedPayload struct {
	RoundNumber int
	ChooserID   string
}

type MatchFinishedPayload struct {
	Ranking []domain.RankingEntry
}

// recipientsOf returns the registered user ids of players, in seat order.
func recipientsOf(players []domain.Player) []string {
	out := make([]string, 0, len(players))
	for _, p := range players {
		if p.UserID != "" {
			out = append(out, p.UserID)
		}
	}
	return out
}
