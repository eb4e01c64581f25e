package domain

import "time"

// Status represents the lifecycle stage of a match or a round.
type Status string

const (
	// StatusWaiting is the initial stage: a match being set up, or a round whose attribute is not chosen yet.
	StatusWaiting Status = "waiting"
	// StatusInProgress indicates the match is being played, or the round is accepting cards.
	StatusInProgress Status = "in_progress"
	// StatusFinished is terminal. Finished rows are never mutated again.
	StatusFinished Status = "finished"
)

// Card is a reference card definition from the catalog. The core never mutates cards.
type Card struct {
	ID       string
	Name     string
	Category string
	Life     int
	Defense  int
	Speed    int
	Attack   int
	Power    int
	Terror   int
}

// Match is one complete game instance. It is the single source of truth for the current round and turn.
type Match struct {
	ID                  string
	Status              Status
	CurrentRoundNumber  int
	CurrentTurnPlayerID string
	ChosenAttribute     Attribute // AttributeNone until the chooser picks
	MaxRounds           int
	HandSize            int
	Category            string
	StartedAt           *time.Time
	EndedAt             *time.Time
	Version             int64
}

// PlayerRegistration is what a caller supplies for each seat when creating a match.
type PlayerRegistration struct {
	UserID string // optional external account id
	Name   string
	Avatar string
}

// Player is a seat in a match.
type Player struct {
	ID           string
	MatchID      string
	UserID       string
	Name         string
	Avatar       string
	TurnPosition int
	Score        int
}

// PlayerCard is a card dealt into a player's private deck.
type PlayerCard struct {
	ID           string
	PlayerID     string
	CardID       string
	DeckPosition int
	Used         bool
}

// Round is one turn-cycle of a match.
type Round struct {
	ID             string
	MatchID        string
	Number         int
	Attribute      Attribute
	ChooserID      string
	WinnerPlayerID *string
	Status         Status
	StartedAt      time.Time
	EndedAt        *time.Time
}

// Play is a committed card for a round. Value is captured when the card is played and never recomputed.
type Play struct {
	ID           string
	RoundID      string
	PlayerID     string
	PlayerCardID string
	Value        int
	PlayedAt     time.Time
}

// RankingEntry is one line of the final standing.
type RankingEntry struct {
	MatchID    string
	PlayerID   string
	PlayerName string
	Score      int
	Position   int
}

// IsFinished reports whether the match accepts no further mutations.
func (m *Match) IsFinished() bool {
	return m.Status == StatusFinished
}
