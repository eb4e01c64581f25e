package app

import "toptrumps/internal/domain"

// PlayerState is a player seat as seen by GetMatchState.
type PlayerState struct {
	domain.Player
	CardsLeft int
	HasPlayed bool // in the current round
}

// MatchState is the read-only projection of a match: current round, scores, chooser and chosen attribute.
type MatchState struct {
	Match   domain.Match
	Players []PlayerState
	Round   *domain.Round // nil only for matches that never started
}

// RoundResult is what TryResolveRound reports. State is ResolutionPending until every active player has played.
type RoundResult struct {
	State          string
	Round          domain.Round
	Plays          []domain.Play // empty while pending
	WinnerPlayerID *string
	Tied           bool
	Waiting        []string // player ids yet to play, while pending
}

// Resolved reports whether the round has a final outcome.
func (r *RoundResult) Resolved() bool { return r.State == ResolutionResolved }

// AdvanceResult is what AdvanceRound reports. Round is nil when the match finished instead.
type AdvanceResult struct {
	Match    domain.Match
	Round    *domain.Round
	Finished bool
	Ranking  []domain.RankingEntry
}

// AvailableCard pairs an unused dealt card with its catalog definition.
type AvailableCard struct {
	domain.PlayerCard
	Card domain.Card
}

// RoundRecord is one round with its plays, for history listings.
type RoundRecord struct {
	domain.Round
	Plays []domain.Play
}
