package nakama

import (
	"time"

	"toptrumps/internal/app"
	"toptrumps/internal/domain"
)

type playerRegistration struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type createMatchRequest struct {
	Players  []playerRegistration `json:"players"`
	Category string               `json:"category"`
}

type matchRequest struct {
	MatchID string `json:"match_id"`
}

// playerRequest names a seat explicitly, or leaves PlayerID empty to act as the caller's own seat.
type playerRequest struct {
	MatchID  string `json:"match_id"`
	PlayerID string `json:"player_id"`
}

type chooseAttributeRequest struct {
	MatchID   string `json:"match_id"`
	PlayerID  string `json:"player_id"`
	Attribute string `json:"attribute"`
}

type playCardRequest struct {
	MatchID      string `json:"match_id"`
	PlayerID     string `json:"player_id"`
	PlayerCardID string `json:"player_card_id"`
}

type playerView struct {
	PlayerID     string `json:"player_id"`
	UserID       string `json:"user_id,omitempty"`
	Name         string `json:"name"`
	Avatar       string `json:"avatar,omitempty"`
	TurnPosition int    `json:"turn_position"`
	Score        int    `json:"score"`
	CardsLeft    int    `json:"cards_left"`
	HasPlayed    bool   `json:"has_played"`
}

type matchView struct {
	MatchID             string       `json:"match_id"`
	Status              string       `json:"status"`
	CurrentRound        int          `json:"current_round"`
	MaxRounds           int          `json:"max_rounds"`
	HandSize            int          `json:"hand_size"`
	Category            string       `json:"category,omitempty"`
	CurrentTurnPlayerID string       `json:"current_turn_player_id"`
	ChosenAttribute     string       `json:"chosen_attribute,omitempty"`
	RoundStatus         string       `json:"round_status,omitempty"`
	StartedAt           *time.Time   `json:"started_at,omitempty"`
	EndedAt             *time.Time   `json:"ended_at,omitempty"`
	Players             []playerView `json:"players"`
}

type playView struct {
	PlayerID     string `json:"player_id"`
	PlayerCardID string `json:"player_card_id"`
	Value        int    `json:"value"`
}

type roundView struct {
	Number         int        `json:"number"`
	Attribute      string     `json:"attribute,omitempty"`
	ChooserID      string     `json:"chooser_id"`
	WinnerPlayerID *string    `json:"winner_player_id"`
	Status         string     `json:"status"`
	StartedAt      time.Time  `json:"started_at"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
	Plays          []playView `json:"plays,omitempty"`
}

type resolveView struct {
	State   string    `json:"state"`
	Round   roundView `json:"round"`
	Tied    bool      `json:"tied"`
	Waiting []string  `json:"waiting,omitempty"`
}

type rankingView struct {
	Position   int    `json:"position"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Score      int    `json:"score"`
}

type advanceView struct {
	Finished     bool          `json:"finished"`
	CurrentRound int           `json:"current_round"`
	ChooserID    string        `json:"chooser_id,omitempty"`
	Ranking      []rankingView `json:"ranking,omitempty"`
}

type cardView struct {
	PlayerCardID string `json:"player_card_id"`
	CardID       string `json:"card_id"`
	DeckPosition int    `json:"deck_position"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Life         int    `json:"life"`
	Defense      int    `json:"defense"`
	Speed        int    `json:"speed"`
	Attack       int    `json:"attack"`
	Power        int    `json:"power"`
	Terror       int    `json:"terror"`
}

type turnView struct {
	IsTurn bool `json:"is_turn"`
}

type okView struct {
	OK bool `json:"ok"`
}

func toMatchView(st *app.MatchState) matchView {
	m := st.Match
	v := matchView{
		MatchID:             m.ID,
		Status:              string(m.Status),
		CurrentRound:        m.CurrentRoundNumber,
		MaxRounds:           m.MaxRounds,
		HandSize:            m.HandSize,
		Category:            m.Category,
		CurrentTurnPlayerID: m.CurrentTurnPlayerID,
		ChosenAttribute:     string(m.ChosenAttribute),
		StartedAt:           m.StartedAt,
		EndedAt:             m.EndedAt,
		Players:             make([]playerView, 0, len(st.Players)),
	}
	if st.Round != nil {
		v.RoundStatus = string(st.Round.Status)
	}
	for _, p := range st.Players {
		v.Players = append(v.Players, playerView{
			PlayerID:     p.ID,
			UserID:       p.UserID,
			Name:         p.Name,
			Avatar:       p.Avatar,
			TurnPosition: p.TurnPosition,
			Score:        p.Score,
			CardsLeft:    p.CardsLeft,
			HasPlayed:    p.HasPlayed,
		})
	}
	return v
}

func toPlayViews(plays []domain.Play) []playView {
	out := make([]playView, 0, len(plays))
	for _, p := range plays {
		out = append(out, playView{PlayerID: p.PlayerID, PlayerCardID: p.PlayerCardID, Value: p.Value})
	}
	return out
}

func toRoundView(r domain.Round, plays []domain.Play) roundView {
	return roundView{
		Number:         r.Number,
		Attribute:      string(r.Attribute),
		ChooserID:      r.ChooserID,
		WinnerPlayerID: r.WinnerPlayerID,
		Status:         string(r.Status),
		StartedAt:      r.StartedAt,
		EndedAt:        r.EndedAt,
		Plays:          toPlayViews(plays),
	}
}

func toRankingViews(entries []domain.RankingEntry) []rankingView {
	out := make([]rankingView, 0, len(entries))
	for _, e := range entries {
		out = append(out, rankingView{Position: e.Position, PlayerID: e.PlayerID, PlayerName: e.PlayerName, Score: e.Score})
	}
	return out
}

func toCardViews(cards []app.AvailableCard) []cardView {
	out := make([]cardView, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardView{
			PlayerCardID: c.ID,
			CardID:       c.CardID,
			DeckPosition: c.DeckPosition,
			Name:         c.Card.Name,
			Category:     c.Card.Category,
			Life:         c.Card.Life,
			Defense:      c.Card.Defense,
			Speed:        c.Card.Speed,
			Attack:       c.Card.Attack,
			Power:        c.Card.Power,
			Terror:       c.Card.Terror,
		})
	}
	return out
}
