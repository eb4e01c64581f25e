package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"toptrumps/internal/domain"
	"toptrumps/internal/ports"

	"github.com/google/uuid"
)

// Service contains the Top Trumps match use-cases operating on the durable store.
// Every mutating call runs in one unit of work and holds the match's lock for its duration.
type Service struct {
	store ports.Store
	rules domain.Rules
	sink  EventSink
	locks *matchLocks

	rngMu sync.Mutex
	rng   *rand.Rand

	now   func() time.Time
	newID func() string
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(store ports.Store, rules domain.Rules, rng *rand.Rand, sink EventSink) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if sink == nil {
		sink = discardSink{}
	}
	return &Service{
		store: store,
		rules: rules,
		sink:  sink,
		locks: newMatchLocks(),
		rng:   rng,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// Rules returns the rules new matches are created with.
func (s *Service) Rules() domain.Rules { return s.rules }

// CreateMatch deals decks to the registered players, starts the match and opens round 1.
// category filters the card pool; empty uses the whole catalog.
func (s *Service) CreateMatch(ctx context.Context, regs []domain.PlayerRegistration, category string) (*MatchState, error) {
	if err := domain.CheckPlayerCount(s.rules, len(regs)); err != nil {
		return nil, err
	}
	for i, reg := range regs {
		if strings.TrimSpace(reg.Name) == "" {
			return nil, fmt.Errorf("%w: seat %d", domain.ErrEmptyPlayerName, i)
		}
	}

	now := s.now()
	match := &domain.Match{
		ID:        s.newID(),
		Status:    domain.StatusWaiting,
		MaxRounds: s.rules.MaxRounds,
		HandSize:  s.rules.HandSize,
		Category:  category,
	}
	players := make([]domain.Player, 0, len(regs))
	for i, reg := range regs {
		players = append(players, domain.Player{
			ID:           s.newID(),
			MatchID:      match.ID,
			UserID:       reg.UserID,
			Name:         strings.TrimSpace(reg.Name),
			Avatar:       reg.Avatar,
			TurnPosition: i,
		})
	}

	var round *domain.Round
	err := s.store.Update(ctx, func(tx ports.Tx) error {
		pool, err := tx.ListCards(ctx, category)
		if err != nil {
			return err
		}
		hands, err := s.deal(players, pool)
		if err != nil {
			return err
		}

		if err := tx.CreateMatch(ctx, match); err != nil {
			return err
		}
		if err := tx.CreatePlayers(ctx, players); err != nil {
			return err
		}
		seats := make([]domain.Seat, 0, len(players))
		for _, p := range players {
			hand := hands[p.ID]
			for i := range hand {
				hand[i].ID = s.newID()
			}
			if err := tx.CreatePlayerCards(ctx, hand); err != nil {
				return err
			}
			seats = append(seats, domain.Seat{PlayerID: p.ID, TurnPosition: p.TurnPosition, CardsLeft: len(hand)})
		}

		chooser, err := domain.NextChooser(seats, 1)
		if err != nil {
			return err
		}
		round = &domain.Round{
			ID:        s.newID(),
			MatchID:   match.ID,
			Number:    1,
			ChooserID: chooser,
			Status:    domain.StatusWaiting,
			StartedAt: now,
		}
		if err := tx.CreateRound(ctx, round); err != nil {
			return err
		}

		match.Status = domain.StatusInProgress
		match.StartedAt = &now
		match.CurrentRoundNumber = 1
		match.CurrentTurnPlayerID = chooser
		return tx.UpdateMatch(ctx, match)
	})
	if err != nil {
		return nil, err
	}

	state := &MatchState{Match: *match, Round: round}
	for _, p := range players {
		state.Players = append(state.Players, PlayerState{Player: p, CardsLeft: match.HandSize})
	}
	recipients := recipientsOf(players)
	s.sink.Publish(ctx, []Event{
		{Kind: EventMatchCreated, MatchID: match.ID, Recipients: recipients, Payload: MatchCreatedPayload{
			MatchID:   match.ID,
			Players:   players,
			ChooserID: round.ChooserID,
			HandSize:  match.HandSize,
			MaxRounds: match.MaxRounds,
		}},
		{Kind: EventRoundStarted, MatchID: match.ID, Recipients: recipients, Payload: RoundStartedPayload{
			RoundNumber: 1,
			ChooserID:   round.ChooserID,
		}},
	})
	return state, nil
}

func (s *Service) deal(players []domain.Player, pool []domain.Card) (map[string][]domain.PlayerCard, error) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return domain.AllocateDecks(s.rng, s.rules, players, pool)
}

// GetMatchState returns the current projection of a match. It never mutates.
func (s *Service) GetMatchState(ctx context.Context, matchID string) (*MatchState, error) {
	var state *MatchState
	err := s.store.View(ctx, func(tx ports.Tx) error {
		m, err := tx.GetMatch(ctx, matchID)
		if err != nil {
			return err
		}
		players, err := tx.ListPlayers(ctx, matchID)
		if err != nil {
			return err
		}
		counts, err := tx.CountUnusedCards(ctx, matchID)
		if err != nil {
			return err
		}

		state = &MatchState{Match: *m}
		played := map[string]bool{}
		if m.CurrentRoundNumber > 0 {
			round, err := tx.GetRound(ctx, matchID, m.CurrentRoundNumber)
			if err != nil {
				return err
			}
			plays, err := tx.ListPlays(ctx, round.ID)
			if err != nil {
				return err
			}
			for _, p := range plays {
				played[p.PlayerID] = true
			}
			state.Round = round
		}
		for _, p := range players {
			state.Players = append(state.Players, PlayerState{Player: p, CardsLeft: counts[p.ID], HasPlayed: played[p.ID]})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// ChooseAttribute sets the competing attribute of the current round. Only the round's chooser may call it,
// once, while the round is waiting.
func (s *Service) ChooseAttribute(ctx context.Context, matchID, playerID, attribute string) (*domain.Round, error) {
	attr, err := domain.ParseAttribute(attribute)
	if err != nil {
		return nil, err
	}

	release := s.locks.lock(matchID)
	defer release()

	var sc *scope
	err = s.store.Update(ctx, func(tx ports.Tx) error {
		var err error
		sc, err = lockScope(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if err := sc.requirePlaying(); err != nil {
			return err
		}
		if _, err := sc.player(playerID); err != nil {
			return err
		}
		r := sc.round
		if r.Status != domain.StatusWaiting {
			return fmt.Errorf("%w: round %d", domain.ErrAttributeAlreadyChosen, r.Number)
		}
		if r.ChooserID != playerID {
			return fmt.Errorf("%w: round %d is chosen by %s", domain.ErrNotYourTurn, r.Number, r.ChooserID)
		}

		r.Attribute = attr
		r.Status = domain.StatusInProgress
		if err := tx.UpdateRound(ctx, r); err != nil {
			return err
		}
		sc.match.ChosenAttribute = attr
		return tx.UpdateMatch(ctx, sc.match)
	})
	if err != nil {
		return nil, err
	}

	s.sink.Publish(ctx, []Event{{
		Kind:       EventAttributeChosen,
		MatchID:    matchID,
		Recipients: recipientsOf(sc.players),
		Payload:    AttributeChosenPayload{RoundNumber: sc.round.Number, ChooserID: playerID, Attribute: attr},
	}})
	return sc.round, nil
}

// PlayCard commits one of the player's unused cards to the current round, snapshotting the value of the
// competing attribute. The card is marked used and the play recorded atomically.
func (s *Service) PlayCard(ctx context.Context, matchID, playerID, playerCardID string) (*domain.Play, error) {
	release := s.locks.lock(matchID)
	defer release()

	var (
		sc      *scope
		play    *domain.Play
		pending int
	)
	err := s.store.Update(ctx, func(tx ports.Tx) error {
		var err error
		sc, err = lockScope(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if err := sc.requirePlaying(); err != nil {
			return err
		}
		if _, err := sc.player(playerID); err != nil {
			return err
		}
		r := sc.round
		if r.Status != domain.StatusInProgress {
			return fmt.Errorf("%w: round %d is %s", domain.ErrRoundNotOpen, r.Number, r.Status)
		}

		pc, err := tx.GetPlayerCard(ctx, playerCardID)
		if err != nil {
			return err
		}
		if pc.PlayerID != playerID {
			return fmt.Errorf("%w: %s", domain.ErrNotOwner, playerCardID)
		}
		if pc.Used {
			return fmt.Errorf("%w: %s", domain.ErrCardAlreadyUsed, playerCardID)
		}
		plays, err := tx.ListPlays(ctx, r.ID)
		if err != nil {
			return err
		}
		for _, p := range plays {
			if p.PlayerID == playerID {
				return fmt.Errorf("%w: round %d", domain.ErrDuplicatePlay, r.Number)
			}
		}

		card, err := tx.GetCard(ctx, pc.CardID)
		if err != nil {
			return err
		}
		value, err := card.Value(r.Attribute)
		if err != nil {
			return err
		}

		if err := tx.MarkCardUsed(ctx, pc.ID); err != nil {
			return err
		}
		play = &domain.Play{
			ID:           s.newID(),
			RoundID:      r.ID,
			PlayerID:     playerID,
			PlayerCardID: pc.ID,
			Value:        value,
			PlayedAt:     s.now(),
		}
		if err := tx.CreatePlay(ctx, play); err != nil {
			return err
		}

		counts, err := tx.CountUnusedCards(ctx, matchID)
		if err != nil {
			return err
		}
		plays = append(plays, *play)
		pending = len(waitingOn(activeInRound(sc.players, counts, plays), plays))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sink.Publish(ctx, []Event{{
		Kind:       EventCardPlayed,
		MatchID:    matchID,
		Recipients: recipientsOf(sc.players),
		Payload:    CardPlayedPayload{RoundNumber: sc.round.Number, PlayerID: playerID, Pending: pending},
	}})
	return play, nil
}

// TryResolveRound closes the current round once every active player has played. An incomplete round is
// reported as pending, not as an error. Resolving an already finished round returns its stored outcome.
func (s *Service) TryResolveRound(ctx context.Context, matchID string) (*RoundResult, error) {
	release := s.locks.lock(matchID)
	defer release()

	var (
		sc       *scope
		result   *RoundResult
		resolved bool
	)
	err := s.store.Update(ctx, func(tx ports.Tx) error {
		var err error
		sc, err = lockScope(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if sc.round == nil {
			return fmt.Errorf("%w: match %s has no round", domain.ErrRoundNotOpen, matchID)
		}
		r := sc.round
		plays, err := tx.ListPlays(ctx, r.ID)
		if err != nil {
			return err
		}

		if r.Status == domain.StatusFinished {
			result = &RoundResult{
				State:          ResolutionResolved,
				Round:          *r,
				Plays:          plays,
				WinnerPlayerID: r.WinnerPlayerID,
				Tied:           r.WinnerPlayerID == nil && domain.DecideRound(plays).Tied,
			}
			return nil
		}
		if err := sc.requirePlaying(); err != nil {
			return err
		}

		counts, err := tx.CountUnusedCards(ctx, matchID)
		if err != nil {
			return err
		}
		active := activeInRound(sc.players, counts, plays)
		if r.Status == domain.StatusWaiting || !domain.RoundComplete(plays, active) {
			result = &RoundResult{State: ResolutionPending, Round: *r, Waiting: waitingOn(active, plays)}
			return nil
		}

		outcome := domain.DecideRound(plays)
		if outcome.WinnerPlayerID != nil {
			if err := tx.AddScore(ctx, *outcome.WinnerPlayerID, 1); err != nil {
				return err
			}
		}
		end := s.now()
		r.WinnerPlayerID = outcome.WinnerPlayerID
		r.Status = domain.StatusFinished
		r.EndedAt = &end
		if err := tx.UpdateRound(ctx, r); err != nil {
			return err
		}
		if err := tx.UpdateMatch(ctx, sc.match); err != nil {
			return err
		}

		resolved = true
		result = &RoundResult{
			State:          ResolutionResolved,
			Round:          *r,
			Plays:          plays,
			WinnerPlayerID: outcome.WinnerPlayerID,
			Tied:           outcome.Tied,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if resolved {
		s.sink.Publish(ctx, []Event{{
			Kind:       EventRoundResolved,
			MatchID:    matchID,
			Recipients: recipientsOf(sc.players),
			Payload: RoundResolvedPayload{
				RoundNumber:    result.Round.Number,
				Attribute:      result.Round.Attribute,
				WinnerPlayerID: result.WinnerPlayerID,
				Tied:           result.Tied,
				Plays:          result.Plays,
			},
		}})
	}
	return result, nil
}

// AdvanceRound moves a match whose current round is finished either to the next round or, when the round
// cap is reached or no player holds cards any more, to Finished with its ranking stored.
func (s *Service) AdvanceRound(ctx context.Context, matchID string) (*AdvanceResult, error) {
	release := s.locks.lock(matchID)
	defer release()

	var (
		sc     *scope
		result *AdvanceResult
	)
	err := s.store.Update(ctx, func(tx ports.Tx) error {
		var err error
		sc, err = lockScope(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if err := sc.requirePlaying(); err != nil {
			return err
		}
		if sc.round.Status != domain.StatusFinished {
			return fmt.Errorf("%w: round %d is %s", domain.ErrRoundNotFinished, sc.round.Number, sc.round.Status)
		}

		m := sc.match
		if m.CurrentRoundNumber >= m.MaxRounds {
			ranking, err := s.finish(ctx, tx, m)
			if err != nil {
				return err
			}
			result = &AdvanceResult{Match: *m, Finished: true, Ranking: ranking}
			return nil
		}

		counts, err := tx.CountUnusedCards(ctx, matchID)
		if err != nil {
			return err
		}
		next := m.CurrentRoundNumber + 1
		chooser, err := domain.NextChooser(seatsOf(sc.players, counts), next)
		if errors.Is(err, domain.ErrNoEligiblePlayer) {
			ranking, err := s.finish(ctx, tx, m)
			if err != nil {
				return err
			}
			result = &AdvanceResult{Match: *m, Finished: true, Ranking: ranking}
			return nil
		}
		if err != nil {
			return err
		}

		round := &domain.Round{
			ID:        s.newID(),
			MatchID:   matchID,
			Number:    next,
			ChooserID: chooser,
			Status:    domain.StatusWaiting,
			StartedAt: s.now(),
		}
		if err := tx.CreateRound(ctx, round); err != nil {
			return err
		}
		m.CurrentRoundNumber = next
		m.CurrentTurnPlayerID = chooser
		m.ChosenAttribute = domain.AttributeNone
		if err := tx.UpdateMatch(ctx, m); err != nil {
			return err
		}
		result = &AdvanceResult{Match: *m, Round: round}
		return nil
	})
	if err != nil {
		return nil, err
	}

	recipients := recipientsOf(sc.players)
	if result.Finished {
		s.sink.Publish(ctx, []Event{{
			Kind: EventMatchFinished, MatchID: matchID, Recipients: recipients,
			Payload: MatchFinishedPayload{Ranking: result.Ranking},
		}})
	} else {
		s.sink.Publish(ctx, []Event{{
			Kind: EventRoundStarted, MatchID: matchID, Recipients: recipients,
			Payload: RoundStartedPayload{RoundNumber: result.Round.Number, ChooserID: result.Round.ChooserID},
		}})
	}
	return result, nil
}

// finish marks m finished and stores its ranking. Scores are re-read so points awarded in this
// unit of work are counted.
func (s *Service) finish(ctx context.Context, tx ports.Tx, m *domain.Match) ([]domain.RankingEntry, error) {
	end := s.now()
	m.Status = domain.StatusFinished
	m.EndedAt = &end
	if err := tx.UpdateMatch(ctx, m); err != nil {
		return nil, err
	}
	players, err := tx.ListPlayers(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	ranking, err := domain.ComputeRanking(m, players)
	if err != nil {
		return nil, err
	}
	if err := tx.ReplaceRanking(ctx, m.ID, ranking); err != nil {
		return nil, err
	}
	return ranking, nil
}

// GetRanking returns the final standing of a finished match.
func (s *Service) GetRanking(ctx context.Context, matchID string) ([]domain.RankingEntry, error) {
	var ranking []domain.RankingEntry
	err := s.store.View(ctx, func(tx ports.Tx) error {
		m, err := tx.GetMatch(ctx, matchID)
		if err != nil {
			return err
		}
		ranking, err = storedRanking(ctx, tx, m)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ranking, nil
}

func storedRanking(ctx context.Context, tx ports.Tx, m *domain.Match) ([]domain.RankingEntry, error) {
	if !m.IsFinished() {
		return nil, fmt.Errorf("%w: %s is %s", domain.ErrMatchNotFinished, m.ID, m.Status)
	}
	ranking, err := tx.ListRanking(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	if len(ranking) > 0 {
		return ranking, nil
	}
	players, err := tx.ListPlayers(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	return domain.ComputeRanking(m, players)
}

// FinalizeMatch forces a match to Finished, closing any open round without a winner, and returns the
// ranking. Finalizing a finished match is a no-op that returns the stored ranking.
func (s *Service) FinalizeMatch(ctx context.Context, matchID string) ([]domain.RankingEntry, error) {
	release := s.locks.lock(matchID)
	defer release()

	var (
		sc       *scope
		ranking  []domain.RankingEntry
		finished bool
	)
	err := s.store.Update(ctx, func(tx ports.Tx) error {
		var err error
		sc, err = lockScope(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if sc.match.IsFinished() {
			ranking, err = storedRanking(ctx, tx, sc.match)
			return err
		}
		if r := sc.round; r != nil && r.Status != domain.StatusFinished {
			end := s.now()
			r.Status = domain.StatusFinished
			r.WinnerPlayerID = nil
			r.EndedAt = &end
			if err := tx.UpdateRound(ctx, r); err != nil {
				return err
			}
		}
		ranking, err = s.finish(ctx, tx, sc.match)
		finished = err == nil
		return err
	})
	if err != nil {
		return nil, err
	}

	if finished {
		s.sink.Publish(ctx, []Event{{
			Kind: EventMatchFinished, MatchID: matchID, Recipients: recipientsOf(sc.players),
			Payload: MatchFinishedPayload{Ranking: ranking},
		}})
	}
	return ranking, nil
}

// GetAvailableCards returns the player's unused cards in deck order, with their definitions.
func (s *Service) GetAvailableCards(ctx context.Context, matchID, playerID string) ([]AvailableCard, error) {
	var out []AvailableCard
	err := s.store.View(ctx, func(tx ports.Tx) error {
		if err := memberOf(ctx, tx, matchID, playerID); err != nil {
			return err
		}
		cards, err := tx.ListPlayerCards(ctx, playerID, true)
		if err != nil {
			return err
		}
		out = make([]AvailableCard, 0, len(cards))
		for _, pc := range cards {
			card, err := tx.GetCard(ctx, pc.CardID)
			if err != nil {
				return err
			}
			out = append(out, AvailableCard{PlayerCard: pc, Card: *card})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// IsPlayerTurn reports whether playerID must choose the attribute of the current round.
func (s *Service) IsPlayerTurn(ctx context.Context, matchID, playerID string) (bool, error) {
	var turn bool
	err := s.store.View(ctx, func(tx ports.Tx) error {
		if err := memberOf(ctx, tx, matchID, playerID); err != nil {
			return err
		}
		m, err := tx.GetMatch(ctx, matchID)
		if err != nil {
			return err
		}
		if m.Status != domain.StatusInProgress || m.CurrentRoundNumber == 0 {
			return nil
		}
		r, err := tx.GetRound(ctx, matchID, m.CurrentRoundNumber)
		if err != nil {
			return err
		}
		turn = r.Status == domain.StatusWaiting && r.ChooserID == playerID
		return nil
	})
	return turn, err
}

// DeleteMatch tears down a finished match and everything it owns.
func (s *Service) DeleteMatch(ctx context.Context, matchID string) error {
	release := s.locks.lock(matchID)
	defer release()

	return s.store.Update(ctx, func(tx ports.Tx) error {
		m, err := tx.LockMatch(ctx, matchID)
		if err != nil {
			return err
		}
		if !m.IsFinished() {
			return fmt.Errorf("%w: %s is %s", domain.ErrMatchNotFinished, matchID, m.Status)
		}
		return tx.DeleteMatch(ctx, matchID)
	})
}

// GetRoundHistory lists every round of a match in order. Plays are included for finished rounds only so
// that open rounds do not reveal committed values.
func (s *Service) GetRoundHistory(ctx context.Context, matchID string) ([]RoundRecord, error) {
	var out []RoundRecord
	err := s.store.View(ctx, func(tx ports.Tx) error {
		if _, err := tx.GetMatch(ctx, matchID); err != nil {
			return err
		}
		rounds, err := tx.ListRounds(ctx, matchID)
		if err != nil {
			return err
		}
		out = make([]RoundRecord, 0, len(rounds))
		for _, r := range rounds {
			rec := RoundRecord{Round: r}
			if r.Status == domain.StatusFinished {
				if rec.Plays, err = tx.ListPlays(ctx, r.ID); err != nil {
					return err
				}
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
