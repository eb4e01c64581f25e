package nakama

import (
	"context"

	"toptrumps/internal/app"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NotificationSender is the slice of runtime.NakamaModule used to push events.
type NotificationSender interface {
	NotificationSend(ctx context.Context, userID, subject string, content map[string]interface{}, code int, sender string, persistent bool) error
}

// NakamaNotificationSink implements app.EventSink with non-persistent Nakama notifications.
type NakamaNotificationSink struct {
	nk     NotificationSender
	logger runtime.Logger
}

// NewNakamaNotificationSink creates a sink that logs delivery failures to logger.
func NewNakamaNotificationSink(nk NotificationSender, logger runtime.Logger) *NakamaNotificationSink {
	return &NakamaNotificationSink{nk: nk, logger: logger}
}

var _ app.EventSink = (*NakamaNotificationSink)(nil)

// Publish sends each event to each of its recipients. Failures are logged and skipped.
func (s *NakamaNotificationSink) Publish(ctx context.Context, events []app.Event) {
	for _, ev := range events {
		code, ok := notificationCodes[ev.Kind]
		if !ok {
			s.logger.Warn("Publish: no notification code for event %s", ev.Kind)
			continue
		}
		content := map[string]interface{}{
			"match_id": ev.MatchID,
			"event":    string(ev.Kind),
			"data":     eventData(ev.Payload),
		}
		for _, userID := range ev.Recipients {
			if err := s.nk.NotificationSend(ctx, userID, string(ev.Kind), content, code, "", false); err != nil {
				s.logger.WithField("match_id", ev.MatchID).Warn("Publish: failed to notify %s of %s: %v", userID, ev.Kind, err)
			}
		}
	}
}

var notificationCodes = map[app.EventKind]int{
	app.EventMatchCreated:    NotifyMatchCreated,
	app.EventAttributeChosen: NotifyAttributeChosen,
	app.EventCardPlayed:      NotifyCardPlayed,
	app.EventRoundResolved:   NotifyRoundResolved,
	app.EventRoundStarted:    NotifyRoundStarted,
	app.EventMatchFinished:   NotifyMatchFinished,
}

// eventData converts an event payload into its JSON-tagged client shape.
func eventData(payload any) map[string]interface{} {
	switch p := payload.(type) {
	case app.MatchCreatedPayload:
		players := make([]playerView, 0, len(p.Players))
		for _, pl := range p.Players {
			players = append(players, playerView{
				PlayerID:     pl.ID,
				UserID:       pl.UserID,
				Name:         pl.Name,
				Avatar:       pl.Avatar,
				TurnPosition: pl.TurnPosition,
				CardsLeft:    p.HandSize,
			})
		}
		return map[string]interface{}{
			"players":    players,
			"chooser_id": p.ChooserID,
			"hand_size":  p.HandSize,
			"max_rounds": p.MaxRounds,
		}
	case app.AttributeChosenPayload:
		return map[string]interface{}{
			"round":      p.RoundNumber,
			"chooser_id": p.ChooserID,
			"attribute":  string(p.Attribute),
		}
	case app.CardPlayedPayload:
		return map[string]interface{}{
			"round":     p.RoundNumber,
			"player_id": p.PlayerID,
			"pending":   p.Pending,
		}
	case app.RoundResolvedPayload:
		return map[string]interface{}{
			"round":            p.RoundNumber,
			"attribute":        string(p.Attribute),
			"winner_player_id": p.WinnerPlayerID,
			"tied":             p.Tied,
			"plays":            toPlayViews(p.Plays),
		}
	case app.RoundStartedPayload:
		return map[string]interface{}{
			"round":      p.RoundNumber,
			"chooser_id": p.ChooserID,
		}
	case app.MatchFinishedPayload:
		return map[string]interface{}{
			"ranking": toRankingViews(p.Ranking),
		}
	default:
		return nil
	}
}
