package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"toptrumps/internal/app"
	"toptrumps/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchService is the set of use-cases the RPC layer exposes.
type MatchService interface {
	CreateMatch(ctx context.Context, regs []domain.PlayerRegistration, category string) (*app.MatchState, error)
	GetMatchState(ctx context.Context, matchID string) (*app.MatchState, error)
	ChooseAttribute(ctx context.Context, matchID, playerID, attribute string) (*domain.Round, error)
	PlayCard(ctx context.Context, matchID, playerID, playerCardID string) (*domain.Play, error)
	TryResolveRound(ctx context.Context, matchID string) (*app.RoundResult, error)
	AdvanceRound(ctx context.Context, matchID string) (*app.AdvanceResult, error)
	GetRanking(ctx context.Context, matchID string) ([]domain.RankingEntry, error)
	FinalizeMatch(ctx context.Context, matchID string) ([]domain.RankingEntry, error)
	GetAvailableCards(ctx context.Context, matchID, playerID string) ([]app.AvailableCard, error)
	IsPlayerTurn(ctx context.Context, matchID, playerID string) (bool, error)
	DeleteMatch(ctx context.Context, matchID string) error
	GetRoundHistory(ctx context.Context, matchID string) ([]app.RoundRecord, error)
}

var _ MatchService = (*app.Service)(nil)

type rpcFunc func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error)

// rpcRegistrar is the slice of runtime.Initializer used to expose RPCs.
type rpcRegistrar interface {
	RegisterRpc(id string, fn func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error)) error
}

// RPCHandler serves the JSON RPCs over a MatchService.
type RPCHandler struct {
	svc             MatchService
	defaultCategory string
}

// NewRPCHandler creates the handler. defaultCategory is used when a create request names none.
func NewRPCHandler(svc MatchService, defaultCategory string) *RPCHandler {
	return &RPCHandler{svc: svc, defaultCategory: defaultCategory}
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer rpcRegistrar, h *RPCHandler) error {
	rpcs := map[string]rpcFunc{
		RpcCreateMatch:       handle(RpcCreateMatch, h.createMatch),
		RpcGetMatchState:     handle(RpcGetMatchState, h.getMatchState),
		RpcChooseAttribute:   handle(RpcChooseAttribute, h.chooseAttribute),
		RpcPlayCard:          handle(RpcPlayCard, h.playCard),
		RpcTryResolveRound:   handle(RpcTryResolveRound, h.tryResolveRound),
		RpcAdvanceRound:      handle(RpcAdvanceRound, h.advanceRound),
		RpcGetRanking:        handle(RpcGetRanking, h.getRanking),
		RpcFinalizeMatch:     handle(RpcFinalizeMatch, h.finalizeMatch),
		RpcGetAvailableCards: handle(RpcGetAvailableCards, h.getAvailableCards),
		RpcIsPlayerTurn:      handle(RpcIsPlayerTurn, h.isPlayerTurn),
		RpcDeleteMatch:       handle(RpcDeleteMatch, h.deleteMatch),
		RpcGetRoundHistory:   handle(RpcGetRoundHistory, h.getRoundHistory),
	}
	for id, fn := range rpcs {
		if err := initializer.RegisterRpc(id, fn); err != nil {
			return err
		}
	}
	return nil
}

// handle decodes the JSON payload into Req, runs fn and encodes its result.
func handle[Req any](name string, fn func(ctx context.Context, req Req) (any, error)) rpcFunc {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

		var req Req
		if strings.TrimSpace(payload) != "" {
			if err := json.Unmarshal([]byte(payload), &req); err != nil {
				logger.Warn("%s [User:%s]: bad payload: %v", name, userID, err)
				return "", errInvalidPayload
			}
		}

		resp, err := fn(ctx, req)
		if err != nil {
			return "", toRuntimeError(logger, name, userID, err)
		}
		b, err := json.Marshal(resp)
		if err != nil {
			logger.Error("%s [User:%s]: failed to marshal response: %v", name, userID, err)
			return "", runtime.NewError("internal error", codeInternal)
		}
		return string(b), nil
	}
}

func requireMatchID(matchID string) error {
	if strings.TrimSpace(matchID) == "" {
		return runtime.NewError("match_id is required", codeInvalidArgument)
	}
	return nil
}

// resolvePlayer returns playerID, or the seat of the calling user when playerID is empty.
func (h *RPCHandler) resolvePlayer(ctx context.Context, matchID, playerID string) (string, error) {
	if playerID != "" {
		return playerID, nil
	}
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("player_id is required", codeInvalidArgument)
	}
	st, err := h.svc.GetMatchState(ctx, matchID)
	if err != nil {
		return "", err
	}
	for _, p := range st.Players {
		if p.UserID == userID {
			return p.ID, nil
		}
	}
	return "", runtime.NewError("caller is not seated in this match", codeNotFound)
}

func (h *RPCHandler) createMatch(ctx context.Context, req createMatchRequest) (any, error) {
	regs := make([]domain.PlayerRegistration, 0, len(req.Players))
	for _, p := range req.Players {
		regs = append(regs, domain.PlayerRegistration{UserID: p.UserID, Name: p.Name, Avatar: p.Avatar})
	}
	category := req.Category
	if category == "" {
		category = h.defaultCategory
	}
	st, err := h.svc.CreateMatch(ctx, regs, category)
	if err != nil {
		return nil, err
	}
	return toMatchView(st), nil
}

func (h *RPCHandler) getMatchState(ctx context.Context, req matchRequest) (any, error) {
	if err := requireMatchID(req.MatchID); err != nil {
		return nil, err
	}
	st, err := h.svc.GetMatchState(ctx, req.MatchID)
	if err != nil {
		return nil, err
	}
	return toMatchView(st), nil
}

func (h *RPCHandler) chooseAttribute(ctx context.Context, req chooseAttributeRequest) (any, error) {
	if err := requireMatchID(req.MatchID); err != nil {
		return nil, err
	}
	playerID, err := h.resolvePlayer(ctx, req.MatchID, req.PlayerID)
	if err != nil {
		return nil, err
	}
	round, err := h.svc.ChooseAttribute(ctx, req.MatchID, playerID, req.Attribute)
	if err != nil {
		return nil, err
	}
	return toRoundView(*round, nil), nil
}

func (h *RPCHandler) playCard(ctx context.Context, req playCardRequest) (any, error) {
	if err := requireMatchID(req.MatchID); err != nil {
		return nil, err
	}
	if req.PlayerCardID == "" {
		return nil, runtime.NewError("player_card_id is required", codeInvalidArgument)
	}
	playerID, err := h.resolvePlayer(ctx, req.MatchID, req.PlayerID)
	if err != nil {
		return nil, err
	}
	play, err := h.svc.PlayCard(ctx, req.MatchID, playerID, req.PlayerCardID)
	if err != nil {
		return nil, err
	}
	return playView{PlayerID: play.PlayerID, PlayerCardID: play.PlayerCardID, Value: play.Value}, nil
}

func (h *RPCHandler) tryResolveRound(ctx context.Context, req matchRequest) (any, error) {
	if err := requireMatchID(req.MatchID); err != nil {
		return nil, err
	}
	res, err := h.svc.TryResolveRound(ctx, req.MatchID)
	if err != nil {
		return nil, err
	}
	return resolveView{
		State:   res.State,
		Round:   toRoundView(res.Round, res.Plays),
		Tied:    res.Tied,
		Waiting: res.Waiting,
	}, nil
}

func (h *RPCHandler) advanceRound(ctx context.Context, req matchRequest) (any, error) {
	if err := requireMatchID(req.MatchID); err != nil {
		return nil, err
	}
	res, err := h.svc.AdvanceRound(ctx, req.MatchID)
	if err != nil {
		return nil, err
	}
	v := advanceView{Finished: res.Finished, CurrentRound: res.Match.CurrentRoundNumber}
	if res.Round != nil {
		v.ChooserID = res.Round.ChooserID
	}
	if res.Finished {
		v.Ranking = toRankingViews(res.Ranking)
	}
	return v, nil
}

func (h *RPCHandler) getRanking(ctx context.Context, req matchRequest) (any, error) {
	if err := requireMatchID(req.MatchID); err != nil {
		return nil, err
	}
	ranking, err := h.svc.GetRanking(ctx, req.MatchID)
	if err != nil {
		return nil, err
	}
	return toRankingViews(ranking), nil
}

func (h *RPCHandler) finalizeMatch(ctx context.Context, req matchRequest) (any, error) {
	if err := requireMatchID(req.MatchID); err != nil {
		return nil, err
	}
	ranking, err := h.svc.FinalizeMatch(ctx, req.MatchID)
	if err != nil {
		return nil, err
	}
	return toRankingViews(ranking), nil
}

func (h *RPCHandler) getAvailableCards(ctx context.Context, req playerRequest) (any, error) {
	if err := requireMatchID(req.MatchID); err != nil {
		return nil, err
	}
	playerID, err := h.resolvePlayer(ctx, req.MatchID, req.PlayerID)
	if err != nil {
		return nil, err
	}
	cards, err := h.svc.GetAvailableCards(ctx, req.MatchID, playerID)
	if err != nil {
		return nil, err
	}
	return toCardViews(cards), nil
}

func (h *RPCHandler) isPlayerTurn(ctx context.Context, req playerRequest) (any, error) {
	if err := requireMatchID(req.MatchID); err != nil {
		return nil, err
	}
	playerID, err := h.resolvePlayer(ctx, req.MatchID, req.PlayerID)
	if err != nil {
		return nil, err
	}
	turn, err := h.svc.IsPlayerTurn(ctx, req.MatchID, playerID)
	if err != nil {
		return nil, err
	}
	return turnView{IsTurn: turn}, nil
}

func (h *RPCHandler) deleteMatch(ctx context.Context, req matchRequest) (any, error) {
	if err := requireMatchID(req.MatchID); err != nil {
		return nil, err
	}
	if err := h.svc.DeleteMatch(ctx, req.MatchID); err != nil {
		return nil, err
	}
	return okView{OK: true}, nil
}

func (h *RPCHandler) getRoundHistory(ctx context.Context, req matchRequest) (any, error) {
	if err := requireMatchID(req.MatchID); err != nil {
		return nil, err
	}
	history, err := h.svc.GetRoundHistory(ctx, req.MatchID)
	if err != nil {
		return nil, err
	}
	out := make([]roundView, 0, len(history))
	for _, r := range history {
		out = append(out, toRoundView(r.Round, r.Plays))
	}
	return out, nil
}
