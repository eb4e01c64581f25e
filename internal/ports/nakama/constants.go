package nakama

// RPC ids clients call. Every payload and response is JSON.
const (
	RpcCreateMatch       = "toptrumps_create_match"
	RpcGetMatchState     = "toptrumps_get_match_state"
	RpcChooseAttribute   = "toptrumps_choose_attribute"
	RpcPlayCard          = "toptrumps_play_card"
	RpcTryResolveRound   = "toptrumps_try_resolve_round"
	RpcAdvanceRound      = "toptrumps_advance_round"
	RpcGetRanking        = "toptrumps_get_ranking"
	RpcFinalizeMatch     = "toptrumps_finalize_match"
	RpcGetAvailableCards = "toptrumps_get_available_cards"
	RpcIsPlayerTurn      = "toptrumps_is_player_turn"
	RpcDeleteMatch       = "toptrumps_delete_match"
	RpcGetRoundHistory   = "toptrumps_get_round_history"
)

// Notification codes for server events. Nakama reserves codes <= 0.
const (
	NotifyMatchCreated    = 101
	NotifyAttributeChosen = 102
	NotifyCardPlayed      = 103
	NotifyRoundResolved   = 104
	NotifyRoundStarted    = 105
	NotifyMatchFinished   = 106
)

// gRPC status codes used for runtime errors.
const (
	codeInvalidArgument    = 3
	codeNotFound           = 5
	codeFailedPrecondition = 9
	codeAborted            = 10
	codeInternal           = 13
)

const (
	envConfigPath     = "toptrumps_config"
	defaultConfigPath = "data/game_config.json"
)
