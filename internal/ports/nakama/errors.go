package nakama

import (
	"errors"

	"toptrumps/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

var errInvalidPayload = runtime.NewError("invalid request payload", codeInvalidArgument)

// codeFor maps a core error kind to the gRPC code returned to clients.
func codeFor(err error) int {
	switch domain.Kind(err) {
	case domain.ErrValidation:
		return codeInvalidArgument
	case domain.ErrNotFound:
		return codeNotFound
	case domain.ErrIllegalState, domain.ErrInsufficientCards, domain.ErrNoEligiblePlayer:
		return codeFailedPrecondition
	case domain.ErrConflict:
		return codeAborted
	default:
		return codeInternal
	}
}

// toRuntimeError logs err and converts it into a client-facing runtime error.
// Rejections are expected traffic and logged at warn; anything else is an internal failure.
func toRuntimeError(logger runtime.Logger, rpc, userID string, err error) error {
	var rerr *runtime.Error
	if errors.As(err, &rerr) {
		logger.Warn("%s [User:%s]: %s", rpc, userID, rerr.Message)
		return rerr
	}
	code := codeFor(err)
	if code == codeInternal {
		logger.Error("%s [User:%s]: %v", rpc, userID, err)
		return runtime.NewError("internal error", codeInternal)
	}
	logger.Warn("%s [User:%s]: rejected: %v", rpc, userID, err)
	return runtime.NewError(err.Error(), code)
}
