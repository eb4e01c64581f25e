package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the core wraps exactly one of these.
var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrIllegalState      = errors.New("illegal state")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientCards = errors.New("insufficient cards")
	ErrNoEligiblePlayer  = errors.New("no eligible player")
)

var (
	ErrInvalidPlayerCount     = fmt.Errorf("%w: player count out of range", ErrValidation)
	ErrInvalidAttribute       = fmt.Errorf("%w: unknown attribute", ErrValidation)
	ErrEmptyPlayerName        = fmt.Errorf("%w: player name is required", ErrValidation)
	ErrMatchFinished          = fmt.Errorf("%w: match already finished", ErrIllegalState)
	ErrMatchNotFinished       = fmt.Errorf("%w: match not finished", ErrIllegalState)
	ErrRoundNotOpen           = fmt.Errorf("%w: round is not accepting cards", ErrIllegalState)
	ErrRoundNotFinished       = fmt.Errorf("%w: current round not finished", ErrIllegalState)
	ErrAttributeAlreadyChosen = fmt.Errorf("%w: attribute already chosen", ErrIllegalState)
	ErrNotYourTurn            = fmt.Errorf("%w: not your turn", ErrConflict)
	ErrNotOwner               = fmt.Errorf("%w: card belongs to another player", ErrConflict)
	ErrCardAlreadyUsed        = fmt.Errorf("%w: card already used", ErrConflict)
	ErrDuplicatePlay          = fmt.Errorf("%w: player already played this round", ErrConflict)
)

// Kind returns the error kind wrapped by err, or nil when err carries none.
func Kind(err error) error {
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrIllegalState, ErrConflict, ErrInsufficientCards, ErrNoEligiblePlayer} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
