package game

import (
	"errors"
	"fmt"
)

// ErrInvalidAction is the root of every rejected transition.
// All other errors in this block wrap it.
var ErrInvalidAction = errors.New("invalid action")

var (
	ErrNonPositiveAmount  = fmt.Errorf("%w: amount must be positive", ErrInvalidAction)
	ErrVaultNotFound      = fmt.Errorf("%w: vault not found", ErrInvalidAction)
	ErrDebtNotFound       = fmt.Errorf("%w: debt not found", ErrInvalidAction)
	ErrQuestNotFound      = fmt.Errorf("%w: quest not found", ErrInvalidAction)
	ErrAmountTooLarge     = fmt.Errorf("%w: amount exceeds balance limit", ErrInvalidAction)
	ErrInsufficientFunds  = fmt.Errorf("%w: insufficient vault balance", ErrInvalidAction)
	ErrInsufficientPoints = fmt.Errorf("%w: insufficient progress points", ErrInvalidAction)
	ErrUnknownSkill       = fmt.Errorf("%w: unknown skill", ErrInvalidAction)
	ErrUnknownCategory    = fmt.Errorf("%w: unknown spending category", ErrInvalidAction)
	ErrDuplicateID        = fmt.Errorf("%w: id already in use", ErrInvalidAction)
	ErrMissingField       = fmt.Errorf("%w: missing field", ErrInvalidAction)
	ErrDebtClosed         = fmt.Errorf("%w: debt already repaid", ErrInvalidAction)
	ErrOverpayment        = fmt.Errorf("%w: amount exceeds remaining debt", ErrInvalidAction)
	ErrQuestDone          = fmt.Errorf("%w: quest already completed", ErrInvalidAction)
	ErrAlreadySignedIn    = fmt.Errorf("%w: already signed in today", ErrInvalidAction)
	ErrUnknownActionType  = fmt.Errorf("%w: unknown action type", ErrInvalidAction)
)
