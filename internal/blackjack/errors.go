package blackjack

import "errors"

// Engine errors. The first group is recoverable by the caller retrying with a
// legal action; ErrUnknownSession is not retryable against the same id;
// ErrDeckExhausted signals a broken internal invariant and abandons the
// session.
var (
	ErrInvalidBet          = errors.New("bet amount must be a positive value within balance")
	ErrInvalidPhaseAction  = errors.New("action not permitted in current phase")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrIneligibleDouble    = errors.New("double requires exactly two cards on an unsplit hand")
	ErrIneligibleSplit     = errors.New("split requires a two-card pair of equal value and no prior split")
	ErrUnknownSession      = errors.New("unknown or archived session")
	ErrDeckExhausted       = errors.New("deck exhausted")
)
