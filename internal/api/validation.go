package api

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const maxPlayerNameLength = 64

// maxBetAmount guards against absurd wire values; real balance checks happen
// in the engine.
var maxBetAmount = decimal.NewFromInt(1_000_000)

// ValidateStartRequest validates a session-start request and returns any
// validation errors
func ValidateStartRequest(req *StartRequest) error {
	if req.BetAmount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("betAmount must be > 0")
	}
	if req.BetAmount.GreaterThan(maxBetAmount) {
		return fmt.Errorf("betAmount too large (max %s)", maxBetAmount)
	}
	if len(req.Player) > maxPlayerNameLength {
		return fmt.Errorf("player name too long (max %d characters)", maxPlayerNameLength)
	}
	if len(req.ActionID) > 128 {
		return fmt.Errorf("actionId too long (max 128 characters)")
	}
	return nil
}
