package api

import (
	"github.com/shopspring/decimal"

	"github.com/nateenglert04/smart-casino-server/internal/blackjack"
	"github.com/nateenglert04/smart-casino-server/internal/store"
)

// EngineError represents a structured error response with context
type EngineError struct {
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp string                 `json:"timestamp,omitempty"`
}

// Error implements the error interface
func (e EngineError) Error() string {
	return e.Message
}

// Error types with proper categorization
const (
	// Input validation errors
	ErrTypeValidation    = "validation_error"
	ErrTypeInvalidBet    = "invalid_bet"
	ErrTypeInvalidAction = "invalid_action"

	// Game-rule errors: the action was legal JSON but illegal blackjack
	ErrTypeInvalidPhaseAction  = "invalid_phase_action"
	ErrTypeInsufficientBalance = "insufficient_balance"
	ErrTypeIneligibleDouble    = "ineligible_double"
	ErrTypeIneligibleSplit     = "ineligible_split"
	ErrTypeUnknownSession      = "unknown_session"

	// System errors
	ErrTypeDeckExhausted = "deck_exhausted"
	ErrTypeTimeout       = "timeout"
	ErrTypeInternal      = "internal_error"
)

// ErrorCategory represents error categories for monitoring
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryGame       ErrorCategory = "game"
	CategorySystem     ErrorCategory = "system"
	CategoryTimeout    ErrorCategory = "timeout"
)

// GetErrorCategory returns the category for an error type
func GetErrorCategory(errType string) ErrorCategory {
	switch errType {
	case ErrTypeValidation, ErrTypeInvalidBet, ErrTypeInvalidAction:
		return CategoryValidation
	case ErrTypeInvalidPhaseAction, ErrTypeInsufficientBalance,
		ErrTypeIneligibleDouble, ErrTypeIneligibleSplit, ErrTypeUnknownSession:
		return CategoryGame
	case ErrTypeTimeout:
		return CategoryTimeout
	default:
		return CategorySystem
	}
}

// VersionInfo contains engine version information
type VersionInfo struct {
	EngineVersion string `json:"engine_version"`
	GitCommit     string `json:"git_commit,omitempty"`
	BuildTime     string `json:"build_time,omitempty"`
}

// StartRequest creates a new blackjack session with a bet
type StartRequest struct {
	Player    string          `json:"player,omitempty"`
	BetAmount decimal.Decimal `json:"betAmount"`
	ActionID  string          `json:"actionId,omitempty"`
}

// ActionRequest applies a named action to an existing session. ActionID is an
// optional idempotency token: resubmitting the same token returns the current
// snapshot without re-applying the action.
type ActionRequest struct {
	ActionID string `json:"actionId,omitempty"`
}

// SnapshotResponse wraps the authoritative session snapshot
type SnapshotResponse struct {
	Session       *blackjack.SessionView `json:"session"`
	EngineVersion string                 `json:"engine_version"`
}

// ActiveResponse lists sessions not yet at GameOver
type ActiveResponse struct {
	Sessions      []*blackjack.SessionView `json:"sessions"`
	EngineVersion string                   `json:"engine_version"`
}

// StatsResponse carries a player's aggregate round history
type StatsResponse struct {
	Stats         *store.PlayerStats `json:"stats"`
	EngineVersion string             `json:"engine_version"`
}

// LeaderboardResponse ranks players by net profit
type LeaderboardResponse struct {
	Entries       []store.LeaderboardEntry `json:"entries"`
	EngineVersion string                   `json:"engine_version"`
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status        string `json:"status"`
	EngineVersion string `json:"engine_version"`
	Timestamp     string `json:"timestamp"`
}
