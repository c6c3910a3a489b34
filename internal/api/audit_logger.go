package api

import (
	"log"
	"os"
	"time"

	"github.com/nateenglert04/smart-casino-server/internal/blackjack"
)

// AuditLogger records every money-moving event in a structured form so a
// session's balance history can be reconstructed from the log alone.
type AuditLogger struct {
	logger *log.Logger
}

// NewAuditLogger creates a new audit logger
func NewAuditLogger() *AuditLogger {
	logger := log.New(os.Stdout, "[AUDIT] ", log.LstdFlags|log.LUTC)
	return &AuditLogger{
		logger: logger,
	}
}

// LogBetPlaced logs session creation with the stake deducted
func (al *AuditLogger) LogBetPlaced(requestID, player, sessionID string, bet string) {
	al.logger.Printf(
		"bet_placed request_id=%s player=%s session=%s bet=%s engine_version=%s timestamp=%s",
		requestID, player, sessionID, bet, EngineVersion,
		time.Now().UTC().Format(time.RFC3339),
	)
}

// LogAction logs a player action applied to a session
func (al *AuditLogger) LogAction(requestID, sessionID, action string, phase blackjack.Phase) {
	al.logger.Printf(
		"action_applied request_id=%s session=%s action=%s phase=%s engine_version=%s timestamp=%s",
		requestID, sessionID, action, phase, EngineVersion,
		time.Now().UTC().Format(time.RFC3339),
	)
}

// LogRoundResult logs the terminal result of a session
func (al *AuditLogger) LogRoundResult(result blackjack.RoundResult) {
	al.logger.Printf(
		"round_result session=%s player=%s dealer_value=%d total_bet=%s total_payout=%s hands=%d engine_version=%s timestamp=%s",
		result.SessionID, result.Player, result.DealerValue,
		result.TotalBet, result.TotalPayout, len(result.Outcomes), EngineVersion,
		time.Now().UTC().Format(time.RFC3339),
	)
}

// LogAuditEvent logs a general audit event (health checks, metrics reads)
func (al *AuditLogger) LogAuditEvent(requestID, eventType, target, outcome string, details map[string]interface{}) {
	al.logger.Printf(
		"audit_event request_id=%s event=%s target=%s outcome=%s details=%+v engine_version=%s timestamp=%s",
		requestID, eventType, target, outcome, details, EngineVersion,
		time.Now().UTC().Format(time.RFC3339),
	)
}

// LogSystemStartup logs server startup configuration
func (al *AuditLogger) LogSystemStartup(requestID string, config map[string]interface{}) {
	al.logger.Printf(
		"system_startup request_id=%s config=%+v engine_version=%s timestamp=%s",
		requestID, config, EngineVersion,
		time.Now().UTC().Format(time.RFC3339),
	)
}
