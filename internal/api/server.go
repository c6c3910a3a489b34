package api

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nateenglert04/smart-casino-server/internal/blackjack"
	"github.com/nateenglert04/smart-casino-server/internal/store"
)

// Server handles HTTP requests
type Server struct {
	db           store.DB
	engine       *blackjack.Engine
	errorHandler *ErrorHandler
	logger       *log.Logger
	auditLogger  *AuditLogger
	startTime    time.Time
}

// NewServer creates a new API server. Terminal round results flow from the
// engine into the history store through the OnResult hook.
func NewServer(db store.DB, engine *blackjack.Engine) *Server {
	logger := log.New(os.Stdout, "[API] ", log.LstdFlags|log.Lshortfile)
	errorHandler := NewErrorHandler(logger)
	auditLogger := NewAuditLogger()

	server := &Server{
		db:           db,
		engine:       engine,
		errorHandler: errorHandler,
		logger:       logger,
		auditLogger:  auditLogger,
		startTime:    time.Now(),
	}

	engine.OnResult = server.recordResult

	// Log server startup
	auditLogger.LogSystemStartup("unknown", map[string]interface{}{
		"database_enabled": server.db != nil,
	})

	return server
}

// recordResult persists a terminal round for stats and the leaderboard. The
// engine is already done with the session; a store failure loses history,
// never game state, so it is logged and swallowed.
func (s *Server) recordResult(result blackjack.RoundResult) {
	s.auditLogger.LogRoundResult(result)
	if s.db == nil {
		return
	}
	round := roundFromResult(result)
	if err := s.db.SaveRound(round); err != nil {
		s.logger.Printf("round_persist_failed session=%s player=%s error=%q", result.SessionID, result.Player, err)
	}
}

func roundFromResult(result blackjack.RoundResult) *store.Round {
	round := &store.Round{
		SessionID:   result.SessionID,
		Player:      result.Player,
		Payout:      result.TotalPayout,
		DealerValue: result.DealerValue,
	}
	for i, o := range result.Outcomes {
		if i == 0 {
			round.Bet = o.Bet
			round.Outcome = string(o.Outcome)
			round.PlayerValue = o.Value
			round.Blackjack = o.Outcome == blackjack.OutcomeBlackjack
			continue
		}
		round.Split = true
		round.SplitBet = o.Bet
		round.SplitOutcome = string(o.Outcome)
		round.SplitValue = o.Value
	}
	return round
}

// Routes sets up the HTTP routes with proper middleware
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.RequestLoggingMiddleware)
	r.Use(s.errorHandler.RecoveryHandler) // Use our custom recovery handler
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(s.CORSMiddleware)

	// Health and monitoring endpoints
	r.Get("/health", s.handleHealthCheck)
	r.Get("/health/ready", s.handleReadiness)
	r.Get("/health/live", s.handleLiveness)
	r.Get("/metrics", s.handleMetrics)

	// Game routes
	r.Route("/blackjack", func(r chi.Router) {
		r.Post("/start", s.handleStart)
		r.Post("/{id}/hit", s.handleAction("hit"))
		r.Post("/{id}/stand", s.handleAction("stand"))
		r.Post("/{id}/double", s.handleAction("double"))
		r.Post("/{id}/split", s.handleAction("split"))
		r.Get("/{id}", s.handleSnapshot)
		r.Get("/active", s.handleActive)
		r.Get("/stats", s.handleStats)
		r.Get("/leaderboard", s.handleLeaderboard)
	})

	return r
}

// writeJSON writes a JSON response with proper headers
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Engine-Version", EngineVersion)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// If encoding fails, try to write a simple error response
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
