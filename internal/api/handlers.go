package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nateenglert04/smart-casino-server/internal/blackjack"
)

// handleStart creates a session: deducts the stake, deals the opening cards
// and returns the first authoritative snapshot.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req StartRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorHandler.HandleValidationError(w, r, "body", "invalid JSON format")
		return
	}

	if err := ValidateStartRequest(&req); err != nil {
		s.errorHandler.HandleValidationError(w, r, "betAmount", err.Error())
		return
	}

	view, err := s.engine.StartSession(req.Player, req.BetAmount, req.ActionID)
	if err != nil {
		s.errorHandler.HandleGameError(w, r, "", "start", err)
		return
	}

	requestID := middleware.GetReqID(r.Context())
	s.auditLogger.LogBetPlaced(requestID, view.Player, view.ID, req.BetAmount.String())

	s.writeJSON(w, http.StatusOK, SnapshotResponse{
		Session:       view,
		EngineVersion: EngineVersion,
	})
}

// handleAction returns a handler applying the named action to the session in
// the path. The snapshot in the response is the sole truth; the client must
// discard any optimistic prediction that disagrees with it.
func (s *Server) handleAction(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "id")

		var req ActionRequest
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				s.errorHandler.HandleValidationError(w, r, "body", "invalid JSON format")
				return
			}
		}

		var (
			view *blackjack.SessionView
			err  error
		)
		switch action {
		case "hit":
			view, err = s.engine.Hit(sessionID, req.ActionID)
		case "stand":
			view, err = s.engine.Stand(sessionID, req.ActionID)
		case "double":
			view, err = s.engine.Double(sessionID, req.ActionID)
		case "split":
			view, err = s.engine.Split(sessionID, req.ActionID)
		default:
			s.errorHandler.HandleValidationError(w, r, "action", "unknown action")
			return
		}
		if err != nil {
			s.errorHandler.HandleGameError(w, r, sessionID, action, err)
			return
		}

		requestID := middleware.GetReqID(r.Context())
		s.auditLogger.LogAction(requestID, sessionID, action, view.Phase)

		s.writeJSON(w, http.StatusOK, SnapshotResponse{
			Session:       view,
			EngineVersion: EngineVersion,
		})
	}
}

// handleSnapshot returns the current snapshot without applying an action.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	view, err := s.engine.Snapshot(sessionID)
	if err != nil {
		s.errorHandler.HandleGameError(w, r, sessionID, "snapshot", err)
		return
	}

	s.writeJSON(w, http.StatusOK, SnapshotResponse{
		Session:       view,
		EngineVersion: EngineVersion,
	})
}

// handleActive lists sessions not yet at GameOver so a dropped client can
// resume.
func (s *Server) handleActive(w http.ResponseWriter, r *http.Request) {
	views := s.engine.Active()

	s.writeJSON(w, http.StatusOK, ActiveResponse{
		Sessions:      views,
		EngineVersion: EngineVersion,
	})
}

// handleStats returns the aggregate round history for one player.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	player := r.URL.Query().Get("player")
	if player == "" {
		player = "guest"
	}

	stats, err := s.db.PlayerStats(player)
	if err != nil {
		s.errorHandler.HandleStoreError(w, r, "player_stats", err)
		return
	}

	s.writeJSON(w, http.StatusOK, StatsResponse{
		Stats:         stats,
		EngineVersion: EngineVersion,
	})
}

// handleLeaderboard returns players ranked by net profit.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 100 {
			s.errorHandler.HandleValidationError(w, r, "limit", "limit must be an integer between 1 and 100")
			return
		}
		limit = parsed
	}

	entries, err := s.db.Leaderboard(limit)
	if err != nil {
		s.errorHandler.HandleStoreError(w, r, "leaderboard", err)
		return
	}

	s.writeJSON(w, http.StatusOK, LeaderboardResponse{
		Entries:       entries,
		EngineVersion: EngineVersion,
	})
}
