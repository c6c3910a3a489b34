package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheckResponse represents a comprehensive health check response
type HealthCheckResponse struct {
	Status        HealthStatus           `json:"status"`
	Timestamp     string                 `json:"timestamp"`
	EngineVersion string                 `json:"engine_version"`
	GitCommit     string                 `json:"git_commit,omitempty"`
	BuildTime     string                 `json:"build_time,omitempty"`
	Uptime        string                 `json:"uptime"`
	Checks        map[string]HealthCheck `json:"checks"`
	System        SystemInfo             `json:"system"`
	RequestID     string                 `json:"request_id,omitempty"`
}

// HealthCheck represents an individual health check
type HealthCheck struct {
	Status      HealthStatus `json:"status"`
	Message     string       `json:"message,omitempty"`
	LastChecked string       `json:"last_checked"`
	Duration    string       `json:"duration,omitempty"`
}

// SystemInfo contains system information
type SystemInfo struct {
	GoVersion     string `json:"go_version"`
	NumGoroutines int    `json:"num_goroutines"`
	NumCPU        int    `json:"num_cpu"`
	GOMAXPROCS    int    `json:"gomaxprocs"`
	MemoryAlloc   uint64 `json:"memory_alloc_bytes"`
	MemoryTotal   uint64 `json:"memory_total_bytes"`
	MemorySys     uint64 `json:"memory_sys_bytes"`
	GCCycles      uint32 `json:"gc_cycles"`
}

// MetricsResponse represents basic performance metrics
type MetricsResponse struct {
	Timestamp      string     `json:"timestamp"`
	EngineVersion  string     `json:"engine_version"`
	Uptime         string     `json:"uptime"`
	System         SystemInfo `json:"system"`
	ActiveSessions int        `json:"active_sessions"`
	RequestID      string     `json:"request_id,omitempty"`
}

// handleHealthCheck provides comprehensive health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())
	start := time.Now()

	// Perform health checks
	checks := make(map[string]HealthCheck)
	overallStatus := HealthStatusHealthy

	// Check engine availability
	engineCheck := s.checkEngineHealth()
	checks["engine"] = engineCheck
	if engineCheck.Status != HealthStatusHealthy {
		overallStatus = HealthStatusUnhealthy
	}

	// Check database connectivity
	dbCheck := s.checkDatabaseHealth()
	checks["database"] = dbCheck
	if dbCheck.Status == HealthStatusUnhealthy {
		overallStatus = HealthStatusUnhealthy
	} else if dbCheck.Status == HealthStatusDegraded && overallStatus == HealthStatusHealthy {
		overallStatus = HealthStatusDegraded
	}

	// Get system information
	systemInfo := s.getSystemInfo()

	// Create response
	response := HealthCheckResponse{
		Status:        overallStatus,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		EngineVersion: EngineVersion,
		GitCommit:     GitCommit,
		BuildTime:     BuildTime,
		Uptime:        time.Since(s.startTime).String(),
		Checks:        checks,
		System:        systemInfo,
		RequestID:     requestID,
	}

	// Determine HTTP status code based on health
	statusCode := http.StatusOK
	if overallStatus == HealthStatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	// Log health check
	duration := time.Since(start)
	s.auditLogger.LogAuditEvent(
		requestID,
		"health_check",
		"system",
		string(overallStatus),
		map[string]interface{}{
			"duration":    duration,
			"checks":      len(checks),
			"status_code": statusCode,
		},
	)

	s.writeJSON(w, statusCode, response)
}

// handleMetrics provides basic performance metrics endpoint
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())

	// Get system information
	systemInfo := s.getSystemInfo()

	response := MetricsResponse{
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		EngineVersion:  EngineVersion,
		Uptime:         time.Since(s.startTime).String(),
		System:         systemInfo,
		ActiveSessions: len(s.engine.Active()),
		RequestID:      requestID,
	}

	// Log metrics request
	s.auditLogger.LogAuditEvent(
		requestID,
		"metrics_request",
		"system",
		"success",
		map[string]interface{}{
			"num_goroutines":  systemInfo.NumGoroutines,
			"memory_alloc":    systemInfo.MemoryAlloc,
			"active_sessions": response.ActiveSessions,
		},
	)

	s.writeJSON(w, http.StatusOK, response)
}

// handleReadiness provides readiness probe endpoint
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())

	// Simple readiness check - ensure critical components are available
	ready := true
	message := "Ready"

	if s.engine == nil {
		ready = false
		message = "Engine not initialized"
	}
	if s.db == nil {
		ready = false
		message = "History store not initialized"
	}

	response := map[string]interface{}{
		"ready":          ready,
		"message":        message,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"engine_version": EngineVersion,
		"request_id":     requestID,
	}

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}

	// Log readiness check
	outcome := "ready"
	if !ready {
		outcome = "not_ready"
	}
	s.auditLogger.LogAuditEvent(
		requestID,
		"readiness_check",
		"system",
		outcome,
		map[string]interface{}{
			"message": message,
		},
	)

	s.writeJSON(w, statusCode, response)
}

// handleLiveness provides liveness probe endpoint
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())

	// Simple liveness check - just respond if the server is running
	response := map[string]interface{}{
		"alive":          true,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"engine_version": EngineVersion,
		"uptime":         time.Since(s.startTime).String(),
		"request_id":     requestID,
	}

	s.writeJSON(w, http.StatusOK, response)
}

// checkEngineHealth checks the session engine is wired up
func (s *Server) checkEngineHealth() HealthCheck {
	start := time.Now()

	status := HealthStatusHealthy
	message := "Engine healthy"

	if s.engine == nil {
		status = HealthStatusUnhealthy
		message = "Engine not initialized"
	}

	return HealthCheck{
		Status:      status,
		Message:     message,
		LastChecked: time.Now().UTC().Format(time.RFC3339),
		Duration:    time.Since(start).String(),
	}
}

// checkDatabaseHealth checks database connectivity
func (s *Server) checkDatabaseHealth() HealthCheck {
	start := time.Now()

	status := HealthStatusHealthy
	message := "Database connection healthy"

	if s.db == nil {
		status = HealthStatusDegraded
		message = "History store not configured; stats and leaderboard unavailable"
	}

	return HealthCheck{
		Status:      status,
		Message:     message,
		LastChecked: time.Now().UTC().Format(time.RFC3339),
		Duration:    time.Since(start).String(),
	}
}

// getSystemInfo collects system information
func (s *Server) getSystemInfo() SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SystemInfo{
		GoVersion:     runtime.Version(),
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		GOMAXPROCS:    runtime.GOMAXPROCS(0),
		MemoryAlloc:   m.Alloc,
		MemoryTotal:   m.TotalAlloc,
		MemorySys:     m.Sys,
		GCCycles:      m.NumGC,
	}
}
