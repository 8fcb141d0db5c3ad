package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"github.com/partiallymisplaced/so-connect/internal/engine"
	"github.com/partiallymisplaced/so-connect/internal/utils"
)

// Server holds all server dependencies, including the actor system and engine
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Metrics        *utils.MetricsCollector
	RequestTimeout time.Duration
}

// NewServer creates a new Server instance with the given components
func NewServer(system *actor.ActorSystem, eng *engine.Engine, metrics *utils.MetricsCollector) *Server {
	return &Server{
		System:         system,
		Context:        system.Root,
		Engine:         eng,
		Metrics:        metrics,
		RequestTimeout: 5 * time.Second, // Default timeout for actor requests
	}
}

// ask sends a message to an actor and waits for its reply, counting the
// request. A timeout surfaces as an AppError like any other failure.
func (s *Server) ask(pid *actor.PID, msg interface{}) (interface{}, *utils.AppError) {
	s.Metrics.IncrementRequests()

	start := time.Now()
	future := s.Context.RequestFuture(pid, msg, s.RequestTimeout)
	result, err := future.Result()
	s.Metrics.AddOperationLatency("actor_request", time.Since(start))

	if err != nil {
		return nil, utils.NewActorTimeoutError("engine")
	}
	if appErr, ok := result.(*utils.AppError); ok {
		return nil, appErr
	}
	return result, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError emits the legacy single-field error body.
func (s *Server) writeError(w http.ResponseWriter, status int, field, message string) {
	s.Metrics.IncrementErrors()
	s.writeJSON(w, status, map[string]string{field: message})
}

// writeAppError maps an AppError to its status and body. Handlers override
// this for routes whose legacy field keys or messages differ.
func (s *Server) writeAppError(w http.ResponseWriter, appErr *utils.AppError) {
	field := appErr.Field
	if field == "" {
		field = "error"
	}
	s.writeError(w, utils.AppErrorToHTTPStatus(appErr.Code), field, appErr.Message)
}

// writeValidationErrors emits the field-keyed validation map as a 400.
func (s *Server) writeValidationErrors(w http.ResponseWriter, errors map[string]string) {
	s.Metrics.IncrementErrors()
	s.writeJSON(w, http.StatusBadRequest, errors)
}

// HandleHealth reports liveness plus the collector's counters.
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requests, errors, uptime := s.Metrics.Snapshot()
		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":               "healthy",
			"requests":             requests,
			"errors":               errors,
			"uptime_seconds":       int64(uptime.Seconds()),
			"avg_actor_latency_ms": s.Metrics.AverageLatency("actor_request").Milliseconds(),
			"server_time":          time.Now(),
		})
	}
}
