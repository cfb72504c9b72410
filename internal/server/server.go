// Package server exposes the state-preparation pipeline over HTTP and
// JSON-RPC: clients start runs, poll their status, and cancel them.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/copyleftdev/QPREP/internal/config"
	"github.com/copyleftdev/QPREP/internal/logging"
	"github.com/copyleftdev/QPREP/internal/optimization"
	"github.com/copyleftdev/QPREP/internal/optimization/local"
	"github.com/copyleftdev/QPREP/internal/quantum"
)

// Logger is the logging interface used by the server, satisfied by
// *logging.Logger.
type Logger interface {
	Debug(msg string, fields ...map[string]interface{})
	Info(msg string, fields ...map[string]interface{})
	Warn(msg string, fields ...map[string]interface{})
	Error(msg string, fields ...map[string]interface{})
	Fatal(msg string, fields ...map[string]interface{})
	WithFields(fields map[string]interface{}) *logging.Logger
}

// PreparationState tracks one run through its lifecycle. Access is guarded by
// the server's mutex.
type PreparationState struct {
	ID          string
	Status      string // "pending", "running", "completed", "failed", "cancelled"
	StartTime   time.Time
	EndTime     *time.Time
	Best        *optimization.TrialResult
	Summary     *optimization.Summary
	Err         string
	CancelFunc  context.CancelFunc
	LastUpdated time.Time
}

// Server manages preparation runs.
type Server struct {
	cfg    *config.Config
	logger Logger

	preparations   map[string]*PreparationState
	preparationsMu sync.RWMutex
}

// NewServer creates a server instance with the given config and logger.
func NewServer(cfg *config.Config, logger Logger) *Server {
	return &Server{
		cfg:          cfg,
		logger:       logger,
		preparations: make(map[string]*PreparationState),
	}
}

// RegisterRoutes mounts the API on r.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/prepare", s.handlePrepare)
		r.Get("/status/{id}", s.handleStatus)
		r.Delete("/preparation/{id}", s.handleCancel)
	})

	// JSON-RPC 2.0 endpoint
	r.Post("/rpc", s.handleJSONRPC)
}

// prepareRequest is the run description accepted by both transports. Target
// amplitudes arrive as [re, im] pairs; a missing target means a seeded random
// superposition.
type prepareRequest struct {
	Qubits         int          `json:"qubits"`
	Layers         int          `json:"layers"`
	Starts         int          `json:"starts"`
	Seed           int64        `json:"seed"`
	PhaseInvariant bool         `json:"phase_invariant"`
	Target         [][2]float64 `json:"target,omitempty"`
}

// handleJSONRPC handles JSON-RPC 2.0 requests.
func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	var request struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      interface{}     `json:"id"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.respondWithError(w, -32700, "Parse error", nil)
		return
	}
	if request.JSONRPC != "2.0" {
		s.respondWithError(w, -32600, "Invalid Request", nil)
		return
	}

	var result interface{}
	var err error

	switch request.Method {
	case "preparation.start":
		result, err = s.startFromRPC(request.Params)
	case "preparation.status":
		result, err = s.statusFromRPC(request.Params)
	case "preparation.cancel":
		err = s.cancelFromRPC(request.Params)
	default:
		s.respondWithError(w, -32601, "Method not found", request.ID)
		return
	}

	if err != nil {
		s.respondWithError(w, -32000, err.Error(), request.ID)
		return
	}

	response := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      request.ID,
		"result":  result,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// startFromRPC starts a run from raw JSON-RPC params.
func (s *Server) startFromRPC(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("missing required parameters")
	}
	var req prepareRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid parameter format: %v", err)
	}
	return s.startPreparation(&req)
}

// statusFromRPC reads {"preparation_id": "..."} and reports the run's state.
func (s *Server) statusFromRPC(params json.RawMessage) (interface{}, error) {
	id, err := idFromParams(params)
	if err != nil {
		return nil, err
	}
	return s.statusResponse(id)
}

// cancelFromRPC reads {"preparation_id": "..."} and cancels the run.
func (s *Server) cancelFromRPC(params json.RawMessage) error {
	id, err := idFromParams(params)
	if err != nil {
		return err
	}
	return s.cancelPreparation(id)
}

func idFromParams(params json.RawMessage) (string, error) {
	if len(params) == 0 {
		return "", fmt.Errorf("missing required parameters")
	}
	var p struct {
		PreparationID string `json:"preparation_id"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return "", fmt.Errorf("invalid parameter format: %v", err)
	}
	if p.PreparationID == "" {
		return "", fmt.Errorf("preparation_id is required")
	}
	return p.PreparationID, nil
}

// startPreparation validates the request, registers the run, and launches it.
func (s *Server) startPreparation(req *prepareRequest) (interface{}, error) {
	if req.Qubits < 1 {
		return nil, fmt.Errorf("qubits must be positive")
	}
	if req.Layers < 0 {
		return nil, fmt.Errorf("layers must be non-negative")
	}

	dim := 1 << req.Qubits
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var target []complex128
	if len(req.Target) > 0 {
		if len(req.Target) != dim {
			return nil, fmt.Errorf("target has %d amplitudes, want %d", len(req.Target), dim)
		}
		target = make([]complex128, dim)
		for i, pair := range req.Target {
			target[i] = complex(pair[0], pair[1])
		}
	} else {
		target = quantum.RandomSuperposition(rand.New(rand.NewSource(seed)), dim)
	}

	runCfg := optimization.RunConfig{
		Qubits:         req.Qubits,
		Layers:         req.Layers,
		Starts:         req.Starts,
		Target:         target,
		PhaseInvariant: req.PhaseInvariant || s.cfg.Optimization.PhaseInvariant,
		AngleMax:       s.cfg.Optimization.AngleMax,
		Sampling:       s.cfg.Optimization.Sampling,
		Workers:        s.cfg.Optimization.Workers,
		Seed:           seed,
	}
	minimizer := local.New(local.Config{
		Algorithm:     s.cfg.Optimization.Algorithm,
		Tolerance:     s.cfg.Optimization.Tolerance,
		MaxIterations: s.cfg.Optimization.MaxIterations,
		Bounds:        [2]float64{0, runCfg.AngleMax},
	})

	sim := quantum.NewSimulator(quantum.Limits{
		MaxQubits: s.cfg.Simulation.MaxQubits,
		MaxGates:  s.cfg.Simulation.MaxGates,
	})

	// Configuration errors surface here, before the run is registered.
	run, err := optimization.NewMultiStart(runCfg, minimizer, sim)
	if err != nil {
		return nil, err
	}

	id := fmt.Sprintf("prep_%d", time.Now().UnixNano())
	ctx, cancel := context.WithCancel(context.Background())

	state := &PreparationState{
		ID:          id,
		Status:      "pending",
		StartTime:   time.Now(),
		CancelFunc:  cancel,
		LastUpdated: time.Now(),
	}

	s.preparationsMu.Lock()
	s.preparations[id] = state
	s.preparationsMu.Unlock()

	go s.runPreparation(ctx, id, run)

	return map[string]interface{}{
		"preparation_id": id,
		"status":         "pending",
	}, nil
}

// runPreparation executes the multi-start run in its own goroutine.
func (s *Server) runPreparation(ctx context.Context, id string, run *optimization.MultiStart) {
	// A cancel can land before this goroutine is scheduled; only a still
	// pending run moves to running.
	s.preparationsMu.Lock()
	if state, ok := s.preparations[id]; ok && state.Status == "pending" {
		state.Status = "running"
		state.LastUpdated = time.Now()
	}
	s.preparationsMu.Unlock()

	result, err := run.Run(ctx)

	s.preparationsMu.Lock()
	defer s.preparationsMu.Unlock()

	state, ok := s.preparations[id]
	if !ok {
		return
	}
	if state.Status == "cancelled" {
		return
	}

	if err != nil {
		s.logger.Error("Preparation failed", map[string]interface{}{
			"preparation_id": id,
			"error":          err.Error(),
		})
		state.Status = "failed"
		state.Err = err.Error()
	} else {
		summary := optimization.Summarize(result.Trials)
		state.Status = "completed"
		state.Best = result.Best
		state.Summary = &summary
		s.logger.Info("Preparation completed", map[string]interface{}{
			"preparation_id": id,
			"best_distance":  result.Best.Distance,
			"trials":         summary.Trials,
			"failed_trials":  summary.Failed,
		})
	}

	now := time.Now()
	state.EndTime = &now
	state.LastUpdated = now
}

// statusResponse builds the status payload for one run.
func (s *Server) statusResponse(id string) (interface{}, error) {
	s.preparationsMu.RLock()
	defer s.preparationsMu.RUnlock()

	state, exists := s.preparations[id]
	if !exists {
		return nil, fmt.Errorf("preparation not found")
	}

	response := map[string]interface{}{
		"status":      state.Status,
		"start_time":  state.StartTime.Format(time.RFC3339),
		"last_update": state.LastUpdated.Format(time.RFC3339),
	}
	if state.EndTime != nil {
		response["end_time"] = state.EndTime.Format(time.RFC3339)
	}
	if state.Err != "" {
		response["error"] = state.Err
	}
	if state.Best != nil {
		response["best"] = map[string]interface{}{
			"parameters": state.Best.Params,
			"distance":   state.Best.Distance,
			"converged":  state.Best.Converged,
		}
	}
	if state.Summary != nil {
		response["summary"] = state.Summary
	}

	return response, nil
}

// cancelPreparation cancels a pending or running run.
func (s *Server) cancelPreparation(id string) error {
	s.preparationsMu.Lock()
	defer s.preparationsMu.Unlock()

	state, exists := s.preparations[id]
	if !exists {
		return fmt.Errorf("preparation not found")
	}

	switch state.Status {
	case "completed", "failed", "cancelled":
		return fmt.Errorf("cannot cancel preparation with status: %s", state.Status)
	}

	if state.CancelFunc != nil {
		state.CancelFunc()
	}

	state.Status = "cancelled"
	now := time.Now()
	state.EndTime = &now
	state.LastUpdated = now

	s.logger.Info("Preparation cancelled", map[string]interface{}{
		"preparation_id": id,
	})
	return nil
}

// respondWithError sends a JSON-RPC 2.0 error response.
func (s *Server) respondWithError(w http.ResponseWriter, code int, message string, id interface{}) {
	s.logger.Error("Request error", map[string]interface{}{
		"status":  code,
		"message": message,
	})

	response := map[string]interface{}{
		"jsonrpc": "2.0",
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
		"id": id,
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// Close cancels every outstanding run.
func (s *Server) Close() error {
	s.preparationsMu.Lock()
	defer s.preparationsMu.Unlock()

	for _, state := range s.preparations {
		if state.CancelFunc != nil {
			state.CancelFunc()
		}
	}
	return nil
}

// handlePrepare handles POST /api/v1/prepare.
func (s *Server) handlePrepare(w http.ResponseWriter, r *http.Request) {
	var req prepareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	result, err := s.startPreparation(&req)

	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
		return
	}

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(result)
}

// handleStatus handles GET /api/v1/status/{id}.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "Missing preparation ID", http.StatusBadRequest)
		return
	}

	result, err := s.statusResponse(id)

	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

// handleCancel handles DELETE /api/v1/preparation/{id}.
func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "Missing preparation ID", http.StatusBadRequest)
		return
	}

	err := s.cancelPreparation(id)

	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "cancellation requested"})
}
