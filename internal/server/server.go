// Package server exposes the simulation control surface over HTTP: the
// operations an external dashboard needs (load, configure, start/stop, speed,
// request departure) plus read-only snapshots.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/stationsim/station-cli/internal/schedule"
	"github.com/stationsim/station-cli/internal/sim"
)

// Platform count bounds enforced at the configuration boundary; the core
// never validates them itself.
const (
	MinPlatforms = 2
	MaxPlatforms = 20
)

// AllowedSpeeds are the speed selectors the control surface accepts.
var AllowedSpeeds = []int{30, 60, 180}

// Config holds the control server configuration.
type Config struct {
	Host string
	Port int
}

// Server is the HTTP control server for one engine instance.
type Server struct {
	config Config
	engine *sim.Engine
	server *http.Server
	mu     sync.RWMutex
	stats  Stats
}

// Stats holds server statistics.
type Stats struct {
	TotalCommands int
	TotalErrors   int
}

// NewServer creates a control server for the given engine.
func NewServer(config Config, engine *sim.Engine) *Server {
	return &Server{
		config: config,
		engine: engine,
	}
}

// Start starts the control server and blocks until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown()
	case err := <-errCh:
		return err
	}
}

// Handler returns the route table. Exposed separately for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/sim/snapshot", s.handleSnapshot)
	mux.HandleFunc("/v1/sim/start", s.handleStart)
	mux.HandleFunc("/v1/sim/stop", s.handleStop)
	mux.HandleFunc("/v1/sim/speed", s.handleSpeed)
	mux.HandleFunc("/v1/sim/depart", s.handleDepart)
	mux.HandleFunc("/v1/sim/platforms", s.handlePlatforms)
	mux.HandleFunc("/v1/sim/trains", s.handleTrains)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/", s.handleRoot)
	return mux
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

// GetAddress returns the server address.
func (s *Server) GetAddress() string {
	return fmt.Sprintf("http://%s:%d", s.config.Host, s.config.Port)
}

// GetStats returns current server statistics.
func (s *Server) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

func (s *Server) countCommand() {
	s.mu.Lock()
	s.stats.TotalCommands++
	s.mu.Unlock()
}

func (s *Server) countError() {
	s.mu.Lock()
	s.stats.TotalErrors++
	s.mu.Unlock()
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"service":  "station-control",
		"run_id":   s.engine.RunID(),
		"snapshot": "/v1/sim/snapshot",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.engine.Snapshot())
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if !s.requirePost(w, r) {
		return
	}
	s.engine.Start()
	s.countCommand()
	s.writeOK(w, map[string]interface{}{"running": true, "current_time": s.engine.CurrentTime()})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if !s.requirePost(w, r) {
		return
	}
	s.engine.Stop()
	s.countCommand()
	s.writeOK(w, map[string]interface{}{"running": false, "current_time": s.engine.CurrentTime()})
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if !s.requirePost(w, r) {
		return
	}
	var req struct {
		Speed int `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.countError()
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !speedAllowed(req.Speed) {
		s.countError()
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("speed must be one of %v", AllowedSpeeds))
		return
	}
	s.engine.SetSpeed(req.Speed)
	s.countCommand()
	s.writeOK(w, map[string]interface{}{"speed": req.Speed})
}

func (s *Server) handleDepart(w http.ResponseWriter, r *http.Request) {
	if !s.requirePost(w, r) {
		return
	}
	var req struct {
		Platform int `json:"platform"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.countError()
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	train, ok := s.engine.RequestDeparture(req.Platform)
	if !ok {
		s.countError()
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("platform %d holds no train", req.Platform))
		return
	}
	s.countCommand()
	s.writeOK(w, map[string]interface{}{"departed": train})
}

func (s *Server) handlePlatforms(w http.ResponseWriter, r *http.Request) {
	if !s.requirePost(w, r) {
		return
	}
	var req struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.countError()
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Count < MinPlatforms || req.Count > MaxPlatforms {
		s.countError()
		s.writeError(w, http.StatusBadRequest,
			fmt.Sprintf("platform count must be in [%d,%d]", MinPlatforms, MaxPlatforms))
		return
	}
	s.engine.SetPlatformCount(req.Count)
	s.countCommand()
	s.writeOK(w, map[string]interface{}{"platforms": req.Count})
}

// handleTrains accepts a CSV schedule body and loads the accepted rows into
// the engine. Loading always succeeds with whatever subset parsed; the
// response reports the rejected rows.
func (s *Server) handleTrains(w http.ResponseWriter, r *http.Request) {
	if !s.requirePost(w, r) {
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.countError()
		s.writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	trains, rejections := schedule.Parse(string(body))
	s.engine.LoadTrains(trains)
	s.countCommand()
	s.writeOK(w, map[string]interface{}{
		"accepted": len(trains),
		"rejected": rejections,
	})
}

func (s *Server) requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

func (s *Server) writeOK(w http.ResponseWriter, payload map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func speedAllowed(speed int) bool {
	for _, allowed := range AllowedSpeeds {
		if speed == allowed {
			return true
		}
	}
	return false
}
