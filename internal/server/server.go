// Package server exposes the calculator over HTTP and a websocket session.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/pefman/w40k-wounds/internal/engine"
	"github.com/pefman/w40k-wounds/internal/models"
	"github.com/pefman/w40k-wounds/internal/stats"
)

// Build metadata reported by /version.
type BuildInfo struct {
	Version string `json:"version"`
	Time    string `json:"time"`
}

type Server struct {
	logger   *zap.Logger
	stats    *stats.Recorder
	build    BuildInfo
	upgrader websocket.Upgrader
}

func New(logger *zap.Logger, rec *stats.Recorder, build BuildInfo) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rec == nil {
		rec = stats.NewRecorder()
	}
	return &Server{
		logger:   logger,
		stats:    rec,
		build:    build,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// Handler builds the router with CORS applied.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/expected-wounds", s.handleCalculate).Methods(http.MethodPost)
	r.HandleFunc("/api/stats/today", s.handleStatsToday).Methods(http.MethodGet)
	r.HandleFunc("/api/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.build)
	}).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWS)
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, r.Method+" not allowed")
	})
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "unsupported path")
	})
	return withCORS(r)
}

// POST /api/expected-wounds
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req models.CalcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	p, m, err := req.Resolve()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b := engine.Compute(p, m)
	s.stats.Record(p, m, b.ExpectedWounds)
	s.logger.Debug("calculated",
		zap.Int("attacks", p.Attacks),
		zap.Int("hit", p.HitThreshold),
		zap.Int("wound", p.WoundThreshold),
		zap.Int("save", p.SaveThreshold),
		zap.Float64("expected_wounds", b.ExpectedWounds),
	)
	writeJSON(w, models.NewCalcResponse(p, m, b))
}

// GET /api/stats/today
func (s *Server) handleStatsToday(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.stats.Today())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(ErrorBody{
		Error:   http.StatusText(code),
		Message: msg,
		Status:  code,
	})
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// simple CORS for GET/POST/OPTIONS
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
