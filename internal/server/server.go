// Package server exposes the scan pipeline over HTTP. The contract is the
// base64-image JSON one the mobile capture app speaks: POST /scan for product
// labels, POST /scan-bl for delivery notes, GET /healthz for probes.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/verdiscan/label-backend/internal/common"
	"github.com/verdiscan/label-backend/internal/llm"
	"github.com/verdiscan/label-backend/internal/ocr"
	"github.com/verdiscan/label-backend/internal/repository"
	"github.com/verdiscan/label-backend/internal/rules"
)

// Extractor is the model-backed extraction surface the handlers need.
type Extractor interface {
	llm.LabelExtractor
	llm.DeliveryNoteExtractor
}

type Server struct {
	cfg       common.ServerConfig
	engines   *ocr.Registry
	extractor Extractor
	validator *rules.Validator
	users     repository.UserRepository
	history   *repository.HistoryStore
	logger    *slog.Logger
}

// New wires the handler set. users and history may be nil; the pipeline then
// runs without persistence.
func New(cfg common.ServerConfig, engines *ocr.Registry, extractor Extractor,
	validator *rules.Validator, users repository.UserRepository,
	history *repository.HistoryStore, logger *slog.Logger) *Server {
	return &Server{
		cfg:       cfg,
		engines:   engines,
		extractor: extractor,
		validator: validator,
		users:     users,
		history:   history,
		logger:    logger,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /scan", s.handleScan)
	mux.HandleFunc("POST /scan-bl", s.handleScanBL)
	mux.HandleFunc("GET /history", s.handleHistory)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	return mux
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "scan history is not configured")
		return
	}
	entries, err := s.history.List(r.Context(), 50)
	if err != nil {
		s.logger.Error("history.list.failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list scan history")
		return
	}
	if entries == nil {
		entries = []repository.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "scans": entries})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}
