package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verdiscan/label-backend/internal/common"
	"github.com/verdiscan/label-backend/internal/label"
	"github.com/verdiscan/label-backend/internal/ocr"
	"github.com/verdiscan/label-backend/internal/parser"
	"github.com/verdiscan/label-backend/internal/repository"
	"github.com/verdiscan/label-backend/internal/rules"
)

// scanRequest is the capture app's payload: a base64 image plus engine flags.
type scanRequest struct {
	Image     string `json:"image"`
	UseLLM    bool   `json:"use_llm"`
	UsePaddle bool   `json:"use_paddle"`
	UseDoctr  bool   `json:"use_doctr"`
	UserEmail string `json:"user_email"`
}

type scanResponse struct {
	Success    bool          `json:"success"`
	RawText    string        `json:"raw_text"`
	Parsed     label.Record  `json:"parsed"`
	Validation *rules.Result `json:"validation,omitempty"`
}

type scanBLResponse struct {
	Success bool               `json:"success"`
	RawText string             `json:"raw_text"`
	Parsed  label.DeliveryNote `json:"parsed"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rid := uuid.NewString()
	ctx := common.WithRequestID(r.Context(), rid)

	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.UserEmail != "" {
		ctx = common.WithUserEmail(ctx, req.UserEmail)
		s.resolveUser(ctx, req.UserEmail)
	}

	rawText, status, err := s.recognize(ctx, rid, req)
	if err != nil {
		s.logger.Error("scan.ocr.failed", "req_id", rid, "error", err)
		writeError(w, status, err.Error())
		return
	}

	var rec label.Record
	if req.UseLLM {
		rec, _, err = s.extractor.ExtractLabel(ctx, rawText)
		if err != nil {
			s.logger.Error("scan.extract.failed", "req_id", rid, "error", err)
			writeError(w, http.StatusBadGateway, "label extraction failed")
			return
		}
	} else {
		rec = parser.Extract(rawText).ToRecord()
	}

	res := s.validator.Validate(ctx, rec)
	resp := scanResponse{Success: true, RawText: rawText, Parsed: rec, Validation: &res}

	s.record(ctx, repository.HistoryEntry{
		UserEmail: req.UserEmail,
		Kind:      "label",
		RawText:   rawText,
		Parsed:    mustJSON(rec),
		Verdict:   res.Verdict,
	})

	s.logger.Info("scan.ok", "req_id", rid, "use_llm", req.UseLLM,
		"verdict", res.Verdict, "elapsed_ms", time.Since(start).Milliseconds())
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleScanBL(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rid := uuid.NewString()
	ctx := common.WithRequestID(r.Context(), rid)

	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.UserEmail != "" {
		ctx = common.WithUserEmail(ctx, req.UserEmail)
		s.resolveUser(ctx, req.UserEmail)
	}

	rawText, status, err := s.recognize(ctx, rid, req)
	if err != nil {
		s.logger.Error("scan_bl.ocr.failed", "req_id", rid, "error", err)
		writeError(w, status, err.Error())
		return
	}

	note, _, err := s.extractor.ExtractDeliveryNote(ctx, rawText)
	if err != nil {
		s.logger.Error("scan_bl.extract.failed", "req_id", rid, "error", err)
		writeError(w, http.StatusBadGateway, "delivery note extraction failed")
		return
	}

	s.record(ctx, repository.HistoryEntry{
		UserEmail: req.UserEmail,
		Kind:      "delivery_note",
		RawText:   rawText,
		Parsed:    mustJSON(note),
	})

	s.logger.Info("scan_bl.ok", "req_id", rid, "items", len(note.Items),
		"elapsed_ms", time.Since(start).Milliseconds())
	writeJSON(w, http.StatusOK, scanBLResponse{Success: true, RawText: rawText, Parsed: note})
}

// recognize decodes the image, persists a capture copy and runs the selected
// OCR engine. The int return is the HTTP status to report on failure.
func (s *Server) recognize(ctx context.Context, rid string, req scanRequest) (string, int, error) {
	if strings.TrimSpace(req.Image) == "" {
		return "", http.StatusBadRequest, errors.New("image is required")
	}

	data, err := decodeImage(req.Image)
	if err != nil {
		return "", http.StatusBadRequest, fmt.Errorf("invalid base64 image: %w", err)
	}

	path := filepath.Join(os.TempDir(), "scan-"+rid+".png")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", http.StatusInternalServerError, fmt.Errorf("failed to stage image: %w", err)
	}
	defer os.Remove(path)
	s.saveCapture(rid, data)

	engine, err := s.engines.Get(engineName(req))
	if err != nil {
		return "", http.StatusUnprocessableEntity, err
	}

	text, err := engine.Recognize(ctx, path)
	if err != nil {
		return "", http.StatusBadGateway, fmt.Errorf("ocr failed: %w", err)
	}
	return ocr.Flatten(text), http.StatusOK, nil
}

func engineName(req scanRequest) string {
	switch {
	case req.UsePaddle:
		return ocr.EnginePaddle
	case req.UseDoctr:
		return ocr.EngineDoctr
	default:
		return ocr.EngineTesseract
	}
}

// decodeImage accepts both bare base64 and data-URL payloads.
func decodeImage(s string) ([]byte, error) {
	if _, rest, ok := strings.Cut(s, ","); ok && strings.HasPrefix(s, "data:") {
		s = rest
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(s))
}

// saveCapture keeps a copy of the image under the captures dir so a failed
// scan can be replayed. Best effort, never blocks the pipeline.
func (s *Server) saveCapture(rid string, data []byte) {
	if s.cfg.CapturesDir == "" {
		return
	}
	if err := os.MkdirAll(s.cfg.CapturesDir, 0o755); err != nil {
		s.logger.Warn("scan.capture.failed", "req_id", rid, "error", err)
		return
	}
	path := filepath.Join(s.cfg.CapturesDir, rid+".png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.Warn("scan.capture.failed", "req_id", rid, "error", err)
	}
}

// resolveUser is best effort: a down users store never blocks a scan.
func (s *Server) resolveUser(ctx context.Context, email string) {
	if s.users == nil {
		return
	}
	if _, err := s.users.GetOrCreate(ctx, email); err != nil {
		s.logger.Warn("scan.user.failed", "email", email, "error", err)
	}
}

// record appends to the scan history when configured, logging failures only.
func (s *Server) record(ctx context.Context, e repository.HistoryEntry) {
	if s.history == nil {
		return
	}
	if err := s.history.Append(ctx, e); err != nil {
		s.logger.Warn("scan.history.failed", "error", err)
	}
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return b
}
