package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/verdiscan/label-backend/internal/common"
	"github.com/verdiscan/label-backend/internal/label"
	"github.com/verdiscan/label-backend/internal/ocr"
	"github.com/verdiscan/label-backend/internal/rules"
)

type stubEngine struct {
	text string
}

func (s stubEngine) Name() string { return ocr.EngineTesseract }

func (s stubEngine) Recognize(context.Context, string) (string, error) {
	return s.text, nil
}

type stubExtractor struct{}

func (stubExtractor) ExtractLabel(context.Context, string) (label.Record, []byte, error) {
	name := "KIWI"
	return label.Record{ProductName: &name}, []byte(`{}`), nil
}

func (stubExtractor) ExtractDeliveryNote(context.Context, string) (label.DeliveryNote, []byte, error) {
	num := "BL-1"
	return label.DeliveryNote{DeliveryNoteNumber: &num, Items: []label.LineItem{}}, []byte(`{}`), nil
}

type stubClassifier struct{}

func (stubClassifier) Classify(context.Context, string, string, map[int]string) (string, string) {
	return "", ""
}

type stubOracle struct{}

func (stubOracle) Assess(context.Context, string) string { return "REGLEMENTAIRE" }

func testServer(t *testing.T, engineText string) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ruleCtx := &rules.RuleContext{
		Destination: "BASE LOGISTIQUE",
		Countries:   &rules.Table{},
		Calibres:    &rules.Table{},
		Categories:  &rules.Table{},
		Treatments:  &rules.Table{},
		Mentions:    &rules.Table{},
		Taxonomy:    &rules.Table{},
	}
	validator := rules.NewValidator(ruleCtx, stubClassifier{}, stubOracle{}, logger)

	cfg := common.ServerConfig{CapturesDir: t.TempDir()}
	engines := ocr.NewRegistry(stubEngine{text: engineText})
	return New(cfg, engines, stubExtractor{}, validator, nil, nil, logger)
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandleScan(t *testing.T) {
	ocrText := "KIWI SUNGOLD\nVariété: Zesy002 (Jaune) Calibre: 30\nOrigine: Nouvelle-zélande Lot:265475"
	h := testServer(t, ocrText).Handler()

	img := base64.StdEncoding.EncodeToString([]byte("not a real png"))
	rr := postJSON(t, h, "/scan", map[string]any{"image": img})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Success    bool   `json:"success"`
		RawText    string `json:"raw_text"`
		Parsed     map[string]any
		Validation *rules.Result `json:"validation"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success {
		t.Error("success = false")
	}
	if resp.RawText == "" || bytes.ContainsRune([]byte(resp.RawText), '\n') {
		t.Errorf("raw_text must be the flattened OCR text, got %q", resp.RawText)
	}
	if resp.Validation == nil || resp.Validation.Verdict == "" {
		t.Error("validation result missing from response")
	}
}

func TestHandleScanRejectsBadPayloads(t *testing.T) {
	h := testServer(t, "texte").Handler()

	tests := []struct {
		name string
		body any
		want int
	}{
		{"missing image", map[string]any{}, http.StatusBadRequest},
		{"invalid base64", map[string]any{"image": "%%%"}, http.StatusBadRequest},
		{"unknown engine", map[string]any{
			"image":      base64.StdEncoding.EncodeToString([]byte("x")),
			"use_paddle": true,
		}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rr := postJSON(t, h, "/scan", tt.body); rr.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestHandleScanBL(t *testing.T) {
	h := testServer(t, "BON DE LIVRAISON n° BL-1").Handler()

	img := base64.StdEncoding.EncodeToString([]byte("x"))
	rr := postJSON(t, h, "/scan-bl", map[string]any{"image": img, "user_email": ""})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	var resp scanBLResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if label.Str(resp.Parsed.DeliveryNoteNumber) != "BL-1" {
		t.Errorf("delivery note number = %q", label.Str(resp.Parsed.DeliveryNoteNumber))
	}
	if resp.Parsed.Items == nil {
		t.Error("items must never be null")
	}
}

func TestHandleHealthz(t *testing.T) {
	h := testServer(t, "").Handler()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d", rr.Code)
	}
}

func TestHandleHistoryUnconfigured(t *testing.T) {
	h := testServer(t, "").Handler()
	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 when history is disabled", rr.Code)
	}
}
