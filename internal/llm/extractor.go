package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/verdiscan/label-backend/internal/label"
)

// Extractor runs the label and delivery note schemas over a ChatCompleter,
// repairing and normalizing the model JSON at the boundary.
type Extractor struct {
	chat   ChatCompleter
	logger *slog.Logger
}

func NewExtractor(chat ChatCompleter, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{chat: chat, logger: logger}
}

// ExtractLabel implements LabelExtractor.
func (e *Extractor) ExtractLabel(ctx context.Context, text string) (label.Record, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()
	e.logger.Info("llm.extract_label.start", "req_id", rid, "text_len", len(text))

	reply, err := e.chat.Complete(ctx, ChatRequest{
		User:      BuildLabelPrompt(text),
		MaxTokens: 512,
	})
	if err != nil {
		e.logger.Error("llm.extract_label.call_error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return label.Record{}, nil, fmt.Errorf("llm call failed: %w", err)
	}

	m, err := DecodeModelJSON(reply)
	if err != nil {
		e.logger.Error("llm.extract_label.decode_error", "req_id", rid, "error", err)
		return label.Record{}, []byte(reply), err
	}

	raw, _ := json.Marshal(m)
	if err := ValidateJSONAgainstSchema(BuildLabelJSONSchema(), raw); err != nil {
		e.logger.Warn("llm.extract_label.schema_mismatch", "req_id", rid, "error", err)
	}

	rec := label.RecordFromMap(m)
	e.logger.Info("llm.extract_label.ok",
		"req_id", rid,
		"product", label.Str(rec.ProductName),
		"origin", label.Str(rec.Origin),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec, raw, nil
}

// ExtractDeliveryNote implements DeliveryNoteExtractor.
func (e *Extractor) ExtractDeliveryNote(ctx context.Context, text string) (label.DeliveryNote, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()
	e.logger.Info("llm.extract_bl.start", "req_id", rid, "text_len", len(text))

	reply, err := e.chat.Complete(ctx, ChatRequest{
		User:      BuildDeliveryNotePrompt(text),
		MaxTokens: 800,
	})
	if err != nil {
		e.logger.Error("llm.extract_bl.call_error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return label.DeliveryNote{}, nil, fmt.Errorf("llm call failed: %w", err)
	}

	m, err := DecodeModelJSON(reply)
	if err != nil {
		e.logger.Error("llm.extract_bl.decode_error", "req_id", rid, "error", err)
		return label.DeliveryNote{}, []byte(reply), err
	}

	raw, _ := json.Marshal(m)
	if err := ValidateJSONAgainstSchema(BuildDeliveryNoteJSONSchema(), raw); err != nil {
		e.logger.Warn("llm.extract_bl.schema_mismatch", "req_id", rid, "error", err)
	}

	dn := label.DeliveryNoteFromMap(m)
	e.logger.Info("llm.extract_bl.ok",
		"req_id", rid,
		"items", len(dn.Items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return dn, raw, nil
}
