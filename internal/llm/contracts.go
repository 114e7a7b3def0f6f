package llm

import (
	"context"

	"github.com/verdiscan/label-backend/internal/label"
)

// ChatRequest is a single completion call: a system framing plus one user
// message. Implementations own model selection and transport.
type ChatRequest struct {
	System    string
	User      string
	MaxTokens int
}

// ChatCompleter is the narrow boundary to the external model. Tests substitute
// deterministic stubs; production wires the OpenAI-backed client.
type ChatCompleter interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// LabelExtractor maps OCR text to the closed label record via the model.
// The rawJSON return preserves the (repaired) model output for diagnosis.
type LabelExtractor interface {
	ExtractLabel(ctx context.Context, text string) (label.Record, []byte, error)
}

// DeliveryNoteExtractor maps delivery note OCR text to the closed BL schema.
type DeliveryNoteExtractor interface {
	ExtractDeliveryNote(ctx context.Context, text string) (label.DeliveryNote, []byte, error)
}
