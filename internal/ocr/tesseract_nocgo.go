//go:build !cgo

package ocr

import (
	"context"
	"log/slog"

	"github.com/verdiscan/label-backend/internal/common"
)

// Tesseract without cgo cannot recognize anything; it fails fast with a
// descriptive error instead of silently degrading.
type Tesseract struct {
	logger *slog.Logger
}

func NewTesseract(languages, tessdataDir string, logger *slog.Logger) *Tesseract {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tesseract{logger: logger}
}

func (t *Tesseract) Name() string { return EngineTesseract }

func (t *Tesseract) Recognize(ctx context.Context, imagePath string) (string, error) {
	t.logger.Error("ocr.unavailable", "engine", t.Name(), "reason", "built without cgo")
	return "", common.NewAppError("OCR_ENGINE",
		"tesseract support requires a cgo build", common.ErrUnavailable)
}
