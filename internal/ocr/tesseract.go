//go:build cgo

package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract recognizes text with the native Tesseract bindings, tuned for
// French produce labels (single uniform block segmentation).
type Tesseract struct {
	languages   string
	tessdataDir string
	logger      *slog.Logger
}

func NewTesseract(languages, tessdataDir string, logger *slog.Logger) *Tesseract {
	if languages == "" {
		languages = "fra"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tesseract{languages: languages, tessdataDir: tessdataDir, logger: logger}
}

func (t *Tesseract) Name() string { return EngineTesseract }

func (t *Tesseract) Recognize(ctx context.Context, imagePath string) (string, error) {
	start := time.Now()

	prepPath, err := Preprocess(imagePath)
	if err != nil {
		t.logger.Warn("ocr.preprocess_failed", "error", err, "path", imagePath)
		prepPath = imagePath
	} else {
		defer func() {
			if rmErr := os.Remove(prepPath); rmErr != nil {
				t.logger.Warn("ocr.cleanup_failed", "error", rmErr)
			}
		}()
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if t.tessdataDir != "" {
		if err := client.SetTessdataPrefix(t.tessdataDir); err != nil {
			return "", fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(t.languages); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", fmt.Errorf("set page segmentation: %w", err)
	}
	if err := client.SetImage(prepPath); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}

	t.logger.Info("ocr.ok",
		"engine", t.Name(),
		"bytes", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}
