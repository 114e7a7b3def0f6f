package ocr

import (
	"context"
	"fmt"

	"github.com/verdiscan/label-backend/internal/common"
)

// Engine turns an image file into raw text. Implementations are black boxes;
// the rest of the pipeline only ever sees their text output.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// Registry maps engine names to available implementations.
type Registry struct {
	engines map[string]Engine
}

func NewRegistry(engines ...Engine) *Registry {
	r := &Registry{engines: make(map[string]Engine, len(engines))}
	for _, e := range engines {
		r.engines[e.Name()] = e
	}
	return r
}

// Get resolves an engine by name. An unknown or unavailable engine fails fast
// so callers never silently fall back to another path.
func (r *Registry) Get(name string) (Engine, error) {
	if name == "" {
		name = EngineTesseract
	}
	e, ok := r.engines[name]
	if !ok {
		return nil, common.NewAppError("OCR_ENGINE",
			fmt.Sprintf("engine %q is not available in this build", name),
			common.ErrUnavailable)
	}
	return e, nil
}

// Engine names selectable at the HTTP boundary.
const (
	EngineTesseract = "tesseract"
	EnginePaddle    = "paddle"
	EngineDoctr     = "doctr"
)
