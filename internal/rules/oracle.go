package rules

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/verdiscan/label-backend/constants"
	"github.com/verdiscan/label-backend/internal/llm"
)

// Oracle answers a yes/no compliance question with one of the two verdict
// literals. Any ambiguity or failure resolves conservatively to non-compliant.
type Oracle interface {
	Assess(ctx context.Context, question string) string
}

// ModelOracle backs the Oracle with the external model, constrained to the two
// uppercase literals.
type ModelOracle struct {
	chat   llm.ChatCompleter
	logger *slog.Logger
}

func NewModelOracle(chat llm.ChatCompleter, logger *slog.Logger) *ModelOracle {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModelOracle{chat: chat, logger: logger}
}

func (o *ModelOracle) Assess(ctx context.Context, question string) string {
	reply, err := o.chat.Complete(ctx, llm.ChatRequest{
		System: "Tu es un assistant qui répond uniquement par REGLEMENTAIRE ou NON REGLEMENTAIRE.",
		User:   question,
	})
	if err != nil {
		o.logger.Warn("rules.oracle.call_error", "error", err)
		return constants.VerdictNonCompliant
	}
	verdict := strings.ToUpper(strings.TrimSpace(reply))
	if verdict != constants.VerdictCompliant && verdict != constants.VerdictNonCompliant {
		o.logger.Warn("rules.oracle.unexpected_reply", "reply", reply)
		return constants.VerdictNonCompliant
	}
	return verdict
}

// renderRows serializes reference rows for embedding into an oracle question.
func renderRows(rows []Row) string {
	b, err := json.Marshal(rows)
	if err != nil {
		return "[]"
	}
	return string(b)
}
