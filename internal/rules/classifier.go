package rules

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/verdiscan/label-backend/internal/llm"
)

// Classifier maps a free-text product/variety pair onto one taxonomy row.
// Classification failure is soft: it returns two empty strings and downstream
// validation runs a reduced check set.
type Classifier interface {
	Classify(ctx context.Context, productName, variety string, candidates map[int]string) (family, subFamily string)
}

// ModelClassifier asks the external model for the numeric ID of the closest
// FAMILLE | SOUS-FAMILLE combination from the enumerated candidate set.
type ModelClassifier struct {
	chat   llm.ChatCompleter
	logger *slog.Logger
}

func NewModelClassifier(chat llm.ChatCompleter, logger *slog.Logger) *ModelClassifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModelClassifier{chat: chat, logger: logger}
}

func (c *ModelClassifier) Classify(ctx context.Context, productName, variety string, candidates map[int]string) (string, string) {
	reply, err := c.chat.Complete(ctx, llm.ChatRequest{
		System: "Tu es un assistant qui répond uniquement par des IDs numériques.",
		User:   buildClassifyPrompt(productName, variety, candidates),
	})
	if err != nil {
		c.logger.Warn("rules.classify.call_error", "error", err)
		return "", ""
	}

	id, err := strconv.Atoi(strings.TrimSpace(reply))
	if err != nil {
		c.logger.Warn("rules.classify.non_numeric_reply", "reply", reply)
		return "", ""
	}
	pair, ok := candidates[id]
	if !ok {
		c.logger.Warn("rules.classify.unknown_id", "id", id)
		return "", ""
	}
	family, subFamily, ok := strings.Cut(pair, "|")
	if !ok {
		c.logger.Warn("rules.classify.malformed_candidate", "candidate", pair)
		return "", ""
	}
	return strings.TrimSpace(family), strings.TrimSpace(subFamily)
}

func buildClassifyPrompt(productName, variety string, candidates map[int]string) string {
	ids := make([]int, 0, len(candidates))
	for id := range candidates {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	entries := make([]string, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, fmt.Sprintf("%d: %s", id, candidates[id]))
	}

	var b strings.Builder
	b.WriteString("Tu es un expert en logistique de produits frais.\n\n")
	b.WriteString("RÈGLES STRICTES (À RESPECTER DANS L'ORDRE) :\n")
	b.WriteString("1. Vérifie si le produit correspond directement à l'une des combinaisons FAMILLE | SOUS-FAMILLE.\n")
	b.WriteString("   - Si oui, choisis cette combinaison directement (en favorisant la SOUS-FAMILLE).\n")
	b.WriteString("2. Si aucune correspondance exacte n'existe, alors cherche la combinaison la plus proche par rapprochement sémantique.\n")
	b.WriteString("3. Une FAMILLE et une SOUS-FAMILLE sont TOUJOURS liées et proviennent de la MÊME ligne.\n")
	b.WriteString("4. Ne mélange jamais la FAMILLE d'une ligne avec la SOUS-FAMILLE d'une autre ligne.\n")
	b.WriteString("5. Si plusieurs combinaisons sont possibles, choisis TOUJOURS la PLUS SPÉCIFIQUE.\n")
	b.WriteString("6. N'utilise une combinaison générique que si aucune plus précise ne correspond.\n")
	b.WriteString("7. N'invente jamais de FAMILLE ou de SOUS-FAMILLE.\n\n")
	b.WriteString("PRODUIT :\n")
	b.WriteString("- Nom : " + productName + "\n")
	b.WriteString("- Variété : " + variety + "\n\n")
	b.WriteString("COMBINAISONS AUTORISÉES (ID : FAMILLE | SOUS-FAMILLE) :\n")
	b.WriteString("[" + strings.Join(entries, ", ") + "]\n\n")
	b.WriteString("QUESTION :\n")
	b.WriteString("Quelle est la combinaison FAMILLE / SOUS-FAMILLE la plus proche de ce produit ?\n\n")
	b.WriteString("RÉPONSE :\n")
	b.WriteString("Réponds UNIQUEMENT avec l'ID numérique correspondant.")
	return b.String()
}
