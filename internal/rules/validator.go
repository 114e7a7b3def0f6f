package rules

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/verdiscan/label-backend/constants"
	"github.com/verdiscan/label-backend/internal/label"
)

// Messages used when the taxonomy carries no row for the classified family.
const (
	MsgCalibreNoFamilyRow   = "Calibre : Aucune ligne trouvée pour cette famille / sous-famille"
	MsgTreatmentNoFamilyRow = "Traitement : Aucune ligne trouvée pour cette famille / sous-famille"
	MsgMentionsNoFamilyRow  = "Mentions : Aucune ligne trouvée pour cette famille / sous-famille"
	MsgCategoryNoFamilyRow  = "Catégorie : Aucune ligne trouvée pour cette famille / sous-famille"
)

// Result is the outcome of one compliance assessment. Verdict is always one of
// the two regulatory literals; Violations is empty exactly when the verdict is
// compliant.
type Result struct {
	Verdict    string   `json:"verdict"`
	Violations []string `json:"violations"`
	Family     string   `json:"family,omitempty"`
	SubFamily  string   `json:"sub_family,omitempty"`
	Exempted   bool     `json:"exempted,omitempty"`
}

// Validator assesses label records against the loaded rule workbook. Table
// lookups are deterministic; calibre, treatment and mention conformity are
// delegated to the oracle, family classification to the classifier.
type Validator struct {
	rules      *RuleContext
	classifier Classifier
	oracle     Oracle
	logger     *slog.Logger
}

func NewValidator(rules *RuleContext, classifier Classifier, oracle Oracle, logger *slog.Logger) *Validator {
	return &Validator{rules: rules, classifier: classifier, oracle: oracle, logger: logger}
}

// Validate runs the full gate sequence over one record.
//
// Products labelled for industrial processing are exempt and short-circuit
// compliant. Missing product name or variety aborts the assessment before any
// model call is spent. A failed classification degrades gracefully: the
// table-driven checks are skipped, identity and traceability checks still run.
func (v *Validator) Validate(ctx context.Context, rec label.Record) Result {
	start := time.Now()

	if label.Set(rec.IntendedUse) {
		v.logger.Info("validate.exempt", "intended_use", label.Str(rec.IntendedUse))
		return Result{Verdict: constants.VerdictCompliant, Violations: []string{}, Exempted: true}
	}

	var violations []string
	if !label.Set(rec.ProductName) {
		violations = append(violations, MsgProductMissing)
	}
	if !label.Set(rec.Variety) {
		violations = append(violations, MsgVarietyMissing)
	}
	if len(violations) > 0 {
		return v.finish(start, Result{Verdict: constants.VerdictNonCompliant, Violations: violations})
	}

	if !label.Set(rec.Origin) {
		violations = append(violations, MsgOriginMissing)
	}

	family, subFamily := v.classifier.Classify(ctx, label.Str(rec.ProductName), label.Str(rec.Variety), v.rules.FamilyCandidates())
	if family == "" {
		v.logger.Warn("validate.classify.degraded", "product", label.Str(rec.ProductName))
	} else {
		violations = append(violations, v.checkTaxonomy(ctx, rec, family, subFamily)...)
	}

	violations = append(violations, v.checkPackerIdentity(rec)...)
	violations = append(violations, checkTraceability(rec)...)

	res := Result{Violations: violations, Family: family, SubFamily: subFamily}
	if len(violations) == 0 {
		res.Verdict = constants.VerdictCompliant
		res.Violations = []string{}
	} else {
		res.Verdict = constants.VerdictNonCompliant
	}
	return v.finish(start, res)
}

// applicabilityColumns are the taxonomy columns whose non-blank value marks a
// regulatory field as applicable to the classified family.
var applicabilityColumns = []string{
	ColColour,
	ColCalibreCode,
	ColCategoryCode,
	ColTreatmentCode,
	ColMentionsCode,
}

// applicableFields reads the first matched taxonomy row and returns the set of
// regulatory columns carrying a non-blank code. Only those fields are checked.
func applicableFields(row Row) map[string]bool {
	out := make(map[string]bool, len(applicabilityColumns))
	for _, col := range applicabilityColumns {
		if strings.TrimSpace(row.Get(col)) != "" {
			out[col] = true
		}
	}
	return out
}

// checkTaxonomy runs the checks that depend on the classified family's taxonomy
// row. The row's non-blank code columns decide which fields apply: treatment
// and mentions are checked only when applicable and carried by the record,
// while an absent calibre or category is a violation in itself.
func (v *Validator) checkTaxonomy(ctx context.Context, rec label.Record, family, subFamily string) []string {
	taxRows := v.rules.FamilyRows(family, subFamily)
	if len(taxRows) == 0 {
		return []string{
			MsgCalibreNoFamilyRow,
			MsgTreatmentNoFamilyRow,
			MsgMentionsNoFamilyRow,
			MsgCategoryNoFamilyRow,
		}
	}

	applicable := applicableFields(taxRows[0])
	if len(applicable) == 0 {
		return nil
	}

	var violations []string
	if !label.Set(rec.Calibre) {
		violations = append(violations, MsgCalibreMissing)
	} else if applicable[ColCalibreCode] {
		violations = append(violations, v.checkCalibre(ctx, rec, taxRows)...)
	}

	if label.Set(rec.PostProductTreatment) && applicable[ColTreatmentCode] {
		violations = append(violations, v.checkTreatment(ctx, rec, taxRows)...)
	}
	if label.Set(rec.AdditionalsInfos) && applicable[ColMentionsCode] {
		violations = append(violations, v.checkMentions(ctx, rec, taxRows)...)
	}

	if !label.Set(rec.Category) {
		violations = append(violations, MsgCategoryMissing)
	} else if applicable[ColCategoryCode] {
		violations = append(violations, v.checkCategory(rec, taxRows)...)
	}
	return violations
}

func (v *Validator) finish(start time.Time, res Result) Result {
	v.logger.Info("validate.ok",
		"verdict", res.Verdict,
		"violations", len(res.Violations),
		"family", res.Family,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res
}
