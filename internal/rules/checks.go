package rules

import (
	"context"
	"strings"

	"github.com/verdiscan/label-backend/constants"
	"github.com/verdiscan/label-backend/internal/label"
)

// Violation messages, kept in the operators' working language.
const (
	MsgProductMissing   = "Nom du produit manquant ou vide"
	MsgVarietyMissing   = "Variété / Type commercial manquant ou vide"
	MsgOriginMissing    = "Origine manquante ou vide"
	MsgCalibreMissing   = "Calibre manquant ou vide"
	MsgCategoryMissing  = "Catégorie manquante ou vide"
	MsgPackerMissing    = "Données emballeur manquantes ou vides"
	MsgPackerISOInvalid = "Code ISO emballeur non réglementaire"
	MsgTraceMissing     = "Données traçabilité manquantes ou vides"

	MsgCalibreNonCompliant   = "Calibre non réglementaire"
	MsgCalibreIDUnknown      = "Calibre ID non trouvé dans les règles"
	MsgTreatmentNonCompliant = "Traitement non réglementaire"
	MsgTreatmentIDUnknown    = "Traitement ID non trouvé dans les règles"
	MsgMentionsNonCompliant  = "Mentions non réglementaire"
	MsgMentionsIDUnknown     = "Mentions ID non trouvé dans les règles"
	MsgCategoryNonCompliant  = "Catégorie non réglementaire"
	MsgCategoryIDUnknown     = "Catégorie ID non trouvé dans les règles"
)

// checkCalibre resolves the calibre band rows referenced by the taxonomy and
// asks the oracle whether the product calibre fits them. The caller guarantees
// the code column is non-blank.
func (v *Validator) checkCalibre(ctx context.Context, rec label.Record, taxRows []Row) []string {
	code := strings.TrimSpace(taxRows[0].Get(ColCalibreCode))
	bandRows := v.rules.Calibres.Filter(ColCalibreID, code)
	if len(bandRows) == 0 {
		return []string{MsgCalibreIDUnknown}
	}

	var b strings.Builder
	b.WriteString("Tu es un expert en réglementation des fruits et légumes.\n\n")
	b.WriteString("DONNÉES PRODUIT :\n")
	b.WriteString("- Calibre : " + label.Str(rec.Calibre) + "\n\n")
	b.WriteString("RÈGLES DE RÉFÉRENCE :\n")
	b.WriteString(renderRows(bandRows) + "\n\n")
	b.WriteString("CONSIGNE :\n")
	b.WriteString("Compare le calibre du produit avec les règles fournies.\n\n")
	b.WriteString("Réponds uniquement par :\nREGLEMENTAIRE\nou\nNON REGLEMENTAIRE")

	if v.oracle.Assess(ctx, b.String()) != constants.VerdictCompliant {
		return []string{MsgCalibreNonCompliant}
	}
	return nil
}

// checkTreatment compares the declared post-harvest treatment against the
// treatment rows referenced by the taxonomy. The oracle is instructed to match
// on treatment TYPE only, never implied substances.
func (v *Validator) checkTreatment(ctx context.Context, rec label.Record, taxRows []Row) []string {
	code := strings.TrimSpace(taxRows[0].Get(ColTreatmentCode))
	treatRows := v.rules.Treatments.Filter(ColTreatmentID, code)
	if len(treatRows) == 0 {
		return []string{MsgTreatmentIDUnknown}
	}

	var b strings.Builder
	b.WriteString("Tu es un moteur de validation STRICT.\n\n")
	b.WriteString("RÈGLE IMPORTANTE :\n")
	b.WriteString("- Si le traitement du produit correspond au type de traitement mentionné dans les règles\n")
	b.WriteString("  (ex : anti-germinatif ≈ traité contre la germination), ALORS répondre REGLEMENTAIRE.\n")
	b.WriteString("- NE PAS tenir compte des substances chimiques implicites.\n")
	b.WriteString("- NE PAS faire d'interprétation ou de déduction.\n")
	b.WriteString("- Comparaison uniquement sémantique du TYPE de traitement.\n\n")
	b.WriteString("DONNÉES PRODUIT :\n")
	b.WriteString("- Traitement chimique : " + label.Str(rec.PostProductTreatment) + "\n\n")
	b.WriteString("RÈGLES DE RÉFÉRENCE :\n")
	b.WriteString(renderRows(treatRows) + "\n\n")
	b.WriteString("Réponds uniquement par :\nREGLEMENTAIRE\nou\nNON REGLEMENTAIRE")

	if v.oracle.Assess(ctx, b.String()) != constants.VerdictCompliant {
		return []string{MsgTreatmentNonCompliant}
	}
	return nil
}

// checkMentions verifies the complementary mentions against the mention rows
// referenced by the taxonomy.
func (v *Validator) checkMentions(ctx context.Context, rec label.Record, taxRows []Row) []string {
	code := strings.TrimSpace(taxRows[0].Get(ColMentionsCode))
	mentionRows := v.rules.Mentions.Filter(ColMentionsID, code)
	if len(mentionRows) == 0 {
		return []string{MsgMentionsIDUnknown}
	}

	var b strings.Builder
	b.WriteString("Tu es un expert en réglementation des fruits et légumes.\n\n")
	b.WriteString("DONNÉES PRODUIT :\n")
	b.WriteString("- Mentions présentes sur le produit : " + label.Str(rec.AdditionalsInfos) + "\n\n")
	b.WriteString("RÈGLES DE RÉFÉRENCE :\n")
	b.WriteString(renderRows(mentionRows) + "\n\n")
	b.WriteString("CONSIGNE :\n")
	b.WriteString("Vérifie si les mentions du produit sont conformes aux règles fournies\n")
	b.WriteString("(mentions obligatoires présentes, mentions interdites absentes).\n\n")
	b.WriteString("Réponds uniquement par :\nREGLEMENTAIRE\nou\nNON REGLEMENTAIRE")

	if v.oracle.Assess(ctx, b.String()) != constants.VerdictCompliant {
		return []string{MsgMentionsNonCompliant}
	}
	return nil
}

// checkCategory is deterministic: the record category must case-insensitively
// match one of the category code values referenced by the taxonomy.
func (v *Validator) checkCategory(rec label.Record, taxRows []Row) []string {
	code := strings.TrimSpace(taxRows[0].Get(ColCategoryCode))
	catRows := v.rules.Categories.Filter(ColCategoryID, code)
	if len(catRows) == 0 {
		return []string{MsgCategoryIDUnknown}
	}

	subset := &Table{Rows: catRows}
	got := strings.TrimSpace(label.Str(rec.Category))
	for _, allowed := range subset.DistinctNonEmpty(ColCategoryName) {
		if strings.EqualFold(got, allowed) {
			return nil
		}
	}
	return []string{MsgCategoryNonCompliant}
}

// checkPackerIdentity is compliant when any of the packer identity forms is
// present; a present ISO code must exist in the country reference table.
func (v *Validator) checkPackerIdentity(rec label.Record) []string {
	hasIdentity := label.Set(rec.PackerNameAddress) ||
		label.Set(rec.PackerISOCode) ||
		(label.Set(rec.PackedForNameAddress) && label.Set(rec.PackedForPackerCode))
	if !hasIdentity {
		return []string{MsgPackerMissing}
	}
	if label.Set(rec.PackerISOCode) && !v.rules.HasISOCode(label.Str(rec.PackerISOCode)) {
		return []string{MsgPackerISOInvalid}
	}
	return nil
}

// checkTraceability is compliant when any of traceability code, lot numbers or
// date-code is present.
func checkTraceability(rec label.Record) []string {
	if label.Set(rec.TraceabilityCode) || label.Set(rec.Lots) || label.Set(rec.DatageCode) {
		return nil
	}
	return []string{MsgTraceMissing}
}
