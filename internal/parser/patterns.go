package parser

import (
	"regexp"
	"strings"

	"github.com/verdiscan/label-backend/constants"
)

// Each field carries an ordered candidate pattern list, most specific first.
// The first pattern that matches wins; there is no scoring across patterns.

var productPatterns = compileAll(
	`(?i)Produit\s*[:\-]?\s*([A-Za-z0-9\- ]{3,})`,
	`(?i)([A-Z][A-Z0-9\- ]{3,})\s+\(?\bwww\b`,
	`(?i)([A-Z][A-Z0-9\- ]{3,})`,
	`(?i)([A-Z][a-zéèêàâîôûç\- ]{3,})`,
)

var varietyPatterns = compileAll(
	`(?i)Vari[eé]t[eé]?\s*[:\-]?\s*([A-Za-z0-9\-()' ]+)`,
	`(?i)Var\.?\s*[:\-]?\s*([A-Za-z0-9\-()' ]+)`,
	`(?i)YARIETE\s*[:\-]?\s*([A-Za-z0-9\-()' ]+)`,
)

var calibrePatterns = compileAll(
	`(?i)Cal(?:ibre|\.)?\s*[:\-]?\s*([0-9]{1,3}(?:/[0-9]{1,3})?)`,
	`(?i)Cal(?:ibre|\.)?\s*[:\-]?\s*([0-9]{1,3})`,
	`(?i)([0-9]{1,3}/[0-9]{1,3})\s*mm`,
	`(?i)([0-9]{1,3})\s*mm`,
)

var categoryPatterns = compileAll(
	`(?i)Cat(?:égorie|egorie|\.|:)?\s*[:\-]?\s*([A-Za-z0-9]+)`,
	`(?i)CAT\s*[:\-]?\s*([A-Za-z0-9]+)`,
)

var countPatterns = compileAll(
	`(?i)Nombre\s*[:\-]?\s*([0-9]+)\s*Pcs?`,
	`(?i)Nombre\s*[:\-]?\s*([0-9]+)`,
	`(?i)([0-9]+)\s*Pcs`,
)

var originPatterns = compileAll(
	`(?i)ORIGINE\s*[:\-]?\s*([A-Za-zéèçÉÈÇ\- ]+)`,
	`(?i)Origine\s*[:\-]?\s*([A-Za-z\-éèçÉÈÇ ]+)`,
	`(?i)Origine\s+([A-Za-z\-éèçÉÈÇ ]+)`,
	`(?i)Origin[eé]?\s*[:\-]?\s*([A-Za-z\- ]+)`,
	`(?i)Agriculture\s*[:\-]?\s*([A-Za-z\- ]+)`,
)

var lotPatterns = compileAll(
	`(?i)Lot\s*[:\-]?\s*([A-Za-z0-9\-]+)`,
	`(?i)N[°ºo]?\s*Lot\.?\s*[:\-]?\s*([A-Za-z0-9\-]+)`,
	`(?i)Code Lot\s*[:\-]?\s*([A-Za-z0-9\-]+)`,
	`(?i)Lot\.?\s*([0-9]{4,})`,
)

var embPatterns = compileAll(
	`(?i)EMB\s*[:\-]?\s*([A-Za-z0-9\-]+)`,
	`(?i)Emballe\s*[:\-]?\s*([A-Za-z0-9\-]+)`,
	`(?i)Emb\.?\s*([A-Za-z0-9\-]+)`,
)

var eanPatterns = compileAll(
	`(\b\d{12,13}\b)`,
	`(?i)EAN\s*[:\-]?\s*(\d{8,13})`,
	`(?i)Code\s*[:\-]?\s*(\d{8,13})`,
	`(?i)GGN\s*[:\-]?\s*(\d{8,13})`,
)

var (
	// reBrackets strips bracket and quote characters from captured spans.
	reBrackets = regexp.MustCompile("[()\\[\\]{}\"'`´]")

	// reStoplist removes stand-alone unit and label tokens, built from the
	// named lexicon so the table stays independently testable.
	reStoplist = regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoteAll(constants.UnitStoplist), "|") + `)\b`)

	// reOriginDenylist removes administrative noise leaking into origin spans.
	reOriginDenylist = regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoteAll(constants.OriginDenylist), "|") + `)\b`)

	// reFieldStopwords marks a sibling field label inside a value: everything
	// from the label onward is cross-field contamination.
	reFieldStopwords = regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoteAll(constants.FieldLabelStopwords), "|") + `)\b`)

	// reProductGuess is the last-resort product fallback: a leading run of
	// uppercase letters, digits, spaces and hyphens in the raw text.
	reProductGuess = regexp.MustCompile(`[A-Z][A-Z0-9 \-]{3,40}`)

	// reCalibreValue re-extracts the numeric-or-fraction core of a calibre.
	reCalibreValue = regexp.MustCompile(`\d{1,3}(?:/\d{1,3})?`)
)

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

func quoteAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = regexp.QuoteMeta(w)
	}
	return out
}
