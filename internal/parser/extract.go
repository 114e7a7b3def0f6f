// Package parser is the regex extraction engine for label OCR text. It is
// deterministic and tolerant to the usual OCR noise: joined lines, stray
// punctuation, unit tokens glued to values.
package parser

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/verdiscan/label-backend/constants"
	"github.com/verdiscan/label-backend/internal/label"
	"github.com/verdiscan/label-backend/internal/ocr"
)

// Fields is the engine's raw record. The key set is closed and total: every
// field is present after Extract, nil when the text does not carry it.
type Fields struct {
	Product  *string `json:"product"`
	Variety  *string `json:"variety"`
	Calibre  *string `json:"calibre"`
	Category *string `json:"category"`
	Count    *string `json:"count"`
	Origin   *string `json:"origin"`
	Lot      *string `json:"lot"`
	EMB      *string `json:"emb"`
	EAN      *string `json:"ean"`
}

// Extract parses OCR output from a fruit/veg label. Empty input yields a
// record with every field nil; no error paths exist.
func Extract(text string) Fields {
	var f Fields
	if strings.TrimSpace(text) == "" {
		return f
	}

	txt := ocr.Flatten(text)

	f.Product = extractField(productPatterns, txt, false)
	f.Variety = extractField(varietyPatterns, txt, true)
	f.Calibre = extractField(calibrePatterns, txt, false)
	f.Category = extractField(categoryPatterns, txt, false)
	f.Count = extractField(countPatterns, txt, false)
	f.Origin = extractField(originPatterns, txt, false)
	f.Lot = extractField(lotPatterns, txt, false)
	f.EMB = extractField(embPatterns, txt, false)
	f.EAN = extractField(eanPatterns, txt, false)

	f.Origin = cleanOrigin(f.Origin, txt)
	if f.Product == nil {
		f.Product = guessProduct(text)
	}
	f.Variety = cleanVariety(f.Variety)
	f.Calibre = cleanCalibre(f.Calibre)

	f.Variety = truncateAtSiblingLabel(f.Variety)
	f.Origin = truncateAtSiblingLabel(f.Origin)
	f.Product = truncateAtSiblingLabel(f.Product)

	return f
}

// ToRecord maps the raw fields onto the closed label schema consumed by the
// compliance validator: count feeds piece_count, lot feeds lots, the EMB code
// feeds packed_for_packer_code and the EAN feeds traceability_code.
func (f Fields) ToRecord() label.Record {
	return label.Record{
		ProductName:         f.Product,
		Variety:             f.Variety,
		Calibre:             f.Calibre,
		Category:            f.Category,
		PieceCount:          f.Count,
		Origin:              f.Origin,
		Lots:                f.Lot,
		PackedForPackerCode: f.EMB,
		TraceabilityCode:    f.EAN,
	}
}

// extractField tries the candidate patterns in order; the first matching one
// wins even when cleanup then empties the value. Within a match the first
// non-empty capture group is preferred, else the whole match. keepBrackets
// preserves parenthesized content (variety values carry it legitimately).
func extractField(pats []*regexp.Regexp, text string, keepBrackets bool) *string {
	for _, pat := range pats {
		m := pat.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		val := m[0]
		for _, g := range m[1:] {
			if g != "" {
				val = g
				break
			}
		}
		val = ocr.NormalizeSpaces(val)
		if !keepBrackets {
			val = reBrackets.ReplaceAllString(val, "")
		}
		val = reStoplist.ReplaceAllString(val, "")
		val = strings.Trim(ocr.NormalizeSpaces(val), " ,:-")
		return optional(val)
	}
	return nil
}

// cleanOrigin strips administrative noise from the captured span, then falls
// back to the country allow-list: first matches anchored to the origin label,
// then a bare-country scan. The first allow-listed country wins, capitalized.
func cleanOrigin(origin *string, txt string) *string {
	if origin != nil {
		val := reOriginDenylist.ReplaceAllString(*origin, "")
		val = strings.Trim(ocr.NormalizeSpaces(val), " ,:-")
		origin = optional(val)
	}
	if origin != nil {
		return origin
	}
	for _, anchored := range []bool{true, false} {
		for _, c := range constants.KnownCountries {
			expr := `(?i)\b` + regexp.QuoteMeta(c) + `\b`
			if anchored {
				expr = `(?i)Origine\s+\b` + regexp.QuoteMeta(c) + `\b`
			}
			if regexp.MustCompile(expr).MatchString(txt) {
				v := capitalize(c)
				return &v
			}
		}
	}
	return nil
}

// guessProduct scans the raw (unflattened) text for a leading run of
// uppercase letters/digits as a best-effort brand or product name.
func guessProduct(raw string) *string {
	if m := reProductGuess.FindString(raw); m != "" {
		v := ocr.NormalizeSpaces(m)
		return optional(v)
	}
	return nil
}

// cleanVariety drops stray commas, a leading parenthesis run, and a trailing
// parenthesis run only when unbalanced, so "Zesy002 (Jaune)" survives intact.
func cleanVariety(variety *string) *string {
	if variety == nil {
		return nil
	}
	val := strings.Trim(*variety, ", ")
	val = strings.TrimLeft(val, "( ")
	for strings.Count(val, ")") > strings.Count(val, "(") && strings.HasSuffix(val, ")") {
		val = strings.TrimRight(strings.TrimSuffix(val, ")"), " ")
	}
	val = strings.Trim(val, ", ")
	return optional(val)
}

// cleanCalibre re-extracts the numeric-or-fraction core, discarding any unit
// text that survived the generic cleanup.
func cleanCalibre(calibre *string) *string {
	if calibre == nil {
		return nil
	}
	if m := reCalibreValue.FindString(*calibre); m != "" {
		return &m
	}
	return calibre
}

// truncateAtSiblingLabel cuts a value at the first sibling field label found
// inside it. A label leaking into a value means OCR missed a line break; the
// remainder belongs to another field.
func truncateAtSiblingLabel(v *string) *string {
	if v == nil {
		return nil
	}
	loc := reFieldStopwords.FindStringIndex(*v)
	if loc == nil {
		return v
	}
	val := strings.Trim((*v)[:loc[0]], " ,:-")
	return optional(val)
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
