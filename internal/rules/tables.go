// Package rules holds the reference rule tables and the compliance validator
// that runs label records against them.
package rules

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/unicode/norm"
)

// Row is a single reference fact, keyed by canonical column name.
type Row map[string]string

// Table is one loaded reference sheet. Rows are immutable after load.
type Table struct {
	Name    string
	Headers []string
	Rows    []Row
}

// Get reads a cell by column name, canonicalized, trimmed at load time.
func (r Row) Get(col string) string {
	return r[CanonicalKey(col)]
}

// Filter returns the rows whose column equals val under trimmed comparison.
func (t *Table) Filter(col, val string) []Row {
	val = strings.TrimSpace(val)
	var out []Row
	for _, row := range t.Rows {
		if strings.TrimSpace(row.Get(col)) == val {
			out = append(out, row)
		}
	}
	return out
}

// DistinctNonEmpty returns the de-duplicated non-blank values of a column,
// in first-seen order.
func (t *Table) DistinctNonEmpty(col string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, row := range t.Rows {
		v := strings.TrimSpace(row.Get(col))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Reference sheet names in the rule workbook.
const (
	SheetCountries  = "Pays"
	SheetCalibres   = "Calibre"
	SheetCategories = "Catégorie"
	SheetTreatments = "Traitement"
	SheetMentions   = "Mentions"
	SheetTaxonomy   = "Normalisation_occurrences"
)

// Taxonomy/reference column names as they appear in the workbook.
const (
	ColDestination   = "DESTINATION"
	ColFamily        = "FAMILLE"
	ColSubFamily     = "SOUS-FAMILLE"
	ColColour        = "Couleur"
	ColCalibreCode   = "CODE CALIBRE"
	ColCategoryCode  = "CODE CATEGORIE"
	ColTreatmentCode = "CODE TRAITEMENT CHIMIQUE"
	ColMentionsCode  = "MENTIONS complementaires"

	ColISONumeric = "Code ISO Numérique"
	ColISO2       = "Code ISO 2"
	ColISO3       = "Code ISO 3"

	ColCalibreID    = "ID Calibre"
	ColCategoryID   = "ID categorie"
	ColCategoryName = "Code Categorie"
	ColTreatmentID  = "ID Traitement"
	ColMentionsID   = "ID mentions"
)

// RuleContext holds the five loaded reference tables plus the taxonomy sheet
// filtered to one logistics destination. It is loaded once per process and
// never mutated afterwards, so it is safe for unlimited concurrent readers.
type RuleContext struct {
	Destination string

	Countries  *Table
	Calibres   *Table
	Categories *Table
	Treatments *Table
	Mentions   *Table
	Taxonomy   *Table
}

// FamilyCandidates numbers the de-duplicated (family, sub-family) pairs of the
// taxonomy, 1-based in first-seen order, as "FAMILLE | SOUS-FAMILLE" entries.
func (rc *RuleContext) FamilyCandidates() map[int]string {
	seen := make(map[string]struct{})
	out := make(map[int]string)
	id := 0
	for _, row := range rc.Taxonomy.Rows {
		fam := strings.TrimSpace(row.Get(ColFamily))
		sub := strings.TrimSpace(row.Get(ColSubFamily))
		if fam == "" && sub == "" {
			continue
		}
		pair := fam + " | " + sub
		if _, ok := seen[pair]; ok {
			continue
		}
		seen[pair] = struct{}{}
		id++
		out[id] = pair
	}
	return out
}

// FamilyRows returns the taxonomy rows matching a classified pair under
// trimmed equality on both columns.
func (rc *RuleContext) FamilyRows(family, subFamily string) []Row {
	family = strings.TrimSpace(family)
	subFamily = strings.TrimSpace(subFamily)
	var out []Row
	for _, row := range rc.Taxonomy.Rows {
		if strings.TrimSpace(row.Get(ColFamily)) == family &&
			strings.TrimSpace(row.Get(ColSubFamily)) == subFamily {
			out = append(out, row)
		}
	}
	return out
}

// HasISOCode reports whether a packer ISO code appears in any of the three
// country code representations.
func (rc *RuleContext) HasISOCode(code string) bool {
	code = strings.TrimSpace(code)
	for _, col := range []string{ColISONumeric, ColISO2, ColISO3} {
		for _, v := range rc.Countries.DistinctNonEmpty(col) {
			if v == code {
				return true
			}
		}
	}
	return false
}

var stripMarks = runes.Remove(runes.In(unicode.Mn))

// CanonicalKey folds a column name to a comparison form: accents removed,
// lowercased, whitespace collapsed. The workbook's headers are hand-typed and
// drift in case and accents between exports.
func CanonicalKey(s string) string {
	s, _, _ = strings.Cut(s, "\n")
	s = norm.NFC.String(stripMarks.String(norm.NFD.String(s)))
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), " ")
}
