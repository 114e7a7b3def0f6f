package rules

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/verdiscan/label-backend/internal/common"
)

// requiredColumns is the structural contract per sheet. A workbook missing one
// of these is rejected at load time rather than silently mis-matched later.
var requiredColumns = map[string][]string{
	SheetCountries:  {ColISONumeric, ColISO2, ColISO3},
	SheetCalibres:   {ColCalibreID},
	SheetCategories: {ColCategoryID, ColCategoryName},
	SheetTreatments: {ColTreatmentID},
	SheetMentions:   {ColMentionsID},
	SheetTaxonomy: {
		ColDestination, ColFamily, ColSubFamily,
		ColCalibreCode, ColCategoryCode, ColTreatmentCode, ColMentionsCode,
	},
}

// Load reads the five reference sheets plus the taxonomy from the rule
// workbook, filters the taxonomy to the configured destination, and returns an
// immutable RuleContext. Loaded once per process.
func Load(path, destination string, logger *slog.Logger) (*RuleContext, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, common.NewAppError("RULES_LOAD",
			fmt.Sprintf("open workbook %s", path), err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.Warn("rules.load.close_error", "error", cerr)
		}
	}()

	rc := &RuleContext{Destination: strings.TrimSpace(destination)}
	for sheet, dst := range map[string]**Table{
		SheetCountries:  &rc.Countries,
		SheetCalibres:   &rc.Calibres,
		SheetCategories: &rc.Categories,
		SheetTreatments: &rc.Treatments,
		SheetMentions:   &rc.Mentions,
		SheetTaxonomy:   &rc.Taxonomy,
	} {
		t, err := loadSheet(f, sheet)
		if err != nil {
			return nil, err
		}
		*dst = t
	}

	rc.Taxonomy = filterTaxonomy(rc.Taxonomy, rc.Destination)
	if len(rc.Taxonomy.Rows) == 0 {
		return nil, common.NewAppError("RULES_LOAD",
			fmt.Sprintf("no taxonomy rows for destination %q", rc.Destination),
			common.ErrValidation)
	}

	logger.Info("rules.load.ok",
		"path", path,
		"destination", rc.Destination,
		"countries", len(rc.Countries.Rows),
		"calibres", len(rc.Calibres.Rows),
		"categories", len(rc.Categories.Rows),
		"treatments", len(rc.Treatments.Rows),
		"mentions", len(rc.Mentions.Rows),
		"taxonomy", len(rc.Taxonomy.Rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rc, nil
}

func loadSheet(f *excelize.File, sheet string) (*Table, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, common.NewAppError("RULES_LOAD",
			fmt.Sprintf("sheet %q missing from workbook", sheet), err)
	}
	if len(rows) == 0 {
		return nil, common.NewAppError("RULES_LOAD",
			fmt.Sprintf("sheet %q has no header row", sheet), common.ErrValidation)
	}

	headers := rows[0]
	have := make(map[string]int, len(headers))
	for i, h := range headers {
		have[CanonicalKey(h)] = i
	}
	for _, req := range requiredColumns[sheet] {
		if _, ok := have[CanonicalKey(req)]; !ok {
			return nil, common.NewAppError("RULES_LOAD",
				fmt.Sprintf("sheet %q missing required column %q", sheet, req),
				common.ErrValidation)
		}
	}

	t := &Table{Name: sheet, Headers: headers}
	for _, raw := range rows[1:] {
		row := make(Row, len(headers))
		empty := true
		for i, h := range headers {
			v := ""
			if i < len(raw) {
				v = strings.TrimSpace(raw[i])
			}
			if v != "" {
				empty = false
			}
			row[CanonicalKey(h)] = v
		}
		if empty {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// filterTaxonomy keeps rows whose destination matches. Cells were trimmed at
// load; trailing spaces in the source data must never cause silent mismatches.
func filterTaxonomy(t *Table, destination string) *Table {
	out := &Table{Name: t.Name, Headers: t.Headers}
	for _, row := range t.Rows {
		if strings.TrimSpace(row.Get(ColDestination)) == destination {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
