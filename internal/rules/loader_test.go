package rules

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeWorkbook builds a minimal but structurally complete rule workbook.
// mutate lets a test corrupt it before saving.
func writeWorkbook(t *testing.T, mutate func(f *excelize.File)) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheets := map[string][][]any{
		SheetCountries: {
			{"Pays", ColISONumeric, ColISO2, ColISO3},
			{"France", "250", "FR", "FRA"},
			{"Nouvelle-Zélande", "554", "NZ", "NZL"},
		},
		SheetCalibres: {
			{ColCalibreID, "Calibre"},
			{"CAL1", "25-33"},
		},
		SheetCategories: {
			{ColCategoryID, ColCategoryName},
			{"CAT1", "1"},
			{"CAT1", "Extra"},
		},
		SheetTreatments: {
			{ColTreatmentID, "Traitement"},
			{"T1", "Sans traitement"},
		},
		SheetMentions: {
			{ColMentionsID, "Mention"},
			{"M1", "Non traité après récolte"},
		},
		SheetTaxonomy: {
			{ColDestination, ColFamily, ColSubFamily, ColCalibreCode, ColCategoryCode, ColTreatmentCode, ColMentionsCode},
			// Trailing space in the destination cell: trimmed at load.
			{"BASE LOGISTIQUE ", "FRUITS", "KIWI", "CAL1", "CAT1", "T1", "M1"},
			{"AUTRE DEPOT", "FRUITS", "POMME", "CAL1", "CAT1", "T1", "M1"},
			{"", "", "", "", "", "", ""},
		},
	}
	for sheet, rows := range sheets {
		if _, err := f.NewSheet(sheet); err != nil {
			t.Fatalf("NewSheet(%s): %v", sheet, err)
		}
		for i, row := range rows {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				t.Fatalf("SetSheetRow(%s): %v", sheet, err)
			}
		}
	}
	if mutate != nil {
		mutate(f)
	}

	path := filepath.Join(t.TempDir(), "rules.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	return path
}

func TestLoadFiltersDestination(t *testing.T) {
	path := writeWorkbook(t, nil)

	rc, err := Load(path, "BASE LOGISTIQUE", discardLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rc.Taxonomy.Rows) != 1 {
		t.Fatalf("taxonomy rows = %d, want 1 (other destinations and blank rows excluded)", len(rc.Taxonomy.Rows))
	}
	row := rc.Taxonomy.Rows[0]
	if row.Get(ColSubFamily) != "KIWI" {
		t.Errorf("sub-family = %q, want KIWI", row.Get(ColSubFamily))
	}
	if len(rc.Countries.Rows) != 2 {
		t.Errorf("countries rows = %d, want 2", len(rc.Countries.Rows))
	}
}

func TestLoadRejectsMissingColumn(t *testing.T) {
	path := writeWorkbook(t, func(f *excelize.File) {
		// Blank out the calibre ID header.
		_ = f.SetCellValue(SheetCalibres, "A1", "colonne renommée")
	})
	if _, err := Load(path, "BASE LOGISTIQUE", discardLogger()); err == nil {
		t.Fatal("expected error for missing required column")
	}
}

func TestLoadRejectsUnknownDestination(t *testing.T) {
	path := writeWorkbook(t, nil)
	if _, err := Load(path, "DEPOT INCONNU", discardLogger()); err == nil {
		t.Fatal("expected error when no taxonomy row matches the destination")
	}
}

func TestLoadRejectsMissingSheet(t *testing.T) {
	path := writeWorkbook(t, func(f *excelize.File) {
		_ = f.DeleteSheet(SheetMentions)
	})
	if _, err := Load(path, "BASE LOGISTIQUE", discardLogger()); err == nil {
		t.Fatal("expected error for missing sheet")
	}
}

func TestCanonicalKey(t *testing.T) {
	tests := []struct{ a, b string }{
		{"CODE CALIBRE", "code calibre"},
		{"Catégorie", "categorie"},
		{"Code ISO Numérique", "CODE ISO NUMERIQUE"},
		{"SOUS-FAMILLE", "sous-famille"},
		{"MENTIONS complementaires", "Mentions   Complémentaires"},
		{"CODE CATEGORIE\nligne 2", "code categorie"},
	}
	for _, tt := range tests {
		if CanonicalKey(tt.a) != CanonicalKey(tt.b) {
			t.Errorf("CanonicalKey(%q) = %q, CanonicalKey(%q) = %q; want equal",
				tt.a, CanonicalKey(tt.a), tt.b, CanonicalKey(tt.b))
		}
	}
}

func TestFamilyCandidatesAndRows(t *testing.T) {
	path := writeWorkbook(t, nil)
	rc, err := Load(path, "BASE LOGISTIQUE", discardLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cands := rc.FamilyCandidates()
	if len(cands) != 1 {
		t.Fatalf("candidates = %d, want 1", len(cands))
	}
	if cands[1] != "FRUITS | KIWI" {
		t.Errorf("candidate 1 = %q, want %q", cands[1], "FRUITS | KIWI")
	}

	if rows := rc.FamilyRows("FRUITS", "KIWI"); len(rows) != 1 {
		t.Errorf("FamilyRows(FRUITS, KIWI) = %d rows, want 1", len(rows))
	}
	if rows := rc.FamilyRows("FRUITS", "POMME"); len(rows) != 0 {
		t.Errorf("FamilyRows for filtered-out destination must be empty, got %d", len(rows))
	}
}

func TestHasISOCode(t *testing.T) {
	path := writeWorkbook(t, nil)
	rc, err := Load(path, "BASE LOGISTIQUE", discardLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, code := range []string{"FR", "FRA", "250", "NZ", " NZ "} {
		if !rc.HasISOCode(code) {
			t.Errorf("HasISOCode(%q) = false, want true", code)
		}
	}
	if rc.HasISOCode("ZZ") {
		t.Error("HasISOCode(ZZ) = true, want false")
	}
}
