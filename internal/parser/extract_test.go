package parser

import (
	"encoding/json"
	"testing"

	"github.com/verdiscan/label-backend/internal/label"
)

func str(p *string) string {
	if p == nil {
		return "<nil>"
	}
	return *p
}

func TestExtractKiwiLabel(t *testing.T) {
	text := "3l gg KIWIFRUIT SUNGOLD Variété: Zesy002 (Jaune) Calibre: 30 114/124g CAT 1 Nombre: 4 Pcs Origine: Nouvelle-zélande Lot:265475"

	f := Extract(text)

	if got := str(f.Calibre); got != "30" {
		t.Errorf("Calibre = %q, want %q", got, "30")
	}
	if got := str(f.Category); got != "1" {
		t.Errorf("Category = %q, want %q", got, "1")
	}
	if got := str(f.Origin); got != "Nouvelle-zélande" {
		t.Errorf("Origin = %q, want %q", got, "Nouvelle-zélande")
	}
	if got := str(f.Lot); got != "265475" {
		t.Errorf("Lot = %q, want %q", got, "265475")
	}
	if got := str(f.Count); got != "4" {
		t.Errorf("Count = %q, want %q", got, "4")
	}
	if got := str(f.Variety); got != "Zesy002 (Jaune)" {
		t.Errorf("Variety = %q, want %q", got, "Zesy002 (Jaune)")
	}
}

func TestExtractTruncatesAtSiblingLabel(t *testing.T) {
	f := Extract("Variété: Zesy002 (Jaune) Calibre: 30")
	if got := str(f.Variety); got != "Zesy002 (Jaune)" {
		t.Errorf("Variety = %q, want %q", got, "Zesy002 (Jaune)")
	}
}

func TestExtractCountryFallback(t *testing.T) {
	// No Origine label at all: the allow-list scan must still find the
	// country and case-normalize it.
	f := Extract("KIWI SUNGOLD 114g Nouvelle-Zélande Lot 265475")
	if got := str(f.Origin); got != "Nouvelle-zélande" {
		t.Errorf("Origin = %q, want %q", got, "Nouvelle-zélande")
	}
}

func TestExtractTotality(t *testing.T) {
	for _, in := range []string{"", "   \n\t ", "no labels here at all", "Calibre: 30"} {
		f := Extract(in)
		for name, p := range map[string]*string{
			"product": f.Product, "variety": f.Variety, "calibre": f.Calibre,
			"category": f.Category, "count": f.Count, "origin": f.Origin,
			"lot": f.Lot, "emb": f.EMB, "ean": f.EAN,
		} {
			if p != nil && *p == "" {
				t.Errorf("Extract(%q): field %s is an empty string, want nil or non-empty", in, name)
			}
		}
	}
}

func TestExtractEmptyInput(t *testing.T) {
	f := Extract("")
	if f != (Fields{}) {
		t.Errorf("Extract(\"\") = %+v, want zero Fields", f)
	}
}

func TestToRecordKeysAlwaysPresent(t *testing.T) {
	b, err := json.Marshal(Extract("").ToRecord())
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{
		"product_name", "variety", "calibre", "category", "piece_count",
		"origin", "lots", "packed_for_packer_code", "traceability_code",
	} {
		v, ok := m[key]
		if !ok {
			t.Errorf("marshaled record missing key %q", key)
		} else if v != nil {
			t.Errorf("key %q = %v, want null for empty input", key, v)
		}
	}
}

func TestToRecordMapping(t *testing.T) {
	product, count, lot, emb, ean := "KIWI", "4", "265475", "13270A", "9400953000047"
	f := Fields{Product: &product, Count: &count, Lot: &lot, EMB: &emb, EAN: &ean}
	rec := f.ToRecord()

	if label.Str(rec.ProductName) != product {
		t.Errorf("ProductName = %q", label.Str(rec.ProductName))
	}
	if label.Str(rec.PieceCount) != count {
		t.Errorf("PieceCount = %q", label.Str(rec.PieceCount))
	}
	if label.Str(rec.Lots) != lot {
		t.Errorf("Lots = %q", label.Str(rec.Lots))
	}
	if label.Str(rec.PackedForPackerCode) != emb {
		t.Errorf("PackedForPackerCode = %q", label.Str(rec.PackedForPackerCode))
	}
	if label.Str(rec.TraceabilityCode) != ean {
		t.Errorf("TraceabilityCode = %q", label.Str(rec.TraceabilityCode))
	}
}
