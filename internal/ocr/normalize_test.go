package ocr

import "testing"

func TestFlatten(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"newlines become spaces", "KIWI\nSUNGOLD\nCal 30", "KIWI SUNGOLD Cal 30"},
		{"separators become spaces", "Origine|France\\Lot/265475", "Origine France Lot 265475"},
		{"em dash becomes hyphen", "Nouvelle—Zélande", "Nouvelle-Zélande"},
		{"whitespace runs collapse", "  Cat \t 1   Nombre  4 ", "Cat 1 Nombre 4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Flatten(tt.in); got != tt.want {
				t.Errorf("Flatten(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFlattenIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"KIWI\nSUNGOLD | Cal. 30\\114/124g",
		"  Variété:   Zesy002 (Jaune)\n\nCalibre: 30  ",
		"Origine—Nouvelle—Zélande",
		"déjà plat",
	}
	for _, in := range inputs {
		once := Flatten(in)
		if twice := Flatten(once); twice != once {
			t.Errorf("Flatten not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestNormalizeSpaces(t *testing.T) {
	if got := NormalizeSpaces("  a \t b\n c  "); got != "a b c" {
		t.Errorf("NormalizeSpaces = %q, want %q", got, "a b c")
	}
}
