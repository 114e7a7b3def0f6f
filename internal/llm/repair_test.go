package llm

import (
	"errors"
	"testing"

	"github.com/verdiscan/label-backend/internal/common"
)

func TestDecodeModelJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantKey string
		wantVal string
	}{
		{"plain object", `{"origin": "France"}`, "origin", "France"},
		{"fenced block", "```json\n{\"origin\": \"France\"}\n```", "origin", "France"},
		{"fenced without language", "```\n{\"origin\": \"France\"}\n```", "origin", "France"},
		{"prose around object", `Voici le résultat : {"origin": "France"} .`, "origin", "France"},
		{"leading whitespace", "\n\n  {\"origin\": \"France\"}", "origin", "France"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := DecodeModelJSON(tt.in)
			if err != nil {
				t.Fatalf("DecodeModelJSON: %v", err)
			}
			if got := m[tt.wantKey]; got != tt.wantVal {
				t.Errorf("m[%q] = %v, want %q", tt.wantKey, got, tt.wantVal)
			}
		})
	}
}

func TestDecodeModelJSONFailurePreservesRaw(t *testing.T) {
	for _, in := range []string{"", "pas de JSON ici", "{broken", "```\nrien\n```"} {
		_, err := DecodeModelJSON(in)
		if err == nil {
			t.Errorf("DecodeModelJSON(%q): expected error", in)
			continue
		}
		var mre *common.ModelResponseError
		if !errors.As(err, &mre) {
			t.Errorf("DecodeModelJSON(%q): error %T, want *common.ModelResponseError", in, err)
			continue
		}
		if mre.Raw != in {
			t.Errorf("Raw = %q, want original input %q", mre.Raw, in)
		}
	}
}
