package rules

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/verdiscan/label-backend/internal/llm"
)

type stubCompleter struct {
	reply string
	err   error
	calls int
	last  llm.ChatRequest
}

func (s *stubCompleter) Complete(_ context.Context, req llm.ChatRequest) (string, error) {
	s.calls++
	s.last = req
	return s.reply, s.err
}

var testCandidates = map[int]string{
	1: "FRUITS | KIWI",
	2: "FRUITS | AGRUMES",
	3: "LEGUMES | POMME DE TERRE",
}

func TestClassifyResolvesID(t *testing.T) {
	stub := &stubCompleter{reply: " 2 \n"}
	c := NewModelClassifier(stub, discardLogger())

	family, sub := c.Classify(context.Background(), "Orange", "Navel", testCandidates)
	if family != "FRUITS" || sub != "AGRUMES" {
		t.Errorf("Classify = (%q, %q), want (FRUITS, AGRUMES)", family, sub)
	}
	if !strings.Contains(stub.last.User, "1: FRUITS | KIWI") {
		t.Error("prompt must enumerate candidates with their IDs")
	}
	if !strings.Contains(stub.last.User, "Orange") {
		t.Error("prompt must carry the product name")
	}
}

func TestClassifySoftFailures(t *testing.T) {
	tests := []struct {
		name string
		stub *stubCompleter
	}{
		{"call error", &stubCompleter{err: errors.New("boom")}},
		{"non numeric reply", &stubCompleter{reply: "FRUITS | KIWI"}},
		{"unknown id", &stubCompleter{reply: "99"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewModelClassifier(tt.stub, discardLogger())
			family, sub := c.Classify(context.Background(), "Kiwi", "", testCandidates)
			if family != "" || sub != "" {
				t.Errorf("Classify = (%q, %q), want empty pair", family, sub)
			}
		})
	}
}

func TestOracleConservativeDefault(t *testing.T) {
	tests := []struct {
		name string
		stub *stubCompleter
		want string
	}{
		{"compliant", &stubCompleter{reply: "REGLEMENTAIRE"}, "REGLEMENTAIRE"},
		{"compliant lowercase", &stubCompleter{reply: " reglementaire "}, "REGLEMENTAIRE"},
		{"non compliant", &stubCompleter{reply: "NON REGLEMENTAIRE"}, "NON REGLEMENTAIRE"},
		{"rambling reply", &stubCompleter{reply: "Le produit semble conforme."}, "NON REGLEMENTAIRE"},
		{"call error", &stubCompleter{err: errors.New("boom")}, "NON REGLEMENTAIRE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewModelOracle(tt.stub, discardLogger())
			if got := o.Assess(context.Background(), "question"); got != tt.want {
				t.Errorf("Assess = %q, want %q", got, tt.want)
			}
		})
	}
}
