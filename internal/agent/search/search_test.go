package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/agrimandi/advisor/internal/locale"
)

type fakeLLM struct {
	reply string
	err   error
}

func (f fakeLLM) Generate(_ context.Context, _ string) (string, error) {
	return f.reply, f.err
}

func TestRunReturnsBriefing(t *testing.T) {
	agent := NewAgent(fakeLLM{reply: "Wheat outlook\n\nPrices range ₹2000-2300 per quintal."})

	b, err := agent.Run(context.Background(), "Wheat", "Punjab", "en")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(b.Query, "Wheat") || !strings.Contains(b.Query, "Punjab") {
		t.Fatalf("query must mention crop and location: %q", b.Query)
	}
	if b.Language != "en" {
		t.Fatalf("language = %q, want en", b.Language)
	}
	if !strings.Contains(b.Content, "₹2000-2300") {
		t.Fatalf("content lost: %q", b.Content)
	}
}

func TestRunFallbackOnModelFailure(t *testing.T) {
	agent := NewAgent(fakeLLM{err: errors.New("model down")})

	b, err := agent.Run(context.Background(), "Onion", "Nashik", "hi")
	if err != nil {
		t.Fatalf("Run must not fail: %v", err)
	}
	if b.Content != locale.Unavailable("hi") {
		t.Fatalf("expected localized unavailable message, got %q", b.Content)
	}

	agent = NewAgent(fakeLLM{reply: "  \n "})
	b, _ = agent.Run(context.Background(), "Onion", "Nashik", "en")
	if b.Content != locale.Unavailable("en") {
		t.Fatalf("blank reply must fall back, got %q", b.Content)
	}
}

func TestNormalizeText(t *testing.T) {
	in := "## Wheat outlook\n- first point\n* second point\n• third point\n\n\n\nClosing note."
	got := normalizeText(in)

	if strings.Contains(got, "#") || strings.Contains(got, "- ") || strings.Contains(got, "• ") {
		t.Fatalf("markdown markers survived: %q", got)
	}
	if strings.Contains(got, "\n\n\n") {
		t.Fatalf("blank runs not collapsed: %q", got)
	}
	if !strings.Contains(got, "first point") || !strings.Contains(got, "Closing note.") {
		t.Fatalf("content lost: %q", got)
	}
}
