package weather

import (
	"context"
	"errors"
	"testing"
)

type fakeLLM struct {
	reply string
	err   error
}

func (f fakeLLM) Generate(_ context.Context, _ string) (string, error) {
	return f.reply, f.err
}

func TestLookupClimate(t *testing.T) {
	cases := []struct {
		location string
		wantTemp float64
	}{
		{"Ludhiana, Punjab", 28},
		{"Jaipur, Rajasthan", 34},
		{"Nashik, Maharashtra", 31},
		{"Kochi, Kerala", 29},
		{"somewhere unmapped", defaultClimate.Temperature},
		{"", defaultClimate.Temperature},
	}
	for _, tc := range cases {
		if got := LookupClimate(tc.location); got.Temperature != tc.wantTemp {
			t.Errorf("LookupClimate(%q).Temperature = %.0f, want %.0f", tc.location, got.Temperature, tc.wantTemp)
		}
	}
}

func TestRunUsesGeneratedNarrative(t *testing.T) {
	agent := NewAgent(fakeLLM{reply: `{
		"analysis": "Conditions favour a short holding period.",
		"recommendations": ["Ventilate storage"],
		"riskLevel": "medium",
		"optimalActions": ["Sell within two weeks"]
	}`})

	out, err := agent.Run(context.Background(), "Wheat", "Ludhiana, Punjab", "en")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Analysis != "Conditions favour a short holding period." {
		t.Fatalf("unexpected analysis: %q", out.Analysis)
	}
	if out.RiskLevel != "medium" {
		t.Fatalf("risk = %q, want medium", out.RiskLevel)
	}
	// Numeric values always come from the climate table, never the model.
	if out.Climate.Temperature != 28 {
		t.Fatalf("climate temperature = %.0f, want 28", out.Climate.Temperature)
	}
}

func TestRunDeterministicFallback(t *testing.T) {
	agent := NewAgent(fakeLLM{err: errors.New("model down")})

	out, err := agent.Run(context.Background(), "Onion", "Jaipur, Rajasthan", "en")
	if err != nil {
		t.Fatalf("Run must not fail: %v", err)
	}
	// Rajasthan climate is 34°C, above the heat threshold.
	if out.RiskLevel != "high" {
		t.Fatalf("risk = %q, want high for 34°C", out.RiskLevel)
	}
	if out.Analysis == "" || len(out.Recommendations) == 0 || len(out.OptimalActions) == 0 {
		t.Fatalf("fallback outlook incomplete: %+v", out)
	}
}

func TestRunFillsPartialModelOutput(t *testing.T) {
	agent := NewAgent(fakeLLM{reply: `{"analysis": "Short note.", "riskLevel": ""}`})

	out, err := agent.Run(context.Background(), "Wheat", "Punjab", "en")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.RiskLevel == "" {
		t.Fatal("risk level must be filled from the deterministic outlook")
	}
	if len(out.Recommendations) == 0 || len(out.OptimalActions) == 0 {
		t.Fatalf("gaps not filled: %+v", out)
	}
	if out.Analysis != "Short note." {
		t.Fatalf("model analysis must be kept, got %q", out.Analysis)
	}
}

func TestDeterministicOutlookThresholds(t *testing.T) {
	cases := []struct {
		name     string
		climate  Climate
		wantRisk string
	}{
		{"heat", Climate{Temperature: 35}, "high"},
		{"heavy rain", Climate{Temperature: 25, RainfallMm: 80}, "high"},
		{"humid", Climate{Temperature: 25, Humidity: 75}, "medium"},
		{"mild", Climate{Temperature: 25, Humidity: 50, RainfallMm: 10, Condition: "moderate"}, "low"},
	}
	for _, tc := range cases {
		out := deterministicOutlook("Wheat", tc.climate)
		if out.RiskLevel != tc.wantRisk {
			t.Errorf("%s: risk = %q, want %q", tc.name, out.RiskLevel, tc.wantRisk)
		}
	}
}
