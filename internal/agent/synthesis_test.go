package agent

import (
	"strings"
	"testing"

	"github.com/agrimandi/advisor/internal/agent/news"
	"github.com/agrimandi/advisor/internal/agent/price"
	"github.com/agrimandi/advisor/internal/agent/search"
	"github.com/agrimandi/advisor/internal/agent/weather"
)

func baseRequest() AnalysisRequest {
	req := AnalysisRequest{CropType: "Wheat", Location: "Ludhiana, Punjab"}
	req.ApplyDefaults()
	return req
}

func TestBuildSynthesisPromptKeepsAllSections(t *testing.T) {
	prompt := buildSynthesisPrompt(baseRequest(), AgentOutputs{})

	for _, header := range []string{"FARMER CONTEXT:", "MANDI PRICE DATA:", "NEWS ANALYSIS:", "WEATHER IMPACT:", "MARKET INTELLIGENCE:"} {
		if !strings.Contains(prompt, header) {
			t.Errorf("prompt missing section %q", header)
		}
	}
	// Every agent failed, so every data section carries the placeholder.
	if got := strings.Count(prompt, notAvailable); got != 4 {
		t.Fatalf("expected 4 placeholders, got %d", got)
	}
	if !strings.Contains(prompt, "Wheat") || !strings.Contains(prompt, "Ludhiana, Punjab") {
		t.Fatal("prompt missing request identity")
	}
}

func TestBuildSynthesisPromptEmbedsAgentData(t *testing.T) {
	high := price.Record{Market: "Amritsar", ModalPrice: 2300}
	outputs := AgentOutputs{
		Price: &price.Insights{
			DataSource: price.SourceMarketData,
			Records:    []price.Record{high},
			Summary:    price.Summary{RegionalAverage: 2133, RegionalHigh: &high},
			Guidance:   price.Guidance{TimingAdvice: "worth transporting"},
		},
		News:    &NewsOutput{Report: &news.Report{TotalArticles: 5, Analysis: "Markets are steady."}, Sentiment: "neutral"},
		Weather: &weather.Outlook{Climate: weather.Climate{Temperature: 28, Condition: "dry and warm"}, RiskLevel: "low", Analysis: "Mild."},
		Search:  &search.Briefing{Content: "Regional demand is stable."},
	}

	prompt := buildSynthesisPrompt(baseRequest(), outputs)
	if strings.Contains(prompt, notAvailable) {
		t.Fatal("no placeholder expected when every agent succeeded")
	}
	for _, fragment := range []string{"₹2133", "Amritsar", "Sentiment: neutral", "Risk level: low", "Regional demand is stable."} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt missing %q", fragment)
		}
	}
}

func TestPriceSectionEstimate(t *testing.T) {
	section := priceSection(&price.Insights{
		DataSource: price.SourceAIEstimate,
		Estimate:   &price.Estimate{ModalPrice: 2000, MinPrice: 1800, MaxPrice: 2200, Trend: "stable", Confidence: "low", Rationale: "seasonal average"},
	})
	if !strings.Contains(section, "model estimate") || !strings.Contains(section, "₹2000") {
		t.Fatalf("unexpected estimate section: %q", section)
	}

	// An estimate tier without the estimate block degrades to the placeholder.
	if got := priceSection(&price.Insights{DataSource: price.SourceAIEstimate}); got != notAvailable {
		t.Fatalf("expected placeholder, got %q", got)
	}
	if got := priceSection(&price.Insights{DataSource: price.SourceDefault}); got != notAvailable {
		t.Fatalf("DEFAULT tier must render as placeholder, got %q", got)
	}
}

func TestDefaultRecommendationUrgencyMapping(t *testing.T) {
	cases := []struct {
		urgency    Urgency
		wantAction Action
	}{
		{UrgencyHigh, ActionSellNow},
		{UrgencyMedium, ActionWaitAndMonitor},
		{UrgencyLow, ActionGradualSelling},
	}
	for _, tc := range cases {
		req := baseRequest()
		req.FinancialUrgency = tc.urgency
		rec := defaultRecommendation(req, nil)
		if rec.Recommendation.Action != tc.wantAction {
			t.Errorf("urgency %s: action = %s, want %s", tc.urgency, rec.Recommendation.Action, tc.wantAction)
		}
		if !rec.complete() {
			t.Errorf("urgency %s: default recommendation incomplete", tc.urgency)
		}
	}
}

func TestDefaultRecommendationPriceSources(t *testing.T) {
	req := baseRequest()
	req.FinancialUrgency = UrgencyLow

	nearest := price.Record{Market: "Khanna", ModalPrice: 2000}
	rec := defaultRecommendation(req, &price.Insights{
		DataSource: price.SourceMarketData,
		Summary:    price.Summary{RegionalAverage: 2133, NearestMarket: &nearest},
	})
	if rec.MarketSummary.CurrentPrice != 2133 || rec.MarketSummary.Market != "Khanna" {
		t.Fatalf("market data not used: %+v", rec.MarketSummary)
	}
	want := 2133 * 1.05
	if rec.Recommendation.TargetPrice != want {
		t.Fatalf("target = %.2f, want %.2f", rec.Recommendation.TargetPrice, want)
	}

	rec = defaultRecommendation(req, &price.Insights{
		DataSource: price.SourceAIEstimate,
		Estimate:   &price.Estimate{ModalPrice: 1900, Trend: "falling"},
	})
	if rec.MarketSummary.CurrentPrice != 1900 || rec.MarketSummary.Trend != "falling" {
		t.Fatalf("estimate not used: %+v", rec.MarketSummary)
	}

	rec = defaultRecommendation(req, nil)
	if rec.MarketSummary.CurrentPrice != 0 || rec.MarketSummary.Market != "local mandi" {
		t.Fatalf("nil insights must zero the summary: %+v", rec.MarketSummary)
	}
	if rec.Recommendation.TargetPrice != 0 {
		t.Fatalf("no price data means no target markup, got %.2f", rec.Recommendation.TargetPrice)
	}
}

func TestDeriveSentiment(t *testing.T) {
	cases := []struct {
		analysis string
		want     string
	}{
		{"Prices are rising and demand is strong.", "positive"},
		{"Arrivals caused a glut and prices are falling.", "negative"},
		{"Markets traded sideways this week.", "neutral"},
		// "supply" must not match the keyword "up".
		{"Supply was steady.", "neutral"},
		{"", "neutral"},
	}
	for _, tc := range cases {
		if got := deriveSentiment(tc.analysis); got != tc.want {
			t.Errorf("deriveSentiment(%q) = %q, want %q", tc.analysis, got, tc.want)
		}
	}
}
