package agent

import (
	"fmt"
	"strings"

	"github.com/agrimandi/advisor/internal/agent/price"
	"github.com/agrimandi/advisor/internal/agent/search"
	"github.com/agrimandi/advisor/internal/agent/weather"
	"github.com/agrimandi/advisor/internal/locale"
)

// notAvailable is the literal placeholder embedded in the synthesis
// prompt for any agent that failed; the prompt structure is identical
// regardless of which subset succeeded.
const notAvailable = "data not available"

// buildSynthesisPrompt assembles the named sections into the final
// synthesis prompt. Each section builder is independent so tests can
// check presence or placeholder per agent.
func buildSynthesisPrompt(req AnalysisRequest, outputs AgentOutputs) string {
	sections := []string{
		"You are the senior market advisor for an Indian farmer. Combine the inputs below into one clear selling recommendation.",
		requestSection(req),
		"MANDI PRICE DATA:\n" + priceSection(outputs.Price),
		"NEWS ANALYSIS:\n" + newsSection(outputs.News),
		"WEATHER IMPACT:\n" + weatherSection(outputs.Weather),
		"MARKET INTELLIGENCE:\n" + searchSection(outputs.Search),
		schemaSection(req),
	}
	return strings.Join(sections, "\n\n")
}

func requestSection(req AnalysisRequest) string {
	return fmt.Sprintf(`FARMER CONTEXT:
Crop: %s
Location: %s
Quantity: %.0f quintals
Quality grade: %s
Storage capacity: %.0f quintals
Financial urgency: %s`,
		req.CropType, req.Location, req.Quantity, req.Quality, req.StorageCapacity, req.FinancialUrgency)
}

func priceSection(insights *price.Insights) string {
	if insights == nil {
		return notAvailable
	}
	switch insights.DataSource {
	case price.SourceMarketData:
		s := insights.Summary
		var b strings.Builder
		fmt.Fprintf(&b, "Source: live mandi records (%d markets)\n", len(insights.Records))
		fmt.Fprintf(&b, "Regional average modal price: ₹%.0f/quintal\n", s.RegionalAverage)
		if s.RegionalHigh != nil {
			fmt.Fprintf(&b, "Highest: ₹%.0f at %s\n", s.RegionalHigh.ModalPrice, s.RegionalHigh.Market)
		}
		if s.RegionalLow != nil {
			fmt.Fprintf(&b, "Lowest: ₹%.0f at %s\n", s.RegionalLow.ModalPrice, s.RegionalLow.Market)
		}
		if s.NearestMarket != nil {
			fmt.Fprintf(&b, "Nearest market: %s at ₹%.0f\n", s.NearestMarket.Market, s.NearestMarket.ModalPrice)
		}
		fmt.Fprintf(&b, "Price variation: %.1f%% (%s)\n", s.VariationPct, s.VariationLevel)
		fmt.Fprintf(&b, "Guidance: %s", insights.Guidance.TimingAdvice)
		return b.String()
	case price.SourceAIEstimate:
		e := insights.Estimate
		if e == nil {
			return notAvailable
		}
		return fmt.Sprintf("Source: model estimate (no mandi records for the region)\nEstimated modal price: ₹%.0f/quintal (range ₹%.0f-%.0f)\nTrend: %s, confidence: %s\nRationale: %s",
			e.ModalPrice, e.MinPrice, e.MaxPrice, e.Trend, e.Confidence, e.Rationale)
	default:
		return notAvailable
	}
}

func newsSection(out *NewsOutput) string {
	if out == nil {
		return notAvailable
	}
	return fmt.Sprintf("Sentiment: %s (%d articles)\n%s", out.Sentiment, out.TotalArticles, out.Analysis)
}

func weatherSection(outlook *weather.Outlook) string {
	if outlook == nil {
		return notAvailable
	}
	return fmt.Sprintf("Conditions: %s, %.0f°C, humidity %.0f%%, rainfall %.0fmm\nRisk level: %s\n%s",
		outlook.Climate.Condition, outlook.Climate.Temperature, outlook.Climate.Humidity,
		outlook.Climate.RainfallMm, outlook.RiskLevel, outlook.Analysis)
}

func searchSection(briefing *search.Briefing) string {
	if briefing == nil {
		return notAvailable
	}
	return briefing.Content
}

func schemaSection(req AnalysisRequest) string {
	return fmt.Sprintf(`Write all free-text fields in %s.
Respond ONLY with valid JSON in exactly this shape, no other text:
{
  "crop": "%s",
  "location": "%s",
  "marketSummary": {"currentPrice": 0, "market": "", "trend": "rising|stable|falling"},
  "recommendation": {"action": "SELL_NOW|WAIT_AND_MONITOR|GRADUAL_SELLING", "targetPrice": 0, "timing": "", "reasoning": "", "confidence": "low|medium|high"},
  "keyFactors": [""],
  "scenarios": {"optimistic": "", "expected": "", "pessimistic": ""},
  "actionPlan": {"immediateSteps": [""], "monitoring": [""], "triggers": [""]},
  "riskFactors": [""],
  "summary": ""
}`, locale.Name(req.Language), req.CropType, req.Location)
}

// defaultRecommendation computes a complete recommendation directly from
// whatever numeric price data is on hand. This path is unconditional: it
// cannot fail on missing or malformed upstream data.
func defaultRecommendation(req AnalysisRequest, insights *price.Insights) MarketRecommendation {
	currentPrice := 0.0
	market := "local mandi"
	trend := "stable"
	if insights != nil {
		switch insights.DataSource {
		case price.SourceMarketData:
			currentPrice = insights.Summary.RegionalAverage
			if insights.Summary.NearestMarket != nil {
				market = insights.Summary.NearestMarket.Market
			}
		case price.SourceAIEstimate:
			if insights.Estimate != nil {
				currentPrice = insights.Estimate.ModalPrice
				if insights.Estimate.Trend != "" {
					trend = insights.Estimate.Trend
				}
			}
		}
	}

	var action Action
	var timing, reasoning string
	switch req.FinancialUrgency {
	case UrgencyHigh:
		action = ActionSellNow
		timing = "within the next few days"
		reasoning = "High financial urgency outweighs the potential upside of waiting; selling promptly secures cash flow at current rates."
	case UrgencyLow:
		action = ActionGradualSelling
		timing = "in staged lots over the coming weeks"
		reasoning = "With no cash pressure, selling in lots averages out price swings and keeps upside open if rates improve."
	default:
		action = ActionWaitAndMonitor
		timing = "review within one to two weeks"
		reasoning = "Moderate urgency allows waiting for clearer price direction while keeping a sell trigger ready."
	}

	targetPrice := currentPrice
	if action != ActionSellNow && currentPrice > 0 {
		targetPrice = currentPrice * 1.05
	}

	return MarketRecommendation{
		Crop:     req.CropType,
		Location: req.Location,
		MarketSummary: MarketSummary{
			CurrentPrice: currentPrice,
			Market:       market,
			Trend:        trend,
		},
		Recommendation: Recommendation{
			Action:      action,
			TargetPrice: targetPrice,
			Timing:      timing,
			Reasoning:   reasoning,
			Confidence:  "low",
		},
		KeyFactors: []string{
			"financial urgency: " + string(req.FinancialUrgency),
			"available price data",
			"storage capacity relative to quantity",
		},
		Scenarios: Scenarios{
			Optimistic:  "Prices firm up over the coming weeks and patient sellers gain a few percent.",
			Expected:    "Prices hold near current levels with normal day-to-day movement.",
			Pessimistic: "Heavier arrivals push prices down and early sellers come out ahead.",
		},
		ActionPlan: ActionPlan{
			ImmediateSteps: []string{
				"Confirm today's modal price at your nearest mandi",
				"Grade and weigh the produce before transport",
			},
			Monitoring: []string{
				"Daily modal prices at two or three nearby mandis",
				"District weather bulletin",
			},
			Triggers: []string{
				"Sell if the local modal price moves 5% above the current level",
				"Re-plan if storage conditions deteriorate",
			},
		},
		RiskFactors: []string{
			"Price data may lag same-day mandi movement",
			"Local arrivals can shift prices faster than regional averages suggest",
		},
		Summary: fmt.Sprintf("Advisory for %s in %s generated from available price data; model synthesis was unavailable, so this is a conservative baseline plan.", req.CropType, req.Location),
	}
}

// deriveSentiment tags the news analysis text by keyword match. The news
// agent itself stays sentiment-free; this is an orchestrator concern.
func deriveSentiment(analysis string) string {
	text := strings.ToLower(analysis)
	positive := []string{"rising", "rise", "higher", "gain", "strong", "improve", "positive", "favourable", "favorable", "up"}
	negative := []string{"falling", "fall", "lower", "drop", "decline", "weak", "pressure", "negative", "down", "glut"}

	score := 0
	for _, kw := range positive {
		if containsWord(text, kw) {
			score++
		}
	}
	for _, kw := range negative {
		if containsWord(text, kw) {
			score--
		}
	}
	switch {
	case score > 0:
		return "positive"
	case score < 0:
		return "negative"
	default:
		return "neutral"
	}
}

// containsWord matches kw as a whole word to keep "up" from matching
// "supply".
func containsWord(text, kw string) bool {
	for _, field := range strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z')
	}) {
		if field == kw {
			return true
		}
	}
	return false
}
