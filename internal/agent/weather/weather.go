// Package weather combines a deterministic regional climate lookup with
// a model-written narrative. The numeric values always come from the
// climate table; only the narrative is generative, and it has a
// threshold-driven deterministic substitute.
package weather

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/agrimandi/advisor/internal/llm"
	"github.com/agrimandi/advisor/internal/locale"
)

// Climate holds the deterministic regional values for a location.
type Climate struct {
	Temperature float64 `json:"temperature"` // °C
	Humidity    float64 `json:"humidity"`    // %
	RainfallMm  float64 `json:"rainfallMm"`
	Condition   string  `json:"condition"`
}

// Outlook is the agent's complete output; every field is always populated.
type Outlook struct {
	Climate         Climate  `json:"climate"`
	Analysis        string   `json:"analysis"`
	Recommendations []string `json:"recommendations"`
	RiskLevel       string   `json:"riskLevel"`
	OptimalActions  []string `json:"optimalActions"`
}

// regionalClimate is the fixed climate table, keyed by region keywords
// matched as substrings against the location string.
var regionalClimate = []struct {
	keywords []string
	climate  Climate
}{
	{
		keywords: []string{"punjab", "haryana", "chandigarh"},
		climate:  Climate{Temperature: 28, Humidity: 55, RainfallMm: 20, Condition: "dry and warm"},
	},
	{
		keywords: []string{"rajasthan", "gujarat", "gujrat"},
		climate:  Climate{Temperature: 34, Humidity: 35, RainfallMm: 5, Condition: "hot and arid"},
	},
	{
		keywords: []string{"maharashtra", "madhya pradesh", "chhattisgarh"},
		climate:  Climate{Temperature: 31, Humidity: 60, RainfallMm: 40, Condition: "warm with scattered showers"},
	},
	{
		keywords: []string{"kerala", "karnataka", "tamil nadu", "goa"},
		climate:  Climate{Temperature: 29, Humidity: 78, RainfallMm: 90, Condition: "humid with frequent rain"},
	},
	{
		keywords: []string{"west bengal", "odisha", "assam", "bihar", "jharkhand"},
		climate:  Climate{Temperature: 30, Humidity: 75, RainfallMm: 70, Condition: "humid and rainy"},
	},
	{
		keywords: []string{"uttar pradesh", "uttarakhand", "delhi"},
		climate:  Climate{Temperature: 30, Humidity: 58, RainfallMm: 30, Condition: "warm with occasional rain"},
	},
	{
		keywords: []string{"himachal", "jammu", "kashmir", "sikkim", "arunachal"},
		climate:  Climate{Temperature: 18, Humidity: 65, RainfallMm: 45, Condition: "cool hill climate"},
	},
	{
		keywords: []string{"andhra", "telangana"},
		climate:  Climate{Temperature: 32, Humidity: 62, RainfallMm: 35, Condition: "hot with humid spells"},
	},
}

// defaultClimate is used when no region matches.
var defaultClimate = Climate{Temperature: 28, Humidity: 60, RainfallMm: 30, Condition: "moderate"}

// LookupClimate resolves the deterministic climate for a location by
// substring match against the regional table.
func LookupClimate(location string) Climate {
	loc := strings.ToLower(location)
	for _, region := range regionalClimate {
		for _, kw := range region.keywords {
			if strings.Contains(loc, kw) {
				return region.climate
			}
		}
	}
	return defaultClimate
}

// Agent produces the weather impact outlook.
type Agent struct {
	llm    llm.Provider
	logger *log.Logger
}

// NewAgent creates a weather agent.
func NewAgent(provider llm.Provider) *Agent {
	return &Agent{
		llm:    provider,
		logger: log.New(log.Writer(), "[WEATHER-AGENT] ", log.LstdFlags),
	}
}

// Run builds the outlook for a crop at a location. The climate numbers
// are deterministic; the narrative comes from the model with a
// deterministic substitute on failure.
func (a *Agent) Run(ctx context.Context, crop, location, language string) (*Outlook, error) {
	climate := LookupClimate(location)

	prompt := fmt.Sprintf(`You are an agronomist advising an Indian farmer growing %s near %s. Current regional conditions: temperature %.0f°C, humidity %.0f%%, recent rainfall %.0fmm, overall %s.
Write the analysis and recommendations in %s.
Respond ONLY with valid JSON in exactly this shape, no other text:
{
  "analysis": "3-4 paragraphs on how these conditions affect the crop and its storage/transport",
  "recommendations": ["", "", "", ""],
  "riskLevel": "low|medium|high",
  "optimalActions": [""]
}`, crop, location, climate.Temperature, climate.Humidity, climate.RainfallMm, climate.Condition, locale.Name(language))

	var generated struct {
		Analysis        string   `json:"analysis"`
		Recommendations []string `json:"recommendations"`
		RiskLevel       string   `json:"riskLevel"`
		OptimalActions  []string `json:"optimalActions"`
	}
	if err := llm.GenerateJSON(ctx, a.llm, prompt, &generated); err != nil {
		a.logger.Printf("weather narrative failed, using deterministic outlook: %v", err)
		return deterministicOutlook(crop, climate), nil
	}
	out := &Outlook{
		Climate:         climate,
		Analysis:        generated.Analysis,
		Recommendations: generated.Recommendations,
		RiskLevel:       generated.RiskLevel,
		OptimalActions:  generated.OptimalActions,
	}
	fillOutlookGaps(out, crop, climate)
	return out, nil
}

// deterministicOutlook derives a complete outlook from the climate values
// alone, with temperature and rainfall thresholds driving the narrative.
func deterministicOutlook(crop string, climate Climate) *Outlook {
	risk := "low"
	var analysis, action string

	switch {
	case climate.Temperature >= 33:
		risk = "high"
		analysis = fmt.Sprintf("High temperatures around %.0f°C accelerate moisture loss in harvested %s and stress standing crop. Heat of this level also shortens the safe storage window for produce held without cooling. Plan field work and transport for early morning hours.", climate.Temperature, crop)
		action = "Move harvested produce to shade or ventilated storage the same day"
	case climate.RainfallMm >= 60:
		risk = "high"
		analysis = fmt.Sprintf("Heavy recent rainfall (%.0fmm) raises fungal and sprouting risk for %s, and wet approach roads can delay mandi transport. Moisture content above safe limits also attracts price deductions at procurement.", climate.RainfallMm, crop)
		action = "Dry produce to safe moisture levels before bagging"
	case climate.Humidity >= 70:
		risk = "medium"
		analysis = fmt.Sprintf("Humidity near %.0f%% favours mould in stored %s. Conditions are otherwise workable, but storage beyond a couple of weeks needs dry, ventilated space.", climate.Humidity, crop)
		action = "Inspect stored bags twice a week for damp patches"
	default:
		analysis = fmt.Sprintf("Conditions are %s with temperature around %.0f°C, favourable for handling and short-term storage of %s. No weather-driven urgency to sell.", climate.Condition, climate.Temperature, crop)
		action = "Proceed on market signals rather than weather pressure"
	}

	return &Outlook{
		Climate:  climate,
		Analysis: analysis,
		Recommendations: []string{
			"Check the district weather bulletin before fixing a transport date",
			"Keep produce off bare ground and under cover",
			"Confirm mandi arrival timings to avoid produce waiting in the open",
			"Use tarpaulins in transit regardless of the forecast",
		},
		RiskLevel:      risk,
		OptimalActions: []string{action},
	}
}

// fillOutlookGaps guarantees non-null fields even when the model returned
// a structurally valid but incomplete object.
func fillOutlookGaps(out *Outlook, crop string, climate Climate) {
	fallback := deterministicOutlook(crop, climate)
	if strings.TrimSpace(out.Analysis) == "" {
		out.Analysis = fallback.Analysis
	}
	if len(out.Recommendations) == 0 {
		out.Recommendations = fallback.Recommendations
	}
	if out.RiskLevel == "" {
		out.RiskLevel = fallback.RiskLevel
	}
	if len(out.OptimalActions) == 0 {
		out.OptimalActions = fallback.OptimalActions
	}
}
