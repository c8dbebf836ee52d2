// Package agent contains the master orchestrator: the concurrent fan-out
// to the four data-gathering agents, the synthesis of their settled
// results into one structured recommendation, and the deterministic
// fallback that guarantees a complete answer.
package agent

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agrimandi/advisor/internal/agent/news"
	"github.com/agrimandi/advisor/internal/agent/price"
	"github.com/agrimandi/advisor/internal/agent/search"
	"github.com/agrimandi/advisor/internal/agent/weather"
)

// ErrInvalidInput marks requests rejected before any fan-out begins; the
// only condition under which the response carries success=false.
var ErrInvalidInput = errors.New("invalid analysis request")

// Quality grades produce A (best) through C.
type Quality string

// Urgency captures how soon the farmer needs cash from the sale.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// AnalysisRequest is the caller's question. It is immutable once defaults
// are applied and is passed by value to every agent.
type AnalysisRequest struct {
	CropType         string  `json:"cropType"`
	Location         string  `json:"location"`
	Quantity         float64 `json:"quantity"`
	Quality          Quality `json:"quality"`
	StorageCapacity  float64 `json:"storageCapacity"`
	FinancialUrgency Urgency `json:"financialUrgency"`
	Language         string  `json:"language"`
}

// Validate checks the required fields. Must be called before fan-out.
func (r AnalysisRequest) Validate() error {
	if strings.TrimSpace(r.CropType) == "" {
		return fmt.Errorf("%w: cropType is required", ErrInvalidInput)
	}
	if strings.TrimSpace(r.Location) == "" {
		return fmt.Errorf("%w: location is required", ErrInvalidInput)
	}
	return nil
}

// ApplyDefaults fills the optional fields.
func (r *AnalysisRequest) ApplyDefaults() {
	if r.Quantity <= 0 {
		r.Quantity = 10
	}
	if r.Quality == "" {
		r.Quality = "B"
	}
	if r.StorageCapacity <= 0 {
		r.StorageCapacity = 20
	}
	if r.FinancialUrgency == "" {
		r.FinancialUrgency = UrgencyMedium
	}
	if r.Language == "" {
		r.Language = "en"
	}
}

// Agent names, also the order of the fixed fan-out slots.
const (
	AgentPrice   = "price"
	AgentNews    = "news"
	AgentWeather = "weather"
	AgentSearch  = "search"
)

// agentNames lists all four agents in slot order.
var agentNames = [4]string{AgentPrice, AgentNews, AgentWeather, AgentSearch}

// AgentStatus is the terminal state of one agent task.
type AgentStatus string

const (
	StatusSucceeded AgentStatus = "SUCCEEDED"
	StatusFailed    AgentStatus = "FAILED"
)

// AgentOutcome is the tagged, terminal result of one agent task. Exactly
// one of Payload or Err is set; once written to its slot it is never
// touched again.
type AgentOutcome struct {
	Agent   string
	Status  AgentStatus
	Payload any
	Err     error
}

// AgentError is the diagnostic entry for a failed agent.
type AgentError struct {
	Agent   string `json:"agent"`
	Message string `json:"message"`
}

// Action is the recommended selling strategy.
type Action string

const (
	ActionSellNow        Action = "SELL_NOW"
	ActionWaitAndMonitor Action = "WAIT_AND_MONITOR"
	ActionGradualSelling Action = "GRADUAL_SELLING"
)

// Confidence grades the recommendation.
type Confidence string

// MarketSummary describes current market conditions for the crop.
type MarketSummary struct {
	CurrentPrice float64 `json:"currentPrice"`
	Market       string  `json:"market"`
	Trend        string  `json:"trend"`
}

// Recommendation is the core advice block.
type Recommendation struct {
	Action      Action     `json:"action"`
	TargetPrice float64    `json:"targetPrice"`
	Timing      string     `json:"timing"`
	Reasoning   string     `json:"reasoning"`
	Confidence  Confidence `json:"confidence"`
}

// Scenarios sketches how the market could move.
type Scenarios struct {
	Optimistic  string `json:"optimistic"`
	Expected    string `json:"expected"`
	Pessimistic string `json:"pessimistic"`
}

// ActionPlan lists what to do now, what to watch, and what changes the plan.
type ActionPlan struct {
	ImmediateSteps []string `json:"immediateSteps"`
	Monitoring     []string `json:"monitoring"`
	Triggers       []string `json:"triggers"`
}

// MarketRecommendation is the final structured advice. It is always fully
// populated, either model-derived or deterministically defaulted; consumers
// never need field-by-field nil checks.
type MarketRecommendation struct {
	Crop           string         `json:"crop"`
	Location       string         `json:"location"`
	MarketSummary  MarketSummary  `json:"marketSummary"`
	Recommendation Recommendation `json:"recommendation"`
	KeyFactors     []string       `json:"keyFactors"`
	Scenarios      Scenarios      `json:"scenarios"`
	ActionPlan     ActionPlan     `json:"actionPlan"`
	RiskFactors    []string       `json:"riskFactors"`
	Summary        string         `json:"summary"`
}

// complete reports whether every required field a consumer relies on is
// populated; an incomplete model reply triggers the deterministic default.
func (m *MarketRecommendation) complete() bool {
	switch m.Recommendation.Action {
	case ActionSellNow, ActionWaitAndMonitor, ActionGradualSelling:
	default:
		return false
	}
	return m.Crop != "" &&
		m.Location != "" &&
		m.Recommendation.Reasoning != "" &&
		m.Recommendation.Confidence != "" &&
		len(m.KeyFactors) > 0 &&
		m.Scenarios.Expected != "" &&
		len(m.ActionPlan.ImmediateSteps) > 0 &&
		m.Summary != ""
}

// AgentOutputs carries each agent's payload; a nil field means that agent
// failed.
type AgentOutputs struct {
	Price   *price.Insights   `json:"price,omitempty"`
	News    *NewsOutput       `json:"news,omitempty"`
	Weather *weather.Outlook  `json:"weather,omitempty"`
	Search  *search.Briefing  `json:"search,omitempty"`
}

// NewsOutput is the news report plus the orchestrator-derived sentiment.
type NewsOutput struct {
	*news.Report
	Sentiment string `json:"sentiment"`
}

// AnalysisData is the payload of a successful response.
type AnalysisData struct {
	Recommendation MarketRecommendation `json:"recommendation"`
	AgentOutputs   AgentOutputs         `json:"agentOutputs"`
}

// Metadata describes how the response was produced.
type Metadata struct {
	ProcessingTimeMs int64        `json:"processingTimeMs"`
	AgentsRun        []string     `json:"agentsRun"`
	ErrorsCount      int          `json:"errorsCount"`
	Errors           []AgentError `json:"errors,omitempty"`
}

// AnalysisResponse is created once per request and never mutated after
// return.
type AnalysisResponse struct {
	Success  bool         `json:"success"`
	Data     AnalysisData `json:"data"`
	Metadata Metadata     `json:"metadata"`
}
