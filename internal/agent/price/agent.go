// Package price gathers mandi price records for a commodity and turns
// them into regional insights. The agent resolves data through a tiered
// chain: exact filtered query, broad same-state query, model-estimated
// price, deterministic default. It never returns an error to its caller.
package price

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/agrimandi/advisor/internal/llm"
	"github.com/agrimandi/advisor/internal/locale"
)

// DataSource tags which tier produced the insights.
type DataSource string

const (
	SourceMarketData DataSource = "MARKET_DATA"
	SourceAIEstimate DataSource = "AI_ESTIMATE"
	SourceDefault    DataSource = "DEFAULT"
)

// arbitrageThreshold is the modal price gap (₹/quintal) between the best
// market and the nearest market above which moving produce is worth it.
const arbitrageThreshold = 100

// Summary holds regional price analytics derived from real records.
type Summary struct {
	NearestMarket   *Record `json:"nearestMarket,omitempty"`
	RegionalHigh    *Record `json:"regionalHigh,omitempty"`
	RegionalLow     *Record `json:"regionalLow,omitempty"`
	RegionalAverage float64 `json:"regionalAverage"`
	VariationPct    float64 `json:"variationPct"`
	VariationLevel  string  `json:"variationLevel,omitempty"`
}

// Guidance is the actionable advice derived from the insights.
type Guidance struct {
	BestMarket     string  `json:"bestMarket"`
	PriceAdvantage float64 `json:"priceAdvantage"`
	Arbitrage      bool    `json:"arbitrage"`
	TimingAdvice   string  `json:"timingAdvice"`
}

// Estimate is the model-estimated price block used when no market data
// is available for the requested region.
type Estimate struct {
	ModalPrice    float64  `json:"modalPrice"`
	MinPrice      float64  `json:"minPrice"`
	MaxPrice      float64  `json:"maxPrice"`
	Trend         string   `json:"trend"`
	Confidence    string   `json:"confidence"`
	SellingAdvice string   `json:"sellingAdvice"`
	Factors       []string `json:"factors"`
	Rationale     string   `json:"rationale"`
}

// Insights is the agent's complete output. DataSource always reflects the
// tier that produced it; Records is empty unless DataSource is MARKET_DATA.
type Insights struct {
	DataSource DataSource `json:"dataSource"`
	Records    []Record   `json:"records"`
	Summary    Summary    `json:"summary"`
	Estimate   *Estimate  `json:"estimate,omitempty"`
	Guidance   Guidance   `json:"guidance"`
	Disclaimer string     `json:"disclaimer,omitempty"`
}

// Query carries the request fields the price agent needs.
type Query struct {
	Crop     string
	Location string
	Language string
}

// Fetcher is the client contract, split out so tests can stub the
// upstream resource.
type Fetcher interface {
	FetchRecords(ctx context.Context, filters Filters) ([]Record, error)
}

// Agent orchestrates the price client, alias table and fallback chain.
type Agent struct {
	client Fetcher
	llm    llm.Provider
	logger *log.Logger
}

// NewAgent creates a price insights agent.
func NewAgent(client Fetcher, provider llm.Provider) *Agent {
	return &Agent{
		client: client,
		llm:    provider,
		logger: log.New(log.Writer(), "[PRICE-AGENT] ", log.LstdFlags),
	}
}

// Analyze resolves price insights for the query through the tier chain.
// The returned Insights are always complete; the error return exists for
// the agent contract but is always nil here since every tier has a
// deterministic floor.
func (a *Agent) Analyze(ctx context.Context, q Query) (*Insights, error) {
	canonical := CanonicalName(q.Crop)
	state := ResolveState(q.Location)

	// Tier 1: exact commodity + state filter.
	records, err := a.client.FetchRecords(ctx, Filters{Commodity: canonical, State: state})
	if err != nil {
		a.logger.Printf("exact query failed for %q in %q: %v", canonical, state, err)
	}
	if state != "" {
		// Enforce the region restriction locally as well; the upstream
		// filter is not trusted to be exact.
		records = matchState(records, state)
	}

	// Tier 2: broad search restricted to the same state, matching the
	// original (non-canonical) term against each record's commodity.
	// With no resolvable state the broad search spans all regions.
	if len(records) == 0 {
		broad, berr := a.client.FetchRecords(ctx, Filters{State: state})
		if berr != nil {
			a.logger.Printf("broad query failed for state %q: %v", state, berr)
		}
		if state != "" {
			broad = matchState(broad, state)
		}
		records = matchCommodity(broad, q.Crop)
	}

	if len(records) > 0 {
		return a.fromRecords(q, records), nil
	}

	// A location-specific request never gets another region's prices
	// substituted; zero in-state records means no market data at all.
	if state != "" {
		a.logger.Printf("no records for %q in state %q, estimating", q.Crop, state)
	} else {
		a.logger.Printf("no state resolved from %q and no records matched %q, estimating", q.Location, q.Crop)
	}

	est, eerr := a.estimate(ctx, q, state)
	if eerr != nil {
		a.logger.Printf("price estimate failed: %v", eerr)
		return a.defaultInsights(q), nil
	}
	return &Insights{
		DataSource: SourceAIEstimate,
		Records:    []Record{},
		Estimate:   est,
		Guidance: Guidance{
			TimingAdvice: est.SellingAdvice,
		},
	}, nil
}

// matchState keeps only records from the given state.
func matchState(records []Record, state string) []Record {
	var matched []Record
	for _, rec := range records {
		if strings.EqualFold(rec.State, state) {
			matched = append(matched, rec)
		}
	}
	return matched
}

// matchCommodity keeps records whose commodity field contains the user's
// original term, case-insensitively.
func matchCommodity(records []Record, term string) []Record {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	var matched []Record
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.Commodity), term) {
			matched = append(matched, rec)
		}
	}
	return matched
}

// fromRecords computes regional analytics over real market records.
func (a *Agent) fromRecords(q Query, records []Record) *Insights {
	var sum float64
	high, low := 0, 0
	for i, rec := range records {
		sum += rec.ModalPrice
		if rec.ModalPrice > records[high].ModalPrice {
			high = i
		}
		if rec.ModalPrice < records[low].ModalPrice {
			low = i
		}
	}
	avg := sum / float64(len(records))

	variation := 0.0
	if avg > 0 {
		variation = (records[high].ModalPrice - records[low].ModalPrice) / avg * 100
	}

	nearest := nearestMarket(q.Location, records)
	advantage := records[high].ModalPrice - nearest.ModalPrice

	insights := &Insights{
		DataSource: SourceMarketData,
		Records:    records,
		Summary: Summary{
			NearestMarket:   nearest,
			RegionalHigh:    recordAt(records, high),
			RegionalLow:     recordAt(records, low),
			RegionalAverage: avg,
			VariationPct:    variation,
			VariationLevel:  variationLevel(variation),
		},
		Guidance: Guidance{
			BestMarket:     records[high].Market,
			PriceAdvantage: advantage,
			Arbitrage:      advantage > arbitrageThreshold,
		},
	}
	insights.Guidance.TimingAdvice = timingAdvice(insights)
	return insights
}

// nearestMarket picks the record whose market or district overlaps the
// request location; falls back to the first record.
func nearestMarket(location string, records []Record) *Record {
	loc := strings.ToLower(location)
	for i, rec := range records {
		market := strings.ToLower(rec.Market)
		district := strings.ToLower(rec.District)
		if (market != "" && strings.Contains(loc, market)) ||
			(district != "" && strings.Contains(loc, district)) {
			return &records[i]
		}
	}
	return &records[0]
}

func recordAt(records []Record, i int) *Record {
	return &records[i]
}

func variationLevel(pct float64) string {
	switch {
	case pct < 5:
		return "low"
	case pct < 15:
		return "moderate"
	default:
		return "high"
	}
}

func timingAdvice(in *Insights) string {
	switch {
	case in.Guidance.Arbitrage:
		return fmt.Sprintf("Selling at %s offers about ₹%.0f/quintal over your nearest mandi; worth transporting if logistics allow.",
			in.Guidance.BestMarket, in.Guidance.PriceAdvantage)
	case in.Summary.VariationLevel == "high":
		return "Prices vary widely across mandis in your region; compare a few markets before committing."
	case in.Summary.VariationLevel == "low":
		return "Prices are steady across nearby mandis; sell at whichever market is most convenient."
	default:
		return "Moderate spread across mandis; your nearest market is a reasonable choice unless the gap widens."
	}
}

// estimate asks the model for a price estimate as strict JSON when no
// market data exists for the requested region.
func (a *Agent) estimate(ctx context.Context, q Query, state string) (*Estimate, error) {
	region := q.Location
	if state != "" {
		region = state
	}
	scope := ""
	if state != "" {
		scope = fmt.Sprintf(" The official mandi feed had no records for %s in %s today, so estimate from typical seasonal levels.", q.Crop, state)
	}

	prompt := fmt.Sprintf(`You are an Indian agricultural market analyst. Estimate the current wholesale mandi price for %s in %s, in INR per quintal.%s
Write the sellingAdvice and rationale fields in %s.
Respond ONLY with valid JSON in exactly this shape, no other text:
{
  "modalPrice": 0,
  "minPrice": 0,
  "maxPrice": 0,
  "trend": "rising|stable|falling",
  "confidence": "low|medium|high",
  "sellingAdvice": "",
  "factors": [""],
  "rationale": ""
}`, q.Crop, region, scope, locale.Name(q.Language))

	var est Estimate
	if err := llm.GenerateJSON(ctx, a.llm, prompt, &est); err != nil {
		return nil, err
	}
	if est.ModalPrice <= 0 {
		return nil, fmt.Errorf("estimate missing modal price")
	}
	return &est, nil
}

// defaultInsights is the total-failure floor: zero-value fields plus an
// explicit disclaimer.
func (a *Agent) defaultInsights(q Query) *Insights {
	return &Insights{
		DataSource: SourceDefault,
		Records:    []Record{},
		Guidance: Guidance{
			TimingAdvice: "Check your local mandi board for today's rates before selling.",
		},
		Disclaimer: fmt.Sprintf("No market data or estimate is currently available for %s in %s; figures are placeholders.", q.Crop, q.Location),
	}
}
