package agent

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/agrimandi/advisor/config"
	"github.com/agrimandi/advisor/internal/agent/news"
	"github.com/agrimandi/advisor/internal/agent/price"
	"github.com/agrimandi/advisor/internal/agent/search"
	"github.com/agrimandi/advisor/internal/agent/weather"
	"github.com/agrimandi/advisor/internal/llm"
	"github.com/agrimandi/advisor/internal/telemetry"
)

// Runner contracts for the four agents, split out so tests can force
// individual agents to fail or return canned payloads.
type priceRunner interface {
	Analyze(ctx context.Context, q price.Query) (*price.Insights, error)
}

type newsRunner interface {
	Run(ctx context.Context, language string) (*news.Report, error)
}

type weatherRunner interface {
	Run(ctx context.Context, crop, location, language string) (*weather.Outlook, error)
}

type searchRunner interface {
	Run(ctx context.Context, crop, location, language string) (*search.Briefing, error)
}

// Orchestrator fans a request out to the four agents, joins their settled
// results and synthesizes the final recommendation.
type Orchestrator struct {
	logger    *log.Logger
	telemetry *telemetry.Telemetry
	llm       llm.Provider

	price   priceRunner
	news    newsRunner
	weather weatherRunner
	search  searchRunner
}

// NewOrchestrator wires the real agents from configuration.
func NewOrchestrator(cfg *config.Config, logger *log.Logger, tele *telemetry.Telemetry) (*Orchestrator, error) {
	provider, err := llm.NewProvider(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}

	var cache price.Cache
	if cfg.Cache.Redis.Host != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		cache = price.NewRedisCache(rdb, cfg.Cache.TTL)
	} else {
		cache = price.NewMemoryCache(cfg.Cache.TTL)
	}

	return &Orchestrator{
		logger:    logger,
		telemetry: tele,
		llm:       provider,
		price:     price.NewAgent(price.NewClient(cfg.Sources.MandiAPI, cache), provider),
		news:      news.NewAgent(cfg.Sources.NewsAPI, provider),
		weather:   weather.NewAgent(provider),
		search:    search.NewAgent(provider),
	}, nil
}

// Analyze runs the full pipeline for one request. For any valid request
// it returns a response with Success=true and a fully populated
// recommendation, regardless of how many upstreams failed; the error
// return is non-nil only for invalid input.
func (o *Orchestrator) Analyze(ctx context.Context, req AnalysisRequest) (AnalysisResponse, error) {
	startTime := time.Now()

	if err := req.Validate(); err != nil {
		o.telemetry.RecordInvalidInput()
		return AnalysisResponse{}, err
	}
	req.ApplyDefaults()

	requestID := uuid.New().String()
	o.logger.Printf("[%s] analyzing %s in %q (urgency=%s)", requestID, req.CropType, req.Location, req.FinancialUrgency)

	outcomes := o.fanOut(ctx, req)

	var agentErrors []AgentError
	for _, outcome := range outcomes {
		if outcome.Status == StatusFailed {
			o.logger.Printf("[%s] agent %s failed: %v", requestID, outcome.Agent, outcome.Err)
			o.telemetry.RecordAgentFailure(outcome.Agent)
			agentErrors = append(agentErrors, AgentError{Agent: outcome.Agent, Message: outcome.Err.Error()})
		}
	}

	outputs := collectOutputs(outcomes)
	if outputs.Price != nil {
		o.telemetry.RecordPriceSource(string(outputs.Price.DataSource))
	}

	recommendation := o.synthesize(ctx, req, outputs)

	elapsed := time.Since(startTime)
	o.telemetry.RecordRequest(elapsed)
	o.logger.Printf("[%s] completed in %v with %d agent error(s)", requestID, elapsed, len(agentErrors))

	return AnalysisResponse{
		Success: true,
		Data: AnalysisData{
			Recommendation: recommendation,
			AgentOutputs:   outputs,
		},
		Metadata: Metadata{
			ProcessingTimeMs: elapsed.Milliseconds(),
			AgentsRun:        agentNames[:],
			ErrorsCount:      len(agentErrors),
			Errors:           agentErrors,
		},
	}, nil
}

// fanOut launches all four agent tasks together and waits for every one
// of them to settle. Each task owns one slot of the fixed-size outcome
// array, so concurrent writes need no locking.
func (o *Orchestrator) fanOut(ctx context.Context, req AnalysisRequest) [4]AgentOutcome {
	var outcomes [4]AgentOutcome
	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		outcomes[0] = settle(AgentPrice, func() (any, error) {
			return o.price.Analyze(ctx, price.Query{Crop: req.CropType, Location: req.Location, Language: req.Language})
		})
	}()
	go func() {
		defer wg.Done()
		outcomes[1] = settle(AgentNews, func() (any, error) {
			return o.news.Run(ctx, req.Language)
		})
	}()
	go func() {
		defer wg.Done()
		outcomes[2] = settle(AgentWeather, func() (any, error) {
			return o.weather.Run(ctx, req.CropType, req.Location, req.Language)
		})
	}()
	go func() {
		defer wg.Done()
		outcomes[3] = settle(AgentSearch, func() (any, error) {
			return o.search.Run(ctx, req.CropType, req.Location, req.Language)
		})
	}()

	wg.Wait()
	return outcomes
}

// settle converts one agent call into a terminal tagged outcome. A panic
// inside an agent settles as FAILED rather than tearing down the request.
func settle(name string, fn func() (any, error)) (outcome AgentOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = AgentOutcome{Agent: name, Status: StatusFailed, Err: fmt.Errorf("agent panicked: %v", r)}
		}
	}()
	payload, err := fn()
	if err != nil {
		return AgentOutcome{Agent: name, Status: StatusFailed, Err: err}
	}
	return AgentOutcome{Agent: name, Status: StatusSucceeded, Payload: payload}
}

// collectOutputs unpacks the settled outcomes into typed agent outputs.
// Failed agents leave their field nil. News sentiment is derived here,
// not in the news agent.
func collectOutputs(outcomes [4]AgentOutcome) AgentOutputs {
	var outputs AgentOutputs
	if insights, ok := outcomes[0].Payload.(*price.Insights); ok {
		outputs.Price = insights
	}
	if report, ok := outcomes[1].Payload.(*news.Report); ok {
		outputs.News = &NewsOutput{Report: report, Sentiment: deriveSentiment(report.Analysis)}
	}
	if outlook, ok := outcomes[2].Payload.(*weather.Outlook); ok {
		outputs.Weather = outlook
	}
	if briefing, ok := outcomes[3].Payload.(*search.Briefing); ok {
		outputs.Search = briefing
	}
	return outputs
}

// synthesize builds the synthesis prompt from whatever succeeded, asks
// the model for the final recommendation, and falls back to the
// deterministic default when the model output is unusable. This method
// cannot fail.
func (o *Orchestrator) synthesize(ctx context.Context, req AnalysisRequest, outputs AgentOutputs) MarketRecommendation {
	prompt := buildSynthesisPrompt(req, outputs)

	var rec MarketRecommendation
	if err := llm.GenerateJSON(ctx, o.llm, prompt, &rec); err == nil {
		if rec.Crop == "" {
			rec.Crop = req.CropType
		}
		if rec.Location == "" {
			rec.Location = req.Location
		}
		if rec.complete() {
			return rec
		}
		o.logger.Printf("synthesis output incomplete, using deterministic recommendation")
	} else {
		o.logger.Printf("synthesis failed, using deterministic recommendation: %v", err)
	}

	o.telemetry.RecordSynthesisFallback()
	return defaultRecommendation(req, outputs.Price)
}
