package news

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agrimandi/advisor/config"
)

type fakeLLM struct {
	reply string
	err   error
}

func (f fakeLLM) Generate(_ context.Context, _ string) (string, error) {
	return f.reply, f.err
}

func TestFetchNewsNoKeyServesMocks(t *testing.T) {
	agent := NewAgent(config.NewsAPIConfig{}, fakeLLM{})

	articles := agent.FetchNews(context.Background())
	if len(articles) != 5 {
		t.Fatalf("expected 5 mock articles, got %d", len(articles))
	}
	for i, art := range articles {
		if art.Title == "" || art.Source == "" {
			t.Fatalf("mock article %d incomplete: %+v", i, art)
		}
	}
}

func TestFetchNewsUpstreamErrorServesMocks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	agent := NewAgent(config.NewsAPIConfig{APIKey: "k", Endpoint: srv.URL}, fakeLLM{})
	articles := agent.FetchNews(context.Background())
	if len(articles) != 5 {
		t.Fatalf("upstream 502 must degrade to mocks, got %d articles", len(articles))
	}
}

func TestFetchNewsTimeoutServesMocks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"status":"ok","articles":[]}`))
	}))
	defer srv.Close()

	agent := NewAgent(config.NewsAPIConfig{APIKey: "k", Endpoint: srv.URL, Timeout: 20 * time.Millisecond}, fakeLLM{})
	articles := agent.FetchNews(context.Background())
	if len(articles) != 5 {
		t.Fatalf("timeout must degrade to mocks, got %d articles", len(articles))
	}
}

func TestFetchNewsParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apiKey") != "k" {
			t.Errorf("missing apiKey param")
		}
		if r.URL.Query().Get("q") == "" {
			t.Errorf("missing query param")
		}
		w.Write([]byte(`{"status":"ok","articles":[
			{"source":{"name":"Wire"},"title":"Mandi prices firm","description":"d","url":"https://example.com/a","publishedAt":"2025-05-20T10:00:00Z"}
		]}`))
	}))
	defer srv.Close()

	agent := NewAgent(config.NewsAPIConfig{APIKey: "k", Endpoint: srv.URL}, fakeLLM{})
	articles := agent.FetchNews(context.Background())
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	if articles[0].Source != "Wire" || articles[0].Title != "Mandi prices firm" {
		t.Fatalf("unexpected article: %+v", articles[0])
	}
}

func TestAnalyzeNewsFallback(t *testing.T) {
	agent := NewAgent(config.NewsAPIConfig{}, fakeLLM{err: errors.New("model down")})

	analysis := agent.AnalyzeNews(context.Background(), mockArticles(), "en")
	if analysis != fallbackAnalysis {
		t.Fatalf("expected fallback analysis, got %q", analysis)
	}

	agent = NewAgent(config.NewsAPIConfig{}, fakeLLM{reply: "   "})
	if got := agent.AnalyzeNews(context.Background(), mockArticles(), "en"); got != fallbackAnalysis {
		t.Fatalf("blank reply must fall back, got %q", got)
	}
}

func TestRunNeverFails(t *testing.T) {
	agent := NewAgent(config.NewsAPIConfig{}, fakeLLM{reply: "Trends.\n\nImplications.\n\nActions."})

	report, err := agent.Run(context.Background(), "en")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.TotalArticles != len(report.Articles) {
		t.Fatalf("totalArticles %d != len(articles) %d", report.TotalArticles, len(report.Articles))
	}
	if report.Analysis == "" || report.Timestamp.IsZero() {
		t.Fatalf("incomplete report: %+v", report)
	}
}
