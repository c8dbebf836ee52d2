// Package search answers a free-text market question with a single
// generative call. Output is prose, not JSON; formatting is lightly
// normalized. No retries: a failure yields a localized fallback message.
package search

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/agrimandi/advisor/internal/llm"
	"github.com/agrimandi/advisor/internal/locale"
)

// Briefing is the agent's output.
type Briefing struct {
	Query    string `json:"query"`
	Content  string `json:"content"`
	Language string `json:"language"`
}

// Agent issues the market intelligence call.
type Agent struct {
	llm    llm.Provider
	logger *log.Logger
}

// NewAgent creates a market intelligence agent.
func NewAgent(provider llm.Provider) *Agent {
	return &Agent{
		llm:    provider,
		logger: log.New(log.Writer(), "[SEARCH-AGENT] ", log.LstdFlags),
	}
}

// Run answers the market question for a crop and location.
func (a *Agent) Run(ctx context.Context, crop, location, language string) (*Briefing, error) {
	question := fmt.Sprintf("What is the current market situation for %s around %s?", crop, location)

	prompt := fmt.Sprintf(`You are a commodity market analyst. Answer the question below for an Indian farmer, entirely in %s.
Structure your answer as short sections in this order: a one-line title, the current wholesale price range in INR per quintal, a reference benchmark price, the main factors moving the price right now, practical selling advice, and a one-line closing note. Use plain text with one blank line between sections.

Question: %s`, locale.Name(language), question)

	content, err := a.llm.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(content) == "" {
		a.logger.Printf("market intelligence call failed: %v", err)
		return &Briefing{
			Query:    question,
			Content:  locale.Unavailable(language),
			Language: language,
		}, nil
	}

	return &Briefing{
		Query:    question,
		Content:  normalizeText(content),
		Language: language,
	}, nil
}

var (
	bulletRe  = regexp.MustCompile(`(?m)^[\s]*[-*•]\s*`)
	headingRe = regexp.MustCompile(`(?m)^#+\s*`)
	blanksRe  = regexp.MustCompile(`\n{3,}`)
)

// normalizeText flattens stray markdown bullets and headings the model
// tends to emit despite instructions, and collapses runs of blank lines.
func normalizeText(s string) string {
	s = bulletRe.ReplaceAllString(s, "")
	s = headingRe.ReplaceAllString(s, "")
	s = blanksRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
