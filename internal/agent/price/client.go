package price

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/agrimandi/advisor/config"
)

// Client queries the data.gov.in mandi price resource. Responses are
// normalized into canonical Records on ingestion and cached per filter set.
type Client struct {
	cfg    config.MandiAPIConfig
	client *resty.Client
	cache  Cache
	logger *log.Logger
}

// Filters are the exact-match query parameters the resource supports.
// Empty fields are omitted from the request.
type Filters struct {
	Commodity string
	State     string
	District  string
	Limit     int
	Offset    int
}

type apiResponse struct {
	Records []rawRecord `json:"records"`
}

// NewClient creates a price client. The cache is injected so tests can
// supply a fresh or pre-seeded cache per case.
func NewClient(cfg config.MandiAPIConfig, cache Cache) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	client := resty.New()
	client.SetBaseURL(cfg.Endpoint)
	client.SetTimeout(timeout)

	return &Client{
		cfg:    cfg,
		client: client,
		cache:  cache,
		logger: log.New(log.Writer(), "[MANDI-API] ", log.LstdFlags),
	}
}

// FetchRecords queries the price resource with the given filters. On
// timeout or HTTP failure it returns an empty slice together with the
// error; the caller decides whether to escalate to the next tier.
func (c *Client) FetchRecords(ctx context.Context, filters Filters) ([]Record, error) {
	key := filters.cacheKey()
	if c.cache != nil {
		if records, ok := c.cache.Get(ctx, key); ok {
			return records, nil
		}
	}

	limit := filters.Limit
	if limit == 0 {
		limit = c.cfg.Limit
	}
	if limit == 0 {
		limit = 50
	}

	params := map[string]string{
		"api-key": c.cfg.APIKey,
		"format":  "json",
		"limit":   fmt.Sprintf("%d", limit),
		"offset":  fmt.Sprintf("%d", filters.Offset),
	}
	if filters.Commodity != "" {
		params["filters[commodity]"] = filters.Commodity
	}
	if filters.State != "" {
		params["filters[state]"] = filters.State
	}
	if filters.District != "" {
		params["filters[district]"] = filters.District
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("")
	if err != nil {
		c.logger.Printf("fetch failed: %v", err)
		return []Record{}, fmt.Errorf("mandi price fetch failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		c.logger.Printf("fetch returned status %d", resp.StatusCode())
		return []Record{}, fmt.Errorf("mandi price API returned status: %d", resp.StatusCode())
	}

	var apiResp apiResponse
	if err := json.Unmarshal(resp.Body(), &apiResp); err != nil {
		return []Record{}, fmt.Errorf("decoding mandi price response: %w", err)
	}

	records := make([]Record, 0, len(apiResp.Records))
	for _, raw := range apiResp.Records {
		rec := raw.normalize()
		if rec.ModalPrice <= 0 {
			continue
		}
		records = append(records, rec)
	}

	if c.cache != nil {
		c.cache.Set(ctx, key, records)
	}
	return records, nil
}

func (f Filters) cacheKey() string {
	parts := []string{
		"commodity=" + strings.ToLower(f.Commodity),
		"state=" + strings.ToLower(f.State),
		"district=" + strings.ToLower(f.District),
		fmt.Sprintf("limit=%d", f.Limit),
		fmt.Sprintf("offset=%d", f.Offset),
	}
	sort.Strings(parts)
	return strings.Join(parts, "&")
}
