// Package gnews fetches Indian market news headlines from the GNews
// search API. The API key is optional: without one, or on any fetch
// failure, a fixed set of sample headlines is served instead, so the
// pre-market report always has news to score.
package gnews

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/optionsense/backend/pkg/config"
	"github.com/optionsense/backend/pkg/httputil"
	"github.com/optionsense/backend/pkg/logger"
)

const searchQuery = "Indian stock market OR NSE OR Sensex OR Nifty"

// Headline is one news item. Sentiment annotation happens downstream
// in the pre-market module, not here.
type Headline struct {
	Title     string `json:"title"`
	Source    string `json:"source"`
	URL       string `json:"url"`
	Published string `json:"published"`
}

// mockHeadlines keeps the pre-market report usable without an API key.
var mockHeadlines = []Headline{
	{Title: "RBI keeps repo rate unchanged, maintains growth-inflation balance", Source: "Economic Times"},
	{Title: "IT sector stocks rally on strong Q3 earnings expectations", Source: "Moneycontrol"},
	{Title: "FIIs continue selling streak, withdraw Rs 5000 crore in January", Source: "Mint"},
	{Title: "Auto sector revival: Maruti, Tata Motors report strong sales growth", Source: "Business Standard"},
	{Title: "Bank Nifty hits all-time high on strong credit growth data", Source: "CNBC"},
	{Title: "Crude oil prices surge, may impact OMC stocks negatively", Source: "Reuters"},
	{Title: "Pharma exports reach record high, sector outlook positive", Source: "Hindu BusinessLine"},
	{Title: "Global markets mixed as investors await US Fed decision", Source: "Bloomberg"},
}

// Client talks to the GNews search endpoint.
type Client struct {
	http    *httputil.Client
	logger  *logger.Logger
	apiKey  string
	baseURL string
}

// NewClient creates a news client from config.
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		http:    httputil.NewWithTimeout(cfg, log, 10*time.Second).DisableRetry(),
		logger:  log.WithField("component", "gnews"),
		apiKey:  cfg.GNews.APIKey,
		baseURL: cfg.GNews.BaseURL,
	}
}

// FetchHeadlines returns up to max headlines. It never fails: missing
// key, HTTP errors, and bad payloads all fall back to the sample set.
func (c *Client) FetchHeadlines(ctx context.Context, max int) []Headline {
	if max <= 0 {
		max = 10
	}
	if c.apiKey == "" {
		return clip(mockHeadlines, max)
	}

	headlines, err := c.search(ctx, max)
	if err != nil {
		c.logger.WithError(err).Warn("news fetch failed, serving sample headlines")
		return clip(mockHeadlines, max)
	}
	if len(headlines) == 0 {
		return clip(mockHeadlines, max)
	}
	return headlines
}

func (c *Client) search(ctx context.Context, max int) ([]Headline, error) {
	params := url.Values{}
	params.Set("q", searchQuery)
	params.Set("lang", "en")
	params.Set("country", "in")
	params.Set("max", fmt.Sprintf("%d", max))
	params.Set("apikey", c.apiKey)

	resp, err := c.http.Get(ctx, c.baseURL+"/search?"+params.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("gnews returned status %d", resp.StatusCode)
	}

	var payload struct {
		Articles []struct {
			Title  string `json:"title"`
			URL    string `json:"url"`
			Source struct {
				Name string `json:"name"`
			} `json:"source"`
			PublishedAt string `json:"publishedAt"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode gnews payload: %w", err)
	}

	headlines := make([]Headline, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		if a.Title == "" {
			continue
		}
		source := a.Source.Name
		if source == "" {
			source = "Unknown"
		}
		headlines = append(headlines, Headline{
			Title:     a.Title,
			Source:    source,
			URL:       a.URL,
			Published: a.PublishedAt,
		})
	}
	return headlines, nil
}

func clip(headlines []Headline, max int) []Headline {
	if len(headlines) <= max {
		return headlines
	}
	return headlines[:max]
}
