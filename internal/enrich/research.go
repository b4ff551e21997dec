package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	researchDefaultTimeout = 10 * time.Second
	maxResearchSnippets    = 5
)

// ResearchOptions configures the live research client.
type ResearchOptions struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// ResearchClient fetches supporting snippets for a topic from a web search
// API. Research is best-effort input: callers treat any error as "no
// research" and continue.
type ResearchClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewResearchClient(opts ResearchOptions) *ResearchClient {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.search.brave.com/res/v1"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: researchDefaultTimeout}
	}
	return &ResearchClient{apiKey: opts.APIKey, baseURL: baseURL, client: client}
}

type searchResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// Search returns up to maxResearchSnippets short snippets for the topic.
// Without an API key it returns nothing, which downstream code treats the
// same as a research outage.
func (c *ResearchClient) Search(ctx context.Context, topic string) ([]string, error) {
	if c.apiKey == "" {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/web/search?q=%s&count=%d", c.baseURL, url.QueryEscape(topic), maxResearchSnippets)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build research request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("research request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("research request: unexpected status %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode research response: %w", err)
	}

	snippets := make([]string, 0, maxResearchSnippets)
	for _, result := range payload.Web.Results {
		snippet := strings.TrimSpace(result.Description)
		if snippet == "" {
			snippet = strings.TrimSpace(result.Title)
		}
		if snippet == "" {
			continue
		}
		snippets = append(snippets, snippet)
		if len(snippets) == maxResearchSnippets {
			break
		}
	}
	return snippets, nil
}
