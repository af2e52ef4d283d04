package bing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/buddyapp/buddyd/internal/search/models"
	"github.com/buddyapp/buddyd/internal/search/rank"
)

const defaultBaseURL = "https://api.bing.microsoft.com/v7.0/search"

// Search queries the Bing Web Search API. The basic tier carries no
// publication date or author metadata.
type Search struct {
	APIKey  string
	Client  *http.Client
	BaseURL string // test override
}

func (s Search) Fetch(ctx context.Context, query string, max int) ([]models.Source, error) {
	base := s.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	endpoint := fmt.Sprintf("%s?q=%s&count=%d&mkt=en-US", base, url.QueryEscape(query), max)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", s.APIKey)

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bing search returned status %d", resp.StatusCode)
	}

	var raw struct {
		WebPages struct {
			Value []struct {
				Name    string `json:"name"`
				URL     string `json:"url"`
				Snippet string `json:"snippet"`
			} `json:"value"`
		} `json:"webPages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	out := make([]models.Source, 0, len(raw.WebPages.Value))
	for _, item := range raw.WebPages.Value {
		out = append(out, models.Source{
			Title:          item.Name,
			URL:            item.URL,
			Description:    item.Snippet,
			Type:           rank.Classify(item.URL),
			RelevanceScore: rank.Score(item.Name, item.Snippet, item.URL, ""),
		})
	}
	return out, nil
}
