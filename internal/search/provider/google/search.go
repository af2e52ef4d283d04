package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/buddyapp/buddyd/internal/search/models"
	"github.com/buddyapp/buddyd/internal/search/rank"
)

const defaultBaseURL = "https://www.googleapis.com/customsearch/v1"

// Search queries the Google Custom Search JSON API.
// https://developers.google.com/custom-search/v1/overview
type Search struct {
	APIKey   string
	EngineID string
	Client   *http.Client
	BaseURL  string // test override
}

func (s Search) Fetch(ctx context.Context, query string, max int) ([]models.Source, error) {
	base := s.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	endpoint := fmt.Sprintf("%s?key=%s&cx=%s&q=%s&num=%d",
		base, url.QueryEscape(s.APIKey), url.QueryEscape(s.EngineID), url.QueryEscape(query), max)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

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
		return nil, fmt.Errorf("google search returned status %d", resp.StatusCode)
	}

	var raw struct {
		Items []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
			Pagemap struct {
				Metatags []map[string]string `json:"metatags"`
			} `json:"pagemap"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	out := make([]models.Source, 0, len(raw.Items))
	for _, item := range raw.Items {
		var published, author string
		if len(item.Pagemap.Metatags) > 0 {
			published = item.Pagemap.Metatags[0]["article:published_time"]
			author = item.Pagemap.Metatags[0]["author"]
		}
		out = append(out, models.Source{
			Title:           item.Title,
			URL:             item.Link,
			Description:     item.Snippet,
			Type:            rank.Classify(item.Link),
			RelevanceScore:  rank.Score(item.Title, item.Snippet, item.Link, published),
			PublicationDate: published,
			Author:          author,
		})
	}
	return out, nil
}
