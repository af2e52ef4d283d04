package duckduckgo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/buddyapp/buddyd/internal/search/models"
	"github.com/buddyapp/buddyd/internal/search/rank"
)

const defaultBaseURL = "https://api.duckduckgo.com/"

// Fixed scores for the instant-answer shapes: the abstract is the direct
// answer, related topics are weaker matches.
const (
	abstractScore = 0.95
	relatedScore  = 0.8
)

// Search queries the DuckDuckGo Instant Answer API. Free, no key required,
// used as the last-resort provider.
type Search struct {
	Client  *http.Client
	BaseURL string // test override
}

func (s Search) Fetch(ctx context.Context, query string, max int) ([]models.Source, error) {
	base := s.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	endpoint := fmt.Sprintf("%s?q=%s&format=json&no_html=1&skip_disambig=1", base, url.QueryEscape(query))
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
		return nil, fmt.Errorf("duckduckgo search returned status %d", resp.StatusCode)
	}

	var raw struct {
		Abstract      string `json:"Abstract"`
		AbstractText  string `json:"AbstractText"`
		AbstractURL   string `json:"AbstractURL"`
		RelatedTopics []struct {
			Text     string `json:"Text"`
			FirstURL string `json:"FirstURL"`
		} `json:"RelatedTopics"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	var out []models.Source
	if raw.AbstractURL != "" && raw.AbstractURL != "N/A" {
		title := raw.Abstract
		if title == "" {
			title = query
		}
		out = append(out, models.Source{
			Title:          title,
			URL:            raw.AbstractURL,
			Description:    raw.AbstractText,
			Type:           rank.TypeInformation,
			RelevanceScore: abstractScore,
		})
	}
	for _, topic := range raw.RelatedTopics {
		if len(out) >= max {
			break
		}
		// Topic groups carry nested entries without a FirstURL; skip them.
		if topic.FirstURL == "" || topic.FirstURL == "N/A" {
			continue
		}
		title := topic.Text
		if title == "" {
			title = query
		}
		out = append(out, models.Source{
			Title:          title,
			URL:            topic.FirstURL,
			Description:    topic.Text,
			Type:           rank.TypeRelatedTopic,
			RelevanceScore: relatedScore,
		})
	}
	if len(out) > max {
		out = out[:max]
	}
	return out, nil
}
