// Package search implements the search pipeline: multi-provider
// aggregation, preference filtering, overview generation, confidence
// scoring and request orchestration.
package search

import (
	"context"
	"log"
	"sort"

	"github.com/buddyapp/buddyd/internal/search/models"
	"github.com/buddyapp/buddyd/internal/search/provider"
)

// Aggregator queries providers in priority order and merges their results.
// It never returns an error to its caller; the worst case is an empty list.
type Aggregator struct {
	google   provider.WebSearcher // nil when key/engine id unconfigured
	bing     provider.WebSearcher // nil when key unconfigured
	fallback provider.WebSearcher // nil when the free fallback is disabled
	logger   *log.Logger
}

func NewAggregator(google, bing, fallback provider.WebSearcher, logger *log.Logger) *Aggregator {
	if logger == nil {
		logger = log.New(log.Writer(), "[AGGREGATE] ", log.LstdFlags)
	}
	return &Aggregator{google: google, bing: bing, fallback: fallback, logger: logger}
}

// Aggregate fetches from the keyed providers in priority order, then from
// the free fallback only when the keyed providers yielded nothing. Bing is
// appended unconditionally after Google to maximise result volume. The
// merged list is deduplicated by URL (first occurrence wins), stably
// sorted by relevance descending and truncated to max.
func (a *Aggregator) Aggregate(ctx context.Context, query string, max int) (out []models.Source) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Printf("aggregation panic for %q: %v", query, r)
			out = nil
			if a.fallback != nil {
				res, err := a.fallback.Fetch(ctx, query, max)
				if err != nil {
					a.logger.Printf("fallback search also failed: %v", err)
					return
				}
				out = finalize(res, max)
			}
		}
	}()

	var all []models.Source
	if a.google != nil {
		res, err := a.google.Fetch(ctx, query, max)
		if err != nil {
			a.logger.Printf("google search failed: %v", err)
		} else {
			all = append(all, res...)
			a.logger.Printf("google search returned %d results", len(res))
		}
	}
	if a.bing != nil {
		res, err := a.bing.Fetch(ctx, query, max)
		if err != nil {
			a.logger.Printf("bing search failed: %v", err)
		} else {
			all = append(all, res...)
			a.logger.Printf("bing search returned %d results", len(res))
		}
	}
	if len(all) == 0 && a.fallback != nil {
		res, err := a.fallback.Fetch(ctx, query, max)
		if err != nil {
			a.logger.Printf("duckduckgo search failed: %v", err)
		} else {
			all = append(all, res...)
			a.logger.Printf("duckduckgo search returned %d results", len(res))
		}
	}
	return finalize(all, max)
}

func finalize(sources []models.Source, max int) []models.Source {
	deduped := dedupByURL(sources)
	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].RelevanceScore > deduped[j].RelevanceScore
	})
	if len(deduped) > max {
		deduped = deduped[:max]
	}
	return deduped
}

func dedupByURL(sources []models.Source) []models.Source {
	seen := make(map[string]struct{}, len(sources))
	out := make([]models.Source, 0, len(sources))
	for _, s := range sources {
		if _, dup := seen[s.URL]; dup {
			continue
		}
		seen[s.URL] = struct{}{}
		out = append(out, s)
	}
	return out
}
