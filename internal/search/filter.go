package search

import (
	"log"
	"sort"
	"strings"
	"time"

	"github.com/buddyapp/buddyd/internal/search/models"
)

// Filter narrows, re-sorts and caps an aggregated source list according to
// a preference set. Stages compose by sequential narrowing; their order is
// part of the contract.
type Filter struct {
	logger *log.Logger
	now    func() time.Time // injectable for the recency window
}

func NewFilter(logger *log.Logger) *Filter {
	if logger == nil {
		logger = log.New(log.Writer(), "[FILTER] ", log.LstdFlags)
	}
	return &Filter{logger: logger, now: time.Now}
}

// academic markers qualify a source for the academic-only stage, by URL or
// by source type.
var (
	academicURLMarkers  = []string{".edu", "arxiv.org", "researchgate.net", "scholar.google.com"}
	academicTypeMarkers = []string{"research_paper", "academic"}
)

// Apply runs the filter pipeline. A nil preference set returns the input
// unchanged.
func (f *Filter) Apply(sources []models.Source, prefs *models.Preferences) []models.Source {
	if prefs == nil {
		return sources
	}
	p := *prefs

	filtered := sources
	if len(p.ContentTypes) > 0 {
		filtered = keep(filtered, func(s models.Source) bool {
			for _, ct := range p.ContentTypes {
				if containsFold(s.Type, ct) {
					return true
				}
			}
			return false
		})
		f.logger.Printf("after content type filtering: %d sources", len(filtered))
	}
	if len(p.PreferredSources) > 0 {
		filtered = keep(filtered, func(s models.Source) bool {
			for _, domain := range p.PreferredSources {
				if strings.Contains(s.URL, domain) {
					return true
				}
			}
			return false
		})
		f.logger.Printf("after preferred sources filtering: %d sources", len(filtered))
	}
	if len(p.ExcludedDomains) > 0 {
		filtered = keep(filtered, func(s models.Source) bool {
			for _, domain := range p.ExcludedDomains {
				if strings.Contains(s.URL, domain) {
					return false
				}
			}
			return true
		})
		f.logger.Printf("after excluded domains filtering: %d sources", len(filtered))
	}
	if p.AcademicOnly {
		filtered = keep(filtered, func(s models.Source) bool {
			for _, marker := range academicURLMarkers {
				if strings.Contains(s.URL, marker) {
					return true
				}
			}
			for _, marker := range academicTypeMarkers {
				if strings.Contains(s.Type, marker) {
					return true
				}
			}
			return false
		})
		f.logger.Printf("after academic filtering: %d sources", len(filtered))
	}
	if p.DateFrom != "" || p.DateTo != "" {
		from, fromOK := parseDate(p.DateFrom)
		to, toOK := parseDate(p.DateTo)
		filtered = keep(filtered, func(s models.Source) bool {
			date, ok := f.sourceDate(s)
			if !ok {
				return false
			}
			if fromOK && date.Before(from) {
				return false
			}
			if toOK && date.After(to) {
				return false
			}
			return true
		})
		f.logger.Printf("after date filtering: %d sources", len(filtered))
	}
	if p.RecentContentDays > 0 {
		cutoff := f.now().AddDate(0, 0, -p.RecentContentDays)
		filtered = keep(filtered, func(s models.Source) bool {
			date, ok := f.sourceDate(s)
			return ok && !date.Before(cutoff)
		})
		f.logger.Printf("after recent content filtering: %d sources", len(filtered))
	}

	filtered = keep(filtered, func(s models.Source) bool {
		return s.RelevanceScore >= p.MinRelevanceScore
	})
	f.logger.Printf("after relevance filtering: %d sources", len(filtered))

	switch strings.ToLower(p.SortOrder) {
	case models.SortDate:
		sort.SliceStable(filtered, func(i, j int) bool {
			di, iOK := f.sourceDate(filtered[i])
			dj, jOK := f.sourceDate(filtered[j])
			if iOK != jOK {
				return iOK // parseable dates first
			}
			return di.After(dj)
		})
	case models.SortTitle:
		sort.SliceStable(filtered, func(i, j int) bool {
			return strings.ToLower(filtered[i].Title) < strings.ToLower(filtered[j].Title)
		})
	default:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].RelevanceScore > filtered[j].RelevanceScore
		})
	}

	if len(filtered) > p.MaxResults {
		filtered = filtered[:p.MaxResults]
	}
	f.logger.Printf("applied preferences: %d -> %d sources", len(sources), len(filtered))
	return filtered
}

func (f *Filter) sourceDate(s models.Source) (time.Time, bool) {
	if s.PublicationDate == "" {
		return time.Time{}, false
	}
	date, ok := parseDate(s.PublicationDate)
	if !ok {
		f.logger.Printf("failed to parse date: %q", s.PublicationDate)
	}
	return date, ok
}

// parseDate accepts plain ISO dates and RFC3339 timestamps (Google metatag
// dates come in the latter form). Anything else is treated as unparseable,
// never as an error.
func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func keep(sources []models.Source, pred func(models.Source) bool) []models.Source {
	out := sources[:0:0]
	for _, s := range sources {
		if pred(s) {
			out = append(out, s)
		}
	}
	return out
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
