package search

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/buddyapp/buddyd/internal/search/models"
)

// Tier sizes for response categorization.
const (
	primaryCount    = 3
	supportingCount = 5
)

// Fallback content returned when any pipeline stage fails. The policy is
// deliberately all-or-nothing: a downstream failure discards otherwise
// valid aggregated sources (matching the original behavior; see DESIGN.md).
const fallbackOverview = "Sorry, I encountered an error while searching. Please try again or check your search query."

var fallbackKeyPoints = []string{"Search encountered an error", "Please try again", "Check your query"}

// Service orchestrates one search request through the pipeline stages.
type Service struct {
	aggregator *Aggregator
	filter     *Filter
	overviewer Overviewer
	logger     *log.Logger
	now        func() time.Time
}

func NewService(aggregator *Aggregator, filter *Filter, overviewer Overviewer, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(log.Writer(), "[SEARCH] ", log.LstdFlags)
	}
	if overviewer == nil {
		overviewer = OfflineOverviewer{}
	}
	return &Service{
		aggregator: aggregator,
		filter:     filter,
		overviewer: overviewer,
		logger:     logger,
		now:        time.Now,
	}
}

// Perform runs aggregate -> filter -> overview -> key points -> confidence
// -> categorize. It never returns an error: any stage failure produces the
// fixed fallback response and the HTTP layer stays at 200.
func (s *Service) Perform(ctx context.Context, req models.SearchRequest) (resp models.SearchResponse) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Printf("search pipeline panic for %q: %v", req.Query, r)
			resp = s.fallbackResponse(req.Query)
		}
	}()

	prefs := models.DefaultPreferences()
	if req.Preferences != nil {
		prefs = req.Preferences.Normalize()
	}

	sources := s.aggregator.Aggregate(ctx, req.Query, prefs.MaxResults)
	filtered := s.filter.Apply(sources, &prefs)

	overview, err := s.overviewer.Overview(ctx, req.Query, filtered, prefs)
	if err != nil {
		s.logger.Printf("overview generation failed for %q: %v", req.Query, err)
		return s.fallbackResponse(req.Query)
	}

	keyPoints := KeyPoints(filtered)
	confidence := Confidence(filtered)
	s.logger.Printf("confidence %.3f from %d sources for %q", confidence, len(filtered), req.Query)

	// Categorization tiers always rank by relevance, even when the filter
	// sorted by date or title.
	byRelevance := append([]models.Source(nil), filtered...)
	sort.SliceStable(byRelevance, func(i, j int) bool {
		return byRelevance[i].RelevanceScore > byRelevance[j].RelevanceScore
	})
	primary, supporting, additional := categorize(byRelevance)

	return models.SearchResponse{
		Query:              req.Query,
		AIOverview:         overview,
		PrimarySources:     primary,
		SupportingResearch: supporting,
		AdditionalSources:  additional,
		ConfidenceScore:    confidence,
		KeyPoints:          keyPoints,
		Timestamp:          s.now(),
		TotalSources:       len(filtered),
	}
}

func categorize(sorted []models.Source) (primary, supporting, additional []models.Source) {
	primary = make([]models.Source, 0, primaryCount)
	supporting = make([]models.Source, 0, supportingCount)
	additional = []models.Source{}
	for i, src := range sorted {
		switch {
		case i < primaryCount:
			primary = append(primary, src)
		case i < primaryCount+supportingCount:
			supporting = append(supporting, src)
		default:
			additional = append(additional, src)
		}
	}
	return primary, supporting, additional
}

// IsFallback reports whether resp is the fixed error-fallback response
// rather than a real pipeline result.
func IsFallback(resp models.SearchResponse) bool {
	return resp.AIOverview == fallbackOverview
}

func (s *Service) fallbackResponse(query string) models.SearchResponse {
	return models.SearchResponse{
		Query:              query,
		AIOverview:         fallbackOverview,
		PrimarySources:     []models.Source{},
		SupportingResearch: []models.Source{},
		AdditionalSources:  []models.Source{},
		ConfidenceScore:    0.0,
		KeyPoints:          append([]string(nil), fallbackKeyPoints...),
		Timestamp:          s.now(),
		TotalSources:       0,
	}
}
