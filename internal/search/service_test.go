package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/buddyapp/buddyd/internal/search/models"
)

type erroringOverviewer struct{}

func (erroringOverviewer) Overview(context.Context, string, []models.Source, models.Preferences) (string, error) {
	return "", errors.New("llm timeout")
}

func newTestService(agg *Aggregator, ov Overviewer) *Service {
	svc := NewService(agg, NewFilter(testLogger()), ov, testLogger())
	svc.now = func() time.Time { return time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestPerformHappyPath(t *testing.T) {
	sources := make([]models.Source, 0, 10)
	for _, s := range []struct {
		title string
		score float64
	}{
		{"s1", 0.95}, {"s2", 0.9}, {"s3", 0.85}, {"s4", 0.8}, {"s5", 0.75},
		{"s6", 0.7}, {"s7", 0.65}, {"s8", 0.6}, {"s9", 0.55}, {"s10", 0.5},
	} {
		sources = append(sources, models.Source{
			Title: s.title, URL: "https://" + s.title + ".com", RelevanceScore: s.score,
		})
	}
	agg := NewAggregator(&stubSearcher{sources: sources}, nil, nil, testLogger())
	svc := newTestService(agg, OfflineOverviewer{})

	resp := svc.Perform(context.Background(), models.SearchRequest{Query: "go generics"})

	if IsFallback(resp) {
		t.Fatal("happy path produced the fallback response")
	}
	if resp.Query != "go generics" {
		t.Errorf("query = %q", resp.Query)
	}
	if len(resp.PrimarySources) != 3 {
		t.Errorf("primary = %d, want 3", len(resp.PrimarySources))
	}
	if len(resp.SupportingResearch) != 5 {
		t.Errorf("supporting = %d, want 5", len(resp.SupportingResearch))
	}
	if len(resp.AdditionalSources) != 2 {
		t.Errorf("additional = %d, want 2", len(resp.AdditionalSources))
	}
	if resp.TotalSources != 10 {
		t.Errorf("totalSources = %d, want 10", resp.TotalSources)
	}
	if resp.PrimarySources[0].Title != "s1" {
		t.Errorf("primary[0] = %q, want s1", resp.PrimarySources[0].Title)
	}
	if len(resp.KeyPoints) != 3 || resp.KeyPoints[0] != "s1" {
		t.Errorf("keyPoints = %v", resp.KeyPoints)
	}
	if resp.ConfidenceScore <= 0 || resp.ConfidenceScore > 1 {
		t.Errorf("confidenceScore = %v", resp.ConfidenceScore)
	}
	if resp.AIOverview == "" {
		t.Error("overview is empty")
	}
}

func TestPerformOverviewErrorIsAllOrNothing(t *testing.T) {
	sources := []models.Source{{Title: "s1", URL: "https://s1.com", RelevanceScore: 0.9}}
	agg := NewAggregator(&stubSearcher{sources: sources}, nil, nil, testLogger())
	svc := newTestService(agg, erroringOverviewer{})

	resp := svc.Perform(context.Background(), models.SearchRequest{Query: "q"})

	if !IsFallback(resp) {
		t.Fatal("expected the fallback response")
	}
	// valid aggregated sources are discarded, not partially returned
	if resp.TotalSources != 0 || len(resp.PrimarySources) != 0 {
		t.Fatalf("fallback leaked sources: %+v", resp)
	}
	if resp.ConfidenceScore != 0.0 {
		t.Errorf("confidenceScore = %v, want 0.0", resp.ConfidenceScore)
	}
	want := []string{"Search encountered an error", "Please try again", "Check your query"}
	if len(resp.KeyPoints) != len(want) {
		t.Fatalf("keyPoints = %v", resp.KeyPoints)
	}
	for i := range want {
		if resp.KeyPoints[i] != want[i] {
			t.Errorf("keyPoints[%d] = %q, want %q", i, resp.KeyPoints[i], want[i])
		}
	}
	if resp.PrimarySources == nil || resp.SupportingResearch == nil || resp.AdditionalSources == nil {
		t.Error("fallback source lists must be empty, not null")
	}
}

func TestPerformPanicProducesFallback(t *testing.T) {
	agg := NewAggregator(&stubSearcher{panics: true}, nil, nil, testLogger())
	svc := NewService(agg, nil, nil, testLogger())

	resp := svc.Perform(context.Background(), models.SearchRequest{Query: "q"})
	if !IsFallback(resp) {
		t.Fatal("expected the fallback response after a pipeline panic")
	}
}

func TestPerformDefaultsPreferences(t *testing.T) {
	agg := NewAggregator(&stubSearcher{}, nil, nil, testLogger())
	svc := newTestService(agg, OfflineOverviewer{})

	resp := svc.Perform(context.Background(), models.SearchRequest{Query: "q"})
	if IsFallback(resp) {
		t.Fatal("empty result set must not be the fallback response")
	}
	if resp.TotalSources != 0 {
		t.Errorf("totalSources = %d, want 0", resp.TotalSources)
	}
	if resp.ConfidenceScore != 0.0 {
		t.Errorf("confidenceScore = %v, want 0.0", resp.ConfidenceScore)
	}
}

func TestPerformNormalizesPreferences(t *testing.T) {
	sources := []models.Source{
		{Title: "low", URL: "https://low.com", RelevanceScore: 0.2},
		{Title: "high", URL: "https://high.com", RelevanceScore: 0.9},
	}
	agg := NewAggregator(&stubSearcher{sources: sources}, nil, nil, testLogger())
	svc := newTestService(agg, OfflineOverviewer{})

	resp := svc.Perform(context.Background(), models.SearchRequest{
		Query: "q",
		Preferences: &models.Preferences{
			MinRelevanceScore: -5, // clamps to 0, keeps both
			MaxResults:        500, // clamps to 100
		},
	})
	if resp.TotalSources != 2 {
		t.Fatalf("totalSources = %d, want 2", resp.TotalSources)
	}
}

func TestCategorizeTiersByRelevanceEvenWhenSortedByTitle(t *testing.T) {
	sources := []models.Source{
		{Title: "aaa", URL: "https://a.com", RelevanceScore: 0.5},
		{Title: "zzz", URL: "https://z.com", RelevanceScore: 0.9},
	}
	agg := NewAggregator(&stubSearcher{sources: sources}, nil, nil, testLogger())
	svc := newTestService(agg, OfflineOverviewer{})

	resp := svc.Perform(context.Background(), models.SearchRequest{
		Query:       "q",
		Preferences: &models.Preferences{MaxResults: 10, SortOrder: models.SortTitle},
	})
	if len(resp.PrimarySources) != 2 {
		t.Fatalf("primary = %d, want 2", len(resp.PrimarySources))
	}
	if resp.PrimarySources[0].Title != "zzz" {
		t.Fatalf("primary[0] = %q, want the most relevant source", resp.PrimarySources[0].Title)
	}
}

func TestIsFallback(t *testing.T) {
	svc := newTestService(NewAggregator(nil, nil, nil, testLogger()), OfflineOverviewer{})
	if !IsFallback(svc.fallbackResponse("q")) {
		t.Error("fallbackResponse must satisfy IsFallback")
	}
	if IsFallback(models.SearchResponse{AIOverview: "real overview"}) {
		t.Error("a real response must not satisfy IsFallback")
	}
}
