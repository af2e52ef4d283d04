package search

import (
	"math"

	"github.com/buddyapp/buddyd/internal/search/models"
)

// Confidence reduces a source list to a single 0.0-1.0 score: the mean
// relevance of the set. Empty input scores 0.0 and out-of-range or
// non-finite inputs never propagate past the clamp.
func Confidence(sources []models.Source) float64 {
	if len(sources) == 0 {
		return 0.0
	}
	var total float64
	for _, s := range sources {
		total += s.RelevanceScore
	}
	mean := total / float64(len(sources))
	switch {
	case math.IsNaN(mean):
		return 0.0
	case math.IsInf(mean, 0):
		return 0.0
	case mean < 0.0:
		return 0.0
	case mean > 1.0:
		return 1.0
	default:
		return mean
	}
}

const maxKeyPoints = 3

// KeyPoints extracts up to three key points: the first distinct source
// titles in input order. No re-ranking happens here.
func KeyPoints(sources []models.Source) []string {
	points := make([]string, 0, maxKeyPoints)
	seen := make(map[string]struct{}, maxKeyPoints)
	for _, s := range sources {
		if len(points) == maxKeyPoints {
			break
		}
		if _, dup := seen[s.Title]; dup {
			continue
		}
		seen[s.Title] = struct{}{}
		points = append(points, s.Title)
	}
	return points
}
