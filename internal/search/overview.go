package search

import (
	"context"
	"fmt"

	"github.com/buddyapp/buddyd/internal/search/models"
)

// Overviewer produces a natural-language synthesis of the filtered sources.
// The pipeline treats the returned text as opaque; a returned error aborts
// the whole request into the fallback response.
type Overviewer interface {
	Overview(ctx context.Context, query string, sources []models.Source, prefs models.Preferences) (string, error)
}

// OfflineOverviewer is used when no generation backend is configured. It
// always succeeds with a deterministic sentence referencing the query.
type OfflineOverviewer struct{}

func (OfflineOverviewer) Overview(_ context.Context, query string, sources []models.Source, _ models.Preferences) (string, error) {
	return fmt.Sprintf(
		"AI overview is unavailable (no generation backend configured). Found %d sources for %q; see the source list below.",
		len(sources), query), nil
}
