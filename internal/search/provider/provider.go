package provider

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/buddyapp/buddyd/internal/search/models"
	"github.com/buddyapp/buddyd/internal/search/provider/bing"
	"github.com/buddyapp/buddyd/internal/search/provider/duckduckgo"
	"github.com/buddyapp/buddyd/internal/search/provider/google"
)

// WebSearcher fetches up to max raw results for a query from one provider.
// Adapters return errors rather than swallowing them; containment is the
// aggregator's job.
type WebSearcher interface {
	Fetch(ctx context.Context, query string, max int) ([]models.Source, error)
}

type Kind string

const (
	GoogleProvider     Kind = "google"
	BingProvider       Kind = "bing"
	DuckDuckGoProvider Kind = "duckduckgo"
)

// DefaultTimeout bounds outbound provider calls. Unbounded calls are a
// latency hazard; callers may override via Credentials.Timeout.
const DefaultTimeout = 8 * time.Second

var ErrUnsupportedProvider = errors.New("unsupported search provider")

// Credentials carries provider keys explicitly so nothing reads ambient
// configuration. EngineID is only meaningful for Google custom search.
type Credentials struct {
	APIKey   string
	EngineID string
	Timeout  time.Duration
}

// New builds a searcher for the given provider kind.
func New(kind Kind, creds Credentials) (WebSearcher, error) {
	timeout := creds.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := &http.Client{Timeout: timeout}
	switch kind {
	case GoogleProvider:
		return google.Search{APIKey: creds.APIKey, EngineID: creds.EngineID, Client: client}, nil
	case BingProvider:
		return bing.Search{APIKey: creds.APIKey, Client: client}, nil
	case DuckDuckGoProvider:
		return duckduckgo.Search{Client: client}, nil
	default:
		return nil, ErrUnsupportedProvider
	}
}
