package models

import "time"

// Source is one normalized search result from any provider.
// URL is the identity used for deduplication within a single aggregation.
type Source struct {
	Title           string  `json:"title"`
	URL             string  `json:"url"`
	Description     string  `json:"description"`
	Type            string  `json:"type"`
	RelevanceScore  float64 `json:"relevanceScore"`
	PublicationDate string  `json:"publicationDate,omitempty"`
	Author          string  `json:"author,omitempty"`
}

// Sort orders accepted by Preferences.SortOrder.
const (
	SortRelevance = "relevance"
	SortDate      = "date"
	SortTitle     = "title"
)

// Preferences drives the filter pipeline and the overview tone.
// Zero values mean "unset"; Normalize resolves defaults and clamps the
// numeric fields so downstream stages never have to.
type Preferences struct {
	PreferredSources       []string `json:"preferredSources"`
	ContentTypes           []string `json:"contentTypes"`
	Language               string   `json:"language"`
	DateFrom               string   `json:"dateFrom,omitempty"`
	DateTo                 string   `json:"dateTo,omitempty"`
	MinRelevanceScore      float64  `json:"minRelevanceScore"`
	MaxResults             int      `json:"maxResults"`
	PreferredSearchEngines []string `json:"preferredSearchEngines"`
	ExcludedDomains        []string `json:"excludedDomains"`
	AcademicOnly           bool     `json:"academicOnly"`
	RecentContentDays      int      `json:"recentContentDays,omitempty"`
	SortOrder              string   `json:"sortOrder"`
	Tone                   string   `json:"tone"`
	Audience               string   `json:"audience,omitempty"`
}

// Normalize clamps and defaults a preference set received from a caller.
// Clamping happens here, at the boundary, not inside the filter stages.
func (p Preferences) Normalize() Preferences {
	if p.MinRelevanceScore < 0 {
		p.MinRelevanceScore = 0
	}
	if p.MinRelevanceScore > 1 {
		p.MinRelevanceScore = 1
	}
	if p.MaxResults < 1 {
		p.MaxResults = 1
	}
	if p.MaxResults > 100 {
		p.MaxResults = 100
	}
	if p.Language == "" {
		p.Language = "en"
	}
	if p.SortOrder == "" {
		p.SortOrder = SortRelevance
	}
	if p.Tone == "" {
		p.Tone = "professional"
	}
	return p
}

// DefaultPreferences is the documented default set substituted when a
// search request carries no preferences.
func DefaultPreferences() Preferences {
	return Preferences{
		PreferredSources:       []string{},
		ContentTypes:           []string{},
		Language:               "en",
		MinRelevanceScore:      0.3,
		MaxResults:             20,
		PreferredSearchEngines: []string{},
		ExcludedDomains:        []string{},
		SortOrder:              SortRelevance,
		Tone:                   "professional",
	}
}

// AcademicPreferences favours peer-reviewed and institutional sources.
func AcademicPreferences() Preferences {
	return Preferences{
		PreferredSources:       []string{"arxiv.org", "researchgate.net", ".edu", "scholar.google.com"},
		ContentTypes:           []string{"research_paper", "academic", "encyclopedia"},
		Language:               "en",
		MinRelevanceScore:      0.6,
		MaxResults:             25,
		PreferredSearchEngines: []string{"google", "bing"},
		ExcludedDomains:        []string{"social-media.com", "blog-spam.com"},
		AcademicOnly:           true,
		RecentContentDays:      365,
		SortOrder:              SortRelevance,
		Tone:                   "professional",
	}
}

// NewsPreferences favours recent coverage from news outlets.
func NewsPreferences() Preferences {
	return Preferences{
		PreferredSources:       []string{"bbc.com", "cnn.com", "reuters.com", "techcrunch.com"},
		ContentTypes:           []string{"news", "article", "blog"},
		Language:               "en",
		MinRelevanceScore:      0.4,
		MaxResults:             15,
		PreferredSearchEngines: []string{"google", "bing"},
		ExcludedDomains:        []string{},
		RecentContentDays:      30,
		SortOrder:              SortDate,
		Tone:                   "professional",
	}
}

// TechnicalPreferences favours documentation and code sources.
func TechnicalPreferences() Preferences {
	return Preferences{
		PreferredSources:       []string{"github.com", "stackoverflow.com", "docs.microsoft.com", "developer.mozilla.org"},
		ContentTypes:           []string{"documentation", "code_repository", "qa_forum", "tutorial"},
		Language:               "en",
		MinRelevanceScore:      0.5,
		MaxResults:             20,
		PreferredSearchEngines: []string{"google", "bing"},
		ExcludedDomains:        []string{},
		RecentContentDays:      180,
		SortOrder:              SortRelevance,
		Tone:                   "professional",
	}
}

// ContentTypeVocabulary lists the content types exposed for filtering.
func ContentTypeVocabulary() []string {
	return []string{
		"research_paper",
		"news",
		"blog",
		"encyclopedia",
		"documentation",
		"code_repository",
		"qa_forum",
		"tutorial",
		"academic",
		"article",
		"video",
		"podcast",
	}
}

// SortOrderVocabulary lists the accepted sort orders.
func SortOrderVocabulary() []string {
	return []string{SortRelevance, SortDate, SortTitle}
}

// SearchRequest is the inbound search payload. ProfileID is opaque here;
// it only matters to collaborating history features.
type SearchRequest struct {
	Query       string       `json:"query"`
	ProfileID   int64        `json:"profileId"`
	Preferences *Preferences `json:"preferences,omitempty"`
}

// SearchResponse is assembled fresh per request and never persisted here.
type SearchResponse struct {
	Query              string    `json:"query"`
	AIOverview         string    `json:"aiOverview"`
	PrimarySources     []Source  `json:"primarySources"`
	SupportingResearch []Source  `json:"supportingResearch"`
	AdditionalSources  []Source  `json:"additionalSources"`
	ConfidenceScore    float64   `json:"confidenceScore"`
	KeyPoints          []string  `json:"keyPoints"`
	Timestamp          time.Time `json:"timestamp"`
	TotalSources       int       `json:"totalSources"`
}

// FeedbackRequest captures user feedback on a search result.
type FeedbackRequest struct {
	Query       string `json:"query"`
	ProfileID   int64  `json:"profileId"`
	Rating      string `json:"rating"`
	Comments    string `json:"comments,omitempty"`
	WasHelpful  bool   `json:"wasHelpful"`
	Suggestions string `json:"suggestions,omitempty"`
}
