// Package rank classifies result URLs and scores their relevance using
// ordered pattern tables. First matching pattern wins, so more specific
// patterns must precede catch-alls.
package rank

import "strings"

// Source types assigned by Classify.
const (
	TypeEncyclopedia  = "encyclopedia"
	TypeResearchPaper = "research_paper"
	TypeCodeRepo      = "code_repository"
	TypeQAForum       = "qa_forum"
	TypeBlog          = "blog"
	TypeAcademic      = "academic"
	TypeGovernment    = "government"
	TypeNews          = "news"
	TypeWebPage       = "web_page"
	TypeInformation   = "information"
	TypeRelatedTopic  = "related_topic"
)

type typeRule struct {
	patterns []string
	kind     string
}

var typeRules = []typeRule{
	{[]string{"wikipedia.org"}, TypeEncyclopedia},
	{[]string{"arxiv.org", "researchgate.net"}, TypeResearchPaper},
	{[]string{"github.com"}, TypeCodeRepo},
	{[]string{"stackoverflow.com"}, TypeQAForum},
	{[]string{"medium.com", "dev.to"}, TypeBlog},
	{[]string{".edu"}, TypeAcademic},
	{[]string{".gov"}, TypeGovernment},
	{[]string{"news.", "bbc.com", "cnn.com"}, TypeNews},
}

type bonusRule struct {
	pattern string
	bonus   float64
}

var authorityBonuses = []bonusRule{
	{"wikipedia.org", 0.2},
	{"arxiv.org", 0.2},
	{".edu", 0.15},
	{".gov", 0.15},
	{"github.com", 0.1},
}

// Classify maps a URL to a source type by substring match, defaulting to
// a plain web page.
func Classify(url string) string {
	for _, rule := range typeRules {
		for _, p := range rule.patterns {
			if strings.Contains(url, p) {
				return rule.kind
			}
		}
	}
	return TypeWebPage
}

// Score computes the relevance heuristic for one raw result: base 0.5,
// boosted for a present title, a long description, a publication date and
// an authoritative domain. The result is clamped to [0, 1].
func Score(title, description, url, publicationDate string) float64 {
	score := 0.5
	if strings.TrimSpace(title) != "" {
		score += 0.2
	}
	if len(description) > 100 {
		score += 0.1
	}
	if strings.TrimSpace(publicationDate) != "" {
		score += 0.1
	}
	for _, rule := range authorityBonuses {
		if strings.Contains(url, rule.pattern) {
			score += rule.bonus
			break
		}
	}
	return Clamp(score)
}

// Clamp bounds a score to [0, 1].
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
