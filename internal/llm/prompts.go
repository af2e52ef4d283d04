package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/buddyapp/buddyd/internal/search/models"
)

// overviewSourceLimit caps how many sources are quoted into the prompt.
const overviewSourceLimit = 8

// Overviewer generates search overviews through a completion client.
// It satisfies the search pipeline's Overviewer interface.
type Overviewer struct {
	client Client
}

func NewOverviewer(client Client) *Overviewer {
	return &Overviewer{client: client}
}

func (o *Overviewer) Overview(ctx context.Context, query string, sources []models.Source, prefs models.Preferences) (string, error) {
	audience := prefs.Audience
	if audience == "" {
		audience = "a general audience"
	}
	system := fmt.Sprintf(
		"You are a research assistant. Write a concise overview of the search results below in a %s tone for %s. "+
			"Synthesize across sources; do not enumerate them one by one.",
		prefs.Tone, audience)

	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n\nSources:\n", query)
	for i, s := range sources {
		if i == overviewSourceLimit {
			break
		}
		fmt.Fprintf(&b, "%d. %s (%s)\n   %s\n", i+1, s.Title, s.URL, s.Description)
	}
	if len(sources) == 0 {
		b.WriteString("(no sources found)\n")
	}
	return o.client.Complete(ctx, system, b.String())
}

// ChatReply generates a buddy-persona chat response. History carries prior
// messages oldest first; only the last few are quoted for context.
func ChatReply(ctx context.Context, client Client, buddyName, personality, rules, message string, history []string) (string, error) {
	historyContext := ""
	if len(history) > 0 {
		tail := history
		if len(tail) > 5 {
			tail = tail[len(tail)-5:]
		}
		historyContext = "Previous conversation context: " + strings.Join(tail, " | ")
	}
	system := fmt.Sprintf(`You are %s, a buddy with the following personality: %s

%s

%s

Always stay in character as %s. Be helpful, engaging, and true to your personality.
Keep responses conversational and appropriate for a buddy relationship.`,
		buddyName, personality, rules, historyContext, buddyName)

	return client.Complete(ctx, system, message)
}
