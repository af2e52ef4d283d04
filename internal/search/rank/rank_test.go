package rank

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://en.wikipedia.org/wiki/Gravity", TypeEncyclopedia},
		{"https://arxiv.org/abs/2101.00001", TypeResearchPaper},
		{"https://www.researchgate.net/publication/42", TypeResearchPaper},
		{"https://github.com/golang/go", TypeCodeRepo},
		{"https://stackoverflow.com/questions/1", TypeQAForum},
		{"https://medium.com/@someone/post", TypeBlog},
		{"https://dev.to/someone/post", TypeBlog},
		{"https://cs.stanford.edu/research", TypeAcademic},
		{"https://www.nasa.gov/missions", TypeGovernment},
		{"https://news.ycombinator.com/item?id=1", TypeNews},
		{"https://www.bbc.com/news/science", TypeNews},
		{"https://example.com/page", TypeWebPage},
	}
	for _, tc := range cases {
		if got := Classify(tc.url); got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// wikipedia precedes .edu in the rule table
	if got := Classify("https://wikipedia.org.someuni.edu/x"); got != TypeEncyclopedia {
		t.Fatalf("got %q, want %q", got, TypeEncyclopedia)
	}
}

func TestScore(t *testing.T) {
	longDesc := make([]byte, 101)
	for i := range longDesc {
		longDesc[i] = 'a'
	}

	cases := []struct {
		name  string
		title string
		desc  string
		url   string
		date  string
		want  float64
	}{
		{"bare", "", "", "https://example.com", "", 0.5},
		{"title only", "A Title", "", "https://example.com", "", 0.7},
		{"long description", "", string(longDesc), "https://example.com", "", 0.6},
		{"short description no boost", "", "short", "https://example.com", "", 0.5},
		{"date", "", "", "https://example.com", "2024-01-01", 0.6},
		{"wikipedia bonus", "", "", "https://en.wikipedia.org/wiki/X", "", 0.7},
		{"edu bonus", "", "", "https://mit.edu/x", "", 0.65},
		{"github bonus", "", "", "https://github.com/x/y", "", 0.6},
		{"everything clamped", "T", string(longDesc), "https://arxiv.org/abs/1", "2024-01-01", 1.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(tc.title, tc.desc, tc.url, tc.date)
			if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("Score() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestScoreSingleAuthorityBonus(t *testing.T) {
	// a URL matching several authority patterns gets only the first bonus
	got := Score("", "", "https://arxiv.org.github.com/x", "")
	want := 0.7
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("Score() = %v, want %v", got, want)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(-0.5); got != 0 {
		t.Errorf("Clamp(-0.5) = %v, want 0", got)
	}
	if got := Clamp(1.5); got != 1 {
		t.Errorf("Clamp(1.5) = %v, want 1", got)
	}
	if got := Clamp(0.42); got != 0.42 {
		t.Errorf("Clamp(0.42) = %v, want 0.42", got)
	}
}
