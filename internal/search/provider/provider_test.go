package provider

import "testing"

func TestNew(t *testing.T) {
	for _, kind := range []Kind{GoogleProvider, BingProvider, DuckDuckGoProvider} {
		s, err := New(kind, Credentials{APIKey: "k", EngineID: "cx"})
		if err != nil {
			t.Errorf("New(%q): %v", kind, err)
		}
		if s == nil {
			t.Errorf("New(%q) returned nil searcher", kind)
		}
	}
}

func TestNewUnsupported(t *testing.T) {
	if _, err := New(Kind("yandex"), Credentials{}); err != ErrUnsupportedProvider {
		t.Fatalf("err = %v, want ErrUnsupportedProvider", err)
	}
}
