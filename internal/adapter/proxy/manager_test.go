package proxy

import (
	"testing"
)

func TestManager(t *testing.T) {
	t.Parallel()

	t.Run("proxies rotate in order", func(t *testing.T) {
		t.Parallel()
		m := NewManager([]string{"http://p1:8080", "", "http://p2:8080"}, nil)
		want := []string{"http://p1:8080", "http://p2:8080", "http://p1:8080"}
		for i, w := range want {
			if got := m.GetProxy(); got != w {
				t.Errorf("call %d: expected %q, got %q", i, w, got)
			}
		}
	})

	t.Run("no proxies", func(t *testing.T) {
		t.Parallel()
		if got := NewManager(nil, nil).GetProxy(); got != "" {
			t.Errorf("expected no proxy, got %q", got)
		}
	})

	t.Run("user agents come from the configured list", func(t *testing.T) {
		t.Parallel()
		m := NewManager(nil, []string{"a", "b"})
		for i := 0; i < 20; i++ {
			if ua := m.GetUserAgent(); ua != "a" && ua != "b" {
				t.Fatalf("unexpected user agent %q", ua)
			}
		}
	})

	t.Run("defaults when none configured", func(t *testing.T) {
		t.Parallel()
		ua := NewManager(nil, nil).GetUserAgent()
		found := false
		for _, d := range DefaultUserAgents {
			if ua == d {
				found = true
			}
		}
		if !found {
			t.Errorf("expected a default user agent, got %q", ua)
		}
	})
}
