package utils

import (
	"testing"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "adds root path", raw: "https://ex.com", want: "https://ex.com/"},
		{name: "drops query and fragment", raw: "https://ex.com/a?b=1#c", want: "https://ex.com/a"},
		{name: "lowercases scheme and host", raw: "HTTPS://Ex.COM/Path", want: "https://ex.com/Path"},
		{name: "elides default port", raw: "http://ex.com:80/x", want: "http://ex.com/x"},
		{name: "keeps other ports", raw: "https://ex.com:8443/x", want: "https://ex.com:8443/x"},
		{name: "trims whitespace", raw: "  https://ex.com/x  ", want: "https://ex.com/x"},
		{name: "rejects relative", raw: "/about", wantErr: true},
		{name: "rejects other schemes", raw: "ftp://ex.com/", wantErr: true},
		{name: "rejects missing host", raw: "https:///x", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := NormalizeURL(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestToAbsoluteURL(t *testing.T) {
	t.Parallel()

	base, err := ParseAbsolute("https://ex.com/blog/post")
	if err != nil {
		t.Fatal(err)
	}
	u, err := ToAbsoluteURL(base, " ../about ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.String() != "https://ex.com/about" {
		t.Errorf("expected https://ex.com/about, got %s", u)
	}
}

func TestResolveURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		base    string
		ref     string
		want    string
		wantErr bool
	}{
		{name: "root relative", base: "https://ex.com/index.html", ref: "/", want: "https://ex.com/"},
		{name: "already absolute", base: "https://ex.com/a", ref: "https://ex.com/b", want: "https://ex.com/b"},
		{name: "relative base", base: "/index.html", ref: "/", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ResolveURL(tt.base, tt.ref)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestHashURL(t *testing.T) {
	t.Parallel()

	if HashURL("https://ex.com/") != HashURL("https://ex.com/") {
		t.Error("hash must be deterministic")
	}
	if HashURL("https://ex.com/a") == HashURL("https://ex.com/b") {
		t.Error("different urls must hash differently")
	}
	if len(HashURL("x")) != 64 {
		t.Error("expected hex encoded sha256")
	}
}
