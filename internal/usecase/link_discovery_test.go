package usecase

import (
	"reflect"
	"testing"
)

func TestDiscoverLinks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pageURL  string
		boundary string
		hrefs    []string
		want     []string
	}{
		{
			name:     "cross origin assets and variants are filtered",
			pageURL:  "https://ex.com",
			boundary: "https://ex.com",
			hrefs:    []string{"/about", "https://other.com/x", "/img.png", "/about?x=1#y"},
			want:     []string{"https://ex.com/about"},
		},
		{
			name:     "relative links resolve against the page",
			pageURL:  "https://ex.com/blog/post",
			boundary: "https://ex.com/",
			hrefs:    []string{"next", "../contact", "//ex.com/team"},
			want:     []string{"https://ex.com/blog/next", "https://ex.com/contact", "https://ex.com/team"},
		},
		{
			name:     "scheme and port define the origin",
			pageURL:  "https://ex.com/",
			boundary: "https://ex.com/",
			hrefs:    []string{"http://ex.com/a", "https://ex.com:8443/b", "https://EX.com:443/c"},
			want:     []string{"https://ex.com/c"},
		},
		{
			name:     "non http schemes and uppercase extensions",
			pageURL:  "https://ex.com/",
			boundary: "https://ex.com/",
			hrefs:    []string{"mailto:a@ex.com", "javascript:void(0)", "/Report.PDF", "/styles/site.css", "/page"},
			want:     []string{"https://ex.com/page"},
		},
		{
			name:     "no anchors",
			pageURL:  "https://ex.com/",
			boundary: "https://ex.com/",
			hrefs:    nil,
			want:     []string{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := DiscoverLinks(tt.pageURL, tt.boundary, tt.hrefs)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
