package htmlpage

import (
	"reflect"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>  Acme Widgets </title>
  <link rel="stylesheet" href="/site.css">
  <link rel="Canonical" href="https://acme.example/widgets">
  <script type="application/ld+json">{"@type":"Organization","@id":"schema:acme"}</script>
  <script type="application/ld+json; charset=utf-8">{"@type":"WebSite"}</script>
  <script type="text/javascript">var x = 1;</script>
  <script>console.log("untyped")</script>
</head>
<body>
  <a href="/about">About</a>
  <a href="#main">Skip</a>
  <a href="">Empty</a>
  <a>No href</a>
  <a href=" https://acme.example/contact ">Contact</a>
</body>
</html>`

func TestParse(t *testing.T) {
	t.Parallel()

	page, err := Parse("https://acme.example/widgets?ref=1", 200, samplePage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("metadata", func(t *testing.T) {
		t.Parallel()
		if page.Title != "Acme Widgets" {
			t.Errorf("expected trimmed title, got %q", page.Title)
		}
		if page.CanonicalURL != "https://acme.example/widgets" {
			t.Errorf("unexpected canonical %q", page.CanonicalURL)
		}
		if page.URL != "https://acme.example/widgets?ref=1" || page.StatusCode != 200 {
			t.Errorf("unexpected url or status: %q %d", page.URL, page.StatusCode)
		}
	})

	t.Run("only json-ld scripts in order", func(t *testing.T) {
		t.Parallel()
		want := []string{`{"@type":"Organization","@id":"schema:acme"}`, `{"@type":"WebSite"}`}
		if !reflect.DeepEqual(page.ScriptPayloads, want) {
			t.Errorf("expected %q, got %q", want, page.ScriptPayloads)
		}
	})

	t.Run("anchors skip empty and fragment links", func(t *testing.T) {
		t.Parallel()
		want := []string{"/about", "https://acme.example/contact"}
		if !reflect.DeepEqual(page.AnchorHrefs, want) {
			t.Errorf("expected %q, got %q", want, page.AnchorHrefs)
		}
	})
}

func TestParse_EmptyDocument(t *testing.T) {
	t.Parallel()

	page, err := Parse("https://acme.example/", 200, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.ScriptPayloads == nil || page.AnchorHrefs == nil {
		t.Error("expected empty, non-nil slices")
	}
	if page.Title != "" || page.CanonicalURL != "" {
		t.Errorf("expected no metadata, got %+v", page)
	}
}

func TestParse_RelativeCanonical(t *testing.T) {
	t.Parallel()

	html := `<html><head><link rel="canonical" href="/"></head><body></body></html>`
	page, err := Parse("https://acme.example/index.html", 200, html)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.CanonicalURL != "https://acme.example/" {
		t.Errorf("expected canonical resolved against the page, got %q", page.CanonicalURL)
	}
}
