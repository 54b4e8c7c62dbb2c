// Package htmlpage pulls the structured-data relevant parts out of rendered HTML.
package htmlpage

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/schema-scanner/internal/entity"
	"github.com/user/schema-scanner/pkg/utils"
)

// Parse extracts the title, canonical URL, JSON-LD payloads and anchor
// targets from htmlContent. Payloads and anchors keep document order.
func Parse(pageURL string, statusCode int, htmlContent string) (*entity.FetchedPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	page := &entity.FetchedPage{
		URL:            pageURL,
		StatusCode:     statusCode,
		Title:          strings.TrimSpace(doc.Find("title").First().Text()),
		ScriptPayloads: []string{},
		AnchorHrefs:    []string{},
	}

	if href, ok := doc.Find("link[rel]").FilterFunction(isCanonical).First().Attr("href"); ok {
		page.CanonicalURL = strings.TrimSpace(href)
		if abs, err := utils.ResolveURL(pageURL, href); err == nil {
			page.CanonicalURL = abs
		}
	}

	doc.Find("script[type]").Each(func(i int, s *goquery.Selection) {
		if isJSONLD(s.AttrOr("type", "")) {
			page.ScriptPayloads = append(page.ScriptPayloads, s.Text())
		}
	})

	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		page.AnchorHrefs = append(page.AnchorHrefs, href)
	})

	return page, nil
}

func isCanonical(_ int, s *goquery.Selection) bool {
	for _, rel := range strings.Fields(strings.ToLower(s.AttrOr("rel", ""))) {
		if rel == "canonical" {
			return true
		}
	}
	return false
}

// isJSONLD accepts "application/ld+json" with optional parameters.
func isJSONLD(scriptType string) bool {
	mediaType, _, _ := strings.Cut(scriptType, ";")
	return strings.EqualFold(strings.TrimSpace(mediaType), "application/ld+json")
}
