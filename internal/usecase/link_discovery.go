package usecase

import (
	"path"
	"strings"

	"github.com/user/schema-scanner/pkg/utils"
)

// ignoredExtensions are paths that never carry page markup.
var ignoredExtensions = map[string]struct{}{
	".pdf": {}, ".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {},
	".css": {}, ".js": {}, ".xml": {}, ".ico": {}, ".zip": {},
}

// DiscoverLinks resolves hrefs against pageURL and keeps the unique,
// query- and fragment-free URLs that share boundary's origin and do not point
// at a static asset. Order is first-seen.
func DiscoverLinks(pageURL, boundary string, hrefs []string) []string {
	base, err := utils.ParseAbsolute(pageURL)
	if err != nil {
		return nil
	}
	bound, err := utils.ParseAbsolute(boundary)
	if err != nil {
		return nil
	}
	origin := utils.Origin(bound)

	seen := make(map[string]struct{})
	links := []string{}
	for _, href := range hrefs {
		resolved, err := utils.ToAbsoluteURL(base, href)
		if err != nil {
			continue
		}
		if utils.Origin(resolved) != origin {
			continue
		}
		if isIgnoredExtension(resolved.Path) {
			continue
		}
		key := utils.Normalize(resolved)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		links = append(links, key)
	}
	return links
}

func isIgnoredExtension(p string) bool {
	_, ok := ignoredExtensions[strings.ToLower(path.Ext(p))]
	return ok
}
