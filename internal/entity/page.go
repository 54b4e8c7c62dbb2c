package entity

import "time"

// PageResult is what one visited page contributed to a scan.
type PageResult struct {
	URL               string         `json:"url"`
	Title             string         `json:"title"`
	CanonicalURL      string         `json:"canonical_url,omitempty"`
	StatusCode        int            `json:"status_code,omitempty"`
	Depth             int            `json:"depth"`
	Schemas           []SchemaObject `json:"schemas"`
	SchemasFound      int            `json:"schemas_found"`
	MalformedPayloads int            `json:"malformed_payloads,omitempty"`
	Links             []string       `json:"links,omitempty"` // only populated on deep scans
	ScannedAt         time.Time      `json:"scanned_at"`
	Error             string         `json:"error,omitempty"`
}

// SkippedURL records a traversal candidate that could not be scanned.
type SkippedURL struct {
	URL    string `json:"url"`
	Depth  int    `json:"depth"`
	Reason string `json:"reason"`
}

// FetchedPage is what the page fetcher hands back for one navigation.
type FetchedPage struct {
	URL            string
	StatusCode     int
	Title          string
	CanonicalURL   string
	ScriptPayloads []string
	AnchorHrefs    []string
}
