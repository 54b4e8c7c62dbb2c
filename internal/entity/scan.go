package entity

import "time"

// ScanType distinguishes a one-off page analysis from a site crawl.
type ScanType string

const (
	ScanTypeSinglePage ScanType = "single_page"
	ScanTypeSiteScan   ScanType = "site_scan"
)

// ScanStatus is the lifecycle state of a ScanRecord.
// Completed and failed are terminal.
type ScanStatus string

const (
	ScanStatusPending   ScanStatus = "pending"
	ScanStatusRunning   ScanStatus = "running"
	ScanStatusCompleted ScanStatus = "completed"
	ScanStatusFailed    ScanStatus = "failed"
)

// IsTerminal reports whether no further transitions are allowed from s.
func (s ScanStatus) IsTerminal() bool {
	return s == ScanStatusCompleted || s == ScanStatusFailed
}

// ScanOptions is the configuration snapshot a scan was started with.
// The single-page flags and the site-scan budgets share one struct so the
// snapshot can be stored verbatim on the record.
type ScanOptions struct {
	DeepScan         bool `json:"deep_scan"`
	EntityAnalysis   bool `json:"entity_analysis"`
	ConsistencyCheck bool `json:"consistency_check"`
	Recommendations  bool `json:"recommendations"`

	MaxPages        int  `json:"max_pages,omitempty"`
	CrawlDepth      *int `json:"crawl_depth,omitempty"`
	IncludeSitemaps bool `json:"include_sitemaps,omitempty"`
}

// DefaultScanOptions enables every analysis stage.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		DeepScan:         true,
		EntityAnalysis:   true,
		ConsistencyCheck: true,
		Recommendations:  true,
	}
}

// Depth returns the crawl depth, or fallback when it is unset or negative.
// A depth of 0 scans only the start page.
func (o ScanOptions) Depth(fallback int) int {
	if o.CrawlDepth == nil || *o.CrawlDepth < 0 {
		return fallback
	}
	return *o.CrawlDepth
}

// ScanRecord is the unit of work and result of one analysis run.
type ScanRecord struct {
	ID          string       `json:"scan_id"`
	URL         string       `json:"url"`
	Type        ScanType     `json:"type"`
	Status      ScanStatus   `json:"status"`
	Options     ScanOptions  `json:"options"`
	Pages       []PageResult `json:"pages"`
	Skipped     []SkippedURL `json:"skipped,omitempty"`
	Analysis    *Analysis    `json:"analysis,omitempty"`
	Error       string       `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}

// Schemas returns the schema population of every page, in visit order.
func (r *ScanRecord) Schemas() []SchemaObject {
	var all []SchemaObject
	for _, p := range r.Pages {
		all = append(all, p.Schemas...)
	}
	return all
}

// Clone returns a copy that shares no mutable slices with r.
// Pages, schemas and the analysis are immutable once created and are shared.
func (r *ScanRecord) Clone() *ScanRecord {
	c := *r
	c.Pages = append([]PageResult(nil), r.Pages...)
	c.Skipped = append([]SkippedURL(nil), r.Skipped...)
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}
