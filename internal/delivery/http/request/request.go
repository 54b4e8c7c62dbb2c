package request

import "github.com/user/schema-scanner/internal/entity"

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	URL     string             `json:"url"`
	Options *SinglePageOptions `json:"options,omitempty"`
}

// SinglePageOptions toggles analysis stages; omitted flags default to true.
type SinglePageOptions struct {
	DeepScan         *bool `json:"deep_scan,omitempty"`
	EntityAnalysis   *bool `json:"entity_analysis,omitempty"`
	ConsistencyCheck *bool `json:"consistency_check,omitempty"`
	Recommendations  *bool `json:"recommendations,omitempty"`
}

// ToScanOptions resolves omitted flags to their defaults.
func (o *SinglePageOptions) ToScanOptions() entity.ScanOptions {
	opts := entity.DefaultScanOptions()
	if o == nil {
		return opts
	}
	opts.DeepScan = boolOr(o.DeepScan, opts.DeepScan)
	opts.EntityAnalysis = boolOr(o.EntityAnalysis, opts.EntityAnalysis)
	opts.ConsistencyCheck = boolOr(o.ConsistencyCheck, opts.ConsistencyCheck)
	opts.Recommendations = boolOr(o.Recommendations, opts.Recommendations)
	return opts
}

// HealthCheckRequest is the body of POST /api/health-check.
type HealthCheckRequest struct {
	URL string `json:"url"`
}

// SiteScanRequest is the body of POST /api/scans.
type SiteScanRequest struct {
	URL     string           `json:"url"`
	Options *SiteScanOptions `json:"options,omitempty"`
}

// SiteScanOptions sets the crawl budgets. An omitted crawl_depth or a
// max_pages of zero selects the server default.
type SiteScanOptions struct {
	MaxPages        int   `json:"max_pages"`
	CrawlDepth      *int  `json:"crawl_depth,omitempty"`
	IncludeSitemaps bool  `json:"include_sitemaps"`
	DeepScan        *bool `json:"deep_scan,omitempty"`
}

// ToScanOptions runs every analysis stage; links are only listed on request.
func (o *SiteScanOptions) ToScanOptions() entity.ScanOptions {
	opts := entity.DefaultScanOptions()
	opts.DeepScan = false
	if o == nil {
		return opts
	}
	opts.MaxPages = o.MaxPages
	opts.CrawlDepth = o.CrawlDepth
	opts.IncludeSitemaps = o.IncludeSitemaps
	opts.DeepScan = boolOr(o.DeepScan, false)
	return opts
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
