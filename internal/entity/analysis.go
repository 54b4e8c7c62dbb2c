package entity

import "time"

// HealthStatus is the coarse classification of a schema population.
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthWarning  HealthStatus = "warning"
	HealthCritical HealthStatus = "critical"
)

// ConsistencyIssue flags a schema type that is declared with more than one identifier.
type ConsistencyIssue struct {
	Type    string   `json:"type"`
	IDs     []string `json:"ids"`
	Message string   `json:"message"`
}

// Health is the quick-check verdict.
type Health struct {
	Status         HealthStatus `json:"status"`
	CriticalIssues int          `json:"critical_issues"`
}

// EntitySummary counts the objects of one schema type.
type EntitySummary struct {
	Type      string `json:"type"`
	Count     int    `json:"count"`
	WithID    int    `json:"with_id"`
	WithoutID int    `json:"without_id"`
}

// Analysis is the derived report for a scan. It is recomputed from the
// pages on every run and never stored on its own.
type Analysis struct {
	PagesScanned     int                `json:"pages_scanned"`
	SkippedCount     int                `json:"skipped_count"`
	SchemasFound     int                `json:"schemas_found"`
	SchemasWithoutID int                `json:"schemas_without_id"`
	Issues           []ConsistencyIssue `json:"consistency_issues"`
	Score            int                `json:"score"`
	Health           Health             `json:"health"`
	Recommendations  []string           `json:"recommendations"`
	Entities         []EntitySummary    `json:"entities,omitempty"`
}

// HealthReport is the result of a quick structured-data check of one page.
type HealthReport struct {
	URL              string       `json:"url"`
	Status           HealthStatus `json:"status"`
	CriticalIssues   int          `json:"critical_issues"`
	SchemasFound     int          `json:"schemas_found"`
	SchemasWithoutID int          `json:"schemas_without_id"`
	IssuesFound      int          `json:"issues_found"`
	Score            int          `json:"score"`
	CheckedAt        time.Time    `json:"checked_at"`
}
