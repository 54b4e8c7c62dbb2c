package response

import "time"

// SubmitScanResponse is returned when a site scan has been queued.
type SubmitScanResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	ScanID  string `json:"scan_id"`
}

// ScanStatusResponse is a short view of a scan for status polling by URL.
type ScanStatusResponse struct {
	ScanID       string     `json:"scan_id"`
	URL          string     `json:"url"`
	Type         string     `json:"type"`
	Status       string     `json:"status"`
	PagesScanned int        `json:"pages_scanned"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	Error        string     `json:"error,omitempty"`
}

// ErrorResponse is the JSON shape returned on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
