package repository

import "errors"

// Fetch failures. Adapters wrap these with %w so callers can classify them.
var (
	ErrFetchTimeout     = errors.New("page fetch timed out")
	ErrNavigationFailed = errors.New("page navigation failed")
	ErrBadStatus        = errors.New("page returned a non-2xx status")
)

// ErrScanNotFound is returned by scan stores for unknown identifiers.
var ErrScanNotFound = errors.New("scan not found")
