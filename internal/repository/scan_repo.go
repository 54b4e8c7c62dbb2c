package repository

import (
	"context"

	"github.com/user/schema-scanner/internal/entity"
)

// ScanRepository is the live key-value store polled for scan progress.
type ScanRepository interface {
	// Save stores the current state of a scan, replacing any previous state.
	Save(ctx context.Context, scan *entity.ScanRecord) error
	// FindByID returns ErrScanNotFound for unknown identifiers.
	FindByID(ctx context.Context, id string) (*entity.ScanRecord, error)
	// FindLatestByURL returns the most recently started scan for a normalized URL.
	FindLatestByURL(ctx context.Context, url string) (*entity.ScanRecord, error)
	Ping(ctx context.Context) error
}

// ScanArchiveRepository keeps scans that reached a terminal state.
type ScanArchiveRepository interface {
	// Archive is called exactly once per scan, after it completed or failed.
	Archive(ctx context.Context, scan *entity.ScanRecord) error
	FindByID(ctx context.Context, id string) (*entity.ScanRecord, error)
	Ping(ctx context.Context) error
}
