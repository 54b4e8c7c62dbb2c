package memory

import (
	"context"
	"sync"

	"github.com/user/schema-scanner/internal/entity"
	"github.com/user/schema-scanner/internal/repository"
	"github.com/user/schema-scanner/pkg/utils"
)

// ScanRepoImpl keeps scans in process memory. It backs the CLI and tests, and
// the API when no Redis address is configured.
type ScanRepoImpl struct {
	mu       sync.RWMutex
	scans    map[string]*entity.ScanRecord
	latestBy map[string]string
}

// NewScanRepo creates an empty in-memory store.
func NewScanRepo() *ScanRepoImpl {
	return &ScanRepoImpl{
		scans:    make(map[string]*entity.ScanRecord),
		latestBy: make(map[string]string),
	}
}

// Save stores a copy of scan.
func (r *ScanRepoImpl) Save(_ context.Context, scan *entity.ScanRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, existed := r.scans[scan.ID]
	r.scans[scan.ID] = scan.Clone()
	if !existed {
		if key, err := utils.NormalizeURL(scan.URL); err == nil {
			r.latestBy[key] = scan.ID
		}
	}
	return nil
}

// FindByID returns a copy of the stored scan.
func (r *ScanRepoImpl) FindByID(_ context.Context, id string) (*entity.ScanRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	scan, ok := r.scans[id]
	if !ok {
		return nil, repository.ErrScanNotFound
	}
	return scan.Clone(), nil
}

// FindLatestByURL returns the last scan started for the normalized url.
func (r *ScanRepoImpl) FindLatestByURL(ctx context.Context, url string) (*entity.ScanRecord, error) {
	r.mu.RLock()
	id, ok := r.latestBy[url]
	r.mu.RUnlock()
	if !ok {
		return nil, repository.ErrScanNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *ScanRepoImpl) Ping(context.Context) error { return nil }
