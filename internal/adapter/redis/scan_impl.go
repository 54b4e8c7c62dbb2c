package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/schema-scanner/internal/entity"
	"github.com/user/schema-scanner/internal/repository"
	"github.com/user/schema-scanner/pkg/utils"
)

const (
	scanKeyPrefix    = "scan:"
	historyKeyPrefix = "scan:history:"
)

// ScanRepoImpl provides a concrete implementation for the ScanRepository interface using Redis.
// Each scan is stored as a JSON string that expires after the retention period;
// a sorted set per normalized URL orders scans by creation time.
type ScanRepoImpl struct {
	client    *redis.Client
	retention time.Duration
}

// NewScanRepo creates a new instance of ScanRepoImpl.
func NewScanRepo(client *redis.Client, retention time.Duration) *ScanRepoImpl {
	return &ScanRepoImpl{client: client, retention: retention}
}

func (r *ScanRepoImpl) scanKey(id string) string {
	return scanKeyPrefix + id
}

// historyKey hashes the URL so arbitrary URLs make safe keys.
func (r *ScanRepoImpl) historyKey(url string) string {
	return historyKeyPrefix + utils.HashURL(url)
}

// Save replaces the stored state of scan and refreshes its expiry.
func (r *ScanRepoImpl) Save(ctx context.Context, scan *entity.ScanRecord) error {
	payload, err := json.Marshal(scan)
	if err != nil {
		return fmt.Errorf("failed to encode scan %s: %w", scan.ID, err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.scanKey(scan.ID), payload, r.retention)
		if key, err := utils.NormalizeURL(scan.URL); err == nil {
			hk := r.historyKey(key)
			pipe.ZAdd(ctx, hk, redis.Z{Score: float64(scan.CreatedAt.UnixNano()), Member: scan.ID})
			if r.retention > 0 {
				pipe.Expire(ctx, hk, r.retention)
			}
		}
		return nil
	})
	return err
}

// FindByID returns repository.ErrScanNotFound once the scan has expired.
func (r *ScanRepoImpl) FindByID(ctx context.Context, id string) (*entity.ScanRecord, error) {
	payload, err := r.client.Get(ctx, r.scanKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrScanNotFound
	}
	if err != nil {
		return nil, err
	}

	var scan entity.ScanRecord
	if err := json.Unmarshal(payload, &scan); err != nil {
		return nil, fmt.Errorf("failed to decode scan %s: %w", id, err)
	}
	return &scan, nil
}

// FindLatestByURL looks up the newest scan id for url and loads it.
func (r *ScanRepoImpl) FindLatestByURL(ctx context.Context, url string) (*entity.ScanRecord, error) {
	ids, err := r.client.ZRevRange(ctx, r.historyKey(url), 0, 0).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, repository.ErrScanNotFound
	}
	return r.FindByID(ctx, ids[0])
}

func (r *ScanRepoImpl) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
