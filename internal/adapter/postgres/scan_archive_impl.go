package postgres

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/schema-scanner/internal/entity"
	"github.com/user/schema-scanner/internal/repository"
)

//go:embed schema.sql
var schemaSQL string

// ScanArchiveRepoImpl provides a concrete implementation for the ScanArchiveRepository interface using PostgreSQL.
type ScanArchiveRepoImpl struct {
	db *pgxpool.Pool
}

// NewScanArchiveRepo creates a new instance of ScanArchiveRepoImpl.
func NewScanArchiveRepo(db *pgxpool.Pool) *ScanArchiveRepoImpl {
	return &ScanArchiveRepoImpl{db: db}
}

// EnsureSchema creates the archive tables if they do not exist.
func (r *ScanArchiveRepoImpl) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, schemaSQL)
	return err
}

func (r *ScanArchiveRepoImpl) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// Archive stores a terminal scan with its pages and skipped URLs in one transaction.
func (r *ScanArchiveRepoImpl) Archive(ctx context.Context, scan *entity.ScanRecord) error {
	optionsJSON, err := json.Marshal(scan.Options)
	if err != nil {
		return err
	}
	var analysisJSON []byte
	if scan.Analysis != nil {
		if analysisJSON, err = json.Marshal(scan.Analysis); err != nil {
			return err
		}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO scans (id, url, scan_type, status, options, analysis, error, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING;
	`,
		scan.ID,
		scan.URL,
		string(scan.Type),
		string(scan.Status),
		optionsJSON,
		analysisJSON,
		scan.Error,
		scan.CreatedAt,
		scan.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert scan %s: %w", scan.ID, err)
	}

	batch := &pgx.Batch{}
	for i, page := range scan.Pages {
		schemasJSON, err := json.Marshal(page.Schemas)
		if err != nil {
			return err
		}
		var linksJSON []byte
		if page.Links != nil {
			if linksJSON, err = json.Marshal(page.Links); err != nil {
				return err
			}
		}
		batch.Queue(`
			INSERT INTO scan_pages (scan_id, position, url, title, canonical_url, status_code, depth, schemas, malformed_payloads, links, scanned_at, error)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (scan_id, position) DO NOTHING;
		`,
			scan.ID, i, page.URL, page.Title, page.CanonicalURL, page.StatusCode, page.Depth,
			schemasJSON, page.MalformedPayloads, linksJSON, page.ScannedAt, page.Error,
		)
	}
	queueSkippedURLs(batch, scan.ID, scan.Skipped)

	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert pages of scan %s: %w", scan.ID, err)
		}
	}
	return tx.Commit(ctx)
}

// FindByID rebuilds an archived scan.
func (r *ScanArchiveRepoImpl) FindByID(ctx context.Context, id string) (*entity.ScanRecord, error) {
	var (
		scan         entity.ScanRecord
		scanType     string
		status       string
		optionsJSON  []byte
		analysisJSON []byte
	)
	err := r.db.QueryRow(ctx, `
		SELECT id::text, url, scan_type, status, options, analysis, error, created_at, completed_at
		FROM scans
		WHERE id = $1;
	`, id).Scan(
		&scan.ID,
		&scan.URL,
		&scanType,
		&status,
		&optionsJSON,
		&analysisJSON,
		&scan.Error,
		&scan.CreatedAt,
		&scan.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrScanNotFound
	}
	if err != nil {
		return nil, err
	}
	scan.Type = entity.ScanType(scanType)
	scan.Status = entity.ScanStatus(status)

	if err := json.Unmarshal(optionsJSON, &scan.Options); err != nil {
		return nil, err
	}
	if len(analysisJSON) > 0 {
		scan.Analysis = &entity.Analysis{}
		if err := json.Unmarshal(analysisJSON, scan.Analysis); err != nil {
			return nil, err
		}
	}

	if scan.Pages, err = r.findPages(ctx, id); err != nil {
		return nil, err
	}
	if scan.Skipped, err = findSkippedURLs(ctx, r.db, id); err != nil {
		return nil, err
	}
	return &scan, nil
}

func (r *ScanArchiveRepoImpl) findPages(ctx context.Context, scanID string) ([]entity.PageResult, error) {
	rows, err := r.db.Query(ctx, `
		SELECT url, title, canonical_url, status_code, depth, schemas, malformed_payloads, links, scanned_at, error
		FROM scan_pages
		WHERE scan_id = $1
		ORDER BY position ASC;
	`, scanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pages := []entity.PageResult{}
	for rows.Next() {
		var (
			page        entity.PageResult
			schemasJSON []byte
			linksJSON   []byte
		)
		if err := rows.Scan(
			&page.URL,
			&page.Title,
			&page.CanonicalURL,
			&page.StatusCode,
			&page.Depth,
			&schemasJSON,
			&page.MalformedPayloads,
			&linksJSON,
			&page.ScannedAt,
			&page.Error,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(schemasJSON, &page.Schemas); err != nil {
			return nil, err
		}
		if len(linksJSON) > 0 {
			if err := json.Unmarshal(linksJSON, &page.Links); err != nil {
				return nil, err
			}
		}
		page.SchemasFound = len(page.Schemas)
		pages = append(pages, page)
	}
	return pages, rows.Err()
}
