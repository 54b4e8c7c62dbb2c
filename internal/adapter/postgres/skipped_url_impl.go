package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/schema-scanner/internal/entity"
)

// queueSkippedURLs adds one insert per skipped URL to batch.
func queueSkippedURLs(batch *pgx.Batch, scanID string, skipped []entity.SkippedURL) {
	for i, s := range skipped {
		batch.Queue(`
			INSERT INTO skipped_urls (scan_id, position, url, depth, reason)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (scan_id, position) DO NOTHING;
		`, scanID, i, s.URL, s.Depth, s.Reason)
	}
}

// findSkippedURLs retrieves the skipped URLs of a scan in crawl order.
func findSkippedURLs(ctx context.Context, db *pgxpool.Pool, scanID string) ([]entity.SkippedURL, error) {
	rows, err := db.Query(ctx, `
		SELECT url, depth, reason
		FROM skipped_urls
		WHERE scan_id = $1
		ORDER BY position ASC;
	`, scanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skipped []entity.SkippedURL
	for rows.Next() {
		var s entity.SkippedURL
		if err := rows.Scan(&s.URL, &s.Depth, &s.Reason); err != nil {
			return nil, err
		}
		skipped = append(skipped, s)
	}
	return skipped, rows.Err()
}
