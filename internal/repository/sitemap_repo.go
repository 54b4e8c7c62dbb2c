package repository

import "context"

// SitemapRepository lists page URLs advertised by a site's sitemap.
type SitemapRepository interface {
	URLs(ctx context.Context, origin string) ([]string, error)
}
