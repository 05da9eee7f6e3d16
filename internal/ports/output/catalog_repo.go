package output

import (
	"context"

	"pocatalog/internal/domain/entities"
)

// CatalogRepository stores catalog snapshots.
type CatalogRepository interface {
	// Save stores c as a new snapshot and returns its ID.
	Save(ctx context.Context, c *entities.Catalog) (string, error)
	// FindLatestByLanguage returns the most recent snapshot for a canonical
	// language tag, or domain.ErrCatalogNotFound.
	FindLatestByLanguage(ctx context.Context, lang string) (*entities.Catalog, error)
	// ListByLanguage returns snapshot descriptions, newest first.
	ListByLanguage(ctx context.Context, lang string) ([]entities.Snapshot, error)
}
