package input

import (
	"context"

	"pocatalog/internal/domain/entities"
)

// CatalogUseCase is what adapters (Discord, CLI) need from the catalog service.
type CatalogUseCase interface {
	Load(ctx context.Context, data []byte) (*entities.Catalog, error)
	LoadDir(ctx context.Context, dir string) ([]string, error)
	Lookup(locale, key string) (string, bool)
	Catalog(locale string) (*entities.Catalog, error)
	Locales() []string
	Stats(locale string) (entities.Stats, error)
	Serialize(locale string) ([]byte, error)
	Export(locale, format string) ([]byte, error)
	Persist(ctx context.Context, locale string) (string, error)
	Restore(ctx context.Context, locale string) (*entities.Catalog, error)
	Snapshots(ctx context.Context, locale string) ([]entities.Snapshot, error)
}
