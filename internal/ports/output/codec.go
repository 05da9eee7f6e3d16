package output

import (
	"time"

	"pocatalog/internal/domain/entities"
)

// CatalogCodec converts catalogs from and to their on-disk form.
type CatalogCodec interface {
	Decode(data []byte) (*entities.Catalog, error)
	Encode(c *entities.Catalog, now time.Time) ([]byte, error)
}

// Exporter renders a catalog in another message-file format.
type Exporter interface {
	Format() string
	Export(c *entities.Catalog) ([]byte, error)
}

// ExporterRegistry resolves exporters by format name.
type ExporterRegistry interface {
	Get(format string) (Exporter, bool)
}
