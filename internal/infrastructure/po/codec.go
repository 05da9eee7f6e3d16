package po

import (
	"time"

	"pocatalog/internal/domain/entities"
	"pocatalog/internal/ports/output"
)

var _ output.CatalogCodec = Codec{}

// Codec adapts Decode and Encode to the output.CatalogCodec port.
type Codec struct {
	Strict bool
}

func (c Codec) Decode(data []byte) (*entities.Catalog, error) {
	if c.Strict {
		return Decode(data, Strict())
	}
	return Decode(data)
}

func (Codec) Encode(cat *entities.Catalog, now time.Time) ([]byte, error) {
	return Encode(cat, now)
}
