package discord

import (
	"pocatalog/internal/ports/input"
	"pocatalog/internal/ports/output"
)

// Handler handles Discord interactions using use cases.
type Handler struct {
	catalogs      input.CatalogUseCase
	t             output.T
	defaultLocale string
}

// NewHandler creates a Handler. defaultLocale is the catalog used when a
// command does not name one.
func NewHandler(catalogs input.CatalogUseCase, t output.T, defaultLocale string) *Handler {
	return &Handler{
		catalogs:      catalogs,
		t:             t,
		defaultLocale: defaultLocale,
	}
}
