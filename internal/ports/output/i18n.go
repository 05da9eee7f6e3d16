package output

import "pocatalog/internal/domain/entities"

// Translator exposes a minimal i18n contract for user-facing messages.
// Implementations provide message lookup + templating for a given locale.
type T interface {
	// T renders the message identified by key for the given locale.
	// data is an optional map used for template placeholders (may be nil).
	T(locale, key string, data map[string]any) string
}

// CatalogSink receives every catalog the service registers, so runtime
// translators can serve it. PrepareCatalogs stages a batch without changing
// what is served; the returned commit makes it live and cannot fail. A
// staged batch that is never committed is dropped.
type CatalogSink interface {
	PrepareCatalogs(cs []*entities.Catalog) (commit func(), err error)
}
