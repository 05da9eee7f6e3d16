// Package export renders loaded catalogs in other message-file formats.
package export

import (
	"slices"
	"time"

	"pocatalog/internal/domain/entities"
	"pocatalog/internal/infrastructure/po"
	"pocatalog/internal/ports/output"
)

var _ output.ExporterRegistry = (*Registry)(nil)

// Registry resolves exporters by format name.
type Registry struct {
	byFormat map[string]output.Exporter
}

func New() *Registry { return &Registry{byFormat: map[string]output.Exporter{}} }

// Default returns a registry with every built-in format.
func Default() *Registry {
	r := New()
	r.Register(POExporter{})
	r.Register(TOMLExporter{})
	r.Register(YAMLExporter{})
	r.Register(JSONExporter{})
	return r
}

func (r *Registry) Register(e output.Exporter) { r.byFormat[e.Format()] = e }

func (r *Registry) Get(format string) (output.Exporter, bool) {
	e, ok := r.byFormat[format]
	return e, ok
}

// Formats lists the registered format names, sorted.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.byFormat))
	for f := range r.byFormat {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// POExporter writes the catalog back as PO, keeping its revision date.
type POExporter struct{}

func (POExporter) Format() string { return "po" }

func (POExporter) Export(c *entities.Catalog) ([]byte, error) {
	return po.Encode(c, time.Time{})
}

// liveEntries yields the entries other formats can express: live,
// translated and not fuzzy. Duplicates keep the first occurrence, as lookup does.
func liveEntries(c *entities.Catalog, fn func(e entities.Entry)) {
	seen := map[string]bool{}
	for e := range c.Entries() {
		if e.Obsolete || seen[e.ID()] {
			continue
		}
		seen[e.ID()] = true
		if e.IsVerified() {
			fn(e)
		}
	}
}
