package export

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"pocatalog/internal/domain/entities"
)

// TOMLExporter writes a go-i18n message file (active.<lang>.toml).
type TOMLExporter struct{}

func (TOMLExporter) Format() string { return "toml" }

func (TOMLExporter) Export(c *entities.Catalog) ([]byte, error) {
	msgs := map[string]any{}
	liveEntries(c, func(e entities.Entry) {
		msgs[e.ID()] = messageFields(c, e)
	})
	out, err := toml.Marshal(msgs)
	if err != nil {
		return nil, fmt.Errorf("marshal toml: %w", err)
	}
	return out, nil
}

// messageFields maps an entry to go-i18n's message fields. Two-form
// catalogs put msgstr[0] in "one" and msgstr[1] in "other"; any other
// plural layout keeps only the first form.
func messageFields(c *entities.Catalog, e entities.Entry) map[string]string {
	fields := map[string]string{}
	if e.Comments != nil {
		fields["description"] = strings.Join(e.Comments, "\n")
	}
	switch {
	case !e.IsPlural():
		fields["other"] = e.Translation
	case len(e.Plurals) == 2 && c.PluralForms().NPlurals == 2:
		fields["one"] = e.Plurals[0]
		fields["other"] = e.Plurals[1]
	default:
		fields["other"] = e.Plurals[0]
	}
	return fields
}
