package export

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"pocatalog/internal/domain/entities"
)

// str tags s as a string so values such as "true" or "42" stay strings.
func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// YAMLExporter writes a flat key → translation document. Plural entries
// become a mapping from plural index to text.
type YAMLExporter struct{}

func (YAMLExporter) Format() string { return "yaml" }

func (YAMLExporter) Export(c *entities.Catalog) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	liveEntries(c, func(e entities.Entry) {
		key := str(e.ID())
		if !e.IsPlural() {
			doc.Content = append(doc.Content, key, str(e.Translation))
			return
		}
		forms := &yaml.Node{Kind: yaml.MappingNode}
		for i, p := range e.Plurals {
			forms.Content = append(forms.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(i)},
				str(p),
			)
		}
		doc.Content = append(doc.Content, key, forms)
	})
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return out, nil
}
