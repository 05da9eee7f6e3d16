package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"pocatalog/internal/domain/entities"
)

// gettextJSON is the document msg-select --json produces.
type gettextJSON struct {
	HeaderComment string         `json:"header_comment"`
	HeaderMeta    string         `json:"header_meta"`
	Entries       []gettextEntry `json:"entries"`
}

type gettextEntry struct {
	MsgCtxt       *string  `json:"msgctxt,omitempty"`
	MsgID         string   `json:"msgid"`
	MsgStr        string   `json:"msgstr"`
	MsgIDPlural   string   `json:"msgid_plural,omitempty"`
	MsgStrPlural  []string `json:"msgstr_plural,omitempty"`
	Comments      []string `json:"comments,omitempty"`
	References    []string `json:"references,omitempty"`
	Flags         []string `json:"flags,omitempty"`
	Fuzzy         bool     `json:"fuzzy"`
	Obsolete      bool     `json:"obsolete,omitempty"`
	MsgIDPrevious string   `json:"msgid_previous,omitempty"`
}

// JSONExporter writes every entry, fuzzy and obsolete ones included, so
// the document can be edited and turned back into PO by other tools.
type JSONExporter struct{}

func (JSONExporter) Format() string { return "json" }

func (JSONExporter) Export(c *entities.Catalog) ([]byte, error) {
	h := c.Header()
	doc := gettextJSON{
		HeaderMeta: h.String(),
		Entries:    make([]gettextEntry, 0, c.Len()),
	}
	if len(h.Comments) > 0 {
		doc.HeaderComment = "# " + strings.Join(h.Comments, "\n# ") + "\n"
	}
	for e := range c.Entries() {
		refs := make([]string, 0, len(e.References))
		for _, r := range e.References {
			refs = append(refs, r.String())
		}
		var msgctxt *string
		if e.HasContext || e.Context != "" {
			msgctxt = &e.Context
		}
		doc.Entries = append(doc.Entries, gettextEntry{
			MsgCtxt:       msgctxt,
			MsgID:         e.Key,
			MsgStr:        e.Translation,
			MsgIDPlural:   e.KeyPlural,
			MsgStrPlural:  e.Plurals,
			Comments:      e.Comments,
			References:    refs,
			Flags:         e.Flags,
			Fuzzy:         e.Fuzzy,
			Obsolete:      e.Obsolete,
			MsgIDPrevious: e.PreviousKey,
		})
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return out, nil
}
