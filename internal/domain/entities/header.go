package entities

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"pocatalog/internal/domain"
)

// RevisionDateLayout is the layout gettext tools use for PO-Revision-Date.
const RevisionDateLayout = "2006-01-02 15:04-0700"

// Well-known header field names.
const (
	FieldProjectIDVersion = "Project-Id-Version"
	FieldRevisionDate     = "PO-Revision-Date"
	FieldLastTranslator   = "Last-Translator"
	FieldLanguage         = "Language"
	FieldContentType      = "Content-Type"
	FieldPluralForms      = "Plural-Forms"
	FieldGenerator        = "X-Generator"
)

// HeaderField is one "Name: Value" line of the header. A line without a
// colon is kept with an empty Name so that it can be written back as is.
// Raw holds the line as read; it is cleared when the field is changed.
type HeaderField struct {
	Name  string
	Value string
	Raw   string
}

func (f HeaderField) line() string {
	switch {
	case f.Raw != "":
		return f.Raw
	case f.Name == "":
		return f.Value
	}
	return f.Name + ": " + f.Value
}

// PluralForms is the parsed Plural-Forms header. Expression is kept as
// written; it is never evaluated.
type PluralForms struct {
	NPlurals   int
	Expression string
}

// Header is the catalog's metadata pseudo-entry (the entry with an empty msgid).
type Header struct {
	Fields   []HeaderField
	Comments []string
	Flags    []string
	Line     int
	// Unterminated is set when the last field had no trailing newline.
	Unterminated bool
}

// ParseHeader splits the header msgstr into its fields, in order, keeping
// every line as written.
func ParseHeader(msgstr string) Header {
	if msgstr == "" {
		return Header{}
	}
	lines := strings.Split(msgstr, "\n")
	h := Header{Unterminated: lines[len(lines)-1] != ""}
	if !h.Unterminated {
		lines = lines[:len(lines)-1]
	}
	for _, line := range lines {
		idx := strings.Index(line, ":")
		if idx <= 0 {
			h.Fields = append(h.Fields, HeaderField{Value: line, Raw: line})
			continue
		}
		h.Fields = append(h.Fields, HeaderField{
			Name:  strings.TrimSpace(line[:idx]),
			Value: strings.TrimSpace(line[idx+1:]),
			Raw:   line,
		})
	}
	return h
}

// ParseHeaderFields is ParseHeader without the layout details.
func ParseHeaderFields(msgstr string) []HeaderField {
	return ParseHeader(msgstr).Fields
}

// String renders the header fields back into a msgstr value. Unchanged
// fields are written exactly as they were read.
func (h Header) String() string {
	var b strings.Builder
	for i, f := range h.Fields {
		b.WriteString(f.line())
		if i < len(h.Fields)-1 || !h.Unterminated {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Clone returns a deep copy of h.
func (h Header) Clone() Header {
	out := Header{Line: h.Line, Unterminated: h.Unterminated}
	out.Fields = append([]HeaderField(nil), h.Fields...)
	out.Comments = append([]string(nil), h.Comments...)
	out.Flags = append([]string(nil), h.Flags...)
	return out
}

// Get returns the value of the named field, matching names case-insensitively.
func (h Header) Get(name string) (string, bool) {
	for _, f := range h.Fields {
		if f.Name != "" && strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}

// Set replaces the value of the named field or appends a new field.
func (h *Header) Set(name, value string) {
	for i, f := range h.Fields {
		if f.Name != "" && strings.EqualFold(f.Name, name) {
			if f.Value != value {
				h.Fields[i].Value = value
				h.Fields[i].Raw = ""
			}
			return
		}
	}
	h.Fields = append(h.Fields, HeaderField{Name: name, Value: value})
}

func (h Header) value(name string) string {
	v, _ := h.Get(name)
	return v
}

func (h Header) ProjectIDVersion() string { return h.value(FieldProjectIDVersion) }
func (h Header) LastTranslator() string   { return h.value(FieldLastTranslator) }
func (h Header) Generator() string        { return h.value(FieldGenerator) }

// Language returns the raw Language field.
func (h Header) Language() string { return h.value(FieldLanguage) }

// LanguageTag parses the Language field. gettext uses underscores
// (pt_BR), which are accepted as well.
func (h Header) LanguageTag() (language.Tag, error) {
	raw := strings.TrimSpace(h.Language())
	if raw == "" {
		return language.Und, domain.ErrInvalidLanguage
	}
	tag, err := language.Parse(strings.ReplaceAll(raw, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("%w %q: %v", domain.ErrInvalidLanguage, raw, err)
	}
	return tag, nil
}

// Charset returns the charset declared in Content-Type, or "" when none is declared.
func (h Header) Charset() string {
	ct := h.value(FieldContentType)
	for _, part := range strings.Split(ct, ";") {
		part = strings.TrimSpace(part)
		if k, v, ok := strings.Cut(part, "="); ok && strings.EqualFold(strings.TrimSpace(k), "charset") {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// SetCharset rewrites the charset parameter of Content-Type.
func (h *Header) SetCharset(charset string) {
	ct, ok := h.Get(FieldContentType)
	if !ok || strings.TrimSpace(ct) == "" {
		h.Set(FieldContentType, "text/plain; charset="+charset)
		return
	}
	parts := strings.Split(ct, ";")
	replaced := false
	for i, part := range parts {
		if k, _, ok := strings.Cut(strings.TrimSpace(part), "="); ok && strings.EqualFold(strings.TrimSpace(k), "charset") {
			parts[i] = " charset=" + charset
			replaced = true
		}
	}
	if !replaced {
		parts = append(parts, " charset="+charset)
	}
	h.Set(FieldContentType, strings.Join(parts, ";"))
}

// RevisionDate parses PO-Revision-Date. POT templates carry a placeholder
// (YEAR-MO-DA HO:MI+ZONE), reported as not ok.
func (h Header) RevisionDate() (time.Time, bool) {
	t, err := time.Parse(RevisionDateLayout, strings.TrimSpace(h.value(FieldRevisionDate)))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SetRevisionDate writes PO-Revision-Date in the gettext layout.
func (h *Header) SetRevisionDate(t time.Time) {
	h.Set(FieldRevisionDate, t.Format(RevisionDateLayout))
}

// PluralForms parses the Plural-Forms field. A zero PluralForms and a nil
// error mean the header does not declare one.
func (h Header) PluralForms() (PluralForms, error) {
	raw, ok := h.Get(FieldPluralForms)
	if !ok || strings.TrimSpace(raw) == "" {
		return PluralForms{}, nil
	}
	var pf PluralForms
	for _, part := range strings.Split(raw, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(k) {
		case "nplurals":
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || n < 1 {
				return PluralForms{}, fmt.Errorf("%w: nplurals=%q", domain.ErrInvalidPluralForms, v)
			}
			pf.NPlurals = n
		case "plural":
			pf.Expression = strings.TrimSpace(v)
		}
	}
	if pf.NPlurals == 0 {
		return PluralForms{}, fmt.Errorf("%w: %q", domain.ErrInvalidPluralForms, raw)
	}
	return pf, nil
}

// IsFuzzy reports whether the header is flagged fuzzy, as POT templates are.
func (h Header) IsFuzzy() bool {
	for _, f := range h.Flags {
		if f == FlagFuzzy {
			return true
		}
	}
	return false
}
