package entities

import (
	"fmt"
	"iter"
	"time"

	"pocatalog/internal/domain"
)

// Catalog is an immutable, loaded message catalog. It is safe for
// concurrent use once constructed.
type Catalog struct {
	header  Header
	plural  PluralForms
	entries []Entry
	index   map[string]int
}

// NewCatalog validates entries and builds the lookup index. Duplicate live
// keys keep the first occurrence unless strict is set, in which case a
// *domain.DuplicateKeyError is returned. Obsolete entries are kept but
// never indexed.
func NewCatalog(header Header, entries []Entry, strict bool) (*Catalog, error) {
	pf, err := header.PluralForms()
	if err != nil {
		return nil, &domain.ParseError{Line: header.Line, Err: err}
	}

	c := &Catalog{
		header:  header,
		plural:  pf,
		entries: entries,
		index:   make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		if e.Key == "" {
			return nil, &domain.ParseError{Line: e.Line, Err: domain.ErrMissingKey}
		}
		if err := c.checkPlurals(e); err != nil {
			return nil, &domain.ParseError{Line: e.Line, Err: err}
		}
		if e.Obsolete {
			continue
		}
		id := e.ID()
		if first, ok := c.index[id]; ok {
			if strict {
				return nil, &domain.DuplicateKeyError{
					Key:       e.Key,
					Context:   e.Context,
					Line:      e.Line,
					FirstLine: entries[first].Line,
				}
			}
			continue
		}
		c.index[id] = i
	}
	return c, nil
}

func (c *Catalog) checkPlurals(e Entry) error {
	if len(e.Plurals) == 0 {
		return nil
	}
	if !e.IsPlural() {
		return fmt.Errorf("%w: msgstr[N] without msgid_plural", domain.ErrInvalidPlural)
	}
	if c.plural.NPlurals > 0 && len(e.Plurals) > c.plural.NPlurals {
		return fmt.Errorf("%w: %d forms, nplurals=%d", domain.ErrInvalidPlural, len(e.Plurals), c.plural.NPlurals)
	}
	return nil
}

// Header returns a copy of the catalog header.
func (c *Catalog) Header() Header { return c.header.Clone() }

// PluralForms returns the parsed Plural-Forms header.
func (c *Catalog) PluralForms() PluralForms { return c.plural }

// Language returns the canonical language tag of the catalog, or the raw
// Language field when it cannot be parsed.
func (c *Catalog) Language() string {
	tag, err := c.header.LanguageTag()
	if err != nil {
		return c.header.Language()
	}
	return tag.String()
}

// Len returns the number of entries, obsolete ones included.
func (c *Catalog) Len() int { return len(c.entries) }

// Entries yields every entry in file order. The sequence can be ranged over
// any number of times. Yielded entries share slices with the catalog and
// must not be modified.
func (c *Catalog) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range c.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Entry returns the indexed entry for key within context. An empty context
// matches entries declared without msgctxt.
func (c *Catalog) Entry(context, key string) (Entry, bool) {
	return c.EntryByID(MessageID(context, key))
}

// EntryByID returns the indexed entry whose ID is id.
func (c *Catalog) EntryByID(id string) (Entry, bool) {
	i, ok := c.index[id]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Lookup returns the translation of key when one is present and non-empty.
// Fuzzy translations are returned; use LookupVerified to exclude them.
func (c *Catalog) Lookup(key string) (string, bool) {
	return c.LookupContext("", key)
}

// LookupContext is Lookup for a key declared with msgctxt.
func (c *Catalog) LookupContext(context, key string) (string, bool) {
	return c.LookupID(MessageID(context, key))
}

// LookupID is Lookup by entry ID. It reaches entries declared with an empty
// msgctxt through ContextMessageID("", key).
func (c *Catalog) LookupID(id string) (string, bool) {
	e, ok := c.EntryByID(id)
	if !ok {
		return "", false
	}
	if e.IsPlural() {
		if len(e.Plurals) == 0 || e.Plurals[0] == "" {
			return "", false
		}
		return e.Plurals[0], true
	}
	if e.Translation == "" {
		return "", false
	}
	return e.Translation, true
}

// LookupVerified is Lookup restricted to entries that are not fuzzy.
func (c *Catalog) LookupVerified(key string) (string, bool) {
	e, ok := c.Entry("", key)
	if !ok || e.Fuzzy {
		return "", false
	}
	return c.Lookup(key)
}

// LookupPlural returns the msgstr[index] variant of key. The index is the
// plural category, already selected by the caller.
func (c *Catalog) LookupPlural(key string, index int) (string, bool) {
	e, ok := c.Entry("", key)
	if !ok || index < 0 || index >= len(e.Plurals) || e.Plurals[index] == "" {
		return "", false
	}
	return e.Plurals[index], true
}

// Stats counts entries by state. Obsolete entries only count as obsolete.
type Stats struct {
	Total        int
	Translated   int
	Fuzzy        int
	Untranslated int
	Obsolete     int
}

// Percent is the share of live entries with a verified translation.
func (s Stats) Percent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Translated) * 100 / float64(s.Total)
}

func (c *Catalog) Stats() Stats {
	var s Stats
	for _, e := range c.entries {
		switch {
		case e.Obsolete:
			s.Obsolete++
			continue
		case e.Fuzzy:
			s.Fuzzy++
		case e.IsTranslated():
			s.Translated++
		default:
			s.Untranslated++
		}
		s.Total++
	}
	return s
}

// Snapshot describes one stored copy of a catalog.
type Snapshot struct {
	ID        string
	Language  string
	Project   string
	Entries   int
	CreatedAt time.Time
}
