package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"maps"
	"slices"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"pocatalog/internal/domain/entities"
	"pocatalog/internal/ports/output"
)

//go:embed active.*.toml
var localeFS embed.FS

// Ensure Translator implements the output ports.
var (
	_ output.T           = (*Translator)(nil)
	_ output.CatalogSink = (*Translator)(nil)
)

// Translator is a thin wrapper around go-i18n's Bundle/Localizer, fed with
// the embedded UI strings and every catalog the service loads. The same
// entries back an x/text catalog used by Sprintf. Both are rebuilt from
// scratch whenever a catalog changes, so a reloaded catalog fully replaces
// the previous one.
type Translator struct {
	mu              sync.RWMutex
	bundle          *i18n.Bundle
	builder         *catalog.Builder
	catalogs        map[string]*entities.Catalog
	defaultLanguage language.Tag
}

// NewTranslator builds a Translator backed by go-i18n using the given default
// locale (e.g. "hy").
//
// It loads the UI strings from the embedded active.*.toml files.
func NewTranslator(defaultLocale string) *Translator {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.English
	}
	t := &Translator{
		catalogs:        map[string]*entities.Catalog{},
		defaultLanguage: tag,
	}
	// Without catalogs build cannot fail.
	t.bundle, t.builder, _ = t.build(t.catalogs)
	return t
}

func (t *Translator) build(catalogs map[string]*entities.Catalog) (*i18n.Bundle, *catalog.Builder, error) {
	bundle := i18n.NewBundle(t.defaultLanguage)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, _ := fs.Glob(localeFS, "active.*.toml")
	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			log.Warnf("i18n: failed to load %s: %v", file, err)
		}
	}

	builder := catalog.NewBuilder(catalog.Fallback(t.defaultLanguage))
	for _, lang := range slices.Sorted(maps.Keys(catalogs)) {
		if err := addCatalog(bundle, builder, catalogs[lang]); err != nil {
			return nil, nil, err
		}
	}
	return bundle, builder, nil
}

// PrepareCatalogs builds the bundle and x/text catalog that serve cs on top
// of the catalogs already served. A catalog replaces the one previously
// served for its language.
func (t *Translator) PrepareCatalogs(cs []*entities.Catalog) (func(), error) {
	t.mu.RLock()
	next := maps.Clone(t.catalogs)
	t.mu.RUnlock()

	for _, c := range cs {
		tag, err := c.Header().LanguageTag()
		if err != nil {
			return nil, err
		}
		next[tag.String()] = c
	}
	bundle, builder, err := t.build(next)
	if err != nil {
		return nil, err
	}

	return func() {
		t.mu.Lock()
		t.bundle, t.builder, t.catalogs = bundle, builder, next
		t.mu.Unlock()
	}, nil
}

// AddCatalog serves c right away.
func (t *Translator) AddCatalog(c *entities.Catalog) error {
	commit, err := t.PrepareCatalogs([]*entities.Catalog{c})
	if err != nil {
		return err
	}
	commit()
	return nil
}

// addCatalog registers the verified entries of c (translated, not fuzzy).
// Fuzzy translations are never served at runtime.
func addCatalog(bundle *i18n.Bundle, builder *catalog.Builder, c *entities.Catalog) error {
	tag, err := c.Header().LanguageTag()
	if err != nil {
		return err
	}
	twoForms := c.PluralForms().NPlurals == 2

	var msgs []*i18n.Message
	seen := map[string]bool{}
	for e := range c.Entries() {
		id := e.ID()
		if e.Obsolete || seen[id] {
			continue
		}
		seen[id] = true
		if !e.IsVerified() {
			continue
		}

		msg := &i18n.Message{ID: id}
		switch {
		case !e.IsPlural():
			msg.Other = e.Translation
			err = builder.SetString(tag, id, e.Translation)
		case twoForms && len(e.Plurals) == 2:
			msg.One, msg.Other = e.Plurals[0], e.Plurals[1]
			err = builder.Set(tag, id, plural.Selectf(1, "%d",
				plural.One, e.Plurals[0],
				plural.Other, e.Plurals[1],
			))
		default:
			msg.Other = e.Plurals[0]
			err = builder.SetString(tag, id, e.Plurals[0])
		}
		if err != nil {
			return fmt.Errorf("i18n: add %q for %s: %w", e.Key, tag, err)
		}
		msgs = append(msgs, msg)
	}

	if err := bundle.AddMessages(tag, msgs...); err != nil {
		// go-i18n has no plural rule for some languages; Sprintf still works for them.
		log.Warnf("i18n: bundle rejected catalog %s: %v", tag, err)
	}
	return nil
}

// T renders the message identified by key for the given locale.
// If the key/locale is not found, it falls back to the default locale,
// then finally to the key itself.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}

	languages := []string{}
	if locale != "" {
		languages = append(languages, locale)
	}
	languages = append(languages, t.defaultLanguage.String())

	t.mu.RLock()
	bundle := t.bundle
	t.mu.RUnlock()
	localizer := i18n.NewLocalizer(bundle, languages...)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		log.Debugf("i18n: localize failed (key=%s, locales=%v): %v", key, languages, err)
		return key
	}
	return msg
}

// Sprintf formats the catalog message key with args through x/text. Keys
// without a translation are used as the format string.
func (t *Translator) Sprintf(locale, key string, args ...any) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = t.defaultLanguage
	}
	t.mu.RLock()
	builder := t.builder
	t.mu.RUnlock()
	p := message.NewPrinter(tag, message.Catalog(builder))
	return p.Sprintf(key, args...)
}
