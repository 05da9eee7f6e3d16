package application

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"pocatalog/internal/domain"
	"pocatalog/internal/domain/entities"
	"pocatalog/internal/ports/input"
	"pocatalog/internal/ports/output"
)

var _ input.CatalogUseCase = (*CatalogService)(nil)

// CatalogService keeps one immutable catalog per language. Registering a
// catalog swaps in a new map, so readers never see a half-updated set.
type CatalogService struct {
	codec     output.CatalogCodec
	exporters output.ExporterRegistry
	repo      output.CatalogRepository
	sinks     []output.CatalogSink
	now       func() time.Time

	// loadMu serializes registrations so sinks see them in swap order.
	loadMu sync.Mutex

	mu       sync.RWMutex
	catalogs map[string]*entities.Catalog
}

// NewCatalogService wires the service. repo may be nil when snapshots are
// not persisted.
func NewCatalogService(
	codec output.CatalogCodec,
	exporters output.ExporterRegistry,
	repo output.CatalogRepository,
	sinks ...output.CatalogSink,
) *CatalogService {
	return &CatalogService{
		codec:     codec,
		exporters: exporters,
		repo:      repo,
		sinks:     sinks,
		now:       time.Now,
		catalogs:  map[string]*entities.Catalog{},
	}
}

// CanonicalLocale normalises a locale the way catalogs are keyed. gettext
// style underscores are accepted.
func CanonicalLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return locale
	}
	return tag.String()
}

func catalogLanguage(c *entities.Catalog) (string, error) {
	tag, err := c.Header().LanguageTag()
	if err != nil {
		return "", err
	}
	return tag.String(), nil
}

func (s *CatalogService) Load(ctx context.Context, data []byte) (*entities.Catalog, error) {
	c, err := s.codec.Decode(data)
	if err != nil {
		return nil, err
	}
	lang, err := catalogLanguage(c)
	if err != nil {
		return nil, err
	}
	if err := s.register(map[string]*entities.Catalog{lang: c}); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadDir decodes every *.po file in dir. Nothing is registered unless all
// files load.
func (s *CatalogService) LoadDir(ctx context.Context, dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.po"))
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	slices.Sort(paths)

	loaded := make(map[string]*entities.Catalog, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		c, err := s.codec.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("load catalog %s: %w", path, err)
		}
		lang, err := catalogLanguage(c)
		if err != nil {
			return nil, fmt.Errorf("load catalog %s: %w", path, err)
		}
		if _, dup := loaded[lang]; dup {
			return nil, fmt.Errorf("load catalog %s: language %s already loaded from this directory", path, lang)
		}
		loaded[lang] = c
	}
	if err := s.register(loaded); err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(loaded)), nil
}

// register makes loaded visible to readers and sinks together. Every sink
// is prepared first; if one fails nothing changes anywhere.
func (s *CatalogService) register(loaded map[string]*entities.Catalog) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	langs := slices.Sorted(maps.Keys(loaded))
	batch := make([]*entities.Catalog, 0, len(langs))
	for _, lang := range langs {
		batch = append(batch, loaded[lang])
	}

	commits := make([]func(), 0, len(s.sinks))
	for _, sink := range s.sinks {
		commit, err := sink.PrepareCatalogs(batch)
		if err != nil {
			return fmt.Errorf("register catalogs %s: %w", strings.Join(langs, ", "), err)
		}
		commits = append(commits, commit)
	}

	s.mu.Lock()
	next := maps.Clone(s.catalogs)
	maps.Copy(next, loaded)
	s.catalogs = next
	s.mu.Unlock()

	for _, commit := range commits {
		commit()
	}

	for lang, c := range loaded {
		st := c.Stats()
		log.WithFields(log.Fields{
			"locale":     lang,
			"entries":    st.Total,
			"translated": st.Translated,
			"fuzzy":      st.Fuzzy,
		}).Info("📚 Catalog loaded")
	}
	return nil
}

// Lookup returns the translation of key in locale. An unknown locale, an
// unknown key and an empty translation all report false, and the caller
// falls back to the key.
func (s *CatalogService) Lookup(locale, key string) (string, bool) {
	c, err := s.Catalog(locale)
	if err != nil {
		return "", false
	}
	return c.Lookup(key)
}

func (s *CatalogService) Catalog(locale string) (*entities.Catalog, error) {
	s.mu.RLock()
	c, ok := s.catalogs[CanonicalLocale(locale)]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCatalogNotFound, locale)
	}
	return c, nil
}

func (s *CatalogService) Locales() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.catalogs))
}

func (s *CatalogService) Stats(locale string) (entities.Stats, error) {
	c, err := s.Catalog(locale)
	if err != nil {
		return entities.Stats{}, err
	}
	return c.Stats(), nil
}

// Serialize renders the catalog for locale with a fresh revision date.
func (s *CatalogService) Serialize(locale string) ([]byte, error) {
	c, err := s.Catalog(locale)
	if err != nil {
		return nil, err
	}
	return s.codec.Encode(c, s.now())
}

func (s *CatalogService) Export(locale, format string) ([]byte, error) {
	c, err := s.Catalog(locale)
	if err != nil {
		return nil, err
	}
	exp, ok := s.exporters.Get(format)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownFormat, format)
	}
	out, err := exp.Export(c)
	if err != nil {
		return nil, fmt.Errorf("export %s as %s: %w", locale, format, err)
	}
	return out, nil
}

// Persist stores the catalog for locale as a new snapshot.
func (s *CatalogService) Persist(ctx context.Context, locale string) (string, error) {
	if s.repo == nil {
		return "", domain.ErrNoRepository
	}
	c, err := s.Catalog(locale)
	if err != nil {
		return "", err
	}
	id, err := s.repo.Save(ctx, c)
	if err != nil {
		return "", fmt.Errorf("persist catalog %s: %w", locale, err)
	}
	log.WithFields(log.Fields{"locale": CanonicalLocale(locale), "snapshot": id}).Info("💾 Catalog snapshot saved")
	return id, nil
}

// Restore registers the latest stored snapshot for locale.
func (s *CatalogService) Restore(ctx context.Context, locale string) (*entities.Catalog, error) {
	if s.repo == nil {
		return nil, domain.ErrNoRepository
	}
	lang := CanonicalLocale(locale)
	c, err := s.repo.FindLatestByLanguage(ctx, lang)
	if err != nil {
		return nil, fmt.Errorf("restore catalog %s: %w", lang, err)
	}
	if err := s.register(map[string]*entities.Catalog{lang: c}); err != nil {
		return nil, err
	}
	return c, nil
}

// Snapshots lists the stored snapshots for locale, newest first.
func (s *CatalogService) Snapshots(ctx context.Context, locale string) ([]entities.Snapshot, error) {
	if s.repo == nil {
		return nil, domain.ErrNoRepository
	}
	out, err := s.repo.ListByLanguage(ctx, CanonicalLocale(locale))
	if err != nil {
		return nil, fmt.Errorf("list snapshots %s: %w", locale, err)
	}
	return out, nil
}
