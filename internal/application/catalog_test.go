package application

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocatalog/internal/domain"
	"pocatalog/internal/domain/entities"
	"pocatalog/internal/infrastructure/export"
	"pocatalog/internal/infrastructure/po"
)

const armenianPO = `msgid ""
msgstr ""
"Project-Id-Version: Weblate 3.0\n"
"PO-Revision-Date: 2018-05-30 18:04+0000\n"
"Language: hy\n"
"Content-Type: text/plain; charset=UTF-8\n"
"Plural-Forms: nplurals=2; plural=n != 1;\n"

msgid "Armenian"
msgstr "Հայերեն"

msgid "Acehnese"
msgstr ""

#, fuzzy
msgid "Checks"
msgstr "Ստուգում"
`

const frenchPO = `msgid ""
msgstr ""
"Language: fr\n"

msgid "Armenian"
msgstr "Arménien"
`

type fakeRepo struct {
	saved []*entities.Catalog
	err   error
}

func (r *fakeRepo) Save(_ context.Context, c *entities.Catalog) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.saved = append(r.saved, c)
	return "snapshot-1", nil
}

func (r *fakeRepo) FindLatestByLanguage(_ context.Context, lang string) (*entities.Catalog, error) {
	for i := len(r.saved) - 1; i >= 0; i-- {
		if r.saved[i].Language() == lang {
			return r.saved[i], nil
		}
	}
	return nil, domain.ErrCatalogNotFound
}

func (r *fakeRepo) ListByLanguage(_ context.Context, lang string) ([]entities.Snapshot, error) {
	var out []entities.Snapshot
	for _, c := range r.saved {
		if c.Language() == lang {
			out = append(out, entities.Snapshot{ID: "snapshot-1", Language: lang, Entries: c.Len()})
		}
	}
	return out, nil
}

type fakeSink struct {
	added []string
	err   error
}

func (s *fakeSink) PrepareCatalogs(cs []*entities.Catalog) (func(), error) {
	if s.err != nil {
		return nil, s.err
	}
	return func() {
		for _, c := range cs {
			s.added = append(s.added, c.Language())
		}
	}, nil
}

func newService(repo *fakeRepo, sinks ...*fakeSink) *CatalogService {
	var s *CatalogService
	if repo == nil {
		s = NewCatalogService(po.Codec{}, export.Default(), nil)
	} else {
		s = NewCatalogService(po.Codec{}, export.Default(), repo)
	}
	for _, sink := range sinks {
		s.sinks = append(s.sinks, sink)
	}
	return s
}

func TestLoadAndLookup(t *testing.T) {
	s := newService(nil)
	c, err := s.Load(context.Background(), []byte(armenianPO))
	require.NoError(t, err)
	assert.Equal(t, "hy", c.Language())
	assert.Equal(t, []string{"hy"}, s.Locales())

	got, ok := s.Lookup("hy", "Armenian")
	assert.True(t, ok)
	assert.Equal(t, "Հայերեն", got)

	got, ok = s.Lookup("HY", "Armenian")
	assert.True(t, ok, "locales are canonicalised")
	assert.Equal(t, "Հայերեն", got)

	_, ok = s.Lookup("hy", "Acehnese")
	assert.False(t, ok)
	_, ok = s.Lookup("hy", "Klingon")
	assert.False(t, ok)
	_, ok = s.Lookup("de", "Armenian")
	assert.False(t, ok)
	_, ok = s.Lookup("hy-AM", "Armenian")
	assert.False(t, ok, "no locale negotiation")
}

func TestLoadFailureKeepsPreviousCatalog(t *testing.T) {
	s := newService(nil)
	_, err := s.Load(context.Background(), []byte(armenianPO))
	require.NoError(t, err)

	_, err = s.Load(context.Background(), []byte(armenianPO+"\nmsgid \"broken\"\n"))
	var parseErr *domain.ParseError
	require.ErrorAs(t, err, &parseErr)

	got, ok := s.Lookup("hy", "Armenian")
	assert.True(t, ok)
	assert.Equal(t, "Հայերեն", got)
}

func TestLoadRequiresLanguage(t *testing.T) {
	s := newService(nil)
	_, err := s.Load(context.Background(), []byte("msgid \"\"\nmsgstr \"\"\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidLanguage)
	assert.Empty(t, s.Locales())
}

func TestLoadNotifiesSinks(t *testing.T) {
	sink := &fakeSink{}
	s := newService(nil, sink)
	_, err := s.Load(context.Background(), []byte(armenianPO))
	require.NoError(t, err)
	assert.Equal(t, []string{"hy"}, sink.added)

	failing := newService(nil, &fakeSink{err: errors.New("boom")})
	_, err = failing.Load(context.Background(), []byte(armenianPO))
	assert.Error(t, err)
	assert.Empty(t, failing.Locales())
}

func TestFailingSinkLeavesOtherSinksUntouched(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hy.po"), []byte(armenianPO), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fr.po"), []byte(frenchPO), 0o644))

	healthy := &fakeSink{}
	s := newService(nil, healthy, &fakeSink{err: errors.New("boom")})
	_, err := s.LoadDir(context.Background(), dir)
	require.Error(t, err)
	assert.Empty(t, healthy.added)
	assert.Empty(t, s.Locales())

	ok := &fakeSink{}
	s = newService(nil, ok)
	_, err = s.LoadDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"fr", "hy"}, ok.added)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hy.po"), []byte(armenianPO), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fr.po"), []byte(frenchPO), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	s := newService(nil)
	langs, err := s.LoadDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"fr", "hy"}, langs)

	got, _ := s.Lookup("fr", "Armenian")
	assert.Equal(t, "Arménien", got)
}

func TestLoadDirIsAllOrNothing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fr.po"), []byte(frenchPO), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hy.po"), []byte("msgstr \"orphan\"\n"), 0o644))

	s := newService(nil)
	_, err := s.LoadDir(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hy.po")
	assert.Empty(t, s.Locales())
}

func TestSerializeUsesClock(t *testing.T) {
	s := newService(nil)
	s.now = func() time.Time { return time.Date(2026, time.October, 16, 9, 30, 0, 0, time.UTC) }
	_, err := s.Load(context.Background(), []byte(armenianPO))
	require.NoError(t, err)

	out, err := s.Serialize("hy")
	require.NoError(t, err)
	assert.Contains(t, string(out), `"PO-Revision-Date: 2026-10-16 09:30+0000\n"`)

	reloaded, err := po.Decode(out)
	require.NoError(t, err)
	e, ok := reloaded.Entry("", "Checks")
	require.True(t, ok)
	assert.True(t, e.Fuzzy)
	assert.Equal(t, "Ստուգում", e.Translation)

	_, err = s.Serialize("de")
	assert.ErrorIs(t, err, domain.ErrCatalogNotFound)
}

func TestExport(t *testing.T) {
	s := newService(nil)
	_, err := s.Load(context.Background(), []byte(armenianPO))
	require.NoError(t, err)

	out, err := s.Export("hy", "yaml")
	require.NoError(t, err)
	assert.Contains(t, string(out), "Armenian: Հայերեն")

	_, err = s.Export("hy", "xliff")
	assert.ErrorIs(t, err, domain.ErrUnknownFormat)
}

func TestPersistAndRestore(t *testing.T) {
	ctx := context.Background()

	_, err := newService(nil).Persist(ctx, "hy")
	assert.ErrorIs(t, err, domain.ErrNoRepository)

	repo := &fakeRepo{}
	s := newService(repo)
	_, err = s.Persist(ctx, "hy")
	assert.ErrorIs(t, err, domain.ErrCatalogNotFound)

	_, err = s.Load(ctx, []byte(armenianPO))
	require.NoError(t, err)
	id, err := s.Persist(ctx, "hy")
	require.NoError(t, err)
	assert.Equal(t, "snapshot-1", id)
	require.Len(t, repo.saved, 1)

	snaps, err := s.Snapshots(ctx, "hy")
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, 3, snaps[0].Entries)

	fresh := newService(repo)
	c, err := fresh.Restore(ctx, "hy")
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
	got, ok := fresh.Lookup("hy", "Armenian")
	assert.True(t, ok)
	assert.Equal(t, "Հայերեն", got)

	_, err = fresh.Restore(ctx, "fr")
	assert.ErrorIs(t, err, domain.ErrCatalogNotFound)
}

func TestConcurrentLookupsDuringReload(t *testing.T) {
	s := newService(nil)
	_, err := s.Load(context.Background(), []byte(armenianPO))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				got, ok := s.Lookup("hy", "Armenian")
				assert.True(t, ok)
				assert.Equal(t, "Հայերեն", got)
			}
		}()
	}
	for i := 0; i < 20; i++ {
		_, err := s.Load(context.Background(), []byte(armenianPO))
		require.NoError(t, err)
	}
	wg.Wait()
}
