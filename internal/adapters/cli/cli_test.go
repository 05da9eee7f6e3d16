package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocatalog/internal/domain"
	"pocatalog/internal/domain/entities"
	"pocatalog/internal/ports/output"
)

const armenianPO = `msgid ""
msgstr ""
"Project-Id-Version: Weblate 3.0\n"
"PO-Revision-Date: 2018-05-30 18:04+0000\n"
"Last-Translator: Hrach Mkrtchyan <translator@example.org>\n"
"Language: hy\n"
"Content-Type: text/plain; charset=UTF-8\n"
"Plural-Forms: nplurals=2; plural=n != 1;\n"

msgid "Armenian"
msgstr "Հայերեն"

msgid "Acehnese"
msgstr ""

msgctxt "Number of strings"
msgid "String"
msgstr "Տող"

#, python-format
msgid "%s strings"
msgstr "%s տող"
`

type memRepo struct {
	saved []*entities.Catalog
}

func (r *memRepo) Save(_ context.Context, c *entities.Catalog) (string, error) {
	r.saved = append(r.saved, c)
	return "11111111-2222-3333-4444-555555555555", nil
}

func (r *memRepo) FindLatestByLanguage(_ context.Context, lang string) (*entities.Catalog, error) {
	for i := len(r.saved) - 1; i >= 0; i-- {
		if r.saved[i].Language() == lang {
			return r.saved[i], nil
		}
	}
	return nil, domain.ErrCatalogNotFound
}

func (r *memRepo) ListByLanguage(_ context.Context, lang string) ([]entities.Snapshot, error) {
	var out []entities.Snapshot
	for _, c := range r.saved {
		if c.Language() == lang {
			out = append(out, entities.Snapshot{
				ID:        "11111111-2222-3333-4444-555555555555",
				Language:  lang,
				Project:   c.Header().ProjectIDVersion(),
				Entries:   c.Len(),
				CreatedAt: time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC),
			})
		}
	}
	return out, nil
}

func writePO(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hy.po")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, repo output.CatalogRepository, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	var factory RepoFactory
	if repo != nil {
		factory = func(context.Context) (output.CatalogRepository, func(), error) {
			return repo, func() {}, nil
		}
	}
	err := New("test", &out, factory).Run(args)
	return out.String(), err
}

func TestCheck(t *testing.T) {
	out, err := run(t, nil, "check", writePO(t, armenianPO))
	require.NoError(t, err)
	assert.Contains(t, out, "(hy): 4 entries: 3 translated (75.0%), 0 fuzzy, 1 untranslated, 0 obsolete")

	_, err = run(t, nil, "check", writePO(t, armenianPO+"\nmsgstr \"orphan\"\n"))
	var parseErr *domain.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestCheckStrictDuplicates(t *testing.T) {
	path := writePO(t, armenianPO+"\nmsgid \"Armenian\"\nmsgstr \"Հայ\"\n")

	_, err := run(t, nil, "check", path)
	assert.NoError(t, err)

	_, err = run(t, nil, "--strict", "check", path)
	var dup *domain.DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "Armenian", dup.Key)
}

func TestStats(t *testing.T) {
	out, err := run(t, nil, "stats", writePO(t, armenianPO))
	require.NoError(t, err)
	assert.Contains(t, out, "Project:       Weblate 3.0\n")
	assert.Contains(t, out, "Plural forms:  2 (n != 1)\n")
	assert.Contains(t, out, "Untranslated:  1\n")
}

func TestLookup(t *testing.T) {
	path := writePO(t, armenianPO)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"translated", []string{"Armenian"}, "Հայերեն\n"},
		{"untranslated falls back", []string{"Acehnese"}, "Acehnese\n"},
		{"unknown falls back", []string{"Klingon"}, "Klingon\n"},
		{"context", []string{"--context", "Number of strings", "String"}, "Տող\n"},
		{"missing context", []string{"String"}, "String\n"},
		{"format args", []string{"%s strings", "5"}, "5 տող\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, nil, append([]string{"lookup", path}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestLookupEmptyContext(t *testing.T) {
	path := writePO(t, armenianPO+"\nmsgctxt \"\"\nmsgid \"File\"\nmsgstr \"Ֆայլ (menu)\"\n\nmsgid \"File\"\nmsgstr \"Ֆայլ\"\n")

	out, err := run(t, nil, "lookup", path, "File")
	require.NoError(t, err)
	assert.Equal(t, "Ֆայլ\n", out)

	out, err = run(t, nil, "lookup", "--context=", path, "File")
	require.NoError(t, err)
	assert.Equal(t, "Ֆայլ (menu)\n", out)
}

func TestFmtWrite(t *testing.T) {
	path := writePO(t, armenianPO)

	out, err := run(t, nil, "fmt", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"PO-Revision-Date: 2018-05-30 18:04+0000\n"`)

	_, err = run(t, nil, "fmt", "-w", path)
	require.NoError(t, err)
	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out, string(written))
}

func TestExport(t *testing.T) {
	path := writePO(t, armenianPO)

	out, err := run(t, nil, "export", "--format", "yaml", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Armenian: Հայերեն")

	_, err = run(t, nil, "export", "--format", "xliff", path)
	assert.Error(t, err)
}

func TestDatabaseCommandsNeedRepository(t *testing.T) {
	_, err := run(t, nil, "import", writePO(t, armenianPO))
	assert.ErrorIs(t, err, domain.ErrNoRepository)
	_, err = run(t, nil, "restore", "hy")
	assert.ErrorIs(t, err, domain.ErrNoRepository)
}

func TestImportRestoreSnapshots(t *testing.T) {
	repo := &memRepo{}

	out, err := run(t, repo, "import", writePO(t, armenianPO))
	require.NoError(t, err)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555\n", out)

	out, err = run(t, repo, "snapshots", "hy")
	require.NoError(t, err)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555\t2026-10-16T08:00:00Z\tWeblate 3.0\t4 entries\n", out)

	target := filepath.Join(t.TempDir(), "restored.po")
	_, err = run(t, repo, "restore", "hy", "-o", target)
	require.NoError(t, err)
	restored, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(restored), "msgid \"Armenian\"\nmsgstr \"Հայերեն\"\n")

	_, err = run(t, repo, "snapshots", "fr")
	assert.ErrorIs(t, err, domain.ErrCatalogNotFound)
}
