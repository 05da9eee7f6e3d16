package i18n

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocatalog/internal/domain/entities"
	"pocatalog/internal/infrastructure/po"
)

const armenianSrc = `msgid ""
msgstr ""
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

msgid "String"
msgid_plural "Strings"
msgstr[0] "Տող"
msgstr[1] "Տողեր"
`

func newLoadedTranslator(t *testing.T) *Translator {
	t.Helper()
	tr := NewTranslator("hy")
	c, err := po.Decode([]byte(armenianSrc))
	require.NoError(t, err)
	require.NoError(t, tr.AddCatalog(c))
	return tr
}

func TestTranslatorUIStrings(t *testing.T) {
	tr := NewTranslator("hy")

	assert.Equal(t, "Something went wrong.", tr.T("en", "error_generic", nil))
	assert.Equal(t, "Սխալ առաջացավ։", tr.T("hy", "error_generic", nil))
	assert.Equal(t, "Սխալ առաջացավ։", tr.T("fr", "error_generic", nil), "unknown locale falls back to the default")
	assert.Equal(t, "**Armenian** → Հայերեն", tr.T("en", "translate_found", map[string]any{
		"Key":         "Armenian",
		"Translation": "Հայերեն",
	}))
}

func TestTranslatorMissingKeyFallsBackToKey(t *testing.T) {
	tr := NewTranslator("hy")
	assert.Equal(t, "validation.unknown", tr.T("en", "validation.unknown", nil))
	assert.Equal(t, "", tr.T("en", "", nil))
}

func TestTranslatorServesVerifiedCatalogEntries(t *testing.T) {
	tr := newLoadedTranslator(t)

	assert.Equal(t, "Հայերեն", tr.T("hy", "Armenian", nil))
	assert.Equal(t, "Acehnese", tr.T("hy", "Acehnese", nil))
	assert.Equal(t, "Checks", tr.T("hy", "Checks", nil), "fuzzy translations are not served")
}

func TestTranslatorSprintf(t *testing.T) {
	tr := newLoadedTranslator(t)

	assert.Equal(t, "Հայերեն", tr.Sprintf("hy", "Armenian"))
	assert.Equal(t, "Checks", tr.Sprintf("hy", "Checks"))
	assert.Equal(t, "3 missing", tr.Sprintf("hy", "%d missing", 3))
	assert.Contains(t, tr.Sprintf("hy", "String", 5), "Տողեր")
}

func TestReloadReplacesCatalog(t *testing.T) {
	tr := NewTranslator("hy")
	verified := strings.Replace(armenianSrc, "#, fuzzy\n", "", 1)
	c, err := po.Decode([]byte(verified))
	require.NoError(t, err)
	require.NoError(t, tr.AddCatalog(c))
	require.Equal(t, "Ստուգում", tr.T("hy", "Checks", nil))
	require.Equal(t, "Ստուգում", tr.Sprintf("hy", "Checks"))

	// The reloaded file marks Checks fuzzy again and drops Armenian.
	reloadedSrc := strings.Replace(armenianSrc, "msgid \"Armenian\"\nmsgstr \"Հայերեն\"\n\n", "", 1)
	reloaded, err := po.Decode([]byte(reloadedSrc))
	require.NoError(t, err)
	require.NoError(t, tr.AddCatalog(reloaded))

	assert.Equal(t, "Checks", tr.T("hy", "Checks", nil))
	assert.Equal(t, "Checks", tr.Sprintf("hy", "Checks"))
	assert.Equal(t, "Armenian", tr.T("hy", "Armenian", nil))
	assert.Equal(t, "Armenian", tr.Sprintf("hy", "Armenian"))
	assert.Equal(t, "Something went wrong.", tr.T("en", "error_generic", nil))
}

func TestPreparedCatalogsAreServedOnCommit(t *testing.T) {
	tr := NewTranslator("hy")
	c, err := po.Decode([]byte(armenianSrc))
	require.NoError(t, err)

	commit, err := tr.PrepareCatalogs([]*entities.Catalog{c})
	require.NoError(t, err)
	assert.Equal(t, "Armenian", tr.T("hy", "Armenian", nil))

	commit()
	assert.Equal(t, "Հայերեն", tr.T("hy", "Armenian", nil))
	assert.Equal(t, "Հայերեն", tr.Sprintf("hy", "Armenian"))
}

func TestAddCatalogRequiresLanguage(t *testing.T) {
	c, err := po.Decode([]byte("msgid \"\"\nmsgstr \"\"\n\nmsgid \"a\"\nmsgstr \"b\"\n"))
	require.NoError(t, err)

	assert.Error(t, NewTranslator("hy").AddCatalog(c))
}
