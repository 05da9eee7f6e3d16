package discord

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocatalog/internal/application"
	"pocatalog/internal/infrastructure/export"
	"pocatalog/internal/infrastructure/i18n"
	"pocatalog/internal/infrastructure/po"
)

const armenianPO = `msgid ""
msgstr ""
"Language: hy\n"
"Content-Type: text/plain; charset=UTF-8\n"

msgid "Armenian"
msgstr "Հայերեն"

msgid "Acehnese"
msgstr ""
`

func newTestHandler(t *testing.T, load bool) *Handler {
	t.Helper()
	tr := i18n.NewTranslator("hy")
	svc := application.NewCatalogService(po.Codec{}, export.Default(), nil, tr)
	if load {
		_, err := svc.Load(context.Background(), []byte(armenianPO))
		require.NoError(t, err)
	}
	return NewHandler(svc, tr, "hy")
}

func TestTranslateReply(t *testing.T) {
	h := newTestHandler(t, true)

	assert.Equal(t, "**Armenian** → Հայերեն", h.translateReply("en-US", "hy", "Armenian"))
	assert.Equal(t, "No translation of **Acehnese** in hy, showing the source text.",
		h.translateReply("en-US", "hy", "Acehnese"))
	assert.Equal(t, "❌ No catalog is loaded for this language.", h.translateReply("en-US", "de", "Armenian"))
}

func TestLocalesReply(t *testing.T) {
	assert.Equal(t, "📚 hy", newTestHandler(t, true).localesReply("en"))
	assert.Equal(t, "❌ No catalog is loaded for this language.", newTestHandler(t, false).localesReply("en"))
}

func TestCatalogLocaleDefaults(t *testing.T) {
	h := newTestHandler(t, false)
	assert.Equal(t, "hy", h.catalogLocale(map[string]string{}))
	assert.Equal(t, "fr", h.catalogLocale(map[string]string{optionLocale: "fr"}))
}

func TestOptionValues(t *testing.T) {
	values := optionValues([]*discordgo.ApplicationCommandInteractionDataOption{
		{Name: optionKey, Type: discordgo.ApplicationCommandOptionString, Value: "  Armenian "},
		{Name: "count", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(2)},
	})
	assert.Equal(t, map[string]string{optionKey: "Armenian"}, values)
}

func TestCommandsDeclareOptions(t *testing.T) {
	cmds := commands()
	require.Len(t, cmds, 3)
	assert.Equal(t, commandTranslate, cmds[0].Name)
	require.Len(t, cmds[0].Options, 2)
	assert.True(t, cmds[0].Options[0].Required)
	assert.False(t, cmds[0].Options[1].Required)
}
