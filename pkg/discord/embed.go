package discord

import (
	"fmt"
	"strings"

	"pocatalog/internal/domain/entities"
	"pocatalog/internal/ports/output"

	"github.com/bwmarrin/discordgo"
)

const embedColor = 0x5865F2

func formatPercent(s entities.Stats) string {
	return fmt.Sprintf("%.0f", s.Percent())
}

// progressBar renders ten cells, one per full tenth of verified entries.
func progressBar(s entities.Stats) string {
	filled := int(s.Percent() / 10)
	return strings.Repeat("▰", filled) + strings.Repeat("▱", 10-filled)
}

func headerField(name, value string) *discordgo.MessageEmbedField {
	if strings.TrimSpace(value) == "" {
		value = "—"
	}
	return &discordgo.MessageEmbedField{Name: name, Value: value, Inline: true}
}

// BuildCatalogEmbed describes one loaded catalog: header metadata and
// translation progress. Labels are rendered in uiLocale.
func BuildCatalogEmbed(t output.T, uiLocale, locale string, c *entities.Catalog) *discordgo.MessageEmbed {
	h := c.Header()
	st := c.Stats()

	revision := ""
	if rev, ok := h.RevisionDate(); ok {
		revision = FormatRevisionDate(rev)
	}

	var b strings.Builder
	b.WriteString(progressBar(st))
	b.WriteString("\n")
	b.WriteString(t.T(uiLocale, "catalog_progress", map[string]any{
		"Translated": st.Translated,
		"Total":      st.Total,
		"Percent":    formatPercent(st),
	}))
	if st.Fuzzy > 0 || st.Untranslated > 0 {
		b.WriteString("\n")
		b.WriteString(t.T(uiLocale, "catalog_pending", map[string]any{
			"Fuzzy":        st.Fuzzy,
			"Untranslated": st.Untranslated,
		}))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "📚 " + t.T(uiLocale, "catalog_title", map[string]any{"Locale": locale}),
		Description: b.String(),
		Color:       embedColor,
		Fields: []*discordgo.MessageEmbedField{
			headerField(t.T(uiLocale, "catalog_project", nil), h.ProjectIDVersion()),
			headerField(t.T(uiLocale, "catalog_translator", nil), h.LastTranslator()),
			headerField(t.T(uiLocale, "catalog_revision", nil), revision),
		},
	}
	if gen := h.Generator(); gen != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: gen}
	}
	return embed
}
