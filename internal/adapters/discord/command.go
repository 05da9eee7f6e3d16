package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	pkgdiscord "pocatalog/pkg/discord"
)

const (
	commandTranslate = "translate"
	commandCatalog   = "catalog"
	commandLocales   = "locales"

	optionKey    = "key"
	optionLocale = "locale"
)

func commands() []*discordgo.ApplicationCommand {
	locale := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        optionLocale,
		Description: "Catalog language, e.g. hy",
	}
	return []*discordgo.ApplicationCommand{
		{
			Name:        commandTranslate,
			Description: "Look up a message in a catalog",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optionKey,
					Description: "Source text (msgid)",
					Required:    true,
				},
				locale,
			},
		},
		{
			Name:        commandCatalog,
			Description: "Show catalog metadata and progress",
			Options:     []*discordgo.ApplicationCommandOption{locale},
		},
		{
			Name:        commandLocales,
			Description: "List the loaded catalogs",
		},
	}
}

func optionValues(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]string {
	values := make(map[string]string, len(opts))
	for _, o := range opts {
		if o.Type == discordgo.ApplicationCommandOptionString {
			values[o.Name] = strings.TrimSpace(o.StringValue())
		}
	}
	return values
}

// catalogLocale returns the requested catalog locale, or the default one.
func (h *Handler) catalogLocale(values map[string]string) string {
	if l := values[optionLocale]; l != "" {
		return l
	}
	return h.defaultLocale
}

// uiLocale is the language of the user's Discord client.
func uiLocale(i *discordgo.InteractionCreate) string {
	return string(i.Locale)
}

func (h *Handler) HandleTranslate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	values := optionValues(i.ApplicationCommandData().Options)
	respondEphemeral(s, i.Interaction, h.translateReply(uiLocale(i), h.catalogLocale(values), values[optionKey]))
}

func (h *Handler) translateReply(ui, locale, key string) string {
	if _, err := h.catalogs.Catalog(locale); err != nil {
		return "❌ " + pkgdiscord.DomainErrorMessage(h.t, ui, err)
	}
	data := map[string]any{"Key": key, "Locale": locale}
	translation, ok := h.catalogs.Lookup(locale, key)
	if !ok {
		log.WithFields(log.Fields{"locale": locale, "key": key}).Debug("🔍 Missing translation")
		return h.t.T(ui, "translate_missing", data)
	}
	data["Translation"] = translation
	return h.t.T(ui, "translate_found", data)
}

func (h *Handler) HandleCatalog(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ui := uiLocale(i)
	locale := h.catalogLocale(optionValues(i.ApplicationCommandData().Options))
	c, err := h.catalogs.Catalog(locale)
	if err != nil {
		respondEphemeral(s, i.Interaction, "❌ "+pkgdiscord.DomainErrorMessage(h.t, ui, err))
		return
	}
	respondEmbed(s, i.Interaction, pkgdiscord.BuildCatalogEmbed(h.t, ui, c.Language(), c))
}

func (h *Handler) HandleLocales(s *discordgo.Session, i *discordgo.InteractionCreate) {
	respondEphemeral(s, i.Interaction, h.localesReply(uiLocale(i)))
}

func (h *Handler) localesReply(ui string) string {
	locales := h.catalogs.Locales()
	if len(locales) == 0 {
		return "❌ " + h.t.T(ui, "error_catalog_not_found", nil)
	}
	return "📚 " + strings.Join(locales, ", ")
}
