package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

type Config struct {
	Token            string
	GuildID          string
	CatalogDir       string
	DefaultLocale    string
	DatabaseURL      string
	MigrationsPath   string
	StrictDuplicates bool
	LogLevel         log.Level
}

// Load reads the configuration from the environment (and an optional .env
// file) and validates it. The Discord token is only required by the bot,
// see RequireToken.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env is optional when variables come from the environment (Docker, CI, etc.).
	}

	cfg := &Config{
		Token:          os.Getenv("TOKEN"),
		GuildID:        os.Getenv("GUILD_ID"),
		CatalogDir:     os.Getenv("CATALOG_DIR"),
		DefaultLocale:  os.Getenv("DEFAULT_LOCALE"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
	}

	if err := cfg.parse(os.Getenv("STRICT_DUPLICATES"), os.Getenv("LOG_LEVEL")); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) parse(strict, level string) error {
	if strings.TrimSpace(strict) != "" {
		v, err := strconv.ParseBool(strings.TrimSpace(strict))
		if err != nil {
			return fmt.Errorf("config: STRICT_DUPLICATES invalid (%q): %w", strict, err)
		}
		c.StrictDuplicates = v
	}

	if strings.TrimSpace(level) == "" {
		level = "info"
	}
	lvl, err := log.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return fmt.Errorf("config: LOG_LEVEL invalid (%q): %w", level, err)
	}
	c.LogLevel = lvl
	return nil
}

// validate applies defaults and checks every setting.
func (c *Config) validate() error {
	if strings.TrimSpace(c.CatalogDir) == "" {
		c.CatalogDir = "locales"
	}
	if strings.TrimSpace(c.MigrationsPath) == "" {
		c.MigrationsPath = "migrations"
	}

	if strings.TrimSpace(c.DefaultLocale) == "" {
		c.DefaultLocale = "hy"
	}
	if _, err := language.Parse(c.DefaultLocale); err != nil {
		return fmt.Errorf("config: DEFAULT_LOCALE invalid (%q): %w", c.DefaultLocale, err)
	}

	for _, r := range c.GuildID {
		if r < '0' || r > '9' {
			return fmt.Errorf("config: GUILD_ID must be a Discord guild ID (digits only)")
		}
	}

	if strings.TrimSpace(c.DatabaseURL) != "" {
		parsed, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return fmt.Errorf("config: DATABASE_URL invalid (%q): %w", c.DatabaseURL, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config: DATABASE_URL invalid (%q): missing scheme or host", c.DatabaseURL)
		}
	}

	return nil
}

// RequireToken fails when TOKEN is empty.
func (c *Config) RequireToken() error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("config: TOKEN is required and cannot be empty")
	}
	return nil
}

// HasDatabase reports whether snapshots are persisted.
func (c *Config) HasDatabase() bool {
	return strings.TrimSpace(c.DatabaseURL) != ""
}
