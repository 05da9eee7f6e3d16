package main

import (
	"context"

	log "github.com/sirupsen/logrus"

	"pocatalog/internal/adapters/discord"
	"pocatalog/internal/application"
	"pocatalog/internal/config"
	"pocatalog/internal/infrastructure/database"
	"pocatalog/internal/infrastructure/export"
	"pocatalog/internal/infrastructure/i18n"
	"pocatalog/internal/infrastructure/po"
	"pocatalog/internal/ports/output"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	if err := cfg.RequireToken(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.SetLevel(cfg.LogLevel)

	ctx := context.Background()
	translator := i18n.NewTranslator(cfg.DefaultLocale)

	var repo output.CatalogRepository
	if cfg.HasDatabase() {
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatalf("❌ Failed to migrate the database: %v", err)
		}
		pool, err := database.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("❌ Failed to initialise the database: %v", err)
		}
		defer pool.Close()
		repo = database.NewCatalogRepository(pool)
	}

	catalogs := application.NewCatalogService(po.Codec{Strict: cfg.StrictDuplicates}, export.Default(), repo, translator)
	locales, err := catalogs.LoadDir(ctx, cfg.CatalogDir)
	if err != nil {
		log.Fatalf("❌ Failed to load catalogs from %s: %v", cfg.CatalogDir, err)
	}
	if repo != nil {
		for _, locale := range locales {
			if _, err := catalogs.Persist(ctx, locale); err != nil {
				log.Warnf("⚠️ Snapshot of %s not saved: %v", locale, err)
			}
		}
	}

	bot, err := discord.NewBot(cfg, catalogs, translator)
	if err != nil {
		log.Fatalf("❌ Failed to create the Discord session: %v", err)
	}
	if err := bot.Start(); err != nil {
		log.Fatalf("❌ Failed to start the bot: %v", err)
	}
}
