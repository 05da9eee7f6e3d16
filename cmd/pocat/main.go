package main

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"pocatalog/internal/adapters/cli"
	"pocatalog/internal/config"
	"pocatalog/internal/domain"
	"pocatalog/internal/infrastructure/database"
	"pocatalog/internal/ports/output"
)

var version = "dev"

// openRepository connects to DATABASE_URL and applies pending migrations.
func openRepository(ctx context.Context) (output.CatalogRepository, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log.SetLevel(max(log.GetLevel(), cfg.LogLevel))
	if !cfg.HasDatabase() {
		return nil, nil, fmt.Errorf("%w: DATABASE_URL is not set", domain.ErrNoRepository)
	}
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		return nil, nil, err
	}
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return database.NewCatalogRepository(pool), pool.Close, nil
}

func main() {
	log.SetOutput(os.Stderr)
	app := cli.New(version, os.Stdout, openRepository)
	app.FatalIfError(app.Run(os.Args[1:]))
}
