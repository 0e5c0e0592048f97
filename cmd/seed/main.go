package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/pixelcrate/gameshelf-backend/internal/catalog"
	"github.com/pixelcrate/gameshelf-backend/internal/identity"
	"github.com/pixelcrate/gameshelf-backend/pkg/config"
	"github.com/pixelcrate/gameshelf-backend/pkg/db"
	"github.com/pixelcrate/gameshelf-backend/pkg/db/models"
	"github.com/pixelcrate/gameshelf-backend/pkg/logger"
	"github.com/pixelcrate/gameshelf-backend/pkg/migrate"
)

type seedGame struct {
	title       string
	price       string
	description string
	tags        []string
}

var seedGames = []seedGame{
	{
		title:       "Neon Skies",
		price:       "9.99",
		description: "A fast-paced arcade shooter set above a neon-drenched city.",
		tags:        []string{"arcade", "shooter"},
	},
	{
		title:       "Mystic Farm",
		price:       "14.99",
		description: "A cozy farming sim with a light touch of forest magic.",
		tags:        []string{"simulation", "casual"},
	},
	{
		title:       "Deep Rift",
		price:       "24.99",
		description: "An underwater exploration RPG with branching quest lines.",
		tags:        []string{"rpg", "adventure"},
	},
}

var seedUsernames = []string{"alice"}

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if cfg.DB.IsSQLite() {
		if err := migrate.AutoMigrateSQLite(dbClient); err != nil {
			logg.Error(ctx, "failed to migrate sqlite schema", err)
			os.Exit(1)
		}
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	identityRepo := identity.NewRepository(dbClient.DB())

	created := 0
	for _, seed := range seedGames {
		count, err := catalogRepo.CountByTitle(ctx, seed.title)
		if err != nil {
			logg.Error(logg.WithField(ctx, "title", seed.title), "failed to check game", err)
			os.Exit(1)
		}
		if count > 0 {
			continue
		}

		price, err := decimal.NewFromString(seed.price)
		if err != nil {
			logg.Error(logg.WithField(ctx, "title", seed.title), "invalid seed price", err)
			os.Exit(1)
		}

		game := &models.Game{
			Title:       seed.title,
			Price:       price,
			Description: seed.description,
			Tags:        catalog.JoinTags(seed.tags),
		}
		if _, err := catalogRepo.Create(ctx, game); err != nil {
			logg.Error(logg.WithField(ctx, "title", seed.title), "failed to seed game", err)
			os.Exit(1)
		}
		created++
	}

	for _, username := range seedUsernames {
		if _, err := identityRepo.FindByUsername(ctx, username); err == nil {
			continue
		}
		if _, err := identityRepo.Create(ctx, username); err != nil {
			if db.IsUniqueViolation(err, "users_username_key") {
				continue
			}
			logg.Error(logg.WithField(ctx, "username", username), "failed to seed user", err)
			os.Exit(1)
		}
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"games_created": created,
		"games_total":   len(seedGames),
	}), "seed complete")
}
