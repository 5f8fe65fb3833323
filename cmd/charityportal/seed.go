package main

import (
	"context"
	"fmt"

	"charityportal/internal/db"
	"charityportal/internal/seed"
	"charityportal/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the lookup tables and the attachment requirement catalog",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		logrus.Info("Seeding location types...")
		if err := seed.SeedLocationTypes(ctx, store.NewLocationTypeRepository(pool)); err != nil {
			return fmt.Errorf("failed to seed location types: %w", err)
		}

		logrus.Info("Seeding regions...")
		if err := seed.SeedRegions(ctx, store.NewRegionRepository(pool)); err != nil {
			return fmt.Errorf("failed to seed regions: %w", err)
		}

		logrus.Info("Seeding attachment requirements...")
		if err := seed.SeedRequirements(ctx, store.NewRequirementRepository(pool)); err != nil {
			return fmt.Errorf("failed to seed attachment requirements: %w", err)
		}

		logrus.Info("Seed data loaded successfully")

		return nil
	},
}
