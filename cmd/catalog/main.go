package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/angelmondragon/lensfinderz-backend/internal/catalog"
	"github.com/angelmondragon/lensfinderz-backend/internal/offers"
	"github.com/angelmondragon/lensfinderz-backend/pkg/config"
	"github.com/angelmondragon/lensfinderz-backend/pkg/db"
	"github.com/angelmondragon/lensfinderz-backend/pkg/logger"
	"github.com/angelmondragon/lensfinderz-backend/pkg/redis"
)

// catalog is the operator tool for an organization's offer catalog:
//
//	-cmd=check       decode and validate every active rule and category discount
//	-cmd=invalidate  bump the cache version so API instances refetch
func main() {
	_ = godotenv.Load()

	cmd := flag.String("cmd", "check", "catalog command: check|invalidate")
	org := flag.String("org", "", "organization id")
	asOf := flag.String("as-of", "", "RFC 3339 instant to evaluate validity windows at (check only)")
	flag.Parse()

	if err := run(context.Background(), *cmd, *org, *asOf); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd, rawOrg, rawAsOf string) error {
	orgID, err := uuid.Parse(rawOrg)
	if err != nil || orgID == uuid.Nil {
		return fmt.Errorf("-org must be an organization uuid")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New(logger.Options{
		ServiceName: "catalog",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})
	ctx = logg.WithFields(ctx, map[string]any{"cmd": cmd, "organization_id": orgID.String()})

	switch cmd {
	case "check":
		at := time.Now().UTC()
		if rawAsOf != "" {
			if at, err = time.Parse(time.RFC3339, rawAsOf); err != nil {
				return fmt.Errorf("-as-of: %w", err)
			}
		}
		return check(ctx, cfg, logg, orgID, at.UTC())
	case "invalidate":
		return invalidate(ctx, cfg, logg, orgID)
	default:
		return fmt.Errorf("unknown -cmd value %q", cmd)
	}
}

func check(ctx context.Context, cfg *config.Config, logg *logger.Logger, orgID uuid.UUID, asOf time.Time) error {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer dbClient.Close()

	provider, err := catalog.NewProvider(catalog.NewRepository(dbClient.DB()), catalog.ProviderOptions{Logger: logg})
	if err != nil {
		return err
	}

	rules, err := provider.ActiveOfferRules(ctx, orgID, asOf)
	if err != nil {
		return fmt.Errorf("load offer rules: %w", err)
	}
	if err := offers.ValidateRules(rules); err != nil {
		return fmt.Errorf("offer rules: %w", err)
	}
	discounts, err := provider.CategoryDiscounts(ctx, orgID)
	if err != nil {
		return fmt.Errorf("load category discounts: %w", err)
	}
	if err := offers.ValidateCategoryDiscounts(discounts); err != nil {
		return fmt.Errorf("category discounts: %w", err)
	}

	for _, rule := range offers.SortByPriority(rules) {
		fmt.Printf("%5d  %-24s %s\n", rule.Priority, rule.Code, rule.OfferType)
	}
	fmt.Printf("%d active rules, %d category discounts as of %s\n", len(rules), len(discounts), asOf.Format(time.RFC3339))
	return nil
}

func invalidate(ctx context.Context, cfg *config.Config, logg *logger.Logger, orgID uuid.UUID) error {
	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close()

	version, err := redisClient.BumpCatalogVersion(ctx, orgID.String())
	if err != nil {
		return fmt.Errorf("bump catalog version: %w", err)
	}
	logg.Info(logg.WithField(ctx, "catalog_version", version), "offer catalog cache invalidated")
	fmt.Printf("catalog version for %s is now %d\n", orgID, version)
	return nil
}
