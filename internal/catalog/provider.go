package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/lensfinderz-backend/internal/offers"
	"github.com/angelmondragon/lensfinderz-backend/pkg/db/models"
	"github.com/angelmondragon/lensfinderz-backend/pkg/logger"
	"github.com/angelmondragon/lensfinderz-backend/pkg/metrics"
	"github.com/google/uuid"
)

// Provider serves the offer catalog to the pricing engine. Rule and category rows are read
// through the cache when one is configured; coupons and power bands always hit the database.
type Provider struct {
	repo    Repository
	cache   *snapshotCache
	metrics *metrics.PricingMetrics
	logg    *logger.Logger
}

var _ offers.CatalogProvider = (*Provider)(nil)

// ProviderOptions wires optional collaborators into a Provider.
type ProviderOptions struct {
	// Store enables the read-through cache when non-nil.
	Store    snapshotStore
	CacheTTL time.Duration
	Metrics  *metrics.PricingMetrics
	Logger   *logger.Logger
}

// NewProvider builds a catalog provider over repo.
func NewProvider(repo Repository, opts ProviderOptions) (*Provider, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	p := &Provider{repo: repo, metrics: opts.Metrics, logg: opts.Logger}
	if opts.Store != nil && opts.CacheTTL > 0 {
		p.cache = &snapshotCache{store: opts.Store, ttl: opts.CacheTTL}
	}
	return p, nil
}

// ActiveOfferRules returns the rules whose switch and validity window admit asOf, in
// catalog order. Every row is decoded so a broken config surfaces as a configuration error.
func (p *Provider) ActiveOfferRules(ctx context.Context, orgID uuid.UUID, asOf time.Time) ([]offers.OfferRule, error) {
	var rows []models.OfferRule
	err := p.readThrough(ctx, orgID, rulesKind, &rows, func() error {
		var err error
		rows, err = p.repo.ListOfferRules(ctx, orgID)
		return err
	})
	if err != nil {
		return nil, err
	}

	rules := make([]offers.OfferRule, 0, len(rows))
	for _, row := range rows {
		rule, err := toOfferRule(row)
		if err != nil {
			return nil, err
		}
		if rule.ActiveAt(asOf) {
			rules = append(rules, rule)
		}
	}
	return rules, nil
}

func (p *Provider) CategoryDiscounts(ctx context.Context, orgID uuid.UUID) ([]offers.CategoryDiscount, error) {
	var rows []models.CategoryDiscount
	err := p.readThrough(ctx, orgID, categoriesKind, &rows, func() error {
		var err error
		rows, err = p.repo.ListCategoryDiscounts(ctx, orgID)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]offers.CategoryDiscount, 0, len(rows))
	for _, row := range rows {
		out = append(out, toCategoryDiscount(row))
	}
	return out, nil
}

func (p *Provider) Coupon(ctx context.Context, orgID uuid.UUID, code string) (*offers.Coupon, error) {
	row, err := p.repo.FindCoupon(ctx, orgID, code)
	if err != nil {
		return nil, err
	}
	return toCoupon(row), nil
}

func (p *Provider) PowerBands(ctx context.Context, lensID uuid.UUID) ([]offers.PowerBand, error) {
	rows, err := p.repo.ListPowerBands(ctx, lensID)
	if err != nil {
		return nil, err
	}
	bands := make([]offers.PowerBand, 0, len(rows))
	for _, row := range rows {
		bands = append(bands, toPowerBand(row))
	}
	return bands, nil
}

// readThrough fills target from the cache or, on a miss or cache failure, from fetch.
// Cache failures are logged and never fail the read.
func (p *Provider) readThrough(ctx context.Context, orgID uuid.UUID, kind string, target any, fetch func() error) error {
	if p.cache == nil {
		return fetch()
	}

	key, err := p.cache.cacheKey(ctx, orgID.String(), kind)
	if err != nil {
		p.cacheFailure(ctx, kind, "catalog cache version read failed", err)
		return fetch()
	}

	hit, err := p.cache.load(ctx, key, target)
	switch {
	case err != nil:
		p.cacheFailure(ctx, kind, "catalog cache read failed", err)
	case hit:
		p.metrics.IncCacheHit()
		return nil
	default:
		p.metrics.IncCacheMiss()
	}

	if err := fetch(); err != nil {
		return err
	}
	if err := p.cache.save(ctx, key, target); err != nil {
		p.cacheFailure(ctx, kind, "catalog cache write failed", err)
	}
	return nil
}

func (p *Provider) cacheFailure(ctx context.Context, kind, msg string, err error) {
	p.metrics.IncCacheError()
	ctx = p.logg.WithFields(ctx, map[string]any{
		"cache_kind": kind,
		"error":      err.Error(),
	})
	p.logg.Warn(ctx, msg)
}
