package offers

import (
	"context"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/lensfinderz-backend/pkg/errors"
	"github.com/angelmondragon/lensfinderz-backend/pkg/logger"
	"github.com/angelmondragon/lensfinderz-backend/pkg/metrics"
	"github.com/google/uuid"
)

// Service exposes offer pricing to transports.
type Service interface {
	Calculate(ctx context.Context, input CalculationInput) (*Result, error)
	ListActiveRules(ctx context.Context, orgID uuid.UUID, asOf time.Time) ([]OfferRule, error)
}

type service struct {
	engine    *Engine
	catalog   CatalogProvider
	publisher AuditPublisher
	metrics   *metrics.PricingMetrics
	logg      *logger.Logger
	now       func() time.Time
}

// NewService wires the engine with logging, metrics and audit publishing.
// A nil publisher disables audit events; nil metrics are a no-op.
func NewService(catalog CatalogProvider, publisher AuditPublisher, pricingMetrics *metrics.PricingMetrics, logg *logger.Logger, fetchTimeout time.Duration) (Service, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog provider required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	engine, err := NewEngine(catalog, fetchTimeout)
	if err != nil {
		return nil, err
	}
	if publisher == nil {
		publisher = NoopAuditPublisher()
	}
	return &service{
		engine:    engine,
		catalog:   catalog,
		publisher: publisher,
		metrics:   pricingMetrics,
		logg:      logg,
		now:       time.Now,
	}, nil
}

func (s *service) Calculate(ctx context.Context, input CalculationInput) (*Result, error) {
	started := s.now()
	if input.AsOf.IsZero() {
		input.AsOf = started.UTC()
	}

	ctx = s.logg.WithOrganizationID(ctx, input.OrganizationID.String())
	fields := map[string]any{
		"accessory_only": input.AccessoryOnly(),
		"second_pair":    input.SecondPair != nil,
		"as_of":          input.AsOf.Format(time.RFC3339),
	}
	if input.CouponCode != "" {
		fields["coupon_code"] = strings.ToUpper(strings.TrimSpace(input.CouponCode))
	}
	if input.CustomerCategory != "" {
		fields["customer_category"] = input.CustomerCategory
	}
	ctx = s.logg.WithFields(ctx, fields)

	result, err := s.engine.Calculate(ctx, input)
	s.metrics.ObserveCalculation(outcomeFor(err), s.now().Sub(started))
	if err != nil {
		s.logFailure(ctx, err)
		return nil, err
	}

	for _, offer := range result.OffersApplied {
		s.metrics.IncOfferApplied(offer.OfferType.String())
	}
	if result.SecondPairDiscount != nil {
		s.metrics.IncOfferApplied(result.SecondPairDiscount.OfferType.String())
	}
	if result.CouponError != nil {
		s.metrics.IncCouponRejected(string(result.CouponError.Code))
		s.logg.Info(s.logg.WithField(ctx, "coupon_error", string(result.CouponError.Code)), "coupon not applied")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"base_total":    result.BaseTotal,
		"final_payable": result.FinalPayable,
		"offers":        len(result.OffersApplied),
	})
	s.logg.Info(ctx, "offer calculation completed")

	if err := s.publisher.PublishCalculation(ctx, NewCalculationEvent(input, result)); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "offer calculation audit publish failed")
	}
	return result, nil
}

func (s *service) ListActiveRules(ctx context.Context, orgID uuid.UUID, asOf time.Time) ([]OfferRule, error) {
	if orgID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "organization id is required")
	}
	if asOf.IsZero() {
		asOf = s.now().UTC()
	}
	rules, err := s.catalog.ActiveOfferRules(ctx, orgID, asOf)
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeConfiguration) {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "offer catalog unavailable")
	}
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}

	active := make([]OfferRule, 0, len(rules))
	for _, rule := range rules {
		if rule.ActiveAt(asOf) {
			active = append(active, rule)
		}
	}
	return SortByPriority(active), nil
}

func (s *service) logFailure(ctx context.Context, err error) {
	typed := pkgerrors.As(err)
	if typed != nil && typed.Code() == pkgerrors.CodeValidation {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "offer calculation rejected")
		return
	}
	s.logg.Error(ctx, "offer calculation failed", err)
}

func outcomeFor(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case pkgerrors.Is(err, pkgerrors.CodeValidation):
		return metrics.OutcomeInvalid
	case pkgerrors.Is(err, pkgerrors.CodeConfiguration):
		return metrics.OutcomeConfig
	default:
		return metrics.OutcomeUnavailable
	}
}
