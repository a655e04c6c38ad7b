package offers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/lensfinderz-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/lensfinderz-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// CatalogProvider supplies the read-only offer catalog. Coupon returns nil, nil for unknown codes.
type CatalogProvider interface {
	ActiveOfferRules(ctx context.Context, orgID uuid.UUID, asOf time.Time) ([]OfferRule, error)
	CategoryDiscounts(ctx context.Context, orgID uuid.UUID) ([]CategoryDiscount, error)
	Coupon(ctx context.Context, orgID uuid.UUID, code string) (*Coupon, error)
	PowerBands(ctx context.Context, lensID uuid.UUID) ([]PowerBand, error)
}

// Snapshot is the catalog state one calculation prices against.
type Snapshot struct {
	Rules             []OfferRule
	CategoryDiscounts []CategoryDiscount
	Coupon            *Coupon
	PowerBands        map[uuid.UUID][]PowerBand
}

// Validate surfaces every configuration problem in the snapshot.
func (s Snapshot) Validate() error {
	if err := ValidateRules(s.Rules); err != nil {
		return err
	}
	for _, bands := range s.PowerBands {
		if err := ValidatePowerBands(bands); err != nil {
			return err
		}
	}
	if err := ValidateCategoryDiscounts(s.CategoryDiscounts); err != nil {
		return err
	}
	return ValidateCoupon(s.Coupon)
}

const defaultFetchTimeout = 2 * time.Second

// Engine prices selections against a catalog fetched per call.
type Engine struct {
	catalog      CatalogProvider
	fetchTimeout time.Duration
}

// NewEngine builds an engine; a non-positive timeout falls back to two seconds.
func NewEngine(catalog CatalogProvider, fetchTimeout time.Duration) (*Engine, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog provider required")
	}
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}
	return &Engine{catalog: catalog, fetchTimeout: fetchTimeout}, nil
}

// Calculate validates the input, loads a catalog snapshot and prices it.
func (e *Engine) Calculate(ctx context.Context, in CalculationInput) (*Result, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}
	snap, err := e.LoadSnapshot(ctx, in)
	if err != nil {
		return nil, err
	}
	return Evaluate(in, snap)
}

// LoadSnapshot fetches every catalog slice the input needs concurrently under the fetch
// timeout. Any failure fails the whole load.
func (e *Engine) LoadSnapshot(ctx context.Context, in CalculationInput) (Snapshot, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, e.fetchTimeout)
	defer cancel()

	lensIDs := powerBandLensIDs(in)
	bandSets := make([][]PowerBand, len(lensIDs))
	var snap Snapshot

	g, gctx := errgroup.WithContext(fetchCtx)
	g.Go(func() error {
		rules, err := e.catalog.ActiveOfferRules(gctx, in.OrganizationID, in.AsOf)
		if err != nil {
			return err
		}
		snap.Rules = rules
		return nil
	})
	g.Go(func() error {
		rows, err := e.catalog.CategoryDiscounts(gctx, in.OrganizationID)
		if err != nil {
			return err
		}
		snap.CategoryDiscounts = rows
		return nil
	})
	if code := strings.TrimSpace(in.CouponCode); code != "" {
		g.Go(func() error {
			coupon, err := e.catalog.Coupon(gctx, in.OrganizationID, code)
			if err != nil {
				return err
			}
			snap.Coupon = coupon
			return nil
		})
	}
	for i, lensID := range lensIDs {
		g.Go(func() error {
			bands, err := e.catalog.PowerBands(gctx, lensID)
			if err != nil {
				return err
			}
			bandSets[i] = bands
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Snapshot{}, catalogError(fetchCtx, err)
	}

	snap.PowerBands = make(map[uuid.UUID][]PowerBand, len(lensIDs))
	for i, lensID := range lensIDs {
		snap.PowerBands[lensID] = bandSets[i]
	}
	return snap, nil
}

func catalogError(ctx context.Context, err error) error {
	if pkgerrors.Is(err, pkgerrors.CodeConfiguration) {
		return err
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "offer catalog fetch timed out")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "offer catalog unavailable")
}

func powerBandLensIDs(in CalculationInput) []uuid.UUID {
	var ids []uuid.UUID
	seen := map[uuid.UUID]struct{}{}
	addLens := func(lens *Lens, rx *Prescription) {
		if lens == nil || rx == nil || lens.ID == uuid.Nil {
			return
		}
		if _, ok := seen[lens.ID]; ok {
			return
		}
		seen[lens.ID] = struct{}{}
		ids = append(ids, lens.ID)
	}
	addLens(in.Lens, in.Prescription)
	if in.SecondPair != nil {
		addLens(&in.SecondPair.Lens, in.SecondPair.Prescription)
	}
	return ids
}

// Evaluate prices in against snap. It is pure: identical arguments give identical results.
func Evaluate(in CalculationInput, snap Snapshot) (*Result, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	var (
		b      Breakdown
		result = &Result{
			RxCharges:     []RxCharge{},
			OffersApplied: []AppliedOffer{},
			AsOf:          in.AsOf,
		}
		base = PricingBase{Frame: in.Frame, Lens: in.Lens}
	)

	if !in.AccessoryOnly() {
		base.FrameMRP = roundMoney(in.Frame.MRP)
		b.Charge("Frame: "+in.Frame.Brand, base.FrameMRP)

		rx := MatchPowerBands(in.Lens.Price, in.Prescription, snap.PowerBands[in.Lens.ID])
		base.LensPrice = rx.AdjustedPrice
		b.Charge("Lens: "+lensLabel(*in.Lens), rx.BasePrice)
		for _, charge := range rx.Charges {
			b.Charge("Rx add-on: "+bandLabel(charge), decimal.NewFromInt(charge.ExtraCharge))
		}
		result.RxCharges = append(result.RxCharges, rx.Charges...)
		result.FrameMRP = units(base.FrameMRP)
		result.LensPrice = units(base.LensPrice)
	}

	for _, item := range in.OtherItems {
		line := roundMoney(item.Price.Mul(decimal.NewFromInt(int64(item.quantity()))))
		base.OtherTotal = base.OtherTotal.Add(line)
		label := item.Label
		if item.quantity() > 1 {
			label = fmt.Sprintf("%s x%d", item.Label, item.quantity())
		}
		b.Charge(label, line)
	}

	var (
		secondPairTotal = decimal.Zero
		secondPair      *SecondPairDiscount
	)
	if in.SecondPair != nil {
		sp := in.SecondPair
		frame := roundMoney(sp.Frame.MRP)
		rx := MatchPowerBands(sp.Lens.Price, sp.Prescription, snap.PowerBands[sp.Lens.ID])
		b.Charge("Second pair frame: "+sp.Frame.Brand, frame)
		b.Charge("Second pair lens: "+lensLabel(sp.Lens), rx.BasePrice)
		for _, charge := range rx.Charges {
			b.Charge("Second pair Rx add-on: "+bandLabel(charge), decimal.NewFromInt(charge.ExtraCharge))
		}
		result.RxCharges = append(result.RxCharges, rx.Charges...)
		secondPairTotal = frame.Add(rx.AdjustedPrice)

		secondPair = CalculateSecondPair(snap.Rules, in.AsOf, SecondPairPricing{
			PrimaryFrame: in.Frame,
			PrimaryLens:  in.Lens,
			SecondFrame:  sp.Frame,
			PairATotal:   base.FrameMRP.Add(base.LensPrice),
			PairBTotal:   secondPairTotal,
		})
	}

	primary := PrimaryResolution{
		BaseTotal:     base.Total(),
		EffectiveBase: base.Total(),
		Applied:       []AppliedOffer{},
	}
	if !in.AccessoryOnly() {
		candidates := MatchRules(snap.Rules, MatchInput{
			Now:              in.AsOf,
			Frame:            in.Frame,
			Lens:             in.Lens,
			Context:          contextOrDefault(in.Context),
			CustomerCategory: in.CustomerCategory,
		})
		primary = ResolvePrimary(candidates, base)
	}
	result.OffersApplied = append(result.OffersApplied, primary.Applied...)
	if primary.Rule != nil {
		b.Discount(primary.Rule.label(), primary.Savings)
	}

	result.BaseTotal = units(primary.BaseTotal.Add(secondPairTotal))
	result.EffectiveBase = units(primary.EffectiveBase.Add(secondPairTotal))

	running := primary.EffectiveBase.Add(secondPairTotal)
	if secondPair != nil {
		savings := clampDiscount(decimal.NewFromInt(secondPair.Savings), running)
		secondPair.Savings = units(savings)
		result.SecondPairDiscount = secondPair
		b.Discount(fmt.Sprintf("Second pair %s: %s", secondPair.OfferType, secondPair.RuleCode), savings)
		running = running.Sub(savings)
	}

	frameBrand := ""
	if in.Frame != nil {
		frameBrand = in.Frame.Brand
	}
	category, categoryDiscount := ApplyCategoryDiscount(running, snap.CategoryDiscounts, in.CustomerCategory, frameBrand)
	if category != nil {
		result.CategoryDiscount = category
		b.Discount(fmt.Sprintf("Category discount (%s)", category.CustomerCategory), categoryDiscount)
		running = running.Sub(categoryDiscount)
	}

	coupon, couponErr, couponDiscount := ApplyCoupon(running, in.CouponCode, snap.Coupon)
	result.CouponDiscount = coupon
	result.CouponError = couponErr
	if coupon != nil {
		b.Discount("Coupon "+coupon.Code, couponDiscount)
	}

	result.PriceComponents, result.FinalPayable = ComposeBreakdown(b)
	return result, nil
}

func contextOrDefault(ctx enums.OfferContext) enums.OfferContext {
	if ctx == "" {
		return enums.OfferContextRegular
	}
	return ctx
}

func lensLabel(l Lens) string {
	if l.BrandLine != "" {
		return l.BrandLine + " " + l.Code()
	}
	return l.Code()
}

func bandLabel(c RxCharge) string {
	if c.Label != "" {
		return c.Label
	}
	return c.BandID.String()
}
