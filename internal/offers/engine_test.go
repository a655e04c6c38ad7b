package offers

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/angelmondragon/lensfinderz-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/lensfinderz-backend/pkg/errors"
	"github.com/google/uuid"
)

type stubCatalog struct {
	rules      []OfferRule
	categories []CategoryDiscount
	coupons    map[string]*Coupon
	bands      map[uuid.UUID][]PowerBand
	rulesErr   error
	delay      time.Duration
	bandCalls  atomic.Int32
}

func (s *stubCatalog) ActiveOfferRules(ctx context.Context, orgID uuid.UUID, asOf time.Time) ([]OfferRule, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.rulesErr != nil {
		return nil, s.rulesErr
	}
	return s.rules, nil
}

func (s *stubCatalog) CategoryDiscounts(ctx context.Context, orgID uuid.UUID) ([]CategoryDiscount, error) {
	return s.categories, nil
}

func (s *stubCatalog) Coupon(ctx context.Context, orgID uuid.UUID, code string) (*Coupon, error) {
	return s.coupons[strings.ToUpper(code)], nil
}

func (s *stubCatalog) PowerBands(ctx context.Context, lensID uuid.UUID) ([]PowerBand, error) {
	s.bandCalls.Add(1)
	return s.bands[lensID], nil
}

func assertInvariants(t *testing.T, res *Result) {
	t.Helper()
	if res.FinalPayable < 0 {
		t.Fatalf("final payable must not be negative, got %d", res.FinalPayable)
	}
	if got := componentSum(res.PriceComponents); got != res.FinalPayable {
		t.Fatalf("components sum to %d but final payable is %d", got, res.FinalPayable)
	}
	var base, discounts int64
	for _, c := range res.PriceComponents {
		switch c.Kind {
		case enums.PriceComponentBase:
			if c.Amount < 0 {
				t.Fatalf("base line %q is negative", c.Label)
			}
			base += c.Amount
		case enums.PriceComponentDiscount:
			if c.Amount >= 0 {
				t.Fatalf("discount line %q is not negative", c.Label)
			}
			discounts += c.Amount
		}
	}
	if base != res.BaseTotal {
		t.Fatalf("base lines sum to %d, base total is %d", base, res.BaseTotal)
	}
	if res.BaseTotal+discounts != res.FinalPayable {
		t.Fatalf("base %d + discounts %d != final %d", res.BaseTotal, discounts, res.FinalPayable)
	}
}

func TestEvaluateYOPOWithRxAndLayers(t *testing.T) {
	lensID := uuid.New()
	in := baseInput("3000", "1800")
	in.Lens.ID = lensID
	in.Prescription = &Prescription{Sph: decPtr("-2"), Cyl: decPtr("-2.5"), Add: decPtr("2.5")}
	in.OtherItems = []OtherItem{{Label: "Cleaning kit", Price: dec("99.5"), Quantity: 2}}
	in.CustomerCategory = "STUDENT"
	in.CouponCode = "save100"

	yopo := rule("YOPO", enums.OfferTypeYOPO, 10)
	snap := Snapshot{
		Rules: []OfferRule{yopo},
		CategoryDiscounts: []CategoryDiscount{
			{CustomerCategory: "STUDENT", Brand: AnyBrand(), DiscountPercent: dec("5"), IsActive: true},
		},
		Coupon: &Coupon{Code: "SAVE100", DiscountType: enums.DiscountTypeFlatAmount, DiscountValue: dec("100"), IsActive: true},
		PowerBands: map[uuid.UUID][]PowerBand{lensID: {
			{ID: uuid.New(), Label: "high cyl", CylMin: decPtr("-6"), CylMax: decPtr("-2"), ExtraCharge: dec("200")},
			{ID: uuid.New(), Label: "high add", AddMin: decPtr("2"), ExtraCharge: dec("150")},
		}},
	}

	res, err := Evaluate(in, snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertInvariants(t, res)

	if res.FrameMRP != 3000 || res.LensPrice != 2150 {
		t.Fatalf("unexpected frame/lens %d/%d", res.FrameMRP, res.LensPrice)
	}
	if res.BaseTotal != 5349 {
		t.Fatalf("expected base total 5349, got %d", res.BaseTotal)
	}
	if res.EffectiveBase != 3199 {
		t.Fatalf("expected effective base 3199, got %d", res.EffectiveBase)
	}
	if res.CategoryDiscount == nil || res.CategoryDiscount.Savings != 160 {
		t.Fatalf("expected category discount 160, got %+v", res.CategoryDiscount)
	}
	if res.CouponDiscount == nil || res.CouponDiscount.Savings != 100 {
		t.Fatalf("expected coupon discount 100, got %+v", res.CouponDiscount)
	}
	if res.FinalPayable != 2939 {
		t.Fatalf("expected final 2939, got %d", res.FinalPayable)
	}
	if len(res.RxCharges) != 2 {
		t.Fatalf("expected two rx charges, got %+v", res.RxCharges)
	}

	labels := make([]string, 0, len(res.PriceComponents))
	for _, c := range res.PriceComponents {
		labels = append(labels, c.Label)
	}
	want := []string{
		"Frame: RAYBAN",
		"Lens: CLEARVIEW LNS-100",
		"Rx add-on: high cyl",
		"Rx add-on: high add",
		"Cleaning kit x2",
		"YOPO",
		"Category discount (STUDENT)",
		"Coupon SAVE100",
	}
	if strings.Join(labels, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected component order:\n got %v\nwant %v", labels, want)
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	in := baseInput("3000", "1800")
	in.CouponCode = "TEN"
	in.SecondPair = &SecondPair{Frame: Frame{Brand: "VOGUE", MRP: dec("2000")}, Lens: Lens{ItCode: "LNS-200", Price: dec("1200")}}
	pct := rule("PCT", enums.OfferTypePercentOff, 1)
	pct.DiscountValue = dec("12.5")
	snap := Snapshot{
		Rules:  []OfferRule{pct, rule("BOG50", enums.OfferTypeBOG50, 2)},
		Coupon: &Coupon{Code: "TEN", DiscountType: enums.DiscountTypePercentage, DiscountValue: dec("10"), IsActive: true},
	}

	first, err := Evaluate(in, snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Evaluate(in, snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatalf("results differ:\n%s\n%s", a, b)
	}
	assertInvariants(t, first)
}

func TestEvaluateNeverGoesNegative(t *testing.T) {
	in := baseInput("3000", "1800")
	in.CustomerCategory = "VIP"
	in.CouponCode = "ALL"
	in.OtherItems = []OtherItem{{Label: "Case", Price: dec("0.4")}}
	in.SecondPair = &SecondPair{Frame: Frame{Brand: "VOGUE", MRP: dec("100")}, Lens: Lens{ItCode: "L2", Price: dec("50")}}

	flat := rule("FLAT-HUGE", enums.OfferTypeFlatOff, 1)
	flat.DiscountValue = dec("1000000")
	snap := Snapshot{
		Rules: []OfferRule{flat, rule("BOGO", enums.OfferTypeBOGO, 1)},
		CategoryDiscounts: []CategoryDiscount{
			{CustomerCategory: "VIP", Brand: AnyBrand(), DiscountPercent: dec("100"), IsActive: true},
		},
		Coupon: &Coupon{Code: "ALL", DiscountType: enums.DiscountTypeFlatAmount, DiscountValue: dec("99999"), IsActive: true},
	}

	res, err := Evaluate(in, snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertInvariants(t, res)
	if res.FinalPayable != 0 {
		t.Fatalf("expected final 0, got %d", res.FinalPayable)
	}
}

func TestEvaluateBOGOSecondPair(t *testing.T) {
	in := baseInput("3000", "2000")
	in.SecondPair = &SecondPair{
		Frame: Frame{Brand: "VOGUE", MRP: dec("2000")},
		Lens:  Lens{ItCode: "LNS-200", Price: dec("1200")},
	}

	without, err := Evaluate(in, Snapshot{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	with, err := Evaluate(in, Snapshot{Rules: []OfferRule{rule("BOGO", enums.OfferTypeBOGO, 1)}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertInvariants(t, without)
	assertInvariants(t, with)

	if with.SecondPairDiscount == nil || with.SecondPairDiscount.Savings != 3200 {
		t.Fatalf("expected second pair savings 3200, got %+v", with.SecondPairDiscount)
	}
	if without.FinalPayable-with.FinalPayable != 3200 {
		t.Fatalf("expected final to drop by 3200, got %d -> %d", without.FinalPayable, with.FinalPayable)
	}
	if with.EffectiveBase != 8200 || with.BaseTotal != 8200 {
		t.Fatalf("second pair discount must not change effective base, got %d/%d", with.BaseTotal, with.EffectiveBase)
	}
}

func TestEvaluateCouponBelowMinimum(t *testing.T) {
	in := baseInput("2500", "1500")
	in.CouponCode = "BIG"
	snap := Snapshot{
		Coupon: &Coupon{Code: "BIG", DiscountType: enums.DiscountTypeFlatAmount, DiscountValue: dec("700"), MinCartValue: decPtr("5000"), IsActive: true},
	}
	res, err := Evaluate(in, snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.CouponDiscount != nil {
		t.Fatalf("expected no coupon discount, got %+v", res.CouponDiscount)
	}
	if res.CouponError == nil || res.CouponError.Code != enums.CouponErrorMinCartValue {
		t.Fatalf("expected min cart error, got %+v", res.CouponError)
	}
	if res.FinalPayable != 4000 {
		t.Fatalf("expected final unaffected at 4000, got %d", res.FinalPayable)
	}
}

func TestEvaluateAccessoryOnly(t *testing.T) {
	in := CalculationInput{
		OrganizationID:   testOrg,
		AsOf:             testNow,
		OtherItems:       []OtherItem{{Label: "Contact lenses", Price: dec("1200"), Quantity: 2}},
		CustomerCategory: "STUDENT",
	}
	snap := Snapshot{
		Rules: []OfferRule{rule("YOPO", enums.OfferTypeYOPO, 1), rule("FREE-LENS", enums.OfferTypeFreeLens, 1)},
		CategoryDiscounts: []CategoryDiscount{
			{CustomerCategory: "STUDENT", Brand: SpecificBrand("RAYBAN"), DiscountPercent: dec("50"), IsActive: true},
			{CustomerCategory: "STUDENT", Brand: AnyBrand(), DiscountPercent: dec("10"), IsActive: true},
		},
	}
	res, err := Evaluate(in, snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertInvariants(t, res)
	if len(res.OffersApplied) != 0 {
		t.Fatalf("expected no primary offers, got %+v", res.OffersApplied)
	}
	if res.BaseTotal != 2400 || res.FinalPayable != 2160 {
		t.Fatalf("unexpected totals base=%d final=%d", res.BaseTotal, res.FinalPayable)
	}
}

func TestEvaluateRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CalculationInput)
	}{
		{name: "missing organization", mutate: func(in *CalculationInput) { in.OrganizationID = uuid.Nil }},
		{name: "missing time", mutate: func(in *CalculationInput) { in.AsOf = time.Time{} }},
		{name: "frame without lens", mutate: func(in *CalculationInput) { in.Lens = nil }},
		{name: "missing brand", mutate: func(in *CalculationInput) { in.Frame.Brand = " " }},
		{name: "missing lens code", mutate: func(in *CalculationInput) { in.Lens.ItCode = "" }},
		{name: "negative lens price", mutate: func(in *CalculationInput) { in.Lens.Price = dec("-1") }},
		{name: "negative item", mutate: func(in *CalculationInput) {
			in.OtherItems = []OtherItem{{Label: "Case", Price: dec("-10")}}
		}},
		{name: "second pair context", mutate: func(in *CalculationInput) { in.Context = enums.OfferContextSecondPair }},
		{name: "second pair without primary", mutate: func(in *CalculationInput) {
			in.Frame, in.Lens = nil, nil
			in.SecondPair = &SecondPair{Frame: Frame{Brand: "X"}, Lens: Lens{ItCode: "Y"}}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := baseInput("3000", "1800")
			tc.mutate(&in)
			_, err := Evaluate(in, Snapshot{})
			if !pkgerrors.Is(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestEvaluateRejectsAmountsBeyondInt64Range(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CalculationInput)
	}{
		{name: "frame mrp", mutate: func(in *CalculationInput) { in.Frame.MRP = dec("10000000000000000000") }},
		{name: "lens price", mutate: func(in *CalculationInput) { in.Lens.Price = MaxMoney.Add(dec("1")) }},
		{name: "item price", mutate: func(in *CalculationInput) {
			in.OtherItems = []OtherItem{{Label: "Case", Price: dec("9223372036854775808")}}
		}},
		{name: "item quantity", mutate: func(in *CalculationInput) {
			in.OtherItems = []OtherItem{{Label: "Case", Price: dec("10"), Quantity: MaxItemQuantity + 1}}
		}},
		{name: "order value", mutate: func(in *CalculationInput) {
			in.Frame.MRP = MaxMoney
			in.Lens.Price = MaxMoney
		}},
		{name: "many items", mutate: func(in *CalculationInput) {
			for i := 0; i < 5; i++ {
				in.OtherItems = append(in.OtherItems, OtherItem{Label: "Case", Price: MaxMoney, Quantity: MaxItemQuantity})
			}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := baseInput("3000", "1800")
			tc.mutate(&in)
			res, err := Evaluate(in, Snapshot{})
			if !pkgerrors.Is(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got result %+v err %v", res, err)
			}
		})
	}
}

func TestEvaluateAtMaximumAmountKeepsComponentSum(t *testing.T) {
	in := baseInput(MaxMoney.Sub(dec("1800")).String(), "1800")
	in.Prescription = &Prescription{Sph: decPtr("-2.5")}
	snap := Snapshot{PowerBands: map[uuid.UUID][]PowerBand{in.Lens.ID: {{Label: "any", ExtraCharge: MaxMoney}}}}

	res, err := Evaluate(in, snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.RxCharges) != 1 {
		t.Fatalf("expected the band surcharge to apply, got %+v", res.RxCharges)
	}
	if res.FrameMRP <= 0 || res.BaseTotal <= 0 {
		t.Fatalf("expected positive totals, got frame=%d base=%d", res.FrameMRP, res.BaseTotal)
	}
	if got := componentSum(res.PriceComponents); got != res.FinalPayable {
		t.Fatalf("components sum %d != final payable %d", got, res.FinalPayable)
	}
}

func TestEvaluateSurfacesConfigurationErrors(t *testing.T) {
	broken := rule("COMBO-NO-PRICE", enums.OfferTypeComboPrice, 1)
	_, err := Evaluate(baseInput("3000", "1800"), Snapshot{Rules: []OfferRule{broken}})
	if !pkgerrors.Is(err, pkgerrors.CodeConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestEngineCalculateFetchesCatalog(t *testing.T) {
	lensID := uuid.New()
	catalog := &stubCatalog{
		rules: []OfferRule{rule("YOPO", enums.OfferTypeYOPO, 1)},
		bands: map[uuid.UUID][]PowerBand{lensID: {{Label: "any", ExtraCharge: dec("300")}}},
	}
	engine, err := NewEngine(catalog, time.Second)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	in := baseInput("3000", "1800")
	in.Lens.ID = lensID
	in.Prescription = &Prescription{Sph: decPtr("-1")}
	res, err := engine.Calculate(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.LensPrice != 2100 || res.EffectiveBase != 3000 {
		t.Fatalf("unexpected result lens=%d effective=%d", res.LensPrice, res.EffectiveBase)
	}
	if catalog.bandCalls.Load() != 1 {
		t.Fatalf("expected one power band fetch, got %d", catalog.bandCalls.Load())
	}
}

func TestEngineCalculateFailsClosed(t *testing.T) {
	in := baseInput("3000", "1800")

	failing, _ := NewEngine(&stubCatalog{rulesErr: errors.New("connection refused")}, time.Second)
	_, err := failing.Calculate(context.Background(), in)
	if !pkgerrors.Is(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if !pkgerrors.IsRetryable(err) {
		t.Fatal("catalog failures should be retryable")
	}

	slow, _ := NewEngine(&stubCatalog{delay: time.Second}, 20*time.Millisecond)
	_, err = slow.Calculate(context.Background(), in)
	if !pkgerrors.Is(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected timeout to fail closed, got %v", err)
	}
	if !strings.Contains(pkgerrors.As(err).Message(), "timed out") {
		t.Fatalf("expected timeout message, got %q", pkgerrors.As(err).Message())
	}

	configErr := pkgerrors.New(pkgerrors.CodeConfiguration, "bad rule config")
	misconfigured, _ := NewEngine(&stubCatalog{rulesErr: configErr}, time.Second)
	_, err = misconfigured.Calculate(context.Background(), in)
	if !pkgerrors.Is(err, pkgerrors.CodeConfiguration) {
		t.Fatalf("expected configuration error to pass through, got %v", err)
	}
}

func TestNewEngineRequiresCatalog(t *testing.T) {
	if _, err := NewEngine(nil, time.Second); err == nil {
		t.Fatal("expected error for missing catalog")
	}
}
