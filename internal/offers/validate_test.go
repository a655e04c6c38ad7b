package offers

import (
	"strings"
	"testing"

	"github.com/angelmondragon/lensfinderz-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/lensfinderz-backend/pkg/errors"
)

func TestValidateRulesAcceptsDefaults(t *testing.T) {
	rules := []OfferRule{
		rule("YOPO", enums.OfferTypeYOPO, 1),
		rule("FREE-LENS", enums.OfferTypeFreeLens, 2),
		rule("BOGO", enums.OfferTypeBOGO, 3),
		rule("BOG50", enums.OfferTypeBOG50, 4),
	}
	if err := ValidateRules(rules); err != nil {
		t.Fatalf("expected valid catalog, got %v", err)
	}
}

func TestValidateRulesReportsEveryProblem(t *testing.T) {
	pct := rule("PCT", enums.OfferTypePercentOff, 1)
	pct.DiscountValue = dec("120")

	window := rule("WINDOW", enums.OfferTypeFlatOff, 1)
	window.StartsAt = timePtr(testNow)
	window.EndsAt = timePtr(testNow.AddDate(0, 0, -1))

	bonus := rule("BONUS", enums.OfferTypeBonusFreeProduct, 1)

	mismatched := rule("MISMATCH", enums.OfferTypeFlatOff, 1)
	mismatched.Config = YOPOConfig{}

	combo := rule("COMBO", enums.OfferTypeComboPrice, 1)
	combo.Config = ComboConfig{Variant: enums.ComboVariantVisionType}

	err := ValidateRules([]OfferRule{pct, window, bonus, mismatched, combo, rule("pct", enums.OfferTypeFreeLens, 1)})
	if !pkgerrors.Is(err, pkgerrors.CodeConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	details, ok := pkgerrors.As(err).Details().([]string)
	if !ok {
		t.Fatalf("expected string details, got %T", pkgerrors.As(err).Details())
	}

	expected := []string{
		`offer rule "PCT": percentage discount exceeds 100`,
		`offer rule "WINDOW": validity window ends before it starts`,
		`offer rule "BONUS": BONUS_FREE_PRODUCT rules require configuration`,
		`offer rule "MISMATCH": configuration offers.YOPOConfig does not fit offer type FLAT_OFF`,
		`offer rule "COMBO": combo variant VISION_TYPE requires a required value`,
		`offer rule "COMBO": combo variant VISION_TYPE requires a price`,
		`offer rule "pct": duplicate rule code`,
	}
	joined := strings.Join(details, "\n")
	for _, want := range expected {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing %q in:\n%s", want, joined)
		}
	}
}

func TestValidatePowerBands(t *testing.T) {
	if err := ValidatePowerBands([]PowerBand{{Label: "ok", SphMin: decPtr("-4"), SphMax: decPtr("-2"), ExtraCharge: dec("100")}}); err != nil {
		t.Fatalf("expected valid bands, got %v", err)
	}

	err := ValidatePowerBands([]PowerBand{
		{Label: "inverted", CylMin: decPtr("-1"), CylMax: decPtr("-3"), ExtraCharge: dec("100")},
		{ExtraCharge: dec("-5")},
	})
	if !pkgerrors.Is(err, pkgerrors.CodeConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	details := pkgerrors.As(err).Details().([]string)
	if len(details) != 2 {
		t.Fatalf("expected two problems, got %v", details)
	}
	if details[0] != `power band "inverted": cyl min exceeds max` {
		t.Fatalf("unexpected first problem %q", details[0])
	}
	if details[1] != `power band "#2": extra charge must not be negative` {
		t.Fatalf("unexpected second problem %q", details[1])
	}
}

func TestValidateCatalogRejectsOversizedAmounts(t *testing.T) {
	huge := dec("10000000000000000000")

	combo := rule("COMBO", enums.OfferTypeComboPrice, 1)
	combo.ComboPrice = &huge
	flat := rule("FLAT", enums.OfferTypeFlatOff, 2)
	flat.DiscountValue = huge
	err := ValidateRules([]OfferRule{combo, flat})
	if !pkgerrors.Is(err, pkgerrors.CodeConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if details := pkgerrors.As(err).Details().([]string); len(details) != 2 {
		t.Fatalf("expected both rules reported, got %v", details)
	}

	half := MaxMoney.Div(dec("2")).Add(dec("1"))
	err = ValidatePowerBands([]PowerBand{{Label: "a", ExtraCharge: half}, {Label: "b", ExtraCharge: half}})
	if !pkgerrors.Is(err, pkgerrors.CodeConfiguration) {
		t.Fatalf("expected stacked band charges to be rejected, got %v", err)
	}

	err = ValidateCategoryDiscounts([]CategoryDiscount{
		{CustomerCategory: "STUDENT", Brand: AnyBrand(), DiscountPercent: dec("10"), MaxDiscount: &huge},
	})
	if !pkgerrors.Is(err, pkgerrors.CodeConfiguration) {
		t.Fatalf("expected oversized cap to be rejected, got %v", err)
	}

	err = ValidateCoupon(&Coupon{Code: "BIG", DiscountType: enums.DiscountTypeFlatAmount, DiscountValue: huge})
	if !pkgerrors.Is(err, pkgerrors.CodeConfiguration) {
		t.Fatalf("expected oversized coupon to be rejected, got %v", err)
	}
}

func TestValidateCategoryDiscountsAndCoupon(t *testing.T) {
	err := ValidateCategoryDiscounts([]CategoryDiscount{
		{CustomerCategory: "STUDENT", Brand: AnyBrand(), DiscountPercent: dec("150")},
	})
	if !pkgerrors.Is(err, pkgerrors.CodeConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}

	err = ValidateCoupon(&Coupon{Code: "FREE", DiscountType: enums.DiscountTypeFreeItem, DiscountValue: dec("1")})
	if !pkgerrors.Is(err, pkgerrors.CodeConfiguration) {
		t.Fatalf("expected coupon discount type to be rejected, got %v", err)
	}
	if err := ValidateCoupon(nil); err != nil {
		t.Fatalf("nil coupon should validate, got %v", err)
	}
}

func TestComposeBreakdownClampsAndOrders(t *testing.T) {
	var b Breakdown
	b.Discount("early discount", dec("50"))
	b.Charge("Frame", dec("100.4"))
	b.Discount("nothing", dec("0.2"))
	b.Discount("too much", dec("500"))

	components, final := ComposeBreakdown(b)
	if len(components) != 3 {
		t.Fatalf("expected zero discount to be dropped, got %+v", components)
	}
	if components[0].Kind != enums.PriceComponentBase || components[0].Amount != 100 {
		t.Fatalf("expected base line first, got %+v", components[0])
	}
	if components[1].Amount != -50 || components[2].Amount != -500 {
		t.Fatalf("unexpected discounts %+v", components[1:])
	}
	if final != 0 {
		t.Fatalf("expected final clamped to 0, got %d", final)
	}
}

func TestBrandMatcher(t *testing.T) {
	if !AnyBrand().Matches("anything") {
		t.Fatal("wildcard should match")
	}
	if !SpecificBrand(" Vogue ").Matches("VOGUE") {
		t.Fatal("brand match should be case-insensitive")
	}
	if SpecificBrand("").Matches("") {
		t.Fatal("empty brand should not match")
	}
	if got := brandNames(nil); len(got) != 1 || got[0] != "*" {
		t.Fatalf("expected wildcard name, got %v", got)
	}
}
