package offers

import (
	"testing"
	"time"

	"github.com/angelmondragon/lensfinderz-backend/pkg/enums"
)

func codes(rules []OfferRule) []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.Code)
	}
	return out
}

func equalCodes(got []OfferRule, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i, r := range got {
		if r.Code != want[i] {
			return false
		}
	}
	return true
}

func regularMatch() MatchInput {
	return MatchInput{
		Now:     testNow,
		Frame:   testFrame("RAYBAN", "3000"),
		Lens:    testLens("LNS-100", "1800"),
		Context: enums.OfferContextRegular,
	}
}

func TestMatchRulesSortsByPriority(t *testing.T) {
	low := rule("FLAT-20", enums.OfferTypeFlatOff, 20)
	high := rule("PCT-10", enums.OfferTypePercentOff, 10)

	got := MatchRules([]OfferRule{low, high}, regularMatch())
	if !equalCodes(got, "PCT-10", "FLAT-20") {
		t.Fatalf("unexpected order %v", codes(got))
	}

	low.Priority, high.Priority = 10, 20
	got = MatchRules([]OfferRule{low, high}, regularMatch())
	if !equalCodes(got, "FLAT-20", "PCT-10") {
		t.Fatalf("swapping priorities should swap order, got %v", codes(got))
	}
}

func TestMatchRulesKeepsCatalogOrderOnTies(t *testing.T) {
	rules := []OfferRule{
		rule("C", enums.OfferTypeFlatOff, 5),
		rule("A", enums.OfferTypePercentOff, 5),
		rule("B", enums.OfferTypeFreeLens, 5),
		rule("FIRST", enums.OfferTypeFlatOff, 1),
	}
	got := MatchRules(rules, regularMatch())
	if !equalCodes(got, "FIRST", "C", "A", "B") {
		t.Fatalf("expected stable tie-break, got %v", codes(got))
	}
}

func TestMatchRulesPredicates(t *testing.T) {
	withBrand := rule("BRAND", enums.OfferTypeFlatOff, 1)
	withBrand.Predicates.FrameBrand = "rayban"

	otherBrand := rule("OTHER-BRAND", enums.OfferTypeFlatOff, 1)
	otherBrand.Predicates.FrameBrand = "OAKLEY"

	subCategory := rule("SUBCAT", enums.OfferTypeFlatOff, 1)
	subCategory.Predicates.FrameSubCategory = "AVIATOR"

	inRange := rule("MRP-RANGE", enums.OfferTypeFlatOff, 1)
	inRange.Predicates.MinFrameMRP = decPtr("3000")
	inRange.Predicates.MaxFrameMRP = decPtr("5000")

	belowRange := rule("MRP-HIGH", enums.OfferTypeFlatOff, 1)
	belowRange.Predicates.MinFrameMRP = decPtr("3000.01")

	brandLine := rule("LINE", enums.OfferTypeFlatOff, 1)
	brandLine.Predicates.LensBrandLines = []string{"PROGRESSIVE", "clearview"}

	wrongLine := rule("WRONG-LINE", enums.OfferTypeFlatOff, 1)
	wrongLine.Predicates.LensBrandLines = []string{"PROGRESSIVE"}

	itCode := rule("ITCODE", enums.OfferTypeFlatOff, 1)
	itCode.Predicates.LensItCodes = []string{"LNS-100"}

	wrongCode := rule("WRONG-CODE", enums.OfferTypeFlatOff, 1)
	wrongCode.Predicates.LensItCodes = []string{"LNS-200"}

	got := MatchRules([]OfferRule{withBrand, otherBrand, subCategory, inRange, belowRange, brandLine, wrongLine, itCode, wrongCode}, regularMatch())
	if !equalCodes(got, "BRAND", "MRP-RANGE", "LINE", "ITCODE") {
		t.Fatalf("unexpected matches %v", codes(got))
	}
}

func TestMatchRulesFallsBackToSKU(t *testing.T) {
	r := rule("SKU", enums.OfferTypeFlatOff, 1)
	r.Predicates.LensItCodes = []string{"SKU-9"}

	in := regularMatch()
	in.Lens = &Lens{SKU: "SKU-9", Price: dec("100")}
	if got := MatchRules([]OfferRule{r}, in); len(got) != 1 {
		t.Fatalf("expected sku fallback to match, got %v", codes(got))
	}
}

func TestMatchRulesActivityAndWindow(t *testing.T) {
	inactive := rule("INACTIVE", enums.OfferTypeFlatOff, 1)
	inactive.IsActive = false

	future := rule("FUTURE", enums.OfferTypeFlatOff, 1)
	future.StartsAt = timePtr(testNow.Add(time.Hour))

	expired := rule("EXPIRED", enums.OfferTypeFlatOff, 1)
	expired.EndsAt = timePtr(testNow.Add(-time.Hour))

	boundary := rule("BOUNDARY", enums.OfferTypeFlatOff, 1)
	boundary.StartsAt = timePtr(testNow)
	boundary.EndsAt = timePtr(testNow)

	got := MatchRules([]OfferRule{inactive, future, expired, boundary}, regularMatch())
	if !equalCodes(got, "BOUNDARY") {
		t.Fatalf("unexpected matches %v", codes(got))
	}
}

func TestMatchRulesContexts(t *testing.T) {
	rules := []OfferRule{
		rule("COMBO", enums.OfferTypeComboPrice, 1),
		rule("FLAT", enums.OfferTypeFlatOff, 2),
		rule("BOGO", enums.OfferTypeBOGO, 3),
	}

	in := regularMatch()
	if got := MatchRules(rules, in); len(got) != 3 {
		t.Fatalf("regular context should match every type, got %v", codes(got))
	}

	in.Context = enums.OfferContextCombo
	if got := MatchRules(rules, in); !equalCodes(got, "COMBO") {
		t.Fatalf("combo context should only match combo rules, got %v", codes(got))
	}

	in.Context = enums.OfferContextSecondPair
	if got := MatchRules(rules, in); !equalCodes(got, "BOGO") {
		t.Fatalf("second pair context should only match second pair rules, got %v", codes(got))
	}
}

func TestMatchRulesYOPORequiresEligibleLens(t *testing.T) {
	yopo := rule("YOPO", enums.OfferTypeYOPO, 1)
	in := regularMatch()
	in.Lens.YOPOEligible = false
	if got := MatchRules([]OfferRule{yopo}, in); len(got) != 0 {
		t.Fatalf("expected YOPO to be skipped for ineligible lens, got %v", codes(got))
	}
}

func TestMatchRulesCategoryRuleNeedsCustomerCategory(t *testing.T) {
	student := rule("STUDENT", enums.OfferTypeCategoryDiscount, 1)
	student.Config = CategoryRuleConfig{CustomerCategory: "STUDENT"}

	in := regularMatch()
	if got := MatchRules([]OfferRule{student}, in); len(got) != 0 {
		t.Fatalf("expected no match without category, got %v", codes(got))
	}
	in.CustomerCategory = "student"
	if got := MatchRules([]OfferRule{student}, in); len(got) != 1 {
		t.Fatalf("expected case-insensitive category match, got %v", codes(got))
	}
}

func TestMatchRulesAccessoryOnly(t *testing.T) {
	withBrand := rule("BRAND-FLAT", enums.OfferTypeFlatOff, 1)
	withBrand.Predicates.FrameBrand = "RAYBAN"

	rules := []OfferRule{
		rule("YOPO", enums.OfferTypeYOPO, 1),
		rule("COMBO", enums.OfferTypeComboPrice, 1),
		rule("FREE-LENS", enums.OfferTypeFreeLens, 1),
		withBrand,
		rule("PCT", enums.OfferTypePercentOff, 2),
		rule("BONUS", enums.OfferTypeBonusFreeProduct, 3),
	}
	got := MatchRules(rules, MatchInput{Now: testNow, Context: enums.OfferContextRegular})
	if !equalCodes(got, "PCT", "BONUS") {
		t.Fatalf("unexpected accessory-only matches %v", codes(got))
	}
}
