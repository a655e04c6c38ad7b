package offers

import (
	"time"

	"github.com/angelmondragon/lensfinderz-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// SecondPairPricing carries both rounded pair totals and the selections rules match on.
type SecondPairPricing struct {
	PrimaryFrame *Frame
	PrimaryLens  *Lens
	SecondFrame  Frame
	PairATotal   decimal.Decimal
	PairBTotal   decimal.Decimal
}

// CalculateSecondPair discounts the cheaper pair under the highest-precedence second-pair
// rule whose eligible brands cover the second frame. It returns nil when no rule applies.
func CalculateSecondPair(rules []OfferRule, now time.Time, in SecondPairPricing) *SecondPairDiscount {
	candidates := MatchRules(rules, MatchInput{
		Now:     now,
		Frame:   in.PrimaryFrame,
		Lens:    in.PrimaryLens,
		Context: enums.OfferContextSecondPair,
	})
	for _, rule := range candidates {
		if !matchesAnyBrand(rule.secondPairConfig().EligibleBrands, in.SecondFrame.Brand) {
			continue
		}
		pct := rule.secondPairPercent()
		cheaper := decimal.Min(in.PairATotal, in.PairBTotal)
		savings := clampDiscount(roundMoney(percentOf(cheaper, pct)), cheaper)
		return &SecondPairDiscount{
			RuleCode:   rule.Code,
			OfferType:  rule.OfferType,
			Percent:    pct,
			PairATotal: units(in.PairATotal),
			PairBTotal: units(in.PairBTotal),
			Savings:    units(savings),
		}
	}
	return nil
}
