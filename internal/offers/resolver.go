package offers

import (
	"strings"

	"github.com/angelmondragon/lensfinderz-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// PricingBase is the rounded primary selection a rule transform works on.
type PricingBase struct {
	FrameMRP   decimal.Decimal
	LensPrice  decimal.Decimal
	OtherTotal decimal.Decimal
	Frame      *Frame
	Lens       *Lens
}

// Total is frame MRP plus adjusted lens price plus other items.
func (b PricingBase) Total() decimal.Decimal {
	return b.FrameMRP.Add(b.LensPrice).Add(b.OtherTotal)
}

// PrimaryResolution is the outcome of primary offer selection.
type PrimaryResolution struct {
	Rule          *OfferRule
	BaseTotal     decimal.Decimal
	EffectiveBase decimal.Decimal
	Savings       decimal.Decimal
	Applied       []AppliedOffer
}

// ResolvePrimary walks candidates in priority order and applies the first rule whose
// transform holds. Second-pair and bonus rules never price the primary selection; the
// first qualifying bonus rule is recorded as a zero-savings entitlement.
func ResolvePrimary(candidates []OfferRule, base PricingBase) PrimaryResolution {
	total := base.Total()
	res := PrimaryResolution{
		BaseTotal:     total,
		EffectiveBase: total,
		Savings:       decimal.Zero,
		Applied:       []AppliedOffer{},
	}

	for i := range candidates {
		rule := candidates[i]
		if rule.IsSecondPair() || rule.OfferType == enums.OfferTypeBonusFreeProduct {
			continue
		}
		effective, ok := applyTransform(rule, base, total)
		if !ok {
			continue
		}
		effective = roundMoney(effective)
		if effective.IsNegative() {
			effective = decimal.Zero
		}
		if effective.GreaterThan(total) {
			effective = total
		}
		res.Rule = &candidates[i]
		res.EffectiveBase = effective
		res.Savings = total.Sub(effective)
		res.Applied = append(res.Applied, AppliedOffer{
			RuleCode:    rule.Code,
			OfferType:   rule.OfferType,
			Description: rule.label(),
			Savings:     units(res.Savings),
		})
		break
	}

	if bonus := resolveBonus(candidates, res.Rule, total); bonus != nil {
		res.Applied = append(res.Applied, *bonus)
	}
	return res
}

func applyTransform(rule OfferRule, base PricingBase, total decimal.Decimal) (decimal.Decimal, bool) {
	switch rule.OfferType {
	case enums.OfferTypeYOPO:
		if base.Frame == nil || base.Lens == nil {
			return decimal.Zero, false
		}
		return yopoPrice(rule.yopoConfig().FreeItem, base).Add(base.OtherTotal), true
	case enums.OfferTypeComboPrice:
		if base.Frame == nil || base.Lens == nil {
			return decimal.Zero, false
		}
		price, ok := comboPrice(rule, base)
		if !ok {
			return decimal.Zero, false
		}
		return price.Add(base.OtherTotal), true
	case enums.OfferTypeFreeLens:
		if base.Lens == nil {
			return decimal.Zero, false
		}
		return base.FrameMRP.Add(base.OtherTotal), true
	case enums.OfferTypePercentOff:
		return total.Sub(percentOf(total, rule.DiscountValue)), true
	case enums.OfferTypeFlatOff:
		return decimal.Max(decimal.Zero, total.Sub(rule.DiscountValue)), true
	case enums.OfferTypeCategoryDiscount:
		switch rule.DiscountType {
		case enums.DiscountTypePercentage:
			return total.Sub(percentOf(total, rule.DiscountValue)), true
		case enums.DiscountTypeFlatAmount:
			return decimal.Max(decimal.Zero, total.Sub(rule.DiscountValue)), true
		}
	}
	return decimal.Zero, false
}

func yopoPrice(free enums.YOPOFreeItem, base PricingBase) decimal.Decimal {
	switch free {
	case enums.YOPOFreeItemFrame:
		return base.LensPrice
	case enums.YOPOFreeItemLens:
		return base.FrameMRP
	default:
		return decimal.Max(base.FrameMRP, base.LensPrice)
	}
}

// comboPrice returns the frame+lens price a COMBO_PRICE rule charges, or false when the
// rule's sub-variant requirement does not hold.
func comboPrice(rule OfferRule, base PricingBase) (decimal.Decimal, bool) {
	cfg := rule.comboConfig()
	switch cfg.Variant {
	case enums.ComboVariantDefault:
		return fixedComboPrice(rule, cfg)
	case enums.ComboVariantFrameMRPOnly:
		if cfg.LensBrandLine != "" && !strings.EqualFold(cfg.LensBrandLine, strings.TrimSpace(base.Lens.BrandLine)) {
			return decimal.Zero, false
		}
		return base.FrameMRP, true
	case enums.ComboVariantBrandLine, enums.ComboVariantCategory, enums.ComboVariantVisionType:
		if !strings.EqualFold(strings.TrimSpace(cfg.RequiredValue), comboAttribute(cfg.Variant, base)) {
			return decimal.Zero, false
		}
		price := cfg.Price
		if price == nil {
			price = rule.ComboPrice
		}
		if price == nil {
			return decimal.Zero, false
		}
		return *price, true
	}
	return decimal.Zero, false
}

func fixedComboPrice(rule OfferRule, cfg ComboConfig) (decimal.Decimal, bool) {
	if rule.ComboPrice != nil {
		return *rule.ComboPrice, true
	}
	if cfg.Price != nil {
		return *cfg.Price, true
	}
	return decimal.Zero, false
}

func comboAttribute(variant enums.ComboVariant, base PricingBase) string {
	switch variant {
	case enums.ComboVariantBrandLine:
		return strings.TrimSpace(base.Frame.SubCategory)
	case enums.ComboVariantCategory:
		return strings.TrimSpace(base.Frame.FrameType)
	case enums.ComboVariantVisionType:
		return strings.TrimSpace(base.Lens.VisionType)
	}
	return ""
}

func resolveBonus(candidates []OfferRule, primary *OfferRule, total decimal.Decimal) *AppliedOffer {
	if primary != nil && primary.OfferType == enums.OfferTypeYOPO && primary.yopoConfig().BlockBonus {
		return nil
	}
	for _, rule := range candidates {
		if rule.OfferType != enums.OfferTypeBonusFreeProduct {
			continue
		}
		cfg, ok := rule.config().(BonusConfig)
		if !ok || total.LessThan(cfg.TriggerMinBill) {
			continue
		}
		return &AppliedOffer{
			RuleCode:    rule.Code,
			OfferType:   rule.OfferType,
			Description: rule.label(),
			Savings:     0,
			Bonus: &BonusEntitlement{
				Category:       cfg.BonusCategory,
				Limit:          units(cfg.BonusLimit),
				EligibleBrands: brandNames(cfg.EligibleBrands),
			},
		}
	}
	return nil
}
