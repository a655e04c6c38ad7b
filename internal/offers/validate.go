package offers

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/lensfinderz-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/lensfinderz-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// RuleError describes one misconfigured catalog entry.
type RuleError struct {
	Code   string
	Reason string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("offer rule %q: %s", e.Code, e.Reason)
}

// BandError describes one misconfigured power band.
type BandError struct {
	Label  string
	Reason string
}

func (e *BandError) Error() string {
	return fmt.Sprintf("power band %q: %s", e.Label, e.Reason)
}

// ValidateRules checks every rule in the catalog and reports all problems at once.
func ValidateRules(rules []OfferRule) error {
	var errs error
	seen := make(map[string]struct{}, len(rules))
	for _, rule := range rules {
		code := strings.TrimSpace(rule.Code)
		if code == "" {
			errs = multierr.Append(errs, &RuleError{Code: rule.ID.String(), Reason: "code is required"})
			continue
		}
		key := strings.ToUpper(code)
		if _, dup := seen[key]; dup {
			errs = multierr.Append(errs, &RuleError{Code: code, Reason: "duplicate rule code"})
		}
		seen[key] = struct{}{}
		for _, reason := range ruleProblems(rule) {
			errs = multierr.Append(errs, &RuleError{Code: code, Reason: reason})
		}
	}
	return configurationError(errs, "offer catalog has invalid rules")
}

// ValidatePowerBands rejects bands with negative surcharges or inverted ranges.
func ValidatePowerBands(bands []PowerBand) error {
	var errs error
	stacked := decimal.Zero
	for i, band := range bands {
		stacked = stacked.Add(band.ExtraCharge)
		label := band.Label
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		if band.ExtraCharge.IsNegative() {
			errs = multierr.Append(errs, &BandError{Label: label, Reason: "extra charge must not be negative"})
		}
		if exceedsMaxMoney(band.ExtraCharge) {
			errs = multierr.Append(errs, &BandError{Label: label, Reason: "extra charge exceeds the maximum amount"})
		}
		for _, axis := range band.axes() {
			if axis.min != nil && axis.max != nil && axis.min.GreaterThan(*axis.max) {
				errs = multierr.Append(errs, &BandError{Label: label, Reason: axis.name + " min exceeds max"})
			}
		}
	}
	if exceedsMaxMoney(stacked) {
		errs = multierr.Append(errs, fmt.Errorf("power bands: stacked extra charges exceed the maximum amount"))
	}
	return configurationError(errs, "lens power bands are invalid")
}

func configurationError(errs error, message string) error {
	if errs == nil {
		return nil
	}
	list := multierr.Errors(errs)
	details := make([]string, 0, len(list))
	for _, err := range list {
		details = append(details, err.Error())
	}
	return pkgerrors.Wrap(pkgerrors.CodeConfiguration, errs, message).WithDetails(details)
}

func ruleProblems(rule OfferRule) []string {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if !rule.OfferType.IsValid() {
		add("unknown offer type %q", rule.OfferType)
		return problems
	}
	if !rule.DiscountType.IsValid() {
		add("unknown discount type %q", rule.DiscountType)
	}
	if rule.DiscountValue.IsNegative() {
		add("discount value must not be negative")
	}
	if exceedsMaxMoney(rule.DiscountValue) {
		add("discount value exceeds the maximum amount")
	}
	if rule.DiscountType == enums.DiscountTypePercentage && rule.DiscountValue.GreaterThan(hundred) {
		add("percentage discount exceeds 100")
	}
	if rule.StartsAt != nil && rule.EndsAt != nil && rule.EndsAt.Before(*rule.StartsAt) {
		add("validity window ends before it starts")
	}

	p := rule.Predicates
	if p.MinFrameMRP != nil && p.MinFrameMRP.IsNegative() {
		add("min frame MRP must not be negative")
	}
	if p.MinFrameMRP != nil && p.MaxFrameMRP != nil && p.MinFrameMRP.GreaterThan(*p.MaxFrameMRP) {
		add("min frame MRP exceeds max frame MRP")
	}
	if rule.ComboPrice != nil && rule.ComboPrice.IsNegative() {
		add("combo price must not be negative")
	}
	if exceedsMaxMoneyPtr(rule.ComboPrice) {
		add("combo price exceeds the maximum amount")
	}
	if rule.IsSecondPairRule && !rule.OfferType.IsSecondPair() {
		add("only BOG50 and BOGO rules can be second-pair rules")
	}

	cfg := rule.config()
	if cfg == nil {
		add("%s rules require configuration", rule.OfferType)
		return problems
	}
	if !configSupports(cfg, rule.OfferType) {
		add("configuration %T does not fit offer type %s", cfg, rule.OfferType)
		return problems
	}

	switch c := cfg.(type) {
	case YOPOConfig:
		if c.FreeItem != "" && !c.FreeItem.IsValid() {
			add("unknown YOPO free item %q", c.FreeItem)
		}
	case ComboConfig:
		problems = append(problems, comboProblems(rule, c)...)
	case BonusConfig:
		if c.TriggerMinBill.IsNegative() {
			add("bonus trigger must not be negative")
		}
		if c.BonusLimit.IsNegative() {
			add("bonus limit must not be negative")
		}
		if exceedsMaxMoney(c.TriggerMinBill) || exceedsMaxMoney(c.BonusLimit) {
			add("bonus amounts exceed the maximum amount")
		}
	case SecondPairConfig:
		if rule.OfferType == enums.OfferTypeBOG50 && rule.SecondPairPercent != nil {
			pct := *rule.SecondPairPercent
			if !pct.IsPositive() || pct.GreaterThan(hundred) {
				add("second pair percent must be within (0, 100]")
			}
		}
	case CategoryRuleConfig:
		if rule.DiscountType != enums.DiscountTypePercentage && rule.DiscountType != enums.DiscountTypeFlatAmount {
			add("category discount rules need a PERCENTAGE or FLAT_AMOUNT discount type")
		}
	}

	if rule.OfferType == enums.OfferTypePercentOff && rule.DiscountValue.GreaterThan(hundred) {
		add("percent off exceeds 100")
	}
	return problems
}

func comboProblems(rule OfferRule, c ComboConfig) []string {
	variant := c.Variant
	if variant == "" {
		variant = enums.ComboVariantDefault
	}
	if !variant.IsValid() {
		return []string{fmt.Sprintf("unknown combo variant %q", c.Variant)}
	}
	var problems []string
	if c.Price != nil && c.Price.IsNegative() {
		problems = append(problems, "combo variant price must not be negative")
	}
	if exceedsMaxMoneyPtr(c.Price) {
		problems = append(problems, "combo variant price exceeds the maximum amount")
	}
	switch {
	case variant == enums.ComboVariantDefault:
		if rule.ComboPrice == nil && c.Price == nil {
			problems = append(problems, "combo rule requires a combo price")
		}
	case variant.RequiresAttribute():
		if strings.TrimSpace(c.RequiredValue) == "" {
			problems = append(problems, fmt.Sprintf("combo variant %s requires a required value", variant))
		}
		if rule.ComboPrice == nil && c.Price == nil {
			problems = append(problems, fmt.Sprintf("combo variant %s requires a price", variant))
		}
	}
	return problems
}

// ValidateCategoryDiscounts rejects rows with impossible percentages or caps.
func ValidateCategoryDiscounts(rows []CategoryDiscount) error {
	var errs error
	for _, row := range rows {
		name := fmt.Sprintf("%s/%s", row.CustomerCategory, row.Brand)
		if strings.TrimSpace(row.CustomerCategory) == "" {
			errs = multierr.Append(errs, fmt.Errorf("category discount %q: customer category is required", name))
		}
		if !row.Brand.Any && row.Brand.Name == "" {
			errs = multierr.Append(errs, fmt.Errorf("category discount %q: brand is required", name))
		}
		if row.DiscountPercent.IsNegative() || row.DiscountPercent.GreaterThan(hundred) {
			errs = multierr.Append(errs, fmt.Errorf("category discount %q: percent must be within [0, 100]", name))
		}
		if row.MaxDiscount != nil && row.MaxDiscount.IsNegative() {
			errs = multierr.Append(errs, fmt.Errorf("category discount %q: max discount must not be negative", name))
		}
		if exceedsMaxMoneyPtr(row.MaxDiscount) {
			errs = multierr.Append(errs, fmt.Errorf("category discount %q: max discount exceeds the maximum amount", name))
		}
	}
	return configurationError(errs, "category discounts are invalid")
}

// ValidateCoupon rejects coupons that cannot be priced.
func ValidateCoupon(c *Coupon) error {
	if c == nil {
		return nil
	}
	var errs error
	if !enums.IsCouponDiscountType(c.DiscountType) {
		errs = multierr.Append(errs, fmt.Errorf("coupon %q: discount type %q is not allowed", c.Code, c.DiscountType))
	}
	if c.DiscountValue.IsNegative() {
		errs = multierr.Append(errs, fmt.Errorf("coupon %q: discount value must not be negative", c.Code))
	}
	if c.DiscountType == enums.DiscountTypePercentage && c.DiscountValue.GreaterThan(hundred) {
		errs = multierr.Append(errs, fmt.Errorf("coupon %q: percentage exceeds 100", c.Code))
	}
	if c.MaxDiscount != nil && c.MaxDiscount.IsNegative() {
		errs = multierr.Append(errs, fmt.Errorf("coupon %q: max discount must not be negative", c.Code))
	}
	if c.MinCartValue != nil && c.MinCartValue.IsNegative() {
		errs = multierr.Append(errs, fmt.Errorf("coupon %q: min cart value must not be negative", c.Code))
	}
	if exceedsMaxMoney(c.DiscountValue) || exceedsMaxMoneyPtr(c.MaxDiscount) || exceedsMaxMoneyPtr(c.MinCartValue) {
		errs = multierr.Append(errs, fmt.Errorf("coupon %q: amounts exceed the maximum", c.Code))
	}
	return configurationError(errs, "coupon is misconfigured")
}
