package offers

import (
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/lensfinderz-backend/pkg/enums"
)

// MatchInput is the selection a rule catalog is filtered against.
// Frame and Lens are both nil for accessory and contact-lens-only orders.
type MatchInput struct {
	Now              time.Time
	Frame            *Frame
	Lens             *Lens
	Context          enums.OfferContext
	CustomerCategory string
}

func (m MatchInput) accessoryOnly() bool {
	return m.Frame == nil && m.Lens == nil
}

// MatchRules returns the rules whose predicates hold for in, sorted by ascending priority.
// Rules sharing a priority keep their catalog order.
func MatchRules(rules []OfferRule, in MatchInput) []OfferRule {
	matched := make([]OfferRule, 0, len(rules))
	for _, rule := range rules {
		if ruleMatches(rule, in) {
			matched = append(matched, rule)
		}
	}
	return SortByPriority(matched)
}

// SortByPriority orders rules by ascending priority in place, keeping catalog order on ties.
func SortByPriority(rules []OfferRule) []OfferRule {
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority < rules[j].Priority
	})
	return rules
}

func ruleMatches(rule OfferRule, in MatchInput) bool {
	if !rule.ActiveAt(in.Now) {
		return false
	}
	if !allowedInContext(rule, in.Context) {
		return false
	}
	if rule.OfferType == enums.OfferTypeCategoryDiscount {
		if want := strings.TrimSpace(rule.categoryConfig().CustomerCategory); want != "" &&
			!strings.EqualFold(want, strings.TrimSpace(in.CustomerCategory)) {
			return false
		}
	}

	if in.accessoryOnly() {
		return !rule.OfferType.PricesFrameOrLens() && !rule.Predicates.referencesFrameOrLens()
	}
	if in.Frame != nil && !frameMatches(rule.Predicates, *in.Frame) {
		return false
	}
	if in.Lens != nil {
		if !lensMatches(rule.Predicates, *in.Lens) {
			return false
		}
		if rule.OfferType == enums.OfferTypeYOPO && !in.Lens.YOPOEligible {
			return false
		}
	}
	return true
}

func allowedInContext(rule OfferRule, ctx enums.OfferContext) bool {
	switch ctx {
	case enums.OfferContextCombo:
		return rule.OfferType == enums.OfferTypeComboPrice
	case enums.OfferContextSecondPair:
		return rule.IsSecondPair()
	default:
		return true
	}
}

func frameMatches(p RulePredicates, frame Frame) bool {
	if p.FrameBrand != "" && !strings.EqualFold(p.FrameBrand, strings.TrimSpace(frame.Brand)) {
		return false
	}
	if p.FrameSubCategory != "" && !strings.EqualFold(p.FrameSubCategory, strings.TrimSpace(frame.SubCategory)) {
		return false
	}
	if p.MinFrameMRP != nil && frame.MRP.LessThan(*p.MinFrameMRP) {
		return false
	}
	if p.MaxFrameMRP != nil && frame.MRP.GreaterThan(*p.MaxFrameMRP) {
		return false
	}
	return true
}

func lensMatches(p RulePredicates, lens Lens) bool {
	if len(p.LensBrandLines) > 0 && !containsFold(p.LensBrandLines, lens.BrandLine) {
		return false
	}
	if len(p.LensItCodes) > 0 && !containsFold(p.LensItCodes, lens.Code()) {
		return false
	}
	return true
}

func containsFold(values []string, target string) bool {
	target = strings.TrimSpace(target)
	if target == "" {
		return false
	}
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), target) {
			return true
		}
	}
	return false
}
