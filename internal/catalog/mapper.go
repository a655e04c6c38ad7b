package catalog

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/lensfinderz-backend/internal/offers"
	"github.com/angelmondragon/lensfinderz-backend/pkg/db/models"
	"github.com/angelmondragon/lensfinderz-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/lensfinderz-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

const wildcardBrand = "*"

// configDocument is the union of every key a rule's JSON config bag may carry.
type configDocument struct {
	FreeItem         string           `json:"freeItem"`
	BlockBonus       bool             `json:"blockBonus"`
	Variant          string           `json:"variant"`
	RequiredValue    string           `json:"requiredValue"`
	LensBrandLine    string           `json:"lensBrandLine"`
	Price            *decimal.Decimal `json:"price"`
	TriggerMinBill   *decimal.Decimal `json:"triggerMinBill"`
	BonusLimit       *decimal.Decimal `json:"bonusLimit"`
	BonusCategory    string           `json:"bonusCategory"`
	EligibleBrands   []string         `json:"eligibleBrands"`
	CustomerCategory string           `json:"customerCategory"`
}

func toOfferRule(row models.OfferRule) (offers.OfferRule, error) {
	cfg, err := decodeRuleConfig(row)
	if err != nil {
		return offers.OfferRule{}, err
	}
	return offers.OfferRule{
		ID:            row.ID,
		Code:          row.Code,
		Description:   deref(row.Description),
		OfferType:     row.OfferType,
		DiscountType:  row.DiscountType,
		DiscountValue: row.DiscountValue,
		ComboPrice:    nullable(row.ComboPrice),
		Predicates: offers.RulePredicates{
			FrameBrand:       strings.TrimSpace(deref(row.FrameBrand)),
			FrameSubCategory: strings.TrimSpace(deref(row.FrameSubCategory)),
			MinFrameMRP:      nullable(row.MinFrameMRP),
			MaxFrameMRP:      nullable(row.MaxFrameMRP),
			LensBrandLines:   []string(row.LensBrandLines),
			LensItCodes:      []string(row.LensItCodes),
		},
		IsSecondPairRule:  row.IsSecondPairRule,
		SecondPairPercent: nullable(row.SecondPairPercent),
		Priority:          row.Priority,
		IsActive:          row.IsActive,
		StartsAt:          row.StartsAt,
		EndsAt:            row.EndsAt,
		Config:            cfg,
	}, nil
}

// decodeRuleConfig turns the JSON bag into the offer type's tagged payload. An empty bag
// yields nil so the engine applies the type default.
func decodeRuleConfig(row models.OfferRule) (offers.RuleConfig, error) {
	if len(row.Config) == 0 {
		return nil, nil
	}
	var doc configDocument
	if err := row.Config.Decode(&doc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeConfiguration, err, fmt.Sprintf("offer rule %q has an unreadable config", row.Code))
	}

	switch row.OfferType {
	case enums.OfferTypeYOPO:
		return offers.YOPOConfig{
			FreeItem:   enums.YOPOFreeItem(upper(doc.FreeItem)),
			BlockBonus: doc.BlockBonus,
		}, nil
	case enums.OfferTypeComboPrice:
		return offers.ComboConfig{
			Variant:       enums.ComboVariant(upper(doc.Variant)),
			RequiredValue: strings.TrimSpace(doc.RequiredValue),
			LensBrandLine: strings.TrimSpace(doc.LensBrandLine),
			Price:         doc.Price,
		}, nil
	case enums.OfferTypeBonusFreeProduct:
		if doc.TriggerMinBill == nil {
			return nil, pkgerrors.New(pkgerrors.CodeConfiguration, fmt.Sprintf("offer rule %q: bonus config requires triggerMinBill", row.Code))
		}
		return offers.BonusConfig{
			TriggerMinBill: *doc.TriggerMinBill,
			BonusLimit:     valueOrZero(doc.BonusLimit),
			BonusCategory:  strings.TrimSpace(doc.BonusCategory),
			EligibleBrands: brandMatchers(doc.EligibleBrands),
		}, nil
	case enums.OfferTypeBOG50, enums.OfferTypeBOGO:
		return offers.SecondPairConfig{EligibleBrands: brandMatchers(doc.EligibleBrands)}, nil
	case enums.OfferTypeCategoryDiscount:
		return offers.CategoryRuleConfig{CustomerCategory: strings.TrimSpace(doc.CustomerCategory)}, nil
	}
	return offers.NoConfig{}, nil
}

func toCategoryDiscount(row models.CategoryDiscount) offers.CategoryDiscount {
	return offers.CategoryDiscount{
		CustomerCategory: strings.TrimSpace(row.CustomerCategory),
		Brand:            brandMatcher(row.BrandCode),
		DiscountPercent:  row.DiscountPercent,
		MaxDiscount:      nullable(row.MaxDiscount),
		IsActive:         row.IsActive,
	}
}

func toCoupon(row *models.Coupon) *offers.Coupon {
	if row == nil {
		return nil
	}
	return &offers.Coupon{
		Code:          strings.ToUpper(strings.TrimSpace(row.Code)),
		DiscountType:  row.DiscountType,
		DiscountValue: row.DiscountValue,
		MaxDiscount:   nullable(row.MaxDiscount),
		MinCartValue:  nullable(row.MinCartValue),
		IsActive:      row.IsActive,
	}
}

func toPowerBand(row models.LensPowerBand) offers.PowerBand {
	return offers.PowerBand{
		ID:          row.ID,
		Label:       row.Label,
		SphMin:      nullable(row.SphMin),
		SphMax:      nullable(row.SphMax),
		CylMin:      nullable(row.CylMin),
		CylMax:      nullable(row.CylMax),
		AddMin:      nullable(row.AddMin),
		AddMax:      nullable(row.AddMax),
		ExtraCharge: row.ExtraCharge,
	}
}

func brandMatcher(code string) offers.BrandMatcher {
	code = strings.TrimSpace(code)
	if code == "" || code == wildcardBrand {
		return offers.AnyBrand()
	}
	return offers.SpecificBrand(code)
}

func brandMatchers(codes []string) []offers.BrandMatcher {
	if len(codes) == 0 {
		return nil
	}
	out := make([]offers.BrandMatcher, 0, len(codes))
	for _, code := range codes {
		out = append(out, brandMatcher(code))
	}
	return out
}

func nullable(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
