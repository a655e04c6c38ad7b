package offersdto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/lensfinderz-backend/pkg/enums"
)

// RuleView is the admin preview of one active offer rule.
type RuleView struct {
	ID                uuid.UUID          `json:"id"`
	Code              string             `json:"code"`
	Description       string             `json:"description,omitempty"`
	OfferType         enums.OfferType    `json:"offer_type"`
	DiscountType      enums.DiscountType `json:"discount_type"`
	DiscountValue     decimal.Decimal    `json:"discount_value"`
	ComboPrice        *decimal.Decimal   `json:"combo_price,omitempty"`
	FrameBrand        string             `json:"frame_brand,omitempty"`
	FrameSubCategory  string             `json:"frame_sub_category,omitempty"`
	MinFrameMRP       *decimal.Decimal   `json:"min_frame_mrp,omitempty"`
	MaxFrameMRP       *decimal.Decimal   `json:"max_frame_mrp,omitempty"`
	LensBrandLines    []string           `json:"lens_brand_lines"`
	LensItCodes       []string           `json:"lens_it_codes"`
	IsSecondPairRule  bool               `json:"is_second_pair_rule"`
	SecondPairPercent *decimal.Decimal   `json:"second_pair_percent,omitempty"`
	Priority          int                `json:"priority"`
	StartsAt          *time.Time         `json:"starts_at,omitempty"`
	EndsAt            *time.Time         `json:"ends_at,omitempty"`
}

// RuleList wraps the active rules for an organization.
type RuleList struct {
	AsOf  time.Time  `json:"as_of"`
	Rules []RuleView `json:"rules"`
}
