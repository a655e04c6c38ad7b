package offers

import (
	"strings"
	"time"

	"github.com/angelmondragon/lensfinderz-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Frame is the priced frame of a pair.
type Frame struct {
	Brand       string
	SubCategory string
	FrameType   string
	MRP         decimal.Decimal
}

// Lens is the priced lens of a pair. Price is the catalog price before any Rx surcharge.
type Lens struct {
	ID           uuid.UUID
	ItCode       string
	SKU          string
	BrandLine    string
	VisionType   string
	Price        decimal.Decimal
	YOPOEligible bool
}

// Code returns the lens item code, falling back to the product SKU.
func (l Lens) Code() string {
	if code := strings.TrimSpace(l.ItCode); code != "" {
		return code
	}
	return strings.TrimSpace(l.SKU)
}

// Prescription is a single sph/cyl/add triple. Nil axes are not prescribed.
type Prescription struct {
	Sph *decimal.Decimal
	Cyl *decimal.Decimal
	Add *decimal.Decimal
}

// OtherItem is an accessory or contact-lens line priced outside the frame+lens pair.
type OtherItem struct {
	Label    string
	Price    decimal.Decimal
	Quantity int
}

func (o OtherItem) quantity() int {
	if o.Quantity <= 0 {
		return 1
	}
	return o.Quantity
}

// SecondPair is the optional additional frame+lens selection.
type SecondPair struct {
	Frame        Frame
	Lens         Lens
	Prescription *Prescription
}

// CalculationInput is everything one pricing request supplies.
type CalculationInput struct {
	OrganizationID   uuid.UUID
	Frame            *Frame
	Lens             *Lens
	Prescription     *Prescription
	OtherItems       []OtherItem
	SecondPair       *SecondPair
	CustomerCategory string
	CouponCode       string
	Context          enums.OfferContext
	AsOf             time.Time
	// RequestID correlates the calculation with its audit event.
	RequestID string
}

// AccessoryOnly reports whether the request prices no frame+lens pair.
func (in CalculationInput) AccessoryOnly() bool {
	return in.Frame == nil && in.Lens == nil
}

// PowerBand maps a prescription range on one lens to a surcharge. Nil bounds are unbounded.
type PowerBand struct {
	ID          uuid.UUID
	Label       string
	SphMin      *decimal.Decimal
	SphMax      *decimal.Decimal
	CylMin      *decimal.Decimal
	CylMax      *decimal.Decimal
	AddMin      *decimal.Decimal
	AddMax      *decimal.Decimal
	ExtraCharge decimal.Decimal
}

// RulePredicates narrow the selections a rule applies to. Zero values match anything.
type RulePredicates struct {
	FrameBrand       string
	FrameSubCategory string
	MinFrameMRP      *decimal.Decimal
	MaxFrameMRP      *decimal.Decimal
	LensBrandLines   []string
	LensItCodes      []string
}

func (p RulePredicates) referencesFrameOrLens() bool {
	return p.FrameBrand != "" ||
		p.FrameSubCategory != "" ||
		p.MinFrameMRP != nil ||
		p.MaxFrameMRP != nil ||
		len(p.LensBrandLines) > 0 ||
		len(p.LensItCodes) > 0
}

// OfferRule is one rule from an organization's offer catalog.
type OfferRule struct {
	ID                uuid.UUID
	Code              string
	Description       string
	OfferType         enums.OfferType
	DiscountType      enums.DiscountType
	DiscountValue     decimal.Decimal
	ComboPrice        *decimal.Decimal
	Predicates        RulePredicates
	IsSecondPairRule  bool
	SecondPairPercent *decimal.Decimal
	Priority          int
	IsActive          bool
	StartsAt          *time.Time
	EndsAt            *time.Time
	Config            RuleConfig
}

// IsSecondPair reports whether the rule prices a second pair instead of the primary selection.
func (r OfferRule) IsSecondPair() bool {
	return r.IsSecondPairRule || r.OfferType.IsSecondPair()
}

// ActiveAt reports whether the rule is switched on and inside its validity window.
func (r OfferRule) ActiveAt(now time.Time) bool {
	if !r.IsActive {
		return false
	}
	if r.StartsAt != nil && now.Before(*r.StartsAt) {
		return false
	}
	if r.EndsAt != nil && now.After(*r.EndsAt) {
		return false
	}
	return true
}

func (r OfferRule) label() string {
	if r.Description != "" {
		return r.Description
	}
	return r.Code
}

// CategoryDiscount is one row of the customer-category discount table.
type CategoryDiscount struct {
	CustomerCategory string
	Brand            BrandMatcher
	DiscountPercent  decimal.Decimal
	MaxDiscount      *decimal.Decimal
	IsActive         bool
}

// Coupon is a redeemable code.
type Coupon struct {
	Code          string
	DiscountType  enums.DiscountType
	DiscountValue decimal.Decimal
	MaxDiscount   *decimal.Decimal
	MinCartValue  *decimal.Decimal
	IsActive      bool
}

// RxCharge is one matched power band on the receipt.
type RxCharge struct {
	BandID      uuid.UUID `json:"band_id"`
	Label       string    `json:"label"`
	ExtraCharge int64     `json:"extra_charge"`
}

// BonusEntitlement is the free item a BONUS_FREE_PRODUCT rule grants.
type BonusEntitlement struct {
	Category       string   `json:"category,omitempty"`
	Limit          int64    `json:"limit"`
	EligibleBrands []string `json:"eligible_brands"`
}

// AppliedOffer is one offer that shaped the result.
type AppliedOffer struct {
	RuleCode    string            `json:"rule_code"`
	OfferType   enums.OfferType   `json:"offer_type"`
	Description string            `json:"description"`
	Savings     int64             `json:"savings"`
	Bonus       *BonusEntitlement `json:"bonus,omitempty"`
}

// CategoryDiscountApplied is the category-table layer that was applied.
type CategoryDiscountApplied struct {
	CustomerCategory string          `json:"customer_category"`
	BrandCode        string          `json:"brand_code"`
	Percent          decimal.Decimal `json:"percent"`
	Savings          int64           `json:"savings"`
}

// CouponApplied is the coupon layer that was applied.
type CouponApplied struct {
	Code         string             `json:"code"`
	DiscountType enums.DiscountType `json:"discount_type"`
	Savings      int64              `json:"savings"`
}

// CouponError explains why a supplied coupon was not applied.
type CouponError struct {
	Code    enums.CouponErrorCode `json:"code"`
	Message string                `json:"message"`
}

// SecondPairDiscount is the discount granted on the cheaper of two pairs.
type SecondPairDiscount struct {
	RuleCode   string          `json:"rule_code"`
	OfferType  enums.OfferType `json:"offer_type"`
	Percent    decimal.Decimal `json:"percent"`
	PairATotal int64           `json:"pair_a_total"`
	PairBTotal int64           `json:"pair_b_total"`
	Savings    int64           `json:"savings"`
}

// PriceComponent is one signed receipt line.
type PriceComponent struct {
	Label  string                   `json:"label"`
	Amount int64                    `json:"amount"`
	Kind   enums.PriceComponentKind `json:"kind"`
}

// Result is the immutable outcome of one calculation. Money is in whole currency units.
type Result struct {
	FrameMRP           int64                    `json:"frame_mrp"`
	LensPrice          int64                    `json:"lens_price"`
	BaseTotal          int64                    `json:"base_total"`
	EffectiveBase      int64                    `json:"effective_base"`
	RxCharges          []RxCharge               `json:"rx_charges"`
	OffersApplied      []AppliedOffer           `json:"offers_applied"`
	CategoryDiscount   *CategoryDiscountApplied `json:"category_discount,omitempty"`
	CouponDiscount     *CouponApplied           `json:"coupon_discount,omitempty"`
	CouponError        *CouponError             `json:"coupon_error,omitempty"`
	SecondPairDiscount *SecondPairDiscount      `json:"second_pair_discount,omitempty"`
	PriceComponents    []PriceComponent         `json:"price_components"`
	FinalPayable       int64                    `json:"final_payable"`
	AsOf               time.Time                `json:"as_of"`
}
