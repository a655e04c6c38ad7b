package enums

import (
	"fmt"
	"strings"
)

// OfferType identifies the pricing transform an offer rule applies.
type OfferType string

const (
	OfferTypeYOPO             OfferType = "YOPO"
	OfferTypeComboPrice       OfferType = "COMBO_PRICE"
	OfferTypeFreeLens         OfferType = "FREE_LENS"
	OfferTypePercentOff       OfferType = "PERCENT_OFF"
	OfferTypeFlatOff          OfferType = "FLAT_OFF"
	OfferTypeBOG50            OfferType = "BOG50"
	OfferTypeBOGO             OfferType = "BOGO"
	OfferTypeCategoryDiscount OfferType = "CATEGORY_DISCOUNT"
	OfferTypeBonusFreeProduct OfferType = "BONUS_FREE_PRODUCT"
)

var validOfferTypes = []OfferType{
	OfferTypeYOPO,
	OfferTypeComboPrice,
	OfferTypeFreeLens,
	OfferTypePercentOff,
	OfferTypeFlatOff,
	OfferTypeBOG50,
	OfferTypeBOGO,
	OfferTypeCategoryDiscount,
	OfferTypeBonusFreeProduct,
}

// String implements fmt.Stringer.
func (o OfferType) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OfferType.
func (o OfferType) IsValid() bool {
	for _, candidate := range validOfferTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsSecondPair reports whether the offer type prices a second pair rather than the primary one.
func (o OfferType) IsSecondPair() bool {
	return o == OfferTypeBOG50 || o == OfferTypeBOGO
}

// PricesFrameOrLens reports whether the transform needs a frame and lens to exist.
func (o OfferType) PricesFrameOrLens() bool {
	switch o {
	case OfferTypeYOPO, OfferTypeComboPrice, OfferTypeFreeLens, OfferTypeBOG50, OfferTypeBOGO:
		return true
	}
	return false
}

// ParseOfferType converts raw input into an OfferType.
func ParseOfferType(value string) (OfferType, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validOfferTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid offer type %q", value)
}
