package enums

import (
	"fmt"
	"strings"
)

// DiscountType describes how an offer rule's discount value is interpreted.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "PERCENTAGE"
	DiscountTypeFlatAmount DiscountType = "FLAT_AMOUNT"
	DiscountTypeYOPOLogic  DiscountType = "YOPO_LOGIC"
	DiscountTypeFreeItem   DiscountType = "FREE_ITEM"
	DiscountTypeComboPrice DiscountType = "COMBO_PRICE"
)

var validDiscountTypes = []DiscountType{
	DiscountTypePercentage,
	DiscountTypeFlatAmount,
	DiscountTypeYOPOLogic,
	DiscountTypeFreeItem,
	DiscountTypeComboPrice,
}

// String implements fmt.Stringer.
func (d DiscountType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DiscountType.
func (d DiscountType) IsValid() bool {
	for _, candidate := range validDiscountTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscountType converts raw input into a DiscountType.
func ParseDiscountType(value string) (DiscountType, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validDiscountTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount type %q", value)
}

// IsCouponDiscountType reports whether the type can be used on a coupon.
func IsCouponDiscountType(d DiscountType) bool {
	return d == DiscountTypePercentage || d == DiscountTypeFlatAmount
}
