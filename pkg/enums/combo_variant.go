package enums

import (
	"fmt"
	"strings"
)

// ComboVariant selects the sub-variant of a COMBO_PRICE rule.
type ComboVariant string

const (
	ComboVariantDefault      ComboVariant = "DEFAULT"
	ComboVariantFrameMRPOnly ComboVariant = "FRAME_MRP_ONLY"
	ComboVariantBrandLine    ComboVariant = "BRAND_LINE"
	ComboVariantCategory     ComboVariant = "CATEGORY"
	ComboVariantVisionType   ComboVariant = "VISION_TYPE"
)

var validComboVariants = []ComboVariant{
	ComboVariantDefault,
	ComboVariantFrameMRPOnly,
	ComboVariantBrandLine,
	ComboVariantCategory,
	ComboVariantVisionType,
}

// String implements fmt.Stringer.
func (c ComboVariant) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ComboVariant.
func (c ComboVariant) IsValid() bool {
	for _, candidate := range validComboVariants {
		if candidate == c {
			return true
		}
	}
	return false
}

// RequiresAttribute reports whether the variant only applies when an extra attribute matches.
func (c ComboVariant) RequiresAttribute() bool {
	return c == ComboVariantBrandLine || c == ComboVariantCategory || c == ComboVariantVisionType
}

// ParseComboVariant converts raw input into a ComboVariant. Empty input defaults to DEFAULT.
func ParseComboVariant(value string) (ComboVariant, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	if normalized == "" {
		return ComboVariantDefault, nil
	}
	for _, candidate := range validComboVariants {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid combo variant %q", value)
}
