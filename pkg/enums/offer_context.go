package enums

import (
	"fmt"
	"strings"
)

// OfferContext scopes rule matching to the kind of selection being priced.
type OfferContext string

const (
	OfferContextRegular    OfferContext = "REGULAR"
	OfferContextCombo      OfferContext = "COMBO"
	OfferContextSecondPair OfferContext = "SECOND_PAIR"
)

var validOfferContexts = []OfferContext{
	OfferContextRegular,
	OfferContextCombo,
	OfferContextSecondPair,
}

// String implements fmt.Stringer.
func (c OfferContext) String() string {
	return string(c)
}

// IsValid reports whether the value is a known OfferContext.
func (c OfferContext) IsValid() bool {
	for _, candidate := range validOfferContexts {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseOfferContext converts raw input into an OfferContext. Empty input defaults to REGULAR.
func ParseOfferContext(value string) (OfferContext, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	if normalized == "" {
		return OfferContextRegular, nil
	}
	for _, candidate := range validOfferContexts {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid offer context %q", value)
}
