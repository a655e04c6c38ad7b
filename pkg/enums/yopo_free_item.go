package enums

import (
	"fmt"
	"strings"
)

// YOPOFreeItem selects which side of a frame+lens pair a YOPO rule gives away.
type YOPOFreeItem string

const (
	// YOPOFreeItemBestOf charges the costlier of frame or lens.
	YOPOFreeItemBestOf YOPOFreeItem = "BEST_OF"
	// YOPOFreeItemFrame gives the frame away; the customer pays the lens.
	YOPOFreeItemFrame YOPOFreeItem = "FRAME"
	// YOPOFreeItemLens gives the lens away; the customer pays the frame.
	YOPOFreeItemLens YOPOFreeItem = "LENS"
)

var validYOPOFreeItems = []YOPOFreeItem{
	YOPOFreeItemBestOf,
	YOPOFreeItemFrame,
	YOPOFreeItemLens,
}

// String implements fmt.Stringer.
func (y YOPOFreeItem) String() string {
	return string(y)
}

// IsValid reports whether the value is a known YOPOFreeItem.
func (y YOPOFreeItem) IsValid() bool {
	for _, candidate := range validYOPOFreeItems {
		if candidate == y {
			return true
		}
	}
	return false
}

// ParseYOPOFreeItem converts raw input into a YOPOFreeItem. Empty input defaults to BEST_OF.
func ParseYOPOFreeItem(value string) (YOPOFreeItem, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	if normalized == "" {
		return YOPOFreeItemBestOf, nil
	}
	for _, candidate := range validYOPOFreeItems {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid yopo free item %q", value)
}
