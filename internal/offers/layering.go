package offers

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/lensfinderz-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// ApplyCategoryDiscount applies the customer-category table to running. A row naming the
// frame brand wins over the wildcard row. The discount is capped by the row's max discount
// and never exceeds running.
func ApplyCategoryDiscount(running decimal.Decimal, rows []CategoryDiscount, customerCategory, frameBrand string) (*CategoryDiscountApplied, decimal.Decimal) {
	category := strings.TrimSpace(customerCategory)
	if category == "" {
		return nil, decimal.Zero
	}
	row := selectCategoryRow(rows, category, frameBrand)
	if row == nil {
		return nil, decimal.Zero
	}
	discount := roundMoney(capAt(percentOf(running, row.DiscountPercent), row.MaxDiscount))
	discount = clampDiscount(discount, running)
	return &CategoryDiscountApplied{
		CustomerCategory: row.CustomerCategory,
		BrandCode:        row.Brand.String(),
		Percent:          row.DiscountPercent,
		Savings:          units(discount),
	}, discount
}

func selectCategoryRow(rows []CategoryDiscount, category, frameBrand string) *CategoryDiscount {
	var wildcard *CategoryDiscount
	for i := range rows {
		row := &rows[i]
		if !row.IsActive || !strings.EqualFold(strings.TrimSpace(row.CustomerCategory), category) {
			continue
		}
		if row.Brand.Any {
			if wildcard == nil {
				wildcard = row
			}
			continue
		}
		if row.Brand.Matches(frameBrand) {
			return row
		}
	}
	return wildcard
}

// ApplyCoupon applies coupon to running. An unknown, inactive or below-minimum coupon
// yields a CouponError and no discount; it never fails the calculation.
func ApplyCoupon(running decimal.Decimal, code string, coupon *Coupon) (*CouponApplied, *CouponError, decimal.Decimal) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil, decimal.Zero
	}
	if coupon == nil {
		return nil, &CouponError{
			Code:    enums.CouponErrorNotFound,
			Message: fmt.Sprintf("coupon %s was not found", code),
		}, decimal.Zero
	}
	if !coupon.IsActive {
		return nil, &CouponError{
			Code:    enums.CouponErrorInactive,
			Message: fmt.Sprintf("coupon %s is no longer active", coupon.Code),
		}, decimal.Zero
	}
	if coupon.MinCartValue != nil && running.LessThan(*coupon.MinCartValue) {
		return nil, &CouponError{
			Code:    enums.CouponErrorMinCartValue,
			Message: fmt.Sprintf("coupon %s requires a cart value of at least %s", coupon.Code, coupon.MinCartValue.StringFixed(0)),
		}, decimal.Zero
	}

	var discount decimal.Decimal
	switch coupon.DiscountType {
	case enums.DiscountTypePercentage:
		discount = capAt(percentOf(running, coupon.DiscountValue), coupon.MaxDiscount)
	default:
		discount = coupon.DiscountValue
	}
	discount = clampDiscount(roundMoney(discount), running)
	return &CouponApplied{
		Code:         coupon.Code,
		DiscountType: coupon.DiscountType,
		Savings:      units(discount),
	}, nil, discount
}
