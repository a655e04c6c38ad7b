package enums

// CouponErrorCode explains why a supplied coupon was not applied.
type CouponErrorCode string

const (
	CouponErrorNotFound     CouponErrorCode = "COUPON_NOT_FOUND"
	CouponErrorInactive     CouponErrorCode = "COUPON_INACTIVE"
	CouponErrorMinCartValue CouponErrorCode = "COUPON_MIN_CART_VALUE"
)

// String implements fmt.Stringer.
func (c CouponErrorCode) String() string {
	return string(c)
}
