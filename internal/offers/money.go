package offers

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// MaxMoney bounds every monetary amount and the value of a whole order, in whole units.
// Every line and total built under it fits in int64.
var MaxMoney = decimal.NewFromInt(1_000_000_000_000)

// MaxItemQuantity bounds the quantity of a single other item.
const MaxItemQuantity = 10_000

func exceedsMaxMoney(d decimal.Decimal) bool {
	return d.GreaterThan(MaxMoney)
}

func exceedsMaxMoneyPtr(d *decimal.Decimal) bool {
	return d != nil && exceedsMaxMoney(*d)
}

// roundMoney rounds to whole currency units, half away from zero.
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

func units(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

func percentOf(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Div(hundred)
}

// clampDiscount keeps a discount within [0, running].
func clampDiscount(discount, running decimal.Decimal) decimal.Decimal {
	if discount.IsNegative() {
		return decimal.Zero
	}
	if discount.GreaterThan(running) {
		return running
	}
	return discount
}

func capAt(value decimal.Decimal, limit *decimal.Decimal) decimal.Decimal {
	if limit == nil {
		return value
	}
	return decimal.Min(value, *limit)
}
