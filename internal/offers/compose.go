package offers

import (
	"github.com/angelmondragon/lensfinderz-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Breakdown collects receipt lines in the order they were produced.
type Breakdown struct {
	charges   []PriceComponent
	discounts []PriceComponent
}

// Charge records a base line. Amounts are rounded to whole units.
func (b *Breakdown) Charge(label string, amount decimal.Decimal) {
	b.charges = append(b.charges, PriceComponent{
		Label:  label,
		Amount: units(amount.Abs()),
		Kind:   enums.PriceComponentBase,
	})
}

// Discount records a deduction. Zero deductions are dropped.
func (b *Breakdown) Discount(label string, amount decimal.Decimal) {
	value := units(amount.Abs())
	if value == 0 {
		return
	}
	b.discounts = append(b.discounts, PriceComponent{
		Label:  label,
		Amount: -value,
		Kind:   enums.PriceComponentDiscount,
	})
}

// ComposeBreakdown returns the ordered signed components, base lines first, and the final
// payable amount: their sum clamped at zero.
func ComposeBreakdown(b Breakdown) ([]PriceComponent, int64) {
	components := make([]PriceComponent, 0, len(b.charges)+len(b.discounts))
	components = append(components, b.charges...)
	components = append(components, b.discounts...)

	var total int64
	for _, c := range components {
		total += c.Amount
	}
	if total < 0 {
		total = 0
	}
	return components, total
}
