package enums

// PriceComponentKind tags a receipt line as a charge or a deduction.
type PriceComponentKind string

const (
	PriceComponentBase     PriceComponentKind = "BASE"
	PriceComponentDiscount PriceComponentKind = "DISCOUNT"
)
