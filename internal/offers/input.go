package offers

import (
	"strings"

	"github.com/angelmondragon/lensfinderz-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/lensfinderz-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValidateInput rejects requests the engine cannot price.
func ValidateInput(in CalculationInput) error {
	if in.OrganizationID == uuid.Nil {
		return invalid("organization id is required")
	}
	if in.AsOf.IsZero() {
		return invalid("pricing time is required")
	}
	if in.Context != "" && in.Context != enums.OfferContextRegular && in.Context != enums.OfferContextCombo {
		return invalid("offer context must be REGULAR or COMBO")
	}
	if (in.Frame == nil) != (in.Lens == nil) {
		return invalid("frame and lens must be supplied together")
	}
	if in.Frame != nil {
		if err := validatePair("", *in.Frame, *in.Lens); err != nil {
			return err
		}
	}
	for _, item := range in.OtherItems {
		if strings.TrimSpace(item.Label) == "" {
			return invalid("other item label is required")
		}
		if item.Price.IsNegative() {
			return invalid("other item price must not be negative")
		}
		if item.Quantity < 0 {
			return invalid("other item quantity must not be negative")
		}
		if item.Quantity > MaxItemQuantity {
			return invalid("other item quantity exceeds the maximum")
		}
		if exceedsMaxMoney(item.Price) {
			return invalid("other item price exceeds the maximum amount")
		}
	}
	if in.SecondPair != nil {
		if in.AccessoryOnly() {
			return invalid("second pair requires a primary frame and lens")
		}
		if err := validatePair("second pair ", in.SecondPair.Frame, in.SecondPair.Lens); err != nil {
			return err
		}
	}
	if exceedsMaxMoney(orderValue(in)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "order value exceeds the maximum amount").
			WithDetails(map[string]string{"max": MaxMoney.String()})
	}
	return nil
}

// orderValue sums every price the caller supplied, before surcharges and offers.
func orderValue(in CalculationInput) decimal.Decimal {
	total := decimal.Zero
	if in.Frame != nil {
		total = total.Add(in.Frame.MRP).Add(in.Lens.Price)
	}
	for _, item := range in.OtherItems {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.quantity()))))
	}
	if in.SecondPair != nil {
		total = total.Add(in.SecondPair.Frame.MRP).Add(in.SecondPair.Lens.Price)
	}
	return total
}

func validatePair(prefix string, frame Frame, lens Lens) error {
	if strings.TrimSpace(frame.Brand) == "" {
		return invalid(prefix + "frame brand is required")
	}
	if frame.MRP.IsNegative() {
		return invalid(prefix + "frame mrp must not be negative")
	}
	if exceedsMaxMoney(frame.MRP) {
		return invalid(prefix + "frame mrp exceeds the maximum amount")
	}
	if lens.Code() == "" {
		return invalid(prefix + "lens it code or sku is required")
	}
	if lens.Price.IsNegative() {
		return invalid(prefix + "lens price must not be negative")
	}
	if exceedsMaxMoney(lens.Price) {
		return invalid(prefix + "lens price exceeds the maximum amount")
	}
	return nil
}

func invalid(message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message)
}
