package offers

import (
	"time"

	"github.com/angelmondragon/lensfinderz-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	testOrg = uuid.MustParse("6f1c2a9e-0d5b-4c55-9a43-2f8f2d7a1b10")
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func rule(code string, offerType enums.OfferType, priority int) OfferRule {
	return OfferRule{
		ID:           uuid.NewSHA1(uuid.NameSpaceOID, []byte(code)),
		Code:         code,
		OfferType:    offerType,
		DiscountType: defaultDiscountType(offerType),
		Priority:     priority,
		IsActive:     true,
	}
}

func defaultDiscountType(t enums.OfferType) enums.DiscountType {
	switch t {
	case enums.OfferTypeYOPO:
		return enums.DiscountTypeYOPOLogic
	case enums.OfferTypeComboPrice:
		return enums.DiscountTypeComboPrice
	case enums.OfferTypeFreeLens, enums.OfferTypeBonusFreeProduct, enums.OfferTypeBOGO, enums.OfferTypeBOG50:
		return enums.DiscountTypeFreeItem
	case enums.OfferTypeFlatOff:
		return enums.DiscountTypeFlatAmount
	default:
		return enums.DiscountTypePercentage
	}
}

func testFrame(brand, mrp string) *Frame {
	return &Frame{Brand: brand, MRP: dec(mrp)}
}

func testLens(itCode, price string) *Lens {
	return &Lens{ItCode: itCode, BrandLine: "CLEARVIEW", Price: dec(price), YOPOEligible: true}
}

func baseInput(frameMRP, lensPrice string) CalculationInput {
	return CalculationInput{
		OrganizationID: testOrg,
		Frame:          testFrame("RAYBAN", frameMRP),
		Lens:           testLens("LNS-100", lensPrice),
		AsOf:           testNow,
	}
}

func componentSum(components []PriceComponent) int64 {
	var total int64
	for _, c := range components {
		total += c.Amount
	}
	return total
}
