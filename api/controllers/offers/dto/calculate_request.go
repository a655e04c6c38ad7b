package offersdto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CalculateRequest is the body of POST /api/v1/offers/calculate. Frame and lens are
// omitted together for accessory or contact-lens only orders.
type CalculateRequest struct {
	Frame            *FrameInput        `json:"frame,omitempty"`
	Lens             *LensInput         `json:"lens,omitempty"`
	Prescription     *PrescriptionInput `json:"prescription,omitempty"`
	OtherItems       []OtherItemInput   `json:"other_items,omitempty" validate:"omitempty,max=50,dive"`
	SecondPair       *SecondPairInput   `json:"second_pair,omitempty"`
	CustomerCategory string             `json:"customer_category,omitempty" validate:"max=64"`
	CouponCode       string             `json:"coupon_code,omitempty" validate:"max=64"`
	Context          string             `json:"context,omitempty" validate:"max=32"`
	AsOf             *time.Time         `json:"as_of,omitempty"`
}

// FrameInput describes a priced frame.
type FrameInput struct {
	Brand       string          `json:"brand" validate:"required,max=128"`
	SubCategory string          `json:"sub_category,omitempty" validate:"max=128"`
	FrameType   string          `json:"frame_type,omitempty" validate:"max=64"`
	MRP         decimal.Decimal `json:"mrp"`
}

// LensInput describes a priced lens. ID is needed for power-band lookups.
type LensInput struct {
	ID           *uuid.UUID      `json:"id,omitempty"`
	ItCode       string          `json:"it_code,omitempty" validate:"required_without=SKU,max=64"`
	SKU          string          `json:"sku,omitempty" validate:"max=64"`
	BrandLine    string          `json:"brand_line,omitempty" validate:"max=128"`
	VisionType   string          `json:"vision_type,omitempty" validate:"max=64"`
	Price        decimal.Decimal `json:"price"`
	YOPOEligible bool            `json:"yopo_eligible"`
}

// PrescriptionInput is one sph/cyl/add triple; omitted axes are not prescribed.
type PrescriptionInput struct {
	Sph *decimal.Decimal `json:"sph,omitempty"`
	Cyl *decimal.Decimal `json:"cyl,omitempty"`
	Add *decimal.Decimal `json:"add,omitempty"`
}

// OtherItemInput is an accessory or contact-lens line.
type OtherItemInput struct {
	Label    string          `json:"label" validate:"required,max=128"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity,omitempty" validate:"min=0,max=100"`
}

// SecondPairInput is the optional additional frame and lens.
type SecondPairInput struct {
	Frame        FrameInput         `json:"frame"`
	Lens         LensInput          `json:"lens"`
	Prescription *PrescriptionInput `json:"prescription,omitempty"`
}
