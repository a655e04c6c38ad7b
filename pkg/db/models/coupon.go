package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/lensfinderz-backend/pkg/enums"
)

// Coupon is a redeemable code scoped to one organization.
type Coupon struct {
	ID             uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrganizationID uuid.UUID           `gorm:"column:organization_id;type:uuid;not null"`
	Code           string              `gorm:"column:code;not null"`
	DiscountType   enums.DiscountType  `gorm:"column:discount_type;type:discount_type;not null"`
	DiscountValue  decimal.Decimal     `gorm:"column:discount_value;type:numeric(12,2);not null"`
	MaxDiscount    decimal.NullDecimal `gorm:"column:max_discount;type:numeric(12,2)"`
	MinCartValue   decimal.NullDecimal `gorm:"column:min_cart_value;type:numeric(12,2)"`
	IsActive       bool                `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
