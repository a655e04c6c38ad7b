package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryDiscount is a customer-category discount row; BrandCode "*" applies to every brand.
type CategoryDiscount struct {
	ID               uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrganizationID   uuid.UUID           `gorm:"column:organization_id;type:uuid;not null"`
	CustomerCategory string              `gorm:"column:customer_category;not null"`
	BrandCode        string              `gorm:"column:brand_code;not null;default:'*'"`
	DiscountPercent  decimal.Decimal     `gorm:"column:discount_percent;type:numeric(5,2);not null"`
	MaxDiscount      decimal.NullDecimal `gorm:"column:max_discount;type:numeric(12,2)"`
	IsActive         bool                `gorm:"column:is_active;not null;default:true"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
