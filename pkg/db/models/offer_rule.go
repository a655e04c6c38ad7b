package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/lensfinderz-backend/pkg/enums"
	"github.com/angelmondragon/lensfinderz-backend/pkg/types"
)

// OfferRule is one configurable pricing rule in an organization's catalog.
type OfferRule struct {
	ID                uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrganizationID    uuid.UUID           `gorm:"column:organization_id;type:uuid;not null"`
	Code              string              `gorm:"column:code;not null"`
	Description       *string             `gorm:"column:description"`
	OfferType         enums.OfferType     `gorm:"column:offer_type;type:offer_type;not null"`
	DiscountType      enums.DiscountType  `gorm:"column:discount_type;type:discount_type;not null"`
	DiscountValue     decimal.Decimal     `gorm:"column:discount_value;type:numeric(12,2);not null;default:0"`
	ComboPrice        decimal.NullDecimal `gorm:"column:combo_price;type:numeric(12,2)"`
	FrameBrand        *string             `gorm:"column:frame_brand"`
	FrameSubCategory  *string             `gorm:"column:frame_sub_category"`
	MinFrameMRP       decimal.NullDecimal `gorm:"column:min_frame_mrp;type:numeric(12,2)"`
	MaxFrameMRP       decimal.NullDecimal `gorm:"column:max_frame_mrp;type:numeric(12,2)"`
	LensBrandLines    pq.StringArray      `gorm:"column:lens_brand_lines;type:text[]"`
	LensItCodes       pq.StringArray      `gorm:"column:lens_it_codes;type:text[]"`
	IsSecondPairRule  bool                `gorm:"column:is_second_pair_rule;not null;default:false"`
	SecondPairPercent decimal.NullDecimal `gorm:"column:second_pair_percent;type:numeric(5,2)"`
	Priority          int                 `gorm:"column:priority;not null;default:100"`
	IsActive          bool                `gorm:"column:is_active;not null;default:true"`
	StartsAt          *time.Time          `gorm:"column:starts_at"`
	EndsAt            *time.Time          `gorm:"column:ends_at"`
	Config            types.JSONDocument  `gorm:"column:config;type:jsonb"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
