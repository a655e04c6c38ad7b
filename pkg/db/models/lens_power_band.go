package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LensPowerBand maps a prescription range on one lens product to a surcharge.
type LensPowerBand struct {
	ID          uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	LensID      uuid.UUID           `gorm:"column:lens_id;type:uuid;not null"`
	Label       string              `gorm:"column:label;not null;default:''"`
	SphMin      decimal.NullDecimal `gorm:"column:sph_min;type:numeric(5,2)"`
	SphMax      decimal.NullDecimal `gorm:"column:sph_max;type:numeric(5,2)"`
	CylMin      decimal.NullDecimal `gorm:"column:cyl_min;type:numeric(5,2)"`
	CylMax      decimal.NullDecimal `gorm:"column:cyl_max;type:numeric(5,2)"`
	AddMin      decimal.NullDecimal `gorm:"column:add_min;type:numeric(5,2)"`
	AddMax      decimal.NullDecimal `gorm:"column:add_max;type:numeric(5,2)"`
	ExtraCharge decimal.Decimal     `gorm:"column:extra_charge;type:numeric(12,2);not null"`
	Position    int                 `gorm:"column:position;not null;default:0"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
}
