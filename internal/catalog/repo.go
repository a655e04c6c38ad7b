package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/lensfinderz-backend/internal/repo"
	"github.com/angelmondragon/lensfinderz-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads the offer catalog tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListOfferRules(ctx context.Context, orgID uuid.UUID) ([]models.OfferRule, error)
	ListCategoryDiscounts(ctx context.Context, orgID uuid.UUID) ([]models.CategoryDiscount, error)
	FindCoupon(ctx context.Context, orgID uuid.UUID, code string) (*models.Coupon, error)
	ListPowerBands(ctx context.Context, lensID uuid.UUID) ([]models.LensPowerBand, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns a catalog repository bound to db.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: r.Base.WithTx(tx)}
}

// ListOfferRules returns the organization's switched-on rules by priority, oldest first on ties. Validity
// windows are left to the caller so the rows can be cached independent of the clock.
func (r *repository) ListOfferRules(ctx context.Context, orgID uuid.UUID) ([]models.OfferRule, error) {
	var rows []models.OfferRule
	err := r.ActiveForOrganization(ctx, orgID).
		Order("priority ASC").
		Order("created_at ASC").
		Order("code ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListCategoryDiscounts(ctx context.Context, orgID uuid.UUID) ([]models.CategoryDiscount, error) {
	var rows []models.CategoryDiscount
	err := r.ActiveForOrganization(ctx, orgID).
		Order("customer_category ASC").
		Order("brand_code ASC").
		Find(&rows).Error
	return rows, err
}

// FindCoupon looks a code up case-insensitively. Unknown codes return nil, nil; inactive
// coupons are returned so the engine can report them.
func (r *repository) FindCoupon(ctx context.Context, orgID uuid.UUID, code string) (*models.Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	var coupon models.Coupon
	err := r.ForOrganization(ctx, orgID).
		Where("UPPER(code) = ?", strings.ToUpper(code)).
		First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

func (r *repository) ListPowerBands(ctx context.Context, lensID uuid.UUID) ([]models.LensPowerBand, error) {
	var rows []models.LensPowerBand
	err := r.DB(ctx).
		Where("lens_id = ?", lensID).
		Order("position ASC").
		Find(&rows).Error
	return rows, err
}
