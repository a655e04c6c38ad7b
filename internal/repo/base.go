package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// WithTx returns a Base bound to tx, or b itself when tx is nil.
func (b Base) WithTx(tx *gorm.DB) Base {
	if tx == nil {
		return b
	}
	return Base{db: tx}
}

// ForOrganization scopes queries to one organization's rows.
func (b Base) ForOrganization(ctx context.Context, orgID uuid.UUID) *gorm.DB {
	return b.DB(ctx).Where("organization_id = ?", orgID)
}

// ActiveForOrganization narrows ForOrganization to switched-on rows.
func (b Base) ActiveForOrganization(ctx context.Context, orgID uuid.UUID) *gorm.DB {
	return b.ForOrganization(ctx, orgID).Where("is_active = ?", true)
}
