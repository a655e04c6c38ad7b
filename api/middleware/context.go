package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const ctxOrganizationID contextKey = "organization_id"

// OrganizationIDFromContext returns the organization resolved by OrganizationContext.
func OrganizationIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxOrganizationID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// WithOrganizationID injects the organization identifier into the context.
func WithOrganizationID(ctx context.Context, orgID uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxOrganizationID, orgID)
}
