package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/lensfinderz-backend/api/responses"
	pkgerrors "github.com/angelmondragon/lensfinderz-backend/pkg/errors"
	"github.com/angelmondragon/lensfinderz-backend/pkg/logger"
)

const organizationHeader = "X-Organization-Id"

// OrganizationContext resolves the calling organization from the X-Organization-Id header.
func OrganizationContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(organizationHeader))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "organization header missing"))
				return
			}
			orgID, err := uuid.Parse(raw)
			if err != nil || orgID == uuid.Nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "organization header must be a uuid").
					WithDetails(map[string]any{"header": organizationHeader}))
				return
			}

			ctx := WithOrganizationID(r.Context(), orgID)
			if logg != nil {
				ctx = logg.WithOrganizationID(ctx, orgID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
