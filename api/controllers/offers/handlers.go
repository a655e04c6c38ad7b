package offers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	offersdto "github.com/angelmondragon/lensfinderz-backend/api/controllers/offers/dto"
	"github.com/angelmondragon/lensfinderz-backend/api/middleware"
	"github.com/angelmondragon/lensfinderz-backend/api/responses"
	"github.com/angelmondragon/lensfinderz-backend/api/validators"
	offerssvc "github.com/angelmondragon/lensfinderz-backend/internal/offers"
	pkgerrors "github.com/angelmondragon/lensfinderz-backend/pkg/errors"
	"github.com/angelmondragon/lensfinderz-backend/pkg/logger"
)

// Calculate prices a frame, lens, accessories and optional second pair for the organization.
func Calculate(svc offerssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offers service unavailable"))
			return
		}

		orgID, err := organizationIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload offersdto.CalculateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := toCalculationInput(orgID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.RequestID = middleware.RequestIDFromContext(r.Context())

		result, err := svc.Calculate(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ListRules returns the organization's active offer rules in precedence order.
func ListRules(svc offerssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offers service unavailable"))
			return
		}

		orgID, err := organizationIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		asOf, err := validators.ParseQueryTime(r, "as_of", time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rules, err := svc.ListActiveRules(r.Context(), orgID, asOf)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newRuleList(asOf, rules))
	}
}

func organizationIDFromContext(r *http.Request) (uuid.UUID, error) {
	orgID := middleware.OrganizationIDFromContext(r.Context())
	if orgID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "organization context missing")
	}
	return orgID, nil
}
