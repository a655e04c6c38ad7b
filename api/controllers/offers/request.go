package offers

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	offersdto "github.com/angelmondragon/lensfinderz-backend/api/controllers/offers/dto"
	"github.com/angelmondragon/lensfinderz-backend/api/validators"
	offerssvc "github.com/angelmondragon/lensfinderz-backend/internal/offers"
	"github.com/angelmondragon/lensfinderz-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/lensfinderz-backend/pkg/errors"
)

func toCalculationInput(orgID uuid.UUID, payload offersdto.CalculateRequest) (offerssvc.CalculationInput, error) {
	offerContext, err := enums.ParseOfferContext(payload.Context)
	if err == nil && offerContext == enums.OfferContextSecondPair {
		err = fmt.Errorf("offer context %s is reserved for second pair pricing", offerContext)
	}
	if err != nil {
		return offerssvc.CalculationInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid offer context").
			WithDetails(map[string]string{"context": "must be REGULAR or COMBO"})
	}

	input := offerssvc.CalculationInput{
		OrganizationID:   orgID,
		Prescription:     toPrescription(payload.Prescription),
		CustomerCategory: validators.SanitizeString(payload.CustomerCategory, 64),
		CouponCode:       validators.SanitizeString(payload.CouponCode, 64),
		Context:          offerContext,
	}
	if payload.AsOf != nil {
		input.AsOf = payload.AsOf.UTC()
	}
	if payload.Frame != nil {
		frame := toFrame(*payload.Frame)
		input.Frame = &frame
	}
	if payload.Lens != nil {
		lens := toLens(*payload.Lens)
		input.Lens = &lens
	}
	for _, item := range payload.OtherItems {
		input.OtherItems = append(input.OtherItems, offerssvc.OtherItem{
			Label:    strings.TrimSpace(item.Label),
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	if sp := payload.SecondPair; sp != nil {
		input.SecondPair = &offerssvc.SecondPair{
			Frame:        toFrame(sp.Frame),
			Lens:         toLens(sp.Lens),
			Prescription: toPrescription(sp.Prescription),
		}
	}
	return input, nil
}

func toFrame(in offersdto.FrameInput) offerssvc.Frame {
	return offerssvc.Frame{
		Brand:       strings.TrimSpace(in.Brand),
		SubCategory: strings.TrimSpace(in.SubCategory),
		FrameType:   strings.TrimSpace(in.FrameType),
		MRP:         in.MRP,
	}
}

func toLens(in offersdto.LensInput) offerssvc.Lens {
	lens := offerssvc.Lens{
		ItCode:       strings.TrimSpace(in.ItCode),
		SKU:          strings.TrimSpace(in.SKU),
		BrandLine:    strings.TrimSpace(in.BrandLine),
		VisionType:   strings.TrimSpace(in.VisionType),
		Price:        in.Price,
		YOPOEligible: in.YOPOEligible,
	}
	if in.ID != nil {
		lens.ID = *in.ID
	}
	return lens
}

func toPrescription(in *offersdto.PrescriptionInput) *offerssvc.Prescription {
	if in == nil {
		return nil
	}
	return &offerssvc.Prescription{Sph: in.Sph, Cyl: in.Cyl, Add: in.Add}
}

func newRuleList(asOf time.Time, rules []offerssvc.OfferRule) offersdto.RuleList {
	views := make([]offersdto.RuleView, 0, len(rules))
	for _, rule := range rules {
		views = append(views, offersdto.RuleView{
			ID:                rule.ID,
			Code:              rule.Code,
			Description:       rule.Description,
			OfferType:         rule.OfferType,
			DiscountType:      rule.DiscountType,
			DiscountValue:     rule.DiscountValue,
			ComboPrice:        rule.ComboPrice,
			FrameBrand:        rule.Predicates.FrameBrand,
			FrameSubCategory:  rule.Predicates.FrameSubCategory,
			MinFrameMRP:       rule.Predicates.MinFrameMRP,
			MaxFrameMRP:       rule.Predicates.MaxFrameMRP,
			LensBrandLines:    nonNil(rule.Predicates.LensBrandLines),
			LensItCodes:       nonNil(rule.Predicates.LensItCodes),
			IsSecondPairRule:  rule.IsSecondPairRule,
			SecondPairPercent: rule.SecondPairPercent,
			Priority:          rule.Priority,
			StartsAt:          rule.StartsAt,
			EndsAt:            rule.EndsAt,
		})
	}
	return offersdto.RuleList{AsOf: asOf, Rules: views}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
