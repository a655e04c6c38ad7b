package offers

import (
	"strings"

	"github.com/angelmondragon/lensfinderz-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// BrandMatcher matches either every brand or one named brand.
type BrandMatcher struct {
	Any  bool
	Name string
}

// AnyBrand matches every brand.
func AnyBrand() BrandMatcher {
	return BrandMatcher{Any: true}
}

// SpecificBrand matches one brand, compared case-insensitively.
func SpecificBrand(name string) BrandMatcher {
	return BrandMatcher{Name: strings.TrimSpace(name)}
}

// Matches reports whether brand is covered by the matcher.
func (b BrandMatcher) Matches(brand string) bool {
	if b.Any {
		return true
	}
	return b.Name != "" && strings.EqualFold(b.Name, strings.TrimSpace(brand))
}

func (b BrandMatcher) String() string {
	if b.Any {
		return "*"
	}
	return b.Name
}

func matchesAnyBrand(matchers []BrandMatcher, brand string) bool {
	if len(matchers) == 0 {
		return true
	}
	for _, m := range matchers {
		if m.Matches(brand) {
			return true
		}
	}
	return false
}

func brandNames(matchers []BrandMatcher) []string {
	names := make([]string, 0, len(matchers))
	for _, m := range matchers {
		names = append(names, m.String())
	}
	if len(names) == 0 {
		names = append(names, AnyBrand().String())
	}
	return names
}

// RuleConfig is the offer-type specific payload of a rule.
type RuleConfig interface {
	configFor() []enums.OfferType
}

// YOPOConfig configures a YOPO rule.
type YOPOConfig struct {
	FreeItem enums.YOPOFreeItem
	// BlockBonus stops BONUS_FREE_PRODUCT rules from applying alongside this rule.
	BlockBonus bool
}

// ComboConfig configures a COMBO_PRICE rule.
type ComboConfig struct {
	Variant enums.ComboVariant
	// RequiredValue is the frame sub-category, frame type or lens vision type the variant needs.
	RequiredValue string
	// LensBrandLine optionally restricts FRAME_MRP_ONLY combos.
	LensBrandLine string
	// Price overrides the rule combo price for attribute variants.
	Price *decimal.Decimal
}

// BonusConfig configures a BONUS_FREE_PRODUCT rule.
type BonusConfig struct {
	TriggerMinBill decimal.Decimal
	BonusLimit     decimal.Decimal
	BonusCategory  string
	EligibleBrands []BrandMatcher
}

// SecondPairConfig configures BOG50 and BOGO rules.
type SecondPairConfig struct {
	EligibleBrands []BrandMatcher
}

// CategoryRuleConfig configures a CATEGORY_DISCOUNT rule.
type CategoryRuleConfig struct {
	CustomerCategory string
}

// NoConfig is carried by rule types without extra parameters.
type NoConfig struct{}

func (YOPOConfig) configFor() []enums.OfferType { return []enums.OfferType{enums.OfferTypeYOPO} }

func (ComboConfig) configFor() []enums.OfferType {
	return []enums.OfferType{enums.OfferTypeComboPrice}
}

func (BonusConfig) configFor() []enums.OfferType {
	return []enums.OfferType{enums.OfferTypeBonusFreeProduct}
}

func (SecondPairConfig) configFor() []enums.OfferType {
	return []enums.OfferType{enums.OfferTypeBOG50, enums.OfferTypeBOGO}
}

func (CategoryRuleConfig) configFor() []enums.OfferType {
	return []enums.OfferType{enums.OfferTypeCategoryDiscount}
}

func (NoConfig) configFor() []enums.OfferType {
	return []enums.OfferType{enums.OfferTypeFreeLens, enums.OfferTypePercentOff, enums.OfferTypeFlatOff}
}

// DefaultConfig returns the configuration a rule of type t carries when none is authored.
// Types that cannot run without parameters return nil.
func DefaultConfig(t enums.OfferType) RuleConfig {
	switch t {
	case enums.OfferTypeYOPO:
		return YOPOConfig{FreeItem: enums.YOPOFreeItemBestOf}
	case enums.OfferTypeComboPrice:
		return ComboConfig{Variant: enums.ComboVariantDefault}
	case enums.OfferTypeBOG50, enums.OfferTypeBOGO:
		return SecondPairConfig{}
	case enums.OfferTypeCategoryDiscount:
		return CategoryRuleConfig{}
	case enums.OfferTypeFreeLens, enums.OfferTypePercentOff, enums.OfferTypeFlatOff:
		return NoConfig{}
	}
	return nil
}

func configSupports(cfg RuleConfig, t enums.OfferType) bool {
	for _, candidate := range cfg.configFor() {
		if candidate == t {
			return true
		}
	}
	return false
}

// config returns the rule's payload, substituting the type default when none was authored.
func (r OfferRule) config() RuleConfig {
	if r.Config != nil {
		return r.Config
	}
	return DefaultConfig(r.OfferType)
}

func (r OfferRule) yopoConfig() YOPOConfig {
	cfg, _ := r.config().(YOPOConfig)
	if cfg.FreeItem == "" {
		cfg.FreeItem = enums.YOPOFreeItemBestOf
	}
	return cfg
}

func (r OfferRule) comboConfig() ComboConfig {
	cfg, _ := r.config().(ComboConfig)
	if cfg.Variant == "" {
		cfg.Variant = enums.ComboVariantDefault
	}
	return cfg
}

func (r OfferRule) secondPairConfig() SecondPairConfig {
	cfg, _ := r.config().(SecondPairConfig)
	return cfg
}

func (r OfferRule) categoryConfig() CategoryRuleConfig {
	cfg, _ := r.config().(CategoryRuleConfig)
	return cfg
}

// secondPairPercent is 100 for BOGO and defaults to 50 for BOG50.
func (r OfferRule) secondPairPercent() decimal.Decimal {
	if r.OfferType == enums.OfferTypeBOGO {
		return hundred
	}
	if r.SecondPairPercent != nil {
		return *r.SecondPairPercent
	}
	return decimal.NewFromInt(50)
}
