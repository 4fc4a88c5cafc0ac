package promo

import (
	"fmt"
	"strings"
	"time"
)

// DiscountType represents the kind of discount a promo code grants.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
	DiscountTypeFree       DiscountType = "free"
)

// Duration describes the temporal scope of a discount. It is informational
// metadata surfaced to callers; the engine never evaluates it against a clock.
type Duration string

const (
	DurationLifetime Duration = "lifetime"
	DurationMonths   Duration = "months"
	DurationDays     Duration = "days"
	DurationOneTime  Duration = "one-time"
)

// TierAny is the wildcard tier matching every subscription plan.
const TierAny = "Any"

// PromoCode is an immutable catalog entry for a promotional code.
type PromoCode struct {
	code          string
	discountType  DiscountType
	discountValue float64
	tiers         []string
	duration      Duration
	durationValue int
	isValid       bool
	rules         string
	createdAt     time.Time
	updatedAt     time.Time
}

// NewPromoCode creates a new promo code. The code is canonicalized to
// upper-case. Percentage values outside [0,100] are rejected here; entries
// reconstructed from persistence bypass this check (see Reconstruct).
func NewPromoCode(code string, discountType DiscountType, discountValue float64, tiers []string, duration Duration, durationValue int, rules string) (*PromoCode, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("promo code is required")
	}
	switch discountType {
	case DiscountTypePercentage:
		if discountValue < 0 || discountValue > 100 {
			return nil, fmt.Errorf("percentage discount must be between 0 and 100")
		}
	case DiscountTypeFixed:
		if discountValue <= 0 {
			return nil, fmt.Errorf("fixed discount must be positive")
		}
	case DiscountTypeFree:
		// Value is informational for free codes; the price is forced to zero.
	default:
		return nil, fmt.Errorf("invalid discount type: %s", discountType)
	}
	switch duration {
	case DurationLifetime, DurationOneTime:
	case DurationMonths, DurationDays:
		if durationValue <= 0 {
			return nil, fmt.Errorf("duration value must be positive for %s", duration)
		}
	default:
		return nil, fmt.Errorf("invalid duration: %s", duration)
	}
	if len(tiers) == 0 {
		return nil, fmt.Errorf("at least one subscription tier is required")
	}

	now := time.Now().UTC()
	return &PromoCode{
		code:          code,
		discountType:  discountType,
		discountValue: discountValue,
		tiers:         append([]string(nil), tiers...),
		duration:      duration,
		durationValue: durationValue,
		isValid:       true,
		rules:         rules,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// Reconstruct rebuilds a PromoCode from persistence without re-validating
// values. Out-of-range stored percentages pass through unchanged.
func Reconstruct(code string, discountType DiscountType, discountValue float64, tiers []string, duration Duration, durationValue int, isValid bool, rules string, createdAt, updatedAt time.Time) *PromoCode {
	return &PromoCode{
		code: strings.ToUpper(code), discountType: discountType, discountValue: discountValue,
		tiers: tiers, duration: duration, durationValue: durationValue,
		isValid: isValid, rules: rules, createdAt: createdAt, updatedAt: updatedAt,
	}
}

// AppliesTo reports whether the code covers the given plan, either directly
// or through the Any wildcard.
func (p *PromoCode) AppliesTo(plan string) bool {
	for _, t := range p.tiers {
		if t == TierAny || t == plan {
			return true
		}
	}
	return false
}

// DiscountedPrice applies the discount to the original price. Fixed discounts
// are clamped at zero; an unrecognized type leaves the price unchanged.
func (p *PromoCode) DiscountedPrice(original float64) float64 {
	switch p.discountType {
	case DiscountTypeFree:
		return 0
	case DiscountTypePercentage:
		return original - original*p.discountValue/100
	case DiscountTypeFixed:
		discounted := original - p.discountValue
		if discounted < 0 {
			return 0
		}
		return discounted
	default:
		return original
	}
}

// Label returns the human-readable discount description used in apply messages.
func (p *PromoCode) Label() string {
	switch p.discountType {
	case DiscountTypeFree:
		return "Free access"
	case DiscountTypePercentage:
		return fmt.Sprintf("%g%% discount", p.discountValue)
	case DiscountTypeFixed:
		return fmt.Sprintf("$%g discount", p.discountValue)
	default:
		return "Discount"
	}
}

// Disabled returns a copy of the entry with the kill switch flipped off.
// Entries themselves stay immutable.
func (p *PromoCode) Disabled() *PromoCode {
	c := *p
	c.tiers = append([]string(nil), p.tiers...)
	c.isValid = false
	c.updatedAt = time.Now().UTC()
	return &c
}

// Getters.
func (p *PromoCode) Code() string                { return p.code }
func (p *PromoCode) DiscountType() DiscountType  { return p.discountType }
func (p *PromoCode) DiscountValue() float64      { return p.discountValue }
func (p *PromoCode) Tiers() []string             { return append([]string(nil), p.tiers...) }
func (p *PromoCode) Duration() Duration          { return p.duration }
func (p *PromoCode) DurationValue() int          { return p.durationValue }
func (p *PromoCode) IsValid() bool               { return p.isValid }
func (p *PromoCode) Rules() string               { return p.rules }
func (p *PromoCode) CreatedAt() time.Time        { return p.createdAt }
func (p *PromoCode) UpdatedAt() time.Time        { return p.updatedAt }
