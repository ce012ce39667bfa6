package enums

import "fmt"

// PromotionRuleKind names an eligibility rule. Unknown kinds are a
// configuration error, never a silent pass.
type PromotionRuleKind string

const (
	PromotionRuleItemTotal  PromotionRuleKind = "item_total"
	PromotionRuleFirstOrder PromotionRuleKind = "first_order"
)

var validPromotionRuleKinds = []PromotionRuleKind{
	PromotionRuleItemTotal,
	PromotionRuleFirstOrder,
}

// String implements fmt.Stringer.
func (k PromotionRuleKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known PromotionRuleKind.
func (k PromotionRuleKind) IsValid() bool {
	for _, candidate := range validPromotionRuleKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParsePromotionRuleKind converts raw input into a PromotionRuleKind.
func ParsePromotionRuleKind(value string) (PromotionRuleKind, error) {
	for _, candidate := range validPromotionRuleKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid promotion rule kind %q", value)
}

// RuleOperator compares an order amount against a rule threshold.
type RuleOperator string

const (
	RuleOperatorGTE RuleOperator = "gte"
	RuleOperatorGT  RuleOperator = "gt"
)

// IsValid reports whether the value is a known RuleOperator.
func (o RuleOperator) IsValid() bool {
	return o == RuleOperatorGTE || o == RuleOperatorGT
}

// PromotionCalculator names how an action computes its discount.
type PromotionCalculator string

const (
	PromotionCalculatorFlatRate   PromotionCalculator = "flat_rate"
	PromotionCalculatorPercentOff PromotionCalculator = "percent_off"
)

var validPromotionCalculators = []PromotionCalculator{
	PromotionCalculatorFlatRate,
	PromotionCalculatorPercentOff,
}

// String implements fmt.Stringer.
func (c PromotionCalculator) String() string {
	return string(c)
}

// IsValid reports whether the value is a known PromotionCalculator.
func (c PromotionCalculator) IsValid() bool {
	for _, candidate := range validPromotionCalculators {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParsePromotionCalculator converts raw input into a PromotionCalculator.
func ParsePromotionCalculator(value string) (PromotionCalculator, error) {
	for _, candidate := range validPromotionCalculators {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid promotion calculator %q", value)
}
