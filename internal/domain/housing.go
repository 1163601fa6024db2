package domain

import "github.com/shopspring/decimal"

// Default growth rates applied when a RentInputs growth field is absent.
const (
	defaultRentGrowth      = 0.05
	defaultInsuranceGrowth = 0.03
	defaultUtilitiesGrowth = 0.025
)

// RentInputs are the per-scenario parameters for a rental housing module. The
// base rent typically comes from the profile's housing payment but can be
// overridden per scenario. Each cost component carries its own growth spec so
// rent, insurance and utilities can inflate independently.
type RentInputs struct {
	BaseMonthlyRent             decimal.Decimal `yaml:"base_monthly_rent" json:"base_monthly_rent"`
	Roommates                   int             `yaml:"roommates" json:"roommates"`
	RoommateContributionPercent decimal.Decimal `yaml:"roommate_contribution_percent" json:"roommate_contribution_percent"`
	RentersInsuranceMonthly     decimal.Decimal `yaml:"renters_insurance_monthly" json:"renters_insurance_monthly"`
	UtilitiesMonthly            decimal.Decimal `yaml:"utilities_monthly" json:"utilities_monthly"`

	RentGrowth      RateSpec `yaml:"rent_growth,omitempty" json:"rent_growth,omitempty"`
	InsuranceGrowth RateSpec `yaml:"insurance_growth,omitempty" json:"insurance_growth,omitempty"`
	UtilitiesGrowth RateSpec `yaml:"utilities_growth,omitempty" json:"utilities_growth,omitempty"`
}

// DefaultRentInputs returns a RentInputs carrying only the default growth
// specs. The base rent is required and must be filled in by the caller.
func DefaultRentInputs() RentInputs {
	return RentInputs{
		RentGrowth:      FixedRate(defaultRentGrowth),
		InsuranceGrowth: FixedRate(defaultInsuranceGrowth),
		UtilitiesGrowth: FixedRate(defaultUtilitiesGrowth),
	}
}

// Validate checks all field constraints and fills absent growth specs with
// their defaults (5% rent, 3% insurance, 2.5% utilities).
func (r *RentInputs) Validate() error {
	if r.BaseMonthlyRent.LessThanOrEqual(decimal.Zero) {
		return invalidf("base_monthly_rent", "must be greater than 0, got %s", r.BaseMonthlyRent)
	}
	if r.Roommates < 0 || r.Roommates > 10 {
		return invalidf("roommates", "must be between 0 and 10, got %d", r.Roommates)
	}
	if r.RoommateContributionPercent.LessThan(decimal.Zero) || r.RoommateContributionPercent.GreaterThan(decimal.NewFromInt(1)) {
		return invalidf("roommate_contribution_percent", "must be between 0 and 1, got %s", r.RoommateContributionPercent)
	}
	if r.RentersInsuranceMonthly.LessThan(decimal.Zero) {
		return invalidf("renters_insurance_monthly", "cannot be negative")
	}
	if r.UtilitiesMonthly.LessThan(decimal.Zero) {
		return invalidf("utilities_monthly", "cannot be negative")
	}

	if r.RentGrowth.IsZero() {
		r.RentGrowth = FixedRate(defaultRentGrowth)
	}
	if r.InsuranceGrowth.IsZero() {
		r.InsuranceGrowth = FixedRate(defaultInsuranceGrowth)
	}
	if r.UtilitiesGrowth.IsZero() {
		r.UtilitiesGrowth = FixedRate(defaultUtilitiesGrowth)
	}

	if err := r.RentGrowth.Validate(); err != nil {
		return invalidf("rent_growth", "%s", err)
	}
	if err := r.InsuranceGrowth.Validate(); err != nil {
		return invalidf("insurance_growth", "%s", err)
	}
	if err := r.UtilitiesGrowth.Validate(); err != nil {
		return invalidf("utilities_growth", "%s", err)
	}
	return nil
}
