package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProfileSchemaVersion tracks breaking changes to the stored profile shape.
const ProfileSchemaVersion = "0.1.0"

// HousingKind is how the user pays for housing.
type HousingKind string

const (
	HousingNone     HousingKind = "none"
	HousingRent     HousingKind = "rent"
	HousingMortgage HousingKind = "mortgage"
)

// HealthPayer is who pays the user's health insurance.
type HealthPayer string

const (
	HealthNone    HealthPayer = "none"
	HealthSelfPay HealthPayer = "self_pay"
	HealthParents HealthPayer = "parents"
)

// CarStatus is the user's car payment situation.
type CarStatus string

const (
	CarNone           CarStatus = "none"
	CarPaidOff        CarStatus = "paid_off"
	CarParentsPaying  CarStatus = "parents_paying"
	CarMonthlyPayment CarStatus = "monthly_payment"
)

// HousingMetrics records the user's housing situation. When the kind involves
// a payment (rent or mortgage) the monthly amount is required and must be
// positive.
type HousingMetrics struct {
	HousingKind           HousingKind      `yaml:"housing_kind" json:"housing_kind"`
	HousingPaymentMonthly *decimal.Decimal `yaml:"housing_payment_monthly,omitempty" json:"housing_payment_monthly,omitempty"`
	HasRentersInsurance   *bool            `yaml:"has_renters_insurance,omitempty" json:"has_renters_insurance,omitempty"`
}

func (h *HousingMetrics) Validate() error {
	switch h.HousingKind {
	case HousingNone, HousingRent, HousingMortgage:
	default:
		return invalidf("housing_kind", "must be 'none', 'rent' or 'mortgage', got %q", h.HousingKind)
	}
	if h.HousingKind == HousingRent || h.HousingKind == HousingMortgage {
		if h.HousingPaymentMonthly == nil || h.HousingPaymentMonthly.LessThanOrEqual(decimal.Zero) {
			return invalidf("housing_payment_monthly", "monthly rent/mortgage payment must be greater than 0")
		}
	}
	return nil
}

// HealthInsuranceMetrics records who pays for health insurance. A self-paying
// user must supply a positive monthly premium.
type HealthInsuranceMetrics struct {
	Payer                HealthPayer      `yaml:"payer" json:"payer"`
	HealthPremiumMonthly *decimal.Decimal `yaml:"health_premium_monthly,omitempty" json:"health_premium_monthly,omitempty"`
}

func (h *HealthInsuranceMetrics) Validate() error {
	switch h.Payer {
	case HealthNone, HealthSelfPay, HealthParents:
	default:
		return invalidf("payer", "must be 'none', 'self_pay' or 'parents', got %q", h.Payer)
	}
	if h.Payer == HealthSelfPay {
		if h.HealthPremiumMonthly == nil || h.HealthPremiumMonthly.LessThanOrEqual(decimal.Zero) {
			return invalidf("health_premium_monthly", "monthly premium must be greater than 0")
		}
	}
	return nil
}

// CarMetrics records the car loan situation plus optional fuel inputs. A
// monthly_payment status requires a positive payment amount.
type CarMetrics struct {
	Status            CarStatus        `yaml:"status" json:"status"`
	MonthlyCarPayment *decimal.Decimal `yaml:"monthly_car_payment,omitempty" json:"monthly_car_payment,omitempty"`
	AvgPricePerGallon *decimal.Decimal `yaml:"avg_price_per_gallon,omitempty" json:"avg_price_per_gallon,omitempty"`
	MilesPerMonth     *decimal.Decimal `yaml:"miles_per_month,omitempty" json:"miles_per_month,omitempty"`
	MilesPerGallon    *decimal.Decimal `yaml:"miles_per_gallon,omitempty" json:"miles_per_gallon,omitempty"`
}

func (c *CarMetrics) Validate() error {
	switch c.Status {
	case CarNone, CarPaidOff, CarParentsPaying, CarMonthlyPayment:
	default:
		return invalidf("status", "must be 'none', 'paid_off', 'parents_paying' or 'monthly_payment', got %q", c.Status)
	}
	if c.Status == CarMonthlyPayment {
		if c.MonthlyCarPayment == nil || c.MonthlyCarPayment.LessThanOrEqual(decimal.Zero) {
			return invalidf("monthly_car_payment", "monthly car payment must be greater than 0")
		}
	}
	if c.AvgPricePerGallon != nil && c.AvgPricePerGallon.LessThan(decimal.Zero) {
		return invalidf("avg_price_per_gallon", "cannot be negative")
	}
	if c.MilesPerMonth != nil && c.MilesPerMonth.LessThan(decimal.Zero) {
		return invalidf("miles_per_month", "cannot be negative")
	}
	if c.MilesPerGallon != nil && c.MilesPerGallon.LessThan(decimal.NewFromInt(1)) {
		return invalidf("miles_per_gallon", "must be at least 1")
	}
	return nil
}

// CoreExpenses holds everyday spending buckets. Unused buckets stay at 0.
type CoreExpenses struct {
	GroceriesMonthly     decimal.Decimal `yaml:"groceries_monthly" json:"groceries_monthly"`
	DiningOutMonthly     decimal.Decimal `yaml:"dining_out_monthly" json:"dining_out_monthly"`
	SubscriptionsMonthly decimal.Decimal `yaml:"subscriptions_monthly" json:"subscriptions_monthly"`
	MiscMonthly          decimal.Decimal `yaml:"misc_monthly" json:"misc_monthly"`
}

func (c *CoreExpenses) Validate() error {
	buckets := map[string]decimal.Decimal{
		"groceries_monthly":     c.GroceriesMonthly,
		"dining_out_monthly":    c.DiningOutMonthly,
		"subscriptions_monthly": c.SubscriptionsMonthly,
		"misc_monthly":          c.MiscMonthly,
	}
	for field, v := range buckets {
		if v.LessThan(decimal.Zero) {
			return invalidf(field, "cannot be negative")
		}
	}
	return nil
}

// UserProfile is the user's durable financial-situation record: simple facts
// about how they live and pay, independent of any scenario. Growth-rate
// percentages never live here; those belong to scenario module inputs.
// Identity fields (birth date, filing status, state) feed GlobalInputs
// defaults when a scenario is built on top of the profile.
type UserProfile struct {
	SchemaVersion string       `yaml:"schema_version,omitempty" json:"schema_version,omitempty"`
	BirthDate     *time.Time   `yaml:"birth_date,omitempty" json:"birth_date,omitempty"`
	FilingStatus  FilingStatus `yaml:"filing_status,omitempty" json:"filing_status,omitempty"`
	State         string       `yaml:"state,omitempty" json:"state,omitempty"`

	Housing         HousingMetrics         `yaml:"housing" json:"housing"`
	HealthInsurance HealthInsuranceMetrics `yaml:"health_insurance" json:"health_insurance"`
	Car             CarMetrics             `yaml:"car" json:"car"`
	Expenses        CoreExpenses           `yaml:"expenses" json:"expenses"`
}

// DefaultUserProfile returns a profile with the schema defaults for each
// metric group.
func DefaultUserProfile() UserProfile {
	return UserProfile{
		SchemaVersion:   ProfileSchemaVersion,
		FilingStatus:    FilingSingle,
		Housing:         HousingMetrics{HousingKind: HousingNone},
		HealthInsurance: HealthInsuranceMetrics{Payer: HealthParents},
		Car:             CarMetrics{Status: CarParentsPaying},
	}
}

// Validate checks every metric group. Each group enforces its own
// conditional-requirement rule; the first violation is returned.
func (p *UserProfile) Validate() error {
	if p.SchemaVersion == "" {
		p.SchemaVersion = ProfileSchemaVersion
	}
	if p.FilingStatus != "" {
		switch p.FilingStatus {
		case FilingSingle, FilingMarried:
		default:
			return invalidf("filing_status", "must be 'single' or 'married', got %q", p.FilingStatus)
		}
	}
	if p.State != "" && (len(p.State) != 2 || !isLetters(p.State)) {
		return invalidf("state", "must be a two-letter state code, got %q", p.State)
	}
	if err := p.Housing.Validate(); err != nil {
		return err
	}
	if err := p.HealthInsurance.Validate(); err != nil {
		return err
	}
	if err := p.Car.Validate(); err != nil {
		return err
	}
	return p.Expenses.Validate()
}
