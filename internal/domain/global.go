package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// SchemaVersion is compared against stored scenarios so downstream code can
// warn about configs written by an older schema. Mismatches are surfaced, not
// rejected.
const SchemaVersion = "0.1.0"

// FilingStatus is the federal tax filing status.
type FilingStatus string

const (
	FilingSingle  FilingStatus = "single"
	FilingMarried FilingStatus = "married"
)

// TimelineMode selects how the simulation window is specified: explicit
// calendar dates, or ages relative to the birth date.
type TimelineMode string

const (
	TimelineDate TimelineMode = "date"
	TimelineAge  TimelineMode = "age"
)

// EndOption is the preset used when no explicit end age is given.
type EndOption string

const (
	EndRetirement EndOption = "retirement" // age 67
	EndLifespan   EndOption = "lifespan"   // age 80
)

// DeflatorMode controls how nominal outputs are converted to real dollars for
// display. It never affects the underlying calculations.
type DeflatorMode string

const (
	DeflatorNone      DeflatorMode = "none"
	DeflatorFixedRate DeflatorMode = "fixed_rate"
	DeflatorProvider  DeflatorMode = "provider"
)

// Preset end ages used when end_age is not supplied.
const (
	retirementEndAge = 67.0
	lifespanEndAge   = 80.0
)

// GlobalInputs holds the simulation-wide settings: the timeline window, tax
// context and reporting deflator. A GlobalInputs is assembled raw (from YAML or
// profile defaults) and then resolved exactly once via Resolve, which validates
// every field, derives the missing age information and fills StartDate/EndDate.
// After a successful Resolve the value is treated as immutable.
type GlobalInputs struct {
	SchemaVersion string `yaml:"schema_version,omitempty" json:"schema_version,omitempty"`

	// Timeline identity. CurrentAge is derived from BirthDate when absent.
	BirthDate    *time.Time   `yaml:"birth_date,omitempty" json:"birth_date,omitempty"`
	CurrentAge   *float64     `yaml:"current_age,omitempty" json:"current_age,omitempty"`
	TimelineMode TimelineMode `yaml:"timeline_mode,omitempty" json:"timeline_mode,omitempty"`

	// Age-based window. Nil start falls back to CurrentAge, nil end falls
	// back to the EndOption preset.
	StartAgeYears  *int      `yaml:"start_age_years,omitempty" json:"start_age_years,omitempty"`
	StartAgeMonths *int      `yaml:"start_age_months,omitempty" json:"start_age_months,omitempty"`
	EndAgeYears    *int      `yaml:"end_age_years,omitempty" json:"end_age_years,omitempty"`
	EndAgeMonths   *int      `yaml:"end_age_months,omitempty" json:"end_age_months,omitempty"`
	EndOption      EndOption `yaml:"end_option,omitempty" json:"end_option,omitempty"`

	// Resolved window. Supplied directly in date mode, computed in age mode.
	StartDate *time.Time `yaml:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate   *time.Time `yaml:"end_date,omitempty" json:"end_date,omitempty"`

	// Tax and display context.
	FilingStatus       FilingStatus    `yaml:"filing_status,omitempty" json:"filing_status,omitempty"`
	State              string          `yaml:"state,omitempty" json:"state,omitempty"`
	AnnualDiscountRate decimal.Decimal `yaml:"annual_discount_rate" json:"annual_discount_rate"`

	// Reporting deflator. AnnualDeflatorRate applies only in fixed_rate mode,
	// ProviderSourceDeflator only in provider mode.
	ReportingDeflator      DeflatorMode    `yaml:"reporting_deflator,omitempty" json:"reporting_deflator,omitempty"`
	AnnualDeflatorRate     decimal.Decimal `yaml:"annual_deflator_rate" json:"annual_deflator_rate"`
	ProviderSourceDeflator string          `yaml:"provider_source_deflator,omitempty" json:"provider_source_deflator,omitempty"`

	resolved bool
}

// Schema defaults for the decimal-valued settings. Decimals cannot be
// constants, so these are shared values; treat them as read-only.
var (
	DefaultAnnualDiscountRate = decimal.NewFromFloat(0.025)
	DefaultAnnualDeflatorRate = decimal.NewFromFloat(0.025)
)

// DefaultGlobalInputs returns a GlobalInputs carrying the schema defaults.
// The timeline window must still be supplied before Resolve.
func DefaultGlobalInputs() GlobalInputs {
	return GlobalInputs{
		SchemaVersion:      SchemaVersion,
		TimelineMode:       TimelineDate,
		EndOption:          EndRetirement,
		FilingStatus:       FilingSingle,
		State:              "NY",
		AnnualDiscountRate: DefaultAnnualDiscountRate,
		ReportingDeflator:  DeflatorNone,
		AnnualDeflatorRate: DefaultAnnualDeflatorRate,
	}
}

// Resolved reports whether Resolve has completed successfully.
func (g *GlobalInputs) Resolved() bool { return g.resolved }

// Resolve validates all fields and turns the configured window into concrete
// start and end dates. The evaluation date is passed explicitly so that
// age-based resolution is deterministic and testable; callers wanting
// wall-clock behavior pass time.Now(). Resolve runs individual field checks
// first, then the timeline resolution, and finally the universal ordering
// check. It either completes the value or fails with a ValidationError; it is
// never left half-resolved.
func (g *GlobalInputs) Resolve(now time.Time) error {
	g.resolved = false
	g.applyDefaults()

	if err := g.validateFields(); err != nil {
		return err
	}

	today := midnightUTC(now)

	// Derive the current age from the birth date when it was not supplied.
	// This is the only place wall-clock time enters the model.
	if g.BirthDate != nil && g.CurrentAge == nil {
		years, months := wholeYearsMonths(*g.BirthDate, today)
		age := float64(years) + float64(months)/12.0
		g.CurrentAge = &age
	}

	switch g.TimelineMode {
	case TimelineAge:
		if err := g.resolveAgeWindow(today); err != nil {
			return err
		}
	case TimelineDate:
		if g.StartDate == nil || g.EndDate == nil {
			return invalidf("timeline_mode", "date-based timeline requires both start_date and end_date")
		}
	}

	if !g.StartDate.Before(*g.EndDate) {
		return invalidf("end_date", "end_date must be later than start_date")
	}

	g.resolved = true
	return nil
}

func (g *GlobalInputs) applyDefaults() {
	def := DefaultGlobalInputs()
	if g.SchemaVersion == "" {
		g.SchemaVersion = def.SchemaVersion
	}
	if g.TimelineMode == "" {
		g.TimelineMode = def.TimelineMode
	}
	if g.EndOption == "" {
		g.EndOption = def.EndOption
	}
	if g.FilingStatus == "" {
		g.FilingStatus = def.FilingStatus
	}
	if g.State == "" {
		g.State = def.State
	}
	if g.ReportingDeflator == "" {
		g.ReportingDeflator = def.ReportingDeflator
	}
}

func (g *GlobalInputs) validateFields() error {
	switch g.TimelineMode {
	case TimelineDate, TimelineAge:
	default:
		return invalidf("timeline_mode", "must be 'date' or 'age', got %q", g.TimelineMode)
	}
	switch g.EndOption {
	case EndRetirement, EndLifespan:
	default:
		return invalidf("end_option", "must be 'retirement' or 'lifespan', got %q", g.EndOption)
	}
	switch g.FilingStatus {
	case FilingSingle, FilingMarried:
	default:
		return invalidf("filing_status", "must be 'single' or 'married', got %q", g.FilingStatus)
	}
	switch g.ReportingDeflator {
	case DeflatorNone, DeflatorFixedRate, DeflatorProvider:
	default:
		return invalidf("reporting_deflator", "must be 'none', 'fixed_rate' or 'provider', got %q", g.ReportingDeflator)
	}
	if g.ReportingDeflator == DeflatorProvider && g.ProviderSourceDeflator == "" {
		return invalidf("provider_source_deflator", "required when reporting_deflator is 'provider'")
	}

	if g.CurrentAge != nil && *g.CurrentAge < 0 {
		return invalidf("current_age", "cannot be negative")
	}
	if err := checkAgeYears("start_age_years", g.StartAgeYears); err != nil {
		return err
	}
	if err := checkAgeMonths("start_age_months", g.StartAgeMonths); err != nil {
		return err
	}
	if err := checkAgeYears("end_age_years", g.EndAgeYears); err != nil {
		return err
	}
	if err := checkAgeMonths("end_age_months", g.EndAgeMonths); err != nil {
		return err
	}

	if len(g.State) != 2 || !isLetters(g.State) {
		return invalidf("state", "must be a two-letter state code, got %q", g.State)
	}

	if g.AnnualDiscountRate.LessThan(decimal.Zero) || g.AnnualDiscountRate.GreaterThan(decimal.NewFromFloat(0.75)) {
		return invalidf("annual_discount_rate", "must be between 0 and 0.75, got %s", g.AnnualDiscountRate)
	}
	if g.AnnualDeflatorRate.LessThan(decimal.NewFromFloat(-0.3)) || g.AnnualDeflatorRate.GreaterThan(decimal.NewFromFloat(0.3)) {
		return invalidf("annual_deflator_rate", "must be between -0.3 and 0.3, got %s", g.AnnualDeflatorRate)
	}
	return nil
}

// resolveAgeWindow turns the age-based window into calendar dates anchored at
// today. Year counts are truncated and the fractional remainder becomes whole
// months (also truncated), so a 5.5-year offset lands 5 years 6 months out.
func (g *GlobalInputs) resolveAgeWindow(today time.Time) error {
	if g.BirthDate == nil || g.CurrentAge == nil {
		return invalidf("timeline_mode", "age-based timeline requires birth_date or current_age")
	}
	currentAge := *g.CurrentAge

	var actualStartAge float64
	switch {
	case g.StartAgeYears != nil && g.StartAgeMonths != nil:
		actualStartAge = float64(*g.StartAgeYears) + float64(*g.StartAgeMonths)/12.0
	case g.StartAgeYears != nil:
		actualStartAge = float64(*g.StartAgeYears)
	default:
		actualStartAge = currentAge
	}

	var actualEndAge float64
	switch {
	case g.EndAgeYears != nil && g.EndAgeMonths != nil:
		actualEndAge = float64(*g.EndAgeYears) + float64(*g.EndAgeMonths)/12.0
	case g.EndAgeYears != nil:
		actualEndAge = float64(*g.EndAgeYears)
	case g.EndOption == EndRetirement:
		actualEndAge = retirementEndAge
	default:
		actualEndAge = lifespanEndAge
	}

	if actualStartAge >= actualEndAge {
		return invalidf("start_age_years", "starting age must be less than the ending age")
	}
	if actualStartAge < currentAge {
		return invalidf("start_age_years", "starting age cannot be less than the current age")
	}

	start := addAgeOffset(today, actualStartAge-currentAge)
	end := addAgeOffset(today, actualEndAge-currentAge)
	g.StartDate = &start
	g.EndDate = &end
	return nil
}

// addAgeOffset advances a date by a fractional number of years, truncating the
// whole-year part and converting the remainder into whole months.
func addAgeOffset(from time.Time, years float64) time.Time {
	wholeYears := int(years)
	months := int((years - math.Trunc(years)) * 12)
	return from.AddDate(wholeYears, months, 0)
}

// wholeYearsMonths returns the whole calendar years and leftover whole months
// between two dates, counting a month as complete only once its day-of-month
// has been reached.
func wholeYearsMonths(from, to time.Time) (int, int) {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		return 0, 0
	}
	return months / 12, months % 12
}

func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func checkAgeYears(field string, v *int) error {
	if v != nil && (*v < 0 || *v > 120) {
		return invalidf(field, "must be between 0 and 120, got %d", *v)
	}
	return nil
}

func checkAgeMonths(field string, v *int) error {
	if v != nil && (*v < 0 || *v > 11) {
		return invalidf(field, "must be between 0 and 11, got %d", *v)
	}
	return nil
}

func isLetters(s string) bool {
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}
