package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixed evaluation date used across timeline tests.
var evalDate = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

func datePtr(t time.Time) *time.Time { return &t }
func intPtr(v int) *int              { return &v }
func floatPtr(v float64) *float64    { return &v }

func validDateModeInputs() GlobalInputs {
	g := DefaultGlobalInputs()
	g.TimelineMode = TimelineDate
	g.StartDate = datePtr(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	g.EndDate = datePtr(time.Date(2036, 6, 1, 0, 0, 0, 0, time.UTC))
	return g
}

func TestDateModeResolution(t *testing.T) {
	g := validDateModeInputs()
	require.NoError(t, g.Resolve(evalDate))
	assert.True(t, g.Resolved())
	assert.True(t, g.StartDate.Before(*g.EndDate))
}

func TestDateModeRequiresBothDates(t *testing.T) {
	g := validDateModeInputs()
	g.EndDate = nil
	err := g.Resolve(evalDate)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start_date and end_date")
	assert.False(t, g.Resolved())
}

func TestDateModeRejectsInvertedWindow(t *testing.T) {
	g := validDateModeInputs()
	g.StartDate, g.EndDate = g.EndDate, g.StartDate
	err := g.Resolve(evalDate)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end_date must be later")

	// Equal dates are rejected too: the window must be non-empty.
	g = validDateModeInputs()
	g.EndDate = datePtr(*g.StartDate)
	assert.Error(t, g.Resolve(evalDate))
}

func TestAgeModeDerivesCurrentAgeFromBirthDate(t *testing.T) {
	g := DefaultGlobalInputs()
	g.TimelineMode = TimelineAge
	g.BirthDate = datePtr(time.Date(2001, 3, 15, 0, 0, 0, 0, time.UTC))
	g.StartAgeYears = intPtr(30)
	g.EndOption = EndRetirement

	require.NoError(t, g.Resolve(evalDate))
	require.NotNil(t, g.CurrentAge)
	assert.InDelta(t, 25.0, *g.CurrentAge, 1e-9)

	// Start age 30 with current age 25 puts the start 5 whole years out,
	// and the retirement preset pins the end at age 67.
	assert.Equal(t, evalDate.AddDate(5, 0, 0), *g.StartDate)
	assert.Equal(t, evalDate.AddDate(42, 0, 0), *g.EndDate)
	assert.True(t, g.StartDate.Before(*g.EndDate))
}

func TestAgeModeCountsWholeMonthsOnly(t *testing.T) {
	// Five days short of the birthday: the month is not complete yet.
	g := DefaultGlobalInputs()
	g.TimelineMode = TimelineAge
	g.BirthDate = datePtr(time.Date(2001, 3, 20, 0, 0, 0, 0, time.UTC))
	g.StartAgeYears = intPtr(30)

	require.NoError(t, g.Resolve(evalDate))
	require.NotNil(t, g.CurrentAge)
	assert.InDelta(t, 24.0+11.0/12.0, *g.CurrentAge, 1e-9)
}

func TestAgeModeYearsMonthsCombination(t *testing.T) {
	g := DefaultGlobalInputs()
	g.TimelineMode = TimelineAge
	g.BirthDate = datePtr(time.Date(2001, 3, 15, 0, 0, 0, 0, time.UTC))
	g.CurrentAge = floatPtr(25.0)
	g.StartAgeYears = intPtr(30)
	g.StartAgeMonths = intPtr(6)
	g.EndAgeYears = intPtr(40)
	g.EndAgeMonths = intPtr(0)

	require.NoError(t, g.Resolve(evalDate))
	// 5.5 years out: 5 whole years, fractional remainder becomes 6 months.
	assert.Equal(t, evalDate.AddDate(5, 6, 0), *g.StartDate)
	assert.Equal(t, evalDate.AddDate(15, 0, 0), *g.EndDate)
}

func TestAgeModeLifespanPreset(t *testing.T) {
	g := DefaultGlobalInputs()
	g.TimelineMode = TimelineAge
	g.BirthDate = datePtr(time.Date(2001, 3, 15, 0, 0, 0, 0, time.UTC))
	g.CurrentAge = floatPtr(25.0)
	g.EndOption = EndLifespan

	require.NoError(t, g.Resolve(evalDate))
	// Start falls back to the current age, end to the lifespan preset of 80.
	assert.Equal(t, evalDate, *g.StartDate)
	assert.Equal(t, evalDate.AddDate(55, 0, 0), *g.EndDate)
}

func TestAgeModeRequiresBirthDate(t *testing.T) {
	g := DefaultGlobalInputs()
	g.TimelineMode = TimelineAge
	g.CurrentAge = floatPtr(25.0)
	g.StartAgeYears = intPtr(30)

	err := g.Resolve(evalDate)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "age-based timeline requires")
}

func TestAgeModeStartBeforeCurrentAgeFails(t *testing.T) {
	g := DefaultGlobalInputs()
	g.TimelineMode = TimelineAge
	g.BirthDate = datePtr(time.Date(2001, 3, 15, 0, 0, 0, 0, time.UTC))
	g.CurrentAge = floatPtr(25.0)
	g.StartAgeYears = intPtr(22)

	err := g.Resolve(evalDate)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be less than the current age")
}

func TestAgeModeStartMustPrecedeEnd(t *testing.T) {
	g := DefaultGlobalInputs()
	g.TimelineMode = TimelineAge
	g.BirthDate = datePtr(time.Date(2001, 3, 15, 0, 0, 0, 0, time.UTC))
	g.CurrentAge = floatPtr(25.0)
	g.StartAgeYears = intPtr(40)
	g.EndAgeYears = intPtr(40)

	err := g.Resolve(evalDate)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "less than the ending age")
}

func TestFieldValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GlobalInputs)
		want   string
	}{
		{"bad timeline mode", func(g *GlobalInputs) { g.TimelineMode = "forever" }, "timeline_mode"},
		{"bad end option", func(g *GlobalInputs) { g.EndOption = "never" }, "end_option"},
		{"bad filing status", func(g *GlobalInputs) { g.FilingStatus = "divorced" }, "filing_status"},
		{"bad state code", func(g *GlobalInputs) { g.State = "N" }, "state"},
		{"numeric state code", func(g *GlobalInputs) { g.State = "N1" }, "state"},
		{"negative current age", func(g *GlobalInputs) { g.CurrentAge = floatPtr(-1) }, "current_age"},
		{"months out of range", func(g *GlobalInputs) { g.StartAgeMonths = intPtr(12) }, "start_age_months"},
		{"years out of range", func(g *GlobalInputs) { g.EndAgeYears = intPtr(130) }, "end_age_years"},
		{"discount rate too high", func(g *GlobalInputs) {
			g.AnnualDiscountRate = decimal.NewFromFloat(0.8)
		}, "annual_discount_rate"},
		{"negative discount rate", func(g *GlobalInputs) {
			g.AnnualDiscountRate = decimal.NewFromFloat(-0.01)
		}, "annual_discount_rate"},
		{"deflator rate out of range", func(g *GlobalInputs) {
			g.AnnualDeflatorRate = decimal.NewFromFloat(0.31)
		}, "annual_deflator_rate"},
		{"bad deflator mode", func(g *GlobalInputs) { g.ReportingDeflator = "cpi" }, "reporting_deflator"},
		{"provider deflator without source", func(g *GlobalInputs) {
			g.ReportingDeflator = DeflatorProvider
		}, "provider_source_deflator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := validDateModeInputs()
			tt.mutate(&g)
			err := g.Resolve(evalDate)
			require.Error(t, err)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.want, vErr.Field)
		})
	}
}

func TestResolveAppliesDefaults(t *testing.T) {
	g := GlobalInputs{
		StartDate:          datePtr(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)),
		EndDate:            datePtr(time.Date(2036, 6, 1, 0, 0, 0, 0, time.UTC)),
		AnnualDiscountRate: DefaultAnnualDiscountRate,
	}
	require.NoError(t, g.Resolve(evalDate))
	assert.Equal(t, SchemaVersion, g.SchemaVersion)
	assert.Equal(t, TimelineDate, g.TimelineMode)
	assert.Equal(t, FilingSingle, g.FilingStatus)
	assert.Equal(t, "NY", g.State)
	assert.Equal(t, DeflatorNone, g.ReportingDeflator)
}
