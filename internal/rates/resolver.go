// Package rates expands growth-rate specs into dense per-year series aligned
// to a simulation window. Fixed values repeat, schedules are filled per the
// resolver's fallback policy, and provider specs are resolved against the
// registered provider functions.
package rates

import (
	"fmt"
	"sort"

	"github.com/lifemarket/lifemarket/internal/domain"
	"github.com/shopspring/decimal"
)

// ProviderFunc fetches rates for a span of years from an external source.
// It must return an entry for every requested year.
type ProviderFunc func(source string, params map[string]any, years []int) (map[int]decimal.Decimal, error)

// Resolver turns a RateSpec into concrete annual rates. Provider-backed specs
// require a registered ProviderFunc for their source.
type Resolver struct {
	providers map[string]ProviderFunc
}

// NewResolver creates a resolver with no providers registered.
func NewResolver() *Resolver {
	return &Resolver{providers: make(map[string]ProviderFunc)}
}

// Register adds a provider under its source name, replacing any previous
// registration.
func (r *Resolver) Register(source string, fn ProviderFunc) {
	r.providers[source] = fn
}

// AnnualSeries expands spec into one rate per year over [firstYear, lastYear].
// Schedule years outside the spec's map take the nearest earlier scheduled
// value; years before the first entry take the earliest one.
func (r *Resolver) AnnualSeries(spec domain.RateSpec, firstYear, lastYear int) (map[int]decimal.Decimal, error) {
	if firstYear > lastYear {
		return nil, fmt.Errorf("first year %d is after last year %d", firstYear, lastYear)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	series := make(map[int]decimal.Decimal, lastYear-firstYear+1)
	switch rate := spec.Rate.(type) {
	case *domain.RateValue:
		for year := firstYear; year <= lastYear; year++ {
			series[year] = rate.Annual
		}

	case *domain.RateSchedule:
		years := make([]int, 0, len(rate.ByYear))
		for year := range rate.ByYear {
			years = append(years, year)
		}
		sort.Ints(years)
		for year := firstYear; year <= lastYear; year++ {
			series[year] = scheduleValueFor(rate.ByYear, years, year)
		}

	case *domain.RateProvider:
		fn, ok := r.providers[rate.Source]
		if !ok {
			return nil, fmt.Errorf("no rate provider registered for source %q", rate.Source)
		}
		want := make([]int, 0, lastYear-firstYear+1)
		for year := firstYear; year <= lastYear; year++ {
			want = append(want, year)
		}
		fetched, err := fn(rate.Source, rate.Params, want)
		if err != nil {
			return nil, fmt.Errorf("rate provider %q: %w", rate.Source, err)
		}
		for _, year := range want {
			v, ok := fetched[year]
			if !ok {
				return nil, fmt.Errorf("rate provider %q returned no rate for year %d", rate.Source, year)
			}
			series[year] = v
		}

	default:
		return nil, fmt.Errorf("unknown rate shape %T", spec.Rate)
	}
	return series, nil
}

// scheduleValueFor picks the rate for year from a sparse schedule: the value
// for the nearest scheduled year at or before it, clamped to the earliest
// entry for years before the schedule starts.
func scheduleValueFor(byYear map[int]decimal.Decimal, sorted []int, year int) decimal.Decimal {
	pick := sorted[0]
	for _, scheduled := range sorted {
		if scheduled > year {
			break
		}
		pick = scheduled
	}
	return byYear[pick]
}
