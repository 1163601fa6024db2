package domain

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Rate kind tags. The tag is the discriminator: serialized rate specs carry
// exactly one of these in their "kind" field and decode into exactly one shape.
const (
	RateKindValue    = "value"
	RateKindSchedule = "schedule"
	RateKindProvider = "provider"
)

// Rate is the closed set of growth-rate shapes. A rate is either a constant
// annual value, an explicit per-year schedule, or a deferred lookup against an
// external provider. Expansion into a dense per-year series happens in the
// rates package, not here.
type Rate interface {
	Kind() string
	Validate() error
}

// RateValue is a constant annual growth rate expressed as a decimal
// (0.03 = 3% per year).
type RateValue struct {
	Annual decimal.Decimal `yaml:"annual" json:"annual"`
}

func (r *RateValue) Kind() string { return RateKindValue }

func (r *RateValue) Validate() error {
	if r.Annual.LessThan(decimal.NewFromFloat(-1.0)) || r.Annual.GreaterThan(decimal.NewFromFloat(2.0)) {
		return invalidf("annual", "annual growth rate must be between -1.0 and 2.0, got %s", r.Annual)
	}
	return nil
}

// RateSchedule lists explicit growth rates for individual calendar years.
// Years not present fall back to the resolver's schedule policy.
type RateSchedule struct {
	ByYear map[int]decimal.Decimal `yaml:"by_year" json:"by_year"`
}

func (r *RateSchedule) Kind() string { return RateKindSchedule }

func (r *RateSchedule) Validate() error {
	if len(r.ByYear) == 0 {
		return invalidf("by_year", "schedule must list at least one year")
	}
	for year, rate := range r.ByYear {
		if rate.LessThan(decimal.NewFromFloat(-1.0)) || rate.GreaterThan(decimal.NewFromFloat(2.0)) {
			return invalidf("by_year", "rate for year %d must be between -1.0 and 2.0, got %s", year, rate)
		}
	}
	return nil
}

// RateProvider defers the rate to an external source, identified by name plus
// provider-specific parameters. Sources are resolved by the rates package
// against its registered providers.
type RateProvider struct {
	Source string         `yaml:"source" json:"source"`
	Params map[string]any `yaml:"params,omitempty" json:"params,omitempty"`
}

func (r *RateProvider) Kind() string { return RateKindProvider }

func (r *RateProvider) Validate() error {
	if r.Source == "" {
		return invalidf("source", "provider source is required")
	}
	return nil
}

// rateConstructors maps the discriminator tag to its shape. Decoding consults
// this table; a tag with no entry is rejected rather than coerced.
var rateConstructors = map[string]func() Rate{
	RateKindValue:    func() Rate { return &RateValue{} },
	RateKindSchedule: func() Rate { return &RateSchedule{} },
	RateKindProvider: func() Rate { return &RateProvider{} },
}

// RateSpec wraps one Rate shape for embedding in model structs. The zero value
// (no shape) is permitted at the struct level so that owners can apply their
// own defaults; Validate rejects it.
type RateSpec struct {
	Rate Rate
}

// FixedRate builds a constant-rate spec.
func FixedRate(annual float64) RateSpec {
	return RateSpec{Rate: &RateValue{Annual: decimal.NewFromFloat(annual)}}
}

// ScheduledRate builds a per-year schedule spec.
func ScheduledRate(byYear map[int]decimal.Decimal) RateSpec {
	return RateSpec{Rate: &RateSchedule{ByYear: byYear}}
}

// ProviderRate builds a provider-backed spec.
func ProviderRate(source string, params map[string]any) RateSpec {
	return RateSpec{Rate: &RateProvider{Source: source, Params: params}}
}

// IsZero reports whether no shape has been set.
func (s RateSpec) IsZero() bool { return s.Rate == nil }

func (s RateSpec) Validate() error {
	if s.Rate == nil {
		return invalidf("kind", "rate spec is required")
	}
	return s.Rate.Validate()
}

type rateProbe struct {
	Kind string `yaml:"kind" json:"kind"`
}

func (s *RateSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!null" {
		s.Rate = nil
		return nil
	}
	var probe rateProbe
	if err := value.Decode(&probe); err != nil {
		return fmt.Errorf("failed to read rate kind: %w", err)
	}
	ctor, ok := rateConstructors[probe.Kind]
	if !ok {
		return fmt.Errorf("unknown rate kind %q (want value, schedule or provider)", probe.Kind)
	}
	rate := ctor()
	if err := value.Decode(rate); err != nil {
		return fmt.Errorf("failed to parse %s rate: %w", probe.Kind, err)
	}
	s.Rate = rate
	return nil
}

func (s RateSpec) MarshalYAML() (any, error) {
	switch r := s.Rate.(type) {
	case *RateValue:
		return struct {
			Kind string `yaml:"kind"`
			RateValue `yaml:",inline"`
		}{RateKindValue, *r}, nil
	case *RateSchedule:
		return struct {
			Kind string `yaml:"kind"`
			RateSchedule `yaml:",inline"`
		}{RateKindSchedule, *r}, nil
	case *RateProvider:
		return struct {
			Kind string `yaml:"kind"`
			RateProvider `yaml:",inline"`
		}{RateKindProvider, *r}, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown rate shape %T", s.Rate)
	}
}

func (s *RateSpec) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		s.Rate = nil
		return nil
	}
	var probe rateProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("failed to read rate kind: %w", err)
	}
	ctor, ok := rateConstructors[probe.Kind]
	if !ok {
		return fmt.Errorf("unknown rate kind %q (want value, schedule or provider)", probe.Kind)
	}
	rate := ctor()
	if err := json.Unmarshal(data, rate); err != nil {
		return fmt.Errorf("failed to parse %s rate: %w", probe.Kind, err)
	}
	s.Rate = rate
	return nil
}

func (s RateSpec) MarshalJSON() ([]byte, error) {
	switch r := s.Rate.(type) {
	case *RateValue:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			RateValue
		}{RateKindValue, *r})
	case *RateSchedule:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			RateSchedule
		}{RateKindSchedule, *r})
	case *RateProvider:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			RateProvider
		}{RateKindProvider, *r})
	case nil:
		return []byte("null"), nil
	default:
		return nil, fmt.Errorf("unknown rate shape %T", s.Rate)
	}
}
