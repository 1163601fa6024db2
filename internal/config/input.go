package config

import (
	"fmt"
	"os"
	"time"

	"github.com/lifemarket/lifemarket/internal/domain"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of scenario configuration files. The evaluation
// date used for age-based timeline resolution is an injected collaborator so
// that parsing identical input is deterministic under test; by default it is
// the system clock.
type InputParser struct {
	Now func() time.Time
}

// NewInputParser creates a new input parser using the system clock.
func NewInputParser() *InputParser {
	return &InputParser{Now: time.Now}
}

// LoadFromFile loads a scenario configuration from a YAML file and validates
// it, resolving the global timeline.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	return ip.LoadFromFileWithProfile(filename, nil)
}

// LoadFromFileWithProfile loads a scenario configuration and fills its gaps
// from a stored user profile before validation. A nil profile skips the merge.
func (ip *InputParser) LoadFromFileWithProfile(filename string, profile *domain.UserProfile) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	// Decode over seeded decimal defaults; absent keys keep them. Enum and
	// string defaults are applied later by Resolve so the profile merge can
	// tell "absent" from "explicitly set".
	config := domain.Configuration{
		Global: domain.GlobalInputs{
			AnnualDiscountRate: domain.DefaultAnnualDiscountRate,
			AnnualDeflatorRate: domain.DefaultAnnualDeflatorRate,
		},
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ip.ApplyProfile(&config, profile)

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration resolves the global timeline and validates every
// scenario. On success the configuration's global window is fully resolved.
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if config.Global.SchemaVersion != "" && config.Global.SchemaVersion != domain.SchemaVersion {
		fmt.Fprintf(os.Stderr, "Warning: scenario schema version %s does not match current version %s\n",
			config.Global.SchemaVersion, domain.SchemaVersion)
	}

	if err := config.Global.Resolve(ip.Now()); err != nil {
		return fmt.Errorf("global inputs validation failed: %w", err)
	}

	if len(config.Scenarios) == 0 {
		return fmt.Errorf("no scenarios provided")
	}
	for i := range config.Scenarios {
		if err := ip.validateScenario(&config.Scenarios[i]); err != nil {
			return fmt.Errorf("scenario %d validation failed: %w", i, err)
		}
	}
	return nil
}

func (ip *InputParser) validateScenario(scenario *domain.Scenario) error {
	if scenario.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if scenario.Rent != nil {
		if err := scenario.Rent.Validate(); err != nil {
			return fmt.Errorf("rent inputs validation failed: %w", err)
		}
	}
	return nil
}

// ApplyProfile fills configuration gaps from a stored user profile. Scenario
// values always win; the profile only supplies defaults: birth date, filing
// status and state into the global inputs, and the housing payment into any
// rent module missing a base rent.
func (ip *InputParser) ApplyProfile(config *domain.Configuration, profile *domain.UserProfile) {
	if profile == nil {
		return
	}
	g := &config.Global
	if g.BirthDate == nil && profile.BirthDate != nil {
		bd := *profile.BirthDate
		g.BirthDate = &bd
	}
	if g.FilingStatus == "" && profile.FilingStatus != "" {
		g.FilingStatus = profile.FilingStatus
	}
	if g.State == "" && profile.State != "" {
		g.State = profile.State
	}

	if profile.Housing.HousingKind != domain.HousingRent || profile.Housing.HousingPaymentMonthly == nil {
		return
	}
	for i := range config.Scenarios {
		rent := config.Scenarios[i].Rent
		if rent != nil && rent.BaseMonthlyRent.IsZero() {
			rent.BaseMonthlyRent = *profile.Housing.HousingPaymentMonthly
		}
	}
}
