package domain

// Scenario bundles the per-category module inputs for one simulation run.
// Module inputs are optional; a scenario with no rent block simply has no
// rental housing module.
type Scenario struct {
	Name string      `yaml:"name" json:"name"`
	Rent *RentInputs `yaml:"rent,omitempty" json:"rent,omitempty"`
}

// Configuration is the complete shape of a scenario file: the simulation-wide
// settings plus one or more scenarios to evaluate against them.
type Configuration struct {
	Global    GlobalInputs `yaml:"global" json:"global"`
	Scenarios []Scenario   `yaml:"scenarios" json:"scenarios"`
}
