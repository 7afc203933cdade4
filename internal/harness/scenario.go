package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a set of documents run through one chain, each with its
// expected outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Chain is the name of the chain the scenario targets.
	Chain string `yaml:"chain"`

	// Cases are run in order, each independently of the others.
	Cases []Case `yaml:"cases"`
}

// Case is one input document and its expected outcome.
type Case struct {
	Name   string `yaml:"name"`
	Input  string `yaml:"input"`
	Expect Expect `yaml:"expect"`
}

// Expect specifies the outcome of a case. Unset fields are not checked.
type Expect struct {
	// Tag is the version tag read from the input.
	Tag string `yaml:"tag,omitempty"`

	// Current reports whether the input is already at the current version.
	Current *bool `yaml:"current,omitempty"`

	// Domain is a subset match against the JSON form of the migrated value.
	Domain map[string]any `yaml:"domain,omitempty"`

	// Encoded is the exact document produced by projecting the migrated
	// value back to the current version.
	Encoded string `yaml:"encoded,omitempty"`

	// Error is a substring of the expected decode or migration error.
	Error string `yaml:"error,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML held in memory.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Chain == "" {
		return fmt.Errorf("chain is required")
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate case name %q", i, c.Name)
		}
		seen[c.Name] = true

		if c.Input == "" {
			return fmt.Errorf("cases[%d]: input is required", i)
		}
		if c.Expect.Error != "" && (c.Expect.Domain != nil || c.Expect.Encoded != "") {
			return fmt.Errorf("cases[%d].expect: error excludes domain and encoded", i)
		}
	}

	return nil
}
