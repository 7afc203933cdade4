package harness

import (
	"fmt"

	"github.com/roach88/evolve/internal/wire"
)

// CaseResult is the outcome of one case.
type CaseResult struct {
	Name     string     `json:"name"`
	Pass     bool       `json:"pass"`
	Tag      string     `json:"tag,omitempty"`
	Current  bool       `json:"current"`
	Domain   wire.Value `json:"-"`
	Encoded  string     `json:"encoded,omitempty"`
	Error    string     `json:"error,omitempty"`
	Failures []string   `json:"failures,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	Scenario string `json:"scenario"`

	// Pass is true if every case met its expectations.
	Pass bool `json:"pass"`

	Cases []CaseResult `json:"cases"`

	// Errors holds one line per failed expectation, prefixed by the case name.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(scenario string) *Result {
	return &Result{
		Scenario: scenario,
		Pass:     true,
		Cases:    []CaseResult{},
		Errors:   []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddCase records a case outcome, folding its failures into the result.
func (r *Result) AddCase(cr CaseResult) {
	cr.Pass = len(cr.Failures) == 0
	for _, f := range cr.Failures {
		r.AddError(fmt.Sprintf("case %q: %s", cr.Name, f))
	}
	r.Cases = append(r.Cases, cr)
}
