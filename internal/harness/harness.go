package harness

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/evolve/internal/chain"
	"github.com/roach88/evolve/internal/wire"
)

// outcome is what a single input produced before expectations are applied.
type outcome struct {
	tag     string
	current bool
	domain  wire.Value
	encoded string
}

// Run executes every case of scenario against c and returns the result.
//
// Execution flow per case:
// 1. Decode the input through the chain's codec
// 2. Migrate to the domain type
// 3. Project back to the current version and encode
// 4. Compare each stage against the case's expectations
//
// A failed case does not stop the run. The only error returned is a
// scenario that targets a different chain.
func Run[D any](c *chain.Chain[D], scenario *Scenario) (*Result, error) {
	if scenario.Chain != c.Name() {
		return nil, fmt.Errorf("scenario %q targets chain %q, got %q", scenario.Name, scenario.Chain, c.Name())
	}

	result := NewResult(scenario.Name)
	for _, tc := range scenario.Cases {
		out, err := execute(c, []byte(tc.Input))

		cr := CaseResult{
			Name:     tc.Name,
			Tag:      out.tag,
			Current:  out.current,
			Domain:   out.domain,
			Encoded:  out.encoded,
			Failures: checkExpect(tc.Expect, out, err),
		}
		if err != nil {
			cr.Error = err.Error()
		}
		result.AddCase(cr)
	}
	return result, nil
}

func execute[D any](c *chain.Chain[D], input []byte) (outcome, error) {
	var out outcome

	rep, err := c.DecodeBytes(input)
	if err != nil {
		return out, err
	}
	out.tag, out.current = rep.Tag(), rep.IsCurrent()

	d, err := c.Migrate(rep)
	if err != nil {
		return out, err
	}

	raw, err := json.Marshal(d)
	if err != nil {
		return out, fmt.Errorf("marshal domain value: %w", err)
	}
	if out.domain, err = wire.Parse(raw); err != nil {
		return out, fmt.Errorf("parse domain value: %w", err)
	}

	encoded, err := c.Encode(c.Project(d))
	if err != nil {
		return out, err
	}
	out.encoded = string(encoded)
	return out, nil
}
