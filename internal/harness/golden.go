package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/evolve/internal/chain"
	"github.com/roach88/evolve/internal/wire"
)

// Snapshot returns the canonical JSON form of the result used for golden
// comparison. Failure messages are left out; Pass records them.
func (r *Result) Snapshot() ([]byte, error) {
	cases := make(wire.Array, len(r.Cases))
	for i, cr := range r.Cases {
		obj := wire.Object{
			"name": wire.String(cr.Name),
			"pass": wire.Bool(cr.Pass),
		}
		if cr.Tag != "" {
			obj["tag"] = wire.String(cr.Tag)
			obj["current"] = wire.Bool(cr.Current)
		}
		if cr.Domain != nil {
			obj["domain"] = cr.Domain
		}
		if cr.Encoded != "" {
			obj["encoded"] = wire.String(cr.Encoded)
		}
		if cr.Error != "" {
			obj["error"] = wire.String(cr.Error)
		}
		cases[i] = obj
	}

	return wire.MarshalCanonical(wire.Object{
		"scenario": wire.String(r.Scenario),
		"pass":     wire.Bool(r.Pass),
		"cases":    cases,
	})
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// Returns error if the scenario cannot run. Test failure (via goldie)
// occurs if the snapshot doesn't match the golden file.
func RunWithGolden[D any](t *testing.T, c *chain.Chain[D], scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(c, scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's snapshot against a golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	snapshot, err := result.Snapshot()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, snapshot)
	return nil
}
