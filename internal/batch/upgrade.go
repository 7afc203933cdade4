package batch

import (
	"context"
	"fmt"

	"github.com/roach88/evolve/internal/chain"
	"github.com/roach88/evolve/internal/store"
)

// UpgradeOption configures Upgrade.
type UpgradeOption func(*upgradeConfig)

type upgradeConfig struct {
	dryRun      bool
	stopOnError bool
}

// WithDryRun computes the upgrade without writing anything.
func WithDryRun() UpgradeOption {
	return func(c *upgradeConfig) { c.dryRun = true }
}

// WithStopOnError stops at the first failing document.
func WithStopOnError() UpgradeOption {
	return func(c *upgradeConfig) { c.stopOnError = true }
}

// Failure records one document that could not be upgraded.
type Failure struct {
	ID    string `json:"id"`
	Tag   string `json:"tag"`
	Error string `json:"error"`
	Err   error  `json:"-"` // decode, migration or store error
}

// Result is the outcome of Upgrade.
type Result struct {
	Kind     string    `json:"kind"`
	DryRun   bool      `json:"dry_run"`
	Scanned  int       `json:"scanned"`
	Current  int       `json:"current"`
	Upgraded int       `json:"upgraded"`
	Failed   int       `json:"failed"`
	Failures []Failure `json:"failures"`
}

// Upgrade rewrites every stale document of kind at the chain's current
// version. Per-document failures are collected in the Result; the returned
// error is reserved for listing failures, cancellation and WithStopOnError.
//
// Cancellation is checked between documents; the partial Result is returned
// together with the context's error.
func Upgrade[D any](ctx context.Context, m *Migrator, kind string, c *chain.Chain[D], opts ...UpgradeOption) (Result, error) {
	var cfg upgradeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	res := Result{Kind: kind, DryRun: cfg.dryRun, Failures: []Failure{}}
	log := m.log.With("kind", kind, "chain", c.Name(), "dry_run", cfg.dryRun)

	docs, err := m.docs.List(ctx, kind)
	if err != nil {
		log.Error("listing documents failed", "error", err)
		return res, fmt.Errorf("upgrade %s: %w", kind, err)
	}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Scanned++

		if c.IsCurrent(doc.Tag) {
			res.Current++
			continue
		}

		payload, err := upgradeOne(c, doc)
		if err == nil && !cfg.dryRun {
			err = m.docs.Replace(ctx, doc.ID, doc.Tag, c.Current(), payload)
		}
		if err != nil {
			res.Failed++
			res.Failures = append(res.Failures, Failure{ID: doc.ID, Tag: doc.Tag, Error: err.Error(), Err: err})
			log.Warn("document upgrade failed", "id", doc.ID, "tag", doc.Tag, "error", err)
			if cfg.stopOnError {
				log.Error("upgrade stopped", "id", doc.ID, "failed", res.Failed)
				return res, fmt.Errorf("upgrade %s: document %q: %w", kind, doc.ID, err)
			}
			continue
		}

		res.Upgraded++
		log.Debug("document upgraded", "id", doc.ID, "from", doc.Tag, "to", c.Current())
	}

	log.Info("upgrade finished",
		"scanned", res.Scanned,
		"current", res.Current,
		"upgraded", res.Upgraded,
		"failed", res.Failed,
	)
	return res, nil
}

func upgradeOne[D any](c *chain.Chain[D], doc store.Document) ([]byte, error) {
	rep, err := c.Decode(doc.Tag, doc.Payload)
	if err != nil {
		return nil, err
	}
	d, err := c.Migrate(rep)
	if err != nil {
		return nil, fmt.Errorf("migrate from %q: %w", doc.Tag, err)
	}
	return c.Encode(c.Project(d))
}
