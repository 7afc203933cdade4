// Package batch analyzes and upgrades stored documents in bulk.
//
// A document is stale when its stored tag is not the chain's current tag.
// Upgrade decodes each stale document at its stored version, migrates it to
// the domain type, projects it back to the current version and replaces the
// stored payload. Documents that fail to decode or migrate are reported and
// left untouched.
package batch

import (
	"context"
	"fmt"
	"sort"

	"github.com/roach88/evolve/internal/chain"
	"github.com/roach88/evolve/internal/logging"
	"github.com/roach88/evolve/internal/store"
)

// Documents is the storage the migrator works against. *store.Store
// implements it.
type Documents interface {
	Insert(ctx context.Context, kind, tag string, payload []byte) (store.Document, error)
	Get(ctx context.Context, id string) (store.Document, error)
	List(ctx context.Context, kind string) ([]store.Document, error)
	CountByTag(ctx context.Context, kind string) (map[string]int, error)
	Replace(ctx context.Context, id, fromTag, toTag string, payload []byte) error
}

// Migrator runs batch operations over one document store.
type Migrator struct {
	docs Documents
	log  *logging.Logger
}

// New creates a Migrator. A nil logger discards output.
func New(docs Documents, log *logging.Logger) *Migrator {
	if log == nil {
		log = logging.Nop()
	}
	return &Migrator{docs: docs, log: log}
}

// TagCount is the number of documents stored at one tag.
type TagCount struct {
	Tag     string `json:"tag"`
	Count   int    `json:"count"`
	Current bool   `json:"current"`
}

// Analysis summarizes the version distribution of one kind.
type Analysis struct {
	Kind       string     `json:"kind"`
	CurrentTag string     `json:"current_tag"`
	Total      int        `json:"total"`
	Current    int        `json:"current"`
	Stale      int        `json:"stale"`
	ByTag      []TagCount `json:"by_tag"`
}

// NeedsMigration reports whether any document is stale.
func (a Analysis) NeedsMigration() bool { return a.Stale > 0 }

// Analyze counts the documents of kind per tag against currentTag.
func (m *Migrator) Analyze(ctx context.Context, kind, currentTag string) (Analysis, error) {
	counts, err := m.docs.CountByTag(ctx, kind)
	if err != nil {
		return Analysis{}, fmt.Errorf("analyze %s: %w", kind, err)
	}

	a := Analysis{Kind: kind, CurrentTag: currentTag, ByTag: []TagCount{}}
	for tag, n := range counts {
		tc := TagCount{Tag: tag, Count: n, Current: tag == currentTag}
		a.ByTag = append(a.ByTag, tc)
		a.Total += n
		if tc.Current {
			a.Current += n
		} else {
			a.Stale += n
		}
	}
	sort.Slice(a.ByTag, func(i, j int) bool { return a.ByTag[i].Tag < a.ByTag[j].Tag })

	m.log.Debug("analyzed documents", "kind", kind, "total", a.Total, "stale", a.Stale)
	return a, nil
}

// Save projects d to the current version and stores it as a new document.
func Save[D any](ctx context.Context, m *Migrator, kind string, c *chain.Chain[D], d D) (store.Document, error) {
	rep := c.Project(d)
	payload, err := c.Encode(rep)
	if err != nil {
		return store.Document{}, fmt.Errorf("save %s: %w", kind, err)
	}
	doc, err := m.docs.Insert(ctx, kind, rep.Tag(), payload)
	if err != nil {
		return store.Document{}, fmt.Errorf("save %s: %w", kind, err)
	}
	return doc, nil
}

// Load reads a document at its stored version and migrates it to D.
func Load[D any](ctx context.Context, m *Migrator, c *chain.Chain[D], id string) (D, error) {
	var zero D
	doc, err := m.docs.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	rep, err := c.Decode(doc.Tag, doc.Payload)
	if err != nil {
		return zero, fmt.Errorf("load %q: %w", id, err)
	}
	d, err := c.Migrate(rep)
	if err != nil {
		return zero, fmt.Errorf("load %q: migrate from %q: %w", id, doc.Tag, err)
	}
	return d, nil
}
