package chain

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/roach88/evolve/internal/codec"
)

// table is the variant table shared by a chain and every Tagged it produces.
type table struct {
	name     string
	entries  []Entry
	decoders []func(codec.Codec, []byte) (any, error)
	byTag    map[string]int
	byType   map[reflect.Type]int
	codec    codec.Codec
}

// Chain is a validated migration chain for domain type D.
type Chain[D any] struct {
	t           *table
	domain      reflect.Type
	edges       []Step // edges[i] converts version i+1 to version i+2; the last one yields D
	projection  Step
	mode        Mode
	transparent bool
}

// Option configures Define.
type Option func(*config)

type config struct {
	name        string
	mode        Mode
	codec       codec.Codec
	tagField    string
	transparent bool
}

// WithName names the representation in errors and descriptors.
// The default is the domain type name followed by "Versions".
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithMode sets the error policy. The default is Fallible.
func WithMode(m Mode) Option {
	return func(c *config) { c.mode = m }
}

// WithCodec sets the wire codec. The default is codec.JSON.
func WithCodec(cd codec.Codec) Option {
	return func(c *config) { c.codec = cd }
}

// WithTagField sets the discriminant member name of the default JSON codec.
// Together with WithCodec it must match the codec's own tag field, otherwise
// Define reports TagFieldConflict.
func WithTagField(field string) Option {
	return func(c *config) { c.tagField = field }
}

// WithTransparent enables the Overlay.
func WithTransparent() Option {
	return func(c *config) { c.transparent = true }
}

// Define validates versions and steps and builds the chain.
//
// Every version after the first needs a step from its predecessor, the last
// version needs a step to D, and D needs an infallible step back to the last
// version. All defects are reported together as DefinitionErrors.
func Define[D any](versions []VersionSpec, steps []Step, opts ...Option) (*Chain[D], error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.codec == nil {
		cfg.codec = codec.JSON(codec.WithTagField(cfg.tagField))
	}

	domain := reflect.TypeOf((*D)(nil)).Elem()
	if cfg.name == "" {
		cfg.name = domain.Name() + "Versions"
	}

	var errs DefinitionErrors
	fail := func(e *DefinitionError) {
		e.Chain = cfg.name
		errs = append(errs, e)
	}

	if cfg.tagField != "" && cfg.tagField != cfg.codec.TagField() {
		msg := fmt.Sprintf("tag field %q differs from %s codec tag field %q",
			cfg.tagField, cfg.codec.Name(), cfg.codec.TagField())
		fail(&DefinitionError{Kind: TagFieldConflict, Index: -1, Message: msg})
	}

	if len(versions) == 0 {
		fail(&DefinitionError{Kind: EmptyChain, Index: -1, Message: "chain must contain at least one version type"})
		return nil, errs
	}

	t := &table{
		name:   cfg.name,
		byTag:  make(map[string]int, len(versions)),
		byType: make(map[reflect.Type]int, len(versions)),
		codec:  cfg.codec,
	}

	for i, v := range versions {
		ordinal := v.ordinal
		if ordinal == 0 {
			ordinal = i + 1
		}
		if ordinal != i+1 {
			fail(&DefinitionError{
				Kind:    NonContiguousOrdinals,
				Index:   i,
				Message: fmt.Sprintf("version %s at position %d has ordinal %d, want %d", v.TypeID(), i+1, ordinal, i+1),
			})
		}

		tag := v.tag
		if tag == "" {
			tag = strconv.Itoa(ordinal)
		}

		if prev, dup := t.byType[v.typ]; dup {
			fail(&DefinitionError{
				Kind:    DuplicateType,
				Index:   i,
				Message: fmt.Sprintf("type %s is used by versions %d and %d", v.TypeID(), prev+1, i+1),
			})
		} else {
			t.byType[v.typ] = i
		}

		if prev, dup := t.byTag[tag]; dup {
			fail(&DefinitionError{
				Kind:    DuplicateTag,
				Index:   i,
				Message: fmt.Sprintf("tag %q is used by versions %d and %d", tag, prev+1, i+1),
			})
		} else {
			t.byTag[tag] = i
		}

		t.entries = append(t.entries, Entry{Ordinal: ordinal, Tag: tag, TypeID: v.TypeID()})
		t.decoders = append(t.decoders, v.decode)
	}

	registry := make(map[edgeKey]Step, len(steps))
	for _, s := range steps {
		key := edgeKey{s.from, s.to}
		if _, dup := registry[key]; dup {
			fail(&DefinitionError{
				Kind:    DuplicateConversion,
				Index:   -1,
				From:    s.From(),
				To:      s.To(),
				Message: fmt.Sprintf("more than one conversion from %s to %s", s.From(), s.To()),
			})
			continue
		}
		registry[key] = s
	}

	c := &Chain[D]{
		t:           t,
		domain:      domain,
		mode:        cfg.mode,
		transparent: cfg.transparent,
	}

	for i, v := range versions {
		to := domain
		if i+1 < len(versions) {
			to = versions[i+1].typ
		}
		s, ok := registry[edgeKey{v.typ, to}]
		if !ok {
			fail(&DefinitionError{
				Kind:    MissingConversion,
				Index:   i,
				From:    typeID(v.typ),
				To:      typeID(to),
				Message: fmt.Sprintf("no conversion from %s to %s", typeID(v.typ), typeID(to)),
			})
			continue
		}
		if s.fallible && cfg.mode == Infallible {
			fail(&DefinitionError{
				Kind:    FallibleEdgeInInfallibleChain,
				Index:   i,
				From:    s.From(),
				To:      s.To(),
				Message: fmt.Sprintf("conversion from %s to %s is fallible but the chain is infallible", s.From(), s.To()),
			})
		}
		c.edges = append(c.edges, s)
	}

	latest := versions[len(versions)-1].typ
	proj, ok := registry[edgeKey{domain, latest}]
	switch {
	case !ok:
		fail(&DefinitionError{
			Kind:    MissingConversion,
			Index:   len(versions) - 1,
			From:    typeID(domain),
			To:      typeID(latest),
			Message: fmt.Sprintf("no projection from %s to %s", typeID(domain), typeID(latest)),
		})
	case proj.fallible:
		fail(&DefinitionError{
			Kind:    FallibleProjection,
			Index:   len(versions) - 1,
			From:    proj.From(),
			To:      proj.To(),
			Message: fmt.Sprintf("projection from %s to %s must not fail", proj.From(), proj.To()),
		})
	default:
		c.projection = proj
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return c, nil
}

// MustDefine is like Define but panics on a definition error.
// Use it for package-level chains so a broken chain aborts initialization.
func MustDefine[D any](versions []VersionSpec, steps []Step, opts ...Option) *Chain[D] {
	c, err := Define[D](versions, steps, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the representation name.
func (c *Chain[D]) Name() string { return c.t.name }

// Mode returns the error policy.
func (c *Chain[D]) Mode() Mode { return c.mode }

// Codec returns the wire codec.
func (c *Chain[D]) Codec() codec.Codec { return c.t.codec }

// Entries returns a copy of the resolved versions, oldest first.
func (c *Chain[D]) Entries() []Entry {
	return append([]Entry(nil), c.t.entries...)
}

// Version returns N, the ordinal of the current version. Every domain value
// is at this version regardless of the version it was migrated from.
func (c *Chain[D]) Version() int {
	return len(c.t.entries)
}

// Current returns the tag of the current version.
func (c *Chain[D]) Current() string {
	return c.t.entries[len(c.t.entries)-1].Tag
}

// IsCurrent reports whether tag is the current version's tag.
func (c *Chain[D]) IsCurrent(tag string) bool {
	return tag == c.Current()
}

// EdgeInfo describes one resolved step.
type EdgeInfo struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Fallible bool   `json:"fallible"`
}

// Descriptor is a serializable summary of a chain.
type Descriptor struct {
	Name        string     `json:"name"`
	Domain      string     `json:"domain"`
	Mode        string     `json:"mode"`
	Codec       string     `json:"codec"`
	TagField    string     `json:"tag_field"`
	Transparent bool       `json:"transparent"`
	Current     string     `json:"current"`
	Versions    []Entry    `json:"versions"`
	Edges       []EdgeInfo `json:"edges"`
	Projection  EdgeInfo   `json:"projection"`
}

// Describe summarizes the chain.
func (c *Chain[D]) Describe() Descriptor {
	d := Descriptor{
		Name:        c.t.name,
		Domain:      typeID(c.domain),
		Mode:        c.mode.String(),
		Codec:       c.t.codec.Name(),
		TagField:    c.t.codec.TagField(),
		Transparent: c.transparent,
		Current:     c.Current(),
		Versions:    c.Entries(),
		Projection:  EdgeInfo{From: c.projection.From(), To: c.projection.To()},
	}
	for _, e := range c.edges {
		d.Edges = append(d.Edges, EdgeInfo{From: e.From(), To: e.To(), Fallible: e.Fallible()})
	}
	return d
}
