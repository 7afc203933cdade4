// Package codec supplies the wire-format capability the migration engine
// orchestrates: reading and writing the version discriminant, and decoding
// or encoding the payload of a known Go type.
//
// Payload fields are flattened next to the discriminant, so a JSON document
// for version "1" looks like {"_version":"1","name":"Alice"}.
package codec

import (
	"errors"
	"slices"
)

// DefaultTagField is the document member that carries the version tag.
const DefaultTagField = "_version"

var (
	// ErrMissingTag is returned when a document has no tag field.
	ErrMissingTag = errors.New("missing version tag")

	// ErrTagNotString is returned when the tag field holds a non-string value.
	ErrTagNotString = errors.New("version tag is not a string")

	// ErrTagCollision is returned by WriteTag when the payload already has a
	// member named like the tag field.
	ErrTagCollision = errors.New("payload already contains the tag field")
)

// Codec is a stateless wire format. Implementations must be safe for
// concurrent use.
type Codec interface {
	// Name identifies the codec in a Registry ("json", "yaml").
	Name() string

	// TagField returns the member name that carries the discriminant.
	TagField() string

	// ReadTag extracts the discriminant without decoding the payload.
	ReadTag(data []byte) (string, error)

	// WriteTag injects tag into an encoded payload.
	WriteTag(payload []byte, tag string) ([]byte, error)

	// DecodePayload decodes a tagged document into v, a pointer to the
	// version's payload type. The tag member itself is ignored.
	DecodePayload(data []byte, v any) error

	// EncodePayload encodes v without a tag.
	EncodePayload(v any) ([]byte, error)
}

// Option configures a codec.
type Option func(*options)

type options struct {
	tagField string
	strict   bool
}

func buildOptions(opts []Option) options {
	o := options{tagField: DefaultTagField}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithTagField overrides the discriminant member name.
func WithTagField(field string) Option {
	return func(o *options) {
		if field != "" {
			o.tagField = field
		}
	}
}

// WithStrictFields rejects payload members that the target type does not declare.
func WithStrictFields() Option {
	return func(o *options) {
		o.strict = true
	}
}

// Registry maps codec names to codecs.
type Registry struct {
	byName map[string]Codec
}

// NewRegistry returns a registry holding the given codecs.
func NewRegistry(codecs ...Codec) *Registry {
	r := &Registry{byName: make(map[string]Codec)}
	for _, c := range codecs {
		r.Register(c)
	}
	return r
}

// Default returns a registry preloaded with the JSON and YAML codecs,
// both configured with opts.
func Default(opts ...Option) *Registry {
	return NewRegistry(JSON(opts...), YAML(opts...))
}

// Register adds or replaces a codec.
func (r *Registry) Register(c Codec) {
	r.byName[c.Name()] = c
}

// Get returns the codec registered under name.
func (r *Registry) Get(name string) (Codec, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Names returns the registered codec names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
