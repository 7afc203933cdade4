package chain

import (
	"reflect"

	"github.com/roach88/evolve/internal/codec"
)

// Entry is one resolved element of a chain.
type Entry struct {
	Ordinal int    `json:"ordinal"`
	Tag     string `json:"tag"`
	TypeID  string `json:"type"`
}

// VersionSpec declares one version of a chain. Build it with Version.
type VersionSpec struct {
	typ     reflect.Type
	tag     string
	ordinal int
	decode  func(c codec.Codec, data []byte) (any, error)
}

// VersionOption customizes a VersionSpec.
type VersionOption func(*VersionSpec)

// WithTag overrides the wire tag. The default is the decimal ordinal.
func WithTag(tag string) VersionOption {
	return func(s *VersionSpec) {
		s.tag = tag
	}
}

// WithOrdinal states the ordinal explicitly. Define checks it against the
// version's position; without it the position is the ordinal.
func WithOrdinal(ordinal int) VersionOption {
	return func(s *VersionSpec) {
		s.ordinal = ordinal
	}
}

// Version declares T as a payload type of the chain.
func Version[T any](opts ...VersionOption) VersionSpec {
	s := VersionSpec{
		typ: reflect.TypeOf((*T)(nil)).Elem(),
		decode: func(c codec.Codec, data []byte) (any, error) {
			var v T
			if err := c.DecodePayload(data, &v); err != nil {
				return nil, err
			}
			return v, nil
		},
	}
	return s.With(opts...)
}

// With returns a copy of s with opts applied.
func (s VersionSpec) With(opts ...VersionOption) VersionSpec {
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// TypeID returns the identifier of the payload type.
func (s VersionSpec) TypeID() string {
	return typeID(s.typ)
}

func typeID(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
