package chain

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/roach88/evolve/internal/codec"
)

// Tagged is one value of the chain's versions, exactly one variant active.
// The zero Tagged is invalid; obtain one from Decode, DecodeBytes, Wrap or Project.
type Tagged struct {
	t       *table
	index   int
	payload any
}

// Valid reports whether r was produced by a chain.
func (r Tagged) Valid() bool { return r.t != nil }

// Ordinal returns the active variant's ordinal, or 0 for an invalid value.
func (r Tagged) Ordinal() int {
	if r.t == nil {
		return 0
	}
	return r.t.entries[r.index].Ordinal
}

// Tag returns the active variant's wire tag.
func (r Tagged) Tag() string {
	if r.t == nil {
		return ""
	}
	return r.t.entries[r.index].Tag
}

// IsCurrent reports whether the active variant is the latest version.
func (r Tagged) IsCurrent() bool {
	return r.t != nil && r.index == len(r.t.entries)-1
}

// Payload returns the active variant's payload.
func (r Tagged) Payload() any { return r.payload }

// Parts returns the tag and the payload.
func (r Tagged) Parts() (string, any) {
	return r.Tag(), r.payload
}

func (r Tagged) String() string {
	if r.t == nil {
		return "Tagged(invalid)"
	}
	return fmt.Sprintf("%s(%s)", r.t.name, r.Tag())
}

// Decode selects the version for tag and decodes payload as that version.
// An unknown tag fails before the codec is touched.
func (c *Chain[D]) Decode(tag string, payload []byte) (Tagged, error) {
	i, ok := c.t.byTag[tag]
	if !ok {
		return Tagged{}, &DecodeError{Kind: UnknownVersion, Chain: c.t.name, Tag: tag}
	}
	v, err := c.t.decoders[i](c.t.codec, payload)
	if err != nil {
		return Tagged{}, &DecodeError{Kind: PayloadInvalid, Chain: c.t.name, Tag: tag, Err: err}
	}
	return Tagged{t: c.t, index: i, payload: v}, nil
}

// DecodeBytes reads the tag from a full document, then decodes it.
func (c *Chain[D]) DecodeBytes(data []byte) (Tagged, error) {
	tag, err := c.t.codec.ReadTag(data)
	if err != nil {
		kind := PayloadInvalid
		if errors.Is(err, codec.ErrMissingTag) || errors.Is(err, codec.ErrTagNotString) {
			kind = MissingTag
		}
		return Tagged{}, &DecodeError{Kind: kind, Chain: c.t.name, Err: err}
	}
	return c.Decode(tag, data)
}

// Wrap builds the variant whose payload type is the dynamic type of payload.
func (c *Chain[D]) Wrap(payload any) (Tagged, error) {
	i, ok := c.t.byType[reflect.TypeOf(payload)]
	if !ok {
		return Tagged{}, fmt.Errorf("%w: %T", ErrNotAVersion, payload)
	}
	return Tagged{t: c.t, index: i, payload: payload}, nil
}

// Encode renders rep as a tagged document through the chain's codec.
// Only codec marshal failures can surface.
func (c *Chain[D]) Encode(rep Tagged) ([]byte, error) {
	if rep.t != c.t {
		return nil, ErrForeignRepresentation
	}
	body, err := c.t.codec.EncodePayload(rep.payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s version %q: %w", c.t.name, rep.Tag(), err)
	}
	doc, err := c.t.codec.WriteTag(body, rep.Tag())
	if err != nil {
		return nil, fmt.Errorf("encode %s version %q: %w", c.t.name, rep.Tag(), err)
	}
	return doc, nil
}
