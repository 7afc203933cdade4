package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roach88/evolve/internal/wire"
)

type jsonCodec struct {
	opts options
}

// JSON returns the JSON codec. Documents written by WriteTag are canonical
// (RFC 8785 member order) and keep the payload's strings and integers
// exactly, so equal payloads always produce equal bytes.
func JSON(opts ...Option) Codec {
	return &jsonCodec{opts: buildOptions(opts)}
}

func (c *jsonCodec) Name() string { return "json" }

func (c *jsonCodec) TagField() string { return c.opts.tagField }

func (c *jsonCodec) ReadTag(data []byte) (string, error) {
	obj, err := wire.ParseObject(data)
	if err != nil {
		return "", fmt.Errorf("read tag: %w", err)
	}
	v, ok := obj[c.opts.tagField]
	if !ok {
		return "", fmt.Errorf("%w: field %q", ErrMissingTag, c.opts.tagField)
	}
	s, ok := v.(wire.String)
	if !ok {
		return "", fmt.Errorf("%w: field %q", ErrTagNotString, c.opts.tagField)
	}
	return string(s), nil
}

func (c *jsonCodec) WriteTag(payload []byte, tag string) ([]byte, error) {
	obj, err := wire.ParseObject(payload)
	if err != nil {
		return nil, fmt.Errorf("write tag: %w", err)
	}
	if _, exists := obj[c.opts.tagField]; exists {
		return nil, fmt.Errorf("%w: field %q", ErrTagCollision, c.opts.tagField)
	}
	obj[c.opts.tagField] = wire.String(tag)
	return wire.MarshalCanonical(obj)
}

func (c *jsonCodec) DecodePayload(data []byte, v any) error {
	if !c.opts.strict {
		return json.Unmarshal(data, v)
	}

	obj, err := wire.ParseObject(data)
	if err != nil {
		return err
	}
	delete(obj, c.opts.tagField)
	stripped, err := wire.MarshalCanonical(obj)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(stripped))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func (c *jsonCodec) EncodePayload(v any) ([]byte, error) {
	return json.Marshal(v)
}
