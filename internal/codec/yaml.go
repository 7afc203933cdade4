package codec

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/roach88/evolve/internal/wire"
)

type yamlCodec struct {
	opts options
}

// YAML returns the YAML codec. The tag is written as a double-quoted string
// at the top of the mapping.
func YAML(opts ...Option) Codec {
	return &yamlCodec{opts: buildOptions(opts)}
}

func (c *yamlCodec) Name() string { return "yaml" }

func (c *yamlCodec) TagField() string { return c.opts.tagField }

func (c *yamlCodec) ReadTag(data []byte) (string, error) {
	root, err := parseMapping(data)
	if err != nil {
		return "", fmt.Errorf("read tag: %w", err)
	}
	idx := findKey(root, c.opts.tagField)
	if idx < 0 {
		return "", fmt.Errorf("%w: field %q", ErrMissingTag, c.opts.tagField)
	}
	val := root.Content[idx+1]
	if val.Kind != yaml.ScalarNode || (val.ShortTag() != "!!str" && val.ShortTag() != "!!int") {
		return "", fmt.Errorf("%w: field %q", ErrTagNotString, c.opts.tagField)
	}
	return val.Value, nil
}

func (c *yamlCodec) WriteTag(payload []byte, tag string) ([]byte, error) {
	root, err := parseMapping(payload)
	if err != nil {
		return nil, fmt.Errorf("write tag: %w", err)
	}
	if findKey(root, c.opts.tagField) >= 0 {
		return nil, fmt.Errorf("%w: field %q", ErrTagCollision, c.opts.tagField)
	}

	key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c.opts.tagField}
	val := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: tag, Style: yaml.DoubleQuotedStyle}
	root.Content = append([]*yaml.Node{key, val}, root.Content...)
	root.Style = 0

	return yaml.Marshal(root)
}

func (c *yamlCodec) DecodePayload(data []byte, v any) error {
	if !c.opts.strict {
		return yaml.Unmarshal(data, v)
	}

	root, err := parseMapping(data)
	if err != nil {
		return err
	}
	if idx := findKey(root, c.opts.tagField); idx >= 0 {
		root.Content = append(root.Content[:idx], root.Content[idx+2:]...)
	}
	stripped, err := yaml.Marshal(root)
	if err != nil {
		return err
	}
	return decodeKnownFields(stripped, v)
}

func (c *yamlCodec) EncodePayload(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// parseMapping returns the top-level mapping node of a YAML document.
func parseMapping(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) == 1 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, wire.ErrNotObject
	}
	return root, nil
}

// findKey returns the index of the key node named key in a mapping, or -1.
func findKey(mapping *yaml.Node, key string) int {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return i
		}
	}
	return -1
}

func decodeKnownFields(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(v)
}
