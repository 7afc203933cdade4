package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/evolve/internal/wire"
)

func TestYAMLReadTag(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"quoted", "_version: \"1\"\nname: Alice\n", "1"},
		{"plain int", "_version: 2\nname: Alice\n", "2"},
		{"plain string", "name: Alice\n_version: v3\n", "v3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, err := YAML().ReadTag([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.want, tag)
		})
	}
}

func TestYAMLReadTagErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"missing", "name: Alice\n", ErrMissingTag},
		{"sequence value", "_version: [1]\n", ErrTagNotString},
		{"bool value", "_version: true\n", ErrTagNotString},
		{"sequence document", "- a\n- b\n", wire.ErrNotObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := YAML().ReadTag([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestYAMLWriteTag(t *testing.T) {
	c := YAML()
	payload, err := c.EncodePayload(struct {
		Name string `yaml:"name"`
	}{Name: "Alice"})
	require.NoError(t, err)

	doc, err := c.WriteTag(payload, "1")
	require.NoError(t, err)
	assert.Equal(t, "_version: \"1\"\nname: Alice\n", string(doc))

	tag, err := c.ReadTag(doc)
	require.NoError(t, err)
	assert.Equal(t, "1", tag)
}

func TestYAMLWriteTagCollision(t *testing.T) {
	_, err := YAML().WriteTag([]byte("_version: \"1\"\n"), "2")
	assert.ErrorIs(t, err, ErrTagCollision)
}

func TestYAMLDecodePayload(t *testing.T) {
	var got contact
	err := YAML().DecodePayload([]byte("_version: \"2\"\nfull_name: Grace\nemail: g@x.io\n"), &got)
	require.NoError(t, err)
	assert.Equal(t, "Grace", got.FullName)
	require.NotNil(t, got.Email)
	assert.Equal(t, "g@x.io", *got.Email)
}

func TestYAMLStrictFields(t *testing.T) {
	c := YAML(WithStrictFields())

	var got contact
	require.NoError(t, c.DecodePayload([]byte("_version: \"2\"\nfull_name: Grace\n"), &got))
	assert.Equal(t, "Grace", got.FullName)

	err := c.DecodePayload([]byte("_version: \"2\"\nfull_name: Grace\nnickname: G\n"), &got)
	assert.Error(t, err)
}
