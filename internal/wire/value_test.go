package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeepsNumberText(t *testing.T) {
	v, err := Parse([]byte(`{"big":9007199254740993,"price":19.99}`))
	require.NoError(t, err)

	obj, ok := v.(Object)
	require.True(t, ok)
	assert.Equal(t, Number("9007199254740993"), obj["big"])
	assert.Equal(t, Number("19.99"), obj["price"])
}

func TestParseAllKinds(t *testing.T) {
	v, err := Parse([]byte(`{"s":"x","b":true,"n":null,"a":[1,"two"],"o":{"k":false}}`))
	require.NoError(t, err)

	assert.Equal(t, Object{
		"s": String("x"),
		"b": Bool(true),
		"n": Null{},
		"a": Array{Number("1"), String("two")},
		"o": Object{"k": Bool(false)},
	}, v)
}

func TestParseRejectsTrailingData(t *testing.T) {
	_, err := Parse([]byte(`{"a":1} {"b":2}`))
	assert.Error(t, err)
}

func TestParseObjectRejectsNonObject(t *testing.T) {
	for _, doc := range []string{`[1,2]`, `"str"`, `42`, `null`} {
		t.Run(doc, func(t *testing.T) {
			_, err := ParseObject([]byte(doc))
			assert.ErrorIs(t, err, ErrNotObject)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := ParseObject([]byte(`{"a":`))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotObject)
}

func TestFromAnyYAMLShapes(t *testing.T) {
	v, err := FromAny(map[string]any{
		"count": 3,
		"ratio": 0.5,
		"tags":  []any{"a", nil},
	})
	require.NoError(t, err)

	assert.Equal(t, Object{
		"count": Number("3"),
		"ratio": Number("0.5"),
		"tags":  Array{String("a"), Null{}},
	}, v)
}

func TestFromAnyUnsupported(t *testing.T) {
	_, err := FromAny(map[string]any{"ch": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `object["ch"]`)
}

func TestRoundTripCanonical(t *testing.T) {
	input := `{ "name" : "Alice", "_version" : "1", "email" : null }`

	v, err := Parse([]byte(input))
	require.NoError(t, err)
	out, err := MarshalCanonical(v)
	require.NoError(t, err)

	assert.Equal(t, `{"_version":"1","email":null,"name":"Alice"}`, string(out))
}
