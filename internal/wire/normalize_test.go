package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeNFC(t *testing.T) {
	in := Object{
		"Jose\u0301": Array{String("Cafe\u0301"), Number("1"), Null{}},
		"plain":       Bool(true),
	}

	out := NormalizeNFC(in)

	assert.Equal(t, Object{
		"Jos\u00e9": Array{String("Caf\u00e9"), Number("1"), Null{}},
		"plain":      Bool(true),
	}, out)
	assert.Equal(t, String("Cafe\u0301"), in["Jose\u0301"].(Array)[0], "input is not modified")
}

func TestNormalizeNFCScalars(t *testing.T) {
	assert.Equal(t, Number("1.5"), NormalizeNFC(Number("1.5")))
	assert.Equal(t, Null{}, NormalizeNFC(Null{}))
	assert.Nil(t, NormalizeNFC(nil))
}
