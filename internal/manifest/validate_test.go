package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		m    Manifest
		want []string
	}{
		{
			name: "valid",
			m: Manifest{Name: "P", Versions: []VersionDecl{
				{Type: "V1"}, {Type: "V2", Tag: "b"}, {Type: "V3", Ordinal: 3},
			}},
			want: []string{},
		},
		{
			name: "empty chain",
			m:    Manifest{Name: "P"},
			want: []string{ErrEmptyChain},
		},
		{
			name: "ordinal out of place",
			m:    Manifest{Name: "P", Versions: []VersionDecl{{Type: "V1"}, {Type: "V2", Ordinal: 5}}},
			want: []string{ErrOrdinal},
		},
		{
			name: "duplicate type",
			m:    Manifest{Name: "P", Versions: []VersionDecl{{Type: "V1"}, {Type: "V1"}}},
			want: []string{ErrDuplicateType},
		},
		{
			name: "explicit tag collides with default",
			m:    Manifest{Name: "P", Versions: []VersionDecl{{Type: "V1"}, {Type: "V2", Tag: "1"}}},
			want: []string{ErrDuplicateTag},
		},
		{
			name: "invalid mode",
			m:    Manifest{Name: "P", Mode: "sometimes", Versions: []VersionDecl{{Type: "V1"}}},
			want: []string{ErrInvalidMode},
		},
		{
			name: "empty type name",
			m:    Manifest{Name: "P", Versions: []VersionDecl{{Type: ""}}},
			want: []string{ErrEmptyTypeName},
		},
		{
			name: "collects everything",
			m: Manifest{Name: "P", Mode: "x", Versions: []VersionDecl{
				{Type: "V1", Tag: "a"}, {Type: "V1", Tag: "a", Ordinal: 4},
			}},
			want: []string{ErrInvalidMode, ErrDuplicateType, ErrOrdinal, ErrDuplicateTag},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, codes(Validate(&tt.m)))
		})
	}
}

func TestValidationErrorFormat(t *testing.T) {
	e := ValidationError{Field: "chain.P.versions", Message: "at least one version is required", Code: ErrEmptyChain}
	assert.Equal(t, "[E201] chain.P.versions: at least one version is required", e.Error())

	e.Line = 4
	assert.Equal(t, "[E201] line 4: chain.P.versions: at least one version is required", e.Error())

	errs := ValidationErrors{e, {Field: "f", Message: "m", Code: ErrOrdinal}}
	assert.Equal(t, "[E201] line 4: chain.P.versions: at least one version is required; [E202] f: m", errs.Error())
}
