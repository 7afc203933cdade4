package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "profile_upgrade.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "profile_upgrade", s.Name)
	assert.Equal(t, "Profile", s.Chain)
	require.Len(t, s.Cases, 5)

	first := s.Cases[0]
	assert.Equal(t, "v1 display name is split", first.Name)
	assert.Equal(t, `{"_version":"1","display_name":"Ada Lovelace"}`, first.Input)
	assert.Equal(t, "1", first.Expect.Tag)
	require.NotNil(t, first.Expect.Current)
	assert.False(t, *first.Expect.Current)
	assert.Equal(t, map[string]any{"GivenName": "Ada", "FamilyName": "Lovelace", "Preferred": nil}, first.Expect.Domain)

	assert.Equal(t, "UNKNOWN_VERSION", s.Cases[4].Expect.Error)
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseScenarioRejectsUnknownFields(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: typo
description: misspelled cases key
chain: Profile
case:
  - name: a
    input: '{}'
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenarioValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "description: d\nchain: Profile\ncases: [{name: a, input: '{}'}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: s\nchain: Profile\ncases: [{name: a, input: '{}'}]\n",
			wantErr: "description is required",
		},
		{
			name:    "missing chain",
			yaml:    "name: s\ndescription: d\ncases: [{name: a, input: '{}'}]\n",
			wantErr: "chain is required",
		},
		{
			name:    "no cases",
			yaml:    "name: s\ndescription: d\nchain: Profile\ncases: []\n",
			wantErr: "cases list is required",
		},
		{
			name:    "unnamed case",
			yaml:    "name: s\ndescription: d\nchain: Profile\ncases: [{input: '{}'}]\n",
			wantErr: "cases[0]: name is required",
		},
		{
			name:    "duplicate case",
			yaml:    "name: s\ndescription: d\nchain: Profile\ncases: [{name: a, input: '{}'}, {name: a, input: '{}'}]\n",
			wantErr: `cases[1]: duplicate case name "a"`,
		},
		{
			name:    "missing input",
			yaml:    "name: s\ndescription: d\nchain: Profile\ncases: [{name: a}]\n",
			wantErr: "cases[0]: input is required",
		},
		{
			name:    "error with domain",
			yaml:    "name: s\ndescription: d\nchain: Profile\ncases: [{name: a, input: '{}', expect: {error: x, domain: {A: 1}}}]\n",
			wantErr: "error excludes domain and encoded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
