package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runTagCmd(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewTagCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestTagJSONDocument(t *testing.T) {
	path := writeDoc(t, "user.json", `{"_version":"1","name":"Alice"}`)

	out, err := runTagCmd(t, "text", path)
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestTagYAMLDocumentByExtension(t *testing.T) {
	path := writeDoc(t, "user.yaml", "_version: \"2\"\nfull_name: Alice\n")

	out, err := runTagCmd(t, "text", path)
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}

func TestTagCustomFieldAndCodec(t *testing.T) {
	path := writeDoc(t, "user.txt", "schema: v3\nname: Alice\n")

	out, err := runTagCmd(t, "text", path, "--codec", "yaml", "--tag-field", "schema")
	require.NoError(t, err)
	assert.Equal(t, "v3\n", out)
}

func TestTagCurrentComparison(t *testing.T) {
	path := writeDoc(t, "user.json", `{"_version":"1","name":"Alice"}`)

	out, err := runTagCmd(t, "text", path, "--current", "2")
	require.NoError(t, err)
	assert.Equal(t, "1 (stale, current is 2)\n", out)

	out, err = runTagCmd(t, "text", path, "--current", "1")
	require.NoError(t, err)
	assert.Equal(t, "1 (current)\n", out)
}

func TestTagJSONOutput(t *testing.T) {
	path := writeDoc(t, "user.json", `{"_version":"1","name":"Alice"}`)

	out, err := runTagCmd(t, "json", path, "--current", "2")
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   TagResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "1", resp.Data.Tag)
	assert.Equal(t, "json", resp.Data.Codec)
	require.NotNil(t, resp.Data.Current)
	assert.False(t, *resp.Data.Current)
}

func TestTagErrors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		args     []string
		wantCode int
		wantOut  string
	}{
		{"missing tag", "a.json", `{"name":"Alice"}`, nil, ExitFailure, "Error [E301]"},
		{"numeric tag", "a.json", `{"_version":1}`, nil, ExitFailure, "Error [E301]"},
		{"not a document", "a.json", `[1,2]`, nil, ExitFailure, "Error [E301]"},
		{"unknown codec", "a.json", `{}`, []string{"--codec", "toml"}, ExitCommandError, "Error [E302]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeDoc(t, tt.file, tt.content)
			out, err := runTagCmd(t, "text", append([]string{path}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, ExitCode(err))
			assert.Contains(t, out, tt.wantOut)
		})
	}
}

func TestTagMissingFile(t *testing.T) {
	out, err := runTagCmd(t, "text", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, ExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}
