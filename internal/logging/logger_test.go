package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	quiet := New(ModeDevelopment, &buf, false)
	quiet.Debug("hidden")
	quiet.Info("hidden too")
	quiet.Warn("shown", "kind", "Profile")
	quiet.Sync()

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, `"kind": "Profile"`)

	buf.Reset()
	verbose := New(ModeDevelopment, &buf, true)
	verbose.Debug("details")
	verbose.Sync()
	assert.Contains(t, buf.String(), "details")
}

func TestNewProductionWritesJSON(t *testing.T) {
	for _, mode := range []string{ModeProduction, "production", "PROD"} {
		var buf bytes.Buffer
		l := New(mode, &buf, false)
		l.Error("upgrade stopped", "id", "doc-0001")
		l.Sync()

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), mode)
		assert.Equal(t, "error", entry["level"])
		assert.Equal(t, "upgrade stopped", entry["msg"])
		assert.Equal(t, "doc-0001", entry["id"])
		assert.NotContains(t, entry, "ts")
	}
}

func TestWithAddsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core)).With("chain", "Profile")

	l.Info("upgraded", "id", "doc-0001")
	l.Error("failed")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "upgraded", entries[0].Message)
	assert.Equal(t, map[string]any{"chain": "Profile", "id": "doc-0001"}, entries[0].ContextMap())
	assert.Equal(t, "Profile", entries[1].ContextMap()["chain"])
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("nothing")
	l.Sync()
}
