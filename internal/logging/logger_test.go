package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSONIncludesComponent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Setup(Config{Level: "debug", Format: "json", Output: &buf}))
	t.Cleanup(func() { _ = Setup(Config{}) })

	NewLogger("notifications").WithField("id", "n1").Debug("marked read")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "notifications", line["component"])
	assert.Equal(t, "n1", line["id"])
	assert.Equal(t, "marked read", line["msg"])
}

func TestSetup_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Setup(Config{Level: "warn", Output: &buf}))
	t.Cleanup(func() { _ = Setup(Config{}) })

	log := NewLogger("projects")
	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.Contains(out, "shown"))
}

func TestSetup_RejectsUnknownValues(t *testing.T) {
	assert.Error(t, Setup(Config{Level: "loud"}))
	assert.Error(t, Setup(Config{Format: "xml"}))
}

func TestNewLogger_ReusesComponentEntry(t *testing.T) {
	assert.Same(t, NewLogger("agents"), NewLogger("agents"))
}
