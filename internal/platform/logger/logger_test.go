package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding/internal/platform/config"
)

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, config.Log{Level: "warn", Format: "json"})

	log.Info("dropped")
	log.Warn("kept", "session_id", "s1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "s1", line["session_id"])
	assert.Equal(t, "onboarding", line["service"])
}

func TestTextLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, config.Log{Level: "debug", Format: "text"})
	log.Debug("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}
