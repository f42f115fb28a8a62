package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"":        InfoLevel,
		"warn":    WarnLevel,
		"warning": WarnLevel,
		" error ": ErrorLevel,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
	assert.Equal(t, "warn", WarnLevel.String())
}

func TestZerologWritesComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, InfoLevel)

	log.Info("Pipeline", "saved image file", map[string]interface{}{
		"file":     "1_Sharpen3x3.jpeg",
		"sequence": 1,
	})

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "Pipeline", line["component"])
	assert.Equal(t, "saved image file", line["message"])
	assert.Equal(t, "1_Sharpen3x3.jpeg", line["file"])
	assert.EqualValues(t, 1, line["sequence"])
}

func TestZerologFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, WarnLevel)

	log.Debug("X", "hidden", nil)
	log.Info("X", "hidden", nil)
	assert.Zero(t, buf.Len())

	log.Error("X", errors.New("boom"), map[string]interface{}{"entry": "Sobel3x3"})
	out := buf.String()
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"entry":"Sobel3x3"`)
}

func TestConsoleLoggerIsHumanReadable(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleLoggerTo(&buf, DebugLevel)

	log.Debug("Loader", "loaded image", map[string]interface{}{"path": "0_input.png"})
	out := buf.String()
	assert.Contains(t, out, "loaded image")
	assert.Contains(t, out, "0_input.png")
	assert.False(t, strings.HasPrefix(out, "{"))
}

func TestNopDiscards(t *testing.T) {
	var l Logger = Nop()
	l.Info("X", "ignored", map[string]interface{}{"a": 1})
	l.Error("X", errors.New("ignored"), nil)
}
