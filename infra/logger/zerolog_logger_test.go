package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	assert.NoError(t, os.Setenv("APP_ENV", "dev"))
	defer func() { assert.NoError(t, os.Unsetenv("APP_ENV")) }()
	l := NewZerologLogger("test")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Infow("info", map[string]any{"movements": 4})
	l.Warnf("warn")
	l.Errorf("error")
}

func TestZerologLoggerComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "deriver")
	l.Infow("constraints derived", map[string]any{"turn": 1, "precedence": 3})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "deriver", entry["component"])
	assert.Equal(t, "constraints derived", entry["message"])
	assert.EqualValues(t, 3, entry["precedence"])
	assert.EqualValues(t, 1, entry["turn"])
}

func TestConfigure(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	require.NoError(t, Configure("warn"))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
	require.NoError(t, Configure(""))
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	assert.Error(t, Configure("loud"))
}
