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
	cases := map[string]Level{
		"debug":   Debug,
		"":        Info,
		"INFO":    Info,
		"warning": Warn,
		"error":   Error,
		"otro":    Info,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "input %q", in)
	}
}

func TestLogger_TextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: Warn, Format: FormatText, Output: &buf})

	log.Info("oculto", nil)
	log.Warn("visible", map[string]any{"acta_id": 42})

	out := buf.String()
	assert.NotContains(t, out, "oculto")
	assert.Contains(t, out, "WRN")
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, "acta_id=42")
}

func TestLogger_JSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: Debug, Format: FormatJSON, App: "actas", Output: &buf})

	log.With(map[string]any{"req_id": "abc", "": "ignorado"}).Debug("hola", map[string]any{"n": 3})

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "hola", entry["message"])
	assert.Equal(t, "actas", entry["app"])
	assert.Equal(t, "abc", entry["req_id"])
	assert.EqualValues(t, 3, entry["n"])
	assert.Equal(t, "debug", entry["level"])
	assert.NotContains(t, entry, "")
	assert.Contains(t, entry, "time")
}

func TestLogger_ErrorFieldIsString(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: Info, Format: FormatJSON, Output: &buf})

	log.Error("falló", map[string]any{"err": errors.New("disco lleno"), "slot": 2})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "disco lleno", entry["err"])
	assert.EqualValues(t, 2, entry["slot"])
}

func TestLogger_WithKeepsParentUntouched(t *testing.T) {
	var buf bytes.Buffer
	base := New(Options{Level: Info, Format: FormatJSON, Output: &buf})
	child := base.With(map[string]any{"component": "store"})
	assert.Same(t, base, base.With(nil))

	base.Info("base", nil)
	child.Info("child", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.NotContains(t, lines[0], "component")
	assert.Contains(t, lines[1], `"component":"store"`)
}

func TestNop_DoesNotPanic(t *testing.T) {
	l := Nop()
	l.With(map[string]any{"a": 1}).Error("nada", nil)
}
