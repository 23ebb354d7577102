package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"Warn", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestStdLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewStdLogger(&buf, LevelWarn)
	ctx := context.Background()

	l.Debug(ctx, "debug message")
	l.Info(ctx, "info message")
	l.Warn(ctx, "rate limit exceeded", map[string]interface{}{"status": 429, "op": "GetKlines"})
	l.Error(ctx, errors.New("boom"), "request failed")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "[WARN] rate limit exceeded | op=GetKlines status=429")
	assert.Contains(t, out, "[ERROR] request failed | error: boom")
}

func TestZerologLogger_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologLogger(&buf, LevelInfo)
	ctx := context.Background()

	l.Debug(ctx, "hidden")
	l.Error(ctx, errors.New("boom"), "request failed", map[string]interface{}{"symbol": "BTCUSDT"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "request failed", entry["message"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "BTCUSDT", entry["symbol"])
}

func TestSlogLogger_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(&buf, LevelDebug)

	l.Info(context.Background(), "cache hit", map[string]interface{}{"key": "BTCUSDT|1d|30"})

	out := buf.String()
	assert.Contains(t, out, "cache hit")
	assert.Contains(t, out, "key=BTCUSDT|1d|30")
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer

	l, err := New("", &buf, LevelInfo)
	require.NoError(t, err)
	assert.IsType(t, &StdLogger{}, l)

	l, err = New("json", &buf, LevelInfo)
	require.NoError(t, err)
	assert.IsType(t, &ZerologLogger{}, l)

	l, err = New("Pretty", &buf, LevelInfo)
	require.NoError(t, err)
	assert.IsType(t, &SlogLogger{}, l)

	_, err = New("xml", &buf, LevelInfo)
	assert.Error(t, err)
}

func TestOpenOutput_EmptyPathUsesFallback(t *testing.T) {
	var buf bytes.Buffer
	w, closeFn, err := OpenOutput("", &buf)
	require.NoError(t, err)
	assert.Same(t, &buf, w)
	assert.NoError(t, closeFn())
}

func TestOpenOutput_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte("earlier\n"), 0o600))

	w, closeFn, err := OpenOutput(path, io.Discard)
	require.NoError(t, err)
	NewStdLogger(w, LevelInfo).Info(context.Background(), "Started")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "earlier\n"))
	assert.Contains(t, string(data), "Started")
}

func TestOpenOutput_BadPath(t *testing.T) {
	_, _, err := OpenOutput(filepath.Join(t.TempDir(), "missing", "app.log"), io.Discard)
	assert.Error(t, err)
}
