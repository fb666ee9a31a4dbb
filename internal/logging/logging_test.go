package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureJSON(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	Init(Config{Level: slog.LevelDebug, JSON: true, Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })
	return &buf
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &rec))
	return rec
}

func TestConfigs(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, DefaultConfig().Level)
	assert.False(t, DefaultConfig().JSON)
	assert.Equal(t, slog.LevelInfo, ServiceConfig().Level)

	debug := DebugConfig()
	assert.Equal(t, slog.LevelDebug, debug.Level)
	assert.True(t, debug.JSON)
	assert.True(t, debug.AddSource)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseLevel(tt.in), tt.in)
	}
}

func TestInit(t *testing.T) {
	t.Run("debug_flag", func(t *testing.T) {
		captureJSON(t)
		assert.True(t, Debug)
	})

	t.Run("nil_output_uses_stderr", func(t *testing.T) {
		Init(Config{Level: slog.LevelInfo})
		assert.NotNil(t, Logger())
		assert.False(t, Debug)
	})
}

func TestLoggingMasksSecrets(t *testing.T) {
	buf := captureJSON(t)

	Info("notifier ready", "telegram_token", "123456789:AAHsecretsecretsecret", KeyPlantID, "abc")
	rec := lastRecord(t, buf)
	assert.Equal(t, "********", rec["telegram_token"])
	assert.Equal(t, "abc", rec[KeyPlantID])
}

func TestMalformedPlant(t *testing.T) {
	buf := captureJSON(t)
	ctx := WithRequestID(context.Background(), "req-1")

	MalformedPlant(ctx, "p1", "list")
	rec := lastRecord(t, buf)
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "p1", rec[KeyPlantID])
	assert.Equal(t, "req-1", rec[KeyRequestID])
}

// =============================================================================
// Context Tests
// =============================================================================

func TestAccessLogWriter(t *testing.T) {
	buf := captureJSON(t)

	n, err := AccessLogWriter().Write([]byte("127.0.0.1 - - \"GET /health HTTP/1.1\" 200 15\n"))
	require.NoError(t, err)
	assert.Equal(t, 44, n)

	rec := lastRecord(t, buf)
	assert.Equal(t, "access", rec["msg"])
	assert.Equal(t, `127.0.0.1 - - "GET /health HTTP/1.1" 200 15`, rec["line"])
}

func TestGenerateRequestID(t *testing.T) {
	a := GenerateRequestID()
	b := GenerateRequestID()
	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
}

func TestRequestIDFromContext(t *testing.T) {
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
	//nolint:staticcheck // nil context is handled explicitly
	assert.Equal(t, "", RequestIDFromContext(nil))

	ctx := NewRequestContext(context.Background())
	assert.Len(t, RequestIDFromContext(ctx), 16)
}

// =============================================================================
// Mask Tests
// =============================================================================

func TestMaskURL(t *testing.T) {
	short := "https://example.com/hook"
	assert.Equal(t, short, MaskURL(short))

	long := "https://hooks.example.com/services/T000/B000/XXXXXXXX"
	assert.Equal(t, long[:URLMaskLength]+"***", MaskURL(long))
}

func TestMaskValue(t *testing.T) {
	assert.Equal(t, "", MaskValue(""))
	assert.Equal(t, "***", MaskValue("abc"))
	assert.Equal(t, "********", MaskValue("a-very-long-secret"))
}

func TestIsSensitiveField(t *testing.T) {
	assert.True(t, IsSensitiveField("telegram_token"))
	assert.True(t, IsSensitiveField("WEBHOOK_URL"))
	assert.True(t, IsSensitiveField("chat_id"))
	assert.False(t, IsSensitiveField("plant_id"))
	assert.False(t, IsSensitiveField("name"))
}

func TestMaskString(t *testing.T) {
	masked := MaskString("send to https://hooks.example.com/services/T000/B000/XXXXXXXX now")
	assert.NotContains(t, masked, "XXXXXXXX")

	local := "listening on http://localhost:8080/api/plants"
	assert.Equal(t, local, MaskString(local))

	token := MaskString("bot 123456789:AAHabcdefghijklmnopqrstu failed")
	assert.NotContains(t, token, "AAHabcdefghijklmnopqrstu")
}

func TestMaskArgs(t *testing.T) {
	args := []any{"token", "secret", "count", 3, "api_key", 42}
	masked := MaskArgs(args)
	assert.Equal(t, "******", masked[1])
	assert.Equal(t, 3, masked[3])
	assert.Equal(t, "********", masked[5])
	assert.Equal(t, "secret", args[1], "input must not be modified")

	plain := []any{"count", 1}
	assert.Equal(t, plain, MaskArgs(plain))
}
