package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer, level string) *slog.Logger {
	return slog.New(newHandler(buf, &Config{
		ServiceName: "passcode",
		LogLevel:    level,
		MaskFields:  []string{"secret", " Candidate "},
	}, nil))
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestLogging_MasksSensitiveFields(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, "info")

	log.Info("issued",
		"secret", "123456",
		"payload", `{"identifier":"+923001234567","candidate":"654321"}`,
		slog.Group("req", slog.String("CANDIDATE", "000000")),
		"body", map[string]any{"secret": "1", "ok": true},
	)

	out := decode(t, &buf)
	assert.Equal(t, "***", out["secret"])
	assert.JSONEq(t, `{"identifier":"+923001234567","candidate":"***"}`, out["payload"].(string))
	assert.Equal(t, map[string]any{"CANDIDATE": "***"}, out["req"])
	assert.Equal(t, map[string]any{"secret": "***", "ok": true}, out["body"])
	assert.Equal(t, "passcode", out["service"])
	assert.Contains(t, out, "ts")
	assert.Contains(t, out, "severity")
}

func TestLogging_MasksWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	newTestLogger(&buf, "info").With("secret", "999999").Info("x")

	assert.Equal(t, "***", decode(t, &buf)["secret"])
}

func TestLogging_CorrelationID(t *testing.T) {
	var buf bytes.Buffer
	ctx := SetCorrelationID(context.Background(), "cid-1")

	newTestLogger(&buf, "info").InfoContext(ctx, "x")

	assert.Equal(t, "cid-1", decode(t, &buf)["_cID"])
	assert.Equal(t, "cid-1", GetCorrelationID(ctx))
	assert.Empty(t, GetCorrelationID(context.Background()))
}

func TestLogging_Level(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, "warn")

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Warn("kept")
	assert.NotZero(t, buf.Len())

	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
}

func TestNew_Disabled(t *testing.T) {
	inst, err := New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)

	assert.NotNil(t, inst.Tracer("t"))
	assert.NotNil(t, inst.Meter("m"))
	assert.NoError(t, inst.Shutdown(context.Background()))
	assert.Equal(t, 1.0, clampRatio(3))
	assert.Equal(t, 0.0, clampRatio(-1))
}
