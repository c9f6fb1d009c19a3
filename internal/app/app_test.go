package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/shandysiswandi/passcode/internal/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
app:
  name: Passcode
  env: development
instrument:
  enabled: false
modules:
  otp:
    ttl_seconds: 120
    debug:
      enabled: true
      expose_secret: true
  delivery:
    provider_timeout_ms: 200
`

type envelope struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func post(t *testing.T, base, path string, body any) (int, envelope) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(base+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestApp_IssueVerifyOverHTTP(t *testing.T) {
	// Arrange
	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfig))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{ctx: ctx, cancel: cancel, config: cfg}
	a.build()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	serveErr := a.Serve(l)
	base := "http://" + l.Addr().String()

	// Act
	code, issued := post(t, base, "/api/v1/otp/issue", map[string]string{"identifier": "0300-1234567"})
	require.Equal(t, http.StatusOK, code)
	secret, _ := issued.Data["secret"].(string)
	require.Len(t, secret, 6)

	code, wrong := post(t, base, "/api/v1/otp/verify", map[string]string{"identifier": "+923001234567", "candidate": "not-it"})
	require.Equal(t, http.StatusOK, code)

	code, verified := post(t, base, "/api/v1/otp/verify", map[string]string{"identifier": "+92 300 1234567", "candidate": secret})
	require.Equal(t, http.StatusOK, code)

	code, replay := post(t, base, "/api/v1/otp/verify", map[string]string{"identifier": "03001234567", "candidate": secret})
	require.Equal(t, http.StatusOK, code)

	// Assert
	assert.Equal(t, true, issued.Data["accepted"])
	assert.EqualValues(t, 120, issued.Data["expires_in"])
	assert.Equal(t, false, wrong.Data["verified"])
	assert.Equal(t, true, verified.Data["verified"])
	assert.Equal(t, false, replay.Data["verified"])

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	a.Stop(stopCtx)

	assert.ErrorIs(t, <-serveErr, http.ErrServerClosed)
	assert.EqualValues(t, 1, a.store.Stats().Redeemed)
}

func TestApp_Health(t *testing.T) {
	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfig))
	require.NoError(t, err)

	a := &App{ctx: context.Background(), config: cfg}
	a.build()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	serveErr := a.Serve(l)

	resp, err := http.Get("http://" + l.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	a.Stop(context.Background())
	assert.ErrorIs(t, <-serveErr, http.ErrServerClosed)
}
