package otp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/passcode/internal/delivery/entity"
	"github.com/shandysiswandi/passcode/internal/otp/outbound/store"
	"github.com/shandysiswandi/passcode/internal/pkg/clock"
	"github.com/shandysiswandi/passcode/internal/pkg/config"
	"github.com/shandysiswandi/passcode/internal/pkg/goroutine"
	"github.com/shandysiswandi/passcode/internal/pkg/instrument"
	"github.com/shandysiswandi/passcode/internal/pkg/router"
	"github.com/shandysiswandi/passcode/internal/pkg/uid"
	"github.com/shandysiswandi/passcode/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopDelivery struct{}

func (nopDelivery) Deliver(context.Context, string, string) entity.Outcome {
	return entity.Outcome{Provider: "nop"}
}

func newDependency(t *testing.T, yaml string) Dependency {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	ins := instrument.NewNoop()
	return Dependency{
		Router:     router.NewRouter(router.Config{Config: cfg, UUID: uid.NewUUID(), Instrument: ins}),
		Store:      store.NewMemory(clock.New(), time.Minute),
		Goroutine:  goroutine.NewManager(4),
		Config:     cfg,
		Instrument: ins,
		Validator:  v,
		Delivery:   nopDelivery{},
	}
}

func status(r http.Handler, method, path, body string) int {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec.Code
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		mutate    func(*Dependency)
		wantErr   error
		wantDebug int
	}{
		{
			name:      "inline by default",
			yaml:      "app: {env: development}",
			wantDebug: http.StatusNotFound,
		},
		{
			name:      "debug enabled outside production",
			yaml:      "app: {env: development}\nmodules: {otp: {debug: {enabled: true}}}",
			wantDebug: http.StatusOK,
		},
		{
			name:    "debug refused in production",
			yaml:    "app: {env: production}\nmodules: {otp: {debug: {enabled: true}}}",
			wantErr: ErrDebugInProduction,
		},
		{
			name:    "debug refused in capitalized production",
			yaml:    "app: {env: Production}\nmodules: {otp: {debug: {enabled: true}}}",
			wantErr: ErrDebugInProduction,
		},
		{
			name:    "debug refused in prod shorthand",
			yaml:    "app: {env: ' prod '}\nmodules: {otp: {debug: {enabled: true}}}",
			wantErr: ErrDebugInProduction,
		},
		{
			name:    "exposed secret refused in production",
			yaml:    "app: {env: production}\nmodules: {otp: {debug: {expose_secret: true}}}",
			wantErr: ErrDebugInProduction,
		},
		{
			name:    "messaging without broker",
			yaml:    "modules: {otp: {delivery_mode: messaging}}",
			wantErr: ErrMessagingNotEnabled,
		},
		{
			name:    "inline without router",
			yaml:    "app: {}",
			mutate:  func(d *Dependency) { d.Delivery = nil },
			wantErr: ErrDeliveryMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dep := newDependency(t, tt.yaml)
			if tt.mutate != nil {
				tt.mutate(&dep)
			}

			err := New(dep)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, http.StatusOK, status(dep.Router, http.MethodPost, "/api/v1/otp/issue", `{"identifier":"03001234567"}`))
			assert.Equal(t, tt.wantDebug, status(dep.Router, http.MethodGet, "/api/v1/otp/debug/entries", ""))
			require.NoError(t, dep.Goroutine.Wait())
		})
	}
}

func TestNew_UnknownDeliveryMode(t *testing.T) {
	err := New(newDependency(t, "modules: {otp: {delivery_mode: carrier-pigeon}}"))

	assert.ErrorContains(t, err, `unknown delivery mode "carrier-pigeon"`)
}

func TestIsProduction(t *testing.T) {
	for _, env := range []string{"production", "Production", "PROD", " prod ", "prod-eu"} {
		assert.True(t, isProduction(env), env)
	}
	for _, env := range []string{"", "development", "staging", "local"} {
		assert.False(t, isProduction(env), env)
	}
}
