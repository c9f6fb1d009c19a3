package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/passcode/internal/pkg/config"
	"github.com/shandysiswandi/passcode/internal/pkg/goerror"
	"github.com/shandysiswandi/passcode/internal/pkg/instrument"
	"github.com/shandysiswandi/passcode/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

type echoInput struct {
	Name string `json:"name"`
}

func newTestRouter(t *testing.T, yaml string) *Router {
	t.Helper()
	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	require.NoError(t, err)

	return NewRouter(Config{Config: cfg, UUID: fixedID("cid-fixed"), Instrument: instrument.NewNoop()})
}

func serve(ro *Router, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRouter_Success(t *testing.T) {
	ro := newTestRouter(t, "app: {}")
	ro.POST("/echo", func(r *Request) (any, error) {
		var in echoInput
		if err := r.DecodeBody(&in); err != nil {
			return nil, err
		}
		return in, nil
	})

	rec := serve(ro, http.MethodPost, "/echo", `{"name":"x"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cid-fixed", rec.Header().Get(HeaderCorrelationID))
	body := decodeBody(t, rec)
	assert.Equal(t, "request has been successfully", body["message"])
	assert.Equal(t, map[string]any{"name": "x"}, body["data"])
}

func TestRouter_Errors(t *testing.T) {
	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	ro := newTestRouter(t, "app: {}")
	ro.POST("/decode", func(r *Request) (any, error) {
		var in echoInput
		return nil, r.DecodeBody(&in)
	})
	ro.GET("/invalid", func(*Request) (any, error) {
		return nil, goerror.NewInvalidInput(v.Validate(struct {
			Phone string `validate:"required"`
		}{}))
	})
	ro.GET("/plain", func(*Request) (any, error) {
		return nil, errors.New("boom")
	})
	ro.GET("/panic", func(*Request) (any, error) {
		panic("boom")
	})

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		code   int
	}{
		{name: "MalformedJSON", method: http.MethodPost, path: "/decode", body: `{"name":`, code: http.StatusBadRequest},
		{name: "UnknownField", method: http.MethodPost, path: "/decode", body: `{"other":1}`, code: http.StatusBadRequest},
		{name: "TrailingData", method: http.MethodPost, path: "/decode", body: `{"name":"a"}{}`, code: http.StatusBadRequest},
		{name: "Validation", method: http.MethodGet, path: "/invalid", code: http.StatusUnprocessableEntity},
		{name: "Unclassified", method: http.MethodGet, path: "/plain", code: http.StatusInternalServerError},
		{name: "Panic", method: http.MethodGet, path: "/panic", code: http.StatusInternalServerError},
		{name: "NotFound", method: http.MethodGet, path: "/missing", code: http.StatusNotFound},
		{name: "MethodNotAllowed", method: http.MethodDelete, path: "/plain", code: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(ro, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, decodeBody(t, rec), "message")
		})
	}

	t.Run("ValidationFields", func(t *testing.T) {
		body := decodeBody(t, serve(ro, http.MethodGet, "/invalid", ""))
		assert.Equal(t, map[string]any{"phone": "Phone is a required field"}, body["error"])
	})
}

func TestRouter_Health(t *testing.T) {
	rec := serve(newTestRouter(t, "app: {}"), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestRouter_Maintenance(t *testing.T) {
	ro := newTestRouter(t, "app:\n  maintenance:\n    endpoints: /busy/:id\n")
	ro.GET("/busy/:id", func(*Request) (any, error) { return map[string]string{}, nil })
	ro.GET("/free", func(*Request) (any, error) { return map[string]string{}, nil })

	assert.Equal(t, http.StatusServiceUnavailable, serve(ro, http.MethodGet, "/busy/1", "").Code)
	assert.Equal(t, http.StatusOK, serve(ro, http.MethodGet, "/free", "").Code)
}

func TestRouter_CorrelationIDFromHeader(t *testing.T) {
	ro := newTestRouter(t, "app: {}")
	var seen string
	ro.GET("/cid", func(r *Request) (any, error) {
		seen = instrument.GetCorrelationID(r.Context())
		return map[string]string{}, nil
	})

	rec := serve(ro, http.MethodGet, "/cid", "", HeaderRequestID, "  from-proxy ")

	assert.Equal(t, "from-proxy", seen)
	assert.Equal(t, "from-proxy", rec.Header().Get(HeaderCorrelationID))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.2")
	assert.Equal(t, "203.0.113.9", clientIP(req))

	req.Header.Set("X-Real-IP", "not-an-ip")
	assert.Equal(t, "203.0.113.9", clientIP(req))

	req.Header.Set("True-Client-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", clientIP(req))
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "h") }), mw("a"), nil, mw("b"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"a", "b", "h"}, order)
}
