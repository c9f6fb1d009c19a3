package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shandysiswandi/passcode/internal/delivery/entity"
	"github.com/shandysiswandi/passcode/internal/pkg/config"
	"github.com/shandysiswandi/passcode/internal/pkg/instrument"
	"github.com/shandysiswandi/passcode/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name       string
	configured bool
	send       func(ctx context.Context) error
	calls      atomic.Int32
	lastBody   string
}

func (f *fakeProvider) Name() string     { return f.name }
func (f *fakeProvider) Configured() bool { return f.configured }

func (f *fakeProvider) Send(ctx context.Context, _, body string) error {
	f.calls.Add(1)
	f.lastBody = body
	if f.send == nil {
		return nil
	}
	return f.send(ctx)
}

func failWith(err error) func(context.Context) error {
	return func(context.Context) error { return err }
}

func newTestUsecase(t *testing.T, providers ...Provider) *Usecase {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
modules:
  delivery:
    provider_timeout_ms: 100
    retry:
      max_retries: 2
      backoff_ms: 1
`))
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	return New(Dependency{Providers: providers, Config: cfg, Validator: v, Instrument: instrument.NewNoop()})
}

func TestDeliver_FallbackToSecond(t *testing.T) {
	a := &fakeProvider{name: "a", configured: true, send: failWith(errors.New("rejected"))}
	b := &fakeProvider{name: "b", configured: true}
	c := &fakeProvider{name: "c", configured: true}

	out := newTestUsecase(t, a, b, c).Deliver(context.Background(), "+923001234567", "code 123456")

	assert.True(t, out.Delivered())
	assert.Equal(t, "b", out.Provider)
	require.Len(t, out.Failures, 1)
	assert.Equal(t, "a", out.Failures[0].Provider)
	assert.Equal(t, "code 123456", b.lastBody)
	assert.Zero(t, c.calls.Load(), "stops at first success")
}

func TestDeliver_SkipsUnconfigured(t *testing.T) {
	a := &fakeProvider{name: "a", configured: false}
	b := &fakeProvider{name: "b", configured: true}

	out := newTestUsecase(t, a, b).Deliver(context.Background(), "+923001234567", "x")

	assert.Equal(t, "b", out.Provider)
	assert.Empty(t, out.Failures)
	assert.Zero(t, a.calls.Load())
}

func TestDeliver_AllFail(t *testing.T) {
	a := &fakeProvider{name: "a", configured: true, send: failWith(errors.New("a down"))}
	b := &fakeProvider{name: "b", configured: true, send: failWith(errors.New("b down"))}

	out := newTestUsecase(t, a, b).Deliver(context.Background(), "+923001234567", "x")

	assert.False(t, out.Delivered())
	require.Len(t, out.Failures, 2)
	assert.ErrorContains(t, out.Err(), "a down")
	assert.ErrorContains(t, out.Err(), "b down")
}

func TestDeliver_NoneConfigured(t *testing.T) {
	out := newTestUsecase(t, &fakeProvider{name: "a"}).Deliver(context.Background(), "+923001234567", "x")

	assert.False(t, out.Delivered())
	assert.Empty(t, out.Failures)
	assert.ErrorIs(t, out.Err(), entity.ErrNoProvider)
}

func TestDeliver_TimeoutMovesOn(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	// Ignores its context entirely.
	hang := &fakeProvider{name: "hang", configured: true, send: func(context.Context) error {
		<-release
		return nil
	}}
	ok := &fakeProvider{name: "ok", configured: true}

	start := time.Now()
	out := newTestUsecase(t, hang, ok).Deliver(context.Background(), "+923001234567", "x")

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, "ok", out.Provider)
	require.Len(t, out.Failures, 1)
	assert.ErrorIs(t, out.Failures[0].Err, context.DeadlineExceeded)
}

func TestDeliver_RetriesTransient(t *testing.T) {
	var n atomic.Int32
	flaky := &fakeProvider{name: "flaky", configured: true, send: func(context.Context) error {
		if n.Add(1) < 3 {
			return entity.Transient(errors.New("503"))
		}
		return nil
	}}

	out := newTestUsecase(t, flaky).Deliver(context.Background(), "+923001234567", "x")

	assert.Equal(t, "flaky", out.Provider)
	assert.Equal(t, int32(3), flaky.calls.Load())
}

func TestDeliver_PermanentNotRetried(t *testing.T) {
	p := &fakeProvider{name: "p", configured: true, send: failWith(errors.New("invalid number"))}

	newTestUsecase(t, p).Deliver(context.Background(), "+923001234567", "x")

	assert.Equal(t, int32(1), p.calls.Load())
}

func TestDeliver_PanickingProvider(t *testing.T) {
	bad := &fakeProvider{name: "bad", configured: true, send: func(context.Context) error { panic("nil map") }}
	good := &fakeProvider{name: "good", configured: true}

	out := newTestUsecase(t, bad, good).Deliver(context.Background(), "+923001234567", "x")

	assert.Equal(t, "good", out.Provider)
	assert.ErrorContains(t, out.Failures[0].Err, "provider panic")
}

func TestOrder(t *testing.T) {
	a, b, c := &fakeProvider{name: "a"}, &fakeProvider{name: "b"}, &fakeProvider{name: "c"}
	all := []Provider{a, b, c}

	assert.Equal(t, all, Order(all, nil))
	assert.Equal(t, []Provider{c, a}, Order(all, []string{"c", "unknown", "a", "c"}))
}

func TestConsumePasscodeIssued(t *testing.T) {
	p := &fakeProvider{name: "p", configured: true}
	uc := newTestUsecase(t, p)

	require.NoError(t, uc.ConsumePasscodeIssued(context.Background(), ConsumePasscodeIssuedInput{
		Identifier: "+923001234567",
		Content:    "code 123456",
	}))
	assert.Equal(t, int32(1), p.calls.Load())

	// Malformed events are dropped without delivery.
	require.NoError(t, uc.ConsumePasscodeIssued(context.Background(), ConsumePasscodeIssuedInput{Identifier: "nope"}))
	assert.Equal(t, int32(1), p.calls.Load())

	failing := newTestUsecase(t, &fakeProvider{name: "f", configured: true, send: failWith(errors.New("down"))})
	assert.Error(t, failing.ConsumePasscodeIssued(context.Background(), ConsumePasscodeIssuedInput{
		Identifier: "+923001234567",
		Content:    "x",
	}))
}
