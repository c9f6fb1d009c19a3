package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/passcode/internal/pkg/config"
	"github.com/shandysiswandi/passcode/internal/pkg/instrument"
	"github.com/shandysiswandi/passcode/internal/pkg/validator"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultProviderTimeout = 10 * time.Second
	defaultRetryBackoff    = 200 * time.Millisecond
	defaultMaxRetries      = 1
)

// Provider sends a text to a phone destination through one channel.
type Provider interface {
	// Name is the stable provider key used in config and telemetry.
	Name() string
	// Configured reports whether the credentials needed by Send are present.
	Configured() bool
	// Send delivers body to destination, honoring ctx cancellation.
	Send(ctx context.Context, destination, body string) error
}

type Dependency struct {
	Providers  []Provider
	Config     config.Config
	Validator  validator.Validator
	Instrument instrument.Instrumentation
}

type Usecase struct {
	providers []Provider
	cfg       config.Config
	validator validator.Validator
	ins       instrument.Instrumentation
	attempts  metric.Int64Counter
}

func New(dep Dependency) *Usecase {
	attempts, err := dep.Instrument.Meter("delivery.usecase").Int64Counter("delivery.attempts",
		metric.WithDescription("Delivery attempts per provider and outcome"))
	if err != nil {
		slog.Error("failed to create delivery attempts counter", "error", err)
	}

	return &Usecase{
		providers: dep.Providers,
		cfg:       dep.Config,
		validator: dep.Validator,
		ins:       dep.Instrument,
		attempts:  attempts,
	}
}

// Order returns providers arranged by names. Unknown names are ignored and
// providers not named are dropped; an empty names keeps the given order.
func Order(providers []Provider, names []string) []Provider {
	if len(names) == 0 {
		return providers
	}

	byName := lo.KeyBy(providers, func(p Provider) string { return p.Name() })
	return lo.FilterMap(lo.Uniq(names), func(name string, _ int) (Provider, bool) {
		p, ok := byName[name]
		return p, ok
	})
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("delivery.usecase").Start(ctx, name)
}

func (s *Usecase) providerTimeout() time.Duration {
	if d := s.cfg.GetMillisecond("modules.delivery.provider_timeout_ms"); d > 0 {
		return d
	}
	return defaultProviderTimeout
}

func (s *Usecase) retryBackoff() time.Duration {
	if d := s.cfg.GetMillisecond("modules.delivery.retry.backoff_ms"); d > 0 {
		return d
	}
	return defaultRetryBackoff
}

func (s *Usecase) maxRetries() uint64 {
	n := s.cfg.GetInt("modules.delivery.retry.max_retries")
	if n < 0 {
		return 0
	}
	if n == 0 {
		return defaultMaxRetries
	}
	return uint64(n)
}
