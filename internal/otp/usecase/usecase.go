package usecase

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/shandysiswandi/passcode/internal/otp/entity"
	"github.com/shandysiswandi/passcode/internal/pkg/config"
	"github.com/shandysiswandi/passcode/internal/pkg/goroutine"
	"github.com/shandysiswandi/passcode/internal/pkg/instrument"
	"github.com/shandysiswandi/passcode/internal/pkg/otp"
	"github.com/shandysiswandi/passcode/internal/pkg/validator"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const defaultTTL = 15 * time.Minute

type store interface {
	Put(id, secret string, ttl time.Duration) entity.Record
	Redeem(id, candidate string) bool
	Entries() []entity.Entry
	Stats() entity.Stats
}

// courier hands a rendered passcode message to the delivery layer.
type courier interface {
	Dispatch(ctx context.Context, identifier, content string) error
}

type normalizer interface {
	Normalize(raw string) string
}

type Dependency struct {
	Store      store
	Courier    courier
	Normalizer normalizer
	Generator  otp.Generator
	Goroutine  *goroutine.Manager
	Validator  validator.Validator
	Config     config.Config
	Instrument instrument.Instrumentation

	// ExposeSecret returns the issued code in the Issue output.
	ExposeSecret bool
	// Debug enables Inspect.
	Debug bool
}

type Usecase struct {
	store        store
	courier      courier
	normalizer   normalizer
	generator    otp.Generator
	routine      *goroutine.Manager
	validator    validator.Validator
	cfg          config.Config
	ins          instrument.Instrumentation
	exposeSecret bool
	debug        bool
	dispatches   metric.Int64Counter
}

func New(dep Dependency) *Usecase {
	dispatches, err := dep.Instrument.Meter("otp.usecase").Int64Counter("otp.dispatches",
		metric.WithDescription("Passcode dispatches handed to the courier, by outcome"))
	if err != nil {
		slog.Error("failed to create otp dispatches counter", "error", err)
	}

	return &Usecase{
		store:        dep.Store,
		courier:      dep.Courier,
		normalizer:   dep.Normalizer,
		generator:    dep.Generator,
		routine:      dep.Goroutine,
		validator:    dep.Validator,
		cfg:          dep.Config,
		ins:          dep.Instrument,
		exposeSecret: dep.ExposeSecret,
		debug:        dep.Debug,
		dispatches:   dispatches,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("otp.usecase").Start(ctx, name)
}

// ttl is read on every issue so a reloaded config takes effect immediately.
func (s *Usecase) ttl() time.Duration {
	if d := s.cfg.GetSecond("modules.otp.ttl_seconds"); d > 0 {
		return d
	}
	return defaultTTL
}

func (s *Usecase) appName() string {
	if name := s.cfg.GetString("app.name"); name != "" {
		return name
	}
	return "Passcode"
}

func minutesCeil(d time.Duration) int {
	return int(math.Ceil(d.Minutes()))
}
