// Package courier hands issued passcodes straight to the in-process delivery
// router.
package courier

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/passcode/internal/delivery/entity"
	"github.com/shandysiswandi/passcode/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type deliverer interface {
	Deliver(ctx context.Context, destination, body string) entity.Outcome
}

type Inline struct {
	router deliverer
	ins    instrument.Instrumentation
}

func NewInline(router deliverer, ins instrument.Instrumentation) *Inline {
	return &Inline{router: router, ins: ins}
}

func (c *Inline) Dispatch(ctx context.Context, identifier, content string) error {
	ctx, span := c.ins.Tracer("otp.outbound.courier").Start(ctx, "Dispatch")
	defer span.End()

	out := c.router.Deliver(ctx, identifier, content)
	if err := out.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.String("provider", out.Provider))
	slog.DebugContext(ctx, "passcode handed to provider", "identifier", identifier, "provider", out.Provider)
	return nil
}
