package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/passcode/internal/pkg/goerror"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type IssueInput struct {
	Identifier string `validate:"required"`
}

type IssueOutput struct {
	Accepted  bool
	ExpiresIn time.Duration
	// Secret is set only when the service runs with secret exposure enabled.
	Secret string
}

// Issue creates a passcode for the identifier, replacing any pending one, and
// schedules its delivery. Delivery problems never fail the call.
func (s *Usecase) Issue(ctx context.Context, in IssueInput) (*IssueOutput, error) {
	ctx, span := s.startSpan(ctx, "Issue")
	defer span.End()

	in.Identifier = strings.TrimSpace(in.Identifier)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	id := s.normalizer.Normalize(in.Identifier)
	if id == "" {
		return nil, goerror.NewInvalidInput(nil, "identifier", "identifier must contain digits")
	}

	secret, err := s.generator.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate passcode", "error", err)
		return nil, goerror.NewServer(err)
	}

	ttl := s.ttl()
	rec := s.store.Put(id, secret, ttl)

	content := fmt.Sprintf("%s: your verification code is %s. It expires in %d minutes.", s.appName(), secret, minutesCeil(ttl))
	s.dispatch(ctx, id, content)

	slog.InfoContext(ctx, "passcode issued", "identifier", id, "expires_at", rec.ExpiresAt)

	out := &IssueOutput{Accepted: true, ExpiresIn: ttl}
	if s.exposeSecret {
		out.Secret = secret
	}
	return out, nil
}

// dispatch runs the courier in the background with a context that outlives
// the request.
func (s *Usecase) dispatch(ctx context.Context, id, content string) {
	accepted := s.routine.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		if err := s.courier.Dispatch(ctx, id, content); err != nil {
			slog.ErrorContext(ctx, "failed to dispatch passcode", "identifier", id, "error", err)
		}
		return nil
	})

	outcome := "scheduled"
	if !accepted {
		outcome = "rejected"
		slog.WarnContext(ctx, "passcode dispatch rejected by goroutine manager", "identifier", id)
	}

	if s.dispatches != nil {
		s.dispatches.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}
