package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/passcode/internal/delivery/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

// Deliver tries each configured provider in order and stops at the first
// success. Unconfigured providers are skipped without an attempt.
func (s *Usecase) Deliver(ctx context.Context, destination, body string) entity.Outcome {
	ctx, span := s.startSpan(ctx, "Deliver")
	defer span.End()

	var out entity.Outcome
	for _, p := range s.providers {
		if !p.Configured() {
			slog.DebugContext(ctx, "delivery provider not configured, skipping", "provider", p.Name())
			continue
		}

		err := s.attempt(ctx, p, destination, body)
		s.count(ctx, p.Name(), err)
		if err == nil {
			slog.InfoContext(ctx, "passcode delivered", "provider", p.Name(), "destination", destination)
			out.Provider = p.Name()
			span.SetAttributes(attribute.String("delivery.provider", p.Name()))
			return out
		}

		slog.WarnContext(ctx, "delivery provider failed", "provider", p.Name(), "destination", destination, "error", err)
		out.Failures = append(out.Failures, entity.Attempt{Provider: p.Name(), Err: err})
	}

	err := out.Err()
	span.RecordError(err)
	span.SetStatus(codes.Error, "delivery failed")
	slog.ErrorContext(ctx, "passcode delivery failed on every provider",
		"destination", destination,
		"providers", lo.Map(out.Failures, func(a entity.Attempt, _ int) string { return a.Provider }),
		"error", err,
	)

	return out
}

// attempt bounds one provider, retries included, by the provider timeout.
// The result is awaited in a select so a provider that ignores its context
// cannot hold up the next one.
func (s *Usecase) attempt(ctx context.Context, p Provider, destination, body string) error {
	ctx, cancel := context.WithTimeout(ctx, s.providerTimeout())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if rvr := recover(); rvr != nil {
				done <- fmt.Errorf("provider panic: %v", rvr)
			}
		}()
		done <- s.sendWithRetry(ctx, p, destination, body)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("provider %s: %w", p.Name(), ctx.Err())
	}
}

func (s *Usecase) sendWithRetry(ctx context.Context, p Provider, destination, body string) error {
	b := retry.WithMaxRetries(s.maxRetries(), retry.NewExponential(s.retryBackoff()))

	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := p.Send(ctx, destination, body)
		if err != nil && entity.IsTransient(err) && !errors.Is(err, context.DeadlineExceeded) {
			slog.DebugContext(ctx, "transient provider error, retrying", "provider", p.Name(), "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
}

func (s *Usecase) count(ctx context.Context, provider string, err error) {
	if s.attempts == nil {
		return
	}

	outcome := "success"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		outcome = "timeout"
	case err != nil:
		outcome = "failure"
	}

	s.attempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("outcome", outcome),
	))
}
