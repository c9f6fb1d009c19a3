// Package provider holds the outbound adapters the delivery router can pick
// from. Each adapter reports itself unconfigured when its credentials are
// missing so the router can skip it.
package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shandysiswandi/passcode/internal/delivery/entity"
	"github.com/shandysiswandi/passcode/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultHTTPTimeout = 15 * time.Second
	maxErrorBodyBytes  = 512
)

var errNotConfigured = errors.New("provider not configured")

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}

// do sends req and classifies the result: transport errors, 429 and 5xx are
// transient, any other non-2xx is permanent.
func do(client *http.Client, req *http.Request) error {
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return entity.Transient(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		//nolint:errcheck // drain for connection reuse
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	//nolint:errcheck // best effort for the error message
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	err = fmt.Errorf("request failed status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return entity.Transient(err)
	}
	return err
}

func startSpan(ctx context.Context, ins instrument.Instrumentation, provider string) (context.Context, trace.Span) {
	return ins.Tracer("delivery.outbound.provider").Start(ctx, "Send",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("delivery.provider", provider)),
	)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
