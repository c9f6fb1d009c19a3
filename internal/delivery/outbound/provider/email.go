package provider

import (
	"context"

	"github.com/shandysiswandi/passcode/internal/pkg/instrument"
	"github.com/shandysiswandi/passcode/internal/pkg/mail"
	"github.com/shandysiswandi/passcode/internal/pkg/phone"
)

// EmailGatewayConfig configures the carrier e-mail-to-SMS gateway adapter.
type EmailGatewayConfig struct {
	// Domain is the gateway domain; messages go to <digits>@Domain.
	Domain  string
	Subject string
}

// EmailGateway delivers SMS by mailing the carrier's e-mail-to-SMS gateway.
type EmailGateway struct {
	cfg    EmailGatewayConfig
	mailer mail.Mail
	ins    instrument.Instrumentation
}

// NewEmailGateway returns the adapter; a nil mailer leaves it unconfigured.
func NewEmailGateway(cfg EmailGatewayConfig, mailer mail.Mail, ins instrument.Instrumentation) *EmailGateway {
	return &EmailGateway{cfg: cfg, mailer: mailer, ins: ins}
}

func (e *EmailGateway) Name() string { return "email" }

func (e *EmailGateway) Configured() bool {
	return e.cfg.Domain != "" && e.mailer != nil
}

func (e *EmailGateway) Send(ctx context.Context, destination, body string) (err error) {
	ctx, span := startSpan(ctx, e.ins, e.Name())
	defer func() { endSpan(span, err) }()

	if !e.Configured() {
		return errNotConfigured
	}

	return e.mailer.Send(ctx, mail.Message{
		To:       []string{phone.Digits(destination) + "@" + e.cfg.Domain},
		Subject:  e.cfg.Subject,
		TextBody: body,
	})
}
