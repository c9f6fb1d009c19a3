package delivery

import (
	"context"

	"github.com/shandysiswandi/passcode/internal/delivery/inbound"
	"github.com/shandysiswandi/passcode/internal/delivery/outbound/provider"
	"github.com/shandysiswandi/passcode/internal/delivery/usecase"
	"github.com/shandysiswandi/passcode/internal/pkg/config"
	"github.com/shandysiswandi/passcode/internal/pkg/goroutine"
	"github.com/shandysiswandi/passcode/internal/pkg/instrument"
	"github.com/shandysiswandi/passcode/internal/pkg/mail"
	"github.com/shandysiswandi/passcode/internal/pkg/messaging"
	"github.com/shandysiswandi/passcode/internal/pkg/uid"
	"github.com/shandysiswandi/passcode/internal/pkg/validator"
)

type Dependency struct {
	Ctx        context.Context
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	// Mail backs the e-mail gateway provider; nil leaves it unconfigured.
	Mail mail.Mail
	// Messaging is set only when passcodes are delivered through the broker.
	Messaging messaging.Messaging
}

// New builds the delivery router over the configured providers and, when a
// broker is present, starts its consumers. The returned usecase is what the
// otp module's inline courier calls.
func New(dep Dependency) (*usecase.Usecase, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	cfg, ins := dep.Config, dep.Instrument
	timeout := cfg.GetMillisecond("modules.delivery.provider_timeout_ms")

	providers := []usecase.Provider{
		provider.NewTwilio(provider.TwilioConfig{
			AccountSID: cfg.GetString("modules.delivery.twilio.account_sid"),
			AuthToken:  cfg.GetString("modules.delivery.twilio.auth_token"),
			From:       cfg.GetString("modules.delivery.twilio.from"),
			BaseURL:    cfg.GetString("modules.delivery.twilio.base_url"),
			Timeout:    timeout,
		}, ins),
		provider.NewSMSLocal(provider.SMSLocalConfig{
			APIKey:  cfg.GetString("modules.delivery.smslocal.api_key"),
			Sender:  cfg.GetString("modules.delivery.smslocal.sender"),
			BaseURL: cfg.GetString("modules.delivery.smslocal.base_url"),
			Timeout: timeout,
		}, ins),
		provider.NewWhatsApp(provider.WhatsAppConfig{
			AccessToken:   cfg.GetString("modules.delivery.whatsapp.access_token"),
			PhoneNumberID: cfg.GetString("modules.delivery.whatsapp.phone_number_id"),
			APIVersion:    cfg.GetString("modules.delivery.whatsapp.api_version"),
			BaseURL:       cfg.GetString("modules.delivery.whatsapp.base_url"),
			Timeout:       timeout,
		}, ins),
		provider.NewEmailGateway(provider.EmailGatewayConfig{
			Domain:  cfg.GetString("modules.delivery.email.gateway_domain"),
			Subject: cfg.GetString("modules.delivery.email.subject"),
		}, dep.Mail, ins),
	}

	uc := usecase.New(usecase.Dependency{
		Providers:  usecase.Order(providers, cfg.GetArray("modules.delivery.order")),
		Config:     cfg,
		Validator:  dep.Validator,
		Instrument: ins,
	})

	if dep.Ctx != nil && dep.Messaging != nil {
		inbound.RegisterMQConsumer(dep.Ctx, cfg, dep.Goroutine, dep.Messaging, dep.UUID, uc, ins)
	}

	return uc, nil
}
