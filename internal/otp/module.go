package otp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/passcode/internal/delivery/entity"
	"github.com/shandysiswandi/passcode/internal/otp/inbound"
	"github.com/shandysiswandi/passcode/internal/otp/outbound/courier"
	"github.com/shandysiswandi/passcode/internal/otp/outbound/mq"
	"github.com/shandysiswandi/passcode/internal/otp/outbound/store"
	"github.com/shandysiswandi/passcode/internal/otp/usecase"
	"github.com/shandysiswandi/passcode/internal/pkg/config"
	"github.com/shandysiswandi/passcode/internal/pkg/goroutine"
	"github.com/shandysiswandi/passcode/internal/pkg/instrument"
	"github.com/shandysiswandi/passcode/internal/pkg/messaging"
	"github.com/shandysiswandi/passcode/internal/pkg/otp"
	"github.com/shandysiswandi/passcode/internal/pkg/phone"
	"github.com/shandysiswandi/passcode/internal/pkg/router"
	"github.com/shandysiswandi/passcode/internal/pkg/validator"
)

const (
	DeliveryModeInline    = "inline"
	DeliveryModeMessaging = "messaging"
)

var (
	ErrDebugInProduction   = errors.New("otp: debug flags must be off in production")
	ErrMessagingNotEnabled = errors.New("otp: messaging delivery mode requires a broker")
	ErrDeliveryMissing     = errors.New("otp: inline delivery mode requires the delivery router")
)

type deliverer interface {
	Deliver(ctx context.Context, destination, body string) entity.Outcome
}

type Dependency struct {
	Router     *router.Router             `validate:"required"`
	Store      *store.Memory              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	// Delivery is used by the inline courier.
	Delivery deliverer
	// Messaging is used by the messaging courier.
	Messaging messaging.Publisher
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	cfg := dep.Config
	debug := cfg.GetBool("modules.otp.debug.enabled")
	exposeSecret := cfg.GetBool("modules.otp.debug.expose_secret")
	if (debug || exposeSecret) && isProduction(cfg.GetString("app.env")) {
		return ErrDebugInProduction
	}

	c, err := newCourier(dep)
	if err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		Store:   dep.Store,
		Courier: c,
		Normalizer: phone.NewNormalizer(phone.Config{
			CountryCode:    cfg.GetString("modules.otp.phone.country_code"),
			TrunkPrefix:    cfg.GetString("modules.otp.phone.trunk_prefix"),
			NationalLength: cfg.GetInt("modules.otp.phone.national_length"),
			IntlPrefix:     cfg.GetString("modules.otp.phone.intl_prefix"),
		}),
		Generator:    otp.NewNumeric(cfg.GetInt("modules.otp.digits")),
		Goroutine:    dep.Goroutine,
		Validator:    dep.Validator,
		Config:       cfg,
		Instrument:   dep.Instrument,
		ExposeSecret: exposeSecret,
		Debug:        debug,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	if debug {
		slog.Warn("otp debug endpoints are enabled")
		inbound.RegisterDebugEndpoint(dep.Router, uc)
	}
	if exposeSecret {
		slog.Warn("otp secrets are returned by the issue endpoint")
	}

	return nil
}

// isProduction treats any spelling of prod or production as production.
func isProduction(env string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(env)), "prod")
}

type dispatcher interface {
	Dispatch(ctx context.Context, identifier, content string) error
}

func newCourier(dep Dependency) (dispatcher, error) {
	switch mode := dep.Config.GetString("modules.otp.delivery_mode"); mode {
	case "", DeliveryModeInline:
		if dep.Delivery == nil {
			return nil, ErrDeliveryMissing
		}
		return courier.NewInline(dep.Delivery, dep.Instrument), nil
	case DeliveryModeMessaging:
		if dep.Messaging == nil {
			return nil, ErrMessagingNotEnabled
		}
		return mq.NewMessaging(dep.Messaging, dep.Instrument), nil
	default:
		return nil, fmt.Errorf("otp: unknown delivery mode %q", mode)
	}
}
