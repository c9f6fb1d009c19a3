package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/nats-io/nats.go"
	"github.com/rs/cors"
	"github.com/shandysiswandi/passcode/internal/otp/outbound/store"
	"github.com/shandysiswandi/passcode/internal/pkg/clock"
	"github.com/shandysiswandi/passcode/internal/pkg/config"
	"github.com/shandysiswandi/passcode/internal/pkg/goroutine"
	"github.com/shandysiswandi/passcode/internal/pkg/instrument"
	"github.com/shandysiswandi/passcode/internal/pkg/mail"
	"github.com/shandysiswandi/passcode/internal/pkg/messaging"
	"github.com/shandysiswandi/passcode/internal/pkg/router"
	"github.com/shandysiswandi/passcode/internal/pkg/uid"
	"github.com/shandysiswandi/passcode/internal/pkg/validator"
)

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("app.tz"))

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("app.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		LogLevel:         a.config.GetString("instrument.log_level"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator
}

func (a *App) initStore() {
	a.store = store.NewMemory(a.clock, a.config.GetSecond("modules.otp.sweep_interval_seconds"))
}

func (a *App) initMail() {
	if a.config.GetString("mail.host") == "" {
		slog.Info("mail is not configured, e-mail gateway provider disabled")
		return
	}

	mail, err := mail.NewSMTP(mail.SMTPConfig{
		Host:     a.config.GetString("mail.host"),
		Port:     a.config.GetInt("mail.port"),
		Username: a.config.GetString("mail.username"),
		Password: a.config.GetString("mail.password"),
		From:     a.config.GetString("mail.from"),
		TLSMode:  a.config.GetString("mail.tls_mode"),
		Timeout:  a.config.GetSecond("mail.timeout_seconds"),
	})
	if err != nil {
		slog.Error("failed to init mail", "error", err)
		os.Exit(1)
	}

	a.mail = mail
}

func (a *App) initMessaging() {
	url := a.config.GetString("messaging.nats.url")
	if url == "" {
		slog.Info("messaging is not configured, passcodes are delivered inline")
		return
	}

	client, err := messaging.NewNATS(messaging.NATSConfig{
		URL:  url,
		Name: a.config.GetString("messaging.nats.name"),
		Options: []nats.Option{
			nats.MaxReconnects(a.config.GetInt("messaging.nats.max_reconnects")),
			nats.Timeout(a.config.GetSecond("messaging.nats.timeout_seconds")),
			nats.ReconnectWait(a.config.GetSecond("messaging.nats.reconnect_wait_seconds")),
			nats.PingInterval(a.config.GetSecond("messaging.nats.ping_interval_seconds")),
			nats.MaxPingsOutstanding(a.config.GetInt("messaging.nats.max_pings_outstanding")),
			nats.RetryOnFailedConnect(a.config.GetBool("messaging.nats.retry_on_failed_connect")),
		},
	})
	if err != nil {
		slog.Error("failed to init messaging", "error", err, "url", url)
		os.Exit(1)
	}

	a.messaging = client
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Instrument: a.ins,
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Store",
			fn: func(context.Context) error {
				return a.store.Close()
			},
		},
		{
			name: "Messaging",
			fn: func(context.Context) error {
				if a.messaging == nil {
					return nil
				}
				return a.messaging.Close()
			},
		},
		{
			name: "Mail",
			fn: func(context.Context) error {
				if a.mail == nil {
					return nil
				}
				return a.mail.Close()
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
