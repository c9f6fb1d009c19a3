package app

import (
	"context"
	"net/http"

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

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	uuid      uid.StringID

	// resources, mail and messaging are optional
	store     *store.Memory
	mail      mail.Mail
	messaging messaging.Messaging

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.build()

	return app
}

// build wires everything that depends on the loaded configuration.
func (a *App) build() {
	a.initInstrument()
	a.initLibraries()
	a.initStore()
	a.initMail()
	a.initMessaging()
	a.initHTTPServer()
	a.initModules()
	a.initClosers()
}
