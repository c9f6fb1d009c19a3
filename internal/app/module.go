package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/passcode/internal/delivery"
	"github.com/shandysiswandi/passcode/internal/otp"
)

func (a *App) initModules() {
	deliveryUC, err := delivery.New(delivery.Dependency{
		Ctx:        a.ctx,
		Config:     a.config,
		Instrument: a.ins,
		Validator:  a.validator,
		UUID:       a.uuid,
		Goroutine:  a.goroutine,
		Mail:       a.mail,
		Messaging:  a.messaging,
	})
	if err != nil {
		slog.Error("failed to init module delivery", "error", err)
		os.Exit(1)
	}

	if err := otp.New(otp.Dependency{
		Router:     a.router,
		Store:      a.store,
		Goroutine:  a.goroutine,
		Config:     a.config,
		Instrument: a.ins,
		Validator:  a.validator,
		Delivery:   deliveryUC,
		Messaging:  a.messaging,
	}); err != nil {
		slog.Error("failed to init module otp", "error", err)
		os.Exit(1)
	}
}
