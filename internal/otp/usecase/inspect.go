package usecase

import (
	"context"

	"github.com/shandysiswandi/passcode/internal/otp/entity"
	"github.com/shandysiswandi/passcode/internal/pkg/goerror"
)

type InspectOutput struct {
	Entries []entity.Entry
	Stats   entity.Stats
}

// Inspect lists every stored passcode. Development only.
func (s *Usecase) Inspect(ctx context.Context) (*InspectOutput, error) {
	_, span := s.startSpan(ctx, "Inspect")
	defer span.End()

	if !s.debug {
		return nil, goerror.NewBusiness("Debug introspection is disabled", goerror.CodeUnavailable)
	}

	return &InspectOutput{Entries: s.store.Entries(), Stats: s.store.Stats()}, nil
}
