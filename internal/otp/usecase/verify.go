package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/passcode/internal/pkg/goerror"
)

type VerifyInput struct {
	Identifier string `validate:"required"`
	Candidate  string `validate:"required"`
}

type VerifyOutput struct {
	Verified bool
}

// Verify redeems the pending passcode. Unknown identifiers, expired codes and
// wrong codes all yield Verified=false.
func (s *Usecase) Verify(ctx context.Context, in VerifyInput) (*VerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "Verify")
	defer span.End()

	in.Identifier = strings.TrimSpace(in.Identifier)
	in.Candidate = strings.TrimSpace(in.Candidate)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	id := s.normalizer.Normalize(in.Identifier)
	if id == "" {
		return &VerifyOutput{Verified: false}, nil
	}

	verified := s.store.Redeem(id, in.Candidate)
	slog.InfoContext(ctx, "passcode verification", "identifier", id, "verified", verified)

	return &VerifyOutput{Verified: verified}, nil
}
