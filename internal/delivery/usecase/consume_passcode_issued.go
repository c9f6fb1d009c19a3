package usecase

import (
	"context"
	"log/slog"
)

type ConsumePasscodeIssuedInput struct {
	Identifier string `validate:"required,phone"`
	Content    string `validate:"required"`
}

// ConsumePasscodeIssued delivers a passcode published by the otp module.
// Malformed events are logged and dropped.
func (s *Usecase) ConsumePasscodeIssued(ctx context.Context, in ConsumePasscodeIssuedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumePasscodeIssued")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	return s.Deliver(ctx, in.Identifier, in.Content).Err()
}
