package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/passcode/internal/delivery/usecase"
	"github.com/shandysiswandi/passcode/internal/pkg/instrument"
	"github.com/shandysiswandi/passcode/internal/pkg/messaging"
	"github.com/shandysiswandi/passcode/internal/pkg/uid"
	"github.com/shandysiswandi/passcode/internal/shared/event"
)

type uc interface {
	ConsumePasscodeIssued(ctx context.Context, in usecase.ConsumePasscodeIssuedInput) error
}

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	if cID := messaging.HeaderValue(headers, event.HeaderCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) PasscodeIssued(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("delivery.inbound.mq").Start(ctx, "PasscodeIssued")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: passcode issued", "msg_body", string(body))

	var payload event.PasscodeIssuedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of passcode issued", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumePasscodeIssued(ctx, usecase.ConsumePasscodeIssuedInput{
		Identifier: payload.Identifier,
		Content:    payload.Content,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume passcode issued", "identifier", payload.Identifier, "error", err)
		return err
	}

	return nil
}
