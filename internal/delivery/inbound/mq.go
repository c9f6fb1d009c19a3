package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/passcode/internal/pkg/config"
	"github.com/shandysiswandi/passcode/internal/pkg/goroutine"
	"github.com/shandysiswandi/passcode/internal/pkg/instrument"
	"github.com/shandysiswandi/passcode/internal/pkg/messaging"
	"github.com/shandysiswandi/passcode/internal/pkg/uid"
	"github.com/shandysiswandi/passcode/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	consumer messaging.Consumer,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	h := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enabled := cfg.GetArray("modules.delivery.consumer_names")
	concurrency := cfg.GetInt("modules.delivery.consumer_concurrency")

	consumers := []struct {
		name    string
		topic   string
		handler messaging.Handler
	}{
		{
			name:    event.PasscodeIssuedConsumerDelivery,
			topic:   event.PasscodeIssuedDestination,
			handler: h.PasscodeIssued,
		},
	}

	for _, c := range consumers {
		if !slices.Contains(enabled, c.name) {
			continue
		}

		routine.Go(ctx, func(pCtx context.Context) error {
			slog.InfoContext(pCtx, "Running job for handling consumer", "consumer", c.name)
			return messaging.IgnoreCanceled(consumer.Consume(pCtx,
				c.topic,
				c.handler,
				messaging.WithQueueGroup(c.name),
				messaging.WithAutoAck(true),
				messaging.WithConcurrency(concurrency),
			))
		})
	}
}
