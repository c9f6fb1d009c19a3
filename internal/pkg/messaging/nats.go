package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

var (
	// ErrNATSSubjectRequired is returned when the subject is empty.
	ErrNATSSubjectRequired = errors.New("messaging: nats subject is required")
	// ErrNATSURLRequired is returned when the NATS server URL is missing.
	ErrNATSURLRequired = errors.New("messaging: nats url is required")
	// ErrNATSHandlerRequired is returned when Consume is called with a nil handler.
	ErrNATSHandlerRequired = errors.New("messaging: nats handler is required")
)

const flushTimeout = 5 * time.Second

// NATSConfig configures the NATS implementation.
type NATSConfig struct {
	// URL is the NATS server address.
	URL string
	// Name identifies the connection on the server.
	Name string
	// Options are passed to the NATS client after the defaults.
	Options []nats.Option
}

// NATS is a messaging implementation backed by NATS core subjects.
type NATS struct {
	conn *nats.Conn

	mu     sync.Mutex
	subs   []*nats.Subscription
	closed bool
}

// NewNATS connects to the server and returns a NATS messaging client.
func NewNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.URL == "" {
		return nil, ErrNATSURLRequired
	}

	opts := append([]nats.Option{
		nats.Name(cfg.Name),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slog.Info("nats reconnected", "url", c.ConnectedUrlRedacted())
		}),
	}, cfg.Options...)

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("messaging: nats connect: %w", err)
	}

	return &NATS{conn: conn}, nil
}

// Close drains subscriptions and closes the NATS connection.
func (n *NATS) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	subs := n.subs
	n.subs = nil
	n.mu.Unlock()

	var errs []error
	for _, sub := range subs {
		errs = append(errs, sub.Drain())
	}
	errs = append(errs, n.conn.Drain())
	n.conn.Close()

	return errors.Join(errs...)
}

// Publish sends a message to a NATS subject and flushes the connection.
func (n *NATS) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if destination == "" {
		return PublishResult{}, ErrNATSSubjectRequired
	}
	if msg.Delay > 0 {
		return PublishResult{}, ErrUnsupported
	}

	if err := n.conn.PublishMsg(toNATSMsg(destination, msg)); err != nil {
		return PublishResult{}, fmt.Errorf("messaging: nats publish: %w", err)
	}
	if err := n.conn.FlushTimeout(flushTimeout); err != nil {
		return PublishResult{}, fmt.Errorf("messaging: nats flush: %w", err)
	}

	return PublishResult{Subject: destination, Timestamp: time.Now()}, nil
}

// Consume subscribes to source and blocks until ctx is done, then drains the
// subscription and waits for in-flight handlers.
func (n *NATS) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if source == "" {
		return ErrNATSSubjectRequired
	}
	if handler == nil {
		return ErrNATSHandlerRequired
	}

	co := newConsumeOptions(opts...)
	box := newInbox(co.concurrency)

	sub, err := n.conn.QueueSubscribe(source, co.queueGroup, func(m *nats.Msg) {
		if !box.send(m) {
			slog.WarnContext(ctx, "nats message dropped, consumer is stopping", "subject", source)
		}
	})
	if err != nil {
		return fmt.Errorf("messaging: nats subscribe: %w", err)
	}
	closed := sub.StatusChanged(nats.SubscriptionClosed)

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for m := range box.ch {
				wrapped := newNATSMessage(m, time.Now())
				herr := dispatch(ctx, handler, wrapped)
				if !co.autoAck || wrapped.hasResponded() {
					continue
				}
				if err := settle(ctx, wrapped, herr); err != nil {
					slog.WarnContext(ctx, "nats settle failed", "subject", source, "error", err)
				}
			}
		})
	}

	stop := func(cause error) error {
		uerr := sub.Drain()
		if uerr == nil {
			select {
			case <-closed:
			case <-time.After(flushTimeout):
				slog.WarnContext(ctx, "nats drain timed out", "subject", source)
			}
		}
		box.close()
		wg.Wait()
		return errors.Join(cause, uerr)
	}

	if err := n.track(sub); err != nil {
		return stop(err)
	}
	if err := n.conn.FlushTimeout(flushTimeout); err != nil {
		return stop(fmt.Errorf("messaging: nats flush: %w", err))
	}

	<-ctx.Done()
	return stop(ctx.Err())
}

// inbox hands subscription callbacks to the worker pool. Sends after close
// are dropped instead of panicking, since a draining subscription may still
// fire its callback.
type inbox struct {
	mu     sync.Mutex
	ch     chan *nats.Msg
	quit   chan struct{}
	closed bool
	once   sync.Once
}

func newInbox(size int) *inbox {
	return &inbox{ch: make(chan *nats.Msg, size), quit: make(chan struct{})}
}

// send blocks until a worker has room or the inbox closes, and reports
// whether m was queued.
func (b *inbox) send(m *nats.Msg) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return false
	}

	select {
	case b.ch <- m:
		return true
	case <-b.quit:
		return false
	}
}

func (b *inbox) close() {
	b.once.Do(func() {
		close(b.quit)

		b.mu.Lock()
		b.closed = true
		close(b.ch)
		b.mu.Unlock()
	})
}

func (n *NATS) track(sub *nats.Subscription) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return io.ErrClosedPipe
	}
	n.subs = append(n.subs, sub)
	return nil
}

func toNATSMsg(subject string, msg OutgoingMessage) *nats.Msg {
	nmsg := nats.NewMsg(subject)
	nmsg.Data = msg.Body
	for _, h := range msg.Headers {
		if h.Key != "" {
			nmsg.Header.Add(h.Key, string(h.Value))
		}
	}
	return nmsg
}
