package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/chainsink/geyser-sink/internal/events"
	"github.com/chainsink/geyser-sink/internal/mq"
	"github.com/chainsink/geyser-sink/internal/stats"
	"github.com/chainsink/geyser-sink/internal/tracing"
)

var (
	ErrFailedToSubscribe = errors.New("failed to subscribe")
	ErrDispatcherStopped = errors.New("dispatcher stopped")
	ErrUnknownKind       = errors.New("unknown event kind")
)

const defaultWorkers = 16

// EventHandler receives decoded events. Returned errors are final for the event.
type EventHandler interface {
	HandleAccount(ctx context.Context, update *events.UpdateAccount) error
	HandleSlotStatus(ctx context.Context, update *events.UpdateSlotStatus) error
	HandleBlock(ctx context.Context, notification *events.NotifyBlockMetaData) error
}

type Subscription struct {
	Topic string
	Kind  events.Kind
}

// Dispatcher decodes messages of the subscribed topics and hands them to the event handler on a
// bounded pool of workers. Receiving blocks while all workers are busy.
type Dispatcher struct {
	mqClient mq.MessageQueueClient
	handler  EventHandler
	stats    *stats.Stats
	logger   *slog.Logger

	workerCount int
	workers     *errgroup.Group

	tracingEnabled    bool
	tracingAttributes []attribute.KeyValue

	ctx       context.Context
	cancelAll context.CancelFunc
}

func WithWorkers(n int) func(*Dispatcher) {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workerCount = n
		}
	}
}

func WithTracer(attr ...attribute.KeyValue) func(*Dispatcher) {
	_, file, _, ok := runtime.Caller(1)

	return func(d *Dispatcher) {
		d.tracingEnabled = true
		if len(attr) > 0 {
			d.tracingAttributes = append(d.tracingAttributes, attr...)
		}

		if ok {
			d.tracingAttributes = append(d.tracingAttributes, attribute.String("file", file))
		}
	}
}

func New(logger *slog.Logger, mqClient mq.MessageQueueClient, handler EventHandler, s *stats.Stats, opts ...func(*Dispatcher)) *Dispatcher {
	d := &Dispatcher{
		mqClient:    mqClient,
		handler:     handler,
		stats:       s,
		logger:      logger.With(slog.String("module", "dispatcher")),
		workerCount: defaultWorkers,
	}

	for _, opt := range opts {
		opt(d)
	}

	d.workers = &errgroup.Group{}
	d.workers.SetLimit(d.workerCount)
	d.ctx, d.cancelAll = context.WithCancel(context.Background())

	return d
}

// Start subscribes to all topics. A failing subscription is returned as error and must be treated
// as fatal by the caller.
func (d *Dispatcher) Start(subscriptions []Subscription) error {
	for _, sub := range subscriptions {
		if sub.Topic == "" {
			continue
		}

		err := d.mqClient.Subscribe(sub.Topic, d.messageHandler(sub), d.errorHandler(sub))
		if err != nil {
			return errors.Join(ErrFailedToSubscribe, fmt.Errorf("topic %s: %w", sub.Topic, err))
		}

		d.stats.TopicSubscribed(sub.Topic)
		d.logger.Info("Consuming topic", slog.String("topic", sub.Topic), slog.String("kind", string(sub.Kind)))
	}

	return nil
}

func (d *Dispatcher) messageHandler(sub Subscription) func([]byte) error {
	spanAttributes := append(slices.Clone(d.tracingAttributes), attribute.String("topic", sub.Topic))

	return func(payload []byte) error {
		if len(payload) == 0 {
			return nil
		}

		if d.ctx.Err() != nil {
			return ErrDispatcherStopped
		}

		task, err := d.decode(sub.Kind, payload)
		if err != nil {
			d.stats.DeserializeError()
			d.logger.Warn("Failed to decode message", slog.String("topic", sub.Topic), slog.String("err", err.Error()))
			return nil
		}

		d.stats.MessageReceived(sub.Topic, len(payload))

		d.workers.Go(func() error {
			ctx, span := tracing.StartTracing(d.ctx, "Dispatcher_handle", d.tracingEnabled, spanAttributes...)
			handleErr := task(ctx)
			tracing.EndTracing(span, handleErr)

			if handleErr != nil {
				d.logger.Debug("Event dropped", slog.String("topic", sub.Topic), slog.String("err", handleErr.Error()))
			}

			return nil
		})

		return nil
	}
}

func (d *Dispatcher) errorHandler(sub Subscription) func(error) {
	return func(err error) {
		d.stats.ConsumerError()
		d.logger.Warn("Failed to receive message", slog.String("topic", sub.Topic), slog.String("err", err.Error()))
	}
}

func (d *Dispatcher) decode(kind events.Kind, payload []byte) (func(ctx context.Context) error, error) {
	switch kind {
	case events.KindUpdateAccount:
		update, err := events.DecodeUpdateAccount(payload)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) error { return d.handler.HandleAccount(ctx, update) }, nil
	case events.KindUpdateSlot:
		update, err := events.DecodeUpdateSlotStatus(payload)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) error { return d.handler.HandleSlotStatus(ctx, update) }, nil
	case events.KindNotifyBlock:
		notification, err := events.DecodeNotifyBlockMetaData(payload)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) error { return d.handler.HandleBlock(ctx, notification) }, nil
	}

	return nil, errors.Join(ErrUnknownKind, fmt.Errorf("kind: %s", kind))
}

// Shutdown stops accepting messages and waits for running workers. The message queue client has to
// be shut down before.
func (d *Dispatcher) Shutdown() {
	d.cancelAll()
	_ = d.workers.Wait()
}
