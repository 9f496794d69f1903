package executor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/sync/errgroup"

	"github.com/chainsink/geyser-sink/internal/queue"
	"github.com/chainsink/geyser-sink/internal/stats"
	"github.com/chainsink/geyser-sink/internal/store"
)

const (
	defaultIdleInterval      = 500 * time.Millisecond
	defaultReconnectInterval = 2 * time.Second
	defaultMaxParallelWrites = 1
)

type ConnectionState int32

const (
	Connected ConnectionState = iota
	Disconnected
	Reconnecting
)

func (s ConnectionState) String() string {
	switch s {
	case Connected:
		return "CONNECTED"
	case Disconnected:
		return "DISCONNECTED"
	case Reconnecting:
		return "RECONNECTING"
	}

	return "UNKNOWN"
}

// Executor drains the retry queues into the store. Failed writes are pushed back to the tail of
// their queue and attempted again in a later round.
type Executor struct {
	store  store.SinkStore
	queues *queue.Queues
	stats  *stats.Stats
	logger *slog.Logger

	idleInterval      time.Duration
	reconnectInterval time.Duration
	maxParallelWrites int

	state   atomic.Int32
	writers *errgroup.Group

	ctx       context.Context
	cancelAll context.CancelFunc
	wg        *sync.WaitGroup
}

func WithIdleInterval(d time.Duration) func(*Executor) {
	return func(e *Executor) {
		if d > 0 {
			e.idleInterval = d
		}
	}
}

func WithReconnectInterval(d time.Duration) func(*Executor) {
	return func(e *Executor) {
		if d > 0 {
			e.reconnectInterval = d
		}
	}
}

func WithMaxParallelWrites(n int) func(*Executor) {
	return func(e *Executor) {
		if n > 0 {
			e.maxParallelWrites = n
		}
	}
}

func New(logger *slog.Logger, sinkStore store.SinkStore, queues *queue.Queues, s *stats.Stats, opts ...func(*Executor)) *Executor {
	e := &Executor{
		store:             sinkStore,
		queues:            queues,
		stats:             s,
		logger:            logger.With(slog.String("module", "executor")),
		idleInterval:      defaultIdleInterval,
		reconnectInterval: defaultReconnectInterval,
		maxParallelWrites: defaultMaxParallelWrites,
		wg:                &sync.WaitGroup{},
	}

	for _, opt := range opts {
		opt(e)
	}

	e.writers = &errgroup.Group{}
	e.writers.SetLimit(e.maxParallelWrites)
	e.ctx, e.cancelAll = context.WithCancel(context.Background())

	return e
}

func (e *Executor) State() ConnectionState {
	return ConnectionState(e.state.Load())
}

func (e *Executor) setState(state ConnectionState) {
	previous := ConnectionState(e.state.Swap(int32(state)))
	if previous != state {
		e.logger.Debug("Store connection state changed", slog.String("from", previous.String()), slog.String("to", state.String()))
	}
}

func (e *Executor) Start() {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		for {
			if e.ctx.Err() != nil {
				return
			}

			if !e.store.IsConnected() {
				err := e.reconnect(e.ctx)
				if err != nil {
					return
				}
			}

			if e.queues.Empty() {
				e.updateQueueDepth()

				select {
				case <-e.ctx.Done():
					return
				case <-time.After(e.idleInterval):
				}

				continue
			}

			e.round(e.ctx)
			e.updateQueueDepth()
		}
	}()
}

// round takes at most one record from every queue in the order accounts, blocks, slot statuses.
func (e *Executor) round(ctx context.Context) {
	if account, ok := e.queues.Accounts.Pop(); ok {
		e.writers.Go(func() error {
			write(ctx, e, stats.EntityAccount, account, e.store.UpsertAccount, e.queues.Accounts)
			return nil
		})
	}

	if block, ok := e.queues.Blocks.Pop(); ok {
		e.writers.Go(func() error {
			write(ctx, e, stats.EntityBlock, block, e.store.InsertBlock, e.queues.Blocks)
			return nil
		})
	}

	if slotStatus, ok := e.queues.SlotStatuses.Pop(); ok {
		e.writers.Go(func() error {
			write(ctx, e, stats.EntitySlotStatus, slotStatus, e.store.UpsertSlotStatus, e.queues.SlotStatuses)
			return nil
		})
	}
}

func write[T any](ctx context.Context, e *Executor, entity string, record T, upsert func(context.Context, T) error, q *queue.Queue[T]) {
	err := upsert(ctx, record)
	if err == nil {
		e.stats.RecordWritten(entity)
		return
	}

	q.Push(record)
	e.stats.WriteFailed(entity)

	if errors.Is(err, context.Canceled) {
		return
	}

	attrs := []any{slog.String("entity", entity), slog.String("err", err.Error())}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		attrs = append(attrs, slog.String("sqlstate", pgErr.Code))
	}

	e.logger.Error("Failed to write record, requeued", attrs...)
}

func (e *Executor) reconnect(ctx context.Context) error {
	e.setState(Disconnected)
	e.logger.Warn("Store connection lost, reconnecting", slog.String("interval", e.reconnectInterval.String()))
	e.setState(Reconnecting)

	operation := func() error {
		e.stats.ReconnectAttempt()
		return e.store.Reconnect(ctx)
	}

	notify := func(err error, next time.Duration) {
		e.logger.Error("Failed to reconnect to store", slog.String("next", next.String()), slog.String("err", err.Error()))
	}

	bo := backoff.WithContext(backoff.NewConstantBackOff(e.reconnectInterval), ctx)

	err := backoff.RetryNotify(operation, bo, notify)
	if err != nil {
		e.setState(Disconnected)
		return err
	}

	e.setState(Connected)
	e.logger.Info("Reconnected to store", slog.Int("pending", e.pending()))

	return nil
}

func (e *Executor) pending() int {
	return e.queues.Accounts.Len() + e.queues.Blocks.Len() + e.queues.SlotStatuses.Len()
}

func (e *Executor) updateQueueDepth() {
	e.stats.SetQueueDepth(stats.EntityAccount, e.queues.Accounts.Len())
	e.stats.SetQueueDepth(stats.EntityBlock, e.queues.Blocks.Len())
	e.stats.SetQueueDepth(stats.EntitySlotStatus, e.queues.SlotStatuses.Len())
}

// Shutdown stops the poll loop and waits for running writes. Records still queued are lost.
func (e *Executor) Shutdown() {
	e.cancelAll()
	e.wg.Wait()
	_ = e.writers.Wait()

	if pending := e.pending(); pending > 0 {
		e.logger.Warn("Executor stopped with pending records", slog.Int("pending", pending))
	}
}
