package queue

import (
	"sync"

	"github.com/chainsink/geyser-sink/internal/store"
)

// Queue is an unbounded FIFO safe for concurrent producers and consumers.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
}

func New[T any]() *Queue[T] {
	return &Queue[T]{}
}

func (q *Queue[T]) Push(item T) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
}

// Pop removes the oldest item. It never blocks.
func (q *Queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if len(q.items) == 0 {
		return zero, false
	}

	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]

	if len(q.items) == 0 {
		q.items = nil
	}

	return item, true
}

func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.items)
}

func (q *Queue[T]) IsEmpty() bool {
	return q.Len() == 0
}

// Queues holds the pending writes shared between the filter and the executor.
type Queues struct {
	Accounts     *Queue[*store.Account]
	Blocks       *Queue[*store.Block]
	SlotStatuses *Queue[*store.SlotStatus]
}

func NewQueues() *Queues {
	return &Queues{
		Accounts:     New[*store.Account](),
		Blocks:       New[*store.Block](),
		SlotStatuses: New[*store.SlotStatus](),
	}
}

func (q *Queues) Empty() bool {
	return q.Accounts.IsEmpty() && q.Blocks.IsEmpty() && q.SlotStatuses.IsEmpty()
}
