package filter

import (
	"context"
	"encoding/hex"
	"log/slog"
	"strconv"
	"time"

	"github.com/libsv/go-bk/base58"
	"github.com/patrickmn/go-cache"

	"github.com/chainsink/geyser-sink/internal/events"
	"github.com/chainsink/geyser-sink/internal/queue"
	"github.com/chainsink/geyser-sink/internal/stats"
)

// Filter applies the allow-list to account updates, converts events into records and enqueues
// them for the executor. Slot status and block events are never filtered.
type Filter struct {
	includePubkeys map[string]struct{}
	includeOwners  map[string]struct{}
	queues         *queue.Queues
	stats          *stats.Stats
	logger         *slog.Logger
	duplicates     *cache.Cache
}

func WithDuplicateWindow(window time.Duration) func(*Filter) {
	return func(f *Filter) {
		if window <= 0 {
			f.duplicates = nil
			return
		}

		f.duplicates = cache.New(window, 2*window)
	}
}

func New(logger *slog.Logger, queues *queue.Queues, s *stats.Stats, includeOwners []string, includePubkeys []string, opts ...func(*Filter)) *Filter {
	f := &Filter{
		includePubkeys: toSet(includePubkeys),
		includeOwners:  toSet(includeOwners),
		queues:         queues,
		stats:          s,
		logger:         logger.With(slog.String("module", "filter")),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Include reports whether an account is in the allow-list, either by its own key or by the key of
// its owning program.
func (f *Filter) Include(pubkey []byte, owner []byte) bool {
	_, found := f.includePubkeys[base58.Encode(pubkey)]
	if found {
		return true
	}

	_, found = f.includeOwners[base58.Encode(owner)]
	return found
}

func (f *Filter) HandleAccount(_ context.Context, update *events.UpdateAccount) error {
	pubkey, owner := update.Account.Keys()
	if !f.Include(pubkey, owner) {
		f.stats.FilteredOut()
		return nil
	}

	record, err := update.ToRecord()
	if err != nil {
		f.stats.ConversionError(stats.EntityAccount)
		f.logger.Error("Failed to convert account update", slog.String("pubkey", base58.Encode(pubkey)), slog.Uint64("slot", update.Slot), slog.String("err", err.Error()))
		return err
	}

	if f.duplicates != nil {
		key := hex.EncodeToString(record.Pubkey) + ":" + strconv.FormatInt(record.Slot, 10) + ":" + strconv.FormatInt(record.WriteVersion, 10)
		err = f.duplicates.Add(key, struct{}{}, cache.DefaultExpiration)
		if err != nil {
			f.stats.DuplicateSkipped()
			return nil
		}
	}

	f.queues.Accounts.Push(record)
	return nil
}

func (f *Filter) HandleSlotStatus(_ context.Context, update *events.UpdateSlotStatus) error {
	record, err := update.ToRecord()
	if err != nil {
		f.stats.ConversionError(stats.EntitySlotStatus)
		f.logger.Error("Failed to convert slot status update", slog.Uint64("slot", update.Slot), slog.String("err", err.Error()))
		return err
	}

	f.queues.SlotStatuses.Push(record)
	return nil
}

func (f *Filter) HandleBlock(_ context.Context, notification *events.NotifyBlockMetaData) error {
	record, err := notification.ToRecord()
	if err != nil {
		f.stats.ConversionError(stats.EntityBlock)
		f.logger.Error("Failed to convert block metadata", slog.String("err", err.Error()))
		return err
	}

	f.queues.Blocks.Push(record)
	return nil
}

func toSet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}

	return set
}
