package dispatcher_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainsink/geyser-sink/internal/dispatcher"
	"github.com/chainsink/geyser-sink/internal/dispatcher/mocks"
	"github.com/chainsink/geyser-sink/internal/events"
	mqMocks "github.com/chainsink/geyser-sink/internal/mq/mocks"
	"github.com/chainsink/geyser-sink/internal/stats"
)

const (
	accountPayload = `{"account":{"V0_0_2":{"pubkey":[1,2,3],"lamports":100,"owner":[4,5],"executable":false,"rent_epoch":7,"data":[],"write_version":2,"txn_signature":null}},"slot":5,"is_startup":false}`
	slotPayload    = `{"slot":10,"parent":9,"status":"Confirmed"}`
	blockPayload   = `{"block_info":{"V0_0_1":{"slot":42,"blockhash":"abc","rewards":[],"block_time":null,"block_height":null}}}`
)

type subscriber struct {
	mu       sync.Mutex
	msgFuncs map[string]func([]byte) error
	errFuncs map[string]func(error)
}

func newMqClientMock(subscribeErr error) (*mqMocks.MessageQueueClientMock, *subscriber) {
	s := &subscriber{
		msgFuncs: map[string]func([]byte) error{},
		errFuncs: map[string]func(error){},
	}

	return &mqMocks.MessageQueueClientMock{
		SubscribeFunc: func(topic string, msgFunc func(payload []byte) error, errFunc func(err error)) error {
			if subscribeErr != nil {
				return subscribeErr
			}

			s.mu.Lock()
			defer s.mu.Unlock()
			s.msgFuncs[topic] = msgFunc
			s.errFuncs[topic] = errFunc
			return nil
		},
	}, s
}

func subscriptions() []dispatcher.Subscription {
	return []dispatcher.Subscription{
		{Topic: "accounts", Kind: events.KindUpdateAccount},
		{Topic: "slots", Kind: events.KindUpdateSlot},
		{Topic: "blocks", Kind: events.KindNotifyBlock},
	}
}

func TestDispatcherStart(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	t.Run("subscribes to all topics", func(t *testing.T) {
		// given
		mqClient, subs := newMqClientMock(nil)
		s := stats.New()
		sut := dispatcher.New(logger, mqClient, &mocks.EventHandlerMock{}, s)
		defer sut.Shutdown()

		// when
		err := sut.Start(append(subscriptions(), dispatcher.Subscription{Topic: "", Kind: events.KindNotifyBlock}))

		// then
		require.NoError(t, err)
		require.Len(t, mqClient.SubscribeCalls(), 3)
		require.Contains(t, subs.msgFuncs, "accounts")
		require.Contains(t, subs.msgFuncs, "slots")
		require.Contains(t, subs.msgFuncs, "blocks")
		require.Equal(t, map[string]uint64{"accounts": 0, "slots": 0, "blocks": 0}, s.Snapshot().MessagesReceived)
	})

	t.Run("subscription failure", func(t *testing.T) {
		// given
		mqClient, _ := newMqClientMock(errors.New("topic not found"))
		sut := dispatcher.New(logger, mqClient, &mocks.EventHandlerMock{}, stats.New())
		defer sut.Shutdown()

		// when
		err := sut.Start(subscriptions())

		// then
		require.ErrorIs(t, err, dispatcher.ErrFailedToSubscribe)
	})
}

func TestDispatcherMessages(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	tt := []struct {
		name     string
		topic    string
		payloads []string

		expectedAccountCalls     int
		expectedSlotCalls        int
		expectedBlockCalls       int
		expectedDeserializeError uint64
		expectedBytes            uint64
	}{
		{
			name:                 "account update",
			topic:                "accounts",
			payloads:             []string{accountPayload},
			expectedAccountCalls: 1,
			expectedBytes:        uint64(len(accountPayload)),
		},
		{
			name:              "slot status update",
			topic:             "slots",
			payloads:          []string{slotPayload},
			expectedSlotCalls: 1,
			expectedBytes:     uint64(len(slotPayload)),
		},
		{
			name:               "block metadata",
			topic:              "blocks",
			payloads:           []string{blockPayload},
			expectedBlockCalls: 1,
			expectedBytes:      uint64(len(blockPayload)),
		},
		{
			name:                     "malformed payload",
			topic:                    "accounts",
			payloads:                 []string{`{"account":`},
			expectedDeserializeError: 1,
		},
		{
			name:                     "malformed payload does not stop later messages",
			topic:                    "accounts",
			payloads:                 []string{`{"account":`, accountPayload},
			expectedAccountCalls:     1,
			expectedDeserializeError: 1,
			expectedBytes:            uint64(len(accountPayload)),
		},
		{
			name:                     "payload on wrong topic",
			topic:                    "blocks",
			payloads:                 []string{slotPayload},
			expectedDeserializeError: 1,
		},
		{
			name:     "empty payload",
			topic:    "slots",
			payloads: []string{""},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			// given
			var accountCalls, slotCalls, blockCalls atomic.Int32
			handler := &mocks.EventHandlerMock{
				HandleAccountFunc: func(_ context.Context, update *events.UpdateAccount) error {
					accountCalls.Add(1)
					assert.Equal(t, uint64(5), update.Slot)
					return nil
				},
				HandleSlotStatusFunc: func(_ context.Context, _ *events.UpdateSlotStatus) error {
					slotCalls.Add(1)
					return nil
				},
				HandleBlockFunc: func(_ context.Context, _ *events.NotifyBlockMetaData) error {
					blockCalls.Add(1)
					return errors.New("conversion failed")
				},
			}

			mqClient, subs := newMqClientMock(nil)
			s := stats.New()
			sut := dispatcher.New(logger, mqClient, handler, s, dispatcher.WithWorkers(2))
			require.NoError(t, sut.Start(subscriptions()))

			// when
			for _, payload := range tc.payloads {
				err := subs.msgFuncs[tc.topic]([]byte(payload))
				require.NoError(t, err)
			}
			sut.Shutdown()

			// then
			require.Equal(t, int32(tc.expectedAccountCalls), accountCalls.Load())
			require.Equal(t, int32(tc.expectedSlotCalls), slotCalls.Load())
			require.Equal(t, int32(tc.expectedBlockCalls), blockCalls.Load())

			snapshot := s.Snapshot()
			require.Equal(t, tc.expectedDeserializeError, snapshot.DeserializeErrors)
			require.Equal(t, tc.expectedBytes, snapshot.BytesReceived)
		})
	}
}

func TestDispatcherErrors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	t.Run("receive errors are counted", func(t *testing.T) {
		// given
		mqClient, subs := newMqClientMock(nil)
		s := stats.New()
		sut := dispatcher.New(logger, mqClient, &mocks.EventHandlerMock{}, s)
		require.NoError(t, sut.Start(subscriptions()))
		defer sut.Shutdown()

		// when
		subs.errFuncs["accounts"](errors.New("broker unavailable"))
		subs.errFuncs["slots"](errors.New("broker unavailable"))

		// then
		require.Equal(t, uint64(2), s.Snapshot().ConsumerErrors)
	})

	t.Run("messages are rejected after shutdown", func(t *testing.T) {
		// given
		mqClient, subs := newMqClientMock(nil)
		sut := dispatcher.New(logger, mqClient, &mocks.EventHandlerMock{}, stats.New())
		require.NoError(t, sut.Start(subscriptions()))

		// when
		sut.Shutdown()
		err := subs.msgFuncs["slots"]([]byte(slotPayload))

		// then
		require.ErrorIs(t, err, dispatcher.ErrDispatcherStopped)
	})
}
