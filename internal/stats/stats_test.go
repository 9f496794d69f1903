package stats

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	t.Run("counters", func(t *testing.T) {
		// given
		sut := New()

		// when
		sut.MessageReceived("accounts", 10)
		sut.MessageReceived("accounts", 5)
		sut.MessageReceived("slots", 1)
		sut.ConsumerError()
		sut.DeserializeError()
		sut.DeserializeError()
		sut.RecordWritten(EntityAccount)
		sut.WriteFailed(EntityBlock)
		sut.SetQueueDepth(EntityAccount, 7)

		// then
		require.Equal(t, 2.0, testutil.ToFloat64(sut.messagesReceived.WithLabelValues("accounts")))
		require.Equal(t, 1.0, testutil.ToFloat64(sut.messagesReceived.WithLabelValues("slots")))
		require.Equal(t, 16.0, testutil.ToFloat64(sut.bytesReceived))
		require.Equal(t, 1.0, testutil.ToFloat64(sut.consumerErrors))
		require.Equal(t, 2.0, testutil.ToFloat64(sut.deserializeErrors))
		require.Equal(t, 7.0, testutil.ToFloat64(sut.queueDepth.WithLabelValues(EntityAccount)))

		snapshot := sut.Snapshot()
		require.Equal(t, map[string]uint64{"accounts": 2, "slots": 1}, snapshot.MessagesReceived)
		require.Equal(t, uint64(16), snapshot.BytesReceived)
		require.Equal(t, uint64(2), snapshot.DeserializeErrors)
		require.Equal(t, map[string]uint64{EntityAccount: 1}, snapshot.RecordsWritten)
		require.Equal(t, map[string]uint64{EntityBlock: 1}, snapshot.WriteFailures)
	})

	t.Run("subscribed topic is exported before the first message", func(t *testing.T) {
		// given
		reg := prometheus.NewRegistry()
		sut := New()
		require.NoError(t, sut.Register(reg))

		// when
		sut.TopicSubscribed("blocks")

		// then
		require.Equal(t, 1, testutil.CollectAndCount(sut.messagesReceived, "geyser_sink_messages_received"))
		require.Equal(t, 0.0, testutil.ToFloat64(sut.messagesReceived.WithLabelValues("blocks")))
		require.Equal(t, map[string]uint64{"blocks": 0}, sut.Snapshot().MessagesReceived)
	})

	t.Run("register and unregister", func(t *testing.T) {
		// given
		reg := prometheus.NewRegistry()
		sut := New()

		// when
		err := sut.Register(reg)

		// then
		require.NoError(t, err)
		require.Error(t, New().Register(reg))

		sut.Unregister(reg)
		require.NoError(t, New().Register(reg))
	})
}
