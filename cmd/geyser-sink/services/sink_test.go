package services

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chainsink/geyser-sink/config"
	"github.com/chainsink/geyser-sink/internal/store/memory"
)

func TestNewStore(t *testing.T) {
	tt := []struct {
		name     string
		dbConfig *config.DbConfig

		expectedErr error
	}{
		{
			name:     "memory",
			dbConfig: &config.DbConfig{Mode: DbModeMemory},
		},
		{
			name:        "unknown mode",
			dbConfig:    &config.DbConfig{Mode: "sqlite"},
			expectedErr: ErrUnknownDbMode,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			// when
			actual, err := newStore(tc.dbConfig, &config.TracingConfig{})

			// then
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				require.Nil(t, actual)
				return
			}

			require.NoError(t, err)
			require.IsType(t, &memory.Memory{}, actual)
		})
	}
}

func TestStartSink(t *testing.T) {
	t.Run("unreachable broker is fatal", func(t *testing.T) {
		// given
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
		cfg := &config.GeyserSinkConfig{
			Tracing: &config.TracingConfig{},
			MessageQueue: &config.MessageQueueConfig{
				Broker: "kafka",
				Kafka: &config.KafkaConfig{
					Brokers: []string{"127.0.0.1:1"},
					GroupID: "test",
				},
			},
			Topics: &config.TopicsConfig{UpdateAccount: "accounts"},
			Filter: &config.FilterConfig{},
			Db:     &config.DbConfig{Mode: DbModeMemory},
			Sink: &config.SinkConfig{
				Workers:           2,
				IdleInterval:      10 * time.Millisecond,
				MaxParallelWrites: 1,
			},
			Health: &config.HealthConfig{SeverDialAddr: "localhost:0"},
		}
		shutdownCh := make(chan string, 1)

		// when
		stop, err := StartSink(logger, cfg, shutdownCh)

		// then
		require.Error(t, err)
		require.ErrorContains(t, err, "failed to start dispatcher")
		require.Nil(t, stop)
	})
}
