package mq

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chainsink/geyser-sink/config"
)

func TestNewMqClient(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	tt := []struct {
		name string
		cfg  *config.MessageQueueConfig

		expectedErrorStr string
		expectedError    error
	}{
		{
			name:             "missing config",
			expectedErrorStr: "mqCfg is required",
		},
		{
			name:          "unknown broker",
			cfg:           &config.MessageQueueConfig{Broker: "rabbitmq"},
			expectedError: ErrUnknownBroker,
		},
		{
			name:             "kafka without config",
			cfg:              &config.MessageQueueConfig{Broker: BrokerKafka},
			expectedErrorStr: "kafka config is required",
		},
		{
			name:             "nats without config",
			cfg:              &config.MessageQueueConfig{Broker: BrokerNats},
			expectedErrorStr: "nats config is required",
		},
		{
			name: "kafka",
			cfg: &config.MessageQueueConfig{
				Broker: BrokerKafka,
				Kafka: &config.KafkaConfig{
					Brokers: []string{"localhost:9092"},
					GroupID: "geyser-sink",
					SASL:    &config.SASLConfig{Mechanism: "PLAIN", Username: "u", Password: "p"},
				},
			},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			// when
			actual, err := NewMqClient(logger, tc.cfg, nil, time.Second, nil)

			// then
			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				return
			}
			if tc.expectedErrorStr != "" {
				require.ErrorContains(t, err, tc.expectedErrorStr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, actual)
			actual.Shutdown()
		})
	}
}
