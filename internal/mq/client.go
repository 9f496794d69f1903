package mq

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/chainsink/geyser-sink/config"
	"github.com/chainsink/geyser-sink/internal/mq/kafka"
	"github.com/chainsink/geyser-sink/internal/mq/nats_connection"
	"github.com/chainsink/geyser-sink/internal/mq/nats_jetstream"
)

const (
	BrokerKafka = "kafka"
	BrokerNats  = "nats"
)

var ErrUnknownBroker = errors.New("unknown message queue broker")

// instanceName identifies this process towards the broker.
var instanceName = fmt.Sprintf("geyser-sink-%s", uuid.NewString())

// MessageQueueClient delivers raw payloads of a topic to msgFunc. Transport errors which do not end
// the subscription are reported through errFunc.
type MessageQueueClient interface {
	Subscribe(topic string, msgFunc func(payload []byte) error, errFunc func(err error)) error
	IsConnected() bool
	Shutdown()
}

func NewMqClient(logger *slog.Logger, mqCfg *config.MessageQueueConfig, topics []string, receiveRetryInterval time.Duration, clientClosedCh chan struct{}) (MessageQueueClient, error) {
	if mqCfg == nil {
		return nil, errors.New("mqCfg is required")
	}

	logger = logger.With(slog.String("module", "message-queue"))

	switch mqCfg.Broker {
	case BrokerKafka:
		client, err := newKafkaClient(logger, mqCfg.Kafka, receiveRetryInterval)
		if err != nil {
			return nil, err
		}
		return client, nil
	case BrokerNats:
		client, err := newNatsClient(logger, mqCfg.Nats, topics, clientClosedCh)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, errors.Join(ErrUnknownBroker, fmt.Errorf("broker: %s", mqCfg.Broker))
	}
}

func newKafkaClient(logger *slog.Logger, cfg *config.KafkaConfig, receiveRetryInterval time.Duration) (*kafka.Client, error) {
	if cfg == nil {
		return nil, errors.New("kafka config is required")
	}

	opts := []kafka.Option{
		kafka.WithReceiveRetryInterval(receiveRetryInterval),
		kafka.WithFetchBytes(cfg.MinFetchBytes, cfg.MaxFetchBytes),
		kafka.WithCommitInterval(cfg.CommitInterval),
		kafka.WithSessionTimeout(cfg.SessionTimeout),
		kafka.WithClientID(instanceName),
	}

	if cfg.SASL != nil && cfg.SASL.Mechanism != "" {
		opts = append(opts, kafka.WithSASL(cfg.SASL.Mechanism, cfg.SASL.Username, cfg.SASL.Password))
	}

	if cfg.TLS != nil && cfg.TLS.Enabled {
		opts = append(opts, kafka.WithTLS(cfg.TLS.InsecureSkipVerify))
	}

	client, err := kafka.New(logger, cfg.Brokers, cfg.GroupID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %v", err)
	}

	return client, nil
}

func newNatsClient(logger *slog.Logger, cfg *config.NatsConfig, topics []string, clientClosedCh chan struct{}) (*nats_jetstream.Client, error) {
	if cfg == nil {
		return nil, errors.New("nats config is required")
	}

	conn, err := nats_connection.New(cfg.URL, logger,
		nats_connection.WithClientClosedChannel(clientClosedCh),
		nats_connection.WithName(instanceName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to establish connection to message queue at URL %s: %v", cfg.URL, err)
	}

	var jsOpts []nats_jetstream.Option
	if cfg.FileStorage {
		jsOpts = append(jsOpts, nats_jetstream.WithFileStorage())
	}

	for _, topic := range topics {
		streamName := fmt.Sprintf("%s-stream", topic)
		consumerName := fmt.Sprintf("%s-%s", topic, cfg.ConsumerName)
		jsOpts = append(jsOpts,
			nats_jetstream.WithStream(topic, streamName, jetstream.LimitsPolicy, cfg.StreamMaxAge),
			nats_jetstream.WithConsumer(topic, streamName, consumerName, true, jetstream.AckExplicitPolicy),
		)
	}

	client, err := nats_jetstream.New(conn, logger, jsOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create nats client: %v", err)
	}

	return client, nil
}
