package nats_jetstream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

var (
	ErrConsumerNotInitialized = errors.New("consumer for topic not initialized")
	ErrFailedToGetStream      = errors.New("failed to get stream")
	ErrFailedToGetConsumer    = errors.New("failed to get consumer")
	ErrFailedToApplyOption    = errors.New("failed to apply option")
	ErrFailedToCreateStream   = errors.New("failed to create stream")
	ErrFailedToCreateConsumer = errors.New("failed to create consumer")
	ErrFailedToPublish        = errors.New("failed to publish")
	ErrFailedToSubscribe      = errors.New("failed to subscribe")
)

const setupTimeout = 60 * time.Second

type Client struct {
	js          jetstream.JetStream
	nc          *nats.Conn
	logger      *slog.Logger
	consumers   map[string]jetstream.Consumer
	storageType jetstream.StorageType

	mu          sync.Mutex
	consumeCtxs []jetstream.ConsumeContext
}

type Option func(p *Client) error

// WithStream gets or creates the stream backing a topic.
func WithStream(topic string, streamName string, retentionPolicy jetstream.RetentionPolicy, maxAge time.Duration) Option {
	return func(cl *Client) error {
		ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
		defer cancel()

		_, err := cl.js.Stream(ctx, streamName)
		if err == nil {
			cl.logger.Info("Stream found", slog.String("stream", streamName))
			return nil
		}

		if !errors.Is(err, jetstream.ErrStreamNotFound) {
			return errors.Join(ErrFailedToGetStream, err)
		}

		cl.logger.Warn("Stream not found", slog.String("stream", streamName))

		_, err = cl.js.CreateStream(ctx, jetstream.StreamConfig{
			Name:        streamName,
			Description: "Stream for topic " + topic,
			Subjects:    []string{topic},
			Retention:   retentionPolicy,
			Discard:     jetstream.DiscardOld,
			MaxAge:      maxAge,
			Storage:     cl.storageType,
		})
		if err != nil {
			return errors.Join(ErrFailedToCreateStream, err)
		}

		cl.logger.Info("Stream created", slog.String("stream", streamName))
		return nil
	}
}

// WithConsumer gets or creates the consumer of a topic. A durable consumer resumes from its last
// acknowledged message after a restart.
func WithConsumer(topic string, streamName string, consumerName string, durable bool, ackPolicy jetstream.AckPolicy) Option {
	return func(cl *Client) error {
		ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
		defer cancel()

		cons, err := cl.js.Consumer(ctx, streamName, consumerName)
		if err != nil {
			if !errors.Is(err, jetstream.ErrConsumerNotFound) {
				return errors.Join(ErrFailedToGetConsumer, err)
			}

			durableName := ""
			if durable {
				durableName = consumerName
			}
			cl.logger.Warn("Consumer not found", slog.String("stream", streamName), slog.String("consumer", consumerName))

			cons, err = cl.js.CreateConsumer(ctx, streamName, jetstream.ConsumerConfig{
				Name:          consumerName,
				Durable:       durableName,
				AckPolicy:     ackPolicy,
				MaxAckPending: 5000,
			})
			if err != nil {
				return errors.Join(ErrFailedToCreateConsumer, err)
			}
			cl.logger.Info("Consumer created", slog.String("stream", streamName), slog.String("consumer", consumerName))
		} else {
			cl.logger.Info("Consumer found", slog.String("stream", streamName), slog.String("consumer", consumerName))
		}

		cl.consumers[topic] = cons
		return nil
	}
}

func WithFileStorage() Option {
	return func(c *Client) error {
		c.storageType = jetstream.FileStorage
		return nil
	}
}

func New(nc *nats.Conn, logger *slog.Logger, opts ...Option) (*Client, error) {
	p := &Client{
		logger:      logger.With(slog.String("module", "nats-jetstream")),
		nc:          nc,
		consumers:   map[string]jetstream.Consumer{},
		storageType: jetstream.MemoryStorage,
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, err
	}

	p.js = js

	for _, opt := range opts {
		err = opt(p)
		if err != nil {
			return nil, errors.Join(ErrFailedToApplyOption, err)
		}
	}

	return p, nil
}

func (cl *Client) IsConnected() bool {
	return cl.nc.IsConnected()
}

func (cl *Client) Publish(ctx context.Context, topic string, data []byte) error {
	_, err := cl.js.Publish(ctx, topic, data)
	if err != nil {
		return errors.Join(ErrFailedToPublish, fmt.Errorf("topic: %s", topic), err)
	}

	return nil
}

// Subscribe consumes the topic. A message is acknowledged after msgFunc returned without error and
// negatively acknowledged otherwise so that it is redelivered.
func (cl *Client) Subscribe(topic string, msgFunc func([]byte) error, errFunc func(error)) error {
	consumer, found := cl.consumers[topic]
	if !found {
		return errors.Join(ErrFailedToSubscribe, ErrConsumerNotInitialized, fmt.Errorf("topic: %s", topic))
	}

	consumeCtx, err := consumer.Consume(func(msg jetstream.Msg) {
		msgErr := msgFunc(msg.Data())
		if msgErr != nil {
			cl.logger.Error("Failed to handle message", slog.String("topic", topic), slog.String("err", msgErr.Error()))

			nakErr := msg.Nak()
			if nakErr != nil {
				cl.logger.Error("Failed to nak message", slog.String("topic", topic), slog.String("err", nakErr.Error()))
			}
			return
		}

		ackErr := msg.Ack()
		if ackErr != nil {
			cl.logger.Error("Failed to acknowledge message", slog.String("topic", topic), slog.String("err", ackErr.Error()))
		}
	}, jetstream.ConsumeErrHandler(func(_ jetstream.ConsumeContext, err error) {
		if errFunc != nil {
			errFunc(err)
		}
	}))
	if err != nil {
		return errors.Join(ErrFailedToSubscribe, fmt.Errorf("topic: %s", topic), err)
	}

	cl.mu.Lock()
	cl.consumeCtxs = append(cl.consumeCtxs, consumeCtx)
	cl.mu.Unlock()

	return nil
}

func (cl *Client) Shutdown() {
	if cl == nil {
		return
	}

	cl.mu.Lock()
	for _, consumeCtx := range cl.consumeCtxs {
		consumeCtx.Stop()
	}
	cl.consumeCtxs = nil
	cl.mu.Unlock()

	if cl.nc != nil {
		err := cl.nc.Drain()
		if err != nil {
			cl.logger.Error("Failed to drain nats connection", slog.String("err", err.Error()))
		}
	}
}
