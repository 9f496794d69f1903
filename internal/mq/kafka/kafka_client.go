package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

var (
	ErrNoBrokers             = errors.New("no kafka brokers configured")
	ErrFailedToSubscribe     = errors.New("failed to subscribe")
	ErrTopicNotFound         = errors.New("topic has no partitions")
	ErrUnsupportedMechanism  = errors.New("unsupported SASL mechanism")
	ErrFailedToApplyOption   = errors.New("failed to apply option")
	ErrFailedToConnectBroker = errors.New("failed to connect to kafka broker")
)

const (
	MechanismPlain       = "PLAIN"
	MechanismScramSHA256 = "SCRAM-SHA-256"
	MechanismScramSHA512 = "SCRAM-SHA-512"

	defaultDialTimeout          = 10 * time.Second
	defaultReceiveRetryInterval = 2 * time.Second
	defaultMinFetchBytes        = 1
	defaultMaxFetchBytes        = 10e6
)

// Client consumes topics as a member of a consumer group. Each subscribed topic is read by its own
// reader. An offset is committed only after the handler accepted the message. Records which were
// accepted but not yet written to the store are not redelivered after a restart.
type Client struct {
	logger               *slog.Logger
	brokers              []string
	groupID              string
	dialer               *kafka.Dialer
	minFetchBytes        int
	maxFetchBytes        int
	commitInterval       time.Duration
	sessionTimeout       time.Duration
	receiveRetryInterval time.Duration

	mu      sync.Mutex
	readers []*kafka.Reader

	ctx       context.Context
	cancelAll context.CancelFunc
	wg        *sync.WaitGroup
}

type Option func(c *Client) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

func WithReceiveRetryInterval(d time.Duration) Option {
	return func(c *Client) error {
		if d > 0 {
			c.receiveRetryInterval = d
		}
		return nil
	}
}

func WithFetchBytes(minBytes int, maxBytes int) Option {
	return func(c *Client) error {
		if minBytes > 0 {
			c.minFetchBytes = minBytes
		}
		if maxBytes > 0 {
			c.maxFetchBytes = maxBytes
		}
		return nil
	}
}

func WithCommitInterval(d time.Duration) Option {
	return func(c *Client) error {
		c.commitInterval = d
		return nil
	}
}

func WithSessionTimeout(d time.Duration) Option {
	return func(c *Client) error {
		c.sessionTimeout = d
		return nil
	}
}

func WithSASL(mechanism string, username string, password string) Option {
	return func(c *Client) error {
		m, err := newMechanism(mechanism, username, password)
		if err != nil {
			return err
		}

		c.dialer.SASLMechanism = m
		return nil
	}
}

func WithTLS(insecureSkipVerify bool) Option {
	return func(c *Client) error {
		c.dialer.TLS = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: insecureSkipVerify, // #nosec G402
		}
		return nil
	}
}

func WithClientID(id string) Option {
	return func(c *Client) error {
		c.dialer.ClientID = id
		return nil
	}
}

func WithDialTimeout(d time.Duration) Option {
	return func(c *Client) error {
		c.dialer.Timeout = d
		return nil
	}
}

func newMechanism(mechanism string, username string, password string) (sasl.Mechanism, error) {
	switch strings.ToUpper(mechanism) {
	case MechanismPlain:
		return plain.Mechanism{Username: username, Password: password}, nil
	case MechanismScramSHA256:
		return scram.Mechanism(scram.SHA256, username, password)
	case MechanismScramSHA512:
		return scram.Mechanism(scram.SHA512, username, password)
	default:
		return nil, errors.Join(ErrUnsupportedMechanism, fmt.Errorf("mechanism: %s", mechanism))
	}
}

func New(logger *slog.Logger, brokers []string, groupID string, opts ...Option) (*Client, error) {
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := &Client{
		logger:  logger.With(slog.String("module", "kafka")),
		brokers: brokers,
		groupID: groupID,
		dialer: &kafka.Dialer{
			Timeout:   defaultDialTimeout,
			DualStack: true,
		},
		minFetchBytes:        defaultMinFetchBytes,
		maxFetchBytes:        defaultMaxFetchBytes,
		receiveRetryInterval: defaultReceiveRetryInterval,
		ctx:                  ctx,
		cancelAll:            cancel,
		wg:                   &sync.WaitGroup{},
	}

	for _, opt := range opts {
		err := opt(c)
		if err != nil {
			cancel()
			return nil, errors.Join(ErrFailedToApplyOption, err)
		}
	}

	return c, nil
}

// Subscribe fails if no broker is reachable or the topic does not exist. Afterwards receive errors
// are passed to errFunc and the read is retried after the receive retry interval.
func (c *Client) Subscribe(topic string, msgFunc func([]byte) error, errFunc func(error)) error {
	err := c.checkTopic(topic)
	if err != nil {
		return errors.Join(ErrFailedToSubscribe, fmt.Errorf("topic: %s", topic), err)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        c.brokers,
		GroupID:        c.groupID,
		Topic:          topic,
		Dialer:         c.dialer,
		MinBytes:       c.minFetchBytes,
		MaxBytes:       c.maxFetchBytes,
		CommitInterval: c.commitInterval,
		SessionTimeout: c.sessionTimeout,
		StartOffset:    kafka.FirstOffset,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			c.logger.Debug(fmt.Sprintf(msg, args...), slog.String("topic", topic))
		}),
	})

	c.mu.Lock()
	c.readers = append(c.readers, reader)
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.receive(topic, reader, msgFunc, errFunc)
	}()

	c.logger.Info("Subscribed", slog.String("topic", topic), slog.String("group", c.groupID))
	return nil
}

func (c *Client) receive(topic string, reader messageReader, msgFunc func([]byte) error, errFunc func(error)) {
	for {
		msg, err := reader.FetchMessage(c.ctx)
		if err != nil {
			if c.ctx.Err() != nil {
				return
			}

			if errFunc != nil {
				errFunc(err)
			}

			select {
			case <-c.ctx.Done():
				return
			case <-time.After(c.receiveRetryInterval):
			}
			continue
		}

		err = msgFunc(msg.Value)
		if err != nil {
			c.logger.Error("Failed to handle message", slog.String("topic", topic), slog.Int("partition", msg.Partition), slog.Int64("offset", msg.Offset), slog.String("err", err.Error()))
			continue
		}

		err = reader.CommitMessages(c.ctx, msg)
		if err != nil && c.ctx.Err() == nil {
			c.logger.Warn("Failed to commit offset", slog.String("topic", topic), slog.Int("partition", msg.Partition), slog.Int64("offset", msg.Offset), slog.String("err", err.Error()))
		}
	}
}

func (c *Client) checkTopic(topic string) error {
	conn, err := c.dial(c.ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = conn.Close()
	}()

	partitions, err := conn.ReadPartitions(topic)
	if err != nil {
		return err
	}

	if len(partitions) == 0 {
		return ErrTopicNotFound
	}

	return nil
}

func (c *Client) dial(ctx context.Context) (*kafka.Conn, error) {
	var errs []error
	for _, broker := range c.brokers {
		conn, err := c.dialer.DialContext(ctx, "tcp", broker)
		if err == nil {
			return conn, nil
		}
		errs = append(errs, err)
	}

	return nil, errors.Join(append([]error{ErrFailedToConnectBroker}, errs...)...)
}

func (c *Client) IsConnected() bool {
	ctx, cancel := context.WithTimeout(c.ctx, c.dialer.Timeout)
	defer cancel()

	conn, err := c.dial(ctx)
	if err != nil {
		return false
	}
	_ = conn.Close()

	return true
}

func (c *Client) Shutdown() {
	c.cancelAll()

	c.mu.Lock()
	for _, reader := range c.readers {
		err := reader.Close()
		if err != nil {
			c.logger.Error("Failed to close reader", slog.String("err", err.Error()))
		}
	}
	c.readers = nil
	c.mu.Unlock()

	c.wg.Wait()
}
