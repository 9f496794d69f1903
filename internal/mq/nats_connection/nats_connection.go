package nats_connection

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/nats-io/nats.go"
)

var ErrNatsConnectionFailed = errors.New("failed to connect to NATS server")

type natsConfig struct {
	name                 string
	maxReconnects        int
	pingInterval         time.Duration
	reconnectBufSize     int
	reconnectWait        time.Duration
	maxPingsOutstanding  int
	retryOnFailedConnect bool
	clientClosedCh       chan struct{}
}

type Option func(config *natsConfig)

// WithMaxReconnects sets how often the client reconnects before it gives up and closes. A negative
// value retries forever.
func WithMaxReconnects(maxReconnects int) Option {
	return func(config *natsConfig) {
		config.maxReconnects = maxReconnects
	}
}

func WithReconnectWait(reconnectWait time.Duration) Option {
	return func(config *natsConfig) {
		config.reconnectWait = reconnectWait
	}
}

// WithClientClosedChannel signals on clientClosedCh once the connection is closed for good.
func WithClientClosedChannel(clientClosedCh chan struct{}) Option {
	return func(config *natsConfig) {
		config.clientClosedCh = clientClosedCh
	}
}

func WithName(name string) Option {
	return func(config *natsConfig) {
		config.name = name
	}
}

func New(natsURL string, logger *slog.Logger, opts ...Option) (*nats.Conn, error) {
	logger = logger.With(slog.String("module", "nats"))

	cfg := &natsConfig{
		maxReconnects:        -1,
		pingInterval:         15 * time.Second,
		reconnectBufSize:     8 * 1024 * 1024,
		reconnectWait:        2 * time.Second,
		maxPingsOutstanding:  2,
		retryOnFailedConnect: true,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.name == "" {
		hostname, err := os.Hostname()
		if err != nil {
			return nil, err
		}
		cfg.name = hostname
	}

	natsOpts := []nats.Option{
		nats.Name(cfg.name),
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			if err == nil {
				return
			}

			args := []any{slog.String("err", err.Error())}
			if sub != nil {
				args = append(args, slog.String("subject", sub.Subject))
			}
			logger.Error("Connection error", args...)
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			var args []any
			if err != nil {
				args = append(args, slog.String("err", err.Error()))
			}
			buffered, bufferedErr := nc.Buffered()
			if bufferedErr == nil {
				args = append(args, slog.Int("buffered", buffered))
			}

			logger.Error("Client disconnected", args...)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Client reconnected", slog.String("url", nc.ConnectedUrlRedacted()))
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			logger.Warn("Client closed")
			if cfg.clientClosedCh == nil {
				return
			}

			select {
			case cfg.clientClosedCh <- struct{}{}:
			default:
			}
		}),
		nats.RetryOnFailedConnect(cfg.retryOnFailedConnect),
		nats.PingInterval(cfg.pingInterval),
		nats.MaxPingsOutstanding(cfg.maxPingsOutstanding),
		nats.ReconnectBufSize(cfg.reconnectBufSize),
		nats.MaxReconnects(cfg.maxReconnects),
		nats.ReconnectWait(cfg.reconnectWait),
	}

	nc, err := nats.Connect(natsURL, natsOpts...)
	if err != nil {
		return nil, errors.Join(ErrNatsConnectionFailed, err)
	}

	return nc, nil
}
