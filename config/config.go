package config

import (
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrConfigInvalid = errors.New("invalid configuration")
)

type GeyserSinkConfig struct {
	LogLevel     string              `json:"logLevel" mapstructure:"logLevel"`
	LogFormat    string              `json:"logFormat" mapstructure:"logFormat"`
	ProfilerAddr string              `json:"profilerAddr" mapstructure:"profilerAddr"`
	Prometheus   *PrometheusConfig   `json:"prometheus" mapstructure:"prometheus"`
	Tracing      *TracingConfig      `json:"tracing" mapstructure:"tracing"`
	MessageQueue *MessageQueueConfig `json:"messageQueue" mapstructure:"messageQueue"`
	Topics       *TopicsConfig       `json:"topics" mapstructure:"topics"`
	Filter       *FilterConfig       `json:"filter" mapstructure:"filter"`
	Db           *DbConfig           `json:"db" mapstructure:"db"`
	Sink         *SinkConfig         `json:"sink" mapstructure:"sink"`
	Health       *HealthConfig       `json:"health" mapstructure:"health"`
}

type PrometheusConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Endpoint string `json:"endpoint" mapstructure:"endpoint"`
	Addr     string `json:"addr" mapstructure:"addr"`
}

func (p *PrometheusConfig) IsEnabled() bool {
	return p != nil && p.Enabled && p.Addr != "" && p.Endpoint != ""
}

type TracingConfig struct {
	Enabled            bool                 `json:"enabled" mapstructure:"enabled"`
	DialAddr           string               `json:"dialAddr" mapstructure:"dialAddr"`
	Sample             int                  `json:"sample" mapstructure:"sample"`
	Attributes         map[string]string    `json:"attributes" mapstructure:"attributes"`
	KeyValueAttributes []attribute.KeyValue `json:"-" mapstructure:"-"`
}

func (t *TracingConfig) IsEnabled() bool {
	return t != nil && t.Enabled
}

type MessageQueueConfig struct {
	Broker string       `json:"broker" mapstructure:"broker"`
	Kafka  *KafkaConfig `json:"kafka" mapstructure:"kafka"`
	Nats   *NatsConfig  `json:"nats" mapstructure:"nats"`
}

type KafkaConfig struct {
	Brokers        []string      `json:"brokers" mapstructure:"brokers"`
	GroupID        string        `json:"groupID" mapstructure:"groupID"`
	SessionTimeout time.Duration `json:"sessionTimeout" mapstructure:"sessionTimeout"`
	MinFetchBytes  int           `json:"minFetchBytes" mapstructure:"minFetchBytes"`
	MaxFetchBytes  int           `json:"maxFetchBytes" mapstructure:"maxFetchBytes"`
	CommitInterval time.Duration `json:"commitInterval" mapstructure:"commitInterval"`
	SASL           *SASLConfig   `json:"sasl" mapstructure:"sasl"`
	TLS            *TLSConfig    `json:"tls" mapstructure:"tls"`
}

type SASLConfig struct {
	Mechanism string `json:"mechanism" mapstructure:"mechanism"`
	Username  string `json:"username" mapstructure:"username"`
	Password  string `json:"password" mapstructure:"password"`
}

type TLSConfig struct {
	Enabled            bool `json:"enabled" mapstructure:"enabled"`
	InsecureSkipVerify bool `json:"insecureSkipVerify" mapstructure:"insecureSkipVerify"`
}

type NatsConfig struct {
	URL          string        `json:"url" mapstructure:"url"`
	FileStorage  bool          `json:"fileStorage" mapstructure:"fileStorage"`
	ConsumerName string        `json:"consumerName" mapstructure:"consumerName"`
	StreamMaxAge time.Duration `json:"streamMaxAge" mapstructure:"streamMaxAge"`
}

type TopicsConfig struct {
	UpdateAccount string `json:"updateAccount" mapstructure:"updateAccount"`
	UpdateSlot    string `json:"updateSlot" mapstructure:"updateSlot"`
	NotifyBlock   string `json:"notifyBlock" mapstructure:"notifyBlock"`
}

type FilterConfig struct {
	IncludeOwners   []string      `json:"includeOwners" mapstructure:"includeOwners"`
	IncludePubkeys  []string      `json:"includePubkeys" mapstructure:"includePubkeys"`
	DuplicateWindow time.Duration `json:"duplicateWindow" mapstructure:"duplicateWindow"`
}

type DbConfig struct {
	Mode     string          `json:"mode" mapstructure:"mode"`
	Postgres *PostgresConfig `json:"postgres" mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host         string `json:"host" mapstructure:"host"`
	Port         int    `json:"port" mapstructure:"port"`
	Name         string `json:"name" mapstructure:"name"`
	User         string `json:"user" mapstructure:"user"`
	Password     string `json:"password" mapstructure:"password"`
	MaxIdleConns int    `json:"maxIdleConns" mapstructure:"maxIdleConns"`
	MaxOpenConns int    `json:"maxOpenConns" mapstructure:"maxOpenConns"`
	SslMode      string `json:"sslMode" mapstructure:"sslMode"`
}

func (p *PostgresConfig) ConnectionString() string {
	return fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%d sslmode=%s", p.User, p.Password, p.Name, p.Host, p.Port, p.SslMode)
}

type SinkConfig struct {
	Workers              int           `json:"workers" mapstructure:"workers"`
	IdleInterval         time.Duration `json:"idleInterval" mapstructure:"idleInterval"`
	ReconnectInterval    time.Duration `json:"reconnectInterval" mapstructure:"reconnectInterval"`
	ReceiveRetryInterval time.Duration `json:"receiveRetryInterval" mapstructure:"receiveRetryInterval"`
	MaxParallelWrites    int           `json:"maxParallelWrites" mapstructure:"maxParallelWrites"`
	StatsLogInterval     time.Duration `json:"statsLogInterval" mapstructure:"statsLogInterval"`
}

type HealthConfig struct {
	SeverDialAddr string `json:"serverDialAddr" mapstructure:"serverDialAddr"`
}

// Validate checks the settings which cannot fall back to a sensible value.
func (c *GeyserSinkConfig) Validate() error {
	var errs []error

	if c.MessageQueue == nil || (c.MessageQueue.Broker != "kafka" && c.MessageQueue.Broker != "nats") {
		errs = append(errs, errors.New("messageQueue.broker must be one of kafka, nats"))
	}

	if c.Db == nil || (c.Db.Mode != "postgres" && c.Db.Mode != "memory") {
		errs = append(errs, errors.New("db.mode must be one of postgres, memory"))
	}

	if c.Topics == nil || (c.Topics.UpdateAccount == "" && c.Topics.UpdateSlot == "" && c.Topics.NotifyBlock == "") {
		errs = append(errs, errors.New("at least one topic must be configured"))
	}

	if c.Sink == nil || c.Sink.Workers <= 0 || c.Sink.MaxParallelWrites <= 0 {
		errs = append(errs, errors.New("sink.workers and sink.maxParallelWrites must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrConfigInvalid}, errs...)...)
	}

	return nil
}
