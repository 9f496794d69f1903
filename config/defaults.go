package config

import "time"

func getDefaultGeyserSinkConfig() *GeyserSinkConfig {
	return &GeyserSinkConfig{
		LogLevel:     "DEBUG",
		LogFormat:    "text",
		ProfilerAddr: "",
		Prometheus:   getDefaultPrometheusConfig(),
		Tracing:      getDefaultTracingConfig(),
		MessageQueue: getDefaultMessageQueueConfig(),
		Topics:       getDefaultTopicsConfig(),
		Filter:       getDefaultFilterConfig(),
		Db:           getDefaultDbConfig(),
		Sink:         getDefaultSinkConfig(),
		Health:       getDefaultHealthConfig(),
	}
}

func getDefaultPrometheusConfig() *PrometheusConfig {
	return &PrometheusConfig{
		Enabled:  false,
		Endpoint: "/metrics",
		Addr:     ":2112",
	}
}

func getDefaultTracingConfig() *TracingConfig {
	return &TracingConfig{
		Enabled:  false,
		DialAddr: "http://localhost:4317",
		Sample:   100,
	}
}

func getDefaultMessageQueueConfig() *MessageQueueConfig {
	return &MessageQueueConfig{
		Broker: "kafka",
		Kafka: &KafkaConfig{
			Brokers:        []string{"localhost:9092"},
			GroupID:        "geyser-sink",
			SessionTimeout: 30 * time.Second,
			MinFetchBytes:  1,
			MaxFetchBytes:  10_000_000,
			CommitInterval: time.Second,
			SASL:           &SASLConfig{},
			TLS:            &TLSConfig{},
		},
		Nats: &NatsConfig{
			URL:          "nats://localhost:4222",
			FileStorage:  false,
			ConsumerName: "geyser-sink",
			StreamMaxAge: 24 * time.Hour,
		},
	}
}

func getDefaultTopicsConfig() *TopicsConfig {
	return &TopicsConfig{
		UpdateAccount: "geyser.accounts",
		UpdateSlot:    "geyser.slots",
		NotifyBlock:   "geyser.blocks",
	}
}

func getDefaultFilterConfig() *FilterConfig {
	return &FilterConfig{
		IncludeOwners:   []string{},
		IncludePubkeys:  []string{},
		DuplicateWindow: 0,
	}
}

func getDefaultDbConfig() *DbConfig {
	return &DbConfig{
		Mode: "postgres",
		Postgres: &PostgresConfig{
			Host:         "localhost",
			Port:         5432,
			Name:         "geyser",
			User:         "geyser",
			Password:     "geyser",
			MaxIdleConns: 10,
			MaxOpenConns: 80,
			SslMode:      "disable",
		},
	}
}

func getDefaultSinkConfig() *SinkConfig {
	return &SinkConfig{
		Workers:              16,
		IdleInterval:         500 * time.Millisecond,
		ReconnectInterval:    2 * time.Second,
		ReceiveRetryInterval: 2 * time.Second,
		MaxParallelWrites:    1,
		StatsLogInterval:     time.Minute,
	}
}

func getDefaultHealthConfig() *HealthConfig {
	return &HealthConfig{
		SeverDialAddr: "localhost:8005",
	}
}
