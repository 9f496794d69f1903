package stats

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const (
	EntityAccount    = "account"
	EntitySlotStatus = "slot_status"
	EntityBlock      = "block"
)

// Stats is created once at startup and shared by reference between the consumers, the filter and
// the executor. All collectors are safe for concurrent use.
type Stats struct {
	messagesReceived  *prometheus.CounterVec
	bytesReceived     prometheus.Counter
	consumerErrors    prometheus.Counter
	deserializeErrors prometheus.Counter
	conversionErrors  *prometheus.CounterVec
	filteredOut       prometheus.Counter
	duplicatesSkipped prometheus.Counter
	recordsWritten    *prometheus.CounterVec
	writeFailures     *prometheus.CounterVec
	queueDepth        *prometheus.GaugeVec
	reconnectAttempts prometheus.Counter
	collectors        []prometheus.Collector
}

type Snapshot struct {
	MessagesReceived  map[string]uint64
	BytesReceived     uint64
	ConsumerErrors    uint64
	DeserializeErrors uint64
	FilteredOut       uint64
	DuplicatesSkipped uint64
	RecordsWritten    map[string]uint64
	WriteFailures     map[string]uint64
}

func New() *Stats {
	s := &Stats{
		messagesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "geyser_sink_messages_received",
			Help: "Number of messages received and decoded per topic",
		}, []string{"topic"}),
		bytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "geyser_sink_bytes_received",
			Help: "Number of payload bytes received",
		}),
		consumerErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "geyser_sink_errors_consumer",
			Help: "Number of errors returned by the message queue consumer",
		}),
		deserializeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "geyser_sink_errors_deserialize",
			Help: "Number of messages which could not be decoded",
		}),
		conversionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "geyser_sink_errors_conversion",
			Help: "Number of events dropped because a field could not be converted",
		}, []string{"entity"}),
		filteredOut: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "geyser_sink_accounts_filtered_out",
			Help: "Number of account updates not matching the allow-list",
		}),
		duplicatesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "geyser_sink_accounts_duplicates_skipped",
			Help: "Number of account updates skipped as duplicate deliveries",
		}),
		recordsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "geyser_sink_records_written",
			Help: "Number of records written to the store",
		}, []string{"entity"}),
		writeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "geyser_sink_errors_write",
			Help: "Number of failed store writes which were requeued",
		}, []string{"entity"}),
		queueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "geyser_sink_queue_depth",
			Help: "Number of records waiting to be written",
		}, []string{"entity"}),
		reconnectAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "geyser_sink_store_reconnect_attempts",
			Help: "Number of attempts to reconnect to the store",
		}),
	}

	s.collectors = []prometheus.Collector{
		s.messagesReceived,
		s.bytesReceived,
		s.consumerErrors,
		s.deserializeErrors,
		s.conversionErrors,
		s.filteredOut,
		s.duplicatesSkipped,
		s.recordsWritten,
		s.writeFailures,
		s.queueDepth,
		s.reconnectAttempts,
	}

	return s
}

func (s *Stats) Register(reg prometheus.Registerer) error {
	for _, c := range s.collectors {
		err := reg.Register(c)
		if err != nil {
			return fmt.Errorf("failed to register stats collector: %w", err)
		}
	}

	return nil
}

func (s *Stats) Unregister(reg prometheus.Registerer) {
	for _, c := range s.collectors {
		_ = reg.Unregister(c)
	}
}

// TopicSubscribed exports the topic's received counter at zero before the first message.
func (s *Stats) TopicSubscribed(topic string) {
	s.messagesReceived.WithLabelValues(topic)
}

func (s *Stats) MessageReceived(topic string, size int) {
	s.messagesReceived.WithLabelValues(topic).Inc()
	s.bytesReceived.Add(float64(size))
}

func (s *Stats) ConsumerError()    { s.consumerErrors.Inc() }
func (s *Stats) DeserializeError() { s.deserializeErrors.Inc() }
func (s *Stats) FilteredOut()      { s.filteredOut.Inc() }
func (s *Stats) DuplicateSkipped() { s.duplicatesSkipped.Inc() }
func (s *Stats) ReconnectAttempt() { s.reconnectAttempts.Inc() }

func (s *Stats) ConversionError(entity string) {
	s.conversionErrors.WithLabelValues(entity).Inc()
}

func (s *Stats) RecordWritten(entity string) {
	s.recordsWritten.WithLabelValues(entity).Inc()
}

func (s *Stats) WriteFailed(entity string) {
	s.writeFailures.WithLabelValues(entity).Inc()
}

func (s *Stats) SetQueueDepth(entity string, depth int) {
	s.queueDepth.WithLabelValues(entity).Set(float64(depth))
}

// Snapshot reads the current counter values. It is used for periodic log reports.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		MessagesReceived:  vecValues(s.messagesReceived, "topic"),
		BytesReceived:     counterValue(s.bytesReceived),
		ConsumerErrors:    counterValue(s.consumerErrors),
		DeserializeErrors: counterValue(s.deserializeErrors),
		FilteredOut:       counterValue(s.filteredOut),
		DuplicatesSkipped: counterValue(s.duplicatesSkipped),
		RecordsWritten:    vecValues(s.recordsWritten, "entity"),
		WriteFailures:     vecValues(s.writeFailures, "entity"),
	}
}

func counterValue(c prometheus.Counter) uint64 {
	m := &dto.Metric{}
	err := c.Write(m)
	if err != nil {
		return 0
	}

	return uint64(m.GetCounter().GetValue())
}

func vecValues(vec *prometheus.CounterVec, label string) map[string]uint64 {
	values := map[string]uint64{}

	ch := make(chan prometheus.Metric)
	go func() {
		vec.Collect(ch)
		close(ch)
	}()

	for metric := range ch {
		m := &dto.Metric{}
		err := metric.Write(m)
		if err != nil {
			continue
		}

		for _, lp := range m.GetLabel() {
			if lp.GetName() == label {
				values[lp.GetValue()] = uint64(m.GetCounter().GetValue())
			}
		}
	}

	return values
}
