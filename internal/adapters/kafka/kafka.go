package kafka

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"whiteboard-service/internal/whiteboard"
	"whiteboard-service/pkg/logger"

	"github.com/IBM/sarama"
)

const clientID = "whiteboard-service"

// ErrDrainTimeout is returned by Close when queued records are still being published
var ErrDrainTimeout = errors.New("audit queue did not drain before timeout")

func InitKafkaProducer(brokers []string) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	// Hash on the session id so a session's records stay ordered within one partition
	config.Producer.Partitioner = sarama.NewHashPartitioner
	config.Version = sarama.V2_0_0_0
	config.ClientID = clientID
	config.Producer.MaxMessageBytes = 1000000

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return producer, nil
}

// AuditRecord is one accepted change to a session's operation log
type AuditRecord struct {
	Kind         whiteboard.NotificationKind `json:"kind"`
	SessionID    string                      `json:"sessionId"`
	ConnectionID string                      `json:"connectionId"`
	Index        int                         `json:"index"`
	LogLength    int                         `json:"logLength"`
	MemberCount  int                         `json:"memberCount"`
	At           time.Time                   `json:"at"`
}

// AuditPublisher streams log mutations to a Kafka topic, keyed by session id. It is a
// whiteboard.Observer; presence notifications are ignored.
type AuditPublisher struct {
	producer sarama.SyncProducer
	topic    string
	queue    chan AuditRecord
	logger   *logger.Logger

	mu      sync.Mutex
	closed  bool
	dropped int64
	failed  int64
	done    chan struct{}
}

func NewAuditPublisher(producer sarama.SyncProducer, topic string, queueSize int, log *logger.Logger) *AuditPublisher {
	if queueSize <= 0 {
		queueSize = 1024
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AuditPublisher{
		producer: producer,
		topic:    topic,
		queue:    make(chan AuditRecord, queueSize),
		logger:   log,
		done:     make(chan struct{}),
	}
}

func isLogMutation(kind whiteboard.NotificationKind) bool {
	switch kind {
	case whiteboard.NotifyStrokeAppended, whiteboard.NotifyStrokeUndone, whiteboard.NotifyCanvasCleared:
		return true
	}
	return false
}

// Observe implements whiteboard.Observer
func (a *AuditPublisher) Observe(n whiteboard.Notification) {
	if !isLogMutation(n.Kind) {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}

	record := AuditRecord{
		Kind:         n.Kind,
		SessionID:    n.SessionID,
		ConnectionID: n.ConnectionID,
		Index:        n.Index,
		LogLength:    n.LogLength,
		MemberCount:  n.MemberCount,
		At:           n.At,
	}
	select {
	case a.queue <- record:
	default:
		a.dropped++
		a.logger.Warn("Audit queue full, dropping record", "kind", n.Kind, "sessionID", n.SessionID, "dropped", a.dropped)
	}
}

// Run publishes queued records until Close is called and the queue is empty
func (a *AuditPublisher) Run() {
	defer close(a.done)
	for record := range a.queue {
		if err := a.publish(record); err != nil {
			a.mu.Lock()
			a.failed++
			a.mu.Unlock()
			a.logger.Warn("Failed to publish audit record", "kind", record.Kind, "sessionID", record.SessionID, "error", err)
		}
	}
}

func (a *AuditPublisher) publish(record AuditRecord) error {
	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal audit record: %w", err)
	}

	partition, offset, err := a.producer.SendMessage(&sarama.ProducerMessage{
		Topic:     a.topic,
		Key:       sarama.StringEncoder(record.SessionID),
		Value:     sarama.ByteEncoder(value),
		Timestamp: record.At,
	})
	if err != nil {
		return err
	}

	a.logger.Debug("Audit record published", "sessionID", record.SessionID, "partition", partition, "offset", offset)
	return nil
}

// Stats returns how many records were dropped on a full queue and how many failed to send
func (a *AuditPublisher) Stats() (dropped, failed int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dropped, a.failed
}

// Close stops accepting records, drains the queue and closes the producer. When the
// queue does not drain within timeout it returns ErrDrainTimeout and leaves the producer
// open, since Run may still be inside SendMessage.
func (a *AuditPublisher) Close(timeout time.Duration) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()

	select {
	case <-a.done:
	case <-time.After(timeout):
		a.logger.Warn("Timeout draining audit queue", "remaining", len(a.queue))
		return ErrDrainTimeout
	}
	return a.producer.Close()
}
