package kafka

import (
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"whiteboard-service/internal/whiteboard"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectRecord(kind whiteboard.NotificationKind, index int) mocks.ValueChecker {
	return func(val []byte) error {
		var record AuditRecord
		if err := json.Unmarshal(val, &record); err != nil {
			return err
		}
		if record.Kind != kind || record.Index != index || record.SessionID != "board-1" {
			return errors.New("unexpected audit record: " + string(val))
		}
		return nil
	}
}

func TestAuditPublisherStreamsLogMutations(t *testing.T) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, config)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(expectRecord(whiteboard.NotifyStrokeAppended, 0))
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(expectRecord(whiteboard.NotifyStrokeAppended, 1))
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(expectRecord(whiteboard.NotifyStrokeUndone, 1))
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(expectRecord(whiteboard.NotifyCanvasCleared, 0))

	audit := NewAuditPublisher(producer, "whiteboard.operations", 16, nil)
	go audit.Run()

	coord := whiteboard.NewCoordinator(whiteboard.WithObserver(audit))
	coord.Connect("conn-a", nil)
	coord.Join("conn-a", "board-1", "")
	coord.AppendStroke("board-1", "conn-a", json.RawMessage(`{"n":1}`))
	coord.AppendStroke("board-1", "conn-a", json.RawMessage(`{"n":2}`))
	coord.UndoLast("board-1", "conn-a")
	coord.Cursor("board-1", "conn-a", 1, 1)
	coord.Clear("board-1", "conn-a")
	coord.Disconnect("conn-a")

	require.NoError(t, audit.Close(time.Second))

	dropped, failed := audit.Stats()
	assert.Zero(t, dropped)
	assert.Zero(t, failed)
}

func TestAuditPublisherCountsFailures(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	audit := NewAuditPublisher(producer, "whiteboard.operations", 4, nil)
	go audit.Run()

	audit.Observe(whiteboard.Notification{Kind: whiteboard.NotifyCanvasCleared, SessionID: "board-1"})
	require.NoError(t, audit.Close(time.Second))

	_, failed := audit.Stats()
	assert.Equal(t, int64(1), failed)
}

func TestAuditPublisherIgnoresPresence(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)

	audit := NewAuditPublisher(producer, "whiteboard.operations", 1, nil)
	audit.Observe(whiteboard.Notification{Kind: whiteboard.NotifyMemberJoined, SessionID: "board-1"})
	audit.Observe(whiteboard.Notification{Kind: whiteboard.NotifySessionClosed, SessionID: "board-1"})

	assert.Zero(t, len(audit.queue))

	go audit.Run()
	require.NoError(t, audit.Close(time.Second))
}

func TestAuditPublisherDropsWhenFull(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndSucceed()

	audit := NewAuditPublisher(producer, "whiteboard.operations", 1, nil)
	audit.Observe(whiteboard.Notification{Kind: whiteboard.NotifyStrokeAppended, SessionID: "board-1"})
	audit.Observe(whiteboard.Notification{Kind: whiteboard.NotifyStrokeAppended, SessionID: "board-1"})

	dropped, _ := audit.Stats()
	assert.Equal(t, int64(1), dropped)

	go audit.Run()
	require.NoError(t, audit.Close(time.Second))
}

// stalledProducer blocks SendMessage until release is closed
type stalledProducer struct {
	sarama.SyncProducer
	entered chan struct{}
	release chan struct{}
	closed  atomic.Bool
}

func (p *stalledProducer) SendMessage(*sarama.ProducerMessage) (int32, int64, error) {
	p.entered <- struct{}{}
	<-p.release
	return 0, 0, nil
}

func (p *stalledProducer) Close() error {
	p.closed.Store(true)
	return nil
}

func TestAuditPublisherCloseTimeoutLeavesProducerOpen(t *testing.T) {
	producer := &stalledProducer{entered: make(chan struct{}, 1), release: make(chan struct{})}
	audit := NewAuditPublisher(producer, "whiteboard.operations", 4, nil)
	go audit.Run()

	audit.Observe(whiteboard.Notification{Kind: whiteboard.NotifyCanvasCleared, SessionID: "board-1"})
	select {
	case <-producer.entered:
	case <-time.After(time.Second):
		t.Fatal("record never reached the producer")
	}

	err := audit.Close(20 * time.Millisecond)
	assert.ErrorIs(t, err, ErrDrainTimeout)
	assert.False(t, producer.closed.Load())

	close(producer.release)
	select {
	case <-audit.done:
	case <-time.After(time.Second):
		t.Fatal("publisher did not finish after release")
	}
	assert.False(t, producer.closed.Load())
}
