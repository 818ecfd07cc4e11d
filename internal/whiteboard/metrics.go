package whiteboard

import (
	"sync"
	"time"
)

// BroadcastMetric is one fan-out measurement taken by the Router
type BroadcastMetric struct {
	Event        EventType     `json:"event"`
	SessionID    string        `json:"sessionId"`
	Duration     time.Duration `json:"duration"`
	SuccessCount int           `json:"successCount"`
	FailureCount int           `json:"failureCount"`
	Timestamp    time.Time     `json:"timestamp"`
}

// Metrics keeps a circular history of broadcasts plus running aggregates.
// Safe for concurrent use; HTTP handlers read it while the hub writes.
type Metrics struct {
	mu          sync.RWMutex
	history     []BroadcastMetric
	historySize int
	historyPos  int

	totalBroadcasts   int
	totalDeliveries   int
	totalFailures     int
	totalBroadcastDur time.Duration
	peakBroadcastDur  time.Duration
	peakFanOut        int
}

// NewMetrics creates a tracker remembering the last historySize broadcasts
func NewMetrics(historySize int) *Metrics {
	if historySize <= 0 {
		historySize = 1
	}
	return &Metrics{
		history:     make([]BroadcastMetric, historySize),
		historySize: historySize,
	}
}

// Record stores one broadcast measurement
func (m *Metrics) Record(metric BroadcastMetric) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.history[m.historyPos] = metric
	m.historyPos = (m.historyPos + 1) % m.historySize

	m.totalBroadcasts++
	m.totalDeliveries += metric.SuccessCount
	m.totalFailures += metric.FailureCount
	m.totalBroadcastDur += metric.Duration
	if metric.Duration > m.peakBroadcastDur {
		m.peakBroadcastDur = metric.Duration
	}
	if fanOut := metric.SuccessCount + metric.FailureCount; fanOut > m.peakFanOut {
		m.peakFanOut = fanOut
	}
}

// History returns recorded broadcasts, oldest first
func (m *Metrics) History() []BroadcastMetric {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := make([]BroadcastMetric, 0, m.historySize)
	for i := 0; i < m.historySize; i++ {
		pos := (m.historyPos + i) % m.historySize
		if !m.history[pos].Timestamp.IsZero() {
			history = append(history, m.history[pos])
		}
	}
	return history
}

// Aggregated returns running totals suitable for a JSON response
func (m *Metrics) Aggregated() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	avg := time.Duration(0)
	if m.totalBroadcasts > 0 {
		avg = m.totalBroadcastDur / time.Duration(m.totalBroadcasts)
	}

	successRate := float64(100)
	if attempts := m.totalDeliveries + m.totalFailures; attempts > 0 {
		successRate = float64(m.totalDeliveries) / float64(attempts) * 100
	}

	return map[string]any{
		"totalBroadcasts":   m.totalBroadcasts,
		"totalDeliveries":   m.totalDeliveries,
		"totalFailures":     m.totalFailures,
		"avgBroadcastTime":  avg.String(),
		"peakBroadcastTime": m.peakBroadcastDur.String(),
		"peakFanOut":        m.peakFanOut,
		"successRate":       successRate,
	}
}

// Reset clears history and aggregates
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.history = make([]BroadcastMetric, m.historySize)
	m.historyPos = 0
	m.totalBroadcasts = 0
	m.totalDeliveries = 0
	m.totalFailures = 0
	m.totalBroadcastDur = 0
	m.peakBroadcastDur = 0
	m.peakFanOut = 0
}
