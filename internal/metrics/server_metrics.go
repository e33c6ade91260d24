package metrics

import (
	"sync/atomic"
	"time"
)

// ServerMetrics tracks request latency and data reloads for the API server.
type ServerMetrics struct {
	BrowseLatency  *Histogram
	SearchLatency  *Histogram
	RequestLatency *Histogram

	Requests     atomic.Uint64
	ServerErrors atomic.Uint64
	Reloads      atomic.Uint64
	ReloadErrors atomic.Uint64

	startTime time.Time
}

// NewServerMetrics creates a new metrics collector.
func NewServerMetrics() *ServerMetrics {
	return &ServerMetrics{
		BrowseLatency:  NewHistogram(10000),
		SearchLatency:  NewHistogram(10000),
		RequestLatency: NewHistogram(10000),
		startTime:      time.Now(),
	}
}

// RecordRequest records one served request. Statuses of 500 and above
// count as server errors.
func (m *ServerMetrics) RecordRequest(d time.Duration, status int) {
	m.Requests.Add(1)
	m.RequestLatency.Record(d)
	if status >= 500 {
		m.ServerErrors.Add(1)
	}
}

// RecordReload records the outcome of a data reload.
func (m *ServerMetrics) RecordReload(err error) {
	m.Reloads.Add(1)
	if err != nil {
		m.ReloadErrors.Add(1)
	}
}

// Stats is a snapshot of ServerMetrics.
type Stats struct {
	BrowseLatency  LatencyStats `json:"browse_latency"`
	SearchLatency  LatencyStats `json:"search_latency"`
	RequestLatency LatencyStats `json:"request_latency"`

	Requests     uint64 `json:"requests"`
	ServerErrors uint64 `json:"server_errors"`
	Reloads      uint64 `json:"reloads"`
	ReloadErrors uint64 `json:"reload_errors"`

	Uptime string `json:"uptime"`
}

// LatencyStats summarizes a histogram, in milliseconds.
type LatencyStats struct {
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// GetStats returns a snapshot of the current statistics.
func (m *ServerMetrics) GetStats() Stats {
	return Stats{
		BrowseLatency:  m.BrowseLatency.Snapshot(),
		SearchLatency:  m.SearchLatency.Snapshot(),
		RequestLatency: m.RequestLatency.Snapshot(),
		Requests:       m.Requests.Load(),
		ServerErrors:   m.ServerErrors.Load(),
		Reloads:        m.Reloads.Load(),
		ReloadErrors:   m.ReloadErrors.Load(),
		Uptime:         time.Since(m.startTime).Round(time.Second).String(),
	}
}
