package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHistogram_Snapshot(t *testing.T) {
	h := NewHistogram(100)
	for i := 1; i <= 5; i++ {
		h.Record(time.Duration(i) * time.Millisecond)
	}

	s := h.Snapshot()
	assert.Equal(t, 5, s.Count)
	assert.InDelta(t, 3.0, s.Mean, 0.001)
	assert.InDelta(t, 3.0, s.P50, 0.001)
	assert.InDelta(t, 1.0, s.Min, 0.001)
	assert.InDelta(t, 5.0, s.Max, 0.001)
	assert.InDelta(t, 4.8, s.P95, 0.001)
}

func TestHistogram_Empty(t *testing.T) {
	assert.Equal(t, LatencyStats{}, NewHistogram(0).Snapshot())
}

func TestHistogram_Trim(t *testing.T) {
	h := NewHistogram(10)
	for i := 0; i < 11; i++ {
		h.Record(time.Millisecond)
	}
	assert.Equal(t, 9, h.Count())

	h.Reset()
	assert.Equal(t, 0, h.Count())
}

func TestServerMetrics(t *testing.T) {
	m := NewServerMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status := 200
			if i%10 == 0 {
				status = 503
			}
			m.RecordRequest(time.Millisecond, status)
		}(i)
	}
	wg.Wait()

	m.RecordReload(nil)
	m.RecordReload(errors.New("bad file"))

	s := m.GetStats()
	assert.Equal(t, uint64(20), s.Requests)
	assert.Equal(t, uint64(2), s.ServerErrors)
	assert.Equal(t, 20, s.RequestLatency.Count)
	assert.Equal(t, uint64(2), s.Reloads)
	assert.Equal(t, uint64(1), s.ReloadErrors)
	assert.NotEmpty(t, s.Uptime)
}
