package goCognito

import (
	"sync"
	"testing"
)

func TestMetricsIncAndSnapshot(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.Inc(MetricAuthSuccess)
	m.Inc(MetricAuthSuccess)
	m.Inc(MetricCodeMismatch)

	if got := m.Value(MetricAuthSuccess); got != 2 {
		t.Fatalf("MetricAuthSuccess = %d, want 2", got)
	}
	if got := m.Value(MetricCodeMismatch); got != 1 {
		t.Fatalf("MetricCodeMismatch = %d, want 1", got)
	}

	snap := m.Snapshot()
	if snap.Counters[MetricAuthSuccess] != 2 || snap.Counters[MetricCodeMismatch] != 1 {
		t.Fatalf("unexpected snapshot %v", snap.Counters)
	}
	if len(snap.Counters) != int(metricIDCount) {
		t.Fatalf("snapshot has %d counters, want %d", len(snap.Counters), metricIDCount)
	}

	// Snapshots are copies; mutating one must not affect the counters.
	snap.Counters[MetricAuthSuccess] = 999
	if got := m.Value(MetricAuthSuccess); got != 2 {
		t.Fatalf("MetricAuthSuccess after snapshot mutation = %d, want 2", got)
	}
}

func TestMetricsDisabled(t *testing.T) {
	m := NewMetrics(MetricsConfig{})

	m.Inc(MetricAuthSuccess)
	if got := m.Value(MetricAuthSuccess); got != 0 {
		t.Fatalf("disabled counter = %d, want 0", got)
	}
	if snap := m.Snapshot(); len(snap.Counters) != 0 {
		t.Fatalf("disabled snapshot %v, want empty", snap.Counters)
	}

	var nilMetrics *Metrics
	nilMetrics.Inc(MetricAuthSuccess)
	if nilMetrics.Enabled() {
		t.Fatal("nil metrics must report disabled")
	}
}

func TestMetricsConcurrentInc(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const goroutines = 8
	const perGoroutine = 1000

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				m.Inc(MetricMessageSent)
			}
		}()
	}
	wg.Wait()

	if got := m.Value(MetricMessageSent); got != goroutines*perGoroutine {
		t.Fatalf("MetricMessageSent = %d, want %d", got, goroutines*perGoroutine)
	}
}
