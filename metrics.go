package kmergo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordTableLoad is called after each table load.
	// entries is the number of records loaded, err is nil if successful.
	RecordTableLoad(entries int64, duration time.Duration, err error)

	// RecordHaploScan is called after each haplotype scan.
	// groups is the number of candidate groups emitted.
	RecordHaploScan(groups int64, duration time.Duration, err error)

	// RecordVennMerge is called after each Venn classification.
	// nway is the number of input sources.
	RecordVennMerge(nway int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordTableLoad(int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordHaploScan(int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordVennMerge(int, time.Duration, error)   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	TableLoadCount      atomic.Int64
	TableLoadErrors     atomic.Int64
	TableLoadEntries    atomic.Int64
	TableLoadTotalNanos atomic.Int64
	HaploScanCount      atomic.Int64
	HaploScanErrors     atomic.Int64
	HaploScanGroups     atomic.Int64
	HaploScanTotalNanos atomic.Int64
	VennMergeCount      atomic.Int64
	VennMergeErrors     atomic.Int64
	VennMergeTotalNanos atomic.Int64
}

// RecordTableLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTableLoad(entries int64, duration time.Duration, err error) {
	b.TableLoadCount.Add(1)
	b.TableLoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.TableLoadErrors.Add(1)
	} else {
		b.TableLoadEntries.Add(entries)
	}
}

// RecordHaploScan implements MetricsCollector.
func (b *BasicMetricsCollector) RecordHaploScan(groups int64, duration time.Duration, err error) {
	b.HaploScanCount.Add(1)
	b.HaploScanTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.HaploScanErrors.Add(1)
	} else {
		b.HaploScanGroups.Add(groups)
	}
}

// RecordVennMerge implements MetricsCollector.
func (b *BasicMetricsCollector) RecordVennMerge(nway int, duration time.Duration, err error) {
	b.VennMergeCount.Add(1)
	b.VennMergeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.VennMergeErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		TableLoadCount:   b.TableLoadCount.Load(),
		TableLoadErrors:  b.TableLoadErrors.Load(),
		TableLoadEntries: b.TableLoadEntries.Load(),
		TableLoadAvgNanos: avgNanos(
			b.TableLoadTotalNanos.Load(), b.TableLoadCount.Load()),
		HaploScanCount:  b.HaploScanCount.Load(),
		HaploScanErrors: b.HaploScanErrors.Load(),
		HaploScanGroups: b.HaploScanGroups.Load(),
		HaploScanAvgNanos: avgNanos(
			b.HaploScanTotalNanos.Load(), b.HaploScanCount.Load()),
		VennMergeCount:  b.VennMergeCount.Load(),
		VennMergeErrors: b.VennMergeErrors.Load(),
		VennMergeAvgNanos: avgNanos(
			b.VennMergeTotalNanos.Load(), b.VennMergeCount.Load()),
	}
}

func avgNanos(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	TableLoadCount    int64
	TableLoadErrors   int64
	TableLoadEntries  int64
	TableLoadAvgNanos int64
	HaploScanCount    int64
	HaploScanErrors   int64
	HaploScanGroups   int64
	HaploScanAvgNanos int64
	VennMergeCount    int64
	VennMergeErrors   int64
	VennMergeAvgNanos int64
}
