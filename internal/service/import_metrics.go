package service

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// TableStats counts one table's progress through an import
type TableStats struct {
	Read          int
	Rejected      int
	Batches       int
	FailedBatches int
}

// ImportMetrics tracks statistics about one legacy import run
type ImportMetrics struct {
	mu        sync.RWMutex
	RunID     string
	StartTime time.Time
	Duration  time.Duration
	Tables    map[string]*TableStats
}

// NewImportMetrics creates a new metrics tracker
func NewImportMetrics(runID string) *ImportMetrics {
	return &ImportMetrics{
		RunID:     runID,
		StartTime: time.Now(),
		Tables:    make(map[string]*TableStats),
	}
}

func (m *ImportMetrics) table(name string) *TableStats {
	ts, ok := m.Tables[name]
	if !ok {
		ts = &TableStats{}
		m.Tables[name] = ts
	}
	return ts
}

// RecordBatch records one batch read from the source
func (m *ImportMetrics) RecordBatch(table string, read, rejected int, failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ts := m.table(table)
	ts.Read += read
	ts.Rejected += rejected
	ts.Batches++
	if failed {
		ts.FailedBatches++
	}
}

// Table returns a copy of one table's counters
func (m *ImportMetrics) Table(name string) TableStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if ts, ok := m.Tables[name]; ok {
		return *ts
	}
	return TableStats{}
}

// FailedBatches sums failed batches over every table
func (m *ImportMetrics) FailedBatches() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, ts := range m.Tables {
		n += ts.FailedBatches
	}
	return n
}

// Finish stamps the run duration
func (m *ImportMetrics) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Duration = time.Since(m.StartTime)
}

// String returns a formatted string representation of metrics
func (m *ImportMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.Tables))
	for name := range m.Tables {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		ts := m.Tables[name]
		parts = append(parts, fmt.Sprintf("%s(read=%d, rejected=%d, batches=%d, failed=%d)",
			name, ts.Read, ts.Rejected, ts.Batches, ts.FailedBatches))
	}

	return fmt.Sprintf("ImportMetrics{RunID=%s, %s, Duration=%v}", m.RunID, strings.Join(parts, ", "), m.Duration)
}
