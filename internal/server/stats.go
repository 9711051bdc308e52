package server

import (
	"sync"
	"time"

	"github.com/athebyme/text-similarity/internal/business"
)

// Stats counts comparisons served since the last reset. It never stores
// inputs or scores.
type Stats struct {
	mu          sync.RWMutex
	comparisons int64
	faults      int64
	byOutcome   map[business.Outcome]int64
	byMetric    map[string]int64
	lastReset   time.Time
}

func NewStats() *Stats {
	return &Stats{
		byOutcome: make(map[business.Outcome]int64),
		byMetric:  make(map[string]int64),
		lastReset: time.Now(),
	}
}

// Record counts one comparison
func (s *Stats) Record(metric string, outcome business.Outcome) {
	s.mu.Lock()
	s.comparisons++
	s.byMetric[metric]++
	s.byOutcome[outcome]++
	s.mu.Unlock()
}

// RecordFault counts one request answered with an exception
func (s *Stats) RecordFault() {
	s.mu.Lock()
	s.faults++
	s.mu.Unlock()
}

// Clear resets all counters
func (s *Stats) Clear() {
	s.mu.Lock()
	s.comparisons = 0
	s.faults = 0
	s.byOutcome = make(map[business.Outcome]int64)
	s.byMetric = make(map[string]int64)
	s.lastReset = time.Now()
	s.mu.Unlock()
}

// GetStats returns a snapshot of the counters
func (s *Stats) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	outcomes := make(map[string]int64, len(s.byOutcome))
	for outcome, n := range s.byOutcome {
		outcomes[string(outcome)] = n
	}
	metrics := make(map[string]int64, len(s.byMetric))
	for name, n := range s.byMetric {
		metrics[name] = n
	}

	return map[string]interface{}{
		"comparisons":   s.comparisons,
		"faults":        s.faults,
		"outcomes":      outcomes,
		"metrics":       metrics,
		"lastReset":     s.lastReset,
		"runningTimeMs": time.Since(s.lastReset).Milliseconds(),
	}
}
