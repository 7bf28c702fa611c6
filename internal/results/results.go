// Package results keeps a bounded in-memory history of per-file processing
// outcomes for the status API and CLI. Observability only: the ledger, not
// this log, decides what gets reprocessed.
package results

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusSuccess             Status = "success"
	StatusSuccessWithWarnings Status = "success_with_warnings"
	StatusFailed              Status = "failed"
	StatusSkipped             Status = "skipped"
)

// FileResult is one file's outcome within a sync cycle.
type FileResult struct {
	ID          string    `json:"id"`
	CycleID     string    `json:"cycleId,omitempty"`
	FileName    string    `json:"fileName"`
	Status      Status    `json:"status"`
	Orders      int       `json:"orders"`
	Submitted   int       `json:"submitted"`
	MissingSkus []string  `json:"missingSkus,omitempty"`
	Deleted     bool      `json:"deleted,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Statistics aggregates the retained history.
type Statistics struct {
	Total               int     `json:"total"`
	Successful          int     `json:"successful"`
	SuccessWithWarnings int     `json:"successWithWarnings"`
	Failed              int     `json:"failed"`
	Skipped             int     `json:"skipped"`
	SuccessRate         float64 `json:"successRate"`
	CleanSuccessRate    float64 `json:"cleanSuccessRate"`
}

const defaultCapacity = 200

// Log is a fixed-capacity, newest-first result history. Safe for concurrent
// use: the sync cycle writes while the API reads.
type Log struct {
	mu       sync.RWMutex
	entries  []FileResult
	capacity int
}

// NewLog creates a history retaining at most capacity entries (0 means the
// default of 200).
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Log{capacity: capacity}
}

// Record stores one outcome, evicting the oldest entry when full. A missing
// ID or timestamp is filled in.
func (l *Log) Record(r FileResult) FileResult {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append([]FileResult{r}, l.entries...)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[:l.capacity]
	}
	return r
}

// Recent returns up to n entries, newest first. n <= 0 returns everything.
func (l *Log) Recent(n int) []FileResult {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]FileResult, n)
	copy(out, l.entries[:n])
	return out
}

// Count returns how many entries are retained.
func (l *Log) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Clear drops the history.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// Stats aggregates the retained history. Success rate counts warnings as
// success; clean success rate does not. Skipped files are excluded from both
// denominators.
func (l *Log) Stats() Statistics {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s := Statistics{Total: len(l.entries)}
	for _, r := range l.entries {
		switch r.Status {
		case StatusSuccess:
			s.Successful++
		case StatusSuccessWithWarnings:
			s.SuccessWithWarnings++
		case StatusFailed:
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		}
	}

	attempted := s.Total - s.Skipped
	if attempted > 0 {
		s.SuccessRate = pct(s.Successful+s.SuccessWithWarnings, attempted)
		s.CleanSuccessRate = pct(s.Successful, attempted)
	}
	return s
}

func pct(part, whole int) float64 {
	return math.Round(float64(part)/float64(whole)*1000) / 10
}
