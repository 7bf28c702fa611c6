// Package syncer drives the file-to-order pipeline: one orchestrated cycle
// lists the remote store, admits candidates, downloads them, hands each to
// the processing goroutine, and retires files only on a positive verdict.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/amscan/ordersync/internal/domain"
	"github.com/amscan/ordersync/internal/remote"
	"github.com/amscan/ordersync/internal/results"
)

// ErrCycleInProgress rejects an overlapping scheduled or manual trigger.
// Cycles are never queued.
var ErrCycleInProgress = errors.New("sync already in progress")

// Ledger is the durable processed-file set the orchestrator writes to.
type Ledger interface {
	Has(fileName string) (bool, error)
	Add(fileName string) (bool, error)
	Count() (int, error)
}

// CycleConfig carries the per-cycle policy knobs.
type CycleConfig struct {
	RemoteDir     string
	Cutoff        time.Time
	FileDeletion  bool
	SkipProcessed bool
}

// CycleSummary reports one completed cycle.
type CycleSummary struct {
	CycleID    string         `json:"cycleId"`
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
	TotalFiles int            `json:"totalFiles"`
	Admitted   int            `json:"admitted"`
	Processed  int            `json:"processed"`
	Errors     int            `json:"errors"`
	Skipped    int            `json:"skipped"`
	Deleted    int            `json:"deleted"`
	Rejected   map[string]int `json:"rejected,omitempty"`
}

// Orchestrator runs sync cycles. At most one cycle executes at a time;
// within a cycle files are strictly sequential.
type Orchestrator struct {
	channel    remote.FileChannel
	ledger     Ledger
	dispatcher *Dispatcher
	log        *results.Log
	cfg        CycleConfig

	running atomic.Bool
}

func NewOrchestrator(channel remote.FileChannel, ledger Ledger, dispatcher *Dispatcher, resultLog *results.Log, cfg CycleConfig) *Orchestrator {
	return &Orchestrator{
		channel:    channel,
		ledger:     ledger,
		dispatcher: dispatcher,
		log:        resultLog,
		cfg:        cfg,
	}
}

// Running reports whether a cycle is currently executing.
func (o *Orchestrator) Running() bool {
	return o.running.Load()
}

// RunCycle executes one full sync cycle. Channel connect/list failures abort
// the cycle; everything file-scoped is isolated so one bad file never blocks
// the rest. The connection is torn down on every exit path.
func (o *Orchestrator) RunCycle(ctx context.Context) (*CycleSummary, error) {
	if !o.running.CompareAndSwap(false, true) {
		return nil, ErrCycleInProgress
	}
	defer o.running.Store(false)

	summary := &CycleSummary{
		CycleID:   uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	log.Printf("[sync] Cycle %s starting", summary.CycleID)

	if err := o.channel.Connect(ctx); err != nil {
		return nil, fmt.Errorf("cycle %s: %w", summary.CycleID, err)
	}
	defer func() {
		if err := o.channel.Close(); err != nil {
			log.Printf("[sync] WARNING: disconnect failed: %v", err)
		}
	}()

	candidates, err := o.channel.List(ctx, o.cfg.RemoteDir)
	if err != nil {
		return nil, fmt.Errorf("cycle %s: %w", summary.CycleID, err)
	}
	summary.TotalFiles = len(candidates)

	filter := &remote.AdmissionFilter{
		Cutoff:        o.cfg.Cutoff,
		SkipProcessed: o.cfg.SkipProcessed,
		Ledger:        o.ledger,
	}
	admitted, rejected, err := filter.AdmitAll(candidates)
	if err != nil {
		return nil, fmt.Errorf("cycle %s: %w", summary.CycleID, err)
	}
	summary.Admitted = len(admitted)
	summary.Rejected = rejected

	for _, candidate := range admitted {
		o.processCandidate(ctx, candidate, summary)
	}

	summary.FinishedAt = time.Now().UTC()
	log.Printf("[sync] Cycle %s complete: %d listed, %d admitted, %d processed, %d errors, %d skipped, %d deleted",
		summary.CycleID, summary.TotalFiles, summary.Admitted,
		summary.Processed, summary.Errors, summary.Skipped, summary.Deleted)
	return summary, nil
}

// processCandidate walks one file through Downloaded → Dispatched → Verified
// and, on success only, Retired. Errors are converted into a failure verdict
// here and never propagate to the cycle.
func (o *Orchestrator) processCandidate(ctx context.Context, c domain.RemoteFileCandidate, summary *CycleSummary) {
	remotePath := remote.Join(o.cfg.RemoteDir, c.Name)

	raw, err := o.channel.Fetch(ctx, remotePath)
	if err != nil {
		log.Printf("[sync] ERROR: download %s failed: %v", c.Name, err)
		o.recordFailure(summary, c.Name, fmt.Sprintf("download: %v", err))
		return
	}
	content := string(raw)

	// Defense in depth: the listing said this file had content, the download
	// decides. A mismatch is a silent skip, not a failure: no ledger
	// mutation, no deletion.
	if len(content) == 0 {
		o.recordSkip(summary, c.Name, remote.ReasonZeroByte)
		return
	}
	if len(content) < remote.MinFileSize {
		o.recordSkip(summary, c.Name, remote.ReasonTooSmall)
		return
	}

	log.Printf("[sync] Processing %s (%d bytes)", c.Name, len(content))

	result, err := o.dispatcher.Dispatch(ctx, c.Name, content)
	if err != nil {
		log.Printf("[sync] ERROR: processing %s failed, file left on server: %v", c.Name, err)
		o.recordFailure(summary, c.Name, err.Error())
		return
	}

	// Verdict is success: the file is now safe to retire. Ledger first;
	// if deletion then fails the file is still processed, never the other
	// way around.
	if _, err := o.ledger.Add(c.Name); err != nil {
		// The order work is done but the file cannot be retired; leaving it
		// for a re-run is safe because submission dedups by reference.
		log.Printf("[sync] ERROR: ledger add %s failed: %v", c.Name, err)
		o.recordFailure(summary, c.Name, fmt.Sprintf("ledger: %v", err))
		return
	}

	deleted := false
	if o.cfg.FileDeletion {
		if err := o.channel.Delete(ctx, remotePath); err != nil {
			log.Printf("[sync] WARNING: delete %s failed after success (file stays processed): %v", c.Name, err)
		} else {
			deleted = true
			summary.Deleted++
		}
	}

	summary.Processed++
	status := results.StatusSuccess
	if result.HasWarnings() {
		status = results.StatusSuccessWithWarnings
	}
	o.record(results.FileResult{
		CycleID:     summary.CycleID,
		FileName:    c.Name,
		Status:      status,
		Orders:      result.Orders,
		Submitted:   result.Submitted,
		MissingSkus: result.MissingSkus,
		Deleted:     deleted,
	})
	log.Printf("[sync] Complete: %s (deleted=%v)", c.Name, deleted)
}

func (o *Orchestrator) recordSkip(summary *CycleSummary, fileName, reason string) {
	log.Printf("[sync] Skip %s after download (%s)", fileName, reason)
	summary.Skipped++
	o.record(results.FileResult{
		CycleID:  summary.CycleID,
		FileName: fileName,
		Status:   results.StatusSkipped,
		Reason:   reason,
	})
}

func (o *Orchestrator) recordFailure(summary *CycleSummary, fileName, msg string) {
	summary.Errors++
	o.record(results.FileResult{
		CycleID:  summary.CycleID,
		FileName: fileName,
		Status:   results.StatusFailed,
		Error:    msg,
	})
}

func (o *Orchestrator) record(r results.FileResult) {
	if o.log == nil {
		return
	}
	if r.Error != "" {
		r.Error = strings.TrimSpace(r.Error)
	}
	o.log.Record(r)
}
