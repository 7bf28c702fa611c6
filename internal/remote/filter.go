package remote

import (
	"fmt"
	"log"
	"time"

	"github.com/amscan/ordersync/internal/domain"
)

// MinFileSize is the smallest plausible order file. Anything below it is
// either truncated or garbage and is left alone.
const MinFileSize = 10

// Admission reasons, surfaced in logs and cycle summaries.
const (
	ReasonNotRegular       = "not-regular-file"
	ReasonZeroByte         = "zero-byte-protected"
	ReasonTooSmall         = "too-small"
	ReasonBeforeCutoff     = "before-cutoff"
	ReasonUndated          = "undated-reject"
	ReasonAlreadyProcessed = "already-processed"
	ReasonNewFile          = "new-file"
)

// ProcessedSet answers whether a filename is already in the ledger.
type ProcessedSet interface {
	Has(fileName string) (bool, error)
}

// AdmissionFilter decides which remote files are eligible for download this
// cycle. Rules apply in order; the first matching rule decides. A rejection
// is never fatal; the file is simply left untouched.
type AdmissionFilter struct {
	// Cutoff is the go-live instant. Files modified at or before it belong
	// to the manual-entry period and are never ingested.
	Cutoff time.Time

	// SkipProcessed enables the ledger check.
	SkipProcessed bool

	Ledger ProcessedSet
}

// Admit returns whether the candidate is eligible, with the deciding reason.
func (f *AdmissionFilter) Admit(c domain.RemoteFileCandidate) (bool, string, error) {
	if !c.Regular {
		return false, ReasonNotRegular, nil
	}
	// Zero-byte files are never downloaded, logged as content, or deleted.
	if c.Size == 0 {
		return false, ReasonZeroByte, nil
	}
	if c.Size < MinFileSize {
		return false, ReasonTooSmall, nil
	}
	if c.ModTime.IsZero() {
		// Cannot establish the date; reject conservatively.
		return false, ReasonUndated, nil
	}
	if !c.ModTime.After(f.Cutoff) {
		return false, ReasonBeforeCutoff, nil
	}
	if f.SkipProcessed && f.Ledger != nil {
		processed, err := f.Ledger.Has(c.Name)
		if err != nil {
			return false, "", fmt.Errorf("admission ledger check %s: %w", c.Name, err)
		}
		if processed {
			return false, ReasonAlreadyProcessed, nil
		}
	}
	return true, ReasonNewFile, nil
}

// AdmitAll filters a listing, logging each decision, and returns the admitted
// candidates plus per-reason rejection counts.
func (f *AdmissionFilter) AdmitAll(candidates []domain.RemoteFileCandidate) ([]domain.RemoteFileCandidate, map[string]int, error) {
	admitted := make([]domain.RemoteFileCandidate, 0, len(candidates))
	rejected := make(map[string]int)

	for _, c := range candidates {
		ok, reason, err := f.Admit(c)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			rejected[reason]++
			log.Printf("[filter] Skip %s (%s)", c.Name, reason)
			continue
		}
		log.Printf("[filter] Include %s (%d bytes, modified %s)",
			c.Name, c.Size, c.ModTime.UTC().Format(time.RFC3339))
		admitted = append(admitted, c)
	}

	return admitted, rejected, nil
}
