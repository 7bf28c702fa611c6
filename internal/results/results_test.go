package results

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_FillsIDAndTimestamp(t *testing.T) {
	l := NewLog(0)

	r := l.Record(FileResult{FileName: "a.txt", Status: StatusSuccess})
	assert.NotEmpty(t, r.ID)
	assert.False(t, r.Timestamp.IsZero())
}

func TestRecent_NewestFirst(t *testing.T) {
	l := NewLog(0)
	for i := 1; i <= 3; i++ {
		l.Record(FileResult{FileName: fmt.Sprintf("f%d.txt", i), Status: StatusSuccess})
	}

	recent := l.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "f3.txt", recent[0].FileName)
	assert.Equal(t, "f2.txt", recent[1].FileName)

	// n <= 0 returns everything.
	assert.Len(t, l.Recent(0), 3)
	assert.Len(t, l.Recent(100), 3)
}

func TestRecord_EvictsOldestAtCapacity(t *testing.T) {
	l := NewLog(3)
	for i := 1; i <= 5; i++ {
		l.Record(FileResult{FileName: fmt.Sprintf("f%d.txt", i), Status: StatusSuccess})
	}

	assert.Equal(t, 3, l.Count())
	recent := l.Recent(0)
	assert.Equal(t, "f5.txt", recent[0].FileName)
	assert.Equal(t, "f3.txt", recent[2].FileName)
}

func TestStats_SkippedExcludedFromRates(t *testing.T) {
	l := NewLog(0)
	l.Record(FileResult{FileName: "a.txt", Status: StatusSuccess})
	l.Record(FileResult{FileName: "b.txt", Status: StatusSuccess})
	l.Record(FileResult{FileName: "c.txt", Status: StatusSuccessWithWarnings})
	l.Record(FileResult{FileName: "d.txt", Status: StatusFailed})
	l.Record(FileResult{FileName: "e.txt", Status: StatusSkipped})

	s := l.Stats()
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 2, s.Successful)
	assert.Equal(t, 1, s.SuccessWithWarnings)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Skipped)

	// 4 attempted: 3 succeeded (75%), 2 cleanly (50%).
	assert.Equal(t, 75.0, s.SuccessRate)
	assert.Equal(t, 50.0, s.CleanSuccessRate)
}

func TestStats_EmptyLog(t *testing.T) {
	s := NewLog(0).Stats()
	assert.Zero(t, s.Total)
	assert.Zero(t, s.SuccessRate)
	assert.Zero(t, s.CleanSuccessRate)
}

func TestStats_RoundedToOneDecimal(t *testing.T) {
	l := NewLog(0)
	l.Record(FileResult{FileName: "a.txt", Status: StatusSuccess})
	l.Record(FileResult{FileName: "b.txt", Status: StatusSuccess})
	l.Record(FileResult{FileName: "c.txt", Status: StatusFailed})

	s := l.Stats()
	assert.Equal(t, 66.7, s.SuccessRate)
}

func TestClear(t *testing.T) {
	l := NewLog(0)
	l.Record(FileResult{FileName: "a.txt", Status: StatusSuccess})
	l.Clear()
	assert.Zero(t, l.Count())
}
