package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"fdf-monitor/internal/infra/fs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("boom")))
	assert.Equal(t, ExitTimeout, ExitCode(fmt.Errorf("run: %w", &ExitError{Code: ExitTimeout, Err: context.DeadlineExceeded})))
}

func TestWriteReport(t *testing.T) {
	now := time.Date(2025, 6, 3, 12, 0, 0, 0, time.Local)
	records := []fs.Record{
		fs.NewRecord(now.Add(-25*time.Hour), 100, 0, 0),
		fs.NewRecord(now.Add(-2*time.Hour), 150, 0, 0),
		fs.NewRecord(now, 165, 0, 0),
	}

	var out bytes.Buffer
	writeReport(&out, "MZ", records, now)

	got := out.String()
	assert.Contains(t, got, "MZ: $165 at 2025-06-03 12:00:00")
	assert.Contains(t, got, "since yesterday +65.00%")
	assert.Contains(t, got, "1h   +10.00% (from $150)")
	assert.Contains(t, got, "24h  +65.00% (from $100)")
	assert.Contains(t, got, "7d   n/a")
}

func TestWriteReportEmpty(t *testing.T) {
	var out bytes.Buffer
	writeReport(&out, "WJ", nil, time.Now())
	assert.Equal(t, "WJ: no history yet\n", out.String())
}

func TestAlignRewritesGivenFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mz_history.csv")
	store := fs.NewHistoryStore(path)
	base := time.Date(2025, 6, 3, 9, 0, 0, 0, time.Local)
	require.NoError(t, store.Append(fs.NewRecord(base.Add(58*time.Minute+45*time.Second), 1, 2, 3)))
	require.NoError(t, store.Append(fs.NewRecord(base.Add(2*time.Hour), 4, 5, 6)))

	var out bytes.Buffer
	alignCmd.SetOut(&out)
	require.NoError(t, runAlign(alignCmd, []string{path}))
	assert.Contains(t, out.String(), "1 of 2 timestamps adjusted")

	records, err := store.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].Timestamp.Equal(base.Add(time.Hour)))
	assert.Equal(t, 6.0, records[0].TotalValue)
}
