package log

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestSetupWritesFileLines(t *testing.T) {
	dir := t.TempDir()
	if err := Setup(dir); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	RunLogger("run-1").Info("portfolio recorded", zap.Float64("total", 12.5))
	LogWarn("fetch failed", zap.Error(errors.New("boom")))
	Sync()

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)

	for _, want := range []string{
		"INFO portfolio recorded",
		`"run_id":"run-1"`,
		`"total":12.5`,
		"WARN fetch failed",
		`"error":"boom"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestDurationField(t *testing.T) {
	if got := durationField([]zap.Field{zap.Int64("duration_ms", 42)}); got != 42 {
		t.Fatalf("durationField = %d, want 42", got)
	}
	if got := durationField([]zap.Field{zap.String("endpoint", "/x")}); got != 0 {
		t.Fatalf("durationField = %d, want 0", got)
	}
}
