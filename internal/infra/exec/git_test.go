package exec

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) *Git {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	g := &Git{Dir: dir, Timeout: 30 * time.Second}
	ctx := context.Background()

	for _, args := range [][]string{
		{"init", "-q"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "test"},
		{"config", "commit.gpgsign", "false"},
	} {
		_, err := g.run(ctx, args...)
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("x\n"), 0644))
	require.NoError(t, g.Add(ctx, "README"))
	require.NoError(t, g.Commit(ctx, "init"))
	return g
}

func TestHasChangesTracksDataDir(t *testing.T) {
	g := newRepo(t)
	ctx := context.Background()
	dataDir := filepath.Join(g.Dir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0755))

	changed, err := g.HasChanges(ctx, "data")
	require.NoError(t, err)
	assert.False(t, changed)

	file := filepath.Join(dataDir, "mz_history.csv")
	require.NoError(t, os.WriteFile(file, []byte("a\n"), 0644))
	changed, err = g.HasChanges(ctx, "data")
	require.NoError(t, err)
	assert.True(t, changed, "untracked file counts as a change")

	require.NoError(t, g.Add(ctx, "data"))
	require.NoError(t, g.Commit(ctx, "data"))
	changed, err = g.HasChanges(ctx, "data")
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, os.WriteFile(file, []byte("a\nb\n"), 0644))
	changed, err = g.HasChanges(ctx, "data")
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestRunReportsExitCode(t *testing.T) {
	g := newRepo(t)
	_, err := Run(context.Background(), g.Dir, time.Minute, "git", "no-such-subcommand")
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.NotZero(t, exitErr.Code)
	assert.True(t, strings.HasPrefix(exitErr.Command, "git no-such-subcommand"))
}

func TestRunMissingBinary(t *testing.T) {
	_, err := Run(context.Background(), ".", time.Second, "definitely-not-a-binary-fdf")
	assert.Error(t, err)
}
