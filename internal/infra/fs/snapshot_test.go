package fs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotShape(t *testing.T) {
	snap := TokenSnapshot{
		Timestamp: time.Date(2025, 12, 31, 23, 59, 0, 0, time.Local),
		Groups: map[string]GroupSnapshot{
			"mz":     {Total: 12.5, Addresses: map[string]float64{"0xabc": 12.5}},
			"george": {Total: 0},
		},
	}

	path := filepath.Join(t.TempDir(), "fun_balance.json")
	require.NoError(t, SaveSnapshot(path, snap))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "2025-12-31 23:59:00", raw["timestamp"])

	mz := raw["mz"].(map[string]any)
	assert.Equal(t, 12.5, mz["total"])
	assert.Equal(t, map[string]any{"0xabc": 12.5}, mz["addresses"])

	george := raw["george"].(map[string]any)
	assert.Equal(t, map[string]any{}, george["addresses"], "empty groups still carry an addresses object")

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"george", "mz"}, loaded.GroupNames())
	assert.True(t, loaded.Timestamp.Equal(snap.Timestamp))
}

func TestSnapshotReservedGroupName(t *testing.T) {
	_, err := json.Marshal(TokenSnapshot{Groups: map[string]GroupSnapshot{"timestamp": {}}})
	assert.Error(t, err)
}
