package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("FDF_RPC_URL", "https://rpc.example")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "https://rpc.example", cfg.Chain.RPCURL)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.Retry.Interval)
	assert.Equal(t, 6, cfg.Chain.Token.Decimals)
	assert.Equal(t, 18, cfg.Chain.SnapshotToken.Decimals)
	assert.Equal(t, "fixed", cfg.Schedule.Mode)
	assert.Equal(t, 58*time.Minute+45*time.Second, cfg.Schedule.Offset)
	assert.Equal(t, time.Minute, cfg.Schedule.Fallback)
	assert.Equal(t, "https://api.day.app", cfg.Notify.Bark.BaseURL)
	assert.False(t, cfg.Notify.Telegram.Enabled())
}

func TestLoadConfigFileAndFlags(t *testing.T) {
	dir := chdirTemp(t)
	yml := "chain:\n  rpc_url: https://from-file\nretry:\n  interval: 2s\nschedule:\n  mode: random\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yml), 0644))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--app.data_dir=elsewhere"}))

	cfg, err := LoadConfig(fs)
	require.NoError(t, err)

	assert.Equal(t, "https://from-file", cfg.Chain.RPCURL)
	assert.Equal(t, 2*time.Second, cfg.Retry.Interval)
	assert.Equal(t, "random", cfg.Schedule.Mode)
	assert.Equal(t, "elsewhere", cfg.App.DataDir)
}

func TestLoadConfigWithoutRPC(t *testing.T) {
	chdirTemp(t)
	t.Setenv("FDF_RPC_URL", "")
	t.Setenv("BASE_RPC_URL", "")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err, "offline commands load config without an endpoint")
	assert.Error(t, cfg.ValidateChain())

	cfg.Chain.RPCURL = "https://rpc.example"
	assert.NoError(t, cfg.ValidateChain())
}

func TestValidateSchedule(t *testing.T) {
	base := Config{
		Chain: ChainConfig{RPCURL: "x", Token: TokenConfig{Address: USDCBase, Decimals: 6}},
		Retry: RetryConfig{MaxAttempts: 5},
	}

	cases := []struct {
		name    string
		sched   ScheduleConfig
		wantErr bool
	}{
		{"fixed ok", ScheduleConfig{Mode: "fixed", Offset: 58 * time.Minute}, false},
		{"fixed too large", ScheduleConfig{Mode: "fixed", Offset: 61 * time.Minute}, true},
		{"random ok", ScheduleConfig{Mode: "random", JitterMin: 30 * time.Second, JitterMax: 90 * time.Second}, false},
		{"random inverted", ScheduleConfig{Mode: "random", JitterMin: 90 * time.Second, JitterMax: 30 * time.Second}, true},
		{"cron missing", ScheduleConfig{Mode: "cron"}, true},
		{"unknown", ScheduleConfig{Mode: "weekly"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			cfg.Schedule = tc.sched
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
