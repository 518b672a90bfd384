package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const accountsYAML = `
portfolios:
  - name: MZ
    notify: true
    bark_key: ${TEST_BARK_KEY}
    owners:
      - "0x716D631F3Bd07E5d65F3967871fB0711261419c9"
    game_wallets:
      - "0x571c8AD16B408A901CB684d471A1c6394D4d294f"
  - name: George
    history_file: /var/lib/fdf/wj.csv
    owners:
      - "0x2987026DBc818609a247A0041e653E5B0019a3AA"
`

func writeAccounts(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accounts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadAccounts(t *testing.T) {
	t.Setenv("TEST_BARK_KEY", "secret-key")

	accounts, err := LoadAccounts(writeAccounts(t, accountsYAML), "data")
	require.NoError(t, err)
	require.Len(t, accounts.Portfolios, 2)

	mz := accounts.Portfolios[0]
	assert.Equal(t, "secret-key", mz.BarkKey)
	assert.Equal(t, filepath.Join("data", "mz_history.csv"), mz.HistoryFile)
	assert.Len(t, mz.GameWallets, 1)

	george, ok := accounts.Find("george")
	require.True(t, ok)
	assert.Equal(t, "/var/lib/fdf/wj.csv", george.HistoryFile)
	assert.False(t, george.Notify)
}

func TestLoadAccountsRejects(t *testing.T) {
	cases := map[string]string{
		"no portfolios":   "portfolios: []\n",
		"bad address":     "portfolios:\n  - name: a\n    owners: [\"0x1234\"]\n",
		"duplicate":       "portfolios:\n  - name: a\n    owners: [\"0x716D631F3Bd07E5d65F3967871fB0711261419c9\"]\n  - name: A\n    owners: [\"0x716D631F3Bd07E5d65F3967871fB0711261419c9\"]\n",
		"no addresses":    "portfolios:\n  - name: a\n",
		"repeated owner":  "portfolios:\n  - name: a\n    owners: [\"0x716D631F3Bd07E5d65F3967871fB0711261419c9\", \"0x716d631f3bd07e5d65f3967871fb0711261419c9\"]\n",
		"repeated wallet": "portfolios:\n  - name: a\n    game_wallets: [\"0x571c8AD16B408A901CB684d471A1c6394D4d294f\", \"0x571c8AD16B408A901CB684d471A1c6394D4d294f\"]\n",
		"notify no key":   "portfolios:\n  - name: a\n    notify: true\n    owners: [\"0x716D631F3Bd07E5d65F3967871fB0711261419c9\"]\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadAccounts(writeAccounts(t, body), "")
			assert.Error(t, err)
		})
	}
}

func TestLoadAccountsSameAddressAcrossLists(t *testing.T) {
	body := "portfolios:\n  - name: a\n    owners: [\"0x716D631F3Bd07E5d65F3967871fB0711261419c9\"]\n    game_wallets: [\"0x716D631F3Bd07E5d65F3967871fB0711261419c9\"]\n"
	_, err := LoadAccounts(writeAccounts(t, body), "")
	assert.NoError(t, err)
}

func TestLoadAccountsHistoryFileWithDirectory(t *testing.T) {
	body := "portfolios:\n  - name: a\n    history_file: data/balance_history.csv\n    owners: [\"0x716D631F3Bd07E5d65F3967871fB0711261419c9\"]\n  - name: b\n    history_file: b.csv\n    owners: [\"0x2987026DBc818609a247A0041e653E5B0019a3AA\"]\n"
	accounts, err := LoadAccounts(writeAccounts(t, body), "data")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("data", "balance_history.csv"), accounts.Portfolios[0].HistoryFile)
	assert.Equal(t, filepath.Join("data", "b.csv"), accounts.Portfolios[1].HistoryFile)
}

func TestLoadAccountsMissingFile(t *testing.T) {
	_, err := LoadAccounts(filepath.Join(t.TempDir(), "nope.yaml"), "")
	assert.Error(t, err)
}
