package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

// Portfolio is one tracked account group with its own history file.
type Portfolio struct {
	Name        string   `yaml:"name"`
	HistoryFile string   `yaml:"history_file"`
	Notify      bool     `yaml:"notify"`
	BarkKey     string   `yaml:"bark_key"`
	Owners      []string `yaml:"owners"`       // on-chain balance
	GameWallets []string `yaml:"game_wallets"` // in-game gold and holdings
}

type Accounts struct {
	Portfolios []Portfolio `yaml:"portfolios"`
}

// LoadAccounts parses the accounts file. ${VAR} references are expanded from the
// environment so Bark keys can stay out of the file. Bare history file names
// are placed in dataDir; paths with a directory are used as written.
func LoadAccounts(path, dataDir string) (*Accounts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read accounts file: %w", err)
	}

	var accounts Accounts
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &accounts); err != nil {
		return nil, fmt.Errorf("parse accounts file: %w", err)
	}

	for i := range accounts.Portfolios {
		p := &accounts.Portfolios[i]
		p.Name = strings.TrimSpace(p.Name)
		if p.HistoryFile == "" {
			p.HistoryFile = strings.ToLower(p.Name) + "_history.csv"
		}
		if dataDir != "" && filepath.Base(p.HistoryFile) == p.HistoryFile {
			p.HistoryFile = filepath.Join(dataDir, p.HistoryFile)
		}
	}

	if err := accounts.Validate(); err != nil {
		return nil, err
	}
	return &accounts, nil
}

// Validate rejects empty or duplicate names, bad addresses and notify groups
// without a Bark key.
func (a *Accounts) Validate() error {
	if len(a.Portfolios) == 0 {
		return fmt.Errorf("accounts file defines no portfolios")
	}
	seen := make(map[string]bool, len(a.Portfolios))
	for _, p := range a.Portfolios {
		if p.Name == "" {
			return fmt.Errorf("portfolio without a name")
		}
		key := strings.ToLower(p.Name)
		if seen[key] {
			return fmt.Errorf("duplicate portfolio %q", p.Name)
		}
		seen[key] = true

		if len(p.Owners) == 0 && len(p.GameWallets) == 0 {
			return fmt.Errorf("portfolio %q has no addresses", p.Name)
		}
		if err := validateAddresses(p.Name, "owners", p.Owners); err != nil {
			return err
		}
		if err := validateAddresses(p.Name, "game_wallets", p.GameWallets); err != nil {
			return err
		}
		if p.Notify && p.BarkKey == "" {
			return fmt.Errorf("portfolio %q: notify is on but bark_key is empty", p.Name)
		}
	}
	return nil
}

// validateAddresses rejects malformed entries and repeats within one list.
// Checksummed and lowercase spellings of one address count as a repeat.
func validateAddresses(portfolio, list string, addrs []string) error {
	seen := make(map[common.Address]string, len(addrs))
	for _, addr := range addrs {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("portfolio %q: invalid address %q", portfolio, addr)
		}
		key := common.HexToAddress(addr)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("portfolio %q: %s lists %q twice (also as %q)", portfolio, list, addr, prev)
		}
		seen[key] = addr
	}
	return nil
}

// Find returns the portfolio with the given name, case-insensitively.
func (a *Accounts) Find(name string) (Portfolio, bool) {
	for _, p := range a.Portfolios {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Portfolio{}, false
}
