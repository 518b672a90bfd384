package commands

// Wiring shared by the subcommands: config, accounts, logger and the balance
// sources built from them.

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"fdf-monitor/internal/clients_api/chain"
	"fdf-monitor/internal/clients_api/tenero"
	"fdf-monitor/internal/features/notify"
	"fdf-monitor/internal/features/tracker"
	"fdf-monitor/internal/infra/config"
	"fdf-monitor/internal/infra/log"
	"fdf-monitor/internal/infra/retry"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	cfg      *config.Config
	accounts *config.Accounts
	chain    *chain.Client
	telegram *notify.Telegram
}

func loadApp(ctx context.Context, cmd *cobra.Command, needChain bool) (*app, error) {
	cfg, err := config.LoadConfig(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := log.Setup(cfg.App.LogsDir); err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	accounts, err := config.LoadAccounts(cfg.App.AccountsFile, cfg.App.DataDir)
	if err != nil {
		log.LogError("Failed to load accounts", zap.Error(err))
		return nil, err
	}

	a := &app{cfg: cfg, accounts: accounts}
	if needChain {
		if err := cfg.ValidateChain(); err != nil {
			return nil, err
		}
		a.chain, err = chain.Dial(ctx, cfg.Chain.RPCURL, cfg.Chain.RequestTimeout)
		if err != nil {
			return nil, err
		}
		a.checkDecimals(ctx, cfg.Chain.Token)
	}
	return a, nil
}

// checkDecimals warns when the configured decimals disagree with the contract.
// The configured value stays in use; a failed lookup is only logged.
func (a *app) checkDecimals(ctx context.Context, t config.TokenConfig) {
	d, err := a.chain.Decimals(ctx, t.Address)
	if err != nil {
		log.LogWarn("Token decimals lookup failed", zap.String("token", t.Symbol), zap.Error(err))
		return
	}
	if d != t.Decimals {
		log.LogWarn("Configured token decimals differ from contract",
			zap.String("token", t.Symbol), zap.Int("configured", t.Decimals), zap.Int("contract", d))
	}
}

func (a *app) close() {
	if a.chain != nil {
		a.chain.Close()
	}
	log.Sync()
}

// portfolios narrows the account list to name, or returns all when name is empty.
func (a *app) portfolios(name string) ([]config.Portfolio, error) {
	if name == "" {
		return a.accounts.Portfolios, nil
	}
	p, ok := a.accounts.Find(name)
	if !ok {
		return nil, fmt.Errorf("unknown portfolio %q", name)
	}
	return []config.Portfolio{p}, nil
}

func (a *app) retryOptions() retry.Options {
	return retry.Options{MaxAttempts: a.cfg.Retry.MaxAttempts, Interval: a.cfg.Retry.Interval}
}

func tokenSource(c *chain.Client, t config.TokenConfig) chain.TokenSource {
	return chain.TokenSource{Client: c, Token: chain.Token{Address: t.Address, Symbol: t.Symbol, Decimals: t.Decimals}}
}

func (a *app) tracker(portfolios []config.Portfolio) *tracker.Tracker {
	teneroClient := tenero.NewClient(tenero.Options{
		BaseURL:         a.cfg.Tenero.BaseURL,
		Timeout:         a.cfg.Tenero.RequestTimeout,
		RateLimit:       a.cfg.Tenero.RateLimit,
		Burst:           a.cfg.Tenero.Burst,
		MaxResponseSize: a.cfg.Tenero.MaxResponseSize,
	})

	t := &tracker.Tracker{
		Portfolios:   portfolios,
		OnChain:      tokenSource(a.chain, a.cfg.Chain.Token),
		Holdings:     tenero.HoldingsSource{Client: teneroClient},
		Retry:        a.retryOptions(),
		Notifiers:    a.notifiers,
		AlignOnWrite: a.cfg.History.AlignOnWrite,
	}
	if a.cfg.Notify.Telegram.Enabled() && a.cfg.Notify.Telegram.SendChart {
		t.ChartDir = filepath.Join(a.cfg.App.DataDir, "charts")
	}
	return t
}

// notifiers builds Bark for the portfolio key plus the shared Telegram chat.
func (a *app) notifiers(p config.Portfolio) []notify.Notifier {
	b := a.cfg.Notify.Bark
	out := []notify.Notifier{&notify.Bark{
		BaseURL:    b.BaseURL,
		Key:        p.BarkKey,
		Sound:      b.Sound,
		Icon:       b.Icon,
		Archive:    b.Archive,
		HTTPClient: &http.Client{Timeout: b.Timeout},
	}}

	tg := a.cfg.Notify.Telegram
	if !tg.Enabled() {
		return out
	}
	if a.telegram == nil {
		bot, err := tgbotapi.NewBotAPI(tg.BotToken)
		if err != nil {
			log.LogWarn("Telegram bot unavailable", zap.Error(err))
			return out
		}
		a.telegram = notify.NewTelegram(bot, tg.ChatID)
	}
	return append(out, a.telegram)
}

func portfolioNames(ps []config.Portfolio) string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}
