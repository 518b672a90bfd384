package config

// Application settings loaded through viper.
// Precedence, lowest first: defaults, config.yaml, .env, environment, command-line flags.
// Portfolio address lists live in a separate accounts file, see accounts.go.

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Chain    ChainConfig    `mapstructure:"chain"`
	Tenero   TeneroConfig   `mapstructure:"tenero"`
	Retry    RetryConfig    `mapstructure:"retry"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	History  HistoryConfig  `mapstructure:"history"`
	Git      GitConfig      `mapstructure:"git"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type AppConfig struct {
	DataDir      string        `mapstructure:"data_dir"`
	LogsDir      string        `mapstructure:"logs_dir"`
	AccountsFile string        `mapstructure:"accounts_file"`
	RunTimeout   time.Duration `mapstructure:"run_timeout"` // upper bound for one `check`
}

type TokenConfig struct {
	Address  string `mapstructure:"address"`
	Symbol   string `mapstructure:"symbol"`
	Decimals int    `mapstructure:"decimals"`
}

// ChainConfig - JSON-RPC endpoint and the ERC-20 tokens read from it
type ChainConfig struct {
	RPCURL         string        `mapstructure:"rpc_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Token          TokenConfig   `mapstructure:"token"`
	SnapshotToken  TokenConfig   `mapstructure:"snapshot_token"`
}

// TeneroConfig - holdings valuation REST API
type TeneroConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	RateLimit       float64       `mapstructure:"rate_limit"` // requests per second
	Burst           int           `mapstructure:"burst"`
	MaxResponseSize int64         `mapstructure:"max_response_size"`
}

type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	Interval    time.Duration `mapstructure:"interval"`
}

type NotifyConfig struct {
	Bark     BarkConfig     `mapstructure:"bark"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

type BarkConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Sound   string        `mapstructure:"sound"`
	Icon    string        `mapstructure:"icon"`
	Archive bool          `mapstructure:"archive"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type TelegramConfig struct {
	BotToken  string `mapstructure:"bot_token"`
	ChatID    int64  `mapstructure:"chat_id"`
	SendChart bool   `mapstructure:"send_chart"`
}

// Enabled reports whether the Telegram notifier should be built.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != 0
}

// ScheduleConfig - Mode is "fixed", "random" or "cron"
type ScheduleConfig struct {
	Mode      string        `mapstructure:"mode"`
	Offset    time.Duration `mapstructure:"offset"`
	JitterMin time.Duration `mapstructure:"jitter_min"`
	JitterMax time.Duration `mapstructure:"jitter_max"`
	Cron      string        `mapstructure:"cron"`
	Fallback  time.Duration `mapstructure:"fallback"`
}

type HistoryConfig struct {
	AlignOnWrite bool `mapstructure:"align_on_write"`
}

type GitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Dir     string        `mapstructure:"dir"`
	Message string        `mapstructure:"message"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // empty disables the /metrics listener
}

const (
	USDCBase = "0x833589fcd6edb6e08f4c7c32d4f71b54bda02913"
	FUNBase  = "0x16EE7ecAc70d1028E7712751E2Ee6BA808a7dd92"
)

// RegisterFlags adds the overridable settings to fs. The caller owns parsing.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("app.data_dir", "data", "Data directory (env: FDF_DATA_DIR)")
	fs.String("app.accounts_file", "accounts.yaml", "Portfolio accounts file (env: FDF_ACCOUNTS_FILE)")
	fs.String("chain.rpc_url", "", "JSON-RPC endpoint (env: FDF_RPC_URL)")
	fs.String("schedule.mode", "fixed", "Schedule mode: fixed, random or cron (env: FDF_SCHEDULE_MODE)")
	fs.String("metrics.addr", "", "Prometheus listen address, e.g. :9102 (env: FDF_METRICS_ADDR)")
	fs.Bool("git.enabled", false, "Commit and push the data directory after each run (env: FDF_GIT_ENABLED)")
}

// LoadConfig reads .env, config.yaml and the environment, then applies flags
// from fs when it is not nil.
func LoadConfig(fs *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config.yaml: %w", err)
		}
	}

	v.SetEnvPrefix("FDF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setupEnvAliases(v)

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setupEnvAliases maps the short names used in deployment .env files.
func setupEnvAliases(v *viper.Viper) {
	v.BindEnv("app.data_dir", "FDF_DATA_DIR")
	v.BindEnv("app.accounts_file", "FDF_ACCOUNTS_FILE")
	v.BindEnv("chain.rpc_url", "FDF_RPC_URL", "BASE_RPC_URL")
	v.BindEnv("tenero.base_url", "TENERO_BASE_URL")
	v.BindEnv("notify.telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("notify.telegram.chat_id", "TELEGRAM_CHAT_ID")
	v.BindEnv("schedule.mode", "FDF_SCHEDULE_MODE")
	v.BindEnv("metrics.addr", "FDF_METRICS_ADDR")
	v.BindEnv("git.enabled", "FDF_GIT_ENABLED")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.data_dir", "data")
	v.SetDefault("app.logs_dir", "logs")
	v.SetDefault("app.accounts_file", "accounts.yaml")
	v.SetDefault("app.run_timeout", 30*time.Minute)

	v.SetDefault("chain.rpc_url", "")
	v.SetDefault("chain.request_timeout", 30*time.Second)
	v.SetDefault("chain.token.address", USDCBase)
	v.SetDefault("chain.token.symbol", "USDC")
	v.SetDefault("chain.token.decimals", 6)
	v.SetDefault("chain.snapshot_token.address", FUNBase)
	v.SetDefault("chain.snapshot_token.symbol", "FUN")
	v.SetDefault("chain.snapshot_token.decimals", 18)

	v.SetDefault("tenero.base_url", "https://api.tenero.io/v1/sportsfun")
	v.SetDefault("tenero.request_timeout", 30*time.Second)
	v.SetDefault("tenero.rate_limit", 2.0)
	v.SetDefault("tenero.burst", 2)
	v.SetDefault("tenero.max_response_size", 1024*1024)

	v.SetDefault("retry.max_attempts", 5)
	v.SetDefault("retry.interval", 5*time.Second)

	v.SetDefault("notify.bark.base_url", "https://api.day.app")
	v.SetDefault("notify.bark.sound", "minuet")
	v.SetDefault("notify.bark.icon", "")
	v.SetDefault("notify.bark.archive", true)
	v.SetDefault("notify.bark.timeout", 10*time.Second)
	v.SetDefault("notify.telegram.bot_token", "")
	v.SetDefault("notify.telegram.chat_id", 0)
	v.SetDefault("notify.telegram.send_chart", false)

	v.SetDefault("schedule.mode", "fixed")
	v.SetDefault("schedule.offset", 58*time.Minute+45*time.Second)
	v.SetDefault("schedule.jitter_min", 30*time.Second)
	v.SetDefault("schedule.jitter_max", 90*time.Second)
	v.SetDefault("schedule.cron", "")
	v.SetDefault("schedule.fallback", 60*time.Second)

	v.SetDefault("history.align_on_write", false)

	v.SetDefault("git.enabled", false)
	v.SetDefault("git.dir", ".")
	v.SetDefault("git.message", "🤖 update balance data")
	v.SetDefault("git.timeout", 5*time.Minute)

	v.SetDefault("metrics.addr", "")
}

// ValidateChain checks what commands reading on-chain balances need.
func (c *Config) ValidateChain() error {
	if c.Chain.RPCURL == "" {
		return fmt.Errorf("chain.rpc_url is required (set FDF_RPC_URL or BASE_RPC_URL)")
	}
	return nil
}

// Validate checks settings that every command depends on. The RPC endpoint is
// checked separately by ValidateChain since offline commands never dial.
func (c *Config) Validate() error {
	if c.Chain.Token.Address == "" || c.Chain.Token.Decimals < 0 {
		return fmt.Errorf("chain.token is invalid")
	}
	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("retry.max_attempts must be positive")
	}
	switch c.Schedule.Mode {
	case "fixed":
		if c.Schedule.Offset < 0 || c.Schedule.Offset >= time.Hour {
			return fmt.Errorf("schedule.offset must be within one hour, got %s", c.Schedule.Offset)
		}
	case "random":
		if c.Schedule.JitterMin < 0 || c.Schedule.JitterMax < c.Schedule.JitterMin {
			return fmt.Errorf("schedule jitter range %s-%s is invalid", c.Schedule.JitterMin, c.Schedule.JitterMax)
		}
	case "cron":
		if c.Schedule.Cron == "" {
			return fmt.Errorf("schedule.cron is required when schedule.mode is cron")
		}
	default:
		return fmt.Errorf("unknown schedule.mode %q", c.Schedule.Mode)
	}
	return nil
}
