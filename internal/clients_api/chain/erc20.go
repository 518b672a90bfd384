package chain

// Package chain reads ERC-20 balances over JSON-RPC.
// Raw uint256 balances are scaled by the token decimals before they leave
// this package, so callers only see display units.

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"fdf-monitor/internal/infra/log"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const erc20ABI = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"}
]`

// Token identifies an ERC-20 contract.
type Token struct {
	Address  string
	Symbol   string
	Decimals int
}

// Client wraps one RPC connection.
type Client struct {
	eth     *ethclient.Client
	abi     abi.ABI
	timeout time.Duration
}

// Dial connects to rpcURL. timeout bounds every single call; zero means none.
func Dial(ctx context.Context, rpcURL string, timeout time.Duration) (*Client, error) {
	parsed, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	return &Client{eth: eth, abi: parsed, timeout: timeout}, nil
}

func (c *Client) Close() {
	c.eth.Close()
}

// RawBalance returns balanceOf(owner) on token as an integer amount.
func (c *Client) RawBalance(ctx context.Context, token, owner string) (*big.Int, error) {
	if !common.IsHexAddress(owner) {
		return nil, fmt.Errorf("invalid owner address %q", owner)
	}
	if !common.IsHexAddress(token) {
		return nil, fmt.Errorf("invalid token address %q", token)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	contract := bind.NewBoundContract(common.HexToAddress(token), c.abi, c.eth, nil, nil)
	var out []interface{}
	if err := contract.Call(&bind.CallOpts{Context: ctx}, &out, "balanceOf", common.HexToAddress(owner)); err != nil {
		return nil, fmt.Errorf("balanceOf %s: %w", owner, err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("balanceOf %s: unexpected output length %d", owner, len(out))
	}
	raw, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("balanceOf %s: unexpected output type %T", owner, out[0])
	}
	return raw, nil
}

// Decimals asks the contract for its decimals.
func (c *Client) Decimals(ctx context.Context, token string) (int, error) {
	if !common.IsHexAddress(token) {
		return 0, fmt.Errorf("invalid token address %q", token)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	contract := bind.NewBoundContract(common.HexToAddress(token), c.abi, c.eth, nil, nil)
	var out []interface{}
	if err := contract.Call(&bind.CallOpts{Context: ctx}, &out, "decimals"); err != nil {
		return 0, fmt.Errorf("decimals: %w", err)
	}
	if len(out) != 1 {
		return 0, fmt.Errorf("decimals: unexpected output length %d", len(out))
	}
	d, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("decimals: unexpected output type %T", out[0])
	}
	return int(d), nil
}

// Scale converts a raw amount to display units.
func Scale(raw *big.Int, decimals int) decimal.Decimal {
	return decimal.NewFromBigInt(raw, -int32(decimals))
}

// TokenSource exposes one token as a balance source.
type TokenSource struct {
	Client *Client
	Token  Token
}

func (s TokenSource) Name() string {
	if s.Token.Symbol != "" {
		return s.Token.Symbol
	}
	return s.Token.Address
}

func (s TokenSource) Balance(ctx context.Context, owner string) (float64, error) {
	start := time.Now()
	raw, err := s.Client.RawBalance(ctx, s.Token.Address, owner)
	if err != nil {
		return 0, err
	}
	value := Scale(raw, s.Token.Decimals)
	log.LogDebug("Token balance",
		zap.String("token", s.Name()),
		zap.String("owner", owner),
		zap.String("raw", raw.String()),
		zap.String("value", value.StringFixed(2)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	return value.InexactFloat64(), nil
}
