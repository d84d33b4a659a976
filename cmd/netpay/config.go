package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"gopkg.in/yaml.v3"

	"github.com/eth2030/netpay/log"
	"github.com/eth2030/netpay/ticket"
)

// Configuration errors.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrUnknownNetwork     = errors.New("unknown network name")
)

// PredefinedNetworks maps network names accepted by --chain to chain ids.
var PredefinedNetworks = map[string]uint64{
	"mainnet": 1,
	"sepolia": 11155111,
	"holesky": 17000,
	"hoodi":   560048,
}

// Config is the file-level configuration. Every field can be overridden by
// the matching command line flag.
type Config struct {
	Chain    string `yaml:"chain"`    // network name, decimal or 0x-hex chain id
	Contract string `yaml:"contract"` // 20-byte hex address
	Receiver string `yaml:"receiver"` // 20-byte hex address
	Price    string `yaml:"price"`    // decimal or 0x-hex wei

	Workers     int           `yaml:"workers"`
	MaxAttempts uint64        `yaml:"max_attempts"`
	Timeout     time.Duration `yaml:"timeout"`
	Strict      bool          `yaml:"strict"`
	// Progress is the interval between search progress lines; zero disables
	// them.
	Progress time.Duration `yaml:"progress"`

	Log LogConfig `yaml:"log"`
	// Metrics dumps collected metrics to stderr on exit.
	Metrics bool `yaml:"metrics"`

	// ConfigFile is the path the config was loaded from, if any.
	ConfigFile string `yaml:"-"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Verbosity int    `yaml:"verbosity"`
	Format    string `yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Chain:   "mainnet",
		Workers: 1,
		Log: LogConfig{
			Verbosity: 3,
			Format:    "terminal",
		},
	}
}

// LoadConfig reads a YAML config file. Fields absent from the file keep
// their defaults. If path is empty, returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}
	cfg.ConfigFile = path
	return &cfg, nil
}

// Validate checks the settings every command depends on.
func (c *Config) Validate() error {
	if c.Workers < 1 || c.Workers > 1024 {
		return fmt.Errorf("%w: workers must be in [1, 1024], got %d", ErrInvalidConfig, c.Workers)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout %v", ErrInvalidConfig, c.Timeout)
	}
	if c.Progress < 0 {
		return fmt.Errorf("%w: negative progress interval %v", ErrInvalidConfig, c.Progress)
	}
	if c.Log.Verbosity < 0 || c.Log.Verbosity > 5 {
		return fmt.Errorf("%w: verbosity must be in [0, 5], got %d", ErrInvalidConfig, c.Log.Verbosity)
	}
	switch strings.ToLower(c.Log.Format) {
	case "terminal", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// Mixin resolves the chain, contract and receiver settings into a ticket
// context.
func (c *Config) Mixin() (ticket.Mixin, error) {
	chain, err := ParseChain(c.Chain)
	if err != nil {
		return ticket.Mixin{}, err
	}
	contract, err := parseAddress("contract", c.Contract)
	if err != nil {
		return ticket.Mixin{}, err
	}
	receiver, err := parseAddress("receiver", c.Receiver)
	if err != nil {
		return ticket.Mixin{}, err
	}
	return ticket.NewMixin(ticket.ChainWord(chain), ticket.AddressWord(contract), ticket.AddressWord(receiver)), nil
}

// PriceValue parses the price setting.
func (c *Config) PriceValue() (*uint256.Int, error) {
	if c.Price == "" {
		return nil, fmt.Errorf("%w: price is required", ErrInvalidConfig)
	}
	price, err := ParseUint256(c.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: price: %v", ErrInvalidConfig, err)
	}
	return price, nil
}

// NewLogger builds the logger described by the log settings.
func (c *Config) NewLogger(w io.Writer) (*log.Logger, error) {
	return log.NewWithFormat(w, log.FromVerbosity(c.Log.Verbosity), c.Log.Format)
}

// ParseChain resolves a network name or a numeric chain id.
func ParseChain(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: chain is required", ErrInvalidConfig)
	}
	if id, ok := PredefinedNetworks[strings.ToLower(s)]; ok {
		return uint256.NewInt(id), nil
	}
	id, err := ParseUint256(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNetwork, s)
	}
	return id, nil
}

// ParseUint256 parses a decimal or 0x-prefixed hexadecimal unsigned integer
// that fits in 256 bits.
func ParseUint256(s string) (*uint256.Int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
	}
	b, ok := new(big.Int).SetString(s, base)
	if !ok || b.Sign() < 0 {
		return nil, fmt.Errorf("invalid unsigned integer %q", s)
	}
	u, overflow := uint256.FromBig(b)
	if overflow {
		return nil, fmt.Errorf("integer %q exceeds 256 bits", s)
	}
	return u, nil
}

func parseAddress(name, s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return common.Address{}, fmt.Errorf("%w: %s address is required", ErrInvalidConfig, name)
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: invalid %s address %q", ErrInvalidConfig, name, s)
	}
	return common.HexToAddress(s), nil
}
