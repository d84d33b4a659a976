package main

import (
	"github.com/urfave/cli/v2"
)

// Global flags.
var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Usage:   "YAML configuration file",
		EnvVars: []string{"NETPAY_CONFIG"},
	}
	verbosityFlag = &cli.IntFlag{
		Name:    "verbosity",
		Usage:   "log level 0-5 (0=silent, 5=trace)",
		Value:   3,
		EnvVars: []string{"NETPAY_VERBOSITY"},
	}
	logFormatFlag = &cli.StringFlag{
		Name:    "log.format",
		Usage:   "log format: terminal, text or json",
		Value:   "terminal",
		EnvVars: []string{"NETPAY_LOG_FORMAT"},
	}
	metricsFlag = &cli.BoolFlag{
		Name:    "metrics",
		Usage:   "dump collected metrics to stderr on exit",
		EnvVars: []string{"NETPAY_METRICS"},
	}
)

// Context flags, shared by generate and verify.
var (
	chainFlag = &cli.StringFlag{
		Name:    "chain",
		Usage:   "chain id or network name (mainnet, sepolia, holesky, hoodi)",
		Value:   "mainnet",
		EnvVars: []string{"NETPAY_CHAIN"},
	}
	contractFlag = &cli.StringFlag{
		Name:    "contract",
		Usage:   "address of the contract that accepts the tickets",
		EnvVars: []string{"NETPAY_CONTRACT"},
	}
	receiverFlag = &cli.StringFlag{
		Name:    "receiver",
		Usage:   "address credited with the payment",
		EnvVars: []string{"NETPAY_RECEIVER"},
	}
	priceFlag = &cli.StringFlag{
		Name:    "price",
		Usage:   "amount to reach, decimal or 0x-hex wei",
		EnvVars: []string{"NETPAY_PRICE"},
	}
)

// Generate flags.
var (
	workersFlag = &cli.IntFlag{
		Name:    "workers",
		Usage:   "number of concurrent search workers",
		Value:   1,
		EnvVars: []string{"NETPAY_WORKERS"},
	}
	maxAttemptsFlag = &cli.Uint64Flag{
		Name:    "max-attempts",
		Usage:   "give up after this many secrets (0 = unbounded)",
		EnvVars: []string{"NETPAY_MAX_ATTEMPTS"},
	}
	timeoutFlag = &cli.DurationFlag{
		Name:    "timeout",
		Usage:   "give up after this long (0 = no limit)",
		EnvVars: []string{"NETPAY_TIMEOUT"},
	}
	progressFlag = &cli.DurationFlag{
		Name:    "progress",
		Usage:   "log search progress at this interval (0 = off)",
		EnvVars: []string{"NETPAY_PROGRESS"},
	}
	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "print the result as JSON",
	}
)

// Verify flags.
var (
	secretsFlag = &cli.StringFlag{
		Name:  "secrets",
		Usage: "concatenated 32-byte secrets as hex, or - to read stdin",
	}
	proofsFlag = &cli.StringFlag{
		Name:  "proofs",
		Usage: "concatenated 32-byte proofs as hex, or - to read stdin",
	}
	strictFlag = &cli.BoolFlag{
		Name:    "strict",
		Usage:   "reject entries whose divisor is zero",
		EnvVars: []string{"NETPAY_STRICT"},
	}
)

// Keccak flags.
var textFlag = &cli.BoolFlag{
	Name:  "text",
	Usage: "hash arguments as UTF-8 text instead of hex",
}

var globalFlags = []cli.Flag{configFlag, verbosityFlag, logFormatFlag, metricsFlag}

// applyGlobalFlags overlays explicitly set global flags onto cfg.
func applyGlobalFlags(c *cli.Context, cfg *Config) {
	if c.IsSet(verbosityFlag.Name) {
		cfg.Log.Verbosity = c.Int(verbosityFlag.Name)
	}
	if c.IsSet(logFormatFlag.Name) {
		cfg.Log.Format = c.String(logFormatFlag.Name)
	}
	if c.IsSet(metricsFlag.Name) {
		cfg.Metrics = c.Bool(metricsFlag.Name)
	}
}

// applyCommandFlags overlays explicitly set command flags onto cfg. Flags a
// command does not define are never set and leave cfg untouched.
func applyCommandFlags(c *cli.Context, cfg *Config) {
	if c.IsSet(chainFlag.Name) {
		cfg.Chain = c.String(chainFlag.Name)
	}
	if c.IsSet(contractFlag.Name) {
		cfg.Contract = c.String(contractFlag.Name)
	}
	if c.IsSet(receiverFlag.Name) {
		cfg.Receiver = c.String(receiverFlag.Name)
	}
	if c.IsSet(priceFlag.Name) {
		cfg.Price = c.String(priceFlag.Name)
	}
	if c.IsSet(workersFlag.Name) {
		cfg.Workers = c.Int(workersFlag.Name)
	}
	if c.IsSet(maxAttemptsFlag.Name) {
		cfg.MaxAttempts = c.Uint64(maxAttemptsFlag.Name)
	}
	if c.IsSet(timeoutFlag.Name) {
		cfg.Timeout = c.Duration(timeoutFlag.Name)
	}
	if c.IsSet(progressFlag.Name) {
		cfg.Progress = c.Duration(progressFlag.Name)
	}
	if c.IsSet(strictFlag.Name) {
		cfg.Strict = c.Bool(strictFlag.Name)
	}
}
