// Command netpay generates and verifies computational payment tickets.
//
// Usage:
//
//	netpay [global flags] generate --contract ADDR --receiver ADDR --price WEI
//	netpay [global flags] verify --contract ADDR --receiver ADDR --secrets HEX
//	netpay [global flags] keccak HEX...
//
// Global flags:
//
//	--config       YAML configuration file
//	--verbosity    Log level 0-5 (default: 3)
//	--log.format   terminal, text or json (default: terminal)
//	--metrics      Dump collected metrics to stderr on exit
//
// Every flag can also be set through a NETPAY_* environment variable.
// Precedence is flag, then environment, then config file, then default.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/eth2030/netpay/log"
	"github.com/eth2030/netpay/metrics"
)

// Build-time version info, overridable with ldflags:
//
//	go build -ldflags "-X main.version=v0.2.0 -X main.commit=abc1234"
var (
	version = "v0.1.0-dev"
	commit  = "unknown"
)

// configKey is the app metadata key holding the resolved *Config.
const configKey = "config"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run is the actual entry point, returning an exit code. Accepts CLI
// arguments (without the program name) and the process streams so it can
// be tested in isolation.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := newApp(stdin, stdout, stderr)
	err := app.RunContext(ctx, append([]string{app.Name}, args...))
	if err == nil {
		return 0
	}
	fmt.Fprintf(stderr, "Fatal: %v\n", err)
	var ec cli.ExitCoder
	if errors.As(err, &ec) && ec.ExitCode() != 0 {
		return ec.ExitCode()
	}
	return 1
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "netpay",
		Usage:     "pay by computation with keccak tickets",
		Version:   fmt.Sprintf("%s (commit %s)", version, commit),
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     globalFlags,
		Commands: []*cli.Command{
			generateCommand,
			verifyCommand,
			keccakCommand,
		},
		Metadata: make(map[string]interface{}),
		Before:   setup,
		After:    teardown,
		// Errors are reported by run, never by os.Exit inside the library.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// setup loads the configuration, applies the global flags and installs the
// process logger.
func setup(c *cli.Context) error {
	cfg, err := LoadConfig(c.String(configFlag.Name))
	if err != nil {
		return err
	}
	applyGlobalFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := cfg.NewLogger(c.App.ErrWriter)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	log.SetDefault(logger)
	if cfg.Metrics {
		metrics.Enable()
	}
	if cfg.ConfigFile != "" {
		log.Debug("Loaded config file", "path", cfg.ConfigFile)
	}
	c.App.Metadata[configKey] = cfg
	return nil
}

// teardown dumps metrics when they were requested.
func teardown(c *cli.Context) error {
	cfg, ok := c.App.Metadata[configKey].(*Config)
	if !ok || !cfg.Metrics {
		return nil
	}
	return metrics.WriteText(c.App.ErrWriter, metrics.Registry, "netpay")
}

// commandConfig returns a copy of the resolved configuration with the
// command's own flags applied.
func commandConfig(c *cli.Context) (*Config, error) {
	base, ok := c.App.Metadata[configKey].(*Config)
	if !ok {
		return nil, errors.New("configuration not loaded")
	}
	cfg := *base
	applyCommandFlags(c, &cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
