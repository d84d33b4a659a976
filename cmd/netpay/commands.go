package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/urfave/cli/v2"

	"github.com/eth2030/netpay/crypto"
	"github.com/eth2030/netpay/log"
	"github.com/eth2030/netpay/metrics"
	"github.com/eth2030/netpay/ticket"
)

var generateCommand = &cli.Command{
	Name:  "generate",
	Usage: "search for secrets worth at least the price",
	Flags: []cli.Flag{
		chainFlag, contractFlag, receiverFlag, priceFlag,
		workersFlag, maxAttemptsFlag, timeoutFlag, progressFlag, jsonFlag,
	},
	Action: generate,
}

var verifyCommand = &cli.Command{
	Name:  "verify",
	Usage: "compute the total of revealed secrets or proofs",
	Flags: []cli.Flag{
		chainFlag, contractFlag, receiverFlag, priceFlag,
		secretsFlag, proofsFlag, strictFlag,
	},
	Action: verify,
}

var keccakCommand = &cli.Command{
	Name:      "keccak",
	Usage:     "print the Keccak-256 digest of each argument",
	ArgsUsage: "<hex|text>...",
	Flags:     []cli.Flag{textFlag},
	Action:    keccak,
}

// ----------------------------------------------------------------------------
// generate

// generatedJSON is the --json output of generate.
type generatedJSON struct {
	Chain      string          `json:"chain"`
	Contract   common.Hash     `json:"contract"`
	Receiver   common.Hash     `json:"receiver"`
	Price      string          `json:"price"`
	Total      string          `json:"total"`
	Attempts   uint64          `json:"attempts"`
	Elapsed    string          `json:"elapsed"`
	Candidates []candidateJSON `json:"candidates"`
	Secrets    hexutil.Bytes   `json:"secrets"`
	Proofs     hexutil.Bytes   `json:"proofs"`
}

type candidateJSON struct {
	Secret common.Hash `json:"secret"`
	Proof  common.Hash `json:"proof"`
	Value  string      `json:"value"`
}

func generate(c *cli.Context) error {
	cfg, err := commandConfig(c)
	if err != nil {
		return err
	}
	mixin, err := cfg.Mixin()
	if err != nil {
		return err
	}
	price, err := cfg.PriceValue()
	if err != nil {
		return err
	}

	ctx := c.Context
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	if cfg.Progress > 0 {
		rep := metrics.NewReporter(metrics.Registry, cfg.Progress, func(err error) {
			log.Warn("Progress report failed", "err", err)
		})
		rep.AddBackend(progressBackend(log.Default().Module("progress")))
		rep.Start()
		defer rep.Stop()
	}

	gen := ticket.NewGenerator(mixin, price,
		ticket.WithWorkers(cfg.Workers),
		ticket.WithMaxAttempts(cfg.MaxAttempts),
		ticket.WithLogger(log.Default().Module("generator")),
	)
	res, err := gen.Generate(ctx)
	if err != nil {
		return err
	}

	if c.Bool(jsonFlag.Name) {
		return writeGeneratedJSON(c.App.Writer, mixin, price, res)
	}
	writeGenerated(c.App.Writer, res)
	return nil
}

// progressBackend logs the live search counters.
func progressBackend(l *log.Logger) metrics.Backend {
	return metrics.BackendFunc(func(values map[string]float64) error {
		l.Info("Searching", "attempts", uint64(values["ticket/generate/attempts"]),
			"hashrate", fmt.Sprintf("%.0f/s", values["ticket/generate/hashrate.rate1"]),
			"zerodivisors", uint64(values["ticket/generate/zero_divisors"]))
		return nil
	})
}

func writeGenerated(w io.Writer, res *ticket.Generated) {
	for _, cand := range res.Candidates {
		fmt.Fprintf(w, "%s %s %s\n", cand.Secret.Hex(), cand.Proof.Hex(), cand.Value.Dec())
	}
	fmt.Fprintf(w, "total:   %s\n", res.Total.Dec())
	fmt.Fprintf(w, "secrets: %s\n", hexutil.Encode(res.EncodeSecrets()))
	fmt.Fprintf(w, "proofs:  %s\n", hexutil.Encode(res.EncodeProofs()))
}

func writeGeneratedJSON(w io.Writer, m ticket.Mixin, price *uint256.Int, res *ticket.Generated) error {
	out := generatedJSON{
		Chain:      new(uint256.Int).SetBytes32(m.Chain().Bytes()).Dec(),
		Contract:   m.Contract(),
		Receiver:   m.Receiver(),
		Price:      price.Dec(),
		Total:      res.Total.Dec(),
		Attempts:   res.Attempts,
		Elapsed:    res.Elapsed.String(),
		Candidates: make([]candidateJSON, len(res.Candidates)),
		Secrets:    res.EncodeSecrets(),
		Proofs:     res.EncodeProofs(),
	}
	for i, cand := range res.Candidates {
		out.Candidates[i] = candidateJSON{Secret: cand.Secret, Proof: cand.Proof, Value: cand.Value.Dec()}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// ----------------------------------------------------------------------------
// verify

func verify(c *cli.Context) error {
	secrets, proofs := c.String(secretsFlag.Name), c.String(proofsFlag.Name)
	if (secrets == "") == (proofs == "") {
		return fmt.Errorf("%w: exactly one of --secrets and --proofs is required", ErrInvalidConfig)
	}
	cfg, err := commandConfig(c)
	if err != nil {
		return err
	}
	mixin, err := cfg.Mixin()
	if err != nil {
		return err
	}

	var opts []ticket.VerifierOption
	if cfg.Strict {
		opts = append(opts, ticket.WithStrict())
	}
	v := ticket.NewVerifier(mixin, opts...)

	var total *uint256.Int
	if secrets != "" {
		data, err := readHexArg(c.App.Reader, secrets)
		if err != nil {
			return fmt.Errorf("secrets: %w", err)
		}
		total, err = v.VerifySecrets(data)
		if err != nil {
			return err
		}
	} else {
		data, err := readHexArg(c.App.Reader, proofs)
		if err != nil {
			return fmt.Errorf("proofs: %w", err)
		}
		total, err = v.VerifyProofs(data)
		if err != nil {
			return err
		}
	}

	word := total.Bytes32()
	fmt.Fprintf(c.App.Writer, "total: %s\n", total.Dec())
	fmt.Fprintf(c.App.Writer, "word:  %s\n", hexutil.Encode(word[:]))

	// A price turns verify into an acceptance check.
	if cfg.Price != "" {
		price, err := cfg.PriceValue()
		if err != nil {
			return err
		}
		if total.Lt(price) {
			return cli.Exit(fmt.Sprintf("insufficient payment: %s < %s", total.Dec(), price.Dec()), 2)
		}
	}
	return nil
}

// readHexArg decodes a hex argument, with or without 0x prefix. "-" reads
// the hex text from r; whitespace and line breaks are ignored.
func readHexArg(r io.Reader, arg string) ([]byte, error) {
	if arg == "-" {
		raw, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		arg = strings.Join(strings.Fields(string(raw)), "")
	}
	return decodeHex(arg)
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	return hexutil.Decode(s)
}

// ----------------------------------------------------------------------------
// keccak

func keccak(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("%w: keccak needs at least one argument", ErrInvalidConfig)
	}
	for _, arg := range c.Args().Slice() {
		var data []byte
		if c.Bool(textFlag.Name) {
			data = []byte(arg)
		} else {
			var err error
			if data, err = decodeHex(arg); err != nil {
				return fmt.Errorf("argument %q: %w", arg, err)
			}
		}
		fmt.Fprintln(c.App.Writer, crypto.Keccak256Hash(data).Hex())
	}
	return nil
}
