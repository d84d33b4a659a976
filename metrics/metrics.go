// Package metrics instruments ticket generation and verification. The
// primitives are go-ethereum's metrics types, kept in a registry private to
// netpay so the CLI can dump exactly what this process recorded.
package metrics

import (
	"time"

	gethmetrics "github.com/ethereum/go-ethereum/metrics"
)

// Registry holds every netpay metric. The pre-defined metrics in
// standard.go register themselves here at init.
var Registry = gethmetrics.NewRegistry()

// Enable turns on the background ticking that meters need to report rates.
// Counters, gauges and timers record regardless.
func Enable() {
	gethmetrics.Enable()
}

// Enabled reports whether Enable has been called.
func Enabled() bool {
	return gethmetrics.Enabled()
}

// Since records the elapsed time from start on the duration timer and
// returns it.
func Since(t *gethmetrics.Timer, start time.Time) time.Duration {
	d := time.Since(start)
	t.Update(d)
	return d
}
