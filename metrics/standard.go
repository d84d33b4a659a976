package metrics

import gethmetrics "github.com/ethereum/go-ethereum/metrics"

// Pre-defined metrics for ticket generation and verification. All metrics
// live in Registry so they are globally accessible without passing a
// registry around.

var (
	// ---- Generation ----

	// GenerateAttempts counts random secrets drawn.
	GenerateAttempts = gethmetrics.NewRegisteredCounter("ticket/generate/attempts", Registry)
	// GenerateZeroDivisors counts candidates resampled because the context
	// hash was zero.
	GenerateZeroDivisors = gethmetrics.NewRegisteredCounter("ticket/generate/zero_divisors", Registry)
	// GenerateAccepted counts candidates that entered the retained set.
	GenerateAccepted = gethmetrics.NewRegisteredCounter("ticket/generate/accepted", Registry)
	// GenerateRejected counts candidates scoring below a full set's minimum.
	GenerateRejected = gethmetrics.NewRegisteredCounter("ticket/generate/rejected", Registry)
	// GenerateEvicted counts retained entries pushed out by better ones.
	GenerateEvicted = gethmetrics.NewRegisteredCounter("ticket/generate/evicted", Registry)
	// GenerateHashrate meters candidates scored per second.
	GenerateHashrate = gethmetrics.NewRegisteredMeter("ticket/generate/hashrate", Registry)
	// GenerateDuration times complete generation runs.
	GenerateDuration = gethmetrics.NewRegisteredTimer("ticket/generate/duration", Registry)
	// GenerateSecrets is the retained set size of the last finished run.
	GenerateSecrets = gethmetrics.NewRegisteredGauge("ticket/generate/secrets", Registry)

	// ---- Verification ----

	// VerifyEntries counts secrets or proofs scored by verifiers.
	VerifyEntries = gethmetrics.NewRegisteredCounter("ticket/verify/entries", Registry)
	// VerifyZeroDivisors counts verified entries whose context hash was zero.
	VerifyZeroDivisors = gethmetrics.NewRegisteredCounter("ticket/verify/zero_divisors", Registry)
	// VerifyFailures counts verification calls rejected for malformed input
	// or, in strict mode, a zero divisor.
	VerifyFailures = gethmetrics.NewRegisteredCounter("ticket/verify/failures", Registry)
)
