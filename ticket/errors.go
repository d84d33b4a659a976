package ticket

import "errors"

// Errors returned by generation and verification.
var (
	// ErrInvalidLength is returned for a byte sequence whose length is not a
	// multiple of WordLength.
	ErrInvalidLength = errors.New("ticket: input length not a multiple of 32")
	// ErrEmptyInput is returned when a verifier is handed no entries.
	ErrEmptyInput = errors.New("ticket: empty input")
	// ErrInvalidWidth is returned when a fixed-width word is not 32 bytes.
	ErrInvalidWidth = errors.New("ticket: word must be exactly 32 bytes")
	// ErrZeroDivisor is returned by strict verifiers for an entry whose
	// context hash is zero.
	ErrZeroDivisor = errors.New("ticket: zero divisor")
	// ErrRandomness wraps a failure of the secret source.
	ErrRandomness = errors.New("ticket: randomness source failed")
	// ErrAttemptsExhausted is returned when the attempt budget runs out
	// before the price is reached.
	ErrAttemptsExhausted = errors.New("ticket: attempt budget exhausted")
)
