// Package xlog is the runtime's cold-path structured logger: thread
// pinning failures, hook panics, and network validation errors, none of
// which are ever on a hot loop, so paying log/slog's allocation cost here
// is fine. Fatal events are additionally tagged with a short sha3
// fingerprint so the same recurring failure can be correlated across
// worker goroutines without printing the whole payload.
package xlog

import (
	"encoding/hex"
	"log/slog"

	"golang.org/x/crypto/sha3"
)

var logger = slog.Default()

// SetLogger overrides the package-level logger, e.g. to attach a handler
// with request-scoped attributes.
func SetLogger(l *slog.Logger) { logger = l }

// Fingerprint returns a short, stable hex tag for msg, used to correlate
// repeated cold-path events (the same panic value recurring across
// workers) without logging the full payload every time.
func Fingerprint(msg string) string {
	sum := sha3.Sum256([]byte(msg))
	return hex.EncodeToString(sum[:6])
}

// Warn logs a non-fatal cold-path event: ring buffer would-block during
// drain, a dropped retry, backpressure on pushDuringProcessing.
func Warn(msg string, args ...any) {
	logger.Warn(msg, args...)
}

// Fatal logs an unrecoverable condition — a hook panic, a pin failure, an
// invalid network reaching InitQueue — tagged with its fingerprint so
// repeated occurrences of the same failure are easy to spot in aggregate.
func Fatal(msg string, args ...any) {
	logger.Error(msg, append(args, "fingerprint", Fingerprint(msg))...)
}
