// Package history persists lookup results.
//
// The text log is the tool's primary output: every found verse is appended,
// already wrapped, to a plain file that is never truncated. An optional
// SQLite store additionally records every lookup, misses included.
package history

import (
	"context"
	stderrors "errors"
	"time"
)

// Record is one completed lookup.
type Record struct {
	ID        int64
	SessionID string
	// Query is the normalized reference, e.g. "JOHN 3:16".
	Query string
	// Outcome is the scan outcome name, e.g. "verse_found".
	Outcome string
	// Found is true when the verse was located.
	Found bool
	// Text is the wrapped verse for found lookups, the miss message otherwise.
	Text string
	// Corpus is the BLAKE3 fingerprint of the corpus that answered.
	Corpus    string
	CreatedAt time.Time
}

// Sink receives completed lookups.
type Sink interface {
	Append(ctx context.Context, rec Record) error
	Close() error
}

// Multi fans a record out to several sinks.
type Multi []Sink

// Append writes rec to every sink. All sinks are attempted; the errors of
// those that failed are joined.
func (m Multi) Append(ctx context.Context, rec Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Append(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// Close closes every sink.
func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// Discard is a Sink that drops everything.
type Discard struct{}

func (Discard) Append(context.Context, Record) error { return nil }
func (Discard) Close() error                         { return nil }
