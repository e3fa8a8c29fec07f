// Package lookup ties normalization, scanning, formatting and persistence
// into a single verse query.
package lookup

import (
	"context"
	"time"

	"github.com/FocuswithJustin/versefinder/core/corpus"
	"github.com/FocuswithJustin/versefinder/core/errors"
	"github.com/FocuswithJustin/versefinder/core/history"
	"github.com/FocuswithJustin/versefinder/core/ref"
	"github.com/FocuswithJustin/versefinder/core/scan"
	"github.com/FocuswithJustin/versefinder/core/wrap"
	"github.com/FocuswithJustin/versefinder/internal/logging"
)

// Options controls matching and rendering.
type Options struct {
	BookMatch      scan.BookMatch
	Capitalization scan.Capitalization
	// Width is the wrap column for found verses; <= 0 means wrap.DefaultWidth.
	Width int
}

// Service answers verse queries against a loaded corpus. The corpus and
// table are read-only, so one Service may serve concurrent callers as long
// as its Sink is safe for concurrent use.
type Service struct {
	Table   ref.Lookuper
	Corpus  *corpus.Corpus
	Sink    history.Sink
	Options Options

	now func() time.Time
}

// Result is a completed query.
type Result struct {
	Ref     ref.Reference
	Outcome scan.Outcome
	// Message is the wrapped verse when found, the miss message otherwise.
	Message string
}

// Found reports whether the verse was located.
func (r Result) Found() bool {
	return r.Outcome.Found()
}

// Find looks up book, chapter and verse as typed by the user.
func (s *Service) Find(ctx context.Context, book, chapter, verse string) (Result, error) {
	return s.find(ctx, ref.Normalize(s.Table, book, chapter, verse))
}

// FindRef looks up a single reference string such as "John 3:16".
func (s *Service) FindRef(ctx context.Context, text string) (Result, error) {
	raw, err := ref.Parse(text)
	if err != nil {
		return Result{}, err
	}
	return s.find(ctx, ref.NormalizeRaw(s.Table, raw))
}

func (s *Service) find(ctx context.Context, r ref.Reference) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if s.Corpus == nil {
		return Result{}, errors.NewValidation("corpus", "no corpus loaded")
	}

	start := s.clock()
	out, err := scan.Scan(s.Corpus, r, scan.Options{BookMatch: s.Options.BookMatch})
	if err != nil {
		return Result{}, errors.Wrap(err, "scan corpus")
	}

	res := Result{Ref: r, Outcome: out}
	if out.Found() {
		res.Message = wrap.Wrap(out.Text, s.Options.Width)
	} else {
		res.Message = scan.Describe(out, r, s.Options.Capitalization)
	}

	logging.LookupCompleted(ctx, r.String(), out.Kind.String(), out.Line, s.clock().Sub(start))

	if s.Sink != nil {
		rec := history.Record{
			SessionID: logging.GetSessionID(ctx),
			Query:     r.String(),
			Outcome:   out.Kind.String(),
			Found:     out.Found(),
			Text:      res.Message,
			Corpus:    s.Corpus.Fingerprint,
			CreatedAt: s.clock(),
		}
		if err := s.Sink.Append(ctx, rec); err != nil {
			return res, errors.Wrapf(err, "record %s", r)
		}
	}

	return res, nil
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}
