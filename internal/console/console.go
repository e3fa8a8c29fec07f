// Package console runs the interactive prompt loop: read a reference, print
// the verse or the reason it was not found, ask whether to continue.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/versefinder/internal/logging"
	"github.com/FocuswithJustin/versefinder/internal/lookup"
)

const (
	Banner        = "Please enter the reference of the verse you would like to retrieve"
	BookPrompt    = " the book: "
	ChapterPrompt = " the chapter: "
	VersePrompt   = " the verse: "
	AgainPrompt   = "Would you like to find another verse? (Y/N): "
)

// Finder answers a single typed reference. *lookup.Service satisfies it.
type Finder interface {
	Find(ctx context.Context, book, chapter, verse string) (lookup.Result, error)
}

// Driver owns the session's input and output streams.
type Driver struct {
	In     io.Reader
	Out    io.Writer
	Finder Finder

	// NewSessionID overrides the session ID generator; nil uses uuid.
	NewSessionID func() string
}

// Run loops until the user declines another lookup or input ends. End of
// input is a normal exit. Lookup and write failures end the session with
// an error.
func (d *Driver) Run(ctx context.Context) error {
	ctx = logging.WithSessionID(ctx, d.sessionID())
	logging.DebugContext(ctx, "session_started")

	in := bufio.NewReader(d.In)
	lookups := 0
	defer func() {
		logging.DebugContext(ctx, "session_ended", "lookups", lookups)
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := fmt.Fprintln(d.Out, Banner); err != nil {
			return err
		}
		fields, ok, err := d.readReference(in)
		if err != nil || !ok {
			return err
		}

		res, err := d.Finder.Find(ctx, fields[0], fields[1], fields[2])
		if err != nil {
			return err
		}
		lookups++
		if _, err := fmt.Fprintln(d.Out, res.Message); err != nil {
			return err
		}

		if _, err := io.WriteString(d.Out, AgainPrompt); err != nil {
			return err
		}
		answer, err := readLine(in)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if !strings.HasPrefix(strings.ToUpper(answer), "Y") {
			return nil
		}
	}
}

// readReference prompts for book, chapter and verse. ok is false when input
// ended before all three were answered.
func (d *Driver) readReference(in *bufio.Reader) ([3]string, bool, error) {
	var fields [3]string
	for i, prompt := range []string{BookPrompt, ChapterPrompt, VersePrompt} {
		if _, err := io.WriteString(d.Out, prompt); err != nil {
			return fields, false, err
		}
		line, err := readLine(in)
		if err == io.EOF {
			return fields, false, nil
		}
		if err != nil {
			return fields, false, err
		}
		fields[i] = line
	}
	return fields, true, nil
}

// readLine returns the next line without its terminator. A final line with
// no newline is returned normally; io.EOF is only reported when nothing was
// read.
func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (d *Driver) sessionID() string {
	if d.NewSessionID != nil {
		return d.NewSessionID()
	}
	return uuid.NewString()
}
