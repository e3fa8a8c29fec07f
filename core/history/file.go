package history

import (
	"context"
	"os"

	"github.com/FocuswithJustin/versefinder/core/errors"
)

// FileSink appends found verses to a text file. The file is opened, written
// and closed on every append.
type FileSink struct {
	Path string
}

// NewFileSink returns a sink appending to path.
func NewFileSink(path string) *FileSink {
	return &FileSink{Path: path}
}

// Append writes rec.Text and a newline when rec.Found. Misses are ignored.
func (s *FileSink) Append(ctx context.Context, rec Record) error {
	if !rec.Found {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.NewIO("open", s.Path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(rec.Text + "\n"); err != nil {
		return errors.NewIO("write", s.Path, err)
	}
	if err := f.Close(); err != nil {
		return errors.NewIO("close", s.Path, err)
	}
	return nil
}

// Close is a no-op; the file is never held open between appends.
func (s *FileSink) Close() error {
	return nil
}
