// Package corpus loads a flat-text Bible into memory as an ordered sequence
// of lines.
//
// The corpus is read once at startup and never modified. Plain, xz and gzip
// files are accepted; the decompressed bytes are fingerprinted with BLAKE3 so
// lookups can be tied to the exact text they were answered from.
package corpus

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/hex"
	stderrors "errors"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/versefinder/core/errors"
	"github.com/FocuswithJustin/versefinder/internal/logging"
	"github.com/FocuswithJustin/versefinder/internal/validation"
)

// ErrEmptyCorpus is returned when a corpus has no lines at all.
var ErrEmptyCorpus = stderrors.New("corpus is empty")

// Corpus is an immutable, in-memory line sequence.
type Corpus struct {
	// Path is the file the corpus was loaded from, empty for in-memory corpora.
	Path string
	// Size is the number of decompressed bytes.
	Size int64
	// Fingerprint is the hex BLAKE3-256 hash of the decompressed bytes.
	Fingerprint string

	lines []string
}

// Load reads the corpus at path. Compression is detected from the file's
// magic bytes and cross-checked against its extension.
func Load(path string) (*Corpus, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, &errors.ValidationError{Field: "corpus", Value: path, Message: err.Error(), Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.NewIO("stat", path, err)
	}
	if info.IsDir() {
		return nil, errors.NewIO("read", path, validation.ErrIsDirectory)
	}
	if info.Size() > validation.MaxFileSize {
		return nil, errors.NewValidation("corpus", "file exceeds "+humanize.Bytes(validation.MaxFileSize))
	}

	br := bufio.NewReader(f)
	head, _ := br.Peek(512)
	kind, err := validation.DetectFileType(bytes.NewReader(head), path)
	if err != nil {
		return nil, errors.NewParse("corpus", path, err)
	}

	r, err := decompress(path, kind, br)
	if err != nil {
		return nil, err
	}

	c, err := FromReader(r)
	if err != nil {
		if stderrors.Is(err, ErrEmptyCorpus) {
			return nil, errors.Wrap(err, path)
		}
		return nil, errors.NewIO("read", path, err)
	}
	c.Path = path

	logging.CorpusLoaded(path, c.Len(), humanize.Bytes(uint64(c.Size)), c.Fingerprint)
	return c, nil
}

func decompress(path string, kind validation.FileType, r io.Reader) (io.Reader, error) {
	switch kind {
	case validation.FileTypeXZ:
		xzr, err := xz.NewReader(r)
		if err != nil {
			return nil, errors.NewIO("decompress", path, err)
		}
		return xzr, nil
	case validation.FileTypeGzip:
		gzr, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.NewIO("decompress", path, err)
		}
		return gzr, nil
	case validation.FileTypeBzip2, validation.FileTypeZstd:
		return nil, errors.NewUnsupported("corpus compression", string(kind))
	default:
		return r, nil
	}
}

// FromReader reads an entire corpus from r.
func FromReader(r io.Reader) (*Corpus, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return fromBytes(data)
}

// FromLines builds a corpus from already split lines.
func FromLines(lines []string) *Corpus {
	data := []byte(strings.Join(lines, "\n"))
	sum := blake3.Sum256(data)
	return &Corpus{
		Size:        int64(len(data)),
		Fingerprint: hex.EncodeToString(sum[:]),
		lines:       append([]string(nil), lines...),
	}
}

func fromBytes(data []byte) (*Corpus, error) {
	lines := splitLines(data)
	if len(lines) == 0 {
		return nil, ErrEmptyCorpus
	}

	sum := blake3.Sum256(data)
	return &Corpus{
		Size:        int64(len(data)),
		Fingerprint: hex.EncodeToString(sum[:]),
		lines:       lines,
	}, nil
}

// splitLines splits on \n, dropping a trailing \r from each line and the
// empty element after a final newline.
func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	data = bytes.TrimSuffix(data, []byte("\n"))

	raw := strings.Split(string(data), "\n")
	for i, line := range raw {
		raw[i] = strings.TrimSuffix(line, "\r")
	}
	return raw
}

// Len returns the number of lines.
func (c *Corpus) Len() int {
	return len(c.lines)
}

// Line returns the line at index i (0-based).
func (c *Corpus) Line(i int) string {
	return c.lines[i]
}

// HumanSize renders Size for display, e.g. "4.4 MB".
func (c *Corpus) HumanSize() string {
	return humanize.Bytes(uint64(c.Size))
}
