// Package validation checks the file paths and file contents versefinder is
// pointed at before anything is read or appended.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"
)

const (
	// MaxFileSize caps the corpus and abbreviation files (256 MB).
	MaxFileSize = 256 << 20
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
	// headerSize is enough bytes to identify every supported format.
	headerSize = 512
)

var (
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrPathTooLong      = errors.New("path too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrIsDirectory      = errors.New("path is a directory")
	ErrTypeMismatch     = errors.New("file type mismatch")
)

// ValidatePath rejects empty, oversized and control-character paths.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: null byte not allowed", ErrInvalidCharacter)
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}
	return nil
}

// ValidateOutputPath is ValidatePath plus a check that the path does not
// name a directory, which an append-only log could never open.
func ValidateOutputPath(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}
	switch filepath.Base(path) {
	case ".", "..":
		return fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}
	return nil
}

// FileType is a content type recognized from magic bytes or extension.
type FileType string

const (
	FileTypeXZ      FileType = "xz"
	FileTypeGzip    FileType = "gzip"
	FileTypeBzip2   FileType = "bzip2"
	FileTypeZstd    FileType = "zstd"
	FileTypeSQLite  FileType = "sqlite"
	FileTypeXML     FileType = "xml"
	FileTypeCSV     FileType = "csv"
	FileTypeText    FileType = "text"
	FileTypeUnknown FileType = "unknown"
)

// Compressed reports whether t is a compression wrapper.
func (t FileType) Compressed() bool {
	switch t {
	case FileTypeXZ, FileTypeGzip, FileTypeBzip2, FileTypeZstd:
		return true
	}
	return false
}

var magicBytes = []struct {
	fileType FileType
	magic    []byte
}{
	{FileTypeXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}},
	{FileTypeGzip, []byte{0x1f, 0x8b}},
	{FileTypeBzip2, []byte("BZh")},
	{FileTypeZstd, []byte{0x28, 0xb5, 0x2f, 0xfd}},
	{FileTypeSQLite, []byte("SQLite format 3")},
}

// DetectFileType reads the head of r and checks it against the type the
// filename's extension claims. Text-like types (text, csv, xml) only need
// to look like text; binary types must carry their magic bytes. A file
// whose content is a recognized binary format is reported as that format
// even without a matching extension, so a gzip corpus named Bible.txt is
// still decompressed.
func DetectFileType(r io.Reader, filename string) (FileType, error) {
	buf := make([]byte, headerSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FileTypeUnknown, fmt.Errorf("failed to read file header: %w", err)
	}
	buf = buf[:n]

	detected := detectFromMagic(buf)
	expected := detectFromExtension(filename)

	if detected != FileTypeUnknown {
		if expected.Compressed() && expected != detected {
			return FileTypeUnknown, fmt.Errorf("%w: extension suggests %s but content is %s", ErrTypeMismatch, expected, detected)
		}
		if detected == FileTypeSQLite {
			return FileTypeUnknown, fmt.Errorf("%w: %s is a SQLite database, not a text file", ErrTypeMismatch, filename)
		}
		return detected, nil
	}

	if expected.Compressed() || expected == FileTypeSQLite {
		return FileTypeUnknown, fmt.Errorf("%w: extension suggests %s but no %s header found", ErrTypeMismatch, expected, expected)
	}

	if n > 0 && !isLikelyText(buf) {
		return FileTypeUnknown, fmt.Errorf("%w: %s does not look like text", ErrTypeMismatch, filename)
	}
	if expected == FileTypeUnknown {
		return FileTypeText, nil
	}
	return expected, nil
}

func detectFromMagic(buf []byte) FileType {
	for _, sig := range magicBytes {
		if bytes.HasPrefix(buf, sig.magic) {
			return sig.fileType
		}
	}
	return FileTypeUnknown
}

func detectFromExtension(filename string) FileType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xz":
		return FileTypeXZ
	case ".gz":
		return FileTypeGzip
	case ".bz2":
		return FileTypeBzip2
	case ".zst":
		return FileTypeZstd
	case ".sqlite", ".db", ".sqlite3":
		return FileTypeSQLite
	case ".xml":
		return FileTypeXML
	case ".csv":
		return FileTypeCSV
	case ".txt":
		return FileTypeText
	default:
		return FileTypeUnknown
	}
}

// isLikelyText treats a buffer with no NUL bytes and over 95% printable
// ASCII or whitespace as text. Bytes >= 0x80 are neutral so UTF-8 passes.
func isLikelyText(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	if bytes.IndexByte(buf, 0) != -1 {
		return false
	}

	printable, control := 0, 0
	for _, b := range buf {
		switch {
		case b >= 0x20 && b <= 0x7e, b == '\t', b == '\n', b == '\r':
			printable++
		case b < 0x20:
			control++
		}
	}
	return printable > 0 && float64(printable)/float64(printable+control) > 0.95
}
