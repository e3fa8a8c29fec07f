package corpus

import (
	"bytes"
	"compress/gzip"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/versefinder/core/errors"
	"github.com/FocuswithJustin/versefinder/internal/validation"
)

const sample = "THE BOOK OF JOHN\r\nCHAPTER 3\r\n16 For God so loved the world\r\n"

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoad_Plain(t *testing.T) {
	c, err := Load(writeFile(t, "Bible.txt", []byte(sample)))
	require.NoError(t, err)

	require.Equal(t, 3, c.Len())
	assert.Equal(t, "THE BOOK OF JOHN", c.Line(0))
	assert.Equal(t, "CHAPTER 3", c.Line(1))
	assert.Equal(t, "16 For God so loved the world", c.Line(2))
	assert.Equal(t, int64(len(sample)), c.Size)
	assert.Len(t, c.Fingerprint, 64)
	assert.NotEmpty(t, c.Path)
}

func TestLoad_Compressed(t *testing.T) {
	plain, err := Load(writeFile(t, "Bible.txt", []byte(sample)))
	require.NoError(t, err)

	var xzBuf bytes.Buffer
	xw, err := xz.NewWriter(&xzBuf)
	require.NoError(t, err)
	_, err = xw.Write([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, xw.Close())

	var gzBuf bytes.Buffer
	gw := gzip.NewWriter(&gzBuf)
	_, err = gw.Write([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	for name, data := range map[string][]byte{
		"Bible.txt.xz": xzBuf.Bytes(),
		"Bible.txt.gz": gzBuf.Bytes(),
	} {
		t.Run(name, func(t *testing.T) {
			c, err := Load(writeFile(t, name, data))
			require.NoError(t, err)
			assert.Equal(t, plain.Len(), c.Len())
			assert.Equal(t, plain.Fingerprint, c.Fingerprint)
			assert.Equal(t, plain.Size, c.Size)
			for i := 0; i < c.Len(); i++ {
				assert.Equal(t, plain.Line(i), c.Line(i))
			}
		})
	}
}

func TestLoad_BadCompressedData(t *testing.T) {
	header := append([]byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}, []byte("corrupt stream")...)
	_, err := Load(writeFile(t, "Bible.txt.xz", header))
	var ioErr *errors.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "decompress", ioErr.Operation)
}

func TestLoad_ExtensionMismatch(t *testing.T) {
	_, err := Load(writeFile(t, "Bible.txt.xz", []byte("not xz at all")))
	var parseErr *errors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.ErrorIs(t, err, validation.ErrTypeMismatch)
}

func TestLoad_SniffsCompressionWithoutExtension(t *testing.T) {
	var gzBuf bytes.Buffer
	gw := gzip.NewWriter(&gzBuf)
	_, err := gw.Write([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	c, err := Load(writeFile(t, "Bible.txt", gzBuf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
}

func TestLoad_RejectsBinary(t *testing.T) {
	_, err := Load(writeFile(t, "Bible.txt", []byte("SQLite format 3\x00rest")))
	assert.ErrorIs(t, err, validation.ErrTypeMismatch)

	_, err = Load(writeFile(t, "Bible.txt", []byte{0x01, 0x02, 0x00, 0x03}))
	assert.ErrorIs(t, err, validation.ErrTypeMismatch)
}

func TestLoad_Unsupported(t *testing.T) {
	_, err := Load(writeFile(t, "Bible.txt.bz2", []byte("BZh91AY&SY")))
	assert.ErrorIs(t, err, errors.ErrUnsupported)
}

func TestLoad_Directory(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, validation.ErrIsDirectory)
}

func TestLoad_InvalidPath(t *testing.T) {
	_, err := Load("")
	assert.ErrorIs(t, err, validation.ErrEmptyPath)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	var ioErr *errors.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "open", ioErr.Operation)
	assert.True(t, stderrors.Is(err, os.ErrNotExist))
}

func TestLoad_Empty(t *testing.T) {
	_, err := Load(writeFile(t, "Bible.txt", nil))
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestFromReader_LineSplitting(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a\nb", []string{"a", "b"}},
		{"a\nb\n", []string{"a", "b"}},
		{"a\r\n\r\nb\r\n", []string{"a", "", "b"}},
		{"single", []string{"single"}},
	}

	for _, tt := range tests {
		c, err := FromReader(strings.NewReader(tt.in))
		require.NoError(t, err, tt.in)
		got := make([]string, c.Len())
		for i := range got {
			got[i] = c.Line(i)
		}
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestFromLines(t *testing.T) {
	src := []string{"THE BOOK OF JOHN", "CHAPTER 1"}
	c := FromLines(src)
	src[0] = "mutated"

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "THE BOOK OF JOHN", c.Line(0))
	assert.Len(t, c.Fingerprint, 64)

	fromText, err := FromReader(strings.NewReader("THE BOOK OF JOHN\nCHAPTER 1"))
	require.NoError(t, err)
	assert.Equal(t, fromText.Fingerprint, c.Fingerprint)
}

func TestHumanSize(t *testing.T) {
	c := &Corpus{Size: 4_400_000}
	assert.Equal(t, "4.4 MB", c.HumanSize())
}
