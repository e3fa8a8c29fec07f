package validation

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantError error
	}{
		{
			name: "valid relative path",
			path: "Bible.txt",
		},
		{
			name: "valid absolute path",
			path: "/usr/share/versefinder/Bible.txt.xz",
		},
		{
			name:      "empty path",
			path:      "",
			wantError: ErrEmptyPath,
		},
		{
			name:      "path with null byte",
			path:      "Bible\x00.txt",
			wantError: ErrInvalidCharacter,
		},
		{
			name:      "path with control character",
			path:      "dir/verses\n.txt",
			wantError: ErrInvalidCharacter,
		},
		{
			name:      "very long path",
			path:      strings.Repeat("a/", 2048) + "Bible.txt",
			wantError: ErrPathTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantError == nil {
				if err != nil {
					t.Errorf("ValidatePath() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantError) {
				t.Errorf("ValidatePath() error = %v, want %v", err, tt.wantError)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantError error
	}{
		{name: "file", path: "verses.txt"},
		{name: "nested file", path: "out/verses.txt"},
		{name: "trailing slash", path: "out/", wantError: ErrIsDirectory},
		{name: "dot", path: ".", wantError: ErrIsDirectory},
		{name: "dotdot", path: "out/..", wantError: ErrIsDirectory},
		{name: "empty", path: "", wantError: ErrEmptyPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.path)
			if tt.wantError == nil {
				if err != nil {
					t.Errorf("ValidateOutputPath() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantError) {
				t.Errorf("ValidateOutputPath() error = %v, want %v", err, tt.wantError)
			}
		})
	}
}

func TestDetectFileType(t *testing.T) {
	xzMagic := []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00, 0x00, 0x04}
	gzMagic := []byte{0x1f, 0x8b, 0x08, 0x00}

	tests := []struct {
		name      string
		content   []byte
		filename  string
		want      FileType
		wantError error
	}{
		{
			name:     "plain corpus",
			content:  []byte("THE BOOK OF GENESIS\nCHAPTER 1\n1 In the beginning"),
			filename: "Bible.txt",
			want:     FileTypeText,
		},
		{
			name:     "no extension is text",
			content:  []byte("THE BOOK OF GENESIS\n"),
			filename: "Bible",
			want:     FileTypeText,
		},
		{
			name:     "abbreviation csv",
			content:  []byte("GEN,GENESIS\nJN,JOHN\n"),
			filename: "Bible_Abbreviations.csv",
			want:     FileTypeCSV,
		},
		{
			name:     "abbreviation xml",
			content:  []byte(`<?xml version="1.0"?><books/>`),
			filename: "abbreviations.xml",
			want:     FileTypeXML,
		},
		{
			name:     "xz with extension",
			content:  xzMagic,
			filename: "Bible.txt.xz",
			want:     FileTypeXZ,
		},
		{
			name:     "gzip with extension",
			content:  gzMagic,
			filename: "Bible.txt.gz",
			want:     FileTypeGzip,
		},
		{
			name:     "gzip sniffed behind txt extension",
			content:  gzMagic,
			filename: "Bible.txt",
			want:     FileTypeGzip,
		},
		{
			name:     "bzip2",
			content:  []byte("BZh91AY&SY"),
			filename: "Bible.txt.bz2",
			want:     FileTypeBzip2,
		},
		{
			name:      "xz extension with gzip content",
			content:   gzMagic,
			filename:  "Bible.txt.xz",
			wantError: ErrTypeMismatch,
		},
		{
			name:      "xz extension with text content",
			content:   []byte("THE BOOK OF GENESIS"),
			filename:  "Bible.txt.xz",
			wantError: ErrTypeMismatch,
		},
		{
			name:      "sqlite database as corpus",
			content:   []byte("SQLite format 3\x00"),
			filename:  "Bible.txt",
			wantError: ErrTypeMismatch,
		},
		{
			name:      "binary content",
			content:   []byte{0x00, 0x01, 0x02, 0x03},
			filename:  "Bible.txt",
			wantError: ErrTypeMismatch,
		},
		{
			name:     "empty file keeps extension type",
			content:  nil,
			filename: "Bible.txt",
			want:     FileTypeText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFileType(bytes.NewReader(tt.content), tt.filename)
			if tt.wantError != nil {
				if !errors.Is(err, tt.wantError) {
					t.Errorf("DetectFileType() error = %v, want %v", err, tt.wantError)
				}
				return
			}
			if err != nil {
				t.Fatalf("DetectFileType() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFileType() = %v, want %v", got, tt.want)
			}
		})
	}
}

type errorReader struct{}

func (errorReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestDetectFileType_ReadError(t *testing.T) {
	_, err := DetectFileType(errorReader{}, "Bible.txt")
	if err == nil || !strings.Contains(err.Error(), "disk on fire") {
		t.Errorf("DetectFileType() error = %v", err)
	}
}

func TestFileTypeCompressed(t *testing.T) {
	for _, ft := range []FileType{FileTypeXZ, FileTypeGzip, FileTypeBzip2, FileTypeZstd} {
		if !ft.Compressed() {
			t.Errorf("%s should be compressed", ft)
		}
	}
	for _, ft := range []FileType{FileTypeText, FileTypeCSV, FileTypeXML, FileTypeSQLite, FileTypeUnknown} {
		if ft.Compressed() {
			t.Errorf("%s should not be compressed", ft)
		}
	}
}

func TestIsLikelyText(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    bool
	}{
		{"ascii", []byte("16 For God so loved the world"), true},
		{"crlf", []byte("CHAPTER 3\r\n16 For God\r\n"), true},
		{"utf8", []byte("Psalm 23: Dominus regit me, café"), true},
		{"empty", nil, false},
		{"null byte", []byte("text\x00more"), false},
		{"control heavy", bytes.Repeat([]byte{0x01, 'a'}, 20), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isLikelyText(tt.content); got != tt.want {
				t.Errorf("isLikelyText() = %v, want %v", got, tt.want)
			}
		})
	}
}

func BenchmarkDetectFileType(b *testing.B) {
	content := []byte(strings.Repeat("1 In the beginning God created the heaven and the earth.\n", 20))
	for i := 0; i < b.N; i++ {
		_, _ = DetectFileType(bytes.NewReader(content), "Bible.txt")
	}
}
