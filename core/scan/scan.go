// Package scan resolves a normalized reference against a corpus in a single
// forward pass.
//
// The corpus is an opaque ordered line stream containing three kinds of line:
// book markers ("... THE BOOK OF JOHN"), chapter or psalm markers
// ("CHAPTER 3", "PSALM 23") and verse lines ("16 For God so loved ...").
// The scanner tracks how much of the reference it has resolved (book, then
// chapter) and stops at the first decisive line, classifying the result as
// found, or as a verse, chapter or book miss.
package scan

import (
	"bufio"
	stderrors "errors"
	"io"
	"strings"

	"github.com/FocuswithJustin/versefinder/core/errors"
	"github.com/FocuswithJustin/versefinder/core/ref"
)

// ErrEmptySource is returned when there are no lines to scan.
var ErrEmptySource = stderrors.New("scan: empty corpus")

const (
	bookMarker    = "THE BOOK OF"
	chapterMarker = "CHAPTER"
	psalmMarker   = "PSALM"

	maxLineSize = 1 << 20
)

// Kind classifies the result of a scan.
type Kind int

const (
	// VerseFound means the verse line was located.
	VerseFound Kind = iota
	// VerseMissing means the chapter was found but the verse was not in it.
	VerseMissing
	// ChapterMissing means the book was found but not the chapter.
	ChapterMissing
	// BookMissing means no book marker matched.
	BookMissing
)

func (k Kind) String() string {
	switch k {
	case VerseFound:
		return "verse_found"
	case VerseMissing:
		return "verse_missing"
	case ChapterMissing:
		return "chapter_missing"
	case BookMissing:
		return "book_missing"
	default:
		return "unknown"
	}
}

// Outcome is the result of one scan.
type Outcome struct {
	Kind Kind
	// Text is "<BOOK> <chapter>:<verse line>" for VerseFound, empty otherwise.
	Text string
	// Line is the 0-based index of the line that decided the outcome.
	Line int
}

// Found reports whether the verse was located.
func (o Outcome) Found() bool {
	return o.Kind == VerseFound
}

// Source is a random-access line sequence. *corpus.Corpus satisfies it.
type Source interface {
	Len() int
	Line(i int) string
}

// BookMatch selects how book marker lines are compared to the reference.
type BookMatch int

const (
	// MatchContains accepts any line containing "THE BOOK OF <NAME>".
	MatchContains BookMatch = iota
	// MatchSuffix accepts only lines ending with "THE BOOK OF <NAME>".
	MatchSuffix
)

// ParseBookMatch maps "contains" or "suffix" to a BookMatch.
func ParseBookMatch(s string) (BookMatch, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "contains":
		return MatchContains, nil
	case "suffix":
		return MatchSuffix, nil
	default:
		return MatchContains, errors.NewValidation("book_match", `must be "contains" or "suffix"`)
	}
}

func (m BookMatch) String() string {
	if m == MatchSuffix {
		return "suffix"
	}
	return "contains"
}

// Options tunes marker matching.
type Options struct {
	BookMatch BookMatch
}

// State is the progress of a single scan. Both flags start false and only
// ever become true.
type State struct {
	FoundBook    bool
	FoundChapter bool
}

// Scan walks src from the first line and returns the first decisive outcome.
func Scan(src Source, r ref.Reference, opts Options) (Outcome, error) {
	n := src.Len()
	if n == 0 {
		return Outcome{}, ErrEmptySource
	}

	var st State
	for i := 0; i < n; i++ {
		if out, done := st.Step(src.Line(i), i, i == n-1, r, opts); done {
			return out, nil
		}
	}
	return st.exhausted(n - 1), nil
}

// ScanReader is the streaming form of Scan. It holds one line of lookahead
// so the final line is recognized without counting lines first. Read errors
// are returned as errors, never as outcomes.
func ScanReader(rd io.Reader, r ref.Reference, opts Options) (Outcome, error) {
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return Outcome{}, err
		}
		return Outcome{}, ErrEmptySource
	}

	var st State
	current := strings.TrimSuffix(sc.Text(), "\r")
	for i := 0; ; i++ {
		hasNext := sc.Scan()
		if !hasNext {
			if err := sc.Err(); err != nil {
				return Outcome{}, err
			}
		}

		if out, done := st.Step(current, i, !hasNext, r, opts); done {
			return out, nil
		}
		if !hasNext {
			return st.exhausted(i), nil
		}
		current = strings.TrimSuffix(sc.Text(), "\r")
	}
}

// Step evaluates one line against the guard chain. The checks run in a fixed
// priority order and the first one that applies wins:
//
//  1. book marker for the reference: mark book found, keep going
//  2. chapter marker inside the book: mark chapter found, keep going
//  3. verse line inside the chapter: VerseFound
//  4. chapter ends (new marker or last line), or no verse was asked for: VerseMissing
//  5. book ends (new book marker or last line): ChapterMissing
//  6. last line: BookMissing
//
// It returns done=false when scanning should continue with the next line.
func (st *State) Step(line string, index int, last bool, r ref.Reference, opts Options) (Outcome, bool) {
	switch {
	case !st.FoundBook && matchesBook(line, r.Book, opts.BookMatch):
		st.FoundBook = true
		return Outcome{}, false

	case st.FoundBook && containsToken(line, r.Chapter):
		st.FoundChapter = true
		return Outcome{}, false

	case st.FoundChapter && r.HasVerse && verseMatches(line, r.Verse):
		return Outcome{
			Kind: VerseFound,
			Text: r.BookName + " " + chapterNumber(r.Chapter) + ":" + line,
			Line: index,
		}, true

	case (st.FoundBook && st.FoundChapter && (isMarker(line) || last)) || !r.HasVerse:
		return Outcome{Kind: VerseMissing, Line: index}, true

	case st.FoundBook && (strings.Contains(line, bookMarker) || last):
		return Outcome{Kind: ChapterMissing, Line: index}, true

	case last:
		return Outcome{Kind: BookMissing, Line: index}, true
	}
	return Outcome{}, false
}

// exhausted classifies a scan whose final line was consumed by a book or
// chapter match, so no check above could fire on it.
func (st *State) exhausted(index int) Outcome {
	switch {
	case st.FoundChapter:
		return Outcome{Kind: VerseMissing, Line: index}
	case st.FoundBook:
		return Outcome{Kind: ChapterMissing, Line: index}
	default:
		return Outcome{Kind: BookMissing, Line: index}
	}
}

func matchesBook(line, book string, mode BookMatch) bool {
	if mode == MatchSuffix {
		return strings.HasSuffix(line, book)
	}
	return strings.Contains(line, book)
}

// containsToken reports whether line contains token not immediately followed
// by a digit, so "CHAPTER 1" does not match "CHAPTER 10".
func containsToken(line, token string) bool {
	for offset := 0; ; {
		i := strings.Index(line[offset:], token)
		if i < 0 {
			return false
		}
		end := offset + i + len(token)
		if end == len(line) || !isDigit(line[end]) {
			return true
		}
		offset += i + 1
	}
}

func isMarker(line string) bool {
	return strings.Contains(line, bookMarker) ||
		strings.Contains(line, chapterMarker) ||
		strings.Contains(line, psalmMarker)
}

// verseMatches compares the line's leading verse number to verse as a whole
// token. Numeric verses compare against the leading digit run; anything else
// against the leading whitespace-delimited field.
func verseMatches(line, verse string) bool {
	body := strings.TrimLeft(line, " \t")
	if isNumber(verse) {
		end := 0
		for end < len(body) && isDigit(body[end]) {
			end++
		}
		return end > 0 && body[:end] == verse
	}
	fields := strings.Fields(body)
	return len(fields) > 0 && fields[0] == verse
}

// chapterNumber returns the second space-separated token of the chapter
// marker, e.g. "3" from "CHAPTER 3".
func chapterNumber(chapter string) string {
	parts := strings.Split(chapter, " ")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
