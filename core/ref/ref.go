// Package ref turns raw user-entered book, chapter and verse strings into the
// canonical form the corpus scanner compares against.
package ref

import (
	"strings"
)

const (
	// BookPrefix precedes every canonical book name, matching the corpus
	// book marker lines ("THE BOOK OF JOHN").
	BookPrefix = "THE BOOK OF "

	chapterPrefix = "CHAPTER "
	psalmPrefix   = "PSALM "
	psalmsBook    = "PSALMS"

	// noVerse is the legacy verse value meaning "no verse given".
	noVerse = "0"
)

// Lookuper resolves an abbreviation to its canonical book name.
// *abbrev.Table satisfies it.
type Lookuper interface {
	Lookup(key string) (string, bool)
}

// Reference is a normalized query. It is built once per lookup and never
// modified.
type Reference struct {
	// Book is the book marker form, e.g. "THE BOOK OF JOHN".
	Book string
	// BookName is Book without BookPrefix, e.g. "JOHN".
	BookName string
	// Chapter is the chapter marker token, "CHAPTER 3" or "PSALM 23".
	Chapter string
	// ChapterNumber is the trimmed chapter input, e.g. "3".
	ChapterNumber string
	// Verse is the trimmed verse input. It is kept verbatim for messages
	// even when HasVerse is false.
	Verse string
	// HasVerse is false when no verse was supplied ("" or "0"); the scanner
	// then reports the verse as missing.
	HasVerse bool
}

// Raw holds unnormalized reference fields as the user typed them.
type Raw struct {
	Book    string
	Chapter string
	Verse   string
}

// Normalize builds a Reference from raw input. The book is trimmed,
// uppercased and replaced through table when it is a known alias. Chapter
// and verse are only trimmed; malformed numbers are left for the scanner to
// report as missing.
func Normalize(table Lookuper, book, chapter, verse string) Reference {
	name := strings.ToUpper(strings.TrimSpace(book))
	if table != nil {
		if canonical, ok := table.Lookup(name); ok {
			name = strings.ToUpper(canonical)
		}
	}

	chapterNumber := strings.TrimSpace(chapter)
	chapterToken := chapterPrefix + chapterNumber
	if strings.Contains(name, psalmsBook) {
		chapterToken = psalmPrefix + chapterNumber
	}

	v := strings.TrimSpace(verse)

	return Reference{
		Book:          BookPrefix + name,
		BookName:      name,
		Chapter:       chapterToken,
		ChapterNumber: chapterNumber,
		Verse:         v,
		HasVerse:      v != "" && v != noVerse,
	}
}

// NormalizeRaw is Normalize over a Raw value.
func NormalizeRaw(table Lookuper, r Raw) Reference {
	return Normalize(table, r.Book, r.Chapter, r.Verse)
}

// String renders the reference as "JOHN 3:16", or "JOHN 3" without a verse.
func (r Reference) String() string {
	if !r.HasVerse {
		return r.BookName + " " + r.ChapterNumber
	}
	return r.BookName + " " + r.ChapterNumber + ":" + r.Verse
}
