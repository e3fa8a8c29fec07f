package scan

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/FocuswithJustin/versefinder/core/errors"
	"github.com/FocuswithJustin/versefinder/core/ref"
)

// Capitalization selects how miss messages case the chapter and book names.
type Capitalization int

const (
	// TitleFirst upper-cases the first letter of the chapter token and
	// lower-cases the rest ("Chapter 99"); the book name is left as is.
	TitleFirst Capitalization = iota
	// TitleWords title-cases every word of the chapter token and book name
	// ("Chapter 99 of Song Of Solomon").
	TitleWords
)

// ParseCapitalization maps "first" or "words" to a Capitalization.
func ParseCapitalization(s string) (Capitalization, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first":
		return TitleFirst, nil
	case "words":
		return TitleWords, nil
	default:
		return TitleFirst, errors.NewValidation("capitalization", `must be "first" or "words"`)
	}
}

func (c Capitalization) String() string {
	if c == TitleWords {
		return "words"
	}
	return "first"
}

// Describe renders the user-facing text for an outcome. Found verses return
// the matched text unchanged.
func Describe(o Outcome, r ref.Reference, style Capitalization) string {
	book := r.BookName
	if style == TitleWords {
		book = titleWords(book)
	}

	switch o.Kind {
	case VerseFound:
		return o.Text
	case VerseMissing:
		chapter := upperFirst(r.Chapter)
		if style == TitleWords {
			chapter = titleWords(r.Chapter)
		}
		return fmt.Sprintf("%s of %s does not have a verse %s", chapter, book, r.Verse)
	case ChapterMissing:
		return fmt.Sprintf("The book of %s does not have a %s", book, strings.ToLower(r.Chapter))
	default:
		return fmt.Sprintf("The Bible does not contain the book of %s", book)
	}
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func titleWords(s string) string {
	return cases.Title(language.English).String(s)
}
