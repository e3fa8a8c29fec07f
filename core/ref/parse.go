package ref

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/versefinder/core/errors"
)

// refGrammar accepts human-style references:
// "John 3:16", "1 John 4:8", "Song of Solomon 2:1", "Ps 23", "Gen 1.1".
//
//nolint:govet // participle grammar tags are not standard struct tags
type refGrammar struct {
	Ordinal string   `@Int?`
	Words   []string `@Ident+`
	Chapter string   `( @Int`
	Verse   string   `  ( (":" | ".") @Int )? )?`
}

var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Za-z][A-Za-z']*`},
	{Name: "Punct", Pattern: `[:.]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var refParser = participle.MustBuild[refGrammar](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// Parse splits a single reference string into its raw book, chapter and
// verse parts. A missing chapter or verse comes back empty.
func Parse(s string) (Raw, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Raw{}, errors.NewValidation("reference", "empty reference string")
	}

	parsed, err := refParser.ParseString("", s)
	if err != nil {
		return Raw{}, errors.NewParse("reference", "", err)
	}

	book := strings.Join(parsed.Words, " ")
	if parsed.Ordinal != "" {
		book = parsed.Ordinal + " " + book
	}

	return Raw{
		Book:    book,
		Chapter: parsed.Chapter,
		Verse:   parsed.Verse,
	}, nil
}
