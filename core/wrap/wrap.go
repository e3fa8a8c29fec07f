// Package wrap word-wraps text to a fixed column width.
package wrap

import "strings"

// DefaultWidth is the display width used for verse output.
const DefaultWidth = 80

// Wrap fills lines greedily with whitespace-separated words, breaking only
// between words. A word longer than width gets a line of its own. Runs of
// whitespace collapse to a single space and lines are joined with "\n".
// A width of zero or less means DefaultWidth.
func Wrap(text string, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}

	var (
		lines []string
		line  strings.Builder
	)
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}

	return strings.Join(lines, "\n")
}
