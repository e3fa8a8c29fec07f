package config

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/versefinder/core/abbrev"
	"github.com/FocuswithJustin/versefinder/core/scan"
	"github.com/FocuswithJustin/versefinder/internal/validation"
)

// Validate checks enum values and file paths. Load calls it automatically;
// callers that override fields afterwards (CLI flags) call it again.
func (c *Config) Validate() error {
	if err := validation.ValidatePath(c.Corpus.Path); err != nil {
		return fmt.Errorf("corpus.path: %w", err)
	}
	if _, err := scan.ParseBookMatch(c.Corpus.BookMatch); err != nil {
		return fmt.Errorf("corpus.book_match: %w", err)
	}

	if err := validation.ValidatePath(c.Abbreviations.Path); err != nil {
		return fmt.Errorf("abbreviations.path: %w", err)
	}
	if _, err := abbrev.ParsePolicy(c.Abbreviations.Duplicates); err != nil {
		return fmt.Errorf("abbreviations.duplicates: %w", err)
	}

	if err := validation.ValidateOutputPath(c.Output.Path); err != nil {
		return fmt.Errorf("output.path: %w", err)
	}
	if c.Output.Width < 0 {
		return fmt.Errorf("output.width must be >= 0 (got %d)", c.Output.Width)
	}
	if _, err := scan.ParseCapitalization(c.Output.Capitalization); err != nil {
		return fmt.Errorf("output.capitalization: %w", err)
	}

	if c.HistoryEnabled() {
		if err := validation.ValidateOutputPath(c.History.Path); err != nil {
			return fmt.Errorf("history.path: %w", err)
		}
	}

	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	return nil
}

func (l *LogConfig) validate() error {
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("level must be debug, info, warn or error (got %q)", l.Level)
	}
	switch strings.ToLower(l.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("format must be text or json (got %q)", l.Format)
	}
	return nil
}
