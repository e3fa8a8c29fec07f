// Package config loads versefinder settings from an optional YAML file and
// VERSEFINDER_* environment variables.
package config

import (
	"github.com/FocuswithJustin/versefinder/core/abbrev"
	"github.com/FocuswithJustin/versefinder/core/scan"
)

// Config is the root configuration.
type Config struct {
	Corpus        CorpusConfig        `yaml:"corpus"`
	Abbreviations AbbreviationsConfig `yaml:"abbreviations"`
	Output        OutputConfig        `yaml:"output"`
	History       HistoryConfig       `yaml:"history"`
	Log           LogConfig           `yaml:"log"`
}

// CorpusConfig locates the Bible text and controls how book markers match.
type CorpusConfig struct {
	Path      string `yaml:"path"       env:"VERSEFINDER_CORPUS"     env-default:"Bible.txt"`
	BookMatch string `yaml:"book_match" env:"VERSEFINDER_BOOK_MATCH" env-default:"contains"`
}

// AbbreviationsConfig locates the alias table.
type AbbreviationsConfig struct {
	Path       string `yaml:"path"       env:"VERSEFINDER_ABBREVIATIONS" env-default:"Bible_Abbreviations.csv"`
	Duplicates string `yaml:"duplicates" env:"VERSEFINDER_DUPLICATES"    env-default:"last"`
}

// OutputConfig controls the append-only verse log and message rendering.
type OutputConfig struct {
	Path           string `yaml:"path"           env:"VERSEFINDER_OUTPUT"         env-default:"verses.txt"`
	Width          int    `yaml:"width"          env:"VERSEFINDER_WIDTH"          env-default:"80"`
	Capitalization string `yaml:"capitalization" env:"VERSEFINDER_CAPITALIZATION" env-default:"first"`
}

// HistoryConfig enables the SQLite lookup history. An empty path disables it.
type HistoryConfig struct {
	Path string `yaml:"path" env:"VERSEFINDER_HISTORY_DB"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"VERSEFINDER_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"VERSEFINDER_LOG_FORMAT" env-default:"text"`
}

// BookMatch returns the parsed book matching strategy. Call after Validate.
func (c *Config) BookMatch() scan.BookMatch {
	m, _ := scan.ParseBookMatch(c.Corpus.BookMatch)
	return m
}

// DuplicatePolicy returns the parsed alias duplicate policy.
func (c *Config) DuplicatePolicy() abbrev.DuplicatePolicy {
	p, _ := abbrev.ParsePolicy(c.Abbreviations.Duplicates)
	return p
}

// Capitalization returns the parsed miss-message style.
func (c *Config) Capitalization() scan.Capitalization {
	s, _ := scan.ParseCapitalization(c.Output.Capitalization)
	return s
}

// HistoryEnabled reports whether lookups are recorded in SQLite.
func (c *Config) HistoryEnabled() bool {
	return c.History.Path != ""
}
