// Package abbrev maps alternate book spellings and abbreviations to canonical
// book names.
//
// Aliases and canonical names are trimmed and uppercased on insert, so lookups
// are case-insensitive for ASCII input.
package abbrev

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/versefinder/core/errors"
)

// DuplicatePolicy decides what happens when an alias is added twice.
type DuplicatePolicy int

const (
	// LastWins overwrites the earlier mapping.
	LastWins DuplicatePolicy = iota
	// FirstWins keeps the earlier mapping and ignores the later one.
	FirstWins
	// Reject fails the insert with a ValidationError.
	Reject
)

// ParsePolicy maps "last", "first" or "reject" to a DuplicatePolicy.
func ParsePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "last":
		return LastWins, nil
	case "first":
		return FirstWins, nil
	case "reject":
		return Reject, nil
	default:
		return LastWins, errors.NewValidation("duplicate_aliases", fmt.Sprintf("unknown policy %q", s))
	}
}

func (p DuplicatePolicy) String() string {
	switch p {
	case FirstWins:
		return "first"
	case Reject:
		return "reject"
	default:
		return "last"
	}
}

// Pair is one (alias, canonical) record of a table source.
type Pair struct {
	Alias     string
	Canonical string
}

// Table is a case-insensitive alias to canonical name mapping.
// It is built once at startup and read-only afterwards.
type Table struct {
	policy  DuplicatePolicy
	entries map[string]string
}

// New returns an empty table using the given duplicate policy.
func New(policy DuplicatePolicy) *Table {
	return &Table{
		policy:  policy,
		entries: make(map[string]string),
	}
}

// Load builds a table from ordered pairs.
func Load(pairs []Pair, policy DuplicatePolicy) (*Table, error) {
	t := New(policy)
	for _, p := range pairs {
		if err := t.Add(p.Alias, p.Canonical); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Add inserts a mapping, applying the table's duplicate policy.
func (t *Table) Add(alias, canonical string) error {
	key := fold(alias)
	if key == "" {
		return errors.NewValidation("alias", "alias must not be empty")
	}
	value := fold(canonical)

	if existing, ok := t.entries[key]; ok {
		switch t.policy {
		case FirstWins:
			return nil
		case Reject:
			if existing == value {
				return nil
			}
			return &errors.ValidationError{
				Field:   "alias",
				Value:   key,
				Message: fmt.Sprintf("duplicate alias %q maps to both %q and %q", key, existing, value),
			}
		}
	}
	t.entries[key] = value
	return nil
}

// Lookup returns the canonical name for key, if present.
func (t *Table) Lookup(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	v, ok := t.entries[fold(key)]
	return v, ok
}

// Len returns the number of aliases in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Policy returns the duplicate policy the table was built with.
func (t *Table) Policy() DuplicatePolicy {
	return t.policy
}

func fold(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
