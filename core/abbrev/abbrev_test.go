package abbrev

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FocuswithJustin/versefinder/core/errors"
	"github.com/FocuswithJustin/versefinder/internal/validation"
)

func TestLookup_CaseInsensitive(t *testing.T) {
	table, err := Load([]Pair{{Alias: "Jn", Canonical: "JOHN"}}, LastWins)
	require.NoError(t, err)

	for _, key := range []string{"jn", "JN", "Jn", "  jN \n"} {
		got, ok := table.Lookup(key)
		assert.True(t, ok, "lookup %q", key)
		assert.Equal(t, "JOHN", got, "lookup %q", key)
	}

	_, ok := table.Lookup("Gen")
	assert.False(t, ok)
}

func TestAdd_UppercasesCanonical(t *testing.T) {
	table := New(LastWins)
	require.NoError(t, table.Add("ps", "Psalms"))

	got, ok := table.Lookup("PS")
	require.True(t, ok)
	assert.Equal(t, "PSALMS", got)
	assert.Equal(t, 1, table.Len())
}

func TestAdd_EmptyAlias(t *testing.T) {
	err := New(LastWins).Add("  ", "JOHN")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestDuplicatePolicy(t *testing.T) {
	pairs := []Pair{
		{Alias: "Jud", Canonical: "JUDGES"},
		{Alias: "jud", Canonical: "JUDE"},
	}

	tests := []struct {
		policy  DuplicatePolicy
		want    string
		wantErr bool
	}{
		{policy: LastWins, want: "JUDE"},
		{policy: FirstWins, want: "JUDGES"},
		{policy: Reject, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			table, err := Load(pairs, tt.policy)
			if tt.wantErr {
				var verr *errors.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "JUD", verr.Value)
				return
			}
			require.NoError(t, err)
			got, _ := table.Lookup("JUD")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReject_AllowsIdenticalDuplicate(t *testing.T) {
	_, err := Load([]Pair{{"Jn", "JOHN"}, {"JN", "john"}}, Reject)
	assert.NoError(t, err)
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]DuplicatePolicy{
		"":       LastWins,
		"last":   LastWins,
		"FIRST":  FirstWins,
		"reject": Reject,
	} {
		got, err := ParsePolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParsePolicy("newest")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestNilTable(t *testing.T) {
	var table *Table
	_, ok := table.Lookup("Jn")
	assert.False(t, ok)
	assert.Zero(t, table.Len())
}

func TestLoadCSV(t *testing.T) {
	input := strings.Join([]string{
		"Gen,Genesis",
		"jn, John",
		"broken",
		",MISSING ALIAS",
		"Ps,Psalms,extra column",
		"",
		"1jn,1 John",
	}, "\n")

	table, err := LoadCSV(strings.NewReader(input), LastWins)
	require.NoError(t, err)

	assert.Equal(t, 4, table.Len())
	for key, want := range map[string]string{
		"gen": "GENESIS",
		"JN":  "JOHN",
		"ps":  "PSALMS",
		"1JN": "1 JOHN",
	} {
		got, ok := table.Lookup(key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
}

func TestLoadCSV_RejectDuplicateReportsRecord(t *testing.T) {
	_, err := LoadCSV(strings.NewReader("Jud,Judges\nJud,Jude\n"), Reject)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 2")
}

func TestLoadXML(t *testing.T) {
	input := `<?xml version="1.0"?>
<abbreviations>
  <book name="John"><alias>Jn</alias><alias>Jhn</alias></book>
  <book name="PSALMS"><alias>Ps</alias><alias> </alias></book>
  <book><alias>orphan</alias></book>
</abbreviations>`

	table, err := LoadXML(strings.NewReader(input), LastWins)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	got, ok := table.Lookup("jhn")
	require.True(t, ok)
	assert.Equal(t, "JOHN", got)

	_, ok = table.Lookup("orphan")
	assert.False(t, ok)
}

func TestLoadXML_Malformed(t *testing.T) {
	_, err := LoadXML(strings.NewReader("<abbreviations><book"), LastWins)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "Bible_Abbreviations.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Jn,John\n"), 0o644))
	table, err := LoadFile(csvPath, LastWins)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())

	xmlPath := filepath.Join(dir, "abbr.XML")
	require.NoError(t, os.WriteFile(xmlPath, []byte(`<a><book name="Mark"><alias>Mk</alias></book></a>`), 0o644))
	table, err = LoadFile(xmlPath, LastWins)
	require.NoError(t, err)
	got, _ := table.Lookup("mk")
	assert.Equal(t, "MARK", got)

	_, err = LoadFile(filepath.Join(dir, "missing.csv"), LastWins)
	var ioErr *errors.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "open", ioErr.Operation)

	binPath := filepath.Join(dir, "Bible_Abbreviations.csv.gz")
	require.NoError(t, os.WriteFile(binPath, []byte{0x1f, 0x8b, 0x08, 0x00}, 0o644))
	_, err = LoadFile(binPath, LastWins)
	assert.ErrorIs(t, err, errors.ErrUnsupported)

	dbPath := filepath.Join(dir, "Bible_Abbreviations.csv")
	require.NoError(t, os.WriteFile(dbPath, []byte("SQLite format 3\x00"), 0o644))
	_, err = LoadFile(dbPath, LastWins)
	assert.ErrorIs(t, err, validation.ErrTypeMismatch)
}
