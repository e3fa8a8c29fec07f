package abbrev

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/versefinder/core/errors"
	"github.com/FocuswithJustin/versefinder/internal/logging"
	"github.com/FocuswithJustin/versefinder/internal/validation"
)

var (
	bookExpr  = xpath.MustCompile("//book")
	aliasExpr = xpath.MustCompile("alias")
)

// LoadFile loads a table from path. XML documents are read with LoadXML,
// everything else as a two-column CSV table.
func LoadFile(path string, policy DuplicatePolicy) (*Table, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, &errors.ValidationError{Field: "abbreviations", Value: path, Message: err.Error(), Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	head, _ := br.Peek(512)
	kind, err := validation.DetectFileType(bytes.NewReader(head), path)
	if err != nil {
		return nil, errors.NewParse("abbreviation table", path, err)
	}

	switch {
	case kind == validation.FileTypeXML:
		return LoadXML(br, policy)
	case kind.Compressed():
		return nil, errors.NewUnsupported("abbreviation table compression", string(kind))
	default:
		return LoadCSV(br, policy)
	}
}

// LoadCSV reads (alias, canonical) records with no header row. Records with
// fewer than two non-empty columns are skipped with a warning; extra columns
// are ignored.
func LoadCSV(r io.Reader, policy DuplicatePolicy) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	t := New(policy)
	for record := 1; ; record++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParse("abbreviation CSV", "", err)
		}

		if len(fields) < 2 || strings.TrimSpace(fields[0]) == "" || strings.TrimSpace(fields[1]) == "" {
			logging.Warn("skipping malformed abbreviation record", "record", record, "fields", len(fields))
			continue
		}
		if err := t.Add(fields[0], fields[1]); err != nil {
			return nil, errors.Wrapf(err, "record %d", record)
		}
	}
	return t, nil
}

// LoadXML reads documents of the form
//
//	<abbreviations>
//	  <book name="JOHN"><alias>Jn</alias><alias>Jhn</alias></book>
//	</abbreviations>
//
// Books without a name attribute are skipped with a warning.
func LoadXML(r io.Reader, policy DuplicatePolicy) (*Table, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return nil, errors.NewParse("abbreviation XML", "", err)
	}

	t := New(policy)
	for i, book := range xmlquery.QuerySelectorAll(root, bookExpr) {
		name := book.SelectAttr("name")
		if strings.TrimSpace(name) == "" {
			logging.Warn("skipping abbreviation book without name", "book", i+1)
			continue
		}
		for _, alias := range xmlquery.QuerySelectorAll(book, aliasExpr) {
			text := alias.InnerText()
			if strings.TrimSpace(text) == "" {
				continue
			}
			if err := t.Add(text, name); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}
