// =============================================================================
// CBL to JSON Converter - Legacy CBL Parser
// =============================================================================
//
// This module decodes a legacy CBL document into the records in types.go.
//
// DECODING STRATEGY:
//   1. The XML is decoded into a generic element tree (node).
//   2. Each record kind has a static alias table mapping every accepted tag
//      or attribute name to one logical field.
//   3. A field value may come from an attribute (ComicRack writes Series,
//      Number, Volume and Year as attributes) or from a child element.
//   4. Each logical field then goes through exactly one default policy:
//        - text      : absent -> ""
//        - sentinel  : absent -> Sentinel (-1)
//        - optional  : absent -> nil
//        - required  : absent -> ErrMalformed
//
// FAILURES:
//   - Unreadable path                       -> types.ErrNotFound
//   - Undecodable XML, missing required
//     field, non-integer in integer field   -> types.ErrMalformed
//   No partially populated record is ever returned.
//
// =============================================================================

package cbl

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/types"
)

// =============================================================================
// FIELD ALIAS TABLES
// =============================================================================

// field identifies a logical field independent of the tag name used for it.
type field int

const (
	listName field = iota
	listNumIssues
	listBooks

	booksBook

	issueID
	issueFileName
	issueSeries
	issueNumber
	issueVolume
	issueYear
	issueFormat
	issueDatabase

	databaseName
	databaseSeries
	databaseIssue
)

// readingListFields maps accepted names on <ReadingList> to logical fields.
var readingListFields = map[string]field{
	"Name":       listName,
	"name":       listName,
	"NumIssues":  listNumIssues,
	"num_issues": listNumIssues,
	"Books":      listBooks,
	"items":      listBooks,
}

// booksFields maps accepted names inside <Books>.
var booksFields = map[string]field{
	"Book":  booksBook,
	"books": booksBook,
}

// issueFields maps accepted names on <Book>.
var issueFields = map[string]field{
	"Id":        issueID,
	"id":        issueID,
	"FileName":  issueFileName,
	"file_name": issueFileName,
	"Series":    issueSeries,
	"series":    issueSeries,
	"Number":    issueNumber,
	"number":    issueNumber,
	"Volume":    issueVolume,
	"volume":    issueVolume,
	"Year":      issueYear,
	"year":      issueYear,
	"Format":    issueFormat,
	"format":    issueFormat,
	"Database":  issueDatabase,
	"database":  issueDatabase,
}

// databaseFields maps accepted names on <Database>.
var databaseFields = map[string]field{
	"Name":   databaseName,
	"name":   databaseName,
	"Series": databaseSeries,
	"series": databaseSeries,
	"Issue":  databaseIssue,
	"issue":  databaseIssue,
}

// fieldNames is used for diagnostics only.
var fieldNames = map[field]string{
	listName:       "Name",
	listNumIssues:  "NumIssues",
	listBooks:      "Books",
	booksBook:      "Book",
	issueID:        "Id",
	issueFileName:  "FileName",
	issueSeries:    "Series",
	issueNumber:    "Number",
	issueVolume:    "Volume",
	issueYear:      "Year",
	issueFormat:    "Format",
	issueDatabase:  "Database",
	databaseName:   "Name",
	databaseSeries: "Series",
	databaseIssue:  "Issue",
}

// =============================================================================
// PUBLIC API
// =============================================================================

// ParseFile opens path, reads it fully and decodes it.
//
// RETURNS:
//   - The decoded reading list.
//   - A *types.Error of kind ErrNotFound if the file cannot be opened or read,
//     or of kind ErrMalformed if its content is not a valid CBL document.
func ParseFile(path string) (*ReadingList, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, types.NotFound(path, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, types.NotFound(path, err)
	}

	list, err := decode(data)
	if err != nil {
		return nil, types.Malformed(path, err)
	}
	return list, nil
}

// Parse decodes a CBL document from r. Any failure, including a read error
// on r, is reported as ErrMalformed.
func Parse(r io.Reader) (*ReadingList, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, types.Malformed("", err)
	}

	list, err := decode(data)
	if err != nil {
		return nil, types.Malformed("", err)
	}
	return list, nil
}

// =============================================================================
// GENERIC ELEMENT TREE
// =============================================================================

// node is one decoded XML element with its attributes, text and children.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []node     `xml:",any"`
}

// fields is the resolved view of one element through an alias table.
// Scalar values come from attributes first, then from child element text;
// the first occurrence of a logical field wins.
type fields struct {
	values   map[field]string
	elements map[field][]*node
}

// resolve applies an alias table to n.
func resolve(n *node, table map[string]field) fields {
	f := fields{
		values:   make(map[field]string),
		elements: make(map[field][]*node),
	}

	for _, attr := range n.Attrs {
		key, ok := table[attr.Name.Local]
		if !ok {
			continue
		}
		if _, seen := f.values[key]; !seen {
			f.values[key] = strings.TrimSpace(attr.Value)
		}
	}

	for i := range n.Children {
		child := &n.Children[i]
		key, ok := table[child.XMLName.Local]
		if !ok {
			continue
		}
		f.elements[key] = append(f.elements[key], child)
		if _, seen := f.values[key]; !seen {
			f.values[key] = strings.TrimSpace(child.Text)
		}
	}

	return f
}

// =============================================================================
// DEFAULT POLICIES
// =============================================================================

// text returns the value of key, or "" when absent.
func (f fields) text(key field) string {
	return f.values[key]
}

// sentinel returns the integer value of key, or Sentinel when absent.
func (f fields) sentinel(key field) (int, error) {
	raw, ok := f.values[key]
	if !ok {
		return Sentinel, nil
	}
	return parseInt(key, raw)
}

// required returns the value of key, failing when absent.
func (f fields) required(key field) (string, error) {
	raw, ok := f.values[key]
	if !ok {
		return "", fmt.Errorf("missing field `%s`", fieldNames[key])
	}
	return raw, nil
}

// requiredInt returns the integer value of key, failing when absent.
func (f fields) requiredInt(key field) (int, error) {
	raw, err := f.required(key)
	if err != nil {
		return 0, err
	}
	return parseInt(key, raw)
}

func parseInt(key field, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("field `%s`: invalid integer %q", fieldNames[key], raw)
	}
	return n, nil
}

// =============================================================================
// RECORD DECODING
// =============================================================================

// utf8BOM is stripped before decoding; ComicRack on Windows may emit it.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decode turns raw bytes into a ReadingList.
func decode(data []byte) (*ReadingList, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel

	var root node
	if err := decoder.Decode(&root); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("no root element found")
		}
		return nil, err
	}

	return decodeReadingList(&root)
}

func decodeReadingList(root *node) (*ReadingList, error) {
	f := resolve(root, readingListFields)

	name, err := f.required(listName)
	if err != nil {
		return nil, err
	}

	numIssues, err := f.requiredInt(listNumIssues)
	if err != nil {
		return nil, err
	}

	list := &ReadingList{
		Name:      name,
		NumIssues: numIssues,
		Issues:    []Issue{},
	}

	// <Books> may be omitted or empty; either way the list has no issues.
	books := f.elements[listBooks]
	if len(books) == 0 {
		return list, nil
	}

	entries := resolve(books[0], booksFields).elements[booksBook]
	list.Issues = make([]Issue, 0, len(entries))
	for i, entry := range entries {
		issue, err := decodeIssue(entry)
		if err != nil {
			return nil, fmt.Errorf("book %d: %w", i+1, err)
		}
		list.Issues = append(list.Issues, issue)
	}

	return list, nil
}

func decodeIssue(n *node) (Issue, error) {
	f := resolve(n, issueFields)

	volume, err := f.sentinel(issueVolume)
	if err != nil {
		return Issue{}, err
	}

	year, err := f.sentinel(issueYear)
	if err != nil {
		return Issue{}, err
	}

	issue := Issue{
		ID:       f.text(issueID),
		FileName: f.text(issueFileName),
		Series:   f.text(issueSeries),
		Number:   f.text(issueNumber),
		Volume:   volume,
		Year:     year,
		Format:   f.text(issueFormat),
	}

	if dbs := f.elements[issueDatabase]; len(dbs) > 0 {
		db, err := decodeDatabase(dbs[0])
		if err != nil {
			return Issue{}, fmt.Errorf("database: %w", err)
		}
		issue.Database = db
	}

	return issue, nil
}

func decodeDatabase(n *node) (*Database, error) {
	f := resolve(n, databaseFields)

	name, err := f.required(databaseName)
	if err != nil {
		return nil, err
	}
	series, err := f.required(databaseSeries)
	if err != nil {
		return nil, err
	}
	issue, err := f.required(databaseIssue)
	if err != nil {
		return nil, err
	}

	return &Database{Name: name, Series: series, Issue: issue}, nil
}
