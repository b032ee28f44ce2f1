// =============================================================================
// CBL to JSON Converter - Legacy Reading List Types
// =============================================================================
//
// These records mirror a ComicRack ".cbl" reading list after decoding. They
// are built once by the parser and never mutated afterwards.
//
// SOURCE SHAPE:
//
//   <ReadingList>
//     <Name>[Spider-Man] 00 - Complete 616 Chronology</Name>
//     <NumIssues>2</NumIssues>
//     <Books>
//       <Book Series="Amazing Fantasy" Number="15" Volume="1962" Year="1962">
//         <Id>6c9b6c38-...</Id>
//         <Database Name="cv" Series="2127" Issue="105338" />
//       </Book>
//     </Books>
//   </ReadingList>
//
// =============================================================================

package cbl

// Sentinel marks an integer field that was absent from the source document.
// Zero is a legitimate value, so it cannot be used for that purpose.
const Sentinel = -1

// ReadingList is the root of a legacy CBL document.
type ReadingList struct {
	// Name is the display name of the reading list.
	Name string

	// NumIssues is the issue count declared by the document. It is not
	// guaranteed to match len(Issues); see the validation package.
	NumIssues int

	// Issues holds the entries in source order.
	Issues []Issue
}

// Issue is one comic book entry of a legacy reading list.
type Issue struct {
	ID       string
	FileName string
	Series   string

	// Number is free-form text ("1", "1.HU", "Annual 2") and is never parsed
	// as an integer.
	Number string

	// Volume and Year are Sentinel when the source omits them.
	Volume int
	Year   int

	Format string

	// Database is nil when the entry has no cross-reference.
	Database *Database
}

// Database is a cross-reference into an external comic database. Both
// identifiers are kept as text because source systems use alphanumeric IDs.
type Database struct {
	Name   string
	Series string
	Issue  string
}
