// Package draft implements the "1.0-draft" reading list schema.
package draft

import (
	"encoding/json"

	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/cbl"
	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/specs"
	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/types"
)

// Version is the schema version produced by this package.
const Version specs.Version = "1.0-draft"

// unknownYear is emitted for StartYear/EndYear when no issue has a year.
const unknownYear = -1

// Spec is a complete 1.0-draft document.
type Spec struct {
	FileDetails FileDetails `json:"FileDetails"`
	ListDetails ListDetails `json:"ListDetails"`
	Issues      []Issue     `json:"Issues"`
}

// FileDetails identifies the document and its schema version.
type FileDetails struct {
	Version  specs.Version `json:"Version"`
	UniqueID string        `json:"UniqueId"`
}

// ListDetails describes the reading list as a whole.
type ListDetails struct {
	Name        string  `json:"Name"`
	Description *string `json:"Description"`

	// Publisher holds every publisher as one comma-delimited string.
	Publisher string `json:"Publisher"`
	Imprint   string `json:"Imprint"`

	// StartYear and EndYear are the earliest and latest issue years.
	StartYear int `json:"StartYear"`
	EndYear   int `json:"EndYear"`

	// Type is e.g. "Chronological", "Event" or a comma-delimited combination.
	Type string `json:"Type"`

	Associated     Associations   `json:"Associated"`
	CoverImageURLs []string       `json:"CoverImageURLs"`
	Relationships  *Relationships `json:"Relationships"`
}

// Associations lists the characters and teams a reading list covers.
type Associations struct {
	Characters []string `json:"Characters"`
	Teams      []string `json:"Teams"`
}

// Relationships orders this list among related lists.
type Relationships struct {
	Previous *Relationship `json:"Previous"`
	Next     *Relationship `json:"Next"`
}

// Relationship points at another list by name and UniqueId.
type Relationship struct {
	Name string `json:"Name"`
	ID   string `json:"ID"`
}

// Issue is one entry of the list.
type Issue struct {
	SeriesName string `json:"SeriesName"`

	// SeriesStartYear is taken from the legacy issue year, which is the
	// cover year of the issue and only approximates the series start.
	SeriesStartYear int `json:"SeriesStartYear"`

	IssueNum  string     `json:"IssueNum"`
	IssueType string     `json:"IssueType"`
	Notes     *string    `json:"Notes"`
	CoverDate string     `json:"CoverDate"`
	Databases []Database `json:"Databases"`
}

// Database is an issue's cross-reference into an external comic database.
type Database struct {
	Name     string `json:"Name"`
	SeriesID string `json:"SeriesId"`
	IssueID  string `json:"IssueId"`
}

// SpecVersion implements specs.Document.
func (s *Spec) SpecVersion() specs.Version {
	return s.FileDetails.Version
}

// UniqueID implements specs.Document.
func (s *Spec) UniqueID() string {
	return s.FileDetails.UniqueID
}

// Strategy converts into 1.0-draft. It holds no mutable state.
type Strategy struct {
	newID specs.IDGenerator
}

// New returns a Strategy minting identifiers with newID, or with
// specs.NewUUID when newID is nil.
func New(newID specs.IDGenerator) *Strategy {
	if newID == nil {
		newID = specs.NewUUID
	}
	return &Strategy{newID: newID}
}

// Version implements specs.Strategy.
func (s *Strategy) Version() specs.Version {
	return Version
}

// FromLegacy implements specs.Strategy. Every call mints a new UniqueId.
func (s *Strategy) FromLegacy(list *cbl.ReadingList) specs.Document {
	start, end := yearRange(list.Issues)

	issues := make([]Issue, len(list.Issues))
	for i, legacy := range list.Issues {
		issues[i] = convertIssue(legacy)
	}

	return &Spec{
		FileDetails: FileDetails{
			Version:  Version,
			UniqueID: s.newID(),
		},
		ListDetails: ListDetails{
			Name: list.Name,
			// No legacy source for the remaining fields.
			Description: nil,
			Publisher:   "",
			Imprint:     "",
			StartYear:   start,
			EndYear:     end,
			Type:        "",
			Associated: Associations{
				Characters: []string{},
				Teams:      []string{},
			},
			CoverImageURLs: []string{},
			Relationships:  nil,
		},
		Issues: issues,
	}
}

// Migrate implements specs.Strategy. Only 1.0-draft sources are accepted
// today; the result is an independent copy with the same UniqueId.
func (s *Strategy) Migrate(doc specs.Document) (specs.Document, error) {
	src, ok := doc.(*Spec)
	if !ok || doc.SpecVersion() != Version {
		return nil, &specs.ConversionError{
			From:   doc.SpecVersion(),
			To:     Version,
			Reason: "no migration path",
		}
	}
	return src.clone(), nil
}

// Decode implements specs.Strategy.
func (s *Strategy) Decode(data []byte) (specs.Document, error) {
	var doc Spec
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, types.Malformed("", err)
	}
	if doc.FileDetails.Version != Version {
		return nil, types.Malformedf("expected version %s, got %q", Version, doc.FileDetails.Version)
	}
	if doc.FileDetails.UniqueID == "" {
		return nil, types.Malformedf("missing FileDetails.UniqueId")
	}
	doc.normalize()
	return &doc, nil
}

func convertIssue(legacy cbl.Issue) Issue {
	databases := []Database{}
	if legacy.Database != nil {
		databases = append(databases, Database{
			Name:     legacy.Database.Name,
			SeriesID: legacy.Database.Series,
			IssueID:  legacy.Database.Issue,
		})
	}

	return Issue{
		SeriesName:      legacy.Series,
		SeriesStartYear: legacy.Year,
		IssueNum:        legacy.Number,
		IssueType:       "",
		Notes:           nil,
		CoverDate:       "",
		Databases:       databases,
	}
}

// yearRange returns the smallest and largest issue year. Every issue takes
// part, including those carrying the cbl.Sentinel year. An empty list gives
// -1 for both.
func yearRange(issues []cbl.Issue) (start, end int) {
	if len(issues) == 0 {
		return unknownYear, unknownYear
	}

	start, end = issues[0].Year, issues[0].Year
	for _, issue := range issues[1:] {
		start = min(start, issue.Year)
		end = max(end, issue.Year)
	}

	return start, end
}

// normalize replaces nil slices from decoded JSON so the document re-encodes
// with the same fixed shape.
func (s *Spec) normalize() {
	if s.ListDetails.Associated.Characters == nil {
		s.ListDetails.Associated.Characters = []string{}
	}
	if s.ListDetails.Associated.Teams == nil {
		s.ListDetails.Associated.Teams = []string{}
	}
	if s.ListDetails.CoverImageURLs == nil {
		s.ListDetails.CoverImageURLs = []string{}
	}
	if s.Issues == nil {
		s.Issues = []Issue{}
	}
	for i := range s.Issues {
		if s.Issues[i].Databases == nil {
			s.Issues[i].Databases = []Database{}
		}
	}
}

func (s *Spec) clone() *Spec {
	out := *s
	out.ListDetails.Description = cloneString(s.ListDetails.Description)
	out.ListDetails.Associated.Characters = append([]string{}, s.ListDetails.Associated.Characters...)
	out.ListDetails.Associated.Teams = append([]string{}, s.ListDetails.Associated.Teams...)
	out.ListDetails.CoverImageURLs = append([]string{}, s.ListDetails.CoverImageURLs...)

	if rel := s.ListDetails.Relationships; rel != nil {
		out.ListDetails.Relationships = &Relationships{
			Previous: cloneRelationship(rel.Previous),
			Next:     cloneRelationship(rel.Next),
		}
	}

	out.Issues = make([]Issue, len(s.Issues))
	for i, issue := range s.Issues {
		issue.Notes = cloneString(issue.Notes)
		issue.Databases = append([]Database{}, issue.Databases...)
		out.Issues[i] = issue
	}
	return &out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneRelationship(r *Relationship) *Relationship {
	if r == nil {
		return nil
	}
	v := *r
	return &v
}
