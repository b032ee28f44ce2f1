// =============================================================================
// CBL to JSON Converter - Schema Version Registry
// =============================================================================
//
// This module defines the contract every target schema version implements and
// the registry that dispatches on a version string.
//
// TWO CONVERSION PATHS:
//   FromLegacy : legacy CBL -> versioned document. The legacy format has no
//                stable identity, so the strategy mints a fresh UniqueId.
//   Migrate    : versioned document -> versioned document. The identity
//                already exists and MUST be carried over unchanged.
//
// ADDING A VERSION:
//   Implement Strategy in its own package (see specs/draft) and register it
//   with the Registry. Existing strategies are never edited for this.
//
// =============================================================================

package specs

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"

	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/cbl"
	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/types"
)

// =============================================================================
// CONTRACT
// =============================================================================

// Version identifies a target schema, e.g. "1.0-draft".
type Version string

// String returns the version as written in FileDetails.Version.
func (v Version) String() string {
	return string(v)
}

// Document is a converted reading list of some schema version.
type Document interface {
	// SpecVersion is the schema version the document conforms to.
	SpecVersion() Version

	// UniqueID is the document identity stored in FileDetails.
	UniqueID() string
}

// Strategy converts into one schema version.
type Strategy interface {
	// Version is the schema version produced by this strategy.
	Version() Version

	// FromLegacy builds a document from a parsed legacy list and mints a new
	// identifier for it. It cannot fail.
	FromLegacy(list *cbl.ReadingList) Document

	// Migrate re-expresses doc in this version, keeping doc.UniqueID().
	Migrate(doc Document) (Document, error)

	// Decode reads a previously emitted document of this version.
	Decode(data []byte) (Document, error)
}

// IDGenerator mints document identifiers. Strategies take one so tests can
// pin the value.
type IDGenerator func() string

// NewUUID is the default IDGenerator.
func NewUUID() string {
	return uuid.NewString()
}

// ConversionError reports a schema-to-schema conversion that is not possible.
type ConversionError struct {
	From   Version
	To     Version
	Reason string
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %s document to %s: %s", e.From, e.To, e.Reason)
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry holds one Strategy per Version.
type Registry struct {
	strategies map[Version]Strategy
}

// NewRegistry creates a registry populated with strategies.
func NewRegistry(strategies ...Strategy) *Registry {
	r := &Registry{strategies: make(map[Version]Strategy)}
	for _, s := range strategies {
		r.Register(s)
	}
	return r
}

// Register adds s, replacing any strategy already registered for its version.
func (r *Registry) Register(s Strategy) {
	r.strategies[s.Version()] = s
}

// Lookup returns the strategy for v.
func (r *Registry) Lookup(v Version) (Strategy, error) {
	s, ok := r.strategies[v]
	if !ok {
		return nil, fmt.Errorf("unsupported spec version %q (supported: %v)", v, r.Versions())
	}
	return s, nil
}

// Versions lists the registered versions in sorted order.
func (r *Registry) Versions() []Version {
	versions := make([]Version, 0, len(r.strategies))
	for v := range r.strategies {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })
	return versions
}

// FromLegacy converts list into version v.
func (r *Registry) FromLegacy(list *cbl.ReadingList, v Version) (Document, error) {
	s, err := r.Lookup(v)
	if err != nil {
		return nil, err
	}
	return s.FromLegacy(list), nil
}

// Migrate converts doc into version v, preserving its identifier.
func (r *Registry) Migrate(doc Document, v Version) (Document, error) {
	s, err := r.Lookup(v)
	if err != nil {
		return nil, err
	}
	return s.Migrate(doc)
}

// Decode reads an emitted document, dispatching on its FileDetails.Version.
// Content that is not JSON, or carries no version, is ErrMalformed.
func (r *Registry) Decode(data []byte) (Document, error) {
	var header struct {
		FileDetails struct {
			Version Version `json:"Version"`
		} `json:"FileDetails"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, types.Malformed("", err)
	}
	if header.FileDetails.Version == "" {
		return nil, types.Malformedf("missing FileDetails.Version")
	}

	s, err := r.Lookup(header.FileDetails.Version)
	if err != nil {
		return nil, types.Malformed("", err)
	}
	return s.Decode(data)
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// Encode writes doc as JSON. An empty indent produces compact output.
func Encode(w io.Writer, doc Document, indent string) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if indent != "" {
		encoder.SetIndent("", indent)
	}
	return encoder.Encode(doc)
}
