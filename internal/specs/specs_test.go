package specs_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/cbl"
	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/specs"
	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/specs/draft"
	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/types"
)

// stubStrategy stands in for a future schema version.
type stubStrategy struct {
	version specs.Version
}

type stubDocument struct {
	version specs.Version
	id      string
}

func (d stubDocument) SpecVersion() specs.Version { return d.version }
func (d stubDocument) UniqueID() string           { return d.id }

func (s stubStrategy) Version() specs.Version { return s.version }

func (s stubStrategy) FromLegacy(*cbl.ReadingList) specs.Document {
	return stubDocument{version: s.version, id: "minted"}
}

func (s stubStrategy) Migrate(doc specs.Document) (specs.Document, error) {
	return stubDocument{version: s.version, id: doc.UniqueID()}, nil
}

func (s stubStrategy) Decode([]byte) (specs.Document, error) {
	return stubDocument{version: s.version, id: "decoded"}, nil
}

func newRegistry() *specs.Registry {
	return specs.NewRegistry(
		draft.New(func() string { return "draft-id" }),
		stubStrategy{version: "2.0"},
	)
}

func TestRegistryVersionsSorted(t *testing.T) {
	assert.Equal(t, []specs.Version{"1.0-draft", "2.0"}, newRegistry().Versions())
}

func TestRegistryLookupUnknownVersion(t *testing.T) {
	_, err := newRegistry().Lookup("9.9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"9.9"`)
}

func TestRegistryDispatchesFromLegacy(t *testing.T) {
	r := newRegistry()
	list := &cbl.ReadingList{Name: "L"}

	doc, err := r.FromLegacy(list, draft.Version)
	require.NoError(t, err)
	assert.Equal(t, draft.Version, doc.SpecVersion())
	assert.Equal(t, "draft-id", doc.UniqueID())

	doc, err = r.FromLegacy(list, "2.0")
	require.NoError(t, err)
	assert.Equal(t, specs.Version("2.0"), doc.SpecVersion())
}

func TestRegistryMigrateKeepsIdentifier(t *testing.T) {
	r := newRegistry()
	doc, err := r.FromLegacy(&cbl.ReadingList{Name: "L"}, draft.Version)
	require.NoError(t, err)

	migrated, err := r.Migrate(doc, "2.0")
	require.NoError(t, err)
	assert.Equal(t, "draft-id", migrated.UniqueID())
	assert.Equal(t, specs.Version("2.0"), migrated.SpecVersion())
}

func TestRegistryDecodeDispatchesOnVersion(t *testing.T) {
	r := newRegistry()
	doc, err := r.FromLegacy(&cbl.ReadingList{Name: "L"}, draft.Version)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, specs.Encode(&buf, doc, "  "))

	decoded, err := r.Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, doc, decoded)
}

func TestRegistryDecodeRejects(t *testing.T) {
	r := newRegistry()

	for name, data := range map[string]string{
		"not json":        "nope",
		"missing version": `{"FileDetails":{}}`,
		"unknown version": `{"FileDetails":{"Version":"0.1"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := r.Decode([]byte(data))
			assert.ErrorIs(t, err, types.ErrMalformed)
		})
	}
}

func TestEncodeIndentAndEscaping(t *testing.T) {
	doc, err := newRegistry().FromLegacy(&cbl.ReadingList{Name: "X-Men & <Friends>"}, draft.Version)
	require.NoError(t, err)

	var compact, indented bytes.Buffer
	require.NoError(t, specs.Encode(&compact, doc, ""))
	require.NoError(t, specs.Encode(&indented, doc, "  "))

	assert.Equal(t, 1, strings.Count(compact.String(), "\n"))
	assert.Contains(t, indented.String(), "\n  \"FileDetails\": {")
	assert.Contains(t, compact.String(), `"X-Men & <Friends>"`)
}
