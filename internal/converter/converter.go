// =============================================================================
// CBL to JSON Converter - Converter Module
// =============================================================================
//
// This module orchestrates one conversion run, from reading the legacy CBL
// file to writing the versioned JSON document.
//
// CONVERSION PIPELINE:
//   1. Parse the legacy CBL file
//   2. Validate the parsed list (data-quality findings)
//   3. Convert to the target schema version
//   4. Optionally build the XLSX review report in memory
//   5. Write the JSON output, then the report
//
// Each step surfaces its error immediately and nothing is retried. A run that
// fails leaves no JSON output behind. The schema conversion itself is pure,
// so one Converter may be used from several goroutines.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/cbl"
	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/specs"
	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/specs/draft"
	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/types"
	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/validation"
	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/xlsxreport"
	"github.com/ginjaninja78/CBL-to-JSON-conversion/pkg/utils"
)

// CurrentSpecVersion is the schema version used when none is requested.
const CurrentSpecVersion = draft.Version

// =============================================================================
// REGISTRY
// =============================================================================

// DefaultRegistry returns a registry holding every supported schema version.
// newID is passed to each strategy; nil selects random UUIDs.
func DefaultRegistry(newID specs.IDGenerator) *specs.Registry {
	return specs.NewRegistry(
		draft.New(newID),
	)
}

// Convert converts list into version using the default registry. It fails
// only for an unsupported version.
func Convert(list *cbl.ReadingList, version specs.Version) (specs.Document, error) {
	return DefaultRegistry(nil).FromLegacy(list, version)
}

// =============================================================================
// OPTIONS AND RESULT
// =============================================================================

// Options describes one conversion run.
type Options struct {
	// InputPath is the legacy CBL file.
	InputPath string

	// OutputPath is the JSON destination, or utils.StdoutPath.
	OutputPath string

	// Version is the target schema version. Empty selects CurrentSpecVersion.
	Version specs.Version

	// Indent is the JSON indentation; empty produces compact output.
	Indent string

	// XLSXReport is an optional spreadsheet report path.
	XLSXReport string

	// Strict makes an issue-count mismatch fatal.
	Strict bool
}

// Result represents the outcome of a successful run.
type Result struct {
	// InputPath is the file that was converted.
	InputPath string

	// OutputFile is where the JSON document was written.
	OutputFile string

	// ReportFile is where the XLSX report was written, if requested.
	ReportFile string

	// Document is the converted document.
	Document specs.Document

	// Findings are the validation findings on the legacy list.
	Findings *validation.Result

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the run.
type ProcessingStats struct {
	// IssuesDeclared is NumIssues from the source.
	IssuesDeclared int

	// IssuesConverted is the number of issues in the output.
	IssuesConverted int

	// ValidationWarnings is the number of non-fatal findings.
	ValidationWarnings int

	// ProcessingTime is the time taken by the whole pipeline.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs the conversion pipeline.
type Converter struct {
	registry *specs.Registry
	files    *utils.FileManager
	logger   zerolog.Logger
}

// New creates a Converter.
//
// PARAMETERS:
//   - registry: The schema strategies to dispatch to.
//   - stdout: Where output goes when the output path is "-".
//   - logger: Receives pipeline progress; use zerolog.Nop() to silence.
func New(registry *specs.Registry, stdout io.Writer, logger zerolog.Logger) *Converter {
	return &Converter{
		registry: registry,
		files:    utils.NewFileManager(stdout),
		logger:   logger,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline for opts.
func (c *Converter) Run(opts Options) (*Result, error) {
	startTime := time.Now()

	version := opts.Version
	if version == "" {
		version = CurrentSpecVersion
	}

	// Resolve the strategy first so an unsupported version fails before any
	// file is touched.
	strategy, err := c.registry.Lookup(version)
	if err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 1: PARSE LEGACY FILE
	// =========================================================================

	c.logger.Debug().Str("file", opts.InputPath).Msg("loading CBL file")

	list, err := cbl.ParseFile(opts.InputPath)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("name", list.Name).
		Int("declared", list.NumIssues).
		Int("found", len(list.Issues)).
		Msg("parsed CBL file")

	// =========================================================================
	// STEP 2: VALIDATE
	// =========================================================================

	findings := validation.Validate(list, validation.Options{Strict: opts.Strict})
	for _, finding := range findings.Errors {
		event := c.logger.Warn()
		if finding.Severity == validation.SeverityError {
			event = c.logger.Error()
		}
		event.Str("file", opts.InputPath).Msg(finding.Error())
	}
	if !findings.IsValid() {
		return nil, types.Malformed(opts.InputPath,
			fmt.Errorf("validation failed with %d error(s)", findings.ErrorCount))
	}

	// =========================================================================
	// STEP 3: CONVERT
	// =========================================================================

	c.logger.Debug().Str("version", version.String()).Msg("converting CBL")

	doc := strategy.FromLegacy(list)

	// =========================================================================
	// STEP 4: BUILD XLSX REPORT
	// =========================================================================
	// Built in memory; saved only after the JSON output succeeds.

	var report *excelize.File
	if opts.XLSXReport != "" {
		report, err = buildReport(doc)
		if err != nil {
			return nil, types.WriteFailure(opts.XLSXReport, err)
		}
		defer report.Close()
	}

	// =========================================================================
	// STEP 5: WRITE OUTPUTS
	// =========================================================================

	err = c.files.Write(opts.OutputPath, func(w io.Writer) error {
		return specs.Encode(w, doc, opts.Indent)
	})
	if err != nil {
		return nil, err
	}

	result := &Result{
		InputPath:  opts.InputPath,
		OutputFile: opts.OutputPath,
		Document:   doc,
		Findings:   findings,
		Stats: ProcessingStats{
			IssuesDeclared:     list.NumIssues,
			IssuesConverted:    len(list.Issues),
			ValidationWarnings: findings.WarningCount,
		},
	}

	if report != nil {
		if err := xlsxreport.Save(report, opts.XLSXReport); err != nil {
			if derr := c.files.Discard(opts.OutputPath); derr != nil {
				c.logger.Warn().Err(derr).Str("file", opts.OutputPath).Msg("failed to remove output")
			}
			return nil, err
		}
		result.ReportFile = opts.XLSXReport
		c.logger.Debug().Str("file", opts.XLSXReport).Msg("wrote XLSX report")
	}

	// =========================================================================
	// COMPLETE
	// =========================================================================

	result.Stats.ProcessingTime = time.Since(startTime)

	c.logger.Info().
		Str("input", opts.InputPath).
		Str("output", utils.DisplayPath(opts.OutputPath)).
		Str("version", version.String()).
		Str("unique_id", doc.UniqueID()).
		Int("issues", result.Stats.IssuesConverted).
		Dur("elapsed", result.Stats.ProcessingTime).
		Msg("conversion complete")

	return result, nil
}

// Migrate reads an emitted document and re-writes it in version, keeping its
// UniqueId.
func (c *Converter) Migrate(inputPath, outputPath string, version specs.Version, indent string) (specs.Document, error) {
	if version == "" {
		version = CurrentSpecVersion
	}

	data, err := utils.ReadFile(inputPath)
	if err != nil {
		return nil, err
	}

	src, err := c.registry.Decode(data)
	if err != nil {
		var typed *types.Error
		if errors.As(err, &typed) && typed.Path == "" {
			typed.Path = inputPath
		}
		return nil, err
	}

	doc, err := c.registry.Migrate(src, version)
	if err != nil {
		return nil, err
	}

	err = c.files.Write(outputPath, func(w io.Writer) error {
		return specs.Encode(w, doc, indent)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("input", inputPath).
		Str("from", src.SpecVersion().String()).
		Str("to", doc.SpecVersion().String()).
		Str("unique_id", doc.UniqueID()).
		Msg("migration complete")

	return doc, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// buildReport builds the XLSX report for the document versions that have one.
func buildReport(doc specs.Document) (*excelize.File, error) {
	spec, ok := doc.(*draft.Spec)
	if !ok {
		return nil, fmt.Errorf("xlsx report is not available for spec version %s", doc.SpecVersion())
	}
	return xlsxreport.Build(spec)
}
