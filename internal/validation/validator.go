// =============================================================================
// CBL to JSON Converter - Validation Module
// =============================================================================
//
// This module checks a parsed legacy reading list for data-quality problems.
// None of these problems stop the parser; they are reported so the user can
// fix the source list.
//
// CHECKS:
//   List level:
//     - NumIssues must not be negative
//     - NumIssues should equal the number of <Book> entries
//     - Name should not be blank
//   Issue level:
//     - Series and Number should not be blank
//     - Year and Volume are either the -1 sentinel or a plausible value
//
// ERROR HANDLING:
//   - Findings are collected, never returned early
//   - Each finding carries its severity, field, value and issue position
//   - A count mismatch is a warning unless Options.Strict is set
//
// =============================================================================

package validation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/cbl"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// SeverityError marks a finding that fails the run.
	SeverityError = "error"

	// SeverityWarning marks a finding that is only reported.
	SeverityWarning = "warning"

	// minYear and maxYear bound a plausible publication year.
	minYear = 1800
	maxYear = 2999
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation finding.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Field is the legacy field name, e.g. "NumIssues" or "Year".
	Field string

	// Value is the offending value as text.
	Value string

	// Message is a human-readable description.
	Message string

	// IssueNumber is the 1-based position of the issue, or 0 for list-level
	// findings.
	IssueNumber int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.IssueNumber == 0 {
		return fmt.Sprintf("[%s] Field '%s': %s (value: '%s')",
			strings.ToUpper(e.Severity), e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("[%s] Book %d, Field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity), e.IssueNumber, e.Field, e.Message, e.Value)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// Result contains the outcome of validating one reading list.
type Result struct {
	// Errors contains all findings, warnings included.
	Errors []*ValidationError

	// ErrorCount is the number of SeverityError findings.
	ErrorCount int

	// WarningCount is the number of SeverityWarning findings.
	WarningCount int

	// IssuesValidated is the number of issue entries checked.
	IssuesValidated int
}

// IsValid reports whether no SeverityError finding was recorded.
func (r *Result) IsValid() bool {
	return r.ErrorCount == 0
}

func (r *Result) add(e *ValidationError) {
	r.Errors = append(r.Errors, e)
	if e.Severity == SeverityError {
		r.ErrorCount++
	} else {
		r.WarningCount++
	}
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options controls validation severity.
type Options struct {
	// Strict turns an issue-count mismatch into an error.
	Strict bool
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// Validate checks list and returns every finding.
func Validate(list *cbl.ReadingList, opts Options) *Result {
	result := &Result{}

	validateList(list, opts, result)

	for i := range list.Issues {
		validateIssue(&list.Issues[i], i+1, result)
	}
	result.IssuesValidated = len(list.Issues)

	return result
}

// validateList runs the list-level rules.
func validateList(list *cbl.ReadingList, opts Options, result *Result) {
	err := validation.ValidateStruct(list,
		validation.Field(&list.NumIssues, validation.Min(0)),
	)
	collect(err, 0, SeverityError, valuesOf(list.Name, list.NumIssues), result)

	err = validation.ValidateStruct(list,
		validation.Field(&list.Name, validation.Required),
		validation.Field(&list.Issues, validation.By(matchesDeclaredCount(list.NumIssues))),
	)

	severity := SeverityWarning
	if opts.Strict {
		severity = SeverityError
	}
	values := valuesOf(list.Name, list.NumIssues)
	values["Issues"] = strconv.Itoa(len(list.Issues))
	collectWith(err, 0, func(field string) string {
		if field == "Issues" {
			return severity
		}
		return SeverityWarning
	}, values, result)
}

// validateIssue runs the issue-level rules. All of them are warnings.
func validateIssue(issue *cbl.Issue, number int, result *Result) {
	err := validation.ValidateStruct(issue,
		validation.Field(&issue.Series, validation.Required),
		validation.Field(&issue.Number, validation.Required),
		validation.Field(&issue.Year,
			validation.When(issue.Year != cbl.Sentinel, validation.Min(minYear), validation.Max(maxYear))),
		validation.Field(&issue.Volume,
			validation.When(issue.Volume != cbl.Sentinel, validation.Min(0))),
	)

	values := map[string]string{
		"Series": issue.Series,
		"Number": issue.Number,
		"Year":   strconv.Itoa(issue.Year),
		"Volume": strconv.Itoa(issue.Volume),
	}
	collect(err, number, SeverityWarning, values, result)
}

// matchesDeclaredCount compares the number of entries with NumIssues.
func matchesDeclaredCount(declared int) validation.RuleFunc {
	return func(value interface{}) error {
		issues, _ := value.([]cbl.Issue)
		if len(issues) != declared {
			return fmt.Errorf("declared %d issues but found %d", declared, len(issues))
		}
		return nil
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func valuesOf(name string, numIssues int) map[string]string {
	return map[string]string{
		"Name":      name,
		"NumIssues": strconv.Itoa(numIssues),
	}
}

// collect converts ozzo's field error map into ValidationErrors of one severity.
func collect(err error, issueNumber int, severity string, values map[string]string, result *Result) {
	collectWith(err, issueNumber, func(string) string { return severity }, values, result)
}

// collectWith converts ozzo's field error map, choosing a severity per field.
// Fields are visited in name order so output is stable.
func collectWith(err error, issueNumber int, severityOf func(field string) string, values map[string]string, result *Result) {
	if err == nil {
		return
	}

	fieldErrs, ok := err.(validation.Errors)
	if !ok {
		result.add(&ValidationError{
			Severity:    SeverityError,
			Message:     err.Error(),
			IssueNumber: issueNumber,
		})
		return
	}

	fields := make([]string, 0, len(fieldErrs))
	for field := range fieldErrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		result.add(&ValidationError{
			Severity:    severityOf(field),
			Field:       field,
			Value:       values[field],
			Message:     fieldErrs[field].Error(),
			IssueNumber: issueNumber,
		})
	}
}

// FormatErrors formats findings as a multi-line string.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d validation finding(s):\n", len(errors)))
	for i, err := range errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}
