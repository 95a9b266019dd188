// Package report collects per-statement outcomes of a conversion or
// verification run and renders them for the terminal or as a YAML/JSON file.
//
// Example usage:
//
//	r := &report.Report{}
//	r.AddConversions("queries.sql", conv.ConvertAll(stmts))
//	r.Print(os.Stderr, true) // verbose=true
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/pthm/hiercte"
)

// Status represents the outcome of a single statement.
type Status int

const (
	// StatusPass indicates the statement converted or verified cleanly.
	StatusPass Status = iota
	// StatusWarn indicates the output needs manual review.
	StatusWarn
	// StatusFail indicates the statement could not be handled.
	StatusFail
	// StatusSkip indicates the statement had nothing to rewrite.
	StatusSkip
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	case StatusSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Symbol returns a status indicator symbol for terminal output.
func (s Status) Symbol() string {
	switch s {
	case StatusPass:
		return "✓"
	case StatusWarn:
		return "⚠"
	case StatusFail:
		return "✗"
	case StatusSkip:
		return "-"
	default:
		return "?"
	}
}

// MarshalText lets exported reports carry the status name instead of its
// numeric value.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Entry is the outcome for one statement.
type Entry struct {
	// Source groups entries, usually the input file name.
	Source string `json:"source"`

	// Statement is the 1-based position of the statement within Source.
	Statement int `json:"statement"`

	Status  Status `json:"status"`
	Message string `json:"message"`

	Warnings []string `json:"warnings,omitempty"`
	Notes    []string `json:"notes,omitempty"`

	// Details holds error text or plan output shown in verbose mode.
	Details string `json:"details,omitempty"`
}

// Report contains every entry of a run.
type Report struct {
	Entries []Entry `json:"entries"`

	// Summary counts.
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
	Skipped  int `json:"skipped"`
}

// Add appends an entry and updates summary counts.
func (r *Report) Add(e Entry) {
	r.Entries = append(r.Entries, e)
	switch e.Status {
	case StatusPass:
		r.Passed++
	case StatusWarn:
		r.Warnings++
	case StatusFail:
		r.Errors++
	case StatusSkip:
		r.Skipped++
	}
}

// AddConversions records one entry per conversion result, in order.
func (r *Report) AddConversions(source string, results []*hiercte.Result) {
	for i, res := range results {
		r.Add(ConversionEntry(source, i+1, res))
	}
}

// ConversionEntry classifies a single conversion result.
func ConversionEntry(source string, n int, res *hiercte.Result) Entry {
	e := Entry{
		Source:    source,
		Statement: n,
		Warnings:  res.Warnings,
		Notes:     res.Notes,
	}
	switch {
	case res.Skipped():
		e.Status = StatusSkip
		e.Message = "No hierarchical clause, passed through"
	case !res.Success:
		e.Status = StatusFail
		e.Message = "Conversion failed, statement passed through unchanged"
		if res.Err != nil {
			e.Details = res.Err.Error()
		}
	case len(res.Warnings) > 0:
		e.Status = StatusWarn
		e.Message = fmt.Sprintf("Converted with %d warning(s)", len(res.Warnings))
	default:
		e.Status = StatusPass
		e.Message = "Converted"
	}
	return e
}

// HasErrors returns true if any statement failed.
func (r *Report) HasErrors() bool {
	return r.Errors > 0
}

// HasWarnings returns true if any statement needs review.
func (r *Report) HasWarnings() bool {
	return r.Warnings > 0
}

// Print writes the report to w. Notes and details are only shown when
// verbose is set; warnings always are.
func (r *Report) Print(w io.Writer, verbose bool) {
	// Group entries by source
	sources := make(map[string][]Entry)
	var sourceOrder []string
	for _, e := range r.Entries {
		if _, exists := sources[e.Source]; !exists {
			sourceOrder = append(sourceOrder, e.Source)
		}
		sources[e.Source] = append(sources[e.Source], e)
	}

	for _, src := range sourceOrder {
		_, _ = fmt.Fprintf(w, "\n%s\n", src)
		for _, e := range sources[src] {
			if e.Status == StatusSkip && !verbose {
				continue
			}
			_, _ = fmt.Fprintf(w, "  %s statement %d: %s\n", e.Status.Symbol(), e.Statement, e.Message)
			for _, warn := range e.Warnings {
				_, _ = fmt.Fprintf(w, "      warning: %s\n", warn)
			}
			if !verbose {
				continue
			}
			for _, note := range e.Notes {
				_, _ = fmt.Fprintf(w, "      note: %s\n", note)
			}
			if e.Details != "" {
				for _, line := range strings.Split(e.Details, "\n") {
					_, _ = fmt.Fprintf(w, "      %s\n", line)
				}
			}
		}
	}

	_, _ = fmt.Fprintf(w, "\nSummary: %d passed, %d warnings, %d errors, %d skipped\n",
		r.Passed, r.Warnings, r.Errors, r.Skipped)
}

// Export encodes the report as "yaml" or "json".
func (r *Report) Export(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "yaml", "yml":
		return yaml.Marshal(r)
	case "json":
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown report format %q (want yaml or json)", format)
	}
}

// WriteFile exports the report to path, creating parent directories.
func (r *Report) WriteFile(path, format string) error {
	data, err := r.Export(format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
