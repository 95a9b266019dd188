package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pthm/hiercte"
	"github.com/pthm/hiercte/internal/cli"
	"github.com/pthm/hiercte/internal/report"
)

var (
	convertOutput        string
	convertReport        string
	convertReportFormat  string
	convertFailOnWarning bool
	convertCastType      string
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Rewrite CONNECT BY queries",
	Long: `Rewrite hierarchical queries as WITH RECURSIVE common table expressions.

Each input is split into statements. Statements without CONNECT BY, and
statements that cannot be rewritten, are written out unchanged. A summary of
every statement is printed to stderr.`,
	Example: `  # Convert a script to stdout
  hiercte convert queries.sql

  # Read from stdin, write to a file
  cat queries.sql | hiercte convert --output converted.sql

  # Databricks string casts and a JSON report
  hiercte convert queries.sql --cast-type STRING --report report.json --report-format json

  # Fail when any conversion needs manual review
  hiercte convert queries.sql --fail-on-warning`,
	RunE: func(cmd *cobra.Command, args []string) error {
		castType := resolveString(convertCastType, cfg.Convert.CastType)
		reportPath := resolveString(convertReport, cfg.Convert.Report)
		reportFormat := resolveString(convertReportFormat, formatFromPath(reportPath), cfg.Convert.ReportFormat)
		failOnWarning := resolveBool(convertFailOnWarning, cfg.Convert.FailOnWarning)

		scripts, err := readScripts(args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		opts := []hiercte.Option{
			hiercte.WithCastType(castType),
			hiercte.WithSequenceFunction(cfg.Convert.SequenceFunction),
		}
		if cfg.Convert.Annotate {
			opts = append(opts, hiercte.WithAnnotations())
		}

		// One converter for the whole run keeps CTE names unique across files.
		return runConvert(scripts, hiercte.NewConverter(opts...), convertTarget{
			output:        convertOutput,
			report:        reportPath,
			reportFormat:  reportFormat,
			failOnWarning: failOnWarning,
		})
	},
}

func init() {
	f := convertCmd.Flags()
	f.StringVarP(&convertOutput, "output", "o", "", "write converted SQL to file (default: stdout)")
	f.StringVar(&convertReport, "report", "", "write a per-statement report to file")
	f.StringVar(&convertReportFormat, "report-format", "", "report format: yaml or json")
	f.BoolVar(&convertFailOnWarning, "fail-on-warning", false, "exit non-zero when a conversion needs manual review")
	f.StringVar(&convertCastType, "cast-type", "", "cast target for SYS_CONNECT_BY_PATH (e.g. text, STRING)")
}

type convertTarget struct {
	output        string
	report        string
	reportFormat  string
	failOnWarning bool
}

func runConvert(scripts []script, conv *hiercte.Converter, target convertTarget) error {
	var (
		out strings.Builder
		rep report.Report
	)
	for _, s := range scripts {
		results := conv.ConvertAll(s.Statements)
		for _, res := range results {
			out.WriteString(strings.TrimSpace(res.SQL))
			out.WriteString(";\n\n")
		}
		rep.AddConversions(s.Name, results)
	}

	if err := writeOutput(target.output, out.String()); err != nil {
		return err
	}

	if target.report != "" {
		if err := rep.WriteFile(target.report, target.reportFormat); err != nil {
			return cli.GeneralError("writing report", err)
		}
	}

	if !quiet || rep.HasErrors() {
		rep.Print(os.Stderr, verbose > 0)
	}

	switch {
	case rep.HasErrors():
		return cli.ConvertError(fmt.Sprintf("%d statement(s) could not be converted", rep.Errors), nil)
	case target.failOnWarning && rep.HasWarnings():
		return cli.ConvertError(fmt.Sprintf("%d conversion(s) need manual review", rep.Warnings), nil)
	}
	return nil
}

func writeOutput(path, sql string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(os.Stdout, sql)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return cli.GeneralError("creating output directory", err)
		}
	}
	if err := os.WriteFile(path, []byte(sql), 0o644); err != nil {
		return cli.GeneralError("writing output", err)
	}
	if !quiet {
		fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	}
	return nil
}

// formatFromPath picks the report format from the file extension.
func formatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "json"
	}
	return ""
}
