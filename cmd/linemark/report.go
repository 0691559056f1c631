package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/praetorian-inc/linemark/pkg/sarif"
	"github.com/praetorian-inc/linemark/pkg/tracker"
	"github.com/praetorian-inc/linemark/pkg/types"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	reportFormat string
	reportColor  string
)

// styles holds color formatters for human output.
type styles struct {
	document *color.Color
	lines    *color.Color
	heading  *color.Color
	metadata *color.Color
}

// newStyles creates color formatters for report output.
// enabled=false respects --color=never and NO_COLOR.
func newStyles(enabled bool) *styles {
	s := &styles{
		document: color.New(color.Bold, color.FgHiWhite),
		lines:    color.New(color.FgYellow),
		heading:  color.New(color.Bold),
		metadata: color.New(color.FgHiBlue),
	}

	if !enabled {
		s.document.DisableColor()
		s.lines.DisableColor()
		s.heading.DisableColor()
		s.metadata.DisableColor()
	}

	return s
}

var reportCmd = &cobra.Command{
	Use:   "report [document...]",
	Short: "Report annotated line ranges",
	Long:  "Read snapshots from the store and print their annotations. Without arguments every stored document is reported.",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "human", "Output format: human, json, sarif")
	reportCmd.Flags().StringVar(&reportColor, "color", "auto", "Color output: auto, always, never")
}

// documentReport is one entry of the JSON report.
type documentReport struct {
	Document string         `json:"document"`
	Snapshot types.Snapshot `json:"snapshot"`
}

func runReport(cmd *cobra.Command, args []string) error {
	t, err := openTracker()
	if err != nil {
		return err
	}
	defer t.Close()

	reports, err := collectReports(t, args)
	if err != nil {
		return err
	}

	switch reportFormat {
	case "json":
		return outputReportJSON(cmd, reports)
	case "human":
		return outputReportHuman(cmd, reports)
	case "sarif":
		return outputReportSARIF(cmd, reports)
	default:
		return fmt.Errorf("unknown output format: %s", reportFormat)
	}
}

func collectReports(t *tracker.Tracker, docs []string) ([]documentReport, error) {
	if len(docs) == 0 {
		var err error
		if docs, err = t.Documents(); err != nil {
			return nil, fmt.Errorf("listing documents: %w", err)
		}
	}
	reports := make([]documentReport, 0, len(docs))
	for _, doc := range docs {
		reports = append(reports, documentReport{Document: doc, Snapshot: t.Snapshot(doc)})
	}
	return reports, nil
}

func outputReportJSON(cmd *cobra.Command, reports []documentReport) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

func outputReportSARIF(cmd *cobra.Command, reports []documentReport) error {
	report := sarif.NewReport(version)
	for _, r := range reports {
		report.AddSnapshot(r.Document, r.Snapshot)
	}
	data, err := report.ToJSON()
	if err != nil {
		return fmt.Errorf("encoding SARIF: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func outputReportHuman(cmd *cobra.Command, reports []documentReport) error {
	out := cmd.OutOrStdout()

	switch reportColor {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default: // "auto"
		if !term.IsTerminal(int(os.Stdout.Fd())) || os.Getenv("NO_COLOR") != "" {
			color.NoColor = true
		} else {
			color.NoColor = false
		}
	}
	s := newStyles(!color.NoColor)

	totalAnnotations, totalLines := 0, 0
	for _, r := range reports {
		snap := r.Snapshot
		if len(snap.Annotations) == 0 {
			continue
		}
		totalAnnotations += len(snap.Annotations)
		totalLines += snap.AnnotatedLines()

		fmt.Fprintf(out, "%s\n", s.document.Sprint(r.Document))
		fmt.Fprintf(out, "%s %d", s.metadata.Sprint("Version:"), snap.DocumentVersion)
		if !snap.LastUpdatedAt.IsZero() {
			fmt.Fprintf(out, "  %s %s", s.metadata.Sprint("Updated:"), snap.LastUpdatedAt.Local().Format(time.DateTime))
		}
		fmt.Fprintln(out)

		for _, a := range snap.Annotations {
			fmt.Fprintf(out, "  %s  %s  %s\n",
				s.lines.Sprint(formatRange(a)),
				a.Kind,
				a.CreatedAt.UTC().Format(time.RFC3339Nano))
		}
		fmt.Fprintln(out)
	}

	if totalAnnotations == 0 {
		fmt.Fprintln(out, "No annotations found.")
		return nil
	}
	fmt.Fprintf(out, "%s %d annotations covering %d lines in %d documents\n",
		s.heading.Sprint("Summary:"), totalAnnotations, totalLines, countAnnotated(reports))
	return nil
}

func formatRange(a types.Annotation) string {
	if a.StartLine == a.EndLine {
		return fmt.Sprintf("line %d", a.StartLine)
	}
	return fmt.Sprintf("lines %d-%d", a.StartLine, a.EndLine)
}

func countAnnotated(reports []documentReport) int {
	n := 0
	for _, r := range reports {
		if len(r.Snapshot.Annotations) > 0 {
			n++
		}
	}
	return n
}
