package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/schematic/pkg/solver"
	"github.com/praetorian-inc/schematic/pkg/store"
	"github.com/praetorian-inc/schematic/pkg/types"
)

var (
	reportDatastore string
	reportFormat    string
	reportColor     string
	reportDetails   bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a report from stored results",
	Long:  "Read stored schematic reports and print each schematic's sums and the totals",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportDatastore, "datastore", "schematic.db", "Database path or postgres:// URL")
	reportCmd.Flags().StringVar(&reportFormat, "format", "human", "Output format: human, json")
	reportCmd.Flags().StringVar(&reportColor, "color", "auto", "Color output: auto, always, never")
	reportCmd.Flags().BoolVar(&reportDetails, "details", false, "List every gear of each schematic")
}

// reportEntry is one schematic in the report.
type reportEntry struct {
	Source string        `json:"source,omitempty"`
	Report *types.Report `json:"report"`
}

// reportOutput is the json form of the report.
type reportOutput struct {
	Schematics []reportEntry `json:"schematics"`
	Totals     solver.Totals `json:"totals"`
}

func runReport(cmd *cobra.Command, args []string) error {
	storePath := reportDatastore

	if storePath == store.MemoryPath {
		return fmt.Errorf("cannot report from in-memory store")
	}
	if !store.IsPostgresURL(storePath) {
		if _, err := os.Stat(storePath); err != nil {
			return fmt.Errorf("datastore not found: %s", storePath)
		}
	}

	s, err := store.New(store.Config{Path: storePath})
	if err != nil {
		return fmt.Errorf("opening datastore: %w", err)
	}
	defer s.Close()

	reports, err := s.GetReports()
	if err != nil {
		return fmt.Errorf("retrieving reports: %w", err)
	}

	out := reportOutput{Schematics: make([]reportEntry, 0, len(reports))}
	for _, r := range reports {
		entry := reportEntry{Report: r}
		prov, err := s.GetProvenance(r.ID)
		switch {
		case err == nil:
			entry.Source = prov.Path()
		case !errors.Is(err, store.ErrNotFound):
			return fmt.Errorf("retrieving provenance: %w", err)
		}
		if err := out.Totals.Add(r); err != nil {
			return err
		}
		out.Schematics = append(out.Schematics, entry)
	}

	switch reportFormat {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	case "human":
		enabled, err := colorEnabled(reportColor)
		if err != nil {
			return err
		}
		outputReportHuman(cmd.OutOrStdout(), newStyles(enabled), storePath, out)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", reportFormat)
	}
}

func outputReportHuman(w io.Writer, s *styles, storePath string, out reportOutput) {
	fmt.Fprintf(w, "%s\n", s.heading.Sprint("=== Schematic Report ==="))
	fmt.Fprintf(w, "Datastore: %s\n", storePath)
	fmt.Fprintf(w, "Total schematics: %d\n", out.Totals.Schematics)
	fmt.Fprintf(w, "Part number sum: %s\n", s.number.Sprint(out.Totals.PartNumberSum))
	fmt.Fprintf(w, "Gear ratio sum: %s\n", s.gear.Sprint(out.Totals.GearRatioSum))

	if len(out.Schematics) == 0 {
		fmt.Fprintf(w, "\nNo schematics.\n")
		return
	}

	for i, e := range out.Schematics {
		r := e.Report
		fmt.Fprintf(w, "\n%s\n", s.heading.Sprintf("Schematic %d/%d", i+1, len(out.Schematics)))
		fmt.Fprintf(w, "ID: %s\n", s.id.Sprint(r.ID.Hex()))
		if e.Source != "" {
			fmt.Fprintf(w, "Source: %s\n", s.source.Sprint(e.Source))
		}
		fmt.Fprintf(w, "Rows: %d, spans: %d\n", r.Rows, r.Spans)
		fmt.Fprintf(w, "Part numbers: %s (%d parts)\n", s.number.Sprint(r.PartNumberSum), len(r.Parts))
		fmt.Fprintf(w, "Gear ratios: %s (%d gears)\n", s.gear.Sprint(r.GearRatioSum), len(r.Gears))
		fmt.Fprintf(w, "%s\n", s.muted.Sprintf("Analyzed: %s", r.AnalyzedAt.Format("2006-01-02 15:04:05 MST")))

		if !reportDetails {
			continue
		}
		for _, g := range r.Gears {
			at := types.Source(g.Ref.Row, types.ColumnSpan{Start: g.Ref.Column, End: g.Ref.Column + 1})
			fmt.Fprintf(w, "  gear at %d:%d  %s x %s = %s\n", at.Line, at.Column,
				s.number.Sprint(g.Values[0]), s.number.Sprint(g.Values[1]), s.gear.Sprint(g.Ratio))
		}
	}
}
