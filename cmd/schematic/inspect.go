package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/schematic/pkg/grid"
	"github.com/praetorian-inc/schematic/pkg/store"
	"github.com/praetorian-inc/schematic/pkg/types"
)

var (
	inspectRow   int
	inspectCol   int
	inspectColor string
	inspectStore string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file | schematic-id>",
	Short: "Show how a schematic is tokenized",
	Long: `Print every row of a schematic as its spans with their column ranges.
With --row and --col, also print the span covering that cell and its
neighbours. Rows and columns are 0-based. Use "-" to read stdin.

With --content-dir, the argument is a schematic ID whose text was kept by
solve --content-dir.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().IntVar(&inspectRow, "row", -1, "Row of the span to show neighbours for")
	inspectCmd.Flags().IntVar(&inspectCol, "col", -1, "Column of the span to show neighbours for")
	inspectCmd.Flags().StringVar(&inspectColor, "color", "auto", "Color output: auto, always, never")
	inspectCmd.Flags().StringVar(&inspectStore, "content-dir", "", "Read the schematic by ID from this content directory")
}

func runInspect(cmd *cobra.Command, args []string) error {
	content, err := readInspectTarget(cmd, args[0])
	if err != nil {
		return fmt.Errorf("reading schematic: %w", err)
	}

	enabled, err := colorEnabled(inspectColor)
	if err != nil {
		return err
	}
	s := newStyles(enabled)
	out := cmd.OutOrStdout()

	g := grid.New(string(content))
	fmt.Fprintf(out, "%s\n", s.heading.Sprintf("%d rows, %d spans", g.Len(), g.SpanCount()))
	for i := range g.Len() {
		fmt.Fprintf(out, "%4d: %s\n", i, formatSpans(s, g.Row(i)))
	}

	if inspectRow < 0 && inspectCol < 0 {
		return nil
	}
	if inspectRow < 0 || inspectCol < 0 {
		return fmt.Errorf("--row and --col must be given together")
	}

	pivot, ok := g.At(inspectRow, inspectCol)
	if !ok {
		return fmt.Errorf("no span at row %d, column %d", inspectRow, inspectCol)
	}
	neighbors := g.Neighbors(pivot)

	fmt.Fprintf(out, "\n%s %s\n", s.heading.Sprint("Span:"), formatSpan(s, pivot))
	fmt.Fprintf(out, "%s %s\n", s.heading.Sprint("Neighbours:"), formatSpans(s, neighbors))

	switch {
	case pivot.Tile.IsNumber():
		for _, n := range neighbors {
			if n.Tile.IsSymbol() {
				fmt.Fprintf(out, "%s\n", s.number.Sprint("part number"))
				return nil
			}
		}
		fmt.Fprintf(out, "%s\n", s.muted.Sprint("not a part number"))
	case pivot.Tile.IsGear():
		var numbers []string
		for _, n := range neighbors {
			if n.Tile.IsNumber() {
				numbers = append(numbers, n.Tile.String())
			}
		}
		if len(numbers) == 2 {
			fmt.Fprintf(out, "%s %s\n", s.gear.Sprint("gear:"), strings.Join(numbers, " x "))
		} else {
			fmt.Fprintf(out, "%s\n", s.muted.Sprintf("not a gear (%d adjacent numbers)", len(numbers)))
		}
	}
	return nil
}

func readInspectTarget(cmd *cobra.Command, target string) ([]byte, error) {
	switch {
	case inspectStore != "":
		id, err := types.ParseSchematicID(target)
		if err != nil {
			return nil, err
		}
		contents := &store.ContentStore{Root: inspectStore}
		return contents.Get(id)
	case target == "-":
		return io.ReadAll(cmd.InOrStdin())
	default:
		return os.ReadFile(target)
	}
}

func formatSpans(s *styles, spans []types.Span) string {
	if len(spans) == 0 {
		return s.muted.Sprint("(none)")
	}
	parts := make([]string, len(spans))
	for i, span := range spans {
		parts[i] = formatSpan(s, span)
	}
	return strings.Join(parts, " ")
}

func formatSpan(s *styles, span types.Span) string {
	text := fmt.Sprintf("%s[%d,%d)", span.Tile, span.Columns.Start, span.Columns.End)
	switch {
	case span.Tile.IsNumber():
		return s.number.Sprint(text)
	case span.Tile.IsGear():
		return s.gear.Sprint(text)
	case span.Tile.IsSymbol():
		return s.symbol.Sprint(text)
	default:
		return s.muted.Sprint(text)
	}
}
