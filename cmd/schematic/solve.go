package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/praetorian-inc/schematic/pkg/engine"
	"github.com/praetorian-inc/schematic/pkg/enum"
	"github.com/praetorian-inc/schematic/pkg/solver"
	"github.com/praetorian-inc/schematic/pkg/store"
	"github.com/praetorian-inc/schematic/pkg/types"
)

var (
	solveOutputPath    string
	solveOutputFormat  string
	solveGit           bool
	solveRevision      string
	solveIncremental   bool
	solveWorkers       int
	solveMaxFileSize   int64
	solveIncludeHidden bool
	solveExtensions    []string
	solveContentDir    string
)

var solveCmd = &cobra.Command{
	Use:   "solve <target>",
	Short: "Solve schematics",
	Long: `Solve a schematic file, every schematic in a directory, or every schematic
in a git revision, and store the results. Use "-" to read one schematic
from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().StringVar(&solveOutputPath, "output", "schematic.db", "Output database path or postgres:// URL")
	solveCmd.Flags().StringVar(&solveOutputFormat, "format", "human", "Output format: human, json")
	solveCmd.Flags().BoolVar(&solveGit, "git", false, "Treat target as git repository")
	solveCmd.Flags().StringVar(&solveRevision, "rev", "HEAD", "Git revision to read (with --git)")
	solveCmd.Flags().BoolVar(&solveIncremental, "incremental", false, "Reuse stored results for already-solved schematics")
	solveCmd.Flags().IntVar(&solveWorkers, "workers", 1, "Goroutines used to tokenize the rows of each schematic")
	solveCmd.Flags().Int64Var(&solveMaxFileSize, "max-file-size", 10*1024*1024, "Maximum file size to read (bytes)")
	solveCmd.Flags().BoolVar(&solveIncludeHidden, "include-hidden", false, "Include hidden files and directories")
	solveCmd.Flags().StringSliceVar(&solveExtensions, "ext", nil, "Only read files with these extensions (e.g. .txt)")
	solveCmd.Flags().StringVar(&solveContentDir, "content-dir", "", "Also keep schematic text in this directory, for inspect --content-dir")
}

func runSolve(cmd *cobra.Command, args []string) error {
	target := args[0]

	if target != "-" {
		if _, err := os.Stat(target); err != nil {
			return fmt.Errorf("target does not exist: %s", target)
		}
	}
	if solveOutputFormat != "human" && solveOutputFormat != "json" {
		return fmt.Errorf("unknown output format: %s", solveOutputFormat)
	}

	s, err := store.New(store.Config{Path: solveOutputPath})
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}

	core, err := solver.NewCore(solver.Config{
		Store:       s,
		Workers:     solveWorkers,
		Incremental: solveIncremental,
		Logger:      logger,
	})
	if err != nil {
		s.Close()
		return fmt.Errorf("creating solver: %w", err)
	}
	defer core.Close()

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var contents *store.ContentStore
	if solveContentDir != "" {
		contents = &store.ContentStore{Root: solveContentDir}
	}

	// the filesystem enumerator invokes the callback concurrently
	var mu sync.Mutex
	batch := &solver.BatchSolveResult{}

	callback := func(content []byte, id types.SchematicID, prov types.Provenance) error {
		if contents != nil {
			if _, err := contents.Put(content); err != nil {
				return err
			}
		}
		result, err := core.Solve(ctx, content, prov)
		if err != nil {
			if !errors.Is(err, engine.ErrOverflow) {
				return err
			}
			logger.Warn("schematic overflowed", zap.String("source", prov.Path()), zap.Error(err))
			result = &solver.SolveResult{Source: prov.Path(), Error: err.Error()}
		}

		mu.Lock()
		defer mu.Unlock()
		batch.Results = append(batch.Results, *result)
		return nil
	}

	if target == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		err = callback(content, types.ComputeSchematicID(content), types.StdinProvenance{})
	} else {
		err = createEnumerator(target).Enumerate(ctx, callback)
	}
	if err != nil {
		return fmt.Errorf("solving: %w", err)
	}

	sort.Slice(batch.Results, func(i, j int) bool {
		return batch.Results[i].Source < batch.Results[j].Source
	})
	cached := 0
	for _, r := range batch.Results {
		if r.Report == nil {
			batch.Failed++
			continue
		}
		if r.Cached {
			cached++
		}
		if err := batch.Totals.Add(r.Report); err != nil {
			return err
		}
	}

	// Summary goes to stderr with json so stdout stays pure JSON
	summary := cmd.OutOrStdout()
	if solveOutputFormat == "json" {
		summary = cmd.ErrOrStderr()
		if err := outputSolveJSON(cmd.OutOrStdout(), batch); err != nil {
			return err
		}
	} else {
		outputSolveHuman(cmd.OutOrStdout(), batch)
	}

	if !quiet {
		if solveIncremental {
			fmt.Fprintf(summary, "Solve complete: %d schematics, part number sum %d, gear ratio sum %d (%d reused)\n",
				batch.Totals.Schematics, batch.Totals.PartNumberSum, batch.Totals.GearRatioSum, cached)
		} else {
			fmt.Fprintf(summary, "Solve complete: %d schematics, part number sum %d, gear ratio sum %d\n",
				batch.Totals.Schematics, batch.Totals.PartNumberSum, batch.Totals.GearRatioSum)
		}
		fmt.Fprintf(summary, "Results stored in: %s\n", solveOutputPath)
	}

	if batch.Failed > 0 {
		return fmt.Errorf("%d of %d schematics could not be solved", batch.Failed, len(batch.Results))
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func createEnumerator(target string) enum.Enumerator {
	config := enum.Config{
		Root:           target,
		IncludeHidden:  solveIncludeHidden,
		MaxFileSize:    solveMaxFileSize,
		FollowSymlinks: false,
		Extensions:     solveExtensions,
	}

	if solveGit {
		e := enum.NewGitEnumerator(config)
		e.Revision = solveRevision
		return e
	}
	return enum.NewFilesystemEnumerator(config)
}

func outputSolveJSON(w io.Writer, batch *solver.BatchSolveResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(batch)
}

func outputSolveHuman(w io.Writer, batch *solver.BatchSolveResult) {
	if len(batch.Results) == 0 {
		fmt.Fprintf(w, "No schematics found.\n")
		return
	}

	for _, r := range batch.Results {
		if r.Report == nil {
			fmt.Fprintf(w, "%s: error: %s\n", r.Source, r.Error)
			continue
		}
		fmt.Fprintf(w, "%s: part numbers %d, gear ratios %d", r.Source, r.Report.PartNumberSum, r.Report.GearRatioSum)
		if r.Cached {
			fmt.Fprintf(w, " (reused)")
		}
		fmt.Fprintln(w)
	}
}
