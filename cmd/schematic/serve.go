package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/schematic/pkg/serve"
	"github.com/praetorian-inc/schematic/pkg/solver"
	"github.com/praetorian-inc/schematic/pkg/store"
)

var (
	serveOutput      string
	serveIncremental bool
	serveWorkers     int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as a streaming server",
	Long: `Run Schematic as a long-lived server that accepts solve requests via
stdin and writes results to stdout, one JSON document per line.

Requests are {"type": "solve", "payload": {"content": ..., "source": ...}},
{"type": "solve_batch", "payload": {"items": [...]}} and {"type": "close"}.
The server runs until stdin closes, a close request arrives, or SIGTERM
is received.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveOutput, "output", store.MemoryPath, "Store for results: :memory:, a database path or postgres:// URL")
	serveCmd.Flags().BoolVar(&serveIncremental, "incremental", false, "Answer repeated schematics from the store")
	serveCmd.Flags().IntVar(&serveWorkers, "workers", 1, "Goroutines used to tokenize the rows of each schematic")
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := store.New(store.Config{Path: serveOutput})
	if err != nil {
		return err
	}

	core, err := solver.NewCore(solver.Config{
		Store:       s,
		Workers:     serveWorkers,
		Incremental: serveIncremental,
		Logger:      logger,
	})
	if err != nil {
		s.Close()
		return err
	}
	defer core.Close()

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	srv := serve.NewServer(core, cmd.InOrStdin(), cmd.OutOrStdout())
	return srv.Run(ctx)
}
