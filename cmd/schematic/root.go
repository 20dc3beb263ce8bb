package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/praetorian-inc/schematic/pkg/config"
)

var (
	verbose    bool
	quiet      bool
	configPath string

	// logger is replaced in PersistentPreRunE; commands run directly in
	// tests see the no-op logger.
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "schematic",
	Short: "Schematic - engine schematic part-number and gear-ratio solver",
	Long: `Schematic reads engine schematics, grids of digits, '.' and symbols, and
computes the part-number sum (numbers touching a symbol, diagonals included)
and the gear-ratio sum (products of the two numbers touching each '*' that
touches exactly two).

Schematics can be read from files, directories, git revisions or stdin.
Results are stored in SQLite (or PostgreSQL) for later reports and merges.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default "+config.DefaultPath+" if present)")

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setup loads the config file into unset flags and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyConfig(cmd, cfg); err != nil {
		return err
	}

	logger, err = newLogger(verbose, quiet)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	return config.Load(path)
}

// configFlags maps, per command, flag names to the config keys that
// supply their defaults.
var configFlags = map[string]map[string]string{
	"solve": {
		"output":         "output",
		"format":         "format",
		"workers":        "workers",
		"max-file-size":  "max_file_size",
		"include-hidden": "include_hidden",
	},
	"report": {
		"datastore": "output",
		"format":    "format",
		"color":     "color",
	},
	"inspect": {
		"color": "color",
	},
	// serve keeps its in-memory store unless an output is configured
	"serve": {
		"output":  "configured_output",
		"workers": "workers",
	},
}

// applyConfig sets every mapped flag the user did not set on the command
// line to its config value.
func applyConfig(cmd *cobra.Command, cfg *config.Config) error {
	values := map[string]string{
		"output":         cfg.Output,
		"format":         cfg.Format,
		"color":          cfg.Color,
		"workers":        strconv.Itoa(cfg.Workers),
		"max_file_size":  strconv.FormatInt(cfg.MaxFileSize, 10),
		"include_hidden": strconv.FormatBool(cfg.IncludeHidden),
	}
	if cfg.OutputSet {
		values["configured_output"] = cfg.Output
	}

	for name, key := range configFlags[cmd.Name()] {
		f := cmd.Flags().Lookup(name)
		if f == nil || f.Changed {
			continue
		}
		value, ok := values[key]
		if !ok {
			continue
		}
		if err := f.Value.Set(value); err != nil {
			return fmt.Errorf("config %s: %w", key, err)
		}
	}
	return nil
}

func newLogger(verbose, quiet bool) (*zap.Logger, error) {
	if quiet && verbose {
		return nil, errors.New("--quiet and --verbose are mutually exclusive")
	}
	if quiet {
		return zap.NewNop(), nil
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
