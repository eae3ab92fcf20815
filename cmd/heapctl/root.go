package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/arena"
	"github.com/joshuapare/heapkit/arena/alloc"
	"github.com/joshuapare/heapkit/internal/logger"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
	logDir  string

	// Arena flags shared by every workload command
	arenaLimit int
	aligned    bool
	growth     int
)

var rootCmd = &cobra.Command{
	Use:   "heapctl",
	Short: "Drive and inspect the heapkit first-fit allocator",
	Long: `heapctl runs workloads against the heapkit allocator: concurrent stress
cycles and replays of recorded allocation traces. Every run ends with a full
chain verification and allocator statistics.`,
	Version: "0.1.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().
		StringVar(&logDir, "log-dir", "", "Write allocator diagnostics to daily files in this directory")

	rootCmd.PersistentFlags().
		IntVar(&arenaLimit, "limit", 256<<20, "Maximum arena size in bytes")
	rootCmd.PersistentFlags().
		BoolVar(&aligned, "aligned", false, "Round every request up to 8 bytes")
	rootCmd.PersistentFlags().
		IntVar(&growth, "growth", alloc.DefaultConfig.GrowthMultiplier, "Growth multiplier applied to (size + header)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initLogging routes allocator diagnostics according to the global flags.
func initLogging() error {
	level := slog.LevelWarn
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return logger.Init(logger.Options{
		Enabled: true,
		LogDir:  logDir,
		Level:   level,
	})
}

// newAllocator reserves an arena per the global flags and builds an allocator
// over it. The caller closes the returned region.
func newAllocator() (*alloc.Allocator, arena.Region, error) {
	r, err := arena.Default(arenaLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to reserve arena: %w", err)
	}
	a, err := alloc.New(r, &alloc.Config{
		GrowthMultiplier: growth,
		AlignRequests:    aligned,
		Logger:           logger.L,
	})
	if err != nil {
		_ = r.Close()
		return nil, nil, err
	}
	printVerbose("Reserved %d bytes at %#x\n", arenaLimit, r.Base())
	return a, r, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
