package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/dllpatch/internal/config"
	"github.com/joshuapare/dllpatch/internal/logger"
	"github.com/joshuapare/dllpatch/patch"
	"github.com/joshuapare/dllpatch/pkg/types"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	logToFile  bool
	configPath string
	targetDir  string
	fileSuffix string
)

// Exit codes
const (
	exitError        = 1
	exitConfig       = 2
	exitUnrecognized = 3
)

// errUnrecognized marks a validate run that found rules in an unknown state.
var errUnrecognized = errors.New("unrecognized patch state")

var rootCmd = &cobra.Command{
	Use:   "dllpatch",
	Short: "Toggle binary patches inside DLL files",
	Long: `dllpatch switches named features of executable modules on and off by
overwriting short byte sequences at fixed offsets. Rules are read from a YAML
or TOML file that maps each DLL name to its patches.

Every write is flushed to disk immediately. No backup is taken.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Close()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Patch config file (default: $DLLPATCH_CONFIG or ./patches.{yml,yaml,toml})")
	rootCmd.PersistentFlags().StringVarP(&targetDir, "dir", "C", "",
		"Directory holding the DLLs (default: $DLLPATCH_DIR or the config file's directory)")
	rootCmd.PersistentFlags().StringVar(&fileSuffix, "suffix", patch.DefaultSuffix, "Suffix appended to file names")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&logToFile, "log", false, "Write a JSON log to ~/.dllpatch/logs")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	if errors.Is(err, errUnrecognized) {
		return exitUnrecognized
	}
	if kind, ok := types.KindOf(err); ok {
		switch kind {
		case types.ErrKindConfig, types.ErrKindOutOfRange:
			return exitConfig
		}
	}
	return exitError
}

func initLogging() error {
	switch {
	case logToFile:
		return logger.Init(logger.Options{Enabled: true, Level: slog.LevelDebug})
	case verbose && !quiet:
		return logger.Init(logger.Options{Enabled: true, Level: slog.LevelDebug, Console: os.Stderr})
	default:
		return logger.Init(logger.Options{Enabled: false})
	}
}

// openSession loads the config and opens every target it names.
func openSession() (*patch.Set, error) {
	path, err := config.Discover(configPath)
	if err != nil {
		return nil, err
	}
	printVerbose("Loading config: %s\n", path)

	files, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	dir := config.ResolveDir(targetDir, path)
	printVerbose("Opening %d file(s) in %s\n", len(files), dir)

	set, err := patch.Open(dir, files, patch.WithSuffix(fileSuffix), patch.WithLogger(logger.L))
	if err != nil {
		return nil, fmt.Errorf("failed to open targets: %w", err)
	}
	return set, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
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
