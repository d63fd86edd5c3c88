package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/dllpatch/internal/config"
	"github.com/joshuapare/dllpatch/internal/logger"
	"github.com/joshuapare/dllpatch/internal/tui"
	"github.com/joshuapare/dllpatch/patch"
)

// Set via -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type options struct {
	debug   bool
	help    bool
	version bool
	dir     string
	suffix  string
	config  string
}

var errUsage = errors.New("usage")

// parseArgs reads flags and the optional config path.
func parseArgs(args []string) (options, error) {
	opts := options{suffix: patch.DefaultSuffix}
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "--debug", "-d":
			opts.debug = true
		case "--help", "-h":
			opts.help = true
		case "--version", "-v":
			opts.version = true
		case "--dir", "-C", "--suffix":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("%w: %s needs a value", errUsage, arg)
			}
			i++
			if arg == "--suffix" {
				opts.suffix = args[i]
			} else {
				opts.dir = args[i]
			}
		default:
			if opts.config != "" {
				return opts, fmt.Errorf("%w: unexpected argument %q", errUsage, arg)
			}
			opts.config = arg
		}
	}
	return opts, nil
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		printUsage()
		os.Exit(1)
	}

	if opts.help {
		printHelp()
		os.Exit(0)
	}

	if opts.version {
		fmt.Printf("patchexplorer %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built: %s\n", date)
		os.Exit(0)
	}

	// Initialize logger (must be before any logging calls)
	if err := logger.Init(logger.Options{
		Enabled: opts.debug,
		Level:   slog.LevelDebug,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logging: %v\n", err)
	}
	defer logger.Close()

	if err := run(opts); err != nil {
		logger.Error("patchexplorer failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Close()
		os.Exit(1)
	}
	logger.Info("patchexplorer exited normally")
}

func run(opts options) error {
	path, err := config.Discover(opts.config)
	if err != nil {
		return err
	}
	files, err := config.Load(path)
	if err != nil {
		return err
	}
	dir := config.ResolveDir(opts.dir, path)
	logger.Info("starting patchexplorer", "config", path, "dir", dir, "debug", opts.debug)

	set, err := patch.Open(dir, files, patch.WithSuffix(opts.suffix), patch.WithLogger(logger.L))
	if err != nil {
		return err
	}

	m := tui.New(set)
	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if model, ok := finalModel.(tui.Model); ok {
		if cerr := model.Close(); cerr != nil {
			logger.Warn("error closing files", "error", cerr)
		}
	} else {
		_ = set.Close()
	}
	if err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: patchexplorer [options] [config-file]\n")
	fmt.Fprintf(os.Stderr, "Try 'patchexplorer --help' for more information.\n")
}

func printHelp() {
	fmt.Println("patchexplorer - Interactive TUI for toggling DLL byte patches")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  patchexplorer [options] [config-file]")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Lists every patch of every configured DLL as a checkbox (toggle)")
	fmt.Println("  or a radio group (union). Changes are written to disk at once.")
	fmt.Println("  Patches whose bytes are not recognized are listed at startup and")
	fmt.Println("  shown as [?].")
	fmt.Println()
	fmt.Println("  Without a config file, $DLLPATCH_CONFIG or ./patches.{yml,yaml,toml}")
	fmt.Println("  is used. DLLs are looked up next to the config file unless --dir or")
	fmt.Println("  $DLLPATCH_DIR is given.")
	fmt.Println()
	fmt.Println("  Keys:")
	fmt.Println("    ↑/k, ↓/j     Move")
	fmt.Println("    Space/Enter  Toggle checkbox / select radio button")
	fmt.Println("    c            Copy the patch state")
	fmt.Println("    r            Re-read files")
	fmt.Println("    e            Show startup problems")
	fmt.Println("    ?            Show help")
	fmt.Println("    q            Quit")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -C, --dir DIR    Directory holding the DLLs")
	fmt.Println("      --suffix S   File suffix (default .dll)")
	fmt.Println("  -d, --debug      Enable debug logging to ~/.dllpatch/logs/")
	fmt.Println("  -h, --help       Show this help message")
	fmt.Println("  -v, --version    Show version information")
	fmt.Println()
	fmt.Println("For scripted use, run the 'dllpatch' command instead.")
}
