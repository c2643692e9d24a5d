// Package main is the entry point for the quickpick fuzzy finder.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/quickpick/internal/builtin"
	"github.com/dshills/quickpick/internal/config"
	"github.com/dshills/quickpick/internal/picker"
	"github.com/dshills/quickpick/internal/ui"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

type options struct {
	ConfigPath string
	ThemePath  string
	Cwd        string
	Query      string
	Mode       string
	List       bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, pickerName := parseFlags(os.Args[1:])

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	reg := picker.NewRegistry(0)
	if err := builtin.Register(reg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	disp := picker.NewDispatcher(reg, cfg)

	if opts.List {
		for _, name := range reg.Names() {
			fmt.Println(name)
		}
		return 0
	}

	// Cancel dispatched producers on SIGINT/SIGTERM so subprocesses
	// are interrupted before we exit.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	call := picker.Call{Options: map[string]any{}}
	if opts.Cwd != "" {
		call.Options["cwd"] = opts.Cwd
	}
	if opts.Query != "" {
		call.Options["default_text"] = opts.Query
	}
	if opts.Mode != "" {
		call.Options["mode"] = opts.Mode
	}

	in, err := disp.Dispatch(ctx, pickerName, call)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to init terminal: %v\n", err)
		return 1
	}

	items, err := ui.NewView(screen, in).Run()
	screen.Fini()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	for _, it := range items {
		fmt.Println(it.Text)
	}
	if items == nil {
		return 1
	}
	return 0
}

// loadConfig builds the layered configuration context from the user
// TOML file and an optional Lua theme.
func loadConfig(opts options) (*config.Context, error) {
	cfg := config.NewContext()

	path := opts.ConfigPath
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".config", "quickpick", "config.toml")
		}
	}
	if path != "" {
		global, err := config.LoadTOML(path)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
		cfg.SetGlobal(global)
	}

	if opts.ThemePath != "" {
		theme, err := config.LoadLuaTheme(opts.ThemePath)
		if err != nil {
			return nil, fmt.Errorf("theme %s: %w", opts.ThemePath, err)
		}
		cfg.SetThemePresets(theme)
	}

	return cfg, nil
}

func parseFlags(args []string) (options, string) {
	var opts options
	var showVersion bool

	fs := flag.NewFlagSet("quickpick", flag.ExitOnError)
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.ThemePath, "theme", "", "Path to Lua theme file")
	fs.StringVar(&opts.Cwd, "cwd", "", "Search root (defaults to current directory)")
	fs.StringVar(&opts.Query, "query", "", "Initial query text")
	fs.StringVar(&opts.Query, "q", "", "Initial query text (shorthand)")
	fs.StringVar(&opts.Mode, "mode", "", "Matching mode (fuzzy, regex, exact)")
	fs.BoolVar(&opts.List, "list", false, "List available pickers and exit")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Quickpick - terminal fuzzy finder\n\n")
		fmt.Fprintf(os.Stderr, "Usage: quickpick [options] [picker] [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  quickpick                     Find files under the current directory\n")
		fmt.Fprintf(os.Stderr, "  quickpick live_grep -q TODO   Grep for TODO as you type\n")
		fmt.Fprintf(os.Stderr, "  quickpick git_log             Pick a commit\n")
		fmt.Fprintf(os.Stderr, "  quickpick -list               Show all pickers\n")
	}

	// flag stops at the first positional, so parse again past the
	// picker name to accept flags on either side of it.
	_ = fs.Parse(args)
	name := "find_files"
	if fs.NArg() > 0 {
		name = fs.Arg(0)
		_ = fs.Parse(fs.Args()[1:])
	}

	if showVersion {
		fmt.Printf("quickpick %s (%s)\n", version, commit)
		os.Exit(0)
	}

	return opts, name
}
