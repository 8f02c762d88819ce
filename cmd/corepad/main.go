// Package main is the entry point for the corepad editor core.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inkglass/corepad/internal/app"
	"github.com/inkglass/corepad/internal/plugin"
	"github.com/inkglass/corepad/internal/term/backend"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, pluginPaths := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	cfg := application.Config()
	if len(pluginPaths) == 0 {
		pluginPaths = plugin.PluginPathsFromConfig(&cfg.Paths)
	}
	manager := plugin.NewManager(plugin.ManagerConfig{
		PluginPaths:  pluginPaths,
		AutoActivate: true,
		HostOptions:  plugin.HostOptionsFromLimits(cfg.Plugins.MemoryLimitBytes, cfg.Plugins.ExecutionTimeoutMS),
	})
	application.AttachPlugins(manager)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := manager.LoadAll(ctx); err != nil {
		application.Logger().Warn("main: plugin load: %v", err)
	}
	cancel()

	terminal, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	defer terminal.Close()

	ed := newEditor(application, terminal)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		ed.quit()
	}()

	ctx, cancel = context.WithCancel(context.Background())
	go application.Run(ctx, 16*time.Millisecond)
	defer cancel()

	if err := ed.loop(); err != nil && !errors.Is(err, errQuit) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() (app.Options, []string) {
	var opts app.Options
	var pluginDir string
	var showVersion, showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&pluginDir, "plugins", "", "Directory to search for plugins")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "corepad - a modal terminal text editor core\n\n")
		fmt.Fprintf(os.Stderr, "Usage: corepad [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if showVersion {
		fmt.Printf("corepad %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	opts.Files = flag.Args()

	var pluginPaths []string
	if pluginDir != "" {
		pluginPaths = []string{pluginDir}
	}
	return opts, pluginPaths
}
