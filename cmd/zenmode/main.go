// Package main is the entry point for the zenmode demo host.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dshills/zenmode/internal/app"
	"github.com/dshills/zenmode/internal/editor"
	"github.com/dshills/zenmode/internal/host"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	term, err := host.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	defer term.Close()

	opts.Redraw = term.Redraw
	application, err := app.New(term, opts)
	if err != nil {
		term.Close()
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	term.Attach(application)

	// Handle signals for graceful shutdown. The exiting event is posted
	// onto the event loop; hooks never fire off it.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		term.Post(func() {
			application.Hooks().Fire(editor.EventExiting)
			term.Quit()
		})
	}()

	term.Run()
	return 0
}

// parseFlags builds application options from the command line.
func parseFlags() app.Options {
	var (
		optionsFile = flag.String("options", "", "TOML file with zen target overrides")
		stateFile   = flag.String("state", defaultStateFile(), "file persisting the focus-mode flag")
		hooksFile   = flag.String("hooks", "", "Lua file with on_enable/on_disable hooks")
		logLevel    = flag.String("log-level", "info", "log level: debug, info, warn, error")
		restore     = flag.Bool("restore", true, "restore focus mode from the previous session")
		watch       = flag.Bool("watch", true, "reload the options file on change")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("zenmode %s (%s)\n", version, commit)
		os.Exit(0)
	}

	logFile, err := os.OpenFile(filepath.Join(os.TempDir(), "zenmode.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	logger := app.NewLogger(app.LoggerConfig{
		Level:  app.ParseLogLevel(*logLevel),
		Output: logFile,
		Prefix: "zenmode",
	})
	if err != nil {
		// The screen owns stderr once tcell starts; without a log
		// file, drop log output instead of corrupting the display.
		logger = app.NullLogger
	}

	return app.Options{
		OptionsFile:     *optionsFile,
		StateFile:       *stateFile,
		HooksFile:       *hooksFile,
		RestorePrevious: *restore,
		WatchOptions:    *watch,
		Logger:          logger,
	}
}

// defaultStateFile returns the per-user flag file location.
func defaultStateFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "zen_active"
	}
	return filepath.Join(dir, "zenmode", "zen_active")
}
