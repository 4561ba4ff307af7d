package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/Vigilant-co/nimble-trace-core/modules/platform/api"
	"github.com/Vigilant-co/nimble-trace-core/modules/platform/config"
	"github.com/Vigilant-co/nimble-trace-core/modules/platform/logger"
	"github.com/Vigilant-co/nimble-trace-core/modules/platform/realtime"
	"github.com/Vigilant-co/nimble-trace-core/modules/platform/scheduler"
	"github.com/Vigilant-co/nimble-trace-core/modules/ui/core"
	"github.com/Vigilant-co/nimble-trace-core/modules/ui/tui"
)

const (
	Version = "0.1.0"
)

func main() {
	// Parse global flags
	args := os.Args[1:]
	configPath := ""
	verbose := false

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--config" || arg == "-c":
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			}
		case strings.HasPrefix(arg, "--config="):
			configPath = strings.TrimPrefix(arg, "--config=")
		case arg == "--verbose" || arg == "-v":
			verbose = true
		case arg == "--version" || arg == "-V":
			printVersion()
			return
		case arg == "--help" || arg == "-h":
			printHelp()
			return
		default:
			fmt.Fprintf(os.Stderr, "Unknown argument: %s\n", arg)
			fmt.Fprintf(os.Stderr, "Run 'nimbletrace --help' for usage.\n")
			os.Exit(1)
		}
	}

	if configPath == "" {
		configPath = config.DefaultConfigFileName
	}

	cfg, err := config.NewLoader(configPath).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	settings := cfg.Settings

	logLevel := settings.LogLevel
	if verbose {
		logLevel = "debug"
	}
	if err := logger.Init(defaultLogPath(), logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	if err := run(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(settings *config.Settings) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	clock := scheduler.Real()
	view := tui.NewTUIView()

	client := api.NewClient(settings.APIBaseURL, settings.RequestTimeout, sinkBridge{view})

	state := core.NewViewState(settings.PageSize)
	controller := core.NewController(state, client, view, nil, clock, core.Options{
		SearchDebounce:  settings.SearchDebounce,
		RefreshInterval: settings.RefreshInterval,
	})
	view.Initialize(controller)

	channel := realtime.NewChannel(settings.RealtimeURL, settings.ReconnectDelay, clock,
		controller.Dispatch, sinkBridge{view})
	channel.OnStateChange(func(s realtime.State) {
		controller.SetConnected(s == realtime.StateConnected)
	})

	// Initial load happens off the UI loop so a slow backend does not
	// delay the first paint.
	go controller.Start(ctx)
	channel.Run(ctx)

	err := view.Run(ctx)

	channel.Stop()
	controller.Dispose()
	return err
}

// sinkBridge adapts the view's typed notification levels to the
// string levels used by the platform packages.
type sinkBridge struct {
	view *tui.TUIView
}

func (s sinkBridge) Notify(message, level string) {
	s.view.Notify(message, core.NotifyLevel(level))
}

func defaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "nimbletrace.log"
	}
	return filepath.Join(home, ".nimbletrace", "nimbletrace.log")
}

func printVersion() {
	fmt.Printf("nimbletrace version %s\n", Version)
}

func printHelp() {
	fmt.Println("nimbletrace - Live price tracking dashboard")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  nimbletrace [flags]")
	fmt.Println()
	fmt.Println("Global Flags:")
	fmt.Println("  -c, --config <path>    Path to config file")
	fmt.Println("  -v, --verbose          Verbose (debug) logging")
	fmt.Println("  -V, --version          Print version")
	fmt.Println("  -h, --help             Print help")
}
