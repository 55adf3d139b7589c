// Package main is the entry point for the keyscope daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/dshills/keyscope/internal/app"
	"github.com/dshills/keyscope/internal/config"
	"github.com/dshills/keyscope/internal/ipc"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const sendTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	flags := parseFlags()

	if flags.check {
		return runCheck(flags.configPath)
	}
	if flags.send != "" {
		return runSend(flags.configPath, flags.send, flag.Args())
	}

	application, err := app.New(app.Options{
		ConfigPath: flags.configPath,
		Scope:      flags.scope,
		SourceType: flags.source,
		LogLevel:   flags.logLevel,
		IsTTY:      term.IsTerminal(int(os.Stdin.Fd())),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// SIGHUP reloads the configuration; SIGINT and SIGTERM shut down.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for sig := range signals {
			if sig == syscall.SIGHUP {
				_ = application.Reload()
				continue
			}
			cancel()
			return
		}
	}()

	if err := application.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// runCheck validates the configuration and reports the verdict.
func runCheck(configPath string) int {
	path := configPath
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := app.ValidateConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("%s: ok (%d bindings)\n", path, len(cfg.Bindings))
	return 0
}

// runSend talks to a running daemon over its control socket. Remaining
// arguments are key=value pairs forwarded as the request args.
func runSend(configPath, op string, kvArgs []string) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	socket := cfg.Daemon.Socket
	if socket == "" {
		socket = config.DefaultSocketPath()
	}

	args := make(map[string]any, len(kvArgs))
	for _, kv := range kvArgs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			fmt.Fprintf(os.Stderr, "Error: argument %q is not key=value\n", kv)
			return 1
		}
		args[k] = v
	}

	resp, err := ipc.Call(socket, op, args, sendTimeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println(resp.Raw)
	if !resp.OK {
		return 1
	}
	return 0
}

type cliFlags struct {
	configPath string
	scope      string
	source     string
	logLevel   string
	send       string
	check      bool
}

func parseFlags() cliFlags {
	var flags cliFlags
	var showVersion bool
	var showHelp bool

	flag.StringVar(&flags.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&flags.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&flags.scope, "scope", "", "Initial scope (overrides config)")
	flag.StringVar(&flags.source, "source", "", "Event source: terminal, evdev, replay, none (overrides config)")
	flag.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error, off (overrides config)")
	flag.StringVar(&flags.send, "send", "", "Send an op to a running daemon and print the response")
	flag.BoolVar(&flags.check, "check", false, "Validate the configuration and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "keyscope - scoped keyboard shortcut daemon\n\n")
		fmt.Fprintf(os.Stderr, "Usage: keyscope [options] [key=value...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  keyscope                              Run with the default config\n")
		fmt.Fprintf(os.Stderr, "  keyscope -source evdev                Read keys from /dev/input\n")
		fmt.Fprintf(os.Stderr, "  keyscope -check -c keyscope.toml      Validate a config file\n")
		fmt.Fprintf(os.Stderr, "  keyscope -send status                 Query a running daemon\n")
		fmt.Fprintf(os.Stderr, "  keyscope -send scope.set scope=editor Switch the active scope\n")
		fmt.Fprintf(os.Stderr, "  keyscope -send inject 'keys=ctrl+k d' Feed synthetic keys\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if showVersion {
		fmt.Printf("keyscope %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if flags.logLevel != "" {
		switch flags.logLevel {
		case "debug", "info", "warn", "error", "off":
		default:
			fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, error, or off)\n", flags.logLevel)
			os.Exit(1)
		}
	}

	return flags
}
