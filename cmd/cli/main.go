package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DeBrosOfficial/cable/pkg/cli"
	"github.com/DeBrosOfficial/cable/pkg/socket"
)

// version metadata populated via -ldflags at build time
var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	if len(os.Args) < 2 {
		showHelp()
		return
	}

	command := os.Args[1]
	opts, args, err := cli.ParseGlobalFlags(os.Args[2:])
	if err != nil {
		fail(err)
	}

	switch command {
	case "version":
		fmt.Printf("cable %s", version)
		if commit != "" {
			fmt.Printf(" (commit %s)", commit)
		}
		if date != "" {
			fmt.Printf(" built %s", date)
		}
		fmt.Println()
		return

	case "hosts":
		if len(args) == 0 {
			fmt.Fprintf(os.Stderr, "Usage: cable hosts <app-url>\n")
			os.Exit(1)
		}
		if err := cli.PrintHosts(os.Stdout, args[0]); err != nil {
			fail(err)
		}

	case "listen":
		if len(args) < 2 {
			fmt.Fprintf(os.Stderr, "Usage: cable listen <channel> <identity> [duration]\n")
			os.Exit(1)
		}
		duration := opts.Timeout
		if len(args) > 2 {
			if d, err := time.ParseDuration(args[2]); err == nil {
				duration = d
			}
		}
		session := openSession(opts)
		defer session.Close()

		ctx, cancel := signalContext(duration)
		defer cancel()

		fmt.Printf("🔔 Listening on %s for %v...\n", args[0], duration)
		if err := cli.Listen(ctx, os.Stdout, session.Registry, args[0], socket.Identity(args[1]), opts.Params); err != nil {
			fail(err)
		}

	case "send":
		if len(args) < 3 {
			fmt.Fprintf(os.Stderr, "Usage: cable send <channel> <identity> <action> [json]\n")
			os.Exit(1)
		}
		var raw string
		if len(args) > 3 {
			raw = args[3]
		}
		data, err := cli.ParseData(raw)
		if err != nil {
			fail(err)
		}
		session := openSession(opts)
		defer session.Close()

		ctx, cancel := signalContext(opts.Timeout)
		defer cancel()

		if err := cli.Send(ctx, os.Stdout, session.Registry, args[0], socket.Identity(args[1]), args[2], data, opts.Params); err != nil {
			fail(err)
		}

	case "help", "--help", "-h":
		showHelp()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		showHelp()
		os.Exit(1)
	}
}

func openSession(opts cli.GlobalOptions) *cli.Session {
	cfg, err := cli.LoadConfig(opts)
	if err != nil {
		fail(err)
	}
	session, err := cli.NewSession(cfg)
	if err != nil {
		fail(err)
	}
	return session
}

func signalContext(d time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, d)
	return ctx, func() {
		cancel()
		stop()
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, cli.RenderError(err))
	os.Exit(1)
}

func showHelp() {
	fmt.Printf("Cable CLI - subscribe to and talk with realtime channels\n\n")
	fmt.Printf("Usage: cable <command> [args...]\n\n")

	fmt.Printf("Commands:\n")
	fmt.Printf("  version                                   - Show version\n")
	fmt.Printf("  hosts <app-url>                           - Show the REST and socket hosts for an app URL\n")
	fmt.Printf("  listen <channel> <identity> [duration]    - Print every message the subscription receives\n")
	fmt.Printf("  send <channel> <identity> <action> [json] - Perform an action on the channel\n")
	fmt.Printf("  help                                      - Show this help\n\n")

	fmt.Printf("Global Flags:\n")
	fmt.Printf("  -c, --config <path>           - Config file (default: ~/.cable/cable.yaml)\n")
	fmt.Printf("  -t, --timeout <duration>      - Operation timeout (default: 30s)\n")
	fmt.Printf("  -p, --param <key=value>       - Extra subscription param, repeatable\n\n")

	fmt.Printf("Environment:\n")
	fmt.Printf("  CABLE_APP_URL, CABLE_SOCKET_URL, CABLE_LOG_LEVEL override the config file\n\n")

	fmt.Printf("Examples:\n")
	fmt.Printf("  cable hosts https://storm.example.com\n")
	fmt.Printf("  CABLE_APP_URL=http://localhost:3000 cable listen TeamChannel 1 2m\n")
	fmt.Printf("  cable send TeamChannel 1 rename '{\"name\":\"Calm\"}'\n")
}
