// voxctl is the control CLI for the voxtyped daemon.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"voxtyped/internal/config"
	"voxtyped/internal/ipc"
)

var (
	configPath = flag.String("config", "", "path to config file")
	socketPath = flag.String("socket", "", "daemon socket path (overrides config)")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	client, err := newClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "voxctl: %v\n", err)
		os.Exit(1)
	}

	switch cmd := flag.Arg(0); cmd {
	case "status":
		cmdStatus(client)
	case "toggle":
		cmdToggle(client)
	case "cancel":
		cmdCancel(client)
	case "reload":
		cmdReload(client)
	case "history":
		limit := 0
		if flag.NArg() >= 2 {
			n, err := strconv.Atoi(flag.Arg(1))
			if err != nil {
				fmt.Fprintln(os.Stderr, "Usage: voxctl history [count]")
				os.Exit(1)
			}
			limit = n
		}
		cmdHistory(client, limit)
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func newClient() (*ipc.Client, error) {
	sock := *socketPath
	if sock == "" {
		path := *configPath
		if path == "" {
			path = config.FindConfigFile()
		}
		cfg, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		sock = cfg.IPC.SocketPath
	}
	if sock == "" {
		return nil, fmt.Errorf("no socket path configured")
	}
	return ipc.NewClient(sock), nil
}

func cmdStatus(client *ipc.Client) {
	st, err := client.Status()
	if err != nil {
		fatal(err)
	}
	state := "idle"
	if st.Recording {
		state = "recording"
	}
	fmt.Printf("State:          %s\n", state)
	fmt.Printf("Mode:           %s\n", st.Mode)
	fmt.Printf("Input source:   %s\n", st.Source)
	fmt.Printf("Uptime:         %s\n", (time.Duration(st.UptimeSeconds) * time.Second).String())
	fmt.Printf("Transcriptions: %d\n", st.Transcriptions)
}

func cmdToggle(client *ipc.Client) {
	st, err := client.Toggle()
	if err != nil {
		fatal(err)
	}
	if st.Recording {
		fmt.Println("Recording started")
	} else {
		fmt.Println("Recording stopped")
	}
}

func cmdCancel(client *ipc.Client) {
	if err := client.Cancel(); err != nil {
		fatal(err)
	}
	fmt.Println("Recording canceled")
}

func cmdReload(client *ipc.Client) {
	if err := client.Reload(); err != nil {
		fatal(err)
	}
	fmt.Println("Configuration reloaded")
}

func cmdHistory(client *ipc.Client, limit int) {
	entries, err := client.History(limit)
	if err != nil {
		fatal(err)
	}
	if len(entries) == 0 {
		fmt.Println("No transcriptions yet")
		return
	}
	for _, e := range entries {
		when := time.Unix(0, e.CreatedNs).Format("2006-01-02 15:04:05")
		dur := time.Duration(e.DurationMs) * time.Millisecond
		fmt.Printf("#%d  %s  [%s, %s, %s]\n", e.ID, when, e.Mode, e.Model, dur)
		fmt.Printf("    %s\n", e.Text)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "voxctl: %v\n", err)
	os.Exit(1)
}

func usage() {
	fmt.Fprintln(os.Stderr, `voxctl - Control utility for the voxtyped daemon

Usage: voxctl [options] <command> [args]

Commands:
  status           Show daemon state and statistics
  toggle           Start or stop a dictation session
  cancel           Discard the in-progress recording
  reload           Re-read the daemon configuration
  history [count]  Print recent transcriptions
  help             Show this help message

Options:
  -config <path>   Path to config file (default: auto-detect)
  -socket <path>   Daemon socket path (overrides config)`)
}
