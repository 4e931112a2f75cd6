// voxtyped is the dictation daemon. It watches global input for the
// configured activation gesture, records speech while active, sends the
// audio to a transcription server and types the result into the focused
// application via the clipboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"voxtyped/internal/app"
	"voxtyped/internal/config"
	"voxtyped/internal/logging"
)

const version = "1.0.0"

var (
	configPath  = flag.String("config", "", "path to config file (default: auto-detect)")
	logLevel    = flag.String("log-level", "", "override configured log level (debug, info, warn, error)")
	checkOnly   = flag.Bool("check", false, "validate configuration and exit")
	showVersion = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println("voxtyped " + version)
		return
	}

	path := *configPath
	if path == "" {
		path = config.FindConfigFile()
	}
	if path == "" {
		path = config.ConfigPath()
	}

	if _, created, err := config.LoadOrCreate(path); err != nil {
		fmt.Fprintf(os.Stderr, "voxtyped: %v\n", err)
		os.Exit(1)
	} else if created {
		fmt.Fprintf(os.Stderr, "voxtyped: wrote default config to %s\n", path)
	}

	loader := config.NewLoader(path)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "voxtyped: %v\n", err)
		os.Exit(1)
	}
	defer loader.Close()

	if *checkOnly {
		fmt.Printf("configuration OK: %s\n", path)
		return
	}

	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Fprintf(os.Stderr, "voxtyped: %v\n", err)
		os.Exit(1)
	}

	logger, err := buildLogger(cfg, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "voxtyped: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()
	logging.SetDefault(logger)

	a, err := app.New(loader, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("voxtyped starting", "version", version, "config", path, "mode", cfg.Hotkey.Mode)
	if err := a.Run(ctx); err != nil {
		logger.Error("daemon exited with error", "error", err)
		os.Exit(1)
	}
}

func buildLogger(cfg *config.Config, levelOverride string) (*logging.Logger, error) {
	logCfg := logging.DefaultConfig()
	logCfg.Output = cfg.Logging.Output
	logCfg.FilePath = cfg.Logging.FilePath
	logCfg.MaxSize = int64(cfg.Logging.MaxSizeMB)
	logCfg.MaxBackups = cfg.Logging.MaxBackups

	level := cfg.Logging.Level
	if levelOverride != "" {
		level = levelOverride
	}
	if level != "" {
		parsed, err := logging.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		logCfg.Level = parsed
	}
	if cfg.Logging.Format != "" {
		parsed, err := logging.ParseFormat(cfg.Logging.Format)
		if err != nil {
			return nil, err
		}
		logCfg.Format = parsed
	}
	return logging.New(logCfg)
}
