package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Nomadcxx/mediasort/internal/config"
	"github.com/Nomadcxx/mediasort/internal/daemon"
)

const version = "0.1.0-dev"

var (
	logFile *os.File
	logger  *log.Logger
)

func main() {
	// Setup logging
	if err := setupLogging(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logging: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logger.Printf("mediasortd v%s starting...", version)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.ValidateDaemon(); err != nil {
		logger.Fatalf("Configuration validation failed: %v", err)
	}

	logger.Printf("Configuration loaded successfully")
	logger.Printf("Inbox paths: %d", len(cfg.Daemon.InboxPaths))
	logger.Printf("Rescan interval: %s", cfg.Daemon.RescanInterval)

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for {
		d, err := daemon.New(cfg, logger)
		if err != nil {
			logger.Fatalf("Failed to initialize daemon: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- d.Run(ctx)
		}()

		select {
		case sig := <-sigChan:
			cancel()
			<-done

			if sig != syscall.SIGHUP {
				logger.Printf("Received shutdown signal (%s), exiting gracefully...", sig)
				return
			}

			// Reload configuration and restart the watcher
			logger.Printf("Received SIGHUP, reloading configuration...")
			newCfg, err := config.Load()
			if err != nil {
				logger.Printf("Failed to reload config: %v", err)
				continue
			}
			if err := newCfg.ValidateDaemon(); err != nil {
				logger.Printf("New configuration invalid: %v", err)
				continue
			}
			cfg = newCfg
			logger.Printf("Configuration reloaded")

		case err := <-done:
			cancel()
			if err != nil && err != context.Canceled {
				logger.Fatalf("Daemon stopped: %v", err)
			}
			return
		}
	}
}

func setupLogging() error {
	// Create log directory
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	logDir := filepath.Join(home, ".local/share/mediasort")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	// Open log file
	logPath := filepath.Join(logDir, "daemon.log")
	logFile, err = os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}

	// Create logger
	logger = log.New(logFile, "", log.LstdFlags)

	return nil
}
