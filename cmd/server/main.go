package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/GriffinCanCode/vshell/internal/infrastructure/config"
	"github.com/GriffinCanCode/vshell/internal/infrastructure/server"
)

func main() {
	envFile := flag.String("env", ".env", "Optional .env file loaded before reading the environment")
	port := flag.String("port", "", "Server port (overrides PORT)")
	host := flag.String("host", "", "Bind address (overrides HOST)")
	backend := flag.String("storage", "", "Snapshot store: memory, file, postgres or s3 (overrides VSH_STORAGE_BACKEND)")
	dataDir := flag.String("data", "", "Directory for the file store (overrides VSH_STORAGE_PATH)")
	seedDir := flag.String("seed", "", "Host directory imported into the initial home (overrides VSH_SEED_DIR)")
	dev := flag.Bool("dev", false, "Development mode: console logs at debug level")
	flag.Parse()

	if err := config.LoadDotEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "vshell: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "vshell: %v\n", err)
		os.Exit(1)
	}

	if *port != "" {
		cfg.Server.Port = *port
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *backend != "" {
		cfg.Storage.Backend = *backend
	}
	if *dataDir != "" {
		cfg.Storage.Path = *dataDir
	}
	if *seedDir != "" {
		cfg.Shell.SeedDir = *seedDir
	}
	if *dev {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "vshell: %v\n", err)
		os.Exit(1)
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vshell: failed to create server: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := srv.Run(ctx)
	if err := srv.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "vshell: error during shutdown: %v\n", err)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "vshell: server error: %v\n", runErr)
		os.Exit(1)
	}
}
