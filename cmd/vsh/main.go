package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/GriffinCanCode/vshell/internal/cli"
	"github.com/GriffinCanCode/vshell/internal/infrastructure/config"
	"github.com/GriffinCanCode/vshell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/vshell/internal/infrastructure/server"
)

func main() {
	remote := flag.String("remote", "", "URL of a vshell server; runs in-process when empty")
	user := flag.String("user", "", "Session user (overrides VSH_USER)")
	envFile := flag.String("env", ".env", "Optional .env file loaded before reading the environment")
	backend := flag.String("storage", "file", "Snapshot store for in-process mode: memory, file, postgres or s3")
	dataDir := flag.String("data", "", "Directory for the file store (overrides VSH_STORAGE_PATH)")
	codec := flag.String("codec", "", "Snapshot codec: json, yaml or toml (overrides VSH_SNAPSHOT_CODEC)")
	verbose := flag.Bool("v", false, "Log to stderr at debug level")
	flag.Parse()

	if err := run(*remote, *user, *envFile, *backend, *dataDir, *codec, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "vsh: %v\n", err)
		os.Exit(1)
	}
}

func run(remote, user, envFile, backend, dataDir, codec string, verbose bool) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if user != "" {
		cfg.Shell.User = user
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var client cli.Client
	if remote != "" {
		client = cli.NewRemoteClient(remote)
	} else {
		cfg.Storage.Backend = backend
		if dataDir != "" {
			cfg.Storage.Path = dataDir
		}
		if codec != "" {
			cfg.Storage.Codec = codec
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logCfg := logging.Config{Level: "warn", OutputPaths: []string{"stderr"}}
		if verbose {
			logCfg.Level = "debug"
			logCfg.Development = true
		}
		logger, err := logging.New(logCfg)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logger.Sync()

		stack, err := server.Build(ctx, cfg, logger, nil)
		if err != nil {
			return err
		}
		client = cli.NewLocalClient(stack)
	}

	return cli.NewREPL(client, os.Stdin, os.Stdout).Run(ctx, cfg.Shell.User)
}
