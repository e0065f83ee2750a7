// Command predictd is the backend entry point for the prediction-market
// assistant. It loads configuration, validates it, wires dependencies, sets
// up signal handling, and starts the HTTP API server.
//
// The keyfile subcommand encrypts AI provider credentials into the key file
// format that the ai.encrypted_key_path config option consumes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/predictos/predictd/internal/app"
	"github.com/predictos/predictd/internal/config"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "keyfile" {
		if err := runKeyfile(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "keyfile: %v\n", err)
			os.Exit(1)
		}
		return
	}

	configPath := flag.String("config", "config.toml", "path to configuration file")
	flag.Parse()

	// Setup structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration.
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config",
			slog.String("path", *configPath),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// Set log level from config.
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Resolve provider credentials from the encrypted key file, if any.
	if err := config.ApplyKeyFile(cfg); err != nil {
		logger.Error("failed to load encrypted credentials", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("predictd starting",
		slog.String("config", *configPath),
	)

	// Create the application.
	application := app.New(cfg, logger)
	defer application.Close()

	// Setup signal handling for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run the application.
	if err := application.Run(ctx); err != nil {
		// context.Canceled is expected on clean shutdown.
		if err == context.Canceled {
			logger.Info("application shut down gracefully")
		} else {
			logger.Error("application exited with error",
				slog.String("error", err.Error()),
			)
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			os.Exit(1)
		}
	}

	logger.Info("predictd stopped")
}

// runKeyfile encrypts provider API keys into a key file.
// Usage: predictd keyfile -out keys.json -password pw [-grok-key k] [-openai-key k]
func runKeyfile(args []string) error {
	fs := flag.NewFlagSet("keyfile", flag.ExitOnError)
	out := fs.String("out", "keys.json", "output path for the encrypted key file")
	password := fs.String("password", "", "encryption password (or set PREDICTD_AI_KEY_PASSWORD)")
	grokKey := fs.String("grok-key", "", "Grok API key (or set XAI_API_KEY)")
	openaiKey := fs.String("openai-key", "", "OpenAI API key (or set OPENAI_API_KEY)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *password == "" {
		*password = os.Getenv("PREDICTD_AI_KEY_PASSWORD")
	}
	if *grokKey == "" {
		*grokKey = os.Getenv("XAI_API_KEY")
	}
	if *openaiKey == "" {
		*openaiKey = os.Getenv("OPENAI_API_KEY")
	}

	blob, err := config.EncryptCredentials(config.Credentials{
		GrokAPIKey:   *grokKey,
		OpenAIAPIKey: *openaiKey,
	}, *password)
	if err != nil {
		return err
	}

	if err := os.WriteFile(*out, blob, 0o600); err != nil {
		return err
	}

	fmt.Printf("wrote encrypted credentials to %s\n", *out)
	return nil
}
