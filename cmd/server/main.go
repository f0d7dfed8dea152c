package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Missing .env is fine; real deployments inject environment directly.
	_ = godotenv.Load()

	configPath := flag.String("config", defaultConfigPath(), "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(*configPath, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	if path := os.Getenv("SPOTLIGHT_CONFIG"); path != "" {
		return path
	}
	return "config.toml"
}
