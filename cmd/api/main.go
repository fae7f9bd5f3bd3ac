// Package main is the entry point for the storefront API server. It serves
// the catalog, token and password reset endpoints along with the compiled
// client application.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/storefront/internal/config"
	"github.com/yasinhessnawi1/storefront/internal/server"
	"github.com/yasinhessnawi1/storefront/internal/utils"
)

// Version information is set during build time through linker flags.
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

// init loads environment variables from a .env file if present.
func init() {
	// A missing .env is fine, configuration may come from the environment
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found or couldn't be loaded")
	}
}

// main loads configuration, sets up logging and runs the server until it is
// told to stop.
func main() {
	// Command-line flags for the configuration path and version display
	var (
		configPath  string
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "./configs/config.yaml", "Path to configuration file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Parse()

	// Print version information and exit if requested
	if showVersion {
		fmt.Printf("Storefront API Server\nVersion: %s\nCommit: %s\nBuild Date: %s\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Basic logger until the configuration says otherwise
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load configuration from file and environment variables
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// A release build reports its own version
	if version != "dev" {
		cfg.App.Version = version
	}

	// Reconfigure the logger with the loaded settings
	utils.InitLogger(cfg)

	log.Info().
		Str("version", cfg.App.Version).
		Str("environment", cfg.App.Environment).
		Msg("Starting storefront API server")

	utils.InitValidator()

	// Connect, migrate and wire the server
	srv, err := server.NewServer(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	// Blocks until SIGINT or SIGTERM
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
