package main

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// setupEnvironment loads .env file and configures zerolog output and log level.
func setupEnvironment() {
	// Load .env file if it exists
	err := godotenv.Load()

	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	level, parseErr := zerolog.ParseLevel(levelStr)
	if parseErr != nil || level == zerolog.NoLevel {
		// Default based on environment
		if os.Getenv("ENV") == "production" {
			level = zerolog.WarnLevel
		} else {
			level = zerolog.InfoLevel
		}
	}
	zerolog.SetGlobalLevel(level)
	if parseErr != nil {
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to %s.", levelStr, level)
	}

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found or error loading .env file; proceeding with existing environment variables.")
	}
}
