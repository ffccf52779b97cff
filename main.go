package main

import (
	"pricing_services/internal/api"
	"pricing_services/internal/config"

	"github.com/rs/zerolog/log"
)

func main() {
	setupEnvironment()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().
		Str("spreadsheet_id", cfg.SpreadsheetID).
		Int("worksheet_index", cfg.WorksheetIndex).
		Str("addr", cfg.ListenAddr).
		Msg("Starting pricing & services backend")

	server := api.NewServer(cfg)
	if err := server.App().Listen(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
