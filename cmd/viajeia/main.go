package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/viajeia/viajeia/internal/cli"
)

func init() {
	initLogger()
}

// initLogger initializes the global logger with Unix timestamp format.
// Operational logging goes to stderr and stays out of the rendered views.
func initLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if os.Getenv("VIAJEIA_DEBUG") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

func main() {
	// A .env next to the binary may carry VIAJEIA_API_URL; absence is fine.
	_ = godotenv.Load()

	cli.Execute()
}
