package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"

	"vista/internal/client"
	"vista/internal/config"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config failed")
	}

	serverURL := flag.String("server", cfg.Client.BaseURL, "backend base URL")
	flag.Parse()
	cfg.Client.BaseURL = *serverURL

	client.Run(cfg.Client)
}
