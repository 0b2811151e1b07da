// Command crawlengine runs the crawl job engine's HTTP API server.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("crawlengine exited with error")
		os.Exit(1)
	}
}
