// Command migrate applies database migrations up or down.
//
// Usage:
//
//	migrate up
//	migrate down [steps]
package main

import (
	"errors"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"

	"github.com/nexusprep/assessd/internal/config"
	"github.com/nexusprep/assessd/internal/logger"
)

func main() {
	cfg := config.Load()
	log.Logger = logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if len(os.Args) < 2 {
		log.Fatal().Msg("Usage: migrate <up|down> [steps]")
	}

	m, err := migrate.New("file://migrations", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize migrator")
	}
	defer m.Close()

	switch os.Args[1] {
	case "up":
		err = m.Up()
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			if n, convErr := strconv.Atoi(os.Args[2]); convErr == nil {
				steps = n
			}
		}
		err = m.Steps(-steps)
	default:
		log.Fatal().Str("command", os.Args[1]).Msg("Unknown command")
	}

	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Msg("No migrations to apply")
			return
		}
		log.Fatal().Err(err).Msg("Migration failed")
	}

	log.Info().Msg("Migrations applied")
}
