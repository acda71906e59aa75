package main

import (
	"flag"
	"os"

	"finledger/internal/config"
	"finledger/internal/db"
	"finledger/internal/logger"
	"finledger/internal/store"
)

func main() {
	down := flag.Int("down", 0, "roll back this many migrations instead of applying")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogPretty)
	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}
	database, err := db.Connect(cfg.DatabaseURL, 1)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	defer database.Close()

	if *down > 0 {
		if err := store.RollbackMigrations(database.DB, *down); err != nil {
			log.Error().Err(err).Int("steps", *down).Msg("rollback failed")
			os.Exit(1)
		}
		log.Info().Int("steps", *down).Msg("rolled back")
		return
	}

	names, err := store.MigrationNames()
	if err != nil {
		log.Error().Err(err).Msg("failed to read embedded migrations")
		os.Exit(1)
	}
	if err := store.RunMigrations(database.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		os.Exit(1)
	}
	log.Info().Strs("available", names).Msg("schema is current")
}
