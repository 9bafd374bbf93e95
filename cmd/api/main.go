package main

import (
	"anvil-optimiser/internal/cache"
	"anvil-optimiser/internal/cli"
	"anvil-optimiser/internal/db"
	"anvil-optimiser/internal/env"
	"anvil-optimiser/internal/router"
	"anvil-optimiser/internal/rules"
	"database/sql"

	"github.com/rs/zerolog/log"
)

func main() {
	flags := cli.GetFlags()
	cli.SetLogLevel(flags.LogLevel)

	environment, err := env.Get()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get environment variables")
	}

	table, err := rules.Load(environment.RulesDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load rule tables")
	}

	var conn *sql.DB
	if environment.HasDatabase() {
		dbClient, err := db.CreateAnvilDBClient(environment)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to db")
		}
		defer dbClient.Close()
		conn = dbClient.Conn
	} else {
		log.Warn().Msg("No database configured, solutions will not be persisted")
	}

	cfg := router.Config{
		DB:           conn,
		Table:        table,
		Responses:    cache.NewMemoryStore(environment.ResponseCacheTTL),
		SolveTimeout: environment.SolveTimeout,
	}
	r := router.NewRouter(cfg)

	err = r.Start(":" + environment.ApiPort)
	if err != nil {
		log.Error().Err(err).Msg("API stopped")
	}
}
