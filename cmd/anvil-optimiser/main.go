package main

import (
	"anvil-optimiser/internal/cache"
	"anvil-optimiser/internal/cli"
	"anvil-optimiser/internal/db"
	"anvil-optimiser/internal/env"
	"anvil-optimiser/internal/helpers"
	"anvil-optimiser/internal/queue"
	"anvil-optimiser/internal/rules"
	"anvil-optimiser/internal/solver"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	flags := cli.GetFlags()
	cli.SetLogLevel(flags.LogLevel)

	environment, err := env.Get()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get environment variables")
	}

	var store cache.SolutionStore
	if flags.UseCache || flags.PurgeCache {
		store, err = cache.NewJSONFileCache(cacheFilePath(environment.SolutionCacheFile))
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open solution cache")
		}
	}

	if flags.PurgeCache {
		log.Info().Msg("Purging solution cache.")
		if err := store.Purge(); err != nil {
			log.Fatal().Err(err).Msg("Failed to purge solution cache")
		}
	}

	if flags.Input == "" {
		if flags.PurgeCache {
			return
		}
		log.Fatal().Msg("Usage: anvil-optimiser --input=request.yaml [--use-cache] [--purge-cache] [--async] [--log-level=debug]")
	}

	table, err := rules.Load(environment.RulesDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load rule tables")
	}

	request, err := readRequest(flags.Input)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read request")
	}

	err = table.Validate(request)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid request")
	}

	key := solver.RequestKey(request)

	if flags.Async {
		dbClient, err := db.CreateAnvilDBClient(environment)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to db")
		}
		defer dbClient.Close()

		queueID, err := queue.CreateQueueEntry(dbClient.Conn, key, request, queue.PriorityBatch)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to queue request")
		}
		fmt.Printf("queued as %d\n", queueID)
		return
	}

	var solution *solver.Solution
	if flags.UseCache {
		solution, err = store.Get(key)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to read solution cache")
		}
		if solution != nil {
			log.Info().Msg("Using cached solution")
		}
	}

	if solution == nil {
		ctx, cancel := context.WithTimeout(context.Background(), environment.SolveTimeout)
		solution, err = solver.Solve(ctx, request.Items, request.Settings, table, nil)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to solve")
		}

		log.Info().Interface("stats", solution.Stats).Msg("Solve finished")

		if flags.UseCache {
			if err := store.Store(key, solution); err != nil {
				log.Warn().Err(err).Msg("Failed to store solution in cache")
			}
		}
	}

	if solution.Result == nil {
		fmt.Println("no merge order combines all items")
		os.Exit(1)
	}

	writePlan(os.Stdout, solution.Result)

	out, err := json.MarshalIndent(solution.Result, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal result")
	}
	fmt.Println(string(out))
}

func cacheFilePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	root, err := helpers.GetProjectRoot()
	if err != nil {
		return path
	}
	return filepath.Join(root, path)
}
