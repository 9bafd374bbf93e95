package main

import (
	"anvil-optimiser/internal/cli"
	"anvil-optimiser/internal/db"
	"anvil-optimiser/internal/env"
	"anvil-optimiser/internal/models"
	"anvil-optimiser/internal/queue"
	"anvil-optimiser/internal/rules"
	"anvil-optimiser/internal/solver"
	"context"
	"database/sql"
	"runtime"
	"sync"
	"time"

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

	dbClient, err := db.CreateAnvilDBClient(environment)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to db")
	}

	workerCount := runtime.NumCPU() * environment.QueuePoolSizeFactor
	log.Info().Msgf("Starting queue processor with %d workers", workerCount)

	processQueue(dbClient.Conn, table, workerCount, environment.SolveTimeout)
}

type QueueJob struct {
	Entry *queue.QueueEntry
}

// processQueue continuously polls for and processes queued solves
func processQueue(db *sql.DB, table solver.RuleTable, workerCount int, timeout time.Duration) {
	inputChan := make(chan QueueJob, workerCount*2)
	wg := sync.WaitGroup{}

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go worker(db, table, timeout, inputChan, &wg)
	}

	log.Info().Msg("Queue processor started, polling for jobs...")
	pollInterval := 2 * time.Second

	for {
		entry, err := queue.GetNextQueuedSolve(db)
		if err != nil {
			log.Error().Err(err).Msg("Failed to fetch next queued solve")
			time.Sleep(pollInterval)
			continue
		}

		if entry == nil {
			log.Debug().Msg("No jobs in queue, waiting...")
			time.Sleep(pollInterval)
			continue
		}

		// claim before handing over so the next poll does not return the same entry
		err = queue.SetQueueProcessing(db, entry.QueueID)
		if err != nil {
			log.Error().Err(err).Msgf("Failed to mark queue entry %d as processing", entry.QueueID)
			time.Sleep(pollInterval)
			continue
		}

		log.Info().Msgf("Found queued job %d with %d items", entry.QueueID, len(entry.Request.Items))
		inputChan <- QueueJob{Entry: entry}
	}
}

func worker(db *sql.DB, table solver.RuleTable, timeout time.Duration, inputChan chan QueueJob, wg *sync.WaitGroup) {
	defer wg.Done()

	for job := range inputChan {
		processEntry(db, table, timeout, job.Entry)
	}
}

func processEntry(db *sql.DB, table solver.RuleTable, timeout time.Duration, entry *queue.QueueEntry) {
	log.Info().Msgf("Processing queue entry %d", entry.QueueID)

	existing, err := models.GetSolutionByKey(db, entry.RequestKey)
	if err != nil {
		log.Error().Err(err).Msgf("Failed to check for existing solution for queue entry %d", entry.QueueID)
		_ = queue.SetQueueFailed(db, entry.QueueID, err.Error())
		return
	}

	if existing != nil {
		log.Info().Msgf("Solution already exists for queue entry %d, marking as completed", entry.QueueID)
		err = queue.SetQueueCompleted(db, entry.QueueID, existing.SolutionID)
		if err != nil {
			log.Error().Err(err).Msgf("Failed to mark queue entry %d as completed", entry.QueueID)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	request := entry.Request
	solution, err := solver.Solve(ctx, request.Items, request.Settings, table, nil)
	if err != nil {
		log.Error().Err(err).Msgf("Failed to solve queue entry %d", entry.QueueID)
		_ = queue.SetQueueFailed(db, entry.QueueID, err.Error())
		return
	}

	solutionID, err := models.UpsertSolution(db, entry.RequestKey, request, solution.Result)
	if err != nil {
		log.Error().Err(err).Msgf("Failed to save solution for queue entry %d", entry.QueueID)
		_ = queue.SetQueueFailed(db, entry.QueueID, err.Error())
		return
	}

	err = queue.SetQueueCompleted(db, entry.QueueID, solutionID)
	if err != nil {
		log.Error().Err(err).Msgf("Failed to mark queue entry %d as completed", entry.QueueID)
		return
	}

	log.Info().Msgf("Queue entry %d completed successfully (%d states expanded)", entry.QueueID, solution.Stats.StatesExpanded)
}
