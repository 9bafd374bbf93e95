package env

import (
	"anvil-optimiser/internal/helpers"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Env struct {
	PgHost     string
	PgPort     string
	PgUser     string
	PgPassword string `json:"-"`
	PgName     string

	ApiPort             string
	QueuePoolSizeFactor int
	SolveTimeout        time.Duration
	ResponseCacheTTL    time.Duration
	RulesDir            string
	SolutionCacheFile   string
}

// HasDatabase reports whether enough Postgres settings are present to connect.
func (e Env) HasDatabase() bool {
	return e.PgHost != "" && e.PgName != ""
}

// Get loads the .env file at the project root, when there is one, and reads the environment.
func Get() (Env, error) {
	projectRoot, err := helpers.GetProjectRoot()
	if err == nil {
		envFilePath := filepath.Join(projectRoot, ".env")
		err = godotenv.Load(envFilePath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Env{}, err
		}
	}

	return FromEnvironment()
}

// FromEnvironment reads the configuration from the process environment only.
func FromEnvironment() (Env, error) {
	poolSizeFactor, err := intOrDefault("QUEUE_POOL_SIZE_FACTOR", 1)
	if err != nil {
		return Env{}, err
	}
	solveTimeout, err := intOrDefault("SOLVE_TIMEOUT_SECONDS", 30)
	if err != nil {
		return Env{}, err
	}
	cacheTTL, err := intOrDefault("RESPONSE_CACHE_TTL_SECONDS", 300)
	if err != nil {
		return Env{}, err
	}

	env := Env{
		PgHost:              os.Getenv("POSTGRES_HOST"),
		PgPort:              stringOrDefault("POSTGRES_PORT", "5432"),
		PgUser:              os.Getenv("POSTGRES_USER"),
		PgPassword:          os.Getenv("POSTGRES_PASSWORD"),
		PgName:              os.Getenv("POSTGRES_DB"),
		ApiPort:             stringOrDefault("API_PORT", "8080"),
		QueuePoolSizeFactor: poolSizeFactor,
		SolveTimeout:        time.Duration(solveTimeout) * time.Second,
		ResponseCacheTTL:    time.Duration(cacheTTL) * time.Second,
		RulesDir:            os.Getenv("RULES_DIR"),
		SolutionCacheFile:   stringOrDefault("SOLUTION_CACHE_FILE", filepath.Join(".cache", "solutions.json")),
	}

	log.Debug().Interface("env", env).Msg("Environment variables")

	return env, nil
}

func stringOrDefault(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func intOrDefault(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if parsed < 1 {
		return 0, fmt.Errorf("invalid %s %q: must be at least 1", key, value)
	}

	return parsed, nil
}
