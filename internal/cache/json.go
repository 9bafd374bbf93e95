package cache

import (
	"anvil-optimiser/internal/helpers"
	"anvil-optimiser/internal/solver"
	"encoding/json"
	"os"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

// JSONFileCache is a SolutionStore backed by a single JSON object on disk. Every call reads
// the whole file, which is fine for the CLI's handful of cached requests.
type JSONFileCache struct {
	filePath string
	mu       sync.Mutex
}

func NewJSONFileCache(filePath string) (*JSONFileCache, error) {
	err := helpers.CreateDirAndFileIfNoExist(filePath)
	if err != nil {
		return nil, err
	}

	cache := &JSONFileCache{
		filePath: filePath,
	}

	return cache, nil
}

func (c *JSONFileCache) Store(key string, solution *solver.Solution) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	file, err := c.loadFullFile()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(solution)
	if err != nil {
		log.Error().Err(err).Msg("Error marshalling solution")
		return err
	}
	file[key] = raw

	return c.saveToFile(file)
}

func (c *JSONFileCache) Get(key string) (*solver.Solution, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	file, err := c.loadFullFile()
	if err != nil {
		return nil, err
	}
	if _, ok := file[key]; !ok {
		return nil, nil
	}

	solution := &solver.Solution{}
	err = helpers.ExtractKeyFromMap(key, file, solution)
	if err != nil {
		return nil, err
	}

	return solution, nil
}

func (c *JSONFileCache) Keys() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	file, err := c.loadFullFile()
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(file))
	for k := range file {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys, nil
}

func (c *JSONFileCache) Purge() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.saveToFile(map[string]json.RawMessage{})
}

func (c *JSONFileCache) saveToFile(file map[string]json.RawMessage) error {
	jsonData, err := json.Marshal(file)
	if err != nil {
		log.Error().Err(err).Msg("Error marshalling cache data")
		return err
	}

	err = os.WriteFile(c.filePath, jsonData, 0644)
	if err != nil {
		log.Error().Err(err).Msg("Error writing cache data to file")
		return err
	}

	return nil
}

func (c *JSONFileCache) loadFullFile() (map[string]json.RawMessage, error) {
	fileData, err := os.ReadFile(c.filePath)
	if err != nil {
		log.Error().Err(err).Msg("Error reading cache data from file")
		return nil, err
	}

	file := make(map[string]json.RawMessage)
	if err := json.Unmarshal(fileData, &file); err != nil {
		return nil, err
	}

	return file, nil
}
