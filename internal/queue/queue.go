package queue

import (
	"anvil-optimiser/internal/models"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Priority constants for queue entries
const (
	PriorityAPI   = 100 // User-requested via API
	PriorityBatch = 10  // Bulk submissions
)

type QueueStatus string

const (
	StatusQueued     QueueStatus = "Queued"
	StatusProcessing QueueStatus = "Processing"
	StatusCompleted  QueueStatus = "Completed"
	StatusFailed     QueueStatus = "Failed"
)

// QueueEntry is a solve job waiting for, or handled by, the queue processor
type QueueEntry struct {
	QueueID      int                 `json:"queue_id"`
	RequestKey   string              `json:"request_key"`
	Request      models.SolveRequest `json:"request"`
	Priority     int                 `json:"priority"`
	Status       QueueStatus         `json:"status"`
	SolutionID   *int                `json:"solution_id,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	StartedAt    *time.Time          `json:"started_at,omitempty"`
	CompletedAt  *time.Time          `json:"completed_at,omitempty"`
	ErrorMessage *string             `json:"error_message,omitempty"`
}

const selectEntry = `
	SELECT
		queue_id,
		request_key,
		request,
		priority,
		status,
		solution_id,
		created_at,
		started_at,
		completed_at,
		error_message
	FROM solve_queue`

func scanEntry(row *sql.Row) (*QueueEntry, error) {
	var entry QueueEntry
	var request []byte
	var solutionID sql.NullInt64

	err := row.Scan(
		&entry.QueueID,
		&entry.RequestKey,
		&request,
		&entry.Priority,
		&entry.Status,
		&solutionID,
		&entry.CreatedAt,
		&entry.StartedAt,
		&entry.CompletedAt,
		&entry.ErrorMessage,
	)
	if err != nil {
		return nil, err
	}

	if solutionID.Valid {
		id := int(solutionID.Int64)
		entry.SolutionID = &id
	}

	err = json.Unmarshal(request, &entry.Request)
	if err != nil {
		return nil, fmt.Errorf("failed to decode request of queue entry %d: %w", entry.QueueID, err)
	}

	return &entry, nil
}

// CreateQueueEntry adds a new solve job to the queue
func CreateQueueEntry(db *sql.DB, requestKey string, request models.SolveRequest, priority int) (int, error) {
	serialisedRequest, err := json.Marshal(request)
	if err != nil {
		return -1, fmt.Errorf("failed to marshal solve request: %w", err)
	}

	query := `INSERT INTO solve_queue (
		request_key,
		request,
		priority,
		status
	) VALUES ($1, $2, $3, $4)
	RETURNING queue_id;`

	var queueID int
	err = db.QueryRow(query, requestKey, string(serialisedRequest), priority, StatusQueued).Scan(&queueID)
	if err != nil {
		return -1, fmt.Errorf("failed to create queue entry: %w", err)
	}

	log.Info().Msgf("Created queue entry %d with %d items and priority %d", queueID, len(request.Items), priority)
	return queueID, nil
}

// GetNextQueuedSolve fetches the next pending job from the queue (highest priority first)
func GetNextQueuedSolve(db *sql.DB) (*QueueEntry, error) {
	row := db.QueryRow(selectEntry+`
		WHERE status = $1
		ORDER BY priority DESC, created_at ASC, queue_id ASC
		LIMIT 1
		FOR UPDATE SKIP LOCKED;`, StatusQueued)

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil // No jobs available
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch next queued solve: %w", err)
	}

	return entry, nil
}

// GetQueueEntry returns nil, nil when there is no entry with the id
func GetQueueEntry(db *sql.DB, queueID int) (*QueueEntry, error) {
	entry, err := scanEntry(db.QueryRow(selectEntry+" WHERE queue_id = $1;", queueID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch queue entry %d: %w", queueID, err)
	}

	return entry, nil
}

func SetQueueProcessing(db *sql.DB, queueID int) error {
	query := `
		UPDATE solve_queue
		SET status = $1, started_at = $2
		WHERE queue_id = $3;`

	_, err := db.Exec(query, StatusProcessing, time.Now(), queueID)
	if err != nil {
		return fmt.Errorf("failed to set queue entry %d as processing: %w", queueID, err)
	}

	log.Debug().Msgf("Queue entry %d marked as processing", queueID)
	return nil
}

// SetQueueCompleted marks a queue entry as completed and links the stored solution
func SetQueueCompleted(db *sql.DB, queueID int, solutionID int) error {
	query := `
		UPDATE solve_queue
		SET status = $1, completed_at = $2, solution_id = $3
		WHERE queue_id = $4;`

	_, err := db.Exec(query, StatusCompleted, time.Now(), solutionID, queueID)
	if err != nil {
		return fmt.Errorf("failed to set queue entry %d as completed: %w", queueID, err)
	}

	log.Info().Msgf("Queue entry %d marked as completed", queueID)
	return nil
}

func SetQueueFailed(db *sql.DB, queueID int, errorMsg string) error {
	query := `
		UPDATE solve_queue
		SET status = $1, completed_at = $2, error_message = $3
		WHERE queue_id = $4;`

	_, err := db.Exec(query, StatusFailed, time.Now(), errorMsg, queueID)
	if err != nil {
		return fmt.Errorf("failed to set queue entry %d as failed: %w", queueID, err)
	}

	log.Error().Msgf("Queue entry %d marked as failed: %s", queueID, errorMsg)
	return nil
}

// CheckQueueStatus returns the latest queued or processing entry for the request key
func CheckQueueStatus(db *sql.DB, requestKey string) (*QueueEntry, error) {
	row := db.QueryRow(selectEntry+`
		WHERE request_key = $1 AND status IN ($2, $3)
		ORDER BY created_at DESC
		LIMIT 1;`, requestKey, StatusQueued, StatusProcessing)

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil // Not queued
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check queue status: %w", err)
	}

	return entry, nil
}
