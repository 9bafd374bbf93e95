package solve_router

import (
	"anvil-optimiser/internal/cache"
	"anvil-optimiser/internal/models"
	"anvil-optimiser/internal/queue"
	"anvil-optimiser/internal/rules"
	"anvil-optimiser/internal/solver"
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const defaultSolveTimeout = 30 * time.Second

type Handler struct {
	DB           *sql.DB
	Table        solver.RuleTable
	Responses    cache.SolutionStore
	SolveTimeout time.Duration
}

type SolveResponse struct {
	SolutionID *int                 `json:"solution_id,omitempty"`
	Cached     bool                 `json:"cached"`
	Result     *models.SearchResult `json:"result"`
	Stats      solver.Stats         `json:"stats"`
}

type QueuedResponse struct {
	QueueID int               `json:"queue_id"`
	Status  queue.QueueStatus `json:"status"`
}

type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func errorResponse(c echo.Context, status int, code string, err error) error {
	res := ErrorResponse{Error: code, Message: err.Error()}

	var cfgErr *rules.ConfigurationError
	if errors.As(err, &cfgErr) {
		res.Field = cfgErr.Field
		res.Suggestion = cfgErr.Suggestion
	}

	return c.JSON(status, res)
}

func (h Handler) timeout() time.Duration {
	if h.SolveTimeout <= 0 {
		return defaultSolveTimeout
	}
	return h.SolveTimeout
}

func (h Handler) respond(c echo.Context, res SolveResponse) error {
	if res.Result == nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "no_solution",
			Message: "no merge order combines all items within the settings",
		})
	}
	return c.JSON(http.StatusOK, res)
}

// lookup checks the response cache, then the solutions table.
func (h Handler) lookup(key string) (*SolveResponse, error) {
	if h.Responses != nil {
		solution, err := h.Responses.Get(key)
		if err != nil {
			return nil, err
		}
		if solution != nil {
			return &SolveResponse{Cached: true, Result: solution.Result, Stats: solution.Stats}, nil
		}
	}

	if h.DB == nil {
		return nil, nil
	}

	stored, err := models.GetSolutionByKey(h.DB, key)
	if err != nil || stored == nil {
		return nil, err
	}

	if h.Responses != nil {
		_ = h.Responses.Store(key, &solver.Solution{Result: stored.Result})
	}

	id := stored.SolutionID
	return &SolveResponse{SolutionID: &id, Cached: true, Result: stored.Result}, nil
}

func (h Handler) enqueue(c echo.Context, key string, request models.SolveRequest) error {
	if h.DB == nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "queue_unavailable",
			Message: "asynchronous solves need a database",
		})
	}

	existing, err := queue.CheckQueueStatus(h.DB, key)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, "queue_error", err)
	}
	if existing != nil {
		return c.JSON(http.StatusAccepted, QueuedResponse{QueueID: existing.QueueID, Status: existing.Status})
	}

	queueID, err := queue.CreateQueueEntry(h.DB, key, request, queue.PriorityAPI)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, "queue_error", err)
	}

	return c.JSON(http.StatusAccepted, QueuedResponse{QueueID: queueID, Status: queue.StatusQueued})
}

func (h Handler) solve(c echo.Context) error {
	var request models.SolveRequest
	if err := c.Bind(&request); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid_request", err)
	}
	request.Settings = request.Settings.WithDefaults()

	if err := h.Table.Validate(request); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid_request", err)
	}

	key := solver.RequestKey(request)

	if c.QueryParam("async") == "true" {
		return h.enqueue(c, key, request)
	}

	cached, err := h.lookup(key)
	if err != nil {
		log.Error().Err(err).Msg("Failed to look up stored solution")
		return errorResponse(c, http.StatusInternalServerError, "storage_error", err)
	}
	if cached != nil {
		return h.respond(c, *cached)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout())
	defer cancel()

	solution, err := solver.Solve(ctx, request.Items, request.Settings, h.Table, nil)
	if err != nil {
		var cfgErr *rules.ConfigurationError
		switch {
		case errors.As(err, &cfgErr):
			return errorResponse(c, http.StatusBadRequest, "invalid_request", err)
		case errors.Is(err, context.DeadlineExceeded):
			return errorResponse(c, http.StatusGatewayTimeout, "solve_timeout", err)
		default:
			log.Error().Err(err).Msgf("Failed to solve %d items", len(request.Items))
			return errorResponse(c, http.StatusInternalServerError, "solve_failed", err)
		}
	}

	res := SolveResponse{Result: solution.Result, Stats: solution.Stats}

	if h.Responses != nil {
		if err := h.Responses.Store(key, solution); err != nil {
			log.Warn().Err(err).Msg("Failed to cache solution")
		}
	}
	if h.DB != nil {
		id, err := models.UpsertSolution(h.DB, key, request, solution.Result)
		if err != nil {
			log.Error().Err(err).Msg("Failed to store solution")
		} else {
			res.SolutionID = &id
		}
	}

	return h.respond(c, res)
}

func (h Handler) requireDB(c echo.Context) (int, bool, error) {
	if h.DB == nil {
		return 0, false, c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "storage_unavailable",
			Message: "stored solutions need a database",
		})
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "id must be a positive integer"})
	}

	return id, true, nil
}

func Bind(e *echo.Group, h Handler) *echo.Group {
	e.POST("/solve", h.solve)

	e.GET("/solutions/:id", func(c echo.Context) error {
		id, ok, err := h.requireDB(c)
		if !ok {
			return err
		}

		stored, err := models.GetSolutionByID(h.DB, id)
		if err != nil {
			log.Error().Err(err).Msgf("Failed to get solution %d", id)
			return c.String(http.StatusInternalServerError, err.Error())
		}
		if stored == nil {
			return c.String(http.StatusNotFound, "Solution not found")
		}

		return c.JSON(http.StatusOK, stored)
	})

	e.GET("/queue/:id", func(c echo.Context) error {
		id, ok, err := h.requireDB(c)
		if !ok {
			return err
		}

		entry, err := queue.GetQueueEntry(h.DB, id)
		if err != nil {
			log.Error().Err(err).Msgf("Failed to get queue entry %d", id)
			return c.String(http.StatusInternalServerError, err.Error())
		}
		if entry == nil {
			return c.String(http.StatusNotFound, "Queue entry not found")
		}

		return c.JSON(http.StatusOK, entry)
	})

	return e
}
