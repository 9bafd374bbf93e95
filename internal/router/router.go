package router

import (
	"anvil-optimiser/internal/cache"
	"anvil-optimiser/internal/rules"
	rules_router "anvil-optimiser/internal/router/rules"
	solve_router "anvil-optimiser/internal/router/solve"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Config struct {
	// DB is optional, without it solutions are not persisted and async solves are refused
	DB           *sql.DB
	Table        *rules.Table
	Responses    cache.SolutionStore
	SolveTimeout time.Duration
}

func NewRouter(config Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Set up middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	api := e.Group("/api")
	api.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	rules_router.Bind(api.Group("/rules"), config.Table)
	solve_router.Bind(api, solve_router.Handler{
		DB:           config.DB,
		Table:        config.Table,
		Responses:    config.Responses,
		SolveTimeout: config.SolveTimeout,
	})

	return e
}
