package router

import (
	"net/http"

	"todo-web/pkg/adapter/controller"
	"todo-web/pkg/adapter/handler"
	appmiddleware "todo-web/pkg/infrastructure/router/middleware"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Path of route
const (
	IndexPath       = "/"
	TodosPath       = "/todos"
	HealthCheckPath = "/health_check"
)

// Options of router
type Options struct {
	Logger *zap.Logger
	// Title of the HTML page
	Title string
}

// New creates route endpoint
func New(ctrl controller.Controller, options Options) *echo.Echo {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return ulid.Make().String()
		},
	}))
	e.Use(appmiddleware.Logger(logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderXRequestedWith,
			echo.HeaderContentType,
			echo.HeaderAccept,
		},
	}))

	e.GET(HealthCheckPath, func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET(IndexPath, handler.TodoPage(ctrl.Todo, logger, options.Title))
	e.GET(TodosPath, handler.TodoFragment(ctrl.Todo, logger))

	return e
}
