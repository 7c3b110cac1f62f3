package http

import (
	"errors"
	"log/slog"
	"net/http"

	"deliverytracker/internal/adapters/in/http/api"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const specPath = "/api/v1/openapi.json"

// Handlers are the non-REST endpoints mounted next to the order API.
type Handlers struct {
	Tracking http.Handler
	Metrics  http.Handler
}

// NewRouter builds the echo instance serving the order API, the websocket
// endpoint, metrics and API docs. Requests to documented operations are
// validated against the OpenAPI document before they reach the Server.
func NewRouter(server *Server, handlers Handlers, logger *slog.Logger) (*echo.Echo, error) {
	doc, err := api.LoadSpec()
	if err != nil {
		return nil, err
	}
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger.With("component", "http")))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET(specPath, specHandler(doc))
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.URL(specPath)))
	if handlers.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(handlers.Metrics))
	}
	if handlers.Tracking != nil {
		e.GET("/ws", echo.WrapHandler(handlers.Tracking))
	}

	v1 := e.Group("/api/v1", validateRequests(router))
	v1.POST("/orders", server.CreateOrder)
	v1.GET("/orders", server.GetOrders)
	v1.GET("/orders/:orderId", server.GetOrder)

	return e, nil
}

func specHandler(doc *openapi3.T) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, doc)
	}
}

// validateRequests rejects requests that do not match the documented
// parameters or body schema. Undocumented routes pass through.
func validateRequests(router routers.Router) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				return next(c)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    &openapi3filter.Options{MultiError: false},
			}
			if err = openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return errorResponse(c, http.StatusBadRequest, validationMessage(err))
			}

			return next(c)
		}
	}
}

func validationMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		switch {
		case reqErr.Parameter != nil:
			return "Invalid format for parameter " + reqErr.Parameter.Name
		case reqErr.RequestBody != nil:
			return "Invalid request body: " + reqErr.Reason
		}
	}
	return "Invalid request"
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				logger.ErrorContext(c.Request().Context(), "request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.DebugContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	})
}
