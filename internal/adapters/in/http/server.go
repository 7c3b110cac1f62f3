package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"deliverytracker/internal/adapters/in/http/api"
	"deliverytracker/internal/core/application/usecases/commands"
	"deliverytracker/internal/core/application/usecases/queries"
	"deliverytracker/internal/core/domain/model/kernel"
	"deliverytracker/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) error
	}

	GetOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetOrdersQuery) ([]queries.OrderReadModel, error)
	}

	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderReadModel, error)
	}
)

// Server implements the order endpoints of the OpenAPI document.
type Server struct {
	createOrderHandler CreateOrderHandler
	getOrdersHandler   GetOrdersHandler
	getOrderHandler    GetOrderHandler
	logger             *slog.Logger
}

func NewServer(
	createOrderHandler CreateOrderHandler,
	getOrdersHandler GetOrdersHandler,
	getOrderHandler GetOrderHandler,
	logger *slog.Logger,
) *Server {
	return &Server{
		createOrderHandler: createOrderHandler,
		getOrdersHandler:   getOrdersHandler,
		getOrderHandler:    getOrderHandler,
		logger:             logger.With("component", "http_server"),
	}
}

// CreateOrder handles POST /api/v1/orders and returns the stored order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body api.NewOrder
	if err := ctx.Bind(&body); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid request body")
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID,
		body.ProductID,
		body.ProductName,
		body.ProductImage,
		body.ProductPrice,
	)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid order data: "+err.Error())
	}

	reqCtx := ctx.Request().Context()
	if err = s.createOrderHandler.Handle(reqCtx, cmd); err != nil {
		s.logger.ErrorContext(reqCtx, "failed to create order", "error", err)
		return errorResponse(ctx, http.StatusInternalServerError, "Failed to create order")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return errorResponse(ctx, http.StatusInternalServerError, "Failed to load order")
	}
	stored, err := s.getOrderHandler.Handle(reqCtx, query)
	if err != nil {
		s.logger.ErrorContext(reqCtx, "failed to load created order", "orderId", orderID.String(), "error", err)
		return errorResponse(ctx, http.StatusInternalServerError, "Failed to load order")
	}

	return ctx.JSON(http.StatusCreated, toOrder(stored))
}

// GetOrders handles GET /api/v1/orders.
func (s *Server) GetOrders(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	orders, err := s.getOrdersHandler.Handle(reqCtx, queries.NewGetOrdersQuery())
	if err != nil {
		s.logger.ErrorContext(reqCtx, "failed to list orders", "error", err)
		return errorResponse(ctx, http.StatusInternalServerError, "Failed to retrieve orders")
	}

	response := make([]api.Order, len(orders))
	for i, o := range orders {
		response[i] = toOrder(o)
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrder handles GET /api/v1/orders/:orderId.
func (s *Server) GetOrder(ctx echo.Context) error {
	var rawID openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &rawID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid format for parameter orderId")
	}

	orderID, err := kernel.UUIDFromBytes(rawID[:])
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid format for parameter orderId")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	}

	reqCtx := ctx.Request().Context()
	o, err := s.getOrderHandler.Handle(reqCtx, query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "Order not found")
		}
		s.logger.ErrorContext(reqCtx, "failed to get order", "orderId", orderID.String(), "error", err)
		return errorResponse(ctx, http.StatusInternalServerError, "Failed to retrieve order")
	}

	return ctx.JSON(http.StatusOK, toOrder(o))
}

func toOrder(o queries.OrderReadModel) api.Order {
	return api.Order{
		ID:           o.ID.String(),
		ProductID:    o.ProductID,
		ProductName:  o.ProductName,
		ProductImage: o.ProductImage,
		ProductPrice: o.ProductPrice,
		Status:       o.Status.String(),
		CreatedAt:    o.CreatedAt,
	}
}

func errorResponse(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, api.Error{Code: code, Message: message})
}
