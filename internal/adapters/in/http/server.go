package http

import (
	"errors"
	"net/http"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler  commands.CreateOrderCommandHandler
	updateStatusHandler commands.UpdateOrderStatusCommandHandler

	// Query handlers
	getOrderHandler      queries.GetOrderQueryHandler
	getUserOrdersHandler queries.GetUserOrdersQueryHandler
	getStatsHandler      queries.GetOrderStatsQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	updateStatusHandler commands.UpdateOrderStatusCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getUserOrdersHandler queries.GetUserOrdersQueryHandler,
	getStatsHandler queries.GetOrderStatsQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:   createOrderHandler,
		updateStatusHandler:  updateStatusHandler,
		getOrderHandler:      getOrderHandler,
		getUserOrdersHandler: getUserOrdersHandler,
		getStatsHandler:      getStatsHandler,
	}
}

// RegisterRoutes wires every endpoint onto the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/stats", s.GetOrderStats)
	api.GET("/orders/:orderId", s.GetOrder)
	api.PATCH("/orders/:orderId/status", s.UpdateOrderStatus)
	api.POST("/orders/:orderId/cancel", s.CancelOrder)
	api.GET("/users/:userId/orders", s.GetUserOrders)
	api.GET("/users/:userId/orders/stats", s.GetUserOrderStats)

	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// CreateOrder handles POST /api/v1/orders - places a new order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body CreateOrderRequest
	if err := ctx.Bind(&body); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	userID, err := kernel.UUIDFromString(body.UserID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid user id: "+body.UserID)
	}
	if len(body.Items) == 0 {
		return errorJSON(ctx, http.StatusBadRequest, "Order must contain at least one item")
	}

	items := make([]order.Item, 0, len(body.Items))
	for _, line := range body.Items {
		item, itemErr := line.toDomain()
		if itemErr != nil {
			return errorJSON(ctx, http.StatusBadRequest, "Invalid item: "+itemErr.Error())
		}
		items = append(items, item)
	}

	address, err := order.NewAddress(
		body.ShippingAddress.Street,
		body.ShippingAddress.City,
		body.ShippingAddress.PostalCode,
		body.ShippingAddress.Country,
	)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid shipping address: "+err.Error())
	}

	cmd, err := commands.NewCreateOrderCommand(userID, items, address, body.Metadata)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order data: "+err.Error())
	}

	aggregate, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, orderFromDomain(aggregate))
}

// GetOrder handles GET /api/v1/orders/:orderId - retrieves a single order.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	aggregate, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderFromDomain(aggregate))
}

// GetUserOrders handles GET /api/v1/users/:userId/orders - lists a user's
// orders, newest first, with page/limit query parameters.
func (s *Server) GetUserOrders(ctx echo.Context) error {
	userID, err := kernel.UUIDFromString(ctx.Param("userId"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid user id")
	}

	page, limit, err := paginationParams(ctx)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	query, err := queries.NewGetUserOrdersQuery(userID, page, limit)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid listing parameters: "+err.Error())
	}

	result, err := s.getUserOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeDomainError(ctx, err)
	}

	orders := make([]OrderResponse, len(result.Orders))
	for i, aggregate := range result.Orders {
		orders[i] = orderFromDomain(aggregate)
	}

	return ctx.JSON(http.StatusOK, OrderListResponse{
		Orders: orders,
		Total:  result.Total,
		Page:   page,
		Limit:  limit,
	})
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:orderId/status - moves an
// order along its lifecycle.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	var body UpdateStatusRequest
	if err = ctx.Bind(&body); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	status, err := order.StatusFromString(body.Status)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Unknown status: "+body.Status)
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, status, body.CancelReason)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid status update: "+err.Error())
	}

	aggregate, err := s.updateStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderFromDomain(aggregate))
}

// CancelOrder handles POST /api/v1/orders/:orderId/cancel - cancels an order
// with an optional reason.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	var body CancelOrderRequest
	if err = ctx.Bind(&body); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, body.Reason)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid cancellation: "+err.Error())
	}

	aggregate, err := s.updateStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderFromDomain(aggregate))
}

// GetOrderStats handles GET /api/v1/orders/stats - per-status counts and
// totals across all orders.
func (s *Server) GetOrderStats(ctx echo.Context) error {
	return s.writeStats(ctx, queries.NewGetOrderStatsQuery())
}

// GetUserOrderStats handles GET /api/v1/users/:userId/orders/stats - the same
// breakdown scoped to one user.
func (s *Server) GetUserOrderStats(ctx echo.Context) error {
	userID, err := kernel.UUIDFromString(ctx.Param("userId"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid user id")
	}

	query, err := queries.NewGetUserOrderStatsQuery(userID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid stats query: "+err.Error())
	}

	return s.writeStats(ctx, query)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeStats(ctx echo.Context, query queries.GetOrderStatsQuery) error {
	stats, err := s.getStatsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeDomainError(ctx, err)
	}

	response := make([]StatusStatResponse, len(stats))
	for i, stat := range stats {
		response[i] = StatusStatResponse{
			Status:      stat.Status.String(),
			Count:       stat.Count,
			TotalAmount: stat.TotalAmount.String(),
		}
	}

	return ctx.JSON(http.StatusOK, StatsResponse{Stats: response})
}

// writeDomainError maps application errors onto HTTP statuses.
func writeDomainError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return errorJSON(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrInvalidStatusTransition),
		errors.Is(err, errs.ErrVersionConflict):
		return errorJSON(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrPublishFailed):
		return errorJSON(ctx, http.StatusBadGateway, err.Error())
	default:
		return errorJSON(ctx, http.StatusInternalServerError, "Internal server error")
	}
}

func errorJSON(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, ErrorResponse{Code: code, Message: message})
}
