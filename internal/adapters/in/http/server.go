// Package http exposes the fulfillment service's HTTP API on echo.
package http

import (
	"errors"
	"io"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/audit"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/webhook"
	"fulfillment/internal/metrics"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ErrorResponse is the uniform error body of the API.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	transitionHandler commands.TransitionOrderCommandHandler
	generateHandler   commands.GenerateShipmentCommandHandler
	deleteHandler     commands.DeleteShipmentCommandHandler
	refreshHandler    commands.RefreshTrackingCommandHandler
	ingestHandler     commands.IngestWebhookCommandHandler
	reprocessHandler  commands.ReprocessWebhookCommandHandler

	getOrderHandler   queries.GetOrderQueryHandler
	getWebhookHandler queries.GetWebhookQueryHandler

	metrics  *metrics.Metrics
	registry *prometheus.Registry
}

// NewServer creates the HTTP server over the given command and query handlers.
// The metrics arguments may be nil; the /metrics route is only mounted when a
// registry is provided.
func NewServer(
	transitionHandler commands.TransitionOrderCommandHandler,
	generateHandler commands.GenerateShipmentCommandHandler,
	deleteHandler commands.DeleteShipmentCommandHandler,
	refreshHandler commands.RefreshTrackingCommandHandler,
	ingestHandler commands.IngestWebhookCommandHandler,
	reprocessHandler commands.ReprocessWebhookCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getWebhookHandler queries.GetWebhookQueryHandler,
	m *metrics.Metrics,
	registry *prometheus.Registry,
) *Server {
	return &Server{
		transitionHandler: transitionHandler,
		generateHandler:   generateHandler,
		deleteHandler:     deleteHandler,
		refreshHandler:    refreshHandler,
		ingestHandler:     ingestHandler,
		reprocessHandler:  reprocessHandler,
		getOrderHandler:   getOrderHandler,
		getWebhookHandler: getWebhookHandler,
		metrics:           m,
		registry:          registry,
	}
}

// RegisterRoutes mounts every route on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)
	if s.registry != nil {
		e.GET("/metrics", echo.WrapHandler(
			promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	}

	api := e.Group("/api/v1")
	api.POST("/orders/:id/transition", s.TransitionOrder)
	api.POST("/orders/:id/shipment", s.GenerateShipment)
	api.DELETE("/orders/:id/shipment", s.DeleteShipment)
	api.POST("/orders/:id/tracking/refresh", s.RefreshTracking)
	api.GET("/orders/:id", s.GetOrder)

	api.POST("/webhooks/:source", s.IngestWebhook)
	api.POST("/webhooks/:id/reprocess", s.ReprocessWebhook)
	api.GET("/webhooks/:id", s.GetWebhook)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type transitionRequest struct {
	TargetStatus string `json:"target_status"`
	ActorID      string `json:"actor_id"`
	Reason       string `json:"reason"`
}

// TransitionOrder handles POST /api/v1/orders/:id/transition.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, err)
	}

	var body transitionRequest
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	target, err := order.StatusFromString(body.TargetStatus)
	if err != nil {
		return errorJSON(ctx, err)
	}

	actorType := audit.ActorAPI
	if body.ActorID != "" {
		actorType = audit.ActorUser
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, target, actorType, body.ActorID, body.Reason)
	if err != nil {
		return errorJSON(ctx, err)
	}

	if err := s.transitionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorJSON(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

type generateShipmentRequest struct {
	Carrier string `json:"carrier"`
}

// GenerateShipment handles POST /api/v1/orders/:id/shipment. The body is
// optional; it may name a specific carrier instead of letting the handler
// select one.
func (s *Server) GenerateShipment(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, err)
	}

	var body generateShipmentRequest
	if ctx.Request().ContentLength > 0 {
		if err := ctx.Bind(&body); err != nil {
			return ctx.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    http.StatusBadRequest,
				Message: "Invalid request body",
			})
		}
	}

	var carrier kernel.Carrier
	if body.Carrier != "" {
		carrier, err = kernel.CarrierFromString(body.Carrier)
		if err != nil {
			return errorJSON(ctx, err)
		}
	}

	cmd, err := commands.NewGenerateShipmentCommand(orderID, carrier)
	if err != nil {
		return errorJSON(ctx, err)
	}

	if err := s.generateHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorJSON(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// DeleteShipment handles DELETE /api/v1/orders/:id/shipment.
func (s *Server) DeleteShipment(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, err)
	}

	cmd, err := commands.NewDeleteShipmentCommand(orderID, audit.ActorAPI, "")
	if err != nil {
		return errorJSON(ctx, err)
	}

	if err := s.deleteHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorJSON(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// RefreshTracking handles POST /api/v1/orders/:id/tracking/refresh.
func (s *Server) RefreshTracking(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, err)
	}

	cmd, err := commands.NewRefreshTrackingCommand(orderID)
	if err != nil {
		return errorJSON(ctx, err)
	}

	status, err := s.refreshHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorJSON(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]string{"tracking_status": status})
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return errorJSON(ctx, err)
	}

	response, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorJSON(ctx, err)
	}
	return ctx.JSON(http.StatusOK, response)
}

// IngestWebhook handles POST /api/v1/webhooks/:source. The webhook is durably
// recorded and queued; 202 acknowledges receipt, not processing.
func (s *Server) IngestWebhook(ctx echo.Context) error {
	source, err := webhook.SourceFromString(ctx.Param("source"))
	if err != nil {
		return errorJSON(ctx, err)
	}

	payload, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Unreadable request body",
		})
	}

	webhookID := kernel.NewUUID()
	cmd, err := commands.NewIngestWebhookCommand(
		webhookID, source, ctx.Request().Header.Get("X-Event-Type"), payload)
	if err != nil {
		return errorJSON(ctx, err)
	}

	if err := s.ingestHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorJSON(ctx, err)
	}

	if s.metrics != nil {
		s.metrics.WebhooksReceived.WithLabelValues(source.String()).Inc()
	}
	return ctx.JSON(http.StatusAccepted, map[string]string{"webhook_id": webhookID.String()})
}

// ReprocessWebhook handles POST /api/v1/webhooks/:id/reprocess.
func (s *Server) ReprocessWebhook(ctx echo.Context) error {
	webhookID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, err)
	}

	cmd, err := commands.NewReprocessWebhookCommand(webhookID, audit.ActorAPI, "")
	if err != nil {
		return errorJSON(ctx, err)
	}

	if err := s.reprocessHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorJSON(ctx, err)
	}
	return ctx.NoContent(http.StatusAccepted)
}

// GetWebhook handles GET /api/v1/webhooks/:id.
func (s *Server) GetWebhook(ctx echo.Context) error {
	webhookID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, err)
	}

	query, err := queries.NewGetWebhookQuery(webhookID)
	if err != nil {
		return errorJSON(ctx, err)
	}

	response, err := s.getWebhookHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorJSON(ctx, err)
	}
	return ctx.JSON(http.StatusOK, response)
}

// errorJSON maps application errors onto the API's status codes.
func errorJSON(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidTransition):
		code = http.StatusConflict
	case errors.Is(err, errs.ErrPreconditionFailed):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code = http.StatusBadRequest
	case errors.Is(err, errs.ErrTransientCarrier):
		code = http.StatusServiceUnavailable
	case errors.Is(err, errs.ErrPermanentCarrier):
		code = http.StatusBadGateway
	}

	return ctx.JSON(code, ErrorResponse{Code: code, Message: err.Error()})
}
