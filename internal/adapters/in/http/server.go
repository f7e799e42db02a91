package http

import (
	"log/slog"
	"net/http"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/generated/servers"
	"orderflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Handlers groups the use cases the HTTP server delegates to.
type Handlers struct {
	CreateOrder        commands.CreateOrderCommandHandler
	CancelOrder        commands.CancelOrderCommandHandler
	RateOrder          commands.RateOrderCommandHandler
	AdvanceOrderStatus commands.AdvanceOrderStatusCommandHandler
	IssueDeliveryToken commands.IssueDeliveryTokenCommandHandler
	VerifyDelivery     commands.VerifyDeliveryTokenCommandHandler

	CreateOriginOrder commands.CreateOriginOrderCommandHandler
	AdvanceMilestone  commands.AdvanceMilestoneCommandHandler
	IssueOriginToken  commands.IssueOriginTokenCommandHandler
	RedeemOrigin      commands.RedeemOriginDeliveryCommandHandler

	GetOrder       queries.GetOrderQueryHandler
	ListOrders     queries.ListOrdersQueryHandler
	GetOriginOrder queries.GetOriginOrderQueryHandler
}

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	h      Handlers
	logger *slog.Logger
}

var _ servers.ServerInterface = (*Server)(nil)

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		h:      handlers,
		logger: logger.With("component", "http_server"),
	}
}

// ListOrders handles GET /api/v1/orders.
//
//	@Summary	List the requester's orders, newest first
//	@Tags		orders
//	@Produce	json
//	@Success	200	{array}		servers.OrderSummary
//	@Failure	401	{object}	servers.Error
//	@Security	BearerAuth
//	@Router		/orders [get]
func (s *Server) ListOrders(ctx echo.Context) error {
	requester, err := requesterFrom(ctx)
	if err != nil {
		return s.respondError(ctx, err)
	}

	query, err := queries.NewListOrdersQuery(requester)
	if err != nil {
		return s.respondError(ctx, err)
	}

	views, err := s.h.ListOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderSummariesResponse(views))
}

// CreateOrder handles POST /api/v1/orders. The requester's cart is cleared in
// the same transaction.
//
//	@Summary	Create an order
//	@Tags		orders
//	@Accept		json
//	@Produce	json
//	@Param		order	body		servers.NewOrder	true	"Checkout"
//	@Success	201		{object}	servers.Order
//	@Failure	400		{object}	servers.Error
//	@Security	BearerAuth
//	@Router		/orders [post]
func (s *Server) CreateOrder(ctx echo.Context) error {
	requester, err := requesterFrom(ctx)
	if err != nil {
		return s.respondError(ctx, err)
	}

	var body servers.CreateOrderJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return s.respondError(ctx, badBody(err))
	}

	c, err := checkoutFromRequest(body)
	if err != nil {
		return s.respondError(ctx, err)
	}

	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), requester, c.items, c.pricing, c.address)
	if err != nil {
		return s.respondError(ctx, err)
	}

	o, err := s.h.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err)
	}
	return s.respondOrder(ctx, http.StatusCreated, o)
}

// GetOrder handles GET /api/v1/orders/{orderId}.
//
//	@Summary	Get an order
//	@Tags		orders
//	@Produce	json
//	@Param		orderId	path		string	true	"Order id"	format(uuid)
//	@Success	200		{object}	servers.Order
//	@Failure	403		{object}	servers.Error
//	@Failure	404		{object}	servers.Error
//	@Security	BearerAuth
//	@Router		/orders/{orderId} [get]
func (s *Server) GetOrder(ctx echo.Context, orderId servers.OrderId) error {
	requester, id, err := s.target(ctx, orderId)
	if err != nil {
		return s.respondError(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(id, requester)
	if err != nil {
		return s.respondError(ctx, err)
	}

	view, err := s.h.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderResponse(view))
}

// CancelOrder handles POST /api/v1/orders/{orderId}/cancel.
//
//	@Summary	Cancel an order
//	@Tags		orders
//	@Produce	json
//	@Param		orderId	path		string	true	"Order id"	format(uuid)
//	@Success	200		{object}	servers.Order
//	@Failure	409		{object}	servers.Error
//	@Security	BearerAuth
//	@Router		/orders/{orderId}/cancel [post]
func (s *Server) CancelOrder(ctx echo.Context, orderId servers.OrderId) error {
	requester, id, err := s.target(ctx, orderId)
	if err != nil {
		return s.respondError(ctx, err)
	}

	cmd, err := commands.NewCancelOrderCommand(id, requester)
	if err != nil {
		return s.respondError(ctx, err)
	}

	o, err := s.h.CancelOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err)
	}
	return s.respondOrder(ctx, http.StatusOK, o)
}

// RateOrder handles POST /api/v1/orders/{orderId}/rating.
//
//	@Summary	Rate a delivered order
//	@Tags		orders
//	@Accept		json
//	@Produce	json
//	@Param		orderId	path		string					true	"Order id"	format(uuid)
//	@Param		rating	body		servers.RatingRequest	true	"Rating"
//	@Success	200		{object}	servers.Order
//	@Failure	409		{object}	servers.Error
//	@Security	BearerAuth
//	@Router		/orders/{orderId}/rating [post]
func (s *Server) RateOrder(ctx echo.Context, orderId servers.OrderId) error {
	requester, id, err := s.target(ctx, orderId)
	if err != nil {
		return s.respondError(ctx, err)
	}

	var body servers.RateOrderJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return s.respondError(ctx, badBody(err))
	}

	cmd, err := commands.NewRateOrderCommand(id, requester, body.Rating, deref(body.Review))
	if err != nil {
		return s.respondError(ctx, err)
	}

	o, err := s.h.RateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err)
	}
	return s.respondOrder(ctx, http.StatusOK, o)
}

// AdvanceOrderStatus handles POST /api/v1/orders/{orderId}/status. It is the
// operator path and does not check ownership.
//
//	@Summary	Advance an order one step
//	@Tags		operations
//	@Accept		json
//	@Produce	json
//	@Param		orderId	path		string					true	"Order id"	format(uuid)
//	@Param		status	body		servers.StatusChange	true	"Target status"
//	@Success	200		{object}	servers.Order
//	@Failure	409		{object}	servers.Error
//	@Security	BearerAuth
//	@Router		/orders/{orderId}/status [post]
func (s *Server) AdvanceOrderStatus(ctx echo.Context, orderId servers.OrderId) error {
	_, id, err := s.target(ctx, orderId)
	if err != nil {
		return s.respondError(ctx, err)
	}

	var body servers.AdvanceOrderStatusJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return s.respondError(ctx, badBody(err))
	}

	target, err := order.ParseStatus(string(body.Status))
	if err != nil {
		return s.respondError(ctx, err)
	}

	cmd, err := commands.NewAdvanceOrderStatusCommand(id, target)
	if err != nil {
		return s.respondError(ctx, err)
	}

	o, err := s.h.AdvanceOrderStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err)
	}
	return s.respondOrder(ctx, http.StatusOK, o)
}

// IssueDeliveryToken handles POST /api/v1/orders/{orderId}/delivery-token.
//
//	@Summary	Issue a proof-of-delivery token
//	@Tags		delivery
//	@Produce	json
//	@Param		orderId	path		string	true	"Order id"	format(uuid)
//	@Success	201		{object}	servers.DeliveryTicket
//	@Failure	409		{object}	servers.Error
//	@Security	BearerAuth
//	@Router		/orders/{orderId}/delivery-token [post]
func (s *Server) IssueDeliveryToken(ctx echo.Context, orderId servers.OrderId) error {
	requester, id, err := s.target(ctx, orderId)
	if err != nil {
		return s.respondError(ctx, err)
	}

	cmd, err := commands.NewIssueDeliveryTokenCommand(id, requester)
	if err != nil {
		return s.respondError(ctx, err)
	}

	ticket, err := s.h.IssueDeliveryToken.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, ticketResponse(ticket))
}

// VerifyDeliveryToken handles POST /api/v1/orders/{orderId}/delivery-verification.
// Expired, mismatched and out-of-status tokens are reported with success=false.
//
//	@Summary	Redeem a proof-of-delivery token
//	@Tags		delivery
//	@Accept		json
//	@Produce	json
//	@Param		orderId			path		string						true	"Order id"	format(uuid)
//	@Param		verification	body		servers.VerificationRequest	true	"Scanned code"
//	@Success	200				{object}	servers.VerificationResult
//	@Failure	409				{object}	servers.Error
//	@Failure	429				{object}	servers.Error
//	@Security	BearerAuth
//	@Router		/orders/{orderId}/delivery-verification [post]
func (s *Server) VerifyDeliveryToken(ctx echo.Context, orderId servers.OrderId) error {
	requester, id, err := s.target(ctx, orderId)
	if err != nil {
		return s.respondError(ctx, err)
	}

	var body servers.VerifyDeliveryTokenJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return s.respondError(ctx, badBody(err))
	}

	cmd, err := verifyCommandFromRequest(id, requester, body)
	if err != nil {
		return s.respondError(ctx, err)
	}

	result, err := s.h.VerifyDelivery.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, verificationResponse(result))
}

// CreateOriginOrder handles POST /api/v1/origin-orders.
//
//	@Summary	Create an origin order
//	@Tags		origin
//	@Accept		json
//	@Produce	json
//	@Param		order	body		servers.NewOrder	true	"Checkout"
//	@Success	201		{object}	servers.OriginOrder
//	@Failure	400		{object}	servers.Error
//	@Security	BearerAuth
//	@Router		/origin-orders [post]
func (s *Server) CreateOriginOrder(ctx echo.Context) error {
	requester, err := requesterFrom(ctx)
	if err != nil {
		return s.respondError(ctx, err)
	}

	var body servers.CreateOriginOrderJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return s.respondError(ctx, badBody(err))
	}

	c, err := checkoutFromRequest(body)
	if err != nil {
		return s.respondError(ctx, err)
	}

	cmd, err := commands.NewCreateOriginOrderCommand(kernel.NewUUID(), requester, c.items, c.pricing, c.address)
	if err != nil {
		return s.respondError(ctx, err)
	}

	o, err := s.h.CreateOriginOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err)
	}
	return s.respondOriginOrder(ctx, http.StatusCreated, o.ID(), o.OwnerID())
}

// GetOriginOrder handles GET /api/v1/origin-orders/{orderId}.
//
//	@Summary	Get an origin order
//	@Tags		origin
//	@Produce	json
//	@Param		orderId	path		string	true	"Order id"	format(uuid)
//	@Success	200		{object}	servers.OriginOrder
//	@Failure	404		{object}	servers.Error
//	@Security	BearerAuth
//	@Router		/origin-orders/{orderId} [get]
func (s *Server) GetOriginOrder(ctx echo.Context, orderId servers.OrderId) error {
	requester, id, err := s.target(ctx, orderId)
	if err != nil {
		return s.respondError(ctx, err)
	}
	return s.respondOriginOrder(ctx, http.StatusOK, id, requester)
}

// AdvanceMilestone handles POST /api/v1/origin-orders/{orderId}/milestone. It is
// the operator path and does not check ownership.
//
//	@Summary	Advance an origin order to its next milestone
//	@Tags		operations
//	@Produce	json
//	@Param		orderId	path		string	true	"Order id"	format(uuid)
//	@Success	200		{object}	servers.MilestoneProgress
//	@Failure	404		{object}	servers.Error
//	@Security	BearerAuth
//	@Router		/origin-orders/{orderId}/milestone [post]
func (s *Server) AdvanceMilestone(ctx echo.Context, orderId servers.OrderId) error {
	_, id, err := s.target(ctx, orderId)
	if err != nil {
		return s.respondError(ctx, err)
	}

	cmd, err := commands.NewAdvanceMilestoneCommand(id)
	if err != nil {
		return s.respondError(ctx, err)
	}

	milestone, err := s.h.AdvanceMilestone.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, milestoneResponse(milestone))
}

// IssueOriginDeliveryToken handles POST /api/v1/origin-orders/{orderId}/delivery-token.
//
//	@Summary	Issue a proof-of-delivery token for an origin order
//	@Tags		origin
//	@Produce	json
//	@Param		orderId	path		string	true	"Order id"	format(uuid)
//	@Success	201		{object}	servers.DeliveryTicket
//	@Failure	409		{object}	servers.Error
//	@Security	BearerAuth
//	@Router		/origin-orders/{orderId}/delivery-token [post]
func (s *Server) IssueOriginDeliveryToken(ctx echo.Context, orderId servers.OrderId) error {
	requester, id, err := s.target(ctx, orderId)
	if err != nil {
		return s.respondError(ctx, err)
	}

	cmd, err := commands.NewIssueDeliveryTokenCommand(id, requester)
	if err != nil {
		return s.respondError(ctx, err)
	}

	ticket, err := s.h.IssueOriginToken.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, ticketResponse(ticket))
}

// RedeemOriginDelivery handles POST /api/v1/origin-orders/{orderId}/delivery-verification.
//
//	@Summary	Redeem a proof-of-delivery token for an origin order
//	@Tags		origin
//	@Accept		json
//	@Produce	json
//	@Param		orderId			path		string						true	"Order id"	format(uuid)
//	@Param		verification	body		servers.VerificationRequest	true	"Scanned code"
//	@Success	200				{object}	servers.VerificationResult
//	@Failure	409				{object}	servers.Error
//	@Failure	429				{object}	servers.Error
//	@Security	BearerAuth
//	@Router		/origin-orders/{orderId}/delivery-verification [post]
func (s *Server) RedeemOriginDelivery(ctx echo.Context, orderId servers.OrderId) error {
	requester, id, err := s.target(ctx, orderId)
	if err != nil {
		return s.respondError(ctx, err)
	}

	var body servers.RedeemOriginDeliveryJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return s.respondError(ctx, badBody(err))
	}

	cmd, err := verifyCommandFromRequest(id, requester, body)
	if err != nil {
		return s.respondError(ctx, err)
	}

	result, err := s.h.RedeemOrigin.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, verificationResponse(result))
}

// target resolves the requester and the order id from the path.
func (s *Server) target(ctx echo.Context, orderId servers.OrderId) (kernel.OwnerID, kernel.UUID, error) {
	requester, err := requesterFrom(ctx)
	if err != nil {
		return kernel.OwnerID{}, kernel.UUID{}, err
	}

	id, err := kernel.UUIDFromBytes(orderId[:])
	if err != nil {
		return kernel.OwnerID{}, kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("orderId", err)
	}
	return requester, id, nil
}

// respondOrder renders the committed order through the read model so every
// endpoint returns the same shape.
func (s *Server) respondOrder(ctx echo.Context, code int, o *order.Order) error {
	query, err := queries.NewGetOrderQuery(o.ID(), o.OwnerID())
	if err != nil {
		return s.respondError(ctx, err)
	}

	view, err := s.h.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.respondError(ctx, err)
	}
	return ctx.JSON(code, orderResponse(view))
}

func (s *Server) respondOriginOrder(ctx echo.Context, code int, id kernel.UUID, requester kernel.OwnerID) error {
	query, err := queries.NewGetOriginOrderQuery(id, requester)
	if err != nil {
		return s.respondError(ctx, err)
	}

	view, err := s.h.GetOriginOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.respondError(ctx, err)
	}
	return ctx.JSON(code, originOrderResponse(view))
}
