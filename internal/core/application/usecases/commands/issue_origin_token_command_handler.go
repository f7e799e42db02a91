package commands

import (
	"context"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
)

// IssueOriginTokenCommandHandler issues a delivery token for an active origin order.
// The token is held server-side so terminal redemption is checked against it.
type IssueOriginTokenCommandHandler struct {
	uowFactory OriginUoWFactory
	issuer     services.DeliveryTokenIssuer
	metrics    ports.VerificationMetrics
	clock      Clock
}

func NewIssueOriginTokenCommandHandler(
	uowFactory OriginUoWFactory,
	issuer services.DeliveryTokenIssuer,
	metrics ports.VerificationMetrics,
	clock Clock,
) IssueOriginTokenCommandHandler {
	return IssueOriginTokenCommandHandler{
		uowFactory: uowFactory,
		issuer:     issuer,
		metrics:    metricsOrNoop(metrics),
		clock:      clock,
	}
}

func (h *IssueOriginTokenCommandHandler) Handle(
	ctx context.Context,
	cmd IssueDeliveryTokenCommand,
) (services.DeliveryTicket, error) {
	if err := cmd.Validate(); err != nil {
		return services.DeliveryTicket{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return services.DeliveryTicket{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OriginOrderRepository()
	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return services.DeliveryTicket{}, err
	}
	if err = o.Authorize(cmd.RequesterID()); err != nil {
		return services.DeliveryTicket{}, err
	}

	ticket, err := h.issuer.Issue(o, h.clock.now())
	if err != nil {
		return services.DeliveryTicket{}, err
	}
	if err = repo.Update(ctx, o); err != nil {
		return services.DeliveryTicket{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return services.DeliveryTicket{}, err
	}

	h.metrics.TokenIssued(event.AggregateOriginOrder)
	return ticket, nil
}
