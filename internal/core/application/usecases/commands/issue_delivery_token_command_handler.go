package commands

import (
	"context"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
)

// IssueDeliveryTokenCommandHandler signs a fresh delivery token for an order and
// stores it, replacing any previous token.
//
// Example:
//
//	handler := NewIssueDeliveryTokenCommandHandler(uowFactory, issuer, metrics, time.Now)
//	cmd, _ := NewIssueDeliveryTokenCommand(orderID, requester)
//
//	ticket, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	render(ticket.Payload, ticket.VerificationCode)
type IssueDeliveryTokenCommandHandler struct {
	uowFactory OrderUoWFactory
	issuer     services.DeliveryTokenIssuer
	metrics    ports.VerificationMetrics
	clock      Clock
}

func NewIssueDeliveryTokenCommandHandler(
	uowFactory OrderUoWFactory,
	issuer services.DeliveryTokenIssuer,
	metrics ports.VerificationMetrics,
	clock Clock,
) IssueDeliveryTokenCommandHandler {
	return IssueDeliveryTokenCommandHandler{
		uowFactory: uowFactory,
		issuer:     issuer,
		metrics:    metricsOrNoop(metrics),
		clock:      clock,
	}
}

// Handle returns the ticket to display. Orders outside confirmed, preparing and
// out_for_delivery get a StateConflictError.
func (h *IssueDeliveryTokenCommandHandler) Handle(
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

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
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
	if err = orderRepo.Update(ctx, o); err != nil {
		return services.DeliveryTicket{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return services.DeliveryTicket{}, err
	}

	h.metrics.TokenIssued(event.AggregateOrder)
	return ticket, nil
}
