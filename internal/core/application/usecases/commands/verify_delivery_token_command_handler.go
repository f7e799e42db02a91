package commands

import (
	"context"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
)

// VerifyDeliveryTokenCommandHandler redeems a scanned delivery token.
//
// Business rules:
//   - only the owner may redeem; other requesters are denied before the limiter runs
//   - the owner's attempts per order are bounded by the limiter; refused attempts
//     change nothing
//   - a valid token moves the order to delivered; the write only succeeds while the
//     stored token is still the one that was checked, so a second concurrent
//     redemption fails with a ConcurrentModificationError
//   - an expired or mismatched token revokes the live token and leaves the order
//     status unchanged; the result carries Success false and the reason
//   - an order that does not accept delivery (pending or terminal) yields Success
//     false with reason "status" and no write
type VerifyDeliveryTokenCommandHandler struct {
	uowFactory OrderUoWFactory
	redemption redemption
}

// NewVerifyDeliveryTokenCommandHandler wires the handler. limiter may be nil to
// disable attempt limiting.
func NewVerifyDeliveryTokenCommandHandler(
	uowFactory OrderUoWFactory,
	verifier services.DeliveryTokenVerifier,
	limiter ports.AttemptLimiter,
	metrics ports.VerificationMetrics,
	clock Clock,
) VerifyDeliveryTokenCommandHandler {
	return VerifyDeliveryTokenCommandHandler{
		uowFactory: uowFactory,
		redemption: newRedemption(event.AggregateOrder, verifier, limiter, metrics, clock),
	}
}

func (h *VerifyDeliveryTokenCommandHandler) Handle(
	ctx context.Context,
	cmd VerifyDeliveryTokenCommand,
) (VerificationResult, error) {
	if err := cmd.Validate(); err != nil {
		return VerificationResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return VerificationResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return VerificationResult{}, err
	}
	if err = o.Authorize(cmd.RequesterID()); err != nil {
		return VerificationResult{}, err
	}

	reason, err := redeem[*order.Order](ctx, h.redemption, uow, orderRepo, o, cmd)
	if err != nil {
		return VerificationResult{}, err
	}
	return orderResult(o, reason), nil
}

func orderResult(o *order.Order, reason string) VerificationResult {
	return VerificationResult{
		Success:            reason == "",
		Status:             o.Status().String(),
		VerificationStatus: o.VerificationStatus().String(),
		VerifiedAt:         o.VerifiedAt(),
		Reason:             reason,
	}
}
