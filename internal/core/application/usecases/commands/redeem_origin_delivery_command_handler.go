package commands

import (
	"context"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/origin"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
)

// RedeemOriginDeliveryCommandHandler applies the delivery token rules to an origin
// order. Success jumps the order to the last milestone; failures follow the same
// rules as VerifyDeliveryTokenCommandHandler.
type RedeemOriginDeliveryCommandHandler struct {
	uowFactory OriginUoWFactory
	redemption redemption
}

func NewRedeemOriginDeliveryCommandHandler(
	uowFactory OriginUoWFactory,
	verifier services.DeliveryTokenVerifier,
	limiter ports.AttemptLimiter,
	metrics ports.VerificationMetrics,
	clock Clock,
) RedeemOriginDeliveryCommandHandler {
	return RedeemOriginDeliveryCommandHandler{
		uowFactory: uowFactory,
		redemption: newRedemption(event.AggregateOriginOrder, verifier, limiter, metrics, clock),
	}
}

func (h *RedeemOriginDeliveryCommandHandler) Handle(
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

	repo := uow.OriginOrderRepository()
	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return VerificationResult{}, err
	}
	if err = o.Authorize(cmd.RequesterID()); err != nil {
		return VerificationResult{}, err
	}

	reason, err := redeem[*origin.OriginOrder](ctx, h.redemption, uow, repo, o, cmd)
	if err != nil {
		return VerificationResult{}, err
	}
	return originResult(o, reason), nil
}

func originResult(o *origin.OriginOrder, reason string) VerificationResult {
	return VerificationResult{
		Success:            reason == "",
		Status:             o.Milestone().String(),
		VerificationStatus: o.VerificationStatus().String(),
		VerifiedAt:         o.VerifiedAt(),
		Reason:             reason,
	}
}
