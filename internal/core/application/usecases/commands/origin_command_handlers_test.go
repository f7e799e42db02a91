package commands_test

import (
	"testing"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/origin"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateOriginOrderCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateOriginOrderCommand(kernel.NewUUID(), mustOwner(t, "user-1"), validItems(t), validPricing(t), validAddress(t))
	require.NoError(t, err)

	repo := new(MockOriginOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OriginOrderRepository").Return(repo).Once(),
		repo.On("Add", ctx, mock.AnythingOfType("*origin.OriginOrder")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	h := commands.NewCreateOriginOrderCommandHandler(originUoWFactory{uow}, fixedClock(baseTime))
	o, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, origin.MilestoneConfirmed, o.Milestone())
	assert.True(t, o.IsActive())
	uow.AssertExpectations(t)
}

func TestAdvanceMilestoneCommandHandler_Handle(t *testing.T) {
	t.Run("moves one stage forward", func(t *testing.T) {
		ctx := t.Context()
		o := newOriginOrder(t)
		cmd, err := commands.NewAdvanceMilestoneCommand(o.ID())
		require.NoError(t, err)

		repo := new(MockOriginOrderRepository)
		uow := new(MockUoW)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("OriginOrderRepository").Return(repo).Once()
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
		repo.On("Update", ctx, o).Return(nil).Once()
		uow.On("Commit", ctx).Return(nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()

		h := commands.NewAdvanceMilestoneCommandHandler(originUoWFactory{uow}, fixedClock(baseTime))
		milestone, err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, origin.MilestonePreparingAtOrigin, milestone)
		uow.AssertExpectations(t)
	})

	t.Run("last stage is a no-op without a write", func(t *testing.T) {
		ctx := t.Context()
		o := newOriginOrder(t)
		for o.IsActive() {
			o.Advance(baseTime)
		}
		cmd, err := commands.NewAdvanceMilestoneCommand(o.ID())
		require.NoError(t, err)

		repo := new(MockOriginOrderRepository)
		uow := new(MockUoW)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("OriginOrderRepository").Return(repo).Once()
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()

		h := commands.NewAdvanceMilestoneCommandHandler(originUoWFactory{uow}, fixedClock(baseTime))
		milestone, err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, origin.LastMilestone, milestone)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})
}

func TestOriginDeliveryRedemption(t *testing.T) {
	ctx := t.Context()
	o := newOriginOrder(t)
	owner := mustOwner(t, "user-1")

	issueCmd, err := commands.NewIssueDeliveryTokenCommand(o.ID(), owner)
	require.NoError(t, err)

	repo := new(MockOriginOrderRepository)
	uow := new(MockUoW)
	metrics := new(MockMetrics)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OriginOrderRepository").Return(repo)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)
	repo.On("Get", ctx, o.ID()).Return(o, nil)
	repo.On("Update", ctx, o).Return(nil).Once()
	metrics.On("TokenIssued", event.AggregateOriginOrder).Once()

	issue := commands.NewIssueOriginTokenCommandHandler(originUoWFactory{uow}, testIssuer(t), metrics, fixedClock(baseTime))
	ticket, err := issue.Handle(ctx, issueCmd)
	require.NoError(t, err)

	redeemCmd, err := commands.NewVerifyDeliveryTokenCommandFromPayload(o.ID(), owner, ticket.Payload)
	require.NoError(t, err)
	repo.On("CompleteDelivery", ctx, o, ticket.Token).Return(nil).Once()
	metrics.On("VerificationAttempted", event.AggregateOriginOrder, ports.OutcomeVerified).Once()

	redeem := commands.NewRedeemOriginDeliveryCommandHandler(originUoWFactory{uow}, testVerifier(t), nil, metrics, fixedClock(baseTime.Add(2*time.Minute)))
	result, err := redeem.Handle(ctx, redeemCmd)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, origin.LastMilestone.String(), result.Status)
	assert.Equal(t, "verified", result.VerificationStatus)
	assert.False(t, o.IsActive())

	metrics.On("VerificationAttempted", event.AggregateOriginOrder, ports.OutcomeStatus).Once()
	again, err := redeem.Handle(ctx, redeemCmd)

	require.NoError(t, err)
	assert.False(t, again.Success)
	assert.Equal(t, commands.ReasonStatus, again.Reason)
	repo.AssertExpectations(t)
	metrics.AssertExpectations(t)
}

func TestRedeemOriginDeliveryCommandHandler_Handle_Limited(t *testing.T) {
	ctx := t.Context()
	o := newOriginOrder(t)
	cmd, err := commands.NewVerifyDeliveryTokenCommand(o.ID(), mustOwner(t, "user-1"), "abc", baseTime)
	require.NoError(t, err)

	repo := new(MockOriginOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OriginOrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
	limiter := new(MockLimiter)
	limiter.On("Allow", ctx, "verify:origin_order:"+o.ID().String()).Return(false, nil).Once()

	h := commands.NewRedeemOriginDeliveryCommandHandler(originUoWFactory{uow}, testVerifier(t), limiter, nil, nil)
	_, err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrTooManyAttempts)
	limiter.AssertExpectations(t)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestRedeemOriginDeliveryCommandHandler_Handle_IntruderIsNotCounted(t *testing.T) {
	ctx := t.Context()
	o := newOriginOrder(t)
	cmd, err := commands.NewVerifyDeliveryTokenCommand(o.ID(), mustOwner(t, "intruder"), "abc", baseTime)
	require.NoError(t, err)

	repo := new(MockOriginOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OriginOrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
	limiter := new(MockLimiter)

	h := commands.NewRedeemOriginDeliveryCommandHandler(originUoWFactory{uow}, testVerifier(t), limiter, nil, nil)
	_, err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrAccessDenied)
	limiter.AssertNotCalled(t, "Allow", mock.Anything, mock.Anything)
}
