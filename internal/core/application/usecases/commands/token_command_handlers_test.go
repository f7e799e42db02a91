package commands_test

import (
	"errors"
	"testing"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// issuedOrder returns an out-for-delivery order holding a token issued at baseTime.
func issuedOrder(t *testing.T) (*order.Order, services.DeliveryTicket) {
	t.Helper()
	o := orderIn(t, order.OutForDelivery)
	ticket, err := testIssuer(t).Issue(o, baseTime)
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o, ticket
}

func verifyCommand(t *testing.T, o *order.Order, token string, issuedAt time.Time) commands.VerifyDeliveryTokenCommand {
	t.Helper()
	cmd, err := commands.NewVerifyDeliveryTokenCommand(o.ID(), mustOwner(t, "user-1"), token, issuedAt)
	require.NoError(t, err)
	return cmd
}

func TestIssueDeliveryTokenCommandHandler_Handle(t *testing.T) {
	t.Run("issues and stores a token", func(t *testing.T) {
		ctx := t.Context()
		o := orderIn(t, order.Confirmed)
		cmd, err := commands.NewIssueDeliveryTokenCommand(o.ID(), mustOwner(t, "user-1"))
		require.NoError(t, err)

		repo := new(MockOrderRepository)
		uow := new(MockUoW)
		metrics := new(MockMetrics)
		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("OrderRepository").Return(repo).Once(),
			repo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
			repo.On("Update", ctx, o).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
		)
		uow.On("Rollback", ctx).Return(nil).Once()
		metrics.On("TokenIssued", event.AggregateOrder).Once()

		h := commands.NewIssueDeliveryTokenCommandHandler(orderUoWFactory{uow}, testIssuer(t), metrics, fixedClock(baseTime))
		ticket, err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, baseTime, ticket.IssuedAt)
		assert.Equal(t, baseTime.Add(services.DefaultTokenTTL), ticket.Expiry)
		assert.Equal(t, services.FormatDeliveryPayload(o.ID(), ticket.Token, ticket.IssuedAt), ticket.Payload)
		assert.Equal(t, order.VerificationQRGenerated, o.VerificationStatus())
		require.NotNil(t, o.DeliveryToken())
		assert.Equal(t, ticket.Token, o.DeliveryToken().Value())
		uow.AssertExpectations(t)
		metrics.AssertExpectations(t)
	})

	t.Run("pending order is a state conflict", func(t *testing.T) {
		ctx := t.Context()
		o := orderIn(t, order.Pending)
		cmd, err := commands.NewIssueDeliveryTokenCommand(o.ID(), mustOwner(t, "user-1"))
		require.NoError(t, err)

		repo := new(MockOrderRepository)
		uow := new(MockUoW)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("OrderRepository").Return(repo).Once()
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()

		h := commands.NewIssueDeliveryTokenCommandHandler(orderUoWFactory{uow}, testIssuer(t), nil, fixedClock(baseTime))
		_, err = h.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrStateConflict)
		assert.Nil(t, o.DeliveryToken())
	})

	t.Run("other owner is denied", func(t *testing.T) {
		ctx := t.Context()
		o := orderIn(t, order.Confirmed)
		cmd, err := commands.NewIssueDeliveryTokenCommand(o.ID(), mustOwner(t, "intruder"))
		require.NoError(t, err)

		repo := new(MockOrderRepository)
		uow := new(MockUoW)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("OrderRepository").Return(repo).Once()
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()

		h := commands.NewIssueDeliveryTokenCommandHandler(orderUoWFactory{uow}, testIssuer(t), nil, nil)
		_, err = h.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrAccessDenied)
	})
}

func TestVerifyDeliveryTokenCommandHandler_Handle(t *testing.T) {
	t.Run("valid token delivers the order", func(t *testing.T) {
		ctx := t.Context()
		o, ticket := issuedOrder(t)
		now := baseTime.Add(time.Minute)

		repo := new(MockOrderRepository)
		uow := new(MockUoW)
		metrics := new(MockMetrics)
		limiter := new(MockLimiter)
		limiter.On("Allow", ctx, "verify:order:"+o.ID().String()).Return(true, nil).Once()
		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("OrderRepository").Return(repo).Once(),
			repo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
			repo.On("CompleteDelivery", ctx, o, ticket.Token).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
		)
		uow.On("Rollback", ctx).Return(nil).Once()
		metrics.On("VerificationAttempted", event.AggregateOrder, ports.OutcomeVerified).Once()

		h := commands.NewVerifyDeliveryTokenCommandHandler(orderUoWFactory{uow}, testVerifier(t), limiter, metrics, fixedClock(now))
		result, err := h.Handle(ctx, verifyCommand(t, o, ticket.Token, ticket.IssuedAt))

		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Empty(t, result.Reason)
		assert.Equal(t, "delivered", result.Status)
		assert.Equal(t, "verified", result.VerificationStatus)
		require.NotNil(t, result.VerifiedAt)
		assert.Equal(t, now, *result.VerifiedAt)
		assert.Nil(t, o.DeliveryToken())
		uow.AssertExpectations(t)
		repo.AssertExpectations(t)
		metrics.AssertExpectations(t)
		limiter.AssertExpectations(t)
	})

	t.Run("token exactly at the ttl is accepted", func(t *testing.T) {
		ctx := t.Context()
		o, ticket := issuedOrder(t)

		repo := new(MockOrderRepository)
		uow := new(MockUoW)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("OrderRepository").Return(repo).Once()
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
		repo.On("CompleteDelivery", ctx, o, ticket.Token).Return(nil).Once()
		uow.On("Commit", ctx).Return(nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()

		clock := fixedClock(baseTime.Add(services.DefaultTokenTTL))
		h := commands.NewVerifyDeliveryTokenCommandHandler(orderUoWFactory{uow}, testVerifier(t), nil, nil, clock)
		result, err := h.Handle(ctx, verifyCommand(t, o, ticket.Token, ticket.IssuedAt))

		require.NoError(t, err)
		assert.True(t, result.Success)
	})

	t.Run("expired token is a failed attempt", func(t *testing.T) {
		ctx := t.Context()
		o, ticket := issuedOrder(t)

		repo := new(MockOrderRepository)
		uow := new(MockUoW)
		metrics := new(MockMetrics)
		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("OrderRepository").Return(repo).Once(),
			repo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
			repo.On("Update", ctx, o).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
		)
		uow.On("Rollback", ctx).Return(nil).Once()
		metrics.On("VerificationAttempted", event.AggregateOrder, ports.OutcomeExpired).Once()

		clock := fixedClock(baseTime.Add(services.DefaultTokenTTL + time.Millisecond))
		h := commands.NewVerifyDeliveryTokenCommandHandler(orderUoWFactory{uow}, testVerifier(t), nil, metrics, clock)
		result, err := h.Handle(ctx, verifyCommand(t, o, ticket.Token, ticket.IssuedAt))

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, commands.ReasonExpired, result.Reason)
		assert.Equal(t, "out_for_delivery", result.Status)
		assert.Equal(t, "attempt_pending", result.VerificationStatus)
		assert.Nil(t, result.VerifiedAt)
		repo.AssertNotCalled(t, "CompleteDelivery", mock.Anything, mock.Anything, mock.Anything)
		uow.AssertExpectations(t)
		metrics.AssertExpectations(t)
	})

	t.Run("tampered token is a mismatch and status does not move", func(t *testing.T) {
		ctx := t.Context()
		o, ticket := issuedOrder(t)
		tampered := []byte(ticket.Token)
		if tampered[0] == 'a' {
			tampered[0] = 'b'
		} else {
			tampered[0] = 'a'
		}

		repo := new(MockOrderRepository)
		uow := new(MockUoW)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("OrderRepository").Return(repo).Once()
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
		repo.On("Update", ctx, o).Return(nil).Once()
		uow.On("Commit", ctx).Return(nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()

		h := commands.NewVerifyDeliveryTokenCommandHandler(orderUoWFactory{uow}, testVerifier(t), nil, nil, fixedClock(baseTime.Add(time.Second)))
		result, err := h.Handle(ctx, verifyCommand(t, o, string(tampered), ticket.IssuedAt))

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, commands.ReasonMismatch, result.Reason)
		assert.Equal(t, order.OutForDelivery, o.Status())
	})

	t.Run("cancelled order reports status without a write", func(t *testing.T) {
		ctx := t.Context()
		o, ticket := issuedOrder(t)
		o2 := orderIn(t, order.Confirmed)
		require.NoError(t, o2.Cancel(baseTime))

		repo := new(MockOrderRepository)
		uow := new(MockUoW)
		metrics := new(MockMetrics)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("OrderRepository").Return(repo).Once()
		repo.On("Get", ctx, o2.ID()).Return(o2, nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()
		metrics.On("VerificationAttempted", event.AggregateOrder, ports.OutcomeStatus).Once()

		cmd, err := commands.NewVerifyDeliveryTokenCommand(o2.ID(), mustOwner(t, "user-1"), ticket.Token, ticket.IssuedAt)
		require.NoError(t, err)
		h := commands.NewVerifyDeliveryTokenCommandHandler(orderUoWFactory{uow}, testVerifier(t), nil, metrics, fixedClock(baseTime))
		result, err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, commands.ReasonStatus, result.Reason)
		assert.Equal(t, "cancelled", result.Status)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
		assert.NotNil(t, o.DeliveryToken())
	})

	t.Run("losing a concurrent redemption is a state conflict", func(t *testing.T) {
		ctx := t.Context()
		o, ticket := issuedOrder(t)

		repo := new(MockOrderRepository)
		uow := new(MockUoW)
		metrics := new(MockMetrics)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("OrderRepository").Return(repo).Once()
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
		repo.On("CompleteDelivery", ctx, o, ticket.Token).
			Return(errs.NewConcurrentModificationError("order", o.ID().String())).Once()
		uow.On("Rollback", ctx).Return(nil).Once()
		metrics.On("VerificationAttempted", event.AggregateOrder, ports.OutcomeConflict).Once()

		h := commands.NewVerifyDeliveryTokenCommandHandler(orderUoWFactory{uow}, testVerifier(t), nil, metrics, fixedClock(baseTime))
		_, err := h.Handle(ctx, verifyCommand(t, o, ticket.Token, ticket.IssuedAt))

		require.ErrorIs(t, err, errs.ErrStateConflict)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
		metrics.AssertExpectations(t)
	})

	t.Run("refused by the limiter without writing", func(t *testing.T) {
		ctx := t.Context()
		o, ticket := issuedOrder(t)

		repo := new(MockOrderRepository)
		uow := new(MockUoW)
		limiter := new(MockLimiter)
		metrics := new(MockMetrics)
		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("OrderRepository").Return(repo).Once(),
			repo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
			limiter.On("Allow", ctx, "verify:order:"+o.ID().String()).Return(false, nil).Once(),
		)
		uow.On("Rollback", ctx).Return(nil).Once()
		metrics.On("VerificationAttempted", event.AggregateOrder, ports.OutcomeLimited).Once()

		h := commands.NewVerifyDeliveryTokenCommandHandler(orderUoWFactory{uow}, testVerifier(t), limiter, metrics, fixedClock(baseTime))
		_, err := h.Handle(ctx, verifyCommand(t, o, ticket.Token, ticket.IssuedAt))

		require.ErrorIs(t, err, errs.ErrTooManyAttempts)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "CompleteDelivery", mock.Anything, mock.Anything, mock.Anything)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
		assert.NotNil(t, o.DeliveryToken())
		assert.Equal(t, order.VerificationQRGenerated, o.VerificationStatus())
		metrics.AssertExpectations(t)
	})

	t.Run("limiter errors are returned", func(t *testing.T) {
		ctx := t.Context()
		o, ticket := issuedOrder(t)

		repo := new(MockOrderRepository)
		uow := new(MockUoW)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("OrderRepository").Return(repo).Once()
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()
		limiter := new(MockLimiter)
		limiter.On("Allow", ctx, mock.Anything).Return(false, errors.New("redis down")).Once()

		h := commands.NewVerifyDeliveryTokenCommandHandler(orderUoWFactory{uow}, testVerifier(t), limiter, nil, nil)
		_, err := h.Handle(ctx, verifyCommand(t, o, ticket.Token, ticket.IssuedAt))

		require.EqualError(t, err, "redis down")
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("other owner is denied without spending an attempt", func(t *testing.T) {
		ctx := t.Context()
		o, ticket := issuedOrder(t)

		repo := new(MockOrderRepository)
		uow := new(MockUoW)
		limiter := new(MockLimiter)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("OrderRepository").Return(repo).Once()
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()

		cmd, err := commands.NewVerifyDeliveryTokenCommand(o.ID(), mustOwner(t, "intruder"), ticket.Token, ticket.IssuedAt)
		require.NoError(t, err)
		h := commands.NewVerifyDeliveryTokenCommandHandler(orderUoWFactory{uow}, testVerifier(t), limiter, nil, fixedClock(baseTime))
		_, err = h.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrAccessDenied)
		limiter.AssertNotCalled(t, "Allow", mock.Anything, mock.Anything)
		assert.Equal(t, order.VerificationQRGenerated, o.VerificationStatus())
	})
}

func TestVerifyDeliveryTokenCommandHandler_IntrudersDoNotExhaustAttempts(t *testing.T) {
	ctx := t.Context()
	o, ticket := issuedOrder(t)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(repo)
	uow.On("Rollback", ctx).Return(nil)
	uow.On("Commit", ctx).Return(nil).Once()
	repo.On("Get", ctx, o.ID()).Return(o, nil)
	repo.On("CompleteDelivery", ctx, o, ticket.Token).Return(nil).Once()

	limiter := newBudgetLimiter(3)
	h := commands.NewVerifyDeliveryTokenCommandHandler(orderUoWFactory{uow}, testVerifier(t), limiter, nil, fixedClock(baseTime.Add(time.Minute)))

	intruderCmd, err := commands.NewVerifyDeliveryTokenCommand(o.ID(), mustOwner(t, "intruder"), ticket.Token, ticket.IssuedAt)
	require.NoError(t, err)
	for range 5 {
		_, err = h.Handle(ctx, intruderCmd)
		require.ErrorIs(t, err, errs.ErrAccessDenied)
	}
	assert.Zero(t, limiter.used("verify:order:"+o.ID().String()))

	result, err := h.Handle(ctx, verifyCommand(t, o, ticket.Token, ticket.IssuedAt))

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "delivered", result.Status)
	assert.Equal(t, 1, limiter.used("verify:order:"+o.ID().String()))
	repo.AssertExpectations(t)
}

func TestExpireDeliveryTokensCommandHandler_Handle(t *testing.T) {
	t.Run("clears expired tokens and skips concurrent changes", func(t *testing.T) {
		ctx := t.Context()
		first, _ := issuedOrder(t)
		second, _ := issuedOrder(t)
		now := baseTime.Add(services.DefaultTokenTTL + time.Minute)
		cmd, err := commands.NewExpireDeliveryTokensCommand(50)
		require.NoError(t, err)

		repo := new(MockOrderRepository)
		uow := new(MockUoW)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("OrderRepository").Return(repo).Once()
		repo.On("GetAllWithExpiredTokens", ctx, now, 50).Return([]*order.Order{first, second}, nil).Once()
		repo.On("Update", ctx, first).Return(nil).Once()
		repo.On("Update", ctx, second).Return(errs.NewConcurrentModificationError("order", second.ID().String())).Once()
		uow.On("Commit", ctx).Return(nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()

		h := commands.NewExpireDeliveryTokensCommandHandler(orderUoWFactory{uow}, fixedClock(now))
		count, err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, 1, count)
		assert.Nil(t, first.DeliveryToken())
		assert.Equal(t, order.VerificationPending, first.VerificationStatus())
		assert.Equal(t, order.OutForDelivery, first.Status())
		uow.AssertExpectations(t)
	})

	t.Run("nothing to expire does not commit", func(t *testing.T) {
		ctx := t.Context()
		cmd, err := commands.NewExpireDeliveryTokensCommand(10)
		require.NoError(t, err)

		repo := new(MockOrderRepository)
		uow := new(MockUoW)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("OrderRepository").Return(repo).Once()
		repo.On("GetAllWithExpiredTokens", ctx, baseTime, 10).Return([]*order.Order{}, nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()

		h := commands.NewExpireDeliveryTokensCommandHandler(orderUoWFactory{uow}, fixedClock(baseTime))
		count, err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Zero(t, count)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})
}
