package order_test

import (
	"testing"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status   order.Status
		expected string
	}{
		{order.Pending, "pending"},
		{order.Confirmed, "confirmed"},
		{order.Preparing, "preparing"},
		{order.OutForDelivery, "out_for_delivery"},
		{order.Delivered, "delivered"},
		{order.Cancelled, "cancelled"},
		{order.Unknown, "unknown"},
		{order.Status(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.String())
		})
	}
}

func TestParseStatus(t *testing.T) {
	t.Run("should parse every wire name", func(t *testing.T) {
		for _, s := range []order.Status{
			order.Pending, order.Confirmed, order.Preparing,
			order.OutForDelivery, order.Delivered, order.Cancelled,
		} {
			parsed, err := order.ParseStatus(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("should reject unknown names", func(t *testing.T) {
		_, err := order.ParseStatus("shipped")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestStatus_Cancel(t *testing.T) {
	tests := []struct {
		name    string
		from    order.Status
		wantErr bool
	}{
		{"pending can be cancelled", order.Pending, false},
		{"confirmed can be cancelled", order.Confirmed, false},
		{"cancelled stays cancelled", order.Cancelled, false},
		{"preparing cannot be cancelled", order.Preparing, true},
		{"out for delivery cannot be cancelled", order.OutForDelivery, true},
		{"delivered cannot be cancelled", order.Delivered, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := tt.from.Cancel()
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrStateConflict)
				assert.Equal(t, order.Unknown, next)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, order.Cancelled, next)
		})
	}
}

func TestStatus_Advance(t *testing.T) {
	t.Run("should walk the fulfilment path", func(t *testing.T) {
		s := order.Pending
		for _, want := range []order.Status{order.Confirmed, order.Preparing, order.OutForDelivery} {
			next, err := s.Advance()
			require.NoError(t, err)
			assert.Equal(t, want, next)
			s = next
		}
	})

	t.Run("should never advance into delivered", func(t *testing.T) {
		_, err := order.OutForDelivery.Advance()
		require.ErrorIs(t, err, errs.ErrStateConflict)
	})

	t.Run("should reject terminal statuses", func(t *testing.T) {
		for _, s := range []order.Status{order.Delivered, order.Cancelled} {
			_, err := s.Advance()
			require.ErrorIs(t, err, errs.ErrStateConflict)
		}
	})
}

func TestStatus_Deliver(t *testing.T) {
	for _, s := range []order.Status{order.Confirmed, order.Preparing, order.OutForDelivery} {
		next, err := s.Deliver()
		require.NoError(t, err, s.String())
		assert.Equal(t, order.Delivered, next)
	}

	for _, s := range []order.Status{order.Pending, order.Delivered, order.Cancelled} {
		_, err := s.Deliver()
		require.ErrorIs(t, err, errs.ErrStateConflict, s.String())
	}
}

func TestStatus_TerminalAndIssuable(t *testing.T) {
	assert.True(t, order.Delivered.IsTerminal())
	assert.True(t, order.Cancelled.IsTerminal())
	assert.False(t, order.OutForDelivery.IsTerminal())

	assert.False(t, order.Pending.CanIssueDeliveryToken())
	assert.True(t, order.Confirmed.CanIssueDeliveryToken())
	assert.True(t, order.Preparing.CanIssueDeliveryToken())
	assert.True(t, order.OutForDelivery.CanIssueDeliveryToken())
	assert.False(t, order.Delivered.CanIssueDeliveryToken())
}

func TestVerificationStatus_Parse(t *testing.T) {
	v, err := order.ParseVerificationStatus("attempt_pending")
	require.NoError(t, err)
	assert.Equal(t, order.VerificationAttemptPending, v)

	_, err = order.ParseVerificationStatus("done")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	require.Error(t, order.VerificationUnknown.Validate())
}
