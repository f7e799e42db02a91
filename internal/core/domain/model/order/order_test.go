package order_test

import (
	"math"
	"strings"
	"testing"
	"time"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func mustOwner(t *testing.T, id string) kernel.OwnerID {
	t.Helper()
	owner, err := kernel.NewOwnerID(id)
	require.NoError(t, err)
	return owner
}

func validItems(t *testing.T) []order.Item {
	t.Helper()
	ref, err := order.NewProductReference("margherita")
	require.NoError(t, err)
	price, err := kernel.NewMoney(1250)
	require.NoError(t, err)
	snap, err := order.NewProductSnapshot("Garlic bread", price, "")
	require.NoError(t, err)

	first, err := order.NewItem(ref, 2)
	require.NoError(t, err)
	second, err := order.NewItem(snap, 1)
	require.NoError(t, err)
	return []order.Item{first, second}
}

func validPricing(t *testing.T) order.Pricing {
	t.Helper()
	subtotal, err := kernel.NewMoney(3750)
	require.NoError(t, err)
	fee, err := kernel.NewMoney(299)
	require.NoError(t, err)
	pricing, err := order.NewPricing(subtotal, fee)
	require.NoError(t, err)
	return pricing
}

func validAddress(t *testing.T) order.Address {
	t.Helper()
	a, err := order.NewAddress("12 Baker Street", "London", "ring twice")
	require.NoError(t, err)
	return a
}

func newOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), mustOwner(t, "user-1"), validItems(t), validPricing(t), validAddress(t), baseTime)
	require.NoError(t, err)
	return o
}

func orderIn(t *testing.T, status order.Status) *order.Order {
	t.Helper()
	o := newOrder(t)
	switch status {
	case order.Pending:
	case order.Cancelled:
		require.NoError(t, o.Cancel(baseTime))
	case order.Delivered:
		require.NoError(t, o.Advance(baseTime))
		attachToken(t, o, baseTime)
		require.NoError(t, o.ConfirmDelivery(baseTime))
	default:
		for o.Status() != status {
			require.NoError(t, o.Advance(baseTime))
		}
	}
	o.ClearDomainEvents()
	return o
}

func attachToken(t *testing.T, o *order.Order, issuedAt time.Time) order.DeliveryToken {
	t.Helper()
	token, err := order.NewDeliveryToken("abcdef0123456789", issuedAt, issuedAt.Add(5*time.Minute))
	require.NoError(t, err)
	require.NoError(t, o.AttachDeliveryToken(token, issuedAt))
	return token
}

func TestNewOrder(t *testing.T) {
	t.Run("should create pending order", func(t *testing.T) {
		id := kernel.NewUUID()
		owner := mustOwner(t, "user-1")

		o, err := order.NewOrder(id, owner, validItems(t), validPricing(t), validAddress(t), baseTime)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(id))
		assert.True(t, o.OwnerID().IsEqual(owner))
		assert.Len(t, o.Items(), 2)
		assert.Equal(t, int64(4049), o.Pricing().Total().Minor())
		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, order.VerificationPending, o.VerificationStatus())
		assert.Nil(t, o.DeliveryToken())
		assert.Nil(t, o.VerifiedAt())
		assert.Nil(t, o.Rating())
		assert.Equal(t, baseTime, o.CreatedAt())
		assert.Equal(t, 0, o.Version())

		events := o.DomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, event.KindCreated, events[0].Kind)
		assert.Equal(t, "pending", events[0].Status)
	})

	t.Run("should fail without items", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), mustOwner(t, "user-1"), nil, validPricing(t), validAddress(t), baseTime)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Nil(t, o)
	})

	t.Run("should fail with zero value item", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), mustOwner(t, "user-1"), []order.Item{{}}, validPricing(t), validAddress(t), baseTime)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Nil(t, o)
	})

	t.Run("should join every validation error", func(t *testing.T) {
		o, err := order.NewOrder(kernel.UUID{}, kernel.OwnerID{}, nil, validPricing(t), order.Address{}, baseTime)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "items")
		assert.Contains(t, err.Error(), "address line")
	})
}

func TestOrder_Validate(t *testing.T) {
	var nilOrder *order.Order
	assert.Equal(t, order.ErrOrderIsNotConstructed, nilOrder.Validate())
	assert.Equal(t, order.ErrOrderIsNotConstructed, (&order.Order{}).Validate())
	assert.NoError(t, newOrder(t).Validate())
}

func TestOrder_Authorize(t *testing.T) {
	o := newOrder(t)

	require.NoError(t, o.Authorize(mustOwner(t, "user-1")))

	err := o.Authorize(mustOwner(t, "intruder"))
	require.ErrorIs(t, err, errs.ErrAccessDenied)
	assert.Contains(t, err.Error(), "intruder")
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("should cancel pending order", func(t *testing.T) {
		o := orderIn(t, order.Pending)
		now := baseTime.Add(time.Minute)

		require.NoError(t, o.Cancel(now))

		assert.Equal(t, order.Cancelled, o.Status())
		assert.Equal(t, now, o.UpdatedAt())
		require.Len(t, o.DomainEvents(), 1)
		assert.Equal(t, event.KindCancelled, o.DomainEvents()[0].Kind)
	})

	t.Run("should revoke live token when cancelling confirmed order", func(t *testing.T) {
		o := orderIn(t, order.Confirmed)
		attachToken(t, o, baseTime)

		require.NoError(t, o.Cancel(baseTime))

		assert.Equal(t, order.Cancelled, o.Status())
		assert.Nil(t, o.DeliveryToken())
		assert.Equal(t, order.VerificationPending, o.VerificationStatus())
	})

	t.Run("should accept repeated cancel without change", func(t *testing.T) {
		o := orderIn(t, order.Cancelled)

		require.NoError(t, o.Cancel(baseTime.Add(time.Hour)))

		assert.Equal(t, order.Cancelled, o.Status())
		assert.Empty(t, o.DomainEvents())
	})

	for _, status := range []order.Status{order.Preparing, order.OutForDelivery, order.Delivered} {
		t.Run("should reject cancel when "+status.String(), func(t *testing.T) {
			o := orderIn(t, status)

			err := o.Cancel(baseTime)

			require.ErrorIs(t, err, errs.ErrStateConflict)
			assert.Equal(t, status, o.Status())
		})
	}
}

func TestOrder_Rate(t *testing.T) {
	t.Run("should rate delivered order", func(t *testing.T) {
		o := orderIn(t, order.Delivered)
		rating, err := order.NewRating(5)
		require.NoError(t, err)

		require.NoError(t, o.Rate(rating, "hot and fast", baseTime))

		require.NotNil(t, o.Rating())
		assert.Equal(t, 5, o.Rating().Int())
		assert.Equal(t, "hot and fast", o.Review())
	})

	t.Run("should reject rating before delivery", func(t *testing.T) {
		o := orderIn(t, order.OutForDelivery)

		err := o.Rate(order.Rating(4), "", baseTime)

		require.ErrorIs(t, err, errs.ErrStateConflict)
		assert.Nil(t, o.Rating())
	})

	t.Run("should reject oversized review", func(t *testing.T) {
		o := orderIn(t, order.Delivered)

		err := o.Rate(order.Rating(3), strings.Repeat("a", 2001), baseTime)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject out of range rating values", func(t *testing.T) {
		for _, v := range []int{0, 6, -1} {
			_, err := order.NewRating(v)
			require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		}
	})
}

func TestOrder_AttachDeliveryToken(t *testing.T) {
	t.Run("should reject pending order", func(t *testing.T) {
		o := orderIn(t, order.Pending)
		token, err := order.NewDeliveryToken("abc", baseTime, baseTime.Add(time.Minute))
		require.NoError(t, err)

		err = o.AttachDeliveryToken(token, baseTime)

		require.ErrorIs(t, err, errs.ErrStateConflict)
		assert.Nil(t, o.DeliveryToken())
		assert.Equal(t, order.VerificationPending, o.VerificationStatus())
	})

	t.Run("should overwrite previous token", func(t *testing.T) {
		o := orderIn(t, order.Preparing)
		attachToken(t, o, baseTime)
		second, err := order.NewDeliveryToken("fedcba", baseTime.Add(time.Minute), baseTime.Add(6*time.Minute))
		require.NoError(t, err)

		require.NoError(t, o.AttachDeliveryToken(second, baseTime.Add(time.Minute)))

		require.NotNil(t, o.DeliveryToken())
		assert.Equal(t, "fedcba", o.DeliveryToken().Value())
		assert.Equal(t, order.VerificationQRGenerated, o.VerificationStatus())
	})
}

func TestOrder_ConfirmDelivery(t *testing.T) {
	t.Run("should deliver and clear token", func(t *testing.T) {
		o := orderIn(t, order.OutForDelivery)
		attachToken(t, o, baseTime)
		now := baseTime.Add(2 * time.Minute)

		require.NoError(t, o.ConfirmDelivery(now))

		assert.Equal(t, order.Delivered, o.Status())
		assert.Equal(t, order.VerificationVerified, o.VerificationStatus())
		assert.Nil(t, o.DeliveryToken())
		require.NotNil(t, o.VerifiedAt())
		assert.Equal(t, now, *o.VerifiedAt())
	})

	t.Run("should refuse a second redemption", func(t *testing.T) {
		o := orderIn(t, order.Delivered)
		verifiedAt := *o.VerifiedAt()

		err := o.ConfirmDelivery(baseTime.Add(time.Hour))

		require.ErrorIs(t, err, errs.ErrStateConflict)
		assert.Equal(t, verifiedAt, *o.VerifiedAt())
	})

	t.Run("should refuse without live token", func(t *testing.T) {
		o := orderIn(t, order.Confirmed)

		require.ErrorIs(t, o.ConfirmDelivery(baseTime), errs.ErrStateConflict)
		assert.Equal(t, order.Confirmed, o.Status())
	})
}

func TestOrder_RecordFailedVerification(t *testing.T) {
	t.Run("should keep status and revoke token", func(t *testing.T) {
		o := orderIn(t, order.OutForDelivery)
		attachToken(t, o, baseTime)

		o.RecordFailedVerification(baseTime)

		assert.Equal(t, order.OutForDelivery, o.Status())
		assert.Equal(t, order.VerificationAttemptPending, o.VerificationStatus())
		assert.Nil(t, o.DeliveryToken())
	})

	t.Run("should leave delivered order untouched", func(t *testing.T) {
		o := orderIn(t, order.Delivered)

		o.RecordFailedVerification(baseTime)

		assert.Equal(t, order.VerificationVerified, o.VerificationStatus())
		assert.Empty(t, o.DomainEvents())
	})
}

func TestOrder_ExpireDeliveryToken(t *testing.T) {
	o := orderIn(t, order.Confirmed)
	attachToken(t, o, baseTime)

	assert.False(t, o.ExpireDeliveryToken(baseTime.Add(5*time.Minute)))
	assert.NotNil(t, o.DeliveryToken())

	assert.True(t, o.ExpireDeliveryToken(baseTime.Add(5*time.Minute+time.Millisecond)))
	assert.Nil(t, o.DeliveryToken())
	assert.Equal(t, order.VerificationPending, o.VerificationStatus())

	assert.False(t, o.ExpireDeliveryToken(baseTime.Add(time.Hour)))
}

func TestRestoreOrder(t *testing.T) {
	snapshot := func(t *testing.T) order.Snapshot {
		return order.Snapshot{
			ID:                 kernel.NewUUID(),
			OwnerID:            mustOwner(t, "user-1"),
			Items:              validItems(t),
			Pricing:            validPricing(t),
			Address:            validAddress(t),
			Status:             order.Preparing,
			VerificationStatus: order.VerificationPending,
			CreatedAt:          baseTime,
			UpdatedAt:          baseTime,
			Version:            3,
		}
	}

	t.Run("should restore consistent state", func(t *testing.T) {
		o, err := order.RestoreOrder(snapshot(t))

		require.NoError(t, err)
		assert.Equal(t, order.Preparing, o.Status())
		assert.Equal(t, 3, o.Version())
		assert.Empty(t, o.DomainEvents())

		o.AdvanceVersion()
		assert.Equal(t, 4, o.Version())
	})

	t.Run("should reject token without qr_generated", func(t *testing.T) {
		s := snapshot(t)
		token, err := order.NewDeliveryToken("abc", baseTime, baseTime.Add(time.Minute))
		require.NoError(t, err)
		s.DeliveryToken = &token

		_, err = order.RestoreOrder(s)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject delivered without verifiedAt", func(t *testing.T) {
		s := snapshot(t)
		s.Status = order.Delivered
		s.VerificationStatus = order.VerificationVerified

		_, err := order.RestoreOrder(s)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject unknown status", func(t *testing.T) {
		s := snapshot(t)
		s.Status = order.Unknown

		_, err := order.RestoreOrder(s)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestPricing(t *testing.T) {
	sub, _ := kernel.NewMoney(1000)
	fee, _ := kernel.NewMoney(250)
	total, _ := kernel.NewMoney(1250)
	wrong, _ := kernel.NewMoney(1300)

	p, err := order.RestorePricing(sub, fee, total)
	require.NoError(t, err)
	assert.True(t, p.Total().IsEqual(total))

	_, err = order.RestorePricing(sub, fee, wrong)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestPricing_TotalOverflow(t *testing.T) {
	largest, _ := kernel.NewMoney(math.MaxInt64)
	one, _ := kernel.NewMoney(1)

	_, err := order.NewPricing(largest, one)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = order.RestorePricing(largest, one, kernel.Money{})
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewItem(t *testing.T) {
	ref, err := order.NewProductReference("sku-1")
	require.NoError(t, err)

	_, err = order.NewItem(ref, 0)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = order.NewItem(nil, 1)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = order.NewProductReference("  ")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	item, err := order.NewItem(ref, 3)
	require.NoError(t, err)
	switch r := item.Ref().(type) {
	case order.ProductReference:
		assert.Equal(t, "sku-1", r.ProductID())
	default:
		t.Fatalf("unexpected ref type %T", r)
	}
}
