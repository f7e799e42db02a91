package origin

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

var ErrOriginOrderIsNotConstructed = errors.New("OriginOrder must be created via NewOriginOrder constructor")

// OriginOrder is a prepaid order fulfilled by an external origin. It has no
// cancellation path and tracks progress as a Milestone. The terminal stage can be
// reached by advancing or by redeeming a delivery token held on this record.
type OriginOrder struct {
	id      kernel.UUID
	ownerID kernel.OwnerID
	items   []order.Item
	pricing order.Pricing
	address order.Address

	milestone          Milestone
	verificationStatus order.VerificationStatus
	deliveryToken      *order.DeliveryToken
	verifiedAt         *time.Time

	createdAt time.Time
	updatedAt time.Time
	version   int

	events []event.OrderChanged

	isConstructed bool
}

// NewOriginOrder creates an origin order at MilestoneConfirmed.
func NewOriginOrder(
	id kernel.UUID,
	ownerID kernel.OwnerID,
	items []order.Item,
	pricing order.Pricing,
	address order.Address,
	now time.Time,
) (*OriginOrder, error) {
	o := &OriginOrder{
		pricing:            pricing,
		milestone:          MilestoneConfirmed,
		verificationStatus: order.VerificationPending,
		createdAt:          now,
		updatedAt:          now,
		isConstructed:      true,
	}

	if err := errors.Join(
		o.setIdentity(id, ownerID),
		o.setItems(items),
		address.Validate(),
	); err != nil {
		return nil, err
	}
	o.address = address

	o.record(event.KindCreated, now)
	return o, nil
}

// Snapshot is the persisted state of an origin order.
type Snapshot struct {
	ID                 kernel.UUID
	OwnerID            kernel.OwnerID
	Items              []order.Item
	Pricing            order.Pricing
	Address            order.Address
	Milestone          Milestone
	VerificationStatus order.VerificationStatus
	DeliveryToken      *order.DeliveryToken
	VerifiedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Version            int
}

func RestoreOriginOrder(s Snapshot) (*OriginOrder, error) {
	o := &OriginOrder{
		pricing:            s.Pricing,
		address:            s.Address,
		milestone:          s.Milestone,
		verificationStatus: s.VerificationStatus,
		deliveryToken:      s.DeliveryToken,
		verifiedAt:         s.VerifiedAt,
		createdAt:          s.CreatedAt,
		updatedAt:          s.UpdatedAt,
		version:            s.Version,
		isConstructed:      true,
	}

	var tokenErr error
	if (s.DeliveryToken != nil) != (s.VerificationStatus == order.VerificationQRGenerated) {
		tokenErr = errs.NewValueIsInvalidErrorWithCause(
			"delivery token",
			fmt.Errorf("token present=%t with verification status %s", s.DeliveryToken != nil, s.VerificationStatus),
		)
	}

	if err := errors.Join(
		o.setIdentity(s.ID, s.OwnerID),
		o.setItems(s.Items),
		s.Address.Validate(),
		s.Milestone.Validate(),
		s.VerificationStatus.Validate(),
		tokenErr,
		o.checkDeliveryInvariant(),
	); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *OriginOrder) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOriginOrderIsNotConstructed
	}
	return nil
}

func (o *OriginOrder) ID() kernel.UUID                              { return o.id }
func (o *OriginOrder) OwnerID() kernel.OwnerID                      { return o.ownerID }
func (o *OriginOrder) Pricing() order.Pricing                       { return o.pricing }
func (o *OriginOrder) Address() order.Address                       { return o.address }
func (o *OriginOrder) Milestone() Milestone                         { return o.milestone }
func (o *OriginOrder) VerificationStatus() order.VerificationStatus { return o.verificationStatus }
func (o *OriginOrder) VerifiedAt() *time.Time                       { return o.verifiedAt }
func (o *OriginOrder) CreatedAt() time.Time                         { return o.createdAt }
func (o *OriginOrder) UpdatedAt() time.Time                         { return o.updatedAt }
func (o *OriginOrder) Version() int                                 { return o.version }

func (o *OriginOrder) Items() []order.Item {
	out := make([]order.Item, len(o.items))
	copy(out, o.items)
	return out
}

func (o *OriginOrder) DeliveryToken() *order.DeliveryToken {
	if o.deliveryToken == nil {
		return nil
	}
	t := *o.deliveryToken
	return &t
}

// IsActive reports whether the order has not reached the delivered stage.
func (o *OriginOrder) IsActive() bool {
	return o.milestone.IsActive()
}

// LifecycleState returns the milestone wire name.
func (o *OriginOrder) LifecycleState() string {
	return o.milestone.String()
}

// AcceptsDelivery reports whether a delivery token could currently be redeemed.
func (o *OriginOrder) AcceptsDelivery() bool {
	return o.IsActive()
}

// AdvanceVersion is called by repositories after a successful conditional write.
func (o *OriginOrder) AdvanceVersion() {
	o.version++
}

func (o *OriginOrder) Authorize(requester kernel.OwnerID) error {
	if !o.ownerID.IsEqual(requester) {
		return errs.NewAccessDeniedError("origin order "+o.id.String(), requester.String())
	}
	return nil
}

// Advance moves to the next milestone. At the terminal stage it is a no-op.
// Reaching the terminal stage revokes any live token.
func (o *OriginOrder) Advance(now time.Time) Milestone {
	next := o.milestone.Next()
	if next == o.milestone {
		return o.milestone
	}

	o.milestone = next
	if !next.IsActive() {
		o.deliveryToken = nil
		if o.verificationStatus == order.VerificationQRGenerated {
			o.verificationStatus = order.VerificationPending
		}
	}
	o.touch(event.KindMilestoneReached, now)
	return o.milestone
}

// AttachDeliveryToken stores a token for terminal redemption while the order is active.
func (o *OriginOrder) AttachDeliveryToken(token order.DeliveryToken, now time.Time) error {
	if !o.IsActive() {
		return errs.NewStateConflictError("issue delivery token", o.milestone.String())
	}

	o.deliveryToken = &token
	o.verificationStatus = order.VerificationQRGenerated
	o.touch(event.KindDeliveryTokenIssued, now)
	return nil
}

// ConfirmDelivery redeems the live token and jumps to the terminal stage.
func (o *OriginOrder) ConfirmDelivery(now time.Time) error {
	if !o.IsActive() || o.deliveryToken == nil {
		return errs.NewStateConflictError("confirm delivery", o.milestone.String())
	}

	verifiedAt := now
	o.milestone = LastMilestone
	o.verificationStatus = order.VerificationVerified
	o.deliveryToken = nil
	o.verifiedAt = &verifiedAt
	o.touch(event.KindDeliveryVerified, now)
	return nil
}

// RecordFailedVerification revokes the live token without touching the milestone.
func (o *OriginOrder) RecordFailedVerification(now time.Time) {
	if !o.IsActive() {
		return
	}

	o.deliveryToken = nil
	o.verificationStatus = order.VerificationAttemptPending
	o.touch(event.KindVerificationFailed, now)
}

func (o *OriginOrder) DomainEvents() []event.OrderChanged {
	out := make([]event.OrderChanged, len(o.events))
	copy(out, o.events)
	return out
}

func (o *OriginOrder) ClearDomainEvents() {
	o.events = nil
}

func (o *OriginOrder) touch(kind event.Kind, now time.Time) {
	o.updatedAt = now
	o.record(kind, now)
}

func (o *OriginOrder) record(kind event.Kind, now time.Time) {
	index := o.milestone.Index()
	o.events = append(o.events, event.OrderChanged{
		AggregateID:        o.id.String(),
		AggregateType:      event.AggregateOriginOrder,
		OwnerID:            o.ownerID.String(),
		Kind:               kind,
		Status:             o.milestone.String(),
		VerificationStatus: o.verificationStatus.String(),
		Milestone:          &index,
		OccurredAt:         now,
	})
}

// checkDeliveryInvariant ties verifiedAt to a redemption: it is set only at the last
// milestone and exactly when verification is verified. Advancing to the last
// milestone leaves it unset.
func (o *OriginOrder) checkDeliveryInvariant() error {
	verified := o.verifiedAt != nil
	if verified && o.milestone.IsActive() {
		return errs.NewValueIsInvalidErrorWithCause(
			"verifiedAt",
			fmt.Errorf("verifiedAt set at milestone %s", o.milestone),
		)
	}
	if verified != (o.verificationStatus == order.VerificationVerified) {
		return errs.NewValueIsInvalidErrorWithCause(
			"verifiedAt",
			fmt.Errorf("verifiedAt set=%t with verification status %s", verified, o.verificationStatus),
		)
	}
	return nil
}

func (o *OriginOrder) setIdentity(id kernel.UUID, ownerID kernel.OwnerID) error {
	if err := errors.Join(id.Validate(), ownerID.Validate()); err != nil {
		return err
	}
	o.id = id
	o.ownerID = ownerID
	return nil
}

func (o *OriginOrder) setItems(items []order.Item) error {
	if len(items) == 0 {
		return order.ErrItemsAreRequired
	}
	for i, item := range items {
		if item.Ref() == nil || item.Quantity() <= 0 {
			return errs.NewValueIsInvalidErrorWithCause("items", fmt.Errorf("item %d is not constructed", i))
		}
	}
	o.items = make([]order.Item, len(items))
	copy(o.items, items)
	return nil
}
