package order

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

const maxReviewLength = 2000

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrItemsAreRequired is returned when an order is created without items.
	ErrItemsAreRequired = errs.NewValueIsRequiredError("items")
)

// Order is the aggregate root of a purchase order. It owns both the fulfilment
// status and the proof-of-delivery sub-state.
//
// Order follows these invariants:
//   - A delivery token is stored iff the verification status is QRGenerated
//   - Status only moves forward, or diverts once to Cancelled
//   - Delivered is reached only through ConfirmDelivery, exactly once
//   - A rating exists only on Delivered orders
type Order struct {
	id      kernel.UUID
	ownerID kernel.OwnerID
	items   []Item
	pricing Pricing
	address Address

	status             Status
	verificationStatus VerificationStatus
	deliveryToken      *DeliveryToken
	verifiedAt         *time.Time

	rating *Rating
	review string

	createdAt time.Time
	updatedAt time.Time

	// version is the optimistic concurrency counter maintained by repositories
	version int

	events []event.OrderChanged

	isConstructed bool
}

// NewOrder creates a Pending order from a checkout snapshot.
//
// Parameters:
//   - id: identifier of the new order
//   - ownerID: the customer placing the order
//   - items: at least one item
//   - pricing: price snapshot; amounts are non-negative by construction
//   - address: delivery destination
//   - now: creation time
//
// Returns all validation failures joined into one error.
//
// Example:
//
//	ref, _ := order.NewProductReference("margherita")
//	item, _ := order.NewItem(ref, 2)
//	o, err := order.NewOrder(kernel.NewUUID(), owner, []order.Item{item}, pricing, address, time.Now())
func NewOrder(
	id kernel.UUID,
	ownerID kernel.OwnerID,
	items []Item,
	pricing Pricing,
	address Address,
	now time.Time,
) (*Order, error) {
	o := &Order{
		pricing:            pricing,
		status:             Pending,
		verificationStatus: VerificationPending,
		createdAt:          now,
		updatedAt:          now,
		isConstructed:      true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setOwner(ownerID),
		o.setItems(items),
		o.setAddress(address),
	); err != nil {
		return nil, err
	}

	o.record(event.KindCreated, now)
	return o, nil
}

// Snapshot is the full persisted state of an order, used by RestoreOrder.
type Snapshot struct {
	ID                 kernel.UUID
	OwnerID            kernel.OwnerID
	Items              []Item
	Pricing            Pricing
	Address            Address
	Status             Status
	VerificationStatus VerificationStatus
	DeliveryToken      *DeliveryToken
	VerifiedAt         *time.Time
	Rating             *Rating
	Review             string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Version            int
}

// RestoreOrder rebuilds an order from storage and re-checks every invariant,
// so corrupted rows surface as errors instead of inconsistent aggregates.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		pricing:            s.Pricing,
		status:             s.Status,
		verificationStatus: s.VerificationStatus,
		deliveryToken:      s.DeliveryToken,
		verifiedAt:         s.VerifiedAt,
		rating:             s.Rating,
		review:             s.Review,
		createdAt:          s.CreatedAt,
		updatedAt:          s.UpdatedAt,
		version:            s.Version,
		isConstructed:      true,
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setOwner(s.OwnerID),
		o.setItems(s.Items),
		o.setAddress(s.Address),
		s.Status.Validate(),
		s.VerificationStatus.Validate(),
		o.checkTokenInvariant(),
		o.checkDeliveryInvariant(),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the order was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) OwnerID() kernel.OwnerID {
	return o.ownerID
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

func (o *Order) Pricing() Pricing {
	return o.pricing
}

func (o *Order) Address() Address {
	return o.address
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) VerificationStatus() VerificationStatus {
	return o.verificationStatus
}

// DeliveryToken returns the live token, or nil when none is stored.
func (o *Order) DeliveryToken() *DeliveryToken {
	if o.deliveryToken == nil {
		return nil
	}
	t := *o.deliveryToken
	return &t
}

func (o *Order) VerifiedAt() *time.Time {
	return o.verifiedAt
}

func (o *Order) Rating() *Rating {
	return o.rating
}

func (o *Order) Review() string {
	return o.review
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

func (o *Order) Version() int {
	return o.version
}

// LifecycleState returns the status wire name.
func (o *Order) LifecycleState() string {
	return o.status.String()
}

// AcceptsDelivery reports whether a delivery token could currently be redeemed.
func (o *Order) AcceptsDelivery() bool {
	return o.status.CanIssueDeliveryToken()
}

// AdvanceVersion is called by repositories after a successful conditional write.
func (o *Order) AdvanceVersion() {
	o.version++
}

// Authorize returns an AccessDeniedError unless requester owns the order.
func (o *Order) Authorize(requester kernel.OwnerID) error {
	if !o.ownerID.IsEqual(requester) {
		return errs.NewAccessDeniedError("order "+o.id.String(), requester.String())
	}
	return nil
}

// Cancel moves the order to Cancelled.
//
// Business rules:
//   - Pending and Confirmed orders can be cancelled
//   - Preparing, OutForDelivery and Delivered orders return a StateConflictError
//   - Cancelling an already cancelled order succeeds without any change
//
// A live delivery token is revoked together with the cancellation.
func (o *Order) Cancel(now time.Time) error {
	if o.status == Cancelled {
		return nil
	}

	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	if o.deliveryToken != nil {
		o.deliveryToken = nil
		o.verificationStatus = VerificationPending
	}
	o.touch(event.KindCancelled, now)
	return nil
}

// Rate stores the customer's rating and review. Only Delivered orders can be rated;
// rating again replaces the previous values.
func (o *Order) Rate(rating Rating, review string, now time.Time) error {
	if o.status != Delivered {
		return errs.NewStateConflictError("rate", o.status.String())
	}
	if utf8.RuneCountInString(review) > maxReviewLength {
		return errs.NewValueIsOutOfRangeError("review length", utf8.RuneCountInString(review), 0, maxReviewLength)
	}

	o.rating = &rating
	o.review = review
	o.touch(event.KindRated, now)
	return nil
}

// Advance moves the order one step along Pending -> Confirmed -> Preparing -> OutForDelivery.
func (o *Order) Advance(now time.Time) error {
	newStatus, err := o.status.Advance()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.touch(event.KindAdvanced, now)
	return nil
}

// AttachDeliveryToken stores a freshly issued token and marks the QR code as generated.
// A previously stored token is overwritten, which invalidates it.
func (o *Order) AttachDeliveryToken(token DeliveryToken, now time.Time) error {
	if !o.status.CanIssueDeliveryToken() {
		return errs.NewStateConflictError("issue delivery token", o.status.String())
	}

	o.deliveryToken = &token
	o.verificationStatus = VerificationQRGenerated
	o.touch(event.KindDeliveryTokenIssued, now)
	return nil
}

// ConfirmDelivery redeems the live token: the order becomes Delivered, the token is
// cleared and verifiedAt is set. The caller must have verified the presented token.
func (o *Order) ConfirmDelivery(now time.Time) error {
	if o.deliveryToken == nil {
		return errs.NewStateConflictError("confirm delivery", "no live delivery token")
	}

	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	verifiedAt := now
	o.status = newStatus
	o.verificationStatus = VerificationVerified
	o.deliveryToken = nil
	o.verifiedAt = &verifiedAt
	o.touch(event.KindDeliveryVerified, now)
	return nil
}

// RecordFailedVerification marks a failed scan. Status is never changed; the live
// token, if any, is revoked so that only a newly issued code can succeed.
// Terminal orders are left untouched.
func (o *Order) RecordFailedVerification(now time.Time) {
	if o.status.IsTerminal() {
		return
	}

	o.deliveryToken = nil
	o.verificationStatus = VerificationAttemptPending
	o.touch(event.KindVerificationFailed, now)
}

// ExpireDeliveryToken clears a token whose expiry has passed and returns the
// verification status to Pending. It reports whether anything changed.
func (o *Order) ExpireDeliveryToken(now time.Time) bool {
	if o.deliveryToken == nil || !o.deliveryToken.IsExpiredAt(now) {
		return false
	}

	o.deliveryToken = nil
	o.verificationStatus = VerificationPending
	o.touch(event.KindDeliveryTokenExpired, now)
	return true
}

// DomainEvents returns the events recorded since the last ClearDomainEvents.
func (o *Order) DomainEvents() []event.OrderChanged {
	out := make([]event.OrderChanged, len(o.events))
	copy(out, o.events)
	return out
}

func (o *Order) ClearDomainEvents() {
	o.events = nil
}

func (o *Order) touch(kind event.Kind, now time.Time) {
	o.updatedAt = now
	o.record(kind, now)
}

func (o *Order) record(kind event.Kind, now time.Time) {
	o.events = append(o.events, event.OrderChanged{
		AggregateID:        o.id.String(),
		AggregateType:      event.AggregateOrder,
		OwnerID:            o.ownerID.String(),
		Kind:               kind,
		Status:             o.status.String(),
		VerificationStatus: o.verificationStatus.String(),
		OccurredAt:         now,
	})
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOwner(ownerID kernel.OwnerID) error {
	if err := ownerID.Validate(); err != nil {
		return err
	}
	o.ownerID = ownerID
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	for i, item := range items {
		if item.ref == nil || item.quantity <= 0 {
			return errs.NewValueIsInvalidErrorWithCause("items", fmt.Errorf("item %d is not constructed", i))
		}
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setAddress(address Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	o.address = address
	return nil
}

func (o *Order) checkTokenInvariant() error {
	hasToken := o.deliveryToken != nil
	if hasToken != (o.verificationStatus == VerificationQRGenerated) {
		return errs.NewValueIsInvalidErrorWithCause(
			"delivery token",
			fmt.Errorf("token present=%t with verification status %s", hasToken, o.verificationStatus),
		)
	}
	return nil
}

func (o *Order) checkDeliveryInvariant() error {
	delivered := o.status == Delivered
	if delivered != (o.verifiedAt != nil) {
		return errs.NewValueIsInvalidErrorWithCause(
			"verifiedAt",
			fmt.Errorf("verifiedAt set=%t with status %s", o.verifiedAt != nil, o.status),
		)
	}
	if o.rating != nil && !delivered {
		return errs.NewValueIsInvalidErrorWithCause(
			"rating",
			fmt.Errorf("rating present with status %s", o.status),
		)
	}
	return nil
}
