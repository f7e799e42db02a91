// Package order provides the Order aggregate root: a purchase order that moves
// through a bounded lifecycle and carries its own proof-of-delivery sub-state.
//
// The package includes:
//   - Order: identity, items, pricing snapshot, address and lifecycle
//   - Status: the fulfilment state machine
//   - VerificationStatus: the proof-of-delivery sub-state
//   - DeliveryToken: the single live token an order may hold
//
// Key business rules:
//   - Status follows Pending -> Confirmed -> Preparing -> OutForDelivery -> Delivered,
//     and Pending or Confirmed orders may be Cancelled
//   - Delivered is only reached by redeeming a valid delivery token
//   - Delivery tokens can be issued while Confirmed, Preparing or OutForDelivery
//   - Only delivered orders can be rated
package order
