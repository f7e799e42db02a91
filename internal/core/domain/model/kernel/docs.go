// Package kernel provides the shared value objects of the order domain.
//
// The package includes:
//   - UUID: identifier of orders and origin orders
//   - OwnerID: the authenticated customer an order belongs to
//   - Money: non-negative amounts in minor units used by order pricing
//
// All values are immutable; zero values are invalid and are rejected by Validate.
package kernel
