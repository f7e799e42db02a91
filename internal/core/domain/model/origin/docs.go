// Package origin models origin-sourced orders: prepaid goods that move through seven
// fixed milestones (confirmed, preparing at origin, packed, shipped, in transit, out
// for delivery, delivered) and can never be cancelled.
package origin
