// Package order provides the Order aggregate of the ordering service: pricing
// invariants of lines and options, fulfillment context (table or delivery)
// and the status state machine.
//
// The package includes:
//   - Order: the aggregate root; total, status and version are only ever
//     changed by its own methods
//   - Line and OptionSelection: priced cart entries
//   - Status: the lifecycle state machine
//   - Event: domain events recorded by the aggregate and published by the
//     unit of work after commit
//
// Key business rules:
//   - total = Σ line totals + delivery fee
//   - line total = unit count × (unit price + Σ per-unit option charges) plus
//     Σ per-line option charges, rounded to cents
//   - status follows pending → accepted → preparing → ready → completed,
//     or pending → declined; completed and declined are terminal
//   - a wait time given on accept is kept until explicitly replaced
//   - every transition bumps Version, which clients use to discard stale events
package order
