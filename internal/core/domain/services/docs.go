// Package services provides the domain services of the ordering system:
// pricing logic and zone selection that do not belong to a single aggregate.
//
// The package includes:
//   - LinePricer: normalizes cart options and prices a line
//   - ZoneResolver: picks the cheapest delivery zone enclosing a point
//   - OrderAssembler: turns a cart into a pending order, pricing it against
//     the current catalog, and reprices carts without persisting
package services
