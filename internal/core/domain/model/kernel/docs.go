// Package kernel provides the shared value objects of the ordering domain.
//
// The package includes:
//   - UUID: identifier for orders and zones, wrapping github.com/google/uuid
//   - GeoPoint: a validated latitude/longitude pair with great-circle distance
//
// Both are immutable. Their zero values are invalid and fail Validate, so a
// value that skipped its constructor is caught at the first aggregate that
// receives it.
package kernel
