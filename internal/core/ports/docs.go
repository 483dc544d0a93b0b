// Package ports defines the contracts between the ordering core and its
// infrastructure: persistence, catalog, delivery zones, geocoding and event
// publishing.
package ports
