package ports

import (
	"context"

	"ordering/internal/core/domain/model/menu"
)

// Catalog provides the current menu snapshot used for pricing.
type Catalog interface {
	Current(ctx context.Context) (*menu.Catalog, error)
}

// CatalogSource loads a fresh snapshot from the system of record. Catalog
// implementations usually cache a CatalogSource.
type CatalogSource interface {
	Load(ctx context.Context) (*menu.Catalog, error)
}
