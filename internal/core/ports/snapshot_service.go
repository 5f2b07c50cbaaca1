// internal/core/ports/snapshot_service.go
package ports

import (
	"context"

	"github.com/retailtools/item-inspector/internal/core/domain"
)

// SnapshotService defines the application service port for item inspection.
// This interface is implemented by the application service and consumed by
// the HTTP handlers, the inspector controller, and the warmup worker.
type SnapshotService interface {
	// GetSnapshot composes the full snapshot for an item. Returns
	// services.ErrItemNotFound when the item code is unknown.
	GetSnapshot(ctx context.Context, itemCode string) (*domain.Snapshot, error)

	// ResolveBarcode maps a barcode to zero, one, or many item codes.
	// Logical failure (no match, empty input) is reported via the
	// Resolution, not an error.
	ResolveBarcode(ctx context.Context, barcode string) (*domain.Resolution, error)
}
