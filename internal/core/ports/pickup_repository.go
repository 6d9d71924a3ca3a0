package ports

import (
	"context"

	"github.com/adrian5517/nagaclean-client/internal/core/domain"
)

// PickupRepository defines the operations against the remote pickup-request
// collection. Every read re-fetches from the server; implementations keep no
// cache of their own.
type PickupRepository interface {
	List(ctx context.Context) ([]domain.PickupRequest, error)
	ListPending(ctx context.Context) ([]domain.PickupRequest, error)
	Create(ctx context.Context, draft domain.PickupDraft) (*domain.PickupRequest, error)
	// Update replaces the full record identified by id.
	Update(ctx context.Context, id string, draft domain.PickupDraft) (*domain.PickupRequest, error)
	// UpdateStatus sends a status-only delta for the record identified by id.
	UpdateStatus(ctx context.Context, id string, status domain.PickupStatus) (*domain.PickupRequest, error)
	Delete(ctx context.Context, id string) error
}
