package ports

import (
	"context"

	"github.com/adrian5517/nagaclean-client/internal/core/domain"
)

// PickupForm carries the raw field values exactly as entered in the schedule
// form. Location is the combined "lat, lon" string; Date and Time are the
// strict YYYY-MM-DD and 24-hour HH:MM strings.
type PickupForm struct {
	Name        string `form:"name"        validate:"required"`
	Description string `form:"description" validate:"required"`
	WasteType   string `form:"wasteType"   validate:"required"`
	Date        string `form:"date"        validate:"required,pickupdate"`
	Time        string `form:"time"        validate:"required,time24"`
	ReportedBy  string `form:"reported_by" validate:"required"`
	Location    string `form:"location"    validate:"required,latlng"`
}

// PickupService owns client-side validation and the status lifecycle on top
// of the remote repository. Validation failures are returned as
// domain.ValidationErrors and never reach the network.
type PickupService interface {
	List(ctx context.Context) ([]domain.PickupRequest, error)
	ListPending(ctx context.Context) ([]domain.PickupRequest, error)
	Create(ctx context.Context, form PickupForm) (*domain.PickupRequest, error)
	Update(ctx context.Context, id string, form PickupForm, status domain.PickupStatus) (*domain.PickupRequest, error)
	// UpdateStatus transitions the record from its current status to next,
	// rejecting anything the transition table forbids.
	UpdateStatus(ctx context.Context, id string, current, next domain.PickupStatus) (*domain.PickupRequest, error)
	Delete(ctx context.Context, id string) error
}
