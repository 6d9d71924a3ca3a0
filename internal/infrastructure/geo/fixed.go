package geo

import (
	"context"

	"github.com/adrian5517/nagaclean-client/internal/core/ports"
)

// FixedLocator reports a configured position. It stands in for a device
// positioning capability when the daemon runs without one; permission denial
// stays a distinct, persistent state rather than a generic failure.
type FixedLocator struct {
	position ports.Position
	granted  bool
}

func NewFixedLocator(lat, lng float64, granted bool) *FixedLocator {
	return &FixedLocator{
		position: ports.Position{Latitude: lat, Longitude: lng},
		granted:  granted,
	}
}

func (f *FixedLocator) CurrentPosition(_ context.Context) (ports.Position, error) {
	if !f.granted {
		return ports.Position{}, ports.ErrPermissionDenied
	}
	if f.position == (ports.Position{}) {
		return ports.Position{}, ports.ErrLocationUnavailable
	}
	return f.position, nil
}
