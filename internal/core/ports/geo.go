package ports

import (
	"context"
	"errors"
)

// ErrPermissionDenied means the user refused the location capability. It is a
// distinct, user-visible state, not a transient failure.
var ErrPermissionDenied = errors.New("location permission denied")

// ErrLocationUnavailable means no position could be obtained.
var ErrLocationUnavailable = errors.New("location unavailable")

// Position is a geographic point.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Locator obtains the device position.
type Locator interface {
	CurrentPosition(ctx context.Context) (Position, error)
}

// Route is a drivable path between two positions.
type Route struct {
	Points          []Position
	DistanceMeters  float64
	DurationSeconds float64
}

// RouteProvider resolves a route from the current position to a pickup site.
type RouteProvider interface {
	Route(ctx context.Context, from, to Position) (*Route, error)
}
