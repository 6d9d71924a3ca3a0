package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/adrian5517/nagaclean-client/internal/core/domain"
	"github.com/adrian5517/nagaclean-client/internal/core/ports"
)

var discardLogger = zerolog.Nop()

const directionsOK = `{
	"code": "Ok",
	"routes": [{
		"distance": 1520.4,
		"duration": 312.7,
		"geometry": {
			"coordinates": [[123.1948, 13.6218], [123.1950, 13.6221], [123.1957, 13.6230]]
		}
	}]
}`

func TestDirectionsClient_Route_ParsesMapboxResponse(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(directionsOK))
	}))
	defer srv.Close()

	client := NewDirectionsClient(srv.URL, "pk.test", 5*time.Second, discardLogger)

	from := ports.Position{Latitude: 13.6218, Longitude: 123.1948}
	to := ports.Position{Latitude: 13.6230, Longitude: 123.1957}
	route, err := client.Route(context.Background(), from, to)
	if err != nil {
		t.Fatalf("route: %v", err)
	}

	if route.DistanceMeters != 1520.4 || route.DurationSeconds != 312.7 {
		t.Errorf("distance/duration = %v/%v", route.DistanceMeters, route.DurationSeconds)
	}
	if len(route.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(route.Points))
	}
	// Coordinates arrive lon-first and must come back lat/lng.
	if route.Points[0].Latitude != 13.6218 || route.Points[0].Longitude != 123.1948 {
		t.Errorf("first point = %+v", route.Points[0])
	}

	if !strings.HasPrefix(gotPath, "/directions/v5/mapbox/driving/123.194800,13.621800;123.195700,13.623000") {
		t.Errorf("unexpected path %q", gotPath)
	}
	if !strings.Contains(gotQuery, "geometries=geojson") || !strings.Contains(gotQuery, "access_token=pk.test") {
		t.Errorf("unexpected query %q", gotQuery)
	}
}

func TestDirectionsClient_Route_NoRouteReturnsServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"code": "NoRoute", "message": "No route found", "routes": []}`))
	}))
	defer srv.Close()

	client := NewDirectionsClient(srv.URL, "pk.test", 5*time.Second, discardLogger)

	_, err := client.Route(context.Background(), ports.Position{}, ports.Position{})
	if err == nil || !strings.Contains(err.Error(), "No route found") {
		t.Fatalf("expected no-route error, got %v", err)
	}
}

func TestDirectionsClient_Route_TransportFailureMapsToErrUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewDirectionsClient(url, "pk.test", time.Second, discardLogger)

	_, err := client.Route(context.Background(), ports.Position{}, ports.Position{})
	if !errors.Is(err, domain.ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestFixedLocator_ReturnsConfiguredPosition(t *testing.T) {
	loc := NewFixedLocator(13.6218, 123.1948, true)

	pos, err := loc.CurrentPosition(context.Background())
	if err != nil {
		t.Fatalf("current position: %v", err)
	}
	if pos.Latitude != 13.6218 || pos.Longitude != 123.1948 {
		t.Errorf("position = %+v", pos)
	}
}

func TestFixedLocator_DeniedPermission(t *testing.T) {
	loc := NewFixedLocator(13.6218, 123.1948, false)

	_, err := loc.CurrentPosition(context.Background())
	if !errors.Is(err, ports.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestFixedLocator_ZeroPositionIsUnavailable(t *testing.T) {
	loc := NewFixedLocator(0, 0, true)

	_, err := loc.CurrentPosition(context.Background())
	if !errors.Is(err, ports.ErrLocationUnavailable) {
		t.Fatalf("expected ErrLocationUnavailable, got %v", err)
	}
}
