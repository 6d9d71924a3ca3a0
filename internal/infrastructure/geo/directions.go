// Package geo holds the narrow geolocation and routing adapters. The core
// consumes them as opaque collaborators; anything richer (map rendering,
// device positioning) lives outside this module.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/adrian5517/nagaclean-client/internal/core/domain"
	"github.com/adrian5517/nagaclean-client/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// DirectionsClient resolves driving routes through a Mapbox-compatible
// directions API (geojson geometry, distance in metres, duration in seconds).
type DirectionsClient struct {
	http    *http.Client
	baseURL string
	token   string
	logger  zerolog.Logger
}

func NewDirectionsClient(baseURL, token string, timeout time.Duration, logger zerolog.Logger) *DirectionsClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &DirectionsClient{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		logger:  logger,
	}
}

type directionsResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"` // [lon, lat] pairs
		} `json:"geometry"`
	} `json:"routes"`
}

func (d *DirectionsClient) Route(ctx context.Context, from, to ports.Position) (*ports.Route, error) {
	q := url.Values{}
	q.Set("geometries", "geojson")
	q.Set("access_token", d.token)

	// Waypoints go lon-first, matching the geojson convention.
	path := fmt.Sprintf("/directions/v5/mapbox/driving/%f,%f;%f,%f",
		from.Longitude, from.Latitude, to.Longitude, to.Latitude)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build directions request: %w", err)
	}

	resp, err := d.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read directions response: %w", err)
	}

	var parsed directionsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode directions response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || len(parsed.Routes) == 0 {
		msg := parsed.Message
		if msg == "" {
			msg = parsed.Code
		}
		return nil, fmt.Errorf("no route found: %s", msg)
	}

	best := parsed.Routes[0]
	points := make([]ports.Position, 0, len(best.Geometry.Coordinates))
	for _, c := range best.Geometry.Coordinates {
		if len(c) < 2 {
			continue
		}
		points = append(points, ports.Position{Latitude: c[1], Longitude: c[0]})
	}

	d.logger.Debug().
		Float64("distance_m", best.Distance).
		Float64("duration_s", best.Duration).
		Int("points", len(points)).
		Msg("route resolved")

	return &ports.Route{
		Points:          points,
		DistanceMeters:  best.Distance,
		DurationSeconds: best.Duration,
	}, nil
}
