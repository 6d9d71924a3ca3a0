package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/adrian5517/nagaclean-client/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// staticToken is a fixed TokenSource for tests.
type staticToken string

func (s staticToken) Token() string { return string(s) }

// ---------------------------------------------------------------------------
// Fake backend (mirrors the server's /api/pickups JSON contract)
// ---------------------------------------------------------------------------

type fakePickup struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	WasteType   string  `json:"wasteType"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	ReportedBy  string  `json:"reported_by"`
	Status      string  `json:"status"`
}

type fakeBackend struct {
	mu       sync.Mutex
	pickups  map[string]*fakePickup
	nextID   int
	lastAuth string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{pickups: make(map[string]*fakePickup)}
}

func (b *fakeBackend) server() *httptest.Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			b.mu.Lock()
			b.lastAuth = c.Request().Header.Get("Authorization")
			b.mu.Unlock()
			return next(c)
		}
	})

	e.GET("/api/pickups", b.list)
	e.GET("/api/pickups/pending", b.listPending)
	e.POST("/api/pickups", b.create)
	e.PUT("/api/pickups/:id", b.update)
	e.DELETE("/api/pickups/:id", b.remove)

	return httptest.NewServer(e)
}

func (b *fakeBackend) list(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*fakePickup, 0, len(b.pickups))
	for _, p := range b.pickups {
		out = append(out, p)
	}
	return c.JSON(http.StatusOK, out)
}

func (b *fakeBackend) listPending(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*fakePickup, 0, len(b.pickups))
	for _, p := range b.pickups {
		if p.Status == "pending" {
			out = append(out, p)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (b *fakeBackend) create(c echo.Context) error {
	var p fakePickup
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid payload"})
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	p.ID = fmt.Sprintf("p%d", b.nextID)
	if p.Status == "" {
		p.Status = "pending"
	}
	b.pickups[p.ID] = &p
	return c.JSON(http.StatusCreated, p)
}

func (b *fakeBackend) update(c echo.Context) error {
	var in fakePickup
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid payload"})
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.pickups[c.Param("id")]
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Pickup not found"})
	}

	// A body with only a status is a status delta; anything else replaces
	// the record, matching the real server's PUT handling.
	if in.Name == "" && in.Status != "" {
		p.Status = in.Status
	} else {
		in.ID = p.ID
		*p = in
	}
	return c.JSON(http.StatusOK, p)
}

func (b *fakeBackend) remove(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.pickups[c.Param("id")]; !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Pickup not found"})
	}
	delete(b.pickups, c.Param("id"))
	return c.JSON(http.StatusOK, map[string]string{"message": "Pickup deleted"})
}

func newTestPickupClient(t *testing.T, backend *fakeBackend, tokens TokenSource) (*PickupClient, func()) {
	t.Helper()
	srv := backend.server()
	client := NewClient(srv.URL+"/api", tokens, 5*time.Second, discardLogger)
	return NewPickupClient(client), srv.Close
}

func sampleDraft() domain.PickupDraft {
	return domain.PickupDraft{
		Name:        "Zone 1",
		Description: "pile",
		WasteType:   "Biodegradable",
		Latitude:    13.6218,
		Longitude:   123.1948,
		Date:        time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC),
		Time:        "08:00",
		ReportedBy:  "John Doe",
		Status:      domain.StatusPending,
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestPickupClient_CreateThenList_RoundTripsFields(t *testing.T) {
	backend := newFakeBackend()
	client, closeSrv := newTestPickupClient(t, backend, nil)
	defer closeSrv()

	created, err := client.Create(context.Background(), sampleDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.Status != domain.StatusPending {
		t.Errorf("unexpected created record: %+v", created)
	}

	listed, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 record, got %d", len(listed))
	}

	got := listed[0]
	if got.Name != "Zone 1" || got.Latitude != 13.6218 || got.Longitude != 123.1948 {
		t.Errorf("fields did not round-trip: %+v", got)
	}
	if got.Time != "08:00" || got.ReportedBy != "John Doe" {
		t.Errorf("fields did not round-trip: %+v", got)
	}
	if !got.Date.Equal(time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date did not round-trip: %v", got.Date)
	}
}

func TestPickupClient_UpdateStatus_MovesRecordOutOfPending(t *testing.T) {
	backend := newFakeBackend()
	client, closeSrv := newTestPickupClient(t, backend, nil)
	defer closeSrv()

	created, _ := client.Create(context.Background(), sampleDraft())

	updated, err := client.UpdateStatus(context.Background(), created.ID, domain.StatusAccepted)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != domain.StatusAccepted {
		t.Errorf("expected accepted, got %q", updated.Status)
	}

	pending, err := client.ListPending(context.Background())
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("accepted record still pending: %+v", pending)
	}

	all, _ := client.List(context.Background())
	if len(all) != 1 || all[0].Status != domain.StatusAccepted {
		t.Errorf("full list should show the accepted record: %+v", all)
	}
}

func TestPickupClient_Update_ReplacesRecord(t *testing.T) {
	backend := newFakeBackend()
	client, closeSrv := newTestPickupClient(t, backend, nil)
	defer closeSrv()

	created, _ := client.Create(context.Background(), sampleDraft())

	draft := sampleDraft()
	draft.Description = "cleared, rechecking"
	updated, err := client.Update(context.Background(), created.ID, draft)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Description != "cleared, rechecking" {
		t.Errorf("update not applied: %+v", updated)
	}
}

func TestPickupClient_Delete_NonexistentIDReturnsNotFound(t *testing.T) {
	backend := newFakeBackend()
	client, closeSrv := newTestPickupClient(t, backend, nil)
	defer closeSrv()

	err := client.Delete(context.Background(), "never-existed")
	if !errors.Is(err, domain.ErrPickupNotFound) {
		t.Fatalf("expected ErrPickupNotFound, got %v", err)
	}
}

func TestPickupClient_Delete_IsNotIdempotentButNeverPanics(t *testing.T) {
	backend := newFakeBackend()
	client, closeSrv := newTestPickupClient(t, backend, nil)
	defer closeSrv()

	created, _ := client.Create(context.Background(), sampleDraft())

	if err := client.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	// Second delete of the same id: "already gone" and "not found" are
	// indistinguishable to the client.
	if err := client.Delete(context.Background(), created.ID); !errors.Is(err, domain.ErrPickupNotFound) {
		t.Fatalf("expected ErrPickupNotFound on repeat delete, got %v", err)
	}
}

func TestClient_SendsBearerToken(t *testing.T) {
	backend := newFakeBackend()
	client, closeSrv := newTestPickupClient(t, backend, staticToken("tok-99"))
	defer closeSrv()

	_, _ = client.List(context.Background())

	backend.mu.Lock()
	defer backend.mu.Unlock()
	if backend.lastAuth != "Bearer tok-99" {
		t.Errorf("expected bearer header, got %q", backend.lastAuth)
	}
}

func TestClient_EmptyTokenOmitsAuthorizationHeader(t *testing.T) {
	backend := newFakeBackend()
	client, closeSrv := newTestPickupClient(t, backend, staticToken(""))
	defer closeSrv()

	_, _ = client.List(context.Background())

	backend.mu.Lock()
	defer backend.mu.Unlock()
	if backend.lastAuth != "" {
		t.Errorf("expected no authorization header, got %q", backend.lastAuth)
	}
}

func TestClient_Unauthorized_MapsToErrUnauthenticated(t *testing.T) {
	e := echo.New()
	e.HideBanner = true
	e.GET("/api/pickups", func(c echo.Context) error {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "invalid token"})
	})
	srv := httptest.NewServer(e)
	defer srv.Close()

	client := NewPickupClient(NewClient(srv.URL+"/api", nil, 5*time.Second, discardLogger))

	_, err := client.List(context.Background())
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestClient_TransportFailure_MapsToErrUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close() // nothing listens here any more

	client := NewPickupClient(NewClient(url+"/api", nil, time.Second, discardLogger))

	_, err := client.List(context.Background())
	if !errors.Is(err, domain.ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}
