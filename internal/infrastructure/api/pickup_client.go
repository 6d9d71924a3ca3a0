package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/adrian5517/nagaclean-client/internal/core/domain"
)

// PickupClient implements ports.PickupRepository against the remote
// /api/pickups collection. It keeps no cache: every read re-fetches.
type PickupClient struct {
	client *Client
}

func NewPickupClient(client *Client) *PickupClient {
	return &PickupClient{client: client}
}

// pickupPayload is the create/update body. The server assigns _id and treats
// the stored record as the source of truth.
type pickupPayload struct {
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	WasteType   string  `json:"wasteType"`
	ReportedBy  string  `json:"reported_by"`
	Status      string  `json:"status"`
}

func payloadFromDraft(d domain.PickupDraft) pickupPayload {
	return pickupPayload{
		Name:        d.Name,
		Latitude:    d.Latitude,
		Longitude:   d.Longitude,
		Description: d.Description,
		Date:        d.Date.Format(time.RFC3339),
		Time:        d.Time,
		WasteType:   d.WasteType,
		ReportedBy:  d.ReportedBy,
		Status:      string(d.Status),
	}
}

func (p *PickupClient) List(ctx context.Context) ([]domain.PickupRequest, error) {
	var items []domain.PickupRequest
	if err := p.client.do(ctx, "pickups_list", http.MethodGet, "/pickups", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (p *PickupClient) ListPending(ctx context.Context) ([]domain.PickupRequest, error) {
	var items []domain.PickupRequest
	if err := p.client.do(ctx, "pickups_pending", http.MethodGet, "/pickups/pending", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (p *PickupClient) Create(ctx context.Context, draft domain.PickupDraft) (*domain.PickupRequest, error) {
	var created domain.PickupRequest
	if err := p.client.do(ctx, "pickups_create", http.MethodPost, "/pickups", payloadFromDraft(draft), &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (p *PickupClient) Update(ctx context.Context, id string, draft domain.PickupDraft) (*domain.PickupRequest, error) {
	var updated domain.PickupRequest
	err := p.client.do(ctx, "pickups_update", http.MethodPut, "/pickups/"+id, payloadFromDraft(draft), &updated)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &updated, nil
}

func (p *PickupClient) UpdateStatus(ctx context.Context, id string, status domain.PickupStatus) (*domain.PickupRequest, error) {
	body := map[string]string{"status": string(status)}

	var updated domain.PickupRequest
	err := p.client.do(ctx, "pickups_status", http.MethodPut, "/pickups/"+id, body, &updated)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &updated, nil
}

func (p *PickupClient) Delete(ctx context.Context, id string) error {
	if err := p.client.do(ctx, "pickups_delete", http.MethodDelete, "/pickups/"+id, nil, nil); err != nil {
		return mapNotFound(err)
	}
	return nil
}

// mapNotFound converts a 404 rejection into domain.ErrPickupNotFound. The
// caller cannot tell "already gone" from "never existed" and should not try.
func mapNotFound(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", domain.ErrPickupNotFound, apiErr.Message)
	}
	return err
}
