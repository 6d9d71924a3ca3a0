package domain

import (
	"errors"
	"time"
)

// PickupStatus represents the triage state of a pickup request.
type PickupStatus string

const (
	StatusPending  PickupStatus = "pending"
	StatusAccepted PickupStatus = "accepted"
	StatusDeclined PickupStatus = "declined"
)

// validTransitions defines the allowed status transitions. A record never
// returns to pending, and moving between accepted and declined requires an
// explicit update call.
var validTransitions = map[PickupStatus][]PickupStatus{
	StatusPending:  {StatusAccepted, StatusDeclined},
	StatusAccepted: {StatusDeclined},
	StatusDeclined: {StatusAccepted},
}

var ErrPickupNotFound = errors.New("pickup request not found")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrUnauthenticated = errors.New("authentication required")
var ErrUnreachable = errors.New("server unreachable")

// IsValid reports whether s is one of the known statuses.
func (s PickupStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDeclined:
		return true
	}
	return false
}

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s PickupStatus) CanTransitionTo(next PickupStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PickupRequest is a user-reported waste-collection site as stored on the server.
// The server assigns ID and owns the collection; the client never caches it.
type PickupRequest struct {
	ID          string       `json:"_id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	WasteType   string       `json:"wasteType"`
	Latitude    float64      `json:"latitude"`
	Longitude   float64      `json:"longitude"`
	Date        time.Time    `json:"date"`
	Time        string       `json:"time"`
	ReportedBy  string       `json:"reported_by"`
	Status      PickupStatus `json:"status"`
}

// PickupDraft carries a fully validated record ready for submission.
// Latitude/longitude are already split out of the combined location field and
// Date is normalized to UTC midnight of the chosen calendar day.
type PickupDraft struct {
	Name        string
	Description string
	WasteType   string
	Latitude    float64
	Longitude   float64
	Date        time.Time
	Time        string
	ReportedBy  string
	Status      PickupStatus
}
