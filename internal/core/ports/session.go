package ports

import (
	"context"
	"errors"
	"time"

	"github.com/adrian5517/nagaclean-client/internal/core/domain"
)

// ErrKeyNotFound is returned by KeyValue.Get for missing keys.
var ErrKeyNotFound = errors.New("key not found")

// KeyValue is the durable local key-value store backing session persistence.
// Writes are durable once the call returns. Each key has a single writer.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// RegisterInput carries the signup form fields.
type RegisterInput struct {
	Name               string
	Username           string
	Email              string
	Password           string
	ProfilePictureLink string
}

// AuthAPI is the remote authentication endpoint pair.
type AuthAPI interface {
	Signup(ctx context.Context, in RegisterInput) (*domain.Session, error)
	Login(ctx context.Context, email, password string) (*domain.Session, error)
}

// SessionStore holds the current identity, persists it across process
// restarts, and exposes the auth operations. Mutating operations complete
// their storage writes before returning.
type SessionStore interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Session, error)
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	// CheckAuth restores a persisted session into memory. It never fails:
	// storage read errors and locally expired tokens leave the session empty.
	CheckAuth(ctx context.Context)
	Logout(ctx context.Context) error
	Current() domain.Session
	// Token returns the bearer token for outbound API calls, or "".
	Token() string
}

// NewsProvider fetches read-only environmental news for the home feed.
type NewsProvider interface {
	TopStories(ctx context.Context, limit int) ([]domain.NewsItem, error)
}

// RefreshView is the read surface of the polling controller.
type RefreshView interface {
	Pending() []domain.PickupRequest
	LastUpdated() time.Time
}
