package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/adrian5517/nagaclean-client/internal/core/domain"
	"github.com/adrian5517/nagaclean-client/internal/core/ports"
)

// Persisted storage keys. username, name and profilePictureLink duplicate
// fields of the serialized user record for fast-path reads.
const (
	keyToken          = "token"
	keyUser           = "user"
	keyUsername       = "username"
	keyName           = "name"
	keyProfilePicture = "profilePictureLink"
)

var sessionKeys = []string{keyToken, keyUser, keyUsername, keyName, keyProfilePicture}

// SessionStore holds the authenticated identity for the running client and
// persists it to durable local storage. It is an explicitly constructed,
// injected dependency with a defined lifecycle, not a package-level global.
type SessionStore struct {
	auth   ports.AuthAPI
	kv     ports.KeyValue
	logger zerolog.Logger
	now    func() time.Time

	mu      sync.RWMutex
	session domain.Session
}

func NewSessionStore(auth ports.AuthAPI, kv ports.KeyValue, logger zerolog.Logger) *SessionStore {
	return &SessionStore{auth: auth, kv: kv, logger: logger, now: time.Now}
}

// Register creates an account and starts a session. The session is persisted
// before the call returns; on any failure neither storage nor memory changes.
func (s *SessionStore) Register(ctx context.Context, in ports.RegisterInput) (*domain.Session, error) {
	sess, err := s.auth.Signup(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.adopt(ctx, sess)
}

// Login authenticates against the remote endpoint with the same persistence
// contract as Register.
func (s *SessionStore) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	sess, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.adopt(ctx, sess)
}

func (s *SessionStore) adopt(ctx context.Context, sess *domain.Session) (*domain.Session, error) {
	if err := s.persist(ctx, sess); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist session")
		return nil, err
	}

	s.mu.Lock()
	s.session = *sess
	s.mu.Unlock()

	s.logger.Info().Str("username", sess.User.Username).Msg("session established")
	return sess, nil
}

func (s *SessionStore) persist(ctx context.Context, sess *domain.Session) error {
	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}

	pairs := []struct{ key, value string }{
		{keyToken, sess.Token},
		{keyUser, string(userJSON)},
		{keyUsername, sess.User.Username},
		{keyName, sess.User.Name},
		{keyProfilePicture, sess.User.ProfilePictureLink},
	}
	for _, p := range pairs {
		if err := s.kv.Set(ctx, p.key, p.value); err != nil {
			return err
		}
	}
	return nil
}

// CheckAuth restores a persisted session into memory at process start. It
// never fails loudly: storage read errors leave the session empty, meaning
// logged out. A stored token whose JWT exp claim has already passed is
// discarded so the caller is forced back through login instead of hitting
// undefined server behavior.
func (s *SessionStore) CheckAuth(ctx context.Context) {
	token, err := s.kv.Get(ctx, keyToken)
	if err != nil {
		s.logger.Debug().Err(err).Msg("no persisted session")
		return
	}

	userJSON, err := s.kv.Get(ctx, keyUser)
	if err != nil {
		s.logger.Debug().Err(err).Msg("persisted session missing user record")
		return
	}

	var user domain.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		s.logger.Warn().Err(err).Msg("persisted user record unreadable")
		return
	}

	if s.tokenExpired(token) {
		s.logger.Warn().Err(domain.ErrSessionExpired).Str("username", user.Username).Msg("re-login required")
		return
	}

	s.mu.Lock()
	s.session = domain.Session{User: &user, Token: token}
	s.mu.Unlock()

	s.logger.Info().Str("username", user.Username).Msg("session restored")
}

// Logout clears persisted session fields, then resets in-memory state. Memory
// is cleared even when the storage delete fails.
func (s *SessionStore) Logout(ctx context.Context) error {
	err := s.kv.Delete(ctx, sessionKeys...)

	s.mu.Lock()
	s.session = domain.Session{}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error().Err(err).Msg("failed to clear persisted session")
		return err
	}
	s.logger.Info().Msg("logged out")
	return nil
}

// Current returns a copy of the in-memory session.
func (s *SessionStore) Current() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Token returns the bearer token for outbound API calls, or "" when logged out.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

// Reset clears in-memory state without touching storage. For tests.
func (s *SessionStore) Reset() {
	s.mu.Lock()
	s.session = domain.Session{}
	s.mu.Unlock()
}

// tokenExpired inspects the unverified exp claim of a stored JWT. Signature
// verification is the server's job; the client only wants to avoid presenting
// a token it can already tell is dead. Opaque tokens pass through untouched.
func (s *SessionStore) tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(s.now())
}
