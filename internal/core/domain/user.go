package domain

import "errors"

// ErrSessionExpired marks a persisted token whose exp claim has passed.
var ErrSessionExpired = errors.New("session expired")

// User models the identity record returned by the auth endpoints.
type User struct {
	ID                 string `json:"_id"`
	Username           string `json:"username"`
	Name               string `json:"name,omitempty"`
	Email              string `json:"email,omitempty"`
	ProfilePictureLink string `json:"profilePictureLink,omitempty"`
}

// Session is the authenticated identity held by the running client.
// A zero Session means logged out.
type Session struct {
	User  *User
	Token string
}

// Active reports whether the session carries an authenticated identity.
func (s Session) Active() bool {
	return s.Token != "" && s.User != nil
}
