package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/adrian5517/nagaclean-client/internal/core/domain"
	"github.com/adrian5517/nagaclean-client/internal/core/ports"
)

// AuthClient implements ports.AuthAPI against /api/auth. Server rejection
// messages are surfaced verbatim so callers can show them unchanged.
type AuthClient struct {
	client *Client
}

func NewAuthClient(client *Client) *AuthClient {
	return &AuthClient{client: client}
}

type signupRequest struct {
	Username           string `json:"username"`
	Email              string `json:"email"`
	Password           string `json:"password"`
	ProfilePictureLink string `json:"profilePictureLink,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (a *AuthClient) Signup(ctx context.Context, in ports.RegisterInput) (*domain.Session, error) {
	req := signupRequest{
		Username:           in.Username,
		Email:              in.Email,
		Password:           in.Password,
		ProfilePictureLink: in.ProfilePictureLink,
	}

	var resp authResponse
	if err := a.client.do(ctx, "auth_signup", http.MethodPost, "/auth/signup", req, &resp); err != nil {
		return nil, err
	}
	return sessionFromResponse(resp)
}

func (a *AuthClient) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	var resp authResponse
	if err := a.client.do(ctx, "auth_login", http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return sessionFromResponse(resp)
}

func sessionFromResponse(resp authResponse) (*domain.Session, error) {
	if resp.Token == "" || resp.User == nil {
		return nil, errors.New("auth response missing user or token")
	}
	return &domain.Session{User: resp.User, Token: resp.Token}, nil
}
