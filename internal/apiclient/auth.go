package apiclient

import (
	"context"
	"net/http"

	"github.com/trueartists/account-web/internal/auth"
)

// Envelope is the API's common response wrapper.
type Envelope[T any] struct {
	Error   bool   `json:"error"`
	Message string `json:"message,omitempty"`
	Data    *T     `json:"data,omitempty"`
}

// AuthData is the data block of the login endpoints.
type AuthData struct {
	User  auth.Identity `json:"user"`
	Token string        `json:"token,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type socialLoginRequest struct {
	SocialID string `json:"socialId"`
	Email    string `json:"email"`
}

// Login posts credentials to /auth/login.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthData, error) {
	return c.authenticate(ctx, "/auth/login", loginRequest{Email: email, Password: password})
}

// SocialLogin posts a provider identity to /auth/social-login.
func (c *Client) SocialLogin(ctx context.Context, socialID, email string) (*AuthData, error) {
	return c.authenticate(ctx, "/auth/social-login", socialLoginRequest{SocialID: socialID, Email: email})
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*AuthData, error) {
	var env Envelope[AuthData]
	if err := c.Do(ctx, http.MethodPost, path, body, &env); err != nil {
		return nil, err
	}
	if env.Error || env.Data == nil {
		return nil, rejected(env.Message)
	}
	if env.Data.Token == "" {
		return nil, rejected("response carried no token")
	}
	return env.Data, nil
}

// CurrentUser fetches /auth/me with the attached Authorization header.
func (c *Client) CurrentUser(ctx context.Context) (*auth.Identity, error) {
	var env Envelope[AuthData]
	if err := c.Do(ctx, http.MethodGet, "/auth/me", nil, &env); err != nil {
		return nil, err
	}
	if env.Error || env.Data == nil {
		return nil, rejected(env.Message)
	}
	return &env.Data.User, nil
}

// Logout tells the API to invalidate the attached token.
func (c *Client) Logout(ctx context.Context) error {
	return c.Do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// Call posts body to path and checks the envelope, for endpoints whose data
// block the caller does not need.
func (c *Client) Call(ctx context.Context, method, path string, body any) error {
	var env Envelope[struct{}]
	if err := c.Do(ctx, method, path, body, &env); err != nil {
		return err
	}
	if env.Error {
		return rejected(env.Message)
	}
	return nil
}
