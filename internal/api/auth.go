package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Login exchanges credentials for a token pair and persists it to the
// configured TokenStore so subsequent requests are authenticated.
func (c *Client) Login(ctx context.Context, in LoginRequest) (TokenResponse, error) {
	var tok TokenResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", in, &tok); err != nil {
		return TokenResponse{}, err
	}
	if strings.TrimSpace(tok.AccessToken) == "" {
		return TokenResponse{}, fmt.Errorf("login response carried no access token")
	}
	if err := c.storeTokens(tok); err != nil {
		return TokenResponse{}, err
	}
	return tok, nil
}

// Register creates an account. It does not authenticate.
func (c *Client) Register(ctx context.Context, in RegisterRequest) (User, error) {
	var user User
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", in, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Me fetches the profile of the authenticated user.
func (c *Client) Me(ctx context.Context) (User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Logout invalidates the refresh token server side. Persisted tokens are
// removed only when the server confirms.
func (c *Client) Logout(ctx context.Context) error {
	body := struct {
		RefreshToken string `json:"refresh_token,omitempty"`
	}{RefreshToken: c.token(RefreshTokenKey)}
	if err := c.do(ctx, http.MethodPost, "/api/auth/logout", body, nil); err != nil {
		return err
	}
	if err := c.clearTokens(); err != nil {
		return fmt.Errorf("clear tokens: %w", err)
	}
	return nil
}
