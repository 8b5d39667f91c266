package client

import (
	"context"
	"net/http"
	"time"

	apperrors "bookly/pkg/errors"
	"bookly/pkg/model"
)

// IdentityClient talks to the external identity service. All credential
// verification lives there; this service never compares secrets itself.
type IdentityClient struct {
	http *HttpClient
}

func NewIdentityClient(baseURL string, timeout time.Duration) *IdentityClient {
	return &IdentityClient{
		http: NewHttpClient(baseURL, timeout),
	}
}

type authenticateRequest struct {
	Identity string `json:"identity"`
	Secret   string `json:"secret"`
}

type principalResponse struct {
	Principal string `json:"principal"`
	Admin     bool   `json:"admin"`
	Token     string `json:"token,omitempty"`
}

// Authenticate exchanges an identity and secret for a session.
func (c *IdentityClient) Authenticate(ctx context.Context, identity, secret string) (*model.Session, error) {
	resp, err := c.http.POST(ctx, "/v1/authenticate", authenticateRequest{
		Identity: identity,
		Secret:   secret,
	}, nil)
	if err != nil {
		return nil, apperrors.Unavailable("identity service")
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, apperrors.Unauthorized("Invalid credentials")
	default:
		return nil, apperrors.Internal("Identity service returned an unexpected status", nil).
			WithDetails(map[string]any{"status": resp.StatusCode})
	}

	var principal principalResponse
	if err := resp.DecodeJSON(&principal); err != nil {
		return nil, apperrors.Internal("Failed to decode identity response", err)
	}

	return &model.Session{
		Principal: principal.Principal,
		Admin:     principal.Admin,
		Token:     principal.Token,
	}, nil
}

// Verify resolves a previously issued session token to its principal.
func (c *IdentityClient) Verify(ctx context.Context, token string) (*model.Session, error) {
	resp, err := c.http.GET(ctx, "/v1/verify", map[string]string{
		"Authorization": "Bearer " + token,
	})
	if err != nil {
		return nil, apperrors.Unavailable("identity service")
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, apperrors.Unauthorized("Session is invalid or expired")
	default:
		return nil, apperrors.Internal("Identity service returned an unexpected status", nil).
			WithDetails(map[string]any{"status": resp.StatusCode})
	}

	var principal principalResponse
	if err := resp.DecodeJSON(&principal); err != nil {
		return nil, apperrors.Internal("Failed to decode identity response", err)
	}

	return &model.Session{
		Principal: principal.Principal,
		Admin:     principal.Admin,
		Token:     token,
	}, nil
}
