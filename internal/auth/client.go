package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	apperrors "edushare/internal/errors"
)

// Client verifies bearer tokens against the auth service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	Success bool `json:"success"`
	Data    struct {
		User Identity `json:"user"`
	} `json:"data"`
	Message string `json:"message"`
}

// Verify returns the identity owning token. A rejected token yields an
// UnauthorizedError; transport failures are returned wrapped.
func (c *Client) Verify(ctx context.Context, token string) (*Identity, error) {
	body, err := json.Marshal(verifyRequest{Token: token})
	if err != nil {
		return nil, fmt.Errorf("encoding verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/verify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling auth service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, apperrors.NewUnauthorizedError("invalid token")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("auth service responded with status %d", resp.StatusCode)
	}

	var out verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding verify response: %w", err)
	}
	if !out.Success || out.Data.User.ID == 0 {
		return nil, apperrors.NewUnauthorizedError("invalid token")
	}

	return &out.Data.User, nil
}
