package requestclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"postroom-backend/internal/forwarding/domain"
	"postroom-backend/internal/forwarding/dto"
)

// Credentials identifies the acting admin session. Injected explicitly so
// nothing in the client reads ambient token state.
type Credentials struct {
	Token      string
	HolderID   string
	HolderName string
}

// Client talks to the forwarding Request Service over REST/JSON
type Client struct {
	baseURL    string
	creds      Credentials
	httpClient *http.Client
}

// New creates a Client for the given API base URL, e.g. "http://localhost:8080"
func New(baseURL string, creds Credentials) *Client {
	return &Client{
		baseURL: baseURL,
		creds:   creds,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Creds returns the injected credentials
func (c *Client) Creds() Credentials {
	return c.creds
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.creds.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, raw)
	}

	if out != nil {
		return json.Unmarshal(raw, out)
	}
	return nil
}

// decodeError maps structured error bodies back onto the domain error types
func decodeError(status int, raw []byte) error {
	switch status {
	case http.StatusUnprocessableEntity:
		var body dto.IllegalTransitionResponse
		if err := json.Unmarshal(raw, &body); err == nil && body.From != "" {
			return &domain.IllegalTransitionError{From: body.From, To: body.To, Allowed: body.Allowed}
		}
	case http.StatusConflict:
		var body dto.LockConflictResponse
		if err := json.Unmarshal(raw, &body); err == nil && body.HolderID != "" {
			return &domain.LockConflictError{HolderID: body.HolderID, HolderName: body.HolderName}
		}
	}

	var generic struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(raw, &generic)
	return &APIError{StatusCode: status, Message: generic.Error}
}

// ListRequests fetches one page of forwarding requests
func (c *Client) ListRequests(ctx context.Context, limit, offset int) ([]*domain.ForwardingRequest, int64, error) {
	var resp dto.RequestsResponse
	path := fmt.Sprintf("/api/forwarding?limit=%d&offset=%d", limit, offset)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Requests, resp.Total, nil
}

// AdvanceStatus asks the server to move a request to the target status.
// The target must be a canonical status identifier, never a display alias.
func (c *Client) AdvanceStatus(ctx context.Context, id uint, target domain.Status) (*domain.ForwardingRequest, error) {
	var updated domain.ForwardingRequest
	path := fmt.Sprintf("/api/forwarding/%d/status", id)
	body := dto.AdvanceStatusBody{Status: string(target)}
	if err := c.do(ctx, http.MethodPatch, path, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// AcquireLock takes the advisory lock for the credential holder
func (c *Client) AcquireLock(ctx context.Context, id uint) (*domain.RequestLock, error) {
	var lock domain.RequestLock
	path := fmt.Sprintf("/api/forwarding/%d/lock", id)
	if err := c.do(ctx, http.MethodPost, path, nil, &lock); err != nil {
		return nil, err
	}
	return &lock, nil
}

// ReleaseLock drops the lock; safe to call when not held
func (c *Client) ReleaseLock(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/forwarding/%d/lock", id), nil, nil)
}

// ForceReleaseLock overrides another holder's lock
func (c *Client) ForceReleaseLock(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/forwarding/%d/lock/force", id), nil, nil)
}

// ListLocks fetches every active lock for the lock cache
func (c *Client) ListLocks(ctx context.Context) ([]*domain.RequestLock, error) {
	var resp dto.LocksResponse
	if err := c.do(ctx, http.MethodGet, "/api/forwarding/locks", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Locks, nil
}

// DeleteRequest removes a done request
func (c *Client) DeleteRequest(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/forwarding/%d", id), nil, nil)
}
