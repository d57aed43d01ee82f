// Package strapi implements the ContentGateway against a Strapi-style REST
// backend. Records pass through untyped: shape reconciliation belongs to the
// normalize package, not this client.
package strapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/costasur/portal-clientes/internal/api/metrics"
	"github.com/costasur/portal-clientes/internal/core/domain"
	"github.com/costasur/portal-clientes/internal/core/ports"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	contentTypeJSON     = "application/json"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient builds a gateway client for the given backend origin (without the
// /api prefix).
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

var _ ports.ContentGateway = (*Client)(nil)

func (c *Client) Login(ctx context.Context, identifier, password string) (*ports.LoginResult, error) {
	var resp struct {
		JWT  string         `json:"jwt"`
		User map[string]any `json:"user"`
	}
	body := map[string]string{"identifier": identifier, "password": password}
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/local", "auth_local", "", body, &resp); err != nil {
		return nil, err
	}
	if resp.JWT == "" {
		return nil, domain.ErrInvalidCredentials
	}
	return &ports.LoginResult{Token: resp.JWT, User: domain.Entity(resp.User)}, nil
}

func (c *Client) CurrentUser(ctx context.Context, token string) (domain.Entity, error) {
	var user map[string]any
	if err := c.doRequest(ctx, http.MethodGet, "/api/users/me?populate=*", "users_me", token, nil, &user); err != nil {
		return nil, err
	}
	return domain.Entity(user), nil
}

func (c *Client) ChangePassword(ctx context.Context, token, currentPassword, newPassword, confirmPassword string) error {
	body := map[string]any{
		"currentPassword":      currentPassword,
		"password":             newPassword,
		"passwordConfirmation": confirmPassword,
	}
	return c.doRequest(ctx, http.MethodPost, "/api/auth/change-password", "change_password", token, body, nil)
}

func (c *Client) ListObras(ctx context.Context, token string) ([]domain.Entity, error) {
	return c.list(ctx, "/api/obras?populate=*", "obras", token)
}

func (c *Client) ListDepartamentos(ctx context.Context, token string) ([]domain.Entity, error) {
	return c.list(ctx, "/api/departamentos?populate=*", "departamentos", token)
}

func (c *Client) CreateConsulta(ctx context.Context, token string, data map[string]any) (domain.Entity, error) {
	var resp struct {
		Data map[string]any `json:"data"`
	}
	if err := c.doRequest(ctx, http.MethodPost, "/api/consultas", "consultas", token, map[string]any{"data": data}, &resp); err != nil {
		return nil, err
	}
	return domain.Entity(resp.Data), nil
}

// list fetches a collection endpoint, accepting both the {data:[...]}
// envelope and a bare top-level array.
func (c *Client) list(ctx context.Context, path, endpoint, token string) ([]domain.Entity, error) {
	var raw json.RawMessage
	if err := c.doRequest(ctx, http.MethodGet, path, endpoint, token, nil, &raw); err != nil {
		return nil, err
	}

	var envelope struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Data != nil {
		return toEntities(envelope.Data), nil
	}

	var bare []map[string]any
	if err := json.Unmarshal(raw, &bare); err == nil {
		return toEntities(bare), nil
	}
	return []domain.Entity{}, nil
}

func toEntities(records []map[string]any) []domain.Entity {
	out := make([]domain.Entity, 0, len(records))
	for _, r := range records {
		out = append(out, domain.Entity(r))
	}
	return out
}

// doRequest performs one HTTP round-trip, attaching the bearer token when
// present and translating non-2xx responses into BackendError.
func (c *Client) doRequest(ctx context.Context, method, path, endpoint, token string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("strapi: marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("strapi: build request: %w", err)
	}
	if token != "" {
		req.Header.Set(headerAuthorization, "Bearer "+token)
	}
	if body != nil {
		req.Header.Set(headerContentType, contentTypeJSON)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.StrapiRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return fmt.Errorf("strapi: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	metrics.StrapiRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	metrics.StrapiRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("strapi: read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return parseError(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("strapi: parse response: %w", err)
		}
	}
	return nil
}

// parseError extracts the backend's error message, preserving it verbatim.
// Strapi wraps errors as {"error":{"status":...,"name":...,"message":...}}.
func parseError(statusCode int, body []byte) error {
	var wrapped struct {
		Error struct {
			Name    string `json:"name"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Error.Message != "" {
		return &domain.BackendError{
			StatusCode: statusCode,
			Name:       wrapped.Error.Name,
			Message:    wrapped.Error.Message,
		}
	}

	var flat struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &flat); err == nil && flat.Message != "" {
		return &domain.BackendError{StatusCode: statusCode, Message: flat.Message}
	}

	return &domain.BackendError{StatusCode: statusCode, Message: http.StatusText(statusCode)}
}
