// Package apiclient is a typed HTTP client for the user graph REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"usergraph/internal/models"
	"usergraph/internal/observability"
	"usergraph/internal/validation"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
)

const defaultTimeout = 10 * time.Second

// Doer sends an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIError is a non-2xx answer from the server. Message is the server's
// "error" field and is meant to be shown to the user as is.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status carried by err, or 0 if err is not an APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Client talks to the API rooted at baseURL, e.g. "http://localhost:5000/api".
type Client struct {
	baseURL string
	http    Doer
}

// Option configures a Client.
type Option func(*Client)

// WithDoer replaces the underlying HTTP transport.
func WithDoer(d Doer) Option {
	return func(c *Client) { c.http = d }
}

// WithTimeout sets the per-request timeout of the default transport.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

// New creates a client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListUsers(ctx context.Context) ([]models.UserView, error) {
	var users []models.UserView
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*models.UserView, error) {
	var user models.UserView
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) CreateUser(ctx context.Context, req validation.CreateUserRequest) (*models.UserView, error) {
	var user models.UserView
	if err := c.do(ctx, http.MethodPost, "/users", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, req validation.UpdateUserRequest) (*models.UserView, error) {
	var user models.UserView
	if err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id), req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
}

func (c *Client) LinkUsers(ctx context.Context, userID, targetUserID string) error {
	body := validation.LinkRequest{TargetUserID: targetUserID}
	return c.do(ctx, http.MethodPost, "/users/"+url.PathEscape(userID)+"/link", body, nil)
}

func (c *Client) UnlinkUsers(ctx context.Context, userID, targetUserID string) error {
	body := validation.LinkRequest{TargetUserID: targetUserID}
	return c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(userID)+"/unlink", body, nil)
}

func (c *Client) AddHobby(ctx context.Context, userID, hobby string) (*models.UserView, error) {
	var user models.UserView
	body := validation.HobbyRequest{Hobby: hobby}
	if err := c.do(ctx, http.MethodPost, "/users/"+url.PathEscape(userID)+"/hobby", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetGraph(ctx context.Context) (*models.Graph, error) {
	var graph models.Graph
	if err := c.do(ctx, http.MethodGet, "/graph", nil, &graph); err != nil {
		return nil, err
	}
	return &graph, nil
}

// do sends one request and decodes a 2xx JSON body into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) (err error) {
	ctx, span := observability.TraceClientCall(ctx, method, path)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func decodeError(status int, raw []byte) error {
	apiErr := &APIError{Status: status}

	var body models.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		apiErr.Code = body.Code
		apiErr.Message = body.Error
		return apiErr
	}

	apiErr.Message = http.StatusText(status)
	if apiErr.Message == "" {
		apiErr.Message = "Something went wrong"
	}
	return apiErr
}
