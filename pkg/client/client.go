// Package client is a Go client for the GramRoute API. It keeps the session
// token in a Session and attaches it to authenticated calls.
package client

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
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 64 << 10
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Redirect following is
// always disabled on the client actually used.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithSession shares an existing session, e.g. one restored by the caller.
func WithSession(s *Session) Option {
	return func(c *Client) {
		if s != nil {
			c.session = s
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		session:    NewSession(),
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := *c.httpClient
	hc.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	c.httpClient = &hc

	return c
}

func (c *Client) Session() *Session {
	return c.session
}

// AuthenticatedFetch sends body as JSON to path and attaches the bearer token
// when the session has one. 401 and 403 responses are returned as they are:
// the session is not cleared and nothing is retried. The caller closes the
// response body.
func (c *Client) AuthenticatedFetch(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	return resp, nil
}

// Login signs in and stores the session on success. On failure the session
// is left untouched.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var result AuthResult
	err := c.call(ctx, http.MethodPost, "/api/login", map[string]string{
		"email":    email,
		"password": password,
	}, &result)
	if err != nil {
		return nil, err
	}
	if result.Token == "" {
		return nil, errors.New("login response carried no token")
	}

	c.session.Login(result.User, result.Token)
	return &result, nil
}

// Register creates an account and signs in as it.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	var result AuthResult
	if err := c.call(ctx, http.MethodPost, "/api/register", in, &result); err != nil {
		return nil, err
	}

	c.session.Login(result.User, result.Token)
	return &result, nil
}

func (c *Client) Logout() {
	c.session.Logout()
}

func (c *Client) SubmitReport(ctx context.Context, in ReportInput) (*Report, error) {
	var out struct {
		Report Report `json:"report"`
	}
	if err := c.call(ctx, http.MethodPost, "/api/reports", in, &out); err != nil {
		return nil, err
	}
	return &out.Report, nil
}

func (c *Client) MyReports(ctx context.Context) ([]Report, error) {
	var out struct {
		Reports []Report `json:"reports"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/reports", nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Reports), nil
}

func (c *Client) GetReport(ctx context.Context, id string) (*Report, error) {
	var out struct {
		Report Report `json:"report"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/reports/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Report, nil
}

// AdminReports lists every report. An empty status lists all statuses.
func (c *Client) AdminReports(ctx context.Context, status string) ([]Report, error) {
	path := "/api/admin/reports"
	if status != "" {
		path += "?" + url.Values{"status": {status}}.Encode()
	}

	var out struct {
		Reports []Report `json:"reports"`
	}
	if err := c.call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Reports), nil
}

func (c *Client) UpdateReportStatus(ctx context.Context, id, status string) (*Report, error) {
	var out struct {
		Report Report `json:"report"`
	}
	path := "/api/admin/reports/" + url.PathEscape(id) + "/status"
	if err := c.call(ctx, http.MethodPatch, path, map[string]string{"status": status}, &out); err != nil {
		return nil, err
	}
	return &out.Report, nil
}

func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var out struct {
		User Profile `json:"user"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/user/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) UpdateProfile(ctx context.Context, in ProfileUpdate) (*Profile, error) {
	var out struct {
		User Profile `json:"user"`
	}
	if err := c.call(ctx, http.MethodPut, "/api/user/profile", in, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var out struct {
		Stats Stats `json:"stats"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/user/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out.Stats, nil
}

// call performs the request and decodes a 2xx body into out. Any other
// status becomes an *APIError.
func (c *Client) call(ctx context.Context, method, path string, body, out interface{}) error {
	resp, err := c.AuthenticatedFetch(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var payload struct {
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		apiErr.Message = payload.Message
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}

func nonNil(reports []Report) []Report {
	if reports == nil {
		return []Report{}
	}
	return reports
}
