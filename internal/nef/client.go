// Package nef is a client for the appliance's NEF REST API.
//
// The API serves over HTTPS with a self-signed certificate, so certificate
// verification is disabled. Authentication is optional: with credentials the
// client logs in lazily before its first request and attaches the bearer
// token to everything that follows.
package nef

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultPort is the port the NEF API listens on.
const DefaultPort = 8443

// StatusError indicates a request that reached the API but was rejected.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Status)
}

// ErrJobGone indicates an async job id the API no longer knows about.
var ErrJobGone = errors.New("nef: job id no longer exists")

// Client talks to one appliance's NEF API.
type Client struct {
	baseURL  string
	username string
	password string
	token    string

	httpClient   *http.Client
	pollInterval time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithCredentials enables bearer-token authentication. Both values must be
// non-empty; New rejects one without the other.
func WithCredentials(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPollInterval overrides how often async jobs are polled.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.pollInterval = d }
}

// New returns a client for the API at baseURL, e.g. "https://10.0.0.5:8443".
func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: &http.Transport{
				//nolint:gosec // appliance certs are self-signed
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		pollInterval: 10 * time.Second,
	}
	for _, o := range opts {
		o(c)
	}

	if (c.username == "") != (c.password == "") {
		return nil, errors.New("nef: username and password must be provided together")
	}
	return c, nil
}

// Login authenticates and stores the bearer token. It is called lazily by
// the request methods when credentials are configured; calling it up front
// lets the caller fail fast on bad credentials.
func (c *Client) Login(ctx context.Context) error {
	slog.Debug("logging in to NEF API", "user", c.username, "url", c.baseURL)

	payload := map[string]string{"username": c.username, "password": c.password}
	body, err := c.roundTrip(ctx, http.MethodPost, "auth/login", nil, payload, false)
	if err != nil {
		return err
	}

	token, _ := body["token"].(string)
	if token == "" {
		return errors.New("nef: login response carried no token")
	}
	c.token = token
	return nil
}

// Logout invalidates the session token.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.Post(ctx, "auth/logout", nil)
	return err
}

// Get sends a GET request and returns the decoded response body.
func (c *Client) Get(ctx context.Context, method string, params url.Values) (map[string]any, error) {
	path := method
	if len(params) > 0 {
		path = method + "?" + params.Encode()
	}
	return c.request(ctx, http.MethodGet, path, nil)
}

// Post sends a POST request. For async (202) responses it returns the job id
// extracted from the response links; otherwise the job id is empty.
func (c *Client) Post(ctx context.Context, method string, payload any) (string, error) {
	return c.requestAsync(ctx, http.MethodPost, method, payload)
}

// Put sends a PUT request with the same async semantics as Post.
func (c *Client) Put(ctx context.Context, method string, payload any) (string, error) {
	return c.requestAsync(ctx, http.MethodPut, method, payload)
}

// Delete sends a DELETE request with the same async semantics as Post.
func (c *Client) Delete(ctx context.Context, method string, payload any) (string, error) {
	return c.requestAsync(ctx, http.MethodDelete, method, payload)
}

// JobStatus reports whether the async job has finished and its progress.
func (c *Client) JobStatus(ctx context.Context, jobID string) (done bool, progress float64, err error) {
	params := url.Values{"jobId": {jobID}}
	body, err := c.Get(ctx, "jobStatus", params)
	if err != nil {
		return false, 0, err
	}

	data, _ := body["data"].([]any)
	if len(data) == 0 {
		return false, 0, ErrJobGone
	}
	job, _ := data[0].(map[string]any)
	done, _ = job["done"].(bool)
	progress, _ = job["progress"].(float64)
	return done, progress, nil
}

// WaitJob polls the job until it finishes or ctx is done.
func (c *Client) WaitJob(ctx context.Context, jobID string) error {
	for {
		done, progress, err := c.JobStatus(ctx, jobID)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		slog.Debug("waiting for NEF job", "jobId", jobID, "progress", progress)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *Client) request(ctx context.Context, verb, path string, payload any) (map[string]any, error) {
	if err := c.ensureAuth(ctx); err != nil {
		return nil, err
	}
	return c.roundTrip(ctx, verb, path, nil, payload, true)
}

// requestAsync performs a mutating request and extracts the async job id
// when the API answers 202 Accepted.
func (c *Client) requestAsync(ctx context.Context, verb, path string, payload any) (string, error) {
	if err := c.ensureAuth(ctx); err != nil {
		return "", err
	}

	var status int
	body, err := c.roundTrip(ctx, verb, path, &status, payload, true)
	if err != nil {
		return "", err
	}
	if status != http.StatusAccepted {
		return "", nil
	}

	links, _ := body["links"].([]any)
	if len(links) == 0 {
		return "", fmt.Errorf("nef: %s %s: 202 response carried no job link", verb, path)
	}
	link, _ := links[0].(map[string]any)
	href, _ := link["href"].(string)
	if href == "" {
		return "", fmt.Errorf("nef: %s %s: 202 response carried no job link", verb, path)
	}
	parts := strings.Split(href, "/")
	return parts[len(parts)-1], nil
}

func (c *Client) ensureAuth(ctx context.Context) error {
	if c.username == "" || c.token != "" {
		return nil
	}
	return c.Login(ctx)
}

// roundTrip performs one HTTP exchange and decodes the JSON body, which may
// legitimately be absent. statusOut, when non-nil, receives the HTTP status.
func (c *Client) roundTrip(ctx context.Context, verb, path string, statusOut *int, payload any, authed bool) (map[string]any, error) {
	slog.Debug("NEF request", "verb", verb, "path", path)

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("nef: encoding %s %s payload: %w", verb, path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, verb, c.baseURL+"/"+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authed && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, &StatusError{Method: verb, Path: path, Status: resp.StatusCode, Body: string(data)}
	}
	if statusOut != nil {
		*statusOut = resp.StatusCode
	}

	var body map[string]any
	if len(data) > 0 {
		// Some endpoints answer with an empty or non-object body.
		if err := json.Unmarshal(data, &body); err != nil {
			body = nil
		}
	}
	return body, nil
}
