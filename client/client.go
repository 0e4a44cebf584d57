package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 15 * time.Second

// Client is the Trippio API client. It owns the session state and injects the
// right bearer token into every request: the user access token when present,
// otherwise the share access token, otherwise no Authorization header at all.
type Client struct {
	baseURL string
	http    *http.Client
	session *SessionStore
	pending pendingDestination
}

type Options struct {
	// HTTPClient overrides the underlying transport. When set, the caller is
	// responsible for attaching a cookie jar if refresh should work.
	HTTPClient *http.Client

	// Timeout applies when HTTPClient is nil. Zero means 15 seconds.
	Timeout time.Duration
}

func New(baseURL string, opts Options) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("empty base URL")
	}

	hc := opts.HTTPClient
	if hc == nil {
		// The refresh credential lives in an HttpOnly cookie; the jar carries
		// it across refresh calls the way a browser would.
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Jar: jar, Timeout: timeout}
	}

	return &Client{
		baseURL: baseURL,
		http:    hc,
		session: newSessionStore(),
	}, nil
}

// Session returns the client's session store.
func (c *Client) Session() *SessionStore {
	return c.session
}

// apiRequest describes one call. Out, when non-nil, receives the envelope's
// data field.
type apiRequest struct {
	method  string
	path    string
	query   url.Values
	body    any
	out     any
	success int
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *wireError      `json:"error"`
}

type wireError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, req apiRequest) error {
	var bodyReader *bytes.Buffer
	if req.body != nil {
		raw, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewBuffer(raw)
	} else {
		bodyReader = &bytes.Buffer{}
	}

	r, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, bodyReader)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", req.method, req.path, err)
	}
	if len(req.query) > 0 {
		r.URL.RawQuery = req.query.Encode()
	}
	if req.body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.bearerToken(); token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(r)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &TransportError{Err: fmt.Errorf("decode response: %w", err)}
	}

	success := req.success
	if success == 0 {
		success = http.StatusOK
	}
	if resp.StatusCode != success {
		return errorFromResponse(resp.StatusCode, env.Error)
	}

	if req.out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, req.out); err != nil {
			return &TransportError{Err: fmt.Errorf("decode response data: %w", err)}
		}
	}
	return nil
}

func errorFromResponse(status int, we *wireError) error {
	code, message := "", ""
	if we != nil {
		code, message = we.Code, we.Message
	}
	switch status {
	case http.StatusUnauthorized:
		return &AuthenticationError{Code: code, Message: message}
	case http.StatusForbidden:
		return &AuthorizationError{Code: code, Message: message}
	case http.StatusNotFound:
		return &NotFoundError{Code: code, Message: message}
	default:
		return &APIError{Status: status, Code: code, Message: message}
	}
}
