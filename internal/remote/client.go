package remote

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

	"github.com/yotip/homestead/internal/profile"
)

// ProfileStore is the durable per-user profile store the engine syncs against.
type ProfileStore interface {
	Fetch(ctx context.Context, userID string) (profile.Profile, error)
	Upsert(ctx context.Context, userID string, fields profile.Fields) error
	UsernameOwner(ctx context.Context, username string) (string, error)
}

// Accounts signs users up and in.
type Accounts interface {
	SignUp(ctx context.Context, email, password string) (Account, error)
	SignIn(ctx context.Context, email, password string) (Account, error)
}

// Ensure Client implements both interfaces at compile time.
var (
	_ ProfileStore = (*Client)(nil)
	_ Accounts     = (*Client)(nil)
)

// Client talks to the homestead profile server.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultBaseURL        = "127.0.0.1:8080"
	defaultUserAgent      = "homestead/0.1"
	defaultRequestTimeout = 5 * time.Second
)

// NewClient builds a Client for the server at baseURL. A zero timeout uses the default.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// Fetch returns the stored profile. A missing profile yields ErrNotFound.
func (c *Client) Fetch(ctx context.Context, userID string) (profile.Profile, error) {
	if c == nil {
		return profile.Profile{}, fmt.Errorf("client is nil")
	}
	var payload profile.Profile
	if err := c.do(ctx, http.MethodGet, "/api/profiles/"+url.PathEscape(userID), nil, &payload); err != nil {
		return profile.Profile{}, err
	}
	return payload, nil
}

// Upsert creates or updates the profile with the non-nil members of fields.
func (c *Client) Upsert(ctx context.Context, userID string, fields profile.Fields) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	err := c.do(ctx, http.MethodPatch, "/api/profiles/"+url.PathEscape(userID), fields, nil)
	if errors.Is(err, ErrConflict) {
		return ErrUsernameTaken
	}
	return err
}

// UsernameOwner returns the id of the profile holding username, or "" when unclaimed.
func (c *Client) UsernameOwner(ctx context.Context, username string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	var payload ownerResponse
	err := c.do(ctx, http.MethodGet, "/api/usernames/"+url.PathEscape(username), nil, &payload)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return payload.ID, nil
}

// SignUp registers a new account.
func (c *Client) SignUp(ctx context.Context, email, password string) (Account, error) {
	acct, err := c.auth(ctx, "/api/auth/signup", email, password)
	if errors.Is(err, ErrConflict) {
		return Account{}, ErrEmailTaken
	}
	return acct, err
}

// SignIn authenticates an existing account.
func (c *Client) SignIn(ctx context.Context, email, password string) (Account, error) {
	return c.auth(ctx, "/api/auth/signin", email, password)
}

func (c *Client) auth(ctx context.Context, path, email, password string) (Account, error) {
	if c == nil {
		return Account{}, fmt.Errorf("client is nil")
	}
	var payload Account
	body := Credentials{Email: strings.TrimSpace(email), Password: password}
	if err := c.do(ctx, http.MethodPost, path, body, &payload); err != nil {
		return Account{}, err
	}
	return payload, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return newStatusError(rel.EscapedPath(), resp)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func newStatusError(path string, resp *http.Response) *StatusError {
	var payload errorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload)
	return &StatusError{Path: path, Status: resp.StatusCode, Message: payload.Error}
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
