// Package api is a typed client for the SkillSwap REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/skillswap/skillswap-hub/internal/domain/overview"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// Client talks to one API base URL with an optional bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the session token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client for baseURL, e.g. "http://localhost:5000".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the current session token.
func (c *Client) Token() string { return c.token }

// User is the profile record returned by the API.
type User struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	Mobile            string   `json:"mobile"`
	Bio               string   `json:"bio"`
	SkillsToTeach     []string `json:"skillsToTeach"`
	SkillsToLearn     []string `json:"skillsToLearn"`
	SavedSkills       []string `json:"savedSkills"`
	IsProfileComplete bool     `json:"isProfileComplete"`
}

// Error is a non-2xx API response.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d %s: %s", e.Status, e.Code, e.Message)
}

// Unwrap maps the status onto the shared error kinds so callers can use
// shared.IsNotAuthenticated and friends.
func (e *Error) Unwrap() error {
	switch {
	case e.Status == http.StatusBadRequest:
		return shared.ErrInvalidInput
	case e.Status == http.StatusUnauthorized:
		return shared.ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return shared.ErrForbidden
	case e.Status == http.StatusNotFound:
		return shared.ErrNotFound
	case e.Status == http.StatusConflict:
		return shared.ErrAlreadyExists
	case e.Status == http.StatusTooManyRequests:
		return shared.ErrRateLimited
	case e.Status >= 500:
		return shared.ErrServiceUnavailable
	default:
		return nil
	}
}

// SignIn authenticates and stores the returned token on the client.
func (c *Client) SignIn(ctx context.Context, email, password string) (*User, error) {
	var out struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/signin", nil, body, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out.User, nil
}

// Me returns the signed-in user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Overview fetches one page of the skill board.
func (c *Client) Overview(ctx context.Context, page, limit int) (overview.PageResult, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var out overview.PageResult
	err := c.do(ctx, http.MethodGet, "/api/skills/overview", q, nil, &out)
	return out, err
}

// Categories fetches the category list, "all" first.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out struct {
		Categories []string `json:"categories"`
	}
	err := c.do(ctx, http.MethodGet, "/api/skills/categories", nil, nil, &out)
	return out.Categories, err
}

// SavedSkills fetches the caller's saved list.
func (c *Client) SavedSkills(ctx context.Context) ([]string, error) {
	var out struct {
		SavedSkills []string `json:"savedSkills"`
	}
	err := c.do(ctx, http.MethodGet, "/api/users/saved-skills", nil, nil, &out)
	return out.SavedSkills, err
}

// ToggleSavedSkill flips skill and returns the full resulting list.
func (c *Client) ToggleSavedSkill(ctx context.Context, skill string) ([]string, error) {
	var out struct {
		SavedSkills []string `json:"savedSkills"`
	}
	body := map[string]string{"skillName": skill}
	err := c.do(ctx, http.MethodPost, "/api/users/saved-skills", nil, body, &out)
	return out.SavedSkills, err
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return shared.Upstream("api", method+" "+path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode, Code: "UNKNOWN", Message: resp.Status}
	var env struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err == nil && env.Error.Code != "" {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
	}
	return apiErr
}

// IsAPIError reports whether err came back from the server.
func IsAPIError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
