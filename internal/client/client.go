// Package client is the Go client of the badgeboard API, used by the
// desktop views: on-demand fetches for the session/dashboard screens and
// a polling watcher for the noticeboard.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIError is a non-2xx response decoded from the service's error
// envelope.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

// Client issues synchronous requests against one badgeboard server.  It is
// safe for use from a single view; views with independent timers should
// hold independent clients.
type Client struct {
	baseURL string
	hc      *http.Client
	token   string
}

// New returns a client for the given base URL (no trailing slash needed).
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken stores the access token returned by Login for the admin
// endpoints.
func (c *Client) SetToken(token string) { c.token = token }

// ----- wire types -----

type LoginResult struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Code        string `json:"code"`
	AccessToken string `json:"access_token"`
}

type WorkLog struct {
	ID     int64   `json:"id"`
	UserID int64   `json:"user_id"`
	Date   string  `json:"date"`
	Hours  float64 `json:"hours"`
	Reason string  `json:"reason"`
}

type PendingRemoval struct {
	ID          int64   `json:"id"`
	WorkLogID   int64   `json:"work_log_id"`
	RequesterID int64   `json:"requester_id"`
	Reason      string  `json:"reason"`
	Status      string  `json:"status"`
	RequestDate string  `json:"request_date"`
	WorkDate    string  `json:"work_date"`
	Hours       float64 `json:"hours"`
}

type UserHours struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Surname    string  `json:"surname"`
	Email      string  `json:"email"`
	TotalHours float64 `json:"total_hours"`
}

type Character struct {
	ID           int64   `json:"id"`
	SeriesTitle  string  `json:"series_title"`
	Name         string  `json:"character_name"`
	Role         string  `json:"role"`
	ImageURL     *string `json:"image_url"`
	ScriptText   string  `json:"script_text"`
	ScriptURL    *string `json:"script_url"`
	ExpiryDate   string  `json:"expiry_date"`
	MovURL       *string `json:"mov_url"`
	LastModified string  `json:"last_modified"`
}

// ----- plumbing -----

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(bs)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&env)
		if env.Message == "" {
			env.Message = resp.Status
		}
		return &APIError{Code: resp.StatusCode, Message: env.Message}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ----- session & logging -----

// Login authenticates with a badge code or email and keeps the returned
// token for later admin calls.
func (c *Client) Login(ctx context.Context, identifier, password string) (LoginResult, error) {
	var res LoginResult
	err := c.do(ctx, http.MethodPost, "/login",
		map[string]string{"code": identifier, "password": password}, &res)
	if err == nil {
		c.token = res.AccessToken
	}
	return res, err
}

// Register creates an account and returns the generated login code.
func (c *Client) Register(ctx context.Context, name, surname, email, password string) (string, error) {
	var res struct {
		Code string `json:"code"`
	}
	err := c.do(ctx, http.MethodPost, "/register", map[string]string{
		"name": name, "surname": surname, "email": email, "password": password,
	}, &res)
	return res.Code, err
}

// AddHours logs worked hours for a user.
func (c *Client) AddHours(ctx context.Context, userID int64, hours float64, reason string) error {
	return c.do(ctx, http.MethodPost, "/add_hours", map[string]any{
		"user_id": userID, "hours": hours, "reason": reason,
	}, nil)
}

// GetLogs fetches a user's logs, newest first.
func (c *Client) GetLogs(ctx context.Context, userID int64) ([]WorkLog, error) {
	var out []WorkLog
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/get_logs/%d", userID), nil, &out)
	return out, err
}

// RequestRemoval files a removal request against one of the user's logs.
func (c *Client) RequestRemoval(ctx context.Context, workLogID, requesterID int64, reason string) error {
	return c.do(ctx, http.MethodPost, "/request_removal", map[string]any{
		"work_log_id": workLogID, "requester_id": requesterID, "reason": reason,
	}, nil)
}

// ----- admin -----

// PendingRemovals lists undecided removal requests (admin token required).
func (c *Client) PendingRemovals(ctx context.Context) ([]PendingRemoval, error) {
	var out []PendingRemoval
	err := c.do(ctx, http.MethodGet, "/admin/removal_requests", nil, &out)
	return out, err
}

// HandleRemoval decides one removal request (admin token required).
func (c *Client) HandleRemoval(ctx context.Context, requestID int64, action, reason string) error {
	return c.do(ctx, http.MethodPost, "/admin/handle_removal", map[string]any{
		"request_id": requestID, "action": action, "admin_reason": reason,
	}, nil)
}

// UsersHours fetches the per-user hour totals (admin token required).
func (c *Client) UsersHours(ctx context.Context) ([]UserHours, error) {
	var out []UserHours
	err := c.do(ctx, http.MethodGet, "/admin/users_hours", nil, &out)
	return out, err
}

// ----- noticeboard -----

// Characters fetches the full noticeboard.
func (c *Client) Characters(ctx context.Context) ([]Character, error) {
	var out []Character
	err := c.do(ctx, http.MethodGet, "/bacheca/characters", nil, &out)
	return out, err
}

// LastUpdate fetches the board staleness token.
func (c *Client) LastUpdate(ctx context.Context) (string, error) {
	var out struct {
		LastUpdate string `json:"last_update"`
	}
	err := c.do(ctx, http.MethodGet, "/bacheca/last_update", nil, &out)
	return out.LastUpdate, err
}
