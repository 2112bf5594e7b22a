// Package api is the REST client for the beauty backend. It owns the wire
// format: identifiers travel as _id, timestamps as RFC3339 and progress as
// "<n> <unit>".
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/bliss/internal/config"
	"github.com/julianstephens/bliss/internal/constants"
	apperrors "github.com/julianstephens/bliss/internal/errors"
	"github.com/julianstephens/bliss/internal/logger"
	"github.com/julianstephens/bliss/internal/models"
)

// maxErrorBody bounds how much of a failed response is kept on StatusError
const maxErrorBody = 4 << 10

// StatusError is returned for non-2xx responses. It matches ErrNetwork.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s returned status %d", e.Method, e.Path, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *StatusError) Unwrap() error {
	return apperrors.ErrNetwork
}

// Client talks to one backend on behalf of one user
type Client struct {
	baseURL string
	userID  string
	http    *http.Client
}

// New creates a client. A zero timeout leaves the transport default.
func New(baseURL, userID string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		userID:  userID,
		http:    &http.Client{Timeout: timeout},
	}
}

// NewFromConfig creates a client from the [api] section and user id
func NewFromConfig(cfg *config.Config) *Client {
	return New(cfg.API.BaseURL, cfg.UserID, cfg.API.Timeout)
}

// UserID returns the user every request is made for
func (c *Client) UserID() string {
	return c.userID
}

// BaseURL returns the backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) userPath(resource string, parts ...string) string {
	p := "/" + resource + "/" + url.PathEscape(c.userID)
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

// do sends one JSON request. out may be nil when the response body is unused.
func (c *Client) do(ctx context.Context, method, path string, in, out any, header http.Header) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug("Request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%s %s: %w: %w", method, path, apperrors.ErrNetwork, err)
	}
	defer resp.Body.Close()

	logger.Debug("Request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       errorMessage(data),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w: %w", method, path, apperrors.ErrNetwork, err)
	}
	return nil
}

// errorMessage prefers the "error" field of a JSON error body
func errorMessage(data []byte) string {
	var er ErrorResponse
	if err := json.Unmarshal(data, &er); err == nil && er.Error != "" {
		return er.Error
	}
	return strings.TrimSpace(string(data))
}

func idempotent(key string) http.Header {
	if key == "" {
		return nil
	}
	h := http.Header{}
	h.Set(constants.IdempotencyHeader, key)
	return h
}

// ListRoutines fetches every saved routine of the user
func (c *Client) ListRoutines(ctx context.Context) ([]models.RoutineEntry, error) {
	var records []RoutineRecord
	if err := c.do(ctx, http.MethodGet, c.userPath("routine"), nil, &records, nil); err != nil {
		return nil, err
	}
	entries := make([]models.RoutineEntry, len(records))
	for i, r := range records {
		entries[i] = r.Model()
	}
	return entries, nil
}

// CreateRoutine persists a new routine. The routine id doubles as the
// idempotency key.
func (c *Client) CreateRoutine(ctx context.Context, entry models.RoutineEntry) (models.RoutineEntry, error) {
	var out RoutineRecord
	err := c.do(ctx, http.MethodPost, c.userPath("routine"), RoutineFromModel(entry), &out, idempotent(entry.ID))
	if err != nil {
		return models.RoutineEntry{}, err
	}
	return out.Model(), nil
}

// UpdateRoutine replaces a stored routine
func (c *Client) UpdateRoutine(ctx context.Context, entry models.RoutineEntry) (models.RoutineEntry, error) {
	var out RoutineRecord
	err := c.do(ctx, http.MethodPut, c.userPath("routine", entry.ID), RoutineFromModel(entry), &out, nil)
	if err != nil {
		return models.RoutineEntry{}, err
	}
	return out.Model(), nil
}

// DeleteRoutine removes a stored routine
func (c *Client) DeleteRoutine(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.userPath("routine", id), nil, nil, nil)
}

// Suggestions asks the backend for a product list for tod
func (c *Client) Suggestions(ctx context.Context, tod models.TimeOfDay) ([]string, error) {
	var out SuggestionResponse
	err := c.do(ctx, http.MethodPost, "/routineSuggestions/suggestions", SuggestionRequest{Time: string(tod)}, &out, nil)
	if err != nil {
		return nil, err
	}
	return out.Suggestions, nil
}

// ListTracker fetches every tracker entry of the user
func (c *Client) ListTracker(ctx context.Context) ([]models.TrackerEntry, error) {
	var records []TrackerRecord
	if err := c.do(ctx, http.MethodGet, c.userPath("tracker"), nil, &records, nil); err != nil {
		return nil, err
	}
	entries := make([]models.TrackerEntry, len(records))
	for i, r := range records {
		entries[i] = r.Model()
	}
	return entries, nil
}

// CreateTracker persists a new tracker entry under the given idempotency key
func (c *Client) CreateTracker(ctx context.Context, entry models.TrackerEntry, key string) (models.TrackerEntry, error) {
	var out TrackerRecord
	err := c.do(ctx, http.MethodPost, c.userPath("tracker"), TrackerFromModel(entry), &out, idempotent(key))
	if err != nil {
		return models.TrackerEntry{}, err
	}
	return out.Model(), nil
}

// UpdateTracker replaces a stored tracker entry
func (c *Client) UpdateTracker(ctx context.Context, entry models.TrackerEntry) (models.TrackerEntry, error) {
	var out TrackerRecord
	err := c.do(ctx, http.MethodPut, c.userPath("tracker", entry.ID), TrackerFromModel(entry), &out, nil)
	if err != nil {
		return models.TrackerEntry{}, err
	}
	return out.Model(), nil
}

// DeleteTracker removes a stored tracker entry
func (c *Client) DeleteTracker(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.userPath("tracker", id), nil, nil, nil)
}

// BeautyTips requests generated tips for the draft
func (c *Client) BeautyTips(ctx context.Context, req models.TipRequest) (string, error) {
	var out TipResponse
	if err := c.do(ctx, http.MethodPost, c.userPath("beautyTips"), TipRequestFromModel(req), &out, nil); err != nil {
		return "", err
	}
	return out.BeautyTips, nil
}

// TryOn sends an image payload and returns the backend message
func (c *Client) TryOn(ctx context.Context, image string) (string, error) {
	var out TryOnResponse
	if err := c.do(ctx, http.MethodPost, "/tryon", TryOnRequest{Image: image}, &out, nil); err != nil {
		return "", err
	}
	return out.Message, nil
}

// WeatherByCoords fetches current conditions for a location
func (c *Client) WeatherByCoords(ctx context.Context, coords models.Coordinates) (models.WeatherSnapshot, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))

	var out WeatherResponse
	if err := c.do(ctx, http.MethodGet, "/weather/by-coords?"+q.Encode(), nil, &out, nil); err != nil {
		return models.WeatherSnapshot{}, err
	}
	return out.Model(), nil
}
