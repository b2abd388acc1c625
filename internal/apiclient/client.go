// Package apiclient is the HTTP client of the venue API, used by the
// session pipeline for remote load, debounced save and PIN validation.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/seatwise/seatwise/internal/domain"
)

const defaultTimeout = 10 * time.Second

var (
	ErrNotFound     = errors.New("venue not found")
	ErrPINRequired  = errors.New("pin required")
	ErrPINInvalid   = errors.New("invalid pin")
	ErrMalformedPIN = errors.New("pin must be exactly 4 digits")
	ErrRateLimited  = errors.New("too many pin attempts")
)

// UpdatePayload is the PUT body. PIN is omitted entirely for view-only
// sessions so they can never rewrite the stored hash.
type UpdatePayload struct {
	VenueData domain.VenueData `json:"venue_data"`
	PIN       string           `json:"pin,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the venue API at baseURL (e.g.
// "http://localhost:8080/api"). A conservative timeout applies to every
// call so a stalled network can never wedge the session.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// NewWithHTTPClient allows injecting a custom HTTP client, mainly for tests.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: baseURL, http: hc}
}

// CreateVenue asks the server for a fresh venue and returns its slug.
func (c *Client) CreateVenue(ctx context.Context) (string, error) {
	const op = "apiclient.Client.CreateVenue"

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/venues", bytes.NewReader([]byte("{}")),
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	var out struct {
		Slug string `json:"slug"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return out.Slug, nil
}

// GetVenue fetches a venue snapshot. Returns ErrNotFound on 404.
func (c *Client) GetVenue(ctx context.Context, slug string) (*domain.Venue, error) {
	const op = "apiclient.Client.GetVenue"

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+"/venues/"+slug, nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	default:
		return nil, fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	var v domain.Venue
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &v, nil
}

// UpdateVenue upserts the snapshot under slug. PIN-protected venues reject
// writes without the correct PIN.
func (c *Client) UpdateVenue(ctx context.Context, slug string, payload UpdatePayload) (*domain.Venue, error) {
	const op = "apiclient.Client.UpdateVenue"

	if payload.PIN != "" && !domain.ValidPIN(payload.PIN) {
		return nil, fmt.Errorf("%s: %w", op, ErrMalformedPIN)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPut, c.baseURL+"/venues/"+slug, bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, fmt.Errorf("%s: %w", op, ErrPINRequired)
	case http.StatusForbidden:
		return nil, fmt.Errorf("%s: %w", op, ErrPINInvalid)
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%s: %w", op, ErrMalformedPIN)
	default:
		return nil, fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	var v domain.Venue
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &v, nil
}

// ValidatePIN checks a PIN against the server. A wrong PIN, a venue without
// a PIN, or an unknown slug all come back as ok == false with a message;
// only transport-level failures are errors. A throttled attempt returns
// ErrRateLimited along with the server's wait message. A malformed PIN
// never reaches the network.
func (c *Client) ValidatePIN(ctx context.Context, slug, pin string) (bool, string, error) {
	const op = "apiclient.Client.ValidatePIN"

	if !domain.ValidPIN(pin) {
		return false, "", fmt.Errorf("%s: %w", op, ErrMalformedPIN)
	}

	body, _ := json.Marshal(map[string]string{"pin": pin})

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/venues/"+slug+"/validate-pin", bytes.NewReader(body),
	)
	if err != nil {
		return false, "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw, &out)

	switch resp.StatusCode {
	case http.StatusOK:
		return out.Success, out.Message, nil
	case http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound:
		return false, out.Message, nil
	case http.StatusTooManyRequests:
		msg := out.Message
		if msg == "" {
			msg = "Too many PIN attempts, please try again later."
		}
		return false, msg, fmt.Errorf("%s: %w", op, ErrRateLimited)
	default:
		return false, "", fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}
}
