package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/manav03panchal/plantcare/internal/errors"
	"github.com/manav03panchal/plantcare/internal/logging"
	"github.com/manav03panchal/plantcare/internal/model"
	"github.com/manav03panchal/plantcare/internal/output"
	"github.com/manav03panchal/plantcare/internal/validate"
)

// Client talks to a plantcare API server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for baseURL.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if err := validate.URL(baseURL); err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// BaseURL returns the server address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health checks that the server answers.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// CreatePlant creates a plant owned by req.Owner.
func (c *Client) CreatePlant(ctx context.Context, req CreateRequest) (model.Plant, error) {
	var p model.Plant
	err := c.do(ctx, http.MethodPost, "/api/plants", req, &p)
	return p, err
}

// ListPlants fetches every plant of owner.
func (c *Client) ListPlants(ctx context.Context, owner string) ([]model.Plant, error) {
	var plants []model.Plant
	err := c.do(ctx, http.MethodGet, "/api/plants/"+url.PathEscape(owner), nil, &plants)
	return plants, err
}

// WaterPlant waters a plant; the server applies the watering rules.
func (c *Client) WaterPlant(ctx context.Context, id string) (model.Plant, error) {
	var p model.Plant
	err := c.do(ctx, http.MethodPut, "/api/plants/"+url.PathEscape(id)+"/water", nil, &p)
	return p, err
}

// UpdatePlant edits a plant's metadata.
func (c *Client) UpdatePlant(ctx context.Context, id string, update model.PlantUpdate) (model.Plant, error) {
	var p model.Plant
	err := c.do(ctx, http.MethodPut, "/api/plants/"+url.PathEscape(id), update, &p)
	return p, err
}

// DeletePlant removes a plant.
func (c *Client) DeletePlant(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/plants/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := logging.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.NewRecoverableError(
			fmt.Sprintf("%s %s failed", method, path),
			fmt.Errorf("%w: %w", errors.ErrRemoteUnavailable, err), 0)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NewSystemErrorWithOp(method+" "+path, "server sent an unreadable response", err)
	}
	return nil
}

// decodeError maps an error response back onto the local error types.
func decodeError(resp *http.Response) error {
	var body output.ErrorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if json.Unmarshal(data, &body) != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(data))
		if body.Error == "" {
			body.Error = resp.Status
		}
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return errors.NewUserError(body.Error, body.Message).WithCause(errors.ErrPlantNotFound)
	case http.StatusBadRequest:
		return errors.NewUserError(body.Error, body.Message)
	case http.StatusConflict:
		return errors.Wrap(errors.ErrWriteConflict, body.Error)
	default:
		return errors.NewSystemError(fmt.Sprintf("server error (HTTP %d): %s", resp.StatusCode, body.Error), errors.ErrRemoteUnavailable)
	}
}
