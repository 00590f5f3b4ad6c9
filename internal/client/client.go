// Package client is a typed HTTP client for the notifyd registry API.
package client

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

	"github.com/juju/errors"

	"notifyd/pkg/types"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx response from the registry.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("registry returned %d: %s", e.Status, e.Message)
}

func (e *APIError) StatusCode() int { return e.Status }

// Is maps 400 to errors.NotValid and 404 to errors.NotFound.
func (e *APIError) Is(target error) bool {
	switch e.Status {
	case http.StatusBadRequest:
		return target == errors.NotValid
	case http.StatusNotFound:
		return target == errors.NotFound
	}
	return false
}

// Client talks to a registry at BaseURL.
type Client struct {
	base string
	hc   *http.Client
}

// New returns a client for baseURL. A nil hc uses a client with a 10s timeout.
func New(baseURL string, hc *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.NotValidf("registry url %q", baseURL)
	}
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), hc: hc}, nil
}

func (c *Client) Subscribe(ctx context.Context, id, webhookURL string) (types.SubscribeResponse, error) {
	var out types.SubscribeResponse
	err := c.do(ctx, http.MethodPost, "/subscribe", types.SubscribeRequest{ID: id, WebhookURL: webhookURL}, &out)
	return out, errors.Annotatef(err, "subscribe %q", id)
}

func (c *Client) Unsubscribe(ctx context.Context, id string) error {
	err := c.do(ctx, http.MethodPost, "/unsubscribe", types.UnsubscribeRequest{ID: id}, nil)
	return errors.Annotatef(err, "unsubscribe %q", id)
}

func (c *Client) ListRecords(ctx context.Context) ([]types.Record, error) {
	var out []types.Record
	err := c.do(ctx, http.MethodGet, "/data", nil, &out)
	return out, errors.Trace(err)
}

func (c *Client) GetRecord(ctx context.Context, id int64) (types.Record, error) {
	var out types.Record
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/data/%d", id), nil, &out)
	return out, errors.Annotatef(err, "get record %d", id)
}

func (c *Client) AddRecord(ctx context.Context, name, value string) (types.Record, error) {
	var out types.Record
	err := c.do(ctx, http.MethodPost, "/data", types.RecordRequest{Name: name, Value: value}, &out)
	return out, errors.Annotate(err, "add record")
}

func (c *Client) UpdateRecord(ctx context.Context, id int64, name, value string) (types.Record, error) {
	var out types.Record
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/data/%d", id), types.RecordRequest{Name: name, Value: value}, &out)
	return out, errors.Annotatef(err, "update record %d", id)
}

func (c *Client) DeleteRecord(ctx context.Context, id int64) error {
	err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/data/%d", id), nil, nil)
	return errors.Annotatef(err, "delete record %d", id)
}

func (c *Client) ListObservers(ctx context.Context) ([]types.Observer, error) {
	var out []types.Observer
	err := c.do(ctx, http.MethodGet, "/observers", nil, &out)
	return out, errors.Trace(err)
}

func (c *Client) Status(ctx context.Context) (types.StatsResponse, error) {
	var out types.StatsResponse
	err := c.do(ctx, http.MethodGet, "/status", nil, &out)
	return out, errors.Trace(err)
}

func (c *Client) Deliveries(ctx context.Context) ([]types.DeliveryResult, error) {
	var out []types.DeliveryResult
	err := c.do(ctx, http.MethodGet, "/deliveries", nil, &out)
	return out, errors.Trace(err)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return errors.Trace(err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return errors.Trace(err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.hc.Do(req)
	if err != nil {
		return errors.Trace(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er types.ErrorResponse
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		msg := strings.TrimSpace(string(b))
		if json.Unmarshal(b, &er) == nil && er.Error != "" {
			msg = er.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Annotate(err, "decode response")
	}
	return nil
}
