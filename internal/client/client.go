// Package client talks to a running assetboard server over its HTTP API.
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

	"github.com/martinsuchenak/assetboard/internal/classify"
	"github.com/martinsuchenak/assetboard/internal/model"
)

var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response from the server
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

// FilterResult is the response of the filter mutating endpoints
type FilterResult struct {
	Filter   model.FilterConfig `json:"filter"`
	Overview *model.Overview    `json:"overview"`
}

// RealmResult is the response of PUT /api/overview/realm
type RealmResult struct {
	Realm     string `json:"realm"`
	Refreshed bool   `json:"refreshed"`
}

// Client is an API client
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client for the server at baseURL. token is sent as a bearer
// token when set.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Overview(ctx context.Context) (*model.Overview, error) {
	var ov model.Overview
	if err := c.do(ctx, http.MethodGet, "/api/overview", nil, &ov); err != nil {
		return nil, err
	}
	return &ov, nil
}

func (c *Client) Refresh(ctx context.Context) (*model.Overview, error) {
	var ov model.Overview
	if err := c.do(ctx, http.MethodPost, "/api/overview/refresh", nil, &ov); err != nil {
		return nil, err
	}
	return &ov, nil
}

func (c *Client) Filter(ctx context.Context) (*model.FilterConfig, error) {
	var cfg model.FilterConfig
	if err := c.do(ctx, http.MethodGet, "/api/overview/filter", nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Client) UpdateFilter(ctx context.Context, partial model.PartialFilterConfig) (*FilterResult, error) {
	var res FilterResult
	if err := c.do(ctx, http.MethodPatch, "/api/overview/filter", partial, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) SetIncludeTypes(ctx context.Context, types []string) (*FilterResult, error) {
	if types == nil {
		types = []string{}
	}
	var res FilterResult
	if err := c.do(ctx, http.MethodPut, "/api/overview/filter/include-types", map[string][]string{"types": types}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) AddExcludeTypes(ctx context.Context, types []string) (*FilterResult, error) {
	var res FilterResult
	if err := c.do(ctx, http.MethodPost, "/api/overview/filter/exclude-types", map[string][]string{"types": types}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Realm(ctx context.Context) (string, error) {
	var res RealmResult
	if err := c.do(ctx, http.MethodGet, "/api/overview/realm", nil, &res); err != nil {
		return "", err
	}
	return res.Realm, nil
}

func (c *Client) SetRealm(ctx context.Context, realm string) (*RealmResult, error) {
	var res RealmResult
	if err := c.do(ctx, http.MethodPut, "/api/overview/realm", map[string]string{"realm": realm}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) AssetType(ctx context.Context, assetType string) (*classify.TypeInfo, error) {
	var info classify.TypeInfo
	if err := c.do(ctx, http.MethodGet, "/api/asset-types/"+url.PathEscape(assetType), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// ListAssets lists stored assets, optionally filtered by realm and type
func (c *Client) ListAssets(ctx context.Context, filter model.AssetFilter) ([]model.Asset, error) {
	q := url.Values{}
	if filter.Realm != "" {
		q.Set("realm", filter.Realm)
	}
	if filter.Type != "" {
		q.Set("type", filter.Type)
	}
	path := "/api/assets"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var assets []model.Asset
	if err := c.do(ctx, http.MethodGet, path, nil, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

func (c *Client) CreateAsset(ctx context.Context, asset model.Asset) (*model.Asset, error) {
	var created model.Asset
	if err := c.do(ctx, http.MethodPost, "/api/assets", asset, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) DeleteAsset(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/assets/"+url.PathEscape(id), nil, nil)
}

// do sends a JSON request and decodes the JSON response into out when out
// is not nil. A 404 is reported as ErrNotFound wrapped in an APIError.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("connecting to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var msg struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		if json.Unmarshal(raw, &msg) == nil && msg.Error != "" {
			apiErr.Message = msg.Error
		} else {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %w", ErrNotFound, apiErr)
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
