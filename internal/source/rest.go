package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/martinsuchenak/assetboard/internal/log"
	"github.com/martinsuchenak/assetboard/internal/model"
)

// maxResponseSize bounds how much of a query response is read
const maxResponseSize = 32 << 20

var ErrManagerURLRequired = errors.New("manager URL is required")

// RESTConfig configures the manager REST source
type RESTConfig struct {
	ManagerURL   string
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client // optional, defaults to http.DefaultClient
}

// REST queries assets from a manager's asset query endpoint. With client
// credentials configured, requests carry an OAuth2 token issued by the
// realm's token endpoint.
type REST struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	mu      sync.Mutex
	clients map[string]*http.Client // authenticated clients per realm
}

// NewREST creates a REST source
func NewREST(cfg RESTConfig) (*REST, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.ManagerURL), "/")
	if baseURL == "" {
		return nil, ErrManagerURLRequired
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid manager URL: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &REST{
		baseURL:      baseURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   httpClient,
		clients:      make(map[string]*http.Client),
	}, nil
}

func (r *REST) Name() string { return "rest" }

// QueryAssets posts an empty asset query for realm and decodes the response.
// A response in an unrecognized shape is logged and yields no assets.
func (r *REST) QueryAssets(ctx context.Context, realm string) ([]model.Asset, error) {
	endpoint := fmt.Sprintf("%s/api/%s/asset/query", r.baseURL, url.PathEscape(realm))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader([]byte("{}")))
	if err != nil {
		return nil, fmt.Errorf("building asset query: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log.Debug("Querying assets", "realm", realm, "url", endpoint)

	resp, err := r.clientFor(realm).Do(req)
	if err != nil {
		return nil, fmt.Errorf("asset query failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading asset query response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("asset query failed: %s", resp.Status)
	}

	assets, ok := DecodeAssets(body)
	if !ok {
		log.Warn("Unexpected asset query response format", "realm", realm, "bytes", len(body))
		return []model.Asset{}, nil
	}

	log.Debug("Asset query completed", "realm", realm, "count", len(assets))
	return assets, nil
}

// TokenURL returns the OAuth2 token endpoint of realm
func (r *REST) TokenURL(realm string) string {
	return fmt.Sprintf("%s/auth/realms/%s/protocol/openid-connect/token", r.baseURL, url.PathEscape(realm))
}

func (r *REST) clientFor(realm string) *http.Client {
	if r.clientID == "" {
		return r.httpClient
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clients[realm]; ok {
		return c
	}

	cc := &clientcredentials.Config{
		ClientID:     r.clientID,
		ClientSecret: r.clientSecret,
		TokenURL:     r.TokenURL(realm),
	}
	// Token requests go through the same transport as queries
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, r.httpClient)
	c := cc.Client(ctx)
	r.clients[realm] = c
	return c
}
