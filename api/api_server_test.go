package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/martinsuchenak/assetboard/internal/api"
	"github.com/martinsuchenak/assetboard/internal/client"
	"github.com/martinsuchenak/assetboard/internal/overview"
	"github.com/martinsuchenak/assetboard/internal/source"
	"github.com/martinsuchenak/assetboard/internal/storage"
)

// TestServer is a helper for integration tests
type TestServer struct {
	server   *httptest.Server
	overview *overview.Service
	storage  storage.Storage
}

// NewTestServer creates a test server computing the overview from src. A nil
// src uses the server's own asset store.
func NewTestServer(t *testing.T, src source.Source, token string) *TestServer {
	t.Helper()

	store, err := storage.NewSQLiteStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if src == nil {
		src = source.NewStore(store)
	}
	svc := overview.NewService(source.NewFallback(src, source.FallbackSample, 0), overview.Options{
		Realm:   "master",
		Filters: store,
	})

	mux := http.NewServeMux()
	api.NewHandler(svc, store).RegisterRoutes(mux)

	var handler http.Handler = mux
	if token != "" {
		handler = api.AuthMiddleware(token, handler)
	}
	handler = api.SecurityHeadersMiddleware(handler)

	ts := &TestServer{
		server:   httptest.NewServer(handler),
		overview: svc,
		storage:  store,
	}
	t.Cleanup(ts.Close)
	return ts
}

// Close stops the test server
func (ts *TestServer) Close() {
	if ts.server != nil {
		ts.server.Close()
	}
}

// URL returns the base URL of the test server
func (ts *TestServer) URL() string {
	return ts.server.URL
}

// Client returns an API client for the test server
func (ts *TestServer) Client(token string) *client.Client {
	return client.New(ts.URL(), token)
}
