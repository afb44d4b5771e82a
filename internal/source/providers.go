package source

import (
	"fmt"
	"net/http"

	"github.com/martinsuchenak/assetboard/internal/storage"
	"github.com/martinsuchenak/assetboard/pkg/registry"
)

// Provider option keys
const (
	OptManagerURL   = "manager_url"
	OptClientID     = "client_id"
	OptClientSecret = "client_secret"
	OptHTTPClient   = "http_client"
	OptStorage      = "storage"
)

func init() {
	Register(registry.GetRegistry())
}

// Register adds the built-in providers rest, store and sample to reg
func Register(reg *registry.Registry) {
	reg.RegisterSourceProvider("rest", func(config map[string]interface{}) (interface{}, error) {
		cfg := RESTConfig{}
		cfg.ManagerURL, _ = config[OptManagerURL].(string)
		cfg.ClientID, _ = config[OptClientID].(string)
		cfg.ClientSecret, _ = config[OptClientSecret].(string)
		cfg.HTTPClient, _ = config[OptHTTPClient].(*http.Client)
		return NewREST(cfg)
	})

	reg.RegisterSourceProvider("store", func(config map[string]interface{}) (interface{}, error) {
		store, ok := config[OptStorage].(storage.AssetStorage)
		if !ok || store == nil {
			return nil, fmt.Errorf("store source requires an asset storage")
		}
		return NewStore(store), nil
	})

	reg.RegisterSourceProvider("sample", func(map[string]interface{}) (interface{}, error) {
		return Sample{}, nil
	})
}

// FromRegistry builds the named source from reg
func FromRegistry(reg *registry.Registry, name string, config map[string]interface{}) (Source, error) {
	factory, ok := reg.GetSourceProvider(name)
	if !ok {
		return nil, fmt.Errorf("unknown asset source %q (available: %v)", name, reg.ListSourceProviders())
	}
	v, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("creating %s source: %w", name, err)
	}
	src, ok := v.(Source)
	if !ok {
		return nil, fmt.Errorf("provider %s returned %T, not a source", name, v)
	}
	return src, nil
}
