// Package registry holds named asset source providers and optional features.
// Extensions register providers from an init function; the server resolves
// the configured source by name at startup.
package registry

import (
	"slices"
	"sync"
)

// Registry manages source providers and features
type Registry struct {
	mu sync.RWMutex

	sourceProviders map[string]SourceProviderFactory

	// Feature implementations - stores actual feature objects, not just flags
	features map[string]interface{}
}

// SourceProviderFactory creates an asset source from provider options. The
// returned value must implement source.Source.
type SourceProviderFactory func(config map[string]interface{}) (interface{}, error)

var (
	registryInstance *Registry
	registryOnce     sync.Once
)

// New creates an empty registry
func New() *Registry {
	return &Registry{
		sourceProviders: make(map[string]SourceProviderFactory),
		features:        make(map[string]interface{}),
	}
}

// GetRegistry returns the singleton registry instance
func GetRegistry() *Registry {
	registryOnce.Do(func() {
		registryInstance = New()
	})
	return registryInstance
}

// RegisterSourceProvider registers a source provider factory, replacing any
// provider of the same name
func (r *Registry) RegisterSourceProvider(name string, factory SourceProviderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sourceProviders[name] = factory
}

// GetSourceProvider returns a source provider factory by name
func (r *Registry) GetSourceProvider(name string) (SourceProviderFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, exists := r.sourceProviders[name]
	return factory, exists
}

// ListSourceProviders returns the registered provider names, sorted
func (r *Registry) ListSourceProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.sourceProviders))
	for name := range r.sourceProviders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// RegisterFeature registers a feature implementation
func (r *Registry) RegisterFeature(name string, feature interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.features[name] = feature
}

// GetFeature returns a registered feature
func (r *Registry) GetFeature(name string) (interface{}, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	feature, exists := r.features[name]
	return feature, exists
}

// IsFeatureEnabled checks if a feature is registered
func (r *Registry) IsFeatureEnabled(feature string) bool {
	_, exists := r.GetFeature(feature)
	return exists
}
