// Package source provides the asset sources the overview is computed from:
// a remote manager REST API, the local store, and fixed record sets.
package source

import (
	"context"
	"slices"

	"github.com/martinsuchenak/assetboard/internal/model"
	"github.com/martinsuchenak/assetboard/internal/storage"
)

// Source produces the raw asset list for a realm
type Source interface {
	Name() string
	QueryAssets(ctx context.Context, realm string) ([]model.Asset, error)
}

// Static serves a fixed record set regardless of realm
type Static struct {
	name   string
	assets []model.Asset
}

// NewStatic creates a source that always returns a copy of assets
func NewStatic(name string, assets []model.Asset) *Static {
	return &Static{name: name, assets: slices.Clone(assets)}
}

func (s *Static) Name() string { return s.name }

func (s *Static) QueryAssets(ctx context.Context, realm string) ([]model.Asset, error) {
	return slices.Clone(s.assets), nil
}

// Sample serves SampleAssets for the requested realm
type Sample struct{}

func (Sample) Name() string { return "sample" }

func (Sample) QueryAssets(ctx context.Context, realm string) ([]model.Asset, error) {
	return SampleAssets(realm), nil
}

// SampleAssets is the substitute record set used when the real source is
// unavailable: five energy assets plus one group, one console and one agent
// that the default filter hides.
func SampleAssets(realm string) []model.Asset {
	return []model.Asset{
		{ID: "pv-1", Name: "Solar Panel 1", Type: "ElectricityProducerSolarAsset", Realm: realm},
		{ID: "pv-2", Name: "Solar Panel 2", Type: "ElectricityProducerSolarAsset", Realm: realm},
		{ID: "pv-3", Name: "Solar Panel 3", Type: "ElectricityProducerSolarAsset", Realm: realm},
		{ID: "ec-1", Name: "EV Charger 1", Type: "ElectricityConsumerAsset", Realm: realm},
		{ID: "ec-2", Name: "EV Charger 2", Type: "ElectricityConsumerAsset", Realm: realm},
		{ID: "group-1", Name: "Main Group", Type: "GroupAsset", Realm: realm},
		{ID: "console-1", Name: "Console 1", Type: "ConsoleAsset", Realm: realm},
		{ID: "agent-1", Name: "MQTT Agent", Type: "HTTPAgentAsset", Realm: realm},
	}
}

// Store reads assets from the local asset repository
type Store struct {
	storage storage.AssetStorage
}

// NewStore creates a store-backed source
func NewStore(s storage.AssetStorage) *Store {
	return &Store{storage: s}
}

func (s *Store) Name() string { return "store" }

// QueryAssets lists the stored assets of realm, or of every realm when realm
// is empty
func (s *Store) QueryAssets(ctx context.Context, realm string) ([]model.Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.storage.ListAssets(&model.AssetFilter{Realm: realm})
}
