package storage

import (
	"errors"

	"github.com/martinsuchenak/assetboard/internal/model"
)

var (
	ErrAssetNotFound  = errors.New("asset not found")
	ErrAssetExists    = errors.New("asset already exists")
	ErrInvalidID      = errors.New("invalid asset ID")
	ErrFilterNotFound = errors.New("filter configuration not found")
)

// AssetStorage is the local asset repository
type AssetStorage interface {
	ListAssets(filter *model.AssetFilter) ([]model.Asset, error)
	GetAsset(id string) (*model.Asset, error)
	CreateAsset(asset *model.Asset) error
	UpdateAsset(asset *model.Asset) error
	DeleteAsset(id string) error
}

// FilterStorage persists the overview filter configuration
type FilterStorage interface {
	LoadFilter() (*model.FilterConfig, error)
	SaveFilter(cfg model.FilterConfig) error
}

// Storage is everything the SQLite backend provides
type Storage interface {
	AssetStorage
	FilterStorage
	Close() error
}

// NewStorage opens the SQLite storage in dataDir
func NewStorage(dataDir string) (Storage, error) {
	return NewSQLiteStorage(dataDir)
}
