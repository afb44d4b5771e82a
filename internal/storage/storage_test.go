package storage

import (
	"errors"
	"reflect"
	"testing"

	"github.com/martinsuchenak/assetboard/internal/model"
)

// setupTestStorage creates a temporary storage instance for testing
func setupTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	storage, err := NewSQLiteStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create test storage: %v", err)
	}
	t.Cleanup(func() { storage.Close() })

	return storage
}

func TestSQLiteStorage_SchemaVersion(t *testing.T) {
	storage := setupTestStorage(t)

	version, err := storage.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion() error = %v", err)
	}
	if version != len(migrations) {
		t.Errorf("SchemaVersion() = %d, want %d", version, len(migrations))
	}
}

func TestSQLiteStorage_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()

	first, err := NewSQLiteStorage(dir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	if err := first.CreateAsset(&model.Asset{ID: "a1", Name: "Battery", Type: "BatteryAsset", Realm: "master"}); err != nil {
		t.Fatalf("CreateAsset() error = %v", err)
	}
	first.Close()

	second, err := NewSQLiteStorage(dir)
	if err != nil {
		t.Fatalf("Failed to reopen storage: %v", err)
	}
	defer second.Close()

	if _, err := second.GetAsset("a1"); err != nil {
		t.Errorf("asset lost after reopen: %v", err)
	}
}

func TestSQLiteStorage_CreateAndGetAsset(t *testing.T) {
	storage := setupTestStorage(t)

	asset := &model.Asset{ID: "pv-1", Name: "Solar Panel 1", Type: "ElectricityProducerSolarAsset", Realm: "master"}
	if err := storage.CreateAsset(asset); err != nil {
		t.Fatalf("CreateAsset() error = %v", err)
	}
	if asset.CreatedAt.IsZero() || asset.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}

	got, err := storage.GetAsset("pv-1")
	if err != nil {
		t.Fatalf("GetAsset() error = %v", err)
	}
	if got.Name != asset.Name || got.Type != asset.Type || got.Realm != asset.Realm {
		t.Errorf("GetAsset() = %+v, want %+v", got, asset)
	}

	byName, err := storage.GetAsset("solar panel 1")
	if err != nil {
		t.Fatalf("GetAsset() by name error = %v", err)
	}
	if byName.ID != "pv-1" {
		t.Errorf("GetAsset() by name returned %s", byName.ID)
	}
}

func TestSQLiteStorage_CreateAssetErrors(t *testing.T) {
	storage := setupTestStorage(t)

	if err := storage.CreateAsset(&model.Asset{Name: "no id"}); !errors.Is(err, ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}

	asset := &model.Asset{ID: "dup", Name: "Dup", Type: "ThingAsset"}
	if err := storage.CreateAsset(asset); err != nil {
		t.Fatalf("CreateAsset() error = %v", err)
	}
	if err := storage.CreateAsset(&model.Asset{ID: "dup", Name: "Dup again"}); !errors.Is(err, ErrAssetExists) {
		t.Errorf("expected ErrAssetExists, got %v", err)
	}
}

func TestSQLiteStorage_GetAssetNotFound(t *testing.T) {
	storage := setupTestStorage(t)

	if _, err := storage.GetAsset("missing"); !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("expected ErrAssetNotFound, got %v", err)
	}
}

func TestSQLiteStorage_ListAssets(t *testing.T) {
	storage := setupTestStorage(t)

	fixtures := []model.Asset{
		{ID: "1", Name: "Weather", Type: "WeatherAsset", Realm: "master"},
		{ID: "2", Name: "Battery", Type: "BatteryAsset", Realm: "master"},
		{ID: "3", Name: "Other battery", Type: "BatteryAsset", Realm: "smartcity"},
		{ID: "4", Name: "Untyped", Realm: "master"},
	}
	for i := range fixtures {
		if err := storage.CreateAsset(&fixtures[i]); err != nil {
			t.Fatalf("CreateAsset() error = %v", err)
		}
	}

	tests := []struct {
		name   string
		filter *model.AssetFilter
		want   []string
	}{
		{"all", nil, []string{"1", "2", "3", "4"}},
		{"by realm", &model.AssetFilter{Realm: "master"}, []string{"1", "2", "4"}},
		{"by type", &model.AssetFilter{Type: "BatteryAsset"}, []string{"2", "3"}},
		{"by realm and type", &model.AssetFilter{Realm: "smartcity", Type: "BatteryAsset"}, []string{"3"}},
		{"no match", &model.AssetFilter{Realm: "nowhere"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assets, err := storage.ListAssets(tt.filter)
			if err != nil {
				t.Fatalf("ListAssets() error = %v", err)
			}
			ids := make([]string, 0, len(assets))
			for _, a := range assets {
				ids = append(ids, a.ID)
			}
			if !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("ListAssets() ids = %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestSQLiteStorage_UpdateAsset(t *testing.T) {
	storage := setupTestStorage(t)

	asset := &model.Asset{ID: "u1", Name: "Before", Type: "ThingAsset", Realm: "master"}
	if err := storage.CreateAsset(asset); err != nil {
		t.Fatalf("CreateAsset() error = %v", err)
	}

	update := &model.Asset{ID: "u1", Name: "After", Type: "HeatPumpAsset", Realm: "master"}
	if err := storage.UpdateAsset(update); err != nil {
		t.Fatalf("UpdateAsset() error = %v", err)
	}
	if update.CreatedAt.IsZero() {
		t.Error("CreatedAt not populated on update")
	}

	got, err := storage.GetAsset("u1")
	if err != nil {
		t.Fatalf("GetAsset() error = %v", err)
	}
	if got.Name != "After" || got.Type != "HeatPumpAsset" {
		t.Errorf("asset not updated: %+v", got)
	}

	if err := storage.UpdateAsset(&model.Asset{ID: "missing"}); !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("expected ErrAssetNotFound, got %v", err)
	}
}

func TestSQLiteStorage_DeleteAsset(t *testing.T) {
	storage := setupTestStorage(t)

	if err := storage.CreateAsset(&model.Asset{ID: "d1", Name: "Delete me"}); err != nil {
		t.Fatalf("CreateAsset() error = %v", err)
	}
	if err := storage.DeleteAsset("d1"); err != nil {
		t.Fatalf("DeleteAsset() error = %v", err)
	}
	if err := storage.DeleteAsset("d1"); !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("expected ErrAssetNotFound on second delete, got %v", err)
	}
}

func TestSQLiteStorage_Filter(t *testing.T) {
	storage := setupTestStorage(t)

	if _, err := storage.LoadFilter(); !errors.Is(err, ErrFilterNotFound) {
		t.Fatalf("expected ErrFilterNotFound, got %v", err)
	}

	cfg := model.DefaultFilter().WithExcludeTypes([]string{"ThingAsset"})
	if err := storage.SaveFilter(cfg); err != nil {
		t.Fatalf("SaveFilter() error = %v", err)
	}

	got, err := storage.LoadFilter()
	if err != nil {
		t.Fatalf("LoadFilter() error = %v", err)
	}
	if !reflect.DeepEqual(*got, cfg) {
		t.Errorf("LoadFilter() = %+v, want %+v", *got, cfg)
	}

	replacement := model.FilterConfig{HideAgentAssets: true}
	if err := storage.SaveFilter(replacement); err != nil {
		t.Fatalf("SaveFilter() error = %v", err)
	}
	got, err = storage.LoadFilter()
	if err != nil {
		t.Fatalf("LoadFilter() error = %v", err)
	}
	if got.HasIncludeList() || !got.HideAgentAssets || got.HideSystemAssets {
		t.Errorf("filter not replaced: %+v", got)
	}
}
