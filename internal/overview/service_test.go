package overview

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/martinsuchenak/assetboard/internal/model"
	"github.com/martinsuchenak/assetboard/internal/source"
	"github.com/martinsuchenak/assetboard/internal/storage"
)

type fakeFetcher struct {
	mu     sync.Mutex
	calls  int
	realms []string
	result func(realm string) source.Result
}

func (f *fakeFetcher) Fetch(ctx context.Context, realm string) source.Result {
	f.mu.Lock()
	f.calls++
	f.realms = append(f.realms, realm)
	f.mu.Unlock()
	return f.result(realm)
}

func sampleFetcher() *fakeFetcher {
	return &fakeFetcher{result: func(realm string) source.Result {
		return source.Result{Assets: source.SampleAssets(realm), Source: "sample"}
	}}
}

type memFilters struct {
	cfg     *model.FilterConfig
	saves   int
	loadErr error
	saveErr error
}

func (m *memFilters) LoadFilter() (*model.FilterConfig, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.cfg == nil {
		return nil, storage.ErrFilterNotFound
	}
	c := m.cfg.Clone()
	return &c, nil
}

func (m *memFilters) SaveFilter(cfg model.FilterConfig) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	c := cfg.Clone()
	m.cfg = &c
	return nil
}

func summaryTypes(ov *model.Overview) []string {
	var types []string
	for _, s := range ov.Summaries {
		types = append(types, s.Type)
	}
	return types
}

func TestService_RefreshDefaultFilter(t *testing.T) {
	f := sampleFetcher()
	svc := NewService(f, Options{Realm: "master"})

	ov := svc.Refresh(context.Background())
	if ov.Realm != "master" {
		t.Errorf("expected realm master, got %q", ov.Realm)
	}
	want := []string{"ElectricityProducerSolarAsset", "ElectricityConsumerAsset"}
	if got := summaryTypes(ov); !slices.Equal(got, want) {
		t.Fatalf("expected types %v, got %v", want, got)
	}
	if ov.Summaries[0].Count != 3 || ov.Summaries[1].Count != 2 {
		t.Errorf("unexpected counts: %+v", ov.Summaries)
	}
	if ov.Total != 5 {
		t.Errorf("expected total 5, got %d", ov.Total)
	}
	if ov.Summaries[0].Icon != "☀️" || ov.Summaries[1].DisplayName != "EV Chargers" {
		t.Errorf("metadata not resolved: %+v", ov.Summaries)
	}
	if ov.Source != "sample" || ov.Fallback {
		t.Errorf("unexpected source info: %q fallback=%v", ov.Source, ov.Fallback)
	}
	if ov.GeneratedAt.IsZero() {
		t.Error("expected generated_at to be set")
	}
}

func TestService_OverviewComputesOnce(t *testing.T) {
	f := sampleFetcher()
	svc := NewService(f, Options{Realm: "master"})

	if svc.Snapshot() != nil {
		t.Fatal("expected no snapshot before first refresh")
	}
	first := svc.Overview(context.Background())
	second := svc.Overview(context.Background())
	if f.calls != 1 {
		t.Errorf("expected 1 fetch, got %d", f.calls)
	}
	if first.Total != second.Total {
		t.Errorf("expected same snapshot, got %d and %d", first.Total, second.Total)
	}

	// callers get copies
	second.Summaries[0].Count = 99
	if svc.Snapshot().Summaries[0].Count == 99 {
		t.Error("snapshot modified through returned overview")
	}
}

func TestService_FallbackFlagPropagates(t *testing.T) {
	f := &fakeFetcher{result: func(realm string) source.Result {
		return source.Result{Assets: source.SampleAssets(realm), Source: "sample", Fallback: true, Err: errors.New("down")}
	}}
	svc := NewService(f, Options{Realm: "master"})

	ov := svc.Refresh(context.Background())
	if !ov.Fallback {
		t.Error("expected fallback flag")
	}
	if ov.Total != 5 {
		t.Errorf("expected total 5, got %d", ov.Total)
	}
}

func TestService_SetIncludeTypes(t *testing.T) {
	svc := NewService(sampleFetcher(), Options{Realm: "master"})

	cfg, ov := svc.SetIncludeTypes(context.Background(), []string{"ElectricityConsumerAsset"})
	if !slices.Equal(cfg.IncludeTypes, []string{"ElectricityConsumerAsset"}) {
		t.Errorf("unexpected include types: %v", cfg.IncludeTypes)
	}
	if got := summaryTypes(ov); !slices.Equal(got, []string{"ElectricityConsumerAsset"}) {
		t.Errorf("unexpected summary types: %v", got)
	}

	// empty include list with hides off counts everything
	svc.UpdateFilter(context.Background(), model.PartialFilterConfig{
		HideSystemAssets: boolPtr(false),
		HideGroupAssets:  boolPtr(false),
		HideAgentAssets:  boolPtr(false),
	})
	_, ov = svc.SetIncludeTypes(context.Background(), nil)
	if ov.Total != 8 {
		t.Errorf("expected all 8 assets counted, got %d", ov.Total)
	}
}

func TestService_AddExcludeTypes(t *testing.T) {
	svc := NewService(sampleFetcher(), Options{Realm: "master"})

	cfg, ov := svc.AddExcludeTypes(context.Background(), []string{"ElectricityConsumerAsset"})
	if !slices.Equal(cfg.ExcludeTypes, []string{"ElectricityConsumerAsset"}) {
		t.Errorf("unexpected exclude types: %v", cfg.ExcludeTypes)
	}
	if got := summaryTypes(ov); !slices.Equal(got, []string{"ElectricityProducerSolarAsset"}) {
		t.Errorf("unexpected summary types: %v", got)
	}

	cfg, _ = svc.AddExcludeTypes(context.Background(), []string{"BatteryAsset", "ElectricityConsumerAsset"})
	want := []string{"ElectricityConsumerAsset", "BatteryAsset"}
	if !slices.Equal(cfg.ExcludeTypes, want) {
		t.Errorf("expected %v, got %v", want, cfg.ExcludeTypes)
	}
	// include list untouched
	if !slices.Equal(cfg.IncludeTypes, model.DefaultFilter().IncludeTypes) {
		t.Errorf("include list changed: %v", cfg.IncludeTypes)
	}
}

func TestService_UpdateFilterKeepsOmittedFields(t *testing.T) {
	svc := NewService(sampleFetcher(), Options{Realm: "master"})

	cfg, ov := svc.UpdateFilter(context.Background(), model.PartialFilterConfig{HideGroupAssets: boolPtr(false)})
	if cfg.HideGroupAssets {
		t.Error("expected group assets shown")
	}
	if !cfg.HideSystemAssets || !cfg.HideAgentAssets {
		t.Error("expected other hide flags retained")
	}
	// GroupAsset is still outside the default include list
	if ov.Total != 5 {
		t.Errorf("expected total 5, got %d", ov.Total)
	}

	cfg, ov = svc.UpdateFilter(context.Background(), model.PartialFilterConfig{IncludeTypes: &[]string{}})
	if cfg.HasIncludeList() {
		t.Errorf("expected include list cleared, got %v", cfg.IncludeTypes)
	}
	if got := summaryTypes(ov); !slices.Contains(got, "GroupAsset") {
		t.Errorf("expected GroupAsset counted, got %v", got)
	}
	if slices.Contains(summaryTypes(ov), "ConsoleAsset") {
		t.Error("expected ConsoleAsset hidden")
	}
}

func TestService_EarlierOverviewUnaffected(t *testing.T) {
	svc := NewService(sampleFetcher(), Options{Realm: "master"})

	before := svc.Refresh(context.Background())
	svc.AddExcludeTypes(context.Background(), []string{"ElectricityProducerSolarAsset"})

	if before.Total != 5 || len(before.Summaries) != 2 {
		t.Errorf("earlier overview changed: %+v", before)
	}
	if svc.Snapshot().Total != 2 {
		t.Errorf("expected new snapshot total 2, got %d", svc.Snapshot().Total)
	}
}

func TestService_SetRealm(t *testing.T) {
	f := sampleFetcher()
	svc := NewService(f, Options{})

	if svc.SetRealm(context.Background(), "master") {
		t.Error("first realm should not trigger a refresh")
	}
	if svc.SetRealm(context.Background(), "master") {
		t.Error("same realm should not trigger a refresh")
	}
	if f.calls != 0 {
		t.Fatalf("expected no fetch, got %d", f.calls)
	}

	if !svc.SetRealm(context.Background(), "smartcity") {
		t.Error("expected refresh on realm change")
	}
	if svc.Realm() != "smartcity" {
		t.Errorf("expected realm smartcity, got %q", svc.Realm())
	}
	if !slices.Equal(f.realms, []string{"smartcity"}) {
		t.Errorf("unexpected fetched realms: %v", f.realms)
	}
	if svc.Snapshot().Realm != "smartcity" {
		t.Errorf("snapshot realm %q", svc.Snapshot().Realm)
	}
}

func TestService_PersistedFilter(t *testing.T) {
	t.Run("loaded on start", func(t *testing.T) {
		saved := model.DefaultFilter().WithIncludeTypes([]string{"BatteryAsset"})
		svc := NewService(sampleFetcher(), Options{Realm: "master", Filters: &memFilters{cfg: &saved}})
		if !slices.Equal(svc.Filter().IncludeTypes, []string{"BatteryAsset"}) {
			t.Errorf("unexpected filter: %+v", svc.Filter())
		}
	})

	t.Run("default when missing", func(t *testing.T) {
		svc := NewService(sampleFetcher(), Options{Filters: &memFilters{}})
		if !slices.Equal(svc.Filter().IncludeTypes, model.DefaultFilter().IncludeTypes) {
			t.Errorf("expected default filter, got %+v", svc.Filter())
		}
	})

	t.Run("default on load error", func(t *testing.T) {
		svc := NewService(sampleFetcher(), Options{Filters: &memFilters{loadErr: errors.New("boom")}})
		if !svc.Filter().HideAgentAssets {
			t.Errorf("expected default filter, got %+v", svc.Filter())
		}
	})

	t.Run("saved on change", func(t *testing.T) {
		store := &memFilters{}
		svc := NewService(sampleFetcher(), Options{Filters: store})
		svc.SetIncludeTypes(context.Background(), []string{"WeatherAsset"})
		svc.AddExcludeTypes(context.Background(), []string{"GroupAsset"})
		if store.saves != 2 {
			t.Errorf("expected 2 saves, got %d", store.saves)
		}
		if !slices.Equal(store.cfg.IncludeTypes, []string{"WeatherAsset"}) ||
			!slices.Equal(store.cfg.ExcludeTypes, []string{"GroupAsset"}) {
			t.Errorf("unexpected saved filter: %+v", store.cfg)
		}
	})

	t.Run("save error keeps filter", func(t *testing.T) {
		svc := NewService(sampleFetcher(), Options{Filters: &memFilters{saveErr: errors.New("disk full")}})
		cfg, _ := svc.SetIncludeTypes(context.Background(), []string{"WeatherAsset"})
		if !slices.Equal(cfg.IncludeTypes, []string{"WeatherAsset"}) {
			t.Errorf("unexpected filter: %+v", cfg)
		}
	})

	t.Run("sqlite round trip", func(t *testing.T) {
		dir := t.TempDir()
		store, err := storage.NewSQLiteStorage(dir)
		if err != nil {
			t.Fatalf("NewSQLiteStorage: %v", err)
		}
		svc := NewService(sampleFetcher(), Options{Filters: store})
		svc.AddExcludeTypes(context.Background(), []string{"PVAsset"})
		store.Close()

		store, err = storage.NewSQLiteStorage(dir)
		if err != nil {
			t.Fatalf("reopen: %v", err)
		}
		defer store.Close()
		svc = NewService(sampleFetcher(), Options{Filters: store})
		if !slices.Equal(svc.Filter().ExcludeTypes, []string{"PVAsset"}) {
			t.Errorf("expected persisted exclude list, got %v", svc.Filter().ExcludeTypes)
		}
	})
}

func TestService_FilterReturnsCopy(t *testing.T) {
	svc := NewService(sampleFetcher(), Options{})
	cfg := svc.Filter()
	cfg.IncludeTypes[0] = "Mutated"
	if svc.Filter().IncludeTypes[0] == "Mutated" {
		t.Error("service filter modified through returned value")
	}
}

func TestService_ConcurrentUse(t *testing.T) {
	svc := NewService(sampleFetcher(), Options{Realm: "master"})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch i % 4 {
			case 0:
				svc.Refresh(ctx)
			case 1:
				svc.AddExcludeTypes(ctx, []string{"WeatherAsset"})
			case 2:
				svc.Overview(ctx)
			default:
				svc.Filter()
			}
		}()
	}
	wg.Wait()

	if got := svc.Filter().ExcludeTypes; !slices.Equal(got, []string{"WeatherAsset"}) {
		t.Errorf("expected single WeatherAsset exclude, got %v", got)
	}
}

func TestService_RefreshReadsClockAtStartAndEnd(t *testing.T) {
	svc := NewService(sampleFetcher(), Options{})
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	calls := 0
	svc.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}

	ov := svc.Refresh(context.Background())

	if calls != 2 {
		t.Errorf("expected clock read at start and end, got %d reads", calls)
	}
	if want := base.Add(2 * time.Second).UTC(); !ov.GeneratedAt.Equal(want) || ov.GeneratedAt.Location() != time.UTC {
		t.Errorf("GeneratedAt = %v, want %v in UTC", ov.GeneratedAt, want)
	}
}

// gatedFilters holds the first SaveFilter call until release is closed
type gatedFilters struct {
	entered chan struct{}
	release chan struct{}

	mu    sync.Mutex
	calls int
	saved *model.FilterConfig
}

func (g *gatedFilters) LoadFilter() (*model.FilterConfig, error) {
	return nil, storage.ErrFilterNotFound
}

func (g *gatedFilters) SaveFilter(cfg model.FilterConfig) error {
	g.mu.Lock()
	g.calls++
	first := g.calls == 1
	g.mu.Unlock()

	if first {
		close(g.entered)
		<-g.release
	}

	c := cfg.Clone()
	g.mu.Lock()
	g.saved = &c
	g.mu.Unlock()
	return nil
}

func TestService_SavedFilterMatchesOverlappingUpdates(t *testing.T) {
	store := &gatedFilters{entered: make(chan struct{}), release: make(chan struct{})}
	svc := NewService(sampleFetcher(), Options{Filters: store})
	ctx := context.Background()

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		svc.AddExcludeTypes(ctx, []string{"WeatherAsset"})
	}()
	<-store.entered

	secondDone := make(chan struct{})
	go func() {
		defer close(secondDone)
		svc.SetIncludeTypes(ctx, []string{"BatteryAsset"})
	}()

	select {
	case <-secondDone:
		t.Error("second filter change completed while the first save was pending")
	case <-time.After(50 * time.Millisecond):
	}

	close(store.release)
	<-firstDone
	<-secondDone

	want := svc.Filter()
	if !slices.Equal(want.IncludeTypes, []string{"BatteryAsset"}) || !slices.Equal(want.ExcludeTypes, []string{"WeatherAsset"}) {
		t.Fatalf("unexpected in-memory filter %+v", want)
	}

	store.mu.Lock()
	saved := store.saved
	store.mu.Unlock()
	if saved == nil {
		t.Fatal("filter was never saved")
	}
	if !slices.Equal(saved.IncludeTypes, want.IncludeTypes) || !slices.Equal(saved.ExcludeTypes, want.ExcludeTypes) {
		t.Errorf("saved filter %+v, in-memory filter %+v", *saved, want)
	}
}

func boolPtr(b bool) *bool { return &b }
