// Package overview keeps the asset overview of one dashboard: the current
// filter configuration, the realm being viewed and the latest aggregation.
package overview

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/martinsuchenak/assetboard/internal/classify"
	"github.com/martinsuchenak/assetboard/internal/log"
	"github.com/martinsuchenak/assetboard/internal/model"
	"github.com/martinsuchenak/assetboard/internal/source"
	"github.com/martinsuchenak/assetboard/internal/storage"
)

// Fetcher fetches the raw asset list for a realm without failing;
// *source.Fallback is the production implementation
type Fetcher interface {
	Fetch(ctx context.Context, realm string) source.Result
}

// Service computes and caches the overview. All methods are safe for
// concurrent use; refresh runs are serialized.
type Service struct {
	fetcher Fetcher
	filters storage.FilterStorage // optional
	now     func() time.Time

	mu       sync.RWMutex
	filter   model.FilterConfig
	realm    string
	snapshot *model.Overview

	refreshMu sync.Mutex
	// filterMu orders filter changes together with their saves
	filterMu sync.Mutex
}

// Options configures a Service
type Options struct {
	Realm   string
	Filters storage.FilterStorage // persists filter changes when set
}

// NewService creates a Service. The starting filter is the persisted one when
// opts.Filters has one, DefaultFilter otherwise.
func NewService(fetcher Fetcher, opts Options) *Service {
	s := &Service{
		fetcher: fetcher,
		filters: opts.Filters,
		now:     time.Now,
		filter:  model.DefaultFilter(),
		realm:   opts.Realm,
	}

	if s.filters != nil {
		cfg, err := s.filters.LoadFilter()
		switch {
		case err == nil:
			s.filter = cfg.Clone()
			log.Info("Loaded persisted asset filter", "include_types", len(cfg.IncludeTypes), "exclude_types", len(cfg.ExcludeTypes))
		case errors.Is(err, storage.ErrFilterNotFound):
			log.Debug("No persisted asset filter, using defaults")
		default:
			log.Warn("Failed to load persisted asset filter, using defaults", "error", err)
		}
	}

	return s
}

// Filter returns the current filter configuration
func (s *Service) Filter() model.FilterConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter.Clone()
}

// Realm returns the realm the overview is computed for
func (s *Service) Realm() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.realm
}

// Snapshot returns the latest overview, nil before the first refresh
func (s *Service) Snapshot() *model.Overview {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneOverview(s.snapshot)
}

// Overview returns the latest overview, computing one if there is none yet
func (s *Service) Overview(ctx context.Context) *model.Overview {
	if snap := s.Snapshot(); snap != nil {
		return snap
	}
	return s.Refresh(ctx)
}

// Refresh fetches the assets for the current realm and recomputes the
// overview. The filter and realm in effect when the run starts are used for
// the whole run. Source failures are absorbed by the fetcher, so Refresh
// always produces an overview.
func (s *Service) Refresh(ctx context.Context) *model.Overview {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	s.mu.RLock()
	cfg := s.filter.Clone()
	realm := s.realm
	s.mu.RUnlock()

	start := s.now()
	res := s.fetcher.Fetch(ctx, realm)
	summaries := classify.Aggregate(res.Assets, cfg)

	end := s.now()

	ov := &model.Overview{
		Realm:       realm,
		Summaries:   summaries,
		Total:       classify.Total(summaries),
		Source:      res.Source,
		Fallback:    res.Fallback,
		GeneratedAt: end.UTC(),
	}

	s.mu.Lock()
	s.snapshot = ov
	s.mu.Unlock()

	log.Debug("Asset overview refreshed",
		"realm", realm,
		"source", res.Source,
		"fallback", res.Fallback,
		"assets", len(res.Assets),
		"counted", ov.Total,
		"types", len(summaries),
		"duration", end.Sub(start))

	return cloneOverview(ov)
}

// UpdateFilter merges partial over the current filter, makes the result the
// current filter and recomputes. Overviews returned earlier are unaffected.
func (s *Service) UpdateFilter(ctx context.Context, partial model.PartialFilterConfig) (model.FilterConfig, *model.Overview) {
	next := s.changeFilter(func(cur model.FilterConfig) model.FilterConfig {
		return cur.Merge(partial)
	})
	log.Info("Asset filter updated",
		"include_types", next.IncludeTypes,
		"exclude_types", next.ExcludeTypes,
		"hide_system", next.HideSystemAssets,
		"hide_group", next.HideGroupAssets,
		"hide_agent", next.HideAgentAssets)

	return next.Clone(), s.Refresh(ctx)
}

// SetIncludeTypes replaces the include list
func (s *Service) SetIncludeTypes(ctx context.Context, types []string) (model.FilterConfig, *model.Overview) {
	return s.UpdateFilter(ctx, model.PartialFilterConfig{IncludeTypes: &types})
}

// AddExcludeTypes adds types to the exclude list, skipping ones already there
func (s *Service) AddExcludeTypes(ctx context.Context, types []string) (model.FilterConfig, *model.Overview) {
	next := s.changeFilter(func(cur model.FilterConfig) model.FilterConfig {
		return cur.WithAddedExcludeTypes(types)
	})
	log.Info("Asset exclude list extended", "added", types, "exclude_types", next.ExcludeTypes)

	return next.Clone(), s.Refresh(ctx)
}

// SetRealm switches the realm. It reports whether the overview was
// recomputed, which happens when a different, previously set realm is
// replaced.
func (s *Service) SetRealm(ctx context.Context, realm string) bool {
	s.mu.Lock()
	previous := s.realm
	s.realm = realm
	s.mu.Unlock()

	if previous == "" || previous == realm {
		return false
	}

	log.Info("Realm changed, refreshing asset overview", "from", previous, "to", realm)
	s.Refresh(ctx)
	return true
}

// changeFilter swaps in change(current) and saves it. Saves land in the same
// order as the swaps, so the stored filter is always the latest one.
func (s *Service) changeFilter(change func(model.FilterConfig) model.FilterConfig) model.FilterConfig {
	s.filterMu.Lock()
	defer s.filterMu.Unlock()

	s.mu.Lock()
	next := change(s.filter)
	s.filter = next
	s.mu.Unlock()

	s.persist(next)
	return next
}

func (s *Service) persist(cfg model.FilterConfig) {
	if s.filters == nil {
		return
	}
	if err := s.filters.SaveFilter(cfg); err != nil {
		log.Error("Failed to persist asset filter", "error", err)
	}
}

func cloneOverview(ov *model.Overview) *model.Overview {
	if ov == nil {
		return nil
	}
	c := *ov
	c.Summaries = append(make([]model.AssetTypeSummary, 0, len(ov.Summaries)), ov.Summaries...)
	return &c
}
