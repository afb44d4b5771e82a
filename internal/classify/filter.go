// Package classify turns raw asset lists into per-type summaries. Everything
// here is pure: no I/O, no shared mutable state.
package classify

import "github.com/martinsuchenak/assetboard/internal/model"

// Predicate is a FilterConfig compiled into set lookups
type Predicate struct {
	hideSystem bool
	hideGroup  bool
	hideAgent  bool
	exclude    map[string]struct{}
	include    map[string]struct{} // nil when there is no include list
}

// Compile builds a Predicate for cfg. The predicate keeps its own copies of
// the type lists.
func Compile(cfg model.FilterConfig) Predicate {
	p := Predicate{
		hideSystem: cfg.HideSystemAssets,
		hideGroup:  cfg.HideGroupAssets,
		hideAgent:  cfg.HideAgentAssets,
		exclude:    toSet(cfg.ExcludeTypes),
	}
	if cfg.HasIncludeList() {
		p.include = toSet(cfg.IncludeTypes)
	}
	return p
}

// Match reports whether the asset passes the filter. Category and exclude
// checks run first, so a type that is both excluded and included is
// rejected.
func (p Predicate) Match(asset model.Asset) bool {
	t := asset.Type
	if t == "" {
		return false
	}

	switch CategoryOf(t) {
	case CategorySystem:
		if p.hideSystem {
			return false
		}
	case CategoryGroup:
		if p.hideGroup {
			return false
		}
	case CategoryAgent:
		if p.hideAgent {
			return false
		}
	}

	if _, ok := p.exclude[t]; ok {
		return false
	}

	if p.include != nil {
		_, ok := p.include[t]
		return ok
	}
	return true
}

// ShouldInclude reports whether asset passes cfg
func ShouldInclude(asset model.Asset, cfg model.FilterConfig) bool {
	return Compile(cfg).Match(asset)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
