package model

import "slices"

// FilterConfig selects which assets count towards the overview.
//
// FilterConfig is a value: the With* methods and Merge return a new config
// with freshly copied slices and never modify the receiver, so a config that
// has been handed to an aggregation run stays stable for that run.
type FilterConfig struct {
	IncludeTypes     []string `json:"include_types"`
	ExcludeTypes     []string `json:"exclude_types"`
	HideSystemAssets bool     `json:"hide_system_assets"`
	HideGroupAssets  bool     `json:"hide_group_assets"`
	HideAgentAssets  bool     `json:"hide_agent_assets"`
}

// PartialFilterConfig is an update to a FilterConfig. Nil fields are left
// unchanged by Merge.
type PartialFilterConfig struct {
	IncludeTypes     *[]string `json:"include_types,omitempty"`
	ExcludeTypes     *[]string `json:"exclude_types,omitempty"`
	HideSystemAssets *bool     `json:"hide_system_assets,omitempty"`
	HideGroupAssets  *bool     `json:"hide_group_assets,omitempty"`
	HideAgentAssets  *bool     `json:"hide_agent_assets,omitempty"`
}

// defaultIncludeTypes are the energy asset types shown by default
var defaultIncludeTypes = []string{
	"ElectricityProducerSolarAsset",
	"PVAsset",
	"ElectricityConsumerAsset",
	"EVChargingStationAsset",
	"BatteryAsset",
	"WeatherAsset",
	"ElectricityStorageAsset",
	"ElectricityProducerWindAsset",
	"HeatPumpAsset",
	"ElectricVehicleAsset",
}

// DefaultFilter returns the dashboard's default filter: energy assets only,
// with system, group and agent assets hidden.
func DefaultFilter() FilterConfig {
	return FilterConfig{
		IncludeTypes:     slices.Clone(defaultIncludeTypes),
		HideSystemAssets: true,
		HideGroupAssets:  true,
		HideAgentAssets:  true,
	}
}

// Clone returns a deep copy of c.
func (c FilterConfig) Clone() FilterConfig {
	c.IncludeTypes = slices.Clone(c.IncludeTypes)
	c.ExcludeTypes = slices.Clone(c.ExcludeTypes)
	return c
}

// HasIncludeList reports whether the config restricts assets to an include list
func (c FilterConfig) HasIncludeList() bool {
	return len(c.IncludeTypes) > 0
}

// WithIncludeTypes returns a copy of c with the include list replaced
func (c FilterConfig) WithIncludeTypes(types []string) FilterConfig {
	n := c.Clone()
	n.IncludeTypes = slices.Clone(types)
	return n
}

// WithExcludeTypes returns a copy of c with the exclude list replaced
func (c FilterConfig) WithExcludeTypes(types []string) FilterConfig {
	n := c.Clone()
	n.ExcludeTypes = slices.Clone(types)
	return n
}

// WithAddedExcludeTypes returns a config whose exclude list is the union of
// the current list and types. Existing entries keep their position and
// duplicates are dropped.
func (c FilterConfig) WithAddedExcludeTypes(types []string) FilterConfig {
	merged := make([]string, 0, len(c.ExcludeTypes)+len(types))
	seen := make(map[string]struct{}, cap(merged))
	for _, list := range [][]string{c.ExcludeTypes, types} {
		for _, t := range list {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			merged = append(merged, t)
		}
	}
	n := c.Clone()
	n.ExcludeTypes = merged
	return n
}

// WithHideSystemAssets returns a copy of c with HideSystemAssets set
func (c FilterConfig) WithHideSystemAssets(hide bool) FilterConfig {
	n := c.Clone()
	n.HideSystemAssets = hide
	return n
}

// WithHideGroupAssets returns a copy of c with HideGroupAssets set
func (c FilterConfig) WithHideGroupAssets(hide bool) FilterConfig {
	n := c.Clone()
	n.HideGroupAssets = hide
	return n
}

// WithHideAgentAssets returns a copy of c with HideAgentAssets set
func (c FilterConfig) WithHideAgentAssets(hide bool) FilterConfig {
	n := c.Clone()
	n.HideAgentAssets = hide
	return n
}

// Merge applies a partial update over c. Every field set in p replaces the
// current value entirely; unset fields are kept.
func (c FilterConfig) Merge(p PartialFilterConfig) FilterConfig {
	n := c.Clone()
	if p.IncludeTypes != nil {
		n.IncludeTypes = slices.Clone(*p.IncludeTypes)
	}
	if p.ExcludeTypes != nil {
		n.ExcludeTypes = slices.Clone(*p.ExcludeTypes)
	}
	if p.HideSystemAssets != nil {
		n.HideSystemAssets = *p.HideSystemAssets
	}
	if p.HideGroupAssets != nil {
		n.HideGroupAssets = *p.HideGroupAssets
	}
	if p.HideAgentAssets != nil {
		n.HideAgentAssets = *p.HideAgentAssets
	}
	return n
}

// IsEmpty reports whether p changes nothing
func (p PartialFilterConfig) IsEmpty() bool {
	return p.IncludeTypes == nil && p.ExcludeTypes == nil &&
		p.HideSystemAssets == nil && p.HideGroupAssets == nil && p.HideAgentAssets == nil
}
