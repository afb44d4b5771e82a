package classify

import "github.com/martinsuchenak/assetboard/internal/model"

// Aggregate filters assets with cfg and counts the survivors per type. The
// result has one entry per type in the order each type first appears in
// assets. It is never nil.
func Aggregate(assets []model.Asset, cfg model.FilterConfig) []model.AssetTypeSummary {
	match := Compile(cfg).Match

	summaries := make([]model.AssetTypeSummary, 0)
	index := make(map[string]int)
	for _, asset := range assets {
		if !match(asset) {
			continue
		}
		if i, ok := index[asset.Type]; ok {
			summaries[i].Count++
			continue
		}
		index[asset.Type] = len(summaries)
		summaries = append(summaries, model.AssetTypeSummary{Type: asset.Type, Count: 1})
	}

	for i := range summaries {
		md := MetadataFor(summaries[i].Type)
		summaries[i].Icon = md.Icon
		summaries[i].Color = md.Color
		summaries[i].DisplayName = md.DisplayName
	}
	return summaries
}

// Filter returns the assets that pass cfg, in input order
func Filter(assets []model.Asset, cfg model.FilterConfig) []model.Asset {
	match := Compile(cfg).Match
	out := make([]model.Asset, 0, len(assets))
	for _, asset := range assets {
		if match(asset) {
			out = append(out, asset)
		}
	}
	return out
}

// Total sums the counts of summaries
func Total(summaries []model.AssetTypeSummary) int {
	total := 0
	for _, s := range summaries {
		total += s.Count
	}
	return total
}
