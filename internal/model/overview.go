package model

import "time"

// AssetTypeSummary is the display-ready aggregate for one asset type
type AssetTypeSummary struct {
	Type        string `json:"type"`
	Count       int    `json:"count"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	DisplayName string `json:"display_name"`
}

// Overview is one aggregation run as served to renderers
type Overview struct {
	Realm       string             `json:"realm"`
	Summaries   []AssetTypeSummary `json:"summaries"`
	Total       int                `json:"total"`
	Source      string             `json:"source"`
	Fallback    bool               `json:"fallback"`
	GeneratedAt time.Time          `json:"generated_at"`
}
