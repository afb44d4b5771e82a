package model

import (
	"time"
)

// Asset represents one managed device or logical entity as returned by an
// asset repository. An empty Type means the repository reported no type.
type Asset struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Realm     string    `json:"realm"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// AssetFilter holds filter criteria for listing stored assets
type AssetFilter struct {
	Realm string // Exact realm match, empty for all realms
	Type  string // Exact type match, empty for all types
}
