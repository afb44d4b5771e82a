package classify

// TypeInfo is everything known about an asset type
type TypeInfo struct {
	Type        string `json:"type"`
	Category    string `json:"category"`
	Known       bool   `json:"known"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	DisplayName string `json:"display_name"`
}

// Describe resolves the category and presentation of an asset type
func Describe(assetType string) TypeInfo {
	md := MetadataFor(assetType)
	return TypeInfo{
		Type:        assetType,
		Category:    CategoryOf(assetType).String(),
		Known:       IsKnown(assetType),
		Icon:        md.Icon,
		Color:       md.Color,
		DisplayName: md.DisplayName,
	}
}
