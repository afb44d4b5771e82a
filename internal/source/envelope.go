package source

import (
	"bytes"
	"encoding/json"

	"github.com/martinsuchenak/assetboard/internal/log"
	"github.com/martinsuchenak/assetboard/internal/model"
)

// envelopeKeys are the object keys an asset list may be wrapped in, in
// lookup order
var envelopeKeys = []string{"data", "assets"}

// DecodeAssets extracts an asset list from a query response. It accepts a
// bare JSON array, {"data": [...]} and {"assets": [...]}. ok is false for any
// other shape. Array elements that are not asset objects are skipped.
func DecodeAssets(body []byte) (assets []model.Asset, ok bool) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, false
	}

	var items []json.RawMessage
	switch body[0] {
	case '[':
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, false
		}
	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, false
		}
		found := false
		for _, key := range envelopeKeys {
			raw, exists := envelope[key]
			if !exists {
				continue
			}
			if err := json.Unmarshal(raw, &items); err == nil && items != nil {
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
	default:
		return nil, false
	}

	assets = make([]model.Asset, 0, len(items))
	skipped := 0
	for _, item := range items {
		var a model.Asset
		if err := json.Unmarshal(item, &a); err != nil {
			skipped++
			continue
		}
		assets = append(assets, a)
	}
	if skipped > 0 {
		log.Debug("Skipped malformed asset records", "count", skipped)
	}
	return assets, true
}
