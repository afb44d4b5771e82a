package storage

import (
	"encoding/json"
	"fmt"

	"github.com/martinsuchenak/assetboard/internal/model"
)

// encodeFilter serializes a filter configuration for the filter_settings table
func encodeFilter(cfg model.FilterConfig) (string, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encoding filter: %w", err)
	}
	return string(data), nil
}

// decodeFilter parses a stored filter configuration
func decodeFilter(raw string) (*model.FilterConfig, error) {
	var cfg model.FilterConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, fmt.Errorf("decoding filter: %w", err)
	}
	return &cfg, nil
}
