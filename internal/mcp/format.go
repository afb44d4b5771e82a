package mcp

import (
	"fmt"
	"strings"

	"github.com/martinsuchenak/assetboard/internal/classify"
	"github.com/martinsuchenak/assetboard/internal/model"
)

func formatOverview(ov *model.Overview) string {
	if ov == nil {
		return "No overview computed yet"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Asset overview for realm %s: %d assets in %d types", ov.Realm, ov.Total, len(ov.Summaries))
	if ov.Fallback {
		fmt.Fprintf(&b, " (source unavailable, showing %s data)", ov.Source)
	}
	b.WriteString("\n\n")

	if len(ov.Summaries) == 0 {
		b.WriteString("No assets match the current filter\n")
		return b.String()
	}
	for _, s := range ov.Summaries {
		fmt.Fprintf(&b, "%s %s: %d (%s)\n", s.Icon, s.DisplayName, s.Count, s.Type)
	}
	return b.String()
}

func formatFilter(cfg model.FilterConfig) string {
	var b strings.Builder
	b.WriteString("Filter:\n")
	if cfg.HasIncludeList() {
		fmt.Fprintf(&b, "  Include: %s\n", strings.Join(cfg.IncludeTypes, ", "))
	} else {
		b.WriteString("  Include: all types\n")
	}
	if len(cfg.ExcludeTypes) > 0 {
		fmt.Fprintf(&b, "  Exclude: %s\n", strings.Join(cfg.ExcludeTypes, ", "))
	}
	fmt.Fprintf(&b, "  Hide system assets: %t\n", cfg.HideSystemAssets)
	fmt.Fprintf(&b, "  Hide group assets: %t\n", cfg.HideGroupAssets)
	fmt.Fprintf(&b, "  Hide agent assets: %t\n", cfg.HideAgentAssets)
	return b.String()
}

func formatTypeInfo(info classify.TypeInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (%s)\n", info.Icon, info.DisplayName, info.Type)
	fmt.Fprintf(&b, "  Category: %s\n", info.Category)
	fmt.Fprintf(&b, "  Color: %s\n", info.Color)
	if !info.Known {
		b.WriteString("  No explicit metadata, defaults applied\n")
	}
	return b.String()
}

func formatAsset(a *model.Asset) string {
	return fmt.Sprintf("- %s (ID: %s)\n  Type: %s\n  Realm: %s\n", a.Name, a.ID, a.Type, a.Realm)
}

// cleanTypes trims type names and drops empty ones
func cleanTypes(types []string) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
