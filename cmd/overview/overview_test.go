package overview

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/martinsuchenak/assetboard/internal/model"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assets.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	return path
}

func TestOverviewFromFile(t *testing.T) {
	body := `{"data": [
		{"id": "1", "name": "Battery", "type": "BatteryAsset"},
		{"id": "2", "name": "PV", "type": "PVAsset"},
		{"id": "3", "name": "Battery 2", "type": "BatteryAsset"},
		{"id": "4", "name": "Group", "type": "GroupAsset"}
	]}`

	t.Run("default filter", func(t *testing.T) {
		ov, err := overviewFromFile(writeFile(t, body), "local", false)
		if err != nil {
			t.Fatalf("overviewFromFile: %v", err)
		}
		if ov.Total != 3 || len(ov.Summaries) != 2 {
			t.Fatalf("Unexpected overview: %+v", ov)
		}
		if ov.Summaries[0].Type != "BatteryAsset" || ov.Summaries[0].Count != 2 {
			t.Errorf("Unexpected first summary: %+v", ov.Summaries[0])
		}
		if ov.Source != "file" || ov.Realm != "local" {
			t.Errorf("Unexpected source info: %+v", ov)
		}
	})

	t.Run("all types", func(t *testing.T) {
		ov, err := overviewFromFile(writeFile(t, body), "local", true)
		if err != nil {
			t.Fatalf("overviewFromFile: %v", err)
		}
		if ov.Total != 4 {
			t.Errorf("Expected total 4, got %d", ov.Total)
		}
	})

	t.Run("unrecognized format", func(t *testing.T) {
		if _, err := overviewFromFile(writeFile(t, `{"items": []}`), "local", false); err == nil {
			t.Error("Expected error for unrecognized format")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := overviewFromFile(filepath.Join(t.TempDir(), "nope.json"), "local", false); err == nil {
			t.Error("Expected error for missing file")
		}
	})
}

func TestRenderOverview(t *testing.T) {
	ov := &model.Overview{
		Realm:  "master",
		Source: "sample",
		Summaries: []model.AssetTypeSummary{
			{Type: "BatteryAsset", Count: 2, Icon: "🔋", Color: "#4caf50", DisplayName: "Batteries"},
		},
		Total:    2,
		Fallback: true,
	}

	var plain bytes.Buffer
	renderOverview(&plain, ov, false)
	out := plain.String()
	for _, want := range []string{"Realm: master", "(fallback)", "Batteries", "#4caf50", "BatteryAsset", "Total"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("Unexpected ANSI escape in plain output")
	}

	var colored bytes.Buffer
	renderOverview(&colored, ov, true)
	if !strings.Contains(colored.String(), "\x1b[38;2;76;175;80m") {
		t.Errorf("Expected color swatch in output:\n%q", colored.String())
	}

	var empty bytes.Buffer
	renderOverview(&empty, &model.Overview{Realm: "master"}, false)
	if !strings.Contains(empty.String(), "No assets match") {
		t.Errorf("Unexpected empty output:\n%s", empty.String())
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b uint8
		ok      bool
	}{
		{"#ff9500", 255, 149, 0, true},
		{"4a90e2", 74, 144, 226, true},
		{"#fff", 0, 0, 0, false},
		{"#zzzzzz", 0, 0, 0, false},
	}
	for _, tt := range tests {
		r, g, b, ok := parseHexColor(tt.in)
		if ok != tt.ok || (ok && (r != tt.r || g != tt.g || b != tt.b)) {
			t.Errorf("parseHexColor(%q) = %d,%d,%d,%v", tt.in, r, g, b, ok)
		}
	}
	if swatch("bad") != "" {
		t.Error("Expected no swatch for invalid color")
	}
}

func TestPartialFromFlags(t *testing.T) {
	p, err := partialFromFlags("", "false", "true")
	if err != nil {
		t.Fatalf("partialFromFlags: %v", err)
	}
	if p.HideSystemAssets != nil {
		t.Error("Expected hide system unset")
	}
	if p.HideGroupAssets == nil || *p.HideGroupAssets {
		t.Error("Expected hide group false")
	}
	if p.HideAgentAssets == nil || !*p.HideAgentAssets {
		t.Error("Expected hide agent true")
	}

	if p, _ := partialFromFlags("", "", ""); !p.IsEmpty() {
		t.Error("Expected empty update")
	}
	if _, err := partialFromFlags("maybe", "", ""); err == nil {
		t.Error("Expected error for invalid bool")
	}
}

func TestParseList(t *testing.T) {
	if got := parseList(" BatteryAsset, ,PVAsset "); !slices.Equal(got, []string{"BatteryAsset", "PVAsset"}) {
		t.Errorf("Unexpected list: %v", got)
	}
	if parseList("  ") != nil {
		t.Error("Expected nil for blank input")
	}
}
