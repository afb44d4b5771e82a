package overview

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/martinsuchenak/assetboard/internal/model"
)

// colorEnabled reports whether stdout is a terminal that gets ANSI swatches
func colorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// swatch returns a colored block for a #rrggbb color, or "" when the color
// cannot be parsed
func swatch(hex string) string {
	r, g, b, ok := parseHexColor(hex)
	if !ok {
		return ""
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm██\x1b[0m", r, g, b)
}

func parseHexColor(hex string) (r, g, b uint8, ok bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

// renderOverview prints the summaries as a table
func renderOverview(w io.Writer, ov *model.Overview, color bool) {
	fmt.Fprintf(w, "Realm: %s   Source: %s", ov.Realm, ov.Source)
	if ov.Fallback {
		fmt.Fprint(w, " (fallback)")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)

	if len(ov.Summaries) == 0 {
		fmt.Fprintln(w, "No assets match the current filter")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tTYPE\tCOUNT\tCOLOR\tASSET TYPE")
	for _, s := range ov.Summaries {
		colorCol := s.Color
		if color {
			if sw := swatch(s.Color); sw != "" {
				colorCol = sw + " " + s.Color
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", s.Icon, s.DisplayName, s.Count, colorCol, s.Type)
	}
	fmt.Fprintf(tw, "\tTotal\t%d\t\t\n", ov.Total)
	tw.Flush()
}

func renderFilter(w io.Writer, cfg model.FilterConfig) {
	include := "all types"
	if cfg.HasIncludeList() {
		include = strings.Join(cfg.IncludeTypes, ", ")
	}
	exclude := "none"
	if len(cfg.ExcludeTypes) > 0 {
		exclude = strings.Join(cfg.ExcludeTypes, ", ")
	}

	fmt.Fprintf(w, "Include:      %s\n", include)
	fmt.Fprintf(w, "Exclude:      %s\n", exclude)
	fmt.Fprintf(w, "Hide system:  %t\n", cfg.HideSystemAssets)
	fmt.Fprintf(w, "Hide group:   %t\n", cfg.HideGroupAssets)
	fmt.Fprintf(w, "Hide agent:   %t\n", cfg.HideAgentAssets)
}
