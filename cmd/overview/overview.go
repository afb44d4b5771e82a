package overview

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/martinsuchenak/assetboard/internal/classify"
	"github.com/martinsuchenak/assetboard/internal/client"
	"github.com/martinsuchenak/assetboard/internal/model"
	"github.com/martinsuchenak/assetboard/internal/source"
	"github.com/paularlott/cli"
)

// Commands returns the overview subcommands
func Commands() []*cli.Command {
	return []*cli.Command{
		showCommand(),
		refreshCommand(),
		filterCommand(),
		includeCommand(),
		excludeCommand(),
		realmCommand(),
		typeCommand(),
	}
}

func newClient(cmd *cli.Command) *client.Client {
	return client.New(cmd.GetString("server"), cmd.GetString("token"))
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:        "show",
		Usage:       "Show the asset overview",
		Description: "Show asset counts per type from the server, or aggregate a local JSON file with --file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Usage: "Aggregate assets from a JSON file instead of the server"},
			&cli.StringFlag{Name: "realm", Usage: "Realm label for --file output", DefaultValue: "local"},
			&cli.BoolFlag{Name: "all", Usage: "With --file, count every type instead of the default filter"},
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			if path := cmd.GetString("file"); path != "" {
				ov, err := overviewFromFile(path, cmd.GetString("realm"), cmd.GetBool("all"))
				if err != nil {
					return err
				}
				renderOverview(os.Stdout, ov, colorEnabled())
				return nil
			}

			ov, err := newClient(cmd).Overview(ctx)
			if err != nil {
				return err
			}
			renderOverview(os.Stdout, ov, colorEnabled())
			return nil
		},
	}
}

// overviewFromFile aggregates a local asset dump in any accepted envelope
func overviewFromFile(path, realm string, all bool) (*model.Overview, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading asset file: %w", err)
	}

	assets, ok := source.DecodeAssets(data)
	if !ok {
		return nil, fmt.Errorf("%s: unrecognized asset file format", path)
	}

	cfg := model.DefaultFilter()
	if all {
		cfg = model.FilterConfig{}
	}

	summaries := classify.Aggregate(assets, cfg)
	return &model.Overview{
		Realm:       realm,
		Summaries:   summaries,
		Total:       classify.Total(summaries),
		Source:      "file",
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func refreshCommand() *cli.Command {
	return &cli.Command{
		Name:        "refresh",
		Usage:       "Recompute the overview",
		Description: "Ask the server to fetch the assets again and recompute the overview",
		Run: func(ctx context.Context, cmd *cli.Command) error {
			ov, err := newClient(cmd).Refresh(ctx)
			if err != nil {
				return err
			}
			renderOverview(os.Stdout, ov, colorEnabled())
			return nil
		},
	}
}

func filterCommand() *cli.Command {
	return &cli.Command{
		Name:        "filter",
		Usage:       "Show or change the filter",
		Description: "Show the filter, or change the hide flags with --hide-system, --hide-group and --hide-agent (true or false)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "hide-system", Usage: "Hide system assets (true or false)"},
			&cli.StringFlag{Name: "hide-group", Usage: "Hide group assets (true or false)"},
			&cli.StringFlag{Name: "hide-agent", Usage: "Hide agent assets (true or false)"},
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			partial, err := partialFromFlags(
				cmd.GetString("hide-system"),
				cmd.GetString("hide-group"),
				cmd.GetString("hide-agent"),
			)
			if err != nil {
				return err
			}

			c := newClient(cmd)
			if partial.IsEmpty() {
				cfg, err := c.Filter(ctx)
				if err != nil {
					return err
				}
				renderFilter(os.Stdout, *cfg)
				return nil
			}

			res, err := c.UpdateFilter(ctx, partial)
			if err != nil {
				return err
			}
			renderFilter(os.Stdout, res.Filter)
			fmt.Println()
			renderOverview(os.Stdout, res.Overview, colorEnabled())
			return nil
		},
	}
}

// partialFromFlags builds a filter update from the hide flag values; empty
// values are left out
func partialFromFlags(system, group, agent string) (model.PartialFilterConfig, error) {
	var p model.PartialFilterConfig
	for _, f := range []struct {
		name  string
		value string
		dst   **bool
	}{
		{"hide-system", system, &p.HideSystemAssets},
		{"hide-group", group, &p.HideGroupAssets},
		{"hide-agent", agent, &p.HideAgentAssets},
	} {
		if f.value == "" {
			continue
		}
		b, err := strconv.ParseBool(f.value)
		if err != nil {
			return p, fmt.Errorf("--%s: expected true or false, got %q", f.name, f.value)
		}
		*f.dst = &b
	}
	return p, nil
}

func includeCommand() *cli.Command {
	return &cli.Command{
		Name:        "include",
		Usage:       "Set the asset types to count",
		Description: "Replace the include list; with no --types every type not otherwise hidden is counted",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "types", Usage: "Comma-separated asset types"},
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			res, err := newClient(cmd).SetIncludeTypes(ctx, parseList(cmd.GetString("types")))
			if err != nil {
				return err
			}
			renderOverview(os.Stdout, res.Overview, colorEnabled())
			return nil
		},
	}
}

func excludeCommand() *cli.Command {
	return &cli.Command{
		Name:        "exclude",
		Usage:       "Exclude asset types",
		Description: "Add asset types to the exclude list",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "types", Usage: "Comma-separated asset types", Required: true},
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			types := parseList(cmd.GetString("types"))
			if len(types) == 0 {
				return fmt.Errorf("--types must name at least one asset type")
			}
			res, err := newClient(cmd).AddExcludeTypes(ctx, types)
			if err != nil {
				return err
			}
			fmt.Printf("Excluded: %s\n\n", strings.Join(res.Filter.ExcludeTypes, ", "))
			renderOverview(os.Stdout, res.Overview, colorEnabled())
			return nil
		},
	}
}

func realmCommand() *cli.Command {
	return &cli.Command{
		Name:        "realm",
		Usage:       "Show or switch the realm",
		Description: "Show the realm the overview is computed for, or switch it with --set",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "set", Usage: "Realm to switch to"},
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			c := newClient(cmd)
			realm := strings.TrimSpace(cmd.GetString("set"))
			if realm == "" {
				current, err := c.Realm(ctx)
				if err != nil {
					return err
				}
				fmt.Println(current)
				return nil
			}

			res, err := c.SetRealm(ctx, realm)
			if err != nil {
				return err
			}
			if res.Refreshed {
				fmt.Printf("Realm switched to %s, overview refreshed\n", res.Realm)
			} else {
				fmt.Printf("Realm set to %s\n", res.Realm)
			}
			return nil
		},
	}
}

func typeCommand() *cli.Command {
	return &cli.Command{
		Name:        "type",
		Usage:       "Describe an asset type",
		Description: "Show the category, icon, color and display name of an asset type",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "Asset type name, e.g. BatteryAsset", Required: true},
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			info, err := newClient(cmd).AssetType(ctx, cmd.GetString("name"))
			if err != nil {
				return err
			}
			fmt.Printf("Type:         %s\n", info.Type)
			fmt.Printf("Display name: %s\n", info.DisplayName)
			fmt.Printf("Category:     %s\n", info.Category)
			fmt.Printf("Icon:         %s\n", info.Icon)
			fmt.Printf("Color:        %s\n", info.Color)
			fmt.Printf("Known:        %t\n", info.Known)
			return nil
		},
	}
}

func parseList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
