package asset

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/martinsuchenak/assetboard/internal/client"
	"github.com/martinsuchenak/assetboard/internal/model"
	"github.com/paularlott/cli"
)

// Commands returns the asset repository subcommands
func Commands() []*cli.Command {
	return []*cli.Command{
		listCommand(),
		addCommand(),
		deleteCommand(),
	}
}

func newClient(cmd *cli.Command) *client.Client {
	return client.New(cmd.GetString("server"), cmd.GetString("token"))
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:        "list",
		Usage:       "List stored assets",
		Description: "List the assets in the server's local repository",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "realm", Usage: "Filter by realm"},
			&cli.StringFlag{Name: "type", Usage: "Filter by asset type"},
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			assets, err := newClient(cmd).ListAssets(ctx, model.AssetFilter{
				Realm: cmd.GetString("realm"),
				Type:  cmd.GetString("type"),
			})
			if err != nil {
				return err
			}
			printAssets(os.Stdout, assets)
			return nil
		},
	}
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:        "add",
		Usage:       "Add an asset",
		Description: "Add an asset to the server's local repository",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "Asset name", Required: true},
			&cli.StringFlag{Name: "type", Usage: "Asset type, e.g. PVAsset", Required: true},
			&cli.StringFlag{Name: "realm", Usage: "Realm (defaults to the server's current realm)"},
			&cli.StringFlag{Name: "id", Usage: "Asset ID (generated when omitted)"},
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			created, err := newClient(cmd).CreateAsset(ctx, model.Asset{
				ID:    cmd.GetString("id"),
				Name:  cmd.GetString("name"),
				Type:  cmd.GetString("type"),
				Realm: cmd.GetString("realm"),
			})
			if err != nil {
				return err
			}
			fmt.Printf("Asset created: %s (ID: %s)\n", created.Name, created.ID)
			return nil
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:        "delete",
		Usage:       "Delete an asset",
		Description: "Delete an asset from the server's local repository",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id", Required: true},
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			id := cmd.GetStringArg("id")
			if err := newClient(cmd).DeleteAsset(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Asset deleted: %s\n", id)
			return nil
		},
	}
}

func printAssets(w io.Writer, assets []model.Asset) {
	if len(assets) == 0 {
		fmt.Fprintln(w, "No assets found")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tREALM")
	for _, a := range assets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.ID, a.Name, a.Type, a.Realm)
	}
	tw.Flush()
}
