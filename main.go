package main

import (
	"context"
	"os"

	"github.com/martinsuchenak/assetboard/cmd/asset"
	"github.com/martinsuchenak/assetboard/cmd/overview"
	"github.com/martinsuchenak/assetboard/cmd/server"
	"github.com/martinsuchenak/assetboard/internal/log"
	"github.com/paularlott/cli"
	"github.com/paularlott/cli/env"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Load .env file if it exists
	env.Load()

	// Initialize structured logging
	log.Configure("info", "console")

	rootCmd := &cli.Command{
		Name:        "assetboard",
		Version:     version,
		Usage:       "Asset overview dashboard backend",
		Description: "Counts IoT assets per type for a realm and serves the overview over HTTP, MCP and the CLI",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:         "log-level",
				Usage:        "Log level (trace, debug, info, warn, error)",
				DefaultValue: "info",
				EnvVars:      []string{"ASSETBOARD_LOG_LEVEL"},
				Global:       true,
			},
			&cli.StringFlag{
				Name:         "log-format",
				Usage:        "Log format (console, json)",
				DefaultValue: "console",
				EnvVars:      []string{"ASSETBOARD_LOG_FORMAT"},
				Global:       true,
			},
			&cli.StringFlag{
				Name:         "server",
				Aliases:      []string{"s"},
				Usage:        "Server URL for client commands",
				DefaultValue: "http://localhost:8080",
				EnvVars:      []string{"ASSETBOARD_SERVER_URL"},
				Global:       true,
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "API bearer token for client commands",
				EnvVars: []string{"ASSETBOARD_TOKEN"},
				Global:  true,
			},
		},
		PreRun: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logLevel := cmd.GetString("log-level")
			logFormat := cmd.GetString("log-format")
			log.Configure(logLevel, logFormat)
			log.Debug("assetboard starting", "version", version, "commit", commit, "date", date)
			return ctx, nil
		},
		Commands: []*cli.Command{
			server.Command(),
			{
				Name:        "overview",
				Usage:       "Asset overview commands",
				Description: "Show the asset overview and change its filter and realm",
				Commands:    overview.Commands(),
			},
			{
				Name:        "asset",
				Usage:       "Asset repository commands",
				Description: "Manage the assets in the server's local repository",
				Commands:    asset.Commands(),
			},
		},
	}

	if err := rootCmd.Execute(context.Background()); err != nil {
		log.Error("Command execution failed", "error", err)
		os.Exit(1)
	}
}
