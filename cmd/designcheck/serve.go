package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/standardbeagle/designcheck/internal/snapshot"
	"github.com/standardbeagle/designcheck/internal/tools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run as MCP server",
	Long: `Run as an MCP (Model Context Protocol) server over stdio.

Exposes style_compare, visual_diff, audit and snapshot tools to coding agents.
Started automatically when designcheck is run with a non-terminal stdin.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

const serverInstructions = `Design conformance checks for rendered pages.

- style_compare: compare a computed style tree (JSON) with design tokens and report off-token values with suggested tokens
- visual_diff: pixel-compare a design screenshot with the implementation and list changed regions
- audit: run both at once and get a pass/fail verdict
- snapshot: save screenshots as baselines and detect visual regressions later

Images may be passed inline as base64 or data URIs, or as file paths.`

func newServer(a *app) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    appName,
			Version: appVersion,
		},
		&mcp.ServerOptions{
			HasTools:     true,
			Instructions: serverInstructions,
		},
	)

	tools.RegisterDesignTools(server, tools.Engines{
		Styles:  a.styles,
		Pixels:  a.pixels,
		Auditor: a.auditor,
	})

	manager, err := snapshot.NewManager(a.cfg.Snapshot.Dir, a.pixels, a.cfg.Snapshot.MinMatch)
	if err != nil {
		log.Warn().Err(err).Msg("snapshot storage unavailable, snapshot tool disabled")
	} else {
		tools.RegisterSnapshotTools(server, manager)
	}
	return server
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer cancel()

	a, err := newApp()
	if err != nil {
		return err
	}

	log.Debug().Str("version", appVersion).Msg("starting MCP server on stdio")
	if err := newServer(a).Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
