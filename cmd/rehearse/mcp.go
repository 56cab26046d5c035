package main

import (
	"log"
	"os"

	"github.com/aretw0/rehearse"
	"github.com/aretw0/rehearse/internal/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the practice engine as an MCP server on standard input/output, so an
AI agent can start scenarios, reply and fetch reports through tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		// Speech is meaningless to an agent.
		cfg.Speech.Muted = true
		logger := newLogger(cfg)

		app, err := rehearse.New(cfg, rehearse.WithLogger(logger))
		if err != nil {
			return err
		}
		defer app.Close()

		// Ensure logs don't corrupt JSON-RPC on Stdout
		log.SetOutput(os.Stderr)
		logger.Info("starting rehearse MCP server (stdio)")
		return mcp.NewServer(app.Engine, logger).ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
