package main

import (
	"fmt"

	"github.com/aretw0/rehearse"
	"github.com/aretw0/rehearse/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <scenario>",
	Short: "Export a scenario's dialog tree",
	Long:  `Outputs a Mermaid diagram (graph TD) of the scenario's nodes and replies, labelled with quality and score.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cat, err := rehearse.LoadCatalog(cfg.ScenariosDir)
		if err != nil {
			return err
		}
		s, err := cat.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(s, nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
