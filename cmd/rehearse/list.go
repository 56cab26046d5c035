package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/rehearse"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available interview scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cat, err := rehearse.LoadCatalog(cfg.ScenariosDir)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tCANDIDATE\tTURNS")
		for _, s := range cat.List() {
			fmt.Fprintf(tw, "%s\t%s %s\t%s (%s)\t%d\n", s.ID, s.Icon, s.Title, s.Persona.Name, s.Persona.Role, s.TotalTurns)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
