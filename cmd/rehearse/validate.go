package main

import (
	"fmt"

	"github.com/aretw0/rehearse/pkg/catalog"
	"github.com/aretw0/rehearse/pkg/domain"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check scenario files for consistency",
	Long: `Loads every scenario file in dir (default: the built-in scenarios), reports
dangling links, unreachable nodes and broken options, and lists rubric warnings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		if len(args) > 0 {
			dir = args[0]
		}

		var (
			scenarios []domain.Scenario
			err       error
		)
		if dir == "" {
			scenarios = catalog.Builtin()
		} else {
			scenarios, err = catalog.LoadDir(dir)
		}
		if err != nil {
			out := cmd.ErrOrStderr()
			for _, issue := range catalog.Issues(err) {
				fmt.Fprintf(out, "  ✗ %s\n", issue.Error())
			}
			return fmt.Errorf("validation failed: %w", err)
		}

		out := cmd.OutOrStdout()
		for i := range scenarios {
			s := &scenarios[i]
			fmt.Fprintf(out, "%s (%d nodes)\n", s.ID, len(s.DialogTree))
			for _, f := range catalog.Lint(s) {
				fmt.Fprintf(out, "  ! %s\n", f)
			}
		}
		fmt.Fprintf(out, "%d scenario(s) valid ✅\n", len(scenarios))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
