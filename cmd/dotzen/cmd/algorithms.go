package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vivaneiona/dotzen"
)

func newAlgorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List registered transforms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := dotzen.DefaultRegistry()
			for _, name := range reg.Algorithms() {
				kind := "one-way"
				if reg.IsReversible(name) {
					kind = "reversible"
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", name, kind); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
