package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vivaneiona/dotzen"
)

func newDecryptCmd(opts *rootOptions) *cobra.Command {
	var algorithm string
	cmd := &cobra.Command{
		Use:   "decrypt VALUE",
		Short: "Decode a value produced by a reversible transform",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := dotzen.Decrypt(args[0], algorithm)
			if err != nil {
				return err
			}
			opts.logger.Debug("value decrypted", "algorithm", algorithm)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", dotzen.DefaultAlgorithm, "transform to reverse")
	return cmd
}
