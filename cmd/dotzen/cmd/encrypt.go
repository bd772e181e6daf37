package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vivaneiona/dotzen"
)

func newEncryptCmd(opts *rootOptions) *cobra.Command {
	var (
		algorithm string
		key       string
	)
	cmd := &cobra.Command{
		Use:   "encrypt VALUE",
		Short: "Encode or hash a value for a .env file",
		Example: `  dotzen encrypt 'my-super-secret-api-key'
  dotzen encrypt 'postgres_password_123' --key DATABASE_PASSWORD >> .env
  dotzen encrypt password123 -a sha256
  dotzen encrypt 'admin-password' -a bcrypt --key ADMIN_HASH >> .env`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := dotzen.EncryptForEnv(args[0], algorithm)
			if err != nil {
				return err
			}
			opts.logger.Debug("value encrypted", "algorithm", algorithm)
			if key != "" {
				line, err := dotzen.FormatDotenv(key, out)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), line)
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", dotzen.DefaultAlgorithm, "transform to apply")
	cmd.Flags().StringVar(&key, "key", "", "print a KEY=VALUE line for a .env file, single-quoted when needed")
	return cmd
}
