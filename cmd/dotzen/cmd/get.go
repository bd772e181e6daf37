package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vivaneiona/dotzen"
)

func newGetCmd(opts *rootOptions) *cobra.Command {
	var (
		cast      string
		def       string
		encrypted bool
		algorithm string
	)
	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Resolve a key and print its value",
		Long: `Resolve KEY through the environment, then the .env files, then the
config files, and print it cast to --cast. Lists are printed one element
per line.`,
		Example: `  dotzen get PORT --cast int
  dotzen get DATABASE_PASSWORD --encrypted
  dotzen get DEBUG --cast bool --default false --env-file .env.local`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}

			lookup := []dotzen.Option{dotzen.Encrypted(encrypted), dotzen.Algorithm(algorithm)}
			if cmd.Flags().Changed("default") {
				lookup = append(lookup, dotzen.Default(def))
			}

			v, err := resolve(cfg, args[0], cast, lookup)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), v)
			return err
		},
	}
	cmd.Flags().StringVar(&cast, "cast", "string", "result type (string|bool|int|float|list)")
	cmd.Flags().StringVar(&def, "default", "", "value used when no source has the key")
	cmd.Flags().BoolVar(&encrypted, "encrypted", false, "decrypt the value before casting")
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", dotzen.DefaultAlgorithm, "transform used with --encrypted")
	return cmd
}

func resolve(r dotzen.Resolver, key, cast string, opts []dotzen.Option) (any, error) {
	switch strings.ToLower(cast) {
	case "", "string", "str":
		return dotzen.String(r, key, opts...)
	case "bool":
		return dotzen.Bool(r, key, opts...)
	case "int":
		return dotzen.Int(r, key, opts...)
	case "float":
		return dotzen.Float(r, key, opts...)
	case "list":
		items, err := dotzen.List(r, key, opts...)
		if err != nil {
			return nil, err
		}
		return strings.Join(items, "\n"), nil
	default:
		return nil, fmt.Errorf("unknown cast %q: want string|bool|int|float|list", cast)
	}
}
