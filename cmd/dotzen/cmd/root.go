package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/vivaneiona/dotzen"
)

type rootOptions struct {
	logLevel string
	envFiles []string
	files    []string
	prefix   string
	noEnv    bool

	logger *slog.Logger
}

// NewRootCmd builds the dotzen command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "dotzen",
		Short: "Encode, hash and read configuration values",
		Long: `dotzen reads configuration from the environment, .env files and
YAML/TOML/JSON files, and encodes values for storage in .env files.

base64 values can be decoded again; md5, sha256 and bcrypt are one-way.
None of them keep a value secret.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := dotzen.ToLevel(opts.logLevel)
			if err != nil {
				return err
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	root.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, ".env files in precedence order (default: .env)")
	root.PersistentFlags().StringSliceVar(&opts.files, "file", nil, "YAML, TOML or JSON config files, after .env files")
	root.PersistentFlags().StringVar(&opts.prefix, "prefix", "", "prefix prepended to keys looked up in the environment")
	root.PersistentFlags().BoolVar(&opts.noEnv, "no-env", false, "do not read the process environment")

	root.AddCommand(
		newEncryptCmd(opts),
		newDecryptCmd(opts),
		newGetCmd(opts),
		newAlgorithmsCmd(),
	)
	return root
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *rootOptions) config() (*dotzen.Config, error) {
	envFiles := o.envFiles
	if len(envFiles) == 0 {
		envFiles = []string{dotzen.DefaultDotenvPath}
	}
	cfg, err := dotzen.New(dotzen.Options{
		Environment: !o.noEnv,
		EnvPrefix:   o.prefix,
		Dotenv:      envFiles,
		Files:       o.files,
		Logger:      o.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
