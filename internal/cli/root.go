package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/docdex/docdex/pkg/buildinfo"
)

// Execute runs the docdex CLI and returns an error if any command fails.
//
// The function sets up the root command with all subcommands (check,
// update, dump, cache), configures logging based on the --verbose flag,
// loads the optional configuration file, and executes the command tree.
//
// Logging:
//   - Default: warn level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands
// via loggerFromContext.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
		cfg        = defaultConfig()
	)

	root := &cobra.Command{
		Use:          "docdex",
		Short:        "Docdex resolves package documentation URLs",
		Long:         `Docdex maintains catalogs of versioned documentation URLs for packages and resolves cross-reference requests against user catalogs, a builtin catalog, the installed environment, readthedocs.org and pypi.org.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.WarnLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)

			loaded, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			*cfg = *loaded
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "configuration file (default "+defaultConfigPath()+")")

	root.AddCommand(newCheckCmd(cfg))
	root.AddCommand(newUpdateCmd(cfg))
	root.AddCommand(newDumpCmd(cfg))
	root.AddCommand(newCacheCmd(cfg))

	return root.ExecuteContext(ctx)
}
