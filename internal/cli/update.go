package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docdex/docdex/pkg/catalog"
	"github.com/docdex/docdex/pkg/sources"
	"github.com/docdex/docdex/pkg/sources/environment"
	"github.com/docdex/docdex/pkg/sources/pypi"
	"github.com/docdex/docdex/pkg/sources/readthedocs"
)

// updateOpts holds the command-line flags for the update command.
type updateOpts struct {
	self           bool
	catalogPath    string
	output         string
	keepGoing      bool
	pypiMaxEntries int
	noEnvironment  bool
	noReadTheDocs  bool
	noPyPI         bool
}

// newUpdateCmd creates the update command, which refreshes or extends a
// catalog file from the network sources.
func newUpdateCmd(cfg *config) *cobra.Command {
	opts := updateOpts{}

	cmd := &cobra.Command{
		Use:   "update [package | requirements-file | url]...",
		Short: "Refresh or extend a catalog file",
		Long: `Refresh or extend a catalog file with documentation URLs discovered on
the installed environment, readthedocs.org and pypi.org.

Without --catalog the update starts from the builtin catalog; without
--output the result goes back to --catalog, or to stdout when neither
is given. Arguments may be package names, local requirements
files, or URLs of requirements files; with --self the packages already
in the catalog are refreshed instead.

Examples:
  docdex update --catalog my.json numpy scipy   # add two packages
  docdex update --catalog my.json --self        # refresh everything
  docdex update -o fresh.json requirements.txt  # build from builtin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd.Context(), cfg, &opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.self, "self", false, "refresh the packages already in the catalog")
	cmd.Flags().StringVar(&opts.catalogPath, "catalog", "", "catalog file to update (default: start from the builtin catalog)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the result here instead of back to --catalog")
	cmd.Flags().BoolVar(&opts.keepGoing, "keep-going", false, "query all sources instead of stopping at the first hit")
	cmd.Flags().IntVar(&opts.pypiMaxEntries, "pypi-max-entries", 0, "historical PyPI releases to probe (0 none, -1 all)")
	cmd.Flags().BoolVar(&opts.noEnvironment, "no-environment", false, "skip the installed environment")
	cmd.Flags().BoolVar(&opts.noReadTheDocs, "no-rtd", false, "skip readthedocs.org")
	cmd.Flags().BoolVar(&opts.noPyPI, "no-pypi", false, "skip pypi.org")

	return cmd
}

func runUpdate(ctx context.Context, cfg *config, opts *updateOpts, args []string) error {
	if !opts.self && len(args) == 0 {
		return fmt.Errorf("nothing to update: name packages or pass --self")
	}
	out := opts.output
	if out == "" {
		out = opts.catalogPath
	}

	logger := loggerFromContext(ctx)
	client, backend, err := cfg.newClient(ctx, "docdex:")
	if err != nil {
		return err
	}
	defer backend.Close()

	cat := catalog.Builtin()
	if opts.catalogPath != "" {
		cat = catalog.New()
		if err := cat.Load(opts.catalogPath); err != nil {
			return err
		}
	}

	var fetchers []catalog.Fetcher
	if !opts.noEnvironment {
		fetchers = append(fetchers, environment.New(client))
	}
	if !opts.noReadTheDocs {
		fetchers = append(fetchers, readthedocs.New(client))
	}
	if !opts.noPyPI {
		fetchers = append(fetchers, pypi.New(client, pickInt(opts.pypiMaxEntries, cfg.Resolver.PyPIMaxEntries)))
	}

	catOpts := catalog.UpdateOptions{
		KeepGoing: opts.keepGoing || cfg.Resolver.KeepGoing,
		Logger: func(msg string, kv ...any) {
			logger.Debug(msg, kv...)
		},
	}

	prog := newProgress(logger)
	spin := newSpinnerWithContext(ctx, "Updating catalog...")
	spin.Start()

	var updated []string
	if opts.self {
		cat.SelfUpdate(ctx, fetchers, catOpts)
		updated = cat.Packages()
	} else {
		pkgs, err := gatherPackages(ctx, client, args)
		if err != nil {
			spin.Stop()
			return err
		}
		catOpts.Names = cat.SourceNames(fetchers)
		cat.UpdateVersions(ctx, pkgs, fetchers, catOpts)
		updated = pkgs
	}
	spin.Stop()
	if spin.Cancelled() {
		return ctx.Err()
	}

	prog.done(fmt.Sprintf("Updated %d packages", len(updated)))
	if out == "" {
		text, err := cat.Dumps()
		if err != nil {
			return err
		}
		fmt.Print(text)
		return nil
	}
	if err := cat.Dump(out); err != nil {
		return err
	}
	printSuccess("Catalog written")
	printFile(out)
	printNextStep("Resolve a package", "docdex check --user "+out+" <package>")
	return nil
}

// gatherPackages expands command arguments into package names, reading
// local files and URLs as requirements listings. A listing that cannot
// be read aborts the update.
func gatherPackages(ctx context.Context, client *sources.Client, args []string) ([]string, error) {
	reqs, err := gatherRequests(ctx, client, args)
	if err != nil {
		return nil, err
	}
	pkgs := make([]string, 0, len(reqs))
	for _, r := range reqs {
		pkgs = append(pkgs, r.Package)
	}
	return pkgs, nil
}
