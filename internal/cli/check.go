package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docdex/docdex/pkg/cache"
	"github.com/docdex/docdex/pkg/resolver"
	"github.com/docdex/docdex/pkg/sources"
)

// checkOpts holds the command-line flags for the check command.
type checkOpts struct {
	user           string // user catalog path override
	noBuiltin      bool
	noEnvironment  bool
	noReadTheDocs  bool
	noPyPI         bool
	keepGoing      bool
	pypiMaxEntries int
}

// newCheckCmd creates the check command. It resolves each requested
// package through the full source chain and reports the URL found and
// the stage it came from.
func newCheckCmd(cfg *config) *cobra.Command {
	opts := checkOpts{}

	cmd := &cobra.Command{
		Use:   "check <package[==version] | requirements-file | url>...",
		Short: "Resolve packages to documentation URLs",
		Long: `Resolve packages to documentation URLs through the source chain:
user catalog, builtin catalog, installed environment, readthedocs.org,
pypi.org.

Arguments may be package specifiers, local requirements files, or URLs
of requirements files.

Examples:
  docdex check numpy                 # stable docs of numpy
  docdex check numpy==1.26 scipy     # a pinned and an unpinned package
  docdex check requirements.txt      # every package in the file`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), cfg, &opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.user, "user", "", "user catalog file (default from config)")
	cmd.Flags().BoolVar(&opts.noBuiltin, "no-builtin", false, "skip the builtin catalog")
	cmd.Flags().BoolVar(&opts.noEnvironment, "no-environment", false, "skip the installed environment")
	cmd.Flags().BoolVar(&opts.noReadTheDocs, "no-rtd", false, "skip readthedocs.org")
	cmd.Flags().BoolVar(&opts.noPyPI, "no-pypi", false, "skip pypi.org")
	cmd.Flags().BoolVar(&opts.keepGoing, "keep-going", false, "query all sources instead of stopping at the first hit")
	cmd.Flags().IntVar(&opts.pypiMaxEntries, "pypi-max-entries", 0, "historical PyPI releases to probe (0 none, -1 all)")

	return cmd
}

func runCheck(ctx context.Context, cfg *config, opts *checkOpts, args []string) error {
	logger := loggerFromContext(ctx)
	client, backend, err := cfg.newClient(ctx, "docdex:")
	if err != nil {
		return err
	}
	defer backend.Close()

	reqs, err := gatherRequests(ctx, client, args)
	if err != nil {
		return err
	}

	userPath := opts.user
	if userPath == "" {
		userPath = cfg.Resolver.UserCatalog
	}

	driver, err := resolver.New(resolver.Options{
		UserCatalogPath: userPath,
		NoBuiltin:       opts.noBuiltin,
		NoEnvironment:   opts.noEnvironment,
		NoReadTheDocs:   opts.noReadTheDocs,
		NoPyPI:          opts.noPyPI,
		KeepGoing:       opts.keepGoing || cfg.Resolver.KeepGoing,
		PyPIMaxEntries:  pickInt(opts.pypiMaxEntries, cfg.Resolver.PyPIMaxEntries),
		Client:          client,
		Logger:          logger,
		OnStage:         printStage,
	})
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	mapping, diags, err := driver.ResolveAll(ctx, reqs)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(mapping))
	for name := range mapping {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		printSuccess("%s %s %s", name, StyleDim.Render(iconArrow), StyleLink.Render(mapping[name]))
	}

	failed := 0
	for _, d := range diags {
		switch d.Severity {
		case resolver.SeverityError:
			failed++
			printError("%s", d)
		case resolver.SeverityWarning:
			printWarning("%s", d)
		default:
			printInfo("%s", d)
		}
	}
	prog.done(fmt.Sprintf("Resolved %d of %d packages", len(mapping), len(reqs)))

	if failed > 0 {
		return fmt.Errorf("%d package(s) could not be resolved", failed)
	}
	return nil
}

// printStage reports one source stage hit, with the version mapping it
// produced as indented JSON.
func printStage(stage, pkg string, versions map[string]string) {
	printInfo("%s: answered by %s", pkg, StyleHighlight.Render(stage))
	data, err := json.MarshalIndent(versions, "", "  ")
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		printDetail("| %s", line)
	}
}

// gatherRequests expands command arguments into resolution requests.
// Arguments naming local files or URLs are read as requirements
// listings; a listing that cannot be read is a hard error.
func gatherRequests(ctx context.Context, client *sources.Client, args []string) ([]resolver.Request, error) {
	var reqs []resolver.Request
	add := func(spec string) {
		name, ver := parseSpec(spec)
		if name != "" {
			reqs = append(reqs, resolver.Request{Package: name, Version: ver})
		}
	}

	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://"):
			text, err := downloadList(ctx, client, arg)
			if err != nil {
				return nil, err
			}
			for _, spec := range parseRequirements(text) {
				add(spec)
			}
		case isFile(arg):
			data, err := os.ReadFile(arg)
			if err != nil {
				return nil, fmt.Errorf("reading package list %s: %w", arg, err)
			}
			for _, spec := range parseRequirements(string(data)) {
				add(spec)
			}
		default:
			add(arg)
		}
	}
	return reqs, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// downloadList fetches a remote requirements listing. Unlike the source
// fetchers this download is load-bearing, so transient failures are
// retried; a final failure is a hard error.
func downloadList(ctx context.Context, client *sources.Client, url string) (string, error) {
	var text string
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		text, err = client.GetText(ctx, url)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("downloading package list %s: %w", url, err)
	}
	return text, nil
}

// pickInt returns the flag value when set, else the config value.
func pickInt(flag, config int) int {
	if flag != 0 {
		return flag
	}
	return config
}
