package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docdex/docdex/pkg/inventory"
)

// newDumpCmd creates the dump command, which prints the objects of a
// Sphinx inventory for inspection.
func newDumpCmd(cfg *config) *cobra.Command {
	var domain string

	cmd := &cobra.Command{
		Use:   "dump <objects.inv | documentation-url>",
		Short: "Print the objects of a Sphinx inventory",
		Long: `Print the cross-referenceable objects of a Sphinx inventory.

The argument may be a local objects.inv file, a direct URL to one, or a
documentation base URL (objects.inv is appended).

Examples:
  docdex dump objects.inv
  docdex dump https://docs.python.org/3/
  docdex dump --domain py https://numpy.org/doc/stable/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, backend, err := cfg.newClient(ctx, "docdex:")
			if err != nil {
				return err
			}
			defer backend.Close()

			inv, err := inventory.Fetch(ctx, client, args[0])
			if err != nil {
				return err
			}

			printKeyValue("Project", inv.Project)
			printKeyValue("Version", inv.Version)
			printKeyValue("Objects", fmt.Sprintf("%d", len(inv.Objects)))
			for _, o := range inv.Objects {
				if domain != "" && o.Domain != domain {
					continue
				}
				fmt.Printf("%s (%s:%s) %s\n", o.Name, o.Domain, o.Role, o.URI)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&domain, "domain", "", "only print objects of this domain (e.g. py, std)")
	return cmd
}
