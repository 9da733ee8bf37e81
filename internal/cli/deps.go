package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/repoinsight/pkg/deps"
	"github.com/matzehuels/repoinsight/pkg/deps/ecosystems"
	pkgerrors "github.com/matzehuels/repoinsight/pkg/errors"
	"github.com/matzehuels/repoinsight/pkg/repotree"
)

// depsFlags holds the flags for the deps command.
type depsFlags struct {
	jsonOut   bool
	ecosystem string
	noDev     bool
	workers   int
}

// depsCommand creates the deps command.
func (c *CLI) depsCommand() *cobra.Command {
	var flags depsFlags

	cmd := &cobra.Command{
		Use:   "deps [dir]",
		Short: "List dependencies declared by package manifests",
		Long: `Deps finds every supported manifest below a directory (package.json,
requirements.txt, go.mod, Cargo.toml, pom.xml, and others), parses them, and
prints one row per dependency and manifest.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return c.runDeps(cmd, dir, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.jsonOut, "json", false, "print dependencies as JSON")
	cmd.Flags().StringVarP(&flags.ecosystem, "ecosystem", "e", "", "only parse manifests of this ecosystem (e.g. python, javascript, go)")
	cmd.Flags().BoolVar(&flags.noDev, "no-dev", false, "omit development dependencies")
	cmd.Flags().IntVar(&flags.workers, "workers", deps.DefaultWorkers, "concurrent manifest parsers")

	return cmd
}

func (c *CLI) runDeps(cmd *cobra.Command, dir string, flags depsFlags) error {
	reg, err := c.depsRegistry(flags.ecosystem)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	collector := deps.NewCollector(reg, deps.CollectOptions{
		Workers:         flags.workers,
		SkipDir:         repotree.IsIgnoredDir,
		RelativeSources: true,
		Logger:          c.Logger,
	})
	list, err := collector.Collect(cmd.Context(), dir)
	if err != nil {
		return err
	}
	if flags.noDev {
		list = withoutDev(list)
	}
	list = deps.Dedupe(list)
	deps.Sort(list)
	prog.done(fmt.Sprintf("Collected %d dependencies", len(list)))

	w := cmd.OutOrStdout()
	if flags.jsonOut {
		if list == nil {
			list = []deps.Dependency{}
		}
		return encodeJSON(w, list)
	}
	if len(list) == 0 {
		printInfo(w, "No dependencies found in %s", dir)
		return nil
	}
	fmt.Fprintln(w, dependencyTable(list))
	return nil
}

// depsRegistry returns the full registry, or one holding only the named
// ecosystem.
func (c *CLI) depsRegistry(ecosystem string) (*deps.Registry, error) {
	if ecosystem == "" {
		return c.registry()
	}
	p := ecosystems.Find(strings.ToLower(ecosystem), c.Logger)
	if p == nil {
		var names []string
		for _, p := range ecosystems.All(c.Logger) {
			names = append(names, p.Ecosystem())
		}
		return nil, pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "unknown ecosystem %q (available: %s)", ecosystem, strings.Join(names, ", "))
	}
	return deps.NewRegistry(p)
}

func withoutDev(list []deps.Dependency) []deps.Dependency {
	out := list[:0]
	for _, d := range list {
		if !d.Dev {
			out = append(out, d)
		}
	}
	return out
}

// dependencyTable renders dependencies as a bordered table.
func dependencyTable(list []deps.Dependency) string {
	rows := make([][]string, 0, len(list))
	for _, d := range list {
		version := d.Version
		if !d.HasVersion() {
			version = "-"
		}
		kind := ""
		if d.Dev {
			kind = "dev"
		}
		rows = append(rows, []string{d.Name, version, kind, d.Source})
	}
	return renderTable([]string{"Name", "Version", "Kind", "Source"}, rows)
}
