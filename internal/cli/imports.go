package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	pkgerrors "github.com/matzehuels/repoinsight/pkg/errors"
)

// importsCommand creates the imports command.
func (c *CLI) importsCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "imports <file>...",
		Short: "List the third-party imports of source files",
		Long: `Imports parses each source file with the scanner of its ecosystem and
prints the external module roots it imports. Standard-library and relative
imports are omitted.`,
		Example: `  repoinsight imports main.go app/server.py`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.registry()
			if err != nil {
				return err
			}

			out := make(map[string][]string, len(args))
			for _, path := range args {
				if _, ok := reg.ForSource(path); !ok {
					return pkgerrors.New(pkgerrors.ErrCodeUnsupported, "no import scanner for %s", filepath.Base(path))
				}
				list := reg.ParseImports(path)
				if list == nil {
					list = []string{}
				}
				out[path] = list
			}

			w := cmd.OutOrStdout()
			if jsonOut {
				return encodeJSON(w, out)
			}
			for _, path := range args {
				fmt.Fprintln(w, StyleTitle.Render(path))
				if len(out[path]) == 0 {
					fmt.Fprintln(w, "  "+StyleDim.Render("(none)"))
					continue
				}
				for _, imp := range out[path] {
					fmt.Fprintln(w, "  "+StyleValue.Render(imp))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print imports as JSON keyed by file")

	return cmd
}
