package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/repoinsight/pkg/config"
	pkgerrors "github.com/matzehuels/repoinsight/pkg/errors"
	"github.com/matzehuels/repoinsight/pkg/job"
)

// jobCommand creates the job command group.
func (c *CLI) jobCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Inspect stored analysis jobs",
		Long: `Job reads jobs from the configured store (REPOINSIGHT_STORE). Jobs kept
by the in-memory store do not outlive the process, so use the file, redis,
or mongo store to inspect past runs.`,
	}

	cmd.AddCommand(c.jobShowCommand())
	cmd.AddCommand(c.jobListCommand())

	return cmd
}

// jobShowCommand creates the "job show" subcommand.
func (c *CLI) jobShowCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the status and result of a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, closeStore, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			j, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if jsonOut {
				return encodeJSON(w, j)
			}
			printJob(w, j)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the job as JSON")

	return cmd
}

// jobListCommand creates the "job list" subcommand.
func (c *CLI) jobListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List jobs kept by the file store, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, closeStore, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			fs, ok := store.(*job.FileStore)
			if !ok {
				return pkgerrors.New(pkgerrors.ErrCodeUnsupported, "listing jobs requires REPOINSIGHT_STORE=%s", config.StoreFile)
			}
			jobs, err := fs.List(ctx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(jobs) == 0 {
				printInfo(w, "No jobs in %s", fs.Path())
				return nil
			}
			rows := make([][]string, 0, len(jobs))
			for _, j := range jobs {
				rows = append(rows, []string{
					j.ID,
					string(j.Status),
					strconv.Itoa(j.Progress) + "%",
					j.RepoURL,
					j.CreatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(w, renderTable([]string{"ID", "Status", "Progress", "Repository", "Created"}, rows))
			return nil
		},
	}
}

// openStore connects the configured job store for read-only commands.
func (c *CLI) openStore(ctx context.Context) (job.Store, func() error, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	return cfg.OpenStore(ctx)
}

// printJob renders one job and, when finished, its outcome.
func printJob(w io.Writer, j *job.Job) {
	printKeyValue(w, "Job", j.ID)
	printKeyValue(w, "Repository", j.RepoURL)
	printKeyValue(w, "Status", renderStatus(j.Status))
	printKeyValue(w, "Progress", strconv.Itoa(j.Progress)+"%")
	printKeyValue(w, "Model", j.ModelID)
	printKeyValue(w, "Updated", j.UpdatedAt.Local().Format("2006-01-02 15:04:05"))

	switch {
	case j.Result == nil:
	case j.Result.Failure != nil:
		fmt.Fprintln(w)
		printError(w, "%s", j.Result.Failure.Error)
	case j.Result.Analysis != nil:
		fmt.Fprintln(w)
		printAnalysis(w, j, j.Result.Analysis)
	}
}
