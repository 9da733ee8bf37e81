package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	pkgerrors "github.com/matzehuels/repoinsight/pkg/errors"
	"github.com/matzehuels/repoinsight/pkg/job"
	"github.com/matzehuels/repoinsight/pkg/observability"
	"github.com/matzehuels/repoinsight/pkg/pipeline"
	"github.com/matzehuels/repoinsight/pkg/repotree"
)

// analyzeFlags holds the flags for the analyze command.
type analyzeFlags struct {
	model    string
	jsonOut  bool
	output   string
	dot      string
	svg      string
	maxFiles int
	maxSize  int64
	describe int
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var flags analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze <repo-url|path>",
		Short: "Analyze a repository end to end",
		Long: `Analyze clones a Git repository (or reads a local directory), builds its
file graph, collects manifest dependencies, and generates an overview and a
vulnerability assessment.

Without GEMINI_API_KEY the analysis still completes; descriptions and
summaries fall back to static text.`,
		Example: `  # Analyze a public repository
  repoinsight analyze https://github.com/spf13/cobra

  # Analyze a local checkout and save the graph
  repoinsight analyze . --svg graph.svg -o result.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd.Context(), cmd.OutOrStdout(), args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.model, "model", "m", job.DefaultModelID, "model id recorded on the job")
	cmd.Flags().BoolVar(&flags.jsonOut, "json", false, "print the job result as JSON")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the job result as JSON to a file")
	cmd.Flags().StringVar(&flags.dot, "dot", "", "write the file graph as Graphviz DOT")
	cmd.Flags().StringVar(&flags.svg, "svg", "", "render the file graph as SVG")
	cmd.Flags().IntVar(&flags.maxFiles, "max-files", repotree.MaxFilesToRead, "maximum number of files whose content is captured")
	cmd.Flags().Int64Var(&flags.maxSize, "max-size", repotree.MaxFileSize, "maximum size in bytes of a captured file")
	cmd.Flags().IntVar(&flags.describe, "describe", pipeline.DefaultDescribeLimit, "maximum number of code files to describe")

	return cmd
}

// runAnalyze submits and runs one job synchronously.
func (c *CLI) runAnalyze(ctx context.Context, w io.Writer, repo string, flags analyzeFlags) error {
	svc, err := c.newService(ctx, pipeline.Options{
		MaxFilesToRead: flags.maxFiles,
		MaxFileSize:    flags.maxSize,
		DescribeLimit:  flags.describe,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			c.Logger.Warn("close", "err", err)
		}
	}()

	j, err := svc.runner.Submit(ctx, repo, flags.model)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Analyzing "+repo)
	observability.SetJobHooks(&spinnerHooks{spinner: spinner})
	defer observability.SetJobHooks(observability.NoopJobHooks{})

	prog := newProgress(c.Logger)
	spinner.Start()
	runErr := svc.runner.Run(ctx, j.ID)
	spinner.Stop()

	if runErr != nil {
		printError(w, "%s", pkgerrors.UserMessage(runErr))
		printKeyValue(w, "Job", j.ID)
		return runErr
	}

	final, err := svc.store.Get(ctx, j.ID)
	if err != nil {
		return err
	}
	prog.done("Analysis completed")

	if flags.output != "" {
		if err := writeJSON(flags.output, final.Result); err != nil {
			return err
		}
	}
	a := final.Result.Analysis
	if flags.dot != "" || flags.svg != "" {
		if err := writeGraph(ctx, treeOf(a), flags.dot, flags.svg); err != nil {
			return err
		}
	}

	if flags.jsonOut {
		return encodeJSON(w, final.Result)
	}

	printSuccess(w, "Analyzed %s in %s", StyleValue.Render(a.Repository), prog.elapsed())
	if svc.cfg.GeminiAPIKey == "" {
		printWarning(w, "GEMINI_API_KEY is not set; summaries use static fallbacks")
	}
	printAnalysis(w, final, a)
	for _, p := range []string{flags.output, flags.dot, flags.svg} {
		if p != "" {
			printFile(w, p)
		}
	}
	return nil
}

// printAnalysis renders a completed job for the terminal.
func printAnalysis(w io.Writer, j *job.Job, a *job.Analysis) {
	printStats(w,
		stat{a.FilesAnalyzed, "files"},
		stat{len(a.Nodes), "nodes"},
		stat{len(a.Edges), "edges"},
		stat{len(a.Dependencies), "dependencies"},
	)
	fmt.Fprintln(w)
	printKeyValue(w, "Job", j.ID)
	printKeyValue(w, "Status", renderStatus(j.Status))
	printKeyValue(w, "Model", a.ModelID)
	if len(a.Languages) > 0 {
		printKeyValue(w, "Languages", strings.Join(a.Languages, ", "))
	}
	printSection(w, "Overview", a.Overview)
	printSection(w, "Vulnerabilities", a.VulnerabilityAnalysis)
	if len(a.Dependencies) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, dependencyTable(a.Dependencies))
	}
}

// treeOf rebuilds a tree from the graph stored in an analysis.
func treeOf(a *job.Analysis) *repotree.Tree {
	return &repotree.Tree{Nodes: a.Nodes, Edges: a.Edges, Languages: a.Languages}
}

// writeGraph writes DOT and/or SVG renderings of t.
func writeGraph(ctx context.Context, t *repotree.Tree, dotPath, svgPath string) error {
	dot := repotree.ToDOT(t)
	if dotPath != "" {
		if err := os.WriteFile(dotPath, []byte(dot), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", dotPath, err)
		}
	}
	if svgPath != "" {
		svg, err := repotree.RenderSVG(ctx, dot)
		if err != nil {
			return err
		}
		if err := os.WriteFile(svgPath, svg, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", svgPath, err)
		}
	}
	return nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := encodeJSON(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// =============================================================================
// Stage Reporting
// =============================================================================

// stageLabels are the spinner messages shown while a stage runs.
var stageLabels = map[string]string{
	string(job.StatusParsing):       "Reading repository",
	string(job.StatusBuildingGraph): "Building graph",
	string(job.StatusExplaining):    "Generating overview",
}

// spinnerHooks mirrors job stages onto a spinner.
type spinnerHooks struct {
	observability.NoopJobHooks
	spinner *Spinner
}

func (h *spinnerHooks) OnStageStart(_ context.Context, _, stage string) {
	if label, ok := stageLabels[stage]; ok {
		h.spinner.SetMessage(label + "...")
	}
}

func (h *spinnerHooks) OnStageComplete(_ context.Context, _, stage string, d time.Duration, err error) {
	if err == nil {
		return
	}
	h.spinner.SetMessage(fmt.Sprintf("%s failed after %s", stageLabels[stage], d.Round(time.Millisecond)))
}
