// Package cli implements the repoinsight command-line interface.
//
// The commands run the analysis pipeline locally: a repository URL or
// directory goes in, and a job result comes out as a terminal summary,
// JSON, or a rendered graph.
//
// # Commands
//
// The main commands are:
//   - analyze: Run the full analysis for a repository and print the result
//   - deps: List the dependencies declared by every manifest in a directory
//   - imports: List the imports of individual source files
//   - tree: Build the file graph of a directory and export it as DOT or SVG
//   - job: Inspect jobs kept by a persistent store
//
// # Configuration
//
// Storage and inference are configured through the environment (and an
// optional .env file); see package config for the variables.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Collected 42 dependencies (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, p.elapsed())
}

func (p *progress) elapsed() time.Duration {
	return time.Since(p.start).Round(time.Millisecond)
}
