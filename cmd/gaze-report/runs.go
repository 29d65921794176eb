package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/banshee-data/gaze.report/internal/analysis"
	"github.com/banshee-data/gaze.report/internal/fsutil"
	"github.com/banshee-data/gaze.report/internal/gazedb"
	"github.com/banshee-data/gaze.report/internal/timeutil"
)

type runsOptions struct {
	dbPath      string
	corrections bool
}

// statusOrder is the display order of per-status sample counts.
var statusOrder = []analysis.Status{
	analysis.StatusMatched,
	analysis.StatusUnmatched,
	analysis.StatusNoObservation,
}

func newRunsCmd(opts *options) *cobra.Command {
	ro := &runsOptions{}

	cmd := &cobra.Command{
		Use:   "runs --db <path>",
		Short: "List the analysis runs recorded in a run store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			restore := applyOutputOptions(opts)
			defer restore()
			return listRuns(cmd.Context(), cmd.OutOrStdout(), ro)
		},
	}

	f := cmd.Flags()
	f.StringVar(&ro.dbPath, "db", "", "sqlite run store written by --db")
	f.BoolVar(&ro.corrections, "corrections", false, "Also print each run's label corrections")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func listRuns(ctx context.Context, out io.Writer, ro *runsOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	// Opening a missing path would create an empty store.
	if err := fsutil.RequireFile(fsutil.OSFileSystem{}, ro.dbPath); err != nil {
		failStyle.Fprintf(out, "Run store %s not found.\n", ro.dbPath)
		return err
	}

	db, err := gazedb.Open(ctx, ro.dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close run store: %v", err)
		}
	}()

	schema, dirty, err := db.MigrateVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	infoStyle.Fprintf(out, "Run store: %s (schema v%d", ro.dbPath, schema)
	if dirty {
		failStyle.Fprint(out, ", dirty")
	}
	infoStyle.Fprintln(out, ")")

	runs, err := db.ListRuns(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	for _, run := range runs {
		counts, err := db.StatusCounts(ctx, run.ID)
		if err != nil {
			return err
		}

		fmt.Fprintln(out)
		doneStyle.Fprintf(out, "%s  %s\n", run.ID, timeutil.FormatRunStamp(run.StartedAt))
		fmt.Fprintf(out, "  Summary: %s\n", run.SummaryPath)
		fmt.Fprintf(out, "  Samples: %s\n", run.SamplesPath)
		if v, ok := run.MeanOffset.Get(); ok {
			fmt.Fprintf(out, "  Mean offset: %.2f° over %d targets\n", v, run.OffsetCount)
		} else {
			fmt.Fprintln(out, "  Mean offset: none")
		}
		fmt.Fprintf(out, "  Match threshold: %.2f\n", run.MatchThreshold)
		fmt.Fprintf(out, "  Rows: %d (%s)\n", run.SampleCount, formatStatusCounts(counts))

		if !ro.corrections {
			continue
		}
		corrections, err := db.Corrections(ctx, run.ID)
		if err != nil {
			return err
		}
		if len(corrections) == 0 {
			fmt.Fprintln(out, "  Corrections: none")
			continue
		}
		fmt.Fprintln(out, "  Corrections:")
		for _, c := range corrections {
			fmt.Fprintf(out, "    %q → %s (%.2f)\n", c.Raw, c.Key, c.Score)
		}
	}

	fmt.Fprintf(out, "\nTotal: %d runs\n", len(runs))
	return nil
}

func formatStatusCounts(counts map[string]int) string {
	parts := make([]string, 0, len(statusOrder))
	for _, s := range statusOrder {
		parts = append(parts, fmt.Sprintf("%s %d", s, counts[s.String()]))
	}
	return strings.Join(parts, ", ")
}
