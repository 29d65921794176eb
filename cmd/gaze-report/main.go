// Command gaze-report analyses the summary and sample logs of a gaze
// accuracy test. It resolves noisy target labels, reports per-target
// statistics, writes the unresolved rows to CSV and renders a heat map of
// gaze direction.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/banshee-data/gaze.report/internal/analysis"
	"github.com/banshee-data/gaze.report/internal/config"
	"github.com/banshee-data/gaze.report/internal/fsutil"
	"github.com/banshee-data/gaze.report/internal/gazedb"
	"github.com/banshee-data/gaze.report/internal/monitoring"
	"github.com/banshee-data/gaze.report/internal/render"
	"github.com/banshee-data/gaze.report/internal/samples"
	"github.com/banshee-data/gaze.report/internal/targets"
	"github.com/banshee-data/gaze.report/internal/timeutil"
	"github.com/banshee-data/gaze.report/internal/version"
)

type options struct {
	configPath string
	dbPath     string
	html       bool
	noPlot     bool
	noColor    bool
	quiet      bool
}

var (
	infoStyle = color.New(color.FgHiCyan)
	doneStyle = color.New(color.FgHiGreen)
	failStyle = color.New(color.FgHiRed)
)

func main() {
	if err := newRootCmd(fsutil.OSFileSystem{}).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(fsys fsutil.FileSystem) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "gaze-report [flags] <summary.csv> <samples.csv>",
		Short: "Analyse gaze accuracy test logs and render a gaze heat map",
		Long: "Reads the per-target summary log and the per-sample log of a gaze accuracy test,\n" +
			"resolves target labels against the nine canonical screen positions, reports\n" +
			"per-target statistics, writes unresolved rows beside the sample log and renders\n" +
			"a gaze heat map beside the summary log. Runs recorded with --db can be listed\n" +
			"with the runs subcommand.",
		Version: fmt.Sprintf("%s (%s, built %s)", version.Version, version.GitSHA, version.BuildTime),
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Arguments are valid; later failures are not usage errors.
			cmd.SilenceUsage = true
			return run(cmd.Context(), cmd.OutOrStdout(), fsys, opts, args[0], args[1])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Analysis settings file (.json or .toml)")
	f.StringVar(&opts.dbPath, "db", "", "Record the run in this sqlite database")
	f.BoolVar(&opts.html, "html", false, "Also write an interactive HTML chart beside the summary log")
	f.BoolVar(&opts.noPlot, "no-plot", false, "Skip rendering the PNG heat map")

	pf := cmd.PersistentFlags()
	pf.BoolVar(&opts.noColor, "no-color", false, "Disable coloured output")
	pf.BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress per-row diagnostics")

	cmd.AddCommand(newRunsCmd(opts))
	return cmd
}

// applyOutputOptions applies the shared colour and logging flags and
// returns a func that restores logging.
func applyOutputOptions(opts *options) func() {
	if opts.noColor {
		color.NoColor = true
	}
	if opts.quiet {
		return monitoring.Quiet()
	}
	return func() {}
}

func run(ctx context.Context, out io.Writer, fsys fsutil.FileSystem, opts *options, summaryPath, samplesPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	clock := timeutil.RealClock{}
	start := clock.Now()
	restore := applyOutputOptions(opts)
	defer restore()

	cfg := config.Empty()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	for _, p := range []string{summaryPath, samplesPath} {
		if err := fsutil.RequireFile(fsys, p); err != nil {
			failStyle.Fprintln(out, "One or both CSV paths are invalid.")
			return err
		}
	}

	infoStyle.Fprintf(out, "Loading summary file: %s\n", summaryPath)
	summary, err := readSummary(fsys, summaryPath, cfg)
	if err != nil {
		return reportMissingColumn(out, "summary", err)
	}

	infoStyle.Fprintf(out, "Loading gaze sample file: %s\n", samplesPath)
	set, err := readSamples(fsys, samplesPath, cfg)
	if err != nil {
		return reportMissingColumn(out, "samples", err)
	}

	cat := targets.NewCatalog()
	matcher, err := targets.NewMatcher(cat, cfg.GetMatchThreshold())
	if err != nil {
		return err
	}
	result := analysis.Analyze(cat, matcher, summary, set)
	if err := analysis.WriteReport(out, result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	unmatchedPath := fsutil.Sibling(samplesPath, cfg.GetUnmatchedFile())
	err = fsutil.WriteWith(fsys, unmatchedPath, func(w io.Writer) error {
		return analysis.WriteUnmatched(w, set.Header, result, cfg.GetResolutionColumn())
	})
	if err != nil {
		return err
	}
	doneStyle.Fprintf(out, "Unmatched samples saved → %s\n", unmatchedPath)

	renderOpts := render.OptionsFromConfig(cfg)
	if !opts.noPlot {
		infoStyle.Fprintln(out, "Generating heat map...")
		p, err := render.Heatmap(result, renderOpts)
		if err != nil {
			return fmt.Errorf("failed to build heat map: %w", err)
		}
		pngPath := fsutil.Sibling(summaryPath, cfg.GetHeatmapFile())
		if err := render.WritePNG(fsys, pngPath, p, renderOpts); err != nil {
			return err
		}
		doneStyle.Fprintf(out, "Heatmap saved → %s\n", pngPath)
	}

	if opts.html {
		htmlPath := fsutil.Sibling(summaryPath, cfg.GetHTMLFile())
		err := fsutil.WriteWith(fsys, htmlPath, func(w io.Writer) error {
			return render.WriteHTML(w, result, renderOpts)
		})
		if err != nil {
			return err
		}
		doneStyle.Fprintf(out, "Interactive chart saved → %s\n", htmlPath)
	}

	if opts.dbPath != "" {
		id, err := recordRun(ctx, opts.dbPath, gazedb.RunInput{
			SummaryPath:    summaryPath,
			SamplesPath:    samplesPath,
			MatchThreshold: cfg.GetMatchThreshold(),
		}, result)
		if err != nil {
			return err
		}
		doneStyle.Fprintf(out, "Run recorded → %s (%s)\n", opts.dbPath, id)
	}

	fmt.Fprintf(out, "Finished in %s\n", clock.Since(start).Round(time.Millisecond))
	return nil
}

func readSummary(fsys fsutil.FileSystem, path string, cfg *config.AnalysisConfig) (*samples.Summary, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open summary file: %w", err)
	}
	defer f.Close()

	s, err := samples.ReadSummary(f, cfg.SummaryColumns())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return s, nil
}

func readSamples(fsys fsutil.FileSystem, path string, cfg *config.AnalysisConfig) (*samples.SampleSet, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open samples file: %w", err)
	}
	defer f.Close()

	set, err := samples.ReadSamples(f, cfg.SampleColumns())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return set, nil
}

// reportMissingColumn turns a missing column into a clean exit with the
// columns that were found. Other errors pass through.
func reportMissingColumn(out io.Writer, which string, err error) error {
	var mce *samples.MissingColumnError
	if !errors.As(err, &mce) {
		return err
	}
	failStyle.Fprintf(out, "Column %q not found in %s CSV.\n", mce.Column, which)
	fmt.Fprintf(out, "Columns found: %s\n", strings.Join(mce.Found, ", "))
	return nil
}

func recordRun(ctx context.Context, path string, in gazedb.RunInput, r *analysis.Result) (string, error) {
	db, err := gazedb.Open(ctx, path)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close run store: %v", err)
		}
	}()
	return db.RecordRun(ctx, in, r)
}
