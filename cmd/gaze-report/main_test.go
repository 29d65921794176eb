package main

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/gaze.report/internal/fsutil"
	"github.com/banshee-data/gaze.report/internal/gazedb"
	"github.com/banshee-data/gaze.report/internal/testutil"
)

const (
	summaryPath = "/logs/summary/gaze_summary.csv"
	samplesPath = "/logs/samples/gaze_samples.csv"
)

var (
	summaryCSV = testutil.CSV(testutil.SummaryHeader,
		"", testutil.SessionLine,
		testutil.SummaryRow("3.0000", "Middle Middle", "1.25"),
		testutil.SummaryRow("6.0000", "Right Top", "2.75"),
		testutil.SummaryRow("9.0000", "Left Top", testutil.Missed),
	)
	samplesCSV = testutil.CSV(testutil.SamplesHeader,
		"", testutil.SessionLine,
		testutil.SampleRow("0.1", "Middle Middle", "5", "-3"),
		testutil.SampleRow("0.2", "rigth top", "1", "1"),
		testutil.SampleRow("0.3", "center", "-1", "2"),
		testutil.SampleRow("0.4", "left top", "NaN", "NaN"),
	)
)

func newMemFS() *fsutil.MemoryFileSystem {
	mfs := fsutil.NewMemoryFileSystem()
	mfs.WriteFile(summaryPath, []byte(summaryCSV))
	mfs.WriteFile(samplesPath, []byte(samplesCSV))
	return mfs
}

func execute(t *testing.T, fsys fsutil.FileSystem, args ...string) (string, error) {
	t.Helper()
	prev := color.NoColor
	t.Cleanup(func() { color.NoColor = prev })

	cmd := newRootCmd(fsys)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--no-color", "--quiet"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func smallPlotConfig(t *testing.T) string {
	t.Helper()
	return testutil.WriteFile(t, t.TempDir(), "small.toml", "plot_dpi = 20\ngrid_size = 20\nlevels = 10\n")
}

func TestWrongArgumentCount(t *testing.T) {
	for _, args := range [][]string{nil, {summaryPath}, {summaryPath, samplesPath, "extra"}} {
		out, err := execute(t, newMemFS(), args...)
		assert.Error(t, err, "args %v", args)
		assert.Contains(t, out, "Usage:")
	}
}

func TestInvalidPathIsFatal(t *testing.T) {
	mfs := newMemFS()
	out, err := execute(t, mfs, "--no-plot", summaryPath, "/logs/samples/missing.csv")
	require.Error(t, err)
	assert.Contains(t, out, "One or both CSV paths are invalid.")
	assert.NotContains(t, out, "Usage:")
	assert.Len(t, mfs.Names(), 2, "no output should be written")
}

func TestMissingOffsetColumn(t *testing.T) {
	mfs := newMemFS()
	mfs.WriteFile(summaryPath, []byte("Time,Target,CenterError\n3.0000,Middle Middle,0.0123\n"))

	out, err := execute(t, mfs, summaryPath, samplesPath)
	require.NoError(t, err)
	assert.Contains(t, out, `Column "GazeAngleOffset(deg)" not found in summary CSV.`)
	assert.Contains(t, out, "Columns found: Time, Target, CenterError")
	assert.Len(t, mfs.Names(), 2, "no output should be written")
}

func TestMissingSampleColumn(t *testing.T) {
	mfs := newMemFS()
	mfs.WriteFile(samplesPath, []byte("Time,Target,Yaw(deg)\n0.1,middle middle,1\n"))

	out, err := execute(t, mfs, summaryPath, samplesPath)
	require.NoError(t, err)
	assert.Contains(t, out, `Column "Pitch(deg)" not found in samples CSV.`)
	assert.Len(t, mfs.Names(), 2)
}

func TestEmptySummaryIsFatal(t *testing.T) {
	mfs := newMemFS()
	mfs.WriteFile(summaryPath, []byte(testutil.SessionLine+"\n"))

	_, err := execute(t, mfs, "--no-plot", summaryPath, samplesPath)
	assert.Error(t, err)
}

func TestRunWritesOutputs(t *testing.T) {
	mfs := newMemFS()
	out, err := execute(t, mfs, "--config", smallPlotConfig(t), "--html", summaryPath, samplesPath)
	require.NoError(t, err)

	names := mfs.Names()
	sort.Strings(names)
	assert.Equal(t, []string{
		"/logs/samples/gaze_samples.csv",
		"/logs/samples/unmatched_gaze_samples.csv",
		"/logs/summary/gaze_heatmap.html",
		"/logs/summary/gaze_heatmap.png",
		"/logs/summary/gaze_summary.csv",
	}, names)

	unmatched, err := mfs.ReadFile("/logs/samples/unmatched_gaze_samples.csv")
	require.NoError(t, err)
	assert.Equal(t,
		"Time,Target,Yaw(deg),Pitch(deg),CorrectedTarget\n"+
			"0.3,center,-1,2,\n"+
			"0.4,left top,NaN,NaN,\n",
		string(unmatched))

	data, err := mfs.ReadFile("/logs/summary/gaze_heatmap.png")
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 160, img.Bounds().Dx(), "8 in at 20 dpi")

	for _, want := range []string{
		"Average gaze-angle offset across all targets: 2.00°",
		`"rigth top" → right top`,
		"Unmatched samples saved → /logs/samples/unmatched_gaze_samples.csv",
		"Heatmap saved → /logs/summary/gaze_heatmap.png",
		"Interactive chart saved → /logs/summary/gaze_heatmap.html",
	} {
		assert.Contains(t, out, want)
	}
}

func TestNoPlot(t *testing.T) {
	mfs := newMemFS()
	out, err := execute(t, mfs, "--no-plot", summaryPath, samplesPath)
	require.NoError(t, err)
	assert.False(t, mfs.Exists("/logs/summary/gaze_heatmap.png"))
	assert.True(t, mfs.Exists("/logs/samples/unmatched_gaze_samples.csv"))
	assert.NotContains(t, out, "Heatmap saved")
}

func TestRepeatedRunsAreByteIdentical(t *testing.T) {
	var outputs []string
	for i := 0; i < 2; i++ {
		mfs := newMemFS()
		_, err := execute(t, mfs, "--no-plot", summaryPath, samplesPath)
		require.NoError(t, err)
		data, err := mfs.ReadFile("/logs/samples/unmatched_gaze_samples.csv")
		require.NoError(t, err)
		outputs = append(outputs, string(data))
	}
	assert.Equal(t, outputs[0], outputs[1])
}

func TestConfigOverridesNames(t *testing.T) {
	mfs := newMemFS()
	cfgPath := testutil.WriteFile(t, t.TempDir(), "gaze.json", `{"unmatched_file": "rejects.csv", "resolution_column": "Resolved"}`)

	_, err := execute(t, mfs, "--no-plot", "--config", cfgPath, summaryPath, samplesPath)
	require.NoError(t, err)

	data, err := mfs.ReadFile("/logs/samples/rejects.csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Time,Target,Yaw(deg),Pitch(deg),Resolved\n"))
}

func TestBadConfigIsFatal(t *testing.T) {
	cfgPath := testutil.WriteFile(t, t.TempDir(), "gaze.json", `{"palette": "jet"}`)
	_, err := execute(t, newMemFS(), "--config", cfgPath, summaryPath, samplesPath)
	assert.Error(t, err)
}

func TestRecordsRunInDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	out, err := execute(t, newMemFS(), "--no-plot", "--db", dbPath, summaryPath, samplesPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Run recorded → "+dbPath)

	db, err := gazedb.Open(context.Background(), dbPath)
	require.NoError(t, err)
	defer db.Close()

	runs, err := db.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 4, runs[0].SampleCount)
	assert.Equal(t, 2, runs[0].Matched)
}

func TestRunsListsRecordedRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	for i := 0; i < 2; i++ {
		_, err := execute(t, newMemFS(), "--no-plot", "--db", dbPath, summaryPath, samplesPath)
		require.NoError(t, err)
	}

	out, err := execute(t, newMemFS(), "runs", "--db", dbPath, "--corrections")
	require.NoError(t, err)

	assert.Contains(t, out, "Run store: "+dbPath+" (schema v1)")
	assert.Equal(t, 2, strings.Count(out, "  Summary: "+summaryPath))
	assert.Contains(t, out, "Mean offset: 2.00° over 2 targets")
	assert.Contains(t, out, "Rows: 4 (matched 2, unmatched 1, no observation 1)")
	assert.Contains(t, out, `"rigth top" → right top`)
	assert.Contains(t, out, "Total: 2 runs")
}

func TestRunsWithoutCorrections(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	_, err := execute(t, newMemFS(), "--no-plot", "--db", dbPath, summaryPath, samplesPath)
	require.NoError(t, err)

	out, err := execute(t, newMemFS(), "runs", "--db", dbPath)
	require.NoError(t, err)
	assert.NotContains(t, out, "Corrections")
	assert.Contains(t, out, "Total: 1 runs")
}

func TestRunsEmptyStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	db, err := gazedb.Open(context.Background(), dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out, err := execute(t, newMemFS(), "runs", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")
}

func TestRunsMissingStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "missing.db")
	out, err := execute(t, newMemFS(), "runs", "--db", dbPath)
	require.Error(t, err)
	assert.Contains(t, out, "not found")

	_, statErr := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(statErr), "listing must not create a store")
}

func TestRunsRequiresDB(t *testing.T) {
	_, err := execute(t, newMemFS(), "runs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"db" not set`)
}

func TestRadianSamples(t *testing.T) {
	mfs := newMemFS()
	mfs.WriteFile(samplesPath, []byte(testutil.CSV("Time,Target,Yaw(rad),Pitch(rad)",
		testutil.SampleRow("0.1", "Middle Middle", "0.0872664626", "-0.0523598776"),
		testutil.SampleRow("0.2", "center", "0.1", "0.1"),
	)))
	cfgPath := testutil.WriteFile(t, t.TempDir(), "gaze.toml",
		"angle_unit = \"rad\"\nyaw_column = \"Yaw(rad)\"\npitch_column = \"Pitch(rad)\"\n")

	out, err := execute(t, mfs, "--no-plot", "--config", cfgPath, summaryPath, samplesPath)
	require.NoError(t, err)
	assert.NotContains(t, out, "not found")

	data, err := mfs.ReadFile("/logs/samples/unmatched_gaze_samples.csv")
	require.NoError(t, err)
	assert.Equal(t, "Time,Target,Yaw(rad),Pitch(rad),CorrectedTarget\n0.2,center,0.1,0.1,\n", string(data))
}

func TestBadAngleUnitIsFatal(t *testing.T) {
	cfgPath := testutil.WriteFile(t, t.TempDir(), "gaze.json", `{"angle_unit": "grad"}`)
	_, err := execute(t, newMemFS(), "--no-plot", "--config", cfgPath, summaryPath, samplesPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "angle_unit")
}

func TestOSFileSystemRun(t *testing.T) {
	dir := t.TempDir()
	summary := testutil.WriteFile(t, dir, "summary.csv", summaryCSV)
	samplesFile := testutil.WriteFile(t, dir, "samples.csv", samplesCSV)

	_, err := execute(t, fsutil.OSFileSystem{}, "--no-plot", summary, samplesFile)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "unmatched_gaze_samples.csv"))
	assert.NoError(t, err)
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, newMemFS(), "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev")
}
