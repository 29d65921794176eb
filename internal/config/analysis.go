// Package config loads the analysis settings used by gaze-report. Every
// field is optional; the Get* methods supply the built-in defaults.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/banshee-data/gaze.report/internal/samples"
	"github.com/banshee-data/gaze.report/internal/units"
)

// Palette names accepted by the heat map renderer.
const (
	PaletteTurbo     = "turbo"
	PaletteKindlmann = "kindlmann"
	PaletteBlackBody = "blackbody"
)

// ValidPalettes lists the palette names in display order.
var ValidPalettes = []string{PaletteTurbo, PaletteKindlmann, PaletteBlackBody}

// Default output names, written beside the input files.
const (
	DefaultUnmatchedFile    = "unmatched_gaze_samples.csv"
	DefaultHeatmapFile      = "gaze_heatmap.png"
	DefaultHTMLFile         = "gaze_heatmap.html"
	DefaultResolutionColumn = "CorrectedTarget"
)

const maxFileSize = 1 * 1024 * 1024 // 1MB

// AnalysisConfig holds the tunable settings for one analysis run.
type AnalysisConfig struct {
	// Input columns
	TargetColumn *string `json:"target_column,omitempty" toml:"target_column,omitempty"`
	OffsetColumn *string `json:"offset_column,omitempty" toml:"offset_column,omitempty"`
	YawColumn    *string `json:"yaw_column,omitempty" toml:"yaw_column,omitempty"`
	PitchColumn  *string `json:"pitch_column,omitempty" toml:"pitch_column,omitempty"`
	AngleUnit    *string `json:"angle_unit,omitempty" toml:"angle_unit,omitempty"`

	// Outputs
	ResolutionColumn *string `json:"resolution_column,omitempty" toml:"resolution_column,omitempty"`
	UnmatchedFile    *string `json:"unmatched_file,omitempty" toml:"unmatched_file,omitempty"`
	HeatmapFile      *string `json:"heatmap_file,omitempty" toml:"heatmap_file,omitempty"`
	HTMLFile         *string `json:"html_file,omitempty" toml:"html_file,omitempty"`

	// Matching
	MatchThreshold *float64 `json:"match_threshold,omitempty" toml:"match_threshold,omitempty"`

	// Plot
	PlotSizeInches *float64 `json:"plot_size_inches,omitempty" toml:"plot_size_inches,omitempty"`
	PlotDPI        *int     `json:"plot_dpi,omitempty" toml:"plot_dpi,omitempty"`
	AxisLimit      *float64 `json:"axis_limit,omitempty" toml:"axis_limit,omitempty"`
	Palette        *string  `json:"palette,omitempty" toml:"palette,omitempty"`

	// Density estimate
	BandwidthAdjust  *float64 `json:"bandwidth_adjust,omitempty" toml:"bandwidth_adjust,omitempty"`
	DensityThreshold *float64 `json:"density_threshold,omitempty" toml:"density_threshold,omitempty"`
	Levels           *int     `json:"levels,omitempty" toml:"levels,omitempty"`
	GridSize         *int     `json:"grid_size,omitempty" toml:"grid_size,omitempty"`
}

// Empty returns an AnalysisConfig with every field unset.
func Empty() *AnalysisConfig {
	return &AnalysisConfig{}
}

// Load reads an AnalysisConfig from a .json or .toml file. Unknown keys
// are rejected so typos do not silently fall back to defaults.
func Load(path string) (*AnalysisConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".json" && ext != ".toml" {
		return nil, fmt.Errorf("config file must have .json or .toml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Empty()
	switch ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config TOML: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configured values are usable.
func (c *AnalysisConfig) Validate() error {
	names := []struct {
		key   string
		value *string
	}{
		{"target_column", c.TargetColumn},
		{"offset_column", c.OffsetColumn},
		{"yaw_column", c.YawColumn},
		{"pitch_column", c.PitchColumn},
		{"resolution_column", c.ResolutionColumn},
	}
	for _, n := range names {
		if n.value != nil && strings.TrimSpace(*n.value) == "" {
			return fmt.Errorf("%s must not be empty", n.key)
		}
	}

	files := []struct {
		key   string
		value *string
	}{
		{"unmatched_file", c.UnmatchedFile},
		{"heatmap_file", c.HeatmapFile},
		{"html_file", c.HTMLFile},
	}
	for _, f := range files {
		if f.value == nil {
			continue
		}
		if *f.value == "" || filepath.Base(*f.value) != *f.value {
			return fmt.Errorf("%s must be a plain file name, got %q", f.key, *f.value)
		}
	}

	if c.AngleUnit != nil && !units.IsValidAngleUnit(*c.AngleUnit) {
		return fmt.Errorf("angle_unit must be one of %s, got %q", strings.Join(units.ValidAngleUnits, ", "), *c.AngleUnit)
	}
	if c.MatchThreshold != nil && (*c.MatchThreshold < 0 || *c.MatchThreshold > 1) {
		return fmt.Errorf("match_threshold must be between 0 and 1, got %f", *c.MatchThreshold)
	}
	if c.PlotSizeInches != nil && *c.PlotSizeInches <= 0 {
		return fmt.Errorf("plot_size_inches must be positive, got %f", *c.PlotSizeInches)
	}
	if c.PlotDPI != nil && *c.PlotDPI <= 0 {
		return fmt.Errorf("plot_dpi must be positive, got %d", *c.PlotDPI)
	}
	if c.AxisLimit != nil && *c.AxisLimit <= 0 {
		return fmt.Errorf("axis_limit must be positive, got %f", *c.AxisLimit)
	}
	if c.Palette != nil && !isValidPalette(*c.Palette) {
		return fmt.Errorf("palette must be one of %s, got %q", strings.Join(ValidPalettes, ", "), *c.Palette)
	}
	if c.BandwidthAdjust != nil && *c.BandwidthAdjust <= 0 {
		return fmt.Errorf("bandwidth_adjust must be positive, got %f", *c.BandwidthAdjust)
	}
	if c.DensityThreshold != nil && (*c.DensityThreshold < 0 || *c.DensityThreshold >= 1) {
		return fmt.Errorf("density_threshold must be in [0, 1), got %f", *c.DensityThreshold)
	}
	if c.Levels != nil && *c.Levels < 2 {
		return fmt.Errorf("levels must be at least 2, got %d", *c.Levels)
	}
	if c.GridSize != nil && *c.GridSize < 2 {
		return fmt.Errorf("grid_size must be at least 2, got %d", *c.GridSize)
	}
	return nil
}

func isValidPalette(name string) bool {
	for _, p := range ValidPalettes {
		if p == name {
			return true
		}
	}
	return false
}

func stringOr(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}

// SummaryColumns returns the columns read from the summary log.
func (c *AnalysisConfig) SummaryColumns() samples.SummaryColumns {
	return samples.SummaryColumns{
		Target: c.GetTargetColumn(),
		Offset: c.GetOffsetColumn(),
	}
}

// SampleColumns returns the columns read from the sample log.
func (c *AnalysisConfig) SampleColumns() samples.SampleColumns {
	return samples.SampleColumns{
		Target:    c.GetTargetColumn(),
		Yaw:       c.GetYawColumn(),
		Pitch:     c.GetPitchColumn(),
		AngleUnit: c.GetAngleUnit(),
	}
}

// GetTargetColumn returns the target_column value or the default.
func (c *AnalysisConfig) GetTargetColumn() string {
	return stringOr(c.TargetColumn, samples.DefaultTargetColumn)
}

// GetOffsetColumn returns the offset_column value or the default.
func (c *AnalysisConfig) GetOffsetColumn() string {
	return stringOr(c.OffsetColumn, samples.DefaultOffsetColumn)
}

// GetYawColumn returns the yaw_column value or the default.
func (c *AnalysisConfig) GetYawColumn() string {
	return stringOr(c.YawColumn, samples.DefaultYawColumn)
}

// GetPitchColumn returns the pitch_column value or the default.
func (c *AnalysisConfig) GetPitchColumn() string {
	return stringOr(c.PitchColumn, samples.DefaultPitchColumn)
}

// GetAngleUnit returns the angle_unit value or the default.
func (c *AnalysisConfig) GetAngleUnit() string {
	return stringOr(c.AngleUnit, units.Degrees)
}

// GetResolutionColumn returns the resolution_column value or the default.
func (c *AnalysisConfig) GetResolutionColumn() string {
	return stringOr(c.ResolutionColumn, DefaultResolutionColumn)
}

// GetUnmatchedFile returns the unmatched_file value or the default.
func (c *AnalysisConfig) GetUnmatchedFile() string {
	return stringOr(c.UnmatchedFile, DefaultUnmatchedFile)
}

// GetHeatmapFile returns the heatmap_file value or the default.
func (c *AnalysisConfig) GetHeatmapFile() string {
	return stringOr(c.HeatmapFile, DefaultHeatmapFile)
}

// GetHTMLFile returns the html_file value or the default.
func (c *AnalysisConfig) GetHTMLFile() string {
	return stringOr(c.HTMLFile, DefaultHTMLFile)
}

// GetMatchThreshold returns the match_threshold value or the default.
func (c *AnalysisConfig) GetMatchThreshold() float64 {
	if c.MatchThreshold == nil {
		return 0.75
	}
	return *c.MatchThreshold
}

// GetPlotSizeInches returns the plot_size_inches value or the default.
func (c *AnalysisConfig) GetPlotSizeInches() float64 {
	if c.PlotSizeInches == nil {
		return 8
	}
	return *c.PlotSizeInches
}

// GetPlotDPI returns the plot_dpi value or the default.
func (c *AnalysisConfig) GetPlotDPI() int {
	if c.PlotDPI == nil {
		return 300
	}
	return *c.PlotDPI
}

// GetAxisLimit returns the axis_limit value or the default.
func (c *AnalysisConfig) GetAxisLimit() float64 {
	if c.AxisLimit == nil {
		return 40
	}
	return *c.AxisLimit
}

// GetPalette returns the palette value or the default.
func (c *AnalysisConfig) GetPalette() string {
	return stringOr(c.Palette, PaletteTurbo)
}

// GetBandwidthAdjust returns the bandwidth_adjust value or the default.
func (c *AnalysisConfig) GetBandwidthAdjust() float64 {
	if c.BandwidthAdjust == nil {
		return 0.3
	}
	return *c.BandwidthAdjust
}

// GetDensityThreshold returns the density_threshold value or the default.
func (c *AnalysisConfig) GetDensityThreshold() float64 {
	if c.DensityThreshold == nil {
		return 0.05
	}
	return *c.DensityThreshold
}

// GetLevels returns the levels value or the default.
func (c *AnalysisConfig) GetLevels() int {
	if c.Levels == nil {
		return 100
	}
	return *c.Levels
}

// GetGridSize returns the grid_size value or the default.
func (c *AnalysisConfig) GetGridSize() int {
	if c.GridSize == nil {
		return 200
	}
	return *c.GridSize
}
