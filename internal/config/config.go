// Package config turns command line flags, environment variables and an
// optional job file into the typed configuration of each subcommand.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gruppe-adler/bathyfuse/internal/region"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables overriding flags, e.g.
// BATHYFUSE_BASE or BATHYFUSE_WINDOW_WIDTH.
const EnvPrefix = "BATHYFUSE"

// ErrMissingArgument is returned when a required input is absent.
var ErrMissingArgument = errors.New("missing argument")

// Fusion configures the fuse subcommand.
type Fusion struct {
	Base          string   `mapstructure:"base"`
	Updates       []string `mapstructure:"updates"`
	InputTxt      string   `mapstructure:"input_txt"`
	Spacing       float64  `mapstructure:"spacing"`
	DiffThreshold float64  `mapstructure:"diff_threshold"`
	ThresholdMode string   `mapstructure:"threshold_mode"`
	WindowWidth   float64  `mapstructure:"window_width"`
	Output        string   `mapstructure:"output"`
	Plot          bool     `mapstructure:"plot"`
	Verbose       bool     `mapstructure:"verbose"`

	// RegionOfInterest is nil if the base grid is used as a whole.
	RegionOfInterest *region.Region `mapstructure:"-"`
}

// Boundary configures the close-boundary subcommand.
type Boundary struct {
	Input    string  `mapstructure:"input"`
	Output   string  `mapstructure:"output"`
	Value    float64 `mapstructure:"value"`
	Offset   bool    `mapstructure:"offset"`
	Plot     bool    `mapstructure:"plot"`
	Contours string  `mapstructure:"contours"`
	Verbose  bool    `mapstructure:"verbose"`

	Region *region.Region `mapstructure:"-"`
}

// Export configures the subcommands rendering a grid into a directory of
// images, preview and terrainrgb.
type Export struct {
	Input   string `mapstructure:"input"`
	Output  string `mapstructure:"output"`
	Name    string `mapstructure:"name"`
	Verbose bool   `mapstructure:"verbose"`
}

// FusionFlags defines the flags of the fuse subcommand on fs.
func FusionFlags(fs *pflag.FlagSet) {
	fs.String("base", "", "Path to the base grid (required)")
	fs.String("input_txt", "", "Path to a file listing update grids, one per line")
	fs.Float64("spacing", 0, "Resample the base grid to this spacing")
	fs.Float64("diff_threshold", 0, "Differences with a smaller absolute value count as no change")
	fs.String("threshold_mode", "zero", "What happens to differences below the threshold: zero or drop")
	fs.Float64("window_width", 0, "Width of the band over which corrections are tapered, 0 disables tapering")
	fs.StringSlice("region_of_interest", nil, "Crop the base grid to xmin xmax ymin ymax")
	fs.String("output", "", "Path of the fused grid (required)")
	fs.Bool("plot", false, "Write a figure of the initial and fused grid next to the output")
	fs.String("config", "", "Path to a job file (yaml, json or toml)")
	fs.BoolP("verbose", "v", false, "Print debug output")
}

// BoundaryFlags defines the flags of the close-boundary subcommand on fs.
func BoundaryFlags(fs *pflag.FlagSet) {
	fs.String("input", "", "Path to the input grid (required)")
	fs.String("output", "", "Path of the closed grid (required)")
	fs.Float64("value", 0, "Clamp value of the boundary")
	fs.Bool("offset", false, "Clamp the ring one cell inside the boundary")
	fs.StringSlice("region", nil, "Crop the grid to xmin xmax ymin ymax first")
	fs.Bool("plot", false, "Write a plot of the closed grid next to the output")
	fs.String("contours", "", "Write the contour at the clamp value as GeoJSON to this path")
	fs.String("config", "", "Path to a job file (yaml, json or toml)")
	fs.BoolP("verbose", "v", false, "Print debug output")
}

// ExportFlags defines the flags of the preview and terrainrgb subcommands on fs.
func ExportFlags(fs *pflag.FlagSet) {
	fs.String("input", "", "Path to the input grid (required)")
	fs.String("output", "", "Path to the output directory (required)")
	fs.String("name", "", "Name written into generated metadata, defaults to the input file name")
	fs.String("config", "", "Path to a job file (yaml, json or toml)")
	fs.BoolP("verbose", "v", false, "Print debug output")
}

// LoadFusion parses args and returns the fuse configuration.
func LoadFusion(fs *pflag.FlagSet, args []string) (Fusion, error) {
	var cfg Fusion

	v, err := load(fs, ExpandNargs(args, "region_of_interest", 4))
	if err != nil {
		return cfg, err
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if fs.NArg() > 0 {
		cfg.Updates = fs.Args()
	}

	cfg.RegionOfInterest, err = parseRegion(v.GetStringSlice("region_of_interest"))
	if err != nil {
		return cfg, fmt.Errorf("region_of_interest: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate checks that all required inputs are present.
func (cfg Fusion) Validate() error {
	if cfg.Base == "" {
		return fmt.Errorf("%w: --base", ErrMissingArgument)
	}
	if cfg.Output == "" {
		return fmt.Errorf("%w: --output", ErrMissingArgument)
	}
	if cfg.Spacing < 0 {
		return fmt.Errorf("spacing must not be negative, got %g", cfg.Spacing)
	}
	if cfg.WindowWidth < 0 {
		return fmt.Errorf("window_width must not be negative, got %g", cfg.WindowWidth)
	}
	return nil
}

// LoadBoundary parses args and returns the close-boundary configuration.
func LoadBoundary(fs *pflag.FlagSet, args []string) (Boundary, error) {
	var cfg Boundary

	v, err := load(fs, ExpandNargs(args, "region", 4))
	if err != nil {
		return cfg, err
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	cfg.Region, err = parseRegion(v.GetStringSlice("region"))
	if err != nil {
		return cfg, fmt.Errorf("region: %w", err)
	}

	if cfg.Input == "" {
		return cfg, fmt.Errorf("%w: --input", ErrMissingArgument)
	}
	if cfg.Output == "" {
		return cfg, fmt.Errorf("%w: --output", ErrMissingArgument)
	}

	return cfg, nil
}

// LoadExport parses args and returns the preview or terrainrgb configuration.
func LoadExport(fs *pflag.FlagSet, args []string) (Export, error) {
	var cfg Export

	v, err := load(fs, args)
	if err != nil {
		return cfg, err
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if cfg.Input == "" {
		return cfg, fmt.Errorf("%w: --input", ErrMissingArgument)
	}
	if cfg.Output == "" {
		return cfg, fmt.Errorf("%w: --output", ErrMissingArgument)
	}
	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(cfg.Input), filepath.Ext(cfg.Input))
	}

	return cfg, nil
}

// load parses the flags and layers them over the environment and the job file.
func load(fs *pflag.FlagSet, args []string) (*viper.Viper, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return v, nil
}

// ExpandNargs rewrites "--name a b c d" into "--name=a,b,c,d" so that a flag
// taking n values can be given space separated, even if values are negative.
func ExpandNargs(args []string, name string, n int) []string {
	flag := "--" + name
	out := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		if args[i] != flag || i+n >= len(args) || strings.Contains(args[i+1], ",") {
			out = append(out, args[i])
			continue
		}
		out = append(out, flag+"="+strings.Join(args[i+1:i+1+n], ","))
		i += n
	}

	return out
}

// parseRegion accepts the bounds as separate values, comma or space separated.
func parseRegion(values []string) (*region.Region, error) {
	fields := strings.FieldsFunc(strings.Join(values, ","), func(r rune) bool {
		return r == ',' || r == ' '
	})
	if len(fields) == 0 {
		return nil, nil
	}

	bounds := make([]float64, len(fields))
	for i, s := range fields {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", region.ErrInvalid, s)
		}
		bounds[i] = f
	}

	r, err := region.FromSlice(bounds)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
