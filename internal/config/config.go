package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/denis007d/conab/internal/detect"
	"github.com/denis007d/conab/internal/layout"
	"github.com/denis007d/conab/internal/normalize"
)

// Config aggregates everything a detection run needs besides the image and
// the question count.
type Config struct {
	Layout    layout.Config    `json:"layout" mapstructure:"layout"`
	Normalize normalize.Params `json:"normalize" mapstructure:"normalize"`
	Detect    detect.Params    `json:"detect" mapstructure:"detect"`

	// Tolerance is the maximum distance, inclusive, between a detected mark
	// and a reference point for them to match.
	Tolerance float64 `json:"tolerance" mapstructure:"tolerance"`
}

// Default returns the configuration for the CONAB sheet template.
func Default() Config {
	return Config{
		Layout: layout.Config{
			Width:  2338,
			Height: 1653,
			Columns: []layout.Region{
				{X: 842, Y: 580, W: 218, H: 860},
				{X: 1125, Y: 580, W: 215, H: 860},
				{X: 1400, Y: 580, W: 220, H: 860},
				{X: 1683, Y: 580, W: 217, H: 860},
				{X: 1960, Y: 580, W: 210, H: 860},
			},
			QuestionSpacing:       44,
			AlternativeSpacing:    43,
			FirstQuestionOffset:   10,
			MaxQuestionsPerColumn: 25,
		},
		Normalize: normalize.DefaultParams(),
		Detect:    detect.DefaultParams(),
		Tolerance: 30,
	}
}

// Load reads configuration from an optional YAML file and the environment,
// layered over Default. If cfgFile is empty, a conab.yaml is searched in the
// working directory and ~/.conab; a missing file is not an error in that
// case, but an explicitly named file must exist.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	// Every key must be registered before AutomaticEnv can surface it:
	// viper only consults the environment for keys it already knows, so an
	// unregistered key would make CONAB_ overrides silently inert.
	setDefaults(v, Default())

	v.SetEnvPrefix("CONAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.SetConfigName("conab")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.conab")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every configuration key with viper.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("tolerance", d.Tolerance)

	v.SetDefault("layout.width", d.Layout.Width)
	v.SetDefault("layout.height", d.Layout.Height)
	v.SetDefault("layout.columns", d.Layout.Columns)
	v.SetDefault("layout.question_spacing", d.Layout.QuestionSpacing)
	v.SetDefault("layout.alternative_spacing", d.Layout.AlternativeSpacing)
	v.SetDefault("layout.first_question_offset", d.Layout.FirstQuestionOffset)
	v.SetDefault("layout.max_questions_per_column", d.Layout.MaxQuestionsPerColumn)

	v.SetDefault("normalize.blur_radius", d.Normalize.BlurRadius)
	v.SetDefault("normalize.clip_limit", d.Normalize.ClipLimit)
	v.SetDefault("normalize.tile_grid", d.Normalize.TileGrid)

	v.SetDefault("detect.min_radius", d.Detect.MinRadius)
	v.SetDefault("detect.max_radius", d.Detect.MaxRadius)
	v.SetDefault("detect.min_dist", d.Detect.MinDist)
	v.SetDefault("detect.edge_threshold", d.Detect.EdgeThreshold)
	v.SetDefault("detect.accumulator_ratio", d.Detect.AccumulatorRatio)
	v.SetDefault("detect.darkness_threshold", d.Detect.DarknessThreshold)
}

// Validate checks the structural constraints the pipeline relies on.
func (c *Config) Validate() error {
	if c.Layout.Width <= 0 || c.Layout.Height <= 0 {
		return fmt.Errorf("layout dimensions must be positive, got %dx%d", c.Layout.Width, c.Layout.Height)
	}
	if len(c.Layout.Columns) == 0 {
		return fmt.Errorf("layout must define at least one column region")
	}
	if c.Layout.QuestionSpacing <= 0 || c.Layout.AlternativeSpacing <= 0 {
		return fmt.Errorf("layout spacings must be positive")
	}
	if c.Layout.MaxQuestionsPerColumn <= 0 {
		return fmt.Errorf("max questions per column must be positive")
	}
	if c.Detect.MinRadius <= 0 || c.Detect.MaxRadius < c.Detect.MinRadius {
		return fmt.Errorf("invalid radius bounds [%d, %d]", c.Detect.MinRadius, c.Detect.MaxRadius)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("tolerance must not be negative")
	}
	return nil
}
