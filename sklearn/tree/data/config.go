package data

import (
	"runtime"

	tfErrors "github.com/ezoic/treeforge/pkg/errors"
	"github.com/ezoic/treeforge/sklearn/tree/impurity"
)

// Epsilon is the row weight below which a row is inactive at a node.
const Epsilon = impurity.Epsilon

// Config parameterises dataset construction and split search.
type Config struct {
	// MinChildSize is the minimum weighted row count on each side of a split.
	MinChildSize int `mapstructure:"min_child_size" yaml:"min_child_size" json:"min_child_size"`
	// MinNodeSize is the minimum weighted row count of a node that may be split.
	// Zero means 2*MinChildSize.
	MinNodeSize int `mapstructure:"min_node_size" yaml:"min_node_size" json:"min_node_size"`
	// MaxLevels bounds tree depth. Zero means unlimited.
	MaxLevels int `mapstructure:"max_levels" yaml:"max_levels" json:"max_levels"`
	// UseAverageSplitPoints places numeric thresholds halfway between
	// neighbouring values instead of on the left value.
	UseAverageSplitPoints bool `mapstructure:"use_average_split_points" yaml:"use_average_split_points" json:"use_average_split_points"`
	// UseBinaryNominalSplits makes nominal columns produce two-way splits.
	UseBinaryNominalSplits bool `mapstructure:"use_binary_nominal_splits" yaml:"use_binary_nominal_splits" json:"use_binary_nominal_splits"`
	// Criterion selects the impurity formulas for classification.
	Criterion impurity.Kind `mapstructure:"-" yaml:"impurity_criterion" json:"impurity_criterion"`
	// IsRegression selects the numeric-target code path.
	IsRegression bool `mapstructure:"is_regression" yaml:"is_regression" json:"is_regression"`
	// NumWorkers bounds the goroutines used to search columns of one node.
	// Values below 1 mean GOMAXPROCS.
	NumWorkers int `mapstructure:"num_workers" yaml:"num_workers" json:"num_workers"`
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		MinChildSize:          1,
		UseAverageSplitPoints: true,
		Criterion:             impurity.Gini,
	}
}

// NewConfig applies opts to DefaultConfig and validates the result.
func NewConfig(opts ...Option) (Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithMinChildSize sets MinChildSize.
func WithMinChildSize(n int) Option { return func(c *Config) { c.MinChildSize = n } }

// WithMinNodeSize sets MinNodeSize.
func WithMinNodeSize(n int) Option { return func(c *Config) { c.MinNodeSize = n } }

// WithMaxLevels sets MaxLevels.
func WithMaxLevels(n int) Option { return func(c *Config) { c.MaxLevels = n } }

// WithAverageSplitPoints sets UseAverageSplitPoints.
func WithAverageSplitPoints(b bool) Option { return func(c *Config) { c.UseAverageSplitPoints = b } }

// WithBinaryNominalSplits sets UseBinaryNominalSplits.
func WithBinaryNominalSplits(b bool) Option { return func(c *Config) { c.UseBinaryNominalSplits = b } }

// WithCriterion sets Criterion.
func WithCriterion(k impurity.Kind) Option { return func(c *Config) { c.Criterion = k } }

// WithRegression switches to the regression path and the variance criterion.
func WithRegression() Option {
	return func(c *Config) {
		c.IsRegression = true
		c.Criterion = impurity.Variance
	}
}

// WithNumWorkers sets NumWorkers.
func WithNumWorkers(n int) Option { return func(c *Config) { c.NumWorkers = n } }

// Validate checks the configuration and fills derived defaults in place.
// Regression configurations always use the variance criterion.
func (c *Config) Validate() error {
	if c.MinChildSize < 1 {
		return tfErrors.NewValidationError("min_child_size", "must be at least 1", c.MinChildSize)
	}
	if c.MinNodeSize == 0 {
		c.MinNodeSize = 2 * c.MinChildSize
	} else if c.MinNodeSize < 2*c.MinChildSize {
		return tfErrors.NewValidationError("min_node_size", "must be at least twice min_child_size", c.MinNodeSize)
	}
	if c.MaxLevels < 0 {
		return tfErrors.NewValidationError("max_levels", "must not be negative", c.MaxLevels)
	}
	if _, err := impurity.New(c.Criterion); err != nil {
		return err
	}
	if c.IsRegression {
		c.Criterion = impurity.Variance
	}
	if !c.IsRegression && c.Criterion == impurity.Variance {
		return tfErrors.NewValidationError("impurity_criterion", "variance applies to regression only", c.Criterion.String())
	}
	return nil
}

// Workers returns the effective worker count.
func (c Config) Workers() int {
	if c.NumWorkers < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return c.NumWorkers
}

// ImpurityCriterion returns the Criterion selected by c.Criterion.
func (c Config) ImpurityCriterion() impurity.Criterion {
	crit, err := impurity.New(c.Criterion)
	if err != nil {
		return impurity.GiniCriterion{}
	}
	return crit
}
