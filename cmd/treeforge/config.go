package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ezoic/treeforge/pkg/dataset"
	tfErrors "github.com/ezoic/treeforge/pkg/errors"
	"github.com/ezoic/treeforge/sklearn/tree/data"
	"github.com/ezoic/treeforge/sklearn/tree/impurity"
)

// Settings keys. Every key may also come from the environment as
// TREEFORGE_<SECTION>_<KEY>, e.g. TREEFORGE_TREE_MAX_LEVELS.
const (
	keyMinChildSize   = "tree.min_child_size"
	keyMinNodeSize    = "tree.min_node_size"
	keyMaxLevels      = "tree.max_levels"
	keyAverageSplits  = "tree.use_average_split_points"
	keyBinaryNominal  = "tree.use_binary_nominal_splits"
	keyCriterion      = "tree.impurity_criterion"
	keyNumWorkers     = "tree.num_workers"
	keyTarget         = "data.target"
	keyRegression     = "data.regression"
	keyIgnore         = "data.ignore"
	keyBitVectorCols  = "data.bitvector"
	keyNominalCols    = "data.nominal"
	keyNumericCols    = "data.numeric"
	envPrefix         = "treeforge"
	defaultCriterion  = "gini"
	regressionDefault = "variance"
)

func loadSettings(v *viper.Viper, path string) error {
	defaults := data.DefaultConfig()
	v.SetDefault(keyMinChildSize, defaults.MinChildSize)
	v.SetDefault(keyMinNodeSize, defaults.MinNodeSize)
	v.SetDefault(keyMaxLevels, defaults.MaxLevels)
	v.SetDefault(keyAverageSplits, defaults.UseAverageSplitPoints)
	v.SetDefault(keyBinaryNominal, defaults.UseBinaryNominalSplits)
	v.SetDefault(keyNumWorkers, defaults.NumWorkers)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return tfErrors.Wrapf(err, "read config %s", path)
	}
	return nil
}

var flagKeys = map[string]string{
	"min-child-size":        keyMinChildSize,
	"min-node-size":         keyMinNodeSize,
	"max-levels":            keyMaxLevels,
	"average-split-points":  keyAverageSplits,
	"binary-nominal-splits": keyBinaryNominal,
	"criterion":             keyCriterion,
	"workers":               keyNumWorkers,
	"target":                keyTarget,
	"regression":            keyRegression,
	"ignore":                keyIgnore,
	"bitvector":             keyBitVectorCols,
	"nominal":               keyNominalCols,
	"numeric":               keyNumericCols,
}

// addTreeFlags registers the tree settings as flags of cmd.
func addTreeFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int("min-child-size", 1, "minimum weighted rows on each side of a split")
	f.Int("min-node-size", 0, "minimum weighted rows of a node that may be split (0: twice min-child-size)")
	f.Int("max-levels", 0, "maximum tree depth (0: unlimited)")
	f.Bool("average-split-points", true, "place numeric thresholds halfway between neighbouring values")
	f.Bool("binary-nominal-splits", false, "split nominal columns two ways instead of once per value")
	f.String("criterion", "", "impurity criterion: gini, entropy, gain_ratio (variance for regression)")
	f.Int("workers", 0, "goroutines searching columns of one node (0: GOMAXPROCS)")
}

// addDataFlags registers the input schema flags of cmd.
func addDataFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("target", "t", "", "name of the target column (required for CSV input)")
	f.Bool("regression", false, "treat the target as numeric")
	f.StringSlice("ignore", nil, "columns that are not learning attributes")
	f.StringSlice("bitvector", nil, "columns holding 0/1 bit strings")
	f.StringSlice("nominal", nil, "columns forced to nominal")
	f.StringSlice("numeric", nil, "columns forced to numeric")
}

// bindFlags makes the flags of the command being run override the config
// file. Only one command runs per process, so its flags own the keys.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return tfErrors.Wrapf(err, "bind flag %s", name)
		}
	}
	return nil
}

// treeConfig assembles and validates the data.Config described by v.
func treeConfig(v *viper.Viper) (data.Config, error) {
	cfg := data.Config{
		MinChildSize:           v.GetInt(keyMinChildSize),
		MinNodeSize:            v.GetInt(keyMinNodeSize),
		MaxLevels:              v.GetInt(keyMaxLevels),
		UseAverageSplitPoints:  v.GetBool(keyAverageSplits),
		UseBinaryNominalSplits: v.GetBool(keyBinaryNominal),
		NumWorkers:             v.GetInt(keyNumWorkers),
		IsRegression:           v.GetBool(keyRegression),
	}

	name := v.GetString(keyCriterion)
	if name == "" {
		name = defaultCriterion
		if cfg.IsRegression {
			name = regressionDefault
		}
	}
	kind, err := impurity.ParseKind(name)
	if err != nil {
		return data.Config{}, err
	}
	cfg.Criterion = kind
	if err := cfg.Validate(); err != nil {
		return data.Config{}, err
	}
	return cfg, nil
}

// schema assembles the CSV schema described by v.
func schema(v *viper.Viper) dataset.Schema {
	s := dataset.Schema{
		Target:     v.GetString(keyTarget),
		Regression: v.GetBool(keyRegression),
		Ignore:     v.GetStringSlice(keyIgnore),
		Types:      map[string]dataset.ColumnType{},
	}
	for key, typ := range map[string]dataset.ColumnType{
		keyBitVectorCols: dataset.BitVector,
		keyNominalCols:   dataset.Nominal,
		keyNumericCols:   dataset.Numeric,
	} {
		for _, name := range v.GetStringSlice(key) {
			s.Types[name] = typ
		}
	}
	return s
}
