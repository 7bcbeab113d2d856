package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ezoic/treeforge/pkg/dataset"
	tfErrors "github.com/ezoic/treeforge/pkg/errors"
	"github.com/ezoic/treeforge/sklearn/tree/data"
)

type inputFlags struct {
	input  string
	labels string
}

func (in *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&in.input, "input", "i", "", "path to a CSV file, or to a .npy feature matrix (required)")
	cmd.Flags().StringVarP(&in.labels, "labels", "y", "", "path to the .npy target vector when --input is a .npy file")
}

// treeData loads the input described by in and v and builds the column store.
func (in *inputFlags) treeData(rc *rootCmdConfig, v *viper.Viper) (*data.TreeData, error) {
	if in.input == "" {
		return nil, tfErrors.NewValidationError("input", "required flag was not set", in.input)
	}
	cfg, err := treeConfig(v)
	if err != nil {
		return nil, err
	}

	var tbl *dataset.Table
	if strings.HasSuffix(in.input, ".npy") {
		if in.labels == "" {
			return nil, tfErrors.NewValidationError("labels", "required with .npy input", in.labels)
		}
		rc.Logf("Reading %s and %s...", in.input, in.labels)
		tbl, err = dataset.LoadNpy(in.input, in.labels, cfg.IsRegression)
	} else {
		s := schema(v)
		if s.Target == "" {
			return nil, tfErrors.NewValidationError("target", "required flag was not set", s.Target)
		}
		rc.Logf("Reading %s...", in.input)
		tbl, err = dataset.LoadCSV(in.input, s)
	}
	if err != nil {
		return nil, err
	}
	rc.Logf("Read %d rows with %d columns", tbl.Rows, len(tbl.Names))
	return tbl.TreeData(cfg)
}
