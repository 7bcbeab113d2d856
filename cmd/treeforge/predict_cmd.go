package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezoic/treeforge/pkg/dataset"
	tfErrors "github.com/ezoic/treeforge/pkg/errors"
	"github.com/ezoic/treeforge/sklearn/tree"
)

type predictCmdConfig struct {
	*rootCmdConfig
	treeInput string
	input     string
	output    string
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the target of every row of a .npy matrix",
		Long: `Use a tree written by grow to predict every row of a numeric .npy feature
matrix. The tree must split on numeric columns only, and classification trees
must have numeric class labels.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Validate(); err != nil {
				return err
			}
			return config.run(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&config.treeInput, "tree", "", "path to a YAML tree written by grow (required)")
	cmd.Flags().StringVarP(&config.input, "input", "i", "", "path to the .npy feature matrix (required)")
	cmd.Flags().StringVarP(&config.output, "output", "o", "", "path of a .npy file for the predictions (defaults to one value per line on STDOUT)")
	return cmd
}

func (pc *predictCmdConfig) Validate() error {
	if pc.treeInput == "" {
		return tfErrors.NewValidationError("tree", "required flag was not set", pc.treeInput)
	}
	if pc.input == "" {
		return tfErrors.NewValidationError("input", "required flag was not set", pc.input)
	}
	return nil
}

func (pc *predictCmdConfig) run(out io.Writer) error {
	t, err := loadTree(pc.treeInput)
	if err != nil {
		return err
	}
	X, err := dataset.ReadNpyMatrix(pc.input)
	if err != nil {
		return err
	}
	rows, _ := X.Dims()
	pc.Logf("Predicting %d rows with a tree of %d nodes", rows, t.NodeCount())
	pred, err := t.PredictDense(X)
	if err != nil {
		return err
	}
	if pc.output != "" {
		return dataset.WriteNpy(pc.output, pred)
	}
	for _, p := range pred {
		if _, err := fmt.Fprintln(out, p); err != nil {
			return err
		}
	}
	return nil
}

func loadTree(path string) (*tree.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, tfErrors.Wrapf(err, "failed to open file %s", path)
	}
	defer func() { _ = f.Close() }()
	return tree.ReadYAML(f)
}
