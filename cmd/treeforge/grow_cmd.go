package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	tfErrors "github.com/ezoic/treeforge/pkg/errors"
	"github.com/ezoic/treeforge/sklearn/tree"
	"github.com/ezoic/treeforge/sklearn/tree/data"
)

type growCmdConfig struct {
	*rootCmdConfig
	inputFlags
	output string
	graph  string
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{rootCmdConfig: rootConfig}
	v := rootConfig.v
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a set of data",
		Long: `Grow a classification or regression tree from a CSV or .npy data set and
write it as YAML. A summary with the training score goes to STDERR.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.run(cmd.OutOrStdout(), cmd.ErrOrStderr(), v)
		},
	}
	config.register(cmd)
	cmd.Flags().StringVarP(&config.output, "output", "o", "", "path to a file to which the tree will be written as YAML (defaults to STDOUT)")
	cmd.Flags().StringVar(&config.graph, "graph", "", "path of a .svg, .png, .jpg or .dot file to which the tree is drawn")
	addTreeFlags(cmd)
	addDataFlags(cmd)
	return cmd
}

func (gc *growCmdConfig) run(out, summary io.Writer, v *viper.Viper) error {
	td, err := gc.treeData(gc.rootCmdConfig, v)
	if err != nil {
		return err
	}
	gc.Logf("Growing tree from %d rows and %d columns...", td.RowCount(), len(td.Columns()))
	t, score, err := gc.fit(td)
	if err != nil {
		return err
	}
	gc.Logf("Done")

	if err := writeTree(out, gc.output, t); err != nil {
		return err
	}
	if gc.graph != "" {
		format, err := graphFormat(gc.graph)
		if err != nil {
			return err
		}
		gc.Logf("Drawing tree to %s", gc.graph)
		if err := t.RenderFile(gc.graph, format); err != nil {
			return tfErrors.Wrapf(err, "draw tree to %s", gc.graph)
		}
	}
	renderSummary(summary, t, score)
	return nil
}

// fit grows the tree and scores it on its own training rows.
func (gc *growCmdConfig) fit(td *data.TreeData) (*tree.Tree, float64, error) {
	if td.IsRegression() {
		reg := tree.NewDecisionTreeRegressor(tree.WithConfig(td.Config()))
		if err := reg.FitTreeData(gc.ctx, td); err != nil {
			return nil, 0, err
		}
		score, err := reg.ScoreTreeData(td)
		return reg.Tree(), score, err
	}
	clf := tree.NewDecisionTreeClassifier(tree.WithConfig(td.Config()))
	if err := clf.FitTreeData(gc.ctx, td); err != nil {
		return nil, 0, err
	}
	score, err := clf.ScoreTreeData(td)
	return clf.Tree(), score, err
}

func writeTree(out io.Writer, path string, t *tree.Tree) (err error) {
	if path == "" {
		return t.WriteYAML(out)
	}
	f, err := os.Create(path)
	if err != nil {
		return tfErrors.Wrapf(err, "failed to create file %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return t.WriteYAML(f)
}

func graphFormat(path string) (graphviz.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return graphviz.SVG, nil
	case ".png":
		return graphviz.PNG, nil
	case ".jpg", ".jpeg":
		return graphviz.JPG, nil
	case ".dot", ".gv":
		return graphviz.XDOT, nil
	}
	return "", tfErrors.NewValidationError("graph", "unsupported image extension", path)
}

func renderSummary(w io.Writer, t *tree.Tree, score float64) {
	metric := "Accuracy"
	if t.Regression {
		metric = "R²"
	}
	s := table.NewWriter()
	s.SetOutputMirror(w)
	s.SetTitle(fmt.Sprintf("Tree for %s (%s)", t.Target, t.Criterion))
	s.AppendRows([]table.Row{
		{"Nodes", t.NodeCount()},
		{"Leaves", t.LeafCount()},
		{"Depth", t.Depth()},
		{"Training " + metric, fmt.Sprintf("%.4f", score)},
	})
	s.Render()
}
