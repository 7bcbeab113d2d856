package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sbinet/npyio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	tfErrors "github.com/ezoic/treeforge/pkg/errors"
	"github.com/ezoic/treeforge/sklearn/tree"
)

const stepsCSV = `x,label
1,0
2,0
3,0
4,1
5,1
6,1
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cliParser()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func readTree(t *testing.T, path string) *tree.Tree {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	tr, err := tree.ReadYAML(f)
	require.NoError(t, err)
	return tr
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "treeforge v0.3.0\n", out)
}

func TestSplitCommand(t *testing.T) {
	input := writeFile(t, "steps.csv", stepsCSV)
	out, _, err := execute(t, "split", "-i", input, "-t", "label")
	require.NoError(t, err)
	assert.Contains(t, out, "Root splits")
	assert.Contains(t, out, "0.500000")
	assert.Contains(t, out, "x <= 3.5")
}

func TestSplitCommandRequiresTarget(t *testing.T) {
	input := writeFile(t, "steps.csv", stepsCSV)
	_, _, err := execute(t, "split", "-i", input)
	assert.ErrorIs(t, err, tfErrors.ErrInvalidConfiguration)
}

func TestGrowAndPredict(t *testing.T) {
	input := writeFile(t, "steps.csv", stepsCSV)
	dir := t.TempDir()
	treePath := filepath.Join(dir, "tree.yaml")
	graphPath := filepath.Join(dir, "tree.dot")

	_, summary, err := execute(t, "grow", "-i", input, "-t", "label", "-o", treePath, "--graph", graphPath)
	require.NoError(t, err)
	assert.Contains(t, summary, "Nodes")
	assert.Contains(t, summary, "1.0000")
	assert.FileExists(t, graphPath)

	tr := readTree(t, treePath)
	assert.Equal(t, 3, tr.NodeCount())
	assert.Equal(t, "label", tr.Target)

	xPath := filepath.Join(dir, "x.npy")
	f, err := os.Create(xPath)
	require.NoError(t, err)
	require.NoError(t, npyio.Write(f, mat.NewDense(3, 1, []float64{0, 3.6, 9})))
	require.NoError(t, f.Close())

	out, _, err := execute(t, "predict", "--tree", treePath, "-i", xPath)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n1\n", out)
}

func TestGrowWritesYAMLToStdout(t *testing.T) {
	input := writeFile(t, "steps.csv", stepsCSV)
	out, _, err := execute(t, "grow", "-i", input, "-t", "label", "--max-levels", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "target: label")
	assert.Contains(t, out, "threshold: 3.5")
}

func TestGrowRegression(t *testing.T) {
	input := writeFile(t, "reg.csv", "x,y\n1,1\n2,1\n3,1\n4,10\n5,10\n6,10\n")
	dir := t.TempDir()
	treePath := filepath.Join(dir, "tree.yaml")

	_, summary, err := execute(t, "grow", "-i", input, "-t", "y", "--regression", "-o", treePath)
	require.NoError(t, err)
	assert.Contains(t, summary, "R²")

	tr := readTree(t, treePath)
	require.True(t, tr.Regression)
	require.NotNil(t, tr.Root.Split)
	assert.Equal(t, 3.5, tr.Root.Split.Threshold)
}

func TestConfigFileSettings(t *testing.T) {
	input := writeFile(t, "steps.csv", stepsCSV)
	cfgPath := writeFile(t, "treeforge.yaml", "tree:\n  min_node_size: 7\ndata:\n  target: label\n")
	treePath := filepath.Join(t.TempDir(), "tree.yaml")

	_, _, err := execute(t, "grow", "--config", cfgPath, "-i", input, "-o", treePath)
	require.NoError(t, err)
	assert.Equal(t, 1, readTree(t, treePath).NodeCount(), "root has fewer rows than min_node_size")

	_, _, err = execute(t, "grow", "--config", cfgPath, "-i", input, "-o", treePath, "--min-node-size", "2")
	require.NoError(t, err)
	assert.Equal(t, 3, readTree(t, treePath).NodeCount(), "flags override the config file")
}

func TestEnvironmentSettings(t *testing.T) {
	t.Setenv("TREEFORGE_DATA_TARGET", "label")
	t.Setenv("TREEFORGE_TREE_MAX_LEVELS", "0")
	input := writeFile(t, "steps.csv", stepsCSV)
	out, _, err := execute(t, "split", "-i", input)
	require.NoError(t, err)
	assert.Contains(t, out, "0.500000")
}

func TestPredictErrors(t *testing.T) {
	_, _, err := execute(t, "predict", "-i", "x.npy")
	assert.ErrorIs(t, err, tfErrors.ErrInvalidConfiguration)

	_, _, err = execute(t, "predict", "--tree", filepath.Join(t.TempDir(), "missing.yaml"), "-i", "x.npy")
	assert.Error(t, err)
}

func TestGraphFormat(t *testing.T) {
	f, err := graphFormat("out/tree.SVG")
	require.NoError(t, err)
	assert.EqualValues(t, "svg", f)

	_, err = graphFormat("tree.txt")
	assert.ErrorIs(t, err, tfErrors.ErrInvalidConfiguration)
}
