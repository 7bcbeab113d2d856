package dataset_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sbinet/npyio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/treeforge/pkg/dataset"
	tfErrors "github.com/ezoic/treeforge/pkg/errors"
	"github.com/ezoic/treeforge/pkg/log"
	"github.com/ezoic/treeforge/sklearn/tree/data"
)

const weatherCSV = `outlook,temperature,flags,id,play
sunny,85,01,1,no
sunny,80,11,2,no
overcast,83,00,3,yes
rain,70,10,4,yes
rain,68,10,5,yes
`

func TestReadCSV(t *testing.T) {
	tbl, err := dataset.ReadCSV(strings.NewReader(weatherCSV), dataset.Schema{
		Target: "play",
		Types:  map[string]dataset.ColumnType{"flags": dataset.BitVector},
		Ignore: []string{"id"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"outlook", "temperature", "flags"}, tbl.Names)
	assert.Equal(t, 5, tbl.Rows)

	td, err := tbl.TreeData(data.DefaultConfig())
	require.NoError(t, err)
	// outlook, temperature, flags[0], flags[1]
	require.Len(t, td.Columns(), 4)
	assert.IsType(t, &data.NominalColumn{}, td.Column(0))
	assert.IsType(t, &data.NumericColumn{}, td.Column(1))
	assert.IsType(t, &data.BitVectorColumn{}, td.Column(3))
	assert.Equal(t, data.Mixed, td.TreeType())

	target := td.Target().(*data.NominalTarget)
	assert.Equal(t, 2, target.ClassCount())
	assert.Equal(t, "no", target.Values().Label(target.CodeFor(0)))
}

func TestLoadCSVLogsLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.csv")
	require.NoError(t, os.WriteFile(path, []byte(weatherCSV), 0o600))

	var buf bytes.Buffer
	prev := log.SetProvider(log.NewZerologProviderWithWriter(&buf, log.ToLogLevel("debug")))
	defer log.SetProvider(prev)

	tbl, err := dataset.LoadCSV(path, dataset.Schema{Target: "play"})
	require.NoError(t, err)
	assert.Equal(t, 5, tbl.Rows)
	assert.Contains(t, buf.String(), "Table loaded")
	assert.Contains(t, buf.String(), `"operation":"load"`)
	assert.Contains(t, buf.String(), `"samples":5`)
}

func TestReadCSVErrors(t *testing.T) {
	_, err := dataset.ReadCSV(strings.NewReader(weatherCSV), dataset.Schema{Target: "missing"})
	assert.ErrorIs(t, err, tfErrors.ErrInvalidConfiguration)

	_, err = dataset.ReadCSV(strings.NewReader("a,y\n"), dataset.Schema{Target: "y"})
	assert.ErrorIs(t, err, tfErrors.ErrEmptyData)

	_, err = dataset.ReadCSV(strings.NewReader("a,y\n1,p\n,q\n"), dataset.Schema{Target: "y"})
	assert.ErrorIs(t, err, tfErrors.ErrMissingValue)

	_, err = dataset.ReadCSV(strings.NewReader("b,y\n01,p\n1,q\n"), dataset.Schema{
		Target: "y",
		Types:  map[string]dataset.ColumnType{"b": dataset.BitVector},
	})
	assert.ErrorIs(t, err, tfErrors.ErrBitVectorLength)

	_, err = dataset.ReadCSV(strings.NewReader("a,y\n1,x\n"), dataset.Schema{Target: "y", Regression: true})
	assert.Error(t, err)
}

func TestFromDense(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
		4, 40,
	})
	tbl, err := dataset.FromDense(X, []float64{0, 0, 1, 1}, nil, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"x0", "x1"}, tbl.Names)

	td, err := tbl.TreeData(data.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, data.Ordinary, td.TreeType())
	target := td.Target().(*data.NominalTarget)
	assert.Equal(t, []string{"0", "1"}, target.Values().Labels())

	_, err = dataset.FromDense(X, []float64{1}, nil, false)
	var dimErr *tfErrors.DimensionError
	assert.ErrorAs(t, err, &dimErr)

	_, err = dataset.FromDense(X, []float64{1, 2, 3, 4}, []string{"only"}, true)
	assert.ErrorAs(t, err, &dimErr)
}

func TestNpyRoundTrip(t *testing.T) {
	dir := t.TempDir()
	xPath := filepath.Join(dir, "x.npy")
	yPath := filepath.Join(dir, "y.npy")

	f, err := os.Create(xPath)
	require.NoError(t, err)
	require.NoError(t, npyio.Write(f, mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})))
	require.NoError(t, f.Close())
	require.NoError(t, dataset.WriteNpy(yPath, []float64{1.5, 2.5, 3.5}))

	y, err := dataset.ReadNpyVector(yPath)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, y)

	tbl, err := dataset.LoadNpy(xPath, yPath, true)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Rows)
	td, err := tbl.TreeData(data.DefaultConfig())
	require.Error(t, err, "regression target needs a regression config")

	cfg, err := data.NewConfig(data.WithRegression())
	require.NoError(t, err)
	td, err = tbl.TreeData(cfg)
	require.NoError(t, err)
	assert.True(t, td.IsRegression())
	assert.Equal(t, 5.0, td.Column(0).(*data.NumericColumn).ValueAt(2))
}

func TestParseColumnType(t *testing.T) {
	for _, typ := range []dataset.ColumnType{dataset.Auto, dataset.Numeric, dataset.Nominal, dataset.BitVector} {
		got, err := dataset.ParseColumnType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}
	_, err := dataset.ParseColumnType("text")
	assert.Error(t, err)
}
