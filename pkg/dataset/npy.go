package dataset

import (
	"os"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	tfErrors "github.com/ezoic/treeforge/pkg/errors"
)

// ReadNpyMatrix reads a two-dimensional float64 .npy file.
func ReadNpyMatrix(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, tfErrors.Wrapf(err, "failed to open file %s", path)
	}
	defer func() { _ = f.Close() }()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, tfErrors.Wrapf(err, "read npy header %s", path)
	}
	m := &mat.Dense{}
	if err := r.Read(m); err != nil {
		return nil, tfErrors.Wrapf(err, "read npy matrix %s", path)
	}
	return m, nil
}

// ReadNpyVector reads a one-dimensional float64 .npy file.
func ReadNpyVector(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, tfErrors.Wrapf(err, "failed to open file %s", path)
	}
	defer func() { _ = f.Close() }()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, tfErrors.Wrapf(err, "read npy header %s", path)
	}
	var v []float64
	if err := r.Read(&v); err != nil {
		return nil, tfErrors.Wrapf(err, "read npy vector %s", path)
	}
	return v, nil
}

// LoadNpy reads a feature matrix and a target vector and wraps them with FromDense.
func LoadNpy(xPath, yPath string, regression bool) (*Table, error) {
	X, err := ReadNpyMatrix(xPath)
	if err != nil {
		return nil, err
	}
	y, err := ReadNpyVector(yPath)
	if err != nil {
		return nil, err
	}
	t, err := FromDense(X, y, nil, regression)
	if err != nil {
		return nil, err
	}
	logLoaded(xPath, t)
	return t, nil
}

// WriteNpy writes v as a one-dimensional .npy file.
func WriteNpy(path string, v []float64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return tfErrors.Wrapf(err, "failed to create file %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return npyio.Write(f, v)
}
