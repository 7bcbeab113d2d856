package model

import (
	"encoding/gob"
	"io"
	"os"

	tfErrors "github.com/ezoic/treeforge/pkg/errors"
)

// SaveModel gob-encodes model into filename.
func SaveModel(model interface{}, filename string) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return tfErrors.Wrapf(err, "failed to create file %s", filename)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return SaveModelToWriter(model, f)
}

// SaveModelToWriter gob-encodes model into w.
func SaveModelToWriter(model interface{}, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(model); err != nil {
		return tfErrors.NewModelError("SaveModel", "gob encode", err)
	}
	return nil
}

// LoadModel decodes filename into model, which must be a pointer.
func LoadModel(model interface{}, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return tfErrors.Wrapf(err, "failed to open file %s", filename)
	}
	defer func() { _ = f.Close() }()
	return LoadModelFromReader(model, f)
}

// LoadModelFromReader decodes r into model, which must be a pointer.
func LoadModelFromReader(model interface{}, r io.Reader) error {
	if err := gob.NewDecoder(r).Decode(model); err != nil {
		return tfErrors.NewModelError("LoadModel", "gob decode", err)
	}
	return nil
}
