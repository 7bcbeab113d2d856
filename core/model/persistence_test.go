package model_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ezoic/treeforge/core/model"
)

type stump struct {
	model.BaseEstimator
	Feature   int
	Threshold float64
	Left      float64
	Right     float64
}

func (s *stump) predict(x float64) float64 {
	if x <= s.Threshold {
		return s.Left
	}
	return s.Right
}

func fittedStump() *stump {
	s := &stump{Feature: 0, Threshold: 2.5, Left: 1, Right: 7}
	s.ModelType = "stump"
	s.SetFitted()
	return s
}

func TestSaveLoadModel(t *testing.T) {
	orig := fittedStump()
	tmpFile := filepath.Join(t.TempDir(), "stump.gob")

	if err := model.SaveModel(orig, tmpFile); err != nil {
		t.Fatalf("Failed to save model: %v", err)
	}
	if _, err := os.Stat(tmpFile); err != nil {
		t.Fatalf("Model file missing: %v", err)
	}

	loaded := &stump{}
	if err := model.LoadModel(loaded, tmpFile); err != nil {
		t.Fatalf("Failed to load model: %v", err)
	}

	for _, x := range []float64{0, 2.5, 3, 10} {
		if orig.predict(x) != loaded.predict(x) {
			t.Errorf("Predictions differ at %v: original=%v, loaded=%v", x, orig.predict(x), loaded.predict(x))
		}
	}
	if !loaded.IsFitted() {
		t.Error("Loaded model should be fitted")
	}
	if loaded.ModelType != "stump" {
		t.Errorf("ModelType = %q, want stump", loaded.ModelType)
	}
}

func TestSaveLoadModelToWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := model.SaveModelToWriter(fittedStump(), &buf); err != nil {
		t.Fatalf("Failed to save model to writer: %v", err)
	}
	loaded := &stump{}
	if err := model.LoadModelFromReader(loaded, &buf); err != nil {
		t.Fatalf("Failed to load model from reader: %v", err)
	}
	if loaded.Threshold != 2.5 || loaded.Right != 7 {
		t.Errorf("Unexpected stump after round trip: %+v", loaded)
	}
}

func TestLoadModelFileNotFound(t *testing.T) {
	err := model.LoadModel(&stump{}, filepath.Join(t.TempDir(), "nonexistent_file.gob"))
	if err == nil {
		t.Fatal("Expected error for nonexistent file, got nil")
	}
	if !bytes.Contains([]byte(err.Error()), []byte("failed to open file")) {
		t.Errorf("Expected error to contain 'failed to open file', got: %v", err)
	}
}

func TestSaveModelInvalidPath(t *testing.T) {
	err := model.SaveModel(fittedStump(), "/invalid/path/model.gob")
	if err == nil {
		t.Fatal("Expected error for invalid path, got nil")
	}
	if !bytes.Contains([]byte(err.Error()), []byte("failed to create file")) {
		t.Errorf("Expected error to contain 'failed to create file', got: %v", err)
	}
}
