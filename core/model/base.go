// Package model provides the estimator base shared by the tree learners.
//
// BaseEstimator carries what every estimator needs regardless of algorithm:
//
//   - fitted state tracking so Predict on an untrained model fails cleanly
//   - a structured logger
//   - a hyperparameter map for Get/SetParams and weight export
//
// Estimators embed it:
//
//	type MyModel struct {
//		model.BaseEstimator
//	}
//
//	func (m *MyModel) Fit(X, y mat.Matrix) error {
//		// training logic
//		m.SetFitted()
//		return nil
//	}
package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"maps"

	tfErrors "github.com/ezoic/treeforge/pkg/errors"
	"github.com/ezoic/treeforge/pkg/log"
)

// EstimatorState represents the learning state of a model.
type EstimatorState int

const (
	// NotFitted indicates the model is not yet trained.
	NotFitted EstimatorState = iota
	// Fitted indicates the model has been trained.
	Fitted
)

// ModelWeights is the portable summary of an estimator produced by ExportWeights.
type ModelWeights struct {
	ModelType       string                 `json:"model_type" yaml:"model_type"`
	Version         string                 `json:"version" yaml:"version"`
	IsFitted        bool                   `json:"is_fitted" yaml:"is_fitted"`
	Hyperparameters map[string]interface{} `json:"hyperparameters" yaml:"hyperparameters"`
	Metadata        map[string]interface{} `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// BaseEstimator is the base structure for all models.
type BaseEstimator struct {
	// State holds the model's learning state. Public for gob encoding.
	State EstimatorState

	// ModelType identifies the type of model.
	ModelType string

	// Version is the model version.
	Version string

	logger          log.Logger
	hyperparameters map[string]interface{}
}

// IsFitted reports whether Fit completed successfully.
func (e *BaseEstimator) IsFitted() bool {
	return e.State == Fitted
}

// SetFitted marks the estimator as trained. Called by Fit implementations.
func (e *BaseEstimator) SetFitted() {
	e.State = Fitted
}

// Reset returns the estimator to its untrained state.
func (e *BaseEstimator) Reset() {
	e.State = NotFitted
}

// SetLogger sets the logger for this estimator.
//
// Example:
//
//	import "github.com/ezoic/treeforge/pkg/log"
//	model.SetLogger(log.GetLoggerWithName("DecisionTreeClassifier"))
func (e *BaseEstimator) SetLogger(logger log.Logger) {
	e.logger = logger
}

// GetLogger returns the logger for this estimator, or nil.
func (e *BaseEstimator) GetLogger() log.Logger {
	return e.logger
}

// LogInfo logs at info level if a logger is configured.
func (e *BaseEstimator) LogInfo(msg string, fields ...interface{}) {
	if e.logger != nil {
		e.logger.Info(msg, fields...)
	}
}

// LogDebug logs at debug level if a logger is configured.
func (e *BaseEstimator) LogDebug(msg string, fields ...interface{}) {
	if e.logger != nil {
		e.logger.Debug(msg, fields...)
	}
}

// LogError logs at error level if a logger is configured.
func (e *BaseEstimator) LogError(msg string, fields ...interface{}) {
	if e.logger != nil {
		e.logger.Error(msg, fields...)
	}
}

// GetParams retrieves the model's hyperparameters. deep returns a copy.
func (e *BaseEstimator) GetParams(deep bool) map[string]interface{} {
	if e.hyperparameters == nil {
		return make(map[string]interface{})
	}
	if !deep {
		return e.hyperparameters
	}
	return maps.Clone(e.hyperparameters)
}

// SetParams merges params into the model's hyperparameters.
func (e *BaseEstimator) SetParams(params map[string]interface{}) error {
	if e.hyperparameters == nil {
		e.hyperparameters = make(map[string]interface{})
	}
	maps.Copy(e.hyperparameters, params)
	return nil
}

// ExportWeights exports the estimator's type, version and hyperparameters.
func (e *BaseEstimator) ExportWeights() (*ModelWeights, error) {
	if !e.IsFitted() {
		return nil, tfErrors.NewNotFittedError(e.ModelType, "ExportWeights")
	}
	return &ModelWeights{
		ModelType:       e.ModelType,
		Version:         e.Version,
		IsFitted:        true,
		Hyperparameters: e.GetParams(true),
		Metadata:        make(map[string]interface{}),
	}, nil
}

// ImportWeights restores what ExportWeights produced.
func (e *BaseEstimator) ImportWeights(weights *ModelWeights) error {
	if weights == nil {
		return tfErrors.NewValueError("ImportWeights", "weights cannot be nil")
	}
	if weights.ModelType != e.ModelType {
		return tfErrors.NewValueError("ImportWeights", "model type mismatch: expected "+e.ModelType+", got "+weights.ModelType)
	}
	e.Version = weights.Version
	if err := e.SetParams(weights.Hyperparameters); err != nil {
		return err
	}
	if weights.IsFitted {
		e.SetFitted()
	}
	return nil
}

// GetWeightHash returns a SHA-256 of the exported weights, or "" when unfitted.
func (e *BaseEstimator) GetWeightHash() string {
	weights, err := e.ExportWeights()
	if err != nil {
		return ""
	}
	data, err := json.Marshal(weights)
	if err != nil {
		return ""
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Clone copies state and hyperparameters. The logger is shared.
func (e *BaseEstimator) Clone() *BaseEstimator {
	return &BaseEstimator{
		State:           e.State,
		ModelType:       e.ModelType,
		Version:         e.Version,
		logger:          e.logger,
		hyperparameters: maps.Clone(e.hyperparameters),
	}
}
