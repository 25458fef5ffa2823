// Copyright 2025 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package model implements unsupervised anomaly detection models over tabular
// data. A dataset is a slice of rows, each row a fixed-length []float32, with
// an optional aligned label vector (0 = normal, 1 = anomaly) used only for
// threshold selection and evaluation.
package model

import (
	"github.com/gorse-io/anomaly/base"
	"github.com/juju/errors"
)

// ErrNotTrained is returned when Predict is called before Fit.
var ErrNotTrained = errors.New("model is not trained")

// Model is the interface for all models. Any model in this package should
// implement it.
type Model interface {
	// Set hyper-parameters.
	SetParams(params Params)
	// Get hyper-parameters.
	GetParams() Params
}

// BaseModel is included by every model. Hyper-parameters and the random
// generator are managed by BaseModel.
type BaseModel struct {
	Params    Params               // Hyper-parameters
	rng       base.RandomGenerator // Random generator
	randState int64                // Random seed
}

// SetParams sets hyper-parameters for the BaseModel.
func (model *BaseModel) SetParams(params Params) {
	model.Params = params
	model.randState = model.Params.GetInt64(RandomState, 0)
	model.rng = base.NewRandomGenerator(model.randState)
}

// GetParams returns all hyper-parameters.
func (model *BaseModel) GetParams() Params {
	return model.Params
}

// GetRandomGenerator returns the model's random generator.
func (model *BaseModel) GetRandomGenerator() base.RandomGenerator {
	return model.rng
}

// checkMatrix validates that a feature matrix is non-empty and rectangular.
// Returns the feature count.
func checkMatrix(x [][]float32) (int, error) {
	if len(x) == 0 {
		return 0, errors.NotValidf("empty feature matrix")
	}
	n := len(x[0])
	if n == 0 {
		return 0, errors.NotValidf("feature matrix with zero features")
	}
	for i, row := range x {
		if len(row) != n {
			return 0, errors.NotValidf("row %d has %d features, expected %d", i, len(row), n)
		}
	}
	return n, nil
}
