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

package model

import (
	"github.com/gorse-io/anomaly/base/log"
	"go.uber.org/zap"
)

// ParamName is the type of hyper-parameter names.
type ParamName string

// Predefined hyper-parameter names
const (
	Lr          ParamName = "Lr"          // learning rate
	NEpochs     ParamName = "NEpochs"     // number of epochs
	Patience    ParamName = "Patience"    // epochs without improvement before early stopping
	BatchSize   ParamName = "BatchSize"   // mini-batch size
	NClusters   ParamName = "NClusters"   // number of clusters
	MaxIters    ParamName = "MaxIters"    // number of clustering iterations
	RandomState ParamName = "RandomState" // random state (seed)
)

// Params stores hyper-parameters for a model. It is a map between strings
// (names) and interface{}s (values). For example, hyper-parameters for the
// autoencoder are given by:
//
//	model.Params{
//		model.Lr:       0.001,
//		model.NEpochs:  1000,
//		model.Patience: 10,
//	}
type Params map[ParamName]interface{}

// Copy hyper-parameters.
func (parameters Params) Copy() Params {
	newParams := make(Params)
	for k, v := range parameters {
		newParams[k] = v
	}
	return newParams
}

// GetInt gets an integer parameter by name. Returns _default if not exists or
// type doesn't match.
func (parameters Params) GetInt(name ParamName, _default int) int {
	if val, exist := parameters[name]; exist {
		switch value := val.(type) {
		case int:
			return value
		default:
			log.Logger().Warn("type mismatch in hyper-parameter",
				zap.String("name", string(name)), zap.Any("value", val))
		}
	}
	return _default
}

// GetInt64 gets a 64-bit integer parameter by name. Returns _default if not
// exists or type doesn't match. An int value will be converted.
func (parameters Params) GetInt64(name ParamName, _default int64) int64 {
	if val, exist := parameters[name]; exist {
		switch value := val.(type) {
		case int64:
			return value
		case int:
			return int64(value)
		default:
			log.Logger().Warn("type mismatch in hyper-parameter",
				zap.String("name", string(name)), zap.Any("value", val))
		}
	}
	return _default
}

// GetFloat32 gets a float parameter by name. Returns _default if not exists
// or type doesn't match. Integer values will be converted.
func (parameters Params) GetFloat32(name ParamName, _default float32) float32 {
	if val, exist := parameters[name]; exist {
		switch value := val.(type) {
		case float32:
			return value
		case float64:
			return float32(value)
		case int:
			return float32(value)
		default:
			log.Logger().Warn("type mismatch in hyper-parameter",
				zap.String("name", string(name)), zap.Any("value", val))
		}
	}
	return _default
}

// Overwrite merges another group of hyper-parameters into the current group.
func (parameters Params) Overwrite(params Params) Params {
	merged := parameters.Copy()
	for k, v := range params {
		merged[k] = v
	}
	return merged
}
