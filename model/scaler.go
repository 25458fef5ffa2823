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
	"github.com/juju/errors"
)

// ErrZeroRange is returned when a feature has equal minimum and maximum in
// the training data, which makes min-max scaling divide by zero.
var ErrZeroRange = errors.New("feature with zero range")

// MinMaxScaler rescales each feature to [0, 1] using the minimum and maximum
// observed at fitting time. The stored bounds are reused for any later batch,
// they are never recomputed from non-training data.
type MinMaxScaler struct {
	Min []float32
	Max []float32
}

// Fit computes and stores per-feature bounds from the training batch.
func (s *MinMaxScaler) Fit(x [][]float32) error {
	n, err := checkMatrix(x)
	if err != nil {
		return errors.Trace(err)
	}
	minimum := make([]float32, n)
	maximum := make([]float32, n)
	copy(minimum, x[0])
	copy(maximum, x[0])
	for _, row := range x[1:] {
		for j, v := range row {
			if v < minimum[j] {
				minimum[j] = v
			}
			if v > maximum[j] {
				maximum[j] = v
			}
		}
	}
	for j := range minimum {
		if minimum[j] == maximum[j] {
			return errors.Annotatef(ErrZeroRange, "feature %d", j)
		}
	}
	s.Min = minimum
	s.Max = maximum
	return nil
}

// Transform applies the stored bounds to a batch. Values outside the training
// range map outside [0, 1].
func (s *MinMaxScaler) Transform(x [][]float32) ([][]float32, error) {
	if s.Min == nil {
		return nil, errors.Trace(ErrNotTrained)
	}
	n, err := checkMatrix(x)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if n != len(s.Min) {
		return nil, errors.NotValidf("feature count %d, expected %d", n, len(s.Min))
	}
	scaled := make([][]float32, len(x))
	for i, row := range x {
		scaled[i] = make([]float32, n)
		for j, v := range row {
			scaled[i][j] = (v - s.Min[j]) / (s.Max[j] - s.Min[j])
		}
	}
	return scaled, nil
}

// FitTransform fits the scaler on a batch and returns the scaled batch.
func (s *MinMaxScaler) FitTransform(x [][]float32) ([][]float32, error) {
	if err := s.Fit(x); err != nil {
		return nil, errors.Trace(err)
	}
	return s.Transform(x)
}
