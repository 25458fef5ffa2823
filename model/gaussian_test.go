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
	"testing"

	"github.com/gorse-io/anomaly/base"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const epsilon = 1e-5

func TestEstimateGaussian(t *testing.T) {
	mean, variance, err := EstimateGaussian([][]float32{
		{1, 2},
		{3, 4},
		{5, 6},
	})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{3, 4}, mean, epsilon)
	assert.InDeltaSlice(t, []float32{8.0 / 3, 8.0 / 3}, variance, epsilon)
}

func TestEstimateGaussian_Invalid(t *testing.T) {
	_, _, err := EstimateGaussian(nil)
	assert.Error(t, err)
	_, _, err = EstimateGaussian([][]float32{{1, 2}, {3}})
	assert.Error(t, err)
}

func TestDensity(t *testing.T) {
	// standard normal at the mean: 1/sqrt(2*pi) per feature
	densities, err := Density([][]float32{{0, 0}}, []float32{0, 0}, []float32{1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 1/(2*3.14159265), densities[0], epsilon)
}

func TestDensity_SingularCovariance(t *testing.T) {
	x := [][]float32{{1, 2}, {1, 4}}
	mean, variance, err := EstimateGaussian(x)
	require.NoError(t, err)
	assert.Zero(t, variance[0])
	_, err = Density(x, mean, variance)
	assert.ErrorIs(t, err, ErrSingularCovariance)
}

func TestSelectThreshold(t *testing.T) {
	// perfect separation between anomalies and normals
	labels := []int{1, 1, 0, 0, 0}
	scores := []float32{0.01, 0.02, 0.5, 0.6, 0.7}
	eps, f1 := SelectThreshold(labels, scores)
	assert.InDelta(t, 1, f1, epsilon)
	assert.Greater(t, eps, float32(0.02))
	assert.LessOrEqual(t, eps, float32(0.5))
}

func TestSelectThreshold_Degenerate(t *testing.T) {
	// no anomalies labeled, F1 can never be positive
	eps, f1 := SelectThreshold([]int{0, 0, 0}, []float32{0.1, 0.2, 0.3})
	assert.Zero(t, eps)
	assert.Zero(t, f1)
	// all scores equal, no candidate interval
	eps, f1 = SelectThreshold([]int{1, 0}, []float32{0.5, 0.5})
	assert.Zero(t, eps)
	assert.Zero(t, f1)
	// empty input
	eps, f1 = SelectThreshold(nil, nil)
	assert.Zero(t, eps)
	assert.Zero(t, f1)
}

func TestGaussianDetector(t *testing.T) {
	rng := base.NewRandomGenerator(0)
	trainSet := rng.NormalMatrix(100, 2, 0, 1)
	validSet := rng.NormalMatrix(50, 2, 0, 1)
	validLabels := make([]int, 50)
	for i := 0; i < 5; i++ {
		validSet[i] = []float32{10, 10}
		validLabels[i] = 1
	}
	detector := NewGaussianDetector(Params{RandomState: int64(0)})
	require.NoError(t, detector.Fit(trainSet, validSet, validLabels))
	assert.Greater(t, detector.F1, float32(0.9))
	assert.Greater(t, detector.Epsilon, float32(0))
	assert.Len(t, detector.TrainScores, 100)
	assert.Len(t, detector.ValidScores, 50)

	anomalies, err := detector.Predict([][]float32{{10, 10}, {0.1, 0.1}})
	require.NoError(t, err)
	assert.True(t, anomalies[0])
	assert.False(t, anomalies[1])

	// prediction is idempotent
	again, err := detector.Predict([][]float32{{10, 10}, {0.1, 0.1}})
	require.NoError(t, err)
	assert.Equal(t, anomalies, again)
}

func TestGaussianDetector_NotTrained(t *testing.T) {
	detector := NewGaussianDetector(nil)
	_, err := detector.Predict([][]float32{{1, 2}})
	assert.ErrorIs(t, err, ErrNotTrained)
}

func TestGaussianDetector_Invalid(t *testing.T) {
	detector := NewGaussianDetector(nil)
	// feature count mismatch between train and validation
	err := detector.Fit([][]float32{{1, 2}, {3, 4}}, [][]float32{{1}}, []int{0})
	assert.Error(t, err)
	// label count mismatch
	err = detector.Fit([][]float32{{1, 2}, {3, 4}}, [][]float32{{1, 2}}, []int{0, 1})
	assert.Error(t, err)
}
