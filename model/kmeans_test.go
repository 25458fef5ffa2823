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

func TestKMeans_SingleCluster(t *testing.T) {
	x := [][]float32{
		{1, 2},
		{3, 4},
		{5, 6},
		{7, 8},
	}
	kmeans := NewKMeans(Params{NClusters: 1, MaxIters: 3})
	require.NoError(t, kmeans.Fit(x))
	// the single centroid is the mean of all samples
	assert.InDeltaSlice(t, []float32{4, 5}, kmeans.Centroids[0], epsilon)
	assert.Equal(t, []int{0, 0, 0, 0}, kmeans.Assignments)
}

func TestKMeans_SeparatedClusters(t *testing.T) {
	rng := base.NewRandomGenerator(0)
	x := make([][]float32, 0, 40)
	for i := 0; i < 20; i++ {
		x = append(x, rng.NormalVector(2, 0, 0.1))
	}
	for i := 0; i < 20; i++ {
		x = append(x, rng.NormalVector(2, 10, 0.1))
	}
	kmeans := NewKMeans(Params{NClusters: 2, RandomState: 0})
	require.NoError(t, kmeans.Fit(x))
	// every sample shares its cluster with its blob and not with the other
	for i := 1; i < 20; i++ {
		assert.Equal(t, kmeans.Assignments[0], kmeans.Assignments[i])
		assert.Equal(t, kmeans.Assignments[20], kmeans.Assignments[20+i])
	}
	assert.NotEqual(t, kmeans.Assignments[0], kmeans.Assignments[20])

	assignments, err := kmeans.Predict([][]float32{{0.1, -0.1}, {9.9, 10.1}})
	require.NoError(t, err)
	assert.Equal(t, kmeans.Assignments[0], assignments[0])
	assert.Equal(t, kmeans.Assignments[20], assignments[1])
}

func TestKMeans_Deterministic(t *testing.T) {
	rng := base.NewRandomGenerator(1)
	x := rng.NormalMatrix(30, 3, 0, 1)
	first := NewKMeans(Params{NClusters: 3, RandomState: 7})
	require.NoError(t, first.Fit(x))
	second := NewKMeans(Params{NClusters: 3, RandomState: 7})
	require.NoError(t, second.Fit(x))
	assert.Equal(t, first.Assignments, second.Assignments)
	assert.Equal(t, first.Centroids, second.Centroids)
}

func TestKMeans_EmptyCluster(t *testing.T) {
	// identical samples collapse into one cluster, the other starves
	x := [][]float32{
		{1, 1},
		{1, 1},
		{1, 1},
	}
	kmeans := NewKMeans(Params{NClusters: 2})
	err := kmeans.Fit(x)
	assert.ErrorIs(t, err, ErrEmptyCluster)
}

func TestKMeans_NotTrained(t *testing.T) {
	kmeans := NewKMeans(nil)
	_, err := kmeans.Predict([][]float32{{1, 2}})
	assert.ErrorIs(t, err, ErrNotTrained)
}

func TestKMeans_Invalid(t *testing.T) {
	kmeans := NewKMeans(Params{NClusters: 5})
	// fewer samples than clusters
	err := kmeans.Fit([][]float32{{1, 2}, {3, 4}})
	assert.Error(t, err)
}
