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
	"github.com/gorse-io/anomaly/floats"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// ErrEmptyCluster is returned when a cluster loses all of its members during
// an update pass.
var ErrEmptyCluster = errors.New("empty cluster")

// KMeans groups samples into K clusters by Lloyd iterations with squared
// Euclidean distance. Centroids are initialized from K distinct rows of the
// training set drawn with the model's seeded generator.
//
// Hyper-parameters:
//
//	NClusters   - The number of clusters. Default is 3.
//	MaxIters    - The number of assignment and update passes. Default is 10.
//	RandomState - The random seed. Default is 0.
type KMeans struct {
	BaseModel
	Centroids   [][]float32
	Assignments []int
	// Hyper-parameters
	nClusters int
	maxIters  int
}

// NewKMeans creates a KMeans clusterer.
func NewKMeans(params Params) *KMeans {
	k := new(KMeans)
	k.SetParams(params)
	return k
}

// SetParams sets hyper-parameters for KMeans.
func (k *KMeans) SetParams(params Params) {
	k.BaseModel.SetParams(params)
	k.nClusters = k.Params.GetInt(NClusters, 3)
	k.maxIters = k.Params.GetInt(MaxIters, 10)
}

// Fit clusters x. It runs exactly MaxIters assignment and update passes, each
// sample joins its nearest centroid (ties keep the lowest cluster index) and
// each centroid moves to the mean of its members. A cluster left without
// members fails with ErrEmptyCluster.
func (k *KMeans) Fit(x [][]float32) error {
	numFeatures, err := checkMatrix(x)
	if err != nil {
		return errors.Trace(err)
	}
	if len(x) < k.nClusters {
		return errors.NotValidf("%d samples for %d clusters", len(x), k.nClusters)
	}
	log.Logger().Info("fit kmeans",
		zap.Int("data_set_size", len(x)),
		zap.Int("n_features", numFeatures),
		zap.Int("n_clusters", k.nClusters),
		zap.Int("max_iters", k.maxIters))
	k.Centroids = make([][]float32, k.nClusters)
	for c, i := range k.rng.Sample(0, len(x), k.nClusters) {
		k.Centroids[c] = make([]float32, numFeatures)
		copy(k.Centroids[c], x[i])
	}
	k.Assignments = make([]int, len(x))
	counts := make([]int, k.nClusters)
	for iter := 0; iter < k.maxIters; iter++ {
		// assignment
		for i, row := range x {
			nearest, minDistance := 0, floats.SquaredDistance(row, k.Centroids[0])
			for c := 1; c < k.nClusters; c++ {
				if d := floats.SquaredDistance(row, k.Centroids[c]); d < minDistance {
					nearest, minDistance = c, d
				}
			}
			k.Assignments[i] = nearest
		}
		// update
		for c := range k.Centroids {
			counts[c] = 0
			for j := range k.Centroids[c] {
				k.Centroids[c][j] = 0
			}
		}
		for i, row := range x {
			c := k.Assignments[i]
			floats.Add(k.Centroids[c], row)
			counts[c]++
		}
		for c := range k.Centroids {
			if counts[c] == 0 {
				return errors.Annotatef(ErrEmptyCluster, "cluster %d at iteration %d", c, iter)
			}
			floats.MulConst(k.Centroids[c], 1/float32(counts[c]))
		}
	}
	return nil
}

// Predict returns the index of the nearest centroid for each row of x.
func (k *KMeans) Predict(x [][]float32) ([]int, error) {
	if k.Centroids == nil {
		return nil, errors.Trace(ErrNotTrained)
	}
	numFeatures, err := checkMatrix(x)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if numFeatures != len(k.Centroids[0]) {
		return nil, errors.NotValidf("feature count %d, expected %d",
			numFeatures, len(k.Centroids[0]))
	}
	assignments := make([]int, len(x))
	for i, row := range x {
		nearest, minDistance := 0, floats.SquaredDistance(row, k.Centroids[0])
		for c := 1; c < k.nClusters; c++ {
			if d := floats.SquaredDistance(row, k.Centroids[c]); d < minDistance {
				nearest, minDistance = c, d
			}
		}
		assignments[i] = nearest
	}
	return assignments, nil
}
