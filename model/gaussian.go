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
	"github.com/chewxy/math32"
	"github.com/gorse-io/anomaly/base/log"
	"github.com/gorse-io/anomaly/floats"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// ErrSingularCovariance is returned when a feature has zero variance, which
// makes the diagonal covariance matrix singular.
var ErrSingularCovariance = errors.New("singular covariance: feature with zero variance")

// numCandidates is the number of candidate thresholds scanned by
// SelectThreshold.
const numCandidates = 1000

// EstimateGaussian computes the arithmetic mean and the population variance of
// each feature. Features are treated as independent, no covariance terms are
// estimated.
func EstimateGaussian(x [][]float32) (mean, variance []float32, err error) {
	n, err := checkMatrix(x)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	m := float32(len(x))
	mean = make([]float32, n)
	for _, row := range x {
		floats.Add(mean, row)
	}
	floats.MulConst(mean, 1/m)
	variance = make([]float32, n)
	diff := make([]float32, n)
	for _, row := range x {
		floats.SubTo(row, mean, diff)
		for j := range variance {
			variance[j] += diff[j] * diff[j]
		}
	}
	floats.MulConst(variance, 1/m)
	return mean, variance, nil
}

// Density evaluates the multivariate normal density with diagonal covariance
// at each row of x. A zero variance makes the covariance singular and returns
// ErrSingularCovariance instead of propagating non-finite values.
func Density(x [][]float32, mean, variance []float32) ([]float32, error) {
	n, err := checkMatrix(x)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if n != len(mean) || n != len(variance) {
		return nil, errors.NotValidf("feature count %d, expected %d", n, len(mean))
	}
	for _, v := range variance {
		if v == 0 {
			return nil, errors.Trace(ErrSingularCovariance)
		}
	}
	densities := make([]float32, len(x))
	for i, row := range x {
		p := float32(1)
		for j, v := range row {
			d := v - mean[j]
			p *= math32.Exp(-d*d/(2*variance[j])) / math32.Sqrt(2*math32.Pi*variance[j])
		}
		densities[i] = p
	}
	return densities, nil
}

// SelectThreshold scans 1000 equal-width candidate thresholds over
// [min(scores), max(scores)) and returns the one maximizing F1 on the
// validation labels, together with the F1 achieved. A sample is classified
// anomalous if its score is strictly below the threshold. Ties keep the lowest
// threshold. When no candidate attains a positive F1, or all scores are
// equal, (0, 0) is returned: callers must treat it as "no discriminating
// threshold found".
func SelectThreshold(labels []int, scores []float32) (epsilon, bestF1 float32) {
	if len(scores) == 0 || len(labels) != len(scores) {
		return 0, 0
	}
	low, high := lo.Min(scores), lo.Max(scores)
	step := (high - low) / numCandidates
	if step <= 0 {
		return 0, 0
	}
	for i := 0; i < numCandidates; i++ {
		candidate := low + step*float32(i)
		var tp, fp, fn float32
		for j, score := range scores {
			if score < candidate {
				if labels[j] == 1 {
					tp++
				} else {
					fp++
				}
			} else if labels[j] == 1 {
				fn++
			}
		}
		var precision, recall, f1 float32
		if tp+fp > 0 {
			precision = tp / (tp + fp)
		}
		if tp+fn > 0 {
			recall = tp / (tp + fn)
		}
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		if f1 > bestF1 {
			bestF1 = f1
			epsilon = candidate
		}
	}
	return epsilon, bestF1
}

// GaussianDetector is an anomaly detector based on the multivariate Gaussian
// distribution with diagonal covariance. Fit estimates per-feature mean and
// variance from the training set and selects the density threshold maximizing
// F1 on a labeled validation set.
type GaussianDetector struct {
	BaseModel
	// Model parameters
	Mean     []float32
	Variance []float32
	Epsilon  float32
	F1       float32
	// Diagnostics
	TrainScores []float32
	ValidScores []float32
	trained     bool
}

// NewGaussianDetector creates a GaussianDetector.
func NewGaussianDetector(params Params) *GaussianDetector {
	g := new(GaussianDetector)
	g.SetParams(params)
	return g
}

// Fit estimates Gaussian parameters from trainSet, scores both sets, and
// selects the threshold from the validation scores and labels.
func (g *GaussianDetector) Fit(trainSet, validSet [][]float32, validLabels []int) error {
	trainFeatures, err := checkMatrix(trainSet)
	if err != nil {
		return errors.Trace(err)
	}
	validFeatures, err := checkMatrix(validSet)
	if err != nil {
		return errors.Trace(err)
	}
	if trainFeatures != validFeatures {
		return errors.NotValidf("train set has %d features but validation set has %d",
			trainFeatures, validFeatures)
	}
	if len(validLabels) != len(validSet) {
		return errors.NotValidf("%d labels for %d validation samples",
			len(validLabels), len(validSet))
	}
	log.Logger().Info("fit gaussian detector",
		zap.Int("train_set_size", len(trainSet)),
		zap.Int("valid_set_size", len(validSet)),
		zap.Int("n_features", trainFeatures))
	g.Mean, g.Variance, err = EstimateGaussian(trainSet)
	if err != nil {
		return errors.Trace(err)
	}
	if g.TrainScores, err = Density(trainSet, g.Mean, g.Variance); err != nil {
		return errors.Trace(err)
	}
	if g.ValidScores, err = Density(validSet, g.Mean, g.Variance); err != nil {
		return errors.Trace(err)
	}
	g.Epsilon, g.F1 = SelectThreshold(validLabels, g.ValidScores)
	if g.F1 == 0 {
		log.Logger().Warn("no discriminating threshold found")
	} else {
		log.Logger().Info("selected threshold",
			zap.Float32("epsilon", g.Epsilon),
			zap.Float32("f1", g.F1))
	}
	g.trained = true
	return nil
}

// Predict returns one flag per row of x, true where the density falls below
// the selected threshold. It fails when the detector has not been fitted or
// the feature count differs from training.
func (g *GaussianDetector) Predict(x [][]float32) ([]bool, error) {
	if !g.trained {
		return nil, errors.Trace(ErrNotTrained)
	}
	scores, err := Density(x, g.Mean, g.Variance)
	if err != nil {
		return nil, errors.Trace(err)
	}
	anomalies := make([]bool, len(scores))
	for i, score := range scores {
		anomalies[i] = score < g.Epsilon
	}
	return anomalies, nil
}
