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

package main

import (
	"github.com/gorse-io/anomaly/base"
	"github.com/gorse-io/anomaly/base/log"
	"github.com/gorse-io/anomaly/model"
	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var benchmarkCommand = &cobra.Command{
	Use:   "anomaly-benchmark",
	Short: "Benchmark anomaly detectors on synthetic Gaussian data with implanted outliers",
	Run: func(cmd *cobra.Command, args []string) {
		samples, _ := cmd.PersistentFlags().GetInt("samples")
		features, _ := cmd.PersistentFlags().GetInt("features")
		outliers, _ := cmd.PersistentFlags().GetInt("outliers")
		trials, _ := cmd.PersistentFlags().GetInt("trials")
		epochs, _ := cmd.PersistentFlags().GetInt("epochs")
		clusters, _ := cmd.PersistentFlags().GetInt("clusters")
		seed, _ := cmd.PersistentFlags().GetInt64("seed")
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debug)

		gaussianF1 := make([]float32, 0, trials)
		autoEncoderRecall := make([]float32, 0, trials)
		bar := progressbar.Default(int64(trials))
		for trial := 0; trial < trials; trial++ {
			gaussianScore, autoEncoderScore, err := runTrial(trialConfig{
				samples:  samples,
				features: features,
				outliers: outliers,
				epochs:   epochs,
				clusters: clusters,
				seed:     seed + int64(trial),
			})
			if err != nil {
				log.Logger().Fatal("benchmark trial failed",
					zap.Int("trial", trial), zap.Error(err))
			}
			log.Logger().Info("gaussian detector", append([]zap.Field{
				zap.Int("trial", trial)}, gaussianScore.ZapFields()...)...)
			log.Logger().Info("autoencoder", append([]zap.Field{
				zap.Int("trial", trial)}, autoEncoderScore.ZapFields()...)...)
			gaussianF1 = append(gaussianF1, gaussianScore.F1)
			autoEncoderRecall = append(autoEncoderRecall, autoEncoderScore.Recall)
			_ = bar.Add(1)
		}
		log.Logger().Info("benchmark complete",
			zap.Int("trials", trials),
			zap.Float32("gaussian_mean_f1", lo.Sum(gaussianF1)/float32(trials)),
			zap.Float32("autoencoder_mean_recall", lo.Sum(autoEncoderRecall)/float32(trials)))
	},
}

type trialConfig struct {
	samples  int
	features int
	outliers int
	epochs   int
	clusters int
	seed     int64
}

// runTrial draws a standard normal training set and a validation set with
// outliers implanted at ten standard deviations, then fits and scores each
// detector on the validation set.
func runTrial(cfg trialConfig) (gaussianScore, autoEncoderScore model.Score, err error) {
	rng := base.NewRandomGenerator(cfg.seed)
	trainSet := rng.NormalMatrix(cfg.samples, cfg.features, 0, 1)
	validSet := rng.NormalMatrix(cfg.samples/4, cfg.features, 0, 1)
	validLabels := make([]int, len(validSet))
	for i := 0; i < cfg.outliers && i < len(validSet); i++ {
		for j := range validSet[i] {
			validSet[i][j] = 10
		}
		validLabels[i] = 1
	}

	detector := model.NewGaussianDetector(model.Params{model.RandomState: cfg.seed})
	if err = detector.Fit(trainSet, validSet, validLabels); err != nil {
		return
	}
	var predictions []bool
	if predictions, err = detector.Predict(validSet); err != nil {
		return
	}
	gaussianScore = model.EvaluateClassification(validLabels, predictions)

	autoEncoder := model.NewAutoEncoder(model.Params{
		model.NEpochs:     cfg.epochs,
		model.RandomState: cfg.seed,
	})
	if err = autoEncoder.Fit(trainSet, validSet); err != nil {
		return
	}
	if predictions, _, err = autoEncoder.Predict(validSet, model.DefaultThreshold); err != nil {
		return
	}
	autoEncoderScore = model.EvaluateClassification(validLabels, predictions)

	kmeans := model.NewKMeans(model.Params{
		model.NClusters:   cfg.clusters,
		model.RandomState: cfg.seed,
	})
	if err = kmeans.Fit(validSet); err != nil {
		return
	}
	log.Logger().Info("kmeans",
		zap.Any("cluster_sizes", lo.CountValues(kmeans.Assignments)))
	return
}

func init() {
	benchmarkCommand.PersistentFlags().Int("samples", 1000, "number of training samples")
	benchmarkCommand.PersistentFlags().Int("features", 8, "number of features")
	benchmarkCommand.PersistentFlags().Int("outliers", 10, "number of implanted outliers")
	benchmarkCommand.PersistentFlags().Int("trials", 10, "number of trials")
	benchmarkCommand.PersistentFlags().Int("epochs", 50, "autoencoder training epochs")
	benchmarkCommand.PersistentFlags().Int("clusters", 3, "number of clusters")
	benchmarkCommand.PersistentFlags().Int64("seed", 0, "random seed of the first trial")
	benchmarkCommand.PersistentFlags().BoolP("debug", "", false, "use debug log mode")
	log.AddFlags(benchmarkCommand.PersistentFlags())
}

func main() {
	if err := benchmarkCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute command", zap.Error(err))
	}
}
