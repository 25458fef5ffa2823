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
	"sort"

	"github.com/chewxy/math32"
	"go.uber.org/zap"
	"modernc.org/sortutil"
)

// Score contains the metrics of a detector evaluated on a labeled set.
type Score struct {
	Accuracy        float32
	Precision       float32
	Recall          float32
	F1              float32
	AUC             float32
	KS              float32
	Gini            float32
	LabelPassRate   float32 // fraction of samples labeled normal
	PredictPassRate float32 // fraction of samples predicted normal
}

// ZapFields returns the metrics as fields for structured logging.
func (score Score) ZapFields() []zap.Field {
	return []zap.Field{
		zap.Float32("accuracy", score.Accuracy),
		zap.Float32("precision", score.Precision),
		zap.Float32("recall", score.Recall),
		zap.Float32("f1", score.F1),
		zap.Float32("auc", score.AUC),
		zap.Float32("ks", score.KS),
		zap.Float32("gini", score.Gini),
		zap.Float32("label_pass_rate", score.LabelPassRate),
		zap.Float32("predict_pass_rate", score.PredictPassRate),
	}
}

// EvaluateClassification computes classification metrics from ground truth
// labels (0 = normal, 1 = anomaly) and predicted anomaly flags. Undefined
// ratios evaluate to zero.
func EvaluateClassification(labels []int, predictions []bool) Score {
	if len(labels) == 0 || len(labels) != len(predictions) {
		return Score{}
	}
	var tp, fp, tn, fn float32
	posPrediction := make([]float32, 0, len(labels))
	negPrediction := make([]float32, 0, len(labels))
	for i, label := range labels {
		var prediction float32
		if predictions[i] {
			prediction = 1
		}
		if label == 1 {
			posPrediction = append(posPrediction, prediction)
			if predictions[i] {
				tp++
			} else {
				fn++
			}
		} else {
			negPrediction = append(negPrediction, prediction)
			if predictions[i] {
				fp++
			} else {
				tn++
			}
		}
	}
	m := float32(len(labels))
	score := Score{
		Accuracy:        (tp + tn) / m,
		LabelPassRate:   (tn + fp) / m,
		PredictPassRate: (tn + fn) / m,
	}
	if tp+fp > 0 {
		score.Precision = tp / (tp + fp)
	}
	if tp+fn > 0 {
		score.Recall = tp / (tp + fn)
	}
	if score.Precision+score.Recall > 0 {
		score.F1 = 2 * score.Precision * score.Recall / (score.Precision + score.Recall)
	}
	score.AUC = AUC(posPrediction, negPrediction)
	score.KS = KS(posPrediction, negPrediction)
	score.Gini = 2*score.AUC - 1
	return score
}

// AUC computes the area under the ROC curve from the scores of positive and
// negative samples. A tied pair contributes one half.
func AUC(posPrediction, negPrediction []float32) float32 {
	if len(posPrediction) == 0 || len(negPrediction) == 0 {
		return 0
	}
	negSorted := make([]float32, len(negPrediction))
	copy(negSorted, negPrediction)
	sort.Sort(sortutil.Float32Slice(negSorted))
	var sum float32
	for _, pos := range posPrediction {
		below := sort.Search(len(negSorted), func(i int) bool {
			return negSorted[i] >= pos
		})
		equal := sort.Search(len(negSorted), func(i int) bool {
			return negSorted[i] > pos
		}) - below
		sum += float32(below) + float32(equal)/2
	}
	return sum / float32(len(posPrediction)) / float32(len(negPrediction))
}

// KS computes the Kolmogorov-Smirnov statistic, the maximum distance between
// the empirical score distributions of positive and negative samples.
func KS(posPrediction, negPrediction []float32) float32 {
	if len(posPrediction) == 0 || len(negPrediction) == 0 {
		return 0
	}
	posSorted := make([]float32, len(posPrediction))
	copy(posSorted, posPrediction)
	sort.Sort(sortutil.Float32Slice(posSorted))
	negSorted := make([]float32, len(negPrediction))
	copy(negSorted, negPrediction)
	sort.Sort(sortutil.Float32Slice(negSorted))
	var i, j int
	var ks float32
	for i < len(posSorted) || j < len(negSorted) {
		var v float32
		switch {
		case i >= len(posSorted):
			v = negSorted[j]
		case j >= len(negSorted):
			v = posSorted[i]
		case posSorted[i] < negSorted[j]:
			v = posSorted[i]
		default:
			v = negSorted[j]
		}
		for i < len(posSorted) && posSorted[i] <= v {
			i++
		}
		for j < len(negSorted) && negSorted[j] <= v {
			j++
		}
		d := math32.Abs(float32(i)/float32(len(posSorted)) - float32(j)/float32(len(negSorted)))
		if d > ks {
			ks = d
		}
	}
	return ks
}
