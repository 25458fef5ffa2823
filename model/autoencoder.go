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
	"github.com/gorse-io/anomaly/common/nn"
	"github.com/gorse-io/anomaly/floats"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// DefaultThreshold is the default reconstruction error above which a sample
// is classified anomalous.
const DefaultThreshold = 0.0002

// AutoEncoder is an anomaly detector based on reconstruction error. The
// network is a bottleneck of three linear layers sized to the input features:
// D -> 64 (ReLU) -> 32 (ReLU) -> D (sigmoid). Inputs are min-max normalized
// with bounds computed from the training set only.
//
// Hyper-parameters:
//
//	Lr          - The learning rate of Adam. Default is 0.001.
//	NEpochs     - The maximum number of training epochs. Default is 1000.
//	Patience    - Epochs without validation improvement before early
//	              stopping. Default is 10.
//	BatchSize   - The size of mini-batches. Default is 64.
//	RandomState - The random seed. Default is 0.
type AutoEncoder struct {
	BaseModel
	scaler      MinMaxScaler
	net         nn.Model
	numFeatures int
	// Loss history
	TrainLoss []float32
	ValidLoss []float32
	BestEpoch int
	BestLoss  float32
	// Hyper-parameters
	lr        float32
	nEpochs   int
	patience  int
	batchSize int
}

// NewAutoEncoder creates an AutoEncoder.
func NewAutoEncoder(params Params) *AutoEncoder {
	ae := new(AutoEncoder)
	ae.SetParams(params)
	return ae
}

// SetParams sets hyper-parameters for the AutoEncoder.
func (ae *AutoEncoder) SetParams(params Params) {
	ae.BaseModel.SetParams(params)
	ae.lr = ae.Params.GetFloat32(Lr, 0.001)
	ae.nEpochs = ae.Params.GetInt(NEpochs, 1000)
	ae.patience = ae.Params.GetInt(Patience, 10)
	ae.batchSize = ae.Params.GetInt(BatchSize, 64)
}

// earlyStopping halts training once the validation loss fails to strictly
// improve for patience consecutive epochs.
type earlyStopping struct {
	patience  int
	counter   int
	BestEpoch int
	BestLoss  float32
}

func newEarlyStopping(patience int) *earlyStopping {
	return &earlyStopping{
		patience: patience,
		BestLoss: math32.Inf(1),
	}
}

// Observe records the validation loss of an epoch and reports whether
// training should stop.
func (es *earlyStopping) Observe(epoch int, loss float32) bool {
	if loss < es.BestLoss {
		es.BestLoss = loss
		es.BestEpoch = epoch
		es.counter = 0
		return false
	}
	es.counter++
	return es.counter >= es.patience
}

func (ae *AutoEncoder) buildNetwork(numFeatures int) nn.Model {
	layers := []nn.Layer{
		nn.NewLinear(numFeatures, 64),
		nn.NewReLU(),
		nn.NewLinear(64, 32),
		nn.NewReLU(),
		nn.NewLinear(32, numFeatures),
		nn.NewSigmoid(),
	}
	// redraw weights from the model's seeded generator
	for _, l := range layers {
		if linear, ok := l.(*nn.LinearLayer); ok {
			in := linear.W.Shape()[0]
			copy(linear.W.Data(), ae.rng.NormalVector(len(linear.W.Data()),
				0, 1/math32.Sqrt(float32(in))))
		}
	}
	return nn.NewSequential(layers...)
}

// Fit trains the autoencoder. Normalization bounds are computed from trainSet
// and reused for validSet. Training iterates shuffled mini-batches with
// per-sample parameter updates, validation iterates sequential mini-batches
// without updates.
func (ae *AutoEncoder) Fit(trainSet, validSet [][]float32) error {
	numFeatures, err := checkMatrix(trainSet)
	if err != nil {
		return errors.Trace(err)
	}
	train, err := ae.scaler.FitTransform(trainSet)
	if err != nil {
		return errors.Trace(err)
	}
	valid, err := ae.scaler.Transform(validSet)
	if err != nil {
		return errors.Trace(err)
	}
	log.Logger().Info("fit autoencoder",
		zap.Int("train_set_size", len(trainSet)),
		zap.Int("valid_set_size", len(validSet)),
		zap.Int("n_features", numFeatures),
		zap.Any("params", ae.GetParams()))
	ae.numFeatures = numFeatures
	ae.net = ae.buildNetwork(numFeatures)
	ae.TrainLoss = nil
	ae.ValidLoss = nil
	optimizer := nn.NewAdam(ae.net.Parameters(), ae.lr)
	stopper := newEarlyStopping(ae.patience)
	for epoch := 1; epoch <= ae.nEpochs; epoch++ {
		perm := ae.rng.Perm(len(train))
		var runningLoss float32
		for start := 0; start < len(perm); start += ae.batchSize {
			end := min(start+ae.batchSize, len(perm))
			for _, i := range perm[start:end] {
				x := nn.NewTensor(train[i], 1, numFeatures)
				loss := nn.MeanSquareError(x, ae.net.Forward(x))
				optimizer.ZeroGrad()
				loss.Backward()
				optimizer.Step()
				runningLoss += loss.Data()[0]
			}
		}
		trainLoss := runningLoss / float32(len(train))
		validLoss := ae.validationLoss(valid, numFeatures)
		ae.TrainLoss = append(ae.TrainLoss, trainLoss)
		ae.ValidLoss = append(ae.ValidLoss, validLoss)
		log.Logger().Debug("fit autoencoder",
			zap.Int("epoch", epoch),
			zap.Float32("train_loss", trainLoss),
			zap.Float32("valid_loss", validLoss))
		if stopper.Observe(epoch, validLoss) {
			log.Logger().Info("early stopping",
				zap.Int("best_epoch", stopper.BestEpoch),
				zap.Float32("best_loss", stopper.BestLoss),
				zap.Int("patience", ae.patience))
			break
		}
	}
	ae.BestEpoch = stopper.BestEpoch
	ae.BestLoss = stopper.BestLoss
	return nil
}

// validationLoss computes the mean reconstruction loss over sequential
// mini-batches without updating parameters.
func (ae *AutoEncoder) validationLoss(valid [][]float32, numFeatures int) float32 {
	var runningLoss float32
	for start := 0; start < len(valid); start += ae.batchSize {
		end := min(start+ae.batchSize, len(valid))
		x := nn.NewTensor(flatten(valid[start:end]), end-start, numFeatures)
		loss := nn.MeanSquareError(x, ae.net.Forward(x))
		runningLoss += loss.Data()[0] * float32(end-start)
	}
	return runningLoss / float32(len(valid))
}

// Predict normalizes x with the stored training bounds, reconstructs it and
// returns one flag per sample, true where the mean squared reconstruction
// error exceeds threshold, along with the error vector itself.
func (ae *AutoEncoder) Predict(x [][]float32, threshold float32) ([]bool, []float32, error) {
	if ae.net == nil {
		return nil, nil, errors.Trace(ErrNotTrained)
	}
	scaled, err := ae.scaler.Transform(x)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	input := nn.NewTensor(flatten(scaled), len(scaled), ae.numFeatures)
	output := ae.net.Forward(input)
	anomalies := make([]bool, len(scaled))
	reconErrors := make([]float32, len(scaled))
	diff := make([]float32, ae.numFeatures)
	for i, row := range scaled {
		reconstruction := output.Data()[i*ae.numFeatures : (i+1)*ae.numFeatures]
		floats.SubTo(row, reconstruction, diff)
		reconErrors[i] = floats.Dot(diff, diff) / float32(ae.numFeatures)
		anomalies[i] = reconErrors[i] > threshold
	}
	return anomalies, reconErrors, nil
}

func flatten(x [][]float32) []float32 {
	data := make([]float32, 0, len(x)*len(x[0]))
	for _, row := range x {
		data = append(data, row...)
	}
	return data
}
