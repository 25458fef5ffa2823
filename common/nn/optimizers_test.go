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

package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSGD(t *testing.T) {
	// minimize (w - 3)^2
	w := Zeros(1)
	target := NewTensor([]float32{3}, 1)
	optimizer := NewSGD([]*Tensor{w}, 0.1)
	for i := 0; i < 100; i++ {
		loss := Mean(Square(Sub(w, target)))
		optimizer.ZeroGrad()
		loss.Backward()
		optimizer.Step()
	}
	assert.InDelta(t, 3, w.Data()[0], 0.01)
}

func TestAdam(t *testing.T) {
	// minimize (w - 3)^2
	w := Zeros(1)
	target := NewTensor([]float32{3}, 1)
	optimizer := NewAdam([]*Tensor{w}, 0.1)
	for i := 0; i < 500; i++ {
		loss := Mean(Square(Sub(w, target)))
		optimizer.ZeroGrad()
		loss.Backward()
		optimizer.Step()
	}
	assert.InDelta(t, 3, w.Data()[0], 0.01)
}
