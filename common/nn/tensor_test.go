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

func TestNewTensor(t *testing.T) {
	x := NewTensor([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
	assert.Equal(t, []int{2, 3}, x.Shape())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, x.Data())
	assert.Panics(t, func() { NewTensor([]float32{1, 2, 3}, 2, 2) })
}

func TestNewScalar(t *testing.T) {
	x := NewScalar(2.5)
	assert.Empty(t, x.Shape())
	assert.Equal(t, "2.5", x.String())
}

func TestZerosOnes(t *testing.T) {
	assert.Equal(t, []float32{0, 0, 0, 0, 0, 0}, Zeros(2, 3).Data())
	assert.Equal(t, []float32{1, 1, 1, 1, 1, 1}, Ones(3, 2).Data())
}

func TestNormal(t *testing.T) {
	x := Normal(0, 1, 100, 10)
	assert.Equal(t, []int{100, 10}, x.Shape())
	sum := float32(0)
	for _, v := range x.Data() {
		sum += v
	}
	assert.InDelta(t, 0, sum/float32(len(x.Data())), 0.2)
}

func TestTensor_String(t *testing.T) {
	x := NewTensor([]float32{1, 2, 3}, 3)
	assert.Equal(t, "[1, 2, 3]", x.String())
	y := Ones(12)
	assert.Equal(t, "[1, 1, 1, 1, 1, ..., 1, 1, 1, 1, 1]", y.String())
}

func TestTensor_MatMulShape(t *testing.T) {
	a := NewTensor([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
	b := NewTensor([]float32{1, 2, 3}, 3, 1)
	y := a.matMul(b, false, false)
	assert.Equal(t, []int{2, 1}, y.Shape())
	assert.Equal(t, []float32{14, 32}, y.Data())
	assert.Panics(t, func() { a.matMul(a, false, false) })
}
