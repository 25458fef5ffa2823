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

package floats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdd(t *testing.T) {
	a := []float32{1, 2, 3}
	Add(a, []float32{4, 5, 6})
	assert.Equal(t, []float32{5, 7, 9}, a)
	assert.Panics(t, func() { Add(a, []float32{1}) })
}

func TestSub(t *testing.T) {
	a := []float32{4, 5, 6}
	Sub(a, []float32{1, 2, 3})
	assert.Equal(t, []float32{3, 3, 3}, a)
	assert.Panics(t, func() { Sub(a, []float32{1}) })
}

func TestSubTo(t *testing.T) {
	dst := make([]float32, 3)
	SubTo([]float32{4, 5, 6}, []float32{1, 2, 3}, dst)
	assert.Equal(t, []float32{3, 3, 3}, dst)
	assert.Panics(t, func() { SubTo([]float32{1}, []float32{1, 2}, dst) })
}

func TestMulConst(t *testing.T) {
	a := []float32{1, 2, 3}
	MulConst(a, 2)
	assert.Equal(t, []float32{2, 4, 6}, a)
}

func TestDot(t *testing.T) {
	assert.Equal(t, float32(32), Dot([]float32{1, 2, 3}, []float32{4, 5, 6}))
	assert.Panics(t, func() { Dot([]float32{1}, []float32{1, 2}) })
}

func TestSquaredDistance(t *testing.T) {
	assert.Equal(t, float32(27), SquaredDistance([]float32{1, 2, 3}, []float32{4, 5, 6}))
	assert.Panics(t, func() { SquaredDistance([]float32{1}, []float32{1, 2}) })
}

func TestSum(t *testing.T) {
	assert.Equal(t, float32(6), Sum([]float32{1, 2, 3}))
	assert.Zero(t, Sum(nil))
}

func TestMin(t *testing.T) {
	assert.Equal(t, float32(-3), Min([]float32{1, -3, 2}))
	assert.Panics(t, func() { Min(nil) })
}

func TestMax(t *testing.T) {
	assert.Equal(t, float32(2), Max([]float32{1, -3, 2}))
	assert.Panics(t, func() { Max(nil) })
}
