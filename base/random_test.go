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

package base

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
)

const randomEpsilon = 0.1

func TestRandomGenerator_Deterministic(t *testing.T) {
	a := NewRandomGenerator(42)
	b := NewRandomGenerator(42)
	assert.Equal(t, a.UniformVector(100, -1, 1), b.UniformVector(100, -1, 1))
	assert.Equal(t, a.NormalVector(100, 0, 1), b.NormalVector(100, 0, 1))
	assert.Equal(t, a.NormalMatrix(10, 10, 0, 1), b.NormalMatrix(10, 10, 0, 1))
}

func TestRandomGenerator_UniformVector(t *testing.T) {
	rng := NewRandomGenerator(0)
	vec := rng.UniformVector(10000, 1, 2)
	sum := float32(0)
	for _, v := range vec {
		assert.GreaterOrEqual(t, v, float32(1))
		assert.Less(t, v, float32(2))
		sum += v
	}
	assert.InDelta(t, 1.5, sum/float32(len(vec)), randomEpsilon)
}

func TestRandomGenerator_NormalVector(t *testing.T) {
	rng := NewRandomGenerator(0)
	vec := rng.NormalVector(10000, 1, 2)
	sum := float32(0)
	for _, v := range vec {
		sum += v
	}
	mean := sum / float32(len(vec))
	assert.InDelta(t, 1, mean, randomEpsilon)
	sum = 0
	for _, v := range vec {
		sum += (v - mean) * (v - mean)
	}
	assert.InDelta(t, 4, sum/float32(len(vec)), randomEpsilon*4)
}

func TestRandomGenerator_Sample(t *testing.T) {
	rng := NewRandomGenerator(0)
	// sampled values must be distinct and outside the excluded set
	excludeSet := mapset.NewSet(0, 1, 2, 3, 4)
	for i := 0; i < 10; i++ {
		sampled := rng.Sample(0, 10, 3, excludeSet)
		assert.Equal(t, 3, len(sampled))
		assert.Equal(t, 3, mapset.NewSet(sampled...).Cardinality())
		for _, v := range sampled {
			assert.False(t, excludeSet.Contains(v))
		}
	}
	// when the interval is exhausted, return every remaining value
	sampled := rng.Sample(0, 10, 100, excludeSet)
	assert.ElementsMatch(t, []int{5, 6, 7, 8, 9}, sampled)
}
