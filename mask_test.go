// Copyright 2018 Fabian Wenzelmann
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

package mosaic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGaussianMaskWeights(t *testing.T) {
	mask := NewGaussianMask(8, 4.0)
	require.Len(t, mask.Weights(), 64)
	assert.Equal(t, 8, mask.Size())

	sum := 0.0
	for _, weight := range mask.Weights() {
		assert.Greater(t, weight, 0.0)
		assert.LessOrEqual(t, weight, 1.0)
		sum += weight
	}
	assert.InDelta(t, sum, mask.TotalWeight(), 1e-9)
}

func TestGaussianMaskCenterFalloff(t *testing.T) {
	mask := NewGaussianMask(9, 3.0)
	weights := mask.Weights()
	// a corner is further from the center than a pixel right next to it
	center := weights[4*9+4]
	corner := weights[0]
	assert.Greater(t, center, corner)
}

func TestUniformMask(t *testing.T) {
	for _, sigmaDivisor := range []float64{0.0, -1.0} {
		mask := NewGaussianMask(6, sigmaDivisor)
		require.Len(t, mask.Weights(), 36)
		for _, weight := range mask.Weights() {
			assert.Equal(t, 1.0, weight)
		}
		assert.InDelta(t, 36.0, mask.TotalWeight(), 1e-9)
	}
}
