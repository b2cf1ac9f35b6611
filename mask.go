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
	"math"
)

// GaussianMask is a precomputed grid of weights used for spatially weighted
// color averaging. Weights are stored in row-major order (y outer, x inner),
// so an image of the same size can be iterated in the same order and the
// weight for pixel i is simply Weights()[i].
//
// The mask is immutable after creation. A library and all queries against it
// must use the same mask, otherwise tile colors and cell colors are not
// comparable.
type GaussianMask struct {
	size        int
	weights     []float64
	totalWeight float64
}

// NewGaussianMask returns a mask of size×size weights. If sigmaDivisor > 0
// the weight at (x, y) is exp(-((x-c)² + (y-c)²) / (2σ²)) with c = size/2
// and σ = size/sigmaDivisor. If sigmaDivisor ≤ 0 all weights are 1 and the
// mask describes a plain average.
//
// The center is deliberately size/2.0, not (size-1)/2.0; changing it would
// change every extracted color.
func NewGaussianMask(size int, sigmaDivisor float64) *GaussianMask {
	weights := make([]float64, 0, size*size)
	totalWeight := 0.0
	center := float64(size) / 2.0

	useGaussian := sigmaDivisor > 0.0
	sigma := 1.0
	if useGaussian {
		sigma = float64(size) / sigmaDivisor
	}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			weight := 1.0
			if useGaussian {
				dx := float64(x) - center
				dy := float64(y) - center
				distSq := dx*dx + dy*dy
				weight = math.Exp(-distSq / (2.0 * sigma * sigma))
			}
			weights = append(weights, weight)
			totalWeight += weight
		}
	}
	return &GaussianMask{
		size:        size,
		weights:     weights,
		totalWeight: totalWeight,
	}
}

// Size returns the edge length of the mask.
func (mask *GaussianMask) Size() int {
	return mask.size
}

// Weights returns the row-major weight grid. The result must not be modified.
func (mask *GaussianMask) Weights() []float64 {
	return mask.weights
}

// TotalWeight returns the precomputed sum of all weights, avoiding a
// normalization pass during averaging.
func (mask *GaussianMask) TotalWeight() float64 {
	return mask.totalWeight
}
