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
	"image"
	"image/color"
)

// ConvertRGB converts a generic color into 8 bit r, g and b components.
func ConvertRGB(c color.Color) (uint8, uint8, uint8) {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return rgba.R, rgba.G, rgba.B
}

// MaskedAverageColor computes the weighted average color of img given a
// mask. For each channel it computes Σ(channel × weight) / totalWeight.
//
// The image dimensions must match the mask size exactly, this is the
// caller's responsibility and not checked here. Pixels are iterated in the
// same row-major order used to build the mask so pixel i gets weight i.
func MaskedAverageColor(img image.Image, mask *GaussianMask) [3]float64 {
	var r, g, b float64

	weights := mask.Weights()
	bounds := img.Bounds()
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			pr, pg, pb := ConvertRGB(img.At(x, y))
			weight := weights[i]
			r += float64(pr) * weight
			g += float64(pg) * weight
			b += float64(pb) * weight
			i++
		}
	}

	total := mask.TotalWeight()
	return [3]float64{r / total, g / total, b / total}
}
