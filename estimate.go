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

// AdaptiveSettings is a suggestion for tile size and penalty factor based on
// the target image dimensions and the number of available tile images.
type AdaptiveSettings struct {
	TileSize      int
	PenaltyFactor float64
	TileCount     int
	ImageWidth    int
	ImageHeight   int
}

const (
	// targetTilesPerDim is the number of tiles we aim for along the shorter
	// image dimension.
	targetTilesPerDim = 100.0
	minTileSize       = 8
	maxTileSize       = 128
)

// suggestPenalty maps the number of available tiles to a penalty factor.
// Few tiles need to be reused and get a low penalty, large collections can
// afford diversity and get a high one.
func suggestPenalty(tileCount int) float64 {
	switch {
	case tileCount == 0:
		return 50.0
	case tileCount < 50:
		return 10.0 + (float64(tileCount)/50.0)*20.0
	case tileCount < 200:
		return 30.0 + (float64(tileCount-50)/150.0)*40.0
	default:
		capped := IntMin(tileCount, 1000)
		return 70.0 + (float64(capped-200)/800.0)*30.0
	}
}

// SuggestSettings estimates a tile size and penalty factor for generating a
// mosaic of the image at targetPath with tiles from tileDir. It only reads
// the target image and the directory listing, no tile library is built.
func SuggestSettings(targetPath, tileDir string) (*AdaptiveSettings, error) {
	target, err := LoadImage(targetPath)
	if err != nil {
		return nil, err
	}
	bounds := target.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	minDimension := IntMin(width, height)

	tileSize := IntClamp(int(math.Round(float64(minDimension)/targetTilesPerDim)),
		minTileSize, maxTileSize)

	tileCount, countErr := CountImages(tileDir, JPGAndPNG)
	if countErr != nil {
		return nil, countErr
	}

	return &AdaptiveSettings{
		TileSize:      tileSize,
		PenaltyFactor: math.Round(suggestPenalty(tileCount)),
		TileCount:     tileCount,
		ImageWidth:    width,
		ImageHeight:   height,
	}, nil
}
