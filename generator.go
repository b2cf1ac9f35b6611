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
	"image/draw"

	"github.com/disintegration/imaging"

	log "github.com/sirupsen/logrus"
)

// MosaicConfig contains the parameters for one generation call.
type MosaicConfig struct {
	// PenaltyFactor controls how strongly reuse of the same tile is
	// discouraged. 0 disables the penalty, values must not be negative.
	PenaltyFactor float64
}

// cellRects returns the row-major sequence of non overlapping
// tileSize×tileSize cells covering a width×height area. Both dimensions must
// be multiples of tileSize.
func cellRects(width, height, tileSize int) []image.Rectangle {
	cells := make([]image.Rectangle, 0, (width/tileSize)*(height/tileSize))
	for y := 0; y < height; y += tileSize {
		for x := 0; x < width; x += tileSize {
			cells = append(cells, image.Rect(x, y, x+tileSize, y+tileSize))
		}
	}
	return cells
}

// GenerateMosaic builds a mosaic for the image at targetPath and returns it
// as a PNG encoded "data:image/png;base64," string.
//
// The target is loaded with EXIF correction and padded to the next multiple
// of the tile size in both dimensions; if padding changes the dimensions the
// target is stretched to the padded size, otherwise the pixels are used
// unmodified. For each cell (row-major) the weighted average color is
// computed with the library mask and the best tile is selected; this pass is
// strictly sequential because each selection must see the usage counts of
// all selections before it. Then the chosen tiles are painted onto a canvas,
// the canvas is cropped back to the original dimensions and encoded.
//
// Errors during target loading, tile loading or encoding abort the
// generation, there is no partial result.
func (lib *TileLibrary) GenerateMosaic(targetPath string, config MosaicConfig) (string, error) {
	targetImg, loadErr := LoadImage(targetPath)
	if loadErr != nil {
		return "", loadErr
	}
	origBounds := targetImg.Bounds()
	origWidth, origHeight := origBounds.Dx(), origBounds.Dy()

	tileSize := lib.tileSize
	padWidth := ((origWidth + tileSize - 1) / tileSize) * tileSize
	padHeight := ((origHeight + tileSize - 1) / tileSize) * tileSize

	// only resize if the dimensions actually changed, resampling an already
	// aligned image would just lose quality
	if padWidth != origWidth || padHeight != origHeight {
		targetImg = lib.resizer.Resize(uint(padWidth), uint(padHeight), targetImg)
	}
	// one defined pixel format for region extraction
	target := imaging.Clone(targetImg)

	cells := cellRects(padWidth, padHeight, tileSize)
	log.WithFields(log.Fields{
		"cells":  len(cells),
		"width":  padWidth,
		"height": padHeight,
	}).Debug("Generating mosaic")

	// selection pass: sequential on purpose, cell i must see the usage
	// counts of all cells before it
	usageCounts := make([]int, len(lib.tiles))
	chosen := make([]int, len(cells))
	for i, cell := range cells {
		region := target.SubImage(cell)
		targetColor := MaskedAverageColor(region, lib.mask)
		bestIdx := lib.findBestTile(targetColor, usageCounts, config.PenaltyFactor)
		usageCounts[bestIdx]++
		chosen[i] = bestIdx
	}

	// compositing pass: sequential as well, all cells write into one canvas
	canvas := image.NewNRGBA(image.Rect(0, 0, padWidth, padHeight))
	for i, cell := range cells {
		tileImg, tileErr := lib.tiles[chosen[i]].GetImage()
		if tileErr != nil {
			return "", tileErr
		}
		draw.Draw(canvas, cell, tileImg, tileImg.Bounds().Min, draw.Over)
	}

	// crop back to the dimensions the user gave us
	final := canvas.SubImage(image.Rect(0, 0, origWidth, origHeight))
	return EncodePNGDataURI(final)
}
