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
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellRects(t *testing.T) {
	cells := cellRects(32, 48, 16)
	require.Len(t, cells, 6)
	// row-major: first row left to right, then the next row
	assert.Equal(t, image.Rect(0, 0, 16, 16), cells[0])
	assert.Equal(t, image.Rect(16, 0, 32, 16), cells[1])
	assert.Equal(t, image.Rect(0, 16, 16, 32), cells[2])
	assert.Equal(t, image.Rect(16, 32, 32, 48), cells[5])
}

func TestGenerateMosaicQuadrants(t *testing.T) {
	const tileSize = 16
	dir := t.TempDir()
	quadColors := []color.RGBA{
		{R: 255, A: 255},
		{G: 255, A: 255},
		{B: 255, A: 255},
		{R: 255, G: 255, A: 255},
	}
	writePNG(t, filepath.Join(dir, "red.png"), tileSize, tileSize, quadColors[0])
	writePNG(t, filepath.Join(dir, "green.png"), tileSize, tileSize, quadColors[1])
	writePNG(t, filepath.Join(dir, "blue.png"), tileSize, tileSize, quadColors[2])
	writePNG(t, filepath.Join(dir, "yellow.png"), tileSize, tileSize, quadColors[3])

	// target: 2×2 grid of solid quadrants, one per library tile
	target := image.NewNRGBA(image.Rect(0, 0, 2*tileSize, 2*tileSize))
	for y := 0; y < 2*tileSize; y++ {
		for x := 0; x < 2*tileSize; x++ {
			quad := (y/tileSize)*2 + x/tileSize
			c := quadColors[quad]
			target.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A})
		}
	}
	// the target lives outside the tile directory so it does not end up
	// in the library itself
	targetPath := filepath.Join(t.TempDir(), "target.png")
	f, err := os.Create(targetPath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, target))
	require.NoError(t, f.Close())

	lib, err := NewTileLibrary(dir, tileSize, 4.0, 2, nil)
	require.NoError(t, err)
	require.Equal(t, 4, lib.NumTiles())

	uri, err := lib.GenerateMosaic(targetPath, MosaicConfig{PenaltyFactor: 0.0})
	require.NoError(t, err)

	result, err := DecodePNGDataURI(uri)
	require.NoError(t, err)
	bounds := result.Bounds()
	require.Equal(t, 2*tileSize, bounds.Dx())
	require.Equal(t, 2*tileSize, bounds.Dy())

	// each quadrant must consist of exactly its source tile's color: the
	// target is tile aligned, so no resampling may blur the cell borders
	for quad, want := range quadColors {
		offX := (quad % 2) * tileSize
		offY := (quad / 2) * tileSize
		for _, p := range []image.Point{
			{X: offX, Y: offY},
			{X: offX + tileSize/2, Y: offY + tileSize/2},
			{X: offX + tileSize - 1, Y: offY + tileSize - 1},
		} {
			r, g, b := ConvertRGB(result.At(bounds.Min.X+p.X, bounds.Min.Y+p.Y))
			assert.Equal(t, want.R, r, "quadrant %d at %v", quad, p)
			assert.Equal(t, want.G, g, "quadrant %d at %v", quad, p)
			assert.Equal(t, want.B, b, "quadrant %d at %v", quad, p)
		}
	}
}

func TestGenerateMosaicPadsAndCrops(t *testing.T) {
	const tileSize = 16
	dir := t.TempDir()
	gray := color.RGBA{R: 128, G: 128, B: 128, A: 255}
	writePNG(t, filepath.Join(dir, "gray.png"), tileSize, tileSize, gray)

	lib, err := NewTileLibrary(dir, tileSize, 4.0, 1, nil)
	require.NoError(t, err)

	// 24 is not a multiple of 16, the target is padded to 32 internally and
	// the result cropped back
	outDir := t.TempDir()
	targetPath := filepath.Join(outDir, "target.png")
	writePNG(t, targetPath, 24, 24, gray)

	uri, err := lib.GenerateMosaic(targetPath, MosaicConfig{PenaltyFactor: 0.0})
	require.NoError(t, err)

	result, err := DecodePNGDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, 24, result.Bounds().Dx())
	assert.Equal(t, 24, result.Bounds().Dy())
}

func TestGenerateMosaicTileLoadFailure(t *testing.T) {
	const tileSize = 16
	dir := t.TempDir()
	tilePath := filepath.Join(dir, "gray.png")
	writePNG(t, tilePath, tileSize, tileSize, color.RGBA{R: 128, G: 128, B: 128, A: 255})

	lib, err := NewTileLibrary(dir, tileSize, 4.0, 1, nil)
	require.NoError(t, err)

	outDir := t.TempDir()
	targetPath := filepath.Join(outDir, "target.png")
	writePNG(t, targetPath, tileSize, tileSize, color.RGBA{A: 255})

	// tile file vanishes between library build and generation: the failure
	// must surface with the tile path attached
	require.NoError(t, os.Remove(tilePath))

	_, err = lib.GenerateMosaic(targetPath, MosaicConfig{PenaltyFactor: 0.0})
	require.Error(t, err)
	var imageErr *ImageError
	require.True(t, errors.As(err, &imageErr))
	assert.Equal(t, tilePath, imageErr.Path)
}

func TestGenerateMosaicMissingTarget(t *testing.T) {
	lib := newColorLibrary(16, [3]float64{0, 0, 0})
	_, err := lib.GenerateMosaic(filepath.Join(t.TempDir(), "nope.png"), MosaicConfig{})
	require.Error(t, err)
	var imageErr *ImageError
	assert.True(t, errors.As(err, &imageErr))
}
