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
	"fmt"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/kyroy/kdtree"
	"github.com/kyroy/kdtree/points"

	"github.com/stretchr/testify/require"
)

// writePNG writes a width×height image of one solid color to path.
func writePNG(t *testing.T, path string, width, height int, c color.RGBA) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, uniformImage(width, height, c)))
}

// newColorLibrary builds a library directly from colors, without touching
// the filesystem. Tile i gets colors[i] and a fake path.
func newColorLibrary(tileSize int, colors ...[3]float64) *TileLibrary {
	tiles := make([]Tile, len(colors))
	treePoints := make([]kdtree.Point, len(colors))
	for i, c := range colors {
		tiles[i] = NewTile(fmt.Sprintf("/tmp/tiles/tile-%d.png", i), c, tileSize)
		cc := c
		treePoints[i] = points.NewPoint(cc[:], i)
	}
	return &TileLibrary{
		tiles:        tiles,
		colorIndex:   kdtree.New(treePoints),
		srcDir:       "/tmp/tiles",
		tileSize:     tileSize,
		sigmaDivisor: 4.0,
		mask:         NewGaussianMask(tileSize, 4.0),
		resizer:      DefaultResizer,
	}
}
