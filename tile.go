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
	"image"
)

// Tile is a single source image of a tile library. Only the path and the
// precomputed average color are kept in memory permanently; the decoded and
// resized image is loaded lazily by GetImage and then cached for the life of
// the tile.
type Tile struct {
	// Path is the file the tile was loaded from.
	Path string
	// Color is the average color of the tile, computed with the library mask.
	Color [3]float64

	tileSize int
	cached   image.Image
}

// NewTile returns a new tile with color information. The image will be
// loaded lazily when needed.
func NewTile(path string, color [3]float64, tileSize int) Tile {
	return Tile{Path: path, Color: color, tileSize: tileSize}
}

// GetImage returns the decoded, orientation corrected and resized tile
// image. The first call loads the file, later calls return the cached image.
// Once populated the cache is never recomputed.
//
// Tiles are not safe for concurrent use, see TileLibrary.
func (t *Tile) GetImage() (image.Image, error) {
	if t.cached != nil {
		return t.cached, nil
	}
	img, err := LoadImageFill(t.Path, t.tileSize)
	if err != nil {
		// err is an ImageError and already carries the tile path
		return nil, fmt.Errorf("can't load tile: %w", err)
	}
	t.cached = img
	return img, nil
}
