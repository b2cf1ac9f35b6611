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
	"math"

	"github.com/kyroy/kdtree"
	"github.com/kyroy/kdtree/points"

	log "github.com/sirupsen/logrus"
)

const (
	// penaltyMultiplier scales usage counts into the numeric range of squared
	// color distances.
	penaltyMultiplier = 50.0
	// Bounds for the adaptive number of nearest neighbor candidates.
	kdTreeKMin     = 10
	kdTreeKMax     = 100
	kdTreeKDivisor = 10
)

// TileLibrary owns the tiles built from one source directory together with a
// KD-tree over their average colors. A library is built once for a
// (directory, tile size, sigma divisor) configuration and can then be reused
// for any number of generation runs; use MatchesConfig to decide whether an
// existing library can be reused.
//
// A library is not safe for concurrent use: generation mutates the lazy tile
// image caches. Callers that share a library across goroutines must hold an
// exclusive lock for the whole generation call, see LibraryCache.
type TileLibrary struct {
	tiles      []Tile
	colorIndex *kdtree.KDTree

	srcDir       string
	tileSize     int
	sigmaDivisor float64
	mask         *GaussianMask
	resizer      ImageResizer
}

// NewTileLibrary scans dir recursively for supported images and builds a
// library with the given tile size and sigma divisor. Files are decoded,
// orientation corrected, resized to tileSize² and averaged concurrently with
// numRoutines workers; the decoded pixels are dropped again and only path
// and color are kept. Files that fail to decode are skipped silently.
//
// progress may be nil, otherwise it is called once per processed file.
//
// If not a single usable image is found a ConfigError is returned.
func NewTileLibrary(dir string, tileSize int, sigmaDivisor float64, numRoutines int, progress ProgressFunc) (*TileLibrary, error) {
	mask := NewGaussianMask(tileSize, sigmaDivisor)
	paths, scanErr := ListImages(dir, JPGAndPNG)
	if scanErr != nil {
		return nil, scanErr
	}
	tiles := loadTiles(paths, tileSize, mask, numRoutines, progress)
	if len(tiles) == 0 {
		return nil, NewConfigError(fmt.Sprintf("no valid images found in \"%s\"", dir))
	}

	// build the color index, entry i belongs to tiles[i]
	treePoints := make([]kdtree.Point, len(tiles))
	for i := range tiles {
		c := tiles[i].Color
		treePoints[i] = points.NewPoint(c[:], i)
	}

	return &TileLibrary{
		tiles:        tiles,
		colorIndex:   kdtree.New(treePoints),
		srcDir:       dir,
		tileSize:     tileSize,
		sigmaDivisor: sigmaDivisor,
		mask:         mask,
		resizer:      DefaultResizer,
	}, nil
}

// loadTiles decodes and averages all candidate files with a worker pool.
// Each file is an independent unit of work, results are collected in
// whatever order the workers finish. Undecodable files yield nil results and
// are dropped; this is graceful degradation, not an error.
func loadTiles(paths []string, tileSize int, mask *GaussianMask, numRoutines int, progress ProgressFunc) []Tile {
	if numRoutines <= 0 {
		numRoutines = 1
	}

	jobs := make(chan string, BufferSize)
	results := make(chan *Tile, BufferSize)

	for w := 0; w < numRoutines; w++ {
		go func() {
			for path := range jobs {
				img, imgErr := LoadImageFill(path, tileSize)
				if imgErr != nil {
					log.WithFields(log.Fields{
						log.ErrorKey: imgErr,
						"path":       path,
					}).Debug("Skipping image, can't be decoded")
					results <- nil
					continue
				}
				color := MaskedAverageColor(img, mask)
				tile := NewTile(path, color, tileSize)
				results <- &tile
			}
		}()
	}

	go func() {
		for _, path := range paths {
			jobs <- path
		}
		close(jobs)
	}()

	tiles := make([]Tile, 0, len(paths))
	for i := 0; i < len(paths); i++ {
		if tile := <-results; tile != nil {
			tiles = append(tiles, *tile)
		}
		if progress != nil {
			progress(i + 1)
		}
	}
	return tiles
}

// MatchesConfig returns true iff the library was built for exactly the given
// directory, tile size and sigma divisor. The sigma divisor is compared by
// value, callers must pass identical literals to avoid spurious rebuilds.
func (lib *TileLibrary) MatchesConfig(dir string, tileSize int, sigmaDivisor float64) bool {
	return lib.srcDir == dir && lib.tileSize == tileSize && lib.sigmaDivisor == sigmaDivisor
}

// NumTiles returns the number of tiles in the library.
func (lib *TileLibrary) NumTiles() int {
	return len(lib.tiles)
}

// TileSize returns the tile size the library was built with.
func (lib *TileLibrary) TileSize() int {
	return lib.tileSize
}

// SetResizer changes the resizer used to stretch target images to their
// padded dimensions. Must not be called during generation.
func (lib *TileLibrary) SetResizer(resizer ImageResizer) {
	lib.resizer = resizer
}

// sqColorDist returns the squared euclidean distance of two colors.
func sqColorDist(a, b [3]float64) float64 {
	var sum float64
	for i, e1 := range a {
		diff := e1 - b[i]
		sum += diff * diff
	}
	return sum
}

// findBestTile returns the index of the tile that minimizes
//
//	squared color distance + usage count × penaltyFactor × 50
//
// among the k nearest color matches. k adapts to the library size
// (tiles/10, at least 10, at most 100) so the search stays cheap for big
// libraries while small libraries still get at least one candidate. Ties are
// broken by the order the index yields candidates, nearest first.
func (lib *TileLibrary) findBestTile(target [3]float64, usageCounts []int, penaltyFactor float64) int {
	numTiles := len(lib.tiles)
	k := IntClamp(numTiles/kdTreeKDivisor, kdTreeKMin, kdTreeKMax)
	k = IntClamp(k, 1, numTiles)

	nearest := lib.colorIndex.KNN(points.NewPoint(target[:], nil), k)

	bestIdx := 0
	minScore := math.MaxFloat64
	for _, candidate := range nearest {
		idx := candidate.(*points.Point).Data.(int)
		colorDist := sqColorDist(target, lib.tiles[idx].Color)
		score := colorDist + float64(usageCounts[idx])*penaltyFactor*penaltyMultiplier
		if score < minScore {
			minScore = score
			bestIdx = idx
		}
	}
	return bestIdx
}
