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
	"sync"

	log "github.com/sirupsen/logrus"
)

// LibraryCache holds on to the most recently built TileLibrary and rebuilds
// it only when the requested configuration (directory, tile size, sigma
// divisor) differs from the one the library was built with. Building a
// library is expensive, repeated generation runs with the same settings
// should pay for it once.
//
// The cache also provides the exclusive lock a TileLibrary requires: all
// methods serialize, and Generate holds the lock for the entire generation
// call. A zero NumRoutines means one worker per build.
type LibraryCache struct {
	mu  sync.Mutex
	lib *TileLibrary

	// NumRoutines is the number of workers used when a library must be
	// (re)built.
	NumRoutines int
	// Progress, if not nil, is passed to NewTileLibrary on rebuilds.
	Progress ProgressFunc
}

// NewLibraryCache returns an empty cache. numRoutines is the worker count
// for library builds.
func NewLibraryCache(numRoutines int) *LibraryCache {
	return &LibraryCache{NumRoutines: numRoutines}
}

// BuildOrReuse returns a library for the given configuration, building a new
// one only if the cached library doesn't match. The returned library is
// exclusively owned by the caller until the next call on this cache; callers
// that hand it to other goroutines must serialize access themselves.
func (cache *LibraryCache) BuildOrReuse(dir string, tileSize int, sigmaDivisor float64) (*TileLibrary, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	return cache.buildOrReuse(dir, tileSize, sigmaDivisor)
}

func (cache *LibraryCache) buildOrReuse(dir string, tileSize int, sigmaDivisor float64) (*TileLibrary, error) {
	if cache.lib != nil && cache.lib.MatchesConfig(dir, tileSize, sigmaDivisor) {
		return cache.lib, nil
	}
	log.WithFields(log.Fields{
		"dir":          dir,
		"tileSize":     tileSize,
		"sigmaDivisor": sigmaDivisor,
	}).Info("Building tile library")
	lib, err := NewTileLibrary(dir, tileSize, sigmaDivisor, cache.NumRoutines, cache.Progress)
	if err != nil {
		return nil, err
	}
	cache.lib = lib
	return lib, nil
}

// Generate builds or reuses a library for the given configuration and runs
// one generation call against it. The internal lock is held for the whole
// call, concurrent Generate calls are serialized.
func (cache *LibraryCache) Generate(dir string, tileSize int, sigmaDivisor float64,
	targetPath string, config MosaicConfig) (string, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	lib, err := cache.buildOrReuse(dir, tileSize, sigmaDivisor)
	if err != nil {
		return "", err
	}
	return lib.GenerateMosaic(targetPath, config)
}

// Invalidate drops the cached library, the next call builds from scratch.
func (cache *LibraryCache) Invalidate() {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.lib = nil
}
