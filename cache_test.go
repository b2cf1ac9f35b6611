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
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibraryCacheReuse(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "red.png"), 16, 16, color.RGBA{R: 255, A: 255})

	cache := NewLibraryCache(1)
	first, err := cache.BuildOrReuse(dir, 16, 4.0)
	require.NoError(t, err)

	// same configuration, same library instance
	again, err := cache.BuildOrReuse(dir, 16, 4.0)
	require.NoError(t, err)
	assert.Same(t, first, again)

	// any configuration change forces a rebuild
	rebuilt, err := cache.BuildOrReuse(dir, 16, 8.0)
	require.NoError(t, err)
	assert.NotSame(t, first, rebuilt)

	cache.Invalidate()
	fresh, err := cache.BuildOrReuse(dir, 16, 8.0)
	require.NoError(t, err)
	assert.NotSame(t, rebuilt, fresh)
}

func TestLibraryCacheBuildFailureKeepsOld(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "red.png"), 16, 16, color.RGBA{R: 255, A: 255})

	cache := NewLibraryCache(1)
	first, err := cache.BuildOrReuse(dir, 16, 4.0)
	require.NoError(t, err)

	_, err = cache.BuildOrReuse(filepath.Join(dir, "nope"), 16, 4.0)
	require.Error(t, err)

	// the failed rebuild must not evict the working library
	again, err := cache.BuildOrReuse(dir, 16, 4.0)
	require.NoError(t, err)
	assert.Same(t, first, again)
}

func TestLibraryCacheGenerate(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "gray.png"), 16, 16, color.RGBA{R: 128, G: 128, B: 128, A: 255})

	targetPath := filepath.Join(t.TempDir(), "target.png")
	writePNG(t, targetPath, 16, 16, color.RGBA{R: 128, G: 128, B: 128, A: 255})

	cache := NewLibraryCache(1)
	uri, err := cache.Generate(dir, 16, 4.0, targetPath, MosaicConfig{PenaltyFactor: 0.0})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, PNGDataURIPrefix))
}
