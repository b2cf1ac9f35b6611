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

// Package mosaic generates photomosaic images. A directory of small source
// images ("tiles") is scanned once into a TileLibrary: each tile gets a
// precomputed, Gaussian-weighted average color and the colors are indexed in
// a KD-tree. A target image is then divided into a grid of cells and each
// cell is replaced by the tile whose color matches best, with a usage penalty
// that discourages picking the same tile over and over.
//
// Tile images themselves are decoded lazily and cached, so a library can be
// reused for many generation runs without keeping all pixels in memory.
//
// It ships with a command line program and a small HTTP backend for
// generating mosaics.
package mosaic
