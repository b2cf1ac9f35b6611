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

// Command mosaic generates a photomosaic on the command line.
//
// Example:
//
//	mosaic -tiles ~/Pictures -in vacation.jpg -out mosaic.png -size 32 -penalty 40
package main

import (
	"encoding/base64"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	mosaic "github.com/MattFrayser/image-mosaic-generator"

	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
)

func init() {
	if mosaic.Debug {
		log.SetLevel(log.DebugLevel)
	}
}

// getPath expands ~ and makes the path absolute (relative to the current
// working directory).
func getPath(path string) (string, error) {
	res, pathErr := homedir.Expand(path)
	if pathErr != nil {
		return "", pathErr
	}
	res, pathErr = filepath.Abs(res)
	if pathErr != nil {
		return "", pathErr
	}
	return res, nil
}

func writeDataURI(uri, outPath string) error {
	if !strings.HasPrefix(uri, mosaic.PNGDataURIPrefix) {
		return fmt.Errorf("unexpected result format")
	}
	raw, decodeErr := base64.StdEncoding.DecodeString(
		strings.TrimPrefix(uri, mosaic.PNGDataURIPrefix))
	if decodeErr != nil {
		return decodeErr
	}
	return os.WriteFile(outPath, raw, 0644)
}

func main() {
	tileDir := flag.String("tiles", "", "Directory with tile images (scanned recursively)")
	inFile := flag.String("in", "", "Target image to build a mosaic of")
	outFile := flag.String("out", "mosaic.png", "Output file (PNG)")
	tileSize := flag.Int("size", 32, "Tile size in pixels")
	sigmaDivisor := flag.Float64("sigma", 4.0, "Sigma divisor of the Gaussian mask, ≤ 0 for a plain average")
	penalty := flag.Float64("penalty", 0.0, "Penalty factor discouraging tile reuse")
	quality := flag.Uint("quality", 5, "Interpolation quality for target padding (0 - 5)")
	routines := flag.Int("routines", 0, "Number of worker routines, default based on the number of CPUs")
	adaptive := flag.Bool("adaptive", false, "Estimate tile size and penalty from the input")
	flag.Parse()

	if *tileDir == "" || *inFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	numRoutines := *routines
	if numRoutines <= 0 {
		// seems reasonable
		numRoutines = runtime.NumCPU() * 2
		if numRoutines <= 0 {
			// don't know if this can happen, better safe then sorry
			numRoutines = 4
		}
	}

	dir, dirErr := getPath(*tileDir)
	if dirErr != nil {
		log.WithError(dirErr).Fatal("Can't resolve tile directory")
	}
	in, inErr := getPath(*inFile)
	if inErr != nil {
		log.WithError(inErr).Fatal("Can't resolve input path")
	}
	out, outErr := getPath(*outFile)
	if outErr != nil {
		log.WithError(outErr).Fatal("Can't resolve output path")
	}

	size, penaltyFactor := *tileSize, *penalty
	if *adaptive {
		settings, settingsErr := mosaic.SuggestSettings(in, dir)
		if settingsErr != nil {
			log.WithError(settingsErr).Fatal("Can't estimate settings")
		}
		size, penaltyFactor = settings.TileSize, settings.PenaltyFactor
		log.WithFields(log.Fields{
			"tileSize": size,
			"penalty":  penaltyFactor,
			"tiles":    settings.TileCount,
		}).Info("Using adaptive settings")
	}

	fmt.Println("Scanning tile directory", dir)
	numFiles, countErr := mosaic.CountImages(dir, mosaic.JPGAndPNG)
	if countErr != nil {
		log.WithError(countErr).Fatal("Can't read tile directory")
	}
	progress := mosaic.StdProgressFunc(os.Stdout, "Loading tiles", numFiles, 100)

	lib, libErr := mosaic.NewTileLibrary(dir, size, *sigmaDivisor, numRoutines, progress)
	if libErr != nil {
		log.WithError(libErr).Fatal("Can't build tile library")
	}
	lib.SetResizer(mosaic.NewNfntResizer(mosaic.GetInterP(*quality)))
	fmt.Println("Loaded", lib.NumTiles(), "tiles")

	uri, genErr := lib.GenerateMosaic(in, mosaic.MosaicConfig{PenaltyFactor: penaltyFactor})
	if genErr != nil {
		log.WithError(genErr).Fatal("Can't generate mosaic")
	}
	if writeErr := writeDataURI(uri, out); writeErr != nil {
		log.WithError(writeErr).Fatal("Can't write output file")
	}
	fmt.Println("Mosaic written to", out)
}
