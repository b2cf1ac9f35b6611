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
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// SupportedImageFunc is a function that takes a file extension and decides if
// this file extension is supported. Usually our library should support jpg
// and png files, but this may change depending on what image protocols are
// loaded.
//
// The extension passed to this function could be for example ".txt" or ".jpg".
// JPGAndPNG is an implementation accepting jpg and png files.
type SupportedImageFunc func(ext string) bool

// JPGAndPNG is an implementation of SupportedImageFunc accepting jpg and png
// file extensions.
func JPGAndPNG(ext string) bool {
	ext = strings.ToLower(ext)
	switch ext {
	case ".jpg", ".jpeg", ".png":
		return true
	default:
		return false
	}
}

// LoadImage opens the image at path and applies the EXIF orientation if the
// file carries one. On failure an ImageError with the path attached is
// returned.
func LoadImage(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, NewImageError(path, err)
	}
	return img, nil
}

// LoadImageFill loads an image as LoadImage does and then scales it to
// size×size with a fill-then-center-crop strategy: the image is resized so
// the shorter side matches size and the overhang is cropped away around the
// center. Lanczos resampling is used.
func LoadImageFill(path string, size int) (image.Image, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	return imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos), nil
}

// ImageResizer resizes an image to the given width and height, ignoring the
// ratio of the original image.
type ImageResizer interface {
	Resize(width, height uint, img image.Image) image.Image
}

// NfntResizer uses the nfnt/resize package to resize an image.
type NfntResizer struct {
	// InterP is the interpolation function to use.
	InterP resize.InterpolationFunction
}

// NewNfntResizer returns a new resizer given the interpolation function.
func NewNfntResizer(interP resize.InterpolationFunction) NfntResizer {
	return NfntResizer{interP}
}

// Resize calls nfnt/resize methods.
func (resizer NfntResizer) Resize(width, height uint, img image.Image) image.Image {
	return resize.Resize(width, height, img, resizer.InterP)
}

// GetInterP returns an interpolation function given a desired quality.
// The higher the quality the better the interpolation should be, but execution
// time is higher. Currently supported are values between 0 and 4, each
// selecting a different interpolation function. Values greater than 4 are
// treated as 4.
//
// This method assumes that the interpolation functions provided by nfnt/resize
// can be sorted according to their quality. This should be a reasonable
// assumption.
func GetInterP(quality uint) resize.InterpolationFunction {
	switch quality {
	case 0:
		return resize.NearestNeighbor
	case 1:
		return resize.Bilinear
	case 2:
		return resize.Bicubic
	case 3:
		return resize.MitchellNetravali
	case 4:
		return resize.Lanczos2
	default:
		return resize.Lanczos3
	}
}

var (
	// DefaultResizer is the resizer that is used by default when stretching a
	// target image to its padded dimensions.
	DefaultResizer = NewNfntResizer(resize.Lanczos3)
)

// PNGDataURIPrefix is the prefix of all encoded mosaic results.
const PNGDataURIPrefix = "data:image/png;base64,"

// EncodePNGDataURI encodes the image as a PNG and returns it as a
// "data:image/png;base64," URI string.
func EncodePNGDataURI(img image.Image) (string, error) {
	var w strings.Builder
	w.WriteString(PNGDataURIPrefix)
	encoder := base64.NewEncoder(base64.StdEncoding, &w)
	if err := png.Encode(encoder, img); err != nil {
		return "", NewImageError("", err)
	}
	if err := encoder.Close(); err != nil {
		return "", NewImageError("", err)
	}
	return w.String(), nil
}

// DecodePNGDataURI is the inverse of EncodePNGDataURI. It is mostly useful
// for front ends that want the raw image back, for example to write it to a
// file.
func DecodePNGDataURI(s string) (image.Image, error) {
	if !strings.HasPrefix(s, PNGDataURIPrefix) {
		return nil, NewImageError("", errors.New("not a PNG data URI"))
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(s, PNGDataURIPrefix))
	if err != nil {
		return nil, NewImageError("", fmt.Errorf("invalid base64 payload: %w", err))
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, NewImageError("", err)
	}
	return img, nil
}
