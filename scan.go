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
	"os"
	"path/filepath"
)

// ListImages recursively walks root (no depth limit) and returns the paths of
// all regular files whose extension is accepted by filter. If filter is nil
// JPGAndPNG is used. Only the file extension is checked here, whether a file
// actually decodes is decided later.
func ListImages(root string, filter SupportedImageFunc) ([]string, error) {
	if filter == nil {
		filter = JPGAndPNG
	}
	var result []string
	walkFunc := func(path string, info os.FileInfo, err error) error {
		switch {
		case err != nil:
			return err
		case !info.IsDir() && filter(filepath.Ext(path)):
			result = append(result, path)
			return nil
		default:
			return nil
		}
	}
	if err := filepath.Walk(root, walkFunc); err != nil {
		return nil, NewIOError(err)
	}
	return result, nil
}

// CountImages returns the number of supported image files under root. It
// only consumes the directory scan, no image is decoded. This is what the
// adaptive settings estimator uses.
func CountImages(root string, filter SupportedImageFunc) (int, error) {
	paths, err := ListImages(root, filter)
	if err != nil {
		return 0, err
	}
	return len(paths), nil
}
