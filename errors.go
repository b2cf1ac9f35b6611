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
)

// The error types below distinguish the three failure classes callers care
// about: filesystem problems, image decode / resize / encode problems and
// configuration problems (most notably a tile directory without a single
// usable image). Callers can use errors.As to tell them apart and produce
// different user messages.

// IOError is returned for filesystem and read failures.
type IOError struct {
	Err error
}

// NewIOError returns a new IOError wrapping err.
func NewIOError(err error) *IOError {
	return &IOError{Err: err}
}

func (e *IOError) Error() string {
	return fmt.Sprintf("IO error: %v", e.Err)
}

// Unwrap returns the wrapped error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// ImageError is returned when an image can't be decoded, resized or encoded.
// If the failure concerns a specific file Path is set to that file.
type ImageError struct {
	Path string
	Err  error
}

// NewImageError returns a new ImageError. path may be empty if the error is
// not tied to a file (for example an encoding error).
func NewImageError(path string, err error) *ImageError {
	return &ImageError{Path: path, Err: err}
}

func (e *ImageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("image error: %v", e.Err)
	}
	return fmt.Sprintf("image error for \"%s\": %v", e.Path, e.Err)
}

// Unwrap returns the wrapped error.
func (e *ImageError) Unwrap() error {
	return e.Err
}

// ConfigError is returned for invalid configurations, for example a library
// directory that yields no tiles at all.
type ConfigError struct {
	Msg string
}

// NewConfigError returns a new ConfigError with the given message.
func NewConfigError(msg string) *ConfigError {
	return &ConfigError{Msg: msg}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Msg)
}
