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

// Package web is a small JSON over HTTP binding for the mosaic engine. A
// front end first calls /init to obtain a connection id, then issues
// /settings and /mosaic requests for that connection. Each connection owns
// its own library cache, so repeated /mosaic calls with the same tile
// directory and tile size reuse the already built library.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"runtime"

	mosaic "github.com/MattFrayser/image-mosaic-generator"
	"github.com/google/uuid"

	log "github.com/sirupsen/logrus"
)

var (
	ErrAlreadyHandled = errors.New("Error was already handled")
)

// Context contains everything the handlers need.
type Context struct {
	Storage     ConnectionStorage
	NumRoutines int
}

// NewContext returns a context with a sensible number of worker routines.
func NewContext(storage ConnectionStorage) *Context {
	initialRoutines := runtime.NumCPU() * 2
	if initialRoutines <= 0 {
		// don't know if this can happen, better safe than sorry
		initialRoutines = 4
	}
	return &Context{
		Storage:     storage,
		NumRoutines: initialRoutines,
	}
}

type HandlerFunc func(context *Context, w http.ResponseWriter, r *http.Request) (interface{}, error)

// ToHTTPFunc wraps a HandlerFunc: the result is marshalled to JSON, errors
// from the engine are reported with their message (they're typed and safe to
// show), everything else becomes a plain 500.
func ToHTTPFunc(context *Context, handler HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jsonData, err := handler(context, w, r)
		if err != nil {
			if err == ErrAlreadyHandled {
				return
			}
			log.WithError(err).Error("Error in request")
			var imageErr *mosaic.ImageError
			var configErr *mosaic.ConfigError
			var ioErr *mosaic.IOError
			if errors.As(err, &imageErr) || errors.As(err, &configErr) || errors.As(err, &ioErr) {
				http.Error(w, err.Error(), 422)
			} else {
				http.Error(w, "Internal Server Error", 500)
			}
			return
		}
		jData, jErr := json.Marshal(jsonData)
		if jErr != nil {
			log.WithError(jErr).Error("Internal error: Can't marshal json")
			http.Error(w, "Internal Server Error", 500)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(jData)
	}
}

// JSONMap is a generic JSON object as sent by the front end.
type JSONMap map[string]interface{}

func (m JSONMap) GetString(key string) (string, error) {
	val, has := m[key]
	if !has {
		return "", fmt.Errorf("Key not found: %s", key)
	}
	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("Entry for %s not of type string", key)
	}
	return str, nil
}

func (m JSONMap) GetFloat(key string) (float64, error) {
	val, has := m[key]
	if !has {
		return -1.0, fmt.Errorf("Key not found: %s", key)
	}
	asFloat, ok := val.(float64)
	if !ok {
		return -1.0, fmt.Errorf("Entry for %s not of type float", key)
	}
	return asFloat, nil
}

// GetInt reads an integer entry. JSON numbers always decode to float64, so
// the value is accepted if it is integral.
func (m JSONMap) GetInt(key string) (int, error) {
	asFloat, err := m.GetFloat(key)
	if err != nil {
		return -1, err
	}
	if asFloat != math.Trunc(asFloat) {
		return -1, fmt.Errorf("Entry for %s not of type int", key)
	}
	return int(asFloat), nil
}

// GetConnection parses the "connection" entry into a ConnectionID.
func (m JSONMap) GetConnection() (ConnectionID, error) {
	str, lookupErr := m.GetString("connection")
	var id ConnectionID
	if lookupErr != nil {
		return id, lookupErr
	}
	uid, parseErr := uuid.Parse(str)
	if parseErr != nil {
		return id, parseErr
	}
	id = ConnectionID(uid)
	return id, nil
}

// ProcessRequest decodes the request body into a JSONMap, reporting invalid
// requests directly to the client.
func ProcessRequest(w http.ResponseWriter, r *http.Request) (JSONMap, error) {
	if r.Body == nil {
		http.Error(w, "No request body given", 400)
		return nil, ErrAlreadyHandled
	}
	dec := json.NewDecoder(r.Body)
	m := make(map[string]interface{})
	err := dec.Decode(&m)
	if err != nil {
		http.Error(w,
			fmt.Sprintf("Invalid request, expected valid JSON, got: %s", err.Error()),
			400)
		return nil, ErrAlreadyHandled
	}
	return m, nil
}

type StateHandlerFunc func(state *State, context *Context, w http.ResponseWriter, jsonMap JSONMap) (interface{}, error)

// StateHandlerToHTTPFunc looks up the connection state for the request and
// passes it on to handler.
func StateHandlerToHTTPFunc(context *Context, handler StateHandlerFunc) http.HandlerFunc {
	mosaicHandler := func(context *Context, w http.ResponseWriter, r *http.Request) (interface{}, error) {
		jsonMap, jsonErr := ProcessRequest(w, r)
		if jsonErr != nil {
			return nil, jsonErr
		}
		connectionID, connectionKeyErr := jsonMap.GetConnection()
		if connectionKeyErr != nil {
			http.Error(w, connectionKeyErr.Error(), 400)
			return nil, ErrAlreadyHandled
		}
		state, connErr := context.Storage.Get(connectionID)
		if connErr != nil {
			http.Error(w, connErr.Error(), 400)
			return nil, ErrAlreadyHandled
		}
		state.Touch()
		return handler(state, context, w, jsonMap)
	}
	return ToHTTPFunc(context, mosaicHandler)
}

// InitHandler creates a new connection with its own library cache and
// returns its id.
func InitHandler(context *Context, w http.ResponseWriter, r *http.Request) (interface{}, error) {
	id, idErr := GenConnectionID()
	if idErr != nil {
		return nil, idErr
	}
	if setErr := context.Storage.Set(id, NewState(context.NumRoutines)); setErr != nil {
		return nil, setErr
	}
	res := map[string]string{
		"connection": id.String(),
	}
	return res, nil
}

// mosaicParams are the generation parameters of one /mosaic request.
type mosaicParams struct {
	targetPath    string
	tileDirectory string
	tileSize      int
	penaltyFactor float64
	sigmaDivisor  float64
}

func parseMosaicParams(jsonMap JSONMap) (*mosaicParams, error) {
	target, err := jsonMap.GetString("target_image_path")
	if err != nil {
		return nil, err
	}
	dir, err := jsonMap.GetString("tile_directory")
	if err != nil {
		return nil, err
	}
	tileSize, err := jsonMap.GetInt("tile_size")
	if err != nil {
		return nil, err
	}
	if tileSize <= 0 {
		return nil, fmt.Errorf("tile_size must be positive, got %d", tileSize)
	}
	penalty, err := jsonMap.GetFloat("penalty_factor")
	if err != nil {
		return nil, err
	}
	if penalty < 0 {
		return nil, fmt.Errorf("penalty_factor must not be negative, got %.5f", penalty)
	}
	sigma, err := jsonMap.GetFloat("sigma_divisor")
	if err != nil {
		return nil, err
	}
	return &mosaicParams{
		targetPath:    target,
		tileDirectory: dir,
		tileSize:      tileSize,
		penaltyFactor: penalty,
		sigmaDivisor:  sigma,
	}, nil
}

// MosaicHandler builds or reuses the connection's tile library and generates
// a mosaic. The result is the PNG data URI.
func MosaicHandler(state *State, context *Context, w http.ResponseWriter, jsonMap JSONMap) (interface{}, error) {
	params, paramsErr := parseMosaicParams(jsonMap)
	if paramsErr != nil {
		http.Error(w, paramsErr.Error(), 400)
		return nil, ErrAlreadyHandled
	}
	uri, genErr := state.cache.Generate(params.tileDirectory, params.tileSize,
		params.sigmaDivisor, params.targetPath,
		mosaic.MosaicConfig{PenaltyFactor: params.penaltyFactor})
	if genErr != nil {
		return nil, genErr
	}
	res := map[string]string{
		"image": uri,
	}
	return res, nil
}

// SettingsHandler suggests tile size and penalty factor for a target image
// and tile directory, see mosaic.SuggestSettings.
func SettingsHandler(state *State, context *Context, w http.ResponseWriter, jsonMap JSONMap) (interface{}, error) {
	target, targetErr := jsonMap.GetString("target_image_path")
	if targetErr != nil {
		http.Error(w, targetErr.Error(), 400)
		return nil, ErrAlreadyHandled
	}
	dir, dirErr := jsonMap.GetString("tile_directory")
	if dirErr != nil {
		http.Error(w, dirErr.Error(), 400)
		return nil, ErrAlreadyHandled
	}
	settings, settingsErr := mosaic.SuggestSettings(target, dir)
	if settingsErr != nil {
		return nil, settingsErr
	}
	res := map[string]interface{}{
		"tile_size":      settings.TileSize,
		"penalty_factor": settings.PenaltyFactor,
		"tile_count":     settings.TileCount,
		"image_width":    settings.ImageWidth,
		"image_height":   settings.ImageHeight,
	}
	return res, nil
}

// DefaultHandlers registers all handlers on mux, or on the default mux if
// mux is nil.
func DefaultHandlers(context *Context, mux *http.ServeMux) {
	handle := http.HandleFunc
	if mux != nil {
		handle = mux.HandleFunc
	}
	handle("/init", ToHTTPFunc(context, InitHandler))
	handle("/mosaic", StateHandlerToHTTPFunc(context, MosaicHandler))
	handle("/settings", StateHandlerToHTTPFunc(context, SettingsHandler))
}
