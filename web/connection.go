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

package web

import (
	"errors"
	"sync"
	"time"

	mosaic "github.com/MattFrayser/image-mosaic-generator"
	"github.com/google/uuid"
)

// ConnectionID identifies one front end connection.
type ConnectionID uuid.UUID

// GenConnectionID returns a new random connection id.
func GenConnectionID() (ConnectionID, error) {
	id, idErr := uuid.NewRandom()
	return ConnectionID(id), idErr
}

func (id ConnectionID) String() string {
	return uuid.UUID(id).String()
}

// State is the per connection state. Each connection owns one LibraryCache:
// the cache serializes generation calls, so two requests on the same
// connection never mutate the same library concurrently.
type State struct {
	created        time.Time
	lastConnection time.Time
	cache          *mosaic.LibraryCache
}

// NewState returns a fresh state with an empty library cache using
// numRoutines workers for library builds.
func NewState(numRoutines int) *State {
	now := time.Now().UTC()
	return &State{
		created:        now,
		lastConnection: now,
		cache:          mosaic.NewLibraryCache(numRoutines),
	}
}

// Touch updates the last connection time.
func (s *State) Touch() {
	s.lastConnection = time.Now().UTC()
}

// Expired returns true if the state hasn't been used for maxAge.
func (s *State) Expired(now time.Time, maxAge time.Duration) bool {
	age := now.Sub(s.lastConnection)
	return age >= maxAge
}

var (
	ErrConnNotFound = errors.New("Connection not found")
)

// ConnectionStorage administrates the states of all connections.
type ConnectionStorage interface {
	Get(conn ConnectionID) (*State, error)
	Set(conn ConnectionID, state *State) error
	Delete(conn ConnectionID) error
	Filter(maxAge time.Duration) error
}

// MemStorage implements ConnectionStorage with an in-memory map.
type MemStorage struct {
	mutex   *sync.RWMutex
	connMap map[ConnectionID]*State
}

// NewMemStorage returns a new empty MemStorage.
func NewMemStorage() *MemStorage {
	m := new(sync.RWMutex)
	connMap := make(map[ConnectionID]*State, 1000)
	return &MemStorage{
		mutex:   m,
		connMap: connMap,
	}
}

func (s *MemStorage) Get(conn ConnectionID) (*State, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	state, has := s.connMap[conn]
	if has {
		return state, nil
	}
	return nil, ErrConnNotFound
}

func (s *MemStorage) Set(conn ConnectionID, state *State) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.connMap[conn] = state
	return nil
}

func (s *MemStorage) Delete(conn ConnectionID) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.connMap, conn)
	return nil
}

func (s *MemStorage) Filter(maxAge time.Duration) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	now := time.Now().UTC()
	for id, state := range s.connMap {
		if state.Expired(now, maxAge) {
			delete(s.connMap, id)
		}
	}
	return nil
}
