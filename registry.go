// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package oak

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/go-enry/go-enry/v2"
)

// ErrUnknownLanguage is returned when no registered frontend handles a
// file.
var ErrUnknownLanguage = errors.New("no frontend for file")

// Registry maps files to the frontends that parse them.
//
// A Registry is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Frontend
	byExt  map[string]*Frontend
	names  []string
}

// NewRegistry returns a registry holding frontends. Panics if two have the
// same name.
func NewRegistry(frontends ...*Frontend) *Registry {
	r := new(Registry)
	for _, fe := range frontends {
		if err := r.Register(fe); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds a frontend. Fails if its name is empty or already taken.
// A frontend registered earlier keeps any extensions both claim.
func (r *Registry) Register(fe *Frontend) error {
	key := strings.ToLower(fe.Name)
	if key == "" {
		return errors.New("oak: frontend has no name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[key]; ok {
		return fmt.Errorf("oak: frontend %q is already registered", fe.Name)
	}
	if r.byName == nil {
		r.byName = make(map[string]*Frontend)
		r.byExt = make(map[string]*Frontend)
	}

	r.byName[key] = fe
	r.names = append(r.names, fe.Name)
	for _, ext := range fe.Extensions {
		ext = strings.ToLower(ext)
		if _, ok := r.byExt[ext]; !ok {
			r.byExt[ext] = fe
		}
	}
	return nil
}

// Get returns the frontend with the given name, ignoring case.
func (r *Registry) Get(name string) (*Frontend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fe, ok := r.byName[strings.ToLower(name)]
	return fe, ok
}

// Frontends returns every registered frontend, sorted by name.
func (r *Registry) Frontends() []*Frontend {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Frontend, 0, len(r.byName))
	for _, fe := range r.byName {
		out = append(out, fe)
	}
	slices.SortFunc(out, func(a, b *Frontend) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Lookup returns the frontend for the file at path, whose content may be
// nil if it is not known.
//
// Claimed extensions are tried first. After that, go-enry guesses the
// language from the file name and a shebang line; a guess is only used if
// it names a registered frontend. As a last resort, with at least two
// frontends to choose from, go-enry's classifier picks the registered
// language the content looks most like.
func (r *Registry) Lookup(path string, content []byte) (*Frontend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if fe, ok := r.byExt[strings.ToLower(filepath.Ext(path))]; ok {
		return fe, true
	}

	if lang, ok := enry.GetLanguageByFilename(path); ok {
		if fe, ok := r.byName[strings.ToLower(lang)]; ok {
			return fe, true
		}
	}
	for _, lang := range enry.GetLanguagesByExtension(path, content, nil) {
		if fe, ok := r.byName[strings.ToLower(lang)]; ok {
			return fe, true
		}
	}
	if len(content) == 0 {
		return nil, false
	}

	if lang, ok := enry.GetLanguageByShebang(content); ok {
		if fe, ok := r.byName[strings.ToLower(lang)]; ok {
			return fe, true
		}
	}
	if len(r.names) < 2 {
		return nil, false
	}
	if lang, ok := enry.GetLanguageByClassifier(content, r.names); ok {
		if fe, ok := r.byName[strings.ToLower(lang)]; ok {
			return fe, true
		}
	}
	return nil, false
}
