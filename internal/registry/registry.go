// Copyright 2017-25 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package registry is a small, format-agnostic plugin table, the same
// shape as database/sql.Register: a format package registers a
// Factory under a key from its init function, and the core package
// never imports the format package back. It exists so that, in
// principle, sibling formats (PBF, o5m, ...) could register themselves
// under the same table without this module depending on them.
package registry

import (
	"fmt"
	"sort"
	"sync"
)

// Factory constructs a format-specific parser value. The registry treats
// the result as opaque; callers type-assert it to whatever interface the
// key's format documents.
type Factory func() any

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register records factory under key. It panics on a duplicate key, the
// same guard database/sql.Register uses against two drivers claiming the
// same name.
func Register(key string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, dup := factories[key]; dup {
		panic(fmt.Sprintf("registry: Register called twice for key %q", key))
	}

	factories[key] = factory
}

// Lookup returns the Factory registered under key, if any.
func Lookup(key string) (Factory, bool) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[key]

	return f, ok
}

// Keys returns the currently registered keys, sorted.
func Keys() []string {
	mu.RLock()
	defer mu.RUnlock()

	keys := make([]string, 0, len(factories))
	for k := range factories {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
