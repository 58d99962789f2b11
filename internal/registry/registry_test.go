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

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLookup(t *testing.T) {
	Register("test::lookup", func() any { return "hello" })

	f, ok := Lookup("test::lookup")
	require.True(t, ok)
	assert.Equal(t, "hello", f())
}

func TestLookupMissing(t *testing.T) {
	_, ok := Lookup("test::does-not-exist")
	assert.False(t, ok)
}

func TestRegisterTwiceSameKeyPanics(t *testing.T) {
	Register("test::dup", func() any { return nil })

	assert.PanicsWithValue(t,
		`registry: Register called twice for key "test::dup"`,
		func() { Register("test::dup", func() any { return nil }) })
}

func TestKeysSorted(t *testing.T) {
	Register("test::keys-b", func() any { return nil })
	Register("test::keys-a", func() any { return nil })

	keys := Keys()

	var seenA, seenB, aBeforeB bool
	var idxA, idxB = -1, -1

	for i, k := range keys {
		if k == "test::keys-a" {
			seenA = true
			idxA = i
		}

		if k == "test::keys-b" {
			seenB = true
			idxB = i
		}
	}

	require.True(t, seenA)
	require.True(t, seenB)

	aBeforeB = idxA < idxB
	assert.True(t, aBeforeB)
}
