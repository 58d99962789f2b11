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

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadTypesHas(t *testing.T) {
	r := ReadNodes | ReadWays

	assert.True(t, r.Has(NODE))
	assert.True(t, r.Has(WAY))
	assert.False(t, r.Has(RELATION))
	assert.False(t, r.Has(CHANGESET))
}

func TestReadAllHasEverything(t *testing.T) {
	assert.True(t, ReadAll.Has(NODE))
	assert.True(t, ReadAll.Has(WAY))
	assert.True(t, ReadAll.Has(RELATION))
	assert.True(t, ReadAll.Has(CHANGESET))
}

func TestReadNoneIsEmpty(t *testing.T) {
	assert.True(t, ReadNone.IsEmpty())
	assert.False(t, ReadAll.IsEmpty())
}

func TestReadTypesUnknownKind(t *testing.T) {
	assert.False(t, ReadAll.Has(AREA))
}
