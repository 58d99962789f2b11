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

// ReadTypes is a bitset over {node, way, relation, changeset} selecting
// which top-level entity kinds the parser builds; entities outside the set
// are consumed and discarded.
type ReadTypes uint8

const (
	ReadNodes ReadTypes = 1 << iota
	ReadWays
	ReadRelations
	ReadChangesets

	// ReadNone selects nothing: the parser exits immediately after the
	// header promise is fulfilled.
	ReadNone ReadTypes = 0

	// ReadAll selects every top-level entity kind.
	ReadAll = ReadNodes | ReadWays | ReadRelations | ReadChangesets
)

// Has reports whether the given kind is in the set.
func (r ReadTypes) Has(t EntityType) bool {
	switch t {
	case NODE:
		return r&ReadNodes != 0
	case WAY:
		return r&ReadWays != 0
	case RELATION:
		return r&ReadRelations != 0
	case CHANGESET:
		return r&ReadChangesets != 0
	default:
		return false
	}
}

// IsEmpty reports whether no entity kind is selected.
func (r ReadTypes) IsEmpty() bool {
	return r == ReadNone
}
