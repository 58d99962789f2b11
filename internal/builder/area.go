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

package builder

import (
	"m4o.io/osmxml/internal/arena"
	"m4o.io/osmxml/model"
)

// AreaBuilder builds an Area item: header, user, tags, then zero or more
// outer and inner rings. The XML parser never constructs an Area itself;
// this builder exists for downstream area assembly, which calls
// InitializeFromObject to copy scalar fields from the source Way or
// Relation.
type AreaBuilder struct {
	ObjectBuilder
}

// NewAreaBuilder starts an Area item in buf. Callers normally follow with
// InitializeFromObject rather than writing h by hand.
func NewAreaBuilder(buf *arena.Buffer, h HeaderRecord) (*AreaBuilder, error) {
	h.Kind = AreaKind

	ob, err := newObject(buf, h)
	if err != nil {
		return nil, err
	}

	return &AreaBuilder{ObjectBuilder: ob}, nil
}

// InitializeFromObject derives the area's id from the source object's id
// and kind (even ids from ways, odd ids from relations; see
// model.AreaIDFromObject), and copies version, changeset, timestamp,
// visibility, and uid. The caller must still supply user via AddUser.
func InitializeFromObject(buf *arena.Buffer, source HeaderRecord, sourceKind model.EntityType) (*AreaBuilder, error) {
	h := HeaderRecord{
		ID:        model.AreaIDFromObject(source.ID, sourceKind),
		Version:   source.Version,
		Changeset: source.Changeset,
		Timestamp: source.Timestamp,
		Visible:   source.Visible,
		UID:       source.UID,
	}

	return NewAreaBuilder(buf, h)
}

// NewOuterRingBuilder starts an outer-ring sublist inside parent.
func NewOuterRingBuilder(buf *arena.Buffer, parent *Builder) (*NodeRefListBuilder, error) {
	return NewNodeRefListBuilder(buf, parent, OuterRing)
}

// NewInnerRingBuilder starts an inner-ring sublist inside parent.
func NewInnerRingBuilder(buf *arena.Buffer, parent *Builder) (*NodeRefListBuilder, error) {
	return NewNodeRefListBuilder(buf, parent, InnerRing)
}
